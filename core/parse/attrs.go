package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// elementKind groups elements by how legacy alignment maps onto CSS.
type elementKind int

const (
	kindBlock elementKind = iota
	kindTable
	kindImage
)

// alignRules map an align value to a declaration, per element kind.
// A missing entry leaves the attribute alone.
var alignRules = map[string]map[elementKind]string{
	"center": {
		kindBlock: "text-align: center;",
		kindTable: "margin: auto;",
		kindImage: "display: block; margin: auto;",
	},
	"right": {
		kindBlock: "text-align: right;",
		kindTable: "margin-left: auto;",
		kindImage: "float: right;",
	},
	"left": {
		kindBlock: "text-align: left;",
		kindTable: "margin-right: auto;",
		kindImage: "float: left;",
	},
	"justify": {
		kindBlock: "text-align: justify;",
	},
}

func kindOf(tag string) elementKind {
	switch tag {
	case "table":
		return kindTable
	case "img":
		return kindImage
	}
	return kindBlock
}

// normalizeAlign rewrites align attributes into inline styles.
func normalizeAlign(root *goquery.Selection) {
	root.Find("[align]").Each(func(_ int, s *goquery.Selection) {
		value, _ := s.Attr("align")
		decl, ok := alignRules[strings.ToLower(strings.TrimSpace(value))][kindOf(goquery.NodeName(s))]
		if !ok {
			return
		}
		style, _ := s.Attr("style")
		s.SetAttr("style", mergeStyle(style, decl))
		s.RemoveAttr("align")
	})
}

// mergeStyle appends decl to existing, with exactly one "; " between them.
func mergeStyle(existing, decl string) string {
	existing = strings.TrimRight(strings.TrimSpace(existing), "; ")
	if existing == "" {
		return decl
	}
	return existing + "; " + decl
}

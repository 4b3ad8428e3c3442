package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
)

// metadataPrefix marks hidden metadata holders, e.g. <span id="ws-author">.
const metadataPrefix = "ws-"

var metadataSelector = cascadia.MustCompile(`[id^="ws-"], [class*="ws-"]`)

// structuralMarkers share the ws- prefix but carry layout, not metadata.
var structuralMarkers = map[string]bool{
	"ws-summary":     true,
	"ws-noexport":    true,
	"ws-data":        true,
	"ws-pagenum":     true,
	"ws-header":      true,
	"ws-if-mainpage": true,
}

// extractMetadata reads every holder once. The first holder of a key wins.
func extractMetadata(doc *goquery.Document) map[string]string {
	table := make(map[string]string)
	doc.FindMatcher(metadataSelector).Each(func(_ int, s *goquery.Selection) {
		var keys []string
		if id, ok := s.Attr("id"); ok {
			keys = append(keys, id)
		}
		if class, ok := s.Attr("class"); ok {
			keys = append(keys, strings.Fields(class)...)
		}
		for _, key := range keys {
			if !strings.HasPrefix(key, metadataPrefix) || structuralMarkers[key] {
				continue
			}
			if _, set := table[key]; set {
				continue
			}
			table[key] = strings.TrimSpace(s.Text())
		}
	})
	return table
}

// MetadataIsSet reports whether the document carries a holder for key.
func (p *Parser) MetadataIsSet(key string) bool {
	_, ok := p.metadata[key]
	return ok
}

// Metadata returns the value stored for key, or "" when it is not set.
func (p *Parser) Metadata(key string) string {
	return p.metadata[key]
}

// MetadataTable returns a copy of the whole metadata table.
func (p *Parser) MetadataTable() map[string]string {
	out := make(map[string]string, len(p.metadata))
	for k, v := range p.metadata {
		out[k] = v
	}
	return out
}

package parse

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/wsexport/core/wiki"
)

// rewriteIDs renames every id through the registry, then points fragment
// links at the new names. A link to an id used twice in this document
// targets the first element carrying it, as a browser would.
func (p *Parser) rewriteIDs() {
	renamed := make(map[string]string)
	p.doc.Find("[id]").Each(func(_ int, s *goquery.Selection) {
		old, _ := s.Attr("id")
		if strings.TrimSpace(old) == "" {
			s.RemoveAttr("id")
			return
		}
		id := p.ids.Mint(old)
		s.SetAttr("id", id)
		if _, ok := renamed[old]; !ok {
			renamed[old] = id
		}
	})
	if len(renamed) == 0 {
		return
	}

	p.doc.Find(`[href*="#"]`).Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		if !p.localLink(href) {
			return
		}
		i := strings.Index(href, "#")
		fragment := href[i+1:]
		id, ok := renamed[fragment]
		if !ok {
			if decoded, err := url.PathUnescape(fragment); err == nil {
				id, ok = renamed[decoded]
			}
		}
		if ok {
			s.SetAttr("href", href[:i+1]+id)
		}
	})
}

// localLink reports whether href stays on this wiki. Without a base URL
// only relative links are known to.
func (p *Parser) localLink(href string) bool {
	u, err := url.Parse(href)
	if err != nil || wiki.IsExternal(href, p.host) {
		return false
	}
	return u.Host == "" || p.host != ""
}

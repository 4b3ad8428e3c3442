package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// PagesList returns the scan pages transcluded into the document, in
// order and without repeats, e.g. "Página:Pacotilha_poetica.pdf/10".
func (p *Parser) PagesList() ([]string, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	seen := make(map[string]bool)
	pages := []string{}
	p.doc.Find("[data-page-name]").Each(func(_ int, s *goquery.Selection) {
		name, _ := s.Attr("data-page-name")
		name = strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
		if name == "" || seen[name] {
			return
		}
		seen[name] = true
		pages = append(pages, name)
	})
	return pages, nil
}

package parse

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/wsexport/core"
)

// dataTitleAttr lets the packager find the bundled copy of an image.
const dataTitleAttr = "data-title"

// pictureRule derives the title and name of an image from its URL path.
type pictureRule func(path string) (title, name string, ok bool)

// thumbPattern matches MediaWiki thumbnails:
// .../thumb/<h>/<hh>/<file>/<size>px-<file>[.ext]
var thumbPattern = regexp.MustCompile(`/thumb/[^/]+/[^/]+/([^/]+)/(\d+px-[^/]+)$`)

// pictureRules are tried in order; the last one always matches.
var pictureRules = []pictureRule{
	thumbnailRule,
	lastSegmentRule,
}

// thumbnailRule keeps each thumbnail size as its own picture.
func thumbnailRule(path string) (string, string, bool) {
	m := thumbPattern.FindStringSubmatch(path)
	if m == nil {
		return "", "", false
	}
	file, sized := unescape(m[1]), unescape(m[2])
	return file + "-" + sized, file, true
}

// lastSegmentRule collapses every size of a plain URL onto its file name.
func lastSegmentRule(path string) (string, string, bool) {
	name := unescape(path[strings.LastIndex(path, "/")+1:])
	return name, name, name != ""
}

func unescape(s string) string {
	if d, err := url.PathUnescape(s); err == nil {
		return d
	}
	return s
}

// PicturesList returns the pictures of the document keyed by title and
// tags every collected image with data-title.
func (p *Parser) PicturesList() (map[string]core.Picture, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	p.collectPictures()

	out := make(map[string]core.Picture, len(p.pictures))
	for k, v := range p.pictures {
		out[k] = v
	}
	return out, nil
}

func (p *Parser) collectPictures() {
	if p.collected {
		return
	}
	p.collected = true

	p.doc.Find("img[src]").Each(func(_ int, s *goquery.Selection) {
		if inChrome(s) {
			return
		}
		src, _ := s.Attr("src")
		u, ok := p.pictureURL(src)
		if !ok {
			return
		}

		var pic core.Picture
		for _, rule := range pictureRules {
			if title, name, ok := rule(u.EscapedPath()); ok {
				pic = core.Picture{Title: title, Name: name, URL: u.String()}
				break
			}
		}
		if pic.Title == "" {
			return
		}
		if existing, ok := s.Attr(dataTitleAttr); ok && existing != "" {
			pic.Title = existing
		}

		p.pictures[pic.Title] = pic
		s.SetAttr(dataTitleAttr, pic.Title)
	})
}

// pictureURL accepts absolute and scheme-relative URLs; relative ones
// only when a base URL is known.
func (p *Parser) pictureURL(src string) (*url.URL, bool) {
	u, err := url.Parse(strings.TrimSpace(src))
	if err != nil {
		return nil, false
	}
	switch {
	case u.Scheme == "http" || u.Scheme == "https":
		return u, true
	case u.Scheme == "" && u.Host != "":
		return u, true
	case u.Scheme == "" && p.base != nil && u.Path != "":
		return p.base.ResolveReference(u), true
	}
	return nil, false
}

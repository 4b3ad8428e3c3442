// Package parse turns one rendered wiki page into ebook-ready parts: a
// table of contents, the pictures it references, its hidden metadata and
// a normalized content tree whose identifiers are unique across a run.
package parse

import (
	"errors"
	"fmt"
	"io"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"

	"github.com/gaurav-prasanna/wsexport/core"
)

// ErrFinalized is returned when a parser is used after Content has
// handed out its tree.
var ErrFinalized = errors.New("parse: document already finalized")

// chromeSelectors match wiki chrome that never belongs in a book.
var chromeSelectors = []cascadia.Selector{
	cascadia.MustCompile(".mw-editsection, .editsection"),
	cascadia.MustCompile("#toc, .toc, .mw-toc"),
	cascadia.MustCompile(".ws-noexport, .noprint"),
	cascadia.MustCompile(".navbox, .mw-jump-link"),
	cascadia.MustCompile("script, noscript"),
}

// inChrome reports whether s sits inside wiki chrome.
func inChrome(s *goquery.Selection) bool {
	for _, sel := range chromeSelectors {
		if s.ClosestMatcher(sel).Length() > 0 {
			return true
		}
	}
	return false
}

// headerSelector matches header templates repeated on every chapter page.
var headerSelector = cascadia.MustCompile("#headertemplate, .ws-header")

// Filters narrow the links accepted as chapters.
type Filters struct {
	Exclude    []string // titles never treated as chapters, e.g. picture pages
	Namespaces []string // namespaces skipped in addition to wiki.DeniedNamespaces
}

// Result is everything extracted from one document.
type Result struct {
	Content  *goquery.Document
	Chapters []core.Chapter
	Pictures map[string]core.Picture
	Metadata map[string]string
	Pages    []string
}

// Parser extracts and normalizes one document. It is not safe for
// concurrent use; only its Registry is shared.
type Parser struct {
	doc       *goquery.Document
	ids       *Registry
	base      *url.URL
	host      string
	metadata  map[string]string
	pictures  map[string]core.Picture
	collected bool
	finalized bool
}

// Option configures a Parser.
type Option func(*Parser)

// WithBaseURL resolves relative image URLs against raw and treats
// absolute links to other hosts as external.
func WithBaseURL(raw string) Option {
	return func(p *Parser) {
		u, err := url.Parse(raw)
		if err != nil || u.Host == "" {
			return
		}
		p.base = u
		p.host = u.Host
	}
}

// New prepares doc for extraction and reads its metadata. Wiki chrome
// stays in place until Content, so chapter lists see the whole page.
// A nil registry gives the parser a run of its own.
func New(doc *goquery.Document, ids *Registry, opts ...Option) *Parser {
	if ids == nil {
		ids = NewRegistry()
	}
	p := &Parser{
		doc:      doc,
		ids:      ids,
		pictures: make(map[string]core.Picture),
	}
	for _, opt := range opts {
		opt(p)
	}

	p.metadata = extractMetadata(doc)
	return p
}

// NewFromReader parses HTML from r and wraps it in a Parser.
func NewFromReader(r io.Reader, ids *Registry, opts ...Option) (*Parser, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return New(doc, ids, opts...), nil
}

// Content strips wiki chrome, runs the remaining passes (pictures,
// legacy attributes, identifiers, in that order) and returns the
// normalized tree. Header templates are dropped unless isMainPage. The
// parser is finalized afterwards.
func (p *Parser) Content(isMainPage bool) (*goquery.Document, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	if !isMainPage {
		p.doc.FindMatcher(headerSelector).Remove()
	}
	for _, sel := range chromeSelectors {
		p.doc.FindMatcher(sel).Remove()
	}
	p.collectPictures()
	normalizeAlign(p.doc.Selection)
	p.rewriteIDs()
	p.finalized = true
	return p.doc, nil
}

// Parse extracts everything at once, in the order the passes require.
func (p *Parser) Parse(workTitle string, f Filters, isMainPage bool) (*Result, error) {
	chapters, err := p.FullChaptersList(workTitle, f)
	if err != nil {
		return nil, err
	}
	pages, err := p.PagesList()
	if err != nil {
		return nil, err
	}
	pictures, err := p.PicturesList()
	if err != nil {
		return nil, err
	}
	doc, err := p.Content(isMainPage)
	if err != nil {
		return nil, err
	}
	return &Result{
		Content:  doc,
		Chapters: chapters,
		Pictures: pictures,
		Metadata: p.MetadataTable(),
		Pages:    pages,
	}, nil
}

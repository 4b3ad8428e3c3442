// Package book assembles a whole book: it fetches the main page of a
// work and every chapter it lists, normalizing each through one shared
// naming context so the pages can be concatenated safely.
package book

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/parse"
	"github.com/gaurav-prasanna/wsexport/core/wiki"
	"github.com/gaurav-prasanna/wsexport/internal/logger"
)

// ErrNoContent is returned when the main page yields neither text nor chapters.
var ErrNoContent = errors.New("book has no content")

// defaultMaxDepth bounds how deep chapter pages are followed.
const defaultMaxDepth = 3

// Assets are the per-language extras prepared by a refresh.
type Assets struct {
	CSS   string
	About string
}

// Provider builds books from a wiki.
type Provider struct {
	fetcher  core.Fetcher
	site     wiki.Site
	filters  parse.Filters
	maxDepth int
	assets   Assets
}

// Option configures a Provider.
type Option func(*Provider)

// WithFilters sets the chapter filters passed to every parser.
func WithFilters(f parse.Filters) Option {
	return func(p *Provider) { p.filters = f }
}

// WithMaxDepth limits how many levels of chapter pages are followed.
func WithMaxDepth(d int) Option {
	return func(p *Provider) {
		if d > 0 {
			p.maxDepth = d
		}
	}
}

// WithAssets attaches stylesheet and about page content to every book.
func WithAssets(a Assets) Option {
	return func(p *Provider) { p.assets = a }
}

// NewProvider creates a Provider reading from site through fetcher.
func NewProvider(fetcher core.Fetcher, site wiki.Site, opts ...Option) *Provider {
	p := &Provider{fetcher: fetcher, site: site, maxDepth: defaultMaxDepth}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// run is the state of one export.
type run struct {
	log      *slog.Logger
	ids      *parse.Registry
	seen     *queue
	pictures map[string]core.Picture
}

// Get fetches and assembles the book whose main page is title. Chapter
// pages are processed strictly in book order; a chapter that cannot be
// fetched is logged and left out.
func (p *Provider) Get(ctx context.Context, title string) (*core.Book, error) {
	title = wiki.NormalizeTitle(title)
	r := &run{
		log:      logger.With("book", title),
		ids:      parse.NewRegistry(),
		seen:     newQueue(),
		pictures: make(map[string]core.Picture),
	}
	r.seen.Add(title)

	parser, err := p.parser(ctx, title, r)
	if err != nil {
		return nil, fmt.Errorf("fetching main page %q: %w", title, err)
	}
	res, err := parser.Parse(title, p.filters, true)
	if err != nil {
		return nil, fmt.Errorf("parsing main page %q: %w", title, err)
	}
	r.addPictures(res.Pictures)

	book := &core.Book{
		Title:      title,
		Name:       strings.ReplaceAll(title, "_", " "),
		Lang:       p.site.Lang,
		Identifier: "urn:uuid:" + uuid.NewString(),
		Content:    parse.InnerXHTML(parse.Body(res.Content)),
		CSS:        p.assets.CSS,
		About:      p.assets.About,
	}
	applyMetadata(book, res.Metadata)

	book.Chapters, err = p.chapters(ctx, res.Chapters, r, 1)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(book.Content) == "" && len(book.Chapters) == 0 {
		return nil, fmt.Errorf("%q: %w", title, ErrNoContent)
	}
	book.Pictures = r.pictures

	r.log.Debug("book assembled", "chapters", len(book.Chapters), "pages", r.seen.Visited(),
		"pictures", len(book.Pictures), "ids", r.ids.Len())
	return book, nil
}

func (p *Provider) chapters(ctx context.Context, list []core.Chapter, r *run, depth int) ([]*core.Page, error) {
	var pages []*core.Page
	for _, ch := range list {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if !r.seen.Add(ch.Title) {
			continue
		}

		page, nested, err := p.page(ctx, ch, r)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			r.log.Warn("skipping chapter", "title", ch.Title, "error", err)
			continue
		}

		if len(ch.Subchapters) > 0 {
			nested = ch.Subchapters
		}
		if depth < p.maxDepth && len(nested) > 0 {
			page.Subchapters, err = p.chapters(ctx, nested, r, depth+1)
			if err != nil {
				return nil, err
			}
		}
		pages = append(pages, page)
	}
	return pages, nil
}

// page fetches and normalizes one chapter and returns the chapters its
// own page lists.
func (p *Provider) page(ctx context.Context, ch core.Chapter, r *run) (*core.Page, []core.Chapter, error) {
	parser, err := p.parser(ctx, ch.Title, r)
	if err != nil {
		return nil, nil, err
	}
	nested, err := parser.ChaptersList(ch.Title, p.filters)
	if err != nil {
		return nil, nil, err
	}
	pages, err := parser.PagesList()
	if err != nil {
		return nil, nil, err
	}
	pictures, err := parser.PicturesList()
	if err != nil {
		return nil, nil, err
	}
	doc, err := parser.Content(false)
	if err != nil {
		return nil, nil, err
	}
	r.addPictures(pictures)

	r.log.Debug("chapter parsed", "title", ch.Title, "subchapters", len(nested))
	return &core.Page{
		Title:   ch.Title,
		Name:    ch.Name,
		Content: parse.InnerXHTML(parse.Body(doc)),
		Pages:   pages,
	}, nested, nil
}

// parser fetches title. Nothing touches the run's registry until the
// fetch has succeeded.
func (p *Provider) parser(ctx context.Context, title string, r *run) (*parse.Parser, error) {
	res, err := p.fetcher.Fetch(ctx, p.site.RenderURL(title))
	if err != nil {
		return nil, err
	}
	return parse.NewFromReader(strings.NewReader(res.HTML), r.ids, parse.WithBaseURL(p.site.PageURL(title)))
}

func (r *run) addPictures(pictures map[string]core.Picture) {
	for k, v := range pictures {
		r.pictures[k] = v
	}
}

// applyMetadata copies the ws-* metadata of the main page onto book.
func applyMetadata(book *core.Book, meta map[string]string) {
	fields := map[string]*string{
		"ws-title":       &book.Name,
		"ws-type":        &book.Type,
		"ws-author":      &book.Author,
		"ws-translator":  &book.Translator,
		"ws-illustrator": &book.Illustrator,
		"ws-school":      &book.School,
		"ws-publisher":   &book.Publisher,
		"ws-year":        &book.Year,
		"ws-place":       &book.Place,
		"ws-key":         &book.Key,
		"ws-periodical":  &book.Periodical,
		"ws-cover":       &book.Cover,
	}
	for key, dst := range fields {
		if v := meta[key]; v != "" {
			*dst = v
		}
	}
}

// Package refresh caches per-language book assets: the ebook stylesheet
// and the "about" page, both maintained on the wiki itself.
package refresh

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/parse"
	"github.com/gaurav-prasanna/wsexport/core/wiki"
	"github.com/gaurav-prasanna/wsexport/internal/logger"
)

const (
	cssFile   = "epub.css"
	aboutFile = "about.xhtml"

	cssPage   = "MediaWiki:Epub.css"
	aboutPage = "MediaWiki:Wsexport_about"
)

// baseCSS is always shipped; the wiki stylesheet is appended to it.
const baseCSS = `body { font-family: serif; line-height: 1.4; }
img { max-width: 100%; }
table { border-collapse: collapse; }
.center, .ws-center { text-align: center; }
.pagenum, .ws-pagenum { display: none; }
sup.reference { font-size: 0.7em; }
`

// Refresher downloads assets into a temp directory, one folder per language.
type Refresher struct {
	fetcher core.Fetcher
	dir     string
}

// New creates a Refresher writing under dir.
func New(fetcher core.Fetcher, dir string) *Refresher {
	return &Refresher{fetcher: fetcher, dir: dir}
}

// Refresh updates the cached assets of site. Missing wiki pages are not
// errors: the stylesheet falls back to the built-in one, and the about
// page to the multilingual wiki.
func (r *Refresher) Refresh(ctx context.Context, site wiki.Site) error {
	langDir := filepath.Join(r.dir, site.Lang)
	if err := os.MkdirAll(langDir, 0755); err != nil {
		return fmt.Errorf("creating directory %s: %w", langDir, err)
	}

	css := baseCSS
	if extra, err := r.get(ctx, site.RawURL(cssPage, "text/css")); err == nil {
		css += "\n" + extra
	}
	if err := os.WriteFile(filepath.Join(langDir, cssFile), []byte(css), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", cssFile, err)
	}

	about, err := r.get(ctx, site.RenderURL(aboutPage))
	if err != nil {
		multi := wiki.NewSite(wiki.MultilingualSite, site.Lang)
		about, err = r.get(ctx, multi.RenderURL(aboutPage))
	}
	if err != nil || strings.TrimSpace(about) == "" {
		return ctx.Err()
	}
	about = strings.ReplaceAll(about, `href="//`, `href="https://`)
	if doc, err := goquery.NewDocumentFromReader(strings.NewReader(about)); err == nil {
		about = parse.RenderXHTML(parse.Body(doc).Contents())
	}
	if err := os.WriteFile(filepath.Join(langDir, aboutFile), []byte(about), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", aboutFile, err)
	}
	return nil
}

func (r *Refresher) get(ctx context.Context, url string) (string, error) {
	res, err := r.fetcher.Fetch(ctx, url)
	if err != nil {
		logger.Debug("refresh fetch failed", "url", url, "error", err)
		return "", err
	}
	return res.HTML, nil
}

// Load reads the cached assets of lang. Missing files are not errors; a
// missing stylesheet yields the built-in one.
func Load(dir, lang string) (css, about string, err error) {
	langDir := filepath.Join(dir, lang)

	data, err := os.ReadFile(filepath.Join(langDir, cssFile))
	switch {
	case err == nil:
		css = string(data)
	case errors.Is(err, fs.ErrNotExist):
		css = baseCSS
	default:
		return "", "", fmt.Errorf("reading %s: %w", cssFile, err)
	}

	data, err = os.ReadFile(filepath.Join(langDir, aboutFile))
	switch {
	case err == nil:
		about = string(data)
	case !errors.Is(err, fs.ErrNotExist):
		return "", "", fmt.Errorf("reading %s: %w", aboutFile, err)
	}
	return css, about, nil
}

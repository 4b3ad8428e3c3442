// Package render turns an assembled book into its output formats.
// This file implements the EPUB renderer on top of go-epub.
package render

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"
	epub "github.com/go-shiori/go-epub"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/parse"
	"github.com/gaurav-prasanna/wsexport/internal/logger"
)

// EPUBRenderer renders a book as an EPUB 3 file.
type EPUBRenderer struct{}

// NewEPUBRenderer creates an EPUBRenderer.
func NewEPUBRenderer() *EPUBRenderer {
	return &EPUBRenderer{}
}

// Render bundles the book pages, pictures and stylesheet into an EPUB.
// Pictures that cannot be fetched keep their remote src.
func (r *EPUBRenderer) Render(book *core.Book) ([]byte, error) {
	e, err := epub.NewEpub(book.Name)
	if err != nil {
		return nil, fmt.Errorf("creating epub: %w", err)
	}
	e.SetLang(book.Lang)
	e.SetIdentifier(book.Identifier)
	if book.Author != "" {
		e.SetAuthor(book.Author)
	}
	if desc := description(book); desc != "" {
		e.SetDescription(desc)
	}

	cssPath := ""
	if book.CSS != "" {
		uri := "data:text/css;base64," + base64.StdEncoding.EncodeToString([]byte(book.CSS))
		if cssPath, err = e.AddCSS(uri, "epub.css"); err != nil {
			logger.Warn("could not add stylesheet", "error", err)
			cssPath = ""
		}
	}

	images := addPictures(e, book.Pictures)
	b := &epubBuilder{epub: e, css: cssPath, images: images}

	if strings.TrimSpace(book.Content) != "" {
		if _, err := b.section("", book.Content, book.Name, "title.xhtml"); err != nil {
			return nil, err
		}
	}
	for _, page := range book.Chapters {
		if err := b.page("", page); err != nil {
			return nil, err
		}
	}
	if strings.TrimSpace(book.About) != "" {
		if _, err := b.section("", book.About, "About", "about.xhtml"); err != nil {
			return nil, err
		}
	}
	if b.count == 0 {
		return nil, fmt.Errorf("book %q has no sections", book.Title)
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("writing epub: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for EPUB output.
func (r *EPUBRenderer) Extension() string {
	return ".epub"
}

type epubBuilder struct {
	epub   *epub.Epub
	css    string
	images map[string]string
	count  int
}

// page adds page and its subchapters. go-epub nests one level only, so
// deeper chapters hang off the top-level section they belong to.
func (b *epubBuilder) page(parent string, page *core.Page) error {
	name, err := b.section(parent, page.Content, page.Name, "")
	if err != nil {
		return err
	}
	if parent == "" {
		parent = name
	}
	for _, sub := range page.Subchapters {
		if err := b.page(parent, sub); err != nil {
			return err
		}
	}
	return nil
}

func (b *epubBuilder) section(parent, body, title, filename string) (string, error) {
	body = b.localizeImages(body)
	b.count++
	if filename == "" {
		filename = fmt.Sprintf("section%04d.xhtml", b.count)
	}
	var (
		name string
		err  error
	)
	if parent == "" {
		name, err = b.epub.AddSection(body, title, filename, b.css)
	} else {
		name, err = b.epub.AddSubSection(parent, body, title, filename, b.css)
	}
	if err != nil {
		return "", fmt.Errorf("adding section %q: %w", title, err)
	}
	return name, nil
}

// localizeImages points every img[data-title] at its bundled copy.
func (b *epubBuilder) localizeImages(body string) string {
	if len(b.images) == 0 || !strings.Contains(body, "data-title") {
		return body
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return body
	}
	doc.Find("img[data-title]").Each(func(_ int, img *goquery.Selection) {
		title, _ := img.Attr("data-title")
		if path, ok := b.images[title]; ok {
			img.SetAttr("src", path)
			img.RemoveAttr("srcset")
		}
	})
	return parse.InnerXHTML(parse.Body(doc))
}

// addPictures adds pictures in title order and returns their internal paths.
func addPictures(e *epub.Epub, pictures map[string]core.Picture) map[string]string {
	titles := make([]string, 0, len(pictures))
	for title := range pictures {
		titles = append(titles, title)
	}
	sort.Strings(titles)

	paths := make(map[string]string, len(titles))
	for _, title := range titles {
		pic := pictures[title]
		path, err := e.AddImage(pictureSource(pic.URL), imageFilename(title))
		if err != nil {
			logger.Warn("could not add picture", "title", title, "url", pic.URL, "error", err)
			continue
		}
		paths[title] = path
	}
	return paths
}

func pictureSource(u string) string {
	if strings.HasPrefix(u, "//") {
		return "https:" + u
	}
	return u
}

// imageFilename keeps a picture title usable as a zip entry name.
func imageFilename(title string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ', '%':
			return '_'
		}
		return r
	}, title)
}

// description summarizes the book's bibliographic metadata.
func description(book *core.Book) string {
	var parts []string
	add := func(label, v string) {
		if v != "" {
			parts = append(parts, label+": "+v)
		}
	}
	add("Translator", book.Translator)
	add("Illustrator", book.Illustrator)
	add("Publisher", book.Publisher)
	add("Year", book.Year)
	add("Place", book.Place)
	return strings.Join(parts, "; ")
}

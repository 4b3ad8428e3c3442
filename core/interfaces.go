// Package core defines the data model and pipeline interfaces for wsexport.
// A book export runs fetch → parse → assemble → render, and each stage
// is a small, testable piece behind one of these types.
package core

import "context"

// FetchResult holds the raw body and response metadata from a fetch.
type FetchResult struct {
	URL        string
	StatusCode int
	HTML       string
}

// Chapter is one table-of-contents entry derived from a navigational link.
type Chapter struct {
	Title       string    `json:"title"`
	Name        string    `json:"name"`
	Subchapters []Chapter `json:"subchapters,omitempty"`
}

// Picture is one image referenced by the book. Title is the
// de-duplication key across the whole book.
type Picture struct {
	Title string `json:"title"`
	Name  string `json:"name"`
	URL   string `json:"url"`
}

// Page is a normalized wiki page ready to be embedded in a book.
type Page struct {
	Title       string   `json:"title"`
	Name        string   `json:"name"`
	Content     string   `json:"-"` // body fragment, XHTML serialized
	Pages       []string `json:"pages,omitempty"`
	Subchapters []*Page  `json:"subchapters,omitempty"`
}

// Book is the assembled result of one export run.
type Book struct {
	Title       string             `json:"title"`
	Name        string             `json:"name"`
	Lang        string             `json:"lang"`
	Identifier  string             `json:"identifier"`
	Type        string             `json:"type,omitempty"`
	Author      string             `json:"author,omitempty"`
	Translator  string             `json:"translator,omitempty"`
	Illustrator string             `json:"illustrator,omitempty"`
	School      string             `json:"school,omitempty"`
	Publisher   string             `json:"publisher,omitempty"`
	Year        string             `json:"year,omitempty"`
	Place       string             `json:"place,omitempty"`
	Key         string             `json:"key,omitempty"`
	Periodical  string             `json:"periodical,omitempty"`
	Cover       string             `json:"cover,omitempty"`
	Content     string             `json:"-"`
	Chapters    []*Page            `json:"chapters"`
	Pictures    map[string]Picture `json:"pictures"`
	CSS         string             `json:"-"`
	About       string             `json:"-"`
}

// Fetcher retrieves a raw document from a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
}

// Renderer converts an assembled book into a final output format.
type Renderer interface {
	Render(book *Book) ([]byte, error)
	// Extension returns the file extension for this renderer (e.g. ".epub", ".pdf").
	Extension() string
}

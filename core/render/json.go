// This file implements the JSON renderer: a summary of the book with
// its metadata, table of contents, pictures and heading outline.
package render

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/gaurav-prasanna/wsexport/core"
)

// Heading is one entry of the book outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
}

// Summary is the document written by the JSON renderer.
type Summary struct {
	*core.Book
	Outline   []Heading `json:"outline"`
	WordCount int       `json:"word_count"`
}

// JSONRenderer produces a JSON summary of a book.
type JSONRenderer struct{}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{}
}

// Render marshals the book summary.
func (r *JSONRenderer) Render(book *core.Book) ([]byte, error) {
	md, err := Markdown(book)
	if err != nil {
		return nil, err
	}
	summary := Summary{
		Book:      book,
		Outline:   extractHeadings(md),
		WordCount: len(strings.Fields(stripMarkdown(md))),
	}
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling JSON: %w", err)
	}
	return data, nil
}

// Extension returns the file extension for JSON output.
func (r *JSONRenderer) Extension() string {
	return ".json"
}

var headingRegex = regexp.MustCompile(`(?m)^(#{1,6})\s+(.+)$`)

func extractHeadings(md string) []Heading {
	matches := headingRegex.FindAllStringSubmatch(md, -1)
	headings := make([]Heading, 0, len(matches))
	for _, m := range matches {
		headings = append(headings, Heading{
			Level: len(m[1]),
			Text:  cleanInlineMarkdown(m[2]),
		})
	}
	return headings
}

// stripMarkdown removes common Markdown formatting to produce plain text.
func stripMarkdown(md string) string {
	text := headingRegex.ReplaceAllString(md, "$2")
	text = mdImage.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = strings.NewReplacer("**", "", "__", "", "*", "", "`", "").Replace(text)
	return strings.TrimSpace(text)
}

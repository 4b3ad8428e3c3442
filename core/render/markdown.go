// This file implements the Markdown renderer. The book is flattened to
// one HTML document and converted with html-to-markdown.
package render

import (
	"fmt"
	"html"
	"strings"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"

	"github.com/gaurav-prasanna/wsexport/core"
)

// MarkdownRenderer renders a book as a single Markdown file.
type MarkdownRenderer struct{}

// NewMarkdownRenderer creates a MarkdownRenderer.
func NewMarkdownRenderer() *MarkdownRenderer {
	return &MarkdownRenderer{}
}

// Render converts the book to Markdown.
func (r *MarkdownRenderer) Render(book *core.Book) ([]byte, error) {
	md, err := Markdown(book)
	if err != nil {
		return nil, err
	}
	return []byte(md), nil
}

// Extension returns the file extension for Markdown output.
func (r *MarkdownRenderer) Extension() string {
	return ".md"
}

// Markdown converts the whole book, chapters in order, to Markdown.
func Markdown(book *core.Book) (string, error) {
	md, err := htmltomarkdown.ConvertString(BookHTML(book))
	if err != nil {
		return "", fmt.Errorf("converting HTML to markdown: %w", err)
	}
	return md, nil
}

// BookHTML concatenates the book into one HTML fragment. Chapter names
// become headings whose level follows the chapter depth.
func BookHTML(book *core.Book) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", html.EscapeString(book.Name))
	if book.Author != "" {
		fmt.Fprintf(&b, "<p><em>%s</em></p>\n", html.EscapeString(book.Author))
	}
	b.WriteString(book.Content)
	b.WriteString("\n")
	for _, page := range book.Chapters {
		writePage(&b, page, 2)
	}
	return b.String()
}

func writePage(b *strings.Builder, page *core.Page, level int) {
	if level > 6 {
		level = 6
	}
	fmt.Fprintf(b, "<h%d>%s</h%d>\n", level, html.EscapeString(page.Name), level)
	b.WriteString(page.Content)
	b.WriteString("\n")
	for _, sub := range page.Subchapters {
		writePage(b, sub, level+1)
	}
}

// This file implements the PDF renderer. It lays out the Markdown
// rendition of the book with gofpdf: headings, paragraphs, lists and
// quotes. Images are not embedded.
package render

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/gaurav-prasanna/wsexport/core"
)

var (
	numberedItem = regexp.MustCompile(`^\d+\.\s`)
	boldItalic   = regexp.MustCompile(`(?:^|\s)\*([^*]+)\*(?:\s|$)`)
	inlineCode   = regexp.MustCompile("`([^`]+)`")
	mdImage      = regexp.MustCompile(`!\[([^\]]*)\]\([^)]+\)`)
	mdLink       = regexp.MustCompile(`\[([^\]]*)\]\([^)]+\)`)
	mdEscape     = regexp.MustCompile(`\\([\\*_\[\]()#.!-])`)
)

// PDFRenderer renders a book as a PDF document.
type PDFRenderer struct{}

// NewPDFRenderer creates a PDFRenderer.
func NewPDFRenderer() *PDFRenderer {
	return &PDFRenderer{}
}

// Render converts the book into PDF bytes.
func (r *PDFRenderer) Render(book *core.Book) ([]byte, error) {
	md, err := Markdown(book)
	if err != nil {
		return nil, err
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle(book.Name, true)
	pdf.SetAuthor(book.Author, true)
	pdf.SetAutoPageBreak(true, 15)
	pdf.AddPage()
	// core fonts are cp1252; translate what can be translated
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if book.Year != "" || book.Publisher != "" {
		pdf.SetFont("Helvetica", "I", 9)
		pdf.SetTextColor(100, 100, 100)
		pdf.MultiCell(0, 5, tr(strings.TrimSpace(book.Publisher+" "+book.Year)), "", "L", false)
		pdf.SetTextColor(0, 0, 0)
		pdf.Ln(4)
	}

	for _, line := range strings.Split(md, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "":
			pdf.Ln(3)
		case strings.HasPrefix(trimmed, "#"):
			level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
			renderHeading(pdf, tr(cleanInlineMarkdown(strings.TrimLeft(trimmed, "# "))), level)
		case strings.HasPrefix(trimmed, "- ") || strings.HasPrefix(trimmed, "* "):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr("• "+cleanInlineMarkdown(trimmed[2:])), "", "L", false)
		case numberedItem.MatchString(trimmed):
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(trimmed)), "", "L", false)
		case strings.HasPrefix(trimmed, ">"):
			pdf.SetFont("Helvetica", "I", 10)
			pdf.SetX(pdf.GetX() + 6)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(strings.TrimLeft(trimmed, "> "))), "", "L", false)
		default:
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(cleanInlineMarkdown(line)), "", "J", false)
		}
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("writing pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// Extension returns the file extension for PDF output.
func (r *PDFRenderer) Extension() string {
	return ".pdf"
}

// renderHeading sets the font size based on heading level and writes text.
func renderHeading(pdf *gofpdf.Fpdf, text string, level int) {
	sizes := map[int]float64{1: 18, 2: 15, 3: 13, 4: 12, 5: 11, 6: 10}
	size, ok := sizes[level]
	if !ok {
		size = 10
	}
	if level == 2 {
		pdf.AddPage()
	} else {
		pdf.Ln(4)
	}
	pdf.SetFont("Helvetica", "B", size)
	pdf.MultiCell(0, size*0.6, text, "", "L", false)
	pdf.Ln(2)
}

// cleanInlineMarkdown strips inline Markdown formatting for PDF rendering.
func cleanInlineMarkdown(text string) string {
	text = strings.ReplaceAll(text, "**", "")
	text = strings.ReplaceAll(text, "__", "")
	text = boldItalic.ReplaceAllString(text, " $1 ")
	text = inlineCode.ReplaceAllString(text, "$1")
	text = mdImage.ReplaceAllString(text, "")
	text = mdLink.ReplaceAllString(text, "$1")
	text = mdEscape.ReplaceAllString(text, "$1")
	return strings.TrimSpace(text)
}

package render

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/wsexport/core"
)

const tinyPNG = "data:image/png;base64,iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII="

func testBook() *core.Book {
	return &core.Book{
		Title:      "Tales_of_Unrest",
		Name:       "Tales of Unrest",
		Lang:       "en",
		Identifier: "urn:uuid:0b6f7f9e-7f44-4c1c-9d6e-0d0b1bb5f1f1",
		Author:     "Joseph Conrad",
		Year:       "1898",
		Content:    `<p id="id-intro">Five stories.</p>`,
		CSS:        "p { margin: 0; }",
		About:      `<p>Exported from Wikisource.</p>`,
		Chapters: []*core.Page{
			{
				Title:   "Tales_of_Unrest/Karain",
				Name:    "Karain",
				Content: `<p>We knew him.</p><img src="https://upload.wikimedia.org/tiny.png" data-title="Tiny.png"/>`,
				Subchapters: []*core.Page{
					{Title: "Tales_of_Unrest/Karain/I", Name: "Part I", Content: `<p>First part.</p>`},
				},
			},
			{Title: "Tales_of_Unrest/The_Idiots", Name: "The Idiots", Content: `<p>We were driving.</p>`},
		},
		Pictures: map[string]core.Picture{
			"Tiny.png": {Title: "Tiny.png", Name: "Tiny.png", URL: tinyPNG},
		},
	}
}

func TestMarkdownRenderer(t *testing.T) {
	data, err := NewMarkdownRenderer().Render(testBook())
	require.NoError(t, err)

	md := string(data)
	assert.Contains(t, md, "# Tales of Unrest")
	assert.Contains(t, md, "Joseph Conrad")
	assert.Contains(t, md, "## Karain")
	assert.Contains(t, md, "### Part I")
	assert.Contains(t, md, "## The Idiots")
	assert.Less(t, strings.Index(md, "Karain"), strings.Index(md, "The Idiots"))
	assert.Equal(t, ".md", NewMarkdownRenderer().Extension())
}

func TestBookHTML_ClampsHeadingLevel(t *testing.T) {
	page := &core.Page{Name: "deep"}
	for i := 0; i < 6; i++ {
		page = &core.Page{Name: "level", Subchapters: []*core.Page{page}}
	}
	out := BookHTML(&core.Book{Name: "B", Chapters: []*core.Page{page}})
	assert.Contains(t, out, "<h6>deep</h6>")
	assert.NotContains(t, out, "<h7>")
}

func TestEPUBRenderer(t *testing.T) {
	data, err := NewEPUBRenderer().Render(testBook())
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)

	files := make(map[string]string)
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		b, err := io.ReadAll(rc)
		require.NoError(t, err)
		rc.Close()
		files[f.Name] = string(b)
	}
	assert.Equal(t, "application/epub+zip", files["mimetype"])

	var sections, images, css []string
	for name, body := range files {
		switch {
		case strings.HasSuffix(name, ".css"):
			css = append(css, body)
		case strings.Contains(name, "/images/"):
			images = append(images, name)
		case strings.HasSuffix(name, ".xhtml") && !strings.HasSuffix(name, "nav.xhtml"):
			sections = append(sections, body)
		}
	}
	assert.Len(t, images, 1)
	assert.Contains(t, css, "p { margin: 0; }")

	all := strings.Join(sections, "\n")
	assert.Contains(t, all, "Five stories.")
	assert.Contains(t, all, "First part.")
	assert.Contains(t, all, "Exported from Wikisource.")
	assert.Contains(t, all, `src="../images/Tiny.png"`)
	assert.NotContains(t, all, "upload.wikimedia.org")
}

func TestEPUBRenderer_Empty(t *testing.T) {
	_, err := NewEPUBRenderer().Render(&core.Book{Title: "Empty", Name: "Empty", Lang: "en"})
	assert.Error(t, err)
}

func TestImageFilename(t *testing.T) {
	assert.Equal(t, "Foo_bar_baz.jpg", imageFilename("Foo bar/baz.jpg"))
	assert.Equal(t, "https://upload.wikimedia.org/a.png", pictureSource("//upload.wikimedia.org/a.png"))
	assert.Equal(t, tinyPNG, pictureSource(tinyPNG))
}

func TestPDFRenderer(t *testing.T) {
	r := NewPDFRenderer()
	data, err := r.Render(testBook())
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
	assert.Equal(t, ".pdf", r.Extension())
}

func TestCleanInlineMarkdown(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"**bold** text", "bold text"},
		{"see [Karain](./Karain)", "see Karain"},
		{"![Tiny.png](../tiny.png) caption", "caption"},
		{`1\. not a list`, "1. not a list"},
		{"`code`", "code"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, cleanInlineMarkdown(tt.in))
		})
	}
}

func TestJSONRenderer(t *testing.T) {
	data, err := NewJSONRenderer().Render(testBook())
	require.NoError(t, err)

	var got struct {
		Title    string                  `json:"title"`
		Author   string                  `json:"author"`
		Chapters []core.Page             `json:"chapters"`
		Pictures map[string]core.Picture `json:"pictures"`
		Outline  []Heading               `json:"outline"`
		Words    int                     `json:"word_count"`
	}
	require.NoError(t, json.Unmarshal(data, &got))

	assert.Equal(t, "Tales_of_Unrest", got.Title)
	assert.Equal(t, "Joseph Conrad", got.Author)
	require.Len(t, got.Chapters, 2)
	assert.Equal(t, "Part I", got.Chapters[0].Subchapters[0].Name)
	assert.Contains(t, got.Pictures, "Tiny.png")
	assert.Equal(t, Heading{Level: 1, Text: "Tales of Unrest"}, got.Outline[0])
	assert.Greater(t, got.Words, 5)
	assert.NotContains(t, string(data), "We knew him")
}

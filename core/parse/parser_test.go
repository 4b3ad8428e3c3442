package parse

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gaurav-prasanna/wsexport/core"
)

const navigationPage = `<html><body>
<div id="ws-data" class="ws-noexport" style="display:none">
  <span id="ws-title">Tales of Unrest</span>
  <span id="ws-author">Joseph Conrad</span>
  <span class="ws-author">Someone Else</span>
  <span id="ws-year"> 1898 </span>
</div>
<div id="headertemplate">Tales of Unrest <img src="//upload.wikimedia.org/wikipedia/commons/a/a0/Header.png"/></div>
<h2><span class="mw-headline" id="Contents">Contents</span><span class="mw-editsection"><a href="/w/index.php?title=Tales_of_Unrest&amp;action=edit">edit</a></span></h2>
<div class="ws-summary">
<ul>
  <li><a href="/wiki/Tales_of_Unrest/Author%27s_Note" title="Tales of Unrest/Author's Note">Author's Note</a></li>
  <li><a href="/wiki/Karain" title="Karain">Karain:   A Memory</a>
    <ul>
      <li><a href="/wiki/Karain/Chapter_I">I</a></li>
      <li><a href="/wiki/Karain/Chapter_II">II</a></li>
    </ul>
  </li>
  <li><a href="/wiki/The_Idiots">The Idiots</a></li>
  <li><a href="#notes">Notes</a></li>
  <li><a class="new" href="/w/index.php?title=The_Lagoon&amp;action=edit&amp;redlink=1">The Lagoon</a></li>
  <li><a class="external text" href="https://www.gutenberg.org/ebooks/1202">Gutenberg</a></li>
  <li><a href="/wiki/File:Tales_of_Unrest.djvu">Scan</a></li>
  <li><a href="/wiki/Author:Joseph_Conrad">Joseph Conrad</a></li>
  <li><a href="/wiki/Tales_of_Unrest/An_Outpost_of_Progress"></a></li>
</ul>
</div>
<p id="notes">See also the <a href="/wiki/Tales_of_Unrest/Errata">errata</a>.</p>
<p><img src="https://upload.wikimedia.org/wikipedia/commons/thumb/8/81/Wikimedia-logo.svg/18px-Wikimedia-logo.svg.png"/></p>
</body></html>`

func newParser(t *testing.T, src string, ids *Registry, opts ...Option) *Parser {
	t.Helper()
	p, err := NewFromReader(strings.NewReader(src), ids, opts...)
	require.NoError(t, err)
	return p
}

func bodyHTML(t *testing.T, doc *goquery.Document) string {
	t.Helper()
	out, err := Body(doc).Html()
	require.NoError(t, err)
	return out
}

func TestChaptersList_Summary(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	chapters, err := p.ChaptersList("Tales of Unrest", Filters{Namespaces: []string{"Author"}})
	require.NoError(t, err)

	require.Len(t, chapters, 4)
	assert.Equal(t, "Tales_of_Unrest/Author's_Note", chapters[0].Title)
	assert.Equal(t, "Author's Note", chapters[0].Name)
	assert.Equal(t, "Karain", chapters[1].Title)
	assert.Equal(t, "Karain: A Memory", chapters[1].Name)
	assert.Equal(t, []core.Chapter{
		{Title: "Karain/Chapter_I", Name: "I"},
		{Title: "Karain/Chapter_II", Name: "II"},
	}, chapters[1].Subchapters)
	assert.Equal(t, "The_Idiots", chapters[2].Title)
	assert.Empty(t, chapters[2].Subchapters)
	assert.Equal(t, "Tales_of_Unrest/An_Outpost_of_Progress", chapters[3].Title)
	assert.Equal(t, chapters[3].Title, chapters[3].Name)
}

func TestChaptersList_Filters(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	chapters, err := p.ChaptersList("", Filters{Exclude: []string{"The Idiots"}})
	require.NoError(t, err)

	var titles []string
	for _, c := range chapters {
		titles = append(titles, c.Title)
	}
	assert.Equal(t, []string{
		"Tales_of_Unrest/Author's_Note",
		"Karain",
		"Author:Joseph_Conrad",
		"Tales_of_Unrest/An_Outpost_of_Progress",
	}, titles)
}

func TestFullChaptersList_AppendsSubpages(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	chapters, err := p.FullChaptersList("Tales of Unrest", Filters{Namespaces: []string{"Author"}})
	require.NoError(t, err)

	require.Len(t, chapters, 5)
	assert.Equal(t, "Tales_of_Unrest/Author's_Note", chapters[0].Title)
	assert.Equal(t, core.Chapter{Title: "Tales_of_Unrest/Errata", Name: "errata"}, chapters[4])
}

func TestChaptersList_SubpagesEncodedHrefs(t *testing.T) {
	src := `<body>
<a href="./F(o)o%E2%99%A5/Bar" title="F(o)o♥/Bar">Bar</a>
<a href="./F(o)o%E2%99%A5/Bar#section">Bar again</a>
<a href="./F(o)o%E2%99%A5">Foo itself</a>
<a href="./Elsewhere/Bar">Elsewhere</a>
</body>`

	full, err := newParser(t, src, nil).FullChaptersList("F(o)o♥", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []core.Chapter{{Title: "F(o)o♥/Bar", Name: "Bar"}}, full)

	plain, err := newParser(t, src, nil).ChaptersList("F(o)o♥", Filters{})
	require.NoError(t, err)
	assert.Len(t, plain, 1)
}

func TestChaptersList_CollectionOfWorks(t *testing.T) {
	src := `<body>
<div class="ws-summary"><ul><li><a href="/wiki/Poems/Spring">Spring</a></li></ul></div>
<p>Second volume</p>
<div class="ws-summary"><ul><li><a href="/wiki/Poems/Winter">Winter</a>
  <ol><li><a href="/wiki/Poems/Winter/Frost">Frost</a></li></ol></li></ul></div>
</body>`

	chapters, err := newParser(t, src, nil).ChaptersList("Poems", Filters{})
	require.NoError(t, err)
	require.Len(t, chapters, 2)
	assert.Equal(t, "Poems/Spring", chapters[0].Title)
	assert.Equal(t, "Poems/Winter", chapters[1].Title)
	assert.Equal(t, []core.Chapter{{Title: "Poems/Winter/Frost", Name: "Frost"}}, chapters[1].Subchapters)
}

func TestChaptersList_NoLinks(t *testing.T) {
	chapters, err := newParser(t, `<p>Nothing here</p>`, nil).FullChaptersList("Anything", Filters{})
	require.NoError(t, err)
	assert.Empty(t, chapters)
}

func TestMetadata(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	assert.True(t, p.MetadataIsSet("ws-author"))
	assert.Equal(t, "Joseph Conrad", p.Metadata("ws-author"))
	assert.Equal(t, "1898", p.Metadata("ws-year"))
	assert.False(t, p.MetadataIsSet("ws-xxx"))
	assert.Empty(t, p.Metadata("ws-xxx"))
	assert.False(t, p.MetadataIsSet("ws-data"))
}

func TestChromeIsStripped(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	doc, err := p.Content(true)
	require.NoError(t, err)
	out := bodyHTML(t, doc)

	assert.NotContains(t, out, "mw-editsection")
	assert.NotContains(t, out, "ws-data")
	assert.Contains(t, out, "headertemplate")
	assert.Equal(t, "Joseph Conrad", p.Metadata("ws-author"))
}

func TestContent_DropsHeaderOnChapterPages(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	doc, err := p.Content(false)
	require.NoError(t, err)
	assert.NotContains(t, bodyHTML(t, doc), "headertemplate")

	pictures, err := New(doc, nil).PicturesList()
	require.NoError(t, err)
	assert.NotContains(t, pictures, "Header.png")
}

func TestContent_Finalizes(t *testing.T) {
	p := newParser(t, navigationPage, nil)

	_, err := p.Content(true)
	require.NoError(t, err)

	_, err = p.Content(true)
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = p.PicturesList()
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = p.ChaptersList("Tales of Unrest", Filters{})
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = p.FullChaptersList("Tales of Unrest", Filters{})
	assert.ErrorIs(t, err, ErrFinalized)
	_, err = p.PagesList()
	assert.ErrorIs(t, err, ErrFinalized)
	assert.True(t, p.MetadataIsSet("ws-author"))
}

func TestParse(t *testing.T) {
	ids := NewRegistry()
	p := newParser(t, navigationPage, ids)

	res, err := p.Parse("Tales of Unrest", Filters{Namespaces: []string{"Author"}}, true)
	require.NoError(t, err)

	assert.Len(t, res.Chapters, 5)
	assert.Contains(t, res.Pictures, "Wikimedia-logo.svg-18px-Wikimedia-logo.svg.png")
	assert.Contains(t, res.Pictures, "Header.png")
	assert.Equal(t, "Tales of Unrest", res.Metadata["ws-title"])
	assert.Empty(t, res.Pages)
	assert.True(t, ids.Has("id-notes"))
	assert.Equal(t, "id-notes", res.Content.Find("p").First().AttrOr("id", ""))
}

func TestPagesList(t *testing.T) {
	src := `<div>
<span class="pagenum ws-pagenum" data-page-name="Página:Pacotilha poetica.pdf/10"></span>Se namora
<span class="pagenum ws-pagenum" data-page-name="Página:Pacotilha poetica.pdf/11"></span>por gosto
<span class="pagenum ws-pagenum" data-page-name="Página:Pacotilha poetica.pdf/11"></span>
<span class="pagenum ws-pagenum" data-page-name="Página:Pacotilha poetica.pdf/12"></span>ou por precisão
</div>`

	pages, err := newParser(t, src, nil).PagesList()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"Página:Pacotilha_poetica.pdf/10",
		"Página:Pacotilha_poetica.pdf/11",
		"Página:Pacotilha_poetica.pdf/12",
	}, pages)

	empty, err := newParser(t, navigationPage, nil).PagesList()
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestChaptersList_SeesChrome(t *testing.T) {
	src := `<body>
<div class="ws-noexport"><div id="ws-summary"><ul>
  <li><a href="/wiki/W/One">One</a></li>
  <li><a href="/wiki/W/Two">Two</a></li>
</ul></div></div>
<table class="navbox"><tr><td><a href="/wiki/W/Three">Three</a>
<img src="//upload.wikimedia.org/wikipedia/commons/a/a1/Icon.png"/></td></tr></table>
<p>Text <img src="//upload.wikimedia.org/wikipedia/commons/b/b2/Plate.png"/></p>
</body>`

	chapters, err := newParser(t, src, nil).ChaptersList("W", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []core.Chapter{{Title: "W/One", Name: "One"}, {Title: "W/Two", Name: "Two"}}, chapters)

	p := newParser(t, `<body><table class="navbox"><tr><td><a href="/wiki/W/One">One</a></td></tr></table></body>`, nil)
	full, err := p.FullChaptersList("W", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []core.Chapter{{Title: "W/One", Name: "One"}}, full)

	p = newParser(t, src, nil)
	pictures, err := p.PicturesList()
	require.NoError(t, err)
	assert.Contains(t, pictures, "Plate.png")
	assert.NotContains(t, pictures, "Icon.png")

	doc, err := p.Content(true)
	require.NoError(t, err)
	out := bodyHTML(t, doc)
	assert.NotContains(t, out, "ws-summary")
	assert.NotContains(t, out, "navbox")
	assert.Contains(t, out, "Plate.png")
}

func TestChaptersList_TitlesDecodedOnce(t *testing.T) {
	src := `<body><a href="./W/A%2541">x</a><a href="./W/AA">y</a></body>`

	chapters, err := newParser(t, src, nil).ChaptersList("W", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []core.Chapter{{Title: "W/A%41", Name: "x"}, {Title: "W/AA", Name: "y"}}, chapters)
}

func TestChaptersList_FileLikeTitles(t *testing.T) {
	src := `<body><div class="ws-summary"><ul>
  <li><a href="/wiki/Manual/setup.js">setup.js</a></li>
  <li><a href="/wiki/Report.pdf">Report.pdf</a></li>
  <li><a href="/wiki/File:Report.pdf">scan</a></li>
  <li><a href="//upload.wikimedia.org/wikipedia/commons/a/a1/Report.pdf">download</a></li>
</ul></div></body>`

	chapters, err := newParser(t, src, nil, WithBaseURL("https://en.wikisource.org/wiki/Manual")).ChaptersList("Manual", Filters{})
	require.NoError(t, err)
	assert.Equal(t, []core.Chapter{
		{Title: "Manual/setup.js", Name: "setup.js"},
		{Title: "Report.pdf", Name: "Report.pdf"},
	}, chapters)
}

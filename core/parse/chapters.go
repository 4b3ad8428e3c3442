package parse

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"github.com/gaurav-prasanna/wsexport/core"
	"github.com/gaurav-prasanna/wsexport/core/wiki"
)

var summarySelector = cascadia.MustCompile("#ws-summary, .ws-summary")

// chapterNode is the mutable form of core.Chapter used while building.
type chapterNode struct {
	chapter  core.Chapter
	children []*chapterNode
	titles   map[string]bool
}

func (n *chapterNode) add(title, name string) *chapterNode {
	if n.titles == nil {
		n.titles = make(map[string]bool)
	}
	key := wiki.FoldKey(title)
	if n.titles[key] {
		return nil
	}
	n.titles[key] = true
	child := &chapterNode{chapter: core.Chapter{Title: title, Name: name}}
	n.children = append(n.children, child)
	return child
}

func (n *chapterNode) chapters() []core.Chapter {
	if len(n.children) == 0 {
		return nil
	}
	out := make([]core.Chapter, 0, len(n.children))
	for _, c := range n.children {
		ch := c.chapter
		ch.Subchapters = c.chapters()
		out = append(out, ch)
	}
	return out
}

// ChaptersList returns the summary-derived chapters when the document has
// a summary block, and the subpages of workTitle linked anywhere otherwise.
func (p *Parser) ChaptersList(workTitle string, f Filters) ([]core.Chapter, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	if p.doc.FindMatcher(summarySelector).Length() > 0 {
		return p.summaryChapters(f), nil
	}
	return p.subpageChapters(workTitle, f, nil), nil
}

// FullChaptersList returns the summary chapters followed by every linked
// subpage of workTitle not already listed.
func (p *Parser) FullChaptersList(workTitle string, f Filters) ([]core.Chapter, error) {
	if p.finalized {
		return nil, ErrFinalized
	}
	chapters := p.summaryChapters(f)
	known := make(map[string]bool)
	collectTitles(chapters, known)
	return append(chapters, p.subpageChapters(workTitle, f, known)...), nil
}

func collectTitles(chapters []core.Chapter, into map[string]bool) {
	for _, c := range chapters {
		into[wiki.FoldKey(c.Title)] = true
		collectTitles(c.Subchapters, into)
	}
}

// summaryChapters walks every summary block in document order. A link
// nested in more lists than the one before it becomes its subchapter.
func (p *Parser) summaryChapters(f Filters) []core.Chapter {
	type level struct {
		depth int
		node  *chapterNode
	}
	root := &chapterNode{}

	p.doc.FindMatcher(summarySelector).Each(func(_ int, block *goquery.Selection) {
		if block.ParentsMatcher(summarySelector).Length() > 0 {
			return
		}
		stack := []level{{depth: -1, node: root}}
		block.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
			title, ok := p.chapterTarget(a, f)
			if !ok {
				return
			}
			depth := listDepth(a.Nodes[0], block.Nodes[0])
			for len(stack) > 1 && stack[len(stack)-1].depth >= depth {
				stack = stack[:len(stack)-1]
			}
			if child := stack[len(stack)-1].node.add(title, linkName(a, title)); child != nil {
				stack = append(stack, level{depth: depth, node: child})
			}
		})
	})
	return root.chapters()
}

// subpageChapters lists the distinct links to workTitle/... in document
// order, skipping titles already in known.
func (p *Parser) subpageChapters(workTitle string, f Filters, known map[string]bool) []core.Chapter {
	if strings.TrimSpace(workTitle) == "" {
		return nil
	}
	root := &chapterNode{titles: make(map[string]bool)}
	for k := range known {
		root.titles[k] = true
	}
	p.doc.Find("a[href]").Each(func(_ int, a *goquery.Selection) {
		title, ok := p.chapterTarget(a, f)
		if !ok || !wiki.IsSubpage(title, workTitle) {
			return
		}
		root.add(title, linkName(a, title))
	})
	return root.chapters()
}

// chapterTarget returns the page title a link points at, if the link
// can be a chapter at all.
func (p *Parser) chapterTarget(a *goquery.Selection, f Filters) (string, bool) {
	href, _ := a.Attr("href")
	if strings.HasPrefix(href, "#") || a.HasClass("new") || a.HasClass("external") {
		return "", false
	}
	if wiki.IsExternal(href, p.host) {
		return "", false
	}
	title, ok := wiki.TitleFromHref(href)
	if !ok || wiki.InNamespace(title, f.Namespaces) {
		return "", false
	}
	key := wiki.FoldKey(title)
	for _, ex := range f.Exclude {
		if wiki.FoldTitle(ex) == key {
			return "", false
		}
	}
	return title, true
}

func linkName(a *goquery.Selection, title string) string {
	if name := strings.Join(strings.Fields(a.Text()), " "); name != "" {
		return name
	}
	return title
}

// listDepth counts the lists between n and root.
func listDepth(n, root *html.Node) int {
	depth := 0
	for c := n.Parent; c != nil && c != root; c = c.Parent {
		switch c.DataAtom {
		case atom.Ul, atom.Ol, atom.Dl:
			depth++
		}
	}
	return depth
}

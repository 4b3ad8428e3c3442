package parse

import (
	"html"
	"strings"

	"github.com/PuerkitoBio/goquery"
	nethtml "golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

var voidElements = map[atom.Atom]bool{
	atom.Area: true, atom.Base: true, atom.Br: true, atom.Col: true,
	atom.Embed: true, atom.Hr: true, atom.Img: true, atom.Input: true,
	atom.Link: true, atom.Meta: true, atom.Param: true, atom.Source: true,
	atom.Track: true, atom.Wbr: true,
}

// Body returns the body of doc, or the whole document when it has none.
func Body(doc *goquery.Document) *goquery.Selection {
	if body := doc.Find("body"); body.Length() > 0 {
		return body.First()
	}
	return doc.Selection
}

// InnerXHTML serializes the children of the first node of s as XHTML.
func InnerXHTML(s *goquery.Selection) string {
	if s.Length() == 0 {
		return ""
	}
	var b strings.Builder
	for c := s.Nodes[0].FirstChild; c != nil; c = c.NextSibling {
		writeXHTML(&b, c)
	}
	return b.String()
}

// RenderXHTML serializes every node of s as XHTML.
func RenderXHTML(s *goquery.Selection) string {
	var b strings.Builder
	for _, n := range s.Nodes {
		writeXHTML(&b, n)
	}
	return b.String()
}

func writeXHTML(b *strings.Builder, n *nethtml.Node) {
	switch n.Type {
	case nethtml.DocumentNode:
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(b, c)
		}
	case nethtml.DoctypeNode:
		b.WriteString("<!DOCTYPE html>")
	case nethtml.CommentNode:
		b.WriteString("<!--" + strings.ReplaceAll(n.Data, "--", "- -") + "-->")
	case nethtml.TextNode:
		if p := n.Parent; p != nil && (p.DataAtom == atom.Style || p.DataAtom == atom.Script) {
			b.WriteString("<![CDATA[" + n.Data + "]]>")
			return
		}
		b.WriteString(html.EscapeString(n.Data))
	case nethtml.ElementNode:
		b.WriteString("<" + n.Data)
		for _, a := range n.Attr {
			key := a.Key
			if a.Namespace != "" {
				key = a.Namespace + ":" + key
			}
			b.WriteString(" " + key + `="` + html.EscapeString(a.Val) + `"`)
		}
		if voidElements[n.DataAtom] && n.FirstChild == nil {
			b.WriteString("/>")
			return
		}
		b.WriteString(">")
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			writeXHTML(b, c)
		}
		b.WriteString("</" + n.Data + ">")
	}
}

// XHTMLDocument wraps a body fragment into a standalone XHTML document.
func XHTMLDocument(lang, title, body string) string {
	return `<?xml version="1.0" encoding="UTF-8" ?><!DOCTYPE html>` +
		`<html xmlns="http://www.w3.org/1999/xhtml" xml:lang="` + html.EscapeString(lang) + `">` +
		`<head><meta content="application/xhtml+xml;charset=UTF-8" http-equiv="content-type"/>` +
		`<title>` + html.EscapeString(title) + `</title></head><body>` + body + `</body></html>`
}

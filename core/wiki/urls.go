package wiki

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultSiteTemplate builds the wiki root for a language code.
const DefaultSiteTemplate = "https://%s.wikisource.org"

// MultilingualSite is the wiki used when a language wiki lacks a page.
const MultilingualSite = "https://wikisource.org"

// Site is the root of one wiki, e.g. https://en.wikisource.org.
type Site struct {
	Lang string
	Root string
}

// NewSite builds a Site for lang from a template such as DefaultSiteTemplate.
// A template without a %s verb is used verbatim.
func NewSite(template, lang string) Site {
	if template == "" {
		template = DefaultSiteTemplate
	}
	root := template
	if strings.Contains(template, "%s") {
		root = fmt.Sprintf(template, lang)
	}
	return Site{Lang: lang, Root: strings.TrimSuffix(root, "/")}
}

// Host returns the host part of the site root.
func (s Site) Host() string {
	u, err := url.Parse(s.Root)
	if err != nil {
		return ""
	}
	return u.Host
}

// PageURL returns the article URL of title.
func (s Site) PageURL(title string) string {
	return s.Root + articlePath + strings.ReplaceAll(url.PathEscape(CanonicalTitle(title)), "%2F", "/")
}

// RenderURL returns the URL of the rendered body of title (action=render).
func (s Site) RenderURL(title string) string {
	return s.indexURL(title, url.Values{"action": {"render"}})
}

// RawURL returns the URL of the raw source of title with the given content type.
func (s Site) RawURL(title, ctype string) string {
	return s.indexURL(title, url.Values{"action": {"raw"}, "ctype": {ctype}})
}

func (s Site) indexURL(title string, q url.Values) string {
	q.Set("title", CanonicalTitle(title))
	return s.Root + "/w/index.php?" + q.Encode()
}

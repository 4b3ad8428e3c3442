// Package wiki holds MediaWiki title and URL conventions shared by the
// parser, the fetcher and the book provider.
package wiki

import (
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// articlePath is the default MediaWiki short-URL prefix.
const articlePath = "/wiki/"

// DeniedNamespaces are never chapters, whatever the caller passes.
var DeniedNamespaces = []string{"Special", "File", "Image", "Media", "Category"}

// TitleFromHref extracts the target page title of a wiki link. It knows
// the Parsoid form (./Title), the short-URL form (/wiki/Title, possibly
// absolute) and the index.php?title= form. The fragment is dropped,
// percent-encoding decoded and spaces turned into underscores.
// It reports false when href does not point at a wiki page.
func TitleFromHref(href string) (string, bool) {
	href = strings.TrimSpace(href)
	if href == "" || strings.HasPrefix(href, "#") {
		return "", false
	}

	if strings.HasPrefix(href, "./") {
		raw := strings.TrimPrefix(href, "./")
		if i := strings.IndexAny(raw, "?#"); i >= 0 {
			raw = raw[:i]
		}
		return finishTitle(unescapePath(raw))
	}

	parsed, err := url.Parse(href)
	if err != nil {
		return "", false
	}
	if t := parsed.Query().Get("title"); t != "" && strings.HasSuffix(parsed.Path, "index.php") {
		return finishTitle(t)
	}
	if strings.HasPrefix(parsed.EscapedPath(), articlePath) {
		return finishTitle(unescapePath(strings.TrimPrefix(parsed.EscapedPath(), articlePath)))
	}
	return "", false
}

func unescapePath(raw string) string {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return raw
	}
	return decoded
}

// finishTitle canonicalizes an already decoded title.
func finishTitle(t string) (string, bool) {
	t = CanonicalTitle(t)
	return t, t != ""
}

// CanonicalTitle trims an already decoded title, drops its fragment and
// turns spaces into underscores. Percent signs are kept as they are.
func CanonicalTitle(title string) string {
	if i := strings.Index(title, "#"); i >= 0 {
		title = title[:i]
	}
	return strings.ReplaceAll(strings.TrimSpace(title), " ", "_")
}

// NormalizeTitle converts a title as typed or copied from a URL into its
// canonical form: decoded, trimmed, with underscores instead of spaces
// and no fragment.
func NormalizeTitle(title string) string {
	if i := strings.Index(title, "#"); i >= 0 {
		title = title[:i]
	}
	if strings.Contains(title, "%") {
		title = unescapePath(title)
	}
	return CanonicalTitle(title)
}

// FoldTitle returns a comparison key for a title as typed: normalized,
// NFC normalized and case folded.
func FoldTitle(title string) string {
	return foldKey(NormalizeTitle(title))
}

// FoldKey is FoldTitle for titles that are already decoded, such as
// those returned by TitleFromHref.
func FoldKey(title string) string {
	return foldKey(CanonicalTitle(title))
}

func foldKey(canonical string) string {
	return cases.Fold().String(norm.NFC.String(canonical))
}

// IsSubpage reports whether the decoded title is a subpage of parent
// (parent/suffix). parent is normalized like a typed title.
func IsSubpage(title, parent string) bool {
	prefix := FoldTitle(parent) + "/"
	key := FoldKey(title)
	return len(key) > len(prefix) && strings.HasPrefix(key, prefix)
}

// Namespace returns the namespace prefix of title, or "" for main namespace.
func Namespace(title string) string {
	i := strings.Index(title, ":")
	if i <= 0 {
		return ""
	}
	return strings.ReplaceAll(title[:i], "_", " ")
}

// InNamespace reports whether title lives in one of the DeniedNamespaces
// or in one of the extra namespaces.
func InNamespace(title string, extra []string) bool {
	ns := Namespace(title)
	if ns == "" {
		return false
	}
	for _, list := range [][]string{DeniedNamespaces, extra} {
		for _, n := range list {
			if strings.EqualFold(strings.ReplaceAll(n, "_", " "), ns) {
				return true
			}
		}
	}
	return false
}

// IsExternal reports whether rawURL leaves the wiki at host. Relative
// URLs never do; with an empty host every absolute URL is assumed local.
func IsExternal(rawURL, host string) bool {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return true
	}
	if parsed.Scheme != "" && parsed.Scheme != "http" && parsed.Scheme != "https" {
		return true
	}
	if parsed.Host == "" || host == "" {
		return false
	}
	return !strings.EqualFold(parsed.Host, host)
}

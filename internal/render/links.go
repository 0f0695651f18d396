package render

import (
	"fmt"
	"html"
	"net/url"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// linkPolicy keeps an anchor's href only for parseable http, https and
// mailto URLs
var linkPolicy = func() *bluemonday.Policy {
	p := bluemonday.NewPolicy()
	p.AllowStandardURLs()
	p.AllowAttrs("href").OnElements("a")
	return p
}()

// LinkHref returns the href to use for a user supplied link, or "" when the
// link should be shown as plain text. Bare hosts such as "linkedin.com/in/ada"
// are treated as https.
func LinkHref(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	href := s
	if u, err := url.Parse(s); err == nil && u.Scheme == "" {
		href = "https://" + strings.TrimPrefix(s, "//")
	}

	anchor := fmt.Sprintf(`<a href="%s">link</a>`, html.EscapeString(href))
	if !strings.Contains(linkPolicy.Sanitize(anchor), "href=") {
		return ""
	}
	return href
}

package extract

import (
	"net/url"
	"path"
	"regexp"
	"strings"
)

// counterSuffix matches the "(n)" suffix appended to repeated anchor texts.
var counterSuffix = regexp.MustCompile(`\([1-9][0-9]*\)`)

// StripCounter removes the de-duplication counter from an anchor text.
func StripCounter(text string) string {
	return strings.TrimSpace(counterSuffix.ReplaceAllString(text, ""))
}

// NormalizeURL returns the form of a URL used for equality checks:
// lower-case scheme and host, no fragment, no default port and no trailing
// slash. Unparseable input is returned trimmed.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil {
		return raw
	}

	u.Fragment = ""
	u.RawFragment = ""
	u.Scheme = strings.ToLower(u.Scheme)
	host := strings.ToLower(u.Host)
	host = strings.TrimSuffix(host, ":80")
	host = strings.TrimSuffix(host, ":443")
	u.Host = host
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String()
}

// PathSegments returns the non-empty segments of a URL's path.
func PathSegments(raw string) []string {
	u, err := url.Parse(raw)
	if err != nil {
		return nil
	}
	var segs []string
	for _, s := range strings.Split(u.Path, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

// Hostname returns the lower-case host of a URL without port.
func Hostname(raw string) string {
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	return strings.ToLower(u.Hostname())
}

// PathLabel derives a readable label from a URL path for anchors that have
// no text, e.g. "/people/faculty-directory/" becomes "faculty directory".
func PathLabel(raw string) string {
	segs := PathSegments(raw)
	if len(segs) == 0 {
		return ""
	}
	last, err := url.PathUnescape(segs[len(segs)-1])
	if err != nil {
		last = segs[len(segs)-1]
	}
	last = strings.TrimSuffix(last, path.Ext(last))
	last = strings.NewReplacer("-", " ", "_", " ", "+", " ", ".", " ").Replace(last)
	return strings.Join(strings.Fields(last), " ")
}

// resolveURL resolves href against base. Non-navigational targets and
// non-HTTP schemes resolve to the empty string.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}

	lower := strings.ToLower(href)
	if strings.HasPrefix(lower, "javascript:") ||
		strings.HasPrefix(lower, "mailto:") ||
		strings.HasPrefix(lower, "tel:") ||
		strings.HasPrefix(lower, "data:") ||
		strings.HasPrefix(href, "#") {
		return ""
	}

	u, err := url.Parse(href)
	if err != nil {
		return ""
	}
	if base != nil {
		u = base.ResolveReference(u)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return ""
	}
	u.Fragment = ""
	u.RawFragment = ""
	return u.String()
}

// normalizeSpace collapses all runs of whitespace into single spaces.
func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

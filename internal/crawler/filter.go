package crawler

import (
	"net/url"
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
)

// deniedWords drop a link whose text, subdomain or path contains one of
// them as a word.
var deniedWords = map[string]bool{
	"publication": true, "publications": true, "paper": true, "search": true,
	"news": true, "event": true, "events": true, "calendar": true,
	"map": true, "student": true, "lab": true, "lib": true, "library": true,
}

// deniedSubstrings drop a link whose subdomain or path contains one of
// them.
var deniedSubstrings = []string{
	"login", "logout", "publication", "news", "wiki", "lab", "resource",
	"event", "calendar", "map", "article", "blog", "student", "library",
}

// deniedExtensions are documents and media that never hold navigation.
var deniedExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".svg": true,
	".webp": true, ".bmp": true, ".ico": true, ".tif": true, ".tiff": true,
	".mp3": true, ".mp4": true, ".avi": true, ".mov": true, ".wmv": true,
	".wav": true, ".ogg": true, ".webm": true, ".zip": true, ".gz": true,
	".tar": true, ".rar": true, ".7z": true, ".pdf": true, ".doc": true,
	".docx": true, ".xls": true, ".xlsx": true, ".ppt": true, ".pptx": true,
	".odt": true, ".ods": true, ".csv": true, ".ics": true, ".exe": true,
	".dmg": true, ".css": true, ".js": true,
}

var wordPattern = regexp.MustCompile(`[a-z]+`)

// LinkFilter drops links that never lead to department, directory or
// profile pages.
type LinkFilter struct {
	// ignorePatterns are URL path globs to skip, e.g. "/admin/*".
	ignorePatterns []string
}

// NewLinkFilter returns a LinkFilter that additionally skips URL paths
// matching any of ignorePatterns.
func NewLinkFilter(ignorePatterns []string) *LinkFilter {
	return &LinkFilter{ignorePatterns: ignorePatterns}
}

// Allowed reports whether link may be followed.
func (f *LinkFilter) Allowed(link model.Link) bool {
	for _, word := range strings.Fields(strings.ToLower(extract.StripCounter(link.Text))) {
		if deniedWords[strings.Trim(word, ".,:;!?()[]")] {
			return false
		}
	}
	return f.AllowedURL(link.URL)
}

// AllowedURL reports whether target may be fetched judging by its URL
// alone.
func (f *LinkFilter) AllowedURL(target string) bool {
	u, err := url.Parse(target)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		return false
	}

	p := strings.ToLower(u.Path)
	if p == "" {
		p = "/"
	}
	if deniedExtensions[path.Ext(p)] {
		return false
	}
	// The registrable domain itself is never matched, or alabama.edu
	// would lose every link to "lab".
	subject := subdomain(u.Hostname()) + p
	for _, word := range wordPattern.FindAllString(subject, -1) {
		if deniedWords[word] {
			return false
		}
	}
	for _, s := range deniedSubstrings {
		if strings.Contains(subject, s) {
			return false
		}
	}
	for _, pattern := range f.ignorePatterns {
		if matchPattern(pattern, u.Path) {
			return false
		}
	}
	return true
}

// subdomain returns the labels of host left of its registrable domain,
// e.g. "news.cs" for news.cs.example.edu.
func subdomain(host string) string {
	host = strings.TrimSuffix(strings.ToLower(host), ".")
	domain := registrableDomain(host)
	if domain == "" || domain == host {
		return ""
	}
	return strings.TrimSuffix(host, "."+domain)
}

// matchPattern checks if a path matches a glob pattern.
// Patterns can use:
//   - * to match any sequence of non-separator characters
//   - ? to match any single character
//
// Examples:
//   - "/admin/*" matches "/admin/dashboard", "/admin/users"
//   - "*.aspx" matches "/docs/file.aspx"
func matchPattern(pattern, p string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := strings.TrimSuffix(pattern, "/*")
		if strings.HasPrefix(p, prefix+"/") || p == prefix {
			return true
		}
	}

	if strings.HasPrefix(pattern, "*.") && strings.HasSuffix(p, strings.TrimPrefix(pattern, "*")) {
		return true
	}

	if matched, err := filepath.Match(pattern, p); err == nil && matched {
		return true
	}

	// Patterns without a separator also match the last segment.
	if strings.Contains(pattern, "*") && !strings.Contains(pattern, "/") {
		if matched, err := filepath.Match(pattern, path.Base(p)); err == nil && matched {
			return true
		}
	}
	return false
}

// pathDiverges reports whether current left the directory of prev: the
// hosts differ, or current's path does not start with every segment of
// prev's parent directory.
func pathDiverges(current, prev string) bool {
	if prev == "" {
		return false
	}
	if !strings.EqualFold(extract.Hostname(current), extract.Hostname(prev)) {
		return true
	}
	cur := extract.PathSegments(current)
	dir := extract.PathSegments(prev)
	if len(dir) > 0 {
		dir = dir[:len(dir)-1]
	}
	if len(cur) < len(dir) {
		return true
	}
	for i := range dir {
		if !strings.EqualFold(cur[i], dir[i]) {
			return true
		}
	}
	return false
}

// leavesSubtree reports whether a link from page to target should re-enter
// the menu state: it changes host or climbs above page's depth.
func leavesSubtree(page, target string) bool {
	if !strings.EqualFold(extract.Hostname(page), extract.Hostname(target)) {
		return true
	}
	return len(extract.PathSegments(target)) < len(extract.PathSegments(page))
}

// xmlVariant returns target with "html" replaced by "xml".
func xmlVariant(target string) string {
	return strings.ReplaceAll(target, "html", "xml")
}

package model

import (
	"net/http"
	"strings"
)

// Response is the result of fetching a URL.
// It mirrors the shape of the Fetch interface: status, final URL after
// redirects, body and headers.
type Response struct {
	// URL is the URL that was requested.
	URL string `json:"url"`

	// FinalURL is the URL the response was served from after redirects.
	// Equal to URL when no redirect happened.
	FinalURL string `json:"final_url"`

	// StatusCode is the HTTP response status code.
	StatusCode int `json:"status_code"`

	// Headers contains all HTTP response headers.
	Headers http.Header `json:"headers"`

	// Body is the response body, truncated to the fetcher's body limit.
	Body []byte `json:"-"`
}

// Redirected reports whether the response was served from a different URL
// than the one requested.
func (r *Response) Redirected() bool {
	return r.FinalURL != "" && r.FinalURL != r.URL
}

// EffectiveURL returns the URL the content actually came from.
func (r *Response) EffectiveURL() string {
	if r.FinalURL != "" {
		return r.FinalURL
	}
	return r.URL
}

// GetHeader returns the first value of the specified header.
// Returns empty string if the header is not present.
func (r *Response) GetHeader(name string) string {
	if r.Headers == nil {
		return ""
	}
	return r.Headers.Get(name)
}

// ContentType returns the media type of the response without parameters.
func (r *Response) ContentType() string {
	ct := r.GetHeader("Content-Type")
	if i := strings.Index(ct, ";"); i >= 0 {
		ct = ct[:i]
	}
	return strings.ToLower(strings.TrimSpace(ct))
}

// IsPDF reports whether the response looks like a PDF document.
func (r *Response) IsPDF() bool {
	if r.ContentType() == "application/pdf" {
		return true
	}
	return len(r.Body) > 4 && string(r.Body[:5]) == "%PDF-"
}

// PageDigest is the compact record of a visited page that later tasks of
// the same branch carry in their Past list.
// It holds exactly what de-duplication, person detection and title
// comparison need, so whole responses are never copied between tasks.
type PageDigest struct {
	// URL is the effective URL of the visited page.
	URL string `json:"url"`

	// Title is the text of the page's <title> element.
	Title string `json:"title,omitempty"`

	// Links are all anchors found on the page.
	Links []Link `json:"links,omitempty"`

	// Text are the page's text blocks, whitespace-normalized.
	Text []string `json:"text,omitempty"`
}

// Link is one anchor extracted from a page.
type Link struct {
	// Text is the visible anchor text, made unique within one extraction
	// by a "(n)" counter suffix.
	Text string `json:"text"`

	// URL is the absolute target URL.
	URL string `json:"url"`

	// Trail holds the labels of enclosing menu items, outermost first.
	// Empty outside the menu zone.
	Trail []string `json:"trail,omitempty"`
}

// Label returns the hierarchical label of the link, e.g.
// "About › Programmes › Undergraduate".
func (l Link) Label() string {
	if len(l.Trail) == 0 {
		return l.Text
	}
	return strings.Join(append(append([]string(nil), l.Trail...), l.Text), " › ")
}

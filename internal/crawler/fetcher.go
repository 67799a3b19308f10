package crawler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/nao1215/scholarscan/internal/model"
)

// Fetcher defaults.
const (
	// DefaultUserAgent identifies the crawler to university web servers.
	DefaultUserAgent = "Mozilla/5.0 (compatible; scholarscan/1.0; +https://github.com/nao1215/scholarscan)"

	// DefaultMaxBodySize limits how much of a response body is read.
	DefaultMaxBodySize int64 = 10 * 1024 * 1024

	// DefaultTimeout is the per-request timeout of the default client.
	DefaultTimeout = 30 * time.Second
)

// errUnexpectedStatus is wrapped by FetchError for non-2xx responses
// other than 404.
var errUnexpectedStatus = errors.New("unexpected status")

// Fetcher retrieves a URL.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Response, error)
}

// HTTPFetcher fetches pages over HTTP, following redirects.
type HTTPFetcher struct {
	client      *http.Client
	userAgent   string
	headers     map[string]string
	hostHeaders map[string]map[string]string
	maxBodySize int64
}

// FetcherOption configures an HTTPFetcher.
type FetcherOption func(*HTTPFetcher)

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) FetcherOption {
	return func(f *HTTPFetcher) {
		if ua != "" {
			f.userAgent = ua
		}
	}
}

// WithHeaders adds headers sent with every request.
func WithHeaders(headers map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		for k, v := range headers {
			f.headers[k] = v
		}
	}
}

// WithHostHeaders adds headers sent only to the given hosts. They take
// precedence over WithHeaders.
func WithHostHeaders(hosts map[string]map[string]string) FetcherOption {
	return func(f *HTTPFetcher) {
		for host, headers := range hosts {
			host = strings.ToLower(host)
			if f.hostHeaders[host] == nil {
				f.hostHeaders[host] = make(map[string]string)
			}
			for k, v := range headers {
				f.hostHeaders[host][k] = v
			}
		}
	}
}

// WithMaxBodySize sets the maximum response body size.
func WithMaxBodySize(size int64) FetcherOption {
	return func(f *HTTPFetcher) {
		if size > 0 {
			f.maxBodySize = size
		}
	}
}

// NewHTTPFetcher returns an HTTPFetcher using client. A nil client selects
// one with DefaultTimeout.
func NewHTTPFetcher(client *http.Client, opts ...FetcherOption) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: DefaultTimeout}
	}
	f := &HTTPFetcher{
		client:      client,
		userAgent:   DefaultUserAgent,
		headers:     make(map[string]string),
		hostHeaders: make(map[string]map[string]string),
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Fetch implements Fetcher. A 404 answer returns the response together
// with an error wrapping ErrNotFound; any other non-2xx answer returns a
// *FetchError.
func (f *HTTPFetcher) Fetch(ctx context.Context, pageURL string) (*model.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}

	req.Header.Set("User-Agent", f.userAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5")
	for k, v := range f.headers {
		req.Header.Set(k, v)
	}
	for k, v := range f.hostHeaders[strings.ToLower(req.URL.Hostname())] {
		req.Header.Set(k, v)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{URL: pageURL, Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBodySize))
	if err != nil {
		return nil, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: err}
	}

	page := &model.Response{
		URL:        pageURL,
		FinalURL:   resp.Request.URL.String(),
		StatusCode: resp.StatusCode,
		Headers:    resp.Header,
		Body:       body,
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return page, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: ErrNotFound}
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return page, &FetchError{URL: pageURL, StatusCode: resp.StatusCode, Err: errUnexpectedStatus}
	}
	return page, nil
}

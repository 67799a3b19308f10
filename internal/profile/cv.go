package profile

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/nao1215/scholarscan/internal/model"
)

// ErrNotPDF is returned when a CV link does not serve a PDF document.
var ErrNotPDF = errors.New("cv is not a pdf document")

// cvMarkers identify a CV among PDF links.
var cvMarkers = []string{"cv", "resum", "vitae", "vitam"}

// Fetcher retrieves a URL. The crawler's scheduler implements it so that
// CV downloads obey the same host limits as page fetches.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (*model.Response, error)
}

// cvLink returns the first link that points at a CV in PDF form.
func cvLink(links []model.Link) (string, bool) {
	for _, l := range links {
		lower := strings.ToLower(l.URL)
		if !strings.Contains(lower, ".pdf") {
			continue
		}
		for _, m := range cvMarkers {
			if strings.Contains(lower, m) {
				return l.URL, true
			}
		}
	}
	return "", false
}

// fetchCV downloads the CV at url and returns its text split into lines.
func (p *Parser) fetchCV(ctx context.Context, url string) ([]string, error) {
	resp, err := p.fetcher.Fetch(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("fetch cv %s: %w", url, err)
	}
	if !resp.IsPDF() {
		return nil, ErrNotPDF
	}
	text, err := pdfText(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read cv %s: %w", url, err)
	}
	return textLines(text), nil
}

// pdfText extracts the plain text of every page of a PDF document.
// The pdf package panics on some malformed inputs; such documents are
// reported as errors.
func pdfText(body []byte) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("malformed pdf: %v", r)
		}
	}()

	reader, err := pdf.NewReader(bytes.NewReader(body), int64(len(body)))
	if err != nil {
		return "", err
	}

	var b strings.Builder
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			continue
		}
		b.WriteString(content)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// textLines splits text into non-empty whitespace-normalized lines.
func textLines(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if line = strings.Join(strings.Fields(line), " "); line != "" {
			out = append(out, line)
		}
	}
	return out
}

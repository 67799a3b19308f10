package extract

import (
	"bytes"
	"net/url"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/scholarscan/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed page together with the zone classification of each
// of its anchors.
type Document struct {
	// url is the effective URL of the page.
	url string

	// base resolves relative links. It honours a <base href> element.
	base *url.URL

	// doc is the goquery view of the parsed tree. Nil when parsing failed.
	doc *goquery.Document

	// anchors holds every resolvable <a href> in document order.
	anchors []anchor

	// blocks caches the result of TextBlocks.
	blocks []string
}

// anchor is one link with the zone flags derived from its ancestors.
type anchor struct {
	text  string
	url   string
	trail []string
	zone  zoneFlags
}

// NewDocument parses body as HTML served from pageURL.
// It never fails: unparseable input yields an empty Document.
func NewDocument(pageURL string, body []byte) *Document {
	d := &Document{url: pageURL}
	d.base, _ = url.Parse(pageURL)

	root, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return d
	}
	d.doc = goquery.NewDocumentFromNode(root)

	if href, ok := d.doc.Find("base[href]").First().Attr("href"); ok {
		if resolved := resolveURL(d.base, href); resolved != "" {
			d.base, _ = url.Parse(resolved)
		}
	}

	d.collectAnchors()
	return d
}

// FromResponse parses a fetched response.
func FromResponse(resp *model.Response) *Document {
	return NewDocument(resp.EffectiveURL(), resp.Body)
}

// URL returns the page URL the document was parsed for.
func (d *Document) URL() string {
	return d.url
}

// Title returns the normalized text of the page's <title> element.
func (d *Document) Title() string {
	if d.doc == nil {
		return ""
	}
	return normalizeSpace(d.doc.Find("title").First().Text())
}

// Headings returns the text of every h1, h2 and h3 element in document
// order.
func (d *Document) Headings() []string {
	if d.doc == nil {
		return nil
	}
	var out []string
	d.doc.Find("h1, h2, h3").Each(func(_ int, s *goquery.Selection) {
		if text := normalizeSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// Iframes returns the absolute source URLs of the page's iframes.
func (d *Document) Iframes() []string {
	if d.doc == nil {
		return nil
	}
	var out []string
	seen := make(map[string]bool)
	d.doc.Find("iframe[src]").Each(func(_ int, s *goquery.Selection) {
		src, _ := s.Attr("src")
		resolved := resolveURL(d.base, src)
		if resolved == "" || seen[resolved] {
			return
		}
		seen[resolved] = true
		out = append(out, resolved)
	})
	return out
}

// XMLLinks returns every <a href> of the body labelled "Link 1", "Link 2"
// and so on. It is used for XML variants of pages whose HTML rendering
// carried no usable links.
func (d *Document) XMLLinks() Links {
	var b linkBuilder
	for i, a := range d.anchors {
		b.add(model.Link{Text: "Link " + strconv.Itoa(i+1), URL: a.url})
	}
	return b.links
}

// Digest returns the compact record of this page kept in a branch's
// visited list.
func (d *Document) Digest() model.PageDigest {
	return model.PageDigest{
		URL:   d.url,
		Title: d.Title(),
		Links: d.General(),
		Text:  d.TextBlocks(),
	}
}

// TextBlocks returns the visible text of the page split at block-level
// element boundaries, whitespace-normalized and without duplicates.
func (d *Document) TextBlocks() []string {
	if d.blocks != nil || d.doc == nil {
		return d.blocks
	}

	var (
		blocks []string
		buf    strings.Builder
		seen   = make(map[string]bool)
	)
	flush := func() {
		text := normalizeSpace(buf.String())
		buf.Reset()
		if text == "" || seen[text] {
			return
		}
		seen[text] = true
		blocks = append(blocks, text)
	}

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.TextNode:
			buf.WriteString(n.Data)
			return
		case html.ElementNode:
			if skippedText[n.DataAtom] {
				return
			}
			if blockLevel[n.DataAtom] {
				flush()
				for c := n.FirstChild; c != nil; c = c.NextSibling {
					walk(c)
				}
				flush()
				return
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	for _, n := range d.doc.Nodes {
		walk(n)
	}
	flush()

	if blocks == nil {
		blocks = []string{}
	}
	d.blocks = blocks
	return d.blocks
}

// skippedText lists elements whose content is never visible text.
var skippedText = map[atom.Atom]bool{
	atom.Head:     true,
	atom.Script:   true,
	atom.Style:    true,
	atom.Noscript: true,
	atom.Template: true,
	atom.Svg:      true,
	atom.Iframe:   true,
}

// blockLevel lists elements that start a new text block.
var blockLevel = map[atom.Atom]bool{
	atom.Address: true, atom.Article: true, atom.Aside: true,
	atom.Blockquote: true, atom.Br: true, atom.Dd: true, atom.Div: true,
	atom.Dl: true, atom.Dt: true, atom.Fieldset: true, atom.Figcaption: true,
	atom.Figure: true, atom.Footer: true, atom.Form: true, atom.H1: true,
	atom.H2: true, atom.H3: true, atom.H4: true, atom.H5: true, atom.H6: true,
	atom.Header: true, atom.Hr: true, atom.Li: true, atom.Main: true,
	atom.Nav: true, atom.Ol: true, atom.Option: true, atom.P: true,
	atom.Pre: true, atom.Section: true, atom.Table: true, atom.Tbody: true,
	atom.Td: true, atom.Th: true, atom.Thead: true, atom.Tr: true,
	atom.Ul: true,
}

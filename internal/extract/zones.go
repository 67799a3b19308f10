package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/nao1215/scholarscan/internal/model"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// zoneFlags records which structural regions enclose an anchor.
type zoneFlags struct {
	headerTag     bool // inside <header>
	headerImplied bool // inside an element with an attribute mentioning "head"
	footer        bool // inside <footer> or an element mentioning "foot"/"bottom"
	noise         bool // inside banners, breadcrumbs or quick-link blocks
	nav           bool // inside <nav>
	offCanvas     bool // inside an off-canvas container
	menuImplied   bool // inside an element with an attribute mentioning "menu"
}

func (z zoneFlags) isHeader() bool {
	return (z.headerTag || z.headerImplied) && !z.footer && !z.isMenu()
}

func (z zoneFlags) isMenu() bool {
	if z.footer {
		return false
	}
	if z.nav && !z.offCanvas {
		return true
	}
	return z.menuImplied && !z.noise
}

func (z zoneFlags) isMain() bool {
	return !z.headerTag && !z.headerImplied && !z.footer && !z.noise
}

// Header returns anchors inside header-like regions.
func (d *Document) Header() Links {
	return d.selectLinks(func(a anchor) bool { return a.zone.isHeader() }, false)
}

// Menu returns anchors inside navigation regions. Each link carries the
// labels of its enclosing menu items in Trail.
func (d *Document) Menu() Links {
	return d.selectLinks(func(a anchor) bool { return a.zone.isMenu() }, true)
}

// mainContent returns body anchors outside header, footer and page
// furniture. Menu anchors are included.
func (d *Document) mainContent() Links {
	return d.selectLinks(func(a anchor) bool { return a.zone.isMain() }, false)
}

// MainContentExcludingMenu returns mainContent without menu anchors.
func (d *Document) MainContentExcludingMenu() Links {
	return d.selectLinks(func(a anchor) bool {
		return a.zone.isMain() && !a.zone.isMenu()
	}, false)
}

// General returns every resolvable anchor of the page.
func (d *Document) General() Links {
	return d.selectLinks(func(anchor) bool { return true }, false)
}

// UniqueContent returns the main content (menu excluded) minus every
// entry already seen in past, by normalized URL or by exact label.
// When the structural rule finds no links at all, every anchor of the page
// is used instead.
func (d *Document) UniqueContent(past []model.PageDigest) Links {
	entries := d.MainContentExcludingMenu()
	if len(entries) == 0 {
		entries = d.General()
	}
	return FilterSeen(entries, past)
}

// FilterSeen removes the entries of links that appear in any page of past.
func FilterSeen(links Links, past []model.PageDigest) Links {
	if len(past) == 0 {
		return links
	}

	seenURL := make(map[string]bool)
	seenText := make(map[string]bool)
	for _, p := range past {
		if p.URL != "" {
			seenURL[NormalizeURL(p.URL)] = true
		}
		for _, l := range p.Links {
			seenURL[NormalizeURL(l.URL)] = true
			seenText[l.Text] = true
		}
	}

	var out Links
	for _, l := range links {
		if seenURL[NormalizeURL(l.URL)] || seenText[l.Text] {
			continue
		}
		out = append(out, l)
	}
	return out
}

// selectLinks builds a de-duplicated link list from the anchors accepted
// by keep.
func (d *Document) selectLinks(keep func(anchor) bool, withTrail bool) Links {
	var b linkBuilder
	for _, a := range d.anchors {
		if !keep(a) {
			continue
		}
		link := model.Link{Text: a.text, URL: a.url}
		if withTrail && len(a.trail) > 0 {
			link.Trail = append([]string(nil), a.trail...)
		}
		b.add(link)
	}
	return b.links
}

// collectAnchors resolves every <a href> of the page and classifies it.
func (d *Document) collectAnchors() {
	d.doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		href, _ := s.Attr("href")
		target := resolveURL(d.base, href)
		if target == "" {
			return
		}
		text := anchorText(s)
		if text == "" {
			text = PathLabel(target)
		}
		if text == "" {
			return
		}

		node := s.Get(0)
		zone := classifyAncestors(node)
		a := anchor{text: text, url: target, zone: zone}
		if zone.isMenu() {
			a.trail = menuTrail(node)
		}
		d.anchors = append(d.anchors, a)
	})
}

// anchorText returns the visible text of an anchor, falling back to its
// accessible labels.
func anchorText(s *goquery.Selection) string {
	if text := normalizeSpace(s.Text()); text != "" {
		return text
	}
	for _, attr := range []string{"aria-label", "title"} {
		if v, ok := s.Attr(attr); ok {
			if text := normalizeSpace(v); text != "" {
				return text
			}
		}
	}
	if alt, ok := s.Find("img[alt]").First().Attr("alt"); ok {
		return normalizeSpace(alt)
	}
	return ""
}

// classifyAncestors walks from n to the root collecting zone flags.
// The <html> and <body> elements are ignored because site-wide classes on
// them would otherwise put every link in one zone.
func classifyAncestors(n *html.Node) zoneFlags {
	var z zoneFlags
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode || p.DataAtom == atom.Html || p.DataAtom == atom.Body {
			continue
		}
		switch p.DataAtom {
		case atom.Header:
			z.headerTag = true
		case atom.Footer:
			z.footer = true
		case atom.Nav:
			z.nav = true
		}
		for _, attr := range p.Attr {
			v := strings.ToLower(attr.Val)
			if strings.Contains(v, "head") {
				z.headerImplied = true
			}
			if strings.Contains(v, "foot") || strings.Contains(v, "bottom") {
				z.footer = true
			}
			if strings.Contains(v, "banner") || strings.Contains(v, "crumb") || strings.Contains(v, "quick") {
				z.noise = true
			}
			if strings.Contains(v, "off-canvas") {
				z.offCanvas = true
			}
			if strings.Contains(v, "menu") {
				z.menuImplied = true
			}
		}
	}
	return z
}

// menuTrail returns the labels of the <li> elements enclosing n, outermost
// first. The item that directly contains n is skipped because its label is
// the anchor itself. The walk stops at the enclosing <nav>.
func menuTrail(n *html.Node) []string {
	var trail []string
	own := true
	for p := n.Parent; p != nil; p = p.Parent {
		if p.Type != html.ElementNode {
			continue
		}
		if p.DataAtom == atom.Nav || p.DataAtom == atom.Body {
			break
		}
		if p.DataAtom != atom.Li {
			continue
		}
		if own {
			own = false
			continue
		}
		if label := itemLabel(p); label != "" {
			trail = append([]string{label}, trail...)
		}
	}
	return trail
}

// itemLabel returns the label of a menu item: its leading text or the text
// of its first anchor, span, button or heading child.
func itemLabel(li *html.Node) string {
	for c := li.FirstChild; c != nil; c = c.NextSibling {
		switch c.Type {
		case html.TextNode:
			if text := normalizeSpace(c.Data); text != "" {
				return text
			}
		case html.ElementNode:
			switch c.DataAtom {
			case atom.A, atom.Span, atom.Button, atom.Strong, atom.Label,
				atom.H2, atom.H3, atom.H4:
				return normalizeSpace(goquery.NewDocumentFromNode(c).Text())
			case atom.Ul, atom.Ol:
				return ""
			}
		}
	}
	return ""
}

package extract

import (
	"reflect"
	"strconv"
	"testing"

	"github.com/nao1215/scholarscan/internal/model"
)

const fixturePage = `<!DOCTYPE html>
<html><head><title>  School of
 Engineering </title></head>
<body class="home-page">
<header><a href="/">Home</a><a href="/apply">Apply</a></header>
<nav><ul>
  <li><a href="/about">About</a>
    <ul><li><span>Programmes</span>
      <ul><li><a href="/about/programmes/ug">Undergraduate</a></li></ul>
    </li></ul>
  </li>
  <li><a href="/people">People</a></li>
  <li><a href="/departments/">Faculty</a></li>
</ul></nav>
<div class="breadcrumb"><a href="/">Home</a></div>
<main>
  <h1>Welcome</h1>
  <p><strong>PhD</strong>, Stanford University, 2005</p>
  <p>Professor, 2012<br>Director</p>
  <a href="/news/one">News</a>
  <a href="/research">Research</a>
  <a href="/research#top">Research</a>
  <a href="mailto:someone@example.edu">Mail</a>
  <a href="javascript:void(0)">Script</a>
  <a href="/people/jane-doe/"><img alt=""></a>
  <iframe src="/embed/list"></iframe>
</main>
<footer><a href="/contact">Contact</a></footer>
</body></html>`

const fixtureURL = "https://www.example.edu/engineering"

// texts returns the link texts in order.
func texts(l Links) []string {
	out := make([]string, len(l))
	for i, link := range l {
		out[i] = link.Text
	}
	return out
}

// lookup returns the URL stored under text.
func lookup(l Links, text string) (string, bool) {
	for _, link := range l {
		if link.Text == text {
			return link.URL, true
		}
	}
	return "", false
}

func fixtureDoc(t *testing.T) *Document {
	t.Helper()
	return NewDocument(fixtureURL, []byte(fixturePage))
}

func TestDocumentZones(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)

	tests := []struct {
		name     string
		links    Links
		expected []string
	}{
		{"header", doc.Header(), []string{"Home", "Apply"}},
		{"menu", doc.Menu(), []string{"About", "Undergraduate", "People", "Faculty"}},
		{"main content", doc.mainContent(), []string{
			"About", "Undergraduate", "People", "Faculty",
			"News", "Research", "Research(1)", "jane doe",
		}},
		{"main content excluding menu", doc.MainContentExcludingMenu(), []string{
			"News", "Research", "Research(1)", "jane doe",
		}},
		{"general", doc.General(), []string{
			"Home", "Apply", "About", "Undergraduate", "People", "Faculty",
			"Home(1)", "News", "Research", "Research(1)", "jane doe", "Contact",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := texts(tt.links); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("expected %v, got %v", tt.expected, got)
			}
		})
	}
}

func TestLinkBuilderUniqueTexts(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{"repeats", []string{"Foo", "Foo", "Foo"}, []string{"Foo", "Foo(1)", "Foo(2)"}},
		{"literal counter text after a repeat", []string{"Foo", "Foo", "Foo(1)"}, []string{"Foo", "Foo(1)", "Foo(1)(1)"}},
		{"repeat after a literal counter text", []string{"Foo", "Foo(1)", "Foo"}, []string{"Foo", "Foo(1)", "Foo(2)"}},
		{"distinct", []string{"A", "B"}, []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var b linkBuilder
			for i, text := range tt.input {
				b.add(model.Link{Text: text, URL: "https://www.example.edu/" + strconv.Itoa(i)})
			}
			got := texts(b.links)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("texts = %v, want %v", got, tt.want)
			}
			seen := make(map[string]bool)
			for _, text := range got {
				if seen[text] {
					t.Errorf("duplicate text %q in %v", text, got)
				}
				seen[text] = true
			}
		})
	}
}

func TestDocumentMenuTrail(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)
	for _, link := range doc.Menu() {
		if link.Text != "Undergraduate" {
			continue
		}
		if got := link.Label(); got != "About › Programmes › Undergraduate" {
			t.Errorf("unexpected hierarchical label %q", got)
		}
		if link.URL != "https://www.example.edu/about/programmes/ug" {
			t.Errorf("unexpected url %q", link.URL)
		}
		return
	}
	t.Fatal("Undergraduate link not found in menu")
}

func TestDocumentResolvesAndStripsFragments(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)
	links := doc.General()

	url, ok := lookup(links, "Research(1)")
	if !ok {
		t.Fatal("expected Research(1) entry")
	}
	if url != "https://www.example.edu/research" {
		t.Errorf("expected fragment to be stripped, got %q", url)
	}
	if _, ok := lookup(links, "Mail"); ok {
		t.Error("mailto links must be skipped")
	}
	if _, ok := lookup(links, "Script"); ok {
		t.Error("javascript links must be skipped")
	}
}

func TestDocumentUniqueContent(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)
	past := []model.PageDigest{{
		URL:   "https://www.example.edu/",
		Links: []model.Link{{Text: "Publications", URL: "https://www.example.edu/research/"}},
	}}

	unique := doc.UniqueContent(past)
	if got, want := texts(unique), []string{"News", "jane doe"}; !reflect.DeepEqual(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}

	seen := make(map[string]bool)
	for _, p := range past {
		seen[NormalizeURL(p.URL)] = true
		for _, l := range p.Links {
			seen[NormalizeURL(l.URL)] = true
		}
	}
	for _, l := range unique {
		if seen[NormalizeURL(l.URL)] {
			t.Errorf("unique content returned already seen url %q", l.URL)
		}
	}

	again := doc.UniqueContent(past)
	if !reflect.DeepEqual(unique, again) {
		t.Error("UniqueContent must be deterministic")
	}
}

func TestDocumentUniqueContentByLabel(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)
	past := []model.PageDigest{{Links: []model.Link{{Text: "News", URL: "https://elsewhere.example.org/"}}}}

	for _, l := range doc.UniqueContent(past) {
		if l.Text == "News" {
			t.Error("entry with an already seen label must be removed")
		}
	}
}

func TestDocumentUniqueContentFallsBackToGeneral(t *testing.T) {
	t.Parallel()

	page := `<html><body><nav><a href="/a">Alpha</a><a href="/b">Beta</a></nav></body></html>`
	doc := NewDocument("https://www.example.edu/", []byte(page))

	if len(doc.MainContentExcludingMenu()) != 0 {
		t.Fatal("fixture must have no main content")
	}
	if got := texts(doc.UniqueContent(nil)); !reflect.DeepEqual(got, []string{"Alpha", "Beta"}) {
		t.Errorf("expected general fallback, got %v", got)
	}
}

func TestDocumentText(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)

	if got := doc.Title(); got != "School of Engineering" {
		t.Errorf("unexpected title %q", got)
	}
	if got := doc.Headings(); !reflect.DeepEqual(got, []string{"Welcome"}) {
		t.Errorf("unexpected headings %v", got)
	}

	blocks := doc.TextBlocks()
	want := map[string]bool{
		"PhD, Stanford University, 2005": false,
		"Professor, 2012":                false,
		"Director":                       false,
	}
	for _, b := range blocks {
		if _, ok := want[b]; ok {
			want[b] = true
		}
	}
	for block, found := range want {
		if !found {
			t.Errorf("expected text block %q in %v", block, blocks)
		}
	}
}

func TestDocumentIframesAndXMLLinks(t *testing.T) {
	t.Parallel()

	doc := fixtureDoc(t)
	if got := doc.Iframes(); !reflect.DeepEqual(got, []string{"https://www.example.edu/embed/list"}) {
		t.Errorf("unexpected iframes %v", got)
	}

	xml := NewDocument("https://www.example.edu/people.xml",
		[]byte(`<list><a href="/p/1">x</a><a href="/p/2">y</a></list>`))
	links := xml.XMLLinks()
	if got := texts(links); !reflect.DeepEqual(got, []string{"Link 1", "Link 2"}) {
		t.Errorf("unexpected xml link labels %v", got)
	}
}

func TestDocumentMalformed(t *testing.T) {
	t.Parallel()

	doc := NewDocument("::not a url", []byte("<<<a href=>>>"))
	if len(doc.General()) != 0 {
		t.Error("expected no links from malformed input")
	}
	if doc.Title() != "" {
		t.Error("expected empty title")
	}
}

func TestStripCounter(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"People":        "People",
		"People(1)":     "People",
		"People(12)":    "People",
		"Research (2) ": "Research",
		"Room (0)":      "Room (0)",
	}
	for in, want := range tests {
		if got := StripCounter(in); got != want {
			t.Errorf("StripCounter(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestNormalizeURL(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in, want string
	}{
		{"HTTPS://WWW.Example.EDU/People/", "https://www.example.edu/People"},
		{"https://www.example.edu/people#staff", "https://www.example.edu/people"},
		{"https://www.example.edu:443/", "https://www.example.edu"},
		{"https://www.example.edu", "https://www.example.edu"},
	}
	for _, tt := range tests {
		if got := NormalizeURL(tt.in); got != tt.want {
			t.Errorf("NormalizeURL(%q): expected %q, got %q", tt.in, tt.want, got)
		}
	}
}

func TestPathLabel(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"https://a.edu/people/faculty-directory/": "faculty directory",
		"https://a.edu/staff_list.html":           "staff list",
		"https://a.edu/":                          "",
	}
	for in, want := range tests {
		if got := PathLabel(in); got != want {
			t.Errorf("PathLabel(%q): expected %q, got %q", in, want, got)
		}
	}
}

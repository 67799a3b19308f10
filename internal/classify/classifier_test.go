package classify

import (
	"html"
	"strings"
	"testing"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
	"github.com/nao1215/scholarscan/internal/similarity"
)

// menuPage renders a page whose navigation holds the given anchor texts,
// each pointing at /link/<index>.
func menuPage(texts ...string) *extract.Document {
	var b strings.Builder
	b.WriteString("<html><body><nav><ul>")
	for i, text := range texts {
		b.WriteString(`<li><a href="/link/`)
		b.WriteString(string(rune('a' + i)))
		b.WriteString(`">`)
		b.WriteString(html.EscapeString(text))
		b.WriteString("</a></li>")
	}
	b.WriteString("</ul></nav></body></html>")
	return extract.NewDocument("https://www.example.edu/", []byte(b.String()))
}

func defaultOptions() Options {
	return Options{Threshold: DefaultThreshold, TopPerConcept: DefaultTopPerConcept}
}

func TestClassifyExactSynonym(t *testing.T) {
	t.Parallel()

	c := New(similarity.NewScorer(nil))

	for _, set := range DefaultConcepts() {
		for _, synonym := range set.Synonyms {
			t.Run(string(set.Concept)+"/"+synonym, func(t *testing.T) {
				t.Parallel()

				anchor := strings.ToUpper(synonym[:1]) + synonym[1:]
				doc := menuPage("Contact", anchor)
				got := c.Classify(doc, defaultOptions())

				expected := firstConceptWith(synonym)
				for _, cand := range got {
					if cand.Text != anchor {
						continue
					}
					if cand.Score < 0.8 {
						t.Errorf("expected score >= 0.8, got %v", cand.Score)
					}
					if cand.Tag != expected {
						t.Errorf("expected tag %s, got %s", expected, cand.Tag)
					}
					return
				}
				t.Errorf("anchor %q not returned: %+v", anchor, got)
			})
		}
	}
}

// firstConceptWith returns the first default concept listing synonym.
func firstConceptWith(synonym string) model.Concept {
	for _, set := range DefaultConcepts() {
		for _, s := range set.Synonyms {
			if s == synonym {
				return set.Concept
			}
		}
	}
	return ""
}

func TestClassifyFacultyAndPeople(t *testing.T) {
	t.Parallel()

	c := New(similarity.NewScorer(nil))
	got := c.Classify(menuPage("Faculty", "People"), defaultOptions())

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	tags := map[string]model.Concept{}
	for _, cand := range got {
		tags[cand.Text] = cand.Tag
	}
	if tags["Faculty"] != model.ConceptDepartment {
		t.Errorf("expected Faculty to be DEPARTMENT, got %s", tags["Faculty"])
	}
	if tags["People"] != model.ConceptPeople {
		t.Errorf("expected People to be PEOPLE, got %s", tags["People"])
	}
}

func TestClassifyPeopleOnly(t *testing.T) {
	t.Parallel()

	c := New(similarity.NewScorer(nil))
	opts := Options{Threshold: DefaultPeopleOnlyThreshold, PeopleOnly: true}
	got := c.Classify(menuPage("Faculty", "Departments and Programs"), opts)

	if len(got) != 1 {
		t.Fatalf("expected 1 candidate, got %+v", got)
	}
	if got[0].Text != "Faculty" || got[0].Tag != model.ConceptPeople {
		t.Errorf("unexpected candidate %+v", got[0])
	}
}

func TestClassifyFallback(t *testing.T) {
	t.Parallel()

	page := `<html><body><main><a href="/people">People</a></main></body></html>`
	doc := extract.NewDocument("https://www.example.edu/", []byte(page))
	c := New(similarity.NewScorer(nil))

	opts := defaultOptions()
	if got := c.Classify(doc, opts); len(got) != 0 {
		t.Errorf("expected no candidate without fallback, got %+v", got)
	}

	opts.AllowFallback = true
	got := c.Classify(doc, opts)
	if len(got) != 1 || got[0].Tag != model.ConceptPeople {
		t.Errorf("expected People from fallback, got %+v", got)
	}
}

// tableScorer scores from a lookup table keyed by "text|synonym".
type tableScorer map[string]float64

func (s tableScorer) Score(a, b string) float64 {
	return s[a+"|"+b]
}

func TestClassifyLinksOrderingAndDedupe(t *testing.T) {
	t.Parallel()

	links := extract.Links{
		{Text: "Staff", URL: "https://a.edu/staff"},
		{Text: "Staff(1)", URL: "https://a.edu/staff/"},
		{Text: "Schools", URL: "https://a.edu/schools"},
		{Text: "Map", URL: "https://a.edu/map"},
	}
	scorer := tableScorer{
		"Staff|staff":   0.95,
		"Staff|dept":    0.75,
		"Schools|dept":  0.9,
		"Schools|staff": 0.2,
		"Map|dept":      0.5,
		"Map|staff":     0.65,
	}
	c := New(scorer, WithConcepts([]ConceptSet{
		{Concept: model.ConceptDepartment, Synonyms: []string{"dept"}},
		{Concept: model.ConceptPeople, Synonyms: []string{"staff"}},
	}))

	got := c.ClassifyLinks(links, Options{Threshold: 0.7, TopPerConcept: 3})

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %+v", got)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("scores not sorted: %+v", got)
		}
	}
	if got[0].Text != "Staff" || got[0].Tag != model.ConceptPeople {
		t.Errorf("unexpected first candidate %+v", got[0])
	}
	if got[1].Text != "Schools" || got[1].Tag != model.ConceptDepartment {
		t.Errorf("unexpected second candidate %+v", got[1])
	}
}

func TestClassifyLinksTopPerSynonym(t *testing.T) {
	t.Parallel()

	links := extract.Links{
		{Text: "A", URL: "https://a.edu/a"},
		{Text: "B", URL: "https://a.edu/b"},
		{Text: "C", URL: "https://a.edu/c"},
	}
	scorer := tableScorer{"A|x": 0.9, "B|x": 0.8, "C|x": 0.75}
	c := New(scorer, WithConcepts([]ConceptSet{{Concept: model.ConceptPeople, Synonyms: []string{"x"}}}))

	got := c.ClassifyLinks(links, Options{Threshold: 0.7, TopPerConcept: 2})
	if len(got) != 2 || got[0].Text != "A" || got[1].Text != "B" {
		t.Errorf("expected top two candidates, got %+v", got)
	}
}

func TestClassifyEmpty(t *testing.T) {
	t.Parallel()

	c := New(similarity.NewScorer(nil))
	if got := c.ClassifyLinks(nil, defaultOptions()); got != nil {
		t.Errorf("expected nil, got %+v", got)
	}
}

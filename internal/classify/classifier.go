package classify

import (
	"log/slog"
	"sort"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
)

// Default classification parameters.
const (
	// DefaultThreshold is the minimum score of a returned candidate.
	DefaultThreshold = 0.7

	// DefaultPeopleOnlyThreshold is used once a branch has committed to a
	// department and only people links are of interest.
	DefaultPeopleOnlyThreshold = 0.85

	// DefaultTopPerConcept is how many links are kept per synonym.
	DefaultTopPerConcept = 3
)

// Scorer scores the similarity of two strings in [0,1].
type Scorer interface {
	Score(a, b string) float64
}

// Options controls one classification call.
type Options struct {
	// Threshold is the minimum score of a returned candidate.
	Threshold float64

	// TopPerConcept is how many links are kept per synonym.
	TopPerConcept int

	// PeopleOnly restricts classification to the PEOPLE concept.
	PeopleOnly bool

	// AllowFallback re-runs the classification over every link of the page
	// when the menu yields no candidate.
	AllowFallback bool
}

// Classifier ranks links against concept synonyms.
type Classifier struct {
	scorer   Scorer
	concepts []ConceptSet
	logger   *slog.Logger
}

// Option configures a Classifier.
type Option func(*Classifier)

// WithConcepts replaces the concept sets. Sets are evaluated in order.
func WithConcepts(concepts []ConceptSet) Option {
	return func(c *Classifier) {
		if len(concepts) > 0 {
			c.concepts = concepts
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Classifier) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New returns a Classifier using scorer.
func New(scorer Scorer, opts ...Option) *Classifier {
	c := &Classifier{
		scorer:   scorer,
		concepts: DefaultConcepts(),
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify ranks the menu links of doc. When nothing reaches the threshold
// and opts.AllowFallback is set, every link of the page is ranked instead.
func (c *Classifier) Classify(doc *extract.Document, opts Options) []model.ClassifiedCandidate {
	candidates := c.ClassifyLinks(doc.Menu(), opts)
	if len(candidates) > 0 || !opts.AllowFallback {
		return candidates
	}

	c.logger.Debug("no menu candidate, falling back to all links",
		"url", doc.URL(),
		"peopleOnly", opts.PeopleOnly,
	)
	return c.ClassifyLinks(doc.General(), opts)
}

// ClassifyLinks ranks links. The result is sorted by non-increasing score,
// holds each URL at most once and only candidates at or above the
// threshold.
func (c *Classifier) ClassifyLinks(links extract.Links, opts Options) []model.ClassifiedCandidate {
	if len(links) == 0 {
		return nil
	}
	top := opts.TopPerConcept
	if top <= 0 {
		top = DefaultTopPerConcept
	}

	texts := make([]string, len(links))
	for i, l := range links {
		texts[i] = extract.StripCounter(l.Text)
	}

	var pool []model.ClassifiedCandidate
	for _, set := range c.concepts {
		if opts.PeopleOnly && set.Concept != model.ConceptPeople {
			continue
		}
		for _, synonym := range set.Synonyms {
			scored := make([]model.ClassifiedCandidate, 0, len(links))
			for i, l := range links {
				if texts[i] == "" {
					continue
				}
				scored = append(scored, model.ClassifiedCandidate{
					Text:  l.Text,
					URL:   l.URL,
					Label: l.Label(),
					Score: c.scorer.Score(texts[i], synonym),
					Tag:   set.Concept,
				})
			}
			sortByScore(scored)
			if len(scored) > top {
				scored = scored[:top]
			}
			pool = append(pool, scored...)
		}
	}

	sortByScore(pool)

	var out []model.ClassifiedCandidate
	seen := make(map[string]bool)
	for _, cand := range pool {
		key := extract.NormalizeURL(cand.URL)
		if seen[key] {
			continue
		}
		seen[key] = true
		if cand.Score >= opts.Threshold {
			out = append(out, cand)
		}
	}
	return out
}

func sortByScore(c []model.ClassifiedCandidate) {
	sort.SliceStable(c, func(i, j int) bool { return c[i].Score > c[j].Score })
}

package nlp

import "strings"

// DefaultFilterWords remove institutional noise from recognized entities.
var DefaultFilterWords = []string{
	"library", "university", "department", "faculty", "menu", "copyright",
	"college", "staff", "student", "lab", "footer", "impact", "header",
	"view", "profile", "human", "resources",
}

// institutionWords are dropped from the filter when looking for
// organizations, so institution names survive.
var institutionWords = setOf("university", "college", "department", "faculty")

// Tagger wraps a Recognizer and removes noise entities.
type Tagger struct {
	recognizer Recognizer
	filter     []string
	orgFilter  []string
}

// TaggerOption configures a Tagger.
type TaggerOption func(*Tagger)

// WithFilterWords replaces the noise filter words.
func WithFilterWords(words []string) TaggerOption {
	return func(t *Tagger) {
		t.filter = lowerAll(words)
	}
}

// NewTagger returns a Tagger over recognizer. A nil recognizer selects a
// RuleRecognizer.
func NewTagger(recognizer Recognizer, opts ...TaggerOption) *Tagger {
	if recognizer == nil {
		recognizer = NewRuleRecognizer()
	}
	t := &Tagger{
		recognizer: recognizer,
		filter:     lowerAll(DefaultFilterWords),
	}
	for _, opt := range opts {
		opt(t)
	}
	for _, w := range t.filter {
		if !institutionWords[w] {
			t.orgFilter = append(t.orgFilter, w)
		}
	}
	return t
}

// Persons returns the person names found in text.
func (t *Tagger) Persons(text string) []string {
	return t.entities(text, LabelPerson, t.filter)
}

// Organizations returns the organization names found in text.
func (t *Tagger) Organizations(text string) []string {
	return t.entities(text, LabelOrg, t.orgFilter)
}

// HasPerson reports whether text contains a person name.
func (t *Tagger) HasPerson(text string) bool {
	return len(t.Persons(text)) > 0
}

// FirstPerson returns the first person name found across texts.
func (t *Tagger) FirstPerson(texts ...string) (string, bool) {
	for _, text := range texts {
		if names := t.Persons(text); len(names) > 0 {
			return names[0], true
		}
	}
	return "", false
}

func (t *Tagger) entities(text string, label Label, filter []string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	var out []string
	for _, e := range t.recognizer.Recognize(text) {
		if e.Label != label || noisy(e.Text, filter) {
			continue
		}
		out = append(out, e.Text)
	}
	return out
}

func noisy(text string, filter []string) bool {
	lower := strings.ToLower(text)
	for _, w := range filter {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}

func lowerAll(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		if w = strings.ToLower(strings.TrimSpace(w)); w != "" {
			out = append(out, w)
		}
	}
	return out
}

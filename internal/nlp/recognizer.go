package nlp

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Label is the kind of a recognized entity.
type Label string

const (
	// LabelPerson marks a person name.
	LabelPerson Label = "PERSON"

	// LabelOrg marks an organization name.
	LabelOrg Label = "ORG"
)

// Entity is a span of text recognized as a named entity.
type Entity struct {
	Text  string
	Label Label
}

// Recognizer finds named entities in text. Implementations must be safe
// for concurrent use.
type Recognizer interface {
	Recognize(text string) []Entity
}

// RuleRecognizer recognizes entities from runs of capitalized words.
// A run containing an organization keyword ("University", "Institute", …)
// is an ORG; a run of two to four name-shaped words that are not common
// vocabulary is a PERSON. Honorifics and degrees at either end of a run
// are dropped.
type RuleRecognizer struct{}

// NewRuleRecognizer returns a RuleRecognizer.
func NewRuleRecognizer() *RuleRecognizer {
	return &RuleRecognizer{}
}

// segmentSeparators split text into independent phrases.
var segmentSeparators = regexp.MustCompile(`[,;:()\[\]{}|/•·–—"“”\n\t]+|\s-\s`)

// nameToken matches a capitalized name word or an initial.
var nameToken = regexp.MustCompile(`^\p{Lu}[\p{L}'’\-]*\.?$`)

// Recognize implements Recognizer.
func (r *RuleRecognizer) Recognize(text string) []Entity {
	var out []Entity
	for _, segment := range segmentSeparators.Split(text, -1) {
		for _, run := range capitalizedRuns(strings.Fields(segment)) {
			if e, ok := classifyRun(run); ok {
				out = append(out, e)
			}
		}
	}
	return out
}

// capitalizedRuns groups consecutive capitalized tokens. Lower-case
// connectors ("of", "and", …) are kept inside a run when a capitalized
// token follows them.
func capitalizedRuns(tokens []string) [][]string {
	var (
		runs    [][]string
		current []string
	)
	closeRun := func() {
		if len(current) > 0 {
			runs = append(runs, current)
		}
		current = nil
	}

	for i, tok := range tokens {
		tok = strings.Trim(tok, `!?*'’`)
		switch {
		case tok == "":
			closeRun()
		case isCapitalized(tok):
			current = append(current, tok)
		case len(current) > 0 && connectors[strings.ToLower(tok)] &&
			i+1 < len(tokens) && isCapitalized(tokens[i+1]):
			current = append(current, tok)
		default:
			closeRun()
		}
		if strings.HasSuffix(tok, ".") && len(tok) > 3 && !honorific(tok) {
			// A word-final period that is not an initial or honorific ends
			// a sentence.
			closeRun()
		}
	}
	closeRun()
	return runs
}

// classifyRun decides whether a run of capitalized tokens is an entity.
func classifyRun(run []string) (Entity, bool) {
	run = trimTitles(run)
	if len(run) == 0 {
		return Entity{}, false
	}

	for _, tok := range run {
		if orgKeywords[fold(tok)] {
			return Entity{Text: strings.Join(run, " "), Label: LabelOrg}, true
		}
	}

	if len(run) < 2 || len(run) > 4 {
		return Entity{}, false
	}
	for _, tok := range run {
		if !nameToken.MatchString(tok) || commonWords[fold(tok)] || isAcronym(tok) {
			return Entity{}, false
		}
	}
	return Entity{Text: strings.Join(run, " "), Label: LabelPerson}, true
}

// trimTitles drops honorifics, degrees and rank words from both ends of a
// run, together with connectors left dangling at the edges.
func trimTitles(run []string) []string {
	for len(run) > 0 && (titleWords[fold(run[0])] || connectors[strings.ToLower(run[0])]) {
		run = run[1:]
	}
	for len(run) > 0 && (titleWords[fold(run[len(run)-1])] || connectors[strings.ToLower(run[len(run)-1])]) {
		run = run[:len(run)-1]
	}
	return run
}

func isCapitalized(tok string) bool {
	r, _ := utf8.DecodeRuneInString(tok)
	return unicode.IsUpper(r)
}

// isAcronym reports whether tok is two or more capital letters, like "MIT"
// or "CS".
func isAcronym(tok string) bool {
	tok = strings.TrimSuffix(tok, ".")
	if utf8.RuneCountInString(tok) < 2 {
		return false
	}
	for _, r := range tok {
		if !unicode.IsUpper(r) {
			return false
		}
	}
	return true
}

func honorific(tok string) bool {
	return titleWords[fold(tok)]
}

// fold lower-cases tok and removes dots so "Ph.D." and "phd" compare equal.
func fold(tok string) string {
	return strings.ReplaceAll(strings.ToLower(tok), ".", "")
}

package similarity

import (
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Default scoring parameters.
const (
	// DefaultSemanticWeight is the share of the semantic score in a blended
	// score.
	DefaultSemanticWeight = 0.8

	// DefaultShortCircuit is the lexical ratio at or above which the
	// semantic score is not computed.
	DefaultShortCircuit = 0.8
)

// Scorer computes blended lexical/semantic similarity scores.
// A Scorer is safe for concurrent use when its Embedder is.
type Scorer struct {
	embedder     Embedder
	weight       float64
	shortCircuit float64
}

// Option configures a Scorer.
type Option func(*Scorer)

// WithSemanticWeight sets the weight of the semantic score.
// Values outside [0,1] are ignored.
func WithSemanticWeight(w float64) Option {
	return func(s *Scorer) {
		if w >= 0 && w <= 1 {
			s.weight = w
		}
	}
}

// WithShortCircuit sets the lexical ratio that skips semantic scoring.
func WithShortCircuit(threshold float64) Option {
	return func(s *Scorer) {
		if threshold > 0 && threshold <= 1 {
			s.shortCircuit = threshold
		}
	}
}

// NewScorer returns a Scorer using embedder for semantic similarity.
// A nil embedder selects a HashingEmbedder.
func NewScorer(embedder Embedder, opts ...Option) *Scorer {
	if embedder == nil {
		embedder = NewHashingEmbedder(DefaultDimensions)
	}
	s := &Scorer{
		embedder:     embedder,
		weight:       DefaultSemanticWeight,
		shortCircuit: DefaultShortCircuit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Score returns the similarity of a and b in [0,1] using the configured
// semantic weight.
func (s *Scorer) Score(a, b string) float64 {
	return s.ScoreWeighted(a, b, s.weight)
}

// ScoreWeighted returns the similarity of a and b in [0,1] with an
// explicit semantic weight.
func (s *Scorer) ScoreWeighted(a, b string, semanticWeight float64) float64 {
	// cases.Caser keeps state, so one is created per call.
	lower := cases.Lower(language.Und)
	a, b = lower.String(a), lower.String(b)

	lexical := Ratio(a, b)
	if lexical >= s.shortCircuit {
		return lexical
	}

	semantic := Cosine(s.embedder.Embed(a), s.embedder.Embed(b))
	semantic = min(max(semantic, 0), 1)

	return semantic*semanticWeight + lexical*(1-semanticWeight)
}

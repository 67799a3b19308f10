package similarity

import (
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/kljensen/snowball"
)

// Embedder turns text into a vector. Implementations must be safe for
// concurrent use.
type Embedder interface {
	Embed(text string) []float64
}

// Cosine returns the cosine similarity of two vectors.
// Vectors of different length or zero magnitude have similarity 0.
func Cosine(a, b []float64) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}

// DefaultDimensions is the vector size of HashingEmbedder.
const DefaultDimensions = 512

// HashingEmbedder embeds text by hashing stemmed words and their character
// trigrams into a fixed number of dimensions. Words that share a stem
// ("departments", "department") land on the same features.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder returns a HashingEmbedder with dims dimensions.
// Non-positive dims selects DefaultDimensions.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Embed implements Embedder.
func (e *HashingEmbedder) Embed(text string) []float64 {
	vec := make([]float64, e.dims)
	for _, word := range words(text) {
		stem := stemWord(word)
		e.add(vec, "w:"+stem, 1)

		padded := []rune("#" + stem + "#")
		for i := 0; i+3 <= len(padded); i++ {
			e.add(vec, "t:"+string(padded[i:i+3]), 0.5)
		}
	}
	return vec
}

// add accumulates weight on the dimension feature hashes to. One bit of
// the hash picks the sign so collisions tend to cancel out.
func (e *HashingEmbedder) add(vec []float64, feature string, weight float64) {
	h := fnv.New64a()
	_, _ = h.Write([]byte(feature))
	sum := h.Sum64()
	idx := int(sum % uint64(e.dims))
	if sum&(1<<63) != 0 {
		weight = -weight
	}
	vec[idx] += weight
}

// words splits text into lower-case letter/digit runs.
func words(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// stemWord returns the English snowball stem of word, or word itself when
// stemming fails.
func stemWord(word string) string {
	stem, err := snowball.Stem(word, "english", true)
	if err != nil || stem == "" {
		return word
	}
	return stem
}

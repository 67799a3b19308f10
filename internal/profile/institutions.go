package profile

import (
	"strings"
	"unicode"

	"github.com/nao1215/scholarscan/internal/similarity"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Institution matching thresholds.
const (
	// institutionMatchRatio is the ratio at which an organization counts as
	// a known institution.
	institutionMatchRatio = 0.5

	// institutionNormalizeRatio is the ratio at which an organization name
	// is replaced by the canonical name of the known institution.
	institutionNormalizeRatio = 0.6
)

// DefaultInstitutions is the built-in list of known degree-granting
// institutions used to recognize and normalize PhD schools.
var DefaultInstitutions = []string{
	"Brown University", "California Institute of Technology",
	"Carnegie Mellon University", "Columbia University", "Cornell University",
	"Duke University", "ETH Zurich", "Georgia Institute of Technology",
	"Harvard University", "Imperial College London", "Johns Hopkins University",
	"Massachusetts Institute of Technology", "McGill University",
	"New York University", "Northwestern University", "Ohio State University",
	"Peking University", "Pennsylvania State University", "Princeton University",
	"Purdue University", "Rice University", "Rutgers University",
	"Stanford University", "Texas A&M University", "Tsinghua University",
	"University College London", "University of British Columbia",
	"University of California, Berkeley", "University of California, Los Angeles",
	"University of California, San Diego", "University of Cambridge",
	"University of Chicago", "University of Edinburgh",
	"University of Illinois at Urbana-Champaign", "University of Maryland",
	"University of Michigan", "University of Minnesota",
	"University of North Carolina at Chapel Hill", "University of Oxford",
	"University of Pennsylvania", "University of Southern California",
	"University of Texas at Austin", "University of Tokyo",
	"University of Toronto", "University of Washington",
	"University of Wisconsin-Madison", "Vanderbilt University",
	"Washington University in St. Louis", "Yale University",
	"National University of Singapore", "Technion - Israel Institute of Technology",
	"Tel Aviv University", "Weizmann Institute of Science", "Seoul National University",
	"KAIST", "Kyoto University", "Australian National University",
	"University of Melbourne", "École Polytechnique Fédérale de Lausanne",
	"Technical University of Munich", "Sorbonne University", "Indian Institute of Science",
}

// institutions matches organization names against a known list.
type institutions struct {
	names  []string
	folded []string
}

func newInstitutions(names []string) *institutions {
	inst := &institutions{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n == "" {
			continue
		}
		inst.names = append(inst.names, n)
		inst.folded = append(inst.folded, foldName(n))
	}
	return inst
}

// best returns the known institution most similar to name and the ratio.
func (in *institutions) best(name string) (string, float64) {
	folded := foldName(name)
	bestName, bestRatio := "", 0.0
	for i, candidate := range in.folded {
		if r := similarity.Ratio(folded, candidate); r > bestRatio {
			bestName, bestRatio = in.names[i], r
		}
	}
	return bestName, bestRatio
}

// isInstitution reports whether an organization name looks like a
// degree-granting institution.
func (in *institutions) isInstitution(name string) bool {
	folded := foldName(name)
	if strings.Contains(folded, "univ") || strings.Contains(folded, "insti") {
		return true
	}
	_, ratio := in.best(name)
	return ratio >= institutionMatchRatio
}

// normalize replaces name by the closest known institution when they are
// similar enough.
func (in *institutions) normalize(name string) string {
	if best, ratio := in.best(name); ratio >= institutionNormalizeRatio {
		return best
	}
	return name
}

// foldName lower-cases s and removes diacritics, so "Zürich" and "Zurich"
// compare equal.
func foldName(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.ToLower(strings.Join(strings.Fields(out), " "))
}

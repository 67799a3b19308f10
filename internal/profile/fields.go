package profile

import (
	"regexp"
	"sort"
	"strings"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
)

const (
	// maxLineTokens is the longest text line searched for rank, degree and
	// year markers. Longer lines are prose.
	maxLineTokens = 10

	// maxCueTokens is the longest text block treated as a section heading
	// by IsPersonalContent.
	maxCueTokens = 5

	// maxNameTokens is the number of words kept from a name.
	maxNameTokens = 3
)

var (
	associateRe = regexp.MustCompile(`(associate|(assoc\.?)) prof[\.]?[ ]?`)
	assistantRe = regexp.MustCompile(`(assistant|(asst\.?)) prof[\.]?[ ]?`)
	professorRe = regexp.MustCompile(`prof\.|professor`)
	phdRe       = regexp.MustCompile(`\b(ph\.?\s?d\b\.?|d\.?\s?phil\b\.?)`)
	yearRe      = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)

	// acronymRe removes "(MIT)" style suffixes from a school on the
	// marker line; neighbour lines drop any bracketed text.
	acronymRe  = regexp.MustCompile(`\([A-Z][A-Z]+\)`)
	bracketsRe = regexp.MustCompile(`\(.+\)`)
)

// personalCues mark the sections of a personal page.
var personalCues = []string{"publicati", "interest", "biograph"}

// honorifics are dropped from the start of a name.
var honorifics = []string{"professor", "prof.", "prof", "dr.", "dr"}

// rankFromLabel maps the prefix of an inbound link label to a rank.
func rankFromLabel(label string) (model.Rank, bool) {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "prof"):
		return model.RankProfessor, true
	case strings.HasPrefix(l, "assist"), strings.HasPrefix(l, "asst"):
		return model.RankAssistant, true
	case strings.HasPrefix(l, "associat"), strings.HasPrefix(l, "asso"):
		return model.RankAssociate, true
	}
	return model.RankNonProfessor, false
}

// rankFromLines searches short lines for a rank. An associate or
// assistant match anywhere wins over a bare professor match.
func rankFromLines(lines []string) model.Rank {
	for _, rank := range []struct {
		re   *regexp.Regexp
		rank model.Rank
	}{
		{associateRe, model.RankAssociate},
		{assistantRe, model.RankAssistant},
		{professorRe, model.RankProfessor},
	} {
		for _, line := range lines {
			if rank.re.MatchString(line) {
				return rank.rank
			}
		}
	}
	return model.RankNonProfessor
}

// candidateLines returns the lines worth searching for markers: short and
// not about students. The returned lines are lower-cased; index maps each
// back to its position in blocks.
func candidateLines(blocks []string) (lines []string, index []int) {
	for i, b := range blocks {
		lower := strings.ToLower(b)
		if strings.Contains(lower, "student") {
			continue
		}
		if len(strings.Fields(lower)) > maxLineTokens {
			continue
		}
		lines = append(lines, lower)
		index = append(index, i)
	}
	return lines, index
}

// markerLines returns the positions in blocks of candidate lines matching
// re.
func markerLines(blocks []string, re *regexp.Regexp) []int {
	lines, index := candidateLines(blocks)
	var out []int
	for i, line := range lines {
		if re.MatchString(line) {
			out = append(out, index[i])
		}
	}
	return out
}

// neighbours returns the positions one before and one after each of
// positions, in order and without repeats.
func neighbours(positions []int, n int) []int {
	seen := make(map[int]bool, len(positions))
	for _, p := range positions {
		seen[p] = true
	}
	var out []int
	for _, p := range positions {
		for _, q := range []int{p - 1, p + 1} {
			if q < 0 || q >= n || seen[q] {
				continue
			}
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

// firstYear returns the first year found on the lines at positions.
func firstYear(blocks []string, positions []int) (string, bool) {
	for _, p := range positions {
		if y := yearRe.FindString(blocks[p]); y != "" {
			return y, true
		}
	}
	return "", false
}

// yearNear finds a year on the marker lines, then on their neighbours.
func yearNear(blocks []string, markers []int) string {
	if y, ok := firstYear(blocks, markers); ok {
		return y
	}
	if y, ok := firstYear(blocks, neighbours(markers, len(blocks))); ok {
		return y
	}
	return model.Unknown
}

// schoolNear finds an institution on the marker lines, then on their
// neighbours.
func (p *Parser) schoolNear(blocks []string, markers []int) string {
	if s, ok := p.school(blocks, markers, acronymRe); ok {
		return s
	}
	if s, ok := p.school(blocks, neighbours(markers, len(blocks)), bracketsRe); ok {
		return s
	}
	return model.Unknown
}

// school returns the most frequent institution named on the lines at
// positions, normalized against the known institution list.
func (p *Parser) school(blocks []string, positions []int, strip *regexp.Regexp) (string, bool) {
	counts := make(map[string]int)
	var order []string
	for _, pos := range positions {
		line := strip.ReplaceAllString(blocks[pos], "")
		for _, org := range p.tagger.Organizations(line) {
			org = strings.TrimSpace(org)
			if org == "" || !p.institutions.isInstitution(org) {
				continue
			}
			if counts[org] == 0 {
				order = append(order, org)
			}
			counts[org]++
		}
	}
	if len(order) == 0 {
		return "", false
	}
	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return p.institutions.normalize(order[0]), true
}

// degreeFields extracts PhD year, PhD school and promotion year from text
// lines. A PhD year later than the promotion year is discarded.
func (p *Parser) degreeFields(blocks []string) (phdYear, phdSchool, promotionYear string) {
	phd := markerLines(blocks, phdRe)
	prof := markerLines(blocks, professorRe)

	phdYear, phdSchool, promotionYear = model.Unknown, model.Unknown, model.Unknown
	if len(phd) > 0 {
		phdYear = yearNear(blocks, phd)
		phdSchool = p.schoolNear(blocks, phd)
	}
	if len(prof) > 0 {
		promotionYear = yearNear(blocks, prof)
	}
	if phdYear != model.Unknown && promotionYear != model.Unknown && phdYear > promotionYear {
		phdYear = model.Unknown
	}
	return phdYear, phdSchool, promotionYear
}

// cleanName removes counters and honorifics and keeps the first words of
// a name.
func cleanName(name string) string {
	name = extract.StripCounter(name)
	tokens := strings.Fields(name)
	for len(tokens) > 0 && isHonorific(tokens[0]) {
		tokens = tokens[1:]
	}
	if len(tokens) > maxNameTokens {
		tokens = tokens[:maxNameTokens]
	}
	if len(tokens) == 0 {
		return model.Unknown
	}
	return strings.Join(tokens, " ")
}

func isHonorific(tok string) bool {
	lower := strings.ToLower(tok)
	for _, h := range honorifics {
		if lower == h {
			return true
		}
	}
	return false
}

// newBlocks returns the text blocks that appear on none of the past pages.
func newBlocks(blocks []string, past []model.PageDigest) []string {
	if len(past) == 0 {
		return blocks
	}
	seen := make(map[string]bool)
	for _, page := range past {
		for _, t := range page.Text {
			seen[t] = true
		}
	}
	var out []string
	for _, b := range blocks {
		if !seen[b] {
			out = append(out, b)
		}
	}
	return out
}

// hasPersonalCue reports whether a short block names a section that only
// personal pages have.
func hasPersonalCue(blocks []string) bool {
	for _, b := range blocks {
		if len(strings.Fields(b)) > maxCueTokens {
			continue
		}
		lower := strings.ToLower(b)
		for _, cue := range personalCues {
			if strings.Contains(lower, cue) {
				return true
			}
		}
	}
	return false
}

package report

import (
	"io"
	"sort"
	"time"

	"github.com/nao1215/scholarscan/internal/model"
)

// Export is a set of profiles to write.
type Export struct {
	// GeneratedAt is when the export was produced.
	GeneratedAt time.Time `json:"generated_at"`

	// University is the university filter, empty for all universities.
	University string `json:"university,omitempty"`

	// Profiles are the exported profiles.
	Profiles []model.ProfileRecord `json:"profiles"`
}

// NewExport returns an Export of profiles generated now.
func NewExport(profiles []model.ProfileRecord, university string) *Export {
	return &Export{
		GeneratedAt: time.Now(),
		University:  university,
		Profiles:    profiles,
	}
}

// RankCount is the number of profiles holding one rank.
type RankCount struct {
	Rank  model.Rank `json:"rank"`
	Count int        `json:"count"`
}

// rankOrder lists ranks from most to least senior.
var rankOrder = []model.Rank{
	model.RankProfessor,
	model.RankAssociate,
	model.RankAssistant,
}

// RankCounts returns how many profiles hold each professor rank, most
// senior first. Ranks without profiles are included with a zero count.
func (e *Export) RankCounts() []RankCount {
	counts := make(map[model.Rank]int)
	for _, p := range e.Profiles {
		counts[p.Rank]++
	}
	result := make([]RankCount, len(rankOrder))
	for i, rank := range rankOrder {
		result[i] = RankCount{Rank: rank, Count: counts[rank]}
	}
	return result
}

// Universities returns the profiles grouped by university, in name order.
func (e *Export) Universities() []UniversityGroup {
	index := make(map[string]int)
	var groups []UniversityGroup
	for _, p := range e.Profiles {
		i, ok := index[p.University]
		if !ok {
			i = len(groups)
			index[p.University] = i
			groups = append(groups, UniversityGroup{University: p.University})
		}
		groups[i].Profiles = append(groups[i].Profiles, p)
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].University < groups[j].University
	})
	return groups
}

// UniversityGroup holds the profiles of one university.
type UniversityGroup struct {
	University string
	Profiles   []model.ProfileRecord
}

// Writer writes an Export to its destination.
type Writer interface {
	// Write returns the number of bytes written.
	Write(export *Export) (int, error)
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// orDash returns "-" for empty values so tables keep their columns.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// truncateString truncates a string to maxLen runes with ellipsis.
func truncateString(s string, maxLen int) string {
	runes := []rune(s)
	if len(runes) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(runes[:maxLen])
	}
	return string(runes[:maxLen-3]) + "..."
}

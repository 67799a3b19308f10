package model

import (
	"strings"
	"time"
)

// Unknown is stored in any profile field that could not be resolved.
const Unknown = "Unknown"

// Rank is an academic rank.
type Rank string

const (
	// RankProfessor is a full professor.
	RankProfessor Rank = "Professor"

	// RankAssociate is an associate professor.
	RankAssociate Rank = "Associate Professor"

	// RankAssistant is an assistant professor.
	RankAssistant Rank = "Assistant Professor"

	// RankNonProfessor is anyone else. Pages with this rank are not stored.
	RankNonProfessor Rank = "Non-Professor"
)

// IsProfessor reports whether r is one of the professor ranks.
func (r Rank) IsProfessor() bool {
	return r == RankProfessor || r == RankAssociate || r == RankAssistant
}

// ProfileRecord is a structured faculty profile.
// URL is the primary key; storing a record with an existing URL updates it
// unless the stored row was edited by a user.
type ProfileRecord struct {
	URL           string    `json:"profile_link"`
	Name          string    `json:"name"`
	Department    string    `json:"department"`
	University    string    `json:"university"`
	Tag           Tag       `json:"tag,omitempty"`
	Rank          Rank      `json:"position"`
	PhDYear       string    `json:"phd_year"`
	PhDSchool     string    `json:"phd_school"`
	PromotionYear string    `json:"promotion_year"`
	Text          string    `json:"text_raw,omitempty"`
	UserUpdated   bool      `json:"user_updated"`
	CrawledAt     time.Time `json:"crawled_at"`
}

// UnknownCount returns how many of the parsed biographical fields are
// unresolved.
func (p *ProfileRecord) UnknownCount() int {
	n := 0
	for _, v := range []string{p.PhDYear, p.PhDSchool, p.PromotionYear} {
		if v == "" || strings.EqualFold(v, Unknown) {
			n++
		}
	}
	return n
}

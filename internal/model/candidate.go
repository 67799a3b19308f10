package model

// Concept is a navigation target a link can be classified as.
type Concept string

const (
	// ConceptDepartment marks links toward department or school pages.
	ConceptDepartment Concept = "DEPARTMENT"

	// ConceptPeople marks links toward staff or faculty directories.
	ConceptPeople Concept = "PEOPLE"
)

// ClassifiedCandidate is a link scored against a concept.
type ClassifiedCandidate struct {
	Text  string  `json:"text"`
	URL   string  `json:"url"`
	Label string  `json:"label,omitempty"`
	Score float64 `json:"score"`
	Tag   Concept `json:"tag"`
}

package model

import "strings"

// Tag classifies a university relative to the home institution.
type Tag string

const (
	// TagNone marks a university with no comparison role.
	TagNone Tag = ""

	// TagPeer marks a peer university.
	TagPeer Tag = "peer"

	// TagAspirant marks an aspirant university.
	TagAspirant Tag = "aspirant"
)

// ParseTag converts free text into a Tag. Unknown values map to TagNone.
func ParseTag(s string) Tag {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "peer":
		return TagPeer
	case "aspirant", "aspirational":
		return TagAspirant
	default:
		return TagNone
	}
}

// Seed is one crawl entry point.
type Seed struct {
	// University is the name stored on every profile found from this seed.
	University string `yaml:"university" json:"university"`

	// URL is the entry page.
	URL string `yaml:"url" json:"url"`

	// Title is the entry page's label; it becomes the department name of
	// profiles found before any other title is known.
	Title string `yaml:"title" json:"title"`

	// Department is true when the entry page is already a department page
	// rather than a faculty or university page.
	Department bool `yaml:"department" json:"department"`

	// Tag is the peer/aspirant classification of the university.
	Tag Tag `yaml:"tag" json:"tag"`
}

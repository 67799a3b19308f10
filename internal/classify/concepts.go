package classify

import "github.com/nao1215/scholarscan/internal/model"

// ConceptSet is a concept together with the synonyms that describe it.
type ConceptSet struct {
	Concept  model.Concept
	Synonyms []string
}

// DefaultDepartmentSynonyms describe links toward department or school
// pages.
var DefaultDepartmentSynonyms = []string{
	"area of study", "department", "department of", "school", "school of",
	"academic unit", "school & department", "major and minor", "major",
	"faculty & department", "academics", "departments and programs",
	"faculty",
}

// DefaultPeopleSynonyms describe links toward staff directories.
var DefaultPeopleSynonyms = []string{
	"academic staff", "faculty", "faculty staff", "faculty people",
	"faculty directory", "our people", "people", "staff",
	"staff directory", "teaching staff", "emeritus",
}

// DefaultConcepts returns the default concept sets, DEPARTMENT first.
// When a link scores equally for both concepts the earlier set wins.
func DefaultConcepts() []ConceptSet {
	return []ConceptSet{
		{Concept: model.ConceptDepartment, Synonyms: append([]string(nil), DefaultDepartmentSynonyms...)},
		{Concept: model.ConceptPeople, Synonyms: append([]string(nil), DefaultPeopleSynonyms...)},
	}
}

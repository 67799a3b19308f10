// Package nlp finds person and organization names in short page texts.
//
// Recognition is pluggable through the Recognizer interface. RuleRecognizer
// is a dictionary-and-capitalization backend good enough for link labels,
// titles and headings; a statistical NER model can replace it without
// changing Tagger's callers.
package nlp

// Package profile decides whether a page is a personal faculty profile and
// extracts structured fields from it.
//
// Field extraction is layered. The inbound link label is consulted first
// because directory pages usually link to a profile with the person's
// name and title; page titles and headings come next; free text lines are
// searched last. Years and schools found near a PhD or professor marker
// are taken from the marker line itself before the neighbouring lines are
// considered. A linked CV in PDF form is parsed the same way and preferred
// when it resolves more fields.
package profile

package extract

import (
	"strconv"

	"github.com/nao1215/scholarscan/internal/model"
)

// Links is an ordered, text-keyed set of extracted links.
// Texts are unique: repeated anchor texts carry a "(n)" counter suffix.
type Links []model.Link

// linkBuilder accumulates links while applying the repeated-text rule.
type linkBuilder struct {
	links Links
	used  map[string]bool
	next  map[string]int
}

// add appends link, renaming its text to "text(n)" with the smallest n
// that yields a text not used yet.
func (b *linkBuilder) add(link model.Link) {
	if b.used == nil {
		b.used = make(map[string]bool)
		b.next = make(map[string]int)
	}
	text := link.Text
	for b.used[link.Text] {
		b.next[text]++
		link.Text = text + "(" + strconv.Itoa(b.next[text]) + ")"
	}
	b.used[link.Text] = true
	b.links = append(b.links, link)
}

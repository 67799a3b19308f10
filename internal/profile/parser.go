package profile

import (
	"context"
	"log/slog"
	"strings"

	"github.com/nao1215/scholarscan/internal/extract"
	"github.com/nao1215/scholarscan/internal/model"
	"github.com/nao1215/scholarscan/internal/nlp"
)

// maxRawText caps the supporting text stored with a profile.
const maxRawText = 8 << 10

// Page is a fetched page seen in the people state together with how the
// crawler reached it.
type Page struct {
	// Doc is the parsed page.
	Doc *extract.Document

	// Label is the text of the link that led to the page.
	Label string

	// ParentTitle is the title of the page holding that link.
	ParentTitle string

	// Past holds the pages visited earlier on the same branch.
	Past []model.PageDigest
}

// Parser decides whether pages are personal profiles and extracts their
// fields. It is safe for concurrent use.
type Parser struct {
	tagger       *nlp.Tagger
	institutions *institutions
	fetcher      Fetcher
	logger       *slog.Logger
}

// Option configures a Parser.
type Option func(*Parser)

// WithTagger sets the entity tagger.
func WithTagger(tagger *nlp.Tagger) Option {
	return func(p *Parser) {
		if tagger != nil {
			p.tagger = tagger
		}
	}
}

// WithInstitutions replaces the known institution list.
func WithInstitutions(names []string) Option {
	return func(p *Parser) {
		if len(names) > 0 {
			p.institutions = newInstitutions(names)
		}
	}
}

// WithFetcher enables CV download through fetcher.
func WithFetcher(fetcher Fetcher) Option {
	return func(p *Parser) {
		p.fetcher = fetcher
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Parser) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// New returns a Parser.
func New(opts ...Option) *Parser {
	p := &Parser{
		tagger:       nlp.NewTagger(nil),
		institutions: newInstitutions(DefaultInstitutions),
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// PersonInLabel reports whether an inbound link label names a person.
func (p *Parser) PersonInLabel(label string) bool {
	return p.tagger.HasPerson(extract.StripCounter(label))
}

// PersonInTitle reports whether the unique part of a page title names a
// person.
func (p *Parser) PersonInTitle(title, parentTitle string) bool {
	return p.tagger.HasPerson(UniqueTitle(title, parentTitle))
}

// IsPersonalContent reports whether the page has a short text block, not
// seen on any past page, that introduces publications, research interests
// or a biography.
func (p *Parser) IsPersonalContent(doc *extract.Document, past []model.PageDigest) bool {
	return hasPersonalCue(newBlocks(doc.TextBlocks(), past))
}

// IsProfile reports whether page passes any of the person detection
// heuristics.
func (p *Parser) IsProfile(page Page) bool {
	return p.PersonInLabel(page.Label) ||
		p.IsPersonalContent(page.Doc, page.Past) ||
		p.PersonInTitle(page.Doc.Title(), page.ParentTitle)
}

// Extract parses the fields of a profile page. Fields that cannot be
// resolved hold model.Unknown; the rank defaults to model.RankNonProfessor.
// The returned record carries the page URL, name, rank, degree fields and
// supporting text; the caller fills in the seed attributes.
func (p *Parser) Extract(ctx context.Context, page Page) model.ProfileRecord {
	blocks := newBlocks(page.Doc.TextBlocks(), page.Past)

	rec := model.ProfileRecord{
		URL:  page.Doc.URL(),
		Name: p.name(page),
		Rank: p.rank(page.Label, blocks),
	}
	rec.PhDYear, rec.PhDSchool, rec.PromotionYear = p.degreeFields(blocks)
	rec.Text = rawText(blocks)

	if p.fetcher == nil || rec.UnknownCount() == 0 {
		return rec
	}
	link, ok := cvLink(page.Doc.UniqueContent(page.Past))
	if !ok {
		return rec
	}
	lines, err := p.fetchCV(ctx, link)
	if err != nil {
		p.logger.Debug("cv skipped", "url", link, "error", err)
		return rec
	}
	cv := rec
	cv.PhDYear, cv.PhDSchool, cv.PromotionYear = p.degreeFields(lines)
	if cv.UnknownCount() < rec.UnknownCount() {
		p.logger.Debug("using cv fields", "url", rec.URL, "cv", link)
		cv.Text = rawText(lines)
		return cv
	}
	return rec
}

// name resolves the person's name from the link label, then the unique
// title, then the page headings.
func (p *Parser) name(page Page) string {
	candidates := []string{
		extract.StripCounter(page.Label),
		UniqueTitle(page.Doc.Title(), page.ParentTitle),
	}
	candidates = append(candidates, page.Doc.Headings()...)
	if name, ok := p.tagger.FirstPerson(candidates...); ok {
		return cleanName(name)
	}
	return model.Unknown
}

func (p *Parser) rank(label string, blocks []string) model.Rank {
	if rank, ok := rankFromLabel(label); ok {
		return rank
	}
	lines, _ := candidateLines(blocks)
	return rankFromLines(lines)
}

func rawText(lines []string) string {
	text := strings.Join(lines, "\n")
	if len(text) > maxRawText {
		text = strings.ToValidUTF8(text[:maxRawText], "")
	}
	return text
}

package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
)

// MarkdownWriter outputs exports as GitHub Flavored Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write implements Writer.
func (w *MarkdownWriter) Write(export *Export) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, export)
	w.writeRanks(md, export)
	for _, group := range export.Universities() {
		w.writeUniversity(md, group)
	}
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, export *Export) {
	md.H1("Faculty Profiles")
	md.PlainText("")

	scope := "All universities"
	if export.University != "" {
		scope = export.University
	}
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Scope", scope},
			{"Generated", export.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Profiles", strconv.Itoa(len(export.Profiles))},
		},
	})
	md.PlainText("")

	if len(export.Profiles) == 0 {
		md.Note("No profiles stored yet. Run `scholarscan crawl` first.")
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeRanks(md *markdown.Markdown, export *Export) {
	if len(export.Profiles) == 0 {
		return
	}

	md.H2("Ranks")
	md.PlainText("")

	counts := export.RankCounts()
	rows := make([][]string, 0, len(counts))
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Rank Distribution"),
		piechart.WithShowData(true),
	)
	for _, rc := range counts {
		rows = append(rows, []string{string(rc.Rank), strconv.Itoa(rc.Count)})
		if rc.Count > 0 {
			chart.LabelAndIntValue(string(rc.Rank), uint64(rc.Count))
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Rank", "Count"},
		Rows:   rows,
	})
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")

	unresolved := 0
	for _, p := range export.Profiles {
		if p.UnknownCount() > 0 {
			unresolved++
		}
	}
	if unresolved > 0 {
		md.Importantf("%d profile(s) have unresolved degree or promotion fields.", unresolved)
		md.PlainText("")
	}
}

func (w *MarkdownWriter) writeUniversity(md *markdown.Markdown, group UniversityGroup) {
	md.H2(orDash(group.University))
	md.PlainText("")

	rows := make([][]string, len(group.Profiles))
	for i, p := range group.Profiles {
		name := orDash(p.Name)
		if p.URL != "" {
			name = markdown.Link(name, p.URL)
		}
		rows[i] = []string{
			name,
			truncateString(orDash(p.Department), 40),
			string(p.Rank),
			orDash(p.PhDYear),
			truncateString(orDash(p.PhDSchool), 40),
			orDash(p.PromotionYear),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Name", "Department", "Rank", "PhD", "PhD School", "Promoted"},
		Rows:   rows,
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Generated by [scholarscan](https://github.com/nao1215/scholarscan)*")
}

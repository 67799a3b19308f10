package report

import (
	"fmt"
	"io"
	"strings"
)

// SimpleWriter outputs human-readable text for the terminal.
type SimpleWriter struct {
	baseWriter

	// verbose adds the profile URL under every row.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write implements Writer.
func (w *SimpleWriter) Write(export *Export) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, export)
	w.writeSummary(&sb, export)
	for _, group := range export.Universities() {
		w.writeUniversity(&sb, group)
	}

	return w.output.Write([]byte(sb.String()))
}

func (w *SimpleWriter) writeHeader(sb *strings.Builder, export *Export) {
	sb.WriteString(strings.Repeat("=", 78))
	sb.WriteString("\n")
	sb.WriteString("                          SCHOLARSCAN PROFILES\n")
	sb.WriteString(strings.Repeat("=", 78))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Generated:  %s\n", export.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	if export.University != "" {
		fmt.Fprintf(sb, "University: %s\n", export.University)
	}
	fmt.Fprintf(sb, "Profiles:   %d\n\n", len(export.Profiles))
}

func (w *SimpleWriter) writeSummary(sb *strings.Builder, export *Export) {
	for _, rc := range export.RankCounts() {
		fmt.Fprintf(sb, "  %-20s %d\n", rc.Rank, rc.Count)
	}
	sb.WriteString("\n")

	if len(export.Profiles) == 0 {
		sb.WriteString("  No profiles stored\n")
	}
}

func (w *SimpleWriter) writeUniversity(sb *strings.Builder, group UniversityGroup) {
	sb.WriteString(strings.Repeat("-", 78))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "%s (%d)\n", strings.ToUpper(orDash(group.University)), len(group.Profiles))
	sb.WriteString(strings.Repeat("-", 78))
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  %-24s %-20s %-6s %-24s %s\n", "NAME", "RANK", "PHD", "PHD SCHOOL", "PROMOTED")
	for _, p := range group.Profiles {
		fmt.Fprintf(sb, "  %-24s %-20s %-6s %-24s %s\n",
			truncateString(orDash(p.Name), 24),
			p.Rank,
			orDash(p.PhDYear),
			truncateString(orDash(p.PhDSchool), 24),
			orDash(p.PromotionYear),
		)
		if w.verbose {
			fmt.Fprintf(sb, "    %s | %s\n", orDash(p.Department), p.URL)
		}
	}
	sb.WriteString("\n")
}

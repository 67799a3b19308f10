// Package report writes stored faculty profiles in several formats:
//   - SimpleWriter: human-readable text for the terminal
//   - JSONWriter: structured JSON for other tools
//   - MarkdownWriter: GitHub Flavored Markdown with tables and a rank chart
//
// Writers implement the Writer interface so the profiles command can pick
// one by flag.
package report

package report

import (
	"encoding/json"
	"io"

	"github.com/nao1215/scholarscan/internal/model"
)

// JSONWriter outputs exports in JSON format.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// rawText keeps the raw profile text, which is dropped by default.
	rawText bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithPrettyPrint enables pretty-printed JSON with two-space indentation.
func WithPrettyPrint() JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
	}
}

// WithRawText includes the raw page text of every profile.
func WithRawText(include bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.rawText = include
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// jsonExport adds the rank summary to an Export.
type jsonExport struct {
	*Export
	Count int         `json:"count"`
	Ranks []RankCount `json:"ranks"`
}

// Write implements Writer.
func (w *JSONWriter) Write(export *Export) (int, error) {
	out := *export
	if !w.rawText {
		out.Profiles = make([]model.ProfileRecord, len(export.Profiles))
		for i, p := range export.Profiles {
			p.Text = ""
			out.Profiles[i] = p
		}
	}
	if out.Profiles == nil {
		out.Profiles = []model.ProfileRecord{}
	}

	v := jsonExport{
		Export: &out,
		Count:  len(out.Profiles),
		Ranks:  out.RankCounts(),
	}

	var data []byte
	var err error
	if w.indent {
		data, err = json.MarshalIndent(v, "", "  ")
	} else {
		data, err = json.Marshal(v)
	}
	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')
	return w.output.Write(data)
}

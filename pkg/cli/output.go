package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// OutputFormat selects how command results are rendered.
type OutputFormat string

const (
	// FormatText is plain text output (default).
	FormatText OutputFormat = "text"
	// FormatJSON is JSON output.
	FormatJSON OutputFormat = "json"
)

// Formatter renders command output.
type Formatter interface {
	FormatTo(w io.Writer, data interface{}) error
}

// TextFormatter renders output as plain text.
type TextFormatter struct{}

// FormatTo writes data to w in text format.
func (f *TextFormatter) FormatTo(w io.Writer, data interface{}) error {
	_, err := fmt.Fprintf(w, "%v\n", data)
	return err
}

// JSONFormatter renders output as indented JSON.
type JSONFormatter struct{}

// FormatTo writes data to w as JSON.
func (f *JSONFormatter) FormatTo(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// NewFormatter creates a formatter for the given format. Unknown formats
// fall back to text.
func NewFormatter(format OutputFormat) Formatter {
	if format == FormatJSON {
		return &JSONFormatter{}
	}
	return &TextFormatter{}
}

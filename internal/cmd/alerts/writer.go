package alerts

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"github.com/ethan-huo/env-tool/internal/cmd/output"
)

// FormatWriter prints alerts as text lines, or as JSON or YAML documents
// when the command output is structured. Each alert is written whole, so
// concurrent callers never interleave detail lines.
type FormatWriter struct {
	mu     sync.Mutex
	w      io.Writer
	format output.Format
	color  bool
}

// NewFormatWriter creates a FormatWriter. Color is on when w is a terminal.
func NewFormatWriter(w io.Writer, format output.Format) *FormatWriter {
	return &FormatWriter{w: w, format: format, color: isTerminal(w)}
}

// WithColor forces color on or off.
func (fw *FormatWriter) WithColor(enabled bool) *FormatWriter {
	fw.color = enabled
	return fw
}

// record is the structured form of an alert.
type record struct {
	Level   string   `json:"level" yaml:"level"`
	Message string   `json:"message" yaml:"message"`
	Details []string `json:"details,omitempty" yaml:"details,omitempty"`
	Error   string   `json:"error,omitempty" yaml:"error,omitempty"`
}

func newRecord(a *Alert) record {
	r := record{Level: a.Level.String(), Message: a.Message, Details: a.Details}
	if a.Err != nil {
		r.Error = a.Err.Error()
	}
	return r
}

// WriteAlert implements Writer.
func (fw *FormatWriter) WriteAlert(alert *Alert) error {
	fw.mu.Lock()
	defer fw.mu.Unlock()

	switch fw.format {
	case output.FormatJSON:
		enc := json.NewEncoder(fw.w)
		enc.SetIndent("", "  ")
		return enc.Encode(newRecord(alert))
	case output.FormatYAML:
		enc := yaml.NewEncoder(fw.w, yaml.Indent(2))
		if err := enc.Encode(newRecord(alert)); err != nil {
			return err
		}
		return enc.Close()
	}

	line := alert.String()
	if fw.color {
		line = alert.Level.Color() + line + resetColor
	}
	if _, err := fmt.Fprintln(fw.w, line); err != nil {
		return err
	}
	for _, d := range alert.Details {
		if _, err := fmt.Fprintf(fw.w, "   %s\n", d); err != nil {
			return err
		}
	}
	return nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

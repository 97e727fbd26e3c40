// Package output renders command results as tables, JSON or YAML.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"reflect"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"
	"github.com/olekukonko/tablewriter"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Format names an output encoding selected with --format.
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
	// FormatWide is a table that shows values unmasked.
	FormatWide Format = "wide"
)

var formats = []Format{FormatTable, FormatJSON, FormatYAML, FormatWide}

// IsTable reports whether f renders as a table.
func (f Format) IsTable() bool {
	return f == FormatTable || f == FormatWide || f == ""
}

// ParseFormat validates s. The empty string is accepted and means auto.
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(s))
	if f == "" {
		return f, nil
	}
	for _, known := range formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("invalid format %q: must be one of: table, json, yaml, wide", s)
}

// DetectFormat returns the explicit format when given. Otherwise it picks
// a table for terminals and JSON for pipes.
func DetectFormat(explicit string) Format {
	if explicit != "" {
		return Format(strings.ToLower(explicit))
	}
	fd := os.Stdout.Fd()
	if isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		return FormatTable
	}
	return FormatJSON
}

// Formatter writes data to w.
type Formatter interface {
	Format(w io.Writer, data any) error
}

// NewFormatter returns the formatter for format. Unknown formats get a table.
func NewFormatter(format Format) Formatter {
	switch format {
	case FormatJSON:
		return &JSONFormatter{Indent: "  "}
	case FormatYAML:
		return &YAMLFormatter{}
	}
	return &TableFormatter{}
}

// Render prints table for table formats and data for the others, so a
// command can keep its human and machine layouts side by side.
func Render(w io.Writer, format Format, data any, table Data) error {
	if format.IsTable() {
		return NewFormatter(format).Format(w, table)
	}
	return NewFormatter(format).Format(w, data)
}

// JSONFormatter writes one JSON document.
type JSONFormatter struct {
	Indent string
}

func (f *JSONFormatter) Format(w io.Writer, data any) error {
	enc := json.NewEncoder(w)
	if f.Indent != "" {
		enc.SetIndent("", f.Indent)
	}
	return enc.Encode(data)
}

// YAMLFormatter writes one YAML document with unindented sequences.
type YAMLFormatter struct{}

func (f *YAMLFormatter) Format(w io.Writer, data any) error {
	b, err := yaml.MarshalWithOptions(data, yaml.Indent(2), yaml.IndentSequence(false))
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

// Data is a pre-built table.
type Data struct {
	Headers []string
	Rows    [][]string
}

// TableFormatter draws Data, or a slice of structs with one column per
// field. Anything else falls back to JSON.
type TableFormatter struct{}

func (f *TableFormatter) Format(w io.Writer, data any) error {
	switch v := data.(type) {
	case Data:
		return drawTable(w, v)
	case *Data:
		return drawTable(w, *v)
	}
	if d, ok := structTable(data); ok {
		return drawTable(w, d)
	}
	return (&JSONFormatter{Indent: "  "}).Format(w, data)
}

func drawTable(w io.Writer, d Data) error {
	table := tablewriter.NewWriter(w)
	if len(d.Headers) > 0 {
		table.Header(cells(d.Headers)...)
	}
	for _, row := range d.Rows {
		if err := table.Append(cells(row)...); err != nil {
			return err
		}
	}
	return table.Render()
}

func cells(ss []string) []any {
	out := make([]any, len(ss))
	for i, s := range ss {
		out[i] = s
	}
	return out
}

// structTable builds Data from a non-empty slice of structs. Headers come
// from json tags, title-cased with underscores as spaces.
func structTable(data any) (Data, bool) {
	v := reflect.ValueOf(data)
	if v.Kind() != reflect.Slice || v.Len() == 0 || v.Index(0).Kind() != reflect.Struct {
		return Data{}, false
	}

	typ := v.Index(0).Type()
	title := cases.Title(language.English)
	d := Data{Headers: make([]string, typ.NumField())}
	for i := range typ.NumField() {
		field := typ.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			d.Headers[i] = field.Name
			continue
		}
		d.Headers[i] = title.String(strings.ReplaceAll(name, "_", " "))
	}

	for i := range v.Len() {
		elem := v.Index(i)
		row := make([]string, elem.NumField())
		for j := range row {
			row[j] = fmt.Sprint(elem.Field(j).Interface())
		}
		d.Rows = append(d.Rows, row)
	}
	return d, true
}

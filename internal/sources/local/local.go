// Package local adapts a dotenv file to the sources.Source contract.
package local

import (
	"bytes"
	"context"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"

	"github.com/ethan-huo/env-tool/pkg/errors"
	"github.com/ethan-huo/env-tool/pkg/exclude"
	"github.com/ethan-huo/env-tool/pkg/snapshot"
	"github.com/ethan-huo/env-tool/pkg/sources"
)

var keyLine = regexp.MustCompile(`^\s*(?:export\s+)?([A-Za-z_][A-Za-z0-9_.]*)\s*[=:]`)

// Source reads and writes one dotenv file.
type Source struct {
	fs   afero.Fs
	path string
}

// Option configures a local source.
type Option func(*Source)

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(s *Source) {
		s.fs = fs
	}
}

// New creates a source for the dotenv file at path.
func New(path string, opts ...Option) *Source {
	s := &Source{path: path, fs: afero.NewOsFs()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ID implements sources.Source.
func (s *Source) ID() sources.ID { return sources.LocalID }

// Path returns the file path.
func (s *Source) Path() string { return s.path }

// Capabilities implements sources.Source.
func (s *Source) Capabilities() sources.Capabilities {
	return sources.Capabilities{ValuesVisible: true, BulkWrite: true}
}

// Reserved implements sources.Source.
func (s *Source) Reserved() exclude.Rules { return nil }

// Dependencies implements sources.Source.
func (s *Source) Dependencies() []sources.Dependency { return nil }

// List parses the file. A missing file and a malformed file are both
// *errors.LocalSourceError; the cause tells them apart.
func (s *Source) List(_ context.Context) (*snapshot.Snapshot, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewLocalSourceError(s.path, errors.NewNotFoundError("file", s.path))
		}
		return nil, errors.NewLocalSourceError(s.path, errors.NewIOError("read", s.path, err))
	}

	values, err := godotenv.Parse(bytes.NewReader(data))
	if err != nil {
		return nil, errors.NewLocalSourceError(s.path, errors.NewParseError("dotenv", s.path, err.Error(), err))
	}
	return snapshot.New(values), nil
}

// SetMany upserts values in place, keeping comments and line order.
// New keys are appended. A missing file is created.
func (s *Source) SetMany(_ context.Context, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	lines, err := s.readLines()
	if err != nil {
		return err
	}

	pending := make(map[string]string, len(values))
	for k, v := range values {
		pending[k] = v
	}

	out := make([]string, 0, len(lines)+len(values))
	for i := 0; i < len(lines); i++ {
		key, ok := lineKey(lines[i])
		v, want := pending[key]
		if !ok || !want {
			out = append(out, lines[i])
			continue
		}
		line, err := formatLine(key, v)
		if err != nil {
			return err
		}
		out = append(out, line)
		delete(pending, key)
		i = skipContinuation(lines, i)
	}

	for _, key := range snapshot.New(pending).Keys() {
		line, err := formatLine(key, pending[key])
		if err != nil {
			return err
		}
		out = append(out, line)
	}
	return s.writeLines(out)
}

// Remove deletes every assignment of key. An absent key is a no-op.
func (s *Source) Remove(_ context.Context, key string) error {
	lines, err := s.readLines()
	if err != nil {
		return err
	}

	out := make([]string, 0, len(lines))
	removed := false
	for i := 0; i < len(lines); i++ {
		if k, ok := lineKey(lines[i]); ok && k == key {
			removed = true
			i = skipContinuation(lines, i)
			continue
		}
		out = append(out, lines[i])
	}
	if !removed {
		return nil
	}
	return s.writeLines(out)
}

func (s *Source) readLines() ([]string, error) {
	data, err := afero.ReadFile(s.fs, s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.WrapIO("read", s.path, err)
	}
	text := strings.TrimRight(string(data), "\n")
	if text == "" {
		return nil, nil
	}
	return strings.Split(text, "\n"), nil
}

func (s *Source) writeLines(lines []string) error {
	content := strings.Join(lines, "\n")
	if content != "" {
		content += "\n"
	}
	return errors.WrapIO("write", s.path, afero.WriteFile(s.fs, s.path, []byte(content), 0o600))
}

func lineKey(line string) (string, bool) {
	m := keyLine.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// skipContinuation returns the index of the last line belonging to the
// assignment starting at lines[i], for double-quoted multi-line values.
func skipContinuation(lines []string, i int) int {
	_, rest, ok := strings.Cut(lines[i], "=")
	if !ok {
		return i
	}
	rest = strings.TrimSpace(rest)
	if !strings.HasPrefix(rest, `"`) || closesQuote(rest[1:]) {
		return i
	}
	for j := i + 1; j < len(lines); j++ {
		if closesQuote(lines[j]) {
			return j
		}
	}
	return i
}

func closesQuote(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '"':
			return true
		}
	}
	return false
}

// formatLine renders one assignment. Integer-looking values that would not
// survive a round trip (leading zeros, plus signs) are quoted explicitly.
func formatLine(key, value string) (string, error) {
	if n, err := strconv.Atoi(value); err == nil && strconv.Itoa(n) != value {
		return key + `="` + value + `"`, nil
	}
	line, err := godotenv.Marshal(map[string]string{key: value})
	if err != nil {
		return "", errors.WrapParse("dotenv", key, err)
	}
	return line, nil
}

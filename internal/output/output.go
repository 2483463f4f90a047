// Package output serializes documentation entries.
package output

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/cespare/xxhash/v2"
	"gopkg.in/yaml.v3"

	"github.com/example/cxxapidoc/internal/docgen"
)

// Supported formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RecordMarker starts every record of the text format.
const RecordMarker = ">> "

// Formats lists the accepted format names.
var Formats = []string{FormatText, FormatJSON, FormatYAML}

// Encode writes entries to w in the given format.
func Encode(w io.Writer, format string, entries []docgen.Entry) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return encodeText(w, entries)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.SetEscapeHTML(false)
		if entries == nil {
			entries = []docgen.Entry{}
		}
		return enc.Encode(entries)
	case FormatYAML, "yml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(entries); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported format: %s (use text, json or yaml)", format)
	}
}

// Render returns the encoded bytes of entries.
func Render(format string, entries []docgen.Entry) ([]byte, error) {
	var buf bytes.Buffer
	if err := Encode(&buf, format, entries); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// encodeText writes one record per entry: the marker line, the text and a
// blank line.
func encodeText(w io.Writer, entries []docgen.Entry) error {
	bw := bufio.NewWriter(w)
	for _, e := range entries {
		if _, err := bw.WriteString(RecordMarker + e.Key + "\n" + strings.TrimRight(e.Text, "\n") + "\n\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// Decode reads entries written in the text format. Lines starting with the
// record marker always begin a new record.
func Decode(r io.Reader) ([]docgen.Entry, error) {
	var (
		entries []docgen.Entry
		current *docgen.Entry
		lines   []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Text = strings.TrimRight(strings.Join(lines, "\n"), "\n")
		entries = append(entries, *current)
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := sc.Text()
		if strings.HasPrefix(line, RecordMarker) {
			flush()
			current = &docgen.Entry{Key: strings.TrimPrefix(line, RecordMarker)}
			lines = lines[:0]
			continue
		}
		if current == nil {
			if strings.TrimSpace(line) == "" {
				continue
			}
			return nil, fmt.Errorf("text before first record: %q", line)
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	flush()
	return entries, nil
}

// Digest fingerprints encoded output.
func Digest(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Changes lists the keys that differ between two entry sets.
type Changes struct {
	Added   []string
	Removed []string
	Changed []string
}

// Empty reports whether no key differs.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Changed) == 0
}

// Diff compares two entry sets by key. Trailing newlines of texts are
// ignored since the text format does not preserve them.
func Diff(old, updated []docgen.Entry) Changes {
	before := make(map[string]string, len(old))
	for _, e := range old {
		before[e.Key] = strings.TrimRight(e.Text, "\n")
	}

	var c Changes
	seen := make(map[string]bool, len(updated))
	for _, e := range updated {
		seen[e.Key] = true
		text, ok := before[e.Key]
		switch {
		case !ok:
			c.Added = append(c.Added, e.Key)
		case text != strings.TrimRight(e.Text, "\n"):
			c.Changed = append(c.Changed, e.Key)
		}
	}
	for _, e := range old {
		if !seen[e.Key] {
			c.Removed = append(c.Removed, e.Key)
		}
	}
	return c
}

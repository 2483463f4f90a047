package docgen

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/example/cxxapidoc/internal/doxml"
	"github.com/example/cxxapidoc/internal/logging"
)

// Options select which compound files of a Doxygen XML directory are read.
type Options struct {
	// Skip drops files whose name contains any of these substrings.
	Skip []string
	// Include keeps only files whose name contains one of these substrings.
	Include []string
	// Exclude drops files whose name matches one of these glob patterns.
	Exclude []string
}

// DefaultOptions reads class, struct and namespace compounds and ignores
// header listings and the std and boost namespaces.
func DefaultOptions() Options {
	return Options{
		Skip:    []string{"hpp", "spacestd", "spaceboost"},
		Include: []string{"struct", "class", "namespace"},
	}
}

// Extractor walks a Doxygen XML directory and collects documentation
// entries for every compound and documented member.
type Extractor struct {
	opts     Options
	report   io.Writer
	log      logging.Logger
	resolver *Resolver
}

// NewExtractor creates an Extractor. Progress and markup warnings go to
// report; a nil report discards them.
func NewExtractor(opts Options, report io.Writer, log logging.Logger) *Extractor {
	if report == nil {
		report = io.Discard
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Extractor{
		opts:     opts,
		report:   report,
		log:      log,
		resolver: NewResolver(NewRenderer(report, log)),
	}
}

// Run extracts every selected file of dir into a new table. The first
// error aborts the run.
func (e *Extractor) Run(ctx context.Context, dir string) (*Table, error) {
	start := time.Now()

	files, err := e.Files(dir)
	if err != nil {
		return nil, err
	}

	table := NewTable()
	for _, name := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		_, _ = fmt.Fprintf(e.report, "Processing file: %s...\n", name)

		before := table.Len()
		if err := e.ProcessFile(filepath.Join(dir, name), table); err != nil {
			return nil, err
		}
		e.log.Debug("processed file", logging.String("file", name), logging.Int("new_keys", table.Len()-before))
	}

	e.log.Info("extraction finished",
		logging.String("dir", dir),
		logging.Int("files", len(files)),
		logging.Int("entries", table.Len()),
		logging.Duration("elapsed", time.Since(start)))
	return table, nil
}

// Files returns the names of the compound files in dir that Run would
// process, in lexical order.
func (e *Extractor) Files(dir string) ([]string, error) {
	for _, pattern := range e.opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, doublestar.ErrBadPattern)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".xml") {
			continue
		}
		if !e.Selected(entry.Name()) {
			e.log.Debug("skipping file", logging.String("file", entry.Name()))
			continue
		}
		files = append(files, entry.Name())
	}
	sort.Strings(files)
	return files, nil
}

// Selected reports whether a file name passes the skip, include and
// exclude filters.
func (e *Extractor) Selected(name string) bool {
	if containsAny(name, e.opts.Skip) {
		return false
	}
	if !containsAny(name, e.opts.Include) {
		return false
	}
	for _, pattern := range e.opts.Exclude {
		if ok, _ := doublestar.Match(pattern, name); ok {
			return false
		}
	}
	return true
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if sub != "" && strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// ProcessFile parses one compound file and adds its entries to table.
func (e *Extractor) ProcessFile(path string, table *Table) error {
	doc, err := doxml.ParseFile(path)
	if err != nil {
		return err
	}
	if err := e.ProcessDocument(doc, table); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	return nil
}

// ProcessDocument adds the entries of the first compounddef in doc and of
// all its function and variable members to table.
func (e *Extractor) ProcessDocument(doc *doxml.Node, table *Table) error {
	compound := doc.Find("compounddef")
	if compound == nil {
		return fmt.Errorf("compounddef: %w", ErrMissingChild)
	}

	entry, ok, err := e.resolver.CompoundEntry(compound)
	if err != nil {
		return err
	}
	if ok {
		table.Put(entry.Key, entry.Text)
	}

	compoundKey, err := e.resolver.CompoundKey(compound)
	if err != nil {
		return err
	}

	for _, member := range compound.FindAll("memberdef") {
		entry, ok, err := e.resolver.MemberEntry(member, compoundKey)
		if err != nil {
			return err
		}
		if ok {
			table.Put(entry.Key, entry.Text)
		}
	}
	return nil
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/example/cxxapidoc/internal/docgen"
	"github.com/example/cxxapidoc/internal/logging"
	"github.com/example/cxxapidoc/internal/output"
)

// ErrOutdated is returned by a --check run whose output file differs from
// the freshly extracted table.
var ErrOutdated = errors.New("output is out of date")

// ExtractConfig holds configuration for one extraction run.
type ExtractConfig struct {
	InputDir   string            `yaml:"input" validate:"required"`
	OutputPath string            `yaml:"output" validate:"required"`
	ConfigPath string            `yaml:"-"`
	Format     string            `yaml:"format" validate:"oneof=text json yaml"`
	Sort       bool              `yaml:"sort"`
	Check      bool              `yaml:"-"`
	Skip       []string          `yaml:"skip"`
	Include    []string          `yaml:"include"`
	Exclude    []string          `yaml:"exclude" validate:"dive,glob"`
	Log        logging.LogConfig `yaml:"log"`
}

func (c *ExtractConfig) options() docgen.Options {
	return docgen.Options{Skip: c.Skip, Include: c.Include, Exclude: c.Exclude}
}

// loadConfigFile overlays the config file onto config. Values of flags
// given on the command line are kept.
func loadConfigFile(config *ExtractConfig, changed func(string) bool) error {
	if config.ConfigPath == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Clean(config.ConfigPath))
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	var cfg struct {
		Extract struct {
			Format  string   `yaml:"format"`
			Sort    *bool    `yaml:"sort"`
			Skip    []string `yaml:"skip"`
			Include []string `yaml:"include"`
			Exclude []string `yaml:"exclude"`
		} `yaml:"extract"`
		Log logging.LogConfig `yaml:"log"`
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}

	if cfg.Extract.Format != "" && !changed("format") {
		config.Format = cfg.Extract.Format
	}
	if cfg.Extract.Sort != nil && !changed("sort") {
		config.Sort = *cfg.Extract.Sort
	}
	if cfg.Extract.Skip != nil {
		config.Skip = cfg.Extract.Skip
	}
	if cfg.Extract.Include != nil {
		config.Include = cfg.Extract.Include
	}
	if cfg.Extract.Exclude != nil && !changed("exclude") {
		config.Exclude = cfg.Extract.Exclude
	}
	if cfg.Log.Level != "" && !changed("log-level") {
		config.Log.Level = cfg.Log.Level
	}
	if cfg.Log.Format != "" && !changed("log-format") {
		config.Log.Format = cfg.Log.Format
	}
	if len(cfg.Log.OutputPaths) > 0 {
		config.Log.OutputPaths = cfg.Log.OutputPaths
	}

	return nil
}

// Extract runs the extractor over config.InputDir and writes, or checks,
// the output file. Progress lines go to stdout unless the table itself is
// written there, in which case they go to stderr.
func Extract(ctx context.Context, config *ExtractConfig, stdout, stderr io.Writer) error {
	log, err := logging.NewLogger(config.Log)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	report := stdout
	if config.OutputPath == "-" {
		report = stderr
	}

	table, err := docgen.NewExtractor(config.options(), report, log.Named("extract")).Run(ctx, config.InputDir)
	if err != nil {
		return err
	}

	entries := table.Entries()
	if config.Sort {
		entries = table.Sorted()
	}

	data, err := output.Render(config.Format, entries)
	if err != nil {
		return err
	}

	if config.Check {
		return checkOutputWithFS(data, entries, config, log, defaultFileSystem)
	}

	if err := writeOutputWithFS(data, config, stdout, defaultFileSystem); err != nil {
		return err
	}

	log.Info("wrote docstrings",
		logging.String("output", config.OutputPath),
		logging.String("format", config.Format),
		logging.Int("entries", len(entries)),
		logging.Hex("digest", output.Digest(data)))
	return nil
}

// FileSystem is the file access the output step needs: checking the
// output directory, writing the table and reading it back for --check.
type FileSystem interface {
	// Stat describes the named file or directory.
	Stat(name string) (os.FileInfo, error)
	// Create truncates or creates the named output file.
	Create(name string) (io.WriteCloser, error)
	// ReadFile returns the contents of a previously written output file.
	ReadFile(name string) ([]byte, error)
}

// OSFileSystem is the FileSystem backed by the os package.
type OSFileSystem struct{}

// Stat calls os.Stat.
func (OSFileSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// Create calls os.Create on the cleaned path.
func (OSFileSystem) Create(name string) (io.WriteCloser, error) {
	return os.Create(filepath.Clean(name))
}

// ReadFile calls os.ReadFile on the cleaned path.
func (OSFileSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(filepath.Clean(name))
}

var defaultFileSystem FileSystem = OSFileSystem{}

func writeOutputWithFS(data []byte, config *ExtractConfig, stdout io.Writer, fs FileSystem) error {
	if config.OutputPath == "-" {
		_, err := stdout.Write(data)
		return err
	}

	outDir := filepath.Dir(config.OutputPath)
	if fi, err := fs.Stat(outDir); err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("output directory %s does not exist", outDir)
		}
		return err
	} else if !fi.IsDir() {
		return fmt.Errorf("output path %s is not a directory", outDir)
	}

	f, err := fs.Create(config.OutputPath)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", config.OutputPath, err)
	}
	return f.Close()
}

func checkOutputWithFS(data []byte, entries []docgen.Entry, config *ExtractConfig, log logging.Logger, fs FileSystem) error {
	if config.OutputPath == "-" {
		return errors.New("--check needs an output file, not stdout")
	}

	existing, err := fs.ReadFile(config.OutputPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("%w: %s does not exist", ErrOutdated, config.OutputPath)
		}
		return err
	}

	want, got := output.Digest(data), output.Digest(existing)
	if want == got {
		log.Info("output up to date",
			logging.String("output", config.OutputPath),
			logging.Hex("digest", got))
		return nil
	}

	log.Warn("output differs",
		logging.String("output", config.OutputPath),
		logging.Hex("want", want),
		logging.Hex("got", got))

	if config.Format != output.FormatText {
		return fmt.Errorf("%w: %s", ErrOutdated, config.OutputPath)
	}

	old, err := output.Decode(bytes.NewReader(existing))
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrOutdated, config.OutputPath, err)
	}
	changes := output.Diff(old, entries)
	for _, key := range changes.Added {
		log.Debug("entry added", logging.String("key", key))
	}
	for _, key := range changes.Removed {
		log.Debug("entry removed", logging.String("key", key))
	}
	for _, key := range changes.Changed {
		log.Debug("entry changed", logging.String("key", key))
	}
	return fmt.Errorf("%w: %s (%d added, %d removed, %d changed)",
		ErrOutdated, config.OutputPath, len(changes.Added), len(changes.Removed), len(changes.Changed))
}

package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/cxxapidoc/internal/docgen"
	"github.com/example/cxxapidoc/internal/logging"
	"github.com/example/cxxapidoc/internal/output"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".cxxapidoc.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigFile(t *testing.T) {
	path := writeConfig(t, `
extract:
  format: yaml
  sort: true
  skip: [hpp]
  include: [class]
  exclude: ["*Color*"]
log:
  level: debug
  format: json
`)

	tests := []struct {
		name    string
		changed map[string]bool
		want    ExtractConfig
	}{
		{
			name:    "config file values",
			changed: map[string]bool{},
			want: ExtractConfig{
				ConfigPath: path,
				Format:     "yaml",
				Sort:       true,
				Skip:       []string{"hpp"},
				Include:    []string{"class"},
				Exclude:    []string{"*Color*"},
				Log:        logging.LogConfig{Level: "debug", Format: "json"},
			},
		},
		{
			name:    "explicit flags win",
			changed: map[string]bool{"format": true, "sort": true, "exclude": true, "log-level": true},
			want: ExtractConfig{
				ConfigPath: path,
				Format:     "text",
				Skip:       []string{"hpp"},
				Include:    []string{"class"},
				Exclude:    []string{"group*"},
				Log:        logging.LogConfig{Level: "warn", Format: "json"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := ExtractConfig{
				ConfigPath: path,
				Format:     "text",
				Exclude:    []string{"group*"},
				Log:        logging.LogConfig{Level: "warn", Format: "console"},
			}
			changed := func(name string) bool { return tt.changed[name] }

			require.NoError(t, loadConfigFile(&config, changed))
			assert.Equal(t, tt.want, config)
		})
	}
}

func TestLoadConfigFileErrors(t *testing.T) {
	never := func(string) bool { return false }

	config := ExtractConfig{}
	assert.NoError(t, loadConfigFile(&config, never))

	config = ExtractConfig{ConfigPath: filepath.Join(t.TempDir(), "missing.yml")}
	err := loadConfigFile(&config, never)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "read config")

	config = ExtractConfig{ConfigPath: writeConfig(t, "extract: [unclosed")}
	err = loadConfigFile(&config, never)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestRootCommandConfigFile(t *testing.T) {
	cfg := writeConfig(t, `
extract:
  format: json
  exclude: ["namespace*"]
`)

	stdout, _, err := run(t, "--config", cfg, xmlDir(t), "-")
	require.NoError(t, err)

	assert.Contains(t, stdout, `"key": "CDPL.Vis.Color.setRed(1)"`)
	assert.NotContains(t, stdout, `"key": "CDPL.Vis"`)
}

func TestCheck(t *testing.T) {
	in := xmlDir(t)
	out := filepath.Join(t.TempDir(), "docstrings.txt")

	_, _, err := run(t, "--check", in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutdated))
	assert.Contains(t, err.Error(), "does not exist")

	_, _, err = run(t, in, out)
	require.NoError(t, err)

	_, _, err = run(t, "--check", in, out)
	assert.NoError(t, err)

	stale := wantText + ">> CDPL.Vis.Gone\n\\brief Removed.\n\n"
	require.NoError(t, os.WriteFile(out, []byte(stale), 0o644))

	_, _, err = run(t, "--check", in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutdated))
	assert.Contains(t, err.Error(), "(0 added, 1 removed, 0 changed)")

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, stale, string(data), "--check must not rewrite the file")
}

func TestCheckNonTextFormat(t *testing.T) {
	in := xmlDir(t)
	out := filepath.Join(t.TempDir(), "docstrings.json")
	require.NoError(t, os.WriteFile(out, []byte("[]\n"), 0o644))

	_, _, err := run(t, "--check", "--format", "json", in, out)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrOutdated))
}

func TestCheckStdout(t *testing.T) {
	_, _, err := run(t, "--check", xmlDir(t), "-")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrOutdated))
}

func TestExtractCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	config := &ExtractConfig{InputDir: xmlDir(t), OutputPath: "-", Format: "text", Include: []string{"class"}}
	err := Extract(ctx, config, io.Discard, io.Discard)
	assert.ErrorIs(t, err, context.Canceled)
}

// mockFileSystem records writes in memory.
type mockFileSystem struct {
	statErr   error
	statInfo  os.FileInfo
	createErr error
	files     map[string]*bytes.Buffer
}

func (m *mockFileSystem) Stat(string) (os.FileInfo, error) {
	return m.statInfo, m.statErr
}

func (m *mockFileSystem) Create(name string) (io.WriteCloser, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.files == nil {
		m.files = map[string]*bytes.Buffer{}
	}
	buf := &bytes.Buffer{}
	m.files[name] = buf
	return nopCloser{buf}, nil
}

func (m *mockFileSystem) ReadFile(name string) ([]byte, error) {
	buf, ok := m.files[name]
	if !ok {
		return nil, os.ErrNotExist
	}
	return buf.Bytes(), nil
}

type nopCloser struct{ io.Writer }

func (nopCloser) Close() error { return nil }

type fakeInfo struct {
	os.FileInfo
	dir bool
}

func (f fakeInfo) IsDir() bool { return f.dir }

func TestWriteOutputWithFS(t *testing.T) {
	data := []byte(">> A\n\\brief A.\n\n")

	tests := []struct {
		name    string
		fs      *mockFileSystem
		output  string
		wantErr string
	}{
		{
			name:   "writes file",
			fs:     &mockFileSystem{statInfo: fakeInfo{dir: true}},
			output: "out/docstrings.txt",
		},
		{
			name:    "missing directory",
			fs:      &mockFileSystem{statErr: os.ErrNotExist},
			output:  "out/docstrings.txt",
			wantErr: "output directory out does not exist",
		},
		{
			name:    "parent is a file",
			fs:      &mockFileSystem{statInfo: fakeInfo{dir: false}},
			output:  "out/docstrings.txt",
			wantErr: "output path out is not a directory",
		},
		{
			name:    "create fails",
			fs:      &mockFileSystem{statInfo: fakeInfo{dir: true}, createErr: os.ErrPermission},
			output:  "out/docstrings.txt",
			wantErr: "permission denied",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := writeOutputWithFS(data, &ExtractConfig{OutputPath: tt.output}, io.Discard, tt.fs)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, string(data), tt.fs.files[tt.output].String())
		})
	}
}

func TestWriteOutputStdout(t *testing.T) {
	var stdout bytes.Buffer
	fs := &mockFileSystem{statErr: errors.New("must not be called")}

	require.NoError(t, writeOutputWithFS([]byte("x"), &ExtractConfig{OutputPath: "-"}, &stdout, fs))
	assert.Equal(t, "x", stdout.String())
}

func TestCheckOutputWithFS(t *testing.T) {
	entries := []docgen.Entry{
		{Key: "A", Text: "\\brief A.\n"},
		{Key: "B", Text: "\\brief B.\n"},
	}
	data, err := output.Render(output.FormatText, entries)
	require.NoError(t, err)

	config := &ExtractConfig{OutputPath: "docstrings.txt", Format: output.FormatText}
	log := logging.NewNopLogger()

	fs := &mockFileSystem{files: map[string]*bytes.Buffer{"docstrings.txt": bytes.NewBuffer(data)}}
	assert.NoError(t, checkOutputWithFS(data, entries, config, log, fs))

	changed := []docgen.Entry{
		{Key: "A", Text: "\\brief A changed.\n"},
		{Key: "C", Text: "\\brief C.\n"},
	}
	fresh, err := output.Render(output.FormatText, changed)
	require.NoError(t, err)

	err = checkOutputWithFS(fresh, changed, config, log, fs)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrOutdated)
	assert.Contains(t, err.Error(), "(1 added, 1 removed, 1 changed)")
}

func TestOSFileSystemRoundTrip(t *testing.T) {
	var fs FileSystem = OSFileSystem{}
	path := filepath.Join(t.TempDir(), "docstrings.txt")
	data := []byte(">> A\n\\brief A.\n\n")

	require.NoError(t, writeOutputWithFS(data, &ExtractConfig{OutputPath: path}, io.Discard, fs))

	info, err := fs.Stat(path)
	require.NoError(t, err)
	assert.False(t, info.IsDir())

	got, err := fs.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, data, got)

	entries := []docgen.Entry{{Key: "A", Text: "\\brief A.\n"}}
	config := &ExtractConfig{OutputPath: path, Format: output.FormatText}
	assert.NoError(t, checkOutputWithFS(data, entries, config, logging.NewNopLogger(), fs))
}

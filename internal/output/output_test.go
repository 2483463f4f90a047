package output

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/example/cxxapidoc/internal/docgen"
)

var sample = []docgen.Entry{
	{Key: "CDPL.Vis.Color", Text: "\\brief RGBA color.\n"},
	{Key: "CDPL.Vis.Color.setRed(1)", Text: "\\brief Sets red.\n\n\\param r The <tt>float</tt> value."},
}

func TestEncodeText(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, FormatText, sample))

	want := ">> CDPL.Vis.Color\n" +
		"\\brief RGBA color.\n" +
		"\n" +
		">> CDPL.Vis.Color.setRed(1)\n" +
		"\\brief Sets red.\n" +
		"\n" +
		"\\param r The <tt>float</tt> value.\n" +
		"\n"
	assert.Equal(t, want, buf.String())
}

func TestEncodeTextEmpty(t *testing.T) {
	data, err := Render(FormatText, nil)
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestEncodeJSON(t *testing.T) {
	data, err := Render(FormatJSON, sample)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"text": "\\brief Sets red.\n\n\\param r The <tt>float</tt> value."`)

	var got []docgen.Entry
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, sample, got)

	data, err = Render(FormatJSON, nil)
	require.NoError(t, err)
	assert.Equal(t, "[]\n", string(data))
}

func TestEncodeYAML(t *testing.T) {
	data, err := Render("YAML", sample)
	require.NoError(t, err)

	var got []docgen.Entry
	require.NoError(t, yaml.Unmarshal(data, &got))
	assert.Equal(t, sample, got)
}

func TestEncodeUnsupported(t *testing.T) {
	_, err := Render("xml", sample)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestDecode(t *testing.T) {
	data, err := Render(FormatText, sample)
	require.NoError(t, err)

	got, err := Decode(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "CDPL.Vis.Color", got[0].Key)
	assert.Equal(t, "\\brief RGBA color.", got[0].Text)
	assert.Equal(t, sample[1], got[1])
}

func TestDecodeRejectsLeadingText(t *testing.T) {
	_, err := Decode(strings.NewReader("\n\nstray\n>> A\n\\brief A.\n\n"))
	assert.Error(t, err)
}

func TestDigest(t *testing.T) {
	a, err := Render(FormatText, sample)
	require.NoError(t, err)
	b, err := Render(FormatText, sample)
	require.NoError(t, err)
	assert.Equal(t, Digest(a), Digest(b))

	c, err := Render(FormatText, sample[:1])
	require.NoError(t, err)
	assert.NotEqual(t, Digest(a), Digest(c))
}

func TestDiff(t *testing.T) {
	old := []docgen.Entry{
		{Key: "A", Text: "\\brief A.\n"},
		{Key: "B", Text: "\\brief B."},
		{Key: "C", Text: "\\brief C."},
	}
	updated := []docgen.Entry{
		{Key: "A", Text: "\\brief A."},
		{Key: "B", Text: "\\brief B changed."},
		{Key: "D", Text: "\\brief D."},
	}

	c := Diff(old, updated)
	assert.Equal(t, []string{"D"}, c.Added)
	assert.Equal(t, []string{"C"}, c.Removed)
	assert.Equal(t, []string{"B"}, c.Changed)
	assert.False(t, c.Empty())

	assert.True(t, Diff(old, old).Empty())
}

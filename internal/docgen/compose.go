package docgen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/cxxapidoc/internal/doxml"
)

// ErrMissingChild is returned when a compound or member lacks an element
// Doxygen always writes, such as briefdescription.
var ErrMissingChild = errors.New("missing child element")

const briefTag = `\brief `

// substitution is one literal rewrite applied to composed text.
type substitution struct {
	old, new string
}

// Applied in order; later rules assume the earlier ones already ran.
var substitutions = []substitution{
	{" " + refPrefix, " "},
	{"\n" + refPrefix, "\n"},
	{">" + refPrefix, ">"},
	{"(" + refPrefix, "("},
	{"$", `\f$`},
	{"::", "."},
	{"std.size_t", "int"},
	{"double", "float"},
	{"non-<tt>const</tt> pointer", ""},
	{"non-const pointer", ""},
	{"pointer", "reference"},
	{"non-<tt>const</tt> ", ""},
	{"non-const ", ""},
	{"<tt>const</tt> ", ""},
	{"const ", ""},
}

// Composer builds the documentation text of a compound or member from its
// brief and detailed descriptions.
type Composer struct {
	renderer *Renderer
}

// NewComposer creates a Composer rendering markup with r.
func NewComposer(r *Renderer) *Composer {
	return &Composer{renderer: r}
}

// Compose returns the documentation text for n, or "" when the brief
// description is empty. Symbols without a brief are left out of the table.
func (c *Composer) Compose(n *doxml.Node) (string, error) {
	brief := n.Child("briefdescription")
	if brief == nil {
		return "", fmt.Errorf("%s: briefdescription: %w", n.Name, ErrMissingChild)
	}

	briefText := strings.TrimSpace(c.renderer.children(brief))
	if briefText == "" {
		return "", nil
	}

	detailed := n.Child("detaileddescription")
	if detailed == nil {
		return "", fmt.Errorf("%s: detaileddescription: %w", n.Name, ErrMissingChild)
	}

	text := briefTag + briefText + "\n"

	var b strings.Builder
	for _, block := range detailed.Elements() {
		b.WriteString(c.renderer.Render(block))
		b.WriteString("\n\n")
	}
	if details := strings.TrimSpace(b.String()); details != "" {
		text += "\n" + details
	}

	return Rewrite(text), nil
}

// Rewrite applies the ordered literal substitutions that map C++ vocabulary
// onto the binding layer's.
func Rewrite(text string) string {
	for _, s := range substitutions {
		text = strings.ReplaceAll(text, s.old, s.new)
	}
	return text
}

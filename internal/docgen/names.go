package docgen

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/example/cxxapidoc/internal/doxml"
)

const (
	constructorName = "__init__"
	destructorName  = "__del__"
)

var operatorNames = map[string]string{
	"operator=":  "assign",
	"operator<":  "__lt__",
	"operator>":  "__gt__",
	"operator<=": "__le__",
	"operator>=": "__ge__",
	"operator!=": "__ne__",
	"operator==": "__eq__",
}

// Entry is one documented symbol.
type Entry struct {
	Key  string `json:"key" yaml:"key"`
	Text string `json:"text" yaml:"text"`
}

// Resolver computes documentation keys for compounds and members.
type Resolver struct {
	renderer *Renderer
	composer *Composer
}

// NewResolver creates a Resolver sharing r for markup rendering.
func NewResolver(r *Renderer) *Resolver {
	return &Resolver{renderer: r, composer: NewComposer(r)}
}

// CompoundKey returns the dotted name of a compounddef, e.g. CDPL.Vis.Color.
func (rs *Resolver) CompoundKey(compound *doxml.Node) (string, error) {
	name := compound.Child("compoundname")
	if name == nil {
		return "", fmt.Errorf("%s: compoundname: %w", compound.Name, ErrMissingChild)
	}
	return strings.ReplaceAll(strings.TrimSpace(rs.renderer.children(name)), "::", "."), nil
}

// CompoundEntry returns the entry for a compounddef. ok is false when the
// compound has no brief description.
func (rs *Resolver) CompoundEntry(compound *doxml.Node) (Entry, bool, error) {
	key, err := rs.CompoundKey(compound)
	if err != nil {
		return Entry{}, false, err
	}
	text, err := rs.composer.Compose(compound)
	if err != nil || text == "" {
		return Entry{}, false, err
	}
	return Entry{Key: key, Text: text}, true, nil
}

// MemberEntry returns the entry for a function or variable memberdef of the
// compound keyed compoundKey. ok is false for other member kinds and for
// members without a brief description.
func (rs *Resolver) MemberEntry(member *doxml.Node, compoundKey string) (Entry, bool, error) {
	kind := member.Attrs.Kind
	if kind != "function" && kind != "variable" {
		return Entry{}, false, nil
	}

	text, err := rs.composer.Compose(member)
	if err != nil || text == "" {
		return Entry{}, false, err
	}

	name, err := rs.memberName(member, compoundKey)
	if err != nil {
		return Entry{}, false, err
	}
	if kind == "function" {
		name += "(" + strconv.Itoa(len(member.FindAll("param"))) + ")"
	}

	return Entry{Key: compoundKey + "." + name, Text: text}, true, nil
}

// memberName maps constructors, destructors and comparison operators onto
// the binding layer's special method names.
func (rs *Resolver) memberName(member *doxml.Node, compoundKey string) (string, error) {
	n := member.Child("name")
	if n == nil {
		return "", fmt.Errorf("%s: name: %w", member.Name, ErrMissingChild)
	}
	name := strings.TrimSpace(rs.renderer.children(n))

	if strings.HasPrefix(name, "~") {
		return destructorName, nil
	}
	if name == lastSegment(compoundKey) {
		return constructorName, nil
	}
	if op, ok := operatorNames[name]; ok {
		return op, nil
	}
	return name, nil
}

func lastSegment(key string) string {
	if i := strings.LastIndex(key, "."); i >= 0 {
		return key[i+1:]
	}
	return key
}

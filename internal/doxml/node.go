// Package doxml parses Doxygen XML compound files into a read-only node tree.
package doxml

// Tag identifies the kind of a Node. Element names outside the known
// vocabulary map to TagUnknown and keep their raw name in Node.Name.
type Tag int

const (
	TagUnknown Tag = iota
	TagText
	TagDocument
	TagEntity

	// inline markup
	TagPara
	TagComputerOutput
	TagEmphasis
	TagBold
	TagSuperscript
	TagSubscript
	TagHeading
	TagRef
	TagULink
	TagImage
	TagLineBreak
	TagSp
	TagFormula

	// block markup
	TagTable
	TagRow
	TagEntry
	TagItemizedList
	TagOrderedList
	TagListItem
	TagParameterList
	TagParameterItem
	TagParameterName
	TagParameterDescription
	TagSimpleSect
	TagProgramListing
	TagCodeLine
	TagHighlight

	// compound structure
	TagCompoundDef
	TagCompoundName
	TagMemberDef
	TagName
	TagParam
	TagBriefDescription
	TagDetailedDescription
)

var tagsByName = map[string]Tag{
	"para":                 TagPara,
	"computeroutput":       TagComputerOutput,
	"emphasis":             TagEmphasis,
	"bold":                 TagBold,
	"superscript":          TagSuperscript,
	"subscript":            TagSubscript,
	"heading":              TagHeading,
	"ref":                  TagRef,
	"ulink":                TagULink,
	"image":                TagImage,
	"linebreak":            TagLineBreak,
	"sp":                   TagSp,
	"formula":              TagFormula,
	"table":                TagTable,
	"row":                  TagRow,
	"entry":                TagEntry,
	"itemizedlist":         TagItemizedList,
	"orderedlist":          TagOrderedList,
	"listitem":             TagListItem,
	"parameterlist":        TagParameterList,
	"parameteritem":        TagParameterItem,
	"parametername":        TagParameterName,
	"parameterdescription": TagParameterDescription,
	"simplesect":           TagSimpleSect,
	"programlisting":       TagProgramListing,
	"codeline":             TagCodeLine,
	"highlight":            TagHighlight,
	"compounddef":          TagCompoundDef,
	"compoundname":         TagCompoundName,
	"memberdef":            TagMemberDef,
	"name":                 TagName,
	"param":                TagParam,
	"briefdescription":     TagBriefDescription,
	"detaileddescription":  TagDetailedDescription,
}

// Character entities Doxygen writes as empty elements, e.g. <Aring/>.
var entityNames = map[string]bool{
	"Aring": true, "aring": true, "eacute": true, "Eacute": true,
	"auml": true, "Auml": true, "ouml": true, "Ouml": true, "uuml": true, "Uuml": true,
	"szlig": true, "agrave": true, "egrave": true, "aacute": true, "oacute": true,
	"ccedil": true, "ntilde": true, "nbsp": true, "copy": true, "reg": true,
	"deg": true, "plusmn": true, "times": true, "divide": true, "middot": true,
	"ndash": true, "mdash": true, "lsquo": true, "rsquo": true, "ldquo": true, "rdquo": true,
	"alpha": true, "beta": true, "gamma": true, "delta": true, "epsilon": true,
	"lambda": true, "mu": true, "pi": true, "sigma": true, "Sigma": true, "Delta": true,
}

// LookupTag maps an element name to its Tag.
func LookupTag(name string) Tag {
	if tag, ok := tagsByName[name]; ok {
		return tag
	}
	if entityNames[name] {
		return TagEntity
	}
	return TagUnknown
}

// Attrs holds the element attributes the transducer reads. Absent
// attributes are empty strings.
type Attrs struct {
	Kind  string
	Type  string
	URL   string
	Name  string
	THead string
}

// Node is one element or text run of a parsed document.
type Node struct {
	Tag      Tag
	Name     string
	Attrs    Attrs
	Children []*Node
	Text     string
}

// IsText reports whether n is a character data node.
func (n *Node) IsText() bool {
	return n.Tag == TagText
}

// Child returns the first direct child element with the given name, or nil.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if !c.IsText() && c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the direct child elements with the given name.
func (n *Node) ChildrenNamed(name string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText() && c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Elements returns the direct child elements, skipping text.
func (n *Node) Elements() []*Node {
	var out []*Node
	for _, c := range n.Children {
		if !c.IsText() {
			out = append(out, c)
		}
	}
	return out
}

// Find returns the first descendant element with the given name in
// document order, or nil.
func (n *Node) Find(name string) *Node {
	for _, c := range n.Children {
		if c.IsText() {
			continue
		}
		if c.Name == name {
			return c
		}
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// FindAll returns every descendant element with the given name in
// document order.
func (n *Node) FindAll(name string) []*Node {
	var out []*Node
	var walk func(*Node)
	walk = func(p *Node) {
		for _, c := range p.Children {
			if c.IsText() {
				continue
			}
			if c.Name == name {
				out = append(out, c)
			}
			walk(c)
		}
	}
	walk(n)
	return out
}

// TextContent concatenates all character data below n.
func (n *Node) TextContent() string {
	if n.IsText() {
		return n.Text
	}
	var s string
	for _, c := range n.Children {
		s += c.TextContent()
	}
	return s
}

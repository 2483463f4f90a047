// Package docgen turns Doxygen compound documents into a table of
// binding-layer documentation strings keyed by dotted symbol names.
package docgen

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/example/cxxapidoc/internal/doxml"
	"github.com/example/cxxapidoc/internal/logging"
)

// Markup written by the renderer. refPrefix is also what the composer strips.
const (
	refPrefix         = `\ref `
	listingComment    = "// code listing\n"
	codeBlockOpen     = "\\code\n"
	codeBlockClose    = "\\endcode\n"
	lineBreakMarkup   = "<br>"
	tableOpen         = "<table>\n"
	tableClose        = "</table>\n"
	rowOpen           = "<tr>"
	rowClose          = "</tr>\n"
	paramTag          = `\param `
	throwTag          = `\throw `
	listItemPrefix    = "- "
	imageTag          = `\image `
	templateParamKind = "templateparam"
	exceptionKind     = "exception"
)

var wrappers = map[doxml.Tag][2]string{
	doxml.TagComputerOutput: {"<tt>", "</tt>"},
	doxml.TagEmphasis:       {"<em>", "</em>"},
	doxml.TagBold:           {"<b>", "</b>"},
	doxml.TagSuperscript:    {"<sup>", "</sup>"},
	doxml.TagSubscript:      {"<sub>", "</sub>"},
}

var simpleSectTags = map[string]string{
	"see":    `\see `,
	"return": `\return `,
	"note":   `\note `,
	"pre":    `\pre `,
	"post":   `\post `,
}

// Renderer flattens documentation markup nodes into the output dialect.
// Unknown element names and simplesect kinds are reported on the report
// writer and rendered as their children.
type Renderer struct {
	report io.Writer
	log    logging.Logger
}

// NewRenderer creates a Renderer. A nil report writer discards warnings.
func NewRenderer(report io.Writer, log logging.Logger) *Renderer {
	if report == nil {
		report = io.Discard
	}
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Renderer{report: report, log: log}
}

// Render returns the flat markup for n and its subtree.
func (r *Renderer) Render(n *doxml.Node) string {
	switch n.Tag {
	case doxml.TagText:
		return n.Text

	case doxml.TagDocument, doxml.TagPara, doxml.TagCodeLine, doxml.TagHighlight, doxml.TagFormula:
		return r.children(n)

	case doxml.TagComputerOutput, doxml.TagEmphasis, doxml.TagBold, doxml.TagSuperscript, doxml.TagSubscript:
		w := wrappers[n.Tag]
		return w[0] + r.children(n) + w[1]

	case doxml.TagHeading:
		text := strings.TrimSpace(r.children(n))
		return text + "\n" + strings.Repeat("-", utf8.RuneCountInString(text)) + "\n"

	case doxml.TagRef:
		return refPrefix + r.children(n)

	case doxml.TagEntity:
		return "&" + n.Name + ";"

	case doxml.TagTable:
		return r.table(n)
	case doxml.TagRow:
		return r.row(n)
	case doxml.TagEntry:
		return r.entry(n)

	case doxml.TagItemizedList:
		return r.list(n, false)
	case doxml.TagOrderedList:
		return r.list(n, true)

	case doxml.TagParameterList:
		return r.parameterList(n)

	case doxml.TagSimpleSect:
		return r.simpleSect(n)

	case doxml.TagULink:
		return `<a href="` + n.Attrs.URL + `">` + strings.TrimSpace(r.children(n)) + "</a>"

	case doxml.TagImage:
		s := imageTag + n.Attrs.Type + " " + n.Attrs.Name
		if caption := strings.TrimSpace(r.children(n)); caption != "" {
			s += ` "` + caption + `"`
		}
		return s

	case doxml.TagLineBreak:
		return lineBreakMarkup

	case doxml.TagSp:
		return " "

	case doxml.TagProgramListing:
		return r.programListing(n)

	default:
		r.warn("Warning: unknown node name: "+n.Name, logging.String("tag", n.Name))
		return r.children(n)
	}
}

func (r *Renderer) children(n *doxml.Node) string {
	var b strings.Builder
	for _, c := range n.Children {
		b.WriteString(r.Render(c))
	}
	return b.String()
}

func (r *Renderer) warn(line string, fields ...logging.Field) {
	_, _ = fmt.Fprintln(r.report, line)
	r.log.Debug(line, fields...)
}

func (r *Renderer) table(n *doxml.Node) string {
	var b strings.Builder
	b.WriteString(tableOpen)
	for _, row := range n.ChildrenNamed("row") {
		b.WriteString(r.row(row))
	}
	b.WriteString(tableClose)
	return b.String()
}

func (r *Renderer) row(n *doxml.Node) string {
	var b strings.Builder
	b.WriteString(rowOpen)
	for _, entry := range n.ChildrenNamed("entry") {
		b.WriteString(r.entry(entry))
	}
	b.WriteString(rowClose)
	return b.String()
}

func (r *Renderer) entry(n *doxml.Node) string {
	cell := "td"
	if n.Attrs.THead == "yes" {
		cell = "th"
	}
	return "<" + cell + ">" + strings.TrimSpace(r.children(n)) + "</" + cell + ">"
}

func (r *Renderer) list(n *doxml.Node, ordered bool) string {
	var b strings.Builder
	b.WriteString("\n")
	for i, item := range n.ChildrenNamed("listitem") {
		if ordered {
			b.WriteString(strconv.Itoa(i+1) + ". ")
		} else {
			b.WriteString(listItemPrefix)
		}
		b.WriteString(strings.TrimSpace(r.children(item)))
		b.WriteString("\n")
	}
	return b.String()
}

func (r *Renderer) parameterList(n *doxml.Node) string {
	tag := paramTag
	switch n.Attrs.Kind {
	case templateParamKind:
		return ""
	case exceptionKind:
		tag = throwTag
	}

	var b strings.Builder
	for _, item := range n.ChildrenNamed("parameteritem") {
		b.WriteString(tag)
		b.WriteString(r.firstChildText(item, "parametername"))
		b.WriteString(" ")
		b.WriteString(r.firstChildText(item, "parameterdescription"))
		b.WriteString("\n")
	}
	return b.String()
}

// firstChildText renders the first descendant with the given name, trimmed.
// parametername usually sits inside a parameternamelist wrapper.
func (r *Renderer) firstChildText(n *doxml.Node, name string) string {
	c := n.Find(name)
	if c == nil {
		return ""
	}
	return strings.TrimSpace(r.children(c))
}

func (r *Renderer) simpleSect(n *doxml.Node) string {
	prefix, ok := simpleSectTags[n.Attrs.Kind]
	if !ok {
		r.warn("Warning: unknown simplesect type: "+n.Attrs.Kind, logging.String("kind", n.Attrs.Kind))
	}
	return prefix + r.children(n)
}

func (r *Renderer) programListing(n *doxml.Node) string {
	var b strings.Builder
	b.WriteString(codeBlockOpen)
	b.WriteString(listingComment)
	for _, c := range n.Elements() {
		b.WriteString(r.Render(c))
		if c.Tag == doxml.TagCodeLine {
			b.WriteString("\n")
		}
	}
	b.WriteString(codeBlockClose)
	return b.String()
}

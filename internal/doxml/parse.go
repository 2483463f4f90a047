package doxml

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"golang.org/x/net/html/charset"
)

// Parse reads a well-formed XML document and returns its document node.
// The returned node has Tag TagDocument and the root element as child.
func Parse(r io.Reader) (*Node, error) {
	dec := xml.NewDecoder(r)
	dec.CharsetReader = charset.NewReaderLabel

	doc := &Node{Tag: TagDocument, Name: "#document"}
	stack := []*Node{doc}

	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			el := &Node{
				Tag:   LookupTag(t.Name.Local),
				Name:  t.Name.Local,
				Attrs: attrsOf(t.Attr),
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, el)
			stack = append(stack, el)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
		case xml.CharData:
			if len(stack) == 1 {
				// whitespace outside the root element
				continue
			}
			parent := stack[len(stack)-1]
			parent.Children = append(parent.Children, &Node{Tag: TagText, Text: string(t)})
		}
	}

	if len(doc.Elements()) == 0 {
		return nil, fmt.Errorf("no root element")
	}
	return doc, nil
}

// ParseFile parses the XML file at path.
func ParseFile(path string) (*Node, error) {
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	doc, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filepath.Base(path), err)
	}
	return doc, nil
}

func attrsOf(attrs []xml.Attr) Attrs {
	var a Attrs
	for _, attr := range attrs {
		switch attr.Name.Local {
		case "kind":
			a.Kind = attr.Value
		case "type":
			a.Type = attr.Value
		case "url":
			a.URL = attr.Value
		case "name":
			a.Name = attr.Value
		case "thead":
			a.THead = attr.Value
		}
	}
	return a
}

// Package legacyxml holds the shared plumbing for reading supermodel XML
// documents exported by the legacy form builder.
package legacyxml

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"aqwari.net/xml/xmltree"
)

// Namespaces used by supermodel documents.
const (
	NamespaceSchema   = "http://namespaces.plone.org/supermodel/schema"
	NamespaceEasyForm = "http://namespaces.plone.org/supermodel/easyform"
	NamespaceForm     = "http://namespaces.plone.org/supermodel/form"
)

// Name is a namespace-qualified tag or attribute name used as a dispatch key.
type Name struct {
	Space string
	Local string
}

func (n Name) String() string {
	if n.Space == "" {
		return n.Local
	}
	return "{" + n.Space + "}" + n.Local
}

// Schema returns a Name in the schema namespace.
func Schema(local string) Name {
	return Name{Space: NamespaceSchema, Local: local}
}

// EasyForm returns a Name in the form-builder extension namespace.
func EasyForm(local string) Name {
	return Name{Space: NamespaceEasyForm, Local: local}
}

// Form returns a Name in the widget namespace.
func Form(local string) Name {
	return Name{Space: NamespaceForm, Local: local}
}

// NameOf converts an encoding/xml name into a dispatch key.
func NameOf(name xml.Name) Name {
	return Name{Space: name.Space, Local: name.Local}
}

// TagOf returns the dispatch key of an element.
func TagOf(el *xmltree.Element) Name {
	if el == nil {
		return Name{}
	}
	return NameOf(el.StartElement.Name)
}

var errMalformed = errors.New("legacyxml: malformed document")

// SchemaNode parses doc and returns its schema element. The element may be the
// document root or one of its direct children. A blank document or one without
// a schema element yields (nil, nil); unparseable input yields an error.
func SchemaNode(doc string) (*xmltree.Element, error) {
	if strings.TrimSpace(doc) == "" {
		return nil, nil
	}
	root, err := xmltree.Parse([]byte(doc))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformed, err)
	}
	target := Schema("schema")
	if TagOf(root) == target {
		return root, nil
	}
	return Child(root, target), nil
}

// IsMalformed reports whether err came from an unparseable document.
func IsMalformed(err error) bool {
	return errors.Is(err, errMalformed)
}

// Child returns the first direct child named name.
func Child(el *xmltree.Element, name Name) *xmltree.Element {
	if el == nil {
		return nil
	}
	for i := range el.Children {
		if TagOf(&el.Children[i]) == name {
			return &el.Children[i]
		}
	}
	return nil
}

// Children returns every direct child named name, in document order.
func Children(el *xmltree.Element, name Name) []*xmltree.Element {
	if el == nil {
		return nil
	}
	var out []*xmltree.Element
	for i := range el.Children {
		if TagOf(&el.Children[i]) == name {
			out = append(out, &el.Children[i])
		}
	}
	return out
}

// Descendants returns every element below el named name in depth-first
// document order. el itself is not included.
func Descendants(el *xmltree.Element, name Name) []*xmltree.Element {
	if el == nil {
		return nil
	}
	var out []*xmltree.Element
	for i := range el.Children {
		child := &el.Children[i]
		if TagOf(child) == name {
			out = append(out, child)
		}
		out = append(out, Descendants(child, name)...)
	}
	return out
}

// Attr returns the value of the attribute with the given qualified name.
func Attr(el *xmltree.Element, name Name) (string, bool) {
	if el == nil {
		return "", false
	}
	for _, attr := range el.StartElement.Attr {
		if NameOf(attr.Name) == name {
			return attr.Value, true
		}
	}
	return "", false
}

// IsNamespaceDecl reports whether attr is an xmlns declaration rather than
// data.
func IsNamespaceDecl(attr xml.Attr) bool {
	return attr.Name.Space == "xmlns" || (attr.Name.Space == "" && attr.Name.Local == "xmlns")
}

// Text returns the character data of el that precedes its first child
// element, with entities and CDATA sections decoded. Mixed content therefore
// yields its leading text. The empty string stands for absent text.
func Text(el *xmltree.Element) string {
	if el == nil || len(el.Content) == 0 {
		return ""
	}
	dec := xml.NewDecoder(bytes.NewReader(el.Content))
	dec.Strict = false

	var sb strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			if sb.Len() == 0 && !errors.Is(err, io.EOF) {
				return string(el.Content)
			}
			return sb.String()
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.StartElement:
			return sb.String()
		}
	}
}

// Package xmldoc builds small namespace-qualified XML documents and serializes them
// with a declaration and two-space indentation.
package xmldoc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// XSINamespace is the XML Schema instance namespace used for schemaLocation and xsi:type.
const XSINamespace = "http://www.w3.org/2001/XMLSchema-instance"

// Namespace binds a prefix to a URI. An empty Prefix is the default namespace.
// Location, when set, is paired with URI in the root's xsi:schemaLocation.
type Namespace struct {
	Prefix   string
	URI      string
	Location string
}

// Schema is the namespace table declared on a document root, in declaration order.
type Schema []Namespace

// SchemaLocation returns the space-separated URI/location pairs.
func (s Schema) SchemaLocation() string {
	parts := make([]string, 0, 2*len(s))
	for _, ns := range s {
		if ns.Location == "" {
			continue
		}
		parts = append(parts, ns.URI, ns.Location)
	}
	return strings.Join(parts, " ")
}

// XSIPrefix returns the prefix bound to XSINamespace, or "" if it is not declared.
func (s Schema) XSIPrefix() string {
	for _, ns := range s {
		if ns.URI == XSINamespace && ns.Prefix != "" {
			return ns.Prefix
		}
	}
	return ""
}

func (s Schema) declares(prefix string) bool {
	for _, ns := range s {
		if ns.Prefix == prefix {
			return true
		}
	}
	return false
}

// Element is one node of the tree. Name is the qualified name, "prefix:local" or "local".
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Text     string
	Children []*Element
}

// Add appends a child in the default namespace.
func (e *Element) Add(local string) *Element {
	child := &Element{Name: local}
	e.Children = append(e.Children, child)
	return child
}

// AddText appends a child in the default namespace holding text.
func (e *Element) AddText(local, text string) *Element {
	child := e.Add(local)
	child.Text = text
	return child
}

// AddNS appends a child in the namespace bound to prefix.
func (e *Element) AddNS(prefix, local string) *Element {
	return e.Add(qualify(prefix, local))
}

// AddTextNS appends a child holding text in the namespace bound to prefix.
func (e *Element) AddTextNS(prefix, local, text string) *Element {
	return e.AddText(qualify(prefix, local), text)
}

// SetAttr sets an unqualified attribute.
func (e *Element) SetAttr(name, value string) *Element {
	return e.SetAttrNS("", name, value)
}

// SetAttrNS sets an attribute in the namespace bound to prefix, replacing an earlier value.
func (e *Element) SetAttrNS(prefix, name, value string) *Element {
	qn := qualify(prefix, name)
	for i := range e.Attrs {
		if e.Attrs[i].Name.Local == qn {
			e.Attrs[i].Value = value
			return e
		}
	}
	e.Attrs = append(e.Attrs, xml.Attr{Name: xml.Name{Local: qn}, Value: value})
	return e
}

func qualify(prefix, local string) string {
	if prefix == "" {
		return local
	}
	return prefix + ":" + local
}

// Document is a tree rooted at an element that carries the schema's declarations.
type Document struct {
	Schema Schema
	Root   *Element
}

// New returns a document whose root element is named local in the default namespace.
func New(schema Schema, local string) *Document {
	return &Document{Schema: schema, Root: &Element{Name: local}}
}

// Encode writes the XML declaration followed by the indented tree.
func (d *Document) Encode(w io.Writer) error {
	if err := d.validate(d.Root); err != nil {
		return err
	}
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}

	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := encodeElement(enc, d.Root, d.rootAttrs()); err != nil {
		return fmt.Errorf("encode %s: %w", d.Root.Name, err)
	}
	if err := enc.Flush(); err != nil {
		return err
	}
	_, err := io.WriteString(w, "\n")
	return err
}

// Marshal returns the encoded document.
func (d *Document) Marshal() ([]byte, error) {
	var buf bytes.Buffer
	if err := d.Encode(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// rootAttrs puts namespace declarations first and schemaLocation last.
func (d *Document) rootAttrs() []xml.Attr {
	attrs := make([]xml.Attr, 0, len(d.Schema)+len(d.Root.Attrs)+1)
	for _, ns := range d.Schema {
		name := "xmlns"
		if ns.Prefix != "" {
			name += ":" + ns.Prefix
		}
		attrs = append(attrs, xml.Attr{Name: xml.Name{Local: name}, Value: ns.URI})
	}
	attrs = append(attrs, d.Root.Attrs...)
	if loc := d.Schema.SchemaLocation(); loc != "" {
		if xsi := d.Schema.XSIPrefix(); xsi != "" {
			attrs = append(attrs, xml.Attr{Name: xml.Name{Local: qualify(xsi, "schemaLocation")}, Value: loc})
		}
	}
	return attrs
}

func (d *Document) validate(e *Element) error {
	if err := d.checkName(e.Name); err != nil {
		return err
	}
	for _, a := range e.Attrs {
		if err := d.checkName(a.Name.Local); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := d.validate(c); err != nil {
			return err
		}
	}
	return nil
}

func (d *Document) checkName(name string) error {
	prefix, _, ok := strings.Cut(name, ":")
	if !ok {
		return nil
	}
	if !d.Schema.declares(prefix) {
		return fmt.Errorf("undeclared namespace prefix %q in %q", prefix, name)
	}
	return nil
}

func encodeElement(enc *xml.Encoder, e *Element, attrs []xml.Attr) error {
	start := xml.StartElement{Name: xml.Name{Local: e.Name}, Attr: attrs}
	if err := enc.EncodeToken(start); err != nil {
		return err
	}
	if e.Text != "" {
		if err := enc.EncodeToken(xml.CharData(e.Text)); err != nil {
			return err
		}
	}
	for _, c := range e.Children {
		if err := encodeElement(enc, c, c.Attrs); err != nil {
			return err
		}
	}
	return enc.EncodeToken(start.End())
}

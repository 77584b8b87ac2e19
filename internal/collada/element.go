package collada

import (
	"encoding/xml"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Element is one node of a parsed document, with its children kept in
// document order.
type Element struct {
	Name     string
	Attrs    []xml.Attr
	Children []*Element
	Text     string
}

// ParseElement reads r and returns its root element.
func ParseElement(r io.Reader) (*Element, error) {
	d := xml.NewDecoder(r)
	var (
		stack []*Element
		root  *Element
		text  [][]byte
	)
	for {
		tok, err := d.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("collada: xml: %w", err)
		}
		switch t := tok.(type) {
		case xml.StartElement:
			el := &Element{Name: t.Name.Local, Attrs: t.Copy().Attr}
			if n := len(stack); n > 0 {
				stack[n-1].Children = append(stack[n-1].Children, el)
			} else if root == nil {
				root = el
			} else {
				return nil, fmt.Errorf("collada: xml: more than one root element")
			}
			stack = append(stack, el)
			text = append(text, nil)
		case xml.CharData:
			if n := len(text); n > 0 {
				text[n-1] = append(text[n-1], t...)
			}
		case xml.EndElement:
			n := len(stack)
			stack[n-1].Text = strings.TrimSpace(string(text[n-1]))
			stack = stack[:n-1]
			text = text[:n-1]
		}
	}
	if root == nil {
		return nil, fmt.Errorf("collada: xml: no root element")
	}
	return root, nil
}

// Attr returns the value of the attribute with the given local name.
func (e *Element) Attr(name string) (string, bool) {
	for _, a := range e.Attrs {
		if a.Name.Local == name {
			return a.Value, true
		}
	}
	return "", false
}

// AttrOr returns the attribute value or def when it is absent.
func (e *Element) AttrOr(name, def string) string {
	if v, ok := e.Attr(name); ok {
		return v
	}
	return def
}

// IntAttr parses a non-negative integer attribute, returning def when the
// attribute is absent.
func (e *Element) IntAttr(name string, def int) (int, error) {
	v, ok := e.Attr(name)
	if !ok {
		return def, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 0 {
		return 0, newErr(ErrMalformedData, e.Name, e.AttrOr("id", ""),
			"attribute %s=%q is not a non-negative integer", name, v)
	}
	return n, nil
}

// Child returns the first child with the given name, or nil.
func (e *Element) Child(name string) *Element {
	for _, c := range e.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns every child with the given name.
func (e *Element) ChildrenNamed(name string) []*Element {
	var out []*Element
	for _, c := range e.Children {
		if c.Name == name {
			out = append(out, c)
		}
	}
	return out
}

// Path follows a chain of child names, e.g. Path("technique_common", "accessor").
func (e *Element) Path(names ...string) *Element {
	cur := e
	for _, n := range names {
		if cur = cur.Child(n); cur == nil {
			return nil
		}
	}
	return cur
}

func (e *Element) id() string {
	if id, ok := e.Attr("id"); ok {
		return id
	}
	return e.AttrOr("name", "")
}

package collada

import "fmt"

// Geometry is a parsed <geometry> element. It owns the registry its
// primitives read from.
type Geometry struct {
	ID         string
	Name       string
	Primitives []*Primitive

	registry *Registry
	sources  []*Source
}

// ParseGeometry reads a <geometry> element with a <mesh> child.
func ParseGeometry(el *Element) (*Geometry, error) {
	g := &Geometry{
		ID:       el.AttrOr("id", ""),
		Name:     el.AttrOr("name", ""),
		registry: NewRegistry(),
	}
	mesh := el.Child("mesh")
	if mesh == nil {
		return nil, newErr(ErrMissingRequiredElement, "geometry", g.label(), "no <mesh>")
	}
	if err := g.parseMesh(mesh); err != nil {
		return nil, fmt.Errorf("collada: geometry %q: %w", g.label(), err)
	}
	return g, nil
}

// parseMesh scans in document order: <source> and <vertices> precede the
// primitives, so the registry is populated before any primitive resolves.
func (g *Geometry) parseMesh(mesh *Element) error {
	for _, c := range mesh.Children {
		switch c.Name {
		case "source":
			s, err := ParseSource(c)
			if err != nil {
				return err
			}
			if err := g.registry.InsertSource(Key(s.ID), s); err != nil {
				return err
			}
			g.sources = append(g.sources, s)
		case "vertices":
			id, ok := c.Attr("id")
			if !ok {
				return newErr(ErrMalformedData, "vertices", "", "no id")
			}
			b, err := parseVertices(c, g.registry)
			if err != nil {
				return err
			}
			if err := g.registry.InsertAlias(Key(id), b); err != nil {
				return err
			}
		case "triangles":
			p, err := ParsePrimitive(c, g.registry)
			if err != nil {
				return err
			}
			g.Primitives = append(g.Primitives, p)
		}
	}
	return nil
}

// parseVertices returns the alias binding of a <vertices> element: its
// POSITION input, or its first input when none is POSITION.
func parseVertices(el *Element, reg *Registry) (*Binding, error) {
	var first *Binding
	for _, in := range el.ChildrenNamed("input") {
		b, err := ParseBinding(in, reg)
		if err != nil {
			return nil, err
		}
		if b.semantic == SemPosition {
			return b, nil
		}
		if first == nil {
			first = b
		}
	}
	if first == nil {
		return nil, newErr(ErrMissingRequiredElement, "vertices", el.AttrOr("id", ""), "no <input>")
	}
	return first, nil
}

// Registry returns the geometry's source registry.
func (g *Geometry) Registry() *Registry { return g.registry }

// Sources returns the numeric sources in document order.
func (g *Geometry) Sources() []*Source { return g.sources }

// TriangleCount sums the triangles of every primitive.
func (g *Geometry) TriangleCount() int {
	n := 0
	for _, p := range g.Primitives {
		n += p.Count
	}
	return n
}

func (g *Geometry) label() string {
	if g.ID != "" {
		return g.ID
	}
	return g.Name
}

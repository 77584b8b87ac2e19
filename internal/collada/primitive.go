package collada

import (
	"strconv"
	"strings"
)

// verticesPerTriangle is the unit size of a triangle list.
const verticesPerTriangle = 3

// maxOffset bounds input offsets, and with them the index stride.
const maxOffset = 255

// Primitive is a decoded <triangles> element. All of its bindings share
// one IndexTable.
type Primitive struct {
	Name     string
	Material string
	Count    int // triangles

	bindings []*Binding
	indices  *IndexTable
}

// ParsePrimitive decodes a <triangles> element against reg.
//
// Every <input> is collected before the <p> block is decoded, since the
// index stride is only known once all channel offsets have been seen.
func ParsePrimitive(el *Element, reg *Registry) (*Primitive, error) {
	name := el.AttrOr("name", "")
	p := &Primitive{
		Name:     name,
		Material: el.AttrOr("material", ""),
	}
	if _, ok := el.Attr("count"); !ok {
		return nil, newErr(ErrMalformedData, el.Name, name, "no count")
	}
	var err error
	if p.Count, err = el.IntAttr("count", 0); err != nil {
		return nil, err
	}

	channels := 0
	var pEl *Element
	for _, c := range el.Children {
		switch c.Name {
		case "input":
			b, err := ParseBinding(c, reg)
			if err != nil {
				return nil, err
			}
			if b.offset > maxOffset {
				return nil, newErr(ErrMalformedData, el.Name, name,
					"input %s offset %d above %d", b.Semantic(), b.offset, maxOffset)
			}
			channels = max(channels, b.offset+1)
			p.bindings = append(p.bindings, b)
		case "p":
			if pEl != nil {
				return nil, newErr(ErrMalformedData, el.Name, name, "more than one <p>")
			}
			pEl = c
		}
	}
	if len(p.bindings) == 0 {
		return nil, newErr(ErrMissingRequiredElement, el.Name, name, "no <input>")
	}

	if p.indices, err = NewIndexTable(channels); err != nil {
		return nil, err
	}
	for _, b := range p.bindings {
		b.indices = p.indices
	}

	if pEl == nil {
		if p.Count > 0 {
			return nil, newErr(ErrMissingRequiredElement, el.Name, name, "no <p>")
		}
		return p, nil
	}
	if err := p.decode(pEl.Text); err != nil {
		return nil, err
	}
	if err := p.check(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Primitive) decode(text string) error {
	tokens := strings.Fields(text)
	// Compared by division; Count is unbounded.
	per := p.indices.Channels() * verticesPerTriangle
	if len(tokens)%per != 0 || len(tokens)/per != p.Count {
		return newErr(ErrMalformedData, "p", p.Name,
			"%d triangles * %d channels * 3 indices, have %d",
			p.Count, p.indices.Channels(), len(tokens))
	}
	p.indices.Grow(len(tokens))
	for i, tok := range tokens {
		v, err := strconv.ParseUint(tok, 10, 31)
		if err != nil {
			return newErr(ErrMalformedData, "p", p.Name, "index %d: %q", i, tok)
		}
		p.indices.Append(int32(v))
	}
	return p.indices.Validate()
}

// check verifies that every index addresses a tuple of its binding's entry.
func (p *Primitive) check() error {
	n := p.indices.TupleCount()
	for _, b := range p.bindings {
		limit := b.Count()
		for v := 0; v < n; v++ {
			i, err := b.SourceIndex(v)
			if err != nil {
				return err
			}
			if i >= limit {
				return newErr(ErrMalformedData, "p", p.Name,
					"vertex %d: %s index %d exceeds %s count %d",
					v, b.semantic, i, b.ref, limit)
			}
		}
	}
	return nil
}

// VertexCount returns the number of vertex ordinals.
func (p *Primitive) VertexCount() int { return p.Count * verticesPerTriangle }

// Bindings returns the primitive's bindings in document order.
func (p *Primitive) Bindings() []*Binding { return p.bindings }

// Indices returns the shared index table.
func (p *Primitive) Indices() *IndexTable { return p.indices }

// Binding returns the first binding with the given semantic, or nil.
func (p *Primitive) Binding(sem Semantic) *Binding {
	for _, b := range p.bindings {
		if b.semantic == sem {
			return b
		}
	}
	return nil
}

// Has reports whether the primitive binds sem.
func (p *Primitive) Has(sem Semantic) bool { return p.Binding(sem) != nil }

// Attribute resolves the tuple of sem for a vertex ordinal.
// It returns ErrAttributeNotPresent when sem is not bound.
func (p *Primitive) Attribute(sem Semantic, vertex int) ([]float32, error) {
	b := p.Binding(sem)
	if b == nil {
		return nil, ErrAttributeNotPresent
	}
	return b.Resolve(vertex)
}

// Index returns the VERTEX channel index of a vertex ordinal.
func (p *Primitive) Index(vertex int) (int, error) {
	b := p.Binding(SemVertex)
	if b == nil {
		return 0, ErrAttributeNotPresent
	}
	return b.SourceIndex(vertex)
}

// Position returns the VERTEX attribute as a 3-vector.
func (p *Primitive) Position(vertex int) ([3]float32, error) {
	return p.vec3(SemVertex, vertex)
}

// Normal returns the NORMAL attribute as a 3-vector.
func (p *Primitive) Normal(vertex int) ([3]float32, error) {
	return p.vec3(SemNormal, vertex)
}

// TexCoord returns the first two components of the TEXCOORD attribute.
func (p *Primitive) TexCoord(vertex int) ([2]float32, error) {
	var uv [2]float32
	t, err := p.Attribute(SemTexCoord, vertex)
	if err != nil {
		return uv, err
	}
	if len(t) < 2 {
		return uv, newErr(ErrMalformedData, "input", "TEXCOORD", "tuple has %d components, want 2", len(t))
	}
	copy(uv[:], t)
	return uv, nil
}

func (p *Primitive) vec3(sem Semantic, vertex int) ([3]float32, error) {
	var v [3]float32
	t, err := p.Attribute(sem, vertex)
	if err != nil {
		return v, err
	}
	if len(t) < 3 {
		return v, newErr(ErrMalformedData, "input", sem.String(), "tuple has %d components, want 3", len(t))
	}
	copy(v[:], t)
	return v, nil
}

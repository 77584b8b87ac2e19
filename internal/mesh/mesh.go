// Package mesh flattens decoded COLLADA triangle primitives into indexed
// vertex arrays ready for upload to a renderer.
package mesh

import (
	"encoding/binary"
	"errors"
	"fmt"

	"collada-importer/internal/collada"
	"collada-importer/internal/mathutil"
)

// Mesh holds one primitive as deduplicated vertex arrays plus a triangle
// index list. Normals and UVs are nil when the primitive has none.
type Mesh struct {
	Positions [][3]float32
	Normals   [][3]float32
	UVs       [][2]float32
	Indices   []uint32 // three per triangle
	Material  string   // material symbol of the primitive
}

// Build expands p. Corners that share every index channel collapse into one
// output vertex.
func Build(p *collada.Primitive) (*Mesh, error) {
	if !p.Has(collada.SemVertex) {
		return nil, fmt.Errorf("mesh: primitive %q: %w", p.Name, collada.ErrAttributeNotPresent)
	}
	hasNormals := p.Has(collada.SemNormal)
	hasUVs := p.Has(collada.SemTexCoord)

	n := p.VertexCount()
	m := &Mesh{
		Material: p.Material,
		Indices:  make([]uint32, 0, n),
	}
	tab := p.Indices()
	seen := make(map[string]uint32, n)
	key := make([]byte, 4*tab.Channels())

	for v := 0; v < n; v++ {
		for c := 0; c < tab.Channels(); c++ {
			idx, err := tab.Get(v, c)
			if err != nil {
				return nil, fmt.Errorf("mesh: vertex %d: %w", v, err)
			}
			binary.LittleEndian.PutUint32(key[4*c:], uint32(idx))
		}
		if out, ok := seen[string(key)]; ok {
			m.Indices = append(m.Indices, out)
			continue
		}

		pos, err := p.Position(v)
		if err != nil {
			return nil, fmt.Errorf("mesh: vertex %d: %w", v, err)
		}
		out := uint32(len(m.Positions))
		m.Positions = append(m.Positions, pos)
		if hasNormals {
			nrm, err := p.Normal(v)
			if err != nil {
				return nil, fmt.Errorf("mesh: vertex %d: %w", v, err)
			}
			m.Normals = append(m.Normals, nrm)
		}
		if hasUVs {
			uv, err := p.TexCoord(v)
			if err != nil {
				return nil, fmt.Errorf("mesh: vertex %d: %w", v, err)
			}
			m.UVs = append(m.UVs, uv)
		}
		seen[string(key)] = out
		m.Indices = append(m.Indices, out)
	}
	return m, nil
}

// BuildGeometry flattens every primitive of g. Primitives without a
// VERTEX input are skipped.
func BuildGeometry(g *collada.Geometry) ([]*Mesh, error) {
	var out []*Mesh
	for _, p := range g.Primitives {
		m, err := Build(p)
		if errors.Is(err, collada.ErrAttributeNotPresent) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("mesh: geometry %q: %w", g.ID, err)
		}
		out = append(out, m)
	}
	return out, nil
}

// VertexCount returns the number of distinct vertices.
func (m *Mesh) VertexCount() int { return len(m.Positions) }

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int { return len(m.Indices) / 3 }

// Bounds returns the bounding box of the positions.
func (m *Mesh) Bounds() mathutil.AABB {
	b := mathutil.EmptyAABB()
	for _, p := range m.Positions {
		b = b.Extend(mathutil.Vec3(p))
	}
	return b
}

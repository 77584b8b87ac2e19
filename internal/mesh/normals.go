package mesh

import "collada-importer/internal/mathutil"

// GenerateNormals fills Normals with area-weighted vertex normals when the
// primitive carried none. Existing normals are kept.
func (m *Mesh) GenerateNormals() {
	if m.Normals != nil {
		return
	}
	acc := make([]mathutil.Vec3, len(m.Positions))
	for t := 0; t+2 < len(m.Indices); t += 3 {
		i0, i1, i2 := m.Indices[t], m.Indices[t+1], m.Indices[t+2]
		p0 := mathutil.Vec3(m.Positions[i0])
		p1 := mathutil.Vec3(m.Positions[i1])
		p2 := mathutil.Vec3(m.Positions[i2])
		// Unnormalized: the cross product length weights by face area.
		fn := p1.Sub(p0).Cross(p2.Sub(p0))
		acc[i0] = acc[i0].Add(fn)
		acc[i1] = acc[i1].Add(fn)
		acc[i2] = acc[i2].Add(fn)
	}
	m.Normals = make([][3]float32, len(acc))
	for i, n := range acc {
		m.Normals[i] = n.Normalize()
	}
}

package mesh

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// Facing names the dominant axis direction of a triangle's normal.
type Facing int

const (
	FacingPosX Facing = iota
	FacingNegX
	FacingPosY
	FacingNegY
	FacingPosZ
	FacingNegZ
	FacingDegenerate
)

var facingNames = [...]string{"+X", "-X", "+Y", "-Y", "+Z", "-Z", "degenerate"}

func (f Facing) String() string {
	if f < 0 || int(f) >= len(facingNames) {
		return "unknown"
	}
	return facingNames[f]
}

func vec(p [3]float32) r3.Vec {
	return r3.Vec{X: float64(p[0]), Y: float64(p[1]), Z: float64(p[2])}
}

// triangle returns the unnormalized face normal of triangle t; its length
// is twice the triangle's area.
func (m *Mesh) triangle(t int) r3.Vec {
	p0 := vec(m.Positions[m.Indices[3*t]])
	p1 := vec(m.Positions[m.Indices[3*t+1]])
	p2 := vec(m.Positions[m.Indices[3*t+2]])
	return r3.Cross(r3.Sub(p1, p0), r3.Sub(p2, p0))
}

// Area returns the total surface area in float64.
func (m *Mesh) Area() float64 {
	var a float64
	for t := 0; t < m.TriangleCount(); t++ {
		a += 0.5 * r3.Norm(m.triangle(t))
	}
	return a
}

// AreaByFacing sums triangle areas by the dominant axis of each face normal.
func (m *Mesh) AreaByFacing() map[Facing]float64 {
	out := make(map[Facing]float64)
	for t := 0; t < m.TriangleCount(); t++ {
		n := m.triangle(t)
		area := 0.5 * r3.Norm(n)
		out[facing(n, area)] += area
	}
	return out
}

func facing(n r3.Vec, area float64) Facing {
	if area < 1e-12 {
		return FacingDegenerate
	}
	ax, ay, az := math.Abs(n.X), math.Abs(n.Y), math.Abs(n.Z)
	switch {
	case ax >= ay && ax >= az:
		if n.X > 0 {
			return FacingPosX
		}
		return FacingNegX
	case ay >= az:
		if n.Y > 0 {
			return FacingPosY
		}
		return FacingNegY
	default:
		if n.Z > 0 {
			return FacingPosZ
		}
		return FacingNegZ
	}
}

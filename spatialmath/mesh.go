package spatialmath

import (
	"math"

	"github.com/golang/geo/r3"
)

// Mesh is a set of triangles in world space.
type Mesh struct {
	triangles []*Triangle
}

// NewMesh creates a mesh from triangles. The slice is not copied.
func NewMesh(triangles []*Triangle) *Mesh {
	return &Mesh{triangles: triangles}
}

// Triangles returns the triangles of the mesh.
func (m *Mesh) Triangles() []*Triangle {
	return m.triangles
}

// Bounds returns the minimum and maximum corners of the axis aligned box around the mesh. It
// returns false for an empty mesh.
func (m *Mesh) Bounds() (r3.Vector, r3.Vector, bool) {
	if len(m.triangles) == 0 {
		return r3.Vector{}, r3.Vector{}, false
	}
	lo := r3.Vector{X: math.Inf(1), Y: math.Inf(1), Z: math.Inf(1)}
	hi := r3.Vector{X: math.Inf(-1), Y: math.Inf(-1), Z: math.Inf(-1)}
	for _, tri := range m.triangles {
		for _, pt := range tri.Points() {
			lo = r3.Vector{X: math.Min(lo.X, pt.X), Y: math.Min(lo.Y, pt.Y), Z: math.Min(lo.Z, pt.Z)}
			hi = r3.Vector{X: math.Max(hi.X, pt.X), Y: math.Max(hi.Y, pt.Y), Z: math.Max(hi.Z, pt.Z)}
		}
	}
	return lo, hi, true
}

// SurfaceArea sums the areas of all triangles.
func (m *Mesh) SurfaceArea() float64 {
	area := 0.
	for _, tri := range m.triangles {
		area += tri.Area()
	}
	return area
}

// Translate returns a new mesh moved by offset.
func (m *Mesh) Translate(offset r3.Vector) *Mesh {
	triangles := make([]*Triangle, 0, len(m.triangles))
	for _, tri := range m.triangles {
		triangles = append(triangles, tri.Translate(offset))
	}
	return NewMesh(triangles)
}

// ClosestPointToPoint returns the point on the mesh surface nearest to pt and its distance.
// It returns false for an empty mesh.
func (m *Mesh) ClosestPointToPoint(pt r3.Vector) (r3.Vector, float64, bool) {
	if len(m.triangles) == 0 {
		return r3.Vector{}, 0, false
	}
	best := r3.Vector{}
	bestDist := math.Inf(1)
	for _, tri := range m.triangles {
		candidate := tri.ClosestPointToPoint(pt)
		if dist := candidate.Sub(pt).Norm2(); dist < bestDist {
			best = candidate
			bestDist = dist
		}
	}
	return best, math.Sqrt(bestDist), true
}

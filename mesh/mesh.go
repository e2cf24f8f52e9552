// Package mesh turns collected octree nodes into vertex and index buffers for a
// rasterizing renderer. Every node becomes one cube.
package mesh

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/golang/geo/r3"

	"go.viam.com/svo/logging"
	"go.viam.com/svo/octree"
	"go.viam.com/svo/spatialmath"
	"go.viam.com/svo/utils"
)

// VertexSize is the size in bytes of one packed vertex: four position floats and two UV
// floats.
const VertexSize = 24

// Vertex is a single point of the vertex buffer. Pos carries w = 1.
type Vertex struct {
	Pos mgl32.Vec4
	UV  mgl32.Vec2
}

// Mesh holds the buffers for a set of cubes. The first VerticesPerCube vertices are the
// unit cube at the origin; cube k of the input occupies the vertices starting at
// VerticesPerCube*(k+1) and the indices starting at IndicesPerCube*k.
type Mesh struct {
	Vertices []Vertex
	Indices  []uint32
}

// FromEntries builds one cube per entry, scaled to the entry's span and centered on the
// node. Cubes are written concurrently; entries are only read.
func FromEntries(ctx context.Context, entries []octree.PosInfo) (*Mesh, error) {
	m := &Mesh{
		Vertices: make([]Vertex, VerticesPerCube*(len(entries)+1)),
		Indices:  make([]uint32, IndicesPerCube*len(entries)),
	}
	writeCube(m.Vertices[:VerticesPerCube], mgl32.Vec3{}, 1)

	err := utils.ParallelForEachRange(ctx, len(entries), func(ctx context.Context, from, to int) error {
		for k := from; k < to; k++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry := &entries[k]
			center := entry.Center()
			base := VerticesPerCube * (k + 1)
			writeCube(
				m.Vertices[base:base+VerticesPerCube],
				mgl32.Vec3{float32(center.X), float32(center.Y), float32(center.Z)},
				float32(entry.Span()),
			)
			indices := m.Indices[IndicesPerCube*k : IndicesPerCube*(k+1)]
			for i, idx := range baseIndices {
				indices[i] = idx + uint32(base)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	logging.Global().Debugw("built mesh", "cubes", len(entries), "vertices", len(m.Vertices))
	return m, nil
}

// CubeCount returns the number of cubes built from entries, not counting the template.
func (m *Mesh) CubeCount() int {
	return len(m.Indices) / IndicesPerCube
}

// Triangles returns the cube faces as world space triangles, two per face, in index order.
func (m *Mesh) Triangles() *spatialmath.Mesh {
	toR3 := func(v Vertex) r3.Vector {
		return r3.Vector{X: float64(v.Pos.X()), Y: float64(v.Pos.Y()), Z: float64(v.Pos.Z())}
	}
	triangles := make([]*spatialmath.Triangle, 0, len(m.Indices)/3)
	for i := 0; i+2 < len(m.Indices); i += 3 {
		triangles = append(triangles, spatialmath.NewTriangle(
			toR3(m.Vertices[m.Indices[i]]),
			toR3(m.Vertices[m.Indices[i+1]]),
			toR3(m.Vertices[m.Indices[i+2]]),
		))
	}
	return spatialmath.NewMesh(triangles)
}

// VertexBytes packs the vertex buffer as little endian float32s, position then UV.
func (m *Mesh) VertexBytes() []byte {
	out := make([]byte, 0, VertexSize*len(m.Vertices))
	for _, v := range m.Vertices {
		for _, f := range v.Pos {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
		for _, f := range v.UV {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(f))
		}
	}
	return out
}

// IndexBytes packs the index buffer as little endian uint32s.
func (m *Mesh) IndexBytes() []byte {
	out := make([]byte, 0, 4*len(m.Indices))
	for _, idx := range m.Indices {
		out = binary.LittleEndian.AppendUint32(out, idx)
	}
	return out
}

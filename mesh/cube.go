package mesh

import "github.com/go-gl/mathgl/mgl32"

const (
	// VerticesPerCube is the number of vertices in one cube, four per face so each face
	// gets its own UVs.
	VerticesPerCube = 24
	// IndicesPerCube is the number of indices in one cube, two triangles per face.
	IndicesPerCube = 36
)

// unitCube holds the corners of the cube centered at the origin with edge length 1, face
// by face: -z, +z, +x, -x, +y, -y.
var unitCube = [VerticesPerCube]mgl32.Vec3{
	{-0.5, 0.5, -0.5},
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, 0.5, -0.5},

	{-0.5, 0.5, 0.5},
	{-0.5, -0.5, 0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5},

	{0.5, 0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, -0.5, 0.5},
	{0.5, 0.5, 0.5},

	{-0.5, 0.5, -0.5},
	{-0.5, -0.5, -0.5},
	{-0.5, -0.5, 0.5},
	{-0.5, 0.5, 0.5},

	{-0.5, 0.5, 0.5},
	{-0.5, 0.5, -0.5},
	{0.5, 0.5, -0.5},
	{0.5, 0.5, 0.5},

	{-0.5, -0.5, 0.5},
	{-0.5, -0.5, -0.5},
	{0.5, -0.5, -0.5},
	{0.5, -0.5, 0.5},
}

// faceUVs repeats for every face.
var faceUVs = [4]mgl32.Vec2{{0, 0}, {0, 1}, {1, 1}, {1, 0}}

// faceIndices is the triangle list of one face relative to its first vertex.
var faceIndices = [6]uint32{0, 1, 3, 3, 1, 2}

// cubeIndices returns the triangle list of one cube relative to its first vertex.
func cubeIndices() [IndicesPerCube]uint32 {
	var out [IndicesPerCube]uint32
	for face := 0; face < 6; face++ {
		for i, idx := range faceIndices {
			out[face*6+i] = uint32(face*4) + idx
		}
	}
	return out
}

var baseIndices = cubeIndices()

// writeCube fills dst with the unit cube scaled by span and centered at center.
func writeCube(dst []Vertex, center mgl32.Vec3, span float32) {
	for i, corner := range unitCube {
		pos := center.Add(corner.Mul(span))
		dst[i] = Vertex{
			Pos: pos.Vec4(1),
			UV:  faceUVs[i%4],
		}
	}
}

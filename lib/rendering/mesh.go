package rendering

import (
	"github.com/fosdem/gltriangle/lib/rendering/glapi"
	"github.com/go-gl/mathgl/mgl32"
)

// PositionAttrib is the vertex shader input location for positions.
const PositionAttrib = 0

// Triangle is the object-space triangle gltriangle draws.
var Triangle = []mgl32.Vec3{
	{0, 0, 0},
	{1, 0, 0},
	{0, 1, 0},
}

// Mesh is an uploaded, non-indexed triangle list.
type Mesh struct {
	VAO         uint32
	VBO         uint32
	VertexCount int32
}

// Flatten packs vertices as contiguous xyz floats.
func Flatten(vertices []mgl32.Vec3) []float32 {
	data := make([]float32, 0, len(vertices)*3)
	for _, v := range vertices {
		data = append(data, v[0], v[1], v[2])
	}
	return data
}

// UploadMesh stores vertices in a new static buffer and describes it in a
// new vertex array: 3 floats per vertex at PositionAttrib, tightly packed.
// The vertex array stays bound.
func UploadMesh(api glapi.API, vertices []mgl32.Vec3) *Mesh {
	m := &Mesh{VertexCount: int32(len(vertices))}

	m.VAO = api.GenVertexArray()
	api.BindVertexArray(m.VAO)

	m.VBO = api.GenBuffer()
	api.BindArrayBuffer(m.VBO)
	api.StaticArrayBufferData(Flatten(vertices))

	// both calls below are recorded in the bound vertex array
	api.EnableVertexAttribArray(PositionAttrib)
	api.VertexAttribFloatPointer(PositionAttrib, 3, 0, 0)

	return m
}

func (m *Mesh) Release(api glapi.API) {
	if m == nil {
		return
	}
	api.DeleteBuffer(m.VBO)
	api.DeleteVertexArray(m.VAO)
	m.VAO, m.VBO, m.VertexCount = 0, 0, 0
}

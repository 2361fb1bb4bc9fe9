// Package glapi is the set of OpenGL calls gltriangle makes. The real
// implementation lives in package rendering; gltest has an in-memory one.
package glapi

type ShaderKind int

const (
	VertexShader ShaderKind = iota
	FragmentShader
)

func (k ShaderKind) String() string {
	switch k {
	case VertexShader:
		return "vertex"
	case FragmentShader:
		return "fragment"
	default:
		return "unknown"
	}
}

type API interface {
	CreateShader(kind ShaderKind) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderCompileStatus(shader uint32) bool
	ShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	LinkProgram(program uint32)
	ProgramLinkStatus(program uint32) bool
	ProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	GenBuffer() uint32
	BindArrayBuffer(vbo uint32)
	// StaticArrayBufferData uploads data to the bound array buffer with
	// static draw usage.
	StaticArrayBufferData(data []float32)
	DeleteBuffer(vbo uint32)
	EnableVertexAttribArray(index uint32)
	VertexAttribFloatPointer(index uint32, size, stride int32, offset uintptr)

	EnableDepthTest()
	ClearColor(r, g, b, a float32)
	// Clear clears both the colour and the depth buffer.
	Clear()
	DrawTriangles(first, count int32)

	Version() string
}

// Package gltest provides an in-memory glapi.API for tests that have no
// OpenGL context.
package gltest

import (
	"fmt"
	"strings"

	"github.com/fosdem/gltriangle/lib/rendering/glapi"
)

// SyntaxErrorLog is what the fake driver reports for a source that does
// not start with a #version directive.
const SyntaxErrorLog = "0:1(1): error: syntax error, unexpected IDENTIFIER"

type Shader struct {
	Kind     glapi.ShaderKind
	Source   string
	Compiled bool
	Log      string
	Deleted  bool
}

type Program struct {
	Attached []uint32
	Linked   bool
	Log      string
	Deleted  bool
}

// Fake records every call in Calls and keeps enough object state to
// answer status queries the way a driver would.
type Fake struct {
	Calls []string

	Shaders  map[uint32]*Shader
	Programs map[uint32]*Program
	Buffers  map[uint32][]float32

	// FailLink makes every link fail with this log when non-empty.
	FailLink string

	ClearColour  [4]float32
	DepthTest    bool
	BoundProgram uint32
	BoundVAO     uint32
	BoundVBO     uint32
	Attribs      map[uint32]Attrib
	Draws        int

	nextID uint32
}

type Attrib struct {
	Enabled bool
	Size    int32
	Stride  int32
	Offset  uintptr
}

var _ glapi.API = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Shaders:  map[uint32]*Shader{},
		Programs: map[uint32]*Program{},
		Buffers:  map[uint32][]float32{},
		Attribs:  map[uint32]Attrib{},
	}
}

func (f *Fake) record(format string, args ...any) {
	f.Calls = append(f.Calls, fmt.Sprintf(format, args...))
}

func (f *Fake) id() uint32 {
	f.nextID++
	return f.nextID
}

// DeletedShaders returns the ids of all shader objects marked deleted.
func (f *Fake) DeletedShaders() []uint32 {
	var ids []uint32
	for id, s := range f.Shaders {
		if s.Deleted {
			ids = append(ids, id)
		}
	}
	return ids
}

func (f *Fake) CreateShader(kind glapi.ShaderKind) uint32 {
	id := f.id()
	f.Shaders[id] = &Shader{Kind: kind}
	f.record("CreateShader(%s) = %d", kind, id)
	return id
}

func (f *Fake) ShaderSource(shader uint32, source string) {
	f.record("ShaderSource(%d)", shader)
	if s, ok := f.Shaders[shader]; ok {
		s.Source = source
	}
}

func (f *Fake) CompileShader(shader uint32) {
	f.record("CompileShader(%d)", shader)
	s, ok := f.Shaders[shader]
	if !ok {
		return
	}
	if strings.HasPrefix(strings.TrimSpace(s.Source), "#version") {
		s.Compiled = true
		s.Log = ""
	} else {
		s.Compiled = false
		s.Log = SyntaxErrorLog
	}
}

func (f *Fake) ShaderCompileStatus(shader uint32) bool {
	s, ok := f.Shaders[shader]
	return ok && s.Compiled
}

func (f *Fake) ShaderInfoLog(shader uint32) string {
	if s, ok := f.Shaders[shader]; ok {
		return s.Log
	}
	return ""
}

func (f *Fake) DeleteShader(shader uint32) {
	f.record("DeleteShader(%d)", shader)
	if s, ok := f.Shaders[shader]; ok {
		s.Deleted = true
	}
}

func (f *Fake) CreateProgram() uint32 {
	id := f.id()
	f.Programs[id] = &Program{}
	f.record("CreateProgram() = %d", id)
	return id
}

func (f *Fake) AttachShader(program, shader uint32) {
	f.record("AttachShader(%d, %d)", program, shader)
	if p, ok := f.Programs[program]; ok {
		p.Attached = append(p.Attached, shader)
	}
}

func (f *Fake) LinkProgram(program uint32) {
	f.record("LinkProgram(%d)", program)
	p, ok := f.Programs[program]
	if !ok {
		return
	}
	p.Linked, p.Log = true, ""
	if f.FailLink != "" {
		p.Linked, p.Log = false, f.FailLink
		return
	}
	for _, id := range p.Attached {
		if s := f.Shaders[id]; s == nil || !s.Compiled {
			p.Linked, p.Log = false, fmt.Sprintf("error: shader %d is not compiled", id)
			return
		}
	}
}

func (f *Fake) ProgramLinkStatus(program uint32) bool {
	p, ok := f.Programs[program]
	return ok && p.Linked
}

func (f *Fake) ProgramInfoLog(program uint32) string {
	if p, ok := f.Programs[program]; ok {
		return p.Log
	}
	return ""
}

func (f *Fake) UseProgram(program uint32) {
	f.record("UseProgram(%d)", program)
	f.BoundProgram = program
}

func (f *Fake) DeleteProgram(program uint32) {
	f.record("DeleteProgram(%d)", program)
	if p, ok := f.Programs[program]; ok {
		p.Deleted = true
	}
}

func (f *Fake) GenVertexArray() uint32 {
	id := f.id()
	f.record("GenVertexArray() = %d", id)
	return id
}

func (f *Fake) BindVertexArray(vao uint32) {
	f.record("BindVertexArray(%d)", vao)
	f.BoundVAO = vao
}

func (f *Fake) DeleteVertexArray(vao uint32) {
	f.record("DeleteVertexArray(%d)", vao)
}

func (f *Fake) GenBuffer() uint32 {
	id := f.id()
	f.record("GenBuffer() = %d", id)
	return id
}

func (f *Fake) BindArrayBuffer(vbo uint32) {
	f.record("BindArrayBuffer(%d)", vbo)
	f.BoundVBO = vbo
}

func (f *Fake) StaticArrayBufferData(data []float32) {
	f.record("StaticArrayBufferData(%d floats)", len(data))
	f.Buffers[f.BoundVBO] = append([]float32(nil), data...)
}

func (f *Fake) DeleteBuffer(vbo uint32) {
	f.record("DeleteBuffer(%d)", vbo)
	delete(f.Buffers, vbo)
}

func (f *Fake) EnableVertexAttribArray(index uint32) {
	f.record("EnableVertexAttribArray(%d)", index)
	a := f.Attribs[index]
	a.Enabled = true
	f.Attribs[index] = a
}

func (f *Fake) VertexAttribFloatPointer(index uint32, size, stride int32, offset uintptr) {
	f.record("VertexAttribFloatPointer(%d, %d, %d, %d)", index, size, stride, offset)
	a := f.Attribs[index]
	a.Size, a.Stride, a.Offset = size, stride, offset
	f.Attribs[index] = a
}

func (f *Fake) EnableDepthTest() {
	f.record("EnableDepthTest()")
	f.DepthTest = true
}

func (f *Fake) ClearColor(r, g, b, a float32) {
	f.record("ClearColor(%g, %g, %g, %g)", r, g, b, a)
	f.ClearColour = [4]float32{r, g, b, a}
}

func (f *Fake) Clear() {
	f.record("Clear()")
}

func (f *Fake) DrawTriangles(first, count int32) {
	f.record("DrawTriangles(%d, %d)", first, count)
	f.Draws++
}

func (f *Fake) Version() string {
	return "3.3 (gltest)"
}

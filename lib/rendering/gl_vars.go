package rendering

import (
	"fmt"

	"github.com/fosdem/gltriangle/lib/metrics"
	"github.com/fosdem/gltriangle/lib/rendering/glapi"
	"github.com/fosdem/gltriangle/lib/utils"
)

// GLVars is the GPU state of one window: the program, the mesh and what
// gets done to them every frame.
type GLVars struct {
	api glapi.API

	Program  uint32
	Mesh     *Mesh
	BGColour utils.Colour

	// Draw toggles the draw call; without it every frame is just cleared.
	Draw bool
}

func NewGLVars(api glapi.API, program uint32, mesh *Mesh, bgColour utils.Colour, draw bool) *GLVars {
	g := &GLVars{}

	g.api = api
	g.Program = program
	g.Mesh = mesh
	g.BGColour = bgColour
	g.Draw = draw

	return g
}

func (g *GLVars) Start() {
	g.api.EnableDepthTest()
	g.api.ClearColor(g.BGColour.R, g.BGColour.G, g.BGColour.B, g.BGColour.A)
	g.api.UseProgram(g.Program)
	if g.Mesh != nil {
		g.api.BindVertexArray(g.Mesh.VAO)
	}
}

// Frame clears colour and depth, then draws the mesh if drawing is on and
// there is a usable program.
func (g *GLVars) Frame() {
	g.api.Clear()

	if !g.Draw || g.Program == 0 || g.Mesh == nil || g.Mesh.VertexCount == 0 {
		return
	}
	g.api.DrawTriangles(0, g.Mesh.VertexCount)
	metrics.DrawCalls.Inc()
}

// SetProgram binds a freshly linked program and deletes the old one.
func (g *GLVars) SetProgram(program uint32) error {
	if program == 0 {
		return fmt.Errorf("refusing to bind program 0")
	}
	old := g.Program
	g.Program = program
	g.api.UseProgram(program)
	if old != 0 && old != program {
		g.api.DeleteProgram(old)
	}
	return nil
}

func (g *GLVars) Release() {
	g.api.UseProgram(0)
	if g.Program != 0 {
		g.api.DeleteProgram(g.Program)
		g.Program = 0
	}
	g.Mesh.Release(g.api)
}

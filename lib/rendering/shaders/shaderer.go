package shaders

import (
	"bytes"
	"embed"
	"fmt"
	"strconv"
	"text/template"

	"github.com/fosdem/gltriangle/lib/rendering/glapi"
	"github.com/fosdem/gltriangle/lib/utils"
)

//go:embed *.frag *.vert
var templateDir embed.FS

const (
	defaultVertex   = "default.vert"
	defaultFragment = "default.frag"
)

// Shaderer renders the built-in shader templates.
type Shaderer struct {
	templates *template.Template
}

func NewShaderer() (*Shaderer, error) {
	s := &Shaderer{}

	var err error

	s.templates, err = template.New("").Funcs(template.FuncMap{
		"glfloat": func(v float32) string {
			return strconv.FormatFloat(float64(v), 'f', 4, 32)
		},
	}).ParseFS(templateDir, "*.frag", "*.vert")

	return s, err
}

// ShaderData contains stuff that gets passed to the shader
type ShaderData struct {
	GLSLVersion    string
	TriangleColour utils.Colour
}

func DefaultShaderData() *ShaderData {
	return &ShaderData{
		GLSLVersion:    "330 core",
		TriangleColour: utils.Colour{R: 1, G: 0.5, B: 0.2, A: 1},
	}
}

func (s *Shaderer) GetShaderSource(name string, data *ShaderData) (string, error) {
	var b bytes.Buffer
	err := s.templates.ExecuteTemplate(&b, name, data)
	if err != nil {
		return "", fmt.Errorf("error while rendering template: %s", err)
	}

	return b.String(), nil
}

func (s *Shaderer) Sources(data *ShaderData) (Sources, error) {
	var src Sources
	var err error
	src.Vertex, err = s.GetShaderSource(defaultVertex, data)
	if err != nil {
		return Sources{}, fmt.Errorf("could not get vertex shader: %w", err)
	}
	src.Fragment, err = s.GetShaderSource(defaultFragment, data)
	if err != nil {
		return Sources{}, fmt.Errorf("could not get fragment shader: %w", err)
	}
	return src, nil
}

func (s *Shaderer) TemplateNames() []string {
	var names []string
	for _, t := range s.templates.Templates() {
		if t.Name() == "" {
			continue
		}
		names = append(names, t.Name())
	}
	return names
}

// BuildDefault links the built-in shaders.
func BuildDefault(api glapi.API, data *ShaderData) (uint32, error) {
	shaderer, err := NewShaderer()
	if err != nil {
		return 0, fmt.Errorf("could not get shaders: %w", err)
	}
	src, err := shaderer.Sources(data)
	if err != nil {
		return 0, err
	}
	return NewProgram(api, src.Vertex, src.Fragment)
}

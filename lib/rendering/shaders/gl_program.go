package shaders

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/fosdem/gltriangle/lib/log"
	"github.com/fosdem/gltriangle/lib/metrics"
	"github.com/fosdem/gltriangle/lib/rendering/glapi"
)

// Sources is a vertex+fragment shader pair.
type Sources struct {
	Vertex   string
	Fragment string
}

func logger() *slog.Logger {
	return log.Module("shaders")
}

// BuildFromFiles reads both shader files and links them into a program.
// Nothing is created on the GPU when a file cannot be read.
func BuildFromFiles(api glapi.API, vertexPath, fragmentPath string) (uint32, error) {
	src, err := LoadSources(vertexPath, fragmentPath)
	if err != nil {
		metrics.ShaderBuilds.WithLabelValues(metrics.ResultReadError).Inc()
		return 0, err
	}
	return NewProgram(api, src.Vertex, src.Fragment)
}

func LoadSources(vertexPath, fragmentPath string) (Sources, error) {
	var src Sources
	var err error
	src.Vertex, err = readSource(vertexPath)
	if err != nil {
		return Sources{}, err
	}
	src.Fragment, err = readSource(fragmentPath)
	if err != nil {
		return Sources{}, err
	}
	return src, nil
}

func readSource(path string) (string, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		ferr := &FileError{Path: path, Err: err}
		logger().Error(ferr.Diagnostic())
		return "", ferr
	}
	return string(b), nil
}

// NewProgram compiles both stages and links them. The shader objects are
// deleted once linking has been attempted; a program that failed to link
// is deleted as well and reported as a *LinkError.
func NewProgram(api glapi.API, vertexShaderSource, fragmentShaderSource string) (uint32, error) {
	vertexShader, err := CompileShader(api, vertexShaderSource, glapi.VertexShader)
	if err != nil {
		metrics.ShaderBuilds.WithLabelValues(metrics.ResultCompileError).Inc()
		return 0, err
	}

	fragmentShader, err := CompileShader(api, fragmentShaderSource, glapi.FragmentShader)
	if err != nil {
		api.DeleteShader(vertexShader)
		metrics.ShaderBuilds.WithLabelValues(metrics.ResultCompileError).Inc()
		return 0, err
	}

	program := api.CreateProgram()

	api.AttachShader(program, vertexShader)
	api.AttachShader(program, fragmentShader)
	api.LinkProgram(program)

	api.DeleteShader(vertexShader)
	api.DeleteShader(fragmentShader)

	if !api.ProgramLinkStatus(program) {
		lerr := &LinkError{Program: program, Log: api.ProgramInfoLog(program)}
		logger().Error(lerr.Diagnostic())
		api.DeleteProgram(program)
		metrics.ShaderBuilds.WithLabelValues(metrics.ResultLinkError).Inc()
		return 0, lerr
	}

	metrics.ShaderBuilds.WithLabelValues(metrics.ResultOK).Inc()
	logger().Debug(fmt.Sprintf("linked program %d", program))
	return program, nil
}

// CompileShader compiles a single stage. On failure the shader object is
// deleted and a *CompileError carrying the source and driver log is
// returned.
func CompileShader(api glapi.API, source string, kind glapi.ShaderKind) (uint32, error) {
	shader := api.CreateShader(kind)
	if shader == 0 {
		return 0, errors.New("could not create shader object")
	}

	api.ShaderSource(shader, source)
	api.CompileShader(shader)

	if !api.ShaderCompileStatus(shader) {
		cerr := &CompileError{Kind: kind, Source: source, Log: api.ShaderInfoLog(shader)}
		logger().Error(cerr.Diagnostic())
		api.DeleteShader(shader)
		return 0, cerr
	}

	return shader, nil
}

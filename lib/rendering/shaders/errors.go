package shaders

import (
	"fmt"
	"strings"

	"github.com/fosdem/gltriangle/lib/rendering/glapi"
)

var (
	rule      = strings.Repeat("-", 25)
	shortRule = strings.Repeat("-", 5)
)

type CompileError struct {
	Kind   glapi.ShaderKind
	Source string
	Log    string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Kind, strings.TrimSpace(e.Log))
}

// Diagnostic is the block logged when compilation fails: the offending
// source followed by the driver log.
func (e *CompileError) Diagnostic() string {
	return fmt.Sprintf("%s\nError compiling %s shader:\n%s\n%s\n%s\n%s",
		rule, e.Kind, strings.TrimRight(e.Source, "\n"), shortRule, strings.TrimSpace(e.Log), rule)
}

type LinkError struct {
	Program uint32
	Log     string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program %d: %s", e.Program, strings.TrimSpace(e.Log))
}

func (e *LinkError) Diagnostic() string {
	return fmt.Sprintf("%s\nError linking program:\n%s\n%s", rule, strings.TrimSpace(e.Log), rule)
}

type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("could not read shader %s: %s", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func (e *FileError) Diagnostic() string {
	return fmt.Sprintf("%s\nError reading file:\n%s\n%s", rule, e.Path, rule)
}

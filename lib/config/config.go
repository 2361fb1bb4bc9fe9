package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fosdem/gltriangle/lib/utils"
	yaml "github.com/goccy/go-yaml"
)

type Config struct {
	Window   WindowCfg
	Render   RenderCfg
	Shaders  ShadersCfg
	Api      *ApiCfg
	LogLevel string `yaml:"log_level"`
}

type WindowCfg struct {
	Title        string
	Width        int
	Height       int
	SwapInterval int   `yaml:"swap_interval"`
	Visible      *bool `yaml:"visible"`
}

type RenderCfg struct {
	ClearColour string `yaml:"clear_colour"`
	Draw        bool
	MaxFrames   uint64 `yaml:"max_frames"`
}

type ShadersCfg struct {
	Vertex   CfgPath
	Fragment CfgPath
	Watch    bool
}

type ApiCfg struct {
	Bind string
}

// Default reproduces the stock demo: an 800x800 window drawing one
// triangle from shader.vert and shader.frag in the working directory.
func Default() *Config {
	return &Config{
		Window: WindowCfg{
			Title:        "OpenGL",
			Width:        800,
			Height:       800,
			SwapInterval: 1,
		},
		Render: RenderCfg{
			ClearColour: "#4c6633ff",
			Draw:        true,
		},
		Shaders: ShadersCfg{
			Vertex:   "shader.vert",
			Fragment: "shader.frag",
		},
		LogLevel: "info",
	}
}

func Parse(filename string) (*Config, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("could not open %s: %s", filename, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	absFilename, err := filepath.Abs(filename)
	if err != nil {
		return nil, fmt.Errorf("somehow, %s is malformed: %w", filename, err)
	}
	UnmarshalBase = filepath.Dir(absFilename)

	m := yaml.NewDecoder(f)
	cfg := Default()
	// shader files left out of the config sit next to it
	cfg.Shaders.Vertex = cfg.Shaders.Vertex.relativeTo(UnmarshalBase)
	cfg.Shaders.Fragment = cfg.Shaders.Fragment.relativeTo(UnmarshalBase)
	err = m.Decode(cfg)
	if err != nil {
		return nil, err
	}
	err = cfg.Validate()
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	if err := c.Window.Validate(); err != nil {
		return fmt.Errorf("window config is invalid: %w", err)
	}
	if err := c.Render.Validate(); err != nil {
		return fmt.Errorf("render config is invalid: %w", err)
	}
	if err := c.Shaders.Validate(); err != nil {
		return fmt.Errorf("shader config is invalid: %w", err)
	}
	if c.Api != nil {
		if err := c.Api.Validate(); err != nil {
			return fmt.Errorf("api config is invalid: %w", err)
		}
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log_level %s", c.LogLevel)
	}
	return nil
}

func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Window:\n")
	b.WriteString(fmt.Sprintf("  %s (%dx%d, swap interval %d)\n", c.Window.Title, c.Window.Width, c.Window.Height, c.Window.SwapInterval))

	b.WriteString("\nRender:\n")
	b.WriteString(fmt.Sprintf("  clear colour %s, draw %t\n", c.Render.ClearColour, c.Render.Draw))
	if c.Render.MaxFrames > 0 {
		b.WriteString(fmt.Sprintf("  stop after %d frames\n", c.Render.MaxFrames))
	}

	b.WriteString("\nShaders:\n")
	if c.Shaders.UseDefaults() {
		b.WriteString("  built-in\n")
	} else {
		b.WriteString(fmt.Sprintf("  vertex %s\n  fragment %s\n", c.Shaders.Vertex, c.Shaders.Fragment))
		if c.Shaders.Watch {
			b.WriteString("  reloaded on change\n")
		}
	}

	if c.Api != nil {
		b.WriteString(fmt.Sprintf("\nApi:\n  %s\n", c.Api.Bind))
	}

	return b.String()
}

func (w *WindowCfg) Validate() error {
	if w.Width <= 0 || w.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", w.Width, w.Height)
	}
	if w.SwapInterval < 0 {
		return fmt.Errorf("swap_interval must be nonnegative")
	}
	return nil
}

func (w *WindowCfg) IsVisible() bool {
	return w.Visible == nil || *w.Visible
}

func (r *RenderCfg) Validate() error {
	if r.ClearColour == "" {
		return fmt.Errorf("please set clear_colour in the config")
	}
	if !utils.ColourValidate(r.ClearColour) {
		return fmt.Errorf("%s is not a valid RGBA hex colour", r.ClearColour)
	}
	return nil
}

// Colour returns the parsed clear colour. Validate must have passed.
func (r *RenderCfg) Colour() utils.Colour {
	c, _ := utils.ColourParse(r.ClearColour)
	return c
}

func (s *ShadersCfg) Validate() error {
	if (s.Vertex == "") != (s.Fragment == "") {
		return fmt.Errorf("vertex and fragment shaders must both be set, or both be left empty")
	}
	if s.Watch && s.UseDefaults() {
		return fmt.Errorf("cannot watch built-in shaders")
	}
	return nil
}

// UseDefaults reports whether the embedded shaders should be used
// instead of files.
func (s *ShadersCfg) UseDefaults() bool {
	return s.Vertex == "" && s.Fragment == ""
}

func (a *ApiCfg) Validate() error {
	if a.Bind == "" {
		return fmt.Errorf("api bind address must be specified")
	}
	return nil
}

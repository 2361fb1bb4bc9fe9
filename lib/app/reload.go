package app

import (
	"fmt"

	"github.com/fosdem/gltriangle/lib/config"
	"github.com/fosdem/gltriangle/lib/rendering"
	"github.com/fosdem/gltriangle/lib/rendering/glapi"
	"github.com/fosdem/gltriangle/lib/rendering/shaders"
	"github.com/fosdem/gltriangle/lib/stats"
)

func buildProgram(api glapi.API, cfg *config.ShadersCfg) (uint32, error) {
	if cfg.UseDefaults() {
		return shaders.BuildDefault(api, shaders.DefaultShaderData())
	}
	return shaders.BuildFromFiles(api, string(cfg.Vertex), string(cfg.Fragment))
}

// shaderReloader rebuilds the program whenever one of the shader files
// changes. A rebuild that fails leaves the running program alone.
type shaderReloader struct {
	api     glapi.API
	shaders *config.ShadersCfg
	changes <-chan string
	vars    *rendering.GLVars
	stats   *stats.Stats
}

// poll handles at most one pending change without blocking and reports
// whether a new program went live.
func (r *shaderReloader) poll() bool {
	select {
	case path := <-r.changes:
		logger().Info(fmt.Sprintf("reloading shaders, %s changed", path))
		program, err := buildProgram(r.api, r.shaders)
		if err != nil {
			logger().Warn(fmt.Sprintf("keeping previous program: %s", err))
			return false
		}
		if err := r.vars.SetProgram(program); err != nil {
			logger().Error(err.Error())
			return false
		}
		r.stats.ShaderReloaded()
		return true
	default:
		return false
	}
}

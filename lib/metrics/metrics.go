package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	ResultOK           = "ok"
	ResultCompileError = "compile_error"
	ResultLinkError    = "link_error"
	ResultReadError    = "read_error"
)

var (
	FramesRendered = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gltriangle_frames_rendered_total",
		Help: "Total number of frames cleared and presented",
	})
	DrawCalls = promauto.NewCounter(prometheus.CounterOpts{
		Name: "gltriangle_draw_calls_total",
		Help: "Total number of draw calls issued",
	})
	ShaderBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "gltriangle_shader_builds_total",
		Help: "Shader program builds by result",
	}, []string{"result"})
	FrameSeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "gltriangle_frame_seconds",
		Help:    "Time between two presented frames",
		Buckets: []float64{0.001, 0.004, 0.008, 0.0167, 0.025, 0.0333, 0.05, 0.1, 0.25},
	})
)

func init() {
	for _, r := range []string{ResultOK, ResultCompileError, ResultLinkError, ResultReadError} {
		ShaderBuilds.WithLabelValues(r).Add(0)
	}
}

// Handler should usually be mounted at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}

package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	httpSwagger "github.com/swaggo/http-swagger"

	_ "github.com/fosdem/gltriangle/lib/api/docs"
	"github.com/fosdem/gltriangle/lib/config"
	"github.com/fosdem/gltriangle/lib/log"
	"github.com/fosdem/gltriangle/lib/metrics"
	"github.com/fosdem/gltriangle/lib/stats"
)

// Controller is the part of the running application the API can poke.
type Controller interface {
	RequestShutdown()
}

type Api struct {
	srv  http.Server
	mux  *http.ServeMux
	cfg  *config.Config
	ctrl Controller

	Stats *stats.Stats

	wsMutex   sync.Mutex
	wsClients map[*websocket.Conn]bool
}

func logger() *slog.Logger {
	return log.Module("api")
}

func New(cfg *config.Config, ctrl Controller, st *stats.Stats) *Api {
	a := &Api{}
	a.cfg = cfg
	a.ctrl = ctrl
	a.mux = http.NewServeMux()
	if cfg.Api != nil {
		a.srv.Addr = cfg.Api.Bind
	}
	a.srv.Handler = a.mux
	a.wsClients = make(map[*websocket.Conn]bool)
	a.Stats = st

	a.mux.HandleFunc("POST /api/kill", a.suicide)
	a.mux.HandleFunc("GET /api/stats", a.getStats)
	a.mux.HandleFunc("GET /api/config", a.handleConfig)
	a.mux.HandleFunc("GET /api/ws", a.handleWebsocket)
	a.mux.Handle("GET /metrics", metrics.Handler())
	a.mux.Handle("GET /swagger/", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))
	return a
}

func (a *Api) Handler() http.Handler {
	return a.mux
}

// Serve blocks until the server is shut down.
func (a *Api) Serve(l net.Listener) error {
	err := a.srv.Serve(l)
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

func (a *Api) Shutdown(ctx context.Context) error {
	a.wsMutex.Lock()
	for ws := range a.wsClients {
		_ = ws.Close()
	}
	a.wsMutex.Unlock()
	return a.srv.Shutdown(ctx)
}

// @Summary	Stop rendering and exit
// @Router		/api/kill [post]
// @Tags		base
// @Success	200
func (a *Api) suicide(w http.ResponseWriter, _ *http.Request) {
	logger().Info("shutting down as per api request")
	a.ctrl.RequestShutdown()
	_, err := fmt.Fprintf(w, "\"ok\"\n")
	if err != nil {
		logger().Error(fmt.Sprintf("could not write response: %s", err))
		return
	}
}

// @Summary	Render statistics
// @Router		/api/stats [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	stats.Snapshot
func (a *Api) getStats(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(a.Stats.Snapshot())
	if err != nil {
		http.Error(w, fmt.Sprintf("could encode stats: %s", err), http.StatusInternalServerError)
		return
	}
}

type Config struct {
	Title        string `json:"title" example:"OpenGL"`
	Width        int    `json:"width" example:"800"`
	Height       int    `json:"height" example:"800"`
	SwapInterval int    `json:"swap_interval" example:"1"`
	ClearColour  string `json:"clear_colour" example:"#4c6633ff"`
	Draw         bool   `json:"draw"`
	Vertex       string `json:"vertex,omitempty" example:"shader.vert"`
	Fragment     string `json:"fragment,omitempty" example:"shader.frag"`
	Watch        bool   `json:"watch"`
}

// @Summary	Active configuration
// @Router		/api/config [get]
// @Tags		base
// @Produce	json
// @Success	200	{object}	Config
func (a *Api) handleConfig(w http.ResponseWriter, _ *http.Request) {
	result := &Config{
		Title:        a.cfg.Window.Title,
		Width:        a.cfg.Window.Width,
		Height:       a.cfg.Window.Height,
		SwapInterval: a.cfg.Window.SwapInterval,
		ClearColour:  a.cfg.Render.ClearColour,
		Draw:         a.cfg.Render.Draw,
		Vertex:       string(a.cfg.Shaders.Vertex),
		Fragment:     string(a.cfg.Shaders.Fragment),
		Watch:        a.cfg.Shaders.Watch,
	}
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(result)
	if err != nil {
		http.Error(w, fmt.Sprintf("couldn't encode config: %s", err), http.StatusInternalServerError)
		return
	}
}

// ServeInBackground starts the API when the config asks for one.
// It returns nil otherwise.
func ServeInBackground(cfg *config.Config, ctrl Controller, st *stats.Stats) (*Api, error) {
	if cfg.Api == nil {
		return nil, nil
	}
	theApi := New(cfg, ctrl, st)

	l, err := net.Listen("tcp", cfg.Api.Bind)
	if err != nil {
		return nil, fmt.Errorf("could not start web server: %w", err)
	}
	logger().Info(fmt.Sprintf("starting web server on %s", l.Addr()))
	go func() {
		err := theApi.Serve(l)
		if err != nil {
			logger().Error(fmt.Sprintf("web server stopped: %s", err))
		}
	}()
	return theApi, nil
}

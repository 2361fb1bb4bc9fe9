// @title			gltriangle API
// @version		1.0
// @description	Inspect and stop a running gltriangle renderer
// @BasePath		/
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"runtime"

	"github.com/spf13/cobra"
	"golang.org/x/sys/unix"

	"github.com/fosdem/gltriangle/lib/app"
	"github.com/fosdem/gltriangle/lib/config"
	gllog "github.com/fosdem/gltriangle/lib/log"
)

func init() {
	// The OpenGL stuff must be in one thread
	runtime.LockOSThread()
}

type options struct {
	configFile string
	noDraw     bool
	frames     uint64
	logLevel   string
}

func loadConfig(opts *options, cmd *cobra.Command) (*config.Config, error) {
	cfg := config.Default()
	if opts.configFile != "" {
		var err error
		cfg, err = config.Parse(opts.configFile)
		if err != nil {
			return nil, err
		}
	}
	if opts.noDraw {
		cfg.Render.Draw = false
	}
	if cmd.Flags().Changed("frames") {
		cfg.Render.MaxFrames = opts.frames
	}
	if opts.logLevel != "" {
		cfg.LogLevel = opts.logLevel
	}
	return cfg, cfg.Validate()
}

func newRootCmd() *cobra.Command {
	opts := &options{}
	cmd := &cobra.Command{
		Use:           "gltriangle",
		Short:         "Open an OpenGL 3.3 window and draw a triangle",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(opts, cmd)
			if err != nil {
				return err
			}
			if err := gllog.SetupDefault(cfg.LogLevel, os.Stdout); err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, unix.SIGTERM)
			defer stop()
			return app.MakeWindowAndRender(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&opts.configFile, "config", "c", "", "YAML config file (defaults to the built-in demo config)")
	cmd.Flags().BoolVar(&opts.noDraw, "no-draw", false, "only clear the window, never issue the draw call")
	cmd.Flags().Uint64Var(&opts.frames, "frames", 0, "stop after this many frames (0 renders until closed)")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error")
	return cmd
}

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		log.Fatal(err)
	}
}

package rendering

import (
	"fmt"
	"log/slog"

	"github.com/fosdem/gltriangle/lib/log"
	"github.com/go-gl/gl/v3.3-core/gl"
)

func logger() *slog.Logger {
	return log.Module("rendering")
}

// Init loads the OpenGL function pointers for the current context.
func Init() error {
	err := gl.Init()
	if err != nil {
		return fmt.Errorf("could not initialise OpenGL context: %w", err)
	}

	logger().Info(fmt.Sprintf("OpenGL: %s", GL{}.Version()))

	return nil
}

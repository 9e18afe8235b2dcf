package render

import (
	"fmt"

	"github.com/charmbracelet/log"
)

// Events receives rendering lifecycle notifications.
type Events interface {
	RenderingStarted(u Update)
	RenderingFinished(u Update, f Frame)
	RenderingFailed(u Update, err error)
}

// LogEvents writes lifecycle notifications to a logger.
type LogEvents struct {
	Logger *log.Logger
}

func (e LogEvents) RenderingStarted(u Update) {
	e.Logger.Debug("rendering started", "width", u.View.Viewport.Width, "height", u.View.Viewport.Height)
}

func (e LogEvents) RenderingFinished(_ Update, f Frame) {
	e.Logger.Debug("rendering finished", "rows", f.Rows, "routes", len(f.Routes), "primitives", len(f.Primitives))
}

func (e LogEvents) RenderingFailed(_ Update, err error) {
	e.Logger.Error("rendering failed", "err", err)
}

// Error is returned by Render when a frame could not be computed. The
// previous frame stays valid.
type Error struct {
	// Panic holds the recovered value when the failure was a panic.
	Panic any
	Err   error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return "render: " + e.Err.Error()
	}
	return fmt.Sprintf("render: panic: %v", e.Panic)
}

func (e *Error) Unwrap() error { return e.Err }

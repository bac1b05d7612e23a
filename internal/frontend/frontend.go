// Package frontend runs a game in a terminal, drawn with half blocks through
// ultraviolet or tcell. Package window runs it in an ebiten window.
package frontend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/taigrr/gridcast/internal/game"
	"github.com/taigrr/gridcast/pkg/player"
	"github.com/taigrr/gridcast/pkg/render"
)

// Game is what a frontend drives. *game.Game implements it.
type Game interface {
	Resize(width, height int)
	Update(in player.Input, dt time.Duration)
	Draw() *render.Framebuffer
	Status() []string
	Command(c game.Command)
}

// Kind selects a frontend.
type Kind int

const (
	Terminal Kind = iota
	Tcell
	Window
)

func (k Kind) String() string {
	switch k {
	case Terminal:
		return "terminal"
	case Tcell:
		return "tcell"
	case Window:
		return "window"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind converts a frontend name given on the command line.
func ParseKind(s string) (Kind, error) {
	for _, k := range []Kind{Terminal, Tcell, Window} {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown frontend %q (use terminal, tcell or window)", s)
}

// Options configures a frontend. Terminals only use FPS.
type Options struct {
	FPS int

	// Window size in framebuffer pixels and the window pixels per
	// framebuffer pixel. Terminals size themselves.
	Width, Height int
	Scale         int
	Title         string
}

// DefaultOptions returns 30 frames per second and a 320x200 window at
// three times scale.
func DefaultOptions() Options {
	return Options{FPS: 30, Width: 320, Height: 200, Scale: 3, Title: "gridcast"}
}

// ErrQuit ends a frame loop without an error.
var ErrQuit = errors.New("quit")

// maxFrameTime caps dt after stalls so the player does not jump.
const maxFrameTime = 100 * time.Millisecond

// Run drives g on the terminal frontend k until the user quits or ctx is
// done.
func Run(ctx context.Context, k Kind, g Game, opts Options) error {
	if opts.FPS <= 0 {
		opts.FPS = DefaultOptions().FPS
	}

	var err error
	switch k {
	case Terminal:
		err = runTerminal(ctx, g, opts)
	case Tcell:
		err = runTcell(ctx, g, opts)
	default:
		err = fmt.Errorf("%v is not a terminal frontend", k)
	}
	if errors.Is(err, ErrQuit) || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// frameClock measures the time between frames.
type frameClock struct {
	last time.Time
}

func (c *frameClock) tick(now time.Time) time.Duration {
	if c.last.IsZero() {
		c.last = now
	}
	dt := min(now.Sub(c.last), maxFrameTime)
	c.last = now
	return dt
}

// HandleCommandKey runs the command bound to key name, if any, and reports
// whether there was one. Names follow ultraviolet's Key.String.
func HandleCommandKey(g Game, name string) bool {
	c, ok := commandKeys[name]
	if ok {
		g.Command(c)
	}
	return ok
}

// handleKey applies a key press named name. It returns ErrQuit for the
// quit keys.
func handleKey(g Game, keys *keyState, name string, now time.Time) error {
	if isQuitKey(name) {
		return ErrQuit
	}
	if keys.press(name, now) {
		return nil
	}
	HandleCommandKey(g, name)
	return nil
}

// Package window runs a game in a desktop window through ebiten.
package window

import (
	"context"
	"errors"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/taigrr/gridcast/internal/frontend"
	"github.com/taigrr/gridcast/pkg/player"
	"github.com/taigrr/gridcast/pkg/render"
)

var (
	hudText = render.ColorWhite
	hudBack = render.RGBA(0, 0, 0, 160)
)

// commandKeys maps window keys to the names frontend binds commands to.
var commandKeys = map[ebiten.Key]string{
	ebiten.KeyM:     "m",
	ebiten.KeyH:     "h",
	ebiten.KeySlash: "?",
	ebiten.KeyTab:   "tab",
	ebiten.KeyX:     "x",
	ebiten.KeyN:     "n",
}

// window implements ebiten.Game.
type window struct {
	ctx    context.Context
	g      frontend.Game
	dt     time.Duration
	width  int
	height int

	pixels []byte

	dragging     bool
	lastX, lastY int
}

// Run opens a window of opts.Width x opts.Height framebuffer pixels scaled
// by opts.Scale and plays g until the window closes, Escape is pressed or
// ctx is done.
func Run(ctx context.Context, g frontend.Game, opts frontend.Options) error {
	def := frontend.DefaultOptions()
	if opts.FPS <= 0 {
		opts.FPS = def.FPS
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		opts.Width, opts.Height = def.Width, def.Height
	}
	opts.Scale = max(opts.Scale, 1)

	w := &window{
		ctx:    ctx,
		g:      g,
		dt:     time.Second / time.Duration(opts.FPS),
		width:  opts.Width,
		height: opts.Height,
	}
	g.Resize(w.width, w.height)

	ebiten.SetWindowSize(opts.Width*opts.Scale, opts.Height*opts.Scale)
	ebiten.SetWindowTitle(opts.Title)
	ebiten.SetTPS(opts.FPS)

	err := ebiten.RunGame(w)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}

func (w *window) Update() error {
	if w.ctx.Err() != nil || ebiten.IsKeyPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}

	for key, name := range commandKeys {
		if inpututil.IsKeyJustPressed(key) {
			frontend.HandleCommandKey(w.g, name)
		}
	}

	in := player.Input{
		Forward:     pressed(ebiten.KeyW, ebiten.KeyArrowUp),
		Back:        pressed(ebiten.KeyS, ebiten.KeyArrowDown),
		TurnLeft:    pressed(ebiten.KeyA, ebiten.KeyArrowLeft),
		TurnRight:   pressed(ebiten.KeyD, ebiten.KeyArrowRight),
		StrafeLeft:  pressed(ebiten.KeyQ),
		StrafeRight: pressed(ebiten.KeyE),
		Jump:        pressed(ebiten.KeySpace),
		LookUp:      pressed(ebiten.KeyR, ebiten.KeyPageUp),
		LookDown:    pressed(ebiten.KeyF, ebiten.KeyPageDown),
	}

	// drag to look, in framebuffer pixels
	x, y := ebiten.CursorPosition()
	if ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		if w.dragging {
			in.MouseX = x - w.lastX
			in.MouseY = y - w.lastY
		}
		w.dragging = true
	} else {
		w.dragging = false
	}
	w.lastX, w.lastY = x, y

	w.g.Update(in, w.dt)
	fb := w.g.Draw()
	render.DrawTextBox(fb, 2, 2, w.g.Status(), hudText, hudBack)
	w.pixels = fb.RGBABytes(w.pixels)
	return nil
}

func pressed(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if ebiten.IsKeyPressed(k) {
			return true
		}
	}
	return false
}

func (w *window) Draw(screen *ebiten.Image) {
	if len(w.pixels) == w.width*w.height*4 {
		screen.WritePixels(w.pixels)
	}
}

func (w *window) Layout(outsideWidth, outsideHeight int) (int, int) {
	return w.width, w.height
}

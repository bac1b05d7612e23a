package frontend

import (
	"context"
	"fmt"
	"time"

	"github.com/gdamore/tcell/v2"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/gridcast/pkg/render"
)

var statusStyle = tcell.StyleDefault.
	Foreground(render.TcellColor(render.ColorWhite)).
	Background(render.TcellColor(render.ColorBlack))

func runTcell(ctx context.Context, g Game, opts Options) error {
	s, err := tcell.NewScreen()
	if err != nil {
		return fmt.Errorf("create screen: %w", err)
	}
	if err := s.Init(); err != nil {
		return fmt.Errorf("init screen: %w", err)
	}
	defer s.Fini()

	s.EnableMouse()
	s.HideCursor()
	return playTcell(ctx, s, g, opts.FPS)
}

// playTcell runs the frame loop on an initialized screen.
func playTcell(ctx context.Context, s tcell.Screen, g Game, fps int) error {
	eg, ctx := errgroup.WithContext(ctx)
	events := make(chan tcell.Event)

	eg.Go(func() error {
		s.ChannelEvents(events, ctx.Done())
		return nil
	})

	eg.Go(func() error {
		t := &tcellSession{scr: s, g: g, keys: newKeyState(), mouse: newCellDrag()}
		t.resize()
		return t.loop(ctx, events, fps)
	})

	return eg.Wait()
}

type tcellSession struct {
	scr   tcell.Screen
	g     Game
	keys  *keyState
	mouse *mouseDrag
	clock frameClock
}

func (t *tcellSession) resize() {
	w, h := t.scr.Size()
	t.g.Resize(w, h*2)
}

func (t *tcellSession) loop(ctx context.Context, events <-chan tcell.Event, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return ErrQuit
			}
			if err := t.handle(ev, time.Now()); err != nil {
				return err
			}
		case now := <-ticker.C:
			t.frame(now)
		}
	}
}

func (t *tcellSession) handle(ev tcell.Event, now time.Time) error {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.scr.Sync()
		t.resize()
	case *tcell.EventKey:
		return handleKey(t.g, t.keys, tcellKeyName(ev), now)
	case *tcell.EventMouse:
		x, y := ev.Position()
		switch {
		case ev.Buttons()&tcell.ButtonPrimary == 0:
			t.mouse.release()
		case !t.mouse.down:
			t.mouse.press(x, y)
		default:
			t.mouse.move(x, y)
		}
	}
	return nil
}

func (t *tcellSession) frame(now time.Time) {
	in := t.keys.input(now)
	t.mouse.take(&in)
	t.g.Update(in, t.clock.tick(now))

	t.g.Draw().DrawTcell(t.scr, 0, 0)
	for i, line := range t.g.Status() {
		render.DrawTcellText(t.scr, 0, i, " "+line+" ", statusStyle)
	}
	t.scr.Show()
}

var tcellKeyNames = map[tcell.Key]string{
	tcell.KeyUp:     "up",
	tcell.KeyDown:   "down",
	tcell.KeyLeft:   "left",
	tcell.KeyRight:  "right",
	tcell.KeyPgUp:   "pgup",
	tcell.KeyPgDn:   "pgdown",
	tcell.KeyTab:    "tab",
	tcell.KeyEscape: "esc",
	tcell.KeyCtrlC:  "ctrl+c",
}

// tcellKeyName names ev the way ultraviolet does.
func tcellKeyName(ev *tcell.EventKey) string {
	if ev.Key() == tcell.KeyRune {
		if ev.Rune() == ' ' {
			return "space"
		}
		return string(ev.Rune())
	}
	return tcellKeyNames[ev.Key()]
}

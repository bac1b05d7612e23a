package frontend

import (
	"context"
	"fmt"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"golang.org/x/sync/errgroup"

	"github.com/taigrr/gridcast/pkg/render"
)

// runTerminal plays on the controlling terminal through ultraviolet. One
// goroutine forwards terminal events, the other owns the game and draws.
func runTerminal(ctx context.Context, g Game, opts Options) error {
	term := uv.DefaultTerminal()

	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	defer func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}()

	eg, ctx := errgroup.WithContext(ctx)
	events := make(chan uv.Event)

	eg.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return nil
			case ev, ok := <-term.Events():
				if !ok {
					return ErrQuit
				}
				select {
				case events <- ev:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})

	eg.Go(func() error {
		s := &terminalSession{term: term, g: g, keys: newKeyState(), mouse: newCellDrag()}
		s.resize(width, height)
		return s.loop(ctx, events, opts.FPS)
	})

	return eg.Wait()
}

// terminalSession is the frame loop state of an ultraviolet terminal.
type terminalSession struct {
	term  render.Display
	g     Game
	out   *render.TerminalRenderer
	keys  *keyState
	mouse *mouseDrag
	clock frameClock
}

func (s *terminalSession) resize(width, height int) {
	s.out = render.NewTerminalRenderer(s.term, width, height)
	s.g.Resize(s.out.FramebufferSize())
}

func (s *terminalSession) loop(ctx context.Context, events <-chan uv.Event, fps int) error {
	ticker := time.NewTicker(time.Second / time.Duration(fps))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-events:
			if err := s.handle(ev, time.Now()); err != nil {
				return err
			}
		case now := <-ticker.C:
			if err := s.frame(now); err != nil {
				return err
			}
		}
	}
}

func (s *terminalSession) handle(ev uv.Event, now time.Time) error {
	switch ev := ev.(type) {
	case uv.WindowSizeEvent:
		if t, ok := s.term.(*uv.Terminal); ok {
			t.Erase()
			t.Resize(ev.Width, ev.Height)
		}
		s.resize(ev.Width, ev.Height)
	case uv.KeyPressEvent:
		return handleKey(s.g, s.keys, ev.String(), now)
	case uv.KeyReleaseEvent:
		s.keys.release(ev.String())
	case uv.MouseClickEvent:
		s.mouse.press(ev.X, ev.Y)
	case uv.MouseReleaseEvent:
		s.mouse.release()
	case uv.MouseMotionEvent:
		s.mouse.move(ev.X, ev.Y)
	}
	return nil
}

func (s *terminalSession) frame(now time.Time) error {
	in := s.keys.input(now)
	s.mouse.take(&in)
	s.g.Update(in, s.clock.tick(now))

	s.out.Render(s.g.Draw())
	for i, line := range s.g.Status() {
		s.out.Text(0, i, " "+line+" ", render.ColorWhite, render.RGB(0, 0, 0))
	}
	if err := s.out.Flush(); err != nil {
		return fmt.Errorf("flush: %w", err)
	}
	return nil
}

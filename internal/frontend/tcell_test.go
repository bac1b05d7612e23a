package frontend

import (
	"context"
	"errors"
	"slices"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/taigrr/gridcast/internal/game"
	"github.com/taigrr/gridcast/pkg/player"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func TestTcellKeyName(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		r    rune
		want string
	}{
		{tcell.KeyRune, 'w', "w"},
		{tcell.KeyRune, ' ', "space"},
		{tcell.KeyRune, '?', "?"},
		{tcell.KeyUp, 0, "up"},
		{tcell.KeyPgDn, 0, "pgdown"},
		{tcell.KeyTab, 0, "tab"},
		{tcell.KeyEscape, 0, "esc"},
		{tcell.KeyCtrlC, 0, "ctrl+c"},
		{tcell.KeyF1, 0, ""},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			ev := tcell.NewEventKey(tt.key, tt.r, tcell.ModNone)
			if got := tcellKeyName(ev); got != tt.want {
				t.Errorf("tcellKeyName(%v) = %q, want %q", ev.Name(), got, tt.want)
			}
		})
	}
}

func TestPlayTcell(t *testing.T) {
	s := newSimScreen(t, 12, 4)
	g := newFakeGame()

	done := make(chan error, 1)
	go func() {
		done <- playTcell(context.Background(), s, g, 100)
	}()

	s.InjectKey(tcell.KeyRune, 'w', tcell.ModNone)
	s.InjectKey(tcell.KeyRune, 'm', tcell.ModNone)
	time.Sleep(80 * time.Millisecond)
	s.InjectKey(tcell.KeyEscape, 0, tcell.ModNone)

	select {
	case err := <-done:
		if !errors.Is(err, ErrQuit) {
			t.Fatalf("playTcell() = %v, want ErrQuit", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("escape did not end the loop")
	}

	if g.width != 12 || g.height != 8 {
		t.Errorf("game sized %dx%d, want 12x8", g.width, g.height)
	}
	if !slices.Equal(g.commands, []game.Command{game.ToggleMap}) {
		t.Errorf("commands = %v", g.commands)
	}
	if !slices.ContainsFunc(g.inputs, func(in player.Input) bool { return in.Forward }) {
		t.Errorf("no frame saw forward held in %d frames", len(g.inputs))
	}

	if r, _, _, _ := s.GetContent(1, 0); r != 's' {
		t.Errorf("status cell = %q, want 's'", r)
	}
	if r, _, _, _ := s.GetContent(6, 3); r != '▀' {
		t.Errorf("frame cell = %q, want a half block", r)
	}
}

func TestPlayTcellCancel(t *testing.T) {
	s := newSimScreen(t, 4, 2)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- playTcell(ctx, s, newFakeGame(), 100)
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("playTcell() = %v, want context.Canceled", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("cancel did not end the loop")
	}
}

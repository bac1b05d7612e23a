package frontend

import (
	"errors"
	"testing"
	"time"

	"github.com/taigrr/gridcast/internal/game"
	"github.com/taigrr/gridcast/pkg/player"
	"github.com/taigrr/gridcast/pkg/render"
)

// fakeGame records what a frontend asks of it.
type fakeGame struct {
	width, height int
	inputs        []player.Input
	commands      []game.Command
	status        []string
	fb            *render.Framebuffer
}

func newFakeGame() *fakeGame {
	return &fakeGame{status: []string{"status"}, fb: render.NewFramebuffer(1, 1)}
}

func (f *fakeGame) Resize(width, height int) {
	f.width, f.height = width, height
	f.fb = render.NewFramebuffer(width, height)
	f.fb.Clear(render.ColorRed)
}

func (f *fakeGame) Update(in player.Input, dt time.Duration) {
	f.inputs = append(f.inputs, in)
}

func (f *fakeGame) Draw() *render.Framebuffer { return f.fb }
func (f *fakeGame) Status() []string          { return f.status }
func (f *fakeGame) Command(c game.Command)    { f.commands = append(f.commands, c) }

func TestParseKind(t *testing.T) {
	tests := []struct {
		in      string
		want    Kind
		wantErr bool
	}{
		{"terminal", Terminal, false},
		{"tcell", Tcell, false},
		{"window", Window, false},
		{"web", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseKind(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseKind(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("ParseKind(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestKeyHoldWithoutReleases(t *testing.T) {
	k := newKeyState()
	t0 := time.Now()

	if !k.press("w", t0) {
		t.Fatal("w is not bound")
	}
	if k.press("z", t0) {
		t.Error("z reported as bound")
	}

	if in := k.input(t0.Add(defaultHold / 2)); !in.Forward {
		t.Error("key released before the hold time")
	}
	if in := k.input(t0.Add(defaultHold)); in.Forward {
		t.Error("key still held after the hold time")
	}

	// repeats extend the hold
	k.press("w", t0.Add(defaultHold/2))
	if in := k.input(t0.Add(defaultHold)); !in.Forward {
		t.Error("repeat did not extend the hold")
	}
}

func TestKeyHoldWithReleases(t *testing.T) {
	k := newKeyState()
	t0 := time.Now()

	k.release("a")
	k.press("a", t0)
	k.press("left", t0)
	if in := k.input(t0.Add(10 * time.Second)); !in.TurnLeft {
		t.Error("key not held until released")
	}

	k.release("left")
	if in := k.input(t0); in.TurnLeft {
		t.Error("key held after release")
	}
}

func TestKeyBindings(t *testing.T) {
	tests := []struct {
		key  string
		held func(player.Input) bool
	}{
		{"up", func(in player.Input) bool { return in.Forward }},
		{"s", func(in player.Input) bool { return in.Back }},
		{"d", func(in player.Input) bool { return in.TurnRight }},
		{"q", func(in player.Input) bool { return in.StrafeLeft }},
		{"e", func(in player.Input) bool { return in.StrafeRight }},
		{"space", func(in player.Input) bool { return in.Jump }},
		{"pgup", func(in player.Input) bool { return in.LookUp }},
		{"f", func(in player.Input) bool { return in.LookDown }},
	}
	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			k := newKeyState()
			now := time.Now()
			k.press(tt.key, now)
			if !tt.held(k.input(now)) {
				t.Errorf("%s not mapped", tt.key)
			}
		})
	}
}

func TestMouseDrag(t *testing.T) {
	m := newCellDrag()

	m.move(5, 5)
	var in player.Input
	m.take(&in)
	if in.MouseX != 0 || in.MouseY != 0 {
		t.Errorf("motion without a button = %d,%d", in.MouseX, in.MouseY)
	}

	m.press(2, 2)
	m.move(3, 2)
	m.move(5, 1)
	m.take(&in)
	if in.MouseX != 3*cellMouseScaleX || in.MouseY != -cellMouseScaleY {
		t.Errorf("drag = %d,%d", in.MouseX, in.MouseY)
	}

	in = player.Input{}
	m.take(&in)
	if in.MouseX != 0 {
		t.Error("take did not reset the motion")
	}

	m.release()
	m.move(9, 9)
	m.take(&in)
	if in.MouseX != 0 {
		t.Error("motion after release counted")
	}
}

func TestFrameClock(t *testing.T) {
	var c frameClock
	t0 := time.Now()

	if dt := c.tick(t0); dt != 0 {
		t.Errorf("first tick = %v", dt)
	}
	if dt := c.tick(t0.Add(20 * time.Millisecond)); dt != 20*time.Millisecond {
		t.Errorf("tick = %v, want 20ms", dt)
	}
	if dt := c.tick(t0.Add(5 * time.Second)); dt != maxFrameTime {
		t.Errorf("stall = %v, want capped at %v", dt, maxFrameTime)
	}
}

func TestHandleKey(t *testing.T) {
	g := newFakeGame()
	k := newKeyState()
	now := time.Now()

	for _, name := range []string{"esc", "ctrl+c"} {
		if err := handleKey(g, k, name, now); !errors.Is(err, ErrQuit) {
			t.Errorf("%s: err = %v, want ErrQuit", name, err)
		}
	}

	for _, name := range []string{"w", "m", "tab", "z"} {
		if err := handleKey(g, k, name, now); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	if len(g.commands) != 2 || g.commands[0] != game.ToggleMap || g.commands[1] != game.ToggleRenderer {
		t.Errorf("commands = %v", g.commands)
	}
}

package render

import (
	"image/color"
	"testing"

	uv "github.com/charmbracelet/ultraviolet"
)

type fakeDisplay struct {
	uv.ScreenBuffer
	shown int
}

func (d *fakeDisplay) Display() error {
	d.shown++
	return nil
}

func newFakeDisplay(w, h int) *fakeDisplay {
	return &fakeDisplay{ScreenBuffer: uv.NewScreenBuffer(w, h)}
}

func TestFramebufferDraw(t *testing.T) {
	fb := NewFramebuffer(2, 4)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorGreen)
	fb.SetPixel(1, 3, ColorCyan)

	scr := newFakeDisplay(4, 3)
	fb.Draw(scr, uv.Rect(1, 1, 3, 3))

	c := scr.CellAt(1, 1)
	if c.Content != "▀" {
		t.Fatalf("cell content = %q, want a half block", c.Content)
	}
	if c.Style.Fg != color.Color(ColorRed) || c.Style.Bg != color.Color(ColorGreen) {
		t.Errorf("cell colors = %v/%v, want red over green", c.Style.Fg, c.Style.Bg)
	}

	c = scr.CellAt(2, 2)
	if c.Style.Fg != nil {
		t.Errorf("transparent pixel gave fg %v, want nil", c.Style.Fg)
	}
	if c.Style.Bg != color.Color(ColorCyan) {
		t.Errorf("bottom pixel = %v, want cyan", c.Style.Bg)
	}

	if c := scr.CellAt(0, 0); c.Content == "▀" {
		t.Error("drew outside the area")
	}
}

func TestTerminalRenderer(t *testing.T) {
	scr := newFakeDisplay(4, 2)
	tr := NewTerminalRenderer(scr, 4, 2)

	w, h := tr.FramebufferSize()
	if w != 4 || h != 4 {
		t.Fatalf("FramebufferSize() = %dx%d, want 4x4", w, h)
	}

	fb := NewFramebuffer(w, h)
	fb.Clear(ColorYellow)
	tr.Render(fb)
	if c := scr.CellAt(3, 1); c.Style.Fg != color.Color(ColorYellow) {
		t.Errorf("last cell fg = %v, want yellow", c.Style.Fg)
	}

	tr.Text(2, 1, "abc", ColorWhite, nil)
	if got := scr.CellAt(2, 1).Content; got != "a" {
		t.Errorf("text cell = %q, want a", got)
	}
	if got := scr.CellAt(3, 1).Content; got != "b" {
		t.Errorf("text cell = %q, want b", got)
	}
	tr.Text(0, 5, "x", ColorWhite, nil)
	tr.Text(-1, 0, "xy", ColorWhite, nil)
	if got := scr.CellAt(0, 0).Content; got != "y" {
		t.Errorf("clipped text cell = %q, want y", got)
	}

	if err := tr.Flush(); err != nil {
		t.Fatal(err)
	}
	if scr.shown != 1 {
		t.Errorf("Display called %d times", scr.shown)
	}
}

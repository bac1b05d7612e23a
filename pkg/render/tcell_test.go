package render

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	if err := s.Init(); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(s.Fini)
	s.SetSize(w, h)
	return s
}

func TestTcellColor(t *testing.T) {
	if got := TcellColor(Color{}); got != tcell.ColorDefault {
		t.Errorf("transparent = %v, want the default color", got)
	}
	if got := TcellColor(RGB(1, 2, 3)); got != tcell.NewRGBColor(1, 2, 3) {
		t.Errorf("RGB(1, 2, 3) = %v", got)
	}
}

func TestDrawTcell(t *testing.T) {
	s := newSimScreen(t, 3, 2)

	fb := NewFramebuffer(4, 6)
	fb.SetPixel(0, 0, ColorRed)
	fb.SetPixel(0, 1, ColorGreen)
	fb.DrawTcell(s, 1, 0)

	r, _, style, _ := s.GetContent(1, 0)
	if r != '▀' {
		t.Fatalf("cell = %q, want a half block", r)
	}
	fg, bg, _ := style.Decompose()
	if fg != TcellColor(ColorRed) || bg != TcellColor(ColorGreen) {
		t.Errorf("colors = %v/%v, want red over green", fg, bg)
	}

	if r, _, _, _ := s.GetContent(0, 0); r == '▀' {
		t.Error("drew left of the origin")
	}
}

func TestDrawTcellText(t *testing.T) {
	s := newSimScreen(t, 3, 1)

	DrawTcellText(s, -1, 0, "abcde", tcell.StyleDefault)
	for x, want := range "bcd" {
		if r, _, _, _ := s.GetContent(x, 0); r != want {
			t.Errorf("cell %d = %q, want %q", x, r, want)
		}
	}
	DrawTcellText(s, 0, 1, "z", tcell.StyleDefault)
}

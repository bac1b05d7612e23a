package render

import (
	"testing"

	"github.com/taigrr/gridcast/pkg/level"
	"github.com/taigrr/gridcast/pkg/raycast"
)

func TestMinimapDraw(t *testing.T) {
	l, err := level.ParseText("t", []byte("#####\n#@.D#\n#*###"))
	if err != nil {
		t.Fatal(err)
	}
	m := Minimap{
		Scale:    2,
		Radius:   2,
		Backdrop: RGBA(0, 0, 0, 160),
		Wall:     ColorGray,
		Floor:    RGB(40, 40, 48),
		Door:     ColorYellow,
		Sprite:   ColorGreen,
		Player:   ColorRed,
	}
	if m.Size() != 10 {
		t.Fatalf("Size() = %d, want 10", m.Size())
	}

	fb := NewFramebuffer(10, 10)
	fb.Clear(ColorBlack)

	cam := raycast.NewCamera()
	cam.Position = l.StartPosition()
	cam.Direction = l.Start.Direction
	m.Draw(fb, 0, 0, l, cam)

	tests := []struct {
		name string
		x, y int
		want Color
	}{
		{"outside the level", 0, 0, ColorBlack},
		{"wall left of the player", 2, 4, ColorGray},
		{"floor right of the player", 6, 4, m.Floor},
		{"door", 8, 4, ColorYellow},
		{"sprite below the player", 5, 7, ColorGreen},
		{"player", 5, 5, ColorWhite},
		{"heading", 7, 5, ColorRed},
		{"heading end", 9, 5, ColorRed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := fb.GetPixel(tt.x, tt.y); got != tt.want {
				t.Errorf("pixel (%d,%d) = %v, want %v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestDefaultMinimap(t *testing.T) {
	m := DefaultMinimap()
	if m.Size() != 39 {
		t.Errorf("Size() = %d, want 39", m.Size())
	}
	if (Minimap{Radius: 1}).Size() != 3 {
		t.Error("zero scale not treated as one pixel per square")
	}
}

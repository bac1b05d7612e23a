package render

import (
	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/level"
	"github.com/taigrr/gridcast/pkg/raycast"
)

// Minimap draws a top-down view of the squares around the camera.
type Minimap struct {
	Scale  int // pixels per square
	Radius int // squares shown on each side of the player

	Backdrop Color // blended over the frame, alpha included
	Wall     Color
	Floor    Color
	Door     Color
	Sprite   Color
	Player   Color
}

// DefaultMinimap returns a 3 pixel per square map with a radius of 6.
func DefaultMinimap() Minimap {
	return Minimap{
		Scale:    3,
		Radius:   6,
		Backdrop: RGBA(0, 0, 0, 160),
		Wall:     RGB(150, 150, 160),
		Floor:    RGB(40, 40, 48),
		Door:     RGB(200, 120, 40),
		Sprite:   RGB(90, 200, 90),
		Player:   ColorRed,
	}
}

// Size returns the side of the drawn map in pixels.
func (m Minimap) Size() int {
	return (2*m.Radius + 1) * max(m.Scale, 1)
}

// Draw draws the map with its top left corner at (x, y). The player sits in
// the centre square and +y of the world points down the screen.
func (m Minimap) Draw(fb *Framebuffer, x, y int, l *level.Level, cam raycast.Camera) {
	scale := max(m.Scale, 1)
	size := m.Size()
	fb.BlendRect(x, y, size, size, m.Backdrop)

	px, py := cam.Position.Square()
	for dy := -m.Radius; dy <= m.Radius; dy++ {
		for dx := -m.Radius; dx <= m.Radius; dx++ {
			sx, sy := px+dx, py+dy
			c, ok := m.squareColor(l, sx, sy)
			if !ok {
				continue
			}
			fb.DrawRect(x+(dx+m.Radius)*scale, y+(dy+m.Radius)*scale, scale, scale, c)
		}
	}

	for _, s := range l.Sprites {
		dx, dy := s.Square.X-px, s.Square.Y-py
		if abs(dx) > m.Radius || abs(dy) > m.Radius {
			continue
		}
		cx := x + (dx+m.Radius)*scale + scale/2
		cy := y + (dy+m.Radius)*scale + scale/2
		fb.SetPixel(cx, cy, m.Sprite)
	}

	// the player dot sits at its exact position inside the centre square
	offX := int(fixed.Wrap(cam.Position.X, fixed.UnitsPerSquare)) * scale / int(fixed.UnitsPerSquare)
	offY := int(fixed.Wrap(cam.Position.Y, fixed.UnitsPerSquare)) * scale / int(fixed.UnitsPerSquare)
	cx := x + m.Radius*scale + offX
	cy := y + m.Radius*scale + offY

	dir := fixed.AngleToDirection(cam.Direction)
	length := fixed.Unit(2 * scale)
	ex := cx + int(fixed.MulDiv(dir.X, length, fixed.UnitsPerSquare))
	ey := cy + int(fixed.MulDiv(dir.Y, length, fixed.UnitsPerSquare))
	fb.DrawLine(cx, cy, ex, ey, m.Player)
	fb.SetPixel(cx, cy, ColorWhite)
}

func (m Minimap) squareColor(l *level.Level, x, y int) (Color, bool) {
	if x < 0 || y < 0 || x >= l.Width || y >= l.Height {
		return Color{}, false
	}
	if l.Walkable(x, y) {
		return m.Floor, true
	}
	switch l.TileAt(x, y).Property {
	case level.Door, level.SlidingDoor:
		return m.Door, true
	}
	return m.Wall, true
}

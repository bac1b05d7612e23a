package render

import (
	"image"

	"golang.org/x/image/colornames"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/level"
)

const proceduralSize = 32

// TextureSet holds every image a level can reference by index.
type TextureSet struct {
	Walls       [level.TextureCount]*Texture
	Door        *Texture
	Floor       *Texture // optional, drawn on floors when floor coordinates are computed
	Backgrounds []*Texture
	Sprites     []*Texture
}

// Wall returns wall texture i, or nil when it is out of range or unset.
func (s *TextureSet) Wall(i int) *Texture {
	if i < 0 || i >= len(s.Walls) {
		return nil
	}
	return s.Walls[i]
}

// Background returns background image i, or nil.
func (s *TextureSet) Background(i int) *Texture {
	if i < 0 || i >= len(s.Backgrounds) {
		return nil
	}
	return s.Backgrounds[i]
}

// Sprite returns sprite image i, or nil.
func (s *TextureSet) Sprite(i int) *Texture {
	if i < 0 || i >= len(s.Sprites) {
		return nil
	}
	return s.Sprites[i]
}

// Replace overwrites textures with images in pack order: the wall
// textures first, then the door, the background and the sprites. It
// returns how many images were used.
func (s *TextureSet) Replace(images []image.Image) int {
	used := 0
	next := func() *Texture {
		if used >= len(images) {
			return nil
		}
		t := TextureFromImage(images[used])
		used++
		return t
	}

	for i := range s.Walls {
		if t := next(); t != nil {
			s.Walls[i] = t
		}
	}
	if t := next(); t != nil {
		s.Door = t
	}
	if t := next(); t != nil {
		if len(s.Backgrounds) == 0 {
			s.Backgrounds = append(s.Backgrounds, t)
		} else {
			s.Backgrounds[0] = t
		}
	}
	for i := 0; used < len(images); i++ {
		t := next()
		if i < len(s.Sprites) {
			s.Sprites[i] = t
		} else {
			s.Sprites = append(s.Sprites, t)
		}
	}
	return used
}

// DefaultTextures generates the built-in texture set.
func DefaultTextures() *TextureSet {
	s := &TextureSet{
		Walls: [level.TextureCount]*Texture{
			newBrickTexture(colornames.Firebrick, colornames.Darkgray),
			newBlockTexture(colornames.Slategray),
			newPlankTexture(colornames.Sienna),
			newPanelTexture(colornames.Steelblue),
			newStripeTexture(colornames.Darkolivegreen, colornames.Yellowgreen),
			newBrickTexture(colornames.Tan, colornames.Dimgray),
			newHazardTexture(),
			newMarbleTexture(colornames.Lightgray),
		},
		Door:        newDoorTexture(colornames.Saddlebrown),
		Floor:       NewCheckerTexture(proceduralSize, proceduralSize, proceduralSize/2, RGB(70, 70, 70), RGB(58, 58, 58)),
		Backgrounds: []*Texture{newSkyTexture()},
		Sprites: []*Texture{
			newBarrelSprite(),
			newLampSprite(),
			newGoalSprite(),
		},
	}
	return s
}

// noise is a cheap deterministic hash in [0, 255].
func noise(x, y, seed int) int {
	h := uint32(x)*374761393 + uint32(y)*668265263 + uint32(seed)*2246822519
	h = (h ^ h>>13) * 1274126177
	return int((h ^ h>>16) & 0xff)
}

// vary brightens or darkens c by up to amount/2 using the noise at (x, y).
func vary(c Color, x, y, seed, amount int) Color {
	d := noise(x, y, seed)*amount/255 - amount/2
	clamp := func(v int) uint8 { return uint8(max(0, min(255, v))) }
	return Color{R: clamp(int(c.R) + d), G: clamp(int(c.G) + d), B: clamp(int(c.B) + d), A: 255}
}

func newBrickTexture(brick, mortar Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		row := y / 8
		offset := 0
		if row%2 == 1 {
			offset = 8
		}
		for x := range t.Width {
			if y%8 == 7 || (x+offset)%16 == 15 {
				t.SetPixel(x, y, mortar)
				continue
			}
			t.SetPixel(x, y, vary(brick, x, y, 1, 30))
		}
	}
	return t
}

func newBlockTexture(base Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	dark := Shade(base, 3)
	for y := range t.Height {
		for x := range t.Width {
			bx, by := x%16, y%16
			switch {
			case bx == 0 || by == 0:
				t.SetPixel(x, y, lighten(base, 40))
			case bx == 15 || by == 15:
				t.SetPixel(x, y, dark)
			default:
				t.SetPixel(x, y, vary(base, x, y, 2, 24))
			}
		}
	}
	return t
}

func newPlankTexture(wood Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		for x := range t.Width {
			c := vary(wood, x/2, y, 3, 20)
			if x%8 == 0 {
				c = Shade(wood, 4)
			} else if noise(x, y/4, 4) < 24 {
				c = Shade(c, 2)
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

func newPanelTexture(metal Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		for x := range t.Width {
			c := vary(metal, x, y, 5, 12)
			switch {
			case x == 0 || y == 0 || x == t.Width-1 || y == t.Height-1:
				c = Shade(metal, 4)
			case (x == 3 || x == t.Width-4) && (y == 3 || y == t.Height-4):
				c = lighten(metal, 80)
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

func newStripeTexture(base, stripe Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		for x := range t.Width {
			c := vary(base, x, y, 6, 16)
			if y%8 == 3 && x%4 != 0 {
				c = stripe
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

func newHazardTexture() *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		for x := range t.Width {
			if (x+y)/8%2 == 0 {
				t.SetPixel(x, y, colornames.Gold)
			} else {
				t.SetPixel(x, y, RGB(24, 24, 24))
			}
		}
	}
	return t
}

func newMarbleTexture(base Color) *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range t.Height {
		for x := range t.Width {
			// veins follow a sine across the diagonal
			s := fixed.Sin(fixed.Unit((x+y)*int(fixed.UnitsPerSquare)/proceduralSize + noise(x/4, y/4, 7)))
			c := vary(base, x, y, 8, 10)
			if fixed.Abs(s) < 96 {
				c = Shade(c, 3)
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

func newDoorTexture(wood Color) *Texture {
	t := newPlankTexture(wood)
	frame := Shade(wood, 5)
	for y := range t.Height {
		for x := range t.Width {
			if x < 2 || x >= t.Width-2 || y < 2 {
				t.SetPixel(x, y, frame)
			}
		}
	}
	t.DrawRect(t.Width-8, t.Height/2, 3, 2, colornames.Gold)
	return t
}

func newSkyTexture() *Texture {
	const w, h = 2 * proceduralSize, proceduralSize
	t := NewGradientTexture(w, h, colornames.Midnightblue, colornames.Lightslategray)
	for x := range w {
		a := fixed.Unit(x * int(fixed.UnitsPerSquare) / w)
		ridge := h*3/4 - int(fixed.Sin(2*a)*3/fixed.UnitsPerSquare) - int(fixed.Sin(5*a+100)*2/fixed.UnitsPerSquare)
		for y := ridge; y < h; y++ {
			t.SetPixel(x, y, vary(colornames.Darkslategray, x, y, 9, 12))
		}
	}
	return t
}

func newBarrelSprite() *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := 6; y < proceduralSize; y++ {
		for x := 9; x < proceduralSize-9; x++ {
			c := vary(colornames.Olivedrab, x, y, 10, 20)
			if y%9 == 0 {
				c = colornames.Dimgray
			}
			if x == 9 || x == proceduralSize-10 {
				c = Shade(c, 3)
			}
			t.SetPixel(x, y, c)
		}
	}
	return t
}

func newLampSprite() *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	t.DrawRect(15, 12, 2, proceduralSize-12, colornames.Dimgray)
	t.DrawRect(11, proceduralSize-2, 10, 2, colornames.Dimgray)
	for y := range 12 {
		for x := range proceduralSize {
			dx, dy := x-16, y-6
			if dx*dx+dy*dy <= 25 {
				t.SetPixel(x, y, colornames.Lightyellow)
			}
		}
	}
	return t
}

func newGoalSprite() *Texture {
	t := NewTexture(proceduralSize, proceduralSize)
	for y := range proceduralSize {
		for x := range proceduralSize {
			if abs(x-16)+abs(y-16) <= 12 {
				c := colornames.Gold
				if abs(x-16)+abs(y-16) > 9 {
					c = colornames.Darkgoldenrod
				}
				t.SetPixel(x, y, c)
			}
		}
	}
	return t
}

// DrawRect fills a rectangle of the texture.
func (t *Texture) DrawRect(x, y, w, h int, c Color) {
	for py := y; py < y+h; py++ {
		for px := x; px < x+w; px++ {
			t.SetPixel(px, py, c)
		}
	}
}

func lighten(c Color, amount int) Color {
	up := func(v uint8) uint8 { return uint8(min(255, int(v)+amount)) }
	return Color{R: up(c.R), G: up(c.G), B: up(c.B), A: c.A}
}

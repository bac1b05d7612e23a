package render

import (
	"fmt"
	"image"
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"os"

	"github.com/taigrr/gridcast/pkg/fixed"
)

// Texture holds a 2D image sampled with fixed-point coordinates. One
// fixed.UnitsPerSquare spans the whole texture and coordinates repeat, so a
// wall face or floor square shows exactly one copy.
type Texture struct {
	Width   int
	Height  int
	Pixels  []Color // Row-major pixel data
	average Color
	dirty   bool
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	width, height = max(width, 1), max(height, 1)
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		dirty:  true,
	}
}

// LoadTexture loads a texture from an image file.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture: %w", err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range bounds.Dy() {
		for x := range bounds.Dx() {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.SetPixel(x, y, Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			})
		}
	}

	return tex
}

// ToImage copies the texture into an image.RGBA.
func (t *Texture) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, t.Width, t.Height))
	for y := range t.Height {
		for x := range t.Width {
			img.SetRGBA(x, y, t.Pixels[y*t.Width+x])
		}
	}
	return img
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	checkSize = max(checkSize, 1)
	tex := NewTexture(width, height)
	for y := range tex.Height {
		for x := range tex.Width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a vertical gradient texture, top to bottom.
func NewGradientTexture(width, height int, top, bottom Color) *Texture {
	tex := NewTexture(width, height)
	for y := range tex.Height {
		c := lerpColor(top, bottom, y, max(tex.Height-1, 1))
		for x := range tex.Width {
			tex.SetPixel(x, y, c)
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
	t.dirty = true
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Sample returns the texel at texture coordinates (u, v), both wrapped into
// [0, UnitsPerSquare). v grows downward like image rows.
func (t *Texture) Sample(u, v fixed.Unit) Color {
	x := int(int64(wrapCoord(u)) * int64(t.Width) / int64(fixed.UnitsPerSquare))
	y := int(int64(wrapCoord(v)) * int64(t.Height) / int64(fixed.UnitsPerSquare))
	return t.Pixels[y*t.Width+x]
}

// Average returns the mean of the opaque texels, used for distant surfaces.
func (t *Texture) Average() Color {
	if !t.dirty {
		return t.average
	}

	var r, g, b, n int
	for _, c := range t.Pixels {
		if c.A == 0 {
			continue
		}
		r += int(c.R)
		g += int(c.G)
		b += int(c.B)
		n++
	}
	t.average = Color{}
	if n > 0 {
		t.average = Color{R: uint8(r / n), G: uint8(g / n), B: uint8(b / n), A: 255}
	}
	t.dirty = false
	return t.average
}

func wrapCoord(v fixed.Unit) fixed.Unit {
	v %= fixed.UnitsPerSquare
	if v < 0 {
		v += fixed.UnitsPerSquare
	}
	return v
}

// lerpColor interpolates from a to b by num/den.
func lerpColor(a, b Color, num, den int) Color {
	mix := func(x, y uint8) uint8 {
		return uint8(int(x) + (int(y)-int(x))*num/den)
	}
	return Color{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: mix(a.A, b.A)}
}

// Shade darkens c by shadow eighths. Eight or more gives black; the alpha is
// kept.
func Shade(c Color, shadow int) Color {
	if shadow <= 0 {
		return c
	}
	if shadow >= 8 {
		return Color{A: c.A}
	}
	k := 8 - shadow
	return Color{
		R: uint8(int(c.R) * k / 8),
		G: uint8(int(c.G) * k / 8),
		B: uint8(int(c.B) * k / 8),
		A: c.A,
	}
}

// Blend draws src over dst using src's alpha.
func Blend(dst, src Color) Color {
	a := int(src.A)
	mix := func(d, s uint8) uint8 {
		return uint8((int(s)*a + int(d)*(255-a)) / 255)
	}
	return Color{R: mix(dst.R, src.R), G: mix(dst.G, src.G), B: mix(dst.B, src.B), A: max(dst.A, src.A)}
}

// ModulateColor modulates one color by another (texture * tint).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// Package render turns raycast output into colors: a framebuffer, textures,
// a shading pixel sink, sprites, a minimap and text overlays, plus the code
// that puts a framebuffer on a terminal.
package render

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
)

// Framebuffer is a 2D array of pixels that can be rendered to the terminal.
// We use double vertical resolution by using half-block characters (▀▄).
//
// Framebuffer implements draw.Image so text and images can be composed onto
// it with the standard drawing packages.
type Framebuffer struct {
	Width  int          // Width in "pixels" (same as terminal columns)
	Height int          // Height in "pixels" (2x terminal rows due to half-blocks)
	Pixels []color.RGBA // Row-major pixel data
}

var _ draw.Image = (*Framebuffer)(nil)

// NewFramebuffer creates a new framebuffer with the given dimensions.
// Height should be 2x the desired terminal rows for half-block rendering.
func NewFramebuffer(width, height int) *Framebuffer {
	width, height = max(width, 0), max(height, 0)
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]color.RGBA, width*height),
	}
}

// Resize changes the dimensions, reusing the pixel memory when it is large
// enough. The contents are undefined afterwards.
func (fb *Framebuffer) Resize(width, height int) {
	width, height = max(width, 0), max(height, 0)
	if n := width * height; cap(fb.Pixels) >= n {
		fb.Pixels = fb.Pixels[:n]
	} else {
		fb.Pixels = make([]color.RGBA, n)
	}
	fb.Width, fb.Height = width, height
}

// Clear fills the framebuffer with a solid color.
func (fb *Framebuffer) Clear(c color.RGBA) {
	for i := range fb.Pixels {
		fb.Pixels[i] = c
	}
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c color.RGBA) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) color.RGBA {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return color.RGBA{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// ColorModel implements image.Image.
func (fb *Framebuffer) ColorModel() color.Model {
	return color.RGBAModel
}

// Bounds implements image.Image.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// At implements image.Image.
func (fb *Framebuffer) At(x, y int) color.Color {
	return fb.GetPixel(x, y)
}

// Set implements draw.Image.
func (fb *Framebuffer) Set(x, y int, c color.Color) {
	fb.SetPixel(x, y, color.RGBAModel.Convert(c).(color.RGBA))
}

// DrawLine draws a line from (x0, y0) to (x1, y1) using Bresenham's algorithm.
func (fb *Framebuffer) DrawLine(x0, y0, x1, y1 int, c color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		fb.SetPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawRect draws a filled rectangle.
func (fb *Framebuffer) DrawRect(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		row := fb.Pixels[py*fb.Width : (py+1)*fb.Width]
		for px := x0; px < x1; px++ {
			row[px] = c
		}
	}
}

// DrawRectOutline draws a rectangle outline.
func (fb *Framebuffer) DrawRectOutline(x, y, w, h int, c color.RGBA) {
	// Top and bottom
	for px := x; px < x+w; px++ {
		fb.SetPixel(px, y, c)
		fb.SetPixel(px, y+h-1, c)
	}
	// Left and right
	for py := y; py < y+h; py++ {
		fb.SetPixel(x, py, c)
		fb.SetPixel(x+w-1, py, c)
	}
}

// BlendRect darkens or tints a rectangle by mixing c over it with c's alpha.
func (fb *Framebuffer) BlendRect(x, y, w, h int, c color.RGBA) {
	x0, y0 := max(x, 0), max(y, 0)
	x1, y1 := min(x+w, fb.Width), min(y+h, fb.Height)
	for py := y0; py < y1; py++ {
		for px := x0; px < x1; px++ {
			i := py*fb.Width + px
			fb.Pixels[i] = Blend(fb.Pixels[i], c)
		}
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// RGBABytes writes the pixels row by row as R, G, B, A bytes into dst,
// growing it when needed, and returns it.
func (fb *Framebuffer) RGBABytes(dst []byte) []byte {
	n := fb.Width * fb.Height * 4
	if cap(dst) < n {
		dst = make([]byte, n)
	}
	dst = dst[:n]
	for i, c := range fb.Pixels[:fb.Width*fb.Height] {
		dst[i*4] = c.R
		dst[i*4+1] = c.G
		dst[i*4+2] = c.B
		dst[i*4+3] = c.A
	}
	return dst
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return png.Encode(f, fb.ToImage())
}

package render

import (
	"image"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	xfixed "golang.org/x/image/math/fixed"
)

// Face is the bitmap font used for text drawn into framebuffers.
var Face font.Face = basicfont.Face7x13

// LineHeight is the distance between two lines of Face text, in pixels.
const LineHeight = 13

// TextWidth returns the width of s in pixels.
func TextWidth(s string) int {
	return font.MeasureString(Face, s).Ceil()
}

// DrawText draws s with its top left corner at (x, y) and returns the x
// position after the last glyph.
func DrawText(dst draw.Image, x, y int, s string, c Color) int {
	d := font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(c),
		Face: Face,
		Dot:  xfixed.P(x, y+Face.Metrics().Ascent.Ceil()),
	}
	d.DrawString(s)
	return d.Dot.X.Ceil()
}

// DrawTextBox draws lines of text on a translucent box anchored at (x, y).
func DrawTextBox(fb *Framebuffer, x, y int, lines []string, fg, bg Color) {
	if len(lines) == 0 {
		return
	}
	w := 0
	for _, l := range lines {
		w = max(w, TextWidth(l))
	}
	fb.BlendRect(x, y, w+4, len(lines)*LineHeight+2, bg)
	for i, l := range lines {
		DrawText(fb, x+2, y+1+i*LineHeight, l, fg)
	}
}

package render

import (
	"github.com/gdamore/tcell/v2"
)

// TcellColor converts c to a true color tcell color. Transparent colors map
// to the terminal default.
func TcellColor(c Color) tcell.Color {
	if c.A == 0 {
		return tcell.ColorDefault
	}
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// DrawTcell draws the framebuffer on a tcell screen with half blocks, the
// top left pixel at cell (x, y). Like Draw, each cell shows two pixel rows.
func (r *Framebuffer) DrawTcell(s tcell.Screen, x, y int) {
	w, h := s.Size()
	rows := (r.Height + 1) / 2

	for row := 0; row < rows && y+row < h; row++ {
		for col := 0; col < r.Width && x+col < w; col++ {
			top := r.GetPixel(col, row*2)
			bot := r.GetPixel(col, row*2+1)
			style := tcell.StyleDefault.Foreground(TcellColor(top)).Background(TcellColor(bot))
			s.SetContent(x+col, y+row, '▀', nil, style)
		}
	}
}

// DrawTcellText writes s one rune per cell starting at (x, y), clipped to
// the screen.
func DrawTcellText(s tcell.Screen, x, y int, text string, style tcell.Style) {
	w, h := s.Size()
	if y < 0 || y >= h {
		return
	}
	for _, r := range text {
		if x >= w {
			return
		}
		if x >= 0 {
			s.SetContent(x, y, r, nil, style)
		}
		x++
	}
}

package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

// Draw converts the internal framebuffer to terminal cells and draws them on
// the screen.
// The framebuffer height should be 2x the terminal height.
func (r *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// Each terminal row represents 2 framebuffer rows
	// We use ▀ (upper half block) with fg=top color and bg=bottom color

	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1

		for col := area.Min.X; col < area.Max.X && col-area.Min.X < r.Width; col++ {
			topColor := r.GetPixel(col-area.Min.X, topY)
			botColor := r.GetPixel(col-area.Min.X, botY)

			cell := &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(topColor),
					Bg: rgbaToColor(botColor),
				},
			}
			scr.SetCell(col, row, cell)
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// Display is a screen that can present what was drawn on it, such as
// *uv.Terminal.
type Display interface {
	uv.Screen
	Display() error
}

// TerminalRenderer presents framebuffers on a terminal of a fixed size in
// cells. Create a new one when the terminal is resized.
type TerminalRenderer struct {
	scr           Display
	width, height int
}

// NewTerminalRenderer returns a renderer for a width x height cell area.
func NewTerminalRenderer(scr Display, width, height int) *TerminalRenderer {
	return &TerminalRenderer{scr: scr, width: max(width, 0), height: max(height, 0)}
}

// FramebufferSize returns the framebuffer size that exactly fills the
// terminal: one pixel per column, two per row.
func (t *TerminalRenderer) FramebufferSize() (width, height int) {
	return t.width, t.height * 2
}

// Render draws fb onto the screen buffer.
func (t *TerminalRenderer) Render(fb *Framebuffer) {
	fb.Draw(t.scr, uv.Rect(0, 0, t.width, t.height))
}

// Text writes s into a row of cells starting at (x, y), clipped to the
// terminal. A nil bg keeps the terminal background.
func (t *TerminalRenderer) Text(x, y int, s string, fg, bg color.Color) {
	DrawCellText(t.scr, x, y, s, uv.Style{Fg: fg, Bg: bg})
}

// Flush presents the screen buffer.
func (t *TerminalRenderer) Flush() error {
	return t.scr.Display()
}

// DrawCellText writes s one rune per cell starting at (x, y), stopping at
// the screen edge.
func DrawCellText(scr uv.Screen, x, y int, s string, style uv.Style) {
	b := scr.Bounds()
	if y < b.Min.Y || y >= b.Max.Y {
		return
	}
	for _, r := range s {
		if x >= b.Max.X {
			return
		}
		if x >= b.Min.X {
			scr.SetCell(x, y, &uv.Cell{Content: string(r), Width: 1, Style: style})
		}
		x++
	}
}

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack  = color.RGBA{0, 0, 0, 255}
	ColorWhite  = color.RGBA{255, 255, 255, 255}
	ColorRed    = color.RGBA{255, 0, 0, 255}
	ColorGreen  = color.RGBA{0, 255, 0, 255}
	ColorYellow = color.RGBA{255, 255, 0, 255}
	ColorCyan   = color.RGBA{0, 255, 255, 255}
	ColorGray   = color.RGBA{128, 128, 128, 255}
	ColorSky    = color.RGBA{135, 206, 235, 255}
)

// RGB creates a color from RGB values.
func RGB(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) color.RGBA {
	return color.RGBA{r, g, b, a}
}

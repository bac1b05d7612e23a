package render

import (
	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/level"
	"github.com/taigrr/gridcast/pkg/raycast"
)

const (
	// BackgroundDepth is the depth beyond which horizon pixels show the
	// background image instead of the floor or ceiling.
	BackgroundDepth = 16 * fixed.UnitsPerSquare

	// DefaultFogStep is the depth over which surfaces lose one eighth of
	// their brightness.
	DefaultFogStep = 2 * fixed.UnitsPerSquare
)

// ditherPatterns holds one 4x2 pattern per eighth of a fog step. Pattern i
// adds one extra shadow level to i of its eight pixels.
var ditherPatterns = [8 * 8]uint8{
	0, 0, 0, 0,
	0, 0, 0, 0,

	0, 0, 0, 0,
	0, 1, 0, 0,

	0, 0, 0, 0,
	0, 1, 0, 1,

	1, 0, 1, 0,
	0, 1, 0, 0,

	1, 0, 1, 0,
	0, 1, 0, 1,

	1, 0, 1, 0,
	0, 1, 1, 1,

	1, 1, 1, 1,
	0, 1, 0, 1,

	1, 1, 1, 1,
	0, 1, 1, 1,
}

// Shader is a raycast.PixelSink that colors pixels into a Framebuffer. It
// picks wall textures from the level's texture word, darkens surfaces by
// face direction and distance, fills the sky with a scrolling background and
// stretches each rendered column over Subsample framebuffer columns.
//
// Shader also keeps the depth of every rendered pixel for sprite occlusion.
type Shader struct {
	Target   *Framebuffer
	Textures *TextureSet

	FloorColor   Color
	CeilingColor Color
	Background   int // index into Textures.Backgrounds

	// Subsample is the number of framebuffer columns per rendered column.
	Subsample int

	// FogStep is the depth per shadow level; 0 disables fog.
	FogStep fixed.Unit
	Dither  bool

	// TextureDistance switches walls farther than this to their average
	// color. 0 always samples.
	TextureDistance fixed.Unit

	// FloorTextures samples Textures.Floor on floors at FloorTextureHeight,
	// which must match the renderer's FloorTexCoordsHeight.
	FloorTextures      bool
	FloorTextureHeight fixed.Unit

	// CeilingMax is the ceiling height at and above which the ceiling is
	// open sky. Set it to 0 to show the background above every wall.
	CeilingMax fixed.Unit

	resX, resY int
	scroll     int
	depth      []fixed.Unit
}

// NewShader returns a shader drawing into target with fog and dithering
// enabled.
func NewShader(target *Framebuffer, textures *TextureSet) *Shader {
	return &Shader{
		Target:       target,
		Textures:     textures,
		FloorColor:   RGB(60, 60, 60),
		CeilingColor: RGB(32, 32, 40),
		Subsample:    1,
		FogStep:      DefaultFogStep,
		Dither:       true,
		CeilingMax:   level.CeilingMaxHeight,
	}
}

// UseLevel takes the flat colors and background of l.
func (s *Shader) UseLevel(l *level.Level) {
	s.FloorColor = l.FloorColor
	s.CeilingColor = l.CeilingColor
	s.Background = l.Background
}

// Begin prepares a frame rendered with cam. It must be called before the
// renderer runs.
func (s *Shader) Begin(cam raycast.Camera) {
	s.resX = max(cam.Resolution.X, 0)
	s.resY = max(cam.Resolution.Y, 0)
	if n := s.resX * s.resY; cap(s.depth) < n {
		s.depth = make([]fixed.Unit, n)
	} else {
		s.depth = s.depth[:n]
	}
	for i := range s.depth {
		s.depth[i] = fixed.Infinity
	}

	// eight background repeats per turn
	s.scroll = int(cam.Direction) * 8 * s.resY / int(fixed.UnitsPerSquare)
}

// Depth returns the depth written at rendered pixel (x, y), or
// fixed.Infinity for sky and unwritten pixels.
func (s *Shader) Depth(x, y int) fixed.Unit {
	if x < 0 || y < 0 || x >= s.resX || y >= s.resY {
		return fixed.Infinity
	}
	return s.depth[y*s.resX+x]
}

func (s *Shader) subsample() int {
	return max(s.Subsample, 1)
}

// Pixel implements raycast.PixelSink.
func (s *Shader) Pixel(p *raycast.PixelInfo) {
	x, y := p.Position.X, p.Position.Y
	if x < 0 || y < 0 || x >= s.resX || y >= s.resY {
		return
	}

	c, shadow, ok := s.surface(p)
	depth := p.Depth
	if ok {
		c = Shade(c, shadow+s.fog(p.Depth, x, y))
	} else {
		c = s.background(x, y)
		depth = fixed.Infinity
	}
	s.depth[y*s.resX+x] = depth

	n := s.subsample()
	sx := x * n
	for i := range n {
		s.Target.SetPixel(sx+i, y, c)
	}
}

// surface returns the unshaded color of p, its direction shadow, and false
// when p is transparent.
func (s *Shader) surface(p *raycast.PixelInfo) (Color, int, bool) {
	if p.IsHorizon && p.Depth > BackgroundDepth {
		return Color{}, 0, false
	}

	if p.IsWall {
		tex := s.wallTexture(p)
		if tex == nil {
			return Color{}, 0, false
		}

		v := p.TexCoords.Y
		if level.TileProperty(p.Hit.Type) == level.Squeezer {
			v += p.WallHeight
		}

		var c Color
		if s.TextureDistance > 0 && p.Depth > s.TextureDistance {
			c = tex.Average()
		} else {
			c = tex.Sample(p.TexCoords.X, v)
		}
		if c.A == 0 {
			return Color{}, 0, false
		}
		return c, int(p.Hit.Direction >> 1), true
	}

	if p.IsFloor {
		if s.FloorTextures && s.Textures.Floor != nil && p.Height == s.FloorTextureHeight {
			return s.Textures.Floor.Sample(p.TexCoords.X, p.TexCoords.Y), 0, true
		}
		return s.FloorColor, 0, true
	}

	if p.Height >= s.CeilingMax {
		return Color{}, 0, false
	}
	return s.CeilingColor, 0, true
}

// wallTexture picks the texture for a wall pixel from the hit's texture
// word. The lowest square of a door shows the door texture.
func (s *Shader) wallTexture(p *raycast.PixelInfo) *Texture {
	t := p.Hit.Type
	if !p.IsFloor {
		return s.Textures.Wall(level.CeilingTexture(t))
	}
	if level.TileProperty(t) == level.Door && p.TexCoords.Y <= fixed.UnitsPerSquare {
		return s.Textures.Door
	}
	return s.Textures.Wall(level.FloorTexture(t))
}

// fog returns the distance shadow at rendered pixel (x, y).
func (s *Shader) fog(depth fixed.Unit, x, y int) int {
	if s.FogStep <= 0 || depth <= 0 {
		return 0
	}
	if !s.Dither {
		return int(int64(depth) / int64(s.FogStep))
	}

	eighths := int64(depth) * 8 / int64(s.FogStep)
	if eighths >= 64 {
		return 8
	}
	part := int(eighths & 7)
	return int(eighths/8) + int(ditherPatterns[part*8+(y&1)*4+(x&3)])
}

// background samples the current background image. The image spans the
// screen height horizontally and scrolls with the camera direction.
func (s *Shader) background(x, y int) Color {
	bg := s.Textures.Background(s.Background)
	if bg == nil || s.resY == 0 {
		return s.CeilingColor
	}
	bx := (x*s.subsample() + s.scroll) % s.resY
	u := fixed.Unit(bx * int(fixed.UnitsPerSquare) / s.resY)
	v := fixed.Unit(y * int(fixed.UnitsPerSquare) / s.resY)
	return bg.Sample(u, v)
}

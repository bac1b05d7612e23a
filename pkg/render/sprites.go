package render

import (
	"slices"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/raycast"
)

// minSpriteDepth keeps sprites that touch the camera from filling the screen.
const minSpriteDepth = fixed.UnitsPerSquare / 8

// Billboard is a square image standing upright in the world, always facing
// the camera.
type Billboard struct {
	Position fixed.Vec2
	Bottom   fixed.Unit // world height of the lower edge
	Size     fixed.Unit // world width and height
	Image    int        // index into TextureSet.Sprites
}

type projectedSprite struct {
	index  int
	screen raycast.PixelInfo
}

// SpriteRenderer draws billboards over a shaded frame, hidden by walls
// through the shader's depth buffer. It keeps its sort buffer between
// frames.
type SpriteRenderer struct {
	visible []projectedSprite
}

// Draw projects sprites with cam, which must be the camera the frame was
// rendered with, and draws them far to near. It returns the number of
// sprites at least partly in front of the camera.
func (r *SpriteRenderer) Draw(s *Shader, cam raycast.Camera, sprites []Billboard) int {
	r.visible = r.visible[:0]
	for i, b := range sprites {
		p := raycast.MapToScreen(b.Position, b.Bottom+b.Size/2, cam)
		if p.Depth < minSpriteDepth {
			continue
		}
		r.visible = append(r.visible, projectedSprite{index: i, screen: p})
	}

	slices.SortFunc(r.visible, func(a, b projectedSprite) int {
		return int(b.screen.Depth) - int(a.screen.Depth)
	})

	for _, v := range r.visible {
		s.drawSprite(sprites[v.index], v.screen)
	}
	return len(r.visible)
}

// drawSprite draws one projected billboard at rendered resolution.
func (s *Shader) drawSprite(b Billboard, p raycast.PixelInfo) {
	tex := s.Textures.Sprite(b.Image)
	if tex == nil || s.resX == 0 || s.resY == 0 {
		return
	}

	depth := p.Depth
	height := int(fixed.MulDiv(fixed.Unit(s.resY), fixed.PerspectiveScale(b.Size, depth), fixed.UnitsPerSquare))
	width := int(fixed.MulDiv(b.Size, fixed.Unit(s.resX/2), depth))
	if height <= 0 || width <= 0 || height > 4*s.resY {
		return
	}

	x0 := p.Position.X - width/2
	y0 := p.Position.Y - height/2
	shadow := 0
	if s.FogStep > 0 {
		shadow = int(int64(depth) / int64(s.FogStep))
	}
	n := s.subsample()

	for x := max(x0, 0); x < min(x0+width, s.resX); x++ {
		u := fixed.Unit((x - x0) * int(fixed.UnitsPerSquare) / width)
		for y := max(y0, 0); y < min(y0+height, s.resY); y++ {
			i := y*s.resX + x
			if depth >= s.depth[i] {
				continue
			}
			v := fixed.Unit((y - y0) * int(fixed.UnitsPerSquare) / height)
			c := tex.Sample(u, v)
			if c.A == 0 {
				continue
			}
			c = Shade(c, shadow)
			s.depth[i] = depth
			for k := range n {
				s.Target.SetPixel(x*n+k, y, c)
			}
		}
	}
}

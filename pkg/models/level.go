package models

import (
	"fmt"
	"image"
	"image/color"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/level"
)

// Material slots used by FromLevel. Walls use the slot of their texture
// index, 0 to level.TextureCount-1.
const (
	FloorMaterial   = level.TextureCount
	CeilingMaterial = level.TextureCount + 1
)

type edge struct {
	dx, dy int
	// endpoints on the ground plane, ordered so the wall faces the square
	x0, z0, x1, z1 float32
}

var edges = [4]edge{
	{dx: 1, x0: 1, z0: 0, x1: 1, z1: 1},
	{dx: -1, x0: 0, z0: 1, x1: 0, z1: 0},
	{dy: 1, x0: 1, z0: 1, x1: 0, z1: 1},
	{dy: -1, x0: 0, z0: 0, x1: 1, z1: 0},
}

// FromLevel builds the level's current geometry as it looks to the
// raycaster: one floor quad per square, a ceiling quad under every
// ceiling, and wall quads wherever the floor rises or the ceiling drops
// between neighbours. One model unit is one square; model Y is height and
// model Z follows the level's y axis.
//
// walls[i], when present, becomes the texture of wall material i.
func FromLevel(l *level.Level, walls []image.Image) *Mesh {
	m := NewMesh(l.Name)
	for i := range level.TextureCount {
		mat := Material{Name: fmt.Sprintf("wall%d", i), BaseColor: [4]float64{0.7, 0.7, 0.7, 1}}
		if i < len(walls) {
			mat.Texture = walls[i]
		}
		m.Materials = append(m.Materials, mat)
	}
	m.Materials = append(m.Materials,
		Material{Name: "floor", BaseColor: colorFactor(l.FloorColor)},
		Material{Name: "ceiling", BaseColor: colorFactor(l.CeilingColor)},
	)

	top := fixed.Unit(0)
	for y := range l.Height {
		for x := range l.Width {
			top = max(top, l.FloorHeightAt(x, y))
			if c := l.CeilingHeightAt(x, y); c < level.CeilingMaxHeight {
				top = max(top, c)
			}
		}
	}

	for y := range l.Height {
		for x := range l.Width {
			addSquare(m, l, x, y, top)
		}
	}
	m.CalculateBounds()
	return m
}

func addSquare(m *Mesh, l *level.Level, x, y int, levelTop fixed.Unit) {
	f := l.FloorHeightAt(x, y)
	c := l.CeilingHeightAt(x, y)
	sky := c >= level.CeilingMaxHeight
	open := sky || c > f

	fx, fz := float32(x), float32(y)
	fh := height(f)
	squareUV := [4]Vec2{{fx, fz}, {fx, fz + 1}, {fx + 1, fz + 1}, {fx + 1, fz}}

	floorMat := FloorMaterial
	if !open {
		floorMat = level.FloorTexture(l.TextureAt(x, y))
	}
	m.AddQuad(V3(fx, fh, fz), V3(fx, fh, fz+1), V3(fx+1, fh, fz+1), V3(fx+1, fh, fz), squareUV, floorMat)

	if !open {
		return
	}
	if !sky {
		ch := height(c)
		m.AddQuad(V3(fx, ch, fz), V3(fx+1, ch, fz), V3(fx+1, ch, fz+1), V3(fx, ch, fz+1),
			[4]Vec2{{fx, fz}, {fx + 1, fz}, {fx + 1, fz + 1}, {fx, fz + 1}}, CeilingMaterial)
	}

	ceilTop := c
	if sky {
		ceilTop = levelTop
	}
	for _, e := range edges {
		nx, ny := x+e.dx, y+e.dy
		nf := l.FloorHeightAt(nx, ny)
		nc := l.CeilingHeightAt(nx, ny)
		tex := l.TextureAt(nx, ny)

		floorTop := nf
		if !sky {
			floorTop = min(nf, c)
		}
		if floorTop > f {
			addWall(m, fx, fz, e, f, floorTop, level.FloorTexture(tex))
		}

		if nc >= level.CeilingMaxHeight {
			continue
		}
		if bottom := max(nc, f); bottom < ceilTop {
			addWall(m, fx, fz, e, bottom, ceilTop, level.CeilingTexture(tex))
		}
	}
}

func addWall(m *Mesh, x, z float32, e edge, lo, hi fixed.Unit, material int) {
	l, h := height(lo), height(hi)
	p0x, p0z := x+e.x0, z+e.z0
	p1x, p1z := x+e.x1, z+e.z1
	m.AddQuad(V3(p0x, l, p0z), V3(p1x, l, p1z), V3(p1x, h, p1z), V3(p0x, h, p0z),
		[4]Vec2{{0, -l}, {1, -l}, {1, -h}, {0, -h}}, material)
}

func height(u fixed.Unit) float32 {
	return float32(u) / float32(fixed.UnitsPerSquare)
}

func colorFactor(c color.RGBA) [4]float64 {
	return [4]float64{float64(c.R) / 255, float64(c.G) / 255, float64(c.B) / 255, float64(c.A) / 255}
}

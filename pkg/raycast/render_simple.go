package raycast

import (
	"github.com/taigrr/gridcast/pkg/fixed"
)

// RenderSimple renders a level with a flat floor, walls of varying height
// and an open sky. It supports sliding doors through the optional roll grid
// but ignores camera shear. Every pixel of the camera resolution is passed to
// the sink exactly once, left to right and top to bottom within a column.
//
// floor must report 0 for open squares. types and roll may be nil. Only
// c.MaxSteps is honored; the hit count is chosen by the renderer.
func (r *Renderer) RenderSimple(cam Camera, floor, types, roll Grid, c RayConstraints) {
	c.MaxHits = 1
	if roll != nil {
		// Rendering a sliding door correctly needs the hit behind it on
		// both axes.
		c.MaxHits = 3
	}

	if !r.begin(cam, c.MaxHits) {
		return
	}

	r.mode = modeSimple
	r.floor = floor
	r.ceiling = nil
	r.roll = roll
	r.middleRow = r.resY / 2
	r.cameraHeightScreen = fixed.MulDiv(r.resY, cam.Height-fixed.UnitsPerSquare, fixed.UnitsPerSquare)

	if r.cfg.FloorTexCoords {
		r.precomputeFloorDistances()
	}

	r.squareID.floor = floor
	r.caster.Array = &r.squareID
	r.caster.Type = types
	r.caster.Roll = roll

	r.caster.castRays(cam, r.hits, c, r)
}

func (r *Renderer) columnSimple(hits []HitResult, x int, ray Ray) {
	const U = fixed.UnitsPerSquare

	var wallHeightScreen, wallHeightWorld fixed.Unit
	wallStart := r.middleRow
	dist := fixed.Unit(1)
	haveWall := false

	p := &r.pixel
	*p = PixelInfo{}
	p.Position.X = x
	p.WallHeight = U

	if len(hits) > 0 {
		hit := hits[0]
		haveWall = true

		if r.roll != nil {
			if hit.ArrayValue == 0 {
				// Standing inside a door square looking out.
				if len(hits) > 1 {
					hit = hits[1]
				} else {
					haveWall = false
				}
			} else if doorOpenAt(hit) {
				haveWall = false
				if len(hits) > 1 {
					if hit.Direction%2 != hits[1].Direction%2 {
						// inner side of the door square
						hit = hits[1]
						haveWall = true
					} else if len(hits) > 2 {
						// far side of the door square
						hit = hits[2]
						haveWall = true
					}
				}
			}
		}

		p.Hit = hit

		if haveWall {
			dist = hit.Distance
			wallHeightWorld = r.floor.At(hit.Square.X, hit.Square.Y)
			wallHeightScreen = fixed.PerspectiveScale(fixed.MulDiv(wallHeightWorld, r.resY, U), dist)

			var normalized fixed.Unit
			if wallHeightWorld != 0 {
				normalized = fixed.MulDiv(U, wallHeightScreen, wallHeightWorld)
			}

			heightOffset := fixed.PerspectiveScale(r.cameraHeightScreen, dist)
			wallStart = r.middleRow - wallHeightScreen + heightOffset + normalized
		}
	} else {
		makeInfiniteHit(&p.Hit, ray)
	}

	// sky
	p.IsWall = false
	p.IsFloor = false
	p.IsHorizon = true
	p.Depth = 1
	p.Height = U

	y := r.drawVertical(-1, wallStart, -1, r.middleRow, r.cam.Height, 1, false, 1)

	// wall
	p.IsFloor = true
	p.IsHorizon = !haveWall
	p.Depth = dist
	p.Height = 0

	if !r.cfg.StaticDoorTextures {
		p.Hit.TextureCoord -= p.Hit.DoorRoll
	}
	p.TexCoords = fixed.Vec2{X: p.Hit.TextureCoord}

	limit := r.drawWall(y, wallStart, wallStart+wallHeightScreen-1, -1, r.resY-1, wallHeightWorld, 1)

	// Walls that start below the visible sky still leave y at the sky's
	// end, so the floor picks up every remaining row.
	y = fixed.Max(y, limit)

	// floor
	p.IsWall = false
	p.IsHorizon = false
	p.Depth = (r.resY-y)*r.horizontalDepthStep + 1

	r.drawVertical(y, r.resY-1, -1, r.resY-1, r.cam.Height, 1, r.cfg.FloorTexCoords, -1)
}

// doorOpenAt reports whether the door in the hit square is rolled away at
// the hit's texture coordinate.
func doorOpenAt(hit HitResult) bool {
	texCoordMod := hit.TextureCoord % fixed.UnitsPerSquare
	if hit.DoorRoll >= 0 {
		return hit.DoorRoll > texCoordMod
	}
	return texCoordMod > fixed.UnitsPerSquare+hit.DoorRoll
}

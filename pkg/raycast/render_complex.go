package raycast

import (
	"github.com/taigrr/gridcast/pkg/fixed"
)

// RenderComplex renders a level with per-square floor and ceiling heights,
// camera shear and multiple hits per column. ceiling and types may be nil; a
// nil ceiling means an open sky. Every pixel of the camera resolution is
// passed to the sink exactly once.
//
// c.MaxHits controls how many height changes are drawn behind each other; at
// least 1 is needed to see any walls.
func (r *Renderer) RenderComplex(cam Camera, floor, ceiling, types Grid, c RayConstraints) {
	if !r.begin(cam, c.MaxHits) {
		return
	}

	r.mode = modeComplex
	r.floor = floor
	r.ceiling = ceiling
	r.roll = nil

	halfResY := r.resY / 2
	r.middleRow = halfResY + fixed.Unit(cam.Shear)
	r.fHorizonStart = r.middleRow + halfResY
	r.cHorizonStart = r.middleRow - halfResY

	sx, sy := cam.Position.Square()
	r.startFloorHeight = floor.At(sx, sy) - cam.Height
	r.startCeilHeight = fixed.Infinity
	if ceiling != nil {
		r.startCeilHeight = ceiling.At(sx, sy) - cam.Height
	}

	if r.cfg.FloorTexCoords {
		r.precomputeFloorDistances()
	}

	r.floorCeil = floorCeilGrid{floor: floor, ceiling: ceiling}
	r.caster.Array = &r.floorCeil
	r.caster.Type = types
	r.caster.Roll = nil

	r.caster.castRays(cam, r.hits, c, r)
}

// columnComplex draws floor and ceiling toward each other, hit by hit.
// fPosY and cPosY are the last rows written from the bottom and from the top;
// they only move toward each other and every draw is clamped between them.
func (r *Renderer) columnComplex(hits []HitResult, x int, ray Ray) {
	fPosY := r.resY
	cPosY := fixed.Unit(-1)

	// relative to camera height
	fZ1World := r.startFloorHeight
	cZ1World := r.startCeilHeight

	p := &r.pixel
	*p = PixelInfo{}
	p.Position.X = x

	for j := 0; j <= len(hits); j++ {
		horizon := j == len(hits)

		var hit HitResult
		distance := fixed.Unit(1)

		var fWallHeight, cWallHeight fixed.Unit
		var fZ2World, cZ2World fixed.Unit
		var fZ1Screen, cZ1Screen fixed.Unit
		var fZ2Screen, cZ2Screen fixed.Unit

		if !horizon {
			hit = hits[j]
			distance = fixed.NonZero(hit.Distance)
			p.Hit = hit

			fWallHeight = r.floor.At(hit.Square.X, hit.Square.Y)
			fZ2World = fWallHeight - r.cam.Height
			fZ1Screen = r.toScreen(fZ1World, distance)
			fZ2Screen = r.toScreen(fZ2World, distance)

			if r.ceiling != nil {
				cWallHeight = r.ceiling.At(hit.Square.X, hit.Square.Y)
				cZ2World = cWallHeight - r.cam.Height
				cZ1Screen = r.toScreen(cZ1World, distance)
				cZ2Screen = r.toScreen(cZ2World, distance)
			}
		} else {
			fZ1Screen = r.middleRow
			cZ1Screen = r.middleRow + 1
			makeInfiniteHit(&p.Hit, ray)
		}

		p.IsWall = false
		p.IsHorizon = horizon

		// floor up to the wall
		p.IsFloor = true
		p.Height = fZ1World + r.cam.Height
		p.WallHeight = 0
		p.Depth = (r.fHorizonStart - fPosY) * r.horizontalDepthStep

		coords := r.cfg.FloorTexCoords && p.Height == r.cfg.FloorTexCoordsHeight
		limit := r.drawVertical(fPosY, fZ1Screen, cPosY+1, r.resY, fZ1World, -1, coords, 1)
		fPosY = fixed.Min(fPosY, limit)

		if r.ceiling != nil || horizon {
			// ceiling down to the wall
			p.IsFloor = false
			p.Height = cZ1World + r.cam.Height
			p.Depth = (cPosY - r.cHorizonStart) * r.horizontalDepthStep

			limit = r.drawVertical(cPosY, cZ1Screen, -1, fPosY-1, cZ1World, 1, false, 1)
			cPosY = fixed.Max(cPosY, limit)
		}

		if horizon {
			continue
		}

		p.IsWall = true
		p.Depth = distance
		p.IsFloor = true
		p.TexCoords.X = hit.TextureCoord
		p.Height = fZ1World + r.cam.Height
		p.WallHeight = fWallHeight

		if fPosY > 0 {
			limit = r.drawWall(fPosY, fZ1Screen, fZ2Screen, cPosY+1, r.resY, fZ2World-fZ1World, -1)
			fPosY = fixed.Min(fPosY, limit)
			fZ1World = fZ2World
		}

		if r.ceiling != nil && cPosY < r.resY-1 {
			p.IsFloor = false
			p.Height = cZ1World + r.cam.Height
			p.WallHeight = cWallHeight

			limit = r.drawWall(cPosY, cZ1Screen, cZ2Screen, -1, fPosY-1, cZ1World-cZ2World, 1)
			cPosY = fixed.Max(cPosY, limit)
			cZ1World = cZ2World
		}
	}
}

// toScreen projects a height relative to the camera onto a screen row.
func (r *Renderer) toScreen(height, distance fixed.Unit) fixed.Unit {
	return r.middleRow - fixed.PerspectiveScale(fixed.MulDiv(height, r.resY, fixed.UnitsPerSquare), distance)
}

package raycast

import (
	"image"

	"github.com/taigrr/gridcast/pkg/fixed"
)

const singleRayMaxSteps = 1000

// Caster walks rays through a grid.
type Caster struct {
	// Array is the traversal grid. A hit is recorded wherever its value
	// changes along the ray.
	Array Grid

	// Type, if set, is sampled at every hit into HitResult.Type.
	Type Grid

	// Roll, if set, is sampled at every hit into HitResult.DoorRoll.
	Roll Grid

	Projection Projection

	// Metric measures direction lengths and curvilinear distances.
	Metric fixed.Metric
}

// CastMultiHit walks ray through the grid and records surface crossings into
// hits. It returns the number of hits recorded, which never exceeds
// c.MaxHits or len(hits). The traversal grid is queried at most c.MaxSteps
// times.
func (cs *Caster) CastMultiHit(ray Ray, hits []HitResult, c RayConstraints) int {
	const U = int64(fixed.UnitsPerSquare)

	maxHits := min(c.MaxHits, len(hits))
	if c.MaxSteps <= 0 || maxHits <= 0 {
		return 0
	}

	sqX, sqY := ray.Start.Square()
	squareType := cs.Array.At(sqX, sqY)

	dirLen := int64(cs.Metric.Len(ray.Direction)) * U
	deltaX := abs64(dirLen / int64(fixed.NonZero(ray.Direction.X)))
	deltaY := abs64(dirLen / int64(fixed.NonZero(ray.Direction.Y)))

	var stepX, stepY int
	var sideX, sideY int64

	if ray.Direction.X < 0 {
		stepX = -1
		sideX = int64(fixed.Wrap(ray.Start.X, fixed.UnitsPerSquare)) * deltaX / U
	} else {
		stepX = 1
		sideX = int64(fixed.Wrap(fixed.UnitsPerSquare-ray.Start.X, fixed.UnitsPerSquare)) * deltaX / U
	}

	if ray.Direction.Y < 0 {
		stepY = -1
		sideY = int64(fixed.Wrap(ray.Start.Y, fixed.UnitsPerSquare)) * deltaY / U
	} else {
		stepY = 1
		sideY = int64(fixed.Wrap(fixed.UnitsPerSquare-ray.Start.Y, fixed.UnitsPerSquare)) * deltaY / U
	}

	n := 0
	horizontal := false

	// The start square counts as the first step.
	for i := 1; i < c.MaxSteps; i++ {
		if sideX < sideY {
			sideX += deltaX
			sqX += stepX
			horizontal = true
		} else {
			sideY += deltaY
			sqY += stepY
			horizontal = false
		}

		current := cs.Array.At(sqX, sqY)
		if current == squareType {
			continue
		}

		h := &hits[n]
		*h = HitResult{
			Square:     image.Pt(sqX, sqY),
			ArrayValue: current,
		}
		cs.resolveHit(h, ray, horizontal, stepX, stepY)

		n++
		squareType = current

		if n >= maxHits {
			break
		}
	}

	return n
}

// resolveHit fills in the geometry of a hit on h.Square.
func (cs *Caster) resolveHit(h *HitResult, ray Ray, horizontal bool, stepX, stepY int) {
	const U = fixed.UnitsPerSquare

	if horizontal {
		h.Position.X = fixed.Unit(h.Square.X) * U
		h.Direction = West
		if stepX == -1 {
			h.Direction = East
			h.Position.X += U
		}

		diff := h.Position.X - ray.Start.X
		h.Position.Y = ray.Start.Y + fixed.MulDiv(ray.Direction.Y, diff, fixed.NonZero(ray.Direction.X))

		if cs.Projection == Rectilinear {
			// Hypotenuse ratio equals leg ratio along the crossed axis.
			h.Distance = fixed.MulDiv(diff, U, fixed.NonZero(ray.Direction.X))
		}
	} else {
		h.Position.Y = fixed.Unit(h.Square.Y) * U
		h.Direction = South
		if stepY == -1 {
			h.Direction = North
			h.Position.Y += U
		}

		diff := h.Position.Y - ray.Start.Y
		h.Position.X = ray.Start.X + fixed.MulDiv(ray.Direction.X, diff, fixed.NonZero(ray.Direction.Y))

		if cs.Projection == Rectilinear {
			h.Distance = fixed.MulDiv(diff, U, fixed.NonZero(ray.Direction.Y))
		}
	}

	if cs.Projection == Curvilinear {
		h.Distance = cs.Metric.Dist(h.Position, ray.Start)
	}

	if cs.Type != nil {
		h.Type = cs.Type.At(h.Square.X, h.Square.Y)
	}

	switch h.Direction {
	case North:
		h.TextureCoord = fixed.Wrap(-h.Position.X, U)
	case East:
		h.TextureCoord = fixed.Wrap(h.Position.Y, U)
	case South:
		h.TextureCoord = fixed.Wrap(h.Position.X, U)
	case West:
		h.TextureCoord = fixed.Wrap(-h.Position.Y, U)
	}

	if cs.Roll != nil {
		h.DoorRoll = cs.Roll.At(h.Square.X, h.Square.Y)
		if h.Direction == North || h.Direction == East {
			h.DoorRoll = -h.DoorRoll
		}
	}
}

// Cast returns the first hit of ray, or a result with Distance -1.
func (cs *Caster) Cast(ray Ray) HitResult {
	var hits [1]HitResult
	if cs.CastMultiHit(ray, hits[:], RayConstraints{MaxHits: 1, MaxSteps: singleRayMaxSteps}) == 0 {
		return HitResult{Distance: -1}
	}
	return hits[0]
}

// CastRay returns the first surface of grid crossed by ray, or a result with
// Distance -1 if none is found within 1000 steps.
func CastRay(ray Ray, grid Grid) HitResult {
	cs := Caster{Array: grid}
	return cs.Cast(ray)
}

// ColumnFunc receives the hits of the ray cast for screen column x.
type ColumnFunc func(hits []HitResult, x int, ray Ray)

func (f ColumnFunc) drawColumn(hits []HitResult, x int, ray Ray) {
	f(hits, x, ray)
}

type columnDrawer interface {
	drawColumn(hits []HitResult, x int, ray Ray)
}

// CastRays casts one ray per camera column and passes each result to column.
// Ray directions are interpolated linearly across the field of view, which
// keeps rectilinear distances perpendicular to the view plane. hits is reused
// for every column.
func (cs *Caster) CastRays(cam Camera, hits []HitResult, c RayConstraints, column ColumnFunc) {
	cs.castRays(cam, hits, c, column)
}

func (cs *Caster) castRays(cam Camera, hits []HitResult, c RayConstraints, col columnDrawer) {
	if cam.Resolution.X <= 0 {
		return
	}

	dir1 := fixed.AngleToDirection(cam.Direction - fixed.HorizontalFOVHalf)
	dir2 := fixed.AngleToDirection(cam.Direction + fixed.HorizontalFOVHalf)

	dX := dir2.X - dir1.X
	dY := dir2.Y - dir1.Y
	resX := fixed.Unit(cam.Resolution.X)

	var currentDX, currentDY fixed.Unit
	r := Ray{Start: cam.Position}

	for i := 0; i < cam.Resolution.X; i++ {
		r.Direction.X = dir1.X + currentDX/resX
		r.Direction.Y = dir1.Y + currentDY/resX

		n := cs.CastMultiHit(r, hits, c)
		col.drawColumn(hits[:n], i, r)

		currentDX += dX
		currentDY += dY
	}
}

func abs64(v int64) int64 {
	if v < 0 {
		return -v
	}
	return v
}

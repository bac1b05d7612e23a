package raycast

import (
	"github.com/taigrr/gridcast/pkg/fixed"
)

// CollisionConfig describes the camera's collision box. The box is a square
// of 2*Radius around the camera position, spanning from HeightBelow under the
// camera to HeightAbove over it.
type CollisionConfig struct {
	Radius      fixed.Unit
	HeightBelow fixed.Unit
	HeightAbove fixed.Unit

	// StepHeight is the tallest floor change the camera walks over.
	StepHeight fixed.Unit
}

// DefaultCollision returns a box a quarter square wide, standing one square
// above the floor, with room for a third of a square above and steps of half
// a square.
func DefaultCollision() CollisionConfig {
	const U = fixed.UnitsPerSquare
	return CollisionConfig{
		Radius:      U / 4,
		HeightBelow: U,
		HeightAbove: U / 3,
		StepHeight:  U / 2,
	}
}

// Movement is a requested camera displacement.
type Movement struct {
	Plane  fixed.Vec2
	Height fixed.Unit

	// ComputeHeight enables floor and ceiling collision. Without it the
	// camera only collides with squares taller than StepHeight and its
	// height is left untouched.
	ComputeHeight bool

	// Force resolves collisions even for a zero displacement, e.g. after
	// the level geometry moved.
	Force bool
}

// Move displaces cam by m, sliding along walls instead of passing through
// them. With ComputeHeight the camera height is then clamped between the
// floor and ceiling under the box. ceiling may be nil.
//
// Offsets should stay below one square per call; larger offsets may tunnel.
func (cc CollisionConfig) Move(cam *Camera, m Movement, floor, ceiling Grid) {
	const U = fixed.UnitsPerSquare

	movesInPlane := m.Plane.X != 0 || m.Plane.Y != 0

	if movesInPlane || m.Force {
		xDir, yDir := fixed.Unit(-1), fixed.Unit(-1)
		if m.Plane.X > 0 {
			xDir = 1
		}
		if m.Plane.Y > 0 {
			yDir = 1
		}

		// box corner in the direction of movement
		corner := fixed.Vec2{
			X: cam.Position.X + xDir*cc.Radius,
			Y: cam.Position.Y + yDir*cc.Radius,
		}
		xSquare, ySquare := corner.Square()

		cornerNew := corner.Add(m.Plane)
		xSquareNew, ySquareNew := cornerNew.Square()

		bottomLimit, topLimit := -fixed.Infinity, fixed.Infinity
		if m.ComputeHeight {
			bottomLimit = cam.Height - cc.HeightBelow + cc.StepHeight
			topLimit = cam.Height + cc.HeightAbove
		}

		blocked := func(x, y int) bool {
			if !m.ComputeHeight {
				return floor.At(x, y) > cc.StepHeight
			}
			if floor.At(x, y) > bottomLimit {
				return true
			}
			return ceiling != nil && ceiling.At(x, y) < topLimit
		}

		xCollides := false
		if xSquareNew != xSquare {
			xCollides = blocked(xSquareNew, ySquare)
		}
		if !xCollides {
			// the trailing edge of the box may overlap the next row
			ySquare2 := int(fixed.DivRoundDown(corner.Y-yDir*cc.Radius*2, U))
			if ySquare2 != ySquare {
				xCollides = blocked(xSquareNew, ySquare2)
			}
		}

		yCollides := false
		if ySquareNew != ySquare {
			yCollides = blocked(xSquare, ySquareNew)
		}
		if !yCollides {
			xSquare2 := int(fixed.DivRoundDown(corner.X-xDir*cc.Radius*2, U))
			if xSquare2 != xSquare {
				yCollides = blocked(xSquare2, ySquareNew)
			}
		}

		if !xCollides && !yCollides && xSquare != xSquareNew && ySquare != ySquareNew {
			// Diagonal into a blocked corner square: stay put.
			if blocked(xSquareNew, ySquareNew) {
				cornerNew = corner
			}
		}

		if xCollides {
			cornerNew.X = fixed.Unit(xSquare)*U + U/2 + xDir*(U/2) - xDir
		}
		if yCollides {
			cornerNew.Y = fixed.Unit(ySquare)*U + U/2 + yDir*(U/2) - yDir
		}

		cam.Position = fixed.Vec2{
			X: cornerNew.X - xDir*cc.Radius,
			Y: cornerNew.Y - yDir*cc.Radius,
		}
	}

	if !m.ComputeHeight || (!movesInPlane && m.Height == 0 && !m.Force) {
		return
	}

	cam.Height += m.Height

	xSquare1 := int(fixed.DivRoundDown(cam.Position.X-cc.Radius, U))
	xSquare2 := int(fixed.DivRoundDown(cam.Position.X+cc.Radius, U))
	ySquare1 := int(fixed.DivRoundDown(cam.Position.Y-cc.Radius, U))
	ySquare2 := int(fixed.DivRoundDown(cam.Position.Y+cc.Radius, U))

	bottomLimit := floor.At(xSquare1, ySquare1)
	topLimit := fixed.Infinity
	if ceiling != nil {
		topLimit = ceiling.At(xSquare1, ySquare1)
	}

	include := func(x, y int) {
		bottomLimit = fixed.Max(bottomLimit, floor.At(x, y))
		if ceiling != nil {
			topLimit = fixed.Min(topLimit, ceiling.At(x, y))
		}
	}

	if xSquare2 != xSquare1 {
		include(xSquare2, ySquare1)
	}
	if ySquare2 != ySquare1 {
		include(xSquare1, ySquare2)
	}
	if xSquare2 != xSquare1 && ySquare2 != ySquare1 {
		include(xSquare2, ySquare2)
	}

	cam.Height = fixed.Clamp(cam.Height, bottomLimit+cc.HeightBelow, topLimit-cc.HeightAbove)
}

// MoveCameraWithCollision moves cam using the default collision box.
func MoveCameraWithCollision(
	cam *Camera,
	planeOffset fixed.Vec2,
	heightOffset fixed.Unit,
	floor, ceiling Grid,
	computeHeight, force bool,
) {
	DefaultCollision().Move(cam, Movement{
		Plane:         planeOffset,
		Height:        heightOffset,
		ComputeHeight: computeHeight,
		Force:         force,
	}, floor, ceiling)
}

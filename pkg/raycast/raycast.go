// Package raycast provides a fixed-point 2.5D raycasting and collision engine.
//
// The world is an unbounded integer grid that the engine never stores; it
// queries caller-supplied Grids instead. Rays are walked through the grid with
// an incremental DDA, every change of the queried value is a hit, and the
// renderers turn the hits of one ray per screen column into pixels handed to a
// PixelSink. The camera mover resolves movement against the same grids.
//
// Everything here is integer-only, single-threaded and bounded: traversal
// loops are capped by RayConstraints, and rendering reuses buffers owned by the
// Renderer so that a steady-state frame allocates nothing.
package raycast

import (
	"fmt"
	"image"

	"github.com/taigrr/gridcast/pkg/fixed"
)

// Grid answers a scalar for any integer cell. Between two cells that return
// different values there is a surface.
//
// Implementations must return a stable value for every coordinate, including
// ones outside the level, and should be cheap: they run on every ray step.
type Grid interface {
	At(x, y int) fixed.Unit
}

// GridFunc adapts a plain function to the Grid interface.
type GridFunc func(x, y int) fixed.Unit

// At calls f(x, y).
func (f GridFunc) At(x, y int) fixed.Unit {
	return f(x, y)
}

// Ray is a start position and a direction. The direction need not be
// normalized.
type Ray struct {
	Start     fixed.Vec2
	Direction fixed.Vec2
}

func (r Ray) String() string {
	return fmt.Sprintf("ray{start: %v, dir: %v}", r.Start, r.Direction)
}

// Side identifies which face of a square a ray crossed.
type Side uint8

const (
	// North is the face hit by a ray travelling toward -y.
	North Side = iota
	// East is the face hit by a ray travelling toward -x.
	East
	// South is the face hit by a ray travelling toward +y.
	South
	// West is the face hit by a ray travelling toward +x.
	West
)

func (s Side) String() string {
	switch s {
	case North:
		return "north"
	case East:
		return "east"
	case South:
		return "south"
	case West:
		return "west"
	default:
		return fmt.Sprintf("side(%d)", uint8(s))
	}
}

// HitResult is one recorded surface crossing.
type HitResult struct {
	Square       image.Point // square that was entered
	Position     fixed.Vec2  // exact crossing point
	Distance     fixed.Unit  // perpendicular or radial distance, -1 for no hit
	Direction    Side
	TextureCoord fixed.Unit // horizontal texture coordinate in [0, UnitsPerSquare)
	ArrayValue   fixed.Unit // value of the traversal grid at Square
	Type         fixed.Unit // value of the type grid at Square
	DoorRoll     fixed.Unit // value of the roll grid at Square, signed by face
}

func (h HitResult) String() string {
	return fmt.Sprintf("hit{square: %v, pos: %v, dist: %d, dir: %v, texcoord: %d}",
		h.Square, h.Position, h.Distance, h.Direction, h.TextureCoord)
}

// RayConstraints bound the work done for a single ray.
type RayConstraints struct {
	MaxHits  int
	MaxSteps int
}

// DefaultRayConstraints returns one hit and twenty steps.
func DefaultRayConstraints() RayConstraints {
	return RayConstraints{MaxHits: 1, MaxSteps: 20}
}

// Camera is the viewer. It is owned by the caller, read by the renderers and
// written only by the collision mover.
type Camera struct {
	Position   fixed.Vec2
	Direction  fixed.Unit  // angle, 0 = +x, positive is clockwise
	Resolution image.Point // columns x rows of the render target
	Shear      int         // vertical look offset in pixels
	Height     fixed.Unit
}

// NewCamera returns a camera at the origin facing +x, one square high, with a
// 20x15 resolution.
func NewCamera() Camera {
	return Camera{
		Resolution: image.Pt(20, 15),
		Height:     fixed.UnitsPerSquare,
	}
}

func (c Camera) String() string {
	return fmt.Sprintf("camera{pos: %v, height: %d, dir: %d, shear: %d, res: %dx%d}",
		c.Position, c.Height, c.Direction, c.Shear, c.Resolution.X, c.Resolution.Y)
}

// PixelInfo describes one pixel handed to a PixelSink.
type PixelInfo struct {
	Position   image.Point
	IsWall     bool
	IsFloor    bool // floor side (true) or ceiling side (false)
	IsHorizon  bool
	Depth      fixed.Unit
	WallHeight fixed.Unit
	Height     fixed.Unit // world height of the surface
	Hit        HitResult
	TexCoords  fixed.Vec2
}

func (p PixelInfo) String() string {
	return fmt.Sprintf("pixel{pos: %v, wall: %t, floor: %t, horizon: %t, depth: %d, height: %d, tex: %v, %v}",
		p.Position, p.IsWall, p.IsFloor, p.IsHorizon, p.Depth, p.Height, p.TexCoords, p.Hit)
}

// PixelSink receives every rendered pixel. The PixelInfo is only valid for the
// duration of the call.
type PixelSink interface {
	Pixel(p *PixelInfo)
}

// PixelFunc adapts a plain function to the PixelSink interface.
type PixelFunc func(p *PixelInfo)

// Pixel calls f(p).
func (f PixelFunc) Pixel(p *PixelInfo) {
	f(p)
}

// Projection selects how hit distances are measured.
type Projection uint8

const (
	// Rectilinear reports distances perpendicular to the view plane.
	Rectilinear Projection = iota
	// Curvilinear reports straight distances from the ray start (fish eye).
	Curvilinear
)

func (p Projection) String() string {
	if p == Curvilinear {
		return "curvilinear"
	}
	return "rectilinear"
}

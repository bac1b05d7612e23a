package raycast

import (
	"github.com/taigrr/gridcast/pkg/fixed"
)

// MapToScreen projects a world point at the given height onto the camera's
// screen. The returned Depth is the distance along the view direction; it is
// zero or negative for points behind the camera, whose screen position is
// meaningless.
func MapToScreen(pos fixed.Vec2, height fixed.Unit, cam Camera) PixelInfo {
	const U = int64(fixed.UnitsPerSquare)

	var result PixelInfo

	toX := int64(pos.X - cam.Position.X)
	toY := int64(pos.Y - cam.Position.Y)

	cos := int64(fixed.Cos(cam.Direction))
	sin := int64(fixed.Sin(cam.Direction))

	// rotate into camera space
	depth := fixed.Unit((toX*cos - toY*sin) / U)
	side := fixed.Unit((toX*sin + toY*cos) / U)

	middleColumn := fixed.Unit(cam.Resolution.X / 2)
	resY := fixed.Unit(cam.Resolution.Y)

	result.Depth = depth
	result.Position.X = int(middleColumn + fixed.MulDiv(-side, middleColumn, fixed.NonZero(depth)))
	result.Position.Y = int(resY/2-
		fixed.MulDiv(resY, fixed.PerspectiveScale(height-cam.Height, depth), fixed.UnitsPerSquare)) + cam.Shear

	return result
}

// AdjustDistance converts a straight distance measured along ray into the
// distance perpendicular to the camera's view plane. The result is never
// zero.
func AdjustDistance(distance fixed.Unit, cam Camera, ray Ray) fixed.Unit {
	c := fixed.VectorsAngleCos(fixed.AngleToDirection(cam.Direction), ray.Direction)
	return fixed.NonZero(fixed.MulDiv(distance, c, fixed.UnitsPerSquare))
}

package fixed

import "fmt"

// Vec2 is a position or direction in the ground plane.
type Vec2 struct {
	X, Y Unit
}

// V2 creates a vector.
func V2(x, y Unit) Vec2 {
	return Vec2{X: x, Y: y}
}

// Add returns v + o.
func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

// Sub returns v - o.
func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

// Scale returns v * num / den, component-wise.
func (v Vec2) Scale(num, den Unit) Vec2 {
	return Vec2{X: MulDiv(v.X, num, den), Y: MulDiv(v.Y, num, den)}
}

// Dot returns the dot product of v and o.
func (v Vec2) Dot(o Vec2) Unit {
	return v.X*o.X + v.Y*o.Y
}

// Len returns the Euclidean length of v.
func (v Vec2) Len() Unit {
	return Euclidean.Len(v)
}

// Normalize returns v scaled to a length of UnitsPerSquare.
func (v Vec2) Normalize() Vec2 {
	l := NonZero(v.Len())
	return Vec2{X: MulDiv(v.X, UnitsPerSquare, l), Y: MulDiv(v.Y, UnitsPerSquare, l)}
}

// Square returns the grid square containing v.
func (v Vec2) Square() (x, y int) {
	return int(DivRoundDown(v.X, UnitsPerSquare)), int(DivRoundDown(v.Y, UnitsPerSquare))
}

func (v Vec2) String() string {
	return fmt.Sprintf("[%d,%d]", v.X, v.Y)
}

// Normalize returns v scaled to a length of UnitsPerSquare.
func Normalize(v Vec2) Vec2 {
	return v.Normalize()
}

// VectorsAngleCos returns the cosine of the angle between a and b, scaled by
// UnitsPerSquare.
func VectorsAngleCos(a, b Vec2) Unit {
	a = a.Normalize()
	b = b.Normalize()
	return a.Dot(b) / UnitsPerSquare
}

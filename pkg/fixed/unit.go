// Package fixed provides the integer-only numeric core used by the engine.
//
// All spatial, angular and texture quantities are expressed as Units. One grid
// square is UnitsPerSquare units wide, a full turn is UnitsPerSquare units of
// angle, and most normalized values (sin, cos, unit vectors, texture
// coordinates) are scaled by UnitsPerSquare as well.
package fixed

// Unit is the fixed-point scalar shared by every engine quantity.
type Unit int32

const (
	// UnitsPerSquare is the number of units along one side of a grid square.
	UnitsPerSquare Unit = 1024

	// Infinity stands in for unbounded heights and distances.
	Infinity Unit = 2000000000

	// VerticalFOV is the vertical field of view, in angle units.
	VerticalFOV = UnitsPerSquare / 2

	// HorizontalFOV is the horizontal field of view, in angle units.
	HorizontalFOV = UnitsPerSquare / 4

	// HorizontalFOVHalf is half of HorizontalFOV.
	HorizontalFOVHalf = HorizontalFOV / 2
)

// Clamp limits v to [lo, hi]. When lo > hi the lower bound wins for values
// below it and the upper bound for everything else.
func Clamp(v, lo, hi Unit) Unit {
	if v >= lo {
		if v <= hi {
			return v
		}
		return hi
	}
	return lo
}

// Abs returns the absolute value of v.
func Abs(v Unit) Unit {
	if v >= 0 {
		return v
	}
	return -v
}

// Min returns the smaller of a and b.
func Min(a, b Unit) Unit {
	if a < b {
		return a
	}
	return b
}

// Max returns the larger of a and b.
func Max(a, b Unit) Unit {
	if a > b {
		return a
	}
	return b
}

// NonZero returns v, or 1 if v is zero. Used to guard divisions.
func NonZero(v Unit) Unit {
	if v != 0 {
		return v
	}
	return 1
}

// Wrap is like v % m but maps negative values into [0, m) with a shift of one,
// so that coordinates just below a grid line land on the far edge of the
// previous square.
func Wrap(v, m Unit) Unit {
	if v >= 0 {
		return v % m
	}
	return m + v%m - 1
}

// DivRoundDown divides v by d rounding toward negative infinity.
func DivRoundDown(v, d Unit) Unit {
	if v >= 0 {
		return v / d
	}
	return v/d - 1
}

// MulDiv computes a*b/c with a 64-bit intermediate product.
// Truncation matches 32-bit integer division whenever a*b fits in 32 bits.
func MulDiv(a, b, c Unit) Unit {
	return Unit(int64(a) * int64(b) / int64(c))
}

// DegreesToAngle converts whole degrees to angle units.
func DegreesToAngle(degrees int) Unit {
	return Unit(degrees) * UnitsPerSquare / 360
}

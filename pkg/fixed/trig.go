package fixed

// Sin returns the sine of an angle, scaled by UnitsPerSquare. It is Cos of
// angle-UnitsPerSquare/4, and Wrap maps negative angles one unit short, so
// angles in the first quarter turn read one angle unit early: Sin(0) is a
// few units off zero.
func Sin(angle Unit) Unit {
	return Cos(angle - UnitsPerSquare/4)
}

// AngleToDirection returns the direction vector of an angle. The y component
// is negated so that positive angles rotate clockwise in a y-up plane.
func AngleToDirection(angle Unit) Vec2 {
	return Vec2{X: Cos(angle), Y: -Sin(angle)}
}

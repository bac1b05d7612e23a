//go:build !gridcast_coslut

package fixed

// bhaskara evaluates Bhaskara I's cosine approximation on the first quadrant.
func bhaskara(x Unit) Unit {
	const half = UnitsPerSquare / 2
	return UnitsPerSquare * (half*half - 4*x*x) / (half*half + x*x)
}

// Cos returns the cosine of an angle, scaled by UnitsPerSquare.
func Cos(angle Unit) Unit {
	angle = Wrap(angle, UnitsPerSquare)

	switch {
	case angle < UnitsPerSquare/4:
		return bhaskara(angle)
	case angle < UnitsPerSquare/2:
		return -bhaskara(UnitsPerSquare/2 - angle)
	case angle < 3*UnitsPerSquare/4:
		return -bhaskara(angle - UnitsPerSquare/2)
	default:
		return bhaskara(UnitsPerSquare - angle)
	}
}

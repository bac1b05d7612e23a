package fixed

// Metric selects how distances are measured.
type Metric uint8

const (
	// Euclidean computes the exact (floored) Euclidean distance.
	Euclidean Metric = iota
	// Approximate uses a close integer approximation without a square root.
	Approximate
	// Octagonal uses the cheap max + min/2 approximation.
	Octagonal
)

func (m Metric) String() string {
	switch m {
	case Euclidean:
		return "euclidean"
	case Approximate:
		return "approximate"
	case Octagonal:
		return "octagonal"
	default:
		return "unknown"
	}
}

// Sqrt returns the floor of the square root of v. Negative input yields 0.
func Sqrt(v Unit) Unit {
	if v <= 0 {
		return 0
	}
	return Unit(Sqrt64(uint64(v)))
}

// Sqrt64 returns the floor of the square root of v using the bitwise
// digit-by-digit method.
func Sqrt64(v uint64) uint64 {
	var result uint64
	a := v
	b := uint64(1) << 62

	for b > a {
		b >>= 2
	}

	for b != 0 {
		if a >= result+b {
			a -= result + b
			result += 2 * b
		}
		b >>= 2
		result >>= 1
	}

	return result
}

// Dist returns the distance between two points under the metric.
func (m Metric) Dist(p1, p2 Vec2) Unit {
	dx := int64(p2.X) - int64(p1.X)
	dy := int64(p2.Y) - int64(p1.Y)
	if dx < 0 {
		dx = -dx
	}
	if dy < 0 {
		dy = -dy
	}

	switch m {
	case Octagonal:
		if dy > dx {
			return Unit(dx/2 + dy)
		}
		return Unit(dy/2 + dx)
	case Approximate:
		a, b := dx, dy
		if dx < dy {
			a, b = dy, dx
		}
		result := a + (44*b)/102
		if a < b<<4 {
			result -= (5 * a) / 128
		}
		return Unit(result)
	default:
		return Unit(Sqrt64(uint64(dx*dx + dy*dy)))
	}
}

// Len returns the length of v under the metric.
func (m Metric) Len(v Vec2) Unit {
	return m.Dist(Vec2{}, v)
}

// Dist returns the Euclidean distance between two points.
func Dist(p1, p2 Vec2) Unit {
	return Euclidean.Dist(p1, p2)
}

// Len returns the Euclidean length of v.
func Len(v Vec2) Unit {
	return Euclidean.Len(v)
}

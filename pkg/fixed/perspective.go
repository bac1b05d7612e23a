package fixed

// PerspectiveScale returns the on-screen size of something of the given flat
// size seen at distance. A zero distance yields 0.
func PerspectiveScale(size, distance Unit) Unit {
	if distance == 0 {
		return 0
	}
	return Unit(int64(size) * int64(UnitsPerSquare) / int64(NonZero(MulDiv(VerticalFOV*2, distance, UnitsPerSquare))))
}

// PerspectiveScaleInverse recovers the distance at which an object of
// originalSize appears with scaledSize. A zero scaled size yields Infinity.
func PerspectiveScaleInverse(originalSize, scaledSize Unit) Unit {
	if scaledSize == 0 {
		return Infinity
	}
	num := int64(originalSize)*int64(UnitsPerSquare) + int64(UnitsPerSquare/2)
	return Unit(num / int64(NonZero(MulDiv(VerticalFOV*2, scaledSize, UnitsPerSquare))))
}

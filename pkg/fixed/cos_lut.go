//go:build gridcast_coslut

package fixed

// cosLUT samples one full turn in 128 steps of 8 angle units.
var cosLUT = [128]Unit{
	1024, 1022, 1019, 1012, 1004, 993, 979, 964, 946, 925, 903, 878, 851, 822, 791, 758, 724,
	687, 649, 609, 568, 526, 482, 437, 391, 344, 297, 248, 199, 150, 100, 50, 0, -50, -100, -150,
	-199, -248, -297, -344, -391, -437, -482, -526, -568, -609, -649, -687, -724, -758, -791,
	-822, -851, -878, -903, -925, -946, -964, -979, -993, -1004, -1012, -1019, -1022, -1023,
	-1022, -1019, -1012, -1004, -993, -979, -964, -946, -925, -903, -878, -851, -822, -791,
	-758, -724, -687, -649, -609, -568, -526, -482, -437, -391, -344, -297, -248, -199, -150,
	-100, -50, 0, 50, 100, 150, 199, 248, 297, 344, 391, 437, 482, 526, 568, 609, 649, 687, 724,
	758, 791, 822, 851, 878, 903, 925, 946, 964, 979, 993, 1004, 1012, 1019, 1022,
}

// Cos returns the cosine of an angle, scaled by UnitsPerSquare.
func Cos(angle Unit) Unit {
	return cosLUT[Wrap(angle, UnitsPerSquare)/(UnitsPerSquare/128)]
}

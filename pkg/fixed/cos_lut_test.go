//go:build gridcast_coslut

package fixed

// The table is sampled without interpolation, one entry per 8 angle units.
const cosTolerance = 52

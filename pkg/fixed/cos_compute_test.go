//go:build !gridcast_coslut

package fixed

const cosTolerance = 3

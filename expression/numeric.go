package expression

import (
	"math"
	"math/rand"
)

// Abs returns the absolute value of x.
func Abs(x float64) float64 {
	return math.Abs(x)
}

// Round returns x rounded to the nearest integer, halves away from zero.
func Round(x float64) float64 {
	return math.Round(x)
}

// Ceil returns the smallest integer value >= x.
func Ceil(x float64) float64 {
	return math.Ceil(x)
}

// Floor returns the largest integer value <= x.
func Floor(x float64) float64 {
	return math.Floor(x)
}

// Rand returns a pseudo-random float64 in [0, 1). It is the one
// intentionally non-deterministic function in the library.
func Rand() float64 {
	return rand.Float64()
}

// Package dice provides the random rolls used by combat resolution.
package dice

import "math/rand"

// Variance returns a multiplier uniformly distributed in [0.8, 1.2).
// Every damage roll is scaled by it so repeated attacks differ.
func Variance() float64 {
	return 0.8 + rand.Float64()*0.4
}

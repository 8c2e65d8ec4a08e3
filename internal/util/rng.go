package util

import (
	"math"
	"math/rand"
)

func New(seed int64) *rand.Rand {
	if seed == 0 {
		seed = 1
	}
	src := rand.NewSource(seed)
	return rand.New(src)
}

// Jitter scales n by a random factor in [1-f, 1+f] and rounds. The result
// is never negative; f <= 0 returns n unchanged.
func Jitter(r *rand.Rand, n int, f float64) int {
	if f <= 0 || n <= 0 {
		return n
	}
	scale := 1 + f*(2*r.Float64()-1)
	v := int(math.Round(float64(n) * scale))
	if v < 0 {
		return 0
	}
	return v
}

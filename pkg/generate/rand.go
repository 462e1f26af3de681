package generate

import (
	"math/rand"
	"time"
)

// NewRand returns a random source seeded with seed. A zero seed is replaced by
// the current time; the seed actually used is returned alongside the source.
func NewRand(seed int64) (*rand.Rand, int64) {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed)), seed
}

// between draws an integer uniformly from [lo, hi]. When hi <= lo it returns lo.
func between(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.Intn(hi-lo+1)
}

// sampleDistinct returns min(k, n) distinct indexes from [0, n) in random
// order. It uses Floyd's algorithm so the cost depends on k, not n.
func sampleDistinct(rng *rand.Rand, n, k int) []int {
	if k > n {
		k = n
	}
	if k <= 0 {
		return nil
	}
	picked := make(map[int]struct{}, k)
	out := make([]int, 0, k)
	for j := n - k; j < n; j++ {
		t := rng.Intn(j + 1)
		if _, ok := picked[t]; ok {
			t = j
		}
		picked[t] = struct{}{}
		out = append(out, t)
	}
	rng.Shuffle(len(out), func(a, b int) {
		out[a], out[b] = out[b], out[a]
	})
	return out
}

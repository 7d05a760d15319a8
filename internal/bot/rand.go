package bot

import (
	"math/rand"
	"time"
)

// newRng returns a dedicated random source. Seed 0 draws one from the
// clock. Every match and every random strategy owns its source, so
// parallel arena workers never share *rand.Rand state.
func newRng(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

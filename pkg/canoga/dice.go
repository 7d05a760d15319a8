package canoga

import "math/rand"

// Roller produces single-die values in 1..6. The engine never requires
// a particular source; tests inject a deterministic one.
type Roller interface {
	Roll() int
}

// RollerFunc adapts a function to the Roller interface.
type RollerFunc func() int

// Roll implements Roller.
func (f RollerFunc) Roll() int { return f() }

// NewRoller returns a Roller backed by its own math/rand generator.
func NewRoller(seed int64) Roller {
	rng := rand.New(rand.NewSource(seed))
	return RollerFunc(func() int { return rng.Intn(6) + 1 })
}

// RollTwo returns the sum of two dice from r.
func RollTwo(r Roller) int {
	return r.Roll() + r.Roll()
}

// FixedRolls returns a Roller that replays the given die values in
// order, cycling when exhausted. Intended for tests.
func FixedRolls(values ...int) Roller {
	i := 0
	return RollerFunc(func() int {
		v := values[i%len(values)]
		i++
		return v
	})
}

package canoga

// Side identifies a player in a game.
type Side string

const (
	NoSide   Side = ""
	Human    Side = "human"
	Computer Side = "computer"
)

// Opponent returns the other side, or NoSide for NoSide.
func (s Side) Opponent() Side {
	switch s {
	case Human:
		return Computer
	case Computer:
		return Human
	}
	return NoSide
}

// Valid reports whether s names an actual player.
func (s Side) Valid() bool {
	return s == Human || s == Computer
}

package canoga

// Tournament accumulates round scores across rounds. Scores are never
// reset within a tournament.
type Tournament struct {
	ScoreHuman    int `json:"score_human"`
	ScoreComputer int `json:"score_computer"`
	Rounds        int `json:"rounds"`
}

// RecordOutcome credits a finished round's score to the winner.
func (t *Tournament) RecordOutcome(o Outcome) {
	switch o.Winner {
	case Human:
		t.ScoreHuman += o.Score
	case Computer:
		t.ScoreComputer += o.Score
	}
	t.Rounds++
}

// Leader returns the side currently ahead, or NoSide on a tie.
func (t *Tournament) Leader() Side {
	switch {
	case t.ScoreHuman > t.ScoreComputer:
		return Human
	case t.ScoreComputer > t.ScoreHuman:
		return Computer
	}
	return NoSide
}

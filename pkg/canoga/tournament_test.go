package canoga

import "testing"

func TestTournament_RecordOutcome(t *testing.T) {
	var tour Tournament

	tour.RecordOutcome(Outcome{Winner: Human, WinType: WinByCover, Score: 10})
	tour.RecordOutcome(Outcome{Winner: Computer, WinType: WinByUncover, Score: 4})
	tour.RecordOutcome(Outcome{Winner: Human, WinType: WinByUncover, Score: 7})

	if tour.ScoreHuman != 17 || tour.ScoreComputer != 4 {
		t.Errorf("scores = (%d, %d), want (17, 4)", tour.ScoreHuman, tour.ScoreComputer)
	}
	if tour.Rounds != 3 {
		t.Errorf("Rounds = %d, want 3", tour.Rounds)
	}
	if tour.Leader() != Human {
		t.Errorf("Leader() = %s, want human", tour.Leader())
	}
}

func TestTournament_Leader_Tie(t *testing.T) {
	tour := Tournament{ScoreHuman: 9, ScoreComputer: 9}
	if tour.Leader() != NoSide {
		t.Errorf("Leader() = %s, want none on a tie", tour.Leader())
	}
}

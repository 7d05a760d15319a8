package bot

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/drajakumar/canoga/internal/model"
	"github.com/drajakumar/canoga/internal/repository"
	"github.com/drajakumar/canoga/pkg/canoga"
)

// ArenaConfig configures a bot-vs-bot match.
type ArenaConfig struct {
	BoardSize          int
	Rounds             int
	HumanDifficulty    string // strategy playing the human seat
	ComputerDifficulty string
	Seed               int64 // 0 = random
	DryRun             bool  // skip DB writes
}

// ArenaResult describes the outcome of a completed match.
type ArenaResult struct {
	GameID        string
	ScoreHuman    int
	ScoreComputer int
	RoundsPlayed  int
	Winner        canoga.Side // NoSide for a draw
	Outcomes      []canoga.Outcome
}

// RunMatch plays a full match of bot-vs-bot rounds, carrying the
// advantage and tournament scores across rounds. Pass nil repos with
// DryRun set to skip persistence.
func RunMatch(
	ctx context.Context,
	cfg ArenaConfig,
	gameRepo repository.GameRepository,
	roundRepo repository.RoundRepository,
	userRepo repository.UserRepository,
) (*ArenaResult, error) {
	if cfg.Rounds <= 0 {
		cfg.Rounds = 1
	}
	if cfg.BoardSize == 0 {
		cfg.BoardSize = 9
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	// The match owns its random state. Parallel matches share nothing.
	rng := newRng(seed)
	roller := canoga.NewRoller(seed)

	sources := map[canoga.Side]canoga.MoveSource{
		canoga.Human:    strategyWithRng(cfg.HumanDifficulty, rng),
		canoga.Computer: strategyWithRng(cfg.ComputerDifficulty, rng),
	}

	var gameID string
	if !cfg.DryRun {
		var err error
		gameID, err = createArenaGame(ctx, cfg, gameRepo, userRepo)
		if err != nil {
			return nil, fmt.Errorf("create arena game: %w", err)
		}
	}

	var adv canoga.AdvantageManager
	var tour canoga.Tournament
	result := &ArenaResult{GameID: gameID}

	for n := 1; n <= cfg.Rounds; n++ {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		outcome, err := playArenaRound(ctx, cfg, n, gameID, &adv, &tour, sources, roller, roundRepo)
		if err != nil {
			return nil, fmt.Errorf("round %d: %w", n, err)
		}
		result.Outcomes = append(result.Outcomes, outcome)

		if !cfg.DryRun {
			if err := gameRepo.UpdateScores(ctx, gameID, tour.ScoreHuman, tour.ScoreComputer, tour.Rounds); err != nil {
				return nil, fmt.Errorf("update scores: %w", err)
			}
		}

		log.Debug().
			Int("round", n).
			Str("winner", string(outcome.Winner)).
			Str("winType", string(outcome.WinType)).
			Int("score", outcome.Score).
			Msg("Arena round finished")
	}

	result.ScoreHuman = tour.ScoreHuman
	result.ScoreComputer = tour.ScoreComputer
	result.RoundsPlayed = tour.Rounds
	result.Winner = tour.Leader()

	if !cfg.DryRun {
		if err := gameRepo.SetFinished(ctx, gameID, string(result.Winner)); err != nil {
			return nil, fmt.Errorf("set finished: %w", err)
		}
	}
	return result, nil
}

// playArenaRound plays one round to completion and records its outcome.
func playArenaRound(
	ctx context.Context,
	cfg ArenaConfig,
	number int,
	gameID string,
	adv *canoga.AdvantageManager,
	tour *canoga.Tournament,
	sources map[canoga.Side]canoga.MoveSource,
	roller canoga.Roller,
	roundRepo repository.RoundRepository,
) (canoga.Outcome, error) {
	round, err := canoga.NewRound(cfg.BoardSize, adv)
	if err != nil {
		return canoga.Outcome{}, err
	}
	if _, _, err := round.StartWithRoll(roller); err != nil {
		return canoga.Outcome{}, err
	}

	var roundID string
	if !cfg.DryRun {
		rec, err := roundRepo.CreateRound(ctx, gameID, number, string(round.FirstPlayer()), snapshot(round, tour))
		if err != nil {
			return canoga.Outcome{}, fmt.Errorf("create round: %w", err)
		}
		roundID = rec.ID
	}

	for round.Phase() == canoga.PhaseInProgress {
		mover := round.Turn()
		moves, err := round.PlayTurn(mover, sources[mover], roller)
		if err != nil {
			return canoga.Outcome{}, fmt.Errorf("%s turn: %w", mover, err)
		}
		if !cfg.DryRun {
			for _, m := range moves {
				rec := &model.MoveRecord{
					RoundID:  roundID,
					Side:     string(mover),
					MoveType: string(m.Type),
					Squares:  m.Combo,
				}
				if err := roundRepo.SaveMove(ctx, rec); err != nil {
					return canoga.Outcome{}, fmt.Errorf("save move: %w", err)
				}
			}
		}
	}

	outcome, ok := round.Outcome()
	if !ok {
		return canoga.Outcome{}, fmt.Errorf("round ended without an outcome")
	}
	tour.RecordOutcome(outcome)

	if !cfg.DryRun {
		err := roundRepo.FinishRound(ctx, roundID, snapshot(round, tour),
			string(outcome.Winner), string(outcome.WinType), outcome.Score)
		if err != nil {
			return canoga.Outcome{}, fmt.Errorf("finish round: %w", err)
		}
	}
	return outcome, nil
}

// snapshot encodes the round's boards and running scores as a save record.
func snapshot(round *canoga.Round, tour *canoga.Tournament) string {
	next := round.Turn()
	if !next.Valid() {
		next = round.FirstPlayer()
	}
	return canoga.EncodeRecord(&canoga.SaveRecord{
		HumanBoard:    round.BoardOf(canoga.Human),
		ComputerBoard: round.BoardOf(canoga.Computer),
		HumanScore:    tour.ScoreHuman,
		ComputerScore: tour.ScoreComputer,
		FirstTurn:     round.FirstPlayer(),
		NextTurn:      next,
	})
}

// createArenaGame registers the match under a synthetic arena user.
func createArenaGame(ctx context.Context, cfg ArenaConfig, gameRepo repository.GameRepository, userRepo repository.UserRepository) (string, error) {
	user, err := userRepo.Upsert(ctx, "bot", "arena", "Arena", "")
	if err != nil {
		return "", fmt.Errorf("upsert arena user: %w", err)
	}
	game, err := gameRepo.Create(ctx, user.ID, cfg.BoardSize, cfg.ComputerDifficulty)
	if err != nil {
		return "", err
	}
	if err := gameRepo.SetActive(ctx, game.ID); err != nil {
		return "", err
	}
	return game.ID, nil
}

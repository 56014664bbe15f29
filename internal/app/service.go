// Package app drives games: it seats players, pumps the turn loop, and
// feeds every event to the recorder.
package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"presidents/internal/domain"
	"presidents/internal/ports"
)

var (
	ErrTooFewPlayers = errors.New("not enough players to start")
	ErrNoRounds      = errors.New("at least one round must be played")
)

// PlayerSpec names one participant and the strategy playing for them.
type PlayerSpec struct {
	Name     string
	Strategy domain.Strategy
}

// RunOptions configures one session of consecutive rounds at a single
// table. Configuration is an opaque JSON snapshot stored with every
// recorded game.
type RunOptions struct {
	Players       []PlayerSpec
	Rounds        int
	Policy        domain.RolePolicy
	Configuration []byte
}

// Service contains the game-driving use-cases.
type Service struct {
	recorder ports.GameRecorder
	logger   *zap.Logger
	rng      *rand.Rand
}

// NewService constructs a Service. A nil recorder discards records, a
// nil rng falls back to a time-seeded source.
func NewService(recorder ports.GameRecorder, logger *zap.Logger, rng *rand.Rand) *Service {
	if recorder == nil {
		recorder = ports.NoopRecorder{}
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{recorder: recorder, logger: logger, rng: rng}
}

// Run plays opts.Rounds consecutive rounds and returns every round's
// standings in play order. Each round is recorded as one game with its
// own deck seed, so any round can be redealt verbatim.
func (s *Service) Run(ctx context.Context, opts RunOptions) ([][]domain.RoundResult, error) {
	if len(opts.Players) < 2 {
		return nil, ErrTooFewPlayers
	}
	if opts.Rounds < 1 {
		return nil, ErrNoRounds
	}

	setups, err := s.registerPlayers(ctx, opts.Players)
	if err != nil {
		return nil, err
	}

	seed := s.rng.Int63()
	game := domain.NewGame(setups, rand.New(rand.NewSource(seed)), s.logger)
	game.SetRolePolicy(opts.Policy)

	sessions := make([][]domain.RoundResult, 0, opts.Rounds)
	for round := 1; round <= opts.Rounds; round++ {
		s.logger.Info("round starting",
			zap.Int("round", round),
			zap.Int64("deck_seed", seed))
		results, nextSeed, err := s.playRound(ctx, game, seed, opts.Configuration)
		if err != nil {
			return sessions, fmt.Errorf("round %d: %w", round, err)
		}
		sessions = append(sessions, results)
		seed = nextSeed
	}
	return sessions, nil
}

// registerPlayers resolves each name against the recorder, reusing the
// stored identity when the player has played before.
func (s *Service) registerPlayers(ctx context.Context, players []PlayerSpec) ([]domain.PlayerSetup, error) {
	setups := make([]domain.PlayerSetup, 0, len(players))
	for _, p := range players {
		id, found, err := s.recorder.PlayerByName(ctx, p.Name)
		if err != nil {
			return nil, fmt.Errorf("resolve player %q: %w", p.Name, err)
		}
		if !found {
			id = uuid.New()
			if err := s.recorder.RegisterPlayer(ctx, id, p.Name); err != nil {
				return nil, fmt.Errorf("register player %q: %w", p.Name, err)
			}
		}
		setups = append(setups, domain.PlayerSetup{ID: id, Name: p.Name, Strategy: p.Strategy})
	}
	return setups, nil
}

// playRound records and plays a single round to completion, then rolls
// the game into the next round under a freshly drawn seed.
func (s *Service) playRound(ctx context.Context, game *domain.GameState, seed int64, configuration []byte) ([]domain.RoundResult, int64, error) {
	handle, err := s.recorder.StartGame(ctx, ports.GameMetadata{
		StartedAt:     time.Now(),
		NumPlayers:    game.NumPlayers(),
		DeckSeed:      strconv.FormatInt(seed, 10),
		PlayerOrder:   game.PlayerOrder(),
		Configuration: configuration,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("start recording: %w", err)
	}

	turn := 0
	for _, ev := range game.RunPregame() {
		if err := s.recorder.RecordAction(ctx, handle, actionRecord(ev, ports.PhasePregame, turn)); err != nil {
			return nil, 0, fmt.Errorf("record pregame action: %w", err)
		}
		turn++
	}

	for game.StillPlaying() {
		player := game.CurrentPlayer()
		actions := game.PermittedActions()
		action := player.Strategy.SelectAction(&player.State, game.PublicInfo(), actions)
		game.PerformIngameAction(action)

		ev := domain.Event{PlayerID: player.State.ID, Action: action}
		if err := s.recorder.RecordAction(ctx, handle, actionRecord(ev, ports.PhaseIngame, turn)); err != nil {
			return nil, 0, fmt.Errorf("record action: %w", err)
		}
		turn++
	}

	nextSeed := s.rng.Int63()
	game.Reseed(nextSeed)
	results := game.StartNewGame()

	if err := s.recorder.FinishGame(ctx, handle, resultRecords(results)); err != nil {
		return nil, 0, fmt.Errorf("finish recording: %w", err)
	}
	return results, nextSeed, nil
}

func actionRecord(ev domain.Event, phase string, turn int) ports.ActionRecord {
	rec := ports.ActionRecord{
		PlayerID:   ev.PlayerID,
		ActionType: ev.Action.Type.String(),
		TurnOrder:  turn,
		Phase:      phase,
	}
	switch ev.Action.Type {
	case domain.ActionPlayCards:
		rec.CardPlay = cardsJSON(ev.Action.Play.Cards())
	case domain.ActionSendCard:
		to := ev.Action.To
		rec.TargetPlayerID = &to
		rec.CardPlay = cardsJSON([]domain.Card{ev.Action.Card})
	}
	return rec
}

func cardsJSON(cards []domain.Card) []byte {
	codes := make([]string, 0, len(cards))
	for _, c := range cards {
		codes = append(codes, c.String())
	}
	// A string slice always marshals.
	data, _ := json.Marshal(codes)
	return data
}

func resultRecords(results []domain.RoundResult) []ports.GameResultRecord {
	records := make([]ports.GameResultRecord, 0, len(results))
	for _, res := range results {
		records = append(records, ports.GameResultRecord{
			PlayerID: res.PlayerID,
			Place:    res.Place,
			Role:     res.Role.String(),
		})
	}
	return records
}

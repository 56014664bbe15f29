package ports

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Phases an action can be recorded under.
const (
	PhasePregame = "pregame"
	PhaseIngame  = "ingame"
)

// GameHandle identifies one recorded game across recorder calls.
type GameHandle struct {
	ID uuid.UUID
}

// GameMetadata describes a game at the moment recording starts.
type GameMetadata struct {
	StartedAt     time.Time
	NumPlayers    int
	DeckSeed      string
	PlayerOrder   []uuid.UUID
	Configuration []byte // JSON snapshot of the driving configuration
}

// ActionRecord is one recorded action. CardPlay is a JSON card array for
// plays and nil otherwise; TargetPlayerID is set for card sends only.
// TurnOrder is monotonically increasing within a game.
type ActionRecord struct {
	PlayerID       uuid.UUID
	ActionType     string
	CardPlay       []byte
	TargetPlayerID *uuid.UUID
	TurnOrder      int
	Phase          string
}

// GameResultRecord is one player's final standing in a finished game.
type GameResultRecord struct {
	PlayerID uuid.UUID
	Place    int
	Role     string
}

// GameRecorder defines the interface for persisting played games.
type GameRecorder interface {
	// RegisterPlayer makes the player identity known to the store. It is
	// idempotent for an already-registered player.
	RegisterPlayer(ctx context.Context, id uuid.UUID, name string) error
	// PlayerByName resolves a registered player's ID. The bool reports
	// whether the player exists.
	PlayerByName(ctx context.Context, name string) (uuid.UUID, bool, error)
	// StartGame opens a recording for one game.
	StartGame(ctx context.Context, meta GameMetadata) (GameHandle, error)
	// RecordAction appends one action to an open recording.
	RecordAction(ctx context.Context, handle GameHandle, rec ActionRecord) error
	// FinishGame closes the recording with the final standings.
	FinishGame(ctx context.Context, handle GameHandle, results []GameResultRecord) error
}

// NoopRecorder discards everything. It stands in when no store is
// configured.
type NoopRecorder struct{}

func (NoopRecorder) RegisterPlayer(context.Context, uuid.UUID, string) error { return nil }

func (NoopRecorder) PlayerByName(context.Context, string) (uuid.UUID, bool, error) {
	return uuid.Nil, false, nil
}

func (NoopRecorder) StartGame(context.Context, GameMetadata) (GameHandle, error) {
	return GameHandle{ID: uuid.New()}, nil
}

func (NoopRecorder) RecordAction(context.Context, GameHandle, ActionRecord) error { return nil }

func (NoopRecorder) FinishGame(context.Context, GameHandle, []GameResultRecord) error { return nil }

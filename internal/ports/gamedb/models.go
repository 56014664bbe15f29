package gamedb

import (
	"time"

	"gorm.io/datatypes"
)

// PlayerRow is one registered player identity.
type PlayerRow struct {
	ID        string `gorm:"primaryKey;size:36"`
	Name      string `gorm:"uniqueIndex;size:128"`
	CreatedAt time.Time
}

func (PlayerRow) TableName() string { return "players" }

// GameRow is one recorded game. FinishedAt stays NULL until the closing
// write lands.
type GameRow struct {
	ID            string `gorm:"primaryKey;size:36"`
	StartedAt     time.Time
	FinishedAt    *time.Time
	NumPlayers    int
	DeckSeed      string         `gorm:"size:64"`
	PlayerOrder   datatypes.JSON // seating order as a JSON array of player IDs
	Configuration datatypes.JSON
}

func (GameRow) TableName() string { return "games" }

// ActionRow is one action within a game, ordered by TurnOrder.
type ActionRow struct {
	ID             uint   `gorm:"primaryKey;autoIncrement"`
	GameID         string `gorm:"index;size:36"`
	PlayerID       string `gorm:"size:36"`
	TurnOrder      int
	Phase          string `gorm:"size:16"`
	ActionType     string `gorm:"size:16"`
	CardPlay       datatypes.JSON
	TargetPlayerID *string `gorm:"size:36"`
	CreatedAt      time.Time
}

func (ActionRow) TableName() string { return "actions" }

// GameResultRow is one player's standing in a finished game.
type GameResultRow struct {
	ID       uint   `gorm:"primaryKey;autoIncrement"`
	GameID   string `gorm:"index;size:36"`
	PlayerID string `gorm:"size:36"`
	Place    int
	Role     string `gorm:"size:32"`
}

func (GameResultRow) TableName() string { return "game_results" }

// FailedWriteRow preserves a batch that could not be committed, so a
// game is never silently lost.
type FailedWriteRow struct {
	ID        uint   `gorm:"primaryKey;autoIncrement"`
	GameID    string `gorm:"index;size:36"`
	Payload   datatypes.JSON
	Reason    string
	CreatedAt time.Time
}

func (FailedWriteRow) TableName() string { return "failed_writes" }

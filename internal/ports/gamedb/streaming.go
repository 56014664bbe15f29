package gamedb

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"presidents/internal/ports"
)

// StreamingWriter writes every action the moment it is recorded. A crash
// mid-game leaves a partial but consistent trail; FinishGame commits the
// standings and the finished timestamp together.
type StreamingWriter struct {
	db     *gorm.DB
	logger *zap.Logger
	retry  RetryPolicy
}

var _ ports.GameRecorder = (*StreamingWriter)(nil)

func NewStreamingWriter(db *gorm.DB, logger *zap.Logger) *StreamingWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StreamingWriter{db: db, logger: logger, retry: DefaultRetry}
}

func (w *StreamingWriter) RegisterPlayer(ctx context.Context, id uuid.UUID, name string) error {
	row := PlayerRow{ID: id.String(), Name: name, CreatedAt: time.Now()}
	err := w.db.WithContext(ctx).
		Where(&PlayerRow{Name: name}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("register player %q: %w", name, err)
	}
	return nil
}

func (w *StreamingWriter) PlayerByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return playerByName(ctx, w.db, name)
}

func playerByName(ctx context.Context, db *gorm.DB, name string) (uuid.UUID, bool, error) {
	var row PlayerRow
	err := db.WithContext(ctx).Where("name = ?", name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("look up player %q: %w", name, err)
	}
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("player %q has a malformed id %q: %w", name, row.ID, err)
	}
	return id, true, nil
}

func (w *StreamingWriter) StartGame(ctx context.Context, meta ports.GameMetadata) (ports.GameHandle, error) {
	handle := ports.GameHandle{ID: uuid.New()}
	row, err := gameRow(handle, meta)
	if err != nil {
		return ports.GameHandle{}, err
	}
	if err := w.db.WithContext(ctx).Create(&row).Error; err != nil {
		return ports.GameHandle{}, fmt.Errorf("start game recording: %w", err)
	}
	w.logger.Info("game recording started",
		zap.String("game_id", handle.ID.String()),
		zap.String("deck_seed", meta.DeckSeed))
	return handle, nil
}

func (w *StreamingWriter) RecordAction(ctx context.Context, handle ports.GameHandle, rec ports.ActionRecord) error {
	row := actionRow(handle, rec)
	err := w.retry.Do(ctx, func() error {
		return w.db.WithContext(ctx).Create(&row).Error
	})
	if err != nil {
		return fmt.Errorf("record action %d: %w", rec.TurnOrder, err)
	}
	return nil
}

func (w *StreamingWriter) FinishGame(ctx context.Context, handle ports.GameHandle, results []ports.GameResultRecord) error {
	rows := resultRows(handle, results)
	err := w.retry.Do(ctx, func() error {
		return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
			now := time.Now()
			return tx.Model(&GameRow{}).
				Where("id = ?", handle.ID.String()).
				Update("finished_at", &now).Error
		})
	})
	if err != nil {
		return fmt.Errorf("finish game recording: %w", err)
	}
	w.logger.Info("game recording finished", zap.String("game_id", handle.ID.String()))
	return nil
}

func gameRow(handle ports.GameHandle, meta ports.GameMetadata) (GameRow, error) {
	order := make([]string, 0, len(meta.PlayerOrder))
	for _, id := range meta.PlayerOrder {
		order = append(order, id.String())
	}
	orderJSON, err := json.Marshal(order)
	if err != nil {
		return GameRow{}, fmt.Errorf("encode player order: %w", err)
	}
	return GameRow{
		ID:            handle.ID.String(),
		StartedAt:     meta.StartedAt,
		NumPlayers:    meta.NumPlayers,
		DeckSeed:      meta.DeckSeed,
		PlayerOrder:   datatypes.JSON(orderJSON),
		Configuration: datatypes.JSON(meta.Configuration),
	}, nil
}

func actionRow(handle ports.GameHandle, rec ports.ActionRecord) ActionRow {
	var target *string
	if rec.TargetPlayerID != nil {
		s := rec.TargetPlayerID.String()
		target = &s
	}
	return ActionRow{
		GameID:         handle.ID.String(),
		PlayerID:       rec.PlayerID.String(),
		TurnOrder:      rec.TurnOrder,
		Phase:          rec.Phase,
		ActionType:     rec.ActionType,
		CardPlay:       datatypes.JSON(rec.CardPlay),
		TargetPlayerID: target,
		CreatedAt:      time.Now(),
	}
}

func resultRows(handle ports.GameHandle, results []ports.GameResultRecord) []GameResultRow {
	rows := make([]GameResultRow, 0, len(results))
	for _, res := range results {
		rows = append(rows, GameResultRow{
			GameID:   handle.ID.String(),
			PlayerID: res.PlayerID.String(),
			Place:    res.Place,
			Role:     res.Role,
		})
	}
	return rows
}

package gamedb

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"presidents/internal/ports"
)

// BulkWriter collects a game in memory and commits it in one transaction
// when the game finishes. Nothing touches the database between StartGame
// and FinishGame, so a noisy game costs a single commit. A batch that
// cannot be committed after retries is preserved in failed_writes.
type BulkWriter struct {
	db     *gorm.DB
	logger *zap.Logger
	retry  RetryPolicy

	mu      sync.Mutex
	pending map[uuid.UUID]*pendingGame
}

type pendingGame struct {
	game    GameRow
	actions []ActionRow
}

var _ ports.GameRecorder = (*BulkWriter)(nil)

func NewBulkWriter(db *gorm.DB, logger *zap.Logger) *BulkWriter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BulkWriter{
		db:      db,
		logger:  logger,
		retry:   DefaultRetry,
		pending: make(map[uuid.UUID]*pendingGame),
	}
}

func (w *BulkWriter) RegisterPlayer(ctx context.Context, id uuid.UUID, name string) error {
	row := PlayerRow{ID: id.String(), Name: name, CreatedAt: time.Now()}
	err := w.db.WithContext(ctx).
		Where(&PlayerRow{Name: name}).
		FirstOrCreate(&row).Error
	if err != nil {
		return fmt.Errorf("register player %q: %w", name, err)
	}
	return nil
}

func (w *BulkWriter) PlayerByName(ctx context.Context, name string) (uuid.UUID, bool, error) {
	return playerByName(ctx, w.db, name)
}

func (w *BulkWriter) StartGame(_ context.Context, meta ports.GameMetadata) (ports.GameHandle, error) {
	handle := ports.GameHandle{ID: uuid.New()}
	row, err := gameRow(handle, meta)
	if err != nil {
		return ports.GameHandle{}, err
	}
	w.mu.Lock()
	w.pending[handle.ID] = &pendingGame{game: row}
	w.mu.Unlock()
	return handle, nil
}

func (w *BulkWriter) RecordAction(_ context.Context, handle ports.GameHandle, rec ports.ActionRecord) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	game, ok := w.pending[handle.ID]
	if !ok {
		return fmt.Errorf("no open recording for game %s", handle.ID)
	}
	game.actions = append(game.actions, actionRow(handle, rec))
	return nil
}

func (w *BulkWriter) FinishGame(ctx context.Context, handle ports.GameHandle, results []ports.GameResultRecord) error {
	w.mu.Lock()
	game, ok := w.pending[handle.ID]
	delete(w.pending, handle.ID)
	w.mu.Unlock()
	if !ok {
		return fmt.Errorf("no open recording for game %s", handle.ID)
	}

	now := time.Now()
	game.game.FinishedAt = &now
	rows := resultRows(handle, results)

	err := w.retry.Do(ctx, func() error {
		return w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(&game.game).Error; err != nil {
				return err
			}
			if len(game.actions) > 0 {
				if err := tx.Create(&game.actions).Error; err != nil {
					return err
				}
			}
			if len(rows) > 0 {
				if err := tx.Create(&rows).Error; err != nil {
					return err
				}
			}
			return nil
		})
	})
	if err == nil {
		w.logger.Info("game committed",
			zap.String("game_id", handle.ID.String()),
			zap.Int("actions", len(game.actions)))
		return nil
	}

	w.logger.Error("game commit failed, preserving batch",
		zap.String("game_id", handle.ID.String()),
		zap.Error(err))
	if keepErr := w.preserveFailedBatch(ctx, handle, game, rows, err); keepErr != nil {
		return fmt.Errorf("commit game: %w (batch also lost: %v)", err, keepErr)
	}
	return fmt.Errorf("commit game: %w", err)
}

func (w *BulkWriter) preserveFailedBatch(ctx context.Context, handle ports.GameHandle, game *pendingGame, results []GameResultRow, cause error) error {
	payload, err := json.Marshal(struct {
		Game    GameRow         `json:"game"`
		Actions []ActionRow     `json:"actions"`
		Results []GameResultRow `json:"results"`
	}{game.game, game.actions, results})
	if err != nil {
		return err
	}
	return w.db.WithContext(ctx).Create(&FailedWriteRow{
		GameID:    handle.ID.String(),
		Payload:   datatypes.JSON(payload),
		Reason:    cause.Error(),
		CreatedAt: time.Now(),
	}).Error
}

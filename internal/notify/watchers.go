// Package notify manages question watchers, the subscription
// collaborator the coordinator calls when question activity happens.
package notify

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// Watchers adds and removes question subscriptions
type Watchers struct {
	gdb    *gorm.DB
	logger *zap.Logger
}

// NewWatchers creates a new watcher service
func NewWatchers(gdb *gorm.DB) *Watchers {
	return &Watchers{
		gdb:    gdb,
		logger: logging.WithComponent("notify"),
	}
}

// Subscribe adds a watcher for the question. Subscribing twice is a
// no-op.
func (w *Watchers) Subscribe(ctx context.Context, userID, questionID int64, at time.Time) error {
	watcher := &models.Watcher{
		UserID:     userID,
		QuestionID: questionID,
		AddedAt:    at,
	}
	if err := w.gdb.WithContext(ctx).Create(watcher).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil
		}
		return err
	}
	w.logger.Debug("watcher added",
		zap.Int64("user_id", userID),
		zap.Int64("question_id", questionID))
	return nil
}

// Unsubscribe removes the watcher for the question, if any
func (w *Watchers) Unsubscribe(ctx context.Context, userID, questionID int64) error {
	return w.gdb.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Delete(&models.Watcher{}).Error
}

// IsWatching reports whether the user watches the question
func (w *Watchers) IsWatching(ctx context.Context, userID, questionID int64) (bool, error) {
	var count int64
	if err := w.gdb.WithContext(ctx).Model(&models.Watcher{}).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// WatchersOf lists user ids watching the question
func (w *Watchers) WatchersOf(ctx context.Context, questionID int64) ([]int64, error) {
	var ids []int64
	if err := w.gdb.WithContext(ctx).Model(&models.Watcher{}).
		Where("question_id = ?", questionID).
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

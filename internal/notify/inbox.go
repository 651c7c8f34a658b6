package notify

import (
	"context"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// Inbox writes notification rows for question watchers and serves
// their unread lists
type Inbox struct {
	gdb      *gorm.DB
	watchers *Watchers
	logger   *zap.Logger
}

// NewInbox creates a new inbox
func NewInbox(gdb *gorm.DB, watchers *Watchers) *Inbox {
	return &Inbox{
		gdb:      gdb,
		watchers: watchers,
		logger:   logging.WithComponent("inbox"),
	}
}

// FanOut notifies every watcher of the question except the actor.
// Runs after the action committed; a failure here is logged and never
// surfaces to the action.
func (i *Inbox) FanOut(ctx context.Context, questionID, actorID int64, kind int16, ref models.PostRef, at time.Time) {
	ids, err := i.watchers.WatchersOf(ctx, questionID)
	if err != nil {
		i.logger.Error("failed to list watchers for fan-out",
			zap.Int64("question_id", questionID), zap.Error(err))
		return
	}

	rows := make([]*models.Notification, 0, len(ids))
	for _, id := range ids {
		if id == actorID {
			continue
		}
		rows = append(rows, &models.Notification{
			UserID:    id,
			ActorID:   actorID,
			Kind:      kind,
			PostType:  ref.Type,
			PostID:    ref.ID,
			CreatedAt: at,
		})
	}
	if len(rows) == 0 {
		return
	}

	if err := i.gdb.WithContext(ctx).Create(rows).Error; err != nil {
		i.logger.Error("failed to write notifications",
			zap.Int64("question_id", questionID),
			zap.Int("count", len(rows)),
			zap.Error(err))
	}
}

// Unread lists a user's unread notifications, newest first
func (i *Inbox) Unread(ctx context.Context, userID int64, limit int) ([]*models.Notification, error) {
	var rows []*models.Notification
	if err := i.gdb.WithContext(ctx).
		Where("user_id = ? AND read_at IS NULL", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// MarkRead stamps every unread notification of the user
func (i *Inbox) MarkRead(ctx context.Context, userID int64, at time.Time) error {
	return i.gdb.WithContext(ctx).Model(&models.Notification{}).
		Where("user_id = ? AND read_at IS NULL", userID).
		Update("read_at", at).Error
}

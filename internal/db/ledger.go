package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// cappedKinds are the only event kinds whose positive deltas count
// toward the daily gain cap. The narrowing is deliberate site policy
// inherited from the original rules: it exists to stop vote/cancel
// cycling, not to cap every source of reputation.
var cappedKinds = []models.ReputationKind{
	models.RepUpvoteReceived,
	models.RepFlagCanceledReversal,
}

// Ledger is the append-only store of reputation events. Rows are never
// updated or deleted; reversals reference the original row.
type Ledger struct {
	*Repository
}

// NewLedger creates a new ledger
func NewLedger(repo *Repository) *Ledger {
	return &Ledger{Repository: repo}
}

// Record appends one event inside the given transaction
func (l *Ledger) Record(ctx context.Context, tx *gorm.DB, ev *models.ReputationEvent) error {
	return tx.WithContext(ctx).Create(ev).Error
}

// GainToday sums today's positive deltas of the capped event kinds for
// one user
func (l *Ledger) GainToday(ctx context.Context, userID int64, now time.Time) (int, error) {
	return l.gainToday(ctx, l.db, userID, now)
}

// GainTodayTx is GainToday inside a transaction
func (l *Ledger) GainTodayTx(ctx context.Context, tx *gorm.DB, userID int64, now time.Time) (int, error) {
	return l.gainToday(ctx, tx, userID, now)
}

func (l *Ledger) gainToday(ctx context.Context, db *gorm.DB, userID int64, now time.Time) (int, error) {
	var sum int64
	row := db.WithContext(ctx).Model(&models.ReputationEvent{}).
		Select("COALESCE(SUM(positive + negative), 0)").
		Where("user_id = ? AND kind IN ? AND reputed_at >= ?", userID, cappedKinds, dayStart(now)).
		Row()
	if err := row.Scan(&sum); err != nil {
		return 0, err
	}
	return int(sum), nil
}

// GetByID retrieves one event, nil when absent
func (l *Ledger) GetByID(ctx context.Context, id int64) (*models.ReputationEvent, error) {
	var ev models.ReputationEvent
	if err := l.db.WithContext(ctx).First(&ev, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// LatestFor finds the most recent non-reversed event of a kind caused
// by a post, used to pair a cancellation with the event it reverses
func (l *Ledger) LatestFor(ctx context.Context, tx *gorm.DB, userID int64, kind models.ReputationKind, ref models.PostRef) (*models.ReputationEvent, error) {
	var ev models.ReputationEvent
	err := tx.WithContext(ctx).
		Where("user_id = ? AND kind = ? AND post_type = ? AND post_id = ?", userID, kind, ref.Type, ref.ID).
		Where("id NOT IN (?)", tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.ReputationEvent{}).
			Select("reverses_id").
			Where("reverses_id IS NOT NULL")).
		Order("reputed_at DESC").
		First(&ev).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &ev, nil
}

// HistoryFor lists a user's ledger entries, newest first
func (l *Ledger) HistoryFor(ctx context.Context, userID int64, limit int) ([]*models.ReputationEvent, error) {
	var events []*models.ReputationEvent
	if err := l.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("reputed_at DESC").
		Limit(limit).
		Find(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// ErrAlreadyFlagged is returned when the flagger has already flagged
// the post. Raised by the unique index at insert.
var ErrAlreadyFlagged = errors.New("post already flagged by this user")

// FlagBook records one offensive flag per (flagger, post) pair. Flags
// are permanent audit records; there is no removal path.
type FlagBook struct {
	*Repository
}

// NewFlagBook creates a new flag book
func NewFlagBook(repo *Repository) *FlagBook {
	return &FlagBook{Repository: repo}
}

// Flag stores a new flag record inside the given transaction
func (b *FlagBook) Flag(ctx context.Context, tx *gorm.DB, rec *models.FlagRecord) error {
	if err := tx.WithContext(ctx).Create(rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyFlagged
		}
		return err
	}
	return nil
}

// Exists reports whether the flagger already has a record for the post
func (b *FlagBook) Exists(ctx context.Context, flaggerID int64, ref models.PostRef) (bool, error) {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.FlagRecord{}).
		Where("user_id = ? AND post_type = ? AND post_id = ?", flaggerID, ref.Type, ref.ID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountToday counts the flagger's flags since UTC midnight
func (b *FlagBook) CountToday(ctx context.Context, flaggerID int64, now time.Time) (int, error) {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.FlagRecord{}).
		Where("user_id = ? AND flagged_at >= ?", flaggerID, dayStart(now)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

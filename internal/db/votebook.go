package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// ErrAlreadyVoted is returned when an active vote already exists for
// the (voter, post) pair. It is raised by the unique index at insert,
// so a racing duplicate cast fails at commit rather than slipping past
// the pre-check.
var ErrAlreadyVoted = errors.New("an active vote already exists for this post")

// VoteBook records one vote per (voter, post) pair. It is a pure
// ledger: self-vote and threshold policy live in the rules package.
type VoteBook struct {
	*Repository
}

// NewVoteBook creates a new vote book
func NewVoteBook(repo *Repository) *VoteBook {
	return &VoteBook{Repository: repo}
}

// Cast stores a new vote inside the given transaction
func (b *VoteBook) Cast(ctx context.Context, tx *gorm.DB, vote *models.Vote) error {
	if err := tx.WithContext(ctx).Create(vote).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyVoted
		}
		return err
	}
	return nil
}

// Cancel removes a vote inside the given transaction. Cancel never
// updates in place: a later re-cast is a fresh row with a fresh
// timestamp.
func (b *VoteBook) Cancel(ctx context.Context, tx *gorm.DB, vote *models.Vote) error {
	return tx.WithContext(ctx).Delete(&models.Vote{}, vote.ID).Error
}

// Active retrieves the active vote for a (voter, post) pair, nil when
// there is none
func (b *VoteBook) Active(ctx context.Context, voterID int64, ref models.PostRef) (*models.Vote, error) {
	return b.active(ctx, b.db, voterID, ref)
}

// ActiveTx is Active inside a transaction
func (b *VoteBook) ActiveTx(ctx context.Context, tx *gorm.DB, voterID int64, ref models.PostRef) (*models.Vote, error) {
	return b.active(ctx, tx, voterID, ref)
}

func (b *VoteBook) active(ctx context.Context, db *gorm.DB, voterID int64, ref models.PostRef) (*models.Vote, error) {
	var vote models.Vote
	if err := db.WithContext(ctx).
		Where("user_id = ? AND post_type = ? AND post_id = ?", voterID, ref.Type, ref.ID).
		First(&vote).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &vote, nil
}

// CountToday counts the voter's votes cast since UTC midnight, in one
// direction
func (b *VoteBook) CountToday(ctx context.Context, voterID int64, direction int16, now time.Time) (int, error) {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND direction = ? AND voted_at >= ?", voterID, direction, dayStart(now)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// CountAllToday counts the voter's votes cast since UTC midnight in
// both directions
func (b *VoteBook) CountAllToday(ctx context.Context, voterID int64, now time.Time) (int, error) {
	var count int64
	if err := b.db.WithContext(ctx).Model(&models.Vote{}).
		Where("user_id = ? AND voted_at >= ?", voterID, dayStart(now)).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ByUser lists a user's active votes, newest first
func (b *VoteBook) ByUser(ctx context.Context, voterID int64, limit int) ([]*models.Vote, error) {
	var votes []*models.Vote
	if err := b.db.WithContext(ctx).
		Where("user_id = ?", voterID).
		Order("voted_at DESC").
		Limit(limit).
		Find(&votes).Error; err != nil {
		return nil, err
	}
	return votes, nil
}

package db

import (
	"context"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// CommentStore provides comment database operations
type CommentStore struct {
	*Repository
}

// NewCommentStore creates a new comment store
func NewCommentStore(repo *Repository) *CommentStore {
	return &CommentStore{Repository: repo}
}

// Add stores a comment inside the given transaction
func (s *CommentStore) Add(ctx context.Context, tx *gorm.DB, comment *models.Comment) error {
	return tx.WithContext(ctx).Create(comment).Error
}

// CountForTx counts a post's comments inside a transaction
func (s *CommentStore) CountForTx(ctx context.Context, tx *gorm.DB, ref models.PostRef) (int, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Comment{}).
		Where("post_type = ? AND post_id = ?", ref.Type, ref.ID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

// ForPost returns a post's comments, oldest first
func (s *CommentStore) ForPost(ctx context.Context, ref models.PostRef, limit int) ([]*models.Comment, error) {
	var comments []*models.Comment
	if err := s.db.WithContext(ctx).
		Where("post_type = ? AND post_id = ?", ref.Type, ref.ID).
		Order("added_at ASC, id ASC").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

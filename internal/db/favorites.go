package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// FavoriteStore provides favorite-question database operations
type FavoriteStore struct {
	*Repository
}

// NewFavoriteStore creates a new favorite store
func NewFavoriteStore(repo *Repository) *FavoriteStore {
	return &FavoriteStore{Repository: repo}
}

// GetTx retrieves the user's favorite for a question inside a
// transaction, nil when absent
func (s *FavoriteStore) GetTx(ctx context.Context, tx *gorm.DB, userID, questionID int64) (*models.Favorite, error) {
	var fav models.Favorite
	if err := tx.WithContext(ctx).
		Where("user_id = ? AND question_id = ?", userID, questionID).
		First(&fav).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &fav, nil
}

// Add stores a favorite inside the given transaction
func (s *FavoriteStore) Add(ctx context.Context, tx *gorm.DB, fav *models.Favorite) error {
	return tx.WithContext(ctx).Create(fav).Error
}

// Remove deletes a favorite inside the given transaction
func (s *FavoriteStore) Remove(ctx context.Context, tx *gorm.DB, fav *models.Favorite) error {
	return tx.WithContext(ctx).Delete(&models.Favorite{}, fav.ID).Error
}

// CountTx counts a question's favorites inside a transaction
func (s *FavoriteStore) CountTx(ctx context.Context, tx *gorm.DB, questionID int64) (int, error) {
	var count int64
	if err := tx.WithContext(ctx).Model(&models.Favorite{}).
		Where("question_id = ?", questionID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return int(count), nil
}

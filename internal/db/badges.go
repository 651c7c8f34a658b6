package db

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// BadgeStore provides badge and award database operations
type BadgeStore struct {
	*Repository
}

// NewBadgeStore creates a new badge store
func NewBadgeStore(repo *Repository) *BadgeStore {
	return &BadgeStore{Repository: repo}
}

// List retrieves all badges ordered by tier
func (s *BadgeStore) List(ctx context.Context) ([]*models.Badge, error) {
	var badges []*models.Badge
	if err := s.db.WithContext(ctx).Order("type, name").Find(&badges).Error; err != nil {
		return nil, err
	}
	return badges, nil
}

// GetByName retrieves a badge by name, nil when absent
func (s *BadgeStore) GetByName(ctx context.Context, name string) (*models.Badge, error) {
	var badge models.Badge
	if err := s.db.WithContext(ctx).Where("name = ?", name).First(&badge).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &badge, nil
}

// GetByID retrieves a badge by ID, nil when absent
func (s *BadgeStore) GetByID(ctx context.Context, id int64) (*models.Badge, error) {
	var badge models.Badge
	if err := s.db.WithContext(ctx).First(&badge, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &badge, nil
}

// Seed creates any missing badges by (name, type)
func (s *BadgeStore) Seed(ctx context.Context, badges []*models.Badge) error {
	for _, b := range badges {
		var count int64
		if err := s.db.WithContext(ctx).Model(&models.Badge{}).
			Where("name = ? AND type = ?", b.Name, b.Type).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			continue
		}
		if b.Slug == "" {
			b.Slug = b.Name
		}
		if err := s.db.WithContext(ctx).Create(b).Error; err != nil {
			return err
		}
	}
	return nil
}

// HasAward reports whether the user already holds the badge
func (s *BadgeStore) HasAward(ctx context.Context, userID, badgeID int64) (bool, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Award{}).
		Where("user_id = ? AND badge_id = ?", userID, badgeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Grant persists an award, bumps the badge's denormalised counter and
// the winner's tier counter
func (s *BadgeStore) Grant(ctx context.Context, award *models.Award) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(award).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Badge{}).
			Where("id = ?", award.BadgeID).
			Update("awarded_count", gorm.Expr("awarded_count + 1")).Error; err != nil {
			return err
		}
		var badge models.Badge
		if err := tx.First(&badge, award.BadgeID).Error; err != nil {
			return err
		}
		tier := map[int16]string{
			models.BadgeGold:   "gold",
			models.BadgeSilver: "silver",
			models.BadgeBronze: "bronze",
		}[badge.Type]
		if tier == "" {
			return nil
		}
		return tx.Model(&models.User{}).
			Where("id = ?", award.UserID).
			Update(tier, gorm.Expr(tier+" + 1")).Error
	})
}

// AwardsFor lists a user's awards, newest first
func (s *BadgeStore) AwardsFor(ctx context.Context, userID int64) ([]*models.Award, error) {
	var awards []*models.Award
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("awarded_at DESC").
		Find(&awards).Error; err != nil {
		return nil, err
	}
	return awards, nil
}

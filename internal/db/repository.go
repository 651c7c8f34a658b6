package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

// Repository provides database access methods
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new repository
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// dayStart returns the UTC midnight preceding t. All per-day counters
// (votes, flags, reputation gain) reset at this boundary.
func dayStart(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// UserStore provides user-related database operations
type UserStore struct {
	*Repository
}

// NewUserStore creates a new user store
func NewUserStore(repo *Repository) *UserStore {
	return &UserStore{Repository: repo}
}

// GetByID retrieves a user by ID
func (s *UserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// GetByIDTx retrieves a user inside a transaction
func (s *UserStore) GetByIDTx(ctx context.Context, tx *gorm.DB, id int64) (*models.User, error) {
	var user models.User
	if err := tx.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

// Create creates a new user
func (s *UserStore) Create(ctx context.Context, user *models.User) error {
	return s.db.WithContext(ctx).Create(user).Error
}

// AddReputation adjusts the denormalised running total, flooring at min
func (s *UserStore) AddReputation(ctx context.Context, tx *gorm.DB, userID int64, delta, min int) error {
	res := tx.WithContext(ctx).Model(&models.User{}).
		Where("id = ?", userID).
		Update("reputation", gorm.Expr("CASE WHEN reputation + ? < ? THEN ? ELSE reputation + ? END", delta, min, min, delta))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user %d not found", userID)
	}
	return nil
}

// PostStore resolves PostRefs to questions and answers and mutates
// their denormalised counters
type PostStore struct {
	*Repository
}

// NewPostStore creates a new post store
func NewPostStore(repo *Repository) *PostStore {
	return &PostStore{Repository: repo}
}

// Get retrieves a post by reference
func (s *PostStore) Get(ctx context.Context, ref models.PostRef) (models.Post, error) {
	return s.get(ctx, s.db, ref)
}

// GetTx retrieves a post inside a transaction
func (s *PostStore) GetTx(ctx context.Context, tx *gorm.DB, ref models.PostRef) (models.Post, error) {
	return s.get(ctx, tx, ref)
}

func (s *PostStore) get(ctx context.Context, db *gorm.DB, ref models.PostRef) (models.Post, error) {
	switch ref.Type {
	case models.PostTypeQuestion:
		var q models.Question
		if err := db.WithContext(ctx).First(&q, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &q, nil
	case models.PostTypeAnswer:
		var a models.Answer
		if err := db.WithContext(ctx).First(&a, ref.ID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &a, nil
	default:
		return nil, fmt.Errorf("unknown post type %d", ref.Type)
	}
}

// GetQuestion retrieves a question by ID
func (s *PostStore) GetQuestion(ctx context.Context, id int64) (*models.Question, error) {
	var q models.Question
	if err := s.db.WithContext(ctx).First(&q, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &q, nil
}

// GetAnswerTx retrieves an answer inside a transaction
func (s *PostStore) GetAnswerTx(ctx context.Context, tx *gorm.DB, id int64) (*models.Answer, error) {
	var a models.Answer
	if err := tx.WithContext(ctx).First(&a, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

// AcceptedAnswersTx lists the currently accepted answers of a question
// inside a transaction. The invariant keeps this at most one, but the
// coordinator cancels every accepted answer it finds before accepting a
// new one rather than trusting the invariant blindly.
func (s *PostStore) AcceptedAnswersTx(ctx context.Context, tx *gorm.DB, questionID int64) ([]*models.Answer, error) {
	var answers []*models.Answer
	if err := tx.WithContext(ctx).
		Where("question_id = ? AND accepted = ?", questionID, true).
		Find(&answers).Error; err != nil {
		return nil, err
	}
	return answers, nil
}

func (s *PostStore) model(ref models.PostRef) (interface{}, error) {
	switch ref.Type {
	case models.PostTypeQuestion:
		return &models.Question{}, nil
	case models.PostTypeAnswer:
		return &models.Answer{}, nil
	default:
		return nil, fmt.Errorf("unknown post type %d", ref.Type)
	}
}

// ApplyVote adjusts score and the per-direction counter by sign
// (+1 on cast, -1 on cancel)
func (s *PostStore) ApplyVote(ctx context.Context, tx *gorm.DB, ref models.PostRef, direction int16, sign int) error {
	m, err := s.model(ref)
	if err != nil {
		return err
	}
	counter := "vote_up_count"
	if direction == models.VoteDown {
		counter = "vote_down_count"
	}
	return tx.WithContext(ctx).Model(m).
		Where("id = ?", ref.ID).
		Updates(map[string]interface{}{
			"score":  gorm.Expr("score + ?", int(direction)*sign),
			counter:  gorm.Expr(counter+" + ?", sign),
		}).Error
}

// ApplyFlag increments the offensive flag counter
func (s *PostStore) ApplyFlag(ctx context.Context, tx *gorm.DB, ref models.PostRef) error {
	m, err := s.model(ref)
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(m).
		Where("id = ?", ref.ID).
		Update("offensive_flag_count", gorm.Expr("offensive_flag_count + 1")).Error
}

// SetDeleted soft-deletes or restores a post
func (s *PostStore) SetDeleted(ctx context.Context, tx *gorm.DB, ref models.PostRef, deleted bool, byUserID int64, at time.Time) error {
	m, err := s.model(ref)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{"deleted": deleted}
	if deleted {
		updates["deleted_at"] = at
		updates["deleted_by_id"] = byUserID
	} else {
		updates["deleted_at"] = nil
		updates["deleted_by_id"] = nil
	}
	return tx.WithContext(ctx).Model(m).Where("id = ?", ref.ID).Updates(updates).Error
}

// SetAccepted marks an answer accepted or not and keeps the parent
// question's answer_accepted flag in step
func (s *PostStore) SetAccepted(ctx context.Context, tx *gorm.DB, answer *models.Answer, accepted bool, at time.Time) error {
	updates := map[string]interface{}{"accepted": accepted}
	if accepted {
		updates["accepted_at"] = at
	} else {
		updates["accepted_at"] = nil
	}
	if err := tx.WithContext(ctx).Model(&models.Answer{}).
		Where("id = ?", answer.ID).Updates(updates).Error; err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", answer.QuestionID).
		Update("answer_accepted", accepted).Error
}

// AdjustCommentCount shifts the post's comment counter
func (s *PostStore) AdjustCommentCount(ctx context.Context, tx *gorm.DB, ref models.PostRef, delta int) error {
	m, err := s.model(ref)
	if err != nil {
		return err
	}
	return tx.WithContext(ctx).Model(m).
		Where("id = ?", ref.ID).
		Update("comment_count", gorm.Expr("CASE WHEN comment_count + ? < 0 THEN 0 ELSE comment_count + ? END", delta, delta)).Error
}

// AdjustFavouriteCount shifts the question's favourite counter
func (s *PostStore) AdjustFavouriteCount(ctx context.Context, tx *gorm.DB, questionID int64, delta int) error {
	return tx.WithContext(ctx).Model(&models.Question{}).
		Where("id = ?", questionID).
		Update("favourite_count", gorm.Expr("CASE WHEN favourite_count + ? < 0 THEN 0 ELSE favourite_count + ? END", delta, delta)).Error
}

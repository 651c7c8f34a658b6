package models

import (
	"database/sql"
	"time"
)

// Answer represents an answer to a question
type Answer struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	QuestionID int64     `gorm:"not null;index;column:question_id"`
	AuthorID   int64     `gorm:"not null;index;column:author_id"`
	AddedAt    time.Time `gorm:"not null;column:added_at"`

	// Status
	Accepted    bool          `gorm:"not null;default:false;column:accepted"`
	AcceptedAt  sql.NullTime  `gorm:"column:accepted_at"`
	Deleted     bool          `gorm:"not null;default:false;column:deleted"`
	DeletedAt   sql.NullTime  `gorm:"column:deleted_at"`
	DeletedByID sql.NullInt64 `gorm:"column:deleted_by_id"`

	// Denormalised data, mutated only inside the coordinating transaction
	Score              int `gorm:"not null;default:0;column:score"`
	VoteUpCount        int `gorm:"not null;default:0;column:vote_up_count"`
	VoteDownCount      int `gorm:"not null;default:0;column:vote_down_count"`
	CommentCount       int `gorm:"not null;default:0;column:comment_count"`
	OffensiveFlagCount int `gorm:"not null;default:0;column:offensive_flag_count"`

	// Relationships
	Question *Question `gorm:"foreignKey:QuestionID;references:ID"`
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Answer
func (Answer) TableName() string {
	return "agora_answers"
}

// Ref returns a typed reference to this answer
func (a *Answer) Ref() PostRef {
	return PostRef{Type: PostTypeAnswer, ID: a.ID}
}

// PostAuthorID implements Post
func (a *Answer) PostAuthorID() int64 { return a.AuthorID }

// PostScore implements Post
func (a *Answer) PostScore() int { return a.Score }

// PostFlagCount implements Post
func (a *Answer) PostFlagCount() int { return a.OffensiveFlagCount }

// PostDeleted implements Post
func (a *Answer) PostDeleted() bool { return a.Deleted }

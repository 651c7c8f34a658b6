package models

import (
	"database/sql"
	"time"
)

// Question represents a question post
type Question struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Title    string    `gorm:"type:varchar(300);not null;column:title"`
	AuthorID int64     `gorm:"not null;index;column:author_id"`
	AddedAt  time.Time `gorm:"not null;column:added_at"`

	// Status
	AnswerAccepted bool          `gorm:"not null;default:false;column:answer_accepted"`
	Closed         bool          `gorm:"not null;default:false;column:closed"`
	Deleted        bool          `gorm:"not null;default:false;column:deleted"`
	DeletedAt      sql.NullTime  `gorm:"column:deleted_at"`
	DeletedByID    sql.NullInt64 `gorm:"column:deleted_by_id"`

	// Denormalised data, mutated only inside the coordinating transaction
	Score              int `gorm:"not null;default:0;column:score"`
	VoteUpCount        int `gorm:"not null;default:0;column:vote_up_count"`
	VoteDownCount      int `gorm:"not null;default:0;column:vote_down_count"`
	AnswerCount        int `gorm:"not null;default:0;column:answer_count"`
	CommentCount       int `gorm:"not null;default:0;column:comment_count"`
	OffensiveFlagCount int `gorm:"not null;default:0;column:offensive_flag_count"`
	FavouriteCount     int `gorm:"not null;default:0;column:favourite_count"`

	// Relationships
	Author  *User    `gorm:"foreignKey:AuthorID;references:ID"`
	Answers []Answer `gorm:"foreignKey:QuestionID;references:ID"`
}

// TableName specifies the table name for Question
func (Question) TableName() string {
	return "agora_questions"
}

// Ref returns a typed reference to this question
func (q *Question) Ref() PostRef {
	return PostRef{Type: PostTypeQuestion, ID: q.ID}
}

// PostAuthorID implements Post
func (q *Question) PostAuthorID() int64 { return q.AuthorID }

// PostScore implements Post
func (q *Question) PostScore() int { return q.Score }

// PostFlagCount implements Post
func (q *Question) PostFlagCount() int { return q.OffensiveFlagCount }

// PostDeleted implements Post
func (q *Question) PostDeleted() bool { return q.Deleted }

// Favorite marks a question as a favorite of a user
type Favorite struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64     `gorm:"not null;uniqueIndex:agora_favorites_ux1;column:user_id"`
	QuestionID int64     `gorm:"not null;uniqueIndex:agora_favorites_ux1;column:question_id"`
	AddedAt    time.Time `gorm:"not null;column:added_at"`
}

// TableName specifies the table name for Favorite
func (Favorite) TableName() string {
	return "agora_favorites"
}

// Watcher subscribes a user to updates on a question
type Watcher struct {
	ID         int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID     int64     `gorm:"not null;uniqueIndex:agora_watchers_ux1;column:user_id"`
	QuestionID int64     `gorm:"not null;uniqueIndex:agora_watchers_ux1;column:question_id"`
	AddedAt    time.Time `gorm:"not null;column:added_at"`
}

// TableName specifies the table name for Watcher
func (Watcher) TableName() string {
	return "agora_watchers"
}

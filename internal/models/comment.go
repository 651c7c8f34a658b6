package models

import (
	"time"
)

// Comment is a short remark attached to a question or answer
type Comment struct {
	ID       int64     `gorm:"primaryKey;autoIncrement;column:id"`
	PostType PostType  `gorm:"type:smallint;not null;index:agora_comments_post;column:post_type"`
	PostID   int64     `gorm:"not null;index:agora_comments_post;column:post_id"`
	AuthorID int64     `gorm:"not null;index;column:author_id"`
	Body     string    `gorm:"type:varchar(300);not null;column:body"`
	AddedAt  time.Time `gorm:"not null;column:added_at"`

	Author *User `gorm:"foreignKey:AuthorID;references:ID"`
}

// TableName specifies the table name for Comment
func (Comment) TableName() string {
	return "agora_comments"
}

// Target returns the post the comment is attached to
func (c *Comment) Target() PostRef {
	return PostRef{Type: c.PostType, ID: c.PostID}
}

package models

import (
	"database/sql"
	"time"
)

// Notification kinds
const (
	NotifyVote    int16 = 1
	NotifyAccept  int16 = 2
	NotifyAnswer  int16 = 3
	NotifyFlag    int16 = 4
	NotifyComment int16 = 5
)

// Notification is one inbox entry for a question watcher
type Notification struct {
	ID        int64        `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64        `gorm:"not null;index:agora_notifications_user;column:user_id"`
	ActorID   int64        `gorm:"not null;column:actor_id"`
	Kind      int16        `gorm:"type:smallint;not null;column:kind"`
	PostType  PostType     `gorm:"type:smallint;not null;column:post_type"`
	PostID    int64        `gorm:"not null;column:post_id"`
	CreatedAt time.Time    `gorm:"not null;index:agora_notifications_user;column:created_at"`
	ReadAt    sql.NullTime `gorm:"column:read_at"`
}

// TableName specifies the table name for Notification
func (Notification) TableName() string {
	return "agora_notifications"
}

// KindName returns the lowercase kind name used on the wire
func (n *Notification) KindName() string {
	switch n.Kind {
	case NotifyVote:
		return "vote"
	case NotifyAccept:
		return "accept"
	case NotifyAnswer:
		return "answer"
	case NotifyFlag:
		return "flag"
	case NotifyComment:
		return "comment"
	default:
		return "unknown"
	}
}

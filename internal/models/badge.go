package models

import (
	"time"
)

// Badge tier constants
const (
	BadgeGold   int16 = 1
	BadgeSilver int16 = 2
	BadgeBronze int16 = 3
)

// Badge is a named rule awarded for notable actions. Multiple controls
// whether a user can win it more than once.
type Badge struct {
	ID          int64  `gorm:"primaryKey;autoIncrement;column:id"`
	Name        string `gorm:"type:varchar(50);not null;uniqueIndex:agora_badges_ux1;column:name"`
	Type        int16  `gorm:"type:smallint;not null;uniqueIndex:agora_badges_ux1;column:type"`
	Slug        string `gorm:"type:varchar(50);column:slug"`
	Description string `gorm:"type:varchar(300);column:description"`
	Multiple    bool   `gorm:"not null;default:false;column:multiple"`

	// Denormalised data
	AwardedCount int64 `gorm:"not null;default:0;column:awarded_count"`
}

// TableName specifies the table name for Badge
func (Badge) TableName() string {
	return "agora_badges"
}

// Award binds a badge to a user with the post that earned it
type Award struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;index;column:user_id"`
	BadgeID   int64     `gorm:"not null;index;column:badge_id"`
	PostType  PostType  `gorm:"type:smallint;not null;column:post_type"`
	PostID    int64     `gorm:"not null;column:post_id"`
	AwardedAt time.Time `gorm:"not null;column:awarded_at"`
	Notified  bool      `gorm:"not null;default:false;column:notified"`

	// Relationships
	User  *User  `gorm:"foreignKey:UserID;references:ID"`
	Badge *Badge `gorm:"foreignKey:BadgeID;references:ID"`
}

// TableName specifies the table name for Award
func (Award) TableName() string {
	return "agora_awards"
}

package models

import (
	"time"
)

// Role constants
const (
	RoleMember    int16 = 1
	RoleModerator int16 = 2
	RoleAdmin     int16 = 3
)

// User represents a forum user. Authentication happens upstream; the
// core only consumes the identity, role and reputation.
type User struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	Username  string    `gorm:"type:varchar(30);not null;uniqueIndex:agora_users_ux1;column:username"`
	CreatedAt time.Time `gorm:"not null;column:created_at"`
	Role      int16     `gorm:"type:smallint;not null;default:1;column:role"`

	// Running sum of the reputation ledger, kept consistent with it
	// inside the same transaction that writes the ledger row
	Reputation int `gorm:"not null;default:1;column:reputation"`

	// Badge tier counters
	Gold   int16 `gorm:"type:smallint;not null;default:0;column:gold"`
	Silver int16 `gorm:"type:smallint;not null;default:0;column:silver"`
	Bronze int16 `gorm:"type:smallint;not null;default:0;column:bronze"`

	LastSeenAt time.Time `gorm:"not null;default:'1970-01-01 00:00:00';column:last_seen_at"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "agora_users"
}

// IsModerator reports whether the user holds a moderator or admin role
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

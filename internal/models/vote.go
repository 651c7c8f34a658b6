package models

import (
	"time"
)

// Vote direction constants
const (
	VoteUp   int16 = 1
	VoteDown int16 = -1
)

// Vote records one active vote per (voter, post) pair. The composite
// unique index enforces the pair invariant at commit time, not just at
// the pre-insert existence check.
type Vote struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:agora_votes_ux1;index:agora_votes_user_day;column:user_id"`
	PostType  PostType  `gorm:"type:smallint;not null;uniqueIndex:agora_votes_ux1;column:post_type"`
	PostID    int64     `gorm:"not null;uniqueIndex:agora_votes_ux1;column:post_id"`
	Direction int16     `gorm:"type:smallint;not null;column:direction"`
	VotedAt   time.Time `gorm:"not null;index:agora_votes_user_day;column:voted_at"`
}

// TableName specifies the table name for Vote
func (Vote) TableName() string {
	return "agora_votes"
}

// IsUpvote reports whether this is an up-vote
func (v *Vote) IsUpvote() bool {
	return v.Direction == VoteUp
}

// Target returns the post the vote is attached to
func (v *Vote) Target() PostRef {
	return PostRef{Type: v.PostType, ID: v.PostID}
}

// FlagRecord marks a post as offensive. Flags are permanent audit
// records: there is no unflag path, they are only counted.
type FlagRecord struct {
	ID        int64     `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64     `gorm:"not null;uniqueIndex:agora_flags_ux1;index:agora_flags_user_day;column:user_id"`
	PostType  PostType  `gorm:"type:smallint;not null;uniqueIndex:agora_flags_ux1;column:post_type"`
	PostID    int64     `gorm:"not null;uniqueIndex:agora_flags_ux1;column:post_id"`
	FlaggedAt time.Time `gorm:"not null;index:agora_flags_user_day;column:flagged_at"`
}

// TableName specifies the table name for FlagRecord
func (FlagRecord) TableName() string {
	return "agora_flags"
}

// Target returns the post the flag is attached to
func (f *FlagRecord) Target() PostRef {
	return PostRef{Type: f.PostType, ID: f.PostID}
}

package models

import (
	"database/sql"
	"time"
)

// ReputationKind identifies what caused a reputation event
type ReputationKind int16

// Reputation event kind constants
const (
	RepUpvoteReceived        ReputationKind = 1
	RepUpvoteCanceled        ReputationKind = 2
	RepDownvoteReceived      ReputationKind = 3
	RepDownvoteCanceled      ReputationKind = 4
	RepDownvoteCast          ReputationKind = 5
	RepDownvoteCastCanceled  ReputationKind = 6
	RepFlagReceived          ReputationKind = 7
	RepAcceptReceived        ReputationKind = 8
	RepAcceptCanceled        ReputationKind = 9
	RepAcceptCast            ReputationKind = 10
	RepAcceptCastCanceled    ReputationKind = 11
	RepFlagCanceledReversal  ReputationKind = 12
)

// String returns the snake_case name used on the wire and in logs
func (k ReputationKind) String() string {
	names := map[ReputationKind]string{
		RepUpvoteReceived:       "upvote_received",
		RepUpvoteCanceled:       "upvote_canceled",
		RepDownvoteReceived:     "downvote_received",
		RepDownvoteCanceled:     "downvote_canceled",
		RepDownvoteCast:         "downvote_cast",
		RepDownvoteCastCanceled: "downvote_cast_canceled",
		RepFlagReceived:         "flag_received",
		RepAcceptReceived:       "accept_received",
		RepAcceptCanceled:       "accept_canceled",
		RepAcceptCast:           "accept_cast",
		RepAcceptCastCanceled:   "accept_cast_canceled",
		RepFlagCanceledReversal: "flag_cancel_reversed",
	}
	if name, ok := names[k]; ok {
		return name
	}
	return "unknown"
}

// ReputationEvent is one row of the append-only reputation ledger.
// Rows are never updated or deleted; a reversal is a new row whose
// ReversesID points at the original. Positive and Negative hold the
// delta actually applied, which may be clamped below the nominal
// policy delta by the daily gain cap.
type ReputationEvent struct {
	ID        int64          `gorm:"primaryKey;autoIncrement;column:id"`
	UserID    int64          `gorm:"not null;index:agora_repute_user_day;column:user_id"`
	Kind      ReputationKind `gorm:"type:smallint;not null;column:kind"`
	Positive  int            `gorm:"not null;default:0;column:positive"`
	Negative  int            `gorm:"not null;default:0;column:negative"`
	PostType  PostType       `gorm:"type:smallint;not null;column:post_type"`
	PostID    int64          `gorm:"not null;column:post_id"`
	ReversesID sql.NullInt64 `gorm:"column:reverses_id"`
	ReputedAt time.Time      `gorm:"not null;index:agora_repute_user_day;column:reputed_at"`
}

// TableName specifies the table name for ReputationEvent
func (ReputationEvent) TableName() string {
	return "agora_repute"
}

// Applied returns the net delta this event applied
func (e *ReputationEvent) Applied() int {
	return e.Positive + e.Negative
}

// Cause returns the post that caused the event
func (e *ReputationEvent) Cause() PostRef {
	return PostRef{Type: e.PostType, ID: e.PostID}
}

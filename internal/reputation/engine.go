// Package reputation applies reputation deltas as a consequence of
// vote, flag, accept and delete events, enforcing the daily gain cap.
package reputation

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/config"
	"github.com/agoraforum/agora/pkg/logging"
)

// Engine turns reputation events into ledger rows and keeps the user's
// denormalised running total in step, inside the caller's transaction.
type Engine struct {
	ledger *db.Ledger
	users  *db.UserStore
	policy *config.PolicyConfig
	logger *zap.Logger
}

// New creates a reputation engine
func New(ledger *db.Ledger, users *db.UserStore, policy *config.PolicyConfig) *Engine {
	return &Engine{
		ledger: ledger,
		users:  users,
		policy: policy,
		logger: logging.WithComponent("reputation"),
	}
}

// Delta returns the nominal policy delta for an event kind
func (e *Engine) Delta(kind models.ReputationKind) int {
	switch kind {
	case models.RepUpvoteReceived:
		return e.policy.RepGainUpvoted
	case models.RepUpvoteCanceled:
		return -e.policy.RepGainUpvoted
	case models.RepDownvoteReceived:
		return -e.policy.RepLossDownvoted
	case models.RepDownvoteCanceled:
		return e.policy.RepLossDownvoted
	case models.RepDownvoteCast:
		return -e.policy.RepLossDownvoting
	case models.RepDownvoteCastCanceled:
		return e.policy.RepLossDownvoting
	case models.RepFlagReceived:
		return -e.policy.RepLossFlagged
	case models.RepAcceptReceived:
		return e.policy.RepGainAcceptedBy
	case models.RepAcceptCanceled:
		return -e.policy.RepGainAcceptedBy
	case models.RepAcceptCast:
		return e.policy.RepGainAccepting
	case models.RepAcceptCastCanceled:
		return -e.policy.RepGainAccepting
	case models.RepFlagCanceledReversal:
		return e.policy.RepGainFlagCancel
	default:
		return 0
	}
}

func capped(kind models.ReputationKind) bool {
	return kind == models.RepUpvoteReceived || kind == models.RepFlagCanceledReversal
}

// Apply records one event and adjusts the user's reputation. For
// capped kinds the applied delta is clamped so today's capped gain
// never exceeds the daily cap; the event row is still written for
// audit even when the clamp reduces it to zero.
func (e *Engine) Apply(ctx context.Context, tx *gorm.DB, userID int64, kind models.ReputationKind, cause models.PostRef, at time.Time) (*models.ReputationEvent, error) {
	delta := e.Delta(kind)
	applied := delta

	if capped(kind) && delta > 0 {
		gained, err := e.ledger.GainTodayTx(ctx, tx, userID, at)
		if err != nil {
			return nil, fmt.Errorf("failed to query daily gain: %w", err)
		}
		if room := e.policy.DailyRepCap - gained; applied > room {
			applied = room
			if applied < 0 {
				applied = 0
			}
			e.logger.Debug("daily cap clamped reputation gain",
				zap.Int64("user_id", userID),
				zap.String("kind", kind.String()),
				zap.Int("nominal", delta),
				zap.Int("applied", applied))
		}
	}

	ev := &models.ReputationEvent{
		UserID:    userID,
		Kind:      kind,
		PostType:  cause.Type,
		PostID:    cause.ID,
		ReputedAt: at,
	}
	if applied >= 0 {
		ev.Positive = applied
	} else {
		ev.Negative = applied
	}

	if err := e.ledger.Record(ctx, tx, ev); err != nil {
		return nil, fmt.Errorf("failed to record reputation event: %w", err)
	}
	if applied != 0 {
		if err := e.users.AddReputation(ctx, tx, userID, applied, e.policy.MinReputation); err != nil {
			return nil, fmt.Errorf("failed to update reputation total: %w", err)
		}
	}
	return ev, nil
}

// Reverse inserts a negated event referencing the original and backs
// the applied delta out of the running total. The original row is
// never touched.
func (e *Engine) Reverse(ctx context.Context, tx *gorm.DB, original *models.ReputationEvent, kind models.ReputationKind, at time.Time) (*models.ReputationEvent, error) {
	applied := -original.Applied()

	ev := &models.ReputationEvent{
		UserID:     original.UserID,
		Kind:       kind,
		PostType:   original.PostType,
		PostID:     original.PostID,
		ReversesID: sql.NullInt64{Int64: original.ID, Valid: true},
		ReputedAt:  at,
	}
	if applied >= 0 {
		ev.Positive = applied
	} else {
		ev.Negative = applied
	}

	if err := e.ledger.Record(ctx, tx, ev); err != nil {
		return nil, fmt.Errorf("failed to record reversal event: %w", err)
	}
	if applied != 0 {
		if err := e.users.AddReputation(ctx, tx, original.UserID, applied, e.policy.MinReputation); err != nil {
			return nil, fmt.Errorf("failed to update reputation total: %w", err)
		}
	}
	return ev, nil
}

// ReverseLatest finds the most recent non-reversed event of kind for
// (user, cause) and reverses it as reversalKind. Missing originals are
// tolerated: cancelling a vote cast before the ledger existed must not
// fail the cancellation.
func (e *Engine) ReverseLatest(ctx context.Context, tx *gorm.DB, userID int64, kind, reversalKind models.ReputationKind, cause models.PostRef, at time.Time) error {
	original, err := e.ledger.LatestFor(ctx, tx, userID, kind, cause)
	if err != nil {
		return err
	}
	if original == nil {
		e.logger.Warn("no ledger event found to reverse",
			zap.Int64("user_id", userID),
			zap.String("kind", kind.String()),
			zap.String("post", cause.Type.String()),
			zap.Int64("post_id", cause.ID))
		return nil
	}
	_, err = e.Reverse(ctx, tx, original, reversalKind, at)
	return err
}

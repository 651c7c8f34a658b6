// Package badge decides whether committed actions earn badges. Rules
// are registered explicitly at process start; the coordinator fires
// events after its transaction commits and a failing rule never rolls
// the action back.
package badge

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/pkg/logging"
)

// EventKind names the committed mutation a rule may react to
type EventKind string

// Event kinds observed by badge rules
const (
	EventVoteCast     EventKind = "vote_cast"
	EventVoteCanceled EventKind = "vote_canceled"
	EventFlagged      EventKind = "flagged"
	EventAccepted     EventKind = "accepted"
	EventUnaccepted   EventKind = "unaccepted"
)

// Event describes one committed mutation
type Event struct {
	Kind      EventKind
	ActorID   int64
	Post      models.PostRef
	AuthorID  int64
	PostScore int
	Direction int16
	At        time.Time
}

// Evaluator is one badge rule. Implementations decide whether the
// event earns a badge and return awards to grant; they must not assume
// they run inside the action's transaction.
type Evaluator interface {
	Name() string
	Evaluate(ctx context.Context, ev Event) ([]*models.Award, error)
}

// Registry fans committed events out to registered evaluators
type Registry struct {
	mu         sync.RWMutex
	evaluators []Evaluator
	store      *db.BadgeStore
	logger     *zap.Logger
}

// NewRegistry creates an empty badge rule registry
func NewRegistry(store *db.BadgeStore) *Registry {
	return &Registry{
		store:  store,
		logger: logging.WithComponent("badges"),
	}
}

// Register adds an evaluator. Call during process start, before the
// coordinator begins firing events.
func (r *Registry) Register(e Evaluator) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.evaluators = append(r.evaluators, e)
}

// Notify runs every evaluator against the event and grants whatever
// they return. Errors are logged, never propagated: badge evaluation
// failing must not fail the action that triggered it.
func (r *Registry) Notify(ctx context.Context, ev Event) {
	r.mu.RLock()
	evaluators := make([]Evaluator, len(r.evaluators))
	copy(evaluators, r.evaluators)
	r.mu.RUnlock()

	for _, e := range evaluators {
		awards, err := e.Evaluate(ctx, ev)
		if err != nil {
			r.logger.Error("badge rule failed",
				zap.String("rule", e.Name()),
				zap.String("event", string(ev.Kind)),
				zap.Error(err))
			continue
		}
		for _, award := range awards {
			if err := r.grant(ctx, award); err != nil {
				r.logger.Error("failed to grant badge",
					zap.String("rule", e.Name()),
					zap.Int64("user_id", award.UserID),
					zap.Int64("badge_id", award.BadgeID),
					zap.Error(err))
			}
		}
	}
}

func (r *Registry) grant(ctx context.Context, award *models.Award) error {
	badge, err := r.store.GetByID(ctx, award.BadgeID)
	if err != nil {
		return err
	}
	if badge == nil {
		return nil
	}
	if !badge.Multiple {
		has, err := r.store.HasAward(ctx, award.UserID, award.BadgeID)
		if err != nil {
			return err
		}
		if has {
			return nil
		}
	}
	if err := r.store.Grant(ctx, award); err != nil {
		return err
	}
	r.logger.Info("badge awarded",
		zap.String("badge", badge.Name),
		zap.Int64("user_id", award.UserID))
	return nil
}

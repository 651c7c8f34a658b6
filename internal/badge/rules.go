package badge

import (
	"context"

	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
)

// DefaultBadges returns the built-in badge set, seeded by the migrate
// command
func DefaultBadges() []*models.Badge {
	return []*models.Badge{
		{Name: "Supporter", Type: models.BadgeBronze, Description: "First up vote"},
		{Name: "Critic", Type: models.BadgeBronze, Description: "First down vote"},
		{Name: "Citizen Patrol", Type: models.BadgeBronze, Description: "First flagged post"},
		{Name: "Nice Question", Type: models.BadgeBronze, Description: "Question voted up 10 times", Multiple: true},
		{Name: "Nice Answer", Type: models.BadgeBronze, Description: "Answer voted up 10 times", Multiple: true},
		{Name: "Good Question", Type: models.BadgeSilver, Description: "Question voted up 25 times", Multiple: true},
		{Name: "Good Answer", Type: models.BadgeSilver, Description: "Answer voted up 25 times", Multiple: true},
		{Name: "Great Question", Type: models.BadgeGold, Description: "Question voted up 100 times", Multiple: true},
		{Name: "Great Answer", Type: models.BadgeGold, Description: "Answer voted up 100 times", Multiple: true},
	}
}

// FirstActionRule awards a once-only badge the first time a user
// performs an action kind (Supporter, Critic, Citizen Patrol)
type FirstActionRule struct {
	badgeName string
	event     EventKind
	direction int16 // 0 matches any direction
	store     *db.BadgeStore
}

// NewFirstActionRule creates a first-action rule
func NewFirstActionRule(store *db.BadgeStore, badgeName string, event EventKind, direction int16) *FirstActionRule {
	return &FirstActionRule{
		badgeName: badgeName,
		event:     event,
		direction: direction,
		store:     store,
	}
}

// Name implements Evaluator
func (r *FirstActionRule) Name() string { return r.badgeName }

// Evaluate implements Evaluator
func (r *FirstActionRule) Evaluate(ctx context.Context, ev Event) ([]*models.Award, error) {
	if ev.Kind != r.event {
		return nil, nil
	}
	if r.direction != 0 && ev.Direction != r.direction {
		return nil, nil
	}
	badge, err := r.store.GetByName(ctx, r.badgeName)
	if err != nil || badge == nil {
		return nil, err
	}
	// Duplicate grants are filtered by the registry for Multiple=false
	return []*models.Award{{
		UserID:    ev.ActorID,
		BadgeID:   badge.ID,
		PostType:  ev.Post.Type,
		PostID:    ev.Post.ID,
		AwardedAt: ev.At,
	}}, nil
}

// ScoreThresholdRule awards the post author when an up-vote lifts the
// post's score to a threshold (Nice/Good/Great Question and Answer)
type ScoreThresholdRule struct {
	badgeName string
	postType  models.PostType
	threshold int
	store     *db.BadgeStore
}

// NewScoreThresholdRule creates a score-threshold rule
func NewScoreThresholdRule(store *db.BadgeStore, badgeName string, postType models.PostType, threshold int) *ScoreThresholdRule {
	return &ScoreThresholdRule{
		badgeName: badgeName,
		postType:  postType,
		threshold: threshold,
		store:     store,
	}
}

// Name implements Evaluator
func (r *ScoreThresholdRule) Name() string { return r.badgeName }

// Evaluate implements Evaluator
func (r *ScoreThresholdRule) Evaluate(ctx context.Context, ev Event) ([]*models.Award, error) {
	if ev.Kind != EventVoteCast || ev.Direction != models.VoteUp {
		return nil, nil
	}
	if ev.Post.Type != r.postType {
		return nil, nil
	}
	// Award exactly at the crossing, not on every vote above it
	if ev.PostScore != r.threshold {
		return nil, nil
	}
	badge, err := r.store.GetByName(ctx, r.badgeName)
	if err != nil || badge == nil {
		return nil, err
	}
	return []*models.Award{{
		UserID:    ev.AuthorID,
		BadgeID:   badge.ID,
		PostType:  ev.Post.Type,
		PostID:    ev.Post.ID,
		AwardedAt: ev.At,
	}}, nil
}

// RegisterDefaults wires the built-in rule set into a registry
func RegisterDefaults(registry *Registry, store *db.BadgeStore) {
	registry.Register(NewFirstActionRule(store, "Supporter", EventVoteCast, models.VoteUp))
	registry.Register(NewFirstActionRule(store, "Critic", EventVoteCast, models.VoteDown))
	registry.Register(NewFirstActionRule(store, "Citizen Patrol", EventFlagged, 0))

	registry.Register(NewScoreThresholdRule(store, "Nice Question", models.PostTypeQuestion, 10))
	registry.Register(NewScoreThresholdRule(store, "Nice Answer", models.PostTypeAnswer, 10))
	registry.Register(NewScoreThresholdRule(store, "Good Question", models.PostTypeQuestion, 25))
	registry.Register(NewScoreThresholdRule(store, "Good Answer", models.PostTypeAnswer, 25))
	registry.Register(NewScoreThresholdRule(store, "Great Question", models.PostTypeQuestion, 100))
	registry.Register(NewScoreThresholdRule(store, "Great Answer", models.PostTypeAnswer, 100))
}

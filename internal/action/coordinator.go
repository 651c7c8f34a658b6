// Package action coordinates external action requests: it consults the
// moderation rules, mutates the vote/flag books and the reputation
// ledger inside a single transaction, and reports a structured outcome.
package action

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/agoraforum/agora/internal/badge"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/notify"
	"github.com/agoraforum/agora/internal/reputation"
	"github.com/agoraforum/agora/internal/rules"
	"github.com/agoraforum/agora/pkg/config"
	"github.com/agoraforum/agora/pkg/logging"
	"github.com/agoraforum/agora/pkg/telemetry"
)

// Kind identifies an action request
type Kind string

// Action kinds
const (
	KindVoteUp        Kind = "vote_up"
	KindVoteDown      Kind = "vote_down"
	KindCancelVote    Kind = "cancel_vote"
	KindAcceptAnswer  Kind = "accept_answer"
	KindCancelAccept  Kind = "cancel_accept"
	KindFavorite      Kind = "favorite"
	KindComment       Kind = "comment"
	KindFlagOffensive Kind = "flag_offensive"
	KindSoftDelete    Kind = "soft_delete"
	KindRestore       Kind = "restore"
	KindSubscribe     Kind = "subscribe"
	KindUnsubscribe   Kind = "unsubscribe"
)

// Request is one external action request
type Request struct {
	ActorID int64
	Kind    Kind
	Target  models.PostRef
	// AnswerID names the answer for accept_answer/cancel_accept, where
	// Target is the question
	AnswerID int64
	// Body carries the comment text for the comment kind
	Body string
}

// Coordinator is the façade in front of the books, the rules and the
// reputation engine
type Coordinator struct {
	db        *db.DB
	posts     *db.PostStore
	users     *db.UserStore
	votes     *db.VoteBook
	flags     *db.FlagBook
	comments  *db.CommentStore
	favorites *db.FavoriteStore
	engine    *reputation.Engine
	rules     *rules.Rules
	badges    *badge.Registry
	watchers  *notify.Watchers
	inbox     *notify.Inbox
	policy    *config.PolicyConfig
	logger    *zap.Logger

	// now is replaceable by tests
	now func() time.Time
}

// New creates a coordinator
func New(
	database *db.DB,
	repo *db.Repository,
	engine *reputation.Engine,
	ruleSet *rules.Rules,
	badges *badge.Registry,
	watchers *notify.Watchers,
	inbox *notify.Inbox,
	policy *config.PolicyConfig,
) *Coordinator {
	return &Coordinator{
		db:        database,
		posts:     db.NewPostStore(repo),
		users:     db.NewUserStore(repo),
		votes:     db.NewVoteBook(repo),
		flags:     db.NewFlagBook(repo),
		comments:  db.NewCommentStore(repo),
		favorites: db.NewFavoriteStore(repo),
		engine:    engine,
		rules:     ruleSet,
		badges:    badges,
		watchers:  watchers,
		inbox:     inbox,
		policy:    policy,
		logger:    logging.WithComponent("action"),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// PerformAction evaluates and applies one action. Denials come back
// inside the Outcome; an error means the action could not be evaluated
// (missing entities, storage failure, commit conflict).
func (c *Coordinator) PerformAction(ctx context.Context, req Request) (*Outcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "action."+string(req.Kind))
	defer span.End()

	actor, err := c.users.GetByID(ctx, req.ActorID)
	if err != nil {
		return nil, fmt.Errorf("failed to load actor: %w", err)
	}
	if actor == nil {
		return denied(rules.DeniedAnonymous, 0), nil
	}

	outcome, err := c.dispatch(ctx, actor, req)
	if err != nil {
		if isSerializationFailure(err) {
			c.logger.Warn("action hit a commit conflict",
				zap.String("kind", string(req.Kind)),
				zap.Int64("actor_id", actor.ID))
			return nil, ErrConcurrencyConflict
		}
		return nil, err
	}

	c.logger.Debug("action evaluated",
		zap.String("kind", string(req.Kind)),
		zap.Int64("actor_id", actor.ID),
		zap.String("allowed", outcome.Allowed.String()),
		zap.Bool("applied", outcome.Applied))
	return outcome, nil
}

func (c *Coordinator) dispatch(ctx context.Context, actor *models.User, req Request) (*Outcome, error) {
	switch req.Kind {
	case KindVoteUp:
		return c.vote(ctx, actor, req.Target, models.VoteUp)
	case KindVoteDown:
		return c.vote(ctx, actor, req.Target, models.VoteDown)
	case KindCancelVote:
		return c.cancelVote(ctx, actor, req.Target)
	case KindAcceptAnswer:
		return c.acceptAnswer(ctx, actor, req.Target, req.AnswerID)
	case KindCancelAccept:
		return c.cancelAccept(ctx, actor, req.Target, req.AnswerID)
	case KindFavorite:
		return c.favorite(ctx, actor, req.Target)
	case KindComment:
		return c.comment(ctx, actor, req.Target, req.Body)
	case KindFlagOffensive:
		return c.flag(ctx, actor, req.Target)
	case KindSoftDelete:
		return c.setDeleted(ctx, actor, req.Target, true)
	case KindRestore:
		return c.setDeleted(ctx, actor, req.Target, false)
	case KindSubscribe:
		return c.subscribe(ctx, actor, req.Target, true)
	case KindUnsubscribe:
		return c.subscribe(ctx, actor, req.Target, false)
	default:
		return nil, fmt.Errorf("unknown action kind %q", req.Kind)
	}
}

// loadPost fetches the target or fails with NotFoundError
func (c *Coordinator) loadPost(ctx context.Context, ref models.PostRef) (models.Post, error) {
	post, err := c.posts.Get(ctx, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", ref.Type, err)
	}
	if post == nil {
		return nil, &NotFoundError{Entity: ref.Type.String(), ID: ref.ID}
	}
	return post, nil
}

// notifyBadges fires a committed mutation at the badge registry;
// evaluation failures never affect the action
func (c *Coordinator) notifyBadges(ctx context.Context, ev badge.Event) {
	if c.badges == nil {
		return
	}
	c.badges.Notify(ctx, ev)
}

// notifyWatchers fans a notification out to the question's watchers
func (c *Coordinator) notifyWatchers(ctx context.Context, questionID, actorID int64, kind int16, ref models.PostRef) {
	if c.inbox == nil {
		return
	}
	c.inbox.FanOut(ctx, questionID, actorID, kind, ref, c.now())
}

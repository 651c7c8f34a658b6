package action

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/badge"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/rules"
)

func (c *Coordinator) vote(ctx context.Context, actor *models.User, ref models.PostRef, direction int16) (*Outcome, error) {
	post, err := c.loadPost(ctx, ref)
	if err != nil {
		return nil, err
	}

	votesToday, err := c.votes.CountAllToday(ctx, actor.ID, c.now())
	if err != nil {
		return nil, fmt.Errorf("failed to count today's votes: %w", err)
	}

	perm := c.rules.CanVote(actor, post, direction, votesToday)
	if !perm.Granted() {
		return denied(perm, post.PostScore()), nil
	}

	now := c.now()
	score := post.PostScore()
	authorID := post.PostAuthorID()

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		fresh, txErr := c.posts.GetTx(ctx, tx, ref)
		if txErr != nil {
			return txErr
		}
		if fresh == nil {
			return &NotFoundError{Entity: ref.Type.String(), ID: ref.ID}
		}
		score = fresh.PostScore()

		if txErr = c.votes.Cast(ctx, tx, &models.Vote{
			UserID:    actor.ID,
			PostType:  ref.Type,
			PostID:    ref.ID,
			Direction: direction,
			VotedAt:   now,
		}); txErr != nil {
			return txErr
		}
		if txErr = c.posts.ApplyVote(ctx, tx, ref, direction, 1); txErr != nil {
			return txErr
		}
		score += int(direction)

		if direction == models.VoteUp {
			_, txErr = c.engine.Apply(ctx, tx, authorID, models.RepUpvoteReceived, ref, now)
			return txErr
		}
		if _, txErr = c.engine.Apply(ctx, tx, authorID, models.RepDownvoteReceived, ref, now); txErr != nil {
			return txErr
		}
		_, txErr = c.engine.Apply(ctx, tx, actor.ID, models.RepDownvoteCast, ref, now)
		return txErr
	})
	if errors.Is(err, db.ErrAlreadyVoted) {
		return &Outcome{
			Allowed: rules.Allowed,
			Applied: false,
			Status:  StatusCanceled,
			Count:   score,
			Message: "you have already voted on this post",
		}, nil
	}
	if err != nil {
		return nil, err
	}

	// A vote is an expression of interest: voting on a question enrols
	// the voter in its watcher list.
	if ref.Type == models.PostTypeQuestion {
		if subErr := c.watchers.Subscribe(ctx, actor.ID, ref.ID, now); subErr != nil {
			c.logger.Warn("failed to auto-subscribe voter", zap.Int64("user_id", actor.ID),
				zap.Int64("question_id", ref.ID), zap.Error(subErr))
		}
		c.notifyWatchers(ctx, ref.ID, actor.ID, models.NotifyVote, ref)
	}

	c.notifyBadges(ctx, badge.Event{
		Kind:      badge.EventVoteCast,
		ActorID:   actor.ID,
		Post:      ref,
		AuthorID:  authorID,
		PostScore: score,
		Direction: direction,
		At:        now,
	})

	message := ""
	if perm == rules.AllowedWithWarning {
		message = fmt.Sprintf("%d votes left for today", c.rules.VotesLeft(votesToday))
	}
	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusApplied,
		Count:   score,
		Message: message,
	}, nil
}

func (c *Coordinator) cancelVote(ctx context.Context, actor *models.User, ref models.PostRef) (*Outcome, error) {
	post, err := c.loadPost(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := c.now()
	score := post.PostScore()
	authorID := post.PostAuthorID()

	// The active-vote lookup happens inside the transaction: a cancel
	// that loses the race against another cancel must report
	// not-applied, the same as cancelling a vote that never existed.
	var (
		direction int16
		declined  *Outcome
	)

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		fresh, txErr := c.votes.ActiveTx(ctx, tx, actor.ID, ref)
		if txErr != nil {
			return txErr
		}
		if fresh == nil {
			declined = &Outcome{
				Allowed: rules.Allowed,
				Applied: false,
				Status:  StatusCanceled,
				Count:   score,
				Message: "you have no active vote on this post",
			}
			return nil
		}
		if now.Sub(fresh.VotedAt) > c.policy.VoteCancelWindow {
			declined = &Outcome{
				Allowed: rules.Allowed,
				Applied: false,
				Status:  StatusTooOld,
				Count:   score,
				Message: "this vote is too old to cancel",
			}
			return nil
		}
		direction = fresh.Direction

		if txErr = c.votes.Cancel(ctx, tx, fresh); txErr != nil {
			return txErr
		}
		if txErr = c.posts.ApplyVote(ctx, tx, ref, direction, -1); txErr != nil {
			return txErr
		}
		score -= int(direction)

		if direction == models.VoteUp {
			return c.engine.ReverseLatest(ctx, tx, authorID,
				models.RepUpvoteReceived, models.RepUpvoteCanceled, ref, now)
		}
		if txErr = c.engine.ReverseLatest(ctx, tx, authorID,
			models.RepDownvoteReceived, models.RepDownvoteCanceled, ref, now); txErr != nil {
			return txErr
		}
		return c.engine.ReverseLatest(ctx, tx, actor.ID,
			models.RepDownvoteCast, models.RepDownvoteCastCanceled, ref, now)
	})
	if err != nil {
		return nil, err
	}
	if declined != nil {
		return declined, nil
	}

	c.notifyBadges(ctx, badge.Event{
		Kind:      badge.EventVoteCanceled,
		ActorID:   actor.ID,
		Post:      ref,
		AuthorID:  authorID,
		PostScore: score,
		Direction: direction,
		At:        now,
	})

	return &Outcome{
		Allowed: rules.Allowed,
		Applied: true,
		Status:  StatusApplied,
		Count:   score,
	}, nil
}

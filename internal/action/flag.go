package action

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/badge"
	"github.com/agoraforum/agora/internal/db"
	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/rules"
)

func (c *Coordinator) flag(ctx context.Context, actor *models.User, ref models.PostRef) (*Outcome, error) {
	post, err := c.loadPost(ctx, ref)
	if err != nil {
		return nil, err
	}

	now := c.now()
	flagsToday, err := c.flags.CountToday(ctx, actor.ID, now)
	if err != nil {
		return nil, fmt.Errorf("failed to count today's flags: %w", err)
	}
	already, err := c.flags.Exists(ctx, actor.ID, ref)
	if err != nil {
		return nil, fmt.Errorf("failed to look up existing flag: %w", err)
	}

	perm := c.rules.CanFlag(actor, flagsToday, already)
	if perm == rules.DeniedAlreadyFlagged {
		return alreadyFlagged(post.PostFlagCount()), nil
	}
	if !perm.Granted() {
		return denied(perm, post.PostFlagCount()), nil
	}

	authorID := post.PostAuthorID()
	flagCount := post.PostFlagCount()

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		fresh, txErr := c.posts.GetTx(ctx, tx, ref)
		if txErr != nil {
			return txErr
		}
		if fresh == nil {
			return &NotFoundError{Entity: ref.Type.String(), ID: ref.ID}
		}
		flagCount = fresh.PostFlagCount()

		if txErr = c.flags.Flag(ctx, tx, &models.FlagRecord{
			UserID:    actor.ID,
			PostType:  ref.Type,
			PostID:    ref.ID,
			FlaggedAt: now,
		}); txErr != nil {
			return txErr
		}
		if txErr = c.posts.ApplyFlag(ctx, tx, ref); txErr != nil {
			return txErr
		}
		flagCount++

		_, txErr = c.engine.Apply(ctx, tx, authorID, models.RepFlagReceived, ref, now)
		return txErr
	})
	if errors.Is(err, db.ErrAlreadyFlagged) {
		return alreadyFlagged(flagCount), nil
	}
	if err != nil {
		return nil, err
	}

	c.notifyBadges(ctx, badge.Event{
		Kind:     badge.EventFlagged,
		ActorID:  actor.ID,
		Post:     ref,
		AuthorID: authorID,
		At:       now,
	})

	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusApplied,
		Count:   flagCount,
	}, nil
}

// alreadyFlagged mirrors the legacy wire behaviour: a duplicate flag
// is reported as allowed-but-already-done, not as a denial
func alreadyFlagged(count int) *Outcome {
	return &Outcome{
		Allowed: rules.Allowed,
		Applied: false,
		Status:  StatusCanceled,
		Count:   count,
		Message: "you have already flagged this post",
	}
}

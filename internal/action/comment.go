package action

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
)

func (c *Coordinator) comment(ctx context.Context, actor *models.User, ref models.PostRef, body string) (*Outcome, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("missing required parameter: body")
	}
	if len(body) > c.policy.MaxCommentLength {
		return nil, fmt.Errorf("comment exceeds %d characters", c.policy.MaxCommentLength)
	}

	post, err := c.loadPost(ctx, ref)
	if err != nil {
		return nil, err
	}

	perm := c.rules.CanComment(actor, post)
	if !perm.Granted() {
		return denied(perm, 0), nil
	}

	now := c.now()
	count := 0

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		if txErr := c.comments.Add(ctx, tx, &models.Comment{
			PostType: ref.Type,
			PostID:   ref.ID,
			AuthorID: actor.ID,
			Body:     body,
			AddedAt:  now,
		}); txErr != nil {
			return txErr
		}
		if txErr := c.posts.AdjustCommentCount(ctx, tx, ref, 1); txErr != nil {
			return txErr
		}
		var txErr error
		count, txErr = c.comments.CountForTx(ctx, tx, ref)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Comments on answers notify the watchers of the parent question.
	questionID := ref.ID
	if answer, ok := post.(*models.Answer); ok {
		questionID = answer.QuestionID
	}
	c.notifyWatchers(ctx, questionID, actor.ID, models.NotifyComment, ref)

	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusApplied,
		Count:   count,
	}, nil
}

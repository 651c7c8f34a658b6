package action

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/models"
	"github.com/agoraforum/agora/internal/rules"
)

func (c *Coordinator) favorite(ctx context.Context, actor *models.User, ref models.PostRef) (*Outcome, error) {
	if ref.Type != models.PostTypeQuestion {
		return nil, fmt.Errorf("favorite target must be a question, got %s", ref.Type)
	}
	question, err := c.posts.GetQuestion(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, &NotFoundError{Entity: "question", ID: ref.ID}
	}

	now := c.now()
	added := false
	count := question.FavouriteCount

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		existing, txErr := c.favorites.GetTx(ctx, tx, actor.ID, question.ID)
		if txErr != nil {
			return txErr
		}
		if existing == nil {
			added = true
			if txErr = c.favorites.Add(ctx, tx, &models.Favorite{
				UserID:     actor.ID,
				QuestionID: question.ID,
				AddedAt:    now,
			}); txErr != nil {
				return txErr
			}
			if txErr = c.posts.AdjustFavouriteCount(ctx, tx, question.ID, 1); txErr != nil {
				return txErr
			}
		} else {
			if txErr = c.favorites.Remove(ctx, tx, existing); txErr != nil {
				return txErr
			}
			if txErr = c.posts.AdjustFavouriteCount(ctx, tx, question.ID, -1); txErr != nil {
				return txErr
			}
		}
		count, txErr = c.favorites.CountTx(ctx, tx, question.ID)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	status := StatusApplied
	if !added {
		status = StatusCanceled
	}
	return &Outcome{
		Allowed: rules.Allowed,
		Applied: true,
		Status:  status,
		Count:   count,
	}, nil
}

func (c *Coordinator) setDeleted(ctx context.Context, actor *models.User, ref models.PostRef, deleted bool) (*Outcome, error) {
	post, err := c.loadPost(ctx, ref)
	if err != nil {
		return nil, err
	}

	perm := c.rules.CanDelete(actor, post)
	if !perm.Granted() {
		return denied(perm, 0), nil
	}
	if post.PostDeleted() == deleted {
		message := "this post is not deleted"
		if deleted {
			message = "this post is already deleted"
		}
		return &Outcome{
			Allowed: perm,
			Applied: false,
			Status:  StatusCanceled,
			Message: message,
		}, nil
	}

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		return c.posts.SetDeleted(ctx, tx, ref, deleted, actor.ID, c.now())
	})
	if err != nil {
		return nil, err
	}

	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusApplied,
	}, nil
}

func (c *Coordinator) subscribe(ctx context.Context, actor *models.User, ref models.PostRef, on bool) (*Outcome, error) {
	if ref.Type != models.PostTypeQuestion {
		return nil, fmt.Errorf("subscribe target must be a question, got %s", ref.Type)
	}
	question, err := c.posts.GetQuestion(ctx, ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, &NotFoundError{Entity: "question", ID: ref.ID}
	}

	if on {
		err = c.watchers.Subscribe(ctx, actor.ID, question.ID, c.now())
	} else {
		err = c.watchers.Unsubscribe(ctx, actor.ID, question.ID)
	}
	if err != nil {
		return nil, err
	}

	status := StatusApplied
	if !on {
		status = StatusCanceled
	}
	return &Outcome{
		Allowed: rules.Allowed,
		Applied: true,
		Status:  status,
	}, nil
}

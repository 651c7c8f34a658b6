package action

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agoraforum/agora/internal/badge"
	"github.com/agoraforum/agora/internal/models"
)

// loadAcceptPair fetches the question and the named answer and checks
// they belong together
func (c *Coordinator) loadAcceptPair(ctx context.Context, target models.PostRef, answerID int64) (*models.Question, *models.Answer, error) {
	if target.Type != models.PostTypeQuestion {
		return nil, nil, fmt.Errorf("accept target must be a question, got %s", target.Type)
	}
	question, err := c.posts.GetQuestion(ctx, target.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load question: %w", err)
	}
	if question == nil {
		return nil, nil, &NotFoundError{Entity: "question", ID: target.ID}
	}

	post, err := c.posts.Get(ctx, models.PostRef{Type: models.PostTypeAnswer, ID: answerID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load answer: %w", err)
	}
	answer, ok := post.(*models.Answer)
	if !ok || answer == nil {
		return nil, nil, &NotFoundError{Entity: "answer", ID: answerID}
	}
	if answer.QuestionID != question.ID {
		return nil, nil, fmt.Errorf("answer %d does not belong to question %d", answerID, question.ID)
	}
	return question, answer, nil
}

func (c *Coordinator) acceptAnswer(ctx context.Context, actor *models.User, target models.PostRef, answerID int64) (*Outcome, error) {
	question, answer, err := c.loadAcceptPair(ctx, target, answerID)
	if err != nil {
		return nil, err
	}

	perm := c.rules.CanAcceptAnswer(actor, question, answer)
	if !perm.Granted() {
		return denied(perm, 0), nil
	}

	// Accepting an already-accepted answer toggles the mark off, the
	// way the accept control behaves in the UI.
	if answer.Accepted {
		return c.cancelAccept(ctx, actor, target, answerID)
	}

	now := c.now()
	answerRef := answer.Ref()

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		fresh, txErr := c.posts.GetAnswerTx(ctx, tx, answerID)
		if txErr != nil {
			return txErr
		}
		if fresh == nil {
			return &NotFoundError{Entity: "answer", ID: answerID}
		}
		if fresh.Accepted {
			// Raced with an identical accept; nothing to change.
			return nil
		}

		// A question carries at most one accepted answer: any other
		// accepted answer is unaccepted first, with its reputation
		// backed out.
		others, txErr := c.posts.AcceptedAnswersTx(ctx, tx, question.ID)
		if txErr != nil {
			return txErr
		}
		for _, other := range others {
			if txErr = c.unacceptTx(ctx, tx, actor.ID, other, now); txErr != nil {
				return txErr
			}
		}

		if txErr = c.posts.SetAccepted(ctx, tx, fresh, true, now); txErr != nil {
			return txErr
		}
		if _, txErr = c.engine.Apply(ctx, tx, fresh.AuthorID, models.RepAcceptReceived, answerRef, now); txErr != nil {
			return txErr
		}
		_, txErr = c.engine.Apply(ctx, tx, actor.ID, models.RepAcceptCast, answerRef, now)
		return txErr
	})
	if err != nil {
		return nil, err
	}

	// Accepting is an expression of interest too: it keeps the actor
	// watching the question, like casting a vote does.
	if subErr := c.watchers.Subscribe(ctx, actor.ID, question.ID, now); subErr != nil {
		c.logger.Warn("failed to auto-subscribe accepter", zap.Int64("user_id", actor.ID),
			zap.Int64("question_id", question.ID), zap.Error(subErr))
	}

	c.notifyBadges(ctx, badge.Event{
		Kind:      badge.EventAccepted,
		ActorID:   actor.ID,
		Post:      answerRef,
		AuthorID:  answer.AuthorID,
		PostScore: answer.Score,
		At:        now,
	})
	c.notifyWatchers(ctx, question.ID, actor.ID, models.NotifyAccept, answerRef)

	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusApplied,
		Count:   1,
	}, nil
}

func (c *Coordinator) cancelAccept(ctx context.Context, actor *models.User, target models.PostRef, answerID int64) (*Outcome, error) {
	question, answer, err := c.loadAcceptPair(ctx, target, answerID)
	if err != nil {
		return nil, err
	}

	perm := c.rules.CanAcceptAnswer(actor, question, answer)
	if !perm.Granted() {
		return denied(perm, 0), nil
	}
	if !answer.Accepted {
		return &Outcome{
			Allowed: perm,
			Applied: false,
			Status:  StatusCanceled,
			Message: "this answer is not accepted",
		}, nil
	}

	now := c.now()
	answerRef := answer.Ref()

	err = c.db.InTx(ctx, func(tx *gorm.DB) error {
		fresh, txErr := c.posts.GetAnswerTx(ctx, tx, answerID)
		if txErr != nil {
			return txErr
		}
		if fresh == nil || !fresh.Accepted {
			return nil
		}
		return c.unacceptTx(ctx, tx, actor.ID, fresh, now)
	})
	if err != nil {
		return nil, err
	}

	c.notifyBadges(ctx, badge.Event{
		Kind:     badge.EventUnaccepted,
		ActorID:  actor.ID,
		Post:     answerRef,
		AuthorID: answer.AuthorID,
		At:       now,
	})

	return &Outcome{
		Allowed: perm,
		Applied: true,
		Status:  StatusCanceled,
	}, nil
}

// unacceptTx clears the accepted mark on answer and backs out the
// reputation both sides earned from it
func (c *Coordinator) unacceptTx(ctx context.Context, tx *gorm.DB, actorID int64, answer *models.Answer, now time.Time) error {
	ref := answer.Ref()
	if err := c.posts.SetAccepted(ctx, tx, answer, false, now); err != nil {
		return err
	}
	if err := c.engine.ReverseLatest(ctx, tx, answer.AuthorID,
		models.RepAcceptReceived, models.RepAcceptCanceled, ref, now); err != nil {
		return err
	}
	return c.engine.ReverseLatest(ctx, tx, actorID,
		models.RepAcceptCast, models.RepAcceptCastCanceled, ref, now)
}

package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

func TestVoteBook_CastAndActive(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	book := NewVoteBook(NewRepository(d.DB))

	voter := createUser(t, d, 100)
	question := createQuestion(t, d, createUser(t, d, 100).ID)
	ref := question.Ref()

	err := book.Cast(ctx, d.DB, &models.Vote{
		UserID:    voter.ID,
		PostType:  ref.Type,
		PostID:    ref.ID,
		Direction: models.VoteUp,
		VotedAt:   time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Cast() error = %v", err)
	}

	active, err := book.Active(ctx, voter.ID, ref)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active == nil {
		t.Fatal("Active() = nil, want the cast vote")
	}
	if active.Direction != models.VoteUp {
		t.Errorf("Active().Direction = %d, want %d", active.Direction, models.VoteUp)
	}

	// A second cast on the same post must hit the unique index
	err = book.Cast(ctx, d.DB, &models.Vote{
		UserID:    voter.ID,
		PostType:  ref.Type,
		PostID:    ref.ID,
		Direction: models.VoteDown,
		VotedAt:   time.Now().UTC(),
	})
	if !errors.Is(err, ErrAlreadyVoted) {
		t.Errorf("duplicate Cast() error = %v, want ErrAlreadyVoted", err)
	}
}

func TestVoteBook_Cancel(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	book := NewVoteBook(NewRepository(d.DB))

	voter := createUser(t, d, 100)
	question := createQuestion(t, d, createUser(t, d, 100).ID)
	ref := question.Ref()

	vote := &models.Vote{
		UserID: voter.ID, PostType: ref.Type, PostID: ref.ID,
		Direction: models.VoteUp, VotedAt: time.Now().UTC(),
	}
	if err := book.Cast(ctx, d.DB, vote); err != nil {
		t.Fatalf("Cast() error = %v", err)
	}
	if err := book.Cancel(ctx, d.DB, vote); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}

	active, err := book.Active(ctx, voter.ID, ref)
	if err != nil {
		t.Fatalf("Active() error = %v", err)
	}
	if active != nil {
		t.Errorf("Active() after cancel = %+v, want nil", active)
	}

	// A fresh cast after cancel must succeed
	if err := book.Cast(ctx, d.DB, &models.Vote{
		UserID: voter.ID, PostType: ref.Type, PostID: ref.ID,
		Direction: models.VoteDown, VotedAt: time.Now().UTC(),
	}); err != nil {
		t.Errorf("re-Cast() after cancel error = %v", err)
	}
}

func TestVoteBook_CountToday(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	book := NewVoteBook(NewRepository(d.DB))

	voter := createUser(t, d, 100)
	author := createUser(t, d, 100)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	// Two votes today, one yesterday
	stamps := []time.Time{
		now.Add(-time.Hour),
		now.Add(-2 * time.Hour),
		now.Add(-20 * time.Hour), // previous UTC day
	}
	directions := []int16{models.VoteUp, models.VoteDown, models.VoteUp}
	for i, at := range stamps {
		q := createQuestion(t, d, author.ID)
		if err := book.Cast(ctx, d.DB, &models.Vote{
			UserID: voter.ID, PostType: models.PostTypeQuestion, PostID: q.ID,
			Direction: directions[i], VotedAt: at,
		}); err != nil {
			t.Fatalf("Cast() error = %v", err)
		}
	}

	all, err := book.CountAllToday(ctx, voter.ID, now)
	if err != nil {
		t.Fatalf("CountAllToday() error = %v", err)
	}
	if all != 2 {
		t.Errorf("CountAllToday() = %d, want 2", all)
	}

	up, err := book.CountToday(ctx, voter.ID, models.VoteUp, now)
	if err != nil {
		t.Fatalf("CountToday() error = %v", err)
	}
	if up != 1 {
		t.Errorf("CountToday(up) = %d, want 1", up)
	}
}

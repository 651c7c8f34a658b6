package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

func TestFlagBook_FlagOncePerPost(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	book := NewFlagBook(NewRepository(d.DB))

	flagger := createUser(t, d, 100)
	question := createQuestion(t, d, createUser(t, d, 100).ID)
	ref := question.Ref()

	err := book.Flag(ctx, d.DB, &models.FlagRecord{
		UserID: flagger.ID, PostType: ref.Type, PostID: ref.ID,
		FlaggedAt: time.Now().UTC(),
	})
	if err != nil {
		t.Fatalf("Flag() error = %v", err)
	}

	exists, err := book.Exists(ctx, flagger.ID, ref)
	if err != nil {
		t.Fatalf("Exists() error = %v", err)
	}
	if !exists {
		t.Error("Exists() = false after Flag(), want true")
	}

	// Flags are permanent: a second flag on the same post is rejected
	err = book.Flag(ctx, d.DB, &models.FlagRecord{
		UserID: flagger.ID, PostType: ref.Type, PostID: ref.ID,
		FlaggedAt: time.Now().UTC(),
	})
	if !errors.Is(err, ErrAlreadyFlagged) {
		t.Errorf("duplicate Flag() error = %v, want ErrAlreadyFlagged", err)
	}
}

func TestFlagBook_CountToday(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	book := NewFlagBook(NewRepository(d.DB))

	flagger := createUser(t, d, 100)
	author := createUser(t, d, 100)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

	stamps := []time.Time{
		now.Add(-time.Hour),
		now.Add(-3 * time.Hour),
		now.Add(-20 * time.Hour), // previous UTC day
	}
	for _, at := range stamps {
		q := createQuestion(t, d, author.ID)
		if err := book.Flag(ctx, d.DB, &models.FlagRecord{
			UserID: flagger.ID, PostType: models.PostTypeQuestion, PostID: q.ID,
			FlaggedAt: at,
		}); err != nil {
			t.Fatalf("Flag() error = %v", err)
		}
	}

	count, err := book.CountToday(ctx, flagger.ID, now)
	if err != nil {
		t.Fatalf("CountToday() error = %v", err)
	}
	if count != 2 {
		t.Errorf("CountToday() = %d, want 2", count)
	}
}

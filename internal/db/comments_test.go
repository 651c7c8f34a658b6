package db

import (
	"context"
	"testing"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

func TestCommentStore_ForPostOrder(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	store := NewCommentStore(NewRepository(d.DB))

	author := createUser(t, d, 100)
	question := createQuestion(t, d, author.ID)
	ref := question.Ref()
	base := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	for i, body := range []string{"first", "second", "third"} {
		if err := store.Add(ctx, d.DB, &models.Comment{
			PostType: ref.Type, PostID: ref.ID, AuthorID: author.ID,
			Body: body, AddedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("Add(%q) error = %v", body, err)
		}
	}

	count, err := store.CountForTx(ctx, d.DB, ref)
	if err != nil || count != 3 {
		t.Fatalf("CountForTx() = %d, %v, want 3", count, err)
	}

	comments, err := store.ForPost(ctx, ref, 2)
	if err != nil {
		t.Fatalf("ForPost() error = %v", err)
	}
	if len(comments) != 2 {
		t.Fatalf("ForPost(limit 2) returned %d comments", len(comments))
	}
	if comments[0].Body != "first" || comments[1].Body != "second" {
		t.Errorf("ForPost() order = %q, %q, want oldest first", comments[0].Body, comments[1].Body)
	}

	// Comments on another post stay out
	other := createQuestion(t, d, author.ID)
	count, err = store.CountForTx(ctx, d.DB, other.Ref())
	if err != nil || count != 0 {
		t.Errorf("CountForTx(other) = %d, %v, want 0", count, err)
	}
}

func TestPostStore_AdjustCommentCount(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	posts := NewPostStore(NewRepository(d.DB))

	answer := createAnswer(t, d, createQuestion(t, d, createUser(t, d, 100).ID).ID, createUser(t, d, 100).ID)
	ref := answer.Ref()

	if err := posts.AdjustCommentCount(ctx, d.DB, ref, 1); err != nil {
		t.Fatalf("AdjustCommentCount(+1) error = %v", err)
	}
	if err := posts.AdjustCommentCount(ctx, d.DB, ref, -2); err != nil {
		t.Fatalf("AdjustCommentCount(-2) error = %v", err)
	}

	// The counter floors at zero rather than going negative
	fresh, err := posts.GetAnswerTx(ctx, d.DB, answer.ID)
	if err != nil || fresh == nil {
		t.Fatalf("GetAnswerTx() = %v, %v", fresh, err)
	}
	if fresh.CommentCount != 0 {
		t.Errorf("CommentCount = %d, want 0", fresh.CommentCount)
	}
}

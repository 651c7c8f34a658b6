package db

import (
	"context"
	"testing"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

func TestDayStart(t *testing.T) {
	in := time.Date(2026, 3, 10, 23, 59, 59, 0, time.UTC)
	want := time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC)
	if got := dayStart(in); !got.Equal(want) {
		t.Errorf("dayStart(%v) = %v, want %v", in, got, want)
	}

	// Non-UTC input normalises to the UTC day
	est := time.FixedZone("EST", -5*3600)
	in = time.Date(2026, 3, 10, 22, 0, 0, 0, est) // 03:00 UTC on the 11th
	want = time.Date(2026, 3, 11, 0, 0, 0, 0, time.UTC)
	if got := dayStart(in); !got.Equal(want) {
		t.Errorf("dayStart(%v) = %v, want %v", in, got, want)
	}
}

func TestUserStore_AddReputationFloors(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	users := NewUserStore(NewRepository(d.DB))

	user := createUser(t, d, 5)

	if err := users.AddReputation(ctx, d.DB, user.ID, -10, 1); err != nil {
		t.Fatalf("AddReputation() error = %v", err)
	}
	got, err := users.GetByID(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Reputation != 1 {
		t.Errorf("Reputation after floored loss = %d, want 1", got.Reputation)
	}

	if err := users.AddReputation(ctx, d.DB, user.ID, 10, 1); err != nil {
		t.Fatalf("AddReputation() error = %v", err)
	}
	got, _ = users.GetByID(ctx, user.ID)
	if got.Reputation != 11 {
		t.Errorf("Reputation after gain = %d, want 11", got.Reputation)
	}

	if err := users.AddReputation(ctx, d.DB, 99999, 5, 1); err == nil {
		t.Error("AddReputation() on missing user = nil error, want error")
	}
}

func TestPostStore_ApplyVoteCounters(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	posts := NewPostStore(NewRepository(d.DB))

	question := createQuestion(t, d, createUser(t, d, 1).ID)
	ref := question.Ref()

	if err := posts.ApplyVote(ctx, d.DB, ref, models.VoteUp, 1); err != nil {
		t.Fatalf("ApplyVote(up, +1) error = %v", err)
	}
	if err := posts.ApplyVote(ctx, d.DB, ref, models.VoteDown, 1); err != nil {
		t.Fatalf("ApplyVote(down, +1) error = %v", err)
	}

	got, err := posts.GetQuestion(ctx, question.ID)
	if err != nil {
		t.Fatalf("GetQuestion() error = %v", err)
	}
	if got.Score != 0 || got.VoteUpCount != 1 || got.VoteDownCount != 1 {
		t.Errorf("after up+down: score=%d up=%d down=%d, want 0/1/1",
			got.Score, got.VoteUpCount, got.VoteDownCount)
	}

	// Cancelling the down-vote restores the score exactly
	if err := posts.ApplyVote(ctx, d.DB, ref, models.VoteDown, -1); err != nil {
		t.Fatalf("ApplyVote(down, -1) error = %v", err)
	}
	got, _ = posts.GetQuestion(ctx, question.ID)
	if got.Score != 1 || got.VoteDownCount != 0 {
		t.Errorf("after cancel: score=%d down=%d, want 1/0", got.Score, got.VoteDownCount)
	}
}

func TestPostStore_SetAcceptedSyncsQuestion(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	posts := NewPostStore(NewRepository(d.DB))

	asker := createUser(t, d, 1)
	answerer := createUser(t, d, 1)
	question := createQuestion(t, d, asker.ID)
	answer := createAnswer(t, d, question.ID, answerer.ID)

	at := time.Now().UTC()
	if err := posts.SetAccepted(ctx, d.DB, answer, true, at); err != nil {
		t.Fatalf("SetAccepted(true) error = %v", err)
	}

	gotA, err := posts.GetAnswerTx(ctx, d.DB, answer.ID)
	if err != nil {
		t.Fatalf("GetAnswerTx() error = %v", err)
	}
	if !gotA.Accepted || !gotA.AcceptedAt.Valid {
		t.Errorf("answer accepted=%v accepted_at.Valid=%v, want true/true",
			gotA.Accepted, gotA.AcceptedAt.Valid)
	}
	gotQ, _ := posts.GetQuestion(ctx, question.ID)
	if !gotQ.AnswerAccepted {
		t.Error("question.AnswerAccepted = false after accept, want true")
	}

	if err := posts.SetAccepted(ctx, d.DB, answer, false, at); err != nil {
		t.Fatalf("SetAccepted(false) error = %v", err)
	}
	gotA, _ = posts.GetAnswerTx(ctx, d.DB, answer.ID)
	gotQ, _ = posts.GetQuestion(ctx, question.ID)
	if gotA.Accepted || gotA.AcceptedAt.Valid || gotQ.AnswerAccepted {
		t.Errorf("after unaccept: answer=%v at.Valid=%v question=%v, want all false",
			gotA.Accepted, gotA.AcceptedAt.Valid, gotQ.AnswerAccepted)
	}
}

func TestPostStore_SetDeletedRoundTrip(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	posts := NewPostStore(NewRepository(d.DB))

	moderator := createUser(t, d, 1)
	question := createQuestion(t, d, createUser(t, d, 1).ID)
	ref := question.Ref()

	if err := posts.SetDeleted(ctx, d.DB, ref, true, moderator.ID, time.Now().UTC()); err != nil {
		t.Fatalf("SetDeleted(true) error = %v", err)
	}
	got, _ := posts.GetQuestion(ctx, question.ID)
	if !got.Deleted || !got.DeletedAt.Valid || got.DeletedByID.Int64 != moderator.ID {
		t.Errorf("after delete: deleted=%v at.Valid=%v by=%d, want true/true/%d",
			got.Deleted, got.DeletedAt.Valid, got.DeletedByID.Int64, moderator.ID)
	}

	if err := posts.SetDeleted(ctx, d.DB, ref, false, moderator.ID, time.Now().UTC()); err != nil {
		t.Fatalf("SetDeleted(false) error = %v", err)
	}
	got, _ = posts.GetQuestion(ctx, question.ID)
	if got.Deleted || got.DeletedAt.Valid || got.DeletedByID.Valid {
		t.Errorf("after restore: deleted=%v at.Valid=%v by.Valid=%v, want all false",
			got.Deleted, got.DeletedAt.Valid, got.DeletedByID.Valid)
	}
}

func TestPostStore_AdjustFavouriteCountFloorsAtZero(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	posts := NewPostStore(NewRepository(d.DB))

	question := createQuestion(t, d, createUser(t, d, 1).ID)

	if err := posts.AdjustFavouriteCount(ctx, d.DB, question.ID, -1); err != nil {
		t.Fatalf("AdjustFavouriteCount(-1) error = %v", err)
	}
	got, _ := posts.GetQuestion(ctx, question.ID)
	if got.FavouriteCount != 0 {
		t.Errorf("FavouriteCount floored = %d, want 0", got.FavouriteCount)
	}

	if err := posts.AdjustFavouriteCount(ctx, d.DB, question.ID, 1); err != nil {
		t.Fatalf("AdjustFavouriteCount(+1) error = %v", err)
	}
	got, _ = posts.GetQuestion(ctx, question.ID)
	if got.FavouriteCount != 1 {
		t.Errorf("FavouriteCount = %d, want 1", got.FavouriteCount)
	}
}

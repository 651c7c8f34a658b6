package db

import (
	"context"
	"testing"
	"time"

	"github.com/agoraforum/agora/internal/models"
)

func TestLedger_GainTodayCountsOnlyCappedKinds(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(NewRepository(d.DB))

	user := createUser(t, d, 1)
	now := time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)
	ref := models.PostRef{Type: models.PostTypeQuestion, ID: 1}

	events := []*models.ReputationEvent{
		// Capped kind, today
		{UserID: user.ID, Kind: models.RepUpvoteReceived, PostType: ref.Type, PostID: ref.ID, Positive: 10, ReputedAt: now.Add(-time.Hour)},
		// Uncapped kind, today: must not count
		{UserID: user.ID, Kind: models.RepAcceptReceived, PostType: ref.Type, PostID: 2, Positive: 15, ReputedAt: now.Add(-time.Hour)},
		// Capped kind, previous day: must not count
		{UserID: user.ID, Kind: models.RepUpvoteReceived, PostType: ref.Type, PostID: 3, Positive: 10, ReputedAt: now.Add(-20 * time.Hour)},
		// Another user: must not count
		{UserID: user.ID + 1000, Kind: models.RepUpvoteReceived, PostType: ref.Type, PostID: ref.ID, Positive: 10, ReputedAt: now.Add(-time.Hour)},
	}
	for _, ev := range events {
		if err := ledger.Record(ctx, d.DB, ev); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	gain, err := ledger.GainToday(ctx, user.ID, now)
	if err != nil {
		t.Fatalf("GainToday() error = %v", err)
	}
	if gain != 10 {
		t.Errorf("GainToday() = %d, want 10", gain)
	}
}

func TestLedger_LatestForSkipsReversed(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(NewRepository(d.DB))

	user := createUser(t, d, 1)
	ref := models.PostRef{Type: models.PostTypeAnswer, ID: 7}
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)

	first := &models.ReputationEvent{
		UserID: user.ID, Kind: models.RepUpvoteReceived,
		PostType: ref.Type, PostID: ref.ID, Positive: 10, ReputedAt: base,
	}
	if err := ledger.Record(ctx, d.DB, first); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err := ledger.LatestFor(ctx, d.DB, user.ID, models.RepUpvoteReceived, ref)
	if err != nil {
		t.Fatalf("LatestFor() error = %v", err)
	}
	if got == nil || got.ID != first.ID {
		t.Fatalf("LatestFor() = %+v, want event %d", got, first.ID)
	}

	// Reverse it: the original must no longer be returned
	reversal := &models.ReputationEvent{
		UserID: user.ID, Kind: models.RepUpvoteCanceled,
		PostType: ref.Type, PostID: ref.ID, Negative: -10,
		ReversesID: nullInt64(first.ID), ReputedAt: base.Add(time.Hour),
	}
	if err := ledger.Record(ctx, d.DB, reversal); err != nil {
		t.Fatalf("Record() error = %v", err)
	}

	got, err = ledger.LatestFor(ctx, d.DB, user.ID, models.RepUpvoteReceived, ref)
	if err != nil {
		t.Fatalf("LatestFor() error = %v", err)
	}
	if got != nil {
		t.Errorf("LatestFor() after reversal = %+v, want nil", got)
	}

	// A fresh cast creates a new pairable event
	second := &models.ReputationEvent{
		UserID: user.ID, Kind: models.RepUpvoteReceived,
		PostType: ref.Type, PostID: ref.ID, Positive: 10, ReputedAt: base.Add(2 * time.Hour),
	}
	if err := ledger.Record(ctx, d.DB, second); err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	got, err = ledger.LatestFor(ctx, d.DB, user.ID, models.RepUpvoteReceived, ref)
	if err != nil {
		t.Fatalf("LatestFor() error = %v", err)
	}
	if got == nil || got.ID != second.ID {
		t.Errorf("LatestFor() = %+v, want event %d", got, second.ID)
	}
}

func TestLedger_HistoryForNewestFirst(t *testing.T) {
	d := openTestDB(t)
	ctx := context.Background()
	ledger := NewLedger(NewRepository(d.DB))

	user := createUser(t, d, 1)
	base := time.Date(2026, 3, 10, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ev := &models.ReputationEvent{
			UserID: user.ID, Kind: models.RepUpvoteReceived,
			PostType: models.PostTypeQuestion, PostID: int64(i + 1),
			Positive: 10, ReputedAt: base.Add(time.Duration(i) * time.Hour),
		}
		if err := ledger.Record(ctx, d.DB, ev); err != nil {
			t.Fatalf("Record() error = %v", err)
		}
	}

	history, err := ledger.HistoryFor(ctx, user.ID, 2)
	if err != nil {
		t.Fatalf("HistoryFor() error = %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("HistoryFor() returned %d events, want 2", len(history))
	}
	if !history[0].ReputedAt.After(history[1].ReputedAt) {
		t.Errorf("HistoryFor() not ordered newest first: %v then %v",
			history[0].ReputedAt, history[1].ReputedAt)
	}
}

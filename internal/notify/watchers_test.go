package notify

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agoraforum/agora/internal/models"
)

func openTestWatchers(t *testing.T) *Watchers {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := gdb.AutoMigrate(&models.Watcher{}); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}
	return NewWatchers(gdb)
}

func TestWatchers_SubscribeIsIdempotent(t *testing.T) {
	w := openTestWatchers(t)
	ctx := context.Background()
	now := time.Now().UTC()

	if err := w.Subscribe(ctx, 1, 10, now); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := w.Subscribe(ctx, 1, 10, now); err != nil {
		t.Fatalf("second Subscribe() error = %v", err)
	}

	watching, err := w.IsWatching(ctx, 1, 10)
	if err != nil {
		t.Fatalf("IsWatching() error = %v", err)
	}
	if !watching {
		t.Error("IsWatching() = false after subscribe")
	}

	ids, err := w.WatchersOf(ctx, 10)
	if err != nil {
		t.Fatalf("WatchersOf() error = %v", err)
	}
	if len(ids) != 1 || ids[0] != 1 {
		t.Errorf("WatchersOf() = %v, want [1]", ids)
	}
}

func TestWatchers_Unsubscribe(t *testing.T) {
	w := openTestWatchers(t)
	ctx := context.Background()

	if err := w.Subscribe(ctx, 1, 10, time.Now().UTC()); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := w.Unsubscribe(ctx, 1, 10); err != nil {
		t.Fatalf("Unsubscribe() error = %v", err)
	}
	watching, err := w.IsWatching(ctx, 1, 10)
	if err != nil {
		t.Fatalf("IsWatching() error = %v", err)
	}
	if watching {
		t.Error("IsWatching() = true after unsubscribe")
	}

	// Unsubscribing when not subscribed is not an error
	if err := w.Unsubscribe(ctx, 2, 10); err != nil {
		t.Errorf("Unsubscribe() of non-watcher error = %v", err)
	}
}

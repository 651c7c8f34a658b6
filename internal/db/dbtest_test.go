package db

import (
	"database/sql"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/agoraforum/agora/internal/models"
)

var userSeq int64

func nullInt64(v int64) sql.NullInt64 {
	return sql.NullInt64{Int64: v, Valid: true}
}

// openTestDB opens an isolated in-memory database with the full schema
func openTestDB(t *testing.T) *DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
		NowFunc:        func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	// A :memory: database exists per connection; cap the pool so every
	// query sees the same one.
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := gdb.AutoMigrate(models.All()...); err != nil {
		t.Fatalf("failed to migrate test schema: %v", err)
	}

	d := Wrap(gdb)
	t.Cleanup(func() { _ = d.Close() })
	return d
}

func createUser(t *testing.T, d *DB, reputation int) *models.User {
	t.Helper()
	user := &models.User{
		Username:   fmt.Sprintf("user-%d", atomic.AddInt64(&userSeq, 1)),
		Reputation: reputation,
	}
	if err := d.Create(user).Error; err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func createQuestion(t *testing.T, d *DB, authorID int64) *models.Question {
	t.Helper()
	q := &models.Question{
		Title:    "test question",
		AuthorID: authorID,
		AddedAt:  time.Now().UTC(),
	}
	if err := d.Create(q).Error; err != nil {
		t.Fatalf("failed to create question: %v", err)
	}
	return q
}

func createAnswer(t *testing.T, d *DB, questionID, authorID int64) *models.Answer {
	t.Helper()
	a := &models.Answer{
		QuestionID: questionID,
		AuthorID:   authorID,
		AddedAt:    time.Now().UTC(),
	}
	if err := d.Create(a).Error; err != nil {
		t.Fatalf("failed to create answer: %v", err)
	}
	return a
}

// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/pkg/database"
)

// NewDB opens an isolated in-memory sqlite database with all tables migrated.
// A single connection keeps every query on the same in-memory database.
func NewDB(tb testing.TB) *gorm.DB {
	tb.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(tb.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Silent),
		TranslateError: true,
	})
	if err != nil {
		tb.Fatalf("open db: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		tb.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	tb.Cleanup(func() { _ = sqlDB.Close() })

	if err := database.Migrate(db); err != nil {
		tb.Fatalf("migrate: %v", err)
	}
	return db
}

// CreateUser inserts a user with the given username and returns it.
func CreateUser(tb testing.TB, db *gorm.DB, username string) *model.User {
	tb.Helper()
	u := &model.User{Username: username, Email: username + "@example.com", Password: "p"}
	if err := db.Create(u).Error; err != nil {
		tb.Fatalf("seed user %s: %v", username, err)
	}
	return u
}

// CreateTicket inserts a ticket authored by userID at the given time.
func CreateTicket(tb testing.TB, db *gorm.DB, userID, title string, at time.Time) *model.Ticket {
	tb.Helper()
	t := &model.Ticket{UserID: userID, Title: title, CreatedAt: at, UpdatedAt: at}
	if err := db.Omit("User").Create(t).Error; err != nil {
		tb.Fatalf("seed ticket %s: %v", title, err)
	}
	return t
}

// CreateReview inserts a review on ticketID authored by userID at the given time.
func CreateReview(tb testing.TB, db *gorm.DB, ticketID, userID, headline string, rating int, at time.Time) *model.Review {
	tb.Helper()
	r := &model.Review{TicketID: ticketID, UserID: userID, Headline: headline, Rating: rating, CreatedAt: at, UpdatedAt: at}
	if err := db.Omit("User", "Ticket").Create(r).Error; err != nil {
		tb.Fatalf("seed review %s: %v", headline, err)
	}
	return r
}

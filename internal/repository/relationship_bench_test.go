package repository

import (
	"context"
	"fmt"
	"math/rand"
	"testing"
	"time"

	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/testutil"
)

func BenchmarkFollowGetOrCreate(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ctx := context.Background()

	// 预创建部分用户
	users := make([]model.User, 1000)
	for i := range users {
		users[i] = model.User{ID: fmt.Sprintf("u%04d", i), Username: fmt.Sprintf("u%04d", i), Password: "p"}
	}
	if err := db.Create(&users).Error; err != nil {
		b.Fatalf("seed users: %v", err)
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		from := users[rng.Intn(len(users))].ID
		to := users[rng.Intn(len(users))].ID
		if from == to {
			continue
		}
		_, _, _ = followRepo.GetOrCreate(ctx, from, to)
	}
}

func BenchmarkVisibleContentQueries(b *testing.B) {
	db := testutil.NewDB(b)
	followRepo := NewFollowRepository(db)
	ticketRepo := NewTicketRepository(db)
	reviewRepo := NewReviewRepository(db)
	ctx := context.Background()

	// 构造：u0 关注 N 个用户，每人一个 ticket + 一条自评
	const N = 500
	u0 := testutil.CreateUser(b, db, "u0")
	base := time.Now()
	for i := 1; i <= N; i++ {
		u := testutil.CreateUser(b, db, fmt.Sprintf("u%d", i))
		_, _, _ = followRepo.GetOrCreate(ctx, u0.ID, u.ID)
		t := testutil.CreateTicket(b, db, u.ID, "t", base.Add(time.Duration(i)*time.Second))
		testutil.CreateReview(b, db, t.ID, u.ID, "r", 4, base.Add(time.Duration(i)*time.Second))
	}

	b.ResetTimer()
	b.Run("FollowedIDs", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = followRepo.FollowedIDs(ctx, u0.ID)
		}
	})

	ids, _ := followRepo.FollowedIDs(ctx, u0.ID)
	ids = append(ids, u0.ID)
	b.Run("ListTickets", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = ticketRepo.ListByAuthors(ctx, ids)
		}
	})

	b.Run("ListReviews", func(b *testing.B) {
		for i := 0; i < b.N; i++ {
			_, _ = reviewRepo.ListVisible(ctx, ids, u0.ID)
		}
	})
}

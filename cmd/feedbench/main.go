package main

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/d60-Lab/litreview/config"
	"github.com/d60-Lab/litreview/internal/cache"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/database"
)

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}

func envInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func pct(vs []time.Duration, p float64) time.Duration {
	if len(vs) == 0 {
		return 0
	}
	xs := append([]time.Duration(nil), vs...)
	sort.Slice(xs, func(i, j int) bool { return xs[i] < xs[j] })
	k := int(math.Ceil(p*float64(len(xs)))) - 1
	if k < 0 {
		k = 0
	}
	if k >= len(xs) {
		k = len(xs) - 1
	}
	return xs[k]
}

func main() {
	cfg := must(config.Load())
	db := must(database.InitDB(cfg))
	ctx := context.Background()

	N := envInt("N", 1000)         // 用户数
	FOLLOW := envInt("FOLLOW", 50) // 每人关注数
	POSTS := envInt("POSTS", 5)    // 每人 ticket 数
	CONC := envInt("CONC", 4)
	QUERIES := envInt("QUERIES", 500)

	var visibility *cache.VisibilityCache
	if cfg.Redis.Addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		defer rdb.Close()
		visibility = cache.NewVisibilityCache(rdb, cfg.Redis.TTL)
	}

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	relSvc := service.NewRelationshipService(followRepo, userRepo, visibility)
	contentSvc := service.NewContentService(ticketRepo, reviewRepo)
	feedSvc := service.NewFeedService(userRepo, ticketRepo, reviewRepo, relSvc)

	// seed users
	run := time.Now().UnixNano()
	users := make([]model.User, N)
	for i := range users {
		name := fmt.Sprintf("bench%d_%d", run, i)
		users[i] = model.User{Username: name, Email: name + "@example.com", Password: "p"}
	}
	if err := db.CreateInBatches(&users, 500).Error; err != nil {
		panic(err)
	}

	// seed follows: each user follows FOLLOW random others, ~10% blocked
	rng := rand.New(rand.NewSource(run))
	t0 := time.Now()
	follows := 0
	for i := range users {
		for j := 0; j < FOLLOW && j < N-1; j++ {
			target := users[rng.Intn(N)].ID
			if target == users[i].ID {
				continue
			}
			created := must(relSvc.Follow(ctx, users[i].ID, target))
			if created {
				follows++
			}
			if rng.Intn(10) == 0 {
				_ = relSvc.Block(ctx, users[i].ID, target)
			}
		}
	}
	followDur := time.Since(t0)

	// seed content: POSTS tickets per user, about half reviewed by a random user
	t1 := time.Now()
	tickets := 0
	reviews := 0
	for i := range users {
		for k := 0; k < POSTS; k++ {
			tk := must(contentSvc.CreateTicket(ctx, users[i].ID, service.TicketInput{Title: fmt.Sprintf("t%d", k)}))
			tickets++
			if rng.Intn(2) == 0 {
				reviewer := users[rng.Intn(N)].ID
				_ = must(contentSvc.CreateReview(ctx, reviewer, tk.ID, service.ReviewInput{Headline: "h", Rating: rng.Intn(6)}))
				reviews++
			}
		}
	}
	contentDur := time.Since(t1)

	// measure Feed with CONC workers
	jobs := make(chan string, QUERIES)
	for q := 0; q < QUERIES; q++ {
		jobs <- users[rng.Intn(N)].ID
	}
	close(jobs)

	lat := make(chan time.Duration, QUERIES)
	sizes := make(chan int, QUERIES)
	done := make(chan struct{}, CONC)
	t2 := time.Now()
	for w := 0; w < CONC; w++ {
		go func() {
			for viewer := range jobs {
				st := time.Now()
				posts, err := feedSvc.Feed(ctx, viewer)
				if err != nil {
					panic(err)
				}
				lat <- time.Since(st)
				sizes <- len(posts)
			}
			done <- struct{}{}
		}()
	}
	for w := 0; w < CONC; w++ {
		<-done
	}
	feedDur := time.Since(t2)
	close(lat)
	close(sizes)

	recs := make([]time.Duration, 0, QUERIES)
	for d := range lat {
		recs = append(recs, d)
	}
	total := 0
	for s := range sizes {
		total += s
	}

	fmt.Printf("N=%d, FOLLOW=%d, POSTS=%d, CONC=%d, QUERIES=%d, cache=%v\n", N, FOLLOW, POSTS, CONC, QUERIES, visibility != nil)
	fmt.Printf("Seed follows=%d in %v, tickets=%d reviews=%d in %v\n", follows, followDur, tickets, reviews, contentDur)
	fmt.Printf("Feed total: %v, per op: %v, p50: %v, p95: %v, p99: %v, avg posts: %.1f\n",
		feedDur, feedDur/time.Duration(QUERIES), pct(recs, 0.50), pct(recs, 0.95), pct(recs, 0.99), float64(total)/float64(QUERIES))
}

package service

import (
	"testing"

	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/internal/cache"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/internal/testutil"
)

type fixture struct {
	db      *gorm.DB
	rel     RelationshipService
	content ContentService
	feed    FeedService
}

func newFixture(t *testing.T, visibility *cache.VisibilityCache) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	userRepo := repository.NewUserRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	rel := NewRelationshipService(repository.NewFollowRepository(db), userRepo, visibility)
	return &fixture{
		db:      db,
		rel:     rel,
		content: NewContentService(ticketRepo, reviewRepo),
		feed:    NewFeedService(userRepo, ticketRepo, reviewRepo, rel),
	}
}

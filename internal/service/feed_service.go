package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/internal/metrics"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// VisibilitySource 提供某个用户可见的作者集合
type VisibilitySource interface {
	VisibleSet(ctx context.Context, viewerID string) ([]string, error)
}

// FeedService 首页时间线
type FeedService interface {
	Feed(ctx context.Context, viewerID string) ([]model.Post, error)
	// UserPosts 只含 viewer 自己写的 Ticket 与 Review
	UserPosts(ctx context.Context, viewerID string) ([]model.Post, error)
}

type feedService struct {
	userRepo   repository.UserRepository
	ticketRepo repository.TicketRepository
	reviewRepo repository.ReviewRepository
	visibility VisibilitySource
}

func NewFeedService(userRepo repository.UserRepository, ticketRepo repository.TicketRepository, reviewRepo repository.ReviewRepository, visibility VisibilitySource) FeedService {
	return &feedService{userRepo: userRepo, ticketRepo: ticketRepo, reviewRepo: reviewRepo, visibility: visibility}
}

func (s *feedService) resolveViewer(ctx context.Context, viewerID string) error {
	if _, err := s.userRepo.GetByID(ctx, viewerID); err != nil {
		return notFound("user", viewerID, err)
	}
	return nil
}

func (s *feedService) Feed(ctx context.Context, viewerID string) ([]model.Post, error) {
	if err := s.resolveViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	authors, err := s.visibility.VisibleSet(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("visibility set: %w", err)
	}
	tickets, err := s.ticketRepo.ListByAuthors(ctx, authors)
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	reviews, err := s.reviewRepo.ListVisible(ctx, authors, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}

	posts := ComposeFeed(viewerID, tickets, reviews)
	metrics.FeedPosts.Observe(float64(len(posts)))
	logger.Debug("feed composed",
		zap.String("viewer", viewerID),
		zap.Int("authors", len(authors)),
		zap.Int("posts", len(posts)),
	)
	return posts, nil
}

func (s *feedService) UserPosts(ctx context.Context, viewerID string) ([]model.Post, error) {
	if err := s.resolveViewer(ctx, viewerID); err != nil {
		return nil, err
	}
	tickets, err := s.ticketRepo.ListByAuthors(ctx, []string{viewerID})
	if err != nil {
		return nil, fmt.Errorf("list tickets: %w", err)
	}
	reviews, err := s.reviewRepo.ListByAuthor(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("list reviews: %w", err)
	}
	return ComposeFeed(viewerID, tickets, reviews), nil
}

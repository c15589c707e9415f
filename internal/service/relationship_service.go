package service

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/internal/cache"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/internal/repository"
	"github.com/d60-Lab/litreview/pkg/logger"
)

// RelationshipService 关系链服务：关注 / 取关 / 拉黑 / 解除拉黑
type RelationshipService interface {
	// Follow 返回 created=false 表示关系已存在
	Follow(ctx context.Context, followerID, targetID string) (bool, error)
	FollowByUsername(ctx context.Context, followerID, username string) (*model.User, bool, error)
	Unfollow(ctx context.Context, followerID, targetID string) error
	Block(ctx context.Context, followerID, targetID string) error
	Unblock(ctx context.Context, followerID, targetID string) error
	ListFollowed(ctx context.Context, userID string) ([]*model.User, error)
	ListFollowers(ctx context.Context, userID string, excludeBlocked bool) ([]*model.User, error)
	ListBlocked(ctx context.Context, userID string) ([]*model.User, error)
	// VisibleSet 自己 + 未拉黑的关注对象
	VisibleSet(ctx context.Context, viewerID string) ([]string, error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
	cache      *cache.VisibilityCache
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository, visibility *cache.VisibilityCache) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo, cache: visibility}
}

func (s *relationshipService) ensureUser(ctx context.Context, userID string) error {
	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("user %s: %w", userID, ErrNotFound)
		}
		return err
	}
	return nil
}

func (s *relationshipService) Follow(ctx context.Context, followerID, targetID string) (bool, error) {
	if followerID == targetID {
		return false, ErrFollowSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return false, err
	}
	_, created, err := s.followRepo.GetOrCreate(ctx, followerID, targetID)
	if err != nil {
		return false, err
	}
	if created {
		s.cache.Invalidate(ctx, followerID)
		logger.Info("follow created", zap.String("follower", followerID), zap.String("followed", targetID))
	}
	return created, nil
}

func (s *relationshipService) FollowByUsername(ctx context.Context, followerID, username string) (*model.User, bool, error) {
	target, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, false, fmt.Errorf("user %q: %w", username, ErrNotFound)
		}
		return nil, false, err
	}
	created, err := s.Follow(ctx, followerID, target.ID)
	if err != nil {
		return nil, false, err
	}
	return target, created, nil
}

func (s *relationshipService) Unfollow(ctx context.Context, followerID, targetID string) error {
	if err := s.followRepo.Delete(ctx, followerID, targetID); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, followerID)
	return nil
}

func (s *relationshipService) Block(ctx context.Context, followerID, targetID string) error {
	if followerID == targetID {
		return ErrFollowSelf
	}
	if err := s.ensureUser(ctx, targetID); err != nil {
		return err
	}
	if _, err := s.followRepo.SetBlocked(ctx, followerID, targetID, true); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, followerID)
	logger.Info("user blocked", zap.String("follower", followerID), zap.String("blocked", targetID))
	return nil
}

func (s *relationshipService) Unblock(ctx context.Context, followerID, targetID string) error {
	rel, err := s.followRepo.Find(ctx, followerID, targetID)
	if err != nil {
		if repository.IsNotFound(err) {
			return fmt.Errorf("blocked relation: %w", ErrNotFound)
		}
		return err
	}
	if !rel.IsBlocked {
		return fmt.Errorf("blocked relation: %w", ErrNotFound)
	}
	if _, err := s.followRepo.SetBlocked(ctx, followerID, targetID, false); err != nil {
		return err
	}
	s.cache.Invalidate(ctx, followerID)
	return nil
}

func (s *relationshipService) ListFollowed(ctx context.Context, userID string) ([]*model.User, error) {
	return s.followRepo.ListFollowed(ctx, userID)
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, excludeBlocked bool) ([]*model.User, error) {
	return s.followRepo.ListFollowers(ctx, userID, excludeBlocked)
}

func (s *relationshipService) ListBlocked(ctx context.Context, userID string) ([]*model.User, error) {
	return s.followRepo.ListBlocked(ctx, userID)
}

func (s *relationshipService) VisibleSet(ctx context.Context, viewerID string) ([]string, error) {
	if ids, ok := s.cache.Get(ctx, viewerID); ok {
		return ids, nil
	}
	gen, cacheable := s.cache.Generation(ctx, viewerID)
	followed, err := s.followRepo.FollowedIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	ids := lo.Uniq(append([]string{viewerID}, followed...))
	if cacheable {
		s.cache.Set(ctx, viewerID, gen, ids)
	}
	return ids, nil
}

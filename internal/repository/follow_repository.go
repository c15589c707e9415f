package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/litreview/internal/model"
)

type FollowRepository interface {
	// GetOrCreate 幂等建立关注；created 表示本次是否新建
	GetOrCreate(ctx context.Context, followerID, followedID string) (rel *model.UserFollows, created bool, err error)
	Find(ctx context.Context, followerID, followedID string) (*model.UserFollows, error)
	Delete(ctx context.Context, followerID, followedID string) error
	// SetBlocked 确保关系存在并设置拉黑状态
	SetBlocked(ctx context.Context, followerID, followedID string, blocked bool) (*model.UserFollows, error)
	ListFollowed(ctx context.Context, userID string) ([]*model.User, error)
	ListFollowers(ctx context.Context, userID string, excludeBlocked bool) ([]*model.User, error)
	ListBlocked(ctx context.Context, userID string) ([]*model.User, error)
	// FollowedIDs 未拉黑的关注对象 ID
	FollowedIDs(ctx context.Context, userID string) ([]string, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func (r *followRepository) GetOrCreate(ctx context.Context, followerID, followedID string) (*model.UserFollows, bool, error) {
	return getOrCreateFollow(r.db.WithContext(ctx), followerID, followedID)
}

func getOrCreateFollow(db *gorm.DB, followerID, followedID string) (*model.UserFollows, bool, error) {
	rel := &model.UserFollows{UserID: followerID, FollowedUserID: followedID}
	// 幂等：重复关注不报错，靠唯一索引兜住并发
	res := db.Clauses(clause.OnConflict{DoNothing: true}).Create(rel)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected > 0 {
		return rel, true, nil
	}
	var existing model.UserFollows
	if err := db.Where("user_id = ? AND followed_user_id = ?", followerID, followedID).
		First(&existing).Error; err != nil {
		return nil, false, err
	}
	return &existing, false, nil
}

func (r *followRepository) Find(ctx context.Context, followerID, followedID string) (*model.UserFollows, error) {
	var rel model.UserFollows
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND followed_user_id = ?", followerID, followedID).
		First(&rel).Error
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND followed_user_id = ?", followerID, followedID).
		Delete(&model.UserFollows{}).Error
}

func (r *followRepository) SetBlocked(ctx context.Context, followerID, followedID string, blocked bool) (*model.UserFollows, error) {
	var out *model.UserFollows
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		rel, _, err := getOrCreateFollow(tx, followerID, followedID)
		if err != nil {
			return err
		}
		if rel.IsBlocked != blocked {
			if err := tx.Model(rel).Update("is_blocked", blocked).Error; err != nil {
				return err
			}
			rel.IsBlocked = blocked
		}
		out = rel
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *followRepository) ListFollowed(ctx context.Context, userID string) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON user_follows.followed_user_id = users.id").
		Where("user_follows.user_id = ? AND user_follows.is_blocked = ?", userID, false).
		Order("user_follows.created_at DESC").
		Find(&res).Error
	return res, err
}

func (r *followRepository) ListFollowers(ctx context.Context, userID string, excludeBlocked bool) ([]*model.User, error) {
	q := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON user_follows.user_id = users.id").
		Where("user_follows.followed_user_id = ?", userID)
	if excludeBlocked {
		q = q.Where("user_follows.is_blocked = ?", false)
	}
	var res []*model.User
	err := q.Order("user_follows.created_at DESC").Find(&res).Error
	return res, err
}

func (r *followRepository) ListBlocked(ctx context.Context, userID string) ([]*model.User, error) {
	var res []*model.User
	err := r.db.WithContext(ctx).
		Joins("JOIN user_follows ON user_follows.followed_user_id = users.id").
		Where("user_follows.user_id = ? AND user_follows.is_blocked = ?", userID, true).
		Order("user_follows.updated_at DESC").
		Find(&res).Error
	return res, err
}

func (r *followRepository) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&model.UserFollows{}).
		Where("user_id = ? AND is_blocked = ?", userID, false).
		Pluck("followed_user_id", &ids).Error
	return ids, err
}

// IsNotFound 统一判断记录不存在
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate 唯一索引冲突；需要以 TranslateError 打开 gorm
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

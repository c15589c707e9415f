package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/internal/model"
)

// ReviewRepository 评论仓储
type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Review, error)
	Update(ctx context.Context, review *model.Review) error
	Delete(ctx context.Context, id string) error
	// ListVisible 作者在 authorIDs 内，或挂在 viewerID 自己的 Ticket 上的评论
	ListVisible(ctx context.Context, authorIDs []string, viewerID string) ([]*model.Review, error)
	ListByAuthor(ctx context.Context, authorID string) ([]*model.Review, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository { return &reviewRepository{db: db} }

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).Omit("User", "Ticket").Create(review).Error
}

func (r *reviewRepository) GetByID(ctx context.Context, id string) (*model.Review, error) {
	var review model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Ticket.User").
		Where("id = ?", id).
		First(&review).Error
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Update 只更新可编辑字段；ticket_id 与作者不可变
func (r *reviewRepository) Update(ctx context.Context, review *model.Review) error {
	return r.db.WithContext(ctx).
		Model(&model.Review{ID: review.ID}).
		Select("headline", "body", "rating").
		Updates(review).Error
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Review{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *reviewRepository) ListVisible(ctx context.Context, authorIDs []string, viewerID string) ([]*model.Review, error) {
	ownTickets := r.db.Model(&model.Ticket{}).Select("id").Where("user_id = ?", viewerID)

	q := r.db.WithContext(ctx).Preload("User").Preload("Ticket.User")
	if len(authorIDs) > 0 {
		q = q.Where("user_id IN ? OR ticket_id IN (?)", authorIDs, ownTickets)
	} else {
		q = q.Where("ticket_id IN (?)", ownTickets)
	}
	var res []*model.Review
	err := q.Order("created_at DESC").Find(&res).Error
	return res, err
}

func (r *reviewRepository) ListByAuthor(ctx context.Context, authorID string) ([]*model.Review, error) {
	var res []*model.Review
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Ticket.User").
		Where("user_id = ?", authorID).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

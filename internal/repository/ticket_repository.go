package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/litreview/internal/model"
)

// TicketRepository 书评请求仓储
type TicketRepository interface {
	Create(ctx context.Context, ticket *model.Ticket) error
	// CreateWithReview 在一个事务内落地 Ticket 与挂在其上的 Review
	CreateWithReview(ctx context.Context, ticket *model.Ticket, review *model.Review) error
	GetByID(ctx context.Context, id string) (*model.Ticket, error)
	Update(ctx context.Context, ticket *model.Ticket) error
	// Delete 级联删除该 Ticket 下的所有 Review
	Delete(ctx context.Context, id string) error
	ListByAuthors(ctx context.Context, authorIDs []string) ([]*model.Ticket, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewTicketRepository(db *gorm.DB) TicketRepository { return &ticketRepository{db: db} }

func (r *ticketRepository) Create(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).Omit("User").Create(ticket).Error
}

func (r *ticketRepository) CreateWithReview(ctx context.Context, ticket *model.Ticket, review *model.Review) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("User").Create(ticket).Error; err != nil {
			return err
		}
		review.TicketID = ticket.ID
		return tx.Omit("User", "Ticket").Create(review).Error
	})
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*model.Ticket, error) {
	var ticket model.Ticket
	err := r.db.WithContext(ctx).Preload("User").Where("id = ?", id).First(&ticket).Error
	if err != nil {
		return nil, err
	}
	return &ticket, nil
}

// Update 只更新可编辑字段，作者不可变
func (r *ticketRepository) Update(ctx context.Context, ticket *model.Ticket) error {
	return r.db.WithContext(ctx).
		Model(&model.Ticket{ID: ticket.ID}).
		Select("title", "description", "image").
		Updates(ticket).Error
}

func (r *ticketRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("ticket_id = ?", id).Delete(&model.Review{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&model.Ticket{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}

func (r *ticketRepository) ListByAuthors(ctx context.Context, authorIDs []string) ([]*model.Ticket, error) {
	if len(authorIDs) == 0 {
		return nil, nil
	}
	var res []*model.Ticket
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("user_id IN ?", authorIDs).
		Order("created_at DESC").
		Find(&res).Error
	return res, err
}

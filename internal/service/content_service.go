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

// TicketInput 可由用户填写的 Ticket 字段；作者由服务端写入
type TicketInput struct {
	Title       string `json:"title" validate:"required,max=128"`
	Description string `json:"description" validate:"max=2048"`
	Image       string `json:"image" validate:"omitempty,max=512"`
}

// ReviewInput 可由用户填写的 Review 字段
type ReviewInput struct {
	Headline string `json:"headline" validate:"required,max=128"`
	Body     string `json:"body" validate:"max=8192"`
	Rating   int    `json:"rating" validate:"min=0,max=5"`
}

// ContentService Ticket / Review 的增删改查，所有修改先过作者校验
type ContentService interface {
	CreateTicket(ctx context.Context, actorID string, in TicketInput) (*model.Ticket, error)
	CreateReview(ctx context.Context, actorID, ticketID string, in ReviewInput) (*model.Review, error)
	// CreateReviewAndTicket 要么两者都落库，要么都不落库
	CreateReviewAndTicket(ctx context.Context, actorID string, ticket TicketInput, review ReviewInput) (*model.Ticket, *model.Review, error)
	GetTicket(ctx context.Context, ticketID string) (*model.Ticket, error)
	GetReview(ctx context.Context, reviewID string) (*model.Review, error)
	EditTicket(ctx context.Context, actorID, ticketID string, in TicketInput) (*model.Ticket, error)
	DeleteTicket(ctx context.Context, actorID, ticketID string) error
	EditReview(ctx context.Context, actorID, reviewID string, in ReviewInput) (*model.Review, error)
	DeleteReview(ctx context.Context, actorID, reviewID string) error
}

type contentService struct {
	ticketRepo repository.TicketRepository
	reviewRepo repository.ReviewRepository
}

func NewContentService(ticketRepo repository.TicketRepository, reviewRepo repository.ReviewRepository) ContentService {
	return &contentService{ticketRepo: ticketRepo, reviewRepo: reviewRepo}
}

// authorize 只有作者本人可以修改或删除
func authorize(actorID, authorID, entity, action, entityID string) error {
	if actorID == authorID {
		return nil
	}
	metrics.DeniedMutations.WithLabelValues(entity, action).Inc()
	logger.Warn("mutation denied",
		zap.String("entity", entity),
		zap.String("action", action),
		zap.String("id", entityID),
		zap.String("actor", actorID),
	)
	return fmt.Errorf("%s %s %s: %w", action, entity, entityID, ErrForbidden)
}

func notFound(entity, id string, err error) error {
	if repository.IsNotFound(err) {
		return fmt.Errorf("%s %s: %w", entity, id, ErrNotFound)
	}
	return err
}

func (s *contentService) CreateTicket(ctx context.Context, actorID string, in TicketInput) (*model.Ticket, error) {
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	ticket := &model.Ticket{UserID: actorID, Title: in.Title, Description: in.Description, Image: in.Image}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *contentService) CreateReview(ctx context.Context, actorID, ticketID string, in ReviewInput) (*model.Review, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	review := &model.Review{
		TicketID: ticket.ID,
		UserID:   actorID,
		Headline: in.Headline,
		Body:     in.Body,
		Rating:   in.Rating,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	review.Ticket = ticket
	return review, nil
}

func (s *contentService) CreateReviewAndTicket(ctx context.Context, actorID string, ti TicketInput, ri ReviewInput) (*model.Ticket, *model.Review, error) {
	if err := mergeValidation(validateStruct(ti), validateStruct(ri)); err != nil {
		return nil, nil, err
	}
	ticket := &model.Ticket{UserID: actorID, Title: ti.Title, Description: ti.Description, Image: ti.Image}
	review := &model.Review{UserID: actorID, Headline: ri.Headline, Body: ri.Body, Rating: ri.Rating}
	if err := s.ticketRepo.CreateWithReview(ctx, ticket, review); err != nil {
		return nil, nil, err
	}
	review.Ticket = ticket
	return ticket, review, nil
}

func (s *contentService) GetTicket(ctx context.Context, ticketID string) (*model.Ticket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, notFound("ticket", ticketID, err)
	}
	return ticket, nil
}

func (s *contentService) GetReview(ctx context.Context, reviewID string) (*model.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, notFound("review", reviewID, err)
	}
	return review, nil
}

func (s *contentService) EditTicket(ctx context.Context, actorID, ticketID string, in TicketInput) (*model.Ticket, error) {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actorID, ticket.UserID, "ticket", "edit", ticketID); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	ticket.Title, ticket.Description, ticket.Image = in.Title, in.Description, in.Image
	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *contentService) DeleteTicket(ctx context.Context, actorID, ticketID string) error {
	ticket, err := s.GetTicket(ctx, ticketID)
	if err != nil {
		return err
	}
	if err := authorize(actorID, ticket.UserID, "ticket", "delete", ticketID); err != nil {
		return err
	}
	if err := s.ticketRepo.Delete(ctx, ticketID); err != nil {
		return notFound("ticket", ticketID, err)
	}
	return nil
}

func (s *contentService) EditReview(ctx context.Context, actorID, reviewID string, in ReviewInput) (*model.Review, error) {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if err := authorize(actorID, review.UserID, "review", "edit", reviewID); err != nil {
		return nil, err
	}
	if err := validateStruct(in); err != nil {
		return nil, err
	}
	review.Headline, review.Body, review.Rating = in.Headline, in.Body, in.Rating
	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *contentService) DeleteReview(ctx context.Context, actorID, reviewID string) error {
	review, err := s.GetReview(ctx, reviewID)
	if err != nil {
		return err
	}
	if err := authorize(actorID, review.UserID, "review", "delete", reviewID); err != nil {
		return err
	}
	if err := s.reviewRepo.Delete(ctx, reviewID); err != nil {
		return notFound("review", reviewID, err)
	}
	return nil
}

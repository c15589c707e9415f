package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/response"
)

type ticketRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=2048"`
	Image       string `json:"image" binding:"max=512"`
}

func (r ticketRequest) input() service.TicketInput {
	return service.TicketInput{Title: r.Title, Description: r.Description, Image: r.Image}
}

type reviewRequest struct {
	Headline string `json:"headline" binding:"required,max=128"`
	Body     string `json:"body" binding:"max=8192"`
	Rating   *int   `json:"rating" binding:"required,min=0,max=5"`
}

func (r reviewRequest) input() service.ReviewInput {
	in := service.ReviewInput{Headline: r.Headline, Body: r.Body}
	if r.Rating != nil {
		in.Rating = *r.Rating
	}
	return in
}

// 评论与新 Ticket 一起提交
type reviewWithTicketRequest struct {
	Ticket ticketRequest `json:"ticket" binding:"required"`
	Review reviewRequest `json:"review" binding:"required"`
}

// CreateTicket 发起书评请求
// @Summary 创建 Ticket
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ticketRequest true "Ticket"
// @Success 201 {object} response.Response{data=model.Ticket}
// @Failure 400 {object} response.Response
// @Router /api/v1/tickets [post]
func (h *Handler) CreateTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ticket, err := h.contentService.CreateTicket(c.Request.Context(), middleware.CurrentUserID(c), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, ticket)
}

// GetTicket 查询 Ticket
// @Summary 查询 Ticket
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Response{data=model.Ticket}
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [get]
func (h *Handler) GetTicket(c *gin.Context) {
	ticket, err := h.contentService.GetTicket(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, ticket)
}

// EditTicket 修改 Ticket（仅作者）
// @Summary 修改 Ticket
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body ticketRequest true "Ticket"
// @Success 200 {object} response.Response{data=model.Ticket}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [put]
func (h *Handler) EditTicket(c *gin.Context) {
	var req ticketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ticket, err := h.contentService.EditTicket(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, ticket)
}

// DeleteTicket 删除 Ticket 及其所有评论（仅作者）
// @Summary 删除 Ticket
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id} [delete]
func (h *Handler) DeleteTicket(c *gin.Context) {
	if err := h.contentService.DeleteTicket(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// CreateReview 回复他人（或自己）的 Ticket
// @Summary 对已有 Ticket 写评论
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Ticket ID"
// @Param request body reviewRequest true "Review"
// @Success 201 {object} response.Response{data=model.Review}
// @Failure 404 {object} response.Response
// @Router /api/v1/tickets/{id}/reviews [post]
func (h *Handler) CreateReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	review, err := h.contentService.CreateReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, review)
}

// CreateReviewAndTicket 同时创建 Ticket 与自己的评论
// @Summary 创建 Ticket + Review
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body reviewWithTicketRequest true "Ticket 与 Review"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/reviews [post]
func (h *Handler) CreateReviewAndTicket(c *gin.Context) {
	var req reviewWithTicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	ticket, review, err := h.contentService.CreateReviewAndTicket(c.Request.Context(), middleware.CurrentUserID(c), req.Ticket.input(), req.Review.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, gin.H{"ticket": ticket, "review": review})
}

// GetReview 查询评论
// @Summary 查询 Review
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 404 {object} response.Response
// @Router /api/v1/reviews/{id} [get]
func (h *Handler) GetReview(c *gin.Context) {
	review, err := h.contentService.GetReview(c.Request.Context(), c.Param("id"))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

// EditReview 修改评论（仅作者，ticket 不可改）
// @Summary 修改 Review
// @Tags 内容
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Param request body reviewRequest true "Review"
// @Success 200 {object} response.Response{data=model.Review}
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [put]
func (h *Handler) EditReview(c *gin.Context) {
	var req reviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	review, err := h.contentService.EditReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"), req.input())
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, review)
}

// DeleteReview 删除评论（仅作者）
// @Summary 删除 Review
// @Tags 内容
// @Security BearerAuth
// @Param id path string true "Review ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/reviews/{id} [delete]
func (h *Handler) DeleteReview(c *gin.Context) {
	if err := h.contentService.DeleteReview(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id")); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/internal/model"
	"github.com/d60-Lab/litreview/pkg/response"
)

type followRequest struct {
	Username string `json:"username" binding:"required_without=UserID,max=150"`
	UserID   string `json:"user_id" binding:"required_without=Username"`
}

type targetRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type userView struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

func toUserViews(users []*model.User) []userView {
	out := make([]userView, len(users))
	for i, u := range users {
		out[i] = userView{ID: u.ID, Username: u.Username}
	}
	return out
}

// Follow 关注用户（按用户名或 ID）
// @Summary 关注用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body followRequest true "关注对象"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/follow [post]
func (h *Handler) Follow(c *gin.Context) {
	var req followRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	actor := middleware.CurrentUserID(c)

	targetID := req.UserID
	var created bool
	var err error
	if req.Username != "" {
		var target *model.User
		target, created, err = h.relService.FollowByUsername(c.Request.Context(), actor, req.Username)
		if target != nil {
			targetID = target.ID
		}
	} else {
		created, err = h.relService.Follow(c.Request.Context(), actor, req.UserID)
	}
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"user_id": targetID, "created": created})
}

// Unfollow 取消关注
// @Summary 取消关注
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body targetRequest true "取消关注对象"
// @Success 200 {object} response.Response
// @Router /api/v1/relations/unfollow [post]
func (h *Handler) Unfollow(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Unfollow(c.Request.Context(), middleware.CurrentUserID(c), req.UserID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Block 拉黑
// @Summary 拉黑用户
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body targetRequest true "拉黑对象"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/relations/block [post]
func (h *Handler) Block(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Block(c.Request.Context(), middleware.CurrentUserID(c), req.UserID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// Unblock 解除拉黑
// @Summary 解除拉黑
// @Tags 关系链
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body targetRequest true "解除拉黑对象"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/relations/unblock [post]
func (h *Handler) Unblock(c *gin.Context) {
	var req targetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if err := h.relService.Unblock(c.Request.Context(), middleware.CurrentUserID(c), req.UserID); err != nil {
		fail(c, err)
		return
	}
	response.Success(c, nil)
}

// ListFollowing 当前用户关注的人（不含已拉黑）
// @Summary 查询关注列表
// @Tags 关系链
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]userView}
// @Router /api/v1/relations/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	list, err := h.relService.ListFollowed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, toUserViews(list))
}

// ListFollowers 关注当前用户的人
// @Summary 查询粉丝列表
// @Tags 关系链
// @Security BearerAuth
// @Param exclude_blocked query bool false "排除对方已拉黑的关系" default(true)
// @Success 200 {object} response.Response{data=[]userView}
// @Router /api/v1/relations/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	exclude, err := strconv.ParseBool(c.DefaultQuery("exclude_blocked", "true"))
	if err != nil {
		response.BadRequest(c, "exclude_blocked must be a boolean")
		return
	}
	list, err := h.relService.ListFollowers(c.Request.Context(), middleware.CurrentUserID(c), exclude)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, toUserViews(list))
}

// ListBlocked 当前用户拉黑的人
// @Summary 查询拉黑列表
// @Tags 关系链
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]userView}
// @Router /api/v1/relations/blocked [get]
func (h *Handler) ListBlocked(c *gin.Context) {
	list, err := h.relService.ListBlocked(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, toUserViews(list))
}

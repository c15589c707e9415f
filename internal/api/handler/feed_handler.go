package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/pkg/response"
)

// Feed 首页时间线
// @Summary 首页时间线
// @Description 自己与未拉黑关注对象的 Ticket / Review，以及别人对自己 Ticket 的回复，按时间倒序
// @Tags 时间线
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Post}
// @Router /api/v1/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	posts, err := h.feedService.Feed(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

// Posts 自己发布的内容
// @Summary 我的帖子
// @Tags 时间线
// @Security BearerAuth
// @Success 200 {object} response.Response{data=[]model.Post}
// @Router /api/v1/posts [get]
func (h *Handler) Posts(c *gin.Context) {
	posts, err := h.feedService.UserPosts(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, posts)
}

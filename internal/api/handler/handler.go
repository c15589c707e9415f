package handler

import (
	"errors"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/internal/api/middleware"
	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/logger"
	"github.com/d60-Lab/litreview/pkg/response"
)

// Handler 聚合所有 HTTP 处理函数
type Handler struct {
	authService    service.AuthService
	relService     service.RelationshipService
	contentService service.ContentService
	feedService    service.FeedService
}

func NewHandler(authService service.AuthService, relService service.RelationshipService, contentService service.ContentService, feedService service.FeedService) *Handler {
	return &Handler{
		authService:    authService,
		relService:     relService,
		contentService: contentService,
		feedService:    feedService,
	}
}

// fail 把服务层错误映射为 HTTP 响应；拒绝类错误一律回显给调用方
func fail(c *gin.Context, err error) {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		response.UnprocessableEntity(c, "validation failed", ve.Fields)
	case errors.Is(err, service.ErrNotFound):
		response.NotFound(c, err.Error())
	case errors.Is(err, service.ErrForbidden):
		logger.Warn("forbidden", zap.String("path", c.FullPath()), zap.String("actor", middleware.CurrentUserID(c)))
		response.Forbidden(c, "only the author can modify this content")
	case errors.Is(err, service.ErrFollowSelf):
		response.BadRequest(c, err.Error())
	case errors.Is(err, service.ErrUsernameTaken):
		response.Conflict(c, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		response.Unauthorized(c, err.Error())
	default:
		response.InternalError(c, err)
	}
}

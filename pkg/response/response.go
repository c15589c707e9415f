package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/litreview/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func write(c *gin.Context, status int, msg string, data interface{}) {
	c.JSON(status, Response{Code: status, Message: msg, Data: data})
}

func Success(c *gin.Context, data interface{}) {
	write(c, http.StatusOK, "ok", data)
}

func Created(c *gin.Context, data interface{}) {
	write(c, http.StatusCreated, "created", data)
}

func BadRequest(c *gin.Context, msg string) {
	write(c, http.StatusBadRequest, msg, nil)
}

func Unauthorized(c *gin.Context, msg string) {
	c.Abort()
	write(c, http.StatusUnauthorized, msg, nil)
}

func Forbidden(c *gin.Context, msg string) {
	write(c, http.StatusForbidden, msg, nil)
}

func NotFound(c *gin.Context, msg string) {
	write(c, http.StatusNotFound, msg, nil)
}

func Conflict(c *gin.Context, msg string) {
	write(c, http.StatusConflict, msg, nil)
}

// UnprocessableEntity 字段校验失败，data 为字段 -> 错误描述
func UnprocessableEntity(c *gin.Context, msg string, fields map[string]string) {
	write(c, http.StatusUnprocessableEntity, msg, fields)
}

func TooManyRequests(c *gin.Context, msg string) {
	c.Abort()
	write(c, http.StatusTooManyRequests, msg, nil)
}

// InternalError 记录错误并返回通用 500，不向客户端暴露内部细节
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error", zap.String("path", c.FullPath()), zap.Error(err))
	_ = c.Error(err)
	write(c, http.StatusInternalServerError, "internal server error", nil)
}

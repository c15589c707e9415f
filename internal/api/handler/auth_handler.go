package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/litreview/internal/service"
	"github.com/d60-Lab/litreview/pkg/response"
)

type signupRequest struct {
	Username string `json:"username" binding:"required,max=150"`
	Email    string `json:"email"`
	Password string `json:"password" binding:"required"`
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup 注册
// @Summary 注册
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body signupRequest true "注册信息"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Failure 422 {object} response.Response
// @Router /api/v1/auth/signup [post]
func (h *Handler) Signup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	user, err := h.authService.Signup(c.Request.Context(), service.SignupInput{
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		fail(c, err)
		return
	}
	response.Created(c, gin.H{"id": user.ID, "username": user.Username})
}

// Login 登录，返回 access token
// @Summary 登录
// @Tags 账号
// @Accept json
// @Produce json
// @Param request body loginRequest true "登录信息"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	token, user, err := h.authService.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		fail(c, err)
		return
	}
	response.Success(c, gin.H{"access_token": token, "token_type": "Bearer", "user_id": user.ID})
}

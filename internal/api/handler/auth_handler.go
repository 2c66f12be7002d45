package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"task-tracker/internal/api/middleware"
	"task-tracker/internal/dto"
	"task-tracker/internal/service"
	"task-tracker/pkg/utils"
)

type AuthHandler struct {
	authService service.AuthService
}

func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

// Register 注册
// @Summary 用户注册
// @Description 创建本地用户并返回Token
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "注册请求"
// @Success 201 {object} dto.AuthResponse
// @Failure 400 {object} utils.ErrorResponse
// @Failure 409 {object} utils.ErrorResponse
// @Router /api/auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Created(c, resp)
}

// Login 登录
// @Summary 用户登录
// @Description 本地用户使用邮箱登录，auth_type=ldap 时使用用户名登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "登录请求"
// @Success 200 {object} dto.AuthResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// Refresh 刷新Token
// @Summary 刷新访问Token
// @Description 使用RefreshToken获取新的AccessToken，可放在请求体或 Authorization 头中
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body dto.RefreshTokenRequest false "刷新Token请求"
// @Success 200 {object} dto.RefreshTokenResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshTokenRequest
	if c.Request.ContentLength > 0 && !bindJSON(c, &req) {
		return
	}

	token := req.RefreshToken
	if token == "" {
		token = middleware.BearerToken(c)
	}
	if token == "" {
		utils.ErrorWithCode(c, http.StatusUnauthorized, "缺少refresh_token")
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), token)
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, resp)
}

// GetMe 获取当前用户信息
// @Summary 获取当前用户信息
// @Tags 认证
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.UserResponse
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/auth/me [get]
func (h *AuthHandler) GetMe(c *gin.Context) {
	user, err := h.authService.CurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		utils.Error(c, err)
		return
	}

	utils.Success(c, user)
}

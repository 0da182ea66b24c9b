package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pageza/despensa/backend/internal/middleware"
	"github.com/pageza/despensa/backend/internal/service"
	"github.com/pageza/despensa/backend/internal/types"
)

type AuthHandler struct {
	authService service.IAuthService
	requireAuth gin.HandlerFunc
	responder
}

func NewAuthHandler(authService service.IAuthService, common Common) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		requireAuth: orPassThrough(common.RequireAuth),
		responder:   common.responder(),
	}
}

func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
	}

	protected := auth.Group("")
	protected.Use(h.requireAuth)
	{
		protected.GET("/profile", h.GetProfile)
		protected.PUT("/profile", h.UpdateProfile)
		protected.PUT("/change-password", h.ChangePassword)
		protected.POST("/logout", h.Logout)
	}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req types.RegisterRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Register(c.Request.Context(), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusCreated, resp)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req types.LoginRequest
	if !h.bindJSON(c, &req) {
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (h *AuthHandler) GetProfile(c *gin.Context) {
	user, err := h.authService.GetUserByID(c.Request.Context(), currentUserID(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	var req types.UpdateProfileRequest
	if !h.bindJSON(c, &req) {
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), currentUserID(c), &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ChangePassword revokes the presented token and hands back a fresh one
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req types.ChangePasswordRequest
	if !h.bindJSON(c, &req) {
		return
	}

	claims, ok := middleware.Claims(c)
	if !ok {
		h.fail(c, service.ErrInvalidToken)
		return
	}

	token, err := h.authService.ChangePassword(c.Request.Context(), claims, &req)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "password changed successfully", "token": token})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.Claims(c)
	if !ok {
		h.fail(c, service.ErrInvalidToken)
		return
	}

	if err := h.authService.Logout(c.Request.Context(), claims); err != nil {
		h.fail(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "logged out successfully"})
}

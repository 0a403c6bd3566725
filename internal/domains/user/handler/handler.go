package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/user/model"
	"housiee-backend/internal/domains/user/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/session"
	"housiee-backend/pkg/apperror"
)

// =====================================================
// AUTH HANDLER
// =====================================================

type AuthHandler struct {
	userService service.ServiceInterface
	sessions    *session.Issuer
}

func NewAuthHandler(userService service.ServiceInterface, sessions *session.Issuer) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		sessions:    sessions,
	}
}

// Register
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	// Step 1: Bind request body
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Create account
	user, err := h.userService.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Step 3: Start session
	if !h.startSession(c, user) {
		return
	}

	response.Created(c, gin.H{"user": user})
}

// Login
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.userService.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if !h.startSession(c, user) {
		return
	}

	response.OK(c, gin.H{"user": user})
}

// Logout
// POST /api/auth/logout
func (h *AuthHandler) Logout(c *gin.Context) {
	h.sessions.Clear(c)
	response.OK(c, gin.H{"message": "Logged out"})
}

// Me
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"user": user})
}

func (h *AuthHandler) startSession(c *gin.Context, user *model.UserResponse) bool {
	if err := h.sessions.Issue(c, user.ID.String(), user.Email, string(user.Role)); err != nil {
		log.Error().Err(err).Str("user_id", user.ID.String()).Msg("Failed to issue session")
		response.Error(c, apperror.Internal(err))
		return false
	}
	return true
}

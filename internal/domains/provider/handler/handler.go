package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/internal/domains/provider/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/session"
)

// =====================================================
// PROVIDER HANDLER
// =====================================================

type ProviderHandler struct {
	providerService service.ServiceInterface
	sessions        *session.Issuer
}

func NewProviderHandler(providerService service.ServiceInterface, sessions *session.Issuer) *ProviderHandler {
	return &ProviderHandler{
		providerService: providerService,
		sessions:        sessions,
	}
}

// Apply
// POST /api/provider/apply
func (h *ProviderHandler) Apply(c *gin.Context) {
	// Step 1: Bind request body
	var req model.ApplyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Create profile
	caller := middleware.GetCaller(c)
	result, err := h.providerService.Apply(c.Request.Context(), caller, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	// Step 3: Reissue the session carrying the new role
	if err := h.sessions.Issue(c, caller.UserID.String(), caller.Email, string(result.Role)); err != nil {
		log.Warn().Err(err).Str("user_id", caller.UserID.String()).Msg("Failed to reissue session")
	}

	response.Created(c, result)
}

// GetProfile
// GET /api/provider/profile
func (h *ProviderHandler) GetProfile(c *gin.Context) {
	profile, err := h.providerService.GetProfile(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"provider": profile})
}

// UpdateProfile
// PUT /api/provider/profile
func (h *ProviderHandler) UpdateProfile(c *gin.Context) {
	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	profile, err := h.providerService.UpdateProfile(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"provider": profile})
}

// GetDashboardStats
// GET /api/provider/dashboard-stats
func (h *ProviderHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.providerService.GetDashboardStats(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"stats": stats})
}

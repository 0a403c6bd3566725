package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/domains/admin/model"
	"housiee-backend/internal/domains/admin/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/utils"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// =====================================================
// ADMIN HANDLER
// =====================================================

type AdminHandler struct {
	adminService service.ServiceInterface
}

func NewAdminHandler(adminService service.ServiceInterface) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
	}
}

// ListUsers
// GET /api/admin/users?role=&search=&page=&limit=
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, limit, err := utils.ParsePagination(c, model.DefaultPageLimit, model.MaxPageLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.adminService.ListUsers(
		c.Request.Context(), middleware.GetCaller(c), c.Query("role"), c.Query("search"), page, limit,
	)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// UpdateUserRole
// PATCH /api/admin/users/:id/role
func (h *AdminHandler) UpdateUserRole(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "User not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.UpdateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	if err := h.adminService.UpdateUserRole(c.Request.Context(), middleware.GetCaller(c), id, req); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Role updated"})
}

// DeleteUser
// DELETE /api/admin/users/:id
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "User not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.adminService.DeleteUser(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "User deleted"})
}

// ListProviders
// GET /api/admin/providers?verified=&page=&limit=
func (h *AdminHandler) ListProviders(c *gin.Context) {
	page, limit, err := utils.ParsePagination(c, model.DefaultPageLimit, model.MaxPageLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	var verified *bool
	if raw := c.Query("verified"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			response.BadRequest(c, "verified must be true or false")
			return
		}
		verified = &v
	}

	result, err := h.adminService.ListProviders(c.Request.Context(), middleware.GetCaller(c), verified, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

// VerifyProvider
// PATCH /api/admin/providers/:id/verify
func (h *AdminHandler) VerifyProvider(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Provider not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.VerifyProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	provider, err := h.adminService.VerifyProvider(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"provider": provider})
}

// GetStatistics
// GET /api/admin/statistics
func (h *AdminHandler) GetStatistics(c *gin.Context) {
	stats, err := h.adminService.GetStatistics(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"statistics": stats})
}

// ExportBookings streams an XLSX attachment
// GET /api/admin/bookings/export?status=
func (h *AdminHandler) ExportBookings(c *gin.Context) {
	f, err := h.adminService.ExportBookings(c.Request.Context(), middleware.GetCaller(c), c.Query("status"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	filename := fmt.Sprintf("bookings-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if err := f.Write(c.Writer); err != nil {
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg("Failed to write bookings export")
	}
}

package handler

import (
	"github.com/gin-gonic/gin"

	"housiee-backend/internal/domains/review/model"
	"housiee-backend/internal/domains/review/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/utils"
)

// =====================================================
// REVIEW HANDLER
// =====================================================

type ReviewHandler struct {
	reviewService service.ServiceInterface
}

func NewReviewHandler(reviewService service.ServiceInterface) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
	}
}

// =====================================================
// USER REVIEW ENDPOINTS
// =====================================================

// CreateReview creates a review for a service the caller completed a booking for
// POST /api/reviews
func (h *ReviewHandler) CreateReview(c *gin.Context) {
	// Step 1: Bind request body
	var req model.CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Call service
	review, err := h.reviewService.CreateReview(c.Request.Context(), middleware.GetCaller(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"review": review})
}

// ListMyReviews
// GET /api/reviews/my-reviews
func (h *ReviewHandler) ListMyReviews(c *gin.Context) {
	reviews, err := h.reviewService.ListMyReviews(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"reviews": reviews})
}

// UpdateReview
// PUT /api/reviews/:id
func (h *ReviewHandler) UpdateReview(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Review not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.UpdateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	review, err := h.reviewService.UpdateReview(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"review": review})
}

// DeleteReview
// DELETE /api/reviews/:id
func (h *ReviewHandler) DeleteReview(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Review not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.reviewService.DeleteReview(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Review deleted"})
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListServiceReviews returns a page of reviews with the rating summary
// GET /api/reviews/service/:id?page=&limit=
func (h *ReviewHandler) ListServiceReviews(c *gin.Context) {
	serviceID, err := utils.ParseUUIDParam(c, "id", "Service not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	page, limit, err := utils.ParsePagination(c, model.DefaultPageLimit, model.MaxPageLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.reviewService.ListServiceReviews(c.Request.Context(), serviceID, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, result)
}

package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"housiee-backend/internal/domains/listing/model"
	"housiee-backend/internal/domains/listing/service"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/internal/shared/utils"
	"housiee-backend/pkg/apperror"
)

const (
	maxMultipartMemory = 32 << 20
	maxUploadBytes     = 5 << 20
)

// =====================================================
// LISTING HANDLER
// =====================================================

type ListingHandler struct {
	listingService service.ServiceInterface
}

func NewListingHandler(listingService service.ServiceInterface) *ListingHandler {
	return &ListingHandler{
		listingService: listingService,
	}
}

// =====================================================
// PUBLIC ENDPOINTS
// =====================================================

// ListServices
// GET /api/services?category=&search=&page=&limit=
func (h *ListingHandler) ListServices(c *gin.Context) {
	// Step 1: Parse query
	page, limit, err := utils.ParsePagination(c, model.DefaultPageLimit, model.MaxPageLimit)
	if err != nil {
		response.Error(c, err)
		return
	}

	req := model.ListServicesRequest{
		Category: strings.ToUpper(strings.TrimSpace(c.Query("category"))),
		Search:   c.Query("search"),
		Page:     page,
		Limit:    limit,
	}

	// Step 2: Call service
	resp, err := h.listingService.ListServices(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, resp)
}

// GetService
// GET /api/services/:id
func (h *ListingHandler) GetService(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Service not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.listingService.GetService(c.Request.Context(), middleware.GetCaller(c), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"service": resp})
}

// =====================================================
// PROVIDER ENDPOINTS
// =====================================================

// ListMyServices
// GET /api/provider/services
func (h *ListingHandler) ListMyServices(c *gin.Context) {
	services, err := h.listingService.ListProviderServices(c.Request.Context(), middleware.GetCaller(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"services": services})
}

// CreateService accepts multipart/form-data with image files, or JSON with image URLs.
// POST /api/services
func (h *ListingHandler) CreateService(c *gin.Context) {
	// Step 1: Bind request
	var (
		req     model.CreateServiceRequest
		uploads []model.ImageUpload
		err     error
	)
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		req, uploads, err = bindMultipart(c)
		if err != nil {
			response.Error(c, err)
			return
		}
	} else if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	// Step 2: Call service
	resp, err := h.listingService.CreateService(c.Request.Context(), middleware.GetCaller(c), req, uploads)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"service": resp})
}

// UpdateService
// PUT /api/services/:id
func (h *ListingHandler) UpdateService(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Service not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	var req model.UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	resp, err := h.listingService.UpdateService(c.Request.Context(), middleware.GetCaller(c), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"service": resp})
}

// DeleteService
// DELETE /api/services/:id
func (h *ListingHandler) DeleteService(c *gin.Context) {
	id, err := utils.ParseUUIDParam(c, "id", "Service not found")
	if err != nil {
		response.Error(c, err)
		return
	}

	if err := h.listingService.DeleteService(c.Request.Context(), middleware.GetCaller(c), id); err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"message": "Service deleted"})
}

// =====================================================
// MULTIPART
// =====================================================

func bindMultipart(c *gin.Context) (model.CreateServiceRequest, []model.ImageUpload, error) {
	var req model.CreateServiceRequest

	if err := c.Request.ParseMultipartForm(maxMultipartMemory); err != nil {
		return req, nil, apperror.Validation("Invalid multipart form")
	}

	req.Category = strings.ToUpper(strings.TrimSpace(c.PostForm("category")))
	req.Title = strings.TrimSpace(c.PostForm("title"))
	req.Description = c.PostForm("description")

	if v := strings.TrimSpace(c.PostForm("basePrice")); v != "" {
		price, err := decimal.NewFromString(v)
		if err != nil {
			return req, nil, apperror.Validation("basePrice must be a number")
		}
		req.BasePrice = price
	}

	if v := strings.TrimSpace(c.PostForm("capacity")); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return req, nil, apperror.Validation("capacity must be an integer")
		}
		req.Capacity = &capacity
	}

	if v := strings.TrimSpace(c.PostForm("details")); v != "" {
		if !json.Valid([]byte(v)) {
			return req, nil, apperror.Validation("details must be a valid JSON object")
		}
		req.Details = json.RawMessage(v)
	}

	files := c.Request.MultipartForm.File["images"]
	if len(files) > model.MaxImages {
		return req, nil, apperror.Validation(fmt.Sprintf("images: at most %d images", model.MaxImages))
	}

	uploads := make([]model.ImageUpload, 0, len(files))
	for _, fh := range files {
		data, err := readUpload(fh)
		if err != nil {
			return req, nil, err
		}
		uploads = append(uploads, model.ImageUpload{Filename: fh.Filename, Data: data})
	}

	return req, uploads, nil
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	if fh.Size > maxUploadBytes {
		return nil, apperror.Validation(fmt.Sprintf("%s: exceeds 5MB", fh.Filename))
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperror.Internalf(err, "open upload %s", fh.Filename)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil {
		return nil, apperror.Internalf(err, "read upload %s", fh.Filename)
	}
	if len(data) > maxUploadBytes {
		return nil, apperror.Validation(fmt.Sprintf("%s: exceeds 5MB", fh.Filename))
	}
	return data, nil
}

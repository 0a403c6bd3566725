package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housiee-backend/internal/domains/review/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/response"
	"housiee-backend/pkg/apperror"
)

type fakeService struct {
	createReq   model.CreateReviewRequest
	page, limit int
	err         error
}

func (f *fakeService) CreateReview(_ context.Context, _ *authz.Caller, req model.CreateReviewRequest) (*model.ReviewResponse, error) {
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.ReviewResponse{ID: uuid.New(), Rating: req.Rating}, nil
}

func (f *fakeService) UpdateReview(_ context.Context, _ *authz.Caller, id uuid.UUID, _ model.UpdateReviewRequest) (*model.ReviewResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.ReviewResponse{ID: id}, nil
}

func (f *fakeService) DeleteReview(context.Context, *authz.Caller, uuid.UUID) error {
	return f.err
}

func (f *fakeService) ListServiceReviews(_ context.Context, _ uuid.UUID, page, limit int) (*model.ListReviewsResponse, error) {
	f.page, f.limit = page, limit
	if f.err != nil {
		return nil, f.err
	}
	return &model.ListReviewsResponse{
		Reviews:    []*model.ReviewResponse{},
		Summary:    model.ToSummaryResponse(nil),
		Pagination: response.NewPagination(page, limit, 0),
	}, nil
}

func (f *fakeService) ListMyReviews(context.Context, *authz.Caller) ([]*model.ReviewResponse, error) {
	return []*model.ReviewResponse{}, f.err
}

func setupRouter(svc *fakeService, caller *authz.Caller) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			middleware.SetCaller(c, caller)
		}
		c.Next()
	})

	h := NewReviewHandler(svc)
	reviews := r.Group("/api/reviews")
	reviews.GET("/service/:id", h.ListServiceReviews)

	authed := reviews.Group("", middleware.RequireAuth())
	authed.POST("", h.CreateReview)
	authed.GET("/my-reviews", h.ListMyReviews)
	authed.PUT("/:id", h.UpdateReview)
	authed.DELETE("/:id", h.DeleteReview)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func reviewer() *authz.Caller {
	return &authz.Caller{UserID: uuid.New(), Role: authz.RoleUser}
}

func TestListServiceReviews_Public(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, nil)

	w := do(r, http.MethodGet, "/api/reviews/service/"+uuid.NewString()+"?page=2&limit=5", "")

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 2, svc.page)
	assert.Equal(t, 5, svc.limit)
	assert.Contains(t, w.Body.String(), `"summary"`)
}

func TestListServiceReviews_DefaultsAndLimitBounds(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, nil)

	w := do(r, http.MethodGet, "/api/reviews/service/"+uuid.NewString(), "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 1, svc.page)
	assert.Equal(t, model.DefaultPageLimit, svc.limit)

	w = do(r, http.MethodGet, "/api/reviews/service/"+uuid.NewString()+"?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateReview_RequiresSession(t *testing.T) {
	r := setupRouter(&fakeService{}, nil)

	w := do(r, http.MethodPost, "/api/reviews", `{"rating":5}`)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestCreateReview_BindsBody(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, reviewer())
	serviceID := uuid.NewString()

	w := do(r, http.MethodPost, "/api/reviews", `{"serviceId":"`+serviceID+`","rating":4,"comment":"Great"}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, serviceID, svc.createReq.ServiceID)
	assert.Equal(t, 4, svc.createReq.Rating)
	assert.Contains(t, w.Body.String(), `"review"`)
}

func TestCreateReview_NotEligible(t *testing.T) {
	svc := &fakeService{err: model.NewNotEligibleError()}
	r := setupRouter(svc, reviewer())

	w := do(r, http.MethodPost, "/api/reviews", `{"serviceId":"`+uuid.NewString()+`","rating":4}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"You can only review services you have completed a booking for"}`, w.Body.String())
}

func TestDeleteReview_Forbidden(t *testing.T) {
	svc := &fakeService{err: apperror.Forbidden("You can only modify your own reviews")}
	r := setupRouter(svc, reviewer())

	w := do(r, http.MethodDelete, "/api/reviews/"+uuid.NewString(), "")

	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestUpdateReview_MalformedID(t *testing.T) {
	r := setupRouter(&fakeService{}, reviewer())

	w := do(r, http.MethodPut, "/api/reviews/abc", `{"rating":3}`)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

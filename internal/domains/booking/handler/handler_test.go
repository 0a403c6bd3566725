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

	"housiee-backend/internal/domains/booking/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/pkg/apperror"
)

type fakeService struct {
	createReq model.CreateBookingRequest
	statusReq model.UpdateStatusRequest
	status    string
	err       error
}

func (f *fakeService) CreateBooking(_ context.Context, _ *authz.Caller, req model.CreateBookingRequest) (*model.BookingResponse, error) {
	f.createReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.BookingResponse{ID: uuid.New(), Status: model.StatusPending}, nil
}

func (f *fakeService) GetBooking(_ context.Context, _ *authz.Caller, id uuid.UUID) (*model.BookingResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.BookingResponse{ID: id}, nil
}

func (f *fakeService) ListMyBookings(_ context.Context, _ *authz.Caller, status string) ([]*model.BookingResponse, error) {
	f.status = status
	return []*model.BookingResponse{}, f.err
}

func (f *fakeService) ListProviderBookings(_ context.Context, _ *authz.Caller, status string) ([]*model.BookingResponse, error) {
	f.status = status
	if f.err != nil {
		return nil, f.err
	}
	return []*model.BookingResponse{}, nil
}

func (f *fakeService) UpdateStatus(_ context.Context, _ *authz.Caller, id uuid.UUID, req model.UpdateStatusRequest) (*model.BookingResponse, error) {
	f.statusReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.BookingResponse{ID: id, Status: model.Status(req.Status)}, nil
}

func (f *fakeService) GetHistory(context.Context, *authz.Caller, uuid.UUID) ([]model.HistoryResponse, error) {
	return []model.HistoryResponse{}, f.err
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

	h := NewBookingHandler(svc)
	bookings := r.Group("/api/bookings", middleware.RequireAuth())
	bookings.POST("", h.CreateBooking)
	bookings.GET("/my-bookings", h.ListMyBookings)
	bookings.GET("/provider-bookings", h.ListProviderBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.GET("/:id/history", h.GetHistory)
	bookings.PATCH("/:id/status", h.UpdateStatus)
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

func renter() *authz.Caller {
	return &authz.Caller{UserID: uuid.New(), Role: authz.RoleUser}
}

func TestBookingRoutes_RequireSession(t *testing.T) {
	r := setupRouter(&fakeService{}, nil)

	w := do(r, http.MethodGet, "/api/bookings/my-bookings", "")

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.JSONEq(t, `{"error":"Authentication required"}`, w.Body.String())
}

func TestCreateBooking_IgnoresPriceField(t *testing.T) {
	svc := &fakeService{}
	r := setupRouter(svc, renter())
	serviceID := uuid.NewString()

	w := do(r, http.MethodPost, "/api/bookings",
		`{"serviceId":"`+serviceID+`","startDate":"2024-01-01","endDate":"2024-01-04","totalPrice":1}`)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, serviceID, svc.createReq.ServiceID)
	require.NotNil(t, svc.createReq.EndDate)
	assert.Equal(t, "2024-01-04", *svc.createReq.EndDate)
	assert.Contains(t, w.Body.String(), `"booking"`)
}

func TestCreateBooking_MalformedBody(t *testing.T) {
	r := setupRouter(&fakeService{}, renter())

	w := do(r, http.MethodPost, "/api/bookings", `{"serviceId":`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateStatus_MapsForbidden(t *testing.T) {
	svc := &fakeService{err: apperror.Forbidden("You can only cancel your bookings")}
	r := setupRouter(svc, renter())

	w := do(r, http.MethodPatch, "/api/bookings/"+uuid.NewString()+"/status", `{"status":"COMPLETED"}`)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.JSONEq(t, `{"error":"You can only cancel your bookings"}`, w.Body.String())
	assert.Equal(t, "COMPLETED", svc.statusReq.Status)
}

func TestGetBooking_MalformedID(t *testing.T) {
	r := setupRouter(&fakeService{}, renter())

	w := do(r, http.MethodGet, "/api/bookings/123", "")

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListProviderBookings_PassesStatus(t *testing.T) {
	svc := &fakeService{err: apperror.Validation("Provider profile not found")}
	r := setupRouter(svc, renter())

	w := do(r, http.MethodGet, "/api/bookings/provider-bookings?status=CONFIRMED", "")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Provider profile not found"}`, w.Body.String())
	assert.Equal(t, "CONFIRMED", svc.status)
}

func TestGetHistory_OK(t *testing.T) {
	r := setupRouter(&fakeService{}, renter())

	w := do(r, http.MethodGet, "/api/bookings/"+uuid.NewString()+"/history", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"history":[]}`, w.Body.String())
}

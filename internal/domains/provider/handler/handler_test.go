package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"housiee-backend/internal/domains/provider/model"
	"housiee-backend/internal/shared/authz"
	"housiee-backend/internal/shared/middleware"
	"housiee-backend/internal/shared/session"
	"housiee-backend/pkg/jwt"
)

type fakeService struct {
	applyReq model.ApplyRequest
	err      error
}

func (f *fakeService) Apply(_ context.Context, caller *authz.Caller, req model.ApplyRequest) (*model.ApplyResponse, error) {
	f.applyReq = req
	if f.err != nil {
		return nil, f.err
	}
	return &model.ApplyResponse{
		Provider: &model.ProviderResponse{ID: uuid.New(), UserID: caller.UserID, BusinessName: req.BusinessName},
		Role:     authz.RoleServiceProvider,
	}, nil
}

func (f *fakeService) GetProfile(context.Context, *authz.Caller) (*model.ProviderResponse, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.ProviderResponse{}, nil
}

func (f *fakeService) UpdateProfile(context.Context, *authz.Caller, model.UpdateProfileRequest) (*model.ProviderResponse, error) {
	return &model.ProviderResponse{}, f.err
}

func (f *fakeService) GetDashboardStats(context.Context, *authz.Caller) (*model.DashboardResponse, error) {
	return &model.DashboardResponse{BookingsByStatus: map[string]int{}}, f.err
}

func setupRouter(svc *fakeService, caller *authz.Caller) (*gin.Engine, *jwt.Manager) {
	gin.SetMode(gin.TestMode)
	tokens := jwt.NewManager("test-secret", time.Hour)

	r := gin.New()
	r.Use(func(c *gin.Context) {
		if caller != nil {
			middleware.SetCaller(c, caller)
		}
		c.Next()
	})

	h := NewProviderHandler(svc, session.NewIssuer(tokens, "housiee_session", false))
	provider := r.Group("/api/provider", middleware.RequireAuth())
	provider.POST("/apply", h.Apply)
	provider.GET("/profile", h.GetProfile)
	provider.PUT("/profile", h.UpdateProfile)
	provider.GET("/dashboard-stats", h.GetDashboardStats)
	return r, tokens
}

func TestApply_ReissuesSessionWithNewRole(t *testing.T) {
	svc := &fakeService{}
	caller := &authz.Caller{UserID: uuid.New(), Email: "p@example.com", Role: authz.RoleUser}
	r, tokens := setupRouter(svc, caller)

	req := httptest.NewRequest(http.MethodPost, "/api/provider/apply", strings.NewReader(`{"businessName":"Sea View"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)
	assert.Equal(t, "Sea View", svc.applyReq.BusinessName)

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	claims, err := tokens.ValidateSessionToken(cookies[0].Value)
	require.NoError(t, err)
	assert.Equal(t, "SERVICE_PROVIDER", claims.Role)
}

func TestApply_AlreadyApplied(t *testing.T) {
	r, _ := setupRouter(&fakeService{err: model.NewAlreadyAppliedError()}, &authz.Caller{UserID: uuid.New()})

	req := httptest.NewRequest(http.MethodPost, "/api/provider/apply", strings.NewReader(`{"businessName":"Again"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"error":"Provider profile already exists"}`, w.Body.String())
	assert.Empty(t, w.Result().Cookies())
}

func TestGetProfile_NotFound(t *testing.T) {
	r, _ := setupRouter(&fakeService{err: model.NewProfileNotFoundError()}, &authz.Caller{UserID: uuid.New()})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/provider/profile", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestProviderRoutes_RequireSession(t *testing.T) {
	r, _ := setupRouter(&fakeService{}, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/provider/dashboard-stats", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

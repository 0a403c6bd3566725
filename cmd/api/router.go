package main

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/shared/middleware"
	"housiee-backend/pkg/container"
)

// maxMultipartMemory bounds the in-memory part of listing uploads
// (5 images of up to 5 MB plus form fields).
const maxMultipartMemory = 32 << 20

func SetupRouter(c *container.Container) *gin.Engine {
	router := gin.New()
	router.MaxMultipartMemory = maxMultipartMemory

	// Global middlewares
	router.Use(
		middleware.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.Metrics(c.Metrics),
		middleware.CORS(c.Config.App.AllowedOrigins),
		middleware.ClientIP(),
		middleware.Session(c.Tokens, c.Config.JWT.CookieName, c.UserService),
	)

	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.Registry, promhttp.HandlerOpts{})))

	if dir := c.LocalUploadDir(); dir != "" && strings.HasPrefix(c.Config.Storage.PublicURL, "/") {
		router.Static(c.Config.Storage.PublicURL, dir)
		log.Info().Str("dir", dir).Str("url", c.Config.Storage.PublicURL).Msg("Serving local uploads")
	}

	api := router.Group("/api")
	{
		api.GET("/health", healthCheckHandler(c))

		setupAuthRoutes(api, c)
		setupServiceRoutes(api, c)
		setupBookingRoutes(api, c)
		setupReviewRoutes(api, c)
		setupProviderRoutes(api, c)
		setupAdminRoutes(api, c)
	}

	return router
}

// ========================================
// AUTH ROUTES
// ========================================
func setupAuthRoutes(api *gin.RouterGroup, c *container.Container) {
	limiter := middleware.NewRateLimiter(c.Config.RateLimit.RPS, c.Config.RateLimit.Burst)

	auth := api.Group("/auth", limiter.Middleware())
	{
		auth.POST("/register", c.AuthHandler.Register)
		auth.POST("/login", c.AuthHandler.Login)
		auth.POST("/logout", c.AuthHandler.Logout)
		auth.GET("/me", middleware.RequireAuth(), c.AuthHandler.Me)
	}
}

// ========================================
// SERVICE (LISTING) ROUTES
// ========================================
func setupServiceRoutes(api *gin.RouterGroup, c *container.Container) {
	services := api.Group("/services")
	{
		services.GET("", c.ListingHandler.ListServices)
		services.GET("/:id", c.ListingHandler.GetService)

		// Role and ownership are checked by the listing service
		services.POST("", middleware.RequireAuth(), c.ListingHandler.CreateService)
		services.PUT("/:id", middleware.RequireAuth(), c.ListingHandler.UpdateService)
		services.DELETE("/:id", middleware.RequireAuth(), c.ListingHandler.DeleteService)
	}
}

// ========================================
// BOOKING ROUTES
// ========================================
func setupBookingRoutes(api *gin.RouterGroup, c *container.Container) {
	bookings := api.Group("/bookings", middleware.RequireAuth())
	{
		bookings.POST("", c.BookingHandler.CreateBooking)
		bookings.GET("/my-bookings", c.BookingHandler.ListMyBookings)
		bookings.GET("/provider-bookings", c.BookingHandler.ListProviderBookings)
		bookings.GET("/:id", c.BookingHandler.GetBooking)
		bookings.GET("/:id/history", c.BookingHandler.GetHistory)
		bookings.PATCH("/:id/status", c.BookingHandler.UpdateStatus)
	}
}

// ========================================
// REVIEW ROUTES
// ========================================
func setupReviewRoutes(api *gin.RouterGroup, c *container.Container) {
	reviews := api.Group("/reviews")
	{
		reviews.GET("/service/:id", c.ReviewHandler.ListServiceReviews)

		authed := reviews.Group("", middleware.RequireAuth())
		authed.POST("", c.ReviewHandler.CreateReview)
		authed.GET("/my-reviews", c.ReviewHandler.ListMyReviews)
		authed.PUT("/:id", c.ReviewHandler.UpdateReview)
		authed.DELETE("/:id", c.ReviewHandler.DeleteReview)
	}
}

// ========================================
// PROVIDER ROUTES
// ========================================
func setupProviderRoutes(api *gin.RouterGroup, c *container.Container) {
	provider := api.Group("/provider", middleware.RequireAuth())
	{
		provider.POST("/apply", c.ProviderHandler.Apply)
		provider.GET("/profile", c.ProviderHandler.GetProfile)
		provider.PUT("/profile", c.ProviderHandler.UpdateProfile)
		provider.GET("/dashboard-stats", c.ProviderHandler.GetDashboardStats)
		provider.GET("/services", c.ListingHandler.ListMyServices)
	}
}

// ========================================
// ADMIN ROUTES
// ========================================
func setupAdminRoutes(api *gin.RouterGroup, c *container.Container) {
	admin := api.Group("/admin", middleware.RequireAdmin())
	{
		admin.GET("/users", c.AdminHandler.ListUsers)
		admin.PATCH("/users/:id/role", c.AdminHandler.UpdateUserRole)
		admin.DELETE("/users/:id", c.AdminHandler.DeleteUser)
		admin.GET("/providers", c.AdminHandler.ListProviders)
		admin.PATCH("/providers/:id/verify", c.AdminHandler.VerifyProvider)
		admin.GET("/statistics", c.AdminHandler.GetStatistics)
		admin.GET("/bookings/export", c.AdminHandler.ExportBookings)
	}
}

// ========================================
// HEALTH CHECK
// ========================================
func healthCheckHandler(appCtx *container.Container) gin.HandlerFunc {
	return func(c *gin.Context) {
		health := gin.H{
			"status":    "ok",
			"timestamp": time.Now().Format(time.RFC3339),
			"version":   appCtx.Config.App.Version,
		}

		// Check database
		dbStatus := "ok"
		if appCtx.DB == nil || appCtx.DB.Pool == nil {
			dbStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.DB.HealthCheck(ctx); err != nil {
				log.Warn().Err(err).Msg("Database health check failed")
				dbStatus = "error"
			}
		}

		// Check redis; the API keeps working without it
		redisStatus := "ok"
		if appCtx.Cache == nil {
			redisStatus = "disconnected"
		} else {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()

			if err := appCtx.Cache.Ping(ctx); err != nil {
				log.Warn().Err(err).Msg("Redis health check failed")
				redisStatus = "error"
			}
		}

		health["services"] = gin.H{
			"database": dbStatus,
			"redis":    redisStatus,
		}

		statusCode := http.StatusOK
		if dbStatus != "ok" {
			health["status"] = "unavailable"
			statusCode = http.StatusServiceUnavailable
		} else if redisStatus != "ok" {
			health["status"] = "degraded"
		}

		c.JSON(statusCode, health)
	}
}

package container

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"housiee-backend/internal/config"
	infraCache "housiee-backend/internal/infrastructure/cache"
	"housiee-backend/internal/infrastructure/database"
	"housiee-backend/internal/infrastructure/storage"
	"housiee-backend/internal/shared/metrics"
	"housiee-backend/internal/shared/session"
	"housiee-backend/pkg/cache"
	"housiee-backend/pkg/jwt"

	adminHandler "housiee-backend/internal/domains/admin/handler"
	adminRepo "housiee-backend/internal/domains/admin/repository"
	adminService "housiee-backend/internal/domains/admin/service"
	bookingHandler "housiee-backend/internal/domains/booking/handler"
	bookingRepo "housiee-backend/internal/domains/booking/repository"
	bookingService "housiee-backend/internal/domains/booking/service"
	listingHandler "housiee-backend/internal/domains/listing/handler"
	listingRepo "housiee-backend/internal/domains/listing/repository"
	listingService "housiee-backend/internal/domains/listing/service"
	providerHandler "housiee-backend/internal/domains/provider/handler"
	providerRepo "housiee-backend/internal/domains/provider/repository"
	providerService "housiee-backend/internal/domains/provider/service"
	reviewHandler "housiee-backend/internal/domains/review/handler"
	reviewRepo "housiee-backend/internal/domains/review/repository"
	reviewService "housiee-backend/internal/domains/review/service"
	userHandler "housiee-backend/internal/domains/user/handler"
	userRepo "housiee-backend/internal/domains/user/repository"
	userService "housiee-backend/internal/domains/user/service"
)

// ========================================
// CONTAINER STRUCT
// ========================================

// Container holds every long-lived dependency of the API process.
type Container struct {
	// ========================================
	// INFRASTRUCTURE LAYER
	// ========================================

	Config   *config.Config
	DB       *database.PostgresDB
	Redis    *infraCache.RedisClient
	Cache    cache.Cache
	Tokens   *jwt.Manager
	Sessions *session.Issuer
	Images   storage.ImageStore
	Registry *prometheus.Registry
	Metrics  *metrics.Metrics

	// ========================================
	// REPOSITORY LAYER
	// ========================================

	UserRepo     userRepo.UserRepository
	ProviderRepo providerRepo.ProviderRepository
	ListingRepo  listingRepo.ServiceRepository
	BookingRepo  bookingRepo.BookingRepository
	ReviewRepo   reviewRepo.ReviewRepository
	AdminRepo    adminRepo.AdminRepository

	// ========================================
	// SERVICE LAYER
	// ========================================

	UserService     userService.ServiceInterface
	ProviderService providerService.ServiceInterface
	ListingService  listingService.ServiceInterface
	BookingService  bookingService.ServiceInterface
	ReviewService   reviewService.ServiceInterface
	AdminService    adminService.ServiceInterface

	// ========================================
	// HANDLER LAYER
	// ========================================

	AuthHandler     *userHandler.AuthHandler
	ProviderHandler *providerHandler.ProviderHandler
	ListingHandler  *listingHandler.ListingHandler
	BookingHandler  *bookingHandler.BookingHandler
	ReviewHandler   *reviewHandler.ReviewHandler
	AdminHandler    *adminHandler.AdminHandler
}

// ========================================
// CONSTRUCTOR: BUILD CONTAINER
// ========================================

// NewContainer builds the dependency graph in order:
// config, infrastructure, repositories, services, handlers.
func NewContainer(ctx context.Context) (*Container, error) {
	log.Info().Msg("Initializing container")

	c := &Container{}

	// ========================================
	// STEP 1: LOAD CONFIGURATION
	// ========================================
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	c.Config = cfg

	// ========================================
	// STEP 2: INITIALIZE DATABASE
	// ========================================
	dbConfig, err := config.LoadDatabaseConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load database config: %w", err)
	}

	db := database.NewPostgresDB(dbConfig)

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := db.Connect(connectCtx); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.HealthCheck(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("database health check failed: %w", err)
	}
	c.DB = db

	// ========================================
	// STEP 3: INITIALIZE CACHE
	// ========================================
	// Redis is optional: the cache logs and bypasses errors.
	c.Redis = infraCache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err := c.Redis.Connect(ctx); err != nil {
		log.Warn().Err(err).Msg("Redis unavailable, catalog will be served from the database")
	}
	c.Cache = infraCache.NewRedisCache(c.Redis.Client)

	// ========================================
	// STEP 4: SESSIONS, STORAGE, METRICS
	// ========================================
	c.Tokens = jwt.NewManager(cfg.JWT.Secret, cfg.JWT.SessionExpiry)
	c.Sessions = session.NewIssuer(c.Tokens, cfg.JWT.CookieName, cfg.JWT.CookieSecure)

	images, err := storage.New(ctx, cfg)
	if err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to init image storage: %w", err)
	}
	c.Images = images

	c.Registry = prometheus.NewRegistry()
	c.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	c.Metrics = metrics.New(c.Registry)
	if err := db.RegisterPoolMetrics(c.Registry); err != nil {
		c.Cleanup()
		return nil, fmt.Errorf("failed to register pool metrics: %w", err)
	}

	// ========================================
	// STEP 5: REPOSITORIES, SERVICES, HANDLERS
	// ========================================
	c.initRepositories()
	c.initServices()
	c.initHandlers()

	log.Info().Str("environment", cfg.App.Environment).Msg("Container initialized")
	return c, nil
}

// ========================================
// PRIVATE INITIALIZATION METHODS
// ========================================

func (c *Container) initRepositories() {
	pool := c.DB.Pool

	c.UserRepo = userRepo.NewPostgresUserRepository(pool)
	c.ProviderRepo = providerRepo.NewPostgresProviderRepository(pool)
	c.ListingRepo = listingRepo.NewPostgresServiceRepository(pool)
	c.BookingRepo = bookingRepo.NewPostgresBookingRepository(pool)
	c.ReviewRepo = reviewRepo.NewPostgresReviewRepository(pool)
	c.AdminRepo = adminRepo.NewPostgresAdminRepository(pool)
}

func (c *Container) initServices() {
	c.UserService = userService.NewUserService(c.UserRepo, c.Cache)
	c.ProviderService = providerService.NewProviderService(c.ProviderRepo)
	c.ListingService = listingService.NewListingService(
		c.ListingRepo,
		c.Cache,
		c.Images,
		storage.NewImageProcessor(),
		c.Metrics,
		c.Config.Redis.CacheTTL,
	)
	c.BookingService = bookingService.NewBookingService(c.BookingRepo, c.Metrics)
	c.ReviewService = reviewService.NewReviewService(c.ReviewRepo, c.Cache)
	c.AdminService = adminService.NewAdminService(c.AdminRepo, c.Cache, c.Images)
}

func (c *Container) initHandlers() {
	c.AuthHandler = userHandler.NewAuthHandler(c.UserService, c.Sessions)
	c.ProviderHandler = providerHandler.NewProviderHandler(c.ProviderService, c.Sessions)
	c.ListingHandler = listingHandler.NewListingHandler(c.ListingService)
	c.BookingHandler = bookingHandler.NewBookingHandler(c.BookingService)
	c.ReviewHandler = reviewHandler.NewReviewHandler(c.ReviewService)
	c.AdminHandler = adminHandler.NewAdminHandler(c.AdminService)
}

// LocalUploadDir returns the directory to serve under the public upload
// URL, or "" when images live in object storage.
func (c *Container) LocalUploadDir() string {
	if local, ok := c.Images.(*storage.LocalStorage); ok {
		return local.Dir()
	}
	return ""
}

// Cleanup releases connections. Safe to call on a partly built container.
func (c *Container) Cleanup() {
	if c.DB != nil {
		if err := c.DB.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close database")
		}
	}

	if c.Redis != nil {
		if err := c.Redis.Close(); err != nil {
			log.Warn().Err(err).Msg("Failed to close Redis")
		}
	}

	log.Info().Msg("Container cleanup completed")
}

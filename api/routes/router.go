package routes

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"stagepass/internal/analytics"
	"stagepass/internal/auth"
	"stagepass/internal/bookings"
	"stagepass/internal/events"
	"stagepass/internal/expiry"
	"stagepass/internal/notifications"
	"stagepass/internal/seats"
	"stagepass/internal/selection"
	"stagepass/internal/shared/config"
	"stagepass/internal/shared/database"
	"stagepass/internal/shared/middleware"
	"stagepass/internal/shared/utils/response"
	"stagepass/internal/tickettypes"
	"stagepass/internal/venues"
	"stagepass/pkg/cache"
	"stagepass/pkg/ratelimit"
)

// Dependencies carries the externally-owned pieces the router wires into
// the feature packages.
type Dependencies struct {
	DB      *database.DB
	Config  *config.Config
	Monitor *expiry.Monitor

	// Producer is nil when Kafka is disabled; publishing then quietly
	// no-ops.
	Producer notifications.Producer
}

// registerValidators adds custom binding validations used by the request
// DTOs.
func registerValidators() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		// rowletter: a single uppercase row label, A-Z.
		_ = v.RegisterValidation("rowletter", func(fl validator.FieldLevel) bool {
			s := fl.Field().String()
			return len(s) == 1 && s[0] >= 'A' && s[0] <= 'Z'
		})
	}
}

// Setup builds the full HTTP engine and returns it together with the
// selection service, which the caller hooks up as the expiry monitor's
// callback target.
func Setup(deps Dependencies) (*gin.Engine, selection.Service) {
	cfg := deps.Config
	gin.SetMode(cfg.GinMode)
	registerValidators()

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger())
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	if cfg.RateLimit.Enabled {
		limiter := ratelimit.NewRateLimiter(deps.DB.GetRedis(), &ratelimit.Config{
			Enabled:           cfg.RateLimit.Enabled,
			WindowDuration:    cfg.RateLimit.WindowDuration,
			DefaultRequests:   cfg.RateLimit.DefaultRequests,
			PublicRequests:    cfg.RateLimit.PublicRequests,
			AuthRequests:      cfg.RateLimit.AuthRequests,
			ReserveRequests:   cfg.RateLimit.ReserveRequests,
			AdminRequests:     cfg.RateLimit.AdminRequests,
			AnalyticsRequests: cfg.RateLimit.AnalyticsRequests,
			WhitelistedIPs:    cfg.RateLimit.WhitelistedIPs,
		})
		engine.Use(ratelimit.Middleware(limiter))
	}

	cacheService := cache.NewService(deps.DB.GetRedis())
	postgres := deps.DB.GetPostgreSQL()

	// Auth
	authRepo := auth.NewRepository(postgres)
	authService := auth.NewService(authRepo, cfg)
	authController := auth.NewController(authService)

	// Events
	eventsRepo := events.NewRepository(postgres)
	eventsService := events.NewService(eventsRepo)
	eventsController := events.NewController(eventsService)

	// Seats and holds
	holdStore := seats.NewHoldStore(deps.DB.GetRedis())
	seatsRepo := seats.NewRepository(postgres)
	seatsService := seats.NewService(seatsRepo, holdStore, cfg)
	seatsService.SetCacheService(cacheService)
	seatsService.SetEventInfoProvider(events.NewSeatingModeAdapter(eventsService))
	if deps.Producer != nil {
		seatsService.SetProducer(deps.Producer)
	}
	seatsController := seats.NewController(seatsService)

	// Venues
	venuesRepo := venues.NewRepository(postgres)
	venuesService := venues.NewService(venuesRepo, seatsRepo, seatsService, eventsService)
	seatsService.SetSectionProvider(venuesService)
	venuesController := venues.NewController(venuesService)

	// Ticket types
	ticketTypesRepo := tickettypes.NewRepository(postgres)
	ticketTypesService := tickettypes.NewService(ticketTypesRepo)
	ticketTypesService.SetCacheService(cacheService)
	ticketTypesController := tickettypes.NewController(ticketTypesService)

	// Bookings
	bookingsRepo := bookings.NewRepository(postgres)
	bookingsService := bookings.NewService(bookingsRepo)
	bookingsController := bookings.NewController(bookingsService)

	// Selection
	selectionStore := selection.NewStore(cacheService, cfg.Redis.SessionTTL)
	selectionService := selection.NewService(
		selectionStore,
		seatsService,
		holdStore,
		eventsService,
		ticketTypesService,
		bookingsService,
		deps.Monitor,
		cfg,
	)
	if deps.Producer != nil {
		selectionService.SetProducer(deps.Producer)
	}
	selectionController := selection.NewController(selectionService)

	// Analytics
	analyticsRepo := analytics.NewRepository(postgres)
	analyticsService := analytics.NewService(analyticsRepo, eventsService)
	analyticsService.SetCacheService(cacheService)
	analyticsController := analytics.NewController(analyticsService)

	engine.GET("/health", func(c *gin.Context) {
		if err := deps.DB.HealthCheck(c.Request.Context()); err != nil {
			response.RespondJSON(c, "error", http.StatusServiceUnavailable, "Service unhealthy", nil, err.Error())
			return
		}
		response.RespondJSON(c, "success", http.StatusOK, "Service healthy",
			map[string]string{"status": "ok"}, nil)
	})

	api := engine.Group(cfg.GetAPIBasePath())
	{
		auth.SetupRoutes(api, authController)
		events.SetupRoutes(api, eventsController, cfg)
		seats.SetupRoutes(api, seatsController, cfg)
		venues.SetupRoutes(api, venuesController, cfg)
		tickettypes.SetupRoutes(api, ticketTypesController, cfg)
		selection.SetupRoutes(api, selectionController)
		bookings.SetupRoutes(api, bookingsController)
		analytics.SetupRoutes(api, analyticsController, cfg)
	}

	return engine, selectionService
}

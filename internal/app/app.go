package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/agrimart/server/internal/module/ai"
	"github.com/agrimart/server/internal/module/auction"
	"github.com/agrimart/server/internal/module/auth"
	"github.com/agrimart/server/internal/module/listing"
	"github.com/agrimart/server/internal/module/notification"
	"github.com/agrimart/server/internal/module/order"
	"github.com/agrimart/server/internal/module/user"
	"github.com/agrimart/server/internal/shared/cache"
	"github.com/agrimart/server/internal/shared/config"
	"github.com/agrimart/server/internal/shared/database"
	"github.com/agrimart/server/internal/shared/events"
	"github.com/agrimart/server/internal/shared/httpclient"
	"github.com/agrimart/server/internal/shared/logger"
	"github.com/agrimart/server/internal/shared/metrics"
	"github.com/agrimart/server/internal/shared/middleware"
	"github.com/agrimart/server/internal/shared/storage"
)

// auctionCloseInterval is how often ended auctions are swept closed.
const auctionCloseInterval = time.Minute

// App wires the application's modules together.
type App struct {
	config    *config.Config
	db        *gorm.DB
	redis     redis.UniversalClient
	router    *gin.Engine
	logger    *logger.Logger
	zapLogger *zap.Logger
	metrics   *metrics.Metrics
	eventBus  *events.Bus
	storage   *storage.Client

	jwtManager *auth.JWTManager

	authHandler         *auth.Handler
	userHandler         *user.Handler
	listingHandler      *listing.Handler
	orderHandler        *order.Handler
	notificationHandler *notification.Handler
	auctionHandler      *auction.Handler
	aiHandler           *ai.Handler

	userRepo            user.Repository
	listingRepo         listing.Repository
	notificationService *notification.Service
	auctionService      *auction.Service

	cancelBackground context.CancelFunc
}

// New creates a new application instance.
func New(cfg *config.Config) (*App, error) {
	log := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})

	zapLog, err := logger.NewZapLogger(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return nil, fmt.Errorf("init zap logger: %w", err)
	}

	app := &App{
		config:    cfg,
		logger:    log,
		zapLogger: zapLog,
		metrics:   metrics.New("agrimart", nil),
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	app.db = db

	if err := app.migrate(); err != nil {
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	// Redis is optional: without it the login rate limiter and the
	// highest-bid cache are skipped.
	if cfg.Redis.Address != "" {
		redisClient, err := cache.NewRedisClient(&cfg.Redis)
		if err != nil {
			zapLog.Warn("redis connection failed, continuing without cache", zap.Error(err))
		} else {
			app.redis = redisClient
		}
	}

	if cfg.Storage.Bucket != "" {
		storageClient, err := storage.NewClient(&cfg.Storage)
		if err != nil {
			return nil, fmt.Errorf("init object storage: %w", err)
		}
		app.storage = storageClient
	}

	if err := app.initModules(); err != nil {
		return nil, fmt.Errorf("init modules: %w", err)
	}

	app.router = app.setupRouter()
	app.registerRoutes()
	app.startBackground()

	return app, nil
}

func (a *App) migrate() error {
	return a.db.AutoMigrate(
		&user.User{},
		&auth.RefreshToken{},
		&listing.Listing{},
		&listing.Attachment{},
		&order.Order{},
		&notification.Notification{},
		&auction.Auction{},
		&auction.Attachment{},
		&auction.Bid{},
	)
}

// initModules initializes all application modules in dependency order.
func (a *App) initModules() error {
	a.eventBus = events.NewBus(a.zapLogger)

	a.initUserModule()
	if err := a.initAuthModule(); err != nil {
		return err
	}
	a.initListingModule()
	a.initOrderModule()
	a.initNotificationModule()
	a.initAuctionModule()
	a.initAIModule()

	return nil
}

func (a *App) initUserModule() {
	a.userRepo = user.NewRepository(a.db)
	userService := user.NewService(a.userRepo, a.zapLogger)
	a.userHandler = user.NewHandler(userService)
}

func (a *App) initAuthModule() error {
	if a.config.Auth.JWTSecret == "" {
		return fmt.Errorf("auth.jwt_secret is required")
	}

	a.jwtManager = auth.NewJWTManager(&auth.JWTConfig{
		Secret:             a.config.Auth.JWTSecret,
		AccessTokenExpiry:  a.config.Auth.AccessTokenExpiry,
		RefreshTokenExpiry: a.config.Auth.RefreshTokenExpiry,
		Issuer:             "agrimart",
	})

	var limiter *auth.LoginLimiter
	if a.redis != nil {
		limiter = auth.NewLoginLimiter(a.redis, a.config.Auth.LoginRateLimit, a.config.Auth.LoginRateWindow)
	}

	authRepo := auth.NewRepository(a.db)
	authService := auth.NewService(authRepo, a.userRepo, a.jwtManager, limiter, a.zapLogger)
	a.authHandler = auth.NewHandler(authService)
	return nil
}

func (a *App) initListingModule() {
	a.listingRepo = listing.NewRepository(a.db)
	listingService := listing.NewService(a.listingRepo, a.userRepo, a.storage, a.zapLogger)
	a.listingHandler = listing.NewHandler(listingService)
}

func (a *App) initOrderModule() {
	orderRepo := order.NewRepository(a.db)
	orderService := order.NewService(orderRepo, a.listingRepo, a.eventBus, a.metrics, a.db, a.zapLogger)
	a.orderHandler = order.NewHandler(orderService)
}

func (a *App) initNotificationModule() {
	notificationRepo := notification.NewRepository(a.db)
	a.notificationService = notification.NewService(notificationRepo, a.metrics, a.zapLogger)
	a.notificationHandler = notification.NewHandler(a.notificationService)

	a.eventBus.Subscribe(notification.NewEventHandler(a.notificationService, a.zapLogger))
}

func (a *App) initAuctionModule() {
	auctionRepo := auction.NewRepository(a.db)
	a.auctionService = auction.NewService(auctionRepo, a.userRepo, a.storage, a.redis, a.eventBus, a.zapLogger)
	a.auctionHandler = auction.NewHandler(a.auctionService)
}

func (a *App) initAIModule() {
	httpCfg := httpclient.DefaultConfig()
	if a.config.AI.RequestTimeout > 0 {
		httpCfg.ResponseTimeout = a.config.AI.RequestTimeout
	}

	client := ai.NewClient(&a.config.AI, httpclient.New(httpCfg), a.metrics, a.zapLogger)
	a.aiHandler = ai.NewHandler(client)
}

// setupRouter creates and configures the Gin router.
func (a *App) setupRouter() *gin.Engine {
	if a.config.Log.Level == "debug" {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	r.Use(middleware.Recovery(a.logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(a.logger))
	r.Use(middleware.Metrics(a.metrics))
	r.Use(middleware.CORS(middleware.DefaultCORSConfig()))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

// registerRoutes registers routes for all modules.
func (a *App) registerRoutes() {
	public := a.router.Group("/api/v1")
	protected := a.router.Group("/api/v1")
	protected.Use(middleware.RequireAuth(a.jwtManager))

	a.authHandler.RegisterRoutes(public)
	a.authHandler.RegisterProtectedRoutes(protected)

	a.listingHandler.RegisterRoutes(public)
	a.listingHandler.RegisterProtectedRoutes(protected)

	a.auctionHandler.RegisterRoutes(public)
	a.auctionHandler.RegisterProtectedRoutes(protected)

	a.userHandler.RegisterProtectedRoutes(protected)
	a.orderHandler.RegisterProtectedRoutes(protected)
	a.notificationHandler.RegisterProtectedRoutes(protected)
	a.aiHandler.RegisterProtectedRoutes(protected)
}

// startBackground launches the periodic auction close sweep.
func (a *App) startBackground() {
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelBackground = cancel
	go a.auctionService.RunCloser(ctx, auctionCloseInterval)
}

// Router returns the HTTP router.
func (a *App) Router() *gin.Engine {
	return a.router
}

// Stop releases application resources.
func (a *App) Stop() {
	if a.cancelBackground != nil {
		a.cancelBackground()
	}
	if a.redis != nil {
		if err := cache.Close(a.redis); err != nil {
			a.zapLogger.Warn("close redis", zap.Error(err))
		}
	}
	if err := database.Close(a.db); err != nil {
		a.zapLogger.Warn("close database", zap.Error(err))
	}
	_ = a.zapLogger.Sync()
}

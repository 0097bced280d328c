package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	appbilling "github.com/smmpanel/backend/internal/application/billing"
	appcatalog "github.com/smmpanel/backend/internal/application/catalog"
	"github.com/smmpanel/backend/internal/application/identity"
	appordering "github.com/smmpanel/backend/internal/application/ordering"
	"github.com/smmpanel/backend/internal/infrastructure/auth"
	"github.com/smmpanel/backend/internal/infrastructure/cache"
	"github.com/smmpanel/backend/internal/infrastructure/config"
	"github.com/smmpanel/backend/internal/infrastructure/logger"
	"github.com/smmpanel/backend/internal/infrastructure/payment"
	"github.com/smmpanel/backend/internal/infrastructure/persistence"
	"github.com/smmpanel/backend/internal/infrastructure/scheduler"
	"github.com/smmpanel/backend/internal/infrastructure/smm"
	"github.com/smmpanel/backend/internal/interfaces/http/handler"
	"github.com/smmpanel/backend/internal/interfaces/http/middleware"
	"github.com/smmpanel/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

//	@title			SMM Panel API
//	@version		1.0
//	@description	SMM reseller storefront backend: deposits, orders, referrals and withdrawals

//	@host		localhost:8080
//	@BasePath	/api/v1

//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
//	@description				Bearer token authentication. Format: "Bearer {token}"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting SMM Panel Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	transactionRepo := persistence.NewGormTransactionRepository(db.DB)
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	serviceRepo := persistence.NewGormServiceRepository(db.DB)
	withdrawalRepo := persistence.NewGormWithdrawalRepository(db.DB)

	// Token issuing and revocation. The Redis blacklist survives restarts;
	// fall back to the in-memory one when Redis is unreachable so logout
	// still works in development.
	jwtService := auth.NewJWTService(cfg.JWT)
	var tokenBlacklist auth.TokenBlacklist
	redisBlacklist, err := auth.NewRedisTokenBlacklist(cfg.Redis)
	if err != nil {
		log.Warn("Redis token blacklist unavailable, using in-memory blacklist", zap.Error(err))
		tokenBlacklist = auth.NewInMemoryTokenBlacklist()
	} else {
		tokenBlacklist = redisBlacklist
		defer func() {
			if err := redisBlacklist.Close(); err != nil {
				log.Error("Error closing token blacklist", zap.Error(err))
			}
		}()
	}

	// Mobile money gateway adapter
	gateway, err := payment.NewFastLipaAdapter(&payment.FastLipaConfig{
		BaseURL: cfg.Gateway.BaseURL,
		APIKey:  cfg.Gateway.APIKey,
		Timeout: cfg.Gateway.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize payment gateway", zap.Error(err))
	}

	// Upstream SMM panel client
	provider, err := smm.NewClient(&smm.Config{
		BaseURL: cfg.Provider.BaseURL,
		APIKey:  cfg.Provider.APIKey,
		Timeout: cfg.Provider.Timeout,
	})
	if err != nil {
		log.Fatal("Failed to initialize provider client", zap.Error(err))
	}

	// Webhook idempotency store (Redis-backed, in-memory fallback)
	idempotencyStore, err := cache.NewIdempotencyStoreFactory(cfg.Redis, cache.WithLogger(log)).CreateStore()
	if err != nil {
		log.Fatal("Failed to initialize idempotency store", zap.Error(err))
	}
	defer func() {
		if err := idempotencyStore.Close(); err != nil {
			log.Error("Error closing idempotency store", zap.Error(err))
		}
	}()

	// Initialize application services
	ledgerService := appbilling.NewLedgerService(userRepo)
	depositService := appbilling.NewDepositService(userRepo, transactionRepo, gateway, ledgerService, cfg.Scheduler.ConfirmDeadline)
	webhookService := appbilling.NewWebhookService(transactionRepo, ledgerService, idempotencyStore, log)
	withdrawalService := appbilling.NewWithdrawalService(userRepo, withdrawalRepo, ledgerService)
	catalogService := appcatalog.NewCatalogService(serviceRepo, provider, log)
	orderService := appordering.NewOrderService(userRepo, orderRepo, serviceRepo, provider, ledgerService, cfg.Referral.CommissionPercent, log)

	authService := identity.NewAuthService(userRepo, jwtService, log)
	authService.SetTokenBlacklist(tokenBlacklist)
	userService := identity.NewUserService(userRepo, ledgerService, log)
	userService.SetTokenBlacklist(tokenBlacklist, cfg.JWT.RefreshTokenExpiration)

	// Deposit confirmation scheduler: polls the gateway for pending deposits
	// and recovers transactions left pending across restarts.
	if cfg.Scheduler.Enabled {
		depositScheduler, err := scheduler.NewDepositConfirmScheduler(scheduler.DepositConfirmSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			PollInterval:      cfg.Scheduler.PollInterval,
			ConfirmDeadline:   cfg.Scheduler.ConfirmDeadline,
		}, depositService, log)
		if err != nil {
			log.Fatal("Failed to initialize deposit scheduler", zap.Error(err))
		}
		if err := depositScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start deposit scheduler", zap.Error(err))
		}
		defer func() {
			if err := depositScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping deposit scheduler", zap.Error(err))
			}
		}()
		depositService.SetConfirmQueue(depositScheduler)
		log.Info("Deposit confirmation scheduler started",
			zap.Int("max_concurrent_jobs", cfg.Scheduler.MaxConcurrentJobs),
			zap.Duration("poll_interval", cfg.Scheduler.PollInterval),
			zap.Duration("confirm_deadline", cfg.Scheduler.ConfirmDeadline),
		)

		orderSyncScheduler, err := scheduler.NewOrderSyncScheduler(scheduler.OrderSyncSchedulerConfig{
			Enabled:      cfg.Scheduler.Enabled,
			SyncInterval: cfg.Scheduler.SyncInterval,
			SweepTimeout: cfg.Scheduler.SweepTimeout,
		}, orderService, log)
		if err != nil {
			log.Fatal("Failed to initialize order sync scheduler", zap.Error(err))
		}
		if err := orderSyncScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start order sync scheduler", zap.Error(err))
		}
		defer func() {
			if err := orderSyncScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping order sync scheduler", zap.Error(err))
			}
		}()
		log.Info("Order sync scheduler started",
			zap.Duration("sync_interval", cfg.Scheduler.SyncInterval),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	depositHandler := handler.NewDepositHandler(depositService)
	withdrawalHandler := handler.NewWithdrawalHandler(withdrawalService)
	orderHandler := handler.NewOrderHandler(orderService)
	serviceHandler := handler.NewServiceHandler(catalogService)
	userHandler := handler.NewUserHandler(userService)
	webhookHandler := handler.NewWebhookHandler(webhookService)
	systemHandler := handler.NewSystemHandler()

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Security - Add security headers
	// 5. CORS - Handle cross-origin requests
	// 6. BodyLimit - Limit request body size
	// 7. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Payment gateway webhook endpoint (no authentication required).
	// Called directly by the gateway with its own notification format.
	webhookGroup := engine.Group("/api/v1/webhooks")
	webhookGroup.POST("/fastlipa", webhookHandler.FastLipa)

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.TokenBlacklist = tokenBlacklist
	jwtConfig.Logger = log
	jwtConfig.SkipPaths = append(jwtConfig.SkipPaths,
		"/api/v1/ping",
		"/api/v1/system/ping",
		"/api/v1/system/info",
	)
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth (register/login/refresh are public via JWT skip paths)
	authRoutes := router.NewDomainGroup("auth", "/auth")
	authRoutes.POST("/register", authHandler.Register)
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.Refresh)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.Me)

	// Deposits (mobile money top-ups)
	depositRoutes := router.NewDomainGroup("deposits", "/deposits")
	depositRoutes.POST("", depositHandler.Initiate)
	depositRoutes.GET("", depositHandler.List)
	depositRoutes.GET("/:id", depositHandler.Get)

	// Orders
	orderRoutes := router.NewDomainGroup("orders", "/orders")
	orderRoutes.POST("", orderHandler.Place)
	orderRoutes.GET("", orderHandler.List)
	orderRoutes.GET("/:id", orderHandler.Get)
	orderRoutes.POST("/:id/refresh", orderHandler.Refresh)
	orderRoutes.POST("/:id/cancel", orderHandler.Cancel)
	orderRoutes.POST("/:id/refill", orderHandler.Refill)
	orderRoutes.GET("/refills/:refill_id", orderHandler.RefillStatus)

	// Service catalog (customer-facing, enabled services only)
	serviceRoutes := router.NewDomainGroup("services", "/services")
	serviceRoutes.GET("", serviceHandler.List)
	serviceRoutes.GET("/:id", serviceHandler.Get)

	// Referral dashboard
	referralRoutes := router.NewDomainGroup("referrals", "/referrals")
	referralRoutes.GET("", userHandler.Referrals)

	// Withdrawals of referral earnings
	withdrawalRoutes := router.NewDomainGroup("withdrawals", "/withdrawals")
	withdrawalRoutes.POST("", withdrawalHandler.Request)
	withdrawalRoutes.GET("", withdrawalHandler.List)

	// Admin routes
	adminRoutes := router.NewDomainGroup("admin", "/admin")
	adminRoutes.Use(middleware.RequireAdmin())
	adminRoutes.GET("/users", userHandler.List)
	adminRoutes.GET("/users/:id", userHandler.Get)
	adminRoutes.POST("/users/:id/suspend", userHandler.Suspend)
	adminRoutes.POST("/users/:id/unsuspend", userHandler.Unsuspend)
	adminRoutes.PUT("/users/:id/role", userHandler.SetRole)
	adminRoutes.PUT("/users/:id/balance", userHandler.AdjustBalance)
	adminRoutes.GET("/withdrawals", withdrawalHandler.ListPending)
	adminRoutes.POST("/withdrawals/:id/pay", withdrawalHandler.MarkPaid)
	adminRoutes.POST("/withdrawals/:id/cancel", withdrawalHandler.Cancel)
	adminRoutes.GET("/services", serviceHandler.ListAll)
	adminRoutes.POST("/services", serviceHandler.Create)
	adminRoutes.PUT("/services/:id", serviceHandler.Update)
	adminRoutes.PUT("/services/:id/enabled", serviceHandler.SetEnabled)
	adminRoutes.DELETE("/services/:id", serviceHandler.Delete)
	adminRoutes.POST("/services/import", serviceHandler.Import)
	adminRoutes.GET("/gateway/balance", depositHandler.GatewayBalance)
	adminRoutes.GET("/provider/balance", serviceHandler.ProviderBalance)

	// System routes (public)
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(depositRoutes).
		Register(orderRoutes).
		Register(serviceRoutes).
		Register(referralRoutes).
		Register(withdrawalRoutes).
		Register(adminRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}

package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bridgeit/bridgeit-api/config"
	"github.com/bridgeit/bridgeit-api/internal/handlers"
	"github.com/bridgeit/bridgeit-api/internal/middleware"
	"github.com/bridgeit/bridgeit-api/internal/models"
	"github.com/bridgeit/bridgeit-api/internal/repository"
	"github.com/bridgeit/bridgeit-api/internal/services"
	"github.com/bridgeit/bridgeit-api/internal/staging"
	"github.com/bridgeit/bridgeit-api/pkg/db"
	"github.com/bridgeit/bridgeit-api/pkg/httpclient"
	"github.com/bridgeit/bridgeit-api/pkg/logger"
	"github.com/bridgeit/bridgeit-api/pkg/metrics"
	"github.com/bridgeit/bridgeit-api/pkg/objectstorage"
	"github.com/bridgeit/bridgeit-api/pkg/profiling"
	"github.com/bridgeit/bridgeit-api/pkg/tracing"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

const apiBasePath = "/api/v1"

// registerAuthRoutes registers the public credential and OTP flow endpoints
func registerAuthRoutes(
	v1 *gin.RouterGroup,
	authRateLimiter, otpRateLimiter, registrationRateLimiter *middleware.RateLimiter,
	authHandler *handlers.AuthHandler,
	otpHandler *handlers.OtpHandler,
	registrationHandler *handlers.RegistrationHandler,
) {
	auth := v1.Group("/auth")
	auth.POST("/login", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), authHandler.Login)
	auth.POST("/logout", authHandler.Logout)
	auth.POST("/password/reset", authRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), authHandler.ResetPassword)

	// OTP challenge lifecycle
	auth.POST("/otp", otpRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), otpHandler.Generate)
	auth.POST("/otp/verify", otpRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), otpHandler.Verify)
	auth.PATCH("/otp", otpRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), otpHandler.Resend)

	// Role-specific registration: stage, then OTP-confirmed finalize.
	// Registration bodies can carry a base64 profile picture.
	auth.POST("/register/:role", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024*1024), registrationHandler.Register)
	auth.POST("/register/:role/complete", registrationRateLimiter.Middleware(), middleware.BodySizeLimitMiddleware(10*1024), registrationHandler.Complete)
}

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	err = logger.Initialize(logger.Config{
		Level:       cfg.Logging.Level,
		LogDir:      cfg.Logging.Dir,
		Environment: cfg.Server.AppEnv,
		ServiceName: cfg.Observability.ServiceName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("Starting BridgeIT API",
		zap.String("version", cfg.Observability.ServiceVersion),
		zap.String("environment", cfg.Server.AppEnv),
	)

	// Initialize distributed tracing
	tracerShutdown, err := tracing.InitTracer(
		cfg.Observability.ServiceName,
		cfg.Observability.ServiceNamespace,
		cfg.Observability.ServiceVersion,
		cfg.Observability.ServiceInstanceID,
		cfg.Server.AppEnv,
		cfg.Observability.ExporterEndpoint,
	)
	if err != nil {
		logger.Fatal("Failed to initialize tracer", zap.Error(err))
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if shutdownErr := tracerShutdown(ctx); shutdownErr != nil {
			logger.Error("Failed to shutdown tracer", zap.Error(shutdownErr))
		}
	}()

	// Initialize metrics registry
	metrics.Init()

	// Start continuous profiling when configured
	stopProfiler, err := profiling.InitProfiler(profiling.Config{
		Enabled:               cfg.Profiling.Enabled,
		Endpoint:              cfg.Profiling.Endpoint,
		AppName:               cfg.Profiling.AppName,
		SampleTypes:           cfg.Profiling.SampleTypes,
		UploadIntervalSeconds: cfg.Profiling.UploadIntervalSeconds,
	}, cfg.Observability.ServiceName, cfg.Server.AppEnv)
	if err != nil {
		logger.Fatal("Failed to initialize profiler", zap.Error(err))
	}
	defer stopProfiler()

	// Initialize PostgreSQL connection pool
	pool, err := db.NewPool(context.Background(), db.PoolConfig{
		URL:      cfg.Database.URL,
		MaxConns: cfg.Database.MaxConns,
		MinConns: cfg.Database.MinConns,
	})
	if err != nil {
		logger.Fatal("Failed to initialize database connection pool", zap.Error(err))
	}
	defer pool.Close()

	// NOTE: Database migrations are run separately via the migrate command

	// Initialize object storage client for profile pictures
	var storageClient objectstorage.StorageClientInterface
	if cfg.ObjectStorage.AccessKeyID != "" && cfg.ObjectStorage.SecretAccessKey != "" {
		client, err := objectstorage.NewStorageClient(
			cfg.ObjectStorage.AccessKeyID,
			cfg.ObjectStorage.SecretAccessKey,
			cfg.ObjectStorage.BucketName,
			cfg.ObjectStorage.Endpoint,
			cfg.ObjectStorage.Region,
		)
		if err != nil {
			logger.Fatal("Failed to initialize object storage client", zap.Error(err))
		}
		storageClient = client
	} else {
		logger.Warn("Object storage not configured, profile picture uploads disabled")
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(pool)
	otpRepo := repository.NewOtpRepository(pool)

	// Staging store for pending registrations
	pendingStore := staging.NewPendingStore(cfg.Staging.PendingTTLMinutes)

	// Initialize HTTP client for event trigger calls
	httpClient := httpclient.NewStandardClient()

	// Initialize services
	otpService := services.NewOtpService(otpRepo, cfg, httpClient)
	authService := services.NewAuthService(userRepo, otpService, cfg)
	registrationService := services.NewRegistrationService(userRepo, otpService, pendingStore, storageClient, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	otpHandler := handlers.NewOtpHandler(otpService)
	registrationHandler := handlers.NewRegistrationHandler(registrationService)
	homeHandler := handlers.NewHomeHandler()
	healthHandler := handlers.NewHealthHandler(pool)

	// Set up Gin router
	gin.SetMode(cfg.Server.GinMode)
	router := gin.New()

	// Global middleware
	router.Use(gin.Recovery())
	router.Use(otelgin.Middleware(cfg.Observability.ServiceName))
	router.Use(middleware.ObservabilityMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// CORS: only the portal origins may call the API
	allowedOrigins := cfg.Server.AllowedOrigins
	if cfg.IsDevelopment() {
		allowedOrigins = append(allowedOrigins, "http://localhost:3000", "http://127.0.0.1:3000")
	}

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "traceparent", "tracestate"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	// Rate limiters: credential endpoints get tight limits, guarded traffic
	// a general one
	generalRateLimiter := middleware.NewRateLimiter(100, 200)      // 100 req/sec, burst of 200
	authRateLimiter := middleware.NewRateLimiter(1, 5)             // login and password reset
	otpRateLimiter := middleware.NewRateLimiter(0.2, 3)            // 1 req/5sec against code guessing
	registrationRateLimiter := middleware.NewRateLimiter(0.033, 3) // 2 req/min, burst of 3

	// Utility endpoints (not versioned - operational endpoints)
	api := router.Group("/api")
	api.GET("/healthcheck", generalRateLimiter.Middleware(), healthHandler.Healthcheck)
	api.GET("/metrics", generalRateLimiter.Middleware(), gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Public credential and OTP flow
	v1 := router.Group(apiBasePath)
	registerAuthRoutes(v1, authRateLimiter, otpRateLimiter, registrationRateLimiter,
		authHandler, otpHandler, registrationHandler)

	// Guarded routes need a token manager; without a JWT secret there are no
	// sessions to validate, so the whole guarded surface is disabled.
	if tm := authService.GetTokenManager(); tm != nil {
		guard := middleware.RouteGuard(tm, userRepo, apiBasePath)
		guarded := router.Group(apiBasePath)
		guarded.Use(generalRateLimiter.Middleware(), guard)
		guarded.GET("/auth/profile", authHandler.Profile)
		for _, binding := range models.RouteBindings {
			guarded.GET(binding.Prefix+"/home", homeHandler.Home)
		}
	} else {
		logger.Warn("Guarded routes disabled: JWT_SECRET not configured")
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in a goroutine
	go func() {
		logger.Info("Server started", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

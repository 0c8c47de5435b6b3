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
	"github.com/parkeasy/parkeasy-backend/internal/catalog"
	"github.com/parkeasy/parkeasy-backend/internal/config"
	"github.com/parkeasy/parkeasy-backend/internal/database"
	"github.com/parkeasy/parkeasy-backend/internal/handlers"
	"github.com/parkeasy/parkeasy-backend/internal/middleware"
	"github.com/parkeasy/parkeasy-backend/internal/notify"
	"github.com/parkeasy/parkeasy-backend/internal/services"
	"github.com/parkeasy/parkeasy-backend/internal/utils"
	"github.com/parkeasy/parkeasy-backend/pkg/jwt"
	"github.com/parkeasy/parkeasy-backend/pkg/parkapi"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

var (
	version   = "1.0.0"
	buildTime = "unknown"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logger.SetOutput(os.Stdout)

	logger.Info("Starting ParkEasy backend")
	logger.Infof("Version: %s, Build Time: %s", version, buildTime)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}

	// Set log level
	logLevel, err := logrus.ParseLevel(cfg.Server.LogLevel)
	if err != nil {
		logger.Warn("Invalid log level, using INFO")
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Set Gin mode
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	// Initialize database connection
	logger.Info("Connecting to database...")
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()
	logger.Info("Database connection established")

	// Repositories
	accountRepository := database.NewAccountRepository(db)
	refreshTokenRepository := database.NewRefreshTokenRepository(db)
	documentRepository := database.NewUserDocumentRepository(db)
	submissionRepository := database.NewSubmissionRepository(db)
	reviewRepository := database.NewReviewRepository(db)

	// Catalog: bundled Belfast data plus ParkAPI, cached in Redis when configured
	var catalogCache catalog.Cache
	var redisClient *redis.Client
	if cfg.Redis.Addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := redisClient.Ping(pingCtx).Err(); err != nil {
			logger.WithField("error", err.Error()).Warn("Redis unavailable, catalog cache disabled")
			redisClient.Close()
			redisClient = nil
		} else {
			catalogCache = catalog.NewRedisCache(redisClient, cfg.Redis.CacheTTL)
			logger.Info("✓ Catalog cache enabled")
		}
		cancel()
	}
	parkAPIClient := parkapi.NewClient(parkapi.Config{
		BaseURL: cfg.ParkAPI.BaseURL,
		Timeout: cfg.ParkAPI.Timeout,
	})
	catalogLoader := catalog.NewLoader(parkAPIClient, catalogCache, logger)

	// Notifications: WebSocket hub plus the broker when configured
	hub := notify.NewHub(logger)
	var publisher *notify.Publisher
	var brokerNotifier notify.Notifier = notify.NewLogNotifier(logger)
	if cfg.AMQP.URL != "" {
		publisher, err = notify.NewPublisher(cfg.AMQP.URL, cfg.AMQP.Exchange)
		if err != nil {
			logger.WithField("error", err.Error()).Warn("Message broker unavailable, logging notifications instead")
		} else {
			brokerNotifier = publisher
			logger.WithField("exchange", cfg.AMQP.Exchange).Info("✓ Notification broker connected")
		}
	}
	notifier := notify.NewFanout(logger, hub, brokerNotifier)

	// Initialize services
	logger.Info("Initializing services...")
	jwtService := jwt.NewService(
		cfg.JWT.Secret,
		cfg.JWT.RefreshSecret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	rateLimitService := services.NewRateLimitService(db, services.RateLimitConfig{
		MaxEmailAttempts: cfg.RateLimit.MaxEmailAttempts,
		EmailWindow:      cfg.RateLimit.EmailWindow,
		MaxIPAttempts:    cfg.RateLimit.MaxIPAttempts,
		IPWindow:         cfg.RateLimit.IPWindow,
	})

	bridge := services.NewPersistenceBridge(documentRepository, logger)
	sessionService := services.NewSessionService(bridge, catalogLoader, logger)
	timerService := services.NewTimerService(notifier, logger)
	bookingService := services.NewBookingService(sessionService, logger)
	communityService := services.NewCommunityService(submissionRepository, reviewRepository, sessionService, notifier, logger)
	checkoutService := services.NewCheckoutService(cfg.Checkout, bridge, sessionService, notifier, logger)
	authService := services.NewAuthService(
		accountRepository,
		refreshTokenRepository,
		rateLimitService,
		jwtService,
		bridge,
		sessionService,
		cfg.Security.BcryptCost,
		logger,
	)

	// Initialize and start cron service
	cronService := services.NewCronService(bridge, sessionService, refreshTokenRepository, rateLimitService, cfg.Server.SessionIdle, logger)
	if err := cronService.Start(); err != nil {
		logger.Fatalf("Failed to start cron service: %v", err)
	}
	logger.Info("✓ Cron service started - monthly search reset enabled")

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, timerService, logger)
	catalogHandler := handlers.NewCatalogHandler(sessionService, logger)
	searchHandler := handlers.NewSearchHandler(sessionService, logger)
	spotHandler := handlers.NewSpotHandler(sessionService, logger)
	accountHandler := handlers.NewAccountHandler(sessionService, logger)
	bookingHandler := handlers.NewBookingHandler(sessionService, bookingService, timerService, hub, logger)
	communityHandler := handlers.NewCommunityHandler(communityService, logger)
	checkoutHandler := handlers.NewCheckoutHandler(checkoutService, sessionService, logger)

	// Setup router
	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Security.EnableRequestLog {
		router.Use(requestLogger(logger))
	}

	// CORS configuration
	corsConfig := cors.Config{
		AllowOrigins:     cfg.CORS.AllowedOrigins,
		AllowMethods:     cfg.CORS.AllowedMethods,
		AllowHeaders:     cfg.CORS.AllowedHeaders,
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 1 && cfg.CORS.AllowedOrigins[0] == "*" {
		corsConfig.AllowOrigins = nil
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	}
	router.Use(cors.New(corsConfig))

	// Health check endpoint
	router.GET("/health", healthCheckHandler(db, redisClient, cronService))
	if cfg.Server.Environment != "production" {
		router.GET("/debug/headers", debugHeadersHandler())
	}

	authMiddleware := middleware.AuthMiddleware(jwtService, logger)

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/login", authHandler.Login)
			auth.POST("/guest", authHandler.Guest)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.POST("/logout", authMiddleware, authHandler.Logout)
		}

		// Public reference data
		v1.GET("/cities", catalogHandler.ListCities)
		v1.GET("/cities/nearest", catalogHandler.NearestCity)
		v1.GET("/cities/:id/destinations", catalogHandler.Destinations)
		v1.GET("/suggestions", catalogHandler.Suggestions)

		// Payment provider callback, authenticated by signature
		v1.POST("/webhooks/checkout", checkoutHandler.Webhook)

		protected := v1.Group("")
		protected.Use(authMiddleware)
		{
			protected.GET("/catalog", catalogHandler.GetCatalog)
			protected.PUT("/catalog/city", catalogHandler.SelectCity)
			protected.POST("/search", searchHandler.Search)

			spots := protected.Group("/spots/:id")
			{
				spots.GET("", spotHandler.GetSpot)
				spots.POST("/save", spotHandler.ToggleSave)
				spots.GET("/share", spotHandler.Share)
				spots.GET("/directions", spotHandler.Directions)
				spots.GET("/reviews", communityHandler.ListReviews)
				spots.POST("/reviews", middleware.RequireAccount(), communityHandler.AddReview)
			}

			account := protected.Group("/account")
			{
				account.GET("", accountHandler.GetAccount)
				account.GET("/referral", middleware.RequireAccount(), accountHandler.Referral)
			}

			premium := protected.Group("/premium")
			{
				premium.GET("/plans", checkoutHandler.ListPlans)
				premium.GET("/status", checkoutHandler.Status)
				premium.POST("/trial", accountHandler.StartTrial)
				premium.GET("/features/:name", accountHandler.CheckFeature)
			}

			protected.POST("/bookings", bookingHandler.CreateBooking)
			protected.GET("/bookings", bookingHandler.ListBookings)

			timer := protected.Group("/timer")
			{
				timer.POST("", bookingHandler.StartTimer)
				timer.GET("", bookingHandler.TimerStatus)
				timer.DELETE("", bookingHandler.StopTimer)
				timer.GET("/ws", bookingHandler.TimerEvents)
			}

			protected.POST("/submissions", communityHandler.SubmitSpot)
			protected.POST("/reports", communityHandler.ReportSpace)
		}
	}

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	logger.Info("Stopping cron service...")
	cronService.Stop()
	timerService.StopAll()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Errorf("Server forced to shutdown: %v", err)
	}

	hub.Close()
	if publisher != nil {
		if err := publisher.Close(); err != nil {
			logger.Warnf("Failed to close notification broker: %v", err)
		}
	}
	if redisClient != nil {
		redisClient.Close()
	}

	logger.Info("Server exited successfully")
}

// requestLogger middleware for logging HTTP requests
func requestLogger(logger *logrus.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		latency := time.Since(start)

		fields := logrus.Fields{
			"status":     c.Writer.Status(),
			"method":     c.Request.Method,
			"path":       path,
			"query":      query,
			"ip":         c.ClientIP(),
			"latency_ms": latency.Milliseconds(),
			"user_agent": c.Request.UserAgent(),
			"has_auth":   c.GetHeader("Authorization") != "",
		}

		if userCtx, ok := middleware.GetUserContext(c); ok {
			fields["user_id"] = userCtx.ID
			fields["guest"] = userCtx.IsGuest()
		}

		entry := logger.WithFields(fields)

		if len(c.Errors) > 0 {
			for i, err := range c.Errors {
				entry = entry.WithField(fmt.Sprintf("error_%d", i), err.Error())
			}
			entry.Error("Request failed with errors")
			return
		}

		status := c.Writer.Status()
		switch {
		case status >= 500:
			entry.Error("Request completed with server error")
		case status >= 400:
			entry.Warn("Request completed with client error")
		default:
			entry.Info("Request completed successfully")
		}
	}
}

// healthCheckHandler returns a health check endpoint
func healthCheckHandler(db database.DB, redisClient *redis.Client, cronService *services.CronService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"database": "unhealthy",
				"error":    err.Error(),
			})
			return
		}

		cacheStatus := "disabled"
		if redisClient != nil {
			cacheStatus = "healthy"
			if err := redisClient.Ping(c.Request.Context()).Err(); err != nil {
				// The loader falls back to ParkAPI, so a cache outage is not fatal
				cacheStatus = "unhealthy"
			}
		}

		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"database":  "healthy",
			"cache":     cacheStatus,
			"cron":      cronService.GetJobStatus(),
			"version":   version,
			"timestamp": time.Now().Unix(),
		})
	}
}

// debugHeadersHandler shows request headers and the detected client for debugging proxies
func debugHeadersHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		headers := make(map[string]string)
		for name, values := range c.Request.Header {
			if name == "Authorization" {
				continue
			}
			headers[name] = values[0]
		}

		c.JSON(http.StatusOK, gin.H{
			"headers": headers,
			"ip_detection": gin.H{
				"gin_clientip":    c.ClientIP(),
				"real_ip":         utils.GetRealIP(c),
				"remote_addr":     c.Request.RemoteAddr,
				"x_real_ip":       c.Request.Header.Get("X-Real-IP"),
				"x_forwarded_for": c.Request.Header.Get("X-Forwarded-For"),
			},
			"device":    utils.ParseUserAgent(utils.GetUserAgent(c)),
			"timestamp": time.Now().Unix(),
		})
	}
}

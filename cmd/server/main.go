package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"freightlink/internal/config"
	"freightlink/internal/handlers"
	"freightlink/internal/middleware"
	mongorepo "freightlink/internal/repositories/mongodb"
	"freightlink/internal/services"
	"freightlink/pkg/cache"
	"freightlink/pkg/database"
	"freightlink/pkg/logger"
	"freightlink/pkg/push"
	"freightlink/pkg/sms"
	"freightlink/routes"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.NewLogger(&logger.Config{
		Level:  logger.LogLevel(cfg.App.LogLevel),
		Format: cfg.App.LogFormat,
		Output: "stdout",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}

	log.WithFields(map[string]interface{}{
		"version":     cfg.App.Version,
		"environment": cfg.App.Environment,
	}).Info("starting freightlink server")

	// Database
	db, err := database.NewMongoDB(&database.DatabaseConfig{
		URI:            cfg.Database.URI,
		Database:       cfg.Database.Database,
		MaxPoolSize:    cfg.Database.MaxPoolSize,
		MinPoolSize:    cfg.Database.MinPoolSize,
		ConnectTimeout: cfg.Database.ConnectTimeout,
		SocketTimeout:  cfg.Database.SocketTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to MongoDB")
	}
	defer db.Close()

	if err := db.EnsureIndexes(); err != nil {
		log.WithError(err).Fatal("failed to ensure database indexes")
	}

	// Cache
	redisCache, err := cache.NewRedisCache(&cache.RedisConfig{
		Host:         cfg.Redis.Host,
		Port:         cfg.Redis.Port,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		DialTimeout:  cfg.Redis.DialTimeout,
		ReadTimeout:  cfg.Redis.ReadTimeout,
		WriteTimeout: cfg.Redis.WriteTimeout,
	})
	if err != nil {
		log.WithError(err).Fatal("failed to connect to Redis")
	}
	defer redisCache.Close()

	// Notification providers, both optional
	var pushProvider push.PushProvider
	if cfg.Push.Enabled() {
		provider, err := push.NewFCMProvider(cfg.Push.FCMCredentialsFile)
		if err != nil {
			log.WithError(err).Warn("push notifications disabled")
		} else {
			pushProvider = provider
		}
	}

	var smsProvider sms.SMSProvider
	if cfg.SMS.Enabled() {
		switch cfg.SMS.Provider {
		case "twilio":
			smsProvider = sms.NewTwilioProvider(cfg.SMS.Twilio.AccountSID, cfg.SMS.Twilio.AuthToken, cfg.SMS.Twilio.FromNumber)
		case "sns":
			provider, err := sms.NewAWSSNSProvider(cfg.SMS.SNS.Region)
			if err != nil {
				log.WithError(err).Warn("sms notifications disabled")
			} else {
				smsProvider = provider
			}
		default:
			log.Warnf("unknown sms provider %q, sms notifications disabled", cfg.SMS.Provider)
		}
	}

	// Repositories
	bookingRepo := mongorepo.NewBookingRepository(db.Database, redisCache)
	transporterRepo := mongorepo.NewTransporterRepository(db.Database, redisCache)

	// Services
	notificationService := services.NewNotificationService(pushProvider, smsProvider, log)
	recurrenceService := services.NewRecurrenceService(bookingRepo, log)
	matchingService := services.NewMatchingService(bookingRepo, transporterRepo, notificationService, log)
	routeScannerService := services.NewRouteScannerService(bookingRepo, transporterRepo, log)
	fleetStatusService := services.NewFleetStatusService(bookingRepo, transporterRepo, log)
	transporterService := services.NewTransporterService(transporterRepo, log)
	bookingService := services.NewBookingService(bookingRepo, transporterRepo, matchingService, recurrenceService, notificationService, log)

	// Handlers
	bookingHandler := handlers.NewBookingHandler(bookingService, log)
	transporterHandler := handlers.NewTransporterHandler(transporterService, routeScannerService, log)
	fleetHandler := handlers.NewFleetHandler(fleetStatusService, log)

	// Router
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	if len(cfg.Security.TrustedProxies) > 0 {
		if err := router.SetTrustedProxies(cfg.Security.TrustedProxies); err != nil {
			log.WithError(err).Fatal("invalid trusted proxy configuration")
		}
	}
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger(log))
	router.Use(middleware.CORS(cfg.Security.CORSAllowedOrigins))
	router.Use(middleware.RateLimit(cfg.Security.RateLimitPerMinute))

	router.GET("/health", func(c *gin.Context) {
		status := http.StatusOK
		checks := gin.H{"mongodb": "ok", "redis": "ok"}
		if err := db.Ping(); err != nil {
			status = http.StatusServiceUnavailable
			checks["mongodb"] = err.Error()
		}
		if err := redisCache.Ping(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			checks["redis"] = err.Error()
		}
		c.JSON(status, gin.H{
			"status":  checks,
			"version": cfg.App.Version,
		})
	})

	api := router.Group("/api/v1")
	routes.SetupBookingRoutes(api, bookingHandler, cfg.Security.JWTSecret)
	routes.SetupTransporterRoutes(api, transporterHandler, cfg.Security.JWTSecret)
	routes.SetupFleetRoutes(api, fleetHandler, cfg.Security.JWTSecret)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Infof("listening on %s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("forced shutdown")
	}
	log.Info("server stopped")
}

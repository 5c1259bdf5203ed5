package main

import (
	"context"
	"errors"
	"log"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/vibra-events/vibra-backend/config"
	"github.com/vibra-events/vibra-backend/database"
	"github.com/vibra-events/vibra-backend/internal/auth"
	"github.com/vibra-events/vibra-backend/internal/metrics"
	"github.com/vibra-events/vibra-backend/internal/notification"
	"github.com/vibra-events/vibra-backend/middleware"
	"github.com/vibra-events/vibra-backend/routes"
	"github.com/vibra-events/vibra-backend/utils"
)

// @title Vibra Events API
// @version 1.0
// @description Campus event registration backend.
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Config: %v", err)
	}
	gin.SetMode(cfg.GinMode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("❌ Database connect failed: %v", err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	if err := auth.SeedAdminUser(db, cfg); err != nil {
		log.Fatalf("❌ Failed to seed admin: %v", err)
	}

	// Init Redis
	rdb, err := utils.InitRedis(ctx, cfg)
	if err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}
	if rdb == nil {
		log.Println("ℹ️ REDIS_ADDR not set: in-memory rate limiting, notification stream disabled")
	} else {
		defer rdb.Close()
		log.Println("✅ Connected to Redis")
	}

	metrics.Register()

	// Notifications: kafka when configured, otherwise handled in-process.
	notificationRepo := notification.NewRepository(db)
	notificationSvc := notification.NewService(notificationRepo, rdb)

	var dispatcher notification.Dispatcher = notificationSvc
	if writer := utils.NewKafkaWriter(cfg); writer != nil {
		defer writer.Close()
		dispatcher = notification.NewKafkaDispatcher(writer)

		reader := utils.NewKafkaReader(cfg)
		defer reader.Close()
		go notification.NewConsumer(reader, notificationSvc).Run(ctx)
		log.Printf("✅ Kafka dispatch on topic %s", cfg.KafkaTopic)
	}

	go notification.NewReminderWorker(notificationRepo, notificationSvc, cfg.ReminderInterval, cfg.ReminderWindow).Run(ctx)

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "Cache-Control"},
		ExposeHeaders:    []string{"Content-Length", "Content-Type", "Content-Disposition", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, routes.Deps{
		Config:        cfg,
		DB:            db,
		Redis:         rdb,
		Notifications: notificationSvc,
		Dispatcher:    dispatcher,
	})

	// request contexts end on shutdown so notification streams close
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	go func() {
		log.Printf("🚀 Server running on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("❌ Server error: %v", err)
		}
	}()

	<-ctx.Done()
	log.Println("🛑 Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("⚠️ Forced shutdown: %v", err)
	}
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Println("✅ Server stopped")
}

package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/robfig/cron/v3"

	"github.com/atalvarez9/events-directory-backend/config"
	"github.com/atalvarez9/events-directory-backend/database"
	"github.com/atalvarez9/events-directory-backend/internal/attendee"
	"github.com/atalvarez9/events-directory-backend/internal/auditlog"
	"github.com/atalvarez9/events-directory-backend/internal/event"
	"github.com/atalvarez9/events-directory-backend/internal/notification"
	"github.com/atalvarez9/events-directory-backend/internal/profile"
	"github.com/atalvarez9/events-directory-backend/routes"
	"github.com/atalvarez9/events-directory-backend/utils"
)

func main() {
	cfg := config.Load()
	db := database.Connect(cfg)

	// Init Redis
	if err := utils.InitRedis(cfg); err != nil {
		log.Fatalf("❌ Redis init failed: %v", err)
	}

	// Init Kafka
	utils.InitializeKafka(cfg)
	defer utils.CloseKafka()

	// Auto-migrate models
	log.Println("🔄 Running database migrations...")
	if err := db.AutoMigrate(
		&auditlog.AuditLog{},
		&event.Event{},
		&attendee.Attendee{},
	); err != nil {
		log.Fatalf("❌ DB AutoMigrate failed: %v", err)
	}
	if err := database.MigrateSearchVector(db); err != nil {
		log.Fatalf("❌ Search vector migration failed: %v", err)
	}
	log.Println("✅ Database migrations completed")

	limits := event.Limits{
		WorldMin:           cfg.WorldMin,
		WorldMax:           cfg.WorldMax,
		MaxDuration:        time.Duration(cfg.MaxEventDurationHours) * time.Hour,
		RecurrenceCap:      cfg.RecurrenceCap,
		LatestAttendeesCap: cfg.LatestAttendeesCap,
	}

	// Init repositories & services
	auditRepo := auditlog.NewRepository(db)
	auditSvc := auditlog.NewService(auditRepo)

	eventRepo := event.NewRepository(db)
	eventSvc := event.NewService(eventRepo, auditSvc, limits)

	profiles := profile.NewCache(utils.RedisClient, nil)

	attendeeRepo := attendee.NewRepository(db)
	attendeeSvc := attendee.NewService(attendeeRepo, eventSvc, profiles, auditSvc, cfg.LatestAttendeesCap)

	eventHandler := event.NewHandler(eventSvc, attendeeSvc)
	attendeeHandler := attendee.NewHandler(attendeeSvc)

	// Notification dispatcher on its cron schedule
	dispatcher := notification.NewDispatcher(
		eventRepo,
		attendeeRepo,
		notification.NewKafkaSink(utils.KafkaWriter),
		utils.RedisClient,
		notification.DispatcherConfig{
			Ahead:      time.Duration(cfg.NotifyAheadMinutes) * time.Minute,
			BatchSize:  cfg.NotifyBatchSize,
			MaxRetries: cfg.NotifyMaxRetries,
		},
	)
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.NotifyPollCron, func() {
		dispatcher.Run(context.Background())
	}); err != nil {
		log.Fatalf("❌ Invalid NOTIFY_POLL_CRON %q: %v", cfg.NotifyPollCron, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Setup Gin router
	router := gin.New()
	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173", "http://127.0.0.1:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	routes.Setup(router, cfg, eventHandler, attendeeHandler)

	fmt.Printf("🚀 Server starting on port %s\n", cfg.Port)
	if err := router.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"
	"time"

	"complainthub/backend/internal/api/handler"
	"complainthub/backend/internal/complaint"
	"complainthub/backend/internal/config"
	"complainthub/backend/internal/identity"
	"complainthub/backend/internal/models"
	"complainthub/backend/internal/notifyhub"
	"complainthub/backend/internal/storage"
	"complainthub/backend/internal/telegram"
	"complainthub/backend/internal/workflow"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func setupDependencies() (*gorm.DB, *redis.Client) {
	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		envOr("DB_HOST", "localhost"),
		envOr("DB_USER", "user"),
		envOr("DB_PASSWORD", "password"),
		envOr("DB_NAME", "complainthubdb"),
		envOr("DB_PORT", "5432"),
	)
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect PostgreSQL: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     envOr("REDIS_ADDR", "localhost:6379"),
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       0,
	})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("Failed to connect Redis: %v", err)
	}

	err = db.AutoMigrate(
		&models.Complaint{},
		&models.WorkflowHistoryEntry{},
		&models.Notification{},
		&models.Message{},
	)
	if err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	log.Println("Database and Redis connections established, migrations complete.")
	return db, rdb
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func main() {
	log.Println("Starting ComplaintHub Backend...")

	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file")
	}

	db, rdb := setupDependencies()
	s := storage.NewStorageService(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	hub := notifyhub.NewHub(rdb)
	go hub.RunBridge(ctx)

	engine := workflow.NewEngine(s, hub)
	lookup := identity.NewClient(envOr("PROFILE_SERVICE_URL", "http://localhost:8081"))
	svc := complaint.NewService(s, engine, lookup)

	sweeper := workflow.NewSweeper(engine, s, config.SweepInterval)
	go sweeper.Run(ctx)

	// Telegram bridge is optional; the service is fully functional without it.
	if botToken := os.Getenv("TELEGRAM_BOT_TOKEN"); botToken != "" {
		chatID, err := strconv.ParseInt(os.Getenv("TELEGRAM_STAFF_CHAT_ID"), 10, 64)
		if err != nil {
			log.Fatalf("TELEGRAM_STAFF_CHAT_ID must be a chat id: %v", err)
		}
		botService, err := telegram.NewBotService(botToken, chatID, hub)
		if err != nil {
			log.Fatalf("Failed to start Telegram bridge: %v", err)
		}
		go botService.Run()
	}

	r := gin.Default()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{envOr("FRONTEND_ORIGIN", "http://localhost:3000")},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	h := handler.NewHandler(hub, svc)

	r.POST("/token", h.IssueToken)

	auth := r.Group("/", h.AuthRequired())
	{
		auth.POST("/complaints", h.CreateComplaint)
		auth.GET("/complaints", h.ListComplaints)
		auth.GET("/complaints/:id", h.GetComplaint)
		auth.PUT("/complaints/:id", h.UpdateComplaint)
		auth.DELETE("/complaints/:id", h.DeleteComplaint)
		auth.POST("/complaints/:id/status", h.ChangeStatus)
		auth.GET("/complaints/:id/history", h.GetHistory)
		auth.POST("/complaints/:id/messages", h.PostMessage)
		auth.GET("/complaints/:id/messages", h.GetThread)
		auth.POST("/complaints/:id/recompute", h.RecomputeRisk)
		auth.GET("/notifications", h.ListNotifications)
		auth.POST("/notifications/:id/read", h.MarkNotificationRead)
		auth.GET("/ws", h.ServeWebSocket)
	}

	server := &http.Server{
		Addr:           ":" + envOr("PORT", "8080"),
		Handler:        r,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	log.Fatal(server.ListenAndServe())
}

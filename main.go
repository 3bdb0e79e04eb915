package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"hotelops-backend/config"
	"hotelops-backend/controllers"
	"hotelops-backend/routes"
	"hotelops-backend/services"
	"hotelops-backend/store"
)

func newLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), "text") {
		log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		log.SetFormatter(&logrus.JSONFormatter{})
	}
	if level, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL")); err == nil {
		log.SetLevel(level)
	}
	return log
}

func main() {
	// Load .env (optional)
	if err := godotenv.Load(); err != nil {
		logrus.Warn(".env not found or couldn't load it; continuing with environment variables")
	}

	log := newLogger()

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		log.Fatal("JWT_SECRET environment variable is not set")
	}

	checkSecret, err := config.AdminSecretChecker()
	if err != nil {
		log.Fatalf("admin secret config: %v", err)
	}

	db, err := config.ConnectDatabase()
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}

	rdb, err := config.NewRedisClient()
	if err != nil {
		log.Fatalf("redis connect failed: %v", err)
	}
	if rdb == nil {
		log.Info("REDIS_ADDR not set; change feed is in-process only")
	}

	docStore, err := store.NewGormStore(db, rdb, log)
	if err != nil {
		log.Fatalf("document store init failed: %v", err)
	}
	defer docStore.Close()

	if err := config.SeedDocuments(context.Background(), docStore); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	// Services
	gate := services.NewAccessGate(checkSecret)
	staffService := services.NewStaffService(docStore, log)

	var dispatch services.Notifier = services.NopNotifier{}
	if !strings.EqualFold(os.Getenv("PUSH_DISABLED"), "true") {
		dispatch = services.NewExpoNotifier(staffService, log)
	}
	// Every push also lands in the per-user notification history.
	notifier := services.NewHistoryNotifier(docStore, staffService, dispatch, log)

	pickupService := services.NewPickupService(docStore, staffService, gate, notifier, log)
	roomService := services.NewRoomService(docStore, staffService, pickupService, gate, log)
	guestService := services.NewGuestService(docStore, log)
	chatService := services.NewChatService(docStore, staffService, log)
	notificationService := services.NewNotificationService(docStore, log)

	// Controllers
	authController := controllers.NewAuthController(staffService, jwtSecret, 12*time.Hour)
	roomController := controllers.NewRoomController(roomService)
	pickupController := controllers.NewPickupController(pickupService, guestService)
	guestController := controllers.NewGuestController(guestService)
	gateController := controllers.NewGateController(gate)
	chatController := controllers.NewChatController(chatService)
	notificationController := controllers.NewNotificationController(notificationService)
	streamController := controllers.NewStreamController(docStore, log)

	router := routes.SetupRouter(
		authController, roomController, pickupController,
		guestController, gateController,
		chatController, notificationController, streamController,
		jwtSecret, log,
	)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	addr := ":" + port

	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		// No WriteTimeout: /api/stream holds SSE connections open.
		IdleTimeout: 60 * time.Second,
	}

	go func() {
		log.Infof("server starting on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info("shutdown signal received, shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Info("server stopped gracefully")
}

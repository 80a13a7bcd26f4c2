package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"laundryops/internal/database"
	"laundryops/internal/handler"
	"laundryops/internal/repository"
	"laundryops/internal/service"
	"laundryops/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Laundry Operations API
// @version         1.0
// @description     Operations dashboard backend for laundry and dry-cleaning stores.
// @host            localhost:8080
// @BasePath        /
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "laundryops"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	orderRepo := repository.NewOrderRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	settingsRepo := repository.NewSettingsRepository(db)
	eventRepo := repository.NewEventRepository(db)
	alertRepo := repository.NewAlertRepository(db)

	orderService := service.NewOrderService(orderRepo, notificationRepo, settingsRepo, eventRepo, txManager, wsHub)
	notificationService := service.NewNotificationService(notificationRepo, orderRepo, eventRepo, txManager, wsHub)
	settingsService := service.NewSettingsService(settingsRepo)
	alertService := service.NewAlertService(alertRepo, wsHub)

	orderHandler := handler.NewOrderHandler(orderService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	settingsHandler := handler.NewSettingsHandler(settingsService)
	alertHandler := handler.NewAlertHandler(alertService)

	// Background refresh loop and notification change feed, both tied to
	// the shutdown context.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pollInterval := 30 * time.Second
	if v := os.Getenv("POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil && d > 0 {
			pollInterval = d
		}
	}

	if storeID := os.Getenv("STORE_ID"); storeID != "" {
		scope := repository.Scope{AdminID: os.Getenv("ADMIN_ID"), StoreID: storeID}

		watcher := service.NewNotificationWatcher(notificationRepo, orderRepo, txManager, wsHub, pollInterval)
		cancelWatch := watcher.Start(ctx, scope)
		defer cancelWatch()

		poller := service.NewViewPoller(orderService, scope, wsHub, pollInterval)
		if err := poller.Start(ctx); err != nil {
			log.Fatalf("Failed to start view poller: %v", err)
		}
	} else {
		log.Println("STORE_ID not set, background refresh and notification watcher disabled")
	}

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Accept", "X-Admin-ID", "X-Store-ID"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c)
	})

	// Register API Routes
	orderHandler.RegisterRoutes(router.Group(""))
	notificationHandler.RegisterRoutes(router.Group(""))
	settingsHandler.RegisterRoutes(router.Group(""))
	alertHandler.RegisterRoutes(router.Group(""))

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}

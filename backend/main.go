package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"studyhub/backend/config"
	"studyhub/backend/middleware"
	"studyhub/backend/routes"
	"studyhub/backend/scheduler"
	"studyhub/backend/session"
	"studyhub/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger(utils.LoggerConfig{EnableColors: cfg.LogColors})

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		logger.Fatalf("Error initializing database: %v", err)
	}

	// Test sessions live in redis when configured, otherwise in memory
	var store session.Store
	var purger scheduler.Purger
	if cfg.RedisAddr != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := session.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		cancel()
		if err != nil {
			logger.Fatalf("Error connecting to redis: %v", err)
		}
		defer client.Close()
		store = session.NewRedisStore(client, cfg.TestSessionTTL)
	} else {
		memory := session.NewMemoryStore(cfg.TestSessionTTL)
		store, purger = memory, memory
	}

	// Background jobs
	if cfg.SchedulerEnabled {
		jobs := scheduler.New(db, scheduler.LogNotifier{Logger: logger}, purger, logger, cfg.ReminderHour)
		if err := jobs.Start(); err != nil {
			logger.Fatalf("Error starting scheduler: %v", err)
		}
		defer jobs.Stop()
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Study Hub",
		ErrorHandler: utils.ErrorHandler(logger),
	})

	// Middleware
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger, cfg.LogColors))

	// Setup routes
	routes.SetupRoutes(app, db, cfg, store)

	go func() {
		if err := app.Listen(":" + cfg.ServerPort); err != nil {
			logger.Printf("Server stopped: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Println("Shutting down server...")
	if err := app.ShutdownWithTimeout(cfg.ShutdownTimeout); err != nil {
		logger.Printf("Error during shutdown: %v", err)
	}
}

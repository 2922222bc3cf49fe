package main

import (
	"context"
	"log"
	"time"

	"project/backend/config"
	"project/backend/engine"
	"project/backend/middleware"
	"project/backend/routes"
	"project/backend/store"
	"project/backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

func main() {
	// Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// Initialize database
	db, err := utils.InitDB(cfg)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}

	// Initialize logger
	logger := utils.InitLogger()

	// Authoritative store and per-user engine manager
	authoritative := store.New(db)
	manager := engine.NewManager(authoritative, engine.SystemClock(), logger)
	defer manager.StopAll()

	// Scheduled authoritative streak reset (the engine only resets the
	// displayed streak; this job persists the reset).
	go func() {
		ticker := time.NewTicker(time.Hour)
		defer ticker.Stop()
		for now := range ticker.C {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			if n, err := authoritative.ResetLapsedStreaks(ctx, now); err != nil {
				logger.Printf("streak reset job failed: %v", err)
			} else if n > 0 {
				logger.Printf("streak reset job: reset %d lapsed streaks", n)
			}
			cancel()
		}
	}()

	// Create Fiber app
	app := fiber.New()

	// Middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.LoggingMiddleware(logger))

	// Setup routes
	routes.SetupRoutes(app, db, manager, cfg)

	// Start server
	log.Fatal(app.Listen(":" + cfg.ServerPort))
}

package routes

import (
	"project/backend/config"
	"project/backend/controllers"
	"project/backend/engine"
	"project/backend/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB, manager *engine.Manager, cfg *config.Config) {
	// Auth routes
	authController := controllers.NewAuthController(db, cfg, manager)
	app.Post("/api/auth/register", authController.Register)
	app.Post("/api/auth/login", authController.Login)
	app.Post("/api/auth/logout", authController.Logout)

	// Middleware
	authMiddleware := middleware.AuthMiddleware(cfg)

	// Progress routes
	progressController := controllers.NewProgressController(db, cfg, manager)
	progress := app.Group("/api/progress", authMiddleware)
	progress.Get("/", progressController.GetProgress)
	progress.Post("/stage", progressController.CompleteStage)
	progress.Post("/refresh", progressController.Refresh)
	progress.Post("/resume", progressController.Resume)
	progress.Get("/week", progressController.GetWeek)
	progress.Get("/month", progressController.GetMonth)

	// Passage routes
	passagesController := controllers.NewPassagesController(db, cfg)
	app.Get("/api/passages/today", authMiddleware, passagesController.GetToday)
}

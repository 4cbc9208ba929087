package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/feedbackhq/feedback-backend/internal/auth"
	"github.com/feedbackhq/feedback-backend/internal/config"
	"github.com/feedbackhq/feedback-backend/internal/database"
	"github.com/feedbackhq/feedback-backend/internal/handlers"
	"github.com/feedbackhq/feedback-backend/internal/repository"
	"github.com/feedbackhq/feedback-backend/pkg/logger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load(os.Getenv("CONFIG_FILE"))
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	if err := logger.Init(cfg.Logging.Level); err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Sync()

	// Initialize database
	if err := database.Connect(&cfg.Database); err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer database.Close()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler: handlers.ErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(handlers.CORS())
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
	}))

	// Services and routes
	tokens := auth.NewTokenManager(cfg.Security.JWTSecret, time.Duration(cfg.Security.TokenTTLHours)*time.Hour)
	handler := handlers.New(
		repository.NewUserRepository(database.DB),
		repository.NewFormRepository(database.DB),
		repository.NewResponseRepository(database.DB),
		tokens,
		cfg.Security.BcryptCost,
	)
	handler.RegisterRoutes(app)

	// Shut down cleanly on interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-quit
		logger.Infof("Shutting down server")
		_ = app.Shutdown()
	}()

	logger.Infof("Server starting on port %d", cfg.Server.Port)
	if err := app.Listen(fmt.Sprintf(":%d", cfg.Server.Port)); err != nil {
		log.Fatal(err)
	}
}

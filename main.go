package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"match-ladder-system/config"
	"match-ladder-system/database"
	"match-ladder-system/handlers"
	"match-ladder-system/middleware"
	"match-ladder-system/services"
	"match-ladder-system/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Configuration error: ", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("failed to connect to database: ", err)
	}

	// One-shot setup subcommands, mirroring the migrate/seed scripts:
	//   match-ladder-system migrate [--drop]
	//   match-ladder-system seed
	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "migrate":
			drop := len(os.Args) > 2 && (os.Args[2] == "--drop" || os.Args[2] == "-d")
			if err := database.Migrate(db, drop); err != nil {
				log.Fatal("migration failed: ", err)
			}
			return
		case "seed":
			if err := database.Seed(db, cfg); err != nil {
				log.Fatal("seeding failed: ", err)
			}
			return
		default:
			log.Fatalf("unknown command %q (expected migrate or seed)", os.Args[1])
		}
	}

	if err := database.Migrate(db, false); err != nil {
		log.Fatal("failed to migrate database: ", err)
	}

	app := fiber.New()
	app.Use(middleware.RequestIDMiddleware())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.AllowedOrigins,
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-Request-ID",
	}))

	authService := services.NewAuthService(db, cfg)
	matchService := services.NewMatchService(db)
	queryService := services.NewQueryService(db)

	handlers.SetupAuthRoutes(app, authService, cfg.JWTSecret)
	handlers.SetupMatchRoutes(app, matchService, queryService, cfg.JWTSecret)

	auditWorker := workers.NewLedgerAuditWorker(db, cfg.AuditInterval)
	if err := auditWorker.Start(); err != nil {
		log.Fatal("failed to start ledger audit worker: ", err)
	}
	defer auditWorker.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", cfg.Port)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}

package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brandon-urgd/stitch/internal/common/config"
	"github.com/brandon-urgd/stitch/internal/common/middleware"
	"github.com/brandon-urgd/stitch/internal/status/handlers"
	"github.com/brandon-urgd/stitch/internal/status/repository"
	"github.com/brandon-urgd/stitch/internal/status/service"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// Status Service
// ============================================================

func main() {
	cfg := config.Load()
	if os.Getenv("PORT") == "" {
		cfg.Port = "3002"
	}

	dbPath := getenv("STATUS_DB_PATH", "data/db/jobs.db")
	db, err := repository.OpenSQLite(dbPath)
	if err != nil {
		log.Fatalf("open db: %v", err)
	}
	defer db.Close()

	repo := repository.New(db)
	if err := repo.Init(context.Background(), "migrations/001_init_jobs.sql"); err != nil {
		log.Fatalf("init db: %v", err)
	}

	fileStorage := service.NewFileStorage(getenv("STORAGE_ROOT", "data/files"))
	if err := fileStorage.EnsureDirs(); err != nil {
		log.Fatalf("init storage: %v", err)
	}

	converterURL := getenv("CONVERTER_URL", "http://localhost:3001")
	statusHandler := handlers.NewStatusHandler(repo, fileStorage, converterURL)

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit(),
		AppName:      "Status Service",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "alive"})
	})

	app.Get("/health/ready", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ready"})
	})

	// ============================================================
	// Status Routes
	// ============================================================

	app.Post("/uploads", statusHandler.CreateUpload)
	app.Get("/status/:request_id", statusHandler.GetStatus)
	app.Get("/files/:request_id", statusHandler.DownloadPES)

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting Status Service on %s (env: %s)", addr, cfg.Environment)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getenv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

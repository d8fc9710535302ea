package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/brandon-urgd/stitch/internal/common/config"
	"github.com/brandon-urgd/stitch/internal/common/middleware"
	"github.com/brandon-urgd/stitch/internal/gateway/handlers"
	"github.com/brandon-urgd/stitch/internal/gateway/proxy"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/recover"
)

// ============================================================
// API Gateway
// ============================================================

func main() {
	cfg := config.Load()

	app := fiber.New(fiber.Config{
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
		BodyLimit:    cfg.BodyLimit(),
		AppName:      "API Gateway",
	})

	// ============================================================
	// Global Middleware
	// ============================================================

	app.Use(recover.New())
	app.Use(middleware.Logger())
	app.Use(middleware.CORS())

	// ============================================================
	// Health Check Routes
	// ============================================================

	app.Get("/health/live", handlers.LivenessProbe)
	app.Get("/health/ready", handlers.ReadinessProbe)
	app.Get("/health/startup", handlers.StartupProbe)

	// ============================================================
	// Docs
	// ============================================================

	app.Get("/docs", handlers.SwaggerUI)
	app.Get("/docs/openapi.yaml", handlers.SwaggerSpec)

	// ============================================================
	// API Routes
	// ============================================================

	api := app.Group("/api/v1")

	api.Get("/", func(c fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Stitch API v1",
			"status":  "ok",
		})
	})

	// ============================================================
	// Service Routes (Proxy)
	// ============================================================

	// Converter Service (синхронная конвертация)
	converterURL := getEnv("CONVERTER_URL", "http://localhost:3001")
	api.Post("/convert", proxy.ProxyTo(converterURL+"/convert"))
	api.Post("/convert/json", proxy.ProxyTo(converterURL+"/convert/json"))
	api.Post("/analyze", proxy.ProxyTo(converterURL+"/analyze"))

	// Status Service (загрузка + опрос статуса)
	statusURL := getEnv("STATUS_URL", "http://localhost:3002")
	api.Post("/uploads", proxy.ProxyTo(statusURL+"/uploads"))
	api.Get("/status/:request_id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/status/%s", statusURL, c.Params("request_id")))
	})
	api.Get("/files/:request_id", func(c fiber.Ctx) error {
		return proxy.Forward(c, fmt.Sprintf("%s/files/%s", statusURL, c.Params("request_id")))
	})

	// ============================================================
	// Server Start
	// ============================================================

	addr := fmt.Sprintf(":%s", cfg.Port)
	log.Printf("Starting API Gateway on %s (env: %s)", addr, cfg.Environment)
	log.Printf("Proxying /convert to %s", converterURL)
	log.Printf("Proxying /uploads to %s", statusURL)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

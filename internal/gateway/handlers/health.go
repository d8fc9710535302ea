package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Health Check Handlers
// ============================================================

// LivenessProbe проверяет, что приложение работает
func LivenessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "alive",
		"service": "gateway",
	})
}

// ReadinessProbe проверяет готовность приложения обрабатывать запросы.
// Gateway без состояния: достаточно того, что процесс отвечает, здоровье
// converter и status сервисов проверяется их собственными пробами.
func ReadinessProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ready",
		"service": "gateway",
	})
}

// StartupProbe проверяет, что приложение успешно запустилось
func StartupProbe(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "started",
		"service": "gateway",
	})
}

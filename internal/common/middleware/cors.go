package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS разрешает все источники и заголовки (dev). Кастомные заголовки
// конвертера нужно явно открыть, иначе браузер их не отдаст фронтенду.
func CORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowHeaders:  []string{"*"},
		AllowMethods:  []string{"*"},
		ExposeHeaders: []string{"X-Stitch-Count", "X-Quality", "X-Warnings", "Content-Disposition"},
	})
}

package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares pasang middleware global sesuai urutan
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(LoggerMiddleware())
	app.Use(GlobalRateLimiter())
}

package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

// SetupCORS configures CORS middleware for the application.
// The registration form is served from arbitrary parish sites, so any
// origin may POST; no cookies are involved, so credentials stay off.
func SetupCORS() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:  "*",
		AllowMethods:  "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders:  "Origin, Content-Type, Accept",
		ExposeHeaders: "Content-Length, Content-Disposition",
		MaxAge:        86400, // Pre-flight request can be cached for 1 day
	})
}

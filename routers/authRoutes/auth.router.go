package authRoutes

import (
	authControllers "cacc/controllers/auth"
	"cacc/middleware"
	authValidators "cacc/validators/auth"

	"github.com/gofiber/fiber/v2"
)

// SetupAuthRoutes registers the bearer token endpoints and the session login pages
func SetupAuthRoutes(app *fiber.App) {
	tokenGroup := app.Group("/api/token")

	tokenGroup.Post("/", authValidators.ObtainToken(), authControllers.ObtainToken)
	tokenGroup.Post("/refresh", authValidators.RefreshToken(), authControllers.RefreshToken)
	tokenGroup.Post("/verify", authValidators.VerifyToken(), authControllers.VerifyToken)

	app.Get("/login", middleware.SessionMiddleware, authControllers.LoginPage)
	app.Post("/login", middleware.SessionMiddleware, authControllers.Login)
	app.Get("/logout", authControllers.Logout)
	app.Post("/logout", authControllers.Logout)
}

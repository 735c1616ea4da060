package siteRoutes

import (
	siteController "cacc/controllers/site"
	"cacc/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupSiteRoutes registers the staff-only HTML pages
func SetupSiteRoutes(app *fiber.App) {
	app.Get("/", middleware.SessionMiddleware, middleware.AdminOnly, siteController.ReviewList)
	app.Get("/reviewer/:reviewer", middleware.SessionMiddleware, middleware.AdminOnly, siteController.ReviewerReviewList)
	app.Get("/review/:review", middleware.SessionMiddleware, middleware.AdminOnly, siteController.ReviewDetail)
}

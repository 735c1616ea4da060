package reviewerRoutes

import (
	reviewerController "cacc/controllers/reviewer"
	"cacc/middleware"

	"github.com/gofiber/fiber/v2"
)

// SetupReviewerRoutes registers the read-only reviewer endpoints
func SetupReviewerRoutes(api fiber.Router) {
	reviewerGroup := api.Group("/reviewers")

	reviewerGroup.Get("/", middleware.CheckPermissionMiddleware(middleware.IsAuthenticated, middleware.ActionList), reviewerController.ListReviewers)
	reviewerGroup.Get("/:id", middleware.CheckPermissionMiddleware(middleware.IsAuthenticated, middleware.ActionRetrieve), reviewerController.GetReviewer)
}

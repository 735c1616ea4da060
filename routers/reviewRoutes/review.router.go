package reviewRoutes

import (
	reviewController "cacc/controllers/review"
	"cacc/middleware"
	reviewValidator "cacc/validators/review"

	"github.com/gofiber/fiber/v2"
)

// SetupReviewRoutes registers the review endpoints on an authenticated API router
func SetupReviewRoutes(api fiber.Router) {
	reviewGroup := api.Group("/reviews")
	can := func(action middleware.Action) fiber.Handler {
		return middleware.CheckPermissionMiddleware(middleware.StaffCanModify, action)
	}

	reviewGroup.Get("/", can(middleware.ActionList), reviewController.ListReviews)
	reviewGroup.Post("/", can(middleware.ActionCreate), reviewValidator.CreateReview(), reviewController.CreateReview)
	reviewGroup.Get("/:id", can(middleware.ActionRetrieve), reviewController.GetReview)
	reviewGroup.Put("/:id", can(middleware.ActionUpdate), reviewValidator.UpdateReview(), reviewController.UpdateReview)
	reviewGroup.Patch("/:id", can(middleware.ActionPartialUpdate), reviewValidator.PartialUpdateReview(), reviewController.UpdateReview)
	reviewGroup.Delete("/:id", can(middleware.ActionDestroy), reviewController.DeleteReview)
}

package companyRoutes

import (
	companyController "cacc/controllers/company"
	"cacc/middleware"
	companyValidator "cacc/validators/company"

	"github.com/gofiber/fiber/v2"
)

// SetupCompanyRoutes registers the company endpoints on an authenticated API router
func SetupCompanyRoutes(api fiber.Router) {
	companyGroup := api.Group("/companies")
	can := func(action middleware.Action) fiber.Handler {
		return middleware.CheckPermissionMiddleware(middleware.IsAuthenticated, action)
	}

	companyGroup.Get("/", can(middleware.ActionList), companyController.ListCompanies)
	companyGroup.Post("/", can(middleware.ActionCreate), companyValidator.CreateCompany(), companyController.CreateCompany)
	companyGroup.Get("/:id", can(middleware.ActionRetrieve), companyController.GetCompany)
	companyGroup.Put("/:id", can(middleware.ActionUpdate), companyValidator.CreateCompany(), companyController.UpdateCompany)
	companyGroup.Patch("/:id", can(middleware.ActionPartialUpdate), companyValidator.PartialUpdateCompany(), companyController.UpdateCompany)
	companyGroup.Delete("/:id", can(middleware.ActionDestroy), companyController.DeleteCompany)
}

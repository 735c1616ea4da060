package routers

import (
	"errors"
	"strings"

	"cacc/config"
	"cacc/middleware"
	authRoutes "cacc/routers/authRoutes"
	companyRoutes "cacc/routers/companyRoutes"
	reviewRoutes "cacc/routers/reviewRoutes"
	reviewerRoutes "cacc/routers/reviewerRoutes"
	siteRoutes "cacc/routers/siteRoutes"
	"cacc/templates"
	"cacc/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// New builds the application with every route registered
func New() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "cacc",
		Views:        templates.New(),
		ErrorHandler: errorHandler,
	})

	app.Use(recover.New())

	app.Use(cors.New(cors.Config{
		AllowOrigins: config.AppConfig.AllowedOrigins,
		AllowMethods: "GET,POST,PUT,PATCH,DELETE",  // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	authRoutes.SetupAuthRoutes(app)

	api := app.Group("/api/v1", middleware.JWTMiddleware)
	api.Get("/", apiRoot)
	reviewRoutes.SetupReviewRoutes(api)
	companyRoutes.SetupCompanyRoutes(api)
	reviewerRoutes.SetupReviewerRoutes(api)

	siteRoutes.SetupSiteRoutes(app)

	return app
}

// apiRoot lists the collections of the v1 API
func apiRoot(c *fiber.Ctx) error {
	base := c.BaseURL() + "/api/v1"
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Api root", fiber.Map{
		"companies": base + "/companies/",
		"reviews":   base + "/reviews/",
		"reviewers": base + "/reviewers/",
	})
}

// errorHandler answers API paths with the JSON envelope and everything else with plain text
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	if code >= fiber.StatusInternalServerError {
		utils.Logger.WithError(err).WithField("path", c.Path()).Error("Unhandled error")
	}

	if strings.HasPrefix(c.Path(), "/api/") {
		return middleware.JsonResponse(c, code, false, message, nil)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
	return c.Status(code).SendString(message)
}

package companyValidator

import (
	"cacc/middleware"
	"cacc/models"
	"cacc/validators"

	"github.com/gofiber/fiber/v2"
)

// CompanyInput holds the writable company fields
type CompanyInput struct {
	Name *string `json:"name" form:"name"`
}

// CreateCompany validates POST and PUT bodies
func CreateCompany() fiber.Handler {
	return validateCompany(false)
}

// PartialUpdateCompany validates PATCH bodies
func PartialUpdateCompany() fiber.Handler {
	return validateCompany(true)
}

func validateCompany(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CompanyInput)

		errs, err := validators.ParseBody(c, reqData)
		if err != nil {
			return validators.RespondInvalidBody(c)
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		errs = make(map[string]string)
		validators.String(errs, "name", reqData.Name, !partial, models.MaxCompanyNameLength)

		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedCompany", reqData)
		return c.Next()
	}
}

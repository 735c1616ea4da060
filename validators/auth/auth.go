package authValidator

import (
	"cacc/middleware"
	"cacc/validators"

	"github.com/gofiber/fiber/v2"
)

// ObtainTokenRequest is the credential body for the token obtain endpoint
type ObtainTokenRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// ObtainToken validator middleware
func ObtainToken() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ObtainTokenRequest)
		fieldErrs, err := validators.ParseBody(c, reqData)
		if err != nil {
			return validators.RespondInvalidBody(c)
		}
		if len(fieldErrs) > 0 {
			return middleware.ValidationErrorResponse(c, fieldErrs)
		}

		errors := make(map[string]string)

		if reqData.Username == "" {
			errors["username"] = validators.MsgRequired
		}
		if reqData.Password == "" {
			errors["password"] = validators.MsgRequired
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCredentials", reqData)
		return c.Next()
	}
}

// RefreshToken validator middleware
func RefreshToken() fiber.Handler {
	return requireToken("refresh", "validatedRefresh")
}

// VerifyToken validator middleware
func VerifyToken() fiber.Handler {
	return requireToken("token", "validatedToken")
}

type tokenRequest struct {
	Refresh string `json:"refresh" form:"refresh"`
	Token   string `json:"token" form:"token"`
}

func requireToken(field, local string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(tokenRequest)
		fieldErrs, err := validators.ParseBody(c, reqData)
		if err != nil {
			return validators.RespondInvalidBody(c)
		}
		if len(fieldErrs) > 0 {
			return middleware.ValidationErrorResponse(c, fieldErrs)
		}

		token := reqData.Token
		if field == "refresh" {
			token = reqData.Refresh
		}
		if token == "" {
			return middleware.ValidationErrorResponse(c, map[string]string{field: validators.MsgRequired})
		}

		c.Locals(local, token)
		return c.Next()
	}
}

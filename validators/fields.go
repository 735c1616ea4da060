// Package validators holds the field rules shared by the request validator middlewares.
package validators

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"cacc/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	MsgRequired = "This field is required."
	MsgBlank    = "This field may not be blank."
)

var validate = validator.New()

// ErrInvalidBody means the request body could not be decoded at all
var ErrInvalidBody = errors.New("invalid request body")

// ParseBody decodes the request body into out. A type mismatch on a single field is
// reported in the returned map under that field's JSON name. An empty body decodes to
// the zero value.
func ParseBody(c *fiber.Ctx, out interface{}) (map[string]string, error) {
	if len(c.Body()) == 0 {
		return nil, nil
	}

	err := c.BodyParser(out)
	if err == nil {
		return nil, nil
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return map[string]string{typeErr.Field: fmt.Sprintf("Incorrect type. Expected %s.", typeErr.Type)}, nil
	}
	return nil, ErrInvalidBody
}

// String trims and validates an optional string field. Absent fields are reported only when
// required.
func String(errs map[string]string, field string, value *string, required bool, maxLength int) {
	if value == nil {
		if required {
			errs[field] = MsgRequired
		}
		return
	}

	*value = strings.TrimSpace(*value)
	if err := validate.Var(*value, "required"); err != nil {
		errs[field] = MsgBlank
		return
	}
	if err := validate.Var(*value, fmt.Sprintf("max=%d", maxLength)); err != nil {
		errs[field] = fmt.Sprintf("Ensure this field has no more than %d characters.", maxLength)
	}
}

// IntRange validates an optional integer against inclusive bounds.
func IntRange(errs map[string]string, field string, value *int, required bool, min, max int) {
	if value == nil {
		if required {
			errs[field] = MsgRequired
		}
		return
	}

	err := validate.Var(*value, fmt.Sprintf("min=%d,max=%d", min, max))
	if err == nil {
		return
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 && fieldErrs[0].Tag() == "max" {
		errs[field] = fmt.Sprintf("Ensure this value is less than or equal to %d.", max)
		return
	}
	errs[field] = fmt.Sprintf("Ensure this value is greater than or equal to %d.", min)
}

// RespondInvalidBody writes the 400 used when the body cannot be decoded
func RespondInvalidBody(c *fiber.Ctx) error {
	return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
}

package reviewValidator

import (
	"errors"
	"fmt"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/validators"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ReviewInput holds the client-writable review fields. Reviewer, ip_address and date are
// never read from the body.
type ReviewInput struct {
	Title   *string `json:"title" form:"title"`
	Summary *string `json:"summary" form:"summary"`
	Company *uint   `json:"company" form:"company"`
	Rating  *int    `json:"rating" form:"rating"`
}

// CreateReview validates a full review body for POST
func CreateReview() fiber.Handler {
	return validateReview(false)
}

// UpdateReview validates a full review body for PUT
func UpdateReview() fiber.Handler {
	return validateReview(false)
}

// PartialUpdateReview validates only the fields present in a PATCH body
func PartialUpdateReview() fiber.Handler {
	return validateReview(true)
}

func validateReview(partial bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(ReviewInput)

		errs, err := validators.ParseBody(c, reqData)
		if err != nil {
			return validators.RespondInvalidBody(c)
		}
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		errs = Validate(reqData, partial)
		if len(errs) > 0 {
			return middleware.ValidationErrorResponse(c, errs)
		}

		c.Locals("validatedReview", reqData)
		return c.Next()
	}
}

// Validate checks field constraints and that the referenced company exists
func Validate(reqData *ReviewInput, partial bool) map[string]string {
	errs := make(map[string]string)
	required := !partial

	validators.String(errs, "title", reqData.Title, required, models.MaxReviewTitleLength)
	validators.String(errs, "summary", reqData.Summary, required, models.MaxReviewSummaryLength)
	validators.IntRange(errs, "rating", reqData.Rating, required, config.AppConfig.MinRating, config.AppConfig.MaxRating)

	switch {
	case reqData.Company == nil:
		if required {
			errs["company"] = validators.MsgRequired
		}
	default:
		err := database.Database.Db.Select("id").First(&models.Company{}, *reqData.Company).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			errs["company"] = fmt.Sprintf("Invalid pk \"%d\" - object does not exist.", *reqData.Company)
		} else if err != nil {
			errs["company"] = "Unable to verify company."
		}
	}

	return errs
}

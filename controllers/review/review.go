package reviewController

import (
	"errors"
	"strconv"
	"time"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/utils"
	reviewValidator "cacc/validators/review"

	"github.com/gofiber/fiber/v2"
	"github.com/jinzhu/now"
	"gorm.io/gorm"
)

// ErrNotFound covers both absent reviews and reviews hidden from the caller
var ErrNotFound = errors.New("review not found")

// VisibleReviews scopes a review query to the rows reviewer may see: every row for staff,
// only their own rows otherwise.
func VisibleReviews(db *gorm.DB, reviewer *models.Reviewer) *gorm.DB {
	query := db.Model(&models.CompanyReview{})
	if reviewer.IsStaff {
		return query
	}
	return query.Where("reviewer_id = ?", reviewer.ID)
}

// FindVisible loads a review by id inside the caller's scope. A row owned by someone else
// is reported exactly like a missing row.
func FindVisible(db *gorm.DB, reviewer *models.Reviewer, id int) (*models.CompanyReview, error) {
	var review models.CompanyReview
	err := VisibleReviews(db, reviewer).Where("id = ?", id).First(&review).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// ListReviews returns the caller's visible reviews, paginated and optionally filtered by
// company, reviewer and submission day
func ListReviews(c *fiber.Ctx) error {
	reviewer, _ := middleware.CurrentReviewer(c)
	db := database.Database.Db

	query := VisibleReviews(db, reviewer)

	query, errs := applyFilters(c, query)
	if len(errs) > 0 {
		return middleware.ValidationErrorResponse(c, errs)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return serverError(c, err, "Failed to count reviews!")
	}

	page := utils.ParsePagination(c, config.AppConfig.PageSize)

	reviews := []models.CompanyReview{}
	if err := query.
		Order("id ASC").
		Offset(page.Offset).
		Limit(page.Limit).
		Find(&reviews).Error; err != nil {
		return serverError(c, err, "Failed to fetch reviews!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviews fetched!", utils.NewPage(c, page, total, reviews))
}

func applyFilters(c *fiber.Ctx, query *gorm.DB) (*gorm.DB, map[string]string) {
	errs := make(map[string]string)

	if v := c.Query("company"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			query = query.Where("company_id = ?", id)
		} else {
			errs["company"] = "Select a valid choice. That choice is not one of the available choices."
		}
	}

	if v := c.Query("reviewer"); v != "" {
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			query = query.Where("reviewer_id = ?", id)
		} else {
			errs["reviewer"] = "Select a valid choice. That choice is not one of the available choices."
		}
	}

	if v := c.Query("date"); v != "" {
		if from, to, err := dayBounds(v, config.AppConfig.TimeZone); err == nil {
			query = query.Where("date >= ? AND date <= ?", from.UTC(), to.UTC())
		} else {
			errs["date"] = "Enter a valid date."
		}
	}

	return query, errs
}

// dayBounds returns the first and last instant of the YYYY-MM-DD day in loc
func dayBounds(day string, loc *time.Location) (time.Time, time.Time, error) {
	cfg := &now.Config{WeekStartDay: time.Monday, TimeLocation: loc, TimeFormats: []string{"2006-01-02"}}

	t, err := cfg.Parse(day)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}

	n := cfg.With(t)
	return n.BeginningOfDay(), n.EndOfDay(), nil
}

// CreateReview stores a review authored by the caller. The reviewer and submitter
// address always come from the request, never from the body.
func CreateReview(c *fiber.Ctx) error {
	reviewer, _ := middleware.CurrentReviewer(c)

	reqData, ok := c.Locals("validatedReview").(*reviewValidator.ReviewInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review := models.CompanyReview{
		ReviewerID: reviewer.ID,
		CompanyID:  *reqData.Company,
		Rating:     *reqData.Rating,
		Title:      *reqData.Title,
		Summary:    *reqData.Summary,
		IPAddress:  utils.RequestIP(c),
	}

	if err := database.Database.Db.Create(&review).Error; err != nil {
		return serverError(c, err, "Failed to submit review!")
	}

	utils.Logger.WithFields(map[string]interface{}{
		"review_id":   review.ID,
		"reviewer_id": reviewer.ID,
		"company_id":  review.CompanyID,
	}).Info("Review submitted")

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Review submitted successfully!", review)
}

// GetReview returns a single visible review
func GetReview(c *fiber.Ctx) error {
	review, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review fetched!", review)
}

// UpdateReview applies a PUT or PATCH body. The submission date is never rewritten.
func UpdateReview(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedReview").(*reviewValidator.ReviewInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	review, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}

	updates := map[string]interface{}{}
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Summary != nil {
		updates["summary"] = *reqData.Summary
	}
	if reqData.Company != nil {
		updates["company_id"] = *reqData.Company
	}
	if reqData.Rating != nil {
		updates["rating"] = *reqData.Rating
	}

	db := database.Database.Db
	if len(updates) > 0 {
		if err := db.Model(review).Updates(updates).Error; err != nil {
			return serverError(c, err, "Failed to update review!")
		}
	}

	if err := db.First(review, review.ID).Error; err != nil {
		return serverError(c, err, "Failed to fetch review!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Review updated successfully!", review)
}

// DeleteReview removes a review
func DeleteReview(c *fiber.Ctx) error {
	review, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}

	if err := database.Database.Db.Delete(review).Error; err != nil {
		return serverError(c, err, "Failed to delete review!")
	}

	utils.Logger.WithField("review_id", review.ID).Info("Review deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

func lookup(c *fiber.Ctx) (*models.CompanyReview, error) {
	reviewer, _ := middleware.CurrentReviewer(c)

	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, ErrNotFound
	}
	return FindVisible(database.Database.Db, reviewer, id)
}

func respondLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, ErrNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found.", nil)
	}
	return serverError(c, err, "Failed to fetch review!")
}

func serverError(c *fiber.Ctx, err error, message string) error {
	utils.Logger.WithError(err).WithField("path", c.Path()).Error(message)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, message, nil)
}

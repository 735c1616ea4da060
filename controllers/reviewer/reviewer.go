package reviewerController

import (
	"errors"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// Only these columns ever leave the service
var publicColumns = []string{"id", "first_name", "last_name"}

// ListReviewers returns every reviewer's public fields
func ListReviewers(c *fiber.Ctx) error {
	db := database.Database.Db
	page := utils.ParsePagination(c, config.AppConfig.PageSize)

	var total int64
	if err := db.Model(&models.Reviewer{}).Count(&total).Error; err != nil {
		utils.Logger.WithError(err).Error("Failed to count reviewers")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviewers!", nil)
	}

	reviewers := []models.Reviewer{}
	if err := db.Select(publicColumns).Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&reviewers).Error; err != nil {
		utils.Logger.WithError(err).Error("Failed to fetch reviewers")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviewers!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviewers fetched!", utils.NewPage(c, page, total, reviewers))
}

// GetReviewer returns one reviewer's public fields
func GetReviewer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found.", nil)
	}

	var reviewer models.Reviewer
	err = database.Database.Db.Select(publicColumns).First(&reviewer, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found.", nil)
	}
	if err != nil {
		utils.Logger.WithError(err).WithField("reviewer_id", id).Error("Failed to fetch reviewer")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reviewer!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Reviewer fetched!", reviewer)
}

package siteController

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

// ReviewList renders every review
func ReviewList(c *fiber.Ctx) error {
	var reviews []models.CompanyReview
	if err := withRelations(database.Database.Db).Order("date DESC").Find(&reviews).Error; err != nil {
		return renderError(c, err)
	}

	return c.Render("review-list", pageContext(c, fiber.Map{
		"reviews": reviews,
	}))
}

// ReviewerReviewList renders the reviews written by the reviewer in the path
func ReviewerReviewList(c *fiber.Ctx) error {
	id, err := c.ParamsInt("reviewer")
	if err != nil || id < 1 {
		return fiber.ErrNotFound
	}

	db := database.Database.Db

	var reviewer models.Reviewer
	if err := db.First(&reviewer, id).Error; err != nil {
		return renderError(c, err)
	}

	var reviews []models.CompanyReview
	if err := withRelations(db).Where("reviewer_id = ?", reviewer.ID).Order("date DESC").Find(&reviews).Error; err != nil {
		return renderError(c, err)
	}

	return c.Render("review-list", pageContext(c, fiber.Map{
		"focused_reviewer": &reviewer,
		"reviews":          reviews,
	}))
}

// ReviewDetail renders one review with the rating scale
func ReviewDetail(c *fiber.Ctx) error {
	id, err := c.ParamsInt("review")
	if err != nil || id < 1 {
		return fiber.ErrNotFound
	}

	var review models.CompanyReview
	if err := withRelations(database.Database.Db).First(&review, id).Error; err != nil {
		return renderError(c, err)
	}

	return c.Render("review-detail", pageContext(c, fiber.Map{
		"review":     &review,
		"max_rating": config.AppConfig.MaxRating,
	}))
}

func withRelations(db *gorm.DB) *gorm.DB {
	return db.Preload("Reviewer").Preload("Company")
}

func pageContext(c *fiber.Ctx, data fiber.Map) fiber.Map {
	if reviewer, ok := middleware.CurrentReviewer(c); ok {
		data["user"] = reviewer
	}
	return data
}

func renderError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fiber.ErrNotFound
	}
	utils.Logger.WithError(err).WithField("path", c.Path()).Error("Failed to render page")
	return fiber.ErrInternalServerError
}

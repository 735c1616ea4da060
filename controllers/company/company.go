package companyController

import (
	"errors"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/utils"
	companyValidator "cacc/validators/company"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// ListCompanies returns all companies, paginated
func ListCompanies(c *fiber.Ctx) error {
	db := database.Database.Db
	page := utils.ParsePagination(c, config.AppConfig.PageSize)

	var total int64
	if err := db.Model(&models.Company{}).Count(&total).Error; err != nil {
		return serverError(c, err, "Failed to count companies!")
	}

	companies := []models.Company{}
	if err := db.Order("id ASC").Offset(page.Offset).Limit(page.Limit).Find(&companies).Error; err != nil {
		return serverError(c, err, "Failed to fetch companies!")
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Companies fetched!", utils.NewPage(c, page, total, companies))
}

// CreateCompany adds a company
func CreateCompany(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCompany").(*companyValidator.CompanyInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	company := models.Company{Name: *reqData.Name}
	if err := database.Database.Db.Create(&company).Error; err != nil {
		return serverError(c, err, "Failed to create company!")
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Company created successfully!", company)
}

// GetCompany returns one company
func GetCompany(c *fiber.Ctx) error {
	company, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Company fetched!", company)
}

// UpdateCompany applies a PUT or PATCH body
func UpdateCompany(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCompany").(*companyValidator.CompanyInput)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	company, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}

	if reqData.Name != nil {
		company.Name = *reqData.Name
		if err := database.Database.Db.Model(company).Update("name", company.Name).Error; err != nil {
			return serverError(c, err, "Failed to update company!")
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Company updated successfully!", company)
}

// DeleteCompany removes a company together with every review of it
func DeleteCompany(c *fiber.Ctx) error {
	company, err := lookup(c)
	if err != nil {
		return respondLookupError(c, err)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("company_id = ?", company.ID).Delete(&models.CompanyReview{}).Error; err != nil {
			return err
		}
		return tx.Delete(company).Error
	})
	if err != nil {
		return serverError(c, err, "Failed to delete company!")
	}

	utils.Logger.WithField("company_id", company.ID).Info("Company deleted")
	return c.SendStatus(fiber.StatusNoContent)
}

func lookup(c *fiber.Ctx) (*models.Company, error) {
	id, err := c.ParamsInt("id")
	if err != nil || id < 1 {
		return nil, gorm.ErrRecordNotFound
	}

	var company models.Company
	if err := database.Database.Db.First(&company, id).Error; err != nil {
		return nil, err
	}
	return &company, nil
}

func respondLookupError(c *fiber.Ctx, err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Not found.", nil)
	}
	return serverError(c, err, "Failed to fetch company!")
}

func serverError(c *fiber.Ctx, err error, message string) error {
	utils.Logger.WithError(err).WithField("path", c.Path()).Error(message)
	return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, message, nil)
}

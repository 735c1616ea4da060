package authController

import (
	"errors"
	"strings"
	"time"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/utils"
	authValidator "cacc/validators/auth"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for unknown usernames, wrong passwords and inactive accounts
var ErrInvalidCredentials = errors.New("no active account found with the given credentials")

// HashPassword hashes a plain-text password with the configured bcrypt cost
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), config.AppConfig.SaltRound)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// Authenticate resolves an active reviewer from a username and password
func Authenticate(db *gorm.DB, username, password string) (*models.Reviewer, error) {
	var reviewer models.Reviewer
	err := db.Where("username = ?", username).First(&reviewer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(reviewer.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	if !reviewer.IsActive {
		return nil, ErrInvalidCredentials
	}
	return &reviewer, nil
}

// ObtainToken exchanges credentials for an access/refresh token pair
func ObtainToken(c *fiber.Ctx) error {
	reqData, ok := c.Locals("validatedCredentials").(*authValidator.ObtainTokenRequest)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	reviewer, err := Authenticate(database.Database.Db, reqData.Username, reqData.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		utils.Logger.WithField("username", reqData.Username).Info("Rejected token request")
		return middleware.Unauthenticated(c, "No active account found with the given credentials")
	}
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to authenticate")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	pair, err := middleware.GenerateTokenPair(reviewer.ID)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to sign tokens")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token issued!", pair)
}

// RefreshToken issues a new access token from a valid refresh token
func RefreshToken(c *fiber.Ctx) error {
	refresh, _ := c.Locals("validatedRefresh").(string)

	reviewerID, err := middleware.ParseJWT(refresh, middleware.TokenTypeRefresh)
	if err != nil {
		return middleware.Unauthenticated(c, "Token is invalid or expired")
	}

	if err := database.Database.Db.Where("id = ? AND is_active = ?", reviewerID, true).First(&models.Reviewer{}).Error; err != nil {
		return middleware.Unauthenticated(c, "Token is invalid or expired")
	}

	access, err := middleware.GenerateJWT(reviewerID, middleware.TokenTypeAccess, config.AppConfig.AccessTokenLifetime)
	if err != nil {
		utils.Logger.WithError(err).Error("Failed to sign access token")
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token refreshed!", fiber.Map{"access": access})
}

// VerifyToken reports whether a token of either type is valid
func VerifyToken(c *fiber.Ctx) error {
	token, _ := c.Locals("validatedToken").(string)

	if _, err := middleware.ParseJWT(token, ""); err != nil {
		return middleware.Unauthenticated(c, "Token is invalid or expired")
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Token is valid!", fiber.Map{})
}

// LoginPage renders the session login form
func LoginPage(c *fiber.Ctx) error {
	return c.Render("login", fiber.Map{
		"next": safeNext(c.Query("next")),
	})
}

// Login authenticates the form credentials and starts a session
func Login(c *fiber.Ctx) error {
	username := strings.TrimSpace(c.FormValue("username"))
	password := c.FormValue("password")
	next := safeNext(c.FormValue("next"))

	reviewer, err := Authenticate(database.Database.Db, username, password)
	if err != nil {
		if !errors.Is(err, ErrInvalidCredentials) {
			utils.Logger.WithError(err).Error("Failed to authenticate")
		}
		return c.Render("login", fiber.Map{
			"error":    "Please enter a correct username and password.",
			"username": username,
			"next":     next,
		})
	}

	if err := middleware.Login(c, reviewer); err != nil {
		utils.Logger.WithError(err).Error("Failed to start session")
		return fiber.ErrInternalServerError
	}

	loginAt := time.Now()
	if err := database.Database.Db.Model(reviewer).Update("last_login", &loginAt).Error; err != nil {
		utils.Logger.WithError(err).WithField("reviewer_id", reviewer.ID).Warn("Failed to record last login")
	}

	return c.Redirect(next, fiber.StatusFound)
}

// Logout ends the session
func Logout(c *fiber.Ctx) error {
	if err := middleware.Logout(c); err != nil {
		utils.Logger.WithError(err).Warn("Failed to destroy session")
	}
	return c.Redirect("/", fiber.StatusFound)
}

// safeNext only allows local redirect targets
func safeNext(next string) string {
	if !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") {
		return "/"
	}
	return next
}

package middleware

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"cacc/config"
	"cacc/database"
	"cacc/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// ErrInvalidToken is returned for tokens that are malformed, expired, wrongly signed or of the wrong type
var ErrInvalidToken = errors.New("token is invalid or expired")

// TokenPair is the body returned by the token obtain endpoint
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// GenerateJWT generates a signed token of the given type for a reviewer
func GenerateJWT(reviewerID uint, tokenType string, lifetime time.Duration) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"token_type": tokenType,
		"user_id":    reviewerID,
		"jti":        uuid.NewString(),
		"iat":        now.Unix(),
		"exp":        now.Add(lifetime).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	jwtSecret := []byte(config.AppConfig.JWTKey)

	return token.SignedString(jwtSecret)
}

// GenerateTokenPair issues an access and a refresh token for a reviewer
func GenerateTokenPair(reviewerID uint) (TokenPair, error) {
	access, err := GenerateJWT(reviewerID, TokenTypeAccess, config.AppConfig.AccessTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}
	refresh, err := GenerateJWT(reviewerID, TokenTypeRefresh, config.AppConfig.RefreshTokenLifetime)
	if err != nil {
		return TokenPair{}, err
	}
	return TokenPair{Access: access, Refresh: refresh}, nil
}

// ParseJWT validates tokenString and returns the reviewer id it was issued for.
// An empty expectedType accepts any token type.
func ParseJWT(tokenString, expectedType string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		// Check if the token method is valid
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(config.AppConfig.JWTKey), nil
	})
	if err != nil || !token.Valid {
		return 0, ErrInvalidToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}

	tokenType, _ := claims["token_type"].(string)
	if tokenType != TokenTypeAccess && tokenType != TokenTypeRefresh {
		return 0, ErrInvalidToken
	}
	if expectedType != "" && tokenType != expectedType {
		return 0, ErrInvalidToken
	}

	// JWT numbers decode as float64
	userID, ok := claims["user_id"].(float64)
	if !ok || userID < 1 {
		return 0, ErrInvalidToken
	}
	return uint(userID), nil
}

// JWTMiddleware authenticates the request from a bearer access token. Requests without a
// usable token are rejected with 401.
func JWTMiddleware(c *fiber.Ctx) error {
	authHeader := c.Get(fiber.HeaderAuthorization)
	if authHeader == "" {
		return Unauthenticated(c, "Authentication credentials were not provided.")
	}

	// The token should be prefixed with "Bearer "
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return Unauthenticated(c, "Invalid Authorization header format")
	}

	reviewerID, err := ParseJWT(strings.TrimSpace(authHeader[len("Bearer "):]), TokenTypeAccess)
	if err != nil {
		return Unauthenticated(c, "Given token not valid for any token type")
	}

	var reviewer models.Reviewer
	if err := database.Database.Db.Where("id = ? AND is_active = ?", reviewerID, true).First(&reviewer).Error; err != nil {
		return Unauthenticated(c, "User not found")
	}

	c.Locals("reviewer", &reviewer)
	c.Locals("userId", reviewer.ID)

	return c.Next()
}

// CurrentReviewer returns the reviewer resolved by JWTMiddleware or SessionMiddleware
func CurrentReviewer(c *fiber.Ctx) (*models.Reviewer, bool) {
	reviewer, ok := c.Locals("reviewer").(*models.Reviewer)
	return reviewer, ok && reviewer != nil
}

// Unauthenticated writes a 401 with the bearer challenge header
func Unauthenticated(c *fiber.Ctx, message string) error {
	c.Set(fiber.HeaderWWWAuthenticate, `Bearer realm="api"`)
	return JsonResponse(c, fiber.StatusUnauthorized, false, message, nil)
}

func JsonResponse(c *fiber.Ctx, statusCode int, status bool, message string, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  status,
		"message": message,
		"data":    data,
	})
}

func ValidationErrorResponse(c *fiber.Ctx, errors map[string]string) error {
	return JsonResponse(c, fiber.StatusBadRequest, false, "Validation failed!", errors)
}

// Package testutil wires an in-memory database, fixtures and the full app for package tests.
package testutil

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"cacc/config"
	"cacc/database"
	"cacc/middleware"
	"cacc/models"
	"cacc/routers"
	"cacc/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Password is the plain-text password of every fixture reviewer
const Password = "correct-horse-battery"

// Config returns a deterministic configuration for tests
func Config() *config.Config {
	return &config.Config{
		Port:                 "0",
		DBDriver:             "sqlite",
		JWTKey:               "test-secret",
		SaltRound:            bcrypt.MinCost,
		AccessTokenLifetime:  5 * time.Minute,
		RefreshTokenLifetime: 24 * time.Hour,
		PageSize:             100,
		MinRating:            1,
		MaxRating:            5,
		TimeZone:             time.UTC,
		AllowedOrigins:       "*",
		LogLevel:             "error",
	}
}

// SetupTestDB installs the test config and a fresh migrated in-memory database as the
// global connection
func SetupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	config.AppConfig = Config()
	utils.ConfigureLogger(config.AppConfig)

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := database.SQLiteDSN(fmt.Sprintf("file:%s?mode=memory&cache=shared", name))

	db, err := database.Open(sqlite.Open(dsn), false)
	require.NoError(t, err, "open test database")

	database.Database = database.DbInstance{Db: db}

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			sqlDB.Close()
		}
	})
	return db
}

// Fixtures mirrors the companies, users and reviews every API test starts from
type Fixtures struct {
	Admin     models.Reviewer
	Regular   models.Reviewer
	Other     models.Reviewer
	Inactive  models.Reviewer
	Companies []models.Company
	Reviews   []models.CompanyReview
}

// ReviewsBy returns the fixture reviews written by reviewer
func (f *Fixtures) ReviewsBy(reviewer models.Reviewer) []models.CompanyReview {
	var out []models.CompanyReview
	for _, r := range f.Reviews {
		if r.ReviewerID == reviewer.ID {
			out = append(out, r)
		}
	}
	return out
}

// Seed inserts the fixtures
func Seed(t *testing.T, db *gorm.DB) *Fixtures {
	t.Helper()

	hashed, err := bcrypt.GenerateFromPassword([]byte(Password), bcrypt.MinCost)
	require.NoError(t, err)

	f := &Fixtures{
		Admin:    models.Reviewer{Username: "admin", FirstName: "Ada", LastName: "Admin", Password: string(hashed), IsStaff: true, IsActive: true},
		Regular:  models.Reviewer{Username: "regular", FirstName: "Rita", LastName: "Regular", Password: string(hashed), IsActive: true},
		Other:    models.Reviewer{Username: "other", FirstName: "Otto", Password: string(hashed), IsActive: true},
		Inactive: models.Reviewer{Username: "inactive", Password: string(hashed)},
	}
	for _, r := range []*models.Reviewer{&f.Admin, &f.Regular, &f.Other, &f.Inactive} {
		require.NoError(t, db.Create(r).Error)
	}

	f.Companies = []models.Company{{Name: "Acme"}, {Name: "Globex"}, {Name: "Initech"}}
	require.NoError(t, db.Create(&f.Companies).Error)

	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	f.Reviews = []models.CompanyReview{
		{ReviewerID: f.Regular.ID, CompanyID: f.Companies[0].ID, Rating: 4, Title: "Solid", Summary: "Good place to work.", IPAddress: "10.0.0.1", Date: day},
		{ReviewerID: f.Regular.ID, CompanyID: f.Companies[1].ID, Rating: 2, Title: "Meh", Summary: "Long hours.", IPAddress: "10.0.0.1", Date: day.Add(24 * time.Hour)},
		{ReviewerID: f.Other.ID, CompanyID: f.Companies[0].ID, Rating: 5, Title: "Great", Summary: "Loved it.", IPAddress: "10.0.0.2", Date: day},
		{ReviewerID: f.Admin.ID, CompanyID: f.Companies[2].ID, Rating: 3, Title: "Fine", Summary: "Nothing special.", IPAddress: "10.0.0.3", Date: day.Add(48 * time.Hour)},
	}
	require.NoError(t, db.Create(&f.Reviews).Error)

	return f
}

// NewApp returns the application under test
func NewApp(t *testing.T) *fiber.App {
	t.Helper()
	return routers.New()
}

// AccessToken issues an access token for reviewer
func AccessToken(t *testing.T, reviewer models.Reviewer) string {
	t.Helper()
	token, err := middleware.GenerateJWT(reviewer.ID, middleware.TokenTypeAccess, config.AppConfig.AccessTokenLifetime)
	require.NoError(t, err)
	return token
}

// Envelope is the JSON body shape of every API response
type Envelope struct {
	Status  bool            `json:"status"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// Page is the decoded data of a list response
type Page[T any] struct {
	Count    int64   `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// Request describes one call against the app
type Request struct {
	Method  string
	Path    string
	Token   string
	Body    interface{}
	Headers map[string]string
}

// Do sends req through app and returns the raw response
func Do(t *testing.T, app *fiber.App, req Request) *http.Response {
	t.Helper()

	var body io.Reader
	if req.Body != nil {
		raw, err := json.Marshal(req.Body)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}

	httpReq := httptest.NewRequest(req.Method, req.Path, body)
	if req.Body != nil {
		httpReq.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if req.Token != "" {
		httpReq.Header.Set(fiber.HeaderAuthorization, "Bearer "+req.Token)
	}
	for k, v := range req.Headers {
		httpReq.Header.Set(k, v)
	}

	resp, err := app.Test(httpReq, -1)
	require.NoError(t, err)
	return resp
}

// DoJSON sends req and decodes the envelope. Responses without a body yield a zero Envelope.
func DoJSON(t *testing.T, app *fiber.App, req Request) (int, Envelope) {
	t.Helper()

	resp := Do(t, app, req)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var env Envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), "decode body %q", raw)
	}
	return resp.StatusCode, env
}

// DecodeData unmarshals the envelope data into out
func DecodeData(t *testing.T, env Envelope, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(env.Data, out), "decode data %s", env.Data)
}

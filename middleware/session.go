package middleware

import (
	"net/url"
	"time"

	"cacc/database"
	"cacc/models"
	"cacc/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
)

const sessionReviewerKey = "reviewerId"

// SessionStore backs the server-rendered pages
var SessionStore = session.New(session.Config{
	Expiration:     14 * 24 * time.Hour,
	KeyLookup:      "cookie:sessionid",
	CookieHTTPOnly: true,
	CookieSameSite: fiber.CookieSameSiteLaxMode,
})

// SessionMiddleware resolves the reviewer stored in the session, if any. It never rejects.
func SessionMiddleware(c *fiber.Ctx) error {
	sess, err := SessionStore.Get(c)
	if err != nil {
		utils.Logger.WithError(err).Warn("Failed to load session")
		return c.Next()
	}

	reviewerID, ok := sess.Get(sessionReviewerKey).(uint)
	if !ok {
		return c.Next()
	}

	var reviewer models.Reviewer
	if err := database.Database.Db.Where("id = ? AND is_active = ?", reviewerID, true).First(&reviewer).Error; err == nil {
		c.Locals("reviewer", &reviewer)
		c.Locals("userId", reviewer.ID)
	}

	return c.Next()
}

// Login binds reviewer to a fresh session
func Login(c *fiber.Ctx, reviewer *models.Reviewer) error {
	sess, err := SessionStore.Get(c)
	if err != nil {
		return err
	}
	if err := sess.Regenerate(); err != nil {
		return err
	}
	sess.Set(sessionReviewerKey, reviewer.ID)
	return sess.Save()
}

// Logout destroys the current session
func Logout(c *fiber.Ctx) error {
	sess, err := SessionStore.Get(c)
	if err != nil {
		return err
	}
	return sess.Destroy()
}

// AdminOnly guards server-rendered pages. Anonymous visitors are redirected to the login
// page and authenticated non-staff reviewers get 403.
func AdminOnly(c *fiber.Ctx) error {
	reviewer, ok := CurrentReviewer(c)
	if !ok {
		return c.Redirect("/login?next="+url.QueryEscape(c.OriginalURL()), fiber.StatusFound)
	}
	if !reviewer.IsStaff {
		return c.Status(fiber.StatusForbidden).SendString("403 Forbidden")
	}
	return c.Next()
}

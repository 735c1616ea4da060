package middleware

import (
	"cacc/models"

	"github.com/gofiber/fiber/v2"
)

// Action names a viewset operation for permission checks
type Action string

const (
	ActionList          Action = "list"
	ActionCreate        Action = "create"
	ActionRetrieve      Action = "retrieve"
	ActionUpdate        Action = "update"
	ActionPartialUpdate Action = "partial_update"
	ActionDestroy       Action = "destroy"
)

// Policy decides whether an authenticated reviewer may perform an action
type Policy func(action Action, reviewer *models.Reviewer) bool

// IsAuthenticated allows every action to any authenticated reviewer
func IsAuthenticated(_ Action, reviewer *models.Reviewer) bool {
	return reviewer != nil
}

// StaffCanModify allows reads and creation to any authenticated reviewer and restricts
// update and destroy to staff.
func StaffCanModify(action Action, reviewer *models.Reviewer) bool {
	if reviewer == nil {
		return false
	}
	switch action {
	case ActionList, ActionCreate, ActionRetrieve:
		return true
	case ActionUpdate, ActionPartialUpdate, ActionDestroy:
		return reviewer.IsStaff
	}
	return false
}

// CheckPermissionMiddleware returns a middleware that evaluates policy for action before
// any data access. It must run after JWTMiddleware.
func CheckPermissionMiddleware(policy Policy, action Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		reviewer, ok := CurrentReviewer(c)
		if !ok {
			return Unauthenticated(c, "Authentication credentials were not provided.")
		}

		if !policy(action, reviewer) {
			return JsonResponse(c, fiber.StatusForbidden, false, "You do not have permission to perform this action.", nil)
		}

		return c.Next()
	}
}

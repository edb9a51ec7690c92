// file: internals/helpers/auth/school_context.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"shuleni_backend/internals/constants"
)

// Locals keys hydrated by the auth middleware
const (
	LocUserID    = "user_id"
	LocSchoolID  = "school_id"
	LocRole      = "role"
	LocTeacherID = "teacher_id"
)

func uuidFromLocals(c *fiber.Ctx, key string) (uuid.UUID, error) {
	v := c.Locals(key)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" not found in token")
	}
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" is empty in token")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, key+" in token is not a valid UUID")
	}
	return id, nil
}

// GetUserID resolves the acting user from the token.
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocUserID)
}

// GetSchoolID resolves the caller's school. Every tenant-scoped handler
// starts here; a request without a school context fails closed with 401.
func GetSchoolID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocSchoolID)
}

// GetTeacherID resolves the caller's teacher record, when the caller is one.
func GetTeacherID(c *fiber.Ctx) (uuid.UUID, error) {
	return uuidFromLocals(c, LocTeacherID)
}

func GetRole(c *fiber.Ctx) string {
	if v, ok := c.Locals(LocRole).(string); ok {
		return v
	}
	return ""
}

// EnsureSchoolAdmin guards admin-only routes.
func EnsureSchoolAdmin(c *fiber.Ctx, feature string) error {
	if GetRole(c) != constants.RoleAdmin {
		return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorAdmin(feature))
	}
	return nil
}

// EnsureStaff allows teachers and admins through.
func EnsureStaff(c *fiber.Ctx, feature string) error {
	role := GetRole(c)
	for _, r := range constants.StaffRoles {
		if role == r {
			return nil
		}
	}
	return fiber.NewError(fiber.StatusForbidden, constants.RoleErrorTeacher(feature))
}

// file: internals/helpers/token.go
package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Keys yang di-hydrate middleware AuthJWT ke c.Locals.
const (
	LocUserID = "user_id"
	LocRole   = "role"
	LocNama   = "user_nama"
)

// GetUserIDFromToken mengambil user_id (UUID) dari locals hasil AuthJWT.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	id, err := uuid.Parse(strings.TrimSpace(s))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "user_id tidak valid")
	}
	return id, nil
}

// GetRoleFromToken mengambil role dari locals hasil AuthJWT.
func GetRoleFromToken(c *fiber.Ctx) (string, error) {
	v := c.Locals(LocRole)
	s, ok := v.(string)
	if !ok || strings.TrimSpace(s) == "" {
		return "", fiber.NewError(fiber.StatusUnauthorized, "Unauthorized")
	}
	return strings.TrimSpace(s), nil
}

// HasRole cek apakah role di token termasuk salah satu dari allowed.
func HasRole(c *fiber.Ctx, allowed ...string) bool {
	role, err := GetRoleFromToken(c)
	if err != nil {
		return false
	}
	for _, a := range allowed {
		if role == a {
			return true
		}
	}
	return false
}

package auth

import (
	"github.com/gofiber/fiber/v2"

	helper "mbgku_backend/internals/helpers"
)

// RequireRoles menolak request bila role di token tidak termasuk allowed.
// Dipasang SETELAH AuthJWT.
func RequireRoles(message string, allowed ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		role, err := helper.GetRoleFromToken(c)
		if err != nil {
			return err
		}
		for _, a := range allowed {
			if role == a {
				return c.Next()
			}
		}
		return fiber.NewError(fiber.StatusForbidden, message)
	}
}

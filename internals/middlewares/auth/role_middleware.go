package auth

import (
	"github.com/gofiber/fiber/v2"
)

// OnlyRoles batasi akses ke role tertentu (admin, finance, dst).
func OnlyRoles(allowed ...string) fiber.Handler {
	allowedSet := make(map[string]struct{}, len(allowed))
	for _, r := range allowed {
		allowedSet[r] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		role, _ := c.Locals("role").(string)
		if _, ok := allowedSet[role]; !ok {
			return fiber.NewError(fiber.StatusForbidden, "Akses ditolak untuk role ini")
		}
		return c.Next()
	}
}

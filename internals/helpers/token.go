package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// GetUserUUID ambil user_id dari Locals (diisi middleware AuthJWT).
// uuid.Nil artinya request tanpa identitas (guest / webhook).
func GetUserUUID(c *fiber.Ctx) uuid.UUID {
	if raw := c.Locals("user_id"); raw != nil {
		if s, ok := raw.(string); ok {
			if parsed, err := uuid.Parse(s); err == nil {
				return parsed
			}
		}
	}
	return uuid.Nil
}

func GetUserRole(c *fiber.Ctx) string {
	if raw := c.Locals("role"); raw != nil {
		if s, ok := raw.(string); ok {
			return s
		}
	}
	return ""
}

func ParseUUIDParam(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Params(name)))
}

func ParseUUIDQuery(c *fiber.Ctx, name string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(c.Query(name)))
}

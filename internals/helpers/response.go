package helper

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

/* =========================================================
   Amplop response seragam:
   { code, status, message, data? | errors? }
========================================================= */

func Success(c *fiber.Ctx, message string, data interface{}) error {
	return SuccessWithCode(c, fiber.StatusOK, message, data)
}

// SuccessWithCode untuk status selain 200 (misal 201 saat create).
func SuccessWithCode(c *fiber.Ctx, code int, message string, data interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func Error(c *fiber.Ctx, code int, message string) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
	})
}

// ErrorWithDetails bawa rincian per field (dipakai error validasi).
func ErrorWithDetails(c *fiber.Ctx, code int, message string, details interface{}) error {
	return c.Status(code).JSON(fiber.Map{
		"code":    code,
		"status":  "error",
		"message": message,
		"errors":  details,
	})
}

// ValidationError petakan validator.v10 ke map field -> tag pelanggaran,
// contoh: {"member_email": "email", "rule_value": "gt"}.
func ValidationError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		return Error(c, fiber.StatusBadRequest, "Invalid input")
	}

	fields := make(map[string]string, len(ve))
	for _, fe := range ve {
		fields[fe.Field()] = fe.Tag()
	}
	return ErrorWithDetails(c, fiber.StatusBadRequest, "Validasi gagal", fields)
}

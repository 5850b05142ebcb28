package utils

import (
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// RespondWithError sends a JSON error response.
func RespondWithError(c *fiber.Ctx, statusCode int, message string) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status":  "error",
		"message": message,
	})
}

// RespondWithJSON sends a JSON success response.
func RespondWithJSON(c *fiber.Ctx, statusCode int, data interface{}) error {
	return c.Status(statusCode).JSON(fiber.Map{
		"status": "success",
		"data":   data,
	})
}

// RespondWithValidationErrors sends a 400 carrying the formatted field
// errors.
func RespondWithValidationErrors(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"status":  "error",
		"message": "Validation failed",
		"errors":  FormatValidationErrors(err),
	})
}

// FormatValidationErrors formats validation errors from validator/v10 into
// one human-readable line per failed field.
func FormatValidationErrors(err error) []string {
	var errors []string
	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		if err != nil {
			errors = append(errors, err.Error())
		}
		return errors
	}
	for _, fe := range verrs {
		element := fmt.Sprintf("Field '%s' failed on the '%s' tag", fe.Field(), fe.Tag())
		if fe.Param() != "" {
			element = fmt.Sprintf("%s (value: %s)", element, fe.Param())
		}
		errors = append(errors, element)
	}
	return errors
}

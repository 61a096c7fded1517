// Package response centralizes the JSON response shapes and the mapping
// from domain error kinds to HTTP status codes.
package response

import (
	"log"

	domainerrors "zeropay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Success sends {"success": true, ...} with status 200.
func Success(c *fiber.Ctx, message string, data interface{}) error {
	return c.JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Created sends a success payload with status 201.
func Created(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

// Error sends {"success": false, "message": ...} with the given status.
func Error(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// BadRequest sends a 400 error response.
func BadRequest(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusBadRequest, message)
}

// Unauthorized sends a 401 error response.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusUnauthorized, message)
}

// NotFound sends a 404 error response.
func NotFound(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusNotFound, message)
}

// ServerError sends a 500 error response.
func ServerError(c *fiber.Ctx, message string) error {
	return Error(c, fiber.StatusInternalServerError, message)
}

// ValidationErrors sends field-level errors with status 400.
func ValidationErrors(c *fiber.Ctx, errs map[string]string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": "Invalid input",
		"errors":  errs,
	})
}

// DomainError translates a typed service error into an HTTP response.
// Unexpected errors are logged and masked behind a generic message.
func DomainError(c *fiber.Ctx, err error) error {
	switch domainerrors.KindOf(err) {
	case domainerrors.KindValidation, domainerrors.KindInvalidState:
		return BadRequest(c, err.Error())
	case domainerrors.KindNotFound:
		return NotFound(c, err.Error())
	case domainerrors.KindConflict:
		return Error(c, fiber.StatusConflict, err.Error())
	case domainerrors.KindAuth:
		return Unauthorized(c, err.Error())
	default:
		log.Printf("internal error: %v", err)
		return ServerError(c, "An unexpected error occurred")
	}
}

package utils

import (
	"log"

	apperrors "tuplepay/internal/errors"

	"github.com/gofiber/fiber/v2"
)

// Respond sends a JSON response with the specified status code.
func Respond(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

// Success sends a successful JSON response.
func Success(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusOK, data)
}

// Created sends a JSON response with status 201.
func Created(c *fiber.Ctx, data interface{}) error {
	return Respond(c, fiber.StatusCreated, data)
}

// BadRequest sends a JSON error response with status 400.
func BadRequest(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{"error": message})
}

// ValidationFailed sends a 400 with per-field details.
func ValidationFailed(c *fiber.Ctx, details map[string]string) error {
	return Respond(c, fiber.StatusBadRequest, fiber.Map{
		"error":   "validation failed",
		"details": details,
	})
}

// Unauthorized sends a JSON error response with status 401.
func Unauthorized(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusUnauthorized, fiber.Map{"error": message})
}

// Forbidden sends a JSON error response with status 403.
func Forbidden(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusForbidden, fiber.Map{"error": message})
}

// InternalError sends a JSON error response with status 500.
func InternalError(c *fiber.Ctx, message string) error {
	return Respond(c, fiber.StatusInternalServerError, fiber.Map{"error": message})
}

// Error translates a service error into its JSON response. Internal
// failures are logged and answered with a generic message.
func Error(c *fiber.Ctx, err error) error {
	if apperrors.IsInternal(err) || apperrors.CodeOf(err) == "INTERNAL_ERROR" {
		log.Printf("%s %s failed: %v", c.Method(), c.Path(), err)
		return InternalError(c, "internal server error")
	}
	return Respond(c, apperrors.StatusOf(err), fiber.Map{
		"error": err.Error(),
		"code":  apperrors.CodeOf(err),
	})
}

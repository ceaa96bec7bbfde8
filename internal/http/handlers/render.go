package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"ministore/internal/domain"
	applog "ministore/internal/log"
)

func ok(c *fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{"success": true, "data": data})
}

func created(c *fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"success": true, "data": data})
}

// fail maps the error taxonomy onto HTTP statuses. Every failure body
// carries a machine-checkable error string; validation failures add the
// field list.
func fail(c *fiber.Ctx, err error) error {
	var verr *domain.ValidationError
	if errors.As(err, &verr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":          false,
			"error":            "Validation failed",
			"validationErrors": verr.Fields,
		})
	}
	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"success":   false,
			"error":     stockErr.Error(),
			"itemId":    stockErr.ItemID,
			"available": stockErr.Available,
		})
	}
	if errors.Is(err, domain.ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Not found",
		})
	}
	if errors.Is(err, domain.ErrConflict) {
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"success": false,
			"error":   "Duplicate key",
		})
	}
	var unavail *domain.StorageUnavailableError
	if errors.As(err, &unavail) {
		applog.Error(c, "storage.unavailable", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"error":   "Storage unavailable",
		})
	}
	// Unexpected: log the detail, keep the response generic.
	applog.Error(c, "server.error", err, nil)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"success": false,
		"error":   "Internal server error",
	})
}

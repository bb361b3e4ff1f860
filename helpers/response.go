package helpers

import (
	"errors"

	"luckyspin/game"
	"luckyspin/ledger"

	"github.com/gofiber/fiber/v2"
)

func JSONSuccess(c *fiber.Ctx, message string, data any) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": message,
		"data":    data,
	})
}

func JSONError(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": message,
		"data":    nil,
	})
}

// JSONDenied carries the guard's machine-readable reason alongside the
// user-facing message.
func JSONDenied(c *fiber.Ctx, d *game.Denial) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"message": d.Message,
		"reason":  string(d.Reason),
		"data":    nil,
	})
}

// JSONFromError maps a service error to the right envelope and status code.
func JSONFromError(c *fiber.Ctx, err error) error {
	if d, ok := game.AsDenial(err); ok {
		return JSONDenied(c, d)
	}
	switch {
	case errors.Is(err, game.ErrValidation),
		errors.Is(err, game.ErrInsufficientFunds),
		errors.Is(err, ledger.ErrBonusAlreadyClaimed):
		return JSONError(c, err.Error())
	case errors.Is(err, game.ErrConfigurationInvalid):
		return JSONError(c, err.Error())
	case errors.Is(err, game.ErrUpstreamUnavailable):
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"success": false,
			"message": game.ErrUpstreamUnavailable.Error(),
			"data":    nil,
		})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"success": false,
			"message": "something went wrong",
			"data":    nil,
		})
	}
}

package middleware

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cardbazar/cardbazar/backend/utils"
)

// CustomErrorHandler turns errors that escape the handlers into the
// standard JSON error envelope instead of fiber's plain-text default.
func CustomErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code = fiberErr.Code
	}

	if code >= 500 {
		slog.Error("Unhandled request error",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", code),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Internal server error")
	}

	return utils.SendError(c, code, "REQUEST_FAILED", err.Error(), nil)
}

package middleware

import (
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/internal/domain/auth"
)

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

// AuthRequired middleware ensures the request carries a valid access token
func AuthRequired(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token == "" {
			return utils.SendUnauthorized(c, "Authentication required")
		}

		actor, err := authService.ResolveActor(c.Context(), token)
		if err != nil {
			slog.Debug("Auth required: token rejected", slog.String("error", err.Error()))
			return utils.SendUnauthorized(c, "Invalid or expired token")
		}

		c.Locals("user", actor)
		return c.Next()
	}
}

// OptionalAuth middleware resolves the actor when a token is present but
// lets anonymous requests through
func OptionalAuth(authService auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := bearerToken(c)
		if token != "" {
			if actor, err := authService.ResolveActor(c.Context(), token); err == nil {
				c.Locals("user", actor)
			}
		}
		return c.Next()
	}
}

// AdminRequired middleware ensures the resolved actor has admin privileges.
// It must run after AuthRequired.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor, ok := utils.ExtractActor(c)
		if !ok {
			slog.Warn("Admin required: no actor in context")
			return utils.SendForbidden(c, "Access denied")
		}

		if !actor.IsAdmin {
			slog.Warn("Admin required: actor lacks admin privileges",
				slog.Int64("user_id", actor.ID),
				slog.String("username", actor.Username))
			return utils.SendForbidden(c, "Admin access required")
		}

		return c.Next()
	}
}

package handlers

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/cardbazar/cardbazar/backend/utils"
)

// Me returns the authenticated user's profile
func (w *WebApp) Me(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	user, err := w.Repos.User.GetByID(c.Context(), actor.ID)
	if err != nil {
		slog.Error("Failed to load profile",
			slog.Int64("user_id", actor.ID),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load profile")
	}
	return utils.SendSuccess(c, user, "")
}

// MyCards returns the authenticated user's card collection
func (w *WebApp) MyCards(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	cards, err := w.Repos.UserCard.GetAllByUserID(c.Context(), actor.ID)
	if err != nil {
		slog.Error("Failed to load collection",
			slog.Int64("user_id", actor.ID),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load collection")
	}
	return utils.SendSuccess(c, cards, "")
}

package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/internal/domain/packs"
)

// ListPacks returns the purchasable pack catalog
func (w *WebApp) ListPacks(c *fiber.Ctx) error {
	list, err := w.PackService.ListPacks(c.Context())
	if err != nil {
		slog.Error("Failed to list packs", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to load packs")
	}
	return utils.SendSuccess(c, list, "")
}

// OpenPack charges the caller and returns the rolled cards
func (w *WebApp) OpenPack(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	packID, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return utils.SendBadRequest(c, "Invalid pack id", nil)
	}

	cards, err := w.PackService.Open(c.Context(), actor.ID, packID)
	switch {
	case err == nil:
		return utils.SendSuccess(c, cards, "Pack opened")
	case errors.Is(err, packs.ErrPackNotFound):
		return utils.SendNotFound(c, "Pack not found")
	case errors.Is(err, packs.ErrInsufficientFunds):
		return utils.SendBadRequest(c, "Insufficient funds", nil)
	case errors.Is(err, packs.ErrEmptyCatalog):
		return utils.SendInternalServerError(c, "No cards available to roll")
	default:
		slog.Error("Pack open failed",
			slog.Int64("pack_id", packID),
			slog.Int64("user_id", actor.ID),
			slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to open pack")
	}
}

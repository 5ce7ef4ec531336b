package handlers

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/internal/domain/trading"
)

// sendTradingError maps trade engine failures onto HTTP responses.
func sendTradingError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, trading.ErrUnauthorized):
		return utils.SendUnauthorized(c, "Authentication required")
	case errors.Is(err, trading.ErrInvalidArgument):
		return utils.SendBadRequest(c, err.Error(), nil)
	case errors.Is(err, trading.ErrNotFound):
		return utils.SendNotFound(c, "Trade not found")
	case errors.Is(err, trading.ErrConflict):
		return utils.SendConflict(c, "You already accepted this trade", nil)
	default:
		slog.Error("Trade operation failed", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Trade operation failed")
	}
}

// CreateTrade opens a new trade offer
func (w *WebApp) CreateTrade(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	var req webmodels.CreateTradeRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	id, err := w.TradeService.Create(c.Context(), actor.ID, req.SenderCards, req.ReceiverCards)
	if err != nil {
		return sendTradingError(c, err)
	}

	return utils.SendCreated(c, fiber.Map{"trade_id": id}, "Trade created")
}

// ListTrades returns a page of open trades. With a search term the raw
// trades matching by card name come back; without one each trade is
// flattened into card and participant summary lines.
func (w *WebApp) ListTrades(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	page := c.Query("page", "1")
	search := c.Query("search")

	result, err := w.TradeService.List(c.Context(), actor.ID, page, search)
	if err != nil {
		return sendTradingError(c, err)
	}

	if search != "" {
		return utils.SendSuccess(c, result.Trades, "")
	}
	return utils.SendSuccess(c, result.Summaries, "")
}

// GetTrade returns a single trade with its card entries and participants
func (w *WebApp) GetTrade(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	trade, err := w.TradeService.Get(c.Context(), actor.ID, c.Params("id"))
	if err != nil {
		return sendTradingError(c, err)
	}
	return utils.SendSuccess(c, trade, "")
}

// AvailableTrades returns the open trades the caller can fulfill
func (w *WebApp) AvailableTrades(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	trades, err := w.TradeService.Available(c.Context(), actor.ID)
	if err != nil {
		return sendTradingError(c, err)
	}
	return utils.SendSuccess(c, trades, "")
}

// AcceptTrade joins the caller to a trade as its receiver
func (w *WebApp) AcceptTrade(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	message, err := w.TradeService.Accept(c.Context(), actor.ID, c.Params("id"))
	if err != nil {
		return sendTradingError(c, err)
	}
	return utils.SendSuccess(c, nil, message)
}

// MyTrades returns the trades the caller proposed
func (w *WebApp) MyTrades(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	trades, err := w.TradeService.Mine(c.Context(), actor.ID)
	if err != nil {
		return sendTradingError(c, err)
	}
	return utils.SendSuccess(c, trades, "")
}

// MyAcceptedTrades returns the trades the caller joined as receiver
func (w *WebApp) MyAcceptedTrades(c *fiber.Ctx) error {
	actor, _ := utils.ExtractActor(c)

	trades, err := w.TradeService.Accepted(c.Context(), actor.ID)
	if err != nil {
		return sendTradingError(c, err)
	}
	return utils.SendSuccess(c, trades, "")
}

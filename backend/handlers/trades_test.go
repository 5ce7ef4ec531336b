package handlers

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/internal/domain/auth"
	"github.com/cardbazar/cardbazar/internal/domain/trading"
	"github.com/cardbazar/cardbazar/marketplace/database/models"
)

// stubTradeService scripts the trade engine for handler tests.
type stubTradeService struct {
	createID  int64
	createErr error
	getTrade  *models.Trade
	getErr    error
	acceptMsg string
	acceptErr error
	list      *trading.ListResult
	listErr   error
}

func (s *stubTradeService) Create(ctx context.Context, actorID int64, senderCardIDs, receiverCardIDs []int64) (int64, error) {
	return s.createID, s.createErr
}

func (s *stubTradeService) List(ctx context.Context, actorID int64, page, search string) (*trading.ListResult, error) {
	return s.list, s.listErr
}

func (s *stubTradeService) Get(ctx context.Context, actorID int64, id string) (*models.Trade, error) {
	return s.getTrade, s.getErr
}

func (s *stubTradeService) Available(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	return nil, nil
}

func (s *stubTradeService) Accept(ctx context.Context, actorID int64, id string) (string, error) {
	return s.acceptMsg, s.acceptErr
}

func (s *stubTradeService) Mine(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	return nil, nil
}

func (s *stubTradeService) Accepted(ctx context.Context, actorID int64) ([]*models.Trade, error) {
	return nil, nil
}

func newTestApp(svc trading.Service) *fiber.App {
	webApp := &WebApp{TradeService: svc}

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user", auth.Actor{ID: 7, Username: "ana"})
		return c.Next()
	})
	app.Post("/trades", webApp.CreateTrade)
	app.Get("/trades", webApp.ListTrades)
	app.Get("/trades/:id", webApp.GetTrade)
	app.Post("/trades/accept/:id", webApp.AcceptTrade)
	return app
}

func decodeResponse(t *testing.T, body io.Reader) webmodels.APIResponse {
	t.Helper()
	var resp webmodels.APIResponse
	require.NoError(t, json.NewDecoder(body).Decode(&resp))
	return resp
}

func TestCreateTrade(t *testing.T) {
	app := newTestApp(&stubTradeService{createID: 42})

	req := httptest.NewRequest("POST", "/trades",
		strings.NewReader(`{"sender_cards":[1],"receiver_cards":[2]}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	assert.True(t, resp.Success)
}

func TestCreateTrade_InvalidArgument(t *testing.T) {
	app := newTestApp(&stubTradeService{createErr: trading.ErrInvalidArgument})

	req := httptest.NewRequest("POST", "/trades", strings.NewReader(`{}`))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestGetTrade_NotFound(t *testing.T) {
	app := newTestApp(&stubTradeService{getErr: trading.ErrNotFound})

	res, err := app.Test(httptest.NewRequest("GET", "/trades/99", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestAcceptTrade_Conflict(t *testing.T) {
	app := newTestApp(&stubTradeService{acceptErr: trading.ErrConflict})

	res, err := app.Test(httptest.NewRequest("POST", "/trades/accept/5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusConflict, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "CONFLICT", resp.Error.Code)
}

func TestAcceptTrade_Success(t *testing.T) {
	app := newTestApp(&stubTradeService{acceptMsg: "Trade accepted"})

	res, err := app.Test(httptest.NewRequest("POST", "/trades/accept/5", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	assert.Equal(t, "Trade accepted", resp.Message)
}

func TestListTrades_SearchReturnsRawTrades(t *testing.T) {
	app := newTestApp(&stubTradeService{list: &trading.ListResult{
		Trades: []*models.Trade{{ID: 3}},
	}})

	res, err := app.Test(httptest.NewRequest("GET", "/trades?search=alpha", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	assert.Len(t, data, 1)
}

func TestListTrades_DefaultReturnsSummaries(t *testing.T) {
	app := newTestApp(&stubTradeService{list: &trading.ListResult{
		Summaries: []trading.TradeSummary{{ID: 5}},
	}})

	res, err := app.Test(httptest.NewRequest("GET", "/trades", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	resp := decodeResponse(t, res.Body)
	data, ok := resp.Data.([]interface{})
	require.True(t, ok)
	require.Len(t, data, 1)
	first, ok := data[0].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, float64(5), first["id"])
}

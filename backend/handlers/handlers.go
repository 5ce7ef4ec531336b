package handlers

import (
	"github.com/gofiber/fiber/v2"

	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/internal/domain/auth"
	"github.com/cardbazar/cardbazar/internal/domain/packs"
	"github.com/cardbazar/cardbazar/internal/domain/trading"
	"github.com/cardbazar/cardbazar/marketplace"
	"github.com/cardbazar/cardbazar/marketplace/database"
	"github.com/cardbazar/cardbazar/marketplace/services"
)

// WebApp represents the web application with all dependencies
type WebApp struct {
	Config        *marketplace.Config
	DB            *database.DB
	Repos         *webmodels.Repositories
	AuthService   auth.Service
	TradeService  trading.Service
	PackService   packs.Service
	SpacesService *services.SpacesService
	Version       string
	Commit        string
}

// HealthCheck reports service and database health
func (w *WebApp) HealthCheck(c *fiber.Ctx) error {
	health := webmodels.NewHealthCheck(w.Version)

	if err := w.DB.Ping(c.Context()); err != nil {
		health.AddComponent("database", "unhealthy", err.Error())
	} else {
		health.AddComponent("database", "healthy", "")
	}

	status := fiber.StatusOK
	if health.Status != "healthy" {
		status = fiber.StatusServiceUnavailable
	}
	return utils.SendJSON(c, status, health)
}

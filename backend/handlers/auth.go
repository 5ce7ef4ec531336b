package handlers

import (
	"errors"
	"log/slog"
	"strings"

	"github.com/gofiber/fiber/v2"

	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/backend/utils"
	"github.com/cardbazar/cardbazar/internal/domain/auth"
)

// Register creates an account and returns a signed access token
func (w *WebApp) Register(c *fiber.Ctx) error {
	var req webmodels.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	req.Email = strings.TrimSpace(req.Email)
	req.Username = strings.TrimSpace(req.Username)

	details := map[string]string{}
	if req.Email == "" {
		details["email"] = "email is required"
	}
	if req.Password == "" {
		details["password"] = "password is required"
	}
	if req.Username == "" {
		details["username"] = "username is required"
	}
	if len(details) > 0 {
		return utils.SendBadRequest(c, "Missing required fields", details)
	}

	token, err := w.AuthService.Register(c.Context(), req.Email, req.Password, req.Username)
	if err != nil {
		if errors.Is(err, auth.ErrUserExists) {
			return utils.SendBadRequest(c, "Email already registered", nil)
		}
		slog.Error("Registration failed", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to register")
	}

	return utils.SendCreated(c, webmodels.TokenResponse{Token: token}, "Account created")
}

// Login verifies credentials and returns a signed access token
func (w *WebApp) Login(c *fiber.Ctx) error {
	var req webmodels.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendBadRequest(c, "Invalid request body", nil)
	}

	if req.Email == "" || req.Password == "" {
		return utils.SendBadRequest(c, "Email and password are required", nil)
	}

	token, err := w.AuthService.Login(c.Context(), req.Email, req.Password)
	switch {
	case err == nil:
		return utils.SendSuccess(c, webmodels.TokenResponse{Token: token}, "Logged in")
	case errors.Is(err, auth.ErrUserNotFound):
		return utils.SendNotFound(c, "User not found")
	case errors.Is(err, auth.ErrInvalidPassword):
		return utils.SendBadRequest(c, "Invalid password", nil)
	default:
		slog.Error("Login failed", slog.String("error", err.Error()))
		return utils.SendInternalServerError(c, "Failed to log in")
	}
}

package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/spf13/cobra"

	"github.com/cardbazar/cardbazar/backend/handlers"
	"github.com/cardbazar/cardbazar/backend/middleware"
	webmodels "github.com/cardbazar/cardbazar/backend/models"
	"github.com/cardbazar/cardbazar/internal/domain/auth"
	"github.com/cardbazar/cardbazar/internal/domain/packs"
	"github.com/cardbazar/cardbazar/internal/domain/trading"
	"github.com/cardbazar/cardbazar/marketplace"
	"github.com/cardbazar/cardbazar/marketplace/database"
	"github.com/cardbazar/cardbazar/marketplace/database/repositories"
	"github.com/cardbazar/cardbazar/marketplace/services"
)

var (
	version = "dev"
	commit  = "unknown"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the marketplace API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	slog.Info("Starting CardBazar API",
		slog.String("version", version),
		slog.String("commit", commit))

	cfg, err := marketplace.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	slog.Info("Connecting to database...")
	db, err := database.New(ctx, database.DBConfig{
		Host:     cfg.DB.Host,
		Port:     cfg.DB.Port,
		User:     cfg.DB.User,
		Password: cfg.DB.Password,
		Database: cfg.DB.Database,
		PoolSize: cfg.DB.PoolSize,
	})
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.InitializeSchema(ctx); err != nil {
		return fmt.Errorf("failed to initialize schema: %w", err)
	}
	slog.Info("Database connected successfully")

	userCards := repositories.NewUserCardRepository(db.BunDB())
	repos := webmodels.NewRepositories(
		repositories.NewUserRepository(db.BunDB()),
		repositories.NewCardRepository(db.BunDB()),
		userCards,
		repositories.NewTradeRepository(db.BunDB()),
		repositories.NewPackRepository(db.BunDB(), userCards),
	)

	authService := auth.NewService(repos.User, auth.Config{
		JWTSecret:  cfg.Auth.JWTSecret,
		TokenTTL:   cfg.Auth.TokenTTL,
		BcryptCost: cfg.Auth.BcryptCost,
	})
	tradeService := trading.NewService(repos.Trade, repos.Card, repos.User, repos.UserCard)
	packService := packs.NewService(repos.Pack, repos.Card, packs.SharedRNG())

	var spacesService *services.SpacesService
	if cfg.Spaces.Key != "" {
		spacesService, err = services.NewSpacesService(
			cfg.Spaces.Key,
			cfg.Spaces.Secret,
			cfg.Spaces.Region,
			cfg.Spaces.Bucket,
			cfg.Spaces.CardRoot,
		)
		if err != nil {
			return fmt.Errorf("failed to initialize Spaces: %w", err)
		}
	} else {
		slog.Warn("Spaces credentials missing, card image uploads disabled")
	}

	app := fiber.New(fiber.Config{
		AppName:      "CardBazar API",
		ServerHeader: "CardBazar",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	app.Use(recover.New())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestSpeed,
	}))

	allowOrigins := "*"
	allowCredentials := false
	if len(cfg.Web.AllowOrigins) > 0 {
		allowOrigins = strings.Join(cfg.Web.AllowOrigins, ",")
		allowCredentials = true
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowOrigins,
		AllowMethods:     "GET,POST,PUT,DELETE,PATCH,OPTIONS",
		AllowHeaders:     "Origin,Content-Type,Accept,Authorization,X-Requested-With",
		AllowCredentials: allowCredentials,
	}))
	app.Use(middleware.LoggingMiddleware())

	webApp := &handlers.WebApp{
		Config:        cfg,
		DB:            db,
		Repos:         repos,
		AuthService:   authService,
		TradeService:  tradeService,
		PackService:   packService,
		SpacesService: spacesService,
		Version:       version,
		Commit:        commit,
	}

	setupRoutes(app, webApp, authService)

	address := fmt.Sprintf("%s:%d", cfg.Web.Host, cfg.Web.Port)
	slog.Info("Starting server", slog.String("address", address))

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(address)
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %w", err)
	case s := <-sig:
		slog.Info("Shutting down", slog.String("signal", s.String()))
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			return fmt.Errorf("shutdown failed: %w", err)
		}
	}
	return nil
}

func setupRoutes(app *fiber.App, webApp *handlers.WebApp, authService auth.Service) {
	app.Get("/health", webApp.HealthCheck)

	authGroup := app.Group("/auth", middleware.AuthRateLimit())
	authGroup.Post("/register", webApp.Register)
	authGroup.Post("/login", webApp.Login)

	// /available and /my must register before /:id so they are not
	// swallowed by the param route.
	trades := app.Group("/trades", middleware.AuthRequired(authService))
	trades.Get("/", webApp.ListTrades)
	trades.Get("/available", webApp.AvailableTrades)
	trades.Get("/my", webApp.MyTrades)
	trades.Get("/my/accepted", webApp.MyAcceptedTrades)
	trades.Get("/:id", webApp.GetTrade)
	trades.Post("/", webApp.CreateTrade)
	trades.Post("/accept/:id", webApp.AcceptTrade)

	cards := app.Group("/cards")
	cards.Get("/", webApp.ListCards)
	cards.Get("/:id", webApp.GetCard)
	cards.Post("/",
		middleware.AuthRequired(authService),
		middleware.AdminRequired(),
		middleware.AuditLogMiddleware("card_create"),
		webApp.CreateCard)

	packGroup := app.Group("/packs")
	packGroup.Get("/", webApp.ListPacks)
	packGroup.Post("/open/:id", middleware.AuthRequired(authService), webApp.OpenPack)

	users := app.Group("/users", middleware.AuthRequired(authService))
	users.Get("/me", webApp.Me)
	users.Get("/me/cards", webApp.MyCards)
}

package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/Adrian140/prep-center-api/internal/application/auth"
	appprep "github.com/Adrian140/prep-center-api/internal/application/prep"
	"github.com/Adrian140/prep-center-api/internal/application/receiving"
	"github.com/Adrian140/prep-center-api/internal/application/stockledger"
	"github.com/Adrian140/prep-center-api/internal/application/usecase"
	"github.com/Adrian140/prep-center-api/internal/infrastructure/mail"
	infrapdf "github.com/Adrian140/prep-center-api/internal/infrastructure/pdf"
	"github.com/Adrian140/prep-center-api/internal/infrastructure/postgres"
	httpRouter "github.com/Adrian140/prep-center-api/internal/interfaces/http"
	"github.com/Adrian140/prep-center-api/pkg/config"
	"github.com/Adrian140/prep-center-api/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("load configuration: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: "info",
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Msg("starting application")

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("PostgreSQL connection")
	}
	defer pool.Close()

	companyRepo := postgres.NewCompanyRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	shipmentRepo := postgres.NewReceivingShipmentRepository(pool)
	receivingItemRepo := postgres.NewReceivingItemRepository(pool)
	stockItemRepo := postgres.NewStockItemRepository(pool)
	stockMovementRepo := postgres.NewStockMovementRepository(pool)
	prepRequestRepo := postgres.NewPrepRequestRepository(pool)
	prepItemRepo := postgres.NewPrepRequestItemRepository(pool)
	prepTrackingRepo := postgres.NewPrepRequestTrackingRepository(pool)
	txRunner := postgres.NewTxRunner(pool)

	adjustStockUC := stockledger.NewAdjustStockUseCase(txRunner)
	stockQueryUC := stockledger.NewStockQueryUseCase(stockItemRepo, stockMovementRepo)
	receivingUC := receiving.NewReceivingUseCase(txRunner, shipmentRepo, receivingItemRepo, adjustStockUC)

	// Confirmation mail is optional; without SMTP the use case runs silent.
	var notifier appprep.Notifier
	if cfg.SMTP.Enabled() {
		notifier = mail.NewNotifier(cfg.SMTP, cfg.App.BaseURL, companyRepo)
	}
	prepUC := appprep.NewPrepUseCase(txRunner, prepRequestRepo, prepItemRepo, prepTrackingRepo, adjustStockUC, notifier)

	pdfGenerator := infrapdf.NewMarotoPDFGenerator(cfg.App.Name)
	prepPDFUC := appprep.NewPDFUseCase(prepRequestRepo, prepItemRepo, prepTrackingRepo, companyRepo, pdfGenerator)

	companyUC := usecase.NewCompanyUseCase(companyRepo)
	authUC := auth.NewAuthUseCase(userRepo, companyRepo, auth.JWTConfig{
		Secret:     cfg.JWT.Secret,
		ExpMinutes: cfg.JWT.Expiration,
		Issuer:     cfg.JWT.Issuer,
	})

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())

	// Swagger UI: http://localhost:<port>/docs
	app.Use(swagger.New(swagger.Config{
		BasePath: "/",
		FilePath: "./docs/swagger.json",
		Path:     "docs",
		Title:    cfg.App.Name,
	}))

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})

	httpRouter.Router(app, httpRouter.RouterDeps{
		AuthUC:      authUC,
		CompanyUC:   companyUC,
		ReceivingUC: receivingUC,
		AdjustStock: adjustStockUC,
		StockQuery:  stockQueryUC,
		PrepUC:      prepUC,
		PrepPDF:     prepPDFUC,
		JWTSecret:   cfg.JWT.Secret,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("HTTP server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutdown signal received, closing server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server shutdown")
	}

	log.Info().Msg("application stopped")
}

package main

import (
	"context"
	"encoding/hex"
	"log"
	"net/http"

	"github.com/girojeri/backend/config"
	"github.com/girojeri/backend/internal/auth"
	"github.com/girojeri/backend/internal/broadcast"
	"github.com/girojeri/backend/internal/clock"
	handler "github.com/girojeri/backend/internal/handler/http"
	"github.com/girojeri/backend/internal/middleware"
	"github.com/girojeri/backend/internal/repository"
	"github.com/girojeri/backend/internal/repository/postgres"
	"github.com/girojeri/backend/internal/service"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

const authTokenKey = "9c1185a5c5e9fc54612808977ee8f548"

// newLogger creates logger with log level
func newLogger(level string) (*zap.Logger, error) {

	loggerLvl, err := zap.ParseAtomicLevel(level)
	if err != nil {
		return nil, err
	}
	loggerCfg := zap.NewProductionConfig()
	loggerCfg.Level = loggerLvl

	return loggerCfg.Build()
}

func main() {

	// create new config
	cfg, err := config.New()
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	// initialize logger
	logger, err := newLogger(cfg.LogLevel)
	if err != nil {
		log.Fatalf("Error initializing logger: %v", err)
	}
	defer logger.Sync()

	// create context
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// initialize database
	db, err := postgres.New(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("Error initializing database", zap.Error(err))
	}
	defer db.Close()

	// migrate database
	err = db.Migrate()
	if err != nil {
		logger.Fatal("Error migrating database", zap.Error(err))
	}

	tokenKey, err := hex.DecodeString(authTokenKey)
	if err != nil {
		logger.Fatal("Error extracting token key", zap.Error(err))
	}
	token := auth.NewAuthToken(tokenKey)

	clk := clock.NewSystem()

	// the broadcaster is created once and shared by the payment webhook
	// and the live order stream
	broadcaster := broadcast.New()
	defer broadcaster.Close()

	// dependency injection
	// agency
	agencyRepo := repository.NewAgencyRepository(db)
	agencyService := service.NewAgencyService(agencyRepo, token)
	agencyHandler := handler.NewAgencyHandler(agencyService, logger)

	// order
	orderRepo := repository.NewOrderRepository(db)
	orderService := service.NewOrderService(orderRepo, clk, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// payment
	paymentRepo := repository.NewPaymentRepository(db)
	paymentService := service.NewPaymentService(orderRepo, paymentRepo, broadcaster, clk, cfg.AcceptWindow, logger)
	paymentHandler := handler.NewPaymentHandler(paymentService, logger)

	// pricing and catalog
	catalogRepo := repository.NewCatalogRepository(db)
	pricingService := service.NewPricingService(catalogRepo)
	pricingHandler := handler.NewPricingHandler(pricingService, logger)
	catalogService := service.NewCatalogService(catalogRepo)
	catalogHandler := handler.NewCatalogHandler(catalogService, logger)

	// live order stream
	liveHandler := handler.NewLiveHandler(broadcaster, logger)

	router := chi.NewRouter()

	router.Use(middleware.Logging(logger))

	router.Post("/api/agencies/register", agencyHandler.RegisterAgency())
	router.Post("/api/agencies/login", agencyHandler.LoginAgency())
	router.Post("/api/orders", orderHandler.CreateOrder())
	router.Get("/api/orders/{id}", orderHandler.GetOrder())
	router.Get("/api/orders/{id}/payments", paymentHandler.OrderPayments())
	router.Post("/api/payments/webhook", paymentHandler.PaymentWebhook())
	router.Post("/api/pricing/quote", pricingHandler.QuotePricing())
	router.Get("/api/vehicles", catalogHandler.ListVehicles())
	router.Get("/api/admin/holidays", catalogHandler.ListHolidays())
	router.Post("/api/admin/holidays", catalogHandler.CreateHoliday())
	router.Get("/api/admin/pricing-rules", catalogHandler.ListPricingRules())
	router.Post("/api/admin/pricing-rules", catalogHandler.SavePricingRule())

	// routes that require agency authentication
	router.Group(func(group chi.Router) {
		group.Use(middleware.Auth(token))
		group.Get("/api/agencies/me", agencyHandler.GetCurrentAgency())
		group.Post("/api/orders/{id}/accept", orderHandler.AcceptOrder())
		group.Get("/api/agencies/orders", orderHandler.ListAvailableOrders())
		group.Get("/api/agencies/orders/live", liveHandler.StreamOrders())
	})

	logger.Info("Running server",
		zap.String("addr", cfg.ServerAddr),
		zap.Duration("accept_window", cfg.AcceptWindow))

	if err := http.ListenAndServe(cfg.ServerAddr, router); err != nil {
		logger.Fatal("Error starting server", zap.Error(err))
	}
}

package main

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/p24gate/internal/config"
	"github.com/MrJamesThe3rd/p24gate/internal/database"
	p24Http "github.com/MrJamesThe3rd/p24gate/internal/http"
	notificationHandler "github.com/MrJamesThe3rd/p24gate/internal/http/notification"
	paymentHandler "github.com/MrJamesThe3rd/p24gate/internal/http/payment"
	"github.com/MrJamesThe3rd/p24gate/internal/notification"
	"github.com/MrJamesThe3rd/p24gate/internal/payment"
	paymentStore "github.com/MrJamesThe3rd/p24gate/internal/payment/store"
	"github.com/MrJamesThe3rd/p24gate/internal/plugin"
	"github.com/MrJamesThe3rd/p24gate/internal/przelewy24"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	if !cfg.Log.Enabled {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	gateway := przelewy24.NewClient(przelewy24.Config{
		MerchantID: cfg.Przelewy24.MerchantID,
		PosID:      cfg.Przelewy24.PosID,
		CRC:        cfg.Przelewy24.CRC,
		Sandbox:    cfg.Przelewy24.Sandbox,
	})

	var (
		store               = paymentStore.New(db)
		gatewayPlugin       = plugin.New(gateway, cfg.Przelewy24.ReportURL, logger)
		paymentService      = payment.NewService(store, gatewayPlugin, logger)
		notificationService = notification.NewService(store, paymentService, cfg.Przelewy24.CRC, logger)
	)

	var (
		notificationH = notificationHandler.NewHandler(notificationService)
		paymentH      = paymentHandler.NewHandler(paymentService)
	)

	router := p24Http.New(notificationH, paymentH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}

package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"paypal-vault-gateway/internal/client"
	"paypal-vault-gateway/internal/config"
	"paypal-vault-gateway/internal/repository"
	"paypal-vault-gateway/internal/server"
	"paypal-vault-gateway/internal/service"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("no .env file found (ok in prod)")
	}

	cfg := &config.Config{}
	if err := env.Parse(cfg); err != nil {
		log.Fatal().Err(err).Msg("failed to parse config")
	}

	logger := newLogger(&cfg.Log)

	db, err := client.InitDatabase(&cfg.Database)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to init database")
	}

	paypalClient := client.NewPaypalClient(&cfg.Paypal, logger)

	vaultRepo := repository.NewVaultRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	eventLogRepo := repository.NewEventLogRepository(db)

	vaultService := service.NewVaultService(
		cfg, paypalClient,
		vaultRepo,
		invoiceRepo,
		eventLogRepo,
		logger,
	)

	srv := server.NewServer(vaultService, logger)

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	logger.Info().Str("addr", serverAddr).Msg("starting HTTP server")
	go func() {
		if err := srv.Start(serverAddr); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	logger.Info().Msg("signal received, shutting down")

	if err := srv.Shutdown(); err != nil {
		logger.Fatal().Err(err).Msg("HTTP server shutdown error")
	}
}

func newLogger(cfg *config.Log) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}

	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.Format == "console" {
		logger = logger.Output(zerolog.ConsoleWriter{Out: os.Stdout})
	}

	return logger
}

package server

import (
	"paypal-vault-gateway/internal/handler"
	"paypal-vault-gateway/internal/service"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
)

type Server struct {
	echo         *echo.Echo
	vaultHandler *handler.VaultHandler
}

func NewServer(vaultService service.VaultService, logger zerolog.Logger) *Server {
	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:    true,
		LogStatus: true,
		LogMethod: true,
		LogError:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Info().
				Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Err(v.Error).
				Msg("request")
			return nil
		},
	}))
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	s := &Server{
		echo:         e,
		vaultHandler: handler.NewVaultHandler(vaultService),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	// -------- paypal vault --------
	paypal := api.Group("/paypal")
	paypal.POST("/vault/setup", s.vaultHandler.StartVaultSetup)
	paypal.GET("/vault/:customerID", s.vaultHandler.VaultStatus)
	paypal.DELETE("/vault/:customerID", s.vaultHandler.RemoveVault)
	paypal.POST("/charge", s.vaultHandler.Charge)
	paypal.POST("/orders/:orderID/capture", s.vaultHandler.CaptureOrder)
	paypal.POST("/refund", s.vaultHandler.Refund)

	// -------- paypal return --------
	paypal.GET("/vault/callback", s.vaultHandler.VaultCallback)
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown() error {
	return s.echo.Close()
}

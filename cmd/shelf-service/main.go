package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tgshelf/tgshelf/internal/api"
	"github.com/tgshelf/tgshelf/internal/auth"
	"github.com/tgshelf/tgshelf/internal/catalog"
	"github.com/tgshelf/tgshelf/internal/config"
	"github.com/tgshelf/tgshelf/internal/gateway"
	"github.com/tgshelf/tgshelf/internal/health"
	"github.com/tgshelf/tgshelf/internal/platform/factory"
	"github.com/tgshelf/tgshelf/internal/platform/logger"
	"github.com/tgshelf/tgshelf/internal/session"
	"github.com/tgshelf/tgshelf/internal/websession"
)

func main() {
	// Optional driver flag override (tdbridge)
	driver := flag.String("session-driver", "", "Override SESSION_DRIVER")
	flag.Parse()

	cfg, err := config.New()
	if err != nil {
		// Config loads before the logger level is known; use a default logger.
		fallback := logger.New("shelf-service", "info")
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}
	if *driver != "" {
		cfg.SessionDriver = *driver
		if err := cfg.ResolveDefaults(); err != nil {
			fallback := logger.New("shelf-service", "info")
			fallback.Fatal().Err(err).Msg("Invalid session-driver override")
		}
	}

	log := logger.New("shelf-service", cfg.LogLevel)

	log.Info().
		Str("session_driver", cfg.SessionDriver).
		Int("http_port", cfg.HTTPPort).
		Bool("api_credentials_present", cfg.HasAPICredentials()).
		Msg("Gateway service starting…")

	// -------- Remote session layer ---------
	sessionFactory, err := factory.NewSessionFactory(cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Session driver unavailable")
	}
	sessions := session.NewManager(sessionFactory)

	// -------- Services ---------------------
	authSvc := auth.NewService(sessions, log)
	norm := catalog.NewNormalizer(cfg.PublicBaseURL, log)
	gw := gateway.New(sessions, norm, cfg.ListLimit, log)
	cookies := websession.NewCodec(cfg.SessionSecret, cfg.SessionTTL(), false)

	// -------- Health monitor ---------------
	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	monitor := health.NewMonitor(health.HTTPPinger{URL: cfg.BridgeURL + "/v1/health"}, log)
	go monitor.Start(monitorCtx, 30*time.Second)

	// -------- Router & Server --------------
	authH := api.NewAuthHandler(authSvc, cookies, log)
	mediaH := api.NewMediaHandler(gw, cookies, cfg.MaxUploadBytes, log)
	router := api.NewRouter(authH, mediaH, api.RouterConfig{
		CORSOrigins:       cfg.CORSOrigins,
		AuthRatePerMinute: cfg.AuthRatePerMinute,
		Healthy:           monitor.IsHealthy,
	}, log)

	server := &http.Server{
		Addr:        cfg.GetHTTPAddr(),
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		// No write timeout: media streams and uploads can run for minutes.
		WriteTimeout: 0,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Int("port", cfg.HTTPPort).Msg("HTTP server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server…")
	ctxShutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited")
}

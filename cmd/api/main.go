package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"adcraft/internal/controller"
	"adcraft/internal/http/handlers"
	httpapi "adcraft/internal/http/httpapi"
	"adcraft/internal/infra"
	"adcraft/internal/infra/geoip"
	"adcraft/internal/middleware"
	"adcraft/internal/providers/copywriter"
	"adcraft/internal/session"
)

const sweepInterval = time.Minute

// submitWaitTimeout leaves a tenth of the write timeout to write the reply of
// submit?wait=true. Without a write timeout the wait is bounded by the client.
func submitWaitTimeout(write time.Duration) time.Duration {
	if write <= 0 {
		return 0
	}
	return write - write/10
}

func main() {
	// Load .env when present
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := copywriter.NewBackend(ctx, cfg.Backend(), logger)
	if err != nil {
		logger.Fatal().Err(err).Str("provider", cfg.CopyProvider).Msg("failed to configure copy provider")
	}
	client := copywriter.NewClient(backend, copywriter.WithLogger(logger))

	store := session.NewStore(func(locale string) *controller.Controller {
		return controller.New(client, controller.WithLogger(logger), controller.WithLocale(locale))
	}, cfg.SessionIdleTimeout, session.WithLogger(logger))
	go store.Run(ctx, sweepInterval)

	resolver, err := geoip.Open(cfg.GeoIPDBPath)
	if err != nil {
		logger.Warn().Err(err).Msg("geoip disabled")
	}
	var lookup middleware.CountryLookup
	if resolver != nil {
		defer resolver.Close()
		lookup = resolver.CountryCode
	}

	app := handlers.NewApp(store, client, client.Provider(), logger)
	app.WaitTimeout = submitWaitTimeout(cfg.HTTPWriteTimeout)
	router := httpapi.NewRouter(app, httpapi.Options{
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
		DefaultLocale:  cfg.DefaultLocale,
		CountryLookup:  lookup,
	})

	server := infra.NewHTTPServer(cfg, router)

	go func() {
		logger.Info().Str("provider", client.Provider()).Msgf("API listening on :%s", cfg.Port)
		if err := server.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.HTTPIdleTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("failed to shutdown server")
	}
	store.Close()
	logger.Info().Msg("server stopped")
}

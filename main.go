package main

import (
	"context"
	"errors"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/jobdeck/jobdeck_server/internal"
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/jobdeck/jobdeck_server/internal/application"
	"github.com/jobdeck/jobdeck_server/internal/dashboard"
	"github.com/jobdeck/jobdeck_server/internal/health"
	"github.com/jobdeck/jobdeck_server/internal/keys"
	"github.com/jobdeck/jobdeck_server/internal/realtime"
	"github.com/jobdeck/jobdeck_server/internal/status"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

const version = "1.0.0"

func main() {
	// Initialize RSA keys (generate on first run)
	privateKey, publicKey, err := keys.GetOrGenerateRSAKeyPair()
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing RSA keys")
		return
	}
	log.Info().Msg("RSA keys initialized successfully")

	config, err := internal.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Error loading config")
		return
	}

	db, err := internal.NewDB(config.Database.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("Error initializing database")
		return
	}

	userRepository := account.NewPostgresUserRepository(db)
	accountService := account.NewAccountService(userRepository, config.Accounts, privateKey, publicKey)
	accountEndpoints := account.NewEndpoints(userRepository, config.Accounts, accountService)

	appRepository := application.NewPostgresRepository(db)
	appService := application.NewApplicationService(appRepository)
	appEndpoints := application.NewApplicationEndpoints(appService)

	dashboardService := dashboard.NewDashboardService(appService)
	dashboardEndpoints := dashboard.NewDashboardEndpoints(dashboardService)

	hub := realtime.NewHub()
	go hub.Run()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	listener := realtime.NewListener(config.Database.URL, config.Realtime, hub)
	go func() {
		if err := listener.Start(ctx); err != nil {
			var subErr *realtime.SubscriptionError
			if errors.As(err, &subErr) {
				// Reads still work; dashboards fall back to manual refresh.
				log.Error().Err(err).Msg("Change notifications unavailable")
				return
			}
			log.Error().Err(err).Msg("Realtime listener stopped")
		}
	}()

	wsHandler := realtime.NewHandler(hub, accountService)
	healthEndpoints := health.NewEndpoints(version)
	statusEndpoints := status.NewEndpoints(version, hub)

	requestHandler := internal.NewRequestHandler(config, accountEndpoints, accountService, appEndpoints, dashboardEndpoints, healthEndpoints, statusEndpoints, wsHandler)

	ln, err := net.Listen("tcp", config.Server.Addr)
	if err != nil {
		log.Fatal().Err(err).Msg("Error binding listen address")
		return
	}

	log.Info().Str("addr", config.Server.Addr).Msg("Starting server")
	server := &fasthttp.Server{Handler: requestHandler}
	if err := serveUntilCancelled(ctx, server, ln); err != nil {
		log.Fatal().Err(err).Msg("Error starting server")
	}
	log.Info().Msg("Server stopped")
}

// serveUntilCancelled serves until ctx is cancelled, then shuts the
// server down and returns so the process can exit. A second signal
// after cancellation kills the process the default way.
func serveUntilCancelled(ctx context.Context, server *fasthttp.Server, ln net.Listener) error {
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutdown signal received, stopping server")
		if err := server.Shutdown(); err != nil {
			log.Error().Err(err).Msg("Error shutting down server")
		}
	}()

	return server.Serve(ln)
}

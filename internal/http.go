package internal

import (
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/jobdeck/jobdeck_server/internal/application"
	"github.com/jobdeck/jobdeck_server/internal/dashboard"
	"github.com/jobdeck/jobdeck_server/internal/health"
	"github.com/jobdeck/jobdeck_server/internal/middleware"
	"github.com/jobdeck/jobdeck_server/internal/realtime"
	"github.com/jobdeck/jobdeck_server/internal/status"
	"github.com/valyala/fasthttp"
)

func NewRequestHandler(
	config *Config,
	accountEndpoints *account.AccountEndpoints,
	accountService *account.AccountService,
	appEndpoints *application.ApplicationEndpoints,
	dashboardEndpoints *dashboard.DashboardEndpoints,
	healthEndpoints *health.HealthEndpoints,
	statusEndpoints *status.StatusEndpoints,
	wsHandler *realtime.Handler,
) fasthttp.RequestHandler {
	authMiddleware := middleware.NewAuthMiddleware(accountService)
	corsMiddleware := middleware.NewCORSMiddleware(config.Server.AllowedOrigins)

	handler := func(ctx *fasthttp.RequestCtx) {
		path := string(ctx.Path())
		method := string(ctx.Method())

		switch path {
		case "/accounts/register":
			if method == "POST" {
				accountEndpoints.Register(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case "/accounts/challenge":
			if method == "GET" {
				accountEndpoints.GetChallenge(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case "/accounts/auth":
			if method == "POST" {
				accountEndpoints.Auth(ctx)
			} else {
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}

		case "/applications":
			switch method {
			case "POST":
				authMiddleware.RequireAuth(appEndpoints.CreateApplication)(ctx)
			case "GET":
				authMiddleware.RequireAuth(appEndpoints.ListApplications)(ctx)
			default:
				ctx.Error("Method Not Allowed", fasthttp.StatusMethodNotAllowed)
			}
		case "/applications/count":
			authMiddleware.RequireAuth(appEndpoints.CountApplications)(ctx)
		case "/applications/status-counts":
			authMiddleware.RequireAuth(appEndpoints.StatusCounts)(ctx)

		case "/dashboard/table":
			authMiddleware.RequireAuth(dashboardEndpoints.Table)(ctx)
		case "/dashboard/summary":
			authMiddleware.RequireAuth(dashboardEndpoints.Summary)(ctx)

		case "/health":
			healthEndpoints.Health(ctx)
		case "/status":
			authMiddleware.RequireAuth(statusEndpoints.Status)(ctx)

		case "/ws":
			wsHandler.HandleFastHTTP(ctx)

		default:
			ctx.Error("Not Found", fasthttp.StatusNotFound)
		}
	}

	return corsMiddleware.Handle(handler)
}

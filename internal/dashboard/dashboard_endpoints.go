package dashboard

import (
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

type DashboardEndpoints struct {
	dashboardService *DashboardService
}

func NewDashboardEndpoints(dashboardService *DashboardService) *DashboardEndpoints {
	return &DashboardEndpoints{dashboardService: dashboardService}
}

// Table handles GET /dashboard/table?search=&page=
func (de *DashboardEndpoints) Table(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	searchTerm := string(ctx.QueryArgs().Peek("search"))

	page := 1
	if raw := ctx.QueryArgs().Peek("page"); raw != nil {
		parsed, err := strconv.Atoi(string(raw))
		if err != nil || parsed < 1 {
			ctx.Error("Invalid page parameter", fasthttp.StatusBadRequest)
			return
		}
		page = parsed
	}

	table, err := de.dashboardService.Table(authenticatedUser.ID, searchTerm, page)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build table page")
		ctx.Error("Failed to build table page", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(table)
}

// Summary handles GET /dashboard/summary
func (de *DashboardEndpoints) Summary(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	summary, err := de.dashboardService.Summary(authenticatedUser.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to build summary")
		ctx.Error("Failed to build summary", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(summary)
}

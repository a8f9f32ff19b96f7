package application

import (
	"errors"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/rs/zerolog/log"
	"github.com/valyala/fasthttp"
)

type ApplicationEndpoints struct {
	appService *ApplicationService
}

func NewApplicationEndpoints(appService *ApplicationService) *ApplicationEndpoints {
	return &ApplicationEndpoints{appService: appService}
}

// CreateApplication handles POST /applications
func (ae *ApplicationEndpoints) CreateApplication(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	var input CreateInput
	if err := json.Unmarshal(ctx.PostBody(), &input); err != nil {
		log.Error().Err(err).Msg("Failed to parse request body")
		ctx.Error("Invalid request body", fasthttp.StatusBadRequest)
		return
	}

	app, err := ae.appService.Create(authenticatedUser.ID, &input)
	if err != nil {
		var writeErr *WriteError
		if errors.As(err, &writeErr) {
			log.Error().Err(err).Msg("Failed to create application")
			ctx.Error("Failed to create application", fasthttp.StatusInternalServerError)
			return
		}
		log.Error().Err(err).Msg("Invalid application")
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusCreated)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(app)
}

// ListApplications handles GET /applications?limit=N
func (ae *ApplicationEndpoints) ListApplications(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	limit := 0
	if raw := ctx.QueryArgs().Peek("limit"); raw != nil {
		parsed, err := strconv.Atoi(string(raw))
		if err != nil || parsed < 0 {
			ctx.Error("Invalid limit parameter", fasthttp.StatusBadRequest)
			return
		}
		limit = parsed
	}

	apps, err := ae.appService.List(authenticatedUser.ID, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list applications")
		ctx.Error("Failed to list applications", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(apps)
}

// CountApplications handles GET /applications/count
func (ae *ApplicationEndpoints) CountApplications(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	count, err := ae.appService.Count(authenticatedUser.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to count applications")
		ctx.Error("Failed to count applications", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(map[string]int64{"count": count})
}

// StatusCounts handles GET /applications/status-counts
func (ae *ApplicationEndpoints) StatusCounts(ctx *fasthttp.RequestCtx) {
	authenticatedUser, ok := ctx.UserValue("user").(*account.User)
	if !ok || authenticatedUser == nil {
		log.Error().Msg("Failed to get authenticated user from context")
		ctx.Error("Unauthorized", fasthttp.StatusUnauthorized)
		return
	}

	counts, err := ae.appService.CountByStatus(authenticatedUser.ID)
	if err != nil {
		log.Error().Err(err).Msg("Failed to get status counts")
		ctx.Error("Failed to get status counts", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetContentType("application/json")
	json.NewEncoder(ctx).Encode(counts)
}

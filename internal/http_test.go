package internal

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/google/uuid"
	"github.com/jobdeck/jobdeck_server/internal/account"
	"github.com/jobdeck/jobdeck_server/internal/application"
	"github.com/jobdeck/jobdeck_server/internal/dashboard"
	"github.com/jobdeck/jobdeck_server/internal/health"
	"github.com/jobdeck/jobdeck_server/internal/realtime"
	"github.com/jobdeck/jobdeck_server/internal/status"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
)

type emptyUserRepository struct{}

func (emptyUserRepository) CreateUser(user *account.User) error { return nil }

func (emptyUserRepository) GetUserByID(id uuid.UUID) (*account.User, error) { return nil, nil }

func (emptyUserRepository) GetUserByUsername(username string) (*account.User, error) {
	return nil, nil
}

func newTestRequestHandler(t *testing.T) fasthttp.RequestHandler {
	t.Helper()

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	assert.NoError(t, err)

	config := &Config{}
	accountConfig := account.Config{JWTExpirationHours: 1, ChallengeTTLSec: 300}

	repo := emptyUserRepository{}
	accountService := account.NewAccountService(repo, accountConfig, privateKey, &privateKey.PublicKey)
	accountEndpoints := account.NewEndpoints(repo, accountConfig, accountService)

	appService := application.NewApplicationService(application.NewMemoryRepository())
	appEndpoints := application.NewApplicationEndpoints(appService)
	dashboardEndpoints := dashboard.NewDashboardEndpoints(dashboard.NewDashboardService(appService))

	hub := realtime.NewHub()

	return NewRequestHandler(
		config,
		accountEndpoints,
		accountService,
		appEndpoints,
		dashboardEndpoints,
		health.NewEndpoints("test"),
		status.NewEndpoints("test", hub),
		realtime.NewHandler(hub, accountService),
	)
}

func doRequest(handler fasthttp.RequestHandler, method, uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	handler(&ctx)
	return &ctx
}

func TestRequestHandler_MethodGates(t *testing.T) {
	handler := newTestRequestHandler(t)

	// Every account route rejects the wrong method.
	ctx := doRequest(handler, "GET", "/accounts/register")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = doRequest(handler, "POST", "/accounts/challenge")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = doRequest(handler, "GET", "/accounts/auth")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	ctx = doRequest(handler, "DELETE", "/applications")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())

	// The right method reaches the handler; an unknown username is the
	// handler's own 404, not a routing rejection.
	ctx = doRequest(handler, "GET", "/accounts/challenge?username=ghost")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestRequestHandler_Routes(t *testing.T) {
	handler := newTestRequestHandler(t)

	ctx := doRequest(handler, "GET", "/health")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	ctx = doRequest(handler, "GET", "/nope")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())

	// Protected routes reject anonymous callers.
	ctx = doRequest(handler, "GET", "/applications")
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = doRequest(handler, "GET", "/dashboard/summary")
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())

	ctx = doRequest(handler, "GET", "/status")
	assert.Equal(t, fasthttp.StatusUnauthorized, ctx.Response.StatusCode())
}

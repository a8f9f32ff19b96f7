package status

import (
	"github.com/goccy/go-json"
	"github.com/jobdeck/jobdeck_server/internal/realtime"
	"github.com/valyala/fasthttp"
)

// StatusEndpoints reports server state to authenticated callers,
// including how many dashboard clients the realtime hub is serving.
type StatusEndpoints struct {
	version string
	hub     *realtime.Hub
}

func NewEndpoints(version string, hub *realtime.Hub) *StatusEndpoints {
	return &StatusEndpoints{
		version: version,
		hub:     hub,
	}
}

type StatusResponse struct {
	Health           string `json:"health"`
	Version          string `json:"version"`
	ConnectedClients int    `json:"connectedClients"`
	ConnectedUsers   int    `json:"connectedUsers"`
}

func (se *StatusEndpoints) Status(ctx *fasthttp.RequestCtx) {
	clients, users := se.hub.GetStats()
	response := StatusResponse{
		Health:           "OK",
		Version:          se.version,
		ConnectedClients: clients,
		ConnectedUsers:   users,
	}

	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)

	responseJSON, err := json.Marshal(response)
	if err != nil {
		ctx.Error("Internal Server Error", fasthttp.StatusInternalServerError)
		return
	}

	ctx.SetBody(responseJSON)
}

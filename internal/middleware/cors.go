package middleware

import (
	"regexp"

	"github.com/valyala/fasthttp"
)

var localhostOrigin = regexp.MustCompile(`^https?://localhost:\d+$`)

type CORSMiddleware struct {
	allowedOrigins map[string]bool
	allowAny       bool
}

func NewCORSMiddleware(allowedOrigins []string) *CORSMiddleware {
	cm := &CORSMiddleware{allowedOrigins: make(map[string]bool)}
	if len(allowedOrigins) == 0 {
		cm.allowAny = true
		return cm
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cm.allowAny = true
			continue
		}
		cm.allowedOrigins[origin] = true
	}
	return cm
}

func (cm *CORSMiddleware) Handle(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		origin := string(ctx.Request.Header.Peek("Origin"))

		if cm.allowedOrigins[origin] || cm.isLocalhost(origin) {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", origin)
			// Credentials require a specific origin, never the wildcard
			ctx.Response.Header.Set("Access-Control-Allow-Credentials", "true")
		} else if cm.allowAny {
			ctx.Response.Header.Set("Access-Control-Allow-Origin", "*")
		}

		ctx.Response.Header.Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		ctx.Response.Header.Set("Access-Control-Allow-Headers", "Authorization, Content-Type")
		ctx.Response.Header.Set("Access-Control-Max-Age", "86400")

		if string(ctx.Method()) == "OPTIONS" {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		next(ctx)
	}
}

// Localhost origins are always allowed so local dashboard builds can
// talk to a deployed server.
func (cm *CORSMiddleware) isLocalhost(origin string) bool {
	return localhostOrigin.MatchString(origin)
}

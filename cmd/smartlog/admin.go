// FILE: lixenwraith/smartlog/cmd/smartlog/admin.go
package main

import (
	"encoding/json"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/compat"
	"github.com/valyala/fasthttp"
)

// statsResponse is the body of GET /stats
type statsResponse struct {
	Level    string `json:"level"`
	Emitted  uint64 `json:"emitted"`
	Pushed   uint64 `json:"pushed"`
	Queued   uint64 `json:"queued"`
	Dropped  uint64 `json:"dropped"`
	Filtered uint64 `json:"filtered"`
	Pending  int    `json:"pending"`
	UptimeMs int64  `json:"uptime_ms"`
}

// newAdminServer serves the level and stats endpoints; its own log goes through the agent
func newAdminServer(agent *smartlog.Agent) *fasthttp.Server {
	return &fasthttp.Server{
		Handler: adminHandler(agent),
		Logger:  compat.NewFastHTTPAdapter(agent),
		Name:    "smartlog",
	}
}

func adminHandler(agent *smartlog.Agent) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case "/level":
			handleLevel(ctx, agent)
		case "/stats":
			if !ctx.IsGet() {
				ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
				return
			}
			handleStats(ctx, agent)
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

// handleLevel reports the threshold on GET and changes it on PUT /level?to=<name>
func handleLevel(ctx *fasthttp.RequestCtx, agent *smartlog.Agent) {
	switch {
	case ctx.IsGet():
	case ctx.IsPut():
		to := string(ctx.QueryArgs().Peek("to"))
		if err := agent.SetLevelString(to); err != nil {
			ctx.Error(err.Error(), fasthttp.StatusBadRequest)
			return
		}
		agent.Notice(smartlog.Msg("level changed"), smartlog.Fields{"to": agent.Level().String()})
	default:
		ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
		return
	}
	ctx.SetContentType("text/plain")
	ctx.SetBodyString(agent.Level().String() + "\n")
}

func handleStats(ctx *fasthttp.RequestCtx, agent *smartlog.Agent) {
	stats := agent.Stats()
	body, err := json.Marshal(statsResponse{
		Level:    agent.Level().String(),
		Emitted:  stats.Emitted,
		Pushed:   stats.Pushed,
		Queued:   stats.Queued,
		Dropped:  stats.Dropped,
		Filtered: stats.Filtered,
		Pending:  stats.Pending,
		UptimeMs: stats.Uptime.Milliseconds(),
	})
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetBody(body)
}

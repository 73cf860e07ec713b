// FILE: example/fasthttp/main.go
package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/compat"
	"github.com/lixenwraith/smartlog/sink/console"
	"github.com/lixenwraith/smartlog/sink/file"
	"github.com/valyala/fasthttp"
)

func main() {
	// Create and configure the agent
	agent, err := smartlog.NewBuilder().
		Override("level=info", "buffer_size=2048").
		Build()
	if err != nil {
		panic(err)
	}

	fileCfg := file.DefaultConfig()
	if err := fileCfg.ApplyOverride("directory=/var/log/fasthttp"); err != nil {
		panic(err)
	}
	files, err := file.New(fileCfg)
	if err != nil {
		panic(err)
	}
	stderr, err := console.New(&console.Config{Target: "stderr", Format: "txt", Level: "warning"})
	if err != nil {
		panic(err)
	}
	pipeline := smartlog.Pipe(context.Background(), agent, files, stderr)
	defer pipeline.Wait()
	defer agent.End()

	// Create fasthttp adapter with custom level detection
	fasthttpAdapter := compat.NewFastHTTPAdapter(
		agent,
		compat.WithDefaultLevel(smartlog.LevelInfo),
		compat.WithLevelDetector(customLevelDetector),
	)

	// Configure fasthttp server
	server := &fasthttp.Server{
		Handler: requestHandler(agent),
		Logger:  fasthttpAdapter,

		// Other server settings
		Name:              "MyServer",
		Concurrency:       fasthttp.DefaultConcurrency,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		TCPKeepalive:      true,
		ReduceMemoryUsage: true,
	}

	// Start server
	fmt.Println("Starting server on :8080")
	if err := server.ListenAndServe(":8080"); err != nil {
		agent.Critical(smartlog.Msg("server stopped"), smartlog.Err(err))
	}
}

func requestHandler(agent *smartlog.Agent) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		start := time.Now()
		ctx.SetContentType("text/plain")
		fmt.Fprintf(ctx, "Hello, world! Path: %s\n", ctx.Path())

		agent.Inc("http.requests")
		agent.Histogram("http.latency", float64(time.Since(start).Microseconds()), "us")
	}
}

func customLevelDetector(msg string) (smartlog.Level, bool) {
	// Custom logic to detect log levels
	// Can inspect specific fasthttp message patterns

	if strings.Contains(msg, "connection cannot be served") {
		return smartlog.LevelWarning, true
	}
	if strings.Contains(msg, "error when serving connection") {
		return smartlog.LevelError, true
	}

	// Use default detection
	return compat.DetectLogLevel(msg)
}

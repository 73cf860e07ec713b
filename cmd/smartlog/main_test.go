// FILE: lixenwraith/smartlog/cmd/smartlog/main_test.go
package main

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
)

var (
	initOnce     sync.Once
	defaultAgent *smartlog.Agent
)

// testAgent initializes the process-wide agent once per test binary
func testAgent(t *testing.T) *smartlog.Agent {
	t.Helper()
	initOnce.Do(func() {
		cfg := smartlog.DefaultConfig()
		cfg.Level = "info"
		cfg.BufferSize = 1024
		agent, err := smartlog.Init(cfg)
		require.NoError(t, err)
		defaultAgent = agent
	})
	return defaultAgent
}

func request(agent *smartlog.Agent, method, uri string) *fasthttp.RequestCtx {
	var ctx fasthttp.RequestCtx
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	adminHandler(agent)(&ctx)
	return &ctx
}

func TestForwardReader(t *testing.T) {
	agent := testAgent(t)
	before := agent.Stats().Emitted

	input := "first line\n\nsecond line\n"
	require.NoError(t, forwardReader(context.Background(), strings.NewReader(input)))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	var msgs []string
	for len(msgs) < 2 {
		rec, err := agent.Stream().Read(ctx)
		require.NoError(t, err)
		if rec.Level == "info" {
			msgs = append(msgs, rec.Message())
		}
	}
	assert.Equal(t, []string{"first line", "second line"}, msgs)
	assert.Equal(t, before+2, agent.Stats().Emitted, "blank lines are skipped")
}

func TestAdminLevel(t *testing.T) {
	agent := testAgent(t)
	t.Cleanup(func() { agent.SetLevel(smartlog.LevelInfo) })

	ctx := request(agent, fasthttp.MethodGet, "/level")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "info\n", string(ctx.Response.Body()))

	ctx = request(agent, fasthttp.MethodPut, "/level?to=error")
	assert.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())
	assert.Equal(t, "error\n", string(ctx.Response.Body()))
	assert.Equal(t, smartlog.LevelError, agent.Level())

	ctx = request(agent, fasthttp.MethodPut, "/level?to=shout")
	assert.Equal(t, fasthttp.StatusBadRequest, ctx.Response.StatusCode())
	assert.Equal(t, smartlog.LevelError, agent.Level(), "unknown level keeps the threshold")

	ctx = request(agent, fasthttp.MethodDelete, "/level")
	assert.Equal(t, fasthttp.StatusMethodNotAllowed, ctx.Response.StatusCode())
}

func TestAdminStats(t *testing.T) {
	agent := testAgent(t)

	ctx := request(agent, fasthttp.MethodGet, "/stats")
	require.Equal(t, fasthttp.StatusOK, ctx.Response.StatusCode())

	var stats statsResponse
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &stats))
	assert.Equal(t, agent.Level().String(), stats.Level)

	ctx = request(agent, fasthttp.MethodGet, "/missing")
	assert.Equal(t, fasthttp.StatusNotFound, ctx.Response.StatusCode())
}

func TestLoadAgentConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "smartlog.toml")
	require.NoError(t, os.WriteFile(path, []byte("[agent]\nlevel = \"notice\"\n"), 0644))

	cfg, err := loadAgentConfig(&options{
		configPath: path,
		overrides:  []string{"agent.buffer_size=8", "file.directory=/tmp"},
	})
	require.NoError(t, err)
	assert.Equal(t, "notice", cfg.Level)
	assert.Equal(t, int64(8), cfg.BufferSize)

	_, err = loadAgentConfig(&options{overrides: []string{"agent.level=shout"}})
	assert.ErrorIs(t, err, smartlog.ErrInvalidConfig)
}

func TestBuildSinks(t *testing.T) {
	dir := t.TempDir()

	sinks, err := buildSinks(&options{
		file:      true,
		overrides: []string{"file.directory=" + dir, "file.utc=true"},
	})
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	closeSinks(sinks)

	// Syslog without an id fails and closes what was already built
	_, err = buildSinks(&options{console: true, syslog: true})
	assert.ErrorIs(t, err, smartlog.ErrInvalidConfig)

	sinks, err = buildSinks(&options{syslog: true, overrides: []string{"syslog.id=cli", "syslog.port=5514"}})
	require.NoError(t, err)
	require.Len(t, sinks, 1)
	closeSinks(sinks)
}

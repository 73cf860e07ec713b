// FILE: example/gnet/main.go
package main

import (
	"context"
	"os"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/compat"
	"github.com/lixenwraith/smartlog/sink/file"
	"github.com/panjf2000/gnet/v2"
)

// Example gnet event handler
type echoServer struct {
	gnet.BuiltinEventEngine
	agent *smartlog.Agent
}

func (es *echoServer) OnTraffic(c gnet.Conn) gnet.Action {
	buf, _ := c.Next(-1)
	es.agent.Counter("echo.bytes", float64(len(buf)), "bytes")
	c.Write(buf)
	return gnet.None
}

func main() {
	agent, err := smartlog.NewBuilder().
		LevelString("debug").
		Defaults(smartlog.Fields{"service": "echo"}).
		Build()
	if err != nil {
		panic(err)
	}

	cfg := file.DefaultConfig()
	cfg.Directory = "/var/log/gnet"
	files, err := file.New(cfg)
	if err != nil {
		panic(err)
	}
	pipeline := smartlog.Pipe(context.Background(), agent, files)

	// Fatalf ends the agent; wait for the files to be flushed before exiting
	gnetAdapter := compat.NewStructuredGnetAdapter(agent, compat.WithFatalHandler(func(string) {
		pipeline.Wait()
		os.Exit(1)
	}))

	err = gnet.Run(
		&echoServer{agent: agent},
		"tcp://127.0.0.1:9000",
		gnet.WithMulticore(true),
		gnet.WithLogger(gnetAdapter),
		gnet.WithReusePort(true),
	)
	if err != nil {
		agent.Error(smartlog.Msg("gnet stopped"), smartlog.Err(err))
	}
	agent.End()
	pipeline.Wait()
}

// FILE: example/sink/main.go
package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/sink/console"
	"github.com/lixenwraith/smartlog/sink/file"
	"github.com/lixenwraith/smartlog/sink/syslog"
)

const logDirectory = "./temp_logs"

// main runs each sink combination on a fresh agent
func main() {
	// Ensure a clean state by removing the previous log directory.
	if err := os.RemoveAll(logDirectory); err != nil {
		fmt.Printf("Warning: could not remove old log directory: %v\n", err)
	}

	fmt.Println("--- Running Sink Scenarios ---")
	fmt.Printf("! All file-based logs will be in the '%s' directory.\n\n", logDirectory)

	testFileOnly()
	testStdoutOnly()
	testFilteredFanOut()
	testSyslog()

	fmt.Println("\n--- Sink Scenarios Complete ---")
}

// testFileOnly writes daily files in UTC
func testFileOnly() {
	cfg := file.DefaultConfig()
	cfg.Directory = logDirectory
	cfg.UTC = true
	files, err := file.New(cfg)
	exitOnError(err)

	runPhase("1: File-Only", files)
}

// testStdoutOnly writes text lines to stdout
func testStdoutOnly() {
	cfg := console.DefaultConfig()
	exitOnError(cfg.ApplyOverride("target=stdout", "format=txt"))
	stdout, err := console.New(cfg)
	exitOnError(err)

	runPhase("2: Stdout-Only", stdout)
}

// testFilteredFanOut sends everything to a file and only errors to stderr
func testFilteredFanOut() {
	cfg := file.DefaultConfig()
	cfg.Directory = logDirectory
	cfg.Prefix = "fanout-"
	files, err := file.New(cfg)
	exitOnError(err)

	stderr, err := console.New(&console.Config{Target: "stderr", Format: "txt", Level: "error"})
	exitOnError(err)

	runPhase("3: File + Stderr (errors only)", files, stderr)
}

// testSyslog sends datagrams to a local listener and prints what arrives
func testSyslog() {
	server, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.IPv4(127, 0, 0, 1)})
	exitOnError(err)
	defer server.Close()

	cfg := syslog.DefaultConfig()
	cfg.ID = "sink-example"
	cfg.Facility = "local0"
	cfg.Port = int64(server.LocalAddr().(*net.UDPAddr).Port)
	sender, err := syslog.New(cfg)
	exitOnError(err)

	go func() {
		buf := make([]byte, 64*1024)
		for {
			n, _, err := server.ReadFromUDP(buf)
			if err != nil {
				return
			}
			fmt.Printf("  syslog> %s\n", buf[:n])
		}
	}()

	runPhase("4: Syslog", sender)
	time.Sleep(100 * time.Millisecond)
}

// runPhase emits a fixed set of records through the given sinks and waits for the pipeline
func runPhase(name string, sinks ...smartlog.Sink) {
	fmt.Printf("\n[Phase %s]\n", name)

	agent, err := smartlog.NewBuilder().
		LevelString("debug").
		Defaults(smartlog.Fields{"phase": name}).
		Build()
	exitOnError(err)

	pipeline := smartlog.Pipe(context.Background(), agent, sinks...)

	agent.Debug(smartlog.Msg("This is a debug message."))
	agent.Info(smartlog.Msg("This is an info message."))
	agent.Warning(smartlog.Msg("This is a warning message."))
	agent.Error(smartlog.Msg("This is an error message."), smartlog.Err(os.ErrPermission))
	agent.Counter("phase.records", 4)
	agent.End()

	if err := pipeline.Wait(); err != nil {
		fmt.Printf("  WARNING: close error in phase '%s': %v\n", name, err)
	}
	written, failed := pipeline.Counts()
	fmt.Printf("  records=%d failed_writes=%d\n", written, failed)
}

func exitOnError(err error) {
	if err != nil {
		fmt.Printf("Fatal: %v\n", err)
		os.Exit(1)
	}
}

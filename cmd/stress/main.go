package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/sink/file"
)

const (
	totalBursts    = 100
	logsPerBurst   = 500
	maxMessageSize = 10000
	numWorkers     = 500
)

const configFile = "stress_config.toml"

// Example TOML content for stress test
var tomlContent = `
# Example stress_config.toml
[agent]
  level = "debug"
  buffer_size = 64 # Small high-water mark to force queueing
  heartbeat_interval_ms = 500

[file]
  directory = "./logs"
  prefix = "stress-"
  suffix = ".log"
  idle_timeout_ms = 2000
  utc = true
`

var levels = []smartlog.Level{
	smartlog.LevelDebug,
	smartlog.LevelInfo,
	smartlog.LevelWarning,
	smartlog.LevelError,
}

var agent *smartlog.Agent

func generateRandomMessage(size int) string {
	const chars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 "
	var sb strings.Builder
	sb.Grow(size)
	for i := 0; i < size; i++ {
		sb.WriteByte(chars[rand.Intn(len(chars))])
	}
	return sb.String()
}

// logBurst simulates a burst of logging activity
func logBurst(burstID int) {
	for i := 0; i < logsPerBurst; i++ {
		level := levels[rand.Intn(len(levels))]
		msgSize := rand.Intn(maxMessageSize) + 10
		agent.Log(level,
			smartlog.Msg(generateRandomMessage(msgSize)),
			smartlog.Fields{
				"wkr": burstID % numWorkers,
				"bst": burstID,
				"seq": i,
				"rnd": rand.Int63(),
			},
		)
	}
	agent.Inc("stress.bursts")
}

// worker goroutine function
func worker(burstChan chan int, wg *sync.WaitGroup, completedBursts *atomic.Int64) {
	defer wg.Done()
	for burstID := range burstChan {
		logBurst(burstID)
		completed := completedBursts.Add(1)
		if completed%10 == 0 || completed == totalBursts {
			fmt.Printf("\rProgress: %d/%d bursts completed, %d records queued", completed, totalBursts, agent.Len())
		}
	}
}

// watchQueue samples the delivery queue length until stop is closed
func watchQueue(stop <-chan struct{}, peak *atomic.Int64) {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			if n := int64(agent.Len()); n > peak.Load() {
				peak.Store(n)
			}
		}
	}
}

func main() {
	fmt.Println("--- Agent Backpressure Stress Test ---")

	// --- Setup Config ---
	err := os.WriteFile(configFile, []byte(tomlContent), 0644)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write dummy config: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Created dummy config file: %s\n", configFile)
	logsDir := "./logs"       // Match config
	_ = os.RemoveAll(logsDir) // Clean previous run's LOGS directory before starting

	agentCfg, err := smartlog.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load agent config: %v.\n", err)
		os.Exit(1)
	}
	fileCfg, err := file.NewConfigFromFile(configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load file config: %v.\n", err)
		os.Exit(1)
	}

	// --- Initialize Agent and Pipeline ---
	agent, err = smartlog.NewAgent(agentCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize agent: %v\n", err)
		os.Exit(1)
	}
	files, err := file.New(fileCfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open file sink: %v\n", err)
		os.Exit(1)
	}
	pipeline := smartlog.Pipe(context.Background(), agent, files)
	fmt.Printf("Agent initialized. Logs will be written to: %s\n", logsDir)

	fmt.Printf("Starting stress test: %d workers, %d bursts, %d logs/burst.\n",
		numWorkers, totalBursts, logsPerBurst)
	fmt.Println("Producers never block: records beyond the high-water mark wait in the delivery queue.")
	fmt.Println("Press Ctrl+C to stop early.")

	// --- Setup Workers and Signal Handling ---
	burstChan := make(chan int, numWorkers)
	var wg sync.WaitGroup
	completedBursts := atomic.Int64{}
	peakQueue := atomic.Int64{}
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	stopChan := make(chan struct{})
	watchStop := make(chan struct{})

	go func() {
		<-sigChan
		fmt.Println("\n[Signal Received] Stopping burst generation...")
		close(stopChan)
	}()
	go watchQueue(watchStop, &peakQueue)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go worker(burstChan, &wg, &completedBursts)
	}

	// --- Run Test ---
	startTime := time.Now()
	for i := 1; i <= totalBursts; i++ {
		select {
		case burstChan <- i:
		case <-stopChan:
			fmt.Println("[Signal Received] Halting burst submission.")
			goto endLoop
		}
	}
endLoop:
	close(burstChan)

	fmt.Println("\nWaiting for workers to finish...")
	wg.Wait()
	produced := time.Since(startTime)
	finalCompleted := completedBursts.Load()

	// --- Drain ---
	fmt.Printf("Draining %d queued records...\n", agent.Len())
	agent.End()
	if err := pipeline.Wait(); err != nil {
		fmt.Fprintf(os.Stderr, "Sink close error: %v\n", err)
	}
	close(watchStop)
	drained := time.Since(startTime)

	stats := agent.Stats()
	written, failed := pipeline.Counts()

	fmt.Printf("\n--- Test Finished ---")
	fmt.Printf("\nCompleted %d/%d bursts in %v, drained in %v\n", finalCompleted, totalBursts,
		produced.Round(time.Millisecond), drained.Round(time.Millisecond))
	fmt.Printf("Emitted %d, pushed directly %d, queued %d, dropped %d, peak queue %d\n",
		stats.Emitted, stats.Pushed, stats.Queued, stats.Dropped, peakQueue.Load())
	fmt.Printf("Pipeline wrote %d records, %d failed writes\n", written, failed)
	if finalCompleted > 0 && produced.Seconds() > 0 {
		logsPerSec := float64(finalCompleted*logsPerBurst) / produced.Seconds()
		fmt.Printf("Approximate Logs/sec: %.2f\n", logsPerSec)
	}

	fmt.Printf("Check log files in '%s'.\n", logsDir)
}

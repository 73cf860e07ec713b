// FILE: lixenwraith/smartlog/cmd/smartlog/main.go
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/lixenwraith/smartlog"
	"github.com/lixenwraith/smartlog/sink/console"
	"github.com/lixenwraith/smartlog/sink/file"
	"github.com/lixenwraith/smartlog/sink/syslog"
	"github.com/spf13/pflag"
)

type options struct {
	configPath string
	overrides  []string
	tailPath   string
	httpAddr   string
	console    bool
	file       bool
	syslog     bool
}

func parseFlags() *options {
	opts := &options{}
	pflag.StringVarP(&opts.configPath, "config", "c", "", "TOML configuration file")
	pflag.StringArrayVarP(&opts.overrides, "set", "s", nil, "override a setting, e.g. agent.level=info or file.directory=/tmp (repeatable)")
	pflag.StringVar(&opts.tailPath, "tail", "", "follow a file instead of reading stdin")
	pflag.StringVar(&opts.httpAddr, "http", "", "serve the admin endpoint on this address, e.g. 127.0.0.1:8080")
	pflag.BoolVar(&opts.console, "console", false, "write records to the console")
	pflag.BoolVar(&opts.file, "file", false, "write records to daily files")
	pflag.BoolVar(&opts.syslog, "syslog", false, "send records to a syslog server")
	pflag.Parse()

	// Console is the fallback destination
	if !opts.console && !opts.file && !opts.syslog {
		opts.console = true
	}
	return opts
}

func main() {
	opts := parseFlags()

	if err := run(opts); err != nil {
		fmt.Fprintf(os.Stderr, "smartlog: %v\n", err)
		os.Exit(1)
	}
}

func run(opts *options) error {
	cfg, err := loadAgentConfig(opts)
	if err != nil {
		return err
	}

	sinks, err := buildSinks(opts)
	if err != nil {
		return err
	}

	agent, err := smartlog.Init(cfg)
	if err != nil {
		closeSinks(sinks)
		return err
	}

	// The pump outlives the signal context so records queued before End still drain
	pipeline := smartlog.Pipe(context.Background(), agent, sinks...)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if opts.httpAddr != "" {
		admin := newAdminServer(agent)
		go func() {
			if err := admin.ListenAndServe(opts.httpAddr); err != nil {
				smartlog.ReportError(fmt.Errorf("admin server: %w", err))
			}
		}()
		defer admin.Shutdown()
	}

	input := make(chan error, 1)
	go func() {
		if opts.tailPath != "" {
			input <- forwardTail(ctx, opts.tailPath)
		} else {
			input <- forwardReader(ctx, os.Stdin)
		}
	}()

	select {
	case err = <-input:
	case <-ctx.Done():
	}

	agent.End()
	return smartlog.CombineErrors(err, pipeline.Wait())
}

// loadAgentConfig reads the agent section and applies the agent.* overrides
func loadAgentConfig(opts *options) (*smartlog.Config, error) {
	cfg := smartlog.DefaultConfig()
	if opts.configPath != "" {
		var err error
		if cfg, err = smartlog.NewConfigFromFile(opts.configPath); err != nil {
			return nil, err
		}
	}
	if err := cfg.ApplyOverride(smartlog.SelectOverrides(smartlog.ConfigPrefix, opts.overrides)...); err != nil {
		return nil, err
	}
	return cfg, nil
}

// buildSinks creates the enabled sinks; on error the ones already created are closed
func buildSinks(opts *options) ([]smartlog.Sink, error) {
	var sinks []smartlog.Sink

	fail := func(err error) ([]smartlog.Sink, error) {
		closeSinks(sinks)
		return nil, err
	}

	if opts.console {
		cfg := console.DefaultConfig()
		if opts.configPath != "" {
			var err error
			if cfg, err = console.NewConfigFromFile(opts.configPath); err != nil {
				return fail(err)
			}
		}
		if err := cfg.ApplyOverride(smartlog.SelectOverrides(console.ConfigPrefix, opts.overrides)...); err != nil {
			return fail(err)
		}
		s, err := console.New(cfg)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if opts.file {
		cfg := file.DefaultConfig()
		if opts.configPath != "" {
			var err error
			if cfg, err = file.NewConfigFromFile(opts.configPath); err != nil {
				return fail(err)
			}
		}
		if err := cfg.ApplyOverride(smartlog.SelectOverrides(file.ConfigPrefix, opts.overrides)...); err != nil {
			return fail(err)
		}
		s, err := file.New(cfg)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	if opts.syslog {
		cfg := syslog.DefaultConfig()
		if opts.configPath != "" {
			// The id is mandatory, so the file section is validated together with the overrides
			if err := smartlog.LoadConfig(opts.configPath, syslog.ConfigPrefix, cfg); err != nil {
				return fail(err)
			}
		}
		if err := smartlog.ApplyOverrides(cfg, smartlog.SelectOverrides(syslog.ConfigPrefix, opts.overrides)...); err != nil {
			return fail(err)
		}
		s, err := syslog.New(cfg)
		if err != nil {
			return fail(err)
		}
		sinks = append(sinks, s)
	}

	return sinks, nil
}

func closeSinks(sinks []smartlog.Sink) {
	for _, s := range sinks {
		smartlog.ReportError(s.Close())
	}
}

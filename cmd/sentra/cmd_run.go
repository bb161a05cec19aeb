package main

// ---------------------------------------------------------------------------
// cmd_run.go — start the engine, feeds, and API server
// ---------------------------------------------------------------------------

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sentra-project/sentra/internal/api"
	"github.com/sentra-project/sentra/internal/core"
	"github.com/sentra-project/sentra/internal/engine"
)

func cmdRun(args []string) {
	fs := flag.NewFlagSet("run", flag.ExitOnError)
	configPath := fs.String("config", "", "Config file path (YAML)")
	busFlag := fs.Bool("bus", false, "Enable the embedded NATS event bus")
	portFlag := fs.Int("port", 0, "API port override")
	fs.Parse(args)

	cfg, err := core.LoadConfig(*configPath)
	if err != nil {
		errorf("loading config: %v", err)
	}
	if *busFlag {
		cfg.Bus.Enabled = true
	}
	if *portFlag != 0 {
		cfg.API.Port = *portFlag
	}

	eng, err := engine.New(cfg)
	if err != nil {
		errorf("creating engine: %v", err)
	}
	if err := eng.Start(); err != nil {
		errorf("starting engine: %v", err)
	}

	var server *api.Server
	if cfg.API.Enabled {
		server = api.NewServer(eng)
		go func() {
			if err := server.Start(); err != nil {
				eng.Logger.Error().Err(err).Msg("API server failed")
			}
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	eng.Logger.Info().Msg("shutdown signal received")
	if server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		_ = server.Shutdown(ctx)
		cancel()
	}
	eng.Stop()
}

package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/daniacca/ecosim/internal/eco"
)

func main() {
	cfg := loadServerConfig()

	logger, err := newLogger(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "fatal: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	srv := NewServer(logger, cfg.TickIntervalMS)
	defer srv.Close()

	// A scenario given at startup becomes the default world.
	if cfg.ScenarioFile != "" {
		scenario, err := eco.LoadScenario(cfg.ScenarioFile)
		if err != nil {
			logger.Fatalf("Failed to load scenario: file=%s error=%v", cfg.ScenarioFile, err)
		}
		worldID := eco.WorldID(cfg.DefaultWorldID)
		if err := srv.manager.Create(worldID, scenario); err != nil {
			logger.Fatalf("Failed to create startup world: world_id=%s error=%v", worldID, err)
		}
		logger.Infof("Startup world created: world_id=%s scenario=%s", worldID, cfg.ScenarioFile)
	}

	logger.Infof("ecosim-server listening on %s", cfg.Addr)
	if err := http.ListenAndServe(cfg.Addr, srv.Routes()); err != nil {
		logger.Fatalf("Server error: %v", err)
	}
}

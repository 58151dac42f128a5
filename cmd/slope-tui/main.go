package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/slopewatch/tui/internal/app"
	"github.com/slopewatch/tui/internal/client"
	"github.com/slopewatch/tui/internal/config"
	"github.com/slopewatch/tui/internal/logging"
)

func main() {
	configPath := flag.String("config", config.DefaultPath(), "Path to the config file")
	serverURL := flag.String("server", "", "HTTP base URL of the monitoring backend (overrides config)")
	tokenPath := flag.String("token", config.TokenPath(), "Path of the persisted session credential")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if *serverURL != "" {
		cfg.Server.URL = *serverURL
	}

	// The TUI owns the terminal, so logs go to a rotated file.
	log := logging.New(cfg.Log)
	defer log.Sync()

	session := client.NewSession(*tokenPath, log)
	httpClient := client.New(cfg.Server.URL, session, log)

	// Probe the backend once so a misconfigured URL is visible in the log
	// before the first login attempt times out.
	go func() {
		h, err := httpClient.HealthCheck()
		if err != nil {
			log.Warn("backend health probe failed", zap.String("server", cfg.Server.URL), zap.Error(err))
			return
		}
		log.Info("backend reachable", zap.String("status", h.Status))
	}()

	m := app.New(httpClient, cfg, log)
	p := tea.NewProgram(m, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log.Info("shutdown", zap.String("server", cfg.Server.URL))
}

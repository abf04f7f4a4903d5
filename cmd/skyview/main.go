package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"runtime"

	"github.com/leterax/go-skyview/internal/config"
	"github.com/leterax/go-skyview/pkg/render"
)

func init() {
	// This is needed to ensure that OpenGL functions are called from the same thread
	runtime.LockOSThread()
}

func main() {
	// Parse command line flags
	configPath := flag.String("config", "", "Path to a TOML config file (empty for defaults)")
	logLevel := flag.String("log-level", "", "Log level override: debug, info, warn or error")
	dumpConfig := flag.Bool("dump-config", false, "Print the effective config as TOML and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *logLevel != "" {
		cfg.Log.Level = *logLevel
	}

	level, err := cfg.LogLevel()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid log level: %v\n", err)
		os.Exit(1)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if *dumpConfig {
		out, err := config.Encode(cfg)
		if err != nil {
			logger.Error("failed to encode config", "err", err)
			os.Exit(1)
		}
		os.Stdout.Write(out)
		return
	}

	// Initialize the renderer
	renderer, err := render.NewRenderer(cfg, logger)
	if err != nil {
		logger.Error("failed to initialize renderer", "err", err)
		os.Exit(1)
	}
	defer renderer.Cleanup()

	renderer.Run()
}

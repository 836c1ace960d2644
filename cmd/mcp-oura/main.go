// Package main provides the entry point for the mcp-oura server.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	mcpserver "github.com/lifewear/mcp-oura/internal/server"
	"github.com/lifewear/mcp-oura/pkg/config"
	"github.com/lifewear/mcp-oura/pkg/telemetry"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

type serverOptions struct {
	configPath  string
	transport   string
	address     string
	showVersion bool
}

func parseFlags() serverOptions {
	opts := serverOptions{}
	flag.StringVar(&opts.configPath, "config", "", "Path to configuration file")
	flag.StringVar(&opts.transport, "transport", "", "Transport type: stdio, http")
	flag.StringVar(&opts.address, "address", "", "Listen address for the http transport")
	flag.BoolVar(&opts.showVersion, "version", false, "Show version and exit")
	flag.Parse()
	return opts
}

func setupSignalHandler() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		cancel()
	}()
	return ctx
}

// applyFlagOverrides lets CLI flags win over the config file.
func applyFlagOverrides(cfg *config.Config, opts serverOptions) {
	if opts.transport != "" {
		cfg.Server.Transport = opts.transport
	}
	if opts.address != "" {
		cfg.Server.Address = opts.address
	}
}

func run() error {
	opts := parseFlags()

	if opts.showVersion {
		fmt.Printf("mcp-oura version %s\n", mcpserver.Version)
		return nil
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyFlagOverrides(cfg, opts)

	level, err := config.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}

	// Stdout belongs to the stdio transport; all logging and
	// telemetry goes to stderr.
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	sink := telemetry.NewJSONSink(os.Stderr, level)

	ctx := setupSignalHandler()
	srv := mcpserver.New(cfg, logger, sink)
	return srv.Run(ctx)
}

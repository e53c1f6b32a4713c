// Whack-a-mole Client - Main Entry Point
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"wam-game/internal/client"
	"wam-game/internal/config"
	"wam-game/pkg/logger"
)

var (
	version  = "1.0.0"
	logLevel = flag.String("log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile  = flag.String("log-file", "", "Log file path (optional)")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [OPTIONS] %s\n\nOPTIONS:\n", os.Args[0], config.ClientUsage)
		flag.PrintDefaults()
	}
	flag.Parse()

	args, err := config.ParseClientArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		flag.Usage()
		os.Exit(2)
	}

	// Initialize logging
	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}

	logger.Client.Info("Starting Whack-a-mole Client v%s", version)
	logger.Client.Info("Connecting to server: %s", args.Address())

	gameClient := client.NewClient(args.Address(), os.Stdin, os.Stdout)

	// Setup graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = gameClient.Start(ctx)
	logger.Sync()
	switch {
	case err == nil, errors.Is(err, client.ErrQuit), errors.Is(err, context.Canceled):
		logger.Client.Info("Client shutting down gracefully")
	default:
		logger.Client.Error("Client stopped: %v", err)
		stop()
		os.Exit(1)
	}
}

// initLogging sets up the logging system
func initLogging() error {
	level, ok := logger.ParseLevel(*logLevel)
	logger.SetGlobalLogLevel(level)
	if !ok {
		logger.Client.Warn("Unknown log level %q, using INFO", *logLevel)
	}

	// Set up file logging if specified
	if *logFile != "" {
		if err := logger.Client.SetFile(*logFile); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
		logger.Client.Info("Logging to file: %s", *logFile)
	}

	return nil
}

// Whack-a-mole Server - Main Entry Point
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/multierr"

	"wam-game/internal/config"
	"wam-game/internal/httpapi"
	"wam-game/internal/server"
	"wam-game/internal/ws"
	"wam-game/pkg/logger"
)

var (
	version   = "1.0.0"
	buildTime = "dev"
	logLevel  = flag.String("log-level", "", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile   = flag.String("log-file", "", "Log file path (optional)")
	status    = flag.String("status", "", "HTTP status and spectator address, e.g. :8081 (optional)")
	tuning    = flag.String("tuning", "", "JSON tuning file (optional)")
	help      = flag.Bool("help", false, "Show help information")
	ver       = flag.Bool("version", false, "Show version information")
)

const shutdownTimeout = 5 * time.Second

func main() {
	os.Exit(run())
}

func run() int {
	if err := config.LoadEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	flag.Usage = showHelp
	flag.Parse()

	// Show help
	if *help {
		showHelp()
		return 0
	}

	// Show version
	if *ver {
		showVersion()
		return 0
	}

	args, err := config.ParseServerArgs(flag.Args())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n\nUsage: %s [OPTIONS] %s\n", err, os.Args[0], config.ServerUsage)
		return 2
	}

	// Initialize logging
	if err := initLogging(); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		return 1
	}
	defer logger.Sync()

	logger.Server.Info("Starting Whack-a-mole Server v%s", version)

	cfg := args.Game
	if path := setting(*tuning, config.EnvTuningFile); path != "" {
		t, err := config.LoadTuning(path)
		if err == nil {
			cfg, err = t.Apply(cfg)
		}
		if err != nil {
			logger.Server.Error("Bad tuning file: %v", err)
			return 2
		}
		logger.Server.Info("Loaded tuning from %s", path)
	}

	gameServer := server.NewServer(args.Address(), cfg)
	if err := gameServer.Listen(); err != nil {
		logger.Server.Error("Server failed to start: %v", err)
		return 1
	}

	ctx, stop := setupGracefulShutdown()
	defer stop()

	relay := ws.NewRelay(context.Background())
	defer relay.Shutdown()
	gameServer.SetPublisher(relay)

	var statusServer *http.Server
	if addr := setting(*status, config.EnvStatusAddr); addr != "" {
		statusServer = startStatusServer(addr, gameServer, relay)
	}

	standings, err := gameServer.Run(ctx)
	relay.Shutdown()
	if statusServer != nil {
		stopStatusServer(statusServer)
	}

	if errors.Is(err, server.ErrAborted) {
		logger.Server.Warn("Shutdown requested before all players connected")
		return 0
	}
	if err != nil {
		logger.Server.Error("Session failed: %v", err)
		return 1
	}

	logger.Server.Info("Session %s finished with %d connected player(s)", gameServer.ID(), len(standings))
	return 0
}

// setting prefers an explicit flag over the environment
func setting(flagValue, envKey string) string {
	if flagValue != "" {
		return flagValue
	}
	return config.Env(envKey, "")
}

// initLogging sets up the logging system
func initLogging() error {
	name := setting(*logLevel, config.EnvLogLevel)
	if name == "" {
		name = "INFO"
	}
	level, ok := logger.ParseLevel(name)
	logger.SetGlobalLogLevel(level)
	if !ok {
		logger.Server.Warn("Unknown log level %q, using INFO", name)
	}

	// Set up file logging if specified
	if path := setting(*logFile, config.EnvLogFile); path != "" {
		if err := logger.Server.SetFile(path); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
		logger.Server.Info("Logging to file: %s", path)
	} else {
		// Initialize default file logging
		if err := logger.InitializeFileLogging("./logs"); err != nil {
			// Don't fail if we can't create log directory, just log to console
			logger.Server.Warn("Could not initialize file logging: %v", err)
		}
	}

	return nil
}

// setupGracefulShutdown cancels the returned context on interrupt signals.
// The session still announces results if play had begun.
func setupGracefulShutdown() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		select {
		case <-c:
			logger.Server.Info("Received shutdown signal, stopping server...")
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, func() {
		signal.Stop(c)
		cancel()
	}
}

func startStatusServer(addr string, src httpapi.StatusSource, relay *ws.Relay) *http.Server {
	srv := &http.Server{
		Addr:              addr,
		Handler:           httpapi.SetupRoutes(src, relay),
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Server.Info("Status server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Server.Error("Status server failed: %v", err)
		}
	}()
	return srv
}

func stopStatusServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		err = multierr.Append(err, srv.Close())
		logger.Server.Warn("Status server shutdown: %v", err)
	}
}

// showHelp displays help information
func showHelp() {
	fmt.Printf(`Whack-a-mole Server v%s

USAGE:
    %s [OPTIONS] port rows cols playerCount durationSeconds

OPTIONS:
    -log-level string    Set log level (DEBUG, INFO, WARN, ERROR) (default "INFO")
    -log-file string     Set log file path (optional)
    -status string       Serve /healthz, /status and /ws spectators on this address (optional)
    -tuning string       JSON file overriding mole dwell times and clock tick (optional)
    -help               Show this help message
    -version            Show version information

ENVIRONMENT (also read from ./.env):
    WAM_LOG_LEVEL, WAM_LOG_FILE, WAM_STATUS_ADDR, WAM_TUNING_FILE
    Flags take precedence over the environment.

EXAMPLES:
    # Two players on a 3x4 board for one minute
    %s 5050 3 4 2 60

    # With debug logging and a status page
    %s -log-level DEBUG -status :8081 5050 3 4 2 60

SESSION:
    - Waits for exactly playerCount connections, numbered in connection order
    - Moles pop up and down independently on every cell
    - Whacking an up mole scores 2, whacking an empty cell costs 1
    - Ends when time runs out or every player has left
`, version, os.Args[0], os.Args[0], os.Args[0])
}

// showVersion displays version information
func showVersion() {
	fmt.Printf(`Whack-a-mole Server
Version: %s
Build Time: %s
`, version, buildTime)
}

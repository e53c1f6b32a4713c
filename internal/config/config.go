// Package config parses process arguments, .env defaults and the tuning file
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"wam-game/internal/game"
)

// ErrUsage marks bad command line arguments
var ErrUsage = errors.New("usage error")

const (
	EnvLogLevel   = "WAM_LOG_LEVEL"
	EnvLogFile    = "WAM_LOG_FILE"
	EnvStatusAddr = "WAM_STATUS_ADDR"
	EnvTuningFile = "WAM_TUNING_FILE"
)

const (
	ServerUsage = "port rows cols playerCount durationSeconds"
	ClientUsage = "host port"
)

// ServerArgs are the positional server arguments
type ServerArgs struct {
	Port int
	Game game.Config
}

// Address is the TCP listen address for Port on all interfaces
func (a ServerArgs) Address() string {
	return net.JoinHostPort("", strconv.Itoa(a.Port))
}

// ParseServerArgs reads "port rows cols playerCount durationSeconds"
func ParseServerArgs(args []string) (ServerArgs, error) {
	if len(args) != 5 {
		return ServerArgs{}, fmt.Errorf("%w: expected %d arguments (%s), got %d", ErrUsage, 5, ServerUsage, len(args))
	}

	names := []string{"port", "rows", "cols", "playerCount", "durationSeconds"}
	values := make([]int, len(args))
	for i, arg := range args {
		v, err := strconv.Atoi(arg)
		if err != nil {
			return ServerArgs{}, fmt.Errorf("%w: %s must be an integer, got %q", ErrUsage, names[i], arg)
		}
		values[i] = v
	}

	port, err := checkPort(values[0])
	if err != nil {
		return ServerArgs{}, err
	}

	cfg := game.NewConfig(values[1], values[2], values[3], time.Duration(values[4])*time.Second)
	if err := cfg.Validate(); err != nil {
		return ServerArgs{}, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return ServerArgs{Port: port, Game: cfg}, nil
}

// ClientArgs are the positional client arguments
type ClientArgs struct {
	Host string
	Port int
}

func (a ClientArgs) Address() string {
	return net.JoinHostPort(a.Host, strconv.Itoa(a.Port))
}

// ParseClientArgs reads "host port"
func ParseClientArgs(args []string) (ClientArgs, error) {
	if len(args) != 2 {
		return ClientArgs{}, fmt.Errorf("%w: expected %d arguments (%s), got %d", ErrUsage, 2, ClientUsage, len(args))
	}
	if args[0] == "" {
		return ClientArgs{}, fmt.Errorf("%w: host must not be empty", ErrUsage)
	}
	v, err := strconv.Atoi(args[1])
	if err != nil {
		return ClientArgs{}, fmt.Errorf("%w: port must be an integer, got %q", ErrUsage, args[1])
	}
	port, err := checkPort(v)
	if err != nil {
		return ClientArgs{}, err
	}
	if port == 0 {
		return ClientArgs{}, fmt.Errorf("%w: port must be between 1 and 65535", ErrUsage)
	}
	return ClientArgs{Host: args[0], Port: port}, nil
}

// port 0 asks the kernel for a free port
func checkPort(port int) (int, error) {
	if port < 0 || port > 65535 {
		return 0, fmt.Errorf("%w: port must be between 0 and 65535, got %d", ErrUsage, port)
	}
	return port, nil
}

// LoadEnv loads KEY=value pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadEnv(path string) error {
	err := godotenv.Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Env returns the variable named key, or fallback when it is unset or empty
func Env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

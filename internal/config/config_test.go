package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wam-game/internal/game"
)

func TestParseServerArgs(t *testing.T) {
	args, err := ParseServerArgs([]string{"5050", "3", "4", "2", "60"})
	require.NoError(t, err)

	assert.Equal(t, 5050, args.Port)
	assert.Equal(t, ":5050", args.Address())
	assert.Equal(t, game.NewConfig(3, 4, 2, time.Minute), args.Game)
}

func TestParseServerArgs_Errors(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{"no arguments", nil},
		{"too few", []string{"5050", "3", "4", "2"}},
		{"too many", []string{"5050", "3", "4", "2", "60", "x"}},
		{"port not a number", []string{"http", "3", "4", "2", "60"}},
		{"port too large", []string{"70000", "3", "4", "2", "60"}},
		{"zero rows", []string{"5050", "0", "4", "2", "60"}},
		{"negative cols", []string{"5050", "3", "-4", "2", "60"}},
		{"no players", []string{"5050", "3", "4", "0", "60"}},
		{"zero duration", []string{"5050", "3", "4", "2", "0"}},
		{"fractional duration", []string{"5050", "3", "4", "2", "1.5"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParseServerArgs(tc.args)
			assert.ErrorIs(t, err, ErrUsage)
		})
	}
}

func TestParseServerArgs_InvalidConfigIsUsage(t *testing.T) {
	_, err := ParseServerArgs([]string{"5050", "0", "4", "2", "60"})
	assert.ErrorIs(t, err, ErrUsage)
	assert.ErrorIs(t, err, game.ErrInvalidConfig)
}

func TestParseClientArgs(t *testing.T) {
	args, err := ParseClientArgs([]string{"localhost", "5050"})
	require.NoError(t, err)
	assert.Equal(t, ClientArgs{Host: "localhost", Port: 5050}, args)
	assert.Equal(t, "localhost:5050", args.Address())

	for _, bad := range [][]string{
		{"localhost"},
		{"", "5050"},
		{"localhost", "port"},
		{"localhost", "0"},
		{"localhost", "65536"},
	} {
		_, err := ParseClientArgs(bad)
		assert.ErrorIs(t, err, ErrUsage, "args %q", bad)
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("WAM_STATUS_ADDR=:9090\nWAM_LOG_LEVEL=DEBUG\n"), 0o644))

	t.Setenv(EnvStatusAddr, "")
	os.Unsetenv(EnvStatusAddr)
	t.Setenv(EnvLogLevel, "WARN")

	require.NoError(t, LoadEnv(path))
	assert.Equal(t, ":9090", Env(EnvStatusAddr, ""))
	// variables already set win over the file
	assert.Equal(t, "WARN", Env(EnvLogLevel, "INFO"))
	assert.Equal(t, "fallback", Env("WAM_TEST_UNSET_VARIABLE", "fallback"))
}

func TestLoadEnv_MissingFileIsIgnored(t *testing.T) {
	assert.NoError(t, LoadEnv(filepath.Join(t.TempDir(), "missing.env")))
}

func writeTuning(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tuning.json")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadTuning_AppliesOverrides(t *testing.T) {
	path := writeTuning(t, `{
	// quick moles for a demo
	"up_dwell_ms": {"min": 500, "max": 800},
	"clock_tick_ms": 50
}
`)
	tuning, err := LoadTuning(path)
	require.NoError(t, err)

	cfg, err := tuning.Apply(game.NewConfig(2, 2, 2, time.Minute))
	require.NoError(t, err)
	assert.Equal(t, game.DwellRange{Min: 500 * time.Millisecond, Max: 800 * time.Millisecond}, cfg.UpDwell)
	assert.Equal(t, game.DefaultDownDwell, cfg.DownDwell)
	assert.Equal(t, 50*time.Millisecond, cfg.Tick)
}

func TestLoadTuning_Errors(t *testing.T) {
	_, err := LoadTuning(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)

	_, err = LoadTuning(writeTuning(t, `{"up_dwell_ms": `))
	assert.Error(t, err)

	tuning, err := LoadTuning(writeTuning(t, `{"down_dwell_ms": {"min": 900, "max": 100}}`))
	require.NoError(t, err)
	_, err = tuning.Apply(game.NewConfig(2, 2, 2, time.Minute))
	assert.ErrorIs(t, err, game.ErrInvalidConfig)
}

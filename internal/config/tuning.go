package config

import (
	"fmt"
	"time"

	"github.com/sauerbraten/jsonfile"

	"wam-game/internal/game"
)

// MillisRange is a dwell range in milliseconds
type MillisRange struct {
	Min int64 `json:"min"`
	Max int64 `json:"max"`
}

func (r MillisRange) dwell() game.DwellRange {
	return game.DwellRange{
		Min: time.Duration(r.Min) * time.Millisecond,
		Max: time.Duration(r.Max) * time.Millisecond,
	}
}

// Tuning overrides session timing. Keys left out of the file keep their defaults.
//
//	{
//		// moles stay up 1-2 s
//		"up_dwell_ms": {"min": 1000, "max": 2000},
//		"down_dwell_ms": {"min": 3000, "max": 10000},
//		"clock_tick_ms": 100
//	}
type Tuning struct {
	UpDwell     *MillisRange `json:"up_dwell_ms"`
	DownDwell   *MillisRange `json:"down_dwell_ms"`
	ClockTickMS int64        `json:"clock_tick_ms"`
}

// LoadTuning parses a tuning file, which may contain // comments
func LoadTuning(path string) (Tuning, error) {
	var t Tuning
	if err := jsonfile.ParseFile(path, &t); err != nil {
		return Tuning{}, fmt.Errorf("failed to parse tuning file %s: %w", path, err)
	}
	return t, nil
}

// Apply returns cfg with the tuning overrides, validated
func (t Tuning) Apply(cfg game.Config) (game.Config, error) {
	if t.UpDwell != nil {
		cfg.UpDwell = t.UpDwell.dwell()
	}
	if t.DownDwell != nil {
		cfg.DownDwell = t.DownDwell.dwell()
	}
	if t.ClockTickMS != 0 {
		cfg.Tick = time.Duration(t.ClockTickMS) * time.Millisecond
	}
	if err := cfg.Validate(); err != nil {
		return game.Config{}, err
	}
	return cfg, nil
}

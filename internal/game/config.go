package game

import (
	"fmt"
	"strconv"
)

// GenerateLevel is the Level value that requests a BSP dungeon.
const GenerateLevel = "generate"

// Config holds viewer configuration options.
type Config struct {
	// Level is a built-in level ID, a path to a YAML level file, or
	// GenerateLevel. Empty means the first built-in level.
	Level string

	// Seed for dungeon generation. Used for reproducible dungeons.
	// A seed of 0 means a random seed will be generated.
	Seed int64

	// Watch reloads a file-backed level whenever it changes on disk.
	Watch bool
}

// ConfigFromEnv reads TILENAV_LEVEL, TILENAV_SEED and TILENAV_WATCH through
// getenv.
func ConfigFromEnv(getenv func(string) string) (Config, error) {
	cfg := Config{Level: getenv("TILENAV_LEVEL")}

	if s := getenv("TILENAV_SEED"); s != "" {
		seed, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TILENAV_SEED %q: %w", s, err)
		}
		cfg.Seed = seed
	}

	if s := getenv("TILENAV_WATCH"); s != "" {
		watch, err := strconv.ParseBool(s)
		if err != nil {
			return Config{}, fmt.Errorf("invalid TILENAV_WATCH %q: %w", s, err)
		}
		cfg.Watch = watch
	}

	return cfg, nil
}

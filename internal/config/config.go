// Package config holds the explicit configuration passed to every component.
// There are no ambient globals; construction order is defaults, then the
// config file, then the environment.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config carries every tunable the explorer uses
type Config struct {
	Root               string   `json:"root,omitempty"`                 // starting directory
	LargeFileThreshold int64    `json:"large_file_threshold,omitempty"` // bytes; files at or above are tracked
	LargeFileLimit     int      `json:"large_file_limit,omitempty"`     // capacity of the largest-files list
	ChildWorkers       int      `json:"child_workers,omitempty"`        // concurrent children per scan
	WalkWorkers        int      `json:"walk_workers,omitempty"`         // walk parallelism per subtree
	Protected          []string `json:"protected,omitempty"`            // extra protected prefixes
	CacheDir           string   `json:"cache_dir,omitempty"`            // size-cache snapshot directory
	NoCache            bool     `json:"no_cache,omitempty"`             // disable the persistent snapshot
	NoWatch            bool     `json:"no_watch,omitempty"`             // disable filesystem watching
	CacheTTLDays       int      `json:"cache_ttl_days,omitempty"`       // persisted entries older than this are dropped
}

// Default returns the built-in configuration
func Default() Config {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Config{
		Root:               home,
		LargeFileThreshold: 100 << 20,
		LargeFileLimit:     30,
		CacheTTLDays:       7,
	}
}

// Path returns the config file location
func Path() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "burrow", "config.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "burrow.json"
	}
	return filepath.Join(home, ".burrow", "config.json")
}

// Load builds the effective configuration: defaults, overlaid by the config
// file when present, overlaid by BURROW_* environment variables (a .env file
// in the working directory is honored).
func Load() (Config, error) {
	cfg := Default()

	if data, err := os.ReadFile(Path()); err == nil {
		if err := json.Unmarshal(data, &cfg); err != nil {
			return cfg, err
		}
	} else if !os.IsNotExist(err) {
		return cfg, err
	}

	// Missing .env is fine; it only feeds os.Getenv below
	_ = godotenv.Load()
	cfg.applyEnv()

	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("BURROW_ROOT"); v != "" {
		c.Root = v
	}
	if v := os.Getenv("BURROW_LARGE_FILE_THRESHOLD"); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			c.LargeFileThreshold = n
		}
	}
	if v := os.Getenv("BURROW_LARGE_FILE_LIMIT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.LargeFileLimit = n
		}
	}
	if v := os.Getenv("BURROW_PROTECTED"); v != "" {
		for _, p := range strings.Split(v, ":") {
			if p != "" {
				c.Protected = append(c.Protected, p)
			}
		}
	}
	if v := os.Getenv("BURROW_CHILD_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ChildWorkers = n
		}
	}
	if v := os.Getenv("BURROW_WALK_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.WalkWorkers = n
		}
	}
	if v := os.Getenv("BURROW_CACHE_DIR"); v != "" {
		c.CacheDir = v
	}
	if v := os.Getenv("BURROW_CACHE_TTL_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.CacheTTLDays = n
		}
	}
	if v := os.Getenv("BURROW_NO_CACHE"); v != "" {
		c.NoCache = v == "1" || strings.EqualFold(v, "true")
	}
	if v := os.Getenv("BURROW_NO_WATCH"); v != "" {
		c.NoWatch = v == "1" || strings.EqualFold(v, "true")
	}
}

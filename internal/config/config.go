// Package config loads the uldpack configuration file.
//
// Configuration is TOML with four sections: server, solver, cache, and
// archive. Every field has a default, so an absent file yields a working
// configuration; the file path is only an override mechanism.
package config

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/pack"
)

// Config is the full application configuration.
type Config struct {
	Server  Server  `toml:"server"`
	Solver  Solver  `toml:"solver"`
	Cache   Cache   `toml:"cache"`
	Archive Archive `toml:"archive"`
}

// Server configures the HTTP service.
type Server struct {
	// Addr is the listen address, e.g. ":8000".
	Addr string `toml:"addr"`
	// Mock is decoded from the file but not read by the HTTP handlers:
	// a request that sets "mock" is served the sample CSV whatever this
	// field says.
	Mock bool `toml:"mock"`
	// SampleCSV is the path of the cached sample solution.
	SampleCSV string `toml:"sample_csv"`
}

// Solver configures the genetic search defaults. Requests may override
// the seed.
type Solver struct {
	Population  int     `toml:"population"`
	Generations int     `toml:"generations"`
	Elites      int     `toml:"elites"`
	EliteBias   float64 `toml:"elite_bias"`
	Seed        int64   `toml:"seed"`
}

// Params converts the solver section to engine parameters.
func (s Solver) Params() pack.Params {
	return pack.Params{
		Population:  s.Population,
		Generations: s.Generations,
		Elites:      s.Elites,
		EliteBias:   s.EliteBias,
	}
}

// Cache configures the solution cache.
type Cache struct {
	// Backend selects the cache implementation: "file", "redis", or "none".
	Backend string `toml:"backend"`
	// Dir is the file cache directory. Empty means the user cache dir.
	Dir string `toml:"dir"`
	// RedisAddr is the host:port of the Redis server.
	RedisAddr string `toml:"redis_addr"`
	// TTLHours is decoded from the file but not passed to the pipeline
	// runners built by the CLI and the server; they keep cache entries for
	// 24 hours regardless of this value.
	TTLHours int `toml:"ttl_hours"`
}

// Archive configures the optional run archive.
type Archive struct {
	Enabled  bool   `toml:"enabled"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: Server{
			Addr:      ":8000",
			SampleCSV: "sample_solution.csv",
		},
		Solver: Solver{
			Population:  2,
			Generations: 500,
			Elites:      1,
			EliteBias:   0.8,
			Seed:        42,
		},
		Cache: Cache{
			Backend:   "file",
			RedisAddr: "localhost:6379",
			TTLHours:  24,
		},
		Archive: Archive{
			MongoURI: "mongodb://localhost:27017",
			Database: "uldpack",
		},
	}
}

// Load reads a TOML file over the defaults. An empty path returns the
// defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, errors.New(errors.ErrCodeFileNotFound, "config file %q does not exist", path)
	}
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "decode %q", path)
	}
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.Cache.Backend {
	case "file", "redis", "none":
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "cache backend must be file, redis, or none, got %q", c.Cache.Backend)
	}
	if c.Solver.Population < 2 {
		return errors.New(errors.ErrCodeInvalidConfig, "solver population must be at least 2")
	}
	return nil
}

// CacheDir returns the configured file-cache directory, defaulting to the
// user cache dir.
func (c Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "uldpack"), nil
}

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_EmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Server.Addr = %q, want :8000", cfg.Server.Addr)
	}
	if cfg.Solver.Generations != 500 {
		t.Errorf("Solver.Generations = %d, want 500", cfg.Solver.Generations)
	}
	if cfg.Cache.Backend != "file" {
		t.Errorf("Cache.Backend = %q, want file", cfg.Cache.Backend)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uldpack.toml")
	content := `
[server]
addr = ":9000"
mock = true

[solver]
generations = 50
seed = 7

[cache]
backend = "redis"
redis_addr = "redis:6379"
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Server.Addr != ":9000" {
		t.Errorf("Server.Addr = %q, want :9000", cfg.Server.Addr)
	}
	if !cfg.Server.Mock {
		t.Error("Server.Mock = false, want true")
	}
	if cfg.Solver.Generations != 50 {
		t.Errorf("Solver.Generations = %d, want 50", cfg.Solver.Generations)
	}
	if cfg.Solver.Seed != 7 {
		t.Errorf("Solver.Seed = %d, want 7", cfg.Solver.Seed)
	}
	// Fields absent from the file keep their defaults; present ones override.
	if cfg.Solver.Population != 2 {
		t.Errorf("Solver.Population = %d, want 2", cfg.Solver.Population)
	}
	if cfg.Cache.RedisAddr != "redis:6379" {
		t.Errorf("Cache.RedisAddr = %q, want redis:6379", cfg.Cache.RedisAddr)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Error("Load() accepted a missing file")
	}
}

func TestLoad_InvalidBackend(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uldpack.toml")
	os.WriteFile(path, []byte("[cache]\nbackend = \"memcached\"\n"), 0644)

	if _, err := Load(path); err == nil {
		t.Error("Load() accepted an unknown cache backend")
	}
}

func TestSolverParams_Conversion(t *testing.T) {
	s := Solver{Population: 4, Generations: 100, Elites: 2, EliteBias: 0.7}
	p := s.Params()
	if p.Population != 4 || p.Generations != 100 || p.Elites != 2 || p.EliteBias != 0.7 {
		t.Errorf("Params() = %+v, want matching fields", p)
	}
}

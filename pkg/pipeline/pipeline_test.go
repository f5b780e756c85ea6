package pipeline

import (
	"context"
	"testing"

	"github.com/matzehuels/uldpack/pkg/cache"
	"github.com/matzehuels/uldpack/pkg/pack"
)

func smallOptions() Options {
	return Options{
		Packages: []pack.Package{
			{ID: "P1", Length: 2, Width: 3, Height: 4, Weight: 5, Cost: 100, Priority: true},
			{ID: "E1", Length: 3, Width: 3, Height: 3, Weight: 2, Cost: 40, Priority: false},
		},
		ULDs: []pack.ULD{
			{ID: "U1", Length: 10, Width: 10, Height: 10, Capacity: 1000},
		},
		Params: pack.Params{Population: 2, Generations: 5, Elites: 1, EliteBias: 0.8},
		Seed:   11,
	}
}

func TestExecute_EndToEnd(t *testing.T) {
	runner := NewRunner(nil, nil, nil)

	result, err := runner.Execute(context.Background(), smallOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.RunID == "" {
		t.Error("RunID is empty")
	}
	if len(result.Placements) != 2 {
		t.Errorf("placed %d, want 2", len(result.Placements))
	}
	if len(result.LoadingOrder) != 2 {
		t.Errorf("loading order has %d entries, want 2", len(result.LoadingOrder))
	}
	if result.Stats.Placed != 2 {
		t.Errorf("Stats.Placed = %d, want 2", result.Stats.Placed)
	}
	if result.CacheInfo.Hit {
		t.Error("CacheInfo.Hit = true on first run")
	}
	for _, rec := range result.Placements {
		if rec.ULDID != "U1" {
			t.Errorf("placement in %q, want U1", rec.ULDID)
		}
	}
}

func TestExecute_CacheRoundTrip(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	ctx := context.Background()

	first, err := runner.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	second, err := runner.Execute(ctx, smallOptions())
	if err != nil {
		t.Fatalf("Execute() second error: %v", err)
	}
	if !second.CacheInfo.Hit {
		t.Error("second run missed the cache")
	}
	if second.Fitness != first.Fitness {
		t.Errorf("cached fitness %.0f differs from computed %.0f", second.Fitness, first.Fitness)
	}
	if len(second.Placements) != len(first.Placements) {
		t.Errorf("cached placements differ in length")
	}

	// Refresh bypasses the cached entry.
	opts := smallOptions()
	opts.Refresh = true
	third, err := runner.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() third error: %v", err)
	}
	if third.CacheInfo.Hit {
		t.Error("refresh run served from cache")
	}
}

func TestExecute_InvalidInput(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	opts := smallOptions()
	opts.Packages = nil

	if _, err := runner.Execute(context.Background(), opts); err == nil {
		t.Error("Execute() accepted empty package list")
	}
}

func TestOptions_DefaultsApplied(t *testing.T) {
	opts := Options{
		Packages: smallOptions().Packages,
		ULDs:     smallOptions().ULDs,
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults() error: %v", err)
	}
	if opts.Params != pack.DefaultParams() {
		t.Errorf("Params = %+v, want defaults", opts.Params)
	}
	if opts.Seed != DefaultSeed {
		t.Errorf("Seed = %d, want %d", opts.Seed, DefaultSeed)
	}
	if opts.RunID == "" {
		t.Error("RunID not assigned")
	}
	if opts.Logger == nil {
		t.Error("Logger not assigned")
	}
}

func TestRunID_ContextRoundTrip(t *testing.T) {
	ctx := WithRunID(context.Background(), "run-123")
	if got := RunIDFromContext(ctx); got != "run-123" {
		t.Errorf("RunIDFromContext() = %q, want run-123", got)
	}
	if got := RunIDFromContext(context.Background()); got != "" {
		t.Errorf("RunIDFromContext() = %q, want empty", got)
	}
}

// Package pipeline provides the core solve pipeline for uldpack.
//
// This package implements the complete validate → solve → order flow used
// by both the CLI and the HTTP service. By centralizing this logic, we
// ensure consistent behavior across all entry points and avoid code
// duplication.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Validate: check packages, ULDs, and solver parameters
//  2. Solve: run the genetic search over the placement engine
//  3. Order: lift the winning placement into a loading sequence
//
// Finished results are cached by a content hash of the request, so
// identical requests skip the solve entirely.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, store, logger)
//	opts := pipeline.Options{Packages: pkgs, ULDs: ulds, Seed: 42}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    return err
//	}
//	fmt.Println(result.LoadingOrder)
package pipeline

import (
	"context"
	"io"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uldpack/pkg/archive"
	"github.com/matzehuels/uldpack/pkg/pack"
)

// DefaultSeed is the default random seed for reproducible runs.
const DefaultSeed = int64(42)

// Options contains all configuration for one solve.
// This struct supports JSON serialization for API requests.
type Options struct {
	Packages []pack.Package `json:"packages"`
	ULDs     []pack.ULD     `json:"ulds"`

	// Params configures the genetic search. The zero value means
	// pack.DefaultParams().
	Params pack.Params `json:"params,omitempty"`

	// Seed makes the run reproducible. Zero means DefaultSeed.
	Seed int64 `json:"seed,omitempty"`

	// Refresh bypasses the cache read (the result is still written back).
	Refresh bool `json:"refresh,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
	RunID  string      `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// This method is idempotent - calling it multiple times has the same
// effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := pack.ValidateInput(o.Packages, o.ULDs); err != nil {
		return err
	}
	if o.Params == (pack.Params{}) {
		o.Params = pack.DefaultParams()
	}
	if o.Seed == 0 {
		o.Seed = DefaultSeed
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if o.RunID == "" {
		o.RunID = archive.NewRunID()
	}
	o.validated = true
	return nil
}

// =============================================================================
// Run ID Context Plumbing
// =============================================================================

type ctxKey int

const runIDKey ctxKey = 0

// WithRunID returns a context carrying the run identifier. Solver hooks
// receive this context and can attribute events to the run.
func WithRunID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, runIDKey, id)
}

// RunIDFromContext extracts the run identifier, or "" if absent.
func RunIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(runIDKey).(string); ok {
		return id
	}
	return ""
}

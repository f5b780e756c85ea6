package pipeline

import (
	"context"
	"encoding/json"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/uldpack/pkg/archive"
	"github.com/matzehuels/uldpack/pkg/cache"
	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/loadorder"
	"github.com/matzehuels/uldpack/pkg/observability"
	"github.com/matzehuels/uldpack/pkg/pack"
)

// PlacementRecord is one placed package in the wire format: ids instead of
// indexes, coordinates in ULD-local integer space.
type PlacementRecord struct {
	PackageID string `json:"package_id"`
	ULDID     string `json:"uld_id"`
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	Z1        int    `json:"z1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	Z2        int    `json:"z2"`
}

// Result contains the outputs of one pipeline run.
type Result struct {
	RunID        string            `json:"run_id"`
	Placements   []PlacementRecord `json:"placements"`
	LoadingOrder []string          `json:"loading_order"`
	Unplaced     []string          `json:"unplaced,omitempty"`
	Fitness      float64           `json:"fitness"`
	Stats        Stats             `json:"stats"`
	CacheInfo    CacheInfo         `json:"cache_info"`
}

// Stats contains pipeline execution statistics.
type Stats struct {
	Placed         int           `json:"placed"`
	PriorityPlaced int           `json:"priority_placed"`
	PriorityULDs   int           `json:"priority_ulds"`
	SolveTime      time.Duration `json:"solve_time"`
	OrderTime      time.Duration `json:"order_time"`
}

// CacheInfo tracks whether the result came from cache.
type CacheInfo struct {
	Hit bool `json:"hit"`
}

// Runner executes the solve pipeline with caching and archiving.
type Runner struct {
	cache  cache.Cache
	store  archive.Store
	logger *log.Logger
	ttl    time.Duration
}

// NewRunner creates a pipeline runner. A nil cache disables caching, a nil
// store disables archiving, a nil logger discards output.
func NewRunner(c cache.Cache, store archive.Store, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if store == nil {
		store = archive.NewNullStore()
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Runner{cache: c, store: store, logger: logger, ttl: 24 * time.Hour}
}

// SetTTL overrides the cache entry lifetime. Zero means no expiration.
func (r *Runner) SetTTL(ttl time.Duration) { r.ttl = ttl }

// Execute runs the full pipeline: validate, consult the cache, solve,
// derive the loading order, archive the run, and write the result back to
// the cache. Fatal solver inconsistencies abort with an error; an
// infeasible input (unplaced priority packages) is not an error.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	logger := opts.Logger
	ctx = WithRunID(ctx, opts.RunID)

	key := cache.SolutionKey(opts.Packages, opts.ULDs, opts.Params, opts.Seed)
	if !opts.Refresh {
		if data, ok, err := r.cache.Get(ctx, key); err != nil {
			logger.Warn("cache read failed", "err", err)
		} else if ok {
			var res Result
			if err := json.Unmarshal(data, &res); err == nil {
				observability.Cache().OnCacheHit(ctx, "solution")
				res.RunID = opts.RunID
				res.CacheInfo.Hit = true
				logger.Debug("solution served from cache", "key", key)
				return &res, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "solution")
	}

	solver, err := pack.NewSolver(opts.Packages, opts.ULDs, opts.Params, opts.Seed)
	if err != nil {
		return nil, err
	}

	logger.Info("solving",
		"packages", len(opts.Packages),
		"ulds", len(opts.ULDs),
		"generations", opts.Params.Generations)

	solveStart := time.Now()
	sol, err := solver.Run(ctx)
	if err != nil {
		return nil, err
	}
	solveTime := time.Since(solveStart)

	orderStart := time.Now()
	order, _, err := loadorder.Compute(sol.Placements, opts.Packages, opts.ULDs)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "run %s", opts.RunID)
	}
	orderTime := time.Since(orderStart)

	res := &Result{
		RunID:        opts.RunID,
		Placements:   toRecords(sol.Placements, opts.Packages, opts.ULDs),
		LoadingOrder: order,
		Fitness:      sol.Fitness,
		Stats: Stats{
			Placed:         len(sol.Placements),
			PriorityPlaced: sol.PriorityPlaced,
			PriorityULDs:   sol.PriorityULDs,
			SolveTime:      solveTime,
			OrderTime:      orderTime,
		},
	}
	for _, i := range sol.Unplaced {
		res.Unplaced = append(res.Unplaced, opts.Packages[i].ID)
	}

	logger.Info("solved",
		"placed", res.Stats.Placed,
		"unplaced", len(res.Unplaced),
		"fitness", res.Fitness,
		"elapsed", solveTime.Round(time.Millisecond))

	if err := r.store.SaveRun(ctx, archive.Run{
		ID:             opts.RunID,
		Packages:       len(opts.Packages),
		ULDs:           len(opts.ULDs),
		Placed:         res.Stats.Placed,
		PriorityPlaced: sol.PriorityPlaced,
		Fitness:        sol.Fitness,
		Seed:           opts.Seed,
		Duration:       solveTime,
		At:             time.Now().UTC(),
	}); err != nil {
		logger.Warn("archive write failed", "err", err)
	}

	if data, err := json.Marshal(res); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			logger.Warn("cache write failed", "err", err)
		} else {
			observability.Cache().OnCacheSet(ctx, "solution", len(data))
		}
	}

	return res, nil
}

func toRecords(placements []pack.Placement, pkgs []pack.Package, ulds []pack.ULD) []PlacementRecord {
	records := make([]PlacementRecord, len(placements))
	for i, pl := range placements {
		records[i] = PlacementRecord{
			PackageID: pkgs[pl.Package].ID,
			ULDID:     ulds[pl.ULD].ID,
			X1:        pl.Min[0],
			Y1:        pl.Min[1],
			Z1:        pl.Min[2],
			X2:        pl.Max[0],
			Y2:        pl.Max[1],
			Z2:        pl.Max[2],
		}
	}
	return records
}

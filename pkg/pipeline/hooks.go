package pipeline

import (
	"context"
	"time"

	"github.com/matzehuels/uldpack/pkg/archive"
	"github.com/matzehuels/uldpack/pkg/observability"
)

// snapshotEvery controls how often generation snapshots are archived.
// The first few generations are skipped: early fitness is dominated by the
// random initial population and carries no diagnostic value.
const snapshotEvery = 5

// ArchiveHooks implements observability.SolverHooks by persisting periodic
// generation snapshots to an archive store. The run identifier is taken
// from the context (see WithRunID), so a single registered instance serves
// concurrent runs.
type ArchiveHooks struct {
	observability.NoopSolverHooks
	store archive.Store
}

// NewArchiveHooks creates solver hooks backed by the given store.
// Register the result with observability.SetSolverHooks at startup.
func NewArchiveHooks(store archive.Store) *ArchiveHooks {
	if store == nil {
		store = archive.NewNullStore()
	}
	return &ArchiveHooks{store: store}
}

// OnGeneration archives the best fitness every snapshotEvery generations,
// starting once snapshotEvery generations have passed.
func (h *ArchiveHooks) OnGeneration(ctx context.Context, generation int, bestFitness float64) {
	if generation < snapshotEvery || generation%snapshotEvery != 0 {
		return
	}
	_ = h.store.SaveSnapshot(ctx, archive.Snapshot{
		RunID:      RunIDFromContext(ctx),
		Generation: generation,
		Fitness:    bestFitness,
		At:         time.Now().UTC(),
	})
}

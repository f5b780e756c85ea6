package pipeline

import (
	"context"
	"testing"

	"github.com/matzehuels/uldpack/pkg/archive"
)

// recordingStore captures snapshots in memory.
type recordingStore struct {
	archive.NullStore
	snapshots []archive.Snapshot
}

func (s *recordingStore) SaveSnapshot(_ context.Context, snap archive.Snapshot) error {
	s.snapshots = append(s.snapshots, snap)
	return nil
}

func TestArchiveHooks_SnapshotCadence(t *testing.T) {
	store := &recordingStore{}
	hooks := NewArchiveHooks(store)
	ctx := WithRunID(context.Background(), "run-1")

	for gen := 0; gen < 20; gen++ {
		hooks.OnGeneration(ctx, gen, float64(-gen))
	}

	// Generations 5, 10, 15 qualify.
	if len(store.snapshots) != 3 {
		t.Fatalf("archived %d snapshots, want 3", len(store.snapshots))
	}
	wantGens := []int{5, 10, 15}
	for i, snap := range store.snapshots {
		if snap.Generation != wantGens[i] {
			t.Errorf("snapshot %d at generation %d, want %d", i, snap.Generation, wantGens[i])
		}
		if snap.RunID != "run-1" {
			t.Errorf("snapshot %d run id = %q, want run-1", i, snap.RunID)
		}
	}
}

func TestNewArchiveHooks_NilStore(t *testing.T) {
	hooks := NewArchiveHooks(nil)
	// Must not panic without a store.
	hooks.OnGeneration(context.Background(), 10, -1)
}

// Package archive persists solver run records and periodic generation
// snapshots. Snapshots are a debugging aid: they record how the best
// fitness evolved, so a bad solution can be traced back to the search
// rather than the placer. Archiving is optional; the null store disables
// it without branching at call sites.
package archive

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Snapshot records the best fitness at one generation of a run.
type Snapshot struct {
	RunID      string    `bson:"run_id" json:"run_id"`
	Generation int       `bson:"generation" json:"generation"`
	Fitness    float64   `bson:"fitness" json:"fitness"`
	At         time.Time `bson:"at" json:"at"`
}

// Run records one completed solver run.
type Run struct {
	ID             string        `bson:"run_id" json:"run_id"`
	Packages       int           `bson:"packages" json:"packages"`
	ULDs           int           `bson:"ulds" json:"ulds"`
	Placed         int           `bson:"placed" json:"placed"`
	PriorityPlaced int           `bson:"priority_placed" json:"priority_placed"`
	Fitness        float64       `bson:"fitness" json:"fitness"`
	Seed           int64         `bson:"seed" json:"seed"`
	Duration       time.Duration `bson:"duration_ns" json:"duration_ns"`
	At             time.Time     `bson:"at" json:"at"`
}

// Store persists runs and snapshots.
type Store interface {
	SaveSnapshot(ctx context.Context, s Snapshot) error
	SaveRun(ctx context.Context, r Run) error
	Close(ctx context.Context) error
}

// NewRunID returns a fresh run identifier.
func NewRunID() string {
	return uuid.NewString()
}

// NullStore discards everything. Used when archiving is disabled.
type NullStore struct{}

// NewNullStore creates a store that discards all writes.
func NewNullStore() Store { return &NullStore{} }

// SaveSnapshot does nothing.
func (NullStore) SaveSnapshot(context.Context, Snapshot) error { return nil }

// SaveRun does nothing.
func (NullStore) SaveRun(context.Context, Run) error { return nil }

// Close does nothing.
func (NullStore) Close(context.Context) error { return nil }

// Ensure NullStore implements Store.
var _ Store = (*NullStore)(nil)

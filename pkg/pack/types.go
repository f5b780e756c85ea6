// Package pack implements the ULD packing engine: a biased random-key
// genetic algorithm driving a deterministic constructive placer, with
// post-placement compaction.
//
// The engine consumes immutable Package and ULD inputs and produces a set
// of axis-aligned, non-overlapping placements in integer ULD-local
// coordinates. Priority packages carry a large omission penalty and are
// consolidated into as few ULDs as possible; economy packages are placed
// to maximize captured revenue.
//
// # Usage
//
//	solver, err := pack.NewSolver(packages, ulds, pack.DefaultParams(), seed)
//	if err != nil {
//	    return err
//	}
//	sol, err := solver.Run(ctx)
package pack

import (
	"math"

	"github.com/matzehuels/uldpack/pkg/errors"
)

// Package is a rectangular box to be loaded. Dimensions are rounded to
// integers once at validation; the originals are kept for reporting.
type Package struct {
	ID       string  `json:"id"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Weight   float64 `json:"weight"`
	Cost     float64 `json:"cost"`
	Priority bool    `json:"priority"`
}

// Dims returns the package dimensions rounded to the integer grid.
func (p Package) Dims() [3]int {
	return [3]int{roundDim(p.Length), roundDim(p.Width), roundDim(p.Height)}
}

// ULD is a unit load device: the rectangular container being packed.
// The wire field for capacity is "weight", matching the loading manifests
// this service consumes.
type ULD struct {
	ID       string  `json:"id"`
	Length   float64 `json:"length"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Capacity float64 `json:"weight"`
}

// Dims returns the ULD interior dimensions rounded to the integer grid.
func (u ULD) Dims() [3]int {
	return [3]int{roundDim(u.Length), roundDim(u.Width), roundDim(u.Height)}
}

// Placement records one placed package: which package, which ULD, and the
// axis-aligned box it occupies in ULD-local integer coordinates.
// Min is the corner closest to the origin, Max the opposite corner.
type Placement struct {
	Package int   // index into the input package list
	ULD     int   // index into the input ULD list
	Min     Point // (x1, y1, z1)
	Max     Point // (x2, y2, z2)
}

// Solution is the outcome of a solver run.
type Solution struct {
	Placements []Placement
	// Fitness of the winning chromosome (lower is better).
	Fitness float64
	// PriorityPlaced counts placed priority packages.
	PriorityPlaced int
	// PriorityULDs counts distinct ULDs containing at least one priority package.
	PriorityULDs int
	// ULDWeights holds the total placed weight per ULD index.
	ULDWeights []float64
	// Unplaced lists indexes of packages absent from Placements.
	Unplaced []int
}

func roundDim(v float64) int {
	return int(math.Round(v))
}

// ValidateInput checks packages and ULDs for solvability: positive finite
// dimensions, nonnegative weight and cost, and unique non-empty IDs across
// each list. Validation failures surface to the caller; the solver is
// never run on invalid input.
func ValidateInput(pkgs []Package, ulds []ULD) error {
	if len(pkgs) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no packages given")
	}
	if len(ulds) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "no ULDs given")
	}

	seen := make(map[string]bool, len(pkgs))
	for _, p := range pkgs {
		if p.ID == "" {
			return errors.New(errors.ErrCodeInvalidPackage, "package with empty id")
		}
		if seen[p.ID] {
			return errors.New(errors.ErrCodeInvalidPackage, "duplicate package id %q", p.ID)
		}
		seen[p.ID] = true
		if err := checkDim(p.Length); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q length", p.ID)
		}
		if err := checkDim(p.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q width", p.ID)
		}
		if err := checkDim(p.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q height", p.ID)
		}
		if err := checkScalar(p.Weight); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q weight", p.ID)
		}
		if err := checkScalar(p.Cost); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidPackage, err, "package %q cost", p.ID)
		}
	}

	seen = make(map[string]bool, len(ulds))
	for _, u := range ulds {
		if u.ID == "" {
			return errors.New(errors.ErrCodeInvalidULD, "ULD with empty id")
		}
		if seen[u.ID] {
			return errors.New(errors.ErrCodeInvalidULD, "duplicate ULD id %q", u.ID)
		}
		seen[u.ID] = true
		if err := checkDim(u.Length); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidULD, err, "ULD %q length", u.ID)
		}
		if err := checkDim(u.Width); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidULD, err, "ULD %q width", u.ID)
		}
		if err := checkDim(u.Height); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidULD, err, "ULD %q height", u.ID)
		}
		if u.Capacity <= 0 || math.IsNaN(u.Capacity) || math.IsInf(u.Capacity, 0) {
			return errors.New(errors.ErrCodeInvalidULD, "ULD %q capacity must be positive and finite", u.ID)
		}
	}

	return nil
}

func checkDim(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "dimension is not finite")
	}
	if v <= 0 || roundDim(v) <= 0 {
		return errors.New(errors.ErrCodeInvalidInput, "dimension must round to a positive integer")
	}
	return nil
}

func checkScalar(v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.ErrCodeInvalidInput, "value is not finite")
	}
	if v < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "value must be nonnegative")
	}
	return nil
}

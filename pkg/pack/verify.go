package pack

import "github.com/matzehuels/uldpack/pkg/errors"

// Verify checks a solution against the placement invariants after the
// fact: containment, pairwise non-overlap per ULD, weight capacity,
// orientation validity, and at-most-once placement. A failure indicates a
// bug in the placer or compactor and is fatal for the whole computation.
func Verify(sol *Solution, pkgs []Package, ulds []ULD) error {
	seen := make(map[int]bool, len(sol.Placements))
	weights := make([]float64, len(ulds))

	for _, pl := range sol.Placements {
		if pl.Package < 0 || pl.Package >= len(pkgs) {
			return errors.New(errors.ErrCodeInconsistentPlacement, "placement references package index %d", pl.Package)
		}
		if pl.ULD < 0 || pl.ULD >= len(ulds) {
			return errors.New(errors.ErrCodeInconsistentPlacement, "placement references ULD index %d", pl.ULD)
		}
		if seen[pl.Package] {
			return errors.New(errors.ErrCodeInconsistentPlacement, "package %q placed twice", pkgs[pl.Package].ID)
		}
		seen[pl.Package] = true

		d := ulds[pl.ULD].Dims()
		for i := 0; i < 3; i++ {
			if pl.Min[i] < 0 || pl.Min[i] >= pl.Max[i] || pl.Max[i] > d[i] {
				return errors.New(errors.ErrCodeInconsistentPlacement,
					"package %q outside ULD %q on axis %d", pkgs[pl.Package].ID, ulds[pl.ULD].ID, i)
			}
		}

		if !isOrientation(pl, pkgs[pl.Package].Dims()) {
			return errors.New(errors.ErrCodeInconsistentPlacement,
				"package %q placed with dimensions that are not a rotation of its own", pkgs[pl.Package].ID)
		}

		weights[pl.ULD] += pkgs[pl.Package].Weight
	}

	for i, w := range weights {
		if w > ulds[i].Capacity {
			return errors.New(errors.ErrCodeInconsistentPlacement,
				"ULD %q overloaded: %.2f > %.2f", ulds[i].ID, w, ulds[i].Capacity)
		}
	}

	for i := range sol.Placements {
		for j := i + 1; j < len(sol.Placements); j++ {
			a, b := sol.Placements[i], sol.Placements[j]
			if a.ULD != b.ULD {
				continue
			}
			if Intersects(a.Min, a.Max, b.Min, b.Max) {
				return errors.New(errors.ErrCodeInconsistentPlacement,
					"packages %q and %q overlap in ULD %q",
					pkgs[a.Package].ID, pkgs[b.Package].ID, ulds[a.ULD].ID)
			}
		}
	}

	return nil
}

// isOrientation reports whether the placed box dimensions are a
// permutation of the package's rounded dimensions.
func isOrientation(pl Placement, dims [3]int) bool {
	got := [3]int{pl.Max[0] - pl.Min[0], pl.Max[1] - pl.Min[1], pl.Max[2] - pl.Min[2]}
	for _, o := range orientations(dims) {
		if got == o {
			return true
		}
	}
	return false
}

package pack

import "sort"

// state holds everything one chromosome evaluation mutates: the running
// placement list, per-ULD weight totals, and per-ULD anchor sets. Inputs
// (packages, ULDs, rounded dimensions) are shared read-only with the solver.
type state struct {
	pkgs    []Package
	ulds    []ULD
	pkgDims [][3]int
	uldDims [][3]int

	placements []Placement
	uldWeights []float64
	anchors    []*anchorSet
	placed     []bool
}

func newState(s *Solver) *state {
	st := &state{
		pkgs:       s.pkgs,
		ulds:       s.ulds,
		pkgDims:    s.pkgDims,
		uldDims:    s.uldDims,
		uldWeights: make([]float64, len(s.ulds)),
		anchors:    make([]*anchorSet, len(s.ulds)),
		placed:     make([]bool, len(s.pkgs)),
	}
	st.resetAnchors()
	return st
}

// resetAnchors rebuilds every ULD's anchor set from scratch: the corners of
// each placed box (in placement order) followed by the ULD's own corners.
// Called between placement passes.
func (st *state) resetAnchors() {
	for i := range st.anchors {
		st.anchors[i] = newAnchorSet()
	}
	for _, pl := range st.placements {
		st.anchors[pl.ULD].addBoxCorners(pl.Min, pl.Max)
	}
	for i, d := range st.uldDims {
		st.anchors[i].seedULDCorners(d)
	}
}

// candidate is one feasible (ULD, anchor, orientation) triple for a package.
type candidate struct {
	pkg    int
	uld    int
	min    Point
	dims   [3]int
	anchor Anchor
}

// enumerate collects every feasible candidate for the package, walking ULDs
// in input order, anchors in set order, and orientations in the fixed
// enumeration order. The resulting slice order is the final tie-breaker.
func (st *state) enumerate(pid int) []candidate {
	var cands []candidate
	for uid := range st.ulds {
		for _, a := range st.anchors[uid].list {
			sign := cornerSigns[a.Tag]
			for _, o := range orientations(st.pkgDims[pid]) {
				min := Point{
					a.X + o[0]*sign[0],
					a.Y + o[1]*sign[1],
					a.Z + o[2]*sign[2],
				}
				if min[0] < 0 || min[1] < 0 || min[2] < 0 {
					continue
				}
				if st.feasible(pid, uid, min, o) {
					cands = append(cands, candidate{pkg: pid, uld: uid, min: min, dims: o, anchor: a})
				}
			}
		}
	}
	return cands
}

// feasible checks dimensional containment, the ULD weight cap, and
// non-overlap against every box already placed in the same ULD.
func (st *state) feasible(pid, uid int, min Point, dims [3]int) bool {
	if st.uldWeights[uid]+st.pkgs[pid].Weight > st.ulds[uid].Capacity {
		return false
	}
	d := st.uldDims[uid]
	max := Point{min[0] + dims[0], min[1] + dims[1], min[2] + dims[2]}
	if max[0] > d[0] || max[1] > d[1] || max[2] > d[2] {
		return false
	}
	for _, pl := range st.placements {
		if pl.ULD != uid {
			continue
		}
		if Intersects(min, max, pl.Min, pl.Max) {
			return false
		}
	}
	return true
}

// wallDist measures how far a candidate sits from the nearest x and y
// walls combined. Smaller values hug the ULD walls.
func (st *state) wallDist(c candidate) int {
	d := st.uldDims[c.uld]
	dx := c.min[0]
	if r := d[0] - c.min[0] - c.dims[0]; r < dx {
		dx = r
	}
	dy := c.min[1]
	if r := d[1] - c.min[1] - c.dims[1]; r < dy {
		dy = r
	}
	return dx + dy
}

func originDist(c candidate) int {
	return c.min[0]*c.min[0] + c.min[1]*c.min[1] + c.min[2]*c.min[2]
}

// byAnchorCount orders candidates for the priority and economy passes:
// busier ULDs first (more outstanding anchors), then low z, then wall
// proximity, then distance from the origin.
func (st *state) byAnchorCount(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		if la, lb := st.anchors[a.uld].len(), st.anchors[b.uld].len(); la != lb {
			return la > lb
		}
		if a.min[2] != b.min[2] {
			return a.min[2] < b.min[2]
		}
		if wa, wb := st.wallDist(a), st.wallDist(b); wa != wb {
			return wa < wb
		}
		return originDist(a) < originDist(b)
	})
}

// byRemainingCapacity orders candidates for the leftover pass: the ULD with
// the most unspent weight capacity first, then the same geometric keys.
func (st *state) byRemainingCapacity(cands []candidate) {
	sort.SliceStable(cands, func(i, j int) bool {
		a, b := cands[i], cands[j]
		ra := st.ulds[a.uld].Capacity - st.uldWeights[a.uld]
		rb := st.ulds[b.uld].Capacity - st.uldWeights[b.uld]
		if ra != rb {
			return ra > rb
		}
		if a.min[2] != b.min[2] {
			return a.min[2] < b.min[2]
		}
		if wa, wb := st.wallDist(a), st.wallDist(b); wa != wb {
			return wa < wb
		}
		return originDist(a) < originDist(b)
	})
}

// commit records the winning candidate: the placement is appended, the ULD
// weight updated, the consumed seed anchor removed, and the new box's
// corners added under every tag.
func (st *state) commit(c candidate) {
	max := Point{c.min[0] + c.dims[0], c.min[1] + c.dims[1], c.min[2] + c.dims[2]}
	st.placements = append(st.placements, Placement{Package: c.pkg, ULD: c.uld, Min: c.min, Max: max})
	st.uldWeights[c.uld] += st.pkgs[c.pkg].Weight
	st.placed[c.pkg] = true
	st.anchors[c.uld].remove(c.anchor)
	st.anchors[c.uld].addBoxCorners(c.min, max)
}

// placePass places each package of order at its best feasible candidate.
// Packages with no feasible candidate are skipped silently. Skipped economy
// packages get another try in the leftover pass; skipped priority packages
// are not retried.
func (st *state) placePass(order []int, rank func([]candidate)) {
	for _, pid := range order {
		if st.placed[pid] {
			continue
		}
		cands := st.enumerate(pid)
		if len(cands) == 0 {
			continue
		}
		rank(cands)
		st.commit(cands[0])
	}
}

// placePriority runs the priority pass.
func (st *state) placePriority(order []int) {
	st.placePass(order, st.byAnchorCount)
}

// placeEconomy runs the economy pass.
func (st *state) placeEconomy(order []int) {
	st.placePass(order, st.byAnchorCount)
}

// placeLeftover retries the economy order restricted to packages still
// unplaced, this time preferring ULDs by remaining weight capacity.
func (st *state) placeLeftover(economyOrder []int) {
	var leftover []int
	for _, pid := range economyOrder {
		if !st.placed[pid] {
			leftover = append(leftover, pid)
		}
	}
	st.placePass(leftover, st.byRemainingCapacity)
}

package pack

import "sort"

// Face designates a ULD wall that compaction slides boxes toward.
type Face int

const (
	// FaceNegX slides boxes toward the x=0 wall.
	FaceNegX Face = iota
	// FaceNegY slides boxes toward the y=0 wall.
	FaceNegY
	// FacePosX slides boxes toward the x=length wall.
	FacePosX
	// FacePosY slides boxes toward the y=width wall.
	FacePosY
)

func (f Face) axis() int {
	if f == FaceNegX || f == FacePosX {
		return 0
	}
	return 1
}

func (f Face) dir() int {
	if f == FaceNegX || f == FaceNegY {
		return -1
	}
	return 1
}

// compact slides every placed box toward the chosen face, one grid step at
// a time, until it touches another already-slid box or the ULD wall. Boxes
// are processed nearest-to-face first so earlier boxes never block a slide
// they themselves would have made. The placement list is replaced in the
// processing order.
//
// Compaction preserves non-overlap, containment, and weight totals; it can
// only move boxes toward the face.
func (st *state) compact(f Face) {
	axis, dir := f.axis(), f.dir()

	sorted := make([]Placement, len(st.placements))
	copy(sorted, st.placements)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.Min[axis] != b.Min[axis] {
			if dir < 0 {
				return a.Min[axis] < b.Min[axis]
			}
			return a.Min[axis] > b.Min[axis]
		}
		for k := 0; k < 3; k++ {
			if k == axis {
				continue
			}
			if a.Min[k] != b.Min[k] {
				return a.Min[k] < b.Min[k]
			}
		}
		return false
	})

	committed := make([]Placement, 0, len(sorted))
	for _, pl := range sorted {
		size := pl.Max[axis] - pl.Min[axis]
		limit := st.uldDims[pl.ULD][axis]
		for {
			next := pl.Min[axis] + dir
			if next < 0 || next+size > limit {
				break
			}
			moved := pl
			moved.Min[axis] = next
			moved.Max[axis] = next + size
			if collides(moved, committed) {
				break
			}
			pl = moved
		}
		committed = append(committed, pl)
	}
	st.placements = committed
}

func collides(pl Placement, others []Placement) bool {
	for _, o := range others {
		if o.ULD != pl.ULD {
			continue
		}
		if Intersects(pl.Min, pl.Max, o.Min, o.Max) {
			return true
		}
	}
	return false
}

package pack

// Point is a position on the integer grid of a ULD interior.
type Point [3]int

// Intersects reports whether two axis-aligned boxes overlap in their open
// interiors. Boxes that merely share a face do not intersect: the overlap
// must be strictly positive on every axis.
func Intersects(aMin, aMax, bMin, bMax Point) bool {
	for i := 0; i < 3; i++ {
		lo := aMin[i]
		if bMin[i] > lo {
			lo = bMin[i]
		}
		hi := aMax[i]
		if bMax[i] < hi {
			hi = bMax[i]
		}
		if hi-lo <= 0 {
			return false
		}
	}
	return true
}

// orientations returns the six axis-aligned rotations of a box, in the
// fixed enumeration order the placer's tie-breaking depends on.
func orientations(d [3]int) [6][3]int {
	l, w, h := d[0], d[1], d[2]
	return [6][3]int{
		{l, w, h},
		{l, h, w},
		{w, l, h},
		{w, h, l},
		{h, l, w},
		{h, w, l},
	}
}

// cornerSigns maps a corner tag (1..8) to the sign vector applied to an
// orientation when a box is glued to an anchor: the box extends into the
// octant the tag selects. Index 0 is unused.
var cornerSigns = [9][3]int{
	{0, 0, 0},
	{0, 0, 0},
	{0, -1, 0},
	{-1, 0, 0},
	{-1, -1, 0},
	{0, 0, -1},
	{0, -1, -1},
	{-1, 0, -1},
	{-1, -1, -1},
}

// Anchor is a candidate placement point inside one ULD. A future box's
// corner selected by Tag will be glued to (X, Y, Z).
type Anchor struct {
	X, Y, Z int
	Tag     int // 1..8, selects the octant via cornerSigns
}

// anchorSet keeps a ULD's anchors in insertion order with duplicates
// suppressed. Order matters: on full tie-break equality the placer keeps
// the first-enumerated candidate, so anchor iteration must be stable.
type anchorSet struct {
	list []Anchor
	seen map[Anchor]bool
}

func newAnchorSet() *anchorSet {
	return &anchorSet{seen: make(map[Anchor]bool)}
}

func (s *anchorSet) add(a Anchor) {
	if s.seen[a] {
		return
	}
	s.seen[a] = true
	s.list = append(s.list, a)
}

// remove deletes a single anchor by value. Used to consume the seed anchor
// a committed placement grew from.
func (s *anchorSet) remove(a Anchor) {
	if !s.seen[a] {
		return
	}
	delete(s.seen, a)
	for i, b := range s.list {
		if b == a {
			s.list = append(s.list[:i], s.list[i+1:]...)
			return
		}
	}
}

func (s *anchorSet) len() int { return len(s.list) }

// seedULDCorners adds the eight corners of a ULD interior, each tagged with
// the octant pointing back into the interior: the origin corner grows in
// +x+y+z (tag 1), the far corner grows in -x-y-z (tag 8), and so on.
func (s *anchorSet) seedULDCorners(d [3]int) {
	s.add(Anchor{0, 0, 0, 1})
	s.add(Anchor{d[0], 0, 0, 3})
	s.add(Anchor{0, d[1], 0, 2})
	s.add(Anchor{d[0], d[1], 0, 4})
	s.add(Anchor{0, 0, d[2], 5})
	s.add(Anchor{d[0], 0, d[2], 7})
	s.add(Anchor{0, d[1], d[2], 6})
	s.add(Anchor{d[0], d[1], d[2], 8})
}

// addBoxCorners adds all eight corners of a placed box, each replicated
// under every tag, so future packages can grow into any free octant around
// the box.
func (s *anchorSet) addBoxCorners(min, max Point) {
	a, b, c := max[0]-min[0], max[1]-min[1], max[2]-min[2]
	offsets := [8][3]int{
		{0, 0, 0},
		{a, 0, 0},
		{0, b, 0},
		{0, 0, c},
		{a, b, 0},
		{a, 0, c},
		{0, b, c},
		{a, b, c},
	}
	for tag := 1; tag <= 8; tag++ {
		for _, off := range offsets {
			s.add(Anchor{min[0] + off[0], min[1] + off[1], min[2] + off[2], tag})
		}
	}
}

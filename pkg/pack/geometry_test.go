package pack

import "testing"

func TestIntersects_Overlapping(t *testing.T) {
	if !Intersects(Point{0, 0, 0}, Point{2, 2, 2}, Point{1, 1, 1}, Point{3, 3, 3}) {
		t.Error("Intersects() = false, want true for overlapping boxes")
	}
}

func TestIntersects_SharedFace(t *testing.T) {
	// Touching faces are not an intersection.
	if Intersects(Point{0, 0, 0}, Point{2, 2, 2}, Point{2, 0, 0}, Point{4, 2, 2}) {
		t.Error("Intersects() = true, want false for face-touching boxes")
	}
}

func TestIntersects_SharedEdge(t *testing.T) {
	if Intersects(Point{0, 0, 0}, Point{2, 2, 2}, Point{2, 2, 0}, Point{4, 4, 2}) {
		t.Error("Intersects() = true, want false for edge-touching boxes")
	}
}

func TestIntersects_Disjoint(t *testing.T) {
	if Intersects(Point{0, 0, 0}, Point{1, 1, 1}, Point{5, 5, 5}, Point{6, 6, 6}) {
		t.Error("Intersects() = true, want false for disjoint boxes")
	}
}

func TestOrientations_OrderAndCompleteness(t *testing.T) {
	got := orientations([3]int{1, 2, 3})
	want := [6][3]int{
		{1, 2, 3},
		{1, 3, 2},
		{2, 1, 3},
		{2, 3, 1},
		{3, 1, 2},
		{3, 2, 1},
	}
	if got != want {
		t.Errorf("orientations() = %v, want %v", got, want)
	}
}

func TestAnchorSet_Dedup(t *testing.T) {
	s := newAnchorSet()
	s.add(Anchor{1, 2, 3, 4})
	s.add(Anchor{1, 2, 3, 4})
	s.add(Anchor{1, 2, 3, 5})

	if s.len() != 2 {
		t.Errorf("len() = %d, want 2", s.len())
	}
}

func TestAnchorSet_RemoveKeepsOrder(t *testing.T) {
	s := newAnchorSet()
	s.add(Anchor{0, 0, 0, 1})
	s.add(Anchor{1, 0, 0, 1})
	s.add(Anchor{2, 0, 0, 1})

	s.remove(Anchor{1, 0, 0, 1})

	want := []Anchor{{0, 0, 0, 1}, {2, 0, 0, 1}}
	if len(s.list) != len(want) {
		t.Fatalf("len = %d, want %d", len(s.list), len(want))
	}
	for i := range want {
		if s.list[i] != want[i] {
			t.Errorf("list[%d] = %v, want %v", i, s.list[i], want[i])
		}
	}
}

func TestAnchorSet_SeedULDCorners(t *testing.T) {
	s := newAnchorSet()
	s.seedULDCorners([3]int{10, 20, 30})

	if s.len() != 8 {
		t.Fatalf("len() = %d, want 8", s.len())
	}

	// Each corner carries the tag pointing back into the interior.
	wantTags := map[Anchor]bool{
		{0, 0, 0, 1}:     true,
		{10, 0, 0, 3}:    true,
		{0, 20, 0, 2}:    true,
		{10, 20, 0, 4}:   true,
		{0, 0, 30, 5}:    true,
		{10, 0, 30, 7}:   true,
		{0, 20, 30, 6}:   true,
		{10, 20, 30, 8}:  true,
	}
	for _, a := range s.list {
		if !wantTags[a] {
			t.Errorf("unexpected anchor %v", a)
		}
	}
}

func TestAnchorSet_AddBoxCorners(t *testing.T) {
	s := newAnchorSet()
	s.addBoxCorners(Point{1, 1, 1}, Point{3, 4, 5})

	// 8 corners x 8 tags, all distinct.
	if s.len() != 64 {
		t.Errorf("len() = %d, want 64", s.len())
	}
}

func TestCornerSigns_TagOne_GrowsPositive(t *testing.T) {
	if cornerSigns[1] != [3]int{0, 0, 0} {
		t.Errorf("cornerSigns[1] = %v, want {0,0,0}", cornerSigns[1])
	}
	if cornerSigns[8] != [3]int{-1, -1, -1} {
		t.Errorf("cornerSigns[8] = %v, want {-1,-1,-1}", cornerSigns[8])
	}
}

package loadorder

import (
	"strings"
	"testing"

	"github.com/matzehuels/uldpack/pkg/pack"
)

func fixtures(placements []pack.Placement, n int) ([]pack.Package, []pack.ULD) {
	pkgs := make([]pack.Package, n)
	for i := range pkgs {
		pkgs[i] = pack.Package{ID: string(rune('A' + i))}
	}
	ulds := []pack.ULD{{ID: "U1", Length: 10, Width: 10, Height: 10, Capacity: 100}}
	return pkgs, ulds
}

func indexOf(seq []string, id string) int {
	for i, s := range seq {
		if s == id {
			return i
		}
	}
	return -1
}

func TestCompute_SingleBox(t *testing.T) {
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{2, 3, 4}},
	}
	pkgs, ulds := fixtures(placements, 1)

	seq, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if len(seq) != 1 || seq[0] != "A" {
		t.Errorf("sequence = %v, want [A]", seq)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", g.EdgeCount())
	}
}

func TestCompute_StackedBoxes(t *testing.T) {
	// B sits directly on A; A must be loaded first.
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{10, 10, 2}},
		{Package: 1, ULD: 0, Min: pack.Point{0, 0, 2}, Max: pack.Point{10, 10, 4}},
	}
	pkgs, ulds := fixtures(placements, 2)

	seq, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount() = %d, want 1", g.EdgeCount())
	}
	if indexOf(seq, "A") > indexOf(seq, "B") {
		t.Errorf("sequence %v loads B before its support A", seq)
	}
}

func TestCompute_BehindAlongX(t *testing.T) {
	// B is in front of A along x; A must be loaded first.
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{2, 2, 2}},
		{Package: 1, ULD: 0, Min: pack.Point{5, 0, 0}, Max: pack.Point{7, 2, 2}},
	}
	pkgs, ulds := fixtures(placements, 2)

	seq, _, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if indexOf(seq, "A") > indexOf(seq, "B") {
		t.Errorf("sequence %v loads B before A, which blocks its -x path", seq)
	}
}

func TestCompute_SeparateULDsIndependent(t *testing.T) {
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{2, 2, 2}},
		{Package: 1, ULD: 1, Min: pack.Point{0, 0, 0}, Max: pack.Point{2, 2, 2}},
	}
	pkgs := []pack.Package{{ID: "A"}, {ID: "B"}}
	ulds := []pack.ULD{
		{ID: "U1", Length: 10, Width: 10, Height: 10, Capacity: 100},
		{ID: "U2", Length: 10, Width: 10, Height: 10, Capacity: 100},
	}

	_, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if g.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0 across ULDs", g.EdgeCount())
	}
}

func TestCompute_DependenciesBeforeDependents(t *testing.T) {
	// Tower of three, plus one box behind the middle along x.
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{2, 0, 0}, Max: pack.Point{6, 4, 2}},
		{Package: 1, ULD: 0, Min: pack.Point{2, 0, 2}, Max: pack.Point{6, 4, 4}},
		{Package: 2, ULD: 0, Min: pack.Point{2, 0, 4}, Max: pack.Point{6, 4, 6}},
		{Package: 3, ULD: 0, Min: pack.Point{0, 0, 2}, Max: pack.Point{2, 4, 4}},
	}
	pkgs, ulds := fixtures(placements, 4)

	seq, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	if len(seq) != 4 {
		t.Fatalf("sequence has %d entries, want 4", len(seq))
	}
	for _, n := range g.Nodes() {
		for _, dep := range g.Dependencies(n.ID) {
			if indexOf(seq, dep) > indexOf(seq, n.ID) {
				t.Errorf("sequence %v loads %s before its dependency %s", seq, n.ID, dep)
			}
		}
	}
}

func TestSequence_TieBreakByID(t *testing.T) {
	// Two independent boxes: ties broken by id.
	placements := []pack.Placement{
		{Package: 1, ULD: 0, Min: pack.Point{4, 4, 0}, Max: pack.Point{6, 6, 2}},
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{2, 2, 2}},
	}
	pkgs, ulds := fixtures(placements, 2)

	seq, _, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if seq[0] != "A" || seq[1] != "B" {
		t.Errorf("sequence = %v, want [A B]", seq)
	}
}

func TestToDOT_ContainsNodesAndEdges(t *testing.T) {
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{0, 0, 0}, Max: pack.Point{10, 10, 2}},
		{Package: 1, ULD: 0, Min: pack.Point{0, 0, 2}, Max: pack.Point{10, 10, 4}},
	}
	pkgs, ulds := fixtures(placements, 2)

	_, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	dot := ToDOT(g, DOTOptions{})
	if !strings.Contains(dot, `"A"`) || !strings.Contains(dot, `"B"`) {
		t.Errorf("DOT missing nodes:\n%s", dot)
	}
	if !strings.Contains(dot, `"B" -> "A"`) {
		t.Errorf("DOT missing edge B -> A:\n%s", dot)
	}
}

func TestToDOT_DetailedLabels(t *testing.T) {
	placements := []pack.Placement{
		{Package: 0, ULD: 0, Min: pack.Point{1, 2, 3}, Max: pack.Point{2, 3, 4}},
	}
	pkgs, ulds := fixtures(placements, 1)

	_, g, err := Compute(placements, pkgs, ulds)
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}

	dot := ToDOT(g, DOTOptions{Detailed: true})
	if !strings.Contains(dot, "uld: U1") {
		t.Errorf("detailed DOT missing ULD label:\n%s", dot)
	}
	if !strings.Contains(dot, "(1, 2, 3)") {
		t.Errorf("detailed DOT missing position label:\n%s", dot)
	}
}

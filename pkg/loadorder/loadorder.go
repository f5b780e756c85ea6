// Package loadorder derives a physically achievable loading sequence from
// a finished placement. A package that supports another (from below, along
// -z) or blocks it (from behind, along -x) must be loaded first; the
// package dependencies form a DAG that is emitted in topological order.
package loadorder

import (
	"sort"

	"github.com/matzehuels/uldpack/pkg/dag"
	"github.com/matzehuels/uldpack/pkg/errors"
	"github.com/matzehuels/uldpack/pkg/pack"
)

// Build constructs the support-dependency graph for a placement set.
// For every placed box, the box footprint is swept toward the -x and -z
// walls one grid step at a time; every other box the sweep touches becomes
// a dependency. The resulting graph is validated for cycles - a cycle
// means the placement itself is corrupt, which is fatal.
func Build(placements []pack.Placement, pkgs []pack.Package, ulds []pack.ULD) (*dag.DAG, error) {
	g := dag.New()

	byULD := make(map[int][]pack.Placement)
	for _, pl := range placements {
		byULD[pl.ULD] = append(byULD[pl.ULD], pl)
	}

	for _, pl := range placements {
		n := dag.Node{
			ID: pkgs[pl.Package].ID,
			Meta: dag.Metadata{
				"uld": ulds[pl.ULD].ID,
				"pos": [3]int{pl.Min[0], pl.Min[1], pl.Min[2]},
			},
		}
		if err := g.AddNode(n); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInconsistentPlacement, err, "package %q", n.ID)
		}
	}

	for _, pl := range placements {
		deps := sweep(pl, byULD[pl.ULD], 0)
		for pid := range sweep(pl, byULD[pl.ULD], 2) {
			deps[pid] = true
		}

		ordered := make([]int, 0, len(deps))
		for pid := range deps {
			ordered = append(ordered, pid)
		}
		sort.Ints(ordered)

		for _, pid := range ordered {
			e := dag.Edge{From: pkgs[pl.Package].ID, To: pkgs[pid].ID}
			if err := g.AddEdge(e); err != nil {
				return nil, errors.Wrap(errors.ErrCodeInconsistentPlacement, err, "edge %s -> %s", e.From, e.To)
			}
		}
	}

	if err := g.Validate(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeDependencyCycle, err, "loading-order graph")
	}
	return g, nil
}

// sweep walks the box toward the low wall along the given axis and
// collects the package indexes of every other box the moving footprint
// intersects.
func sweep(pl pack.Placement, same []pack.Placement, axis int) map[int]bool {
	hits := make(map[int]bool)
	dims := [3]int{
		pl.Max[0] - pl.Min[0],
		pl.Max[1] - pl.Min[1],
		pl.Max[2] - pl.Min[2],
	}

	cur := pl.Min
	for cur[axis] > 0 {
		cur[axis]--
		max := pack.Point{cur[0] + dims[0], cur[1] + dims[1], cur[2] + dims[2]}
		for _, other := range same {
			if other.Package == pl.Package {
				continue
			}
			if pack.Intersects(cur, max, other.Min, other.Max) {
				hits[other.Package] = true
			}
		}
	}
	return hits
}

// Sequence flattens the dependency graph into a loading order: packages
// are taken up in ascending in-degree order (ties broken by id) and each
// is emitted after all of its dependencies, depth-first.
func Sequence(g *dag.DAG) []string {
	nodes := g.Nodes()
	sort.SliceStable(nodes, func(i, j int) bool {
		di, dj := g.InDegree(nodes[i].ID), g.InDegree(nodes[j].ID)
		if di != dj {
			return di < dj
		}
		return nodes[i].ID < nodes[j].ID
	})

	visited := make(map[string]bool, len(nodes))
	seq := make([]string, 0, len(nodes))

	var visit func(id string)
	visit = func(id string) {
		visited[id] = true
		for _, dep := range g.Dependencies(id) {
			if !visited[dep] {
				visit(dep)
			}
		}
		seq = append(seq, id)
	}

	for _, n := range nodes {
		if !visited[n.ID] {
			visit(n.ID)
		}
	}
	return seq
}

// Compute is the convenience path: build the graph and emit the sequence
// in one call.
func Compute(placements []pack.Placement, pkgs []pack.Package, ulds []pack.ULD) ([]string, *dag.DAG, error) {
	g, err := Build(placements, pkgs, ulds)
	if err != nil {
		return nil, nil, err
	}
	return Sequence(g), g, nil
}

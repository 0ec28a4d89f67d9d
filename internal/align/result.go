package align

import (
	"sort"

	"gonum.org/v1/gonum/graph"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/traverse"

	"github.com/banshee-data/beaconmap/internal/geom"
)

// Result is a read-only snapshot of a run.
type Result struct {
	scannerCount int
	rounds       int
	minOverlap   int
	placements   map[int]Placement
	order        []int
	beacons      map[geom.Vector3]struct{}
}

// Result snapshots the aligner's current state. Later rounds do not
// change a snapshot already taken.
func (a *Aligner) Result() *Result {
	res := &Result{
		scannerCount: len(a.scanners),
		rounds:       a.rounds,
		minOverlap:   a.minOverlap,
		placements:   make(map[int]Placement, len(a.placements)),
		order:        append([]int(nil), a.order...),
		beacons:      make(map[geom.Vector3]struct{}, len(a.beacons)),
	}
	for id, p := range a.placements {
		res.placements[id] = p
	}
	for b := range a.beacons {
		res.beacons[b] = struct{}{}
	}
	return res
}

// ScannerCount returns the number of scanners in the run, placed or not.
func (r *Result) ScannerCount() int { return r.scannerCount }

// Rounds returns how many search rounds ran.
func (r *Result) Rounds() int { return r.rounds }

// MinOverlap returns the shared-beacon threshold the run used.
func (r *Result) MinOverlap() int { return r.minOverlap }

// Complete reports whether every scanner was placed.
func (r *Result) Complete() bool {
	return len(r.placements) == r.scannerCount
}

// BeaconCount returns the number of distinct beacons in the global frame.
func (r *Result) BeaconCount() int {
	return len(r.beacons)
}

// Beacons returns the distinct global beacons ordered by X, Y, Z.
func (r *Result) Beacons() []geom.Vector3 {
	out := make([]geom.Vector3, 0, len(r.beacons))
	for b := range r.beacons {
		out = append(out, b)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// Placement returns scanner id's placement, if it was placed.
func (r *Result) Placement(id int) (Placement, bool) {
	p, ok := r.placements[id]
	return p, ok
}

// Placements returns every placement ordered by scanner id.
func (r *Result) Placements() []Placement {
	out := make([]Placement, 0, len(r.placements))
	for _, p := range r.placements {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Scanner < out[j].Scanner })
	return out
}

// Order returns scanner ids in the order they were placed.
func (r *Result) Order() []int {
	return append([]int(nil), r.order...)
}

// Positions returns the global positions of placed scanners ordered by
// scanner id.
func (r *Result) Positions() []geom.Vector3 {
	ps := r.Placements()
	out := make([]geom.Vector3, len(ps))
	for i, p := range ps {
		out[i] = p.Translation
	}
	return out
}

// Unplaced returns the ids of scanners without a placement.
func (r *Result) Unplaced() []int {
	var ids []int
	for i := 0; i < r.scannerCount; i++ {
		if _, ok := r.placements[i]; !ok {
			ids = append(ids, i)
		}
	}
	return ids
}

// MaxManhattan returns the largest Manhattan distance between any two
// placed scanners. It is 0 with fewer than two placed scanners.
func (r *Result) MaxManhattan() int {
	pos := r.Positions()
	best := 0
	for i := range pos {
		for j := i + 1; j < len(pos); j++ {
			if d := pos[i].Manhattan(pos[j]); d > best {
				best = d
			}
		}
	}
	return best
}

// Chain returns the anchor path from scanner 0 to id, inclusive. It is
// nil if id was not placed.
func (r *Result) Chain(id int) []int {
	p, ok := r.placements[id]
	if !ok {
		return nil
	}
	chain := []int{id}
	for p.Anchor != NoAnchor {
		chain = append(chain, p.Anchor)
		p = r.placements[p.Anchor]
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// PlacementTree returns the directed anchor -> scanner graph of the run.
// Node ids are scanner ids.
func (r *Result) PlacementTree() *simple.DirectedGraph {
	g := simple.NewDirectedGraph()
	if len(r.placements) == 0 {
		return g
	}
	g.AddNode(simple.Node(0))
	for _, id := range r.order {
		p := r.placements[id]
		if p.Anchor == NoAnchor {
			continue
		}
		g.SetEdge(g.NewEdge(simple.Node(p.Anchor), simple.Node(p.Scanner)))
	}
	return g
}

// Depths returns, for each placed scanner, how many placements separate
// it from scanner 0.
func (r *Result) Depths() map[int]int {
	depths := make(map[int]int, len(r.placements))
	if len(r.placements) == 0 {
		return depths
	}
	var bf traverse.BreadthFirst
	bf.Walk(r.PlacementTree(), simple.Node(0), func(n graph.Node, d int) bool {
		depths[int(n.ID())] = d
		return false
	})
	return depths
}

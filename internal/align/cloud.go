package align

import "github.com/banshee-data/beaconmap/internal/geom"

// Cloud is an ordered point list with a membership index. Iteration uses
// Points so search order is deterministic; Contains uses the index.
type Cloud struct {
	Points []geom.Vector3
	index  map[geom.Vector3]struct{}
}

// NewCloud indexes points. The slice is retained, not copied.
func NewCloud(points []geom.Vector3) *Cloud {
	idx := make(map[geom.Vector3]struct{}, len(points))
	for _, p := range points {
		idx[p] = struct{}{}
	}
	return &Cloud{Points: points, index: idx}
}

// Contains reports whether v is one of the cloud's points.
func (c *Cloud) Contains(v geom.Vector3) bool {
	_, ok := c.index[v]
	return ok
}

// Len returns the number of distinct points.
func (c *Cloud) Len() int {
	return len(c.index)
}

// distinct drops repeated points, keeping first occurrences in order.
// points is returned as is when it has no repeats.
func distinct(points []geom.Vector3) []geom.Vector3 {
	seen := make(map[geom.Vector3]struct{}, len(points))
	var out []geom.Vector3
	for i, p := range points {
		if _, dup := seen[p]; dup {
			if out == nil {
				out = append(make([]geom.Vector3, 0, len(points)), points[:i]...)
			}
			continue
		}
		seen[p] = struct{}{}
		if out != nil {
			out = append(out, p)
		}
	}
	if out == nil {
		return points
	}
	return out
}

package scanner

import "github.com/banshee-data/beaconmap/internal/geom"

// Scanner is one sensor's beacon readings in its own frame.
// Beacons keep their report order. Treat a parsed Scanner as read-only.
type Scanner struct {
	ID      int
	Header  string
	Beacons []geom.Vector3
}

// Len returns the number of beacon readings.
func (s Scanner) Len() int {
	return len(s.Beacons)
}

// Rotated returns the readings under rotation r.
func (s Scanner) Rotated(r geom.Rotation) []geom.Vector3 {
	return r.ApplyAll(s.Beacons)
}

// Orientations returns the readings under every rotation, indexed by
// rotation id.
func (s Scanner) Orientations() [geom.NumRotations][]geom.Vector3 {
	var out [geom.NumRotations][]geom.Vector3
	for _, r := range geom.Rotations() {
		out[r] = s.Rotated(r)
	}
	return out
}

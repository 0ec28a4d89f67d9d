package align

import "github.com/banshee-data/beaconmap/internal/geom"

// FindTranslation looks for an offset t such that at least threshold
// candidate points c satisfy c+t in ref. Each (ref point, candidate
// point) pair proposes t = r - c; the first proposal that reaches the
// threshold wins.
//
// Repeated candidate readings count once. Only the first
// len(candidate)-threshold+1 distinct candidate points need to propose:
// any threshold-sized match includes one of them.
func FindTranslation(ref *Cloud, candidate []geom.Vector3, threshold int) (geom.Vector3, bool) {
	candidate = distinct(candidate)
	if threshold < 1 || len(candidate) < threshold || ref.Len() < threshold {
		return geom.Zero, false
	}
	proposers := candidate[:len(candidate)-threshold+1]
	tried := make(map[geom.Vector3]struct{}, len(ref.Points)*len(proposers))

	for _, r := range ref.Points {
		for _, c := range proposers {
			t := r.Sub(c)
			if _, seen := tried[t]; seen {
				continue
			}
			tried[t] = struct{}{}
			if countHits(ref, candidate, t, threshold) >= threshold {
				return t, true
			}
		}
	}
	return geom.Zero, false
}

// countHits counts candidate points that land in ref under offset t. It
// stops as soon as the threshold is reached or can no longer be reached.
func countHits(ref *Cloud, candidate []geom.Vector3, t geom.Vector3, threshold int) int {
	hits := 0
	for i, c := range candidate {
		if ref.Contains(c.Add(t)) {
			hits++
			if hits >= threshold {
				return hits
			}
		} else if hits+len(candidate)-i-1 < threshold {
			return hits
		}
	}
	return hits
}

// MatchOriented tries FindTranslation for each rotation in index order,
// using candidate readings already rotated and indexed by rotation id.
func MatchOriented(ref *Cloud, oriented *[geom.NumRotations][]geom.Vector3, threshold int) (geom.Rotation, geom.Vector3, bool) {
	for _, r := range geom.Rotations() {
		if t, ok := FindTranslation(ref, oriented[r], threshold); ok {
			return r, t, true
		}
	}
	return geom.Identity, geom.Zero, false
}

// Match finds a rotation and translation that map at least threshold of
// the candidate readings onto ref. ref must already be in the target
// orientation. A false result means "no overlap", not an error.
func Match(ref []geom.Vector3, candidate []geom.Vector3, threshold int) (geom.Rotation, geom.Vector3, bool) {
	var oriented [geom.NumRotations][]geom.Vector3
	for _, r := range geom.Rotations() {
		oriented[r] = r.ApplyAll(candidate)
	}
	return MatchOriented(NewCloud(ref), &oriented, threshold)
}

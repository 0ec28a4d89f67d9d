// Package align places scanners into the frame of scanner 0.
//
// Responsibilities: pairwise overlap search (FindTranslation, Match), the
// round-based alignment driver (Aligner) and the post-processing of a
// finished run (Result).
// Key types: Cloud, Aligner, Placement, Result.
//
// Two scanners overlap when, under one of the 24 rotations and some
// translation, at least MinOverlap of the candidate's beacons land on the
// anchor's beacons. The first hypothesis that reaches the threshold is
// accepted; no search for a "best" alignment is made.
//
// Rotations are absolute: a placed scanner's rotation maps its readings
// straight into the global orientation. Translations compose along the
// chain of anchors, so each Placement's Translation is the scanner's
// position in the global frame.
//
// A run proceeds in rounds. Each round snapshots the placed scanners,
// searches every unplaced candidate against that snapshot (optionally on
// several goroutines), then commits the outcomes one by one in candidate
// order. Search only reads shared state; commit is the only writer.
package align

// Package geom owns the integer geometry used by the alignment solver.
//
// Responsibilities: the Vector3 value type and the fixed table of the 24
// proper rotations of a cube (no reflections).
// Key types: Vector3, Rotation.
//
// The rotation table is built once at package init and never changes.
// Rotation 0 is the identity.
package geom

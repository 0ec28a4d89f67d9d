package geom

import "fmt"

// Vector3 is an integer point or offset in a scanner or global frame.
// It is comparable and can be used directly as a map key.
type Vector3 struct {
	X, Y, Z int
}

// Zero is the origin.
var Zero = Vector3{}

// V is shorthand for Vector3{X: x, Y: y, Z: z}.
func V(x, y, z int) Vector3 {
	return Vector3{X: x, Y: y, Z: z}
}

// Add returns v + o.
func (v Vector3) Add(o Vector3) Vector3 {
	return Vector3{X: v.X + o.X, Y: v.Y + o.Y, Z: v.Z + o.Z}
}

// Sub returns v - o.
func (v Vector3) Sub(o Vector3) Vector3 {
	return Vector3{X: v.X - o.X, Y: v.Y - o.Y, Z: v.Z - o.Z}
}

// Neg returns -v.
func (v Vector3) Neg() Vector3 {
	return Vector3{X: -v.X, Y: -v.Y, Z: -v.Z}
}

// Abs returns the component-wise absolute value.
func (v Vector3) Abs() Vector3 {
	return Vector3{X: abs(v.X), Y: abs(v.Y), Z: abs(v.Z)}
}

// Manhattan returns the taxicab distance between v and o.
func (v Vector3) Manhattan(o Vector3) int {
	d := v.Sub(o)
	return abs(d.X) + abs(d.Y) + abs(d.Z)
}

// Less orders vectors by X, then Y, then Z.
func (v Vector3) Less(o Vector3) bool {
	if v.X != o.X {
		return v.X < o.X
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.Z < o.Z
}

// String formats the vector the way scanner reports write it: "x,y,z".
func (v Vector3) String() string {
	return fmt.Sprintf("%d,%d,%d", v.X, v.Y, v.Z)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

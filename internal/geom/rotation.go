package geom

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

// NumRotations is the order of the proper rotation group of the cube.
const NumRotations = 24

// Rotation identifies one of the 24 proper cube rotations by its index in
// the package rotation table.
type Rotation uint8

// Identity leaves every vector unchanged.
const Identity Rotation = 0

// determinantTolerance bounds float error from mat.Det on integer matrices.
const determinantTolerance = 1e-9

// matrix3 is a row-major integer rotation matrix.
type matrix3 [3][3]int

var (
	table     [NumRotations]matrix3
	byMatrix  map[matrix3]Rotation
	compose   [NumRotations][NumRotations]Rotation
	inverseOf [NumRotations]Rotation
)

func init() {
	table = buildTable()
	byMatrix = make(map[matrix3]Rotation, NumRotations)
	for i, m := range table {
		if _, dup := byMatrix[m]; dup {
			panic(fmt.Sprintf("geom: rotation %d duplicates an earlier rotation", i))
		}
		if d := mat.Det(m.dense()); math.Abs(d-1) > determinantTolerance {
			panic(fmt.Sprintf("geom: rotation %d has determinant %v, want 1", i, d))
		}
		byMatrix[m] = Rotation(i)
	}
	for a := range table {
		for b := range table {
			r, ok := byMatrix[table[a].mul(table[b])]
			if !ok {
				panic(fmt.Sprintf("geom: rotation %d * %d is not in the table", a, b))
			}
			compose[a][b] = r
			if r == Identity {
				inverseOf[a] = Rotation(b)
			}
		}
	}
}

// roll turns 90 degrees about the X axis.
func (v Vector3) roll() Vector3 {
	return Vector3{X: v.X, Y: v.Z, Z: -v.Y}
}

// turn turns 90 degrees about the Z axis.
func (v Vector3) turn() Vector3 {
	return Vector3{X: -v.Y, Y: v.X, Z: v.Z}
}

// walk visits every orientation of v using only roll and turn: two
// cycles of three (roll + three turns), bridged by roll-turn-roll.
func walk(v Vector3) []Vector3 {
	out := make([]Vector3, 0, NumRotations)
	for cycle := 0; cycle < 2; cycle++ {
		for step := 0; step < 3; step++ {
			v = v.roll()
			out = append(out, v)
			for i := 0; i < 3; i++ {
				v = v.turn()
				out = append(out, v)
			}
		}
		v = v.roll().turn().roll()
	}
	return out
}

// buildTable derives the rotation matrices from the walk of the basis
// vectors, then shifts the sequence so the identity sits at index 0.
func buildTable() [NumRotations]matrix3 {
	ex := walk(V(1, 0, 0))
	ey := walk(V(0, 1, 0))
	ez := walk(V(0, 0, 1))

	var seq [NumRotations]matrix3
	start := -1
	for i := 0; i < NumRotations; i++ {
		m := matrix3{
			{ex[i].X, ey[i].X, ez[i].X},
			{ex[i].Y, ey[i].Y, ez[i].Y},
			{ex[i].Z, ey[i].Z, ez[i].Z},
		}
		seq[i] = m
		if m == (matrix3{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}) {
			start = i
		}
	}
	if start < 0 {
		panic("geom: roll/turn walk never reaches the identity")
	}

	var out [NumRotations]matrix3
	for i := range out {
		out[i] = seq[(start+i)%NumRotations]
	}
	return out
}

func (m matrix3) mul(o matrix3) matrix3 {
	var out matrix3
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			out[i][j] = m[i][0]*o[0][j] + m[i][1]*o[1][j] + m[i][2]*o[2][j]
		}
	}
	return out
}

func (m matrix3) dense() *mat.Dense {
	data := make([]float64, 0, 9)
	for _, row := range m {
		for _, v := range row {
			data = append(data, float64(v))
		}
	}
	return mat.NewDense(3, 3, data)
}

// Rotations returns every rotation in table order.
func Rotations() []Rotation {
	out := make([]Rotation, NumRotations)
	for i := range out {
		out[i] = Rotation(i)
	}
	return out
}

// Valid reports whether r indexes the rotation table.
func (r Rotation) Valid() bool {
	return int(r) < NumRotations
}

// Apply rotates v.
func (r Rotation) Apply(v Vector3) Vector3 {
	m := &table[r]
	return Vector3{
		X: m[0][0]*v.X + m[0][1]*v.Y + m[0][2]*v.Z,
		Y: m[1][0]*v.X + m[1][1]*v.Y + m[1][2]*v.Z,
		Z: m[2][0]*v.X + m[2][1]*v.Y + m[2][2]*v.Z,
	}
}

// ApplyAll rotates every vector in vs into a new slice.
func (r Rotation) ApplyAll(vs []Vector3) []Vector3 {
	out := make([]Vector3, len(vs))
	for i, v := range vs {
		out[i] = r.Apply(v)
	}
	return out
}

// Inverse returns the rotation that undoes r.
func (r Rotation) Inverse() Rotation {
	return inverseOf[r]
}

// Matrix returns r as a 3x3 gonum matrix.
func (r Rotation) Matrix() *mat.Dense {
	return table[r].dense()
}

// String implements fmt.Stringer.
func (r Rotation) String() string {
	m := table[r]
	return fmt.Sprintf("R%d%v", uint8(r), [3][3]int(m))
}

// Compose returns the rotation equivalent to applying b, then a.
func Compose(a, b Rotation) Rotation {
	return compose[a][b]
}

// Orientations returns v under every rotation, in table order.
func Orientations(v Vector3) []Vector3 {
	out := make([]Vector3, NumRotations)
	for i := range out {
		out[i] = Rotation(i).Apply(v)
	}
	return out
}

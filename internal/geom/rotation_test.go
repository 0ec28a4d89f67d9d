package geom

import (
	"math"
	"sort"
	"testing"

	"gonum.org/v1/gonum/mat"
)

func TestRotations_IdentityFirst(t *testing.T) {
	v := V(1, -2, 3)
	if got := Identity.Apply(v); got != v {
		t.Fatalf("Identity.Apply(%v) = %v", v, got)
	}
	if Identity != Rotations()[0] {
		t.Errorf("Rotations()[0] = %v, want identity", Rotations()[0])
	}
}

func TestRotations_TwentyFourDistinctImages(t *testing.T) {
	// Asymmetric vector: no two components share a magnitude.
	v := V(1, -2, 3)
	seen := make(map[Vector3]Rotation)
	for _, r := range Rotations() {
		img := r.Apply(v)
		if prev, dup := seen[img]; dup {
			t.Fatalf("rotations %d and %d both map %v to %v", prev, r, v, img)
		}
		seen[img] = r
	}
	if len(seen) != NumRotations {
		t.Errorf("got %d distinct images, want %d", len(seen), NumRotations)
	}
}

func TestRotations_SignedPermutation(t *testing.T) {
	vectors := []Vector3{V(1, -2, 3), V(7, 0, -7), V(-404, 588, 901)}
	for _, v := range vectors {
		want := sortedMagnitudes(v)
		for _, r := range Rotations() {
			got := sortedMagnitudes(r.Apply(v))
			if got != want {
				t.Errorf("%v.Apply(%v) magnitudes = %v, want %v", r, v, got, want)
			}
		}
	}
}

func TestRotations_ProperDeterminant(t *testing.T) {
	for _, r := range Rotations() {
		m := r.Matrix()
		if d := mat.Det(m); math.Abs(d-1) > 1e-9 {
			t.Errorf("det(%v) = %v, want 1", r, d)
		}
		var prod mat.Dense
		prod.Mul(m, m.T())
		if !mat.EqualApprox(&prod, identityDense(), 1e-9) {
			t.Errorf("%v is not orthonormal", r)
		}
	}
}

func TestCompose_ClosedAndConsistent(t *testing.T) {
	v := V(5, -11, 17)
	for _, a := range Rotations() {
		for _, b := range Rotations() {
			c := Compose(a, b)
			if !c.Valid() {
				t.Fatalf("Compose(%d, %d) = %d outside the table", a, b, c)
			}
			if got, want := c.Apply(v), a.Apply(b.Apply(v)); got != want {
				t.Errorf("Compose(%d, %d).Apply = %v, want %v", a, b, got, want)
			}
		}
	}
}

func TestInverse(t *testing.T) {
	v := V(3, 1, -4)
	for _, r := range Rotations() {
		inv := r.Inverse()
		if got := inv.Apply(r.Apply(v)); got != v {
			t.Errorf("%d.Inverse() does not undo: got %v, want %v", r, got, v)
		}
		if Compose(r, inv) != Identity {
			t.Errorf("Compose(%d, inverse) != Identity", r)
		}
	}
}

func TestRotation_KnownMatrices(t *testing.T) {
	// Index 5 flips X and Z; it is the orientation of scanner 1 in the
	// published five-scanner sample.
	if got := Rotation(5).Apply(V(686, 422, 578)); got != V(-686, 422, -578) {
		t.Errorf("Rotation(5).Apply = %v", got)
	}
	// Index 22 is a half turn about Z.
	if got := Rotation(22).Apply(V(1, 2, 3)); got != V(-1, -2, 3) {
		t.Errorf("Rotation(22).Apply = %v", got)
	}
}

func TestOrientations(t *testing.T) {
	v := V(1, 2, 3)
	got := Orientations(v)
	if len(got) != NumRotations {
		t.Fatalf("len = %d, want %d", len(got), NumRotations)
	}
	for i, img := range got {
		if img != Rotation(i).Apply(v) {
			t.Errorf("Orientations[%d] = %v, want %v", i, img, Rotation(i).Apply(v))
		}
	}
}

func TestApplyAll(t *testing.T) {
	in := []Vector3{V(1, 0, 0), V(0, 1, 0)}
	out := Rotation(22).ApplyAll(in)
	if out[0] != V(-1, 0, 0) || out[1] != V(0, -1, 0) {
		t.Errorf("ApplyAll = %v", out)
	}
	if in[0] != V(1, 0, 0) {
		t.Error("ApplyAll mutated its input")
	}
}

func sortedMagnitudes(v Vector3) [3]int {
	a := v.Abs()
	s := []int{a.X, a.Y, a.Z}
	sort.Ints(s)
	return [3]int{s[0], s[1], s[2]}
}

func identityDense() *mat.Dense {
	return mat.NewDense(3, 3, []float64{1, 0, 0, 0, 1, 0, 0, 0, 1})
}

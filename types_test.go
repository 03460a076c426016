package envsim

import "testing"

func TestAABBContainsHalfOpen(t *testing.T) {
	b := AABB{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 1, Y: 1, Z: 1}, Id: "a"}

	cases := []struct {
		p    Point3
		want bool
	}{
		{Point3{X: 0, Y: 0, Z: 0}, true},   // min corner included
		{Point3{X: 0.5, Y: 0.5, Z: 0.5}, true},
		{Point3{X: 1, Y: 0, Z: 0}, false},  // max face excluded on X
		{Point3{X: 0, Y: 1, Z: 0}, false},  // max face excluded on Y
		{Point3{X: 0, Y: 0, Z: 1}, false},  // max face excluded on Z
		{Point3{X: -0.01, Y: 0, Z: 0}, false},
	}
	for _, c := range cases {
		if got := b.Contains(c.p); got != c.want {
			t.Errorf("Contains(%+v) = %v, want %v", c.p, got, c.want)
		}
	}
}

func TestAABBAdjacentCellsDontDoubleHit(t *testing.T) {
	left := AABB{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 1, Y: 1, Z: 1}, Id: "left"}
	right := AABB{Min: Point3{X: 1, Y: 0, Z: 0}, Max: Point3{X: 2, Y: 1, Z: 1}, Id: "right"}

	seam := Point3{X: 1, Y: 0.5, Z: 0.5}
	if left.Contains(seam) {
		t.Error("left cell should not claim the shared seam point")
	}
	if !right.Contains(seam) {
		t.Error("right cell should own the shared seam point")
	}
}

func TestUnion(t *testing.T) {
	a := AABB{Min: Point3{X: 0, Y: 0, Z: 0}, Max: Point3{X: 1, Y: 1, Z: 1}}
	b := AABB{Min: Point3{X: -1, Y: 2, Z: 0}, Max: Point3{X: 3, Y: 3, Z: 0.5}}
	u := Union(a, b)
	want := AABB{Min: Point3{X: -1, Y: 0, Z: 0}, Max: Point3{X: 3, Y: 3, Z: 1}}
	if u.Min != want.Min || u.Max != want.Max {
		t.Errorf("Union = %+v, want %+v", u, want)
	}
}

func TestClampGPS(t *testing.T) {
	cases := []struct {
		in, want float32
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 0.5},
		{1, 1},
		{1.5, 1},
	}
	for _, c := range cases {
		if got := ClampGPS(c.in); got != c.want {
			t.Errorf("ClampGPS(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

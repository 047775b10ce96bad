package geom

import (
	"math"
	"testing"
)

const tol = 1e-9

func near(a, b Vector2D) bool {
	return math.Abs(a.X-b.X) < tol && math.Abs(a.Y-b.Y) < tol
}

func TestMatrixCompositionOrder(t *testing.T) {
	// scale, then rotate 90deg, then translate
	m := NewMatrix()
	m.Scale(2, 2)
	m.Rotate(math.Pi / 2)
	m.Translate(10, 0)

	p := Vec(1, 0)
	m.TransformVector2D(&p)
	if !near(p, Vec(10, 2)) {
		t.Errorf("transformed = %v, want (10,2)", p)
	}
}

func TestMatrixIdentity(t *testing.T) {
	m := NewMatrix()
	m.Translate(5, 5)
	m.Identity()
	for r := 1; r <= 3; r++ {
		for c := 1; c <= 3; c++ {
			want := 0.0
			if r == c {
				want = 1
			}
			if m.At(r, c) != want {
				t.Errorf("At(%d,%d) = %v, want %v", r, c, m.At(r, c), want)
			}
		}
	}
}

func TestWorldLocalRoundtrip(t *testing.T) {
	heading := Vec2DNormalize(Vec(1, 1))
	side := heading.Perp()
	pos := Vec(40, -7)

	points := []Vector2D{{}, Vec(3, 0), Vec(-2, 5), Vec(100, 100)}
	for _, p := range points {
		world := PointToWorldSpace(p, heading, side, pos)
		back := PointToLocalSpace(world, heading, side, pos)
		if !near(back, p) {
			t.Errorf("roundtrip %v -> %v -> %v", p, world, back)
		}

		wv := VectorToWorldSpace(p, heading, side)
		bv := VectorToLocalSpace(wv, heading, side)
		if !near(bv, p) {
			t.Errorf("vector roundtrip %v -> %v -> %v", p, wv, bv)
		}
	}
}

func TestPointToLocalSpaceAhead(t *testing.T) {
	local := PointToLocalSpace(Vec(15, 0), Vec(1, 0), Vec(0, 1), Vec(10, 0))
	if !near(local, Vec(5, 0)) {
		t.Errorf("local = %v, want (5,0)", local)
	}
}

func TestWorldTransformLeavesInputUntouched(t *testing.T) {
	shape := []Vector2D{Vec(-1, 0.6), Vec(1, 0), Vec(-1, -0.6)}
	orig := CloneVectors(shape)

	out := WorldTransform(shape, Vec(100, 100), Vec(0, 1), Vec(-1, 0), Vec(10, 10))

	for i := range shape {
		if shape[i] != orig[i] {
			t.Fatalf("input mutated at %d", i)
		}
	}
	// nose (1,0) scaled by 10 and facing +y lands 10 units above the centre
	if !near(out[1], Vec(100, 110)) {
		t.Errorf("nose = %v, want (100,110)", out[1])
	}
}

func TestVec2DRotateAroundOrigin(t *testing.T) {
	v := Vec(1, 0)
	Vec2DRotateAroundOrigin(&v, math.Pi/2)
	if !near(v, Vec(0, 1)) {
		t.Errorf("rotated = %v, want (0,1)", v)
	}
}

func TestCreateWhiskers(t *testing.T) {
	origin := Vec(5, 5)
	w := CreateWhiskers(3, 10, math.Pi/2, Vec(1, 0), origin)
	if len(w) != 3 {
		t.Fatalf("got %d whiskers, want 3", len(w))
	}

	s := math.Sqrt2 / 2 * 10
	want := []Vector2D{Vec(5+s, 5-s), Vec(15, 5), Vec(5+s, 5+s)}
	for i := range want {
		if !near(w[i], want[i]) {
			t.Errorf("whisker %d = %v, want %v", i, w[i], want[i])
		}
		if d := w[i].Distance(origin); math.Abs(d-10) > tol {
			t.Errorf("whisker %d length = %v, want 10", i, d)
		}
	}
}

func TestLineIntersection2D(t *testing.T) {
	dist, p, ok := LineIntersection2D(Vec(0, 0), Vec(10, 0), Vec(5, -5), Vec(5, 5))
	if !ok {
		t.Fatal("expected intersection")
	}
	if math.Abs(dist-5) > tol || !near(p, Vec(5, 0)) {
		t.Errorf("got dist=%v point=%v", dist, p)
	}

	if _, _, ok := LineIntersection2D(Vec(0, 0), Vec(10, 0), Vec(0, 1), Vec(10, 1)); ok {
		t.Error("parallel segments should not intersect")
	}
}

func TestWallNormal(t *testing.T) {
	w := NewWall2D(Vec(0, 0), Vec(10, 0))
	if !near(w.Normal, Vec(0, 1)) {
		t.Errorf("normal = %v, want (0,1)", w.Normal)
	}
	if !near(w.Center(), Vec(5, 0)) {
		t.Errorf("center = %v", w.Center())
	}
}

func TestInvertedAABBoxOverlap(t *testing.T) {
	a := NewInvertedAABBox2D(Vec(50, 50), Vec(150, 150))
	b := NewInvertedAABBox2D(Vec(85, 85), Vec(300, 350))
	c := NewInvertedAABBox2D(Vec(200, 0), Vec(250, 40))

	if !a.IsOverlappedWith(b) {
		t.Error("a and b should overlap")
	}
	if a.IsOverlappedWith(c) {
		t.Error("a and c should not overlap")
	}
	if !near(a.Center, Vec(100, 100)) {
		t.Errorf("center = %v", a.Center)
	}
}

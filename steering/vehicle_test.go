package steering

import (
	"math"
	"testing"

	"github.com/pthm-cable/steer/geom"
)

func TestSeekSingleUpdate(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(200, 100))
	v := w.spawn(geom.Vec(100, 100), testParams(), 1)
	if err := v.Steering().SeekOn(); err != nil {
		t.Fatal(err)
	}

	v.Update(0.1)

	vel := v.Velocity()
	if vel.X <= 0 || math.Abs(vel.Y) > 1e-9 {
		t.Errorf("velocity = %v, want along +x", vel)
	}
	if v.Pos().X <= 100 {
		t.Errorf("position = %v, want x > 100", v.Pos())
	}
	if v.TimeElapsed() != 0.1 {
		t.Errorf("time elapsed = %v, want 0.1", v.TimeElapsed())
	}
}

func TestSpeedNeverExceedsMax(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(500, 500))
	sp := testParams()
	sp.Weights = uniformTable(200)

	var vs []*Vehicle
	for i := 0; i < 5; i++ {
		v := w.spawn(geom.Vec(100+float64(i)*20, 100), sp, int64(i))
		v.Steering().FlockingOn()
		if err := v.Steering().SeekOn(); err != nil {
			t.Fatal(err)
		}
		vs = append(vs, v)
	}

	for step := 0; step < 500; step++ {
		for _, v := range vs {
			v.Update(1.0 / 60)
			if s := v.Speed(); s > 10+1e-9 {
				t.Fatalf("step %d: speed %v exceeds 10", step, s)
			}
			if math.Abs(v.Heading().Length()-1) > 1e-9 {
				t.Fatalf("step %d: |heading| = %v", step, v.Heading().Length())
			}
		}
	}
}

func TestWanderZeroJitterIsDeterministic(t *testing.T) {
	run := func() ([]geom.Vector2D, []geom.Vector2D) {
		w := newStubWorld()
		sp := testParams()
		sp.WanderJitter = 0
		v := w.spawn(geom.Vec(500, 500), sp, 11)
		v.Steering().WanderOn()

		var targets, positions []geom.Vector2D
		for i := 0; i < 30; i++ {
			v.Update(0.05)
			targets = append(targets, v.Steering().WanderTarget())
			positions = append(positions, v.Pos())
		}
		return targets, positions
	}

	targets, positions := run()

	// no jitter: the target is only renormalized onto the circle, so it stays put
	for i := 1; i < len(targets); i++ {
		if !near(targets[i], targets[0], 1e-12) {
			t.Fatalf("frame %d: wander target moved %v -> %v", i, targets[0], targets[i])
		}
	}

	_, again := run()
	for i := range positions {
		if positions[i] != again[i] {
			t.Fatalf("frame %d: trajectory diverged %v vs %v", i, positions[i], again[i])
		}
	}
}

func TestSeparationRepelsNeighbor(t *testing.T) {
	tests := []struct {
		name    string
		spacing float64
	}{
		{"one unit", 1},
		{"two units", 2},
	}

	var mags []float64
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			sp := testParams()
			v := w.spawn(geom.Vec(100, 100), sp, 1)
			w.spawn(geom.Vec(100+tt.spacing, 100), sp, 2)
			v.Steering().SeparationOn()

			f := v.Steering().Calculate()
			if f.X >= 0 || math.Abs(f.Y) > 1e-9 {
				t.Errorf("force = %v, want pointing from the neighbor toward -x", f)
			}
			if want := 1 / tt.spacing; math.Abs(f.Length()-want) > 1e-9 {
				t.Errorf("|force| = %v, want %v", f.Length(), want)
			}
			mags = append(mags, f.Length())
		})
	}

	if len(mags) == 2 && mags[0] <= mags[1] {
		t.Errorf("closer neighbor should push harder: %v", mags)
	}
}

func TestUpdateWrapsAround(t *testing.T) {
	w := newStubWorld()
	w.width, w.height = 200, 200
	v := w.spawn(geom.Vec(199.9, 100), testParams(), 1, withVelocity(geom.Vec(10, 0)))

	v.Update(0.1)
	if v.Pos().X != 0 {
		t.Errorf("x = %v, want wrapped to 0", v.Pos().X)
	}
}

func TestSmoothedHeading(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(100, 300))
	sp := testParams()
	v := w.spawn(geom.Vec(100, 100), sp, 1, func(p *VehicleParams) { p.SmoothingSamples = 4 })
	v.SmoothingOn()
	if err := v.Steering().SeekOn(); err != nil {
		t.Fatal(err)
	}

	v.Update(0.1)
	// one sample of four: a quarter of the heading
	assertNear(t, "smoothed", v.SmoothedHeading(), v.Heading().Div(4))

	shape := v.WorldShape()
	if len(shape) != 3 {
		t.Fatalf("shape has %d points, want 3", len(shape))
	}
}

func TestWorldShapeFollowsHeading(t *testing.T) {
	w := newStubWorld()
	v := w.spawn(geom.Vec(50, 50), testParams(), 1, withScale(10), withHeading(geom.Vec(0, 1)))

	shape := v.WorldShape()
	// nose is (1,0) in local space
	assertNear(t, "nose", shape[1], geom.Vec(50, 60))
}

type recordingRenderer struct {
	shapes  [][]geom.Vector2D
	circles int
	lines   int
}

func (r *recordingRenderer) ClosedShape(p []geom.Vector2D) { r.shapes = append(r.shapes, p) }
func (r *recordingRenderer) Circle(geom.Vector2D, float64) { r.circles++ }
func (r *recordingRenderer) Line(geom.Vector2D, geom.Vector2D) { r.lines++ }

func TestRender(t *testing.T) {
	w := newStubWorld()
	v := w.spawn(geom.Vec(50, 50), testParams(), 1)
	r := &recordingRenderer{}

	v.Render(r)
	NewPath([]geom.Vector2D{{}, geom.Vec(1, 0), geom.Vec(1, 1)}, true).Render(r)

	if len(r.shapes) != 1 || len(r.shapes[0]) != 3 {
		t.Errorf("shapes = %v, want one triangle", r.shapes)
	}
	if r.lines != 3 {
		t.Errorf("lines = %d, want 3 for a looped triangle path", r.lines)
	}
}

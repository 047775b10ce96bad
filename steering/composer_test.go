package steering

import (
	"errors"
	"math"
	"math/rand"
	"testing"

	"github.com/pthm-cable/steer/geom"
)

func TestAccumulateForceNeverExceedsBudget(t *testing.T) {
	w := newStubWorld()
	v := w.spawn(geom.Vec(0, 0), testParams(), 1, withMaxForce(50))
	c := v.Steering()
	rng := rand.New(rand.NewSource(7))

	for trial := 0; trial < 200; trial++ {
		var total geom.Vector2D
		for i := 0; i < 10; i++ {
			mag := rng.Float64() * 80
			f := geom.Vec(geom.RandomClamped(rng), geom.RandomClamped(rng))
			f.Normalize()
			c.accumulateForce(&total, f.Mul(mag))
			if total.Length() > 50+1e-9 {
				t.Fatalf("trial %d step %d: |total| = %v exceeds 50", trial, i, total.Length())
			}
		}
	}
}

func TestAccumulateForce(t *testing.T) {
	tests := []struct {
		name    string
		start   geom.Vector2D
		add     geom.Vector2D
		want    geom.Vector2D
		wantAdd bool
	}{
		{"fits", geom.Vec(10, 0), geom.Vec(0, 20), geom.Vec(10, 20), true},
		{"scaled to remainder", geom.Vec(30, 0), geom.Vec(0, 100), geom.Vec(30, 20), true},
		{"exhausted", geom.Vec(50, 0), geom.Vec(0, 1), geom.Vec(50, 0), false},
	}

	w := newStubWorld()
	v := w.spawn(geom.Vec(0, 0), testParams(), 1, withMaxForce(50))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			total := tt.start
			got := v.Steering().accumulateForce(&total, tt.add)
			if got != tt.wantAdd {
				t.Errorf("added = %v, want %v", got, tt.wantAdd)
			}
			assertNear(t, "total", total, tt.want)
		})
	}
}

func TestWeightedSumSingleBehavior(t *testing.T) {
	tests := []struct {
		name     string
		weight   float64
		maxForce float64
		want     geom.Vector2D
	}{
		{"under budget", 2, 700, geom.Vec(20, 0)},
		{"truncated", 100, 50, geom.Vec(50, 0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := newStubWorld()
			w.setCrosshair(geom.Vec(200, 100))
			v := w.spawn(geom.Vec(100, 100), testParams(), 1, withMaxForce(tt.maxForce))
			c := v.Steering()
			c.SetWeight(Seek, tt.weight)
			if err := c.SeekOn(); err != nil {
				t.Fatal(err)
			}

			// seek from rest is (maxSpeed, 0)
			assertNear(t, "force", c.Calculate(), tt.want)
		})
	}
}

func TestPrioritizedStopsWhenBudgetSpent(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(200, 100))
	sp := testParams()
	sp.SummingMethod = Prioritized
	v := w.spawn(geom.Vec(100, 100), sp, 1, withMaxForce(50))
	c := v.Steering()
	c.SetWeight(Flee, 100)
	if err := c.FleeOn(); err != nil {
		t.Fatal(err)
	}
	c.WanderOn()
	v.timeElapsed = 0.1

	before := c.WanderTarget()
	force := c.Calculate()

	assertNear(t, "force", force, geom.Vec(-50, 0))
	if c.WanderTarget() != before {
		t.Error("wander ran after the budget was spent")
	}
}

func TestPrioritizedOrder(t *testing.T) {
	// separation fills the budget before seek is reached
	w := newStubWorld()
	w.setCrosshair(geom.Vec(100, 200))
	sp := testParams()
	sp.SummingMethod = Prioritized
	v := w.spawn(geom.Vec(100, 100), sp, 1, withMaxForce(5))
	w.spawn(geom.Vec(101, 100), sp, 2)

	c := v.Steering()
	c.SetWeight(Separation, 100)
	c.SeparationOn()
	if err := c.SeekOn(); err != nil {
		t.Fatal(err)
	}

	assertNear(t, "force", c.Calculate(), geom.Vec(-5, 0))
}

func TestDitheredAlwaysFiringMatchesWeighted(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(200, 100))
	sp := testParams()
	sp.SummingMethod = Dithered
	v := w.spawn(geom.Vec(100, 100), sp, 1)
	c := v.Steering()
	c.SetWeight(Seek, 3)
	if err := c.SeekOn(); err != nil {
		t.Fatal(err)
	}

	assertNear(t, "force", c.Calculate(), geom.Vec(30, 0))
}

func TestDitheredExpectationMatchesWeighted(t *testing.T) {
	w := newStubWorld()
	w.setCrosshair(geom.Vec(200, 100))
	sp := testParams()
	sp.SummingMethod = Dithered
	sp.Probabilities[Seek] = 0.5
	v := w.spawn(geom.Vec(100, 100), sp, 42)
	c := v.Steering()
	if err := c.SeekOn(); err != nil {
		t.Fatal(err)
	}

	const n = 4000
	var sum float64
	for i := 0; i < n; i++ {
		f := c.Calculate()
		if f.X != 0 && math.Abs(f.X-20) > tol {
			t.Fatalf("fired force = %v, want 0 or 20", f.X)
		}
		sum += f.X
	}

	mean := sum / n
	if math.Abs(mean-10) > 1 {
		t.Errorf("mean force = %v, want about 10", mean)
	}
}

func TestSummingMethodsRespectBudget(t *testing.T) {
	methods := []SummingMethod{WeightedAverage, Prioritized, Dithered}

	for _, m := range methods {
		t.Run(m.String(), func(t *testing.T) {
			w := newStubWorld()
			w.setCrosshair(geom.Vec(500, 500))
			sp := testParams()
			sp.SummingMethod = m
			sp.Probabilities = uniformTable(0.5)
			sp.Weights = uniformTable(200)

			var vs []*Vehicle
			for i := 0; i < 6; i++ {
				pos := geom.Vec(400+float64(i)*3, 400+float64(i%2)*4)
				vs = append(vs, w.spawn(pos, sp, int64(i), withMaxForce(30), withMaxSpeed(150)))
			}
			for _, v := range vs {
				v.Steering().FlockingOn()
				if err := v.Steering().SeekOn(); err != nil {
					t.Fatal(err)
				}
			}

			for step := 0; step < 50; step++ {
				for _, v := range vs {
					v.Update(1.0 / 60)
					if f := v.Steering().Force().Length(); f > 30+1e-9 {
						t.Fatalf("step %d: |force| = %v exceeds 30", step, f)
					}
				}
			}
		})
	}
}

func TestEnableRequiresTarget(t *testing.T) {
	w := newStubWorld()
	v := w.spawn(geom.Vec(0, 0), testParams(), 1)
	c := v.Steering()

	for _, on := range []func() error{c.SeekOn, c.FleeOn, c.ArriveOn} {
		if err := on(); !errors.Is(err, ErrNoTarget) {
			t.Errorf("err = %v, want ErrNoTarget", err)
		}
	}
	if c.Flags() != None {
		t.Errorf("flags = %v, want none", c.Flags())
	}

	c.SetTarget(geom.Vec(10, 10))
	if err := c.SeekOn(); err != nil {
		t.Errorf("SeekOn with explicit target: %v", err)
	}

	c.ClearTarget()
	if c.IsEnabled(Seek) {
		t.Error("seek should be disabled once its target is gone")
	}
}

func TestEnableRequiresReference(t *testing.T) {
	w := newStubWorld()
	v := w.spawn(geom.Vec(0, 0), testParams(), 1)
	c := v.Steering()

	for _, b := range []Behavior{Pursuit, Evade, Hide, Interpose, OffsetPursuit, FollowPath} {
		if err := c.Enable(b); !errors.Is(err, ErrMissingReference) {
			t.Errorf("Enable(%v) err = %v, want ErrMissingReference", b, err)
		}
	}
}

func TestReferenceOnPanicsOnNil(t *testing.T) {
	w := newStubWorld()
	c := w.spawn(geom.Vec(0, 0), testParams(), 1).Steering()

	tests := []struct {
		name string
		on   func()
	}{
		{"pursuit", func() { c.PursuitOn(nil) }},
		{"evade", func() { c.EvadeOn(nil) }},
		{"hide", func() { c.HideOn(nil) }},
		{"interpose", func() { c.InterposeOn(nil, nil) }},
		{"offset pursuit", func() { c.OffsetPursuitOn(nil, geom.Vec(1, 0)) }},
		{"follow path", func() { c.FollowPathOn(nil) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("expected panic")
				}
			}()
			tt.on()
		})
	}
}

func TestReleaseTarget(t *testing.T) {
	w := newStubWorld()
	sp := testParams()
	a := w.spawn(geom.Vec(0, 0), sp, 1)
	b := w.spawn(geom.Vec(50, 0), sp, 2)
	c := w.spawn(geom.Vec(0, 50), sp, 3)

	a.Steering().InterposeOn(b, c)
	a.Steering().WanderOn()

	a.Steering().ReleaseTarget(c.ID())
	if a.Steering().IsEnabled(Interpose) {
		t.Error("interpose still enabled after releasing its second agent")
	}
	if !a.Steering().IsEnabled(Wander) {
		t.Error("wander should be untouched")
	}
	if a.Steering().HasTargetAgent(c.ID()) {
		t.Error("reference to released agent kept")
	}

	a.Steering().PursuitOn(b)
	a.Steering().ReleaseTarget(b.ID())
	if a.Steering().IsEnabled(Pursuit) {
		t.Error("pursuit still enabled after releasing its evader")
	}
}

func TestRemovedTargetPanics(t *testing.T) {
	w := newStubWorld()
	sp := testParams()
	a := w.spawn(geom.Vec(0, 0), sp, 1)
	b := w.spawn(geom.Vec(50, 0), sp, 2)
	a.Steering().PursuitOn(b)

	w.agents = w.agents[:1]

	defer func() {
		if recover() == nil {
			t.Error("expected panic for dangling target")
		}
	}()
	a.Steering().Calculate()
}

func TestCellSpaceNeighbors(t *testing.T) {
	w := newStubWorld()
	sp := testParams()
	sp.CellSpacePartitioning = true
	v := w.spawn(geom.Vec(100, 100), sp, 1)
	w.spawn(geom.Vec(110, 100), sp, 2)
	w.spawn(geom.Vec(400, 400), sp, 3)

	v.Steering().SeparationOn()
	v.Steering().Calculate()

	// self plus the near neighbor
	if got := v.Steering().NeighborCount(); got != 2 {
		t.Errorf("neighbors = %d, want 2", got)
	}
	if f := v.Steering().Force(); f.X >= 0 {
		t.Errorf("force = %v, want push toward -x", f)
	}
}

func BenchmarkCalculateFlock(b *testing.B) {
	w := newStubWorld()
	sp := testParams()
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := w.spawn(geom.Vec(rng.Float64()*300, rng.Float64()*300), sp, int64(i), withMaxSpeed(150), withMaxForce(400))
		v.Steering().FlockingOn()
	}
	v := w.agents[0]

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		v.timeElapsed = 1.0 / 60
		v.Steering().Calculate()
	}
}

package ui

import (
	"strings"
	"testing"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/steering"
	"github.com/pthm-cable/steer/systems"
)

func testWorld(t *testing.T) (*config.Config, *systems.World) {
	t.Helper()
	cfg, err := config.Load("")
	if err != nil {
		t.Fatal(err)
	}
	cfg.World.NumAgents = 10
	w, err := systems.NewFromConfig(cfg, 5)
	if err != nil {
		t.Fatal(err)
	}
	w.Step(cfg.Physics.DT)
	return cfg, w
}

func TestVehicleSectionsText(t *testing.T) {
	_, w := testWorld(t)
	v := w.Agents()[0]

	fields := map[string]FieldDescriptor{}
	for _, sd := range VehicleSections() {
		for _, fd := range sd.Fields {
			if _, dup := fields[fd.ID]; dup {
				t.Fatalf("duplicate field id %q", fd.ID)
			}
			fields[fd.ID] = fd
		}
	}

	tests := []struct {
		id       string
		contains string
	}{
		{"summing", v.Steering().SummingMethod().String()},
		{"active", "separation"},
		{"smoothing", "false"},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			fd, ok := fields[tt.id]
			if !ok {
				t.Fatalf("no field %q", tt.id)
			}
			if got := FieldText(fd, v); !strings.Contains(got, tt.contains) {
				t.Errorf("FieldText = %q, want it to contain %q", got, tt.contains)
			}
		})
	}

	if b := fields["budget"].Getter(v); b < 0 || b > 1+1e-6 {
		t.Errorf("budget fraction %v outside [0,1]", b)
	}
}

func TestSectionHeight(t *testing.T) {
	r := NewRenderer()
	sd := SectionDescriptor{
		Title: "x",
		Fields: []FieldDescriptor{
			{Widget: WidgetText},
			{Widget: WidgetBar},
			{Widget: WidgetSpacer},
			{Widget: WidgetText, Visible: func(any) bool { return false }},
		},
	}
	lh := r.Theme.LineHeight
	if got, want := r.SectionHeight(sd, nil), lh+lh+(lh+2)+6+4; got != want {
		t.Errorf("SectionHeight = %d, want %d", got, want)
	}
	sd.Visible = func(any) bool { return false }
	if got := r.SectionHeight(sd, nil); got != 0 {
		t.Errorf("hidden section height = %d", got)
	}
}

func TestTuningPanelSetValue(t *testing.T) {
	cfg, w := testWorld(t)
	p := NewTuningPanel(cfg, 0, 0, 200)

	if !p.SetValue(steering.Cohesion, 4, w.Agents()) {
		t.Fatal("no cohesion slider")
	}
	want := 4 * cfg.Steering.ForceTweaker
	for _, a := range w.Agents() {
		if got := a.Steering().Weight(steering.Cohesion); got != want {
			t.Fatalf("agent %d cohesion = %v, want %v", a.ID(), got, want)
		}
	}

	// clamped to the slider range
	p.SetValue(steering.Separation, 1000, w.Agents())
	for _, s := range p.Sliders() {
		if s.Behavior == steering.Separation && s.Value != s.Max {
			t.Errorf("separation = %v, want clamped to %v", s.Value, s.Max)
		}
	}

	if p.SetValue(steering.Hide, 1, w.Agents()) {
		t.Error("hide has no slider")
	}
}

func TestTuningPanelContains(t *testing.T) {
	cfg, _ := testWorld(t)
	p := NewTuningPanel(cfg, 100, 50, 200)

	if p.Contains(150, 60) {
		t.Error("hidden panel should not capture the mouse")
	}
	p.Toggle()
	if !p.Contains(150, 60) {
		t.Error("point inside visible panel not contained")
	}
	if p.Contains(50, 60) || p.Contains(150, float32(50+p.Height())) {
		t.Error("point outside panel contained")
	}
}

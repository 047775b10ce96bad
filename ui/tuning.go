package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/config"
	"github.com/pthm-cable/steer/steering"
)

// WeightSlider is one live-tunable behavior weight. Value is the raw config
// weight, before the force tweaker.
type WeightSlider struct {
	Behavior steering.Behavior
	Min, Max float32
	Value    float32
}

// TuningActions reports the buttons pressed this frame.
type TuningActions struct {
	CycleSumming    bool
	ToggleSmoothing bool
	Snapshot        bool
}

// TuningPanel edits flocking weights for every agent at once.
type TuningPanel struct {
	renderer *Renderer
	sliders  []WeightSlider
	tweaker  float64
	x, y     int32
	width    int32
	visible  bool
}

// NewTuningPanel seeds the sliders from the config's raw weights.
func NewTuningPanel(cfg *config.Config, x, y, width int32) *TuningPanel {
	w := cfg.Weights
	return &TuningPanel{
		renderer: NewRenderer(),
		sliders: []WeightSlider{
			{Behavior: steering.Separation, Min: 0, Max: 10, Value: float32(w.Separation)},
			{Behavior: steering.Alignment, Min: 0, Max: 10, Value: float32(w.Alignment)},
			{Behavior: steering.Cohesion, Min: 0, Max: 10, Value: float32(w.Cohesion)},
			{Behavior: steering.Wander, Min: 0, Max: 5, Value: float32(w.Wander)},
			{Behavior: steering.ObstacleAvoidance, Min: 0, Max: 30, Value: float32(w.ObstacleAvoidance)},
			{Behavior: steering.WallAvoidance, Min: 0, Max: 30, Value: float32(w.WallAvoidance)},
		},
		tweaker: cfg.Steering.ForceTweaker,
		x:       x,
		y:       y,
		width:   width,
	}
}

// Toggle shows or hides the panel and returns the new state.
func (p *TuningPanel) Toggle() bool {
	p.visible = !p.visible
	return p.visible
}

// IsVisible reports whether the panel is drawn.
func (p *TuningPanel) IsVisible() bool { return p.visible }

// Height is the panel height in pixels.
func (p *TuningPanel) Height() int32 {
	t := p.renderer.Theme
	return t.Padding*2 + t.LineHeight + 34*int32(len(p.sliders)) + 70
}

// Contains reports whether a screen point falls on the visible panel.
func (p *TuningPanel) Contains(x, y float32) bool {
	if !p.visible {
		return false
	}
	return x >= float32(p.x) && x < float32(p.x+p.width) && y >= float32(p.y) && y < float32(p.y+p.Height())
}

// SetPosition updates the panel position.
func (p *TuningPanel) SetPosition(x, y int32) {
	p.x = x
	p.y = y
}

// Sliders returns the current slider state.
func (p *TuningPanel) Sliders() []WeightSlider { return p.sliders }

// SetValue changes a slider and applies the weight to agents. It reports
// false for a behavior the panel has no slider for.
func (p *TuningPanel) SetValue(b steering.Behavior, raw float32, agents []*steering.Vehicle) bool {
	for i := range p.sliders {
		s := &p.sliders[i]
		if s.Behavior != b {
			continue
		}
		s.Value = clamp(raw, s.Min, s.Max)
		p.apply(*s, agents)
		return true
	}
	return false
}

func (p *TuningPanel) apply(s WeightSlider, agents []*steering.Vehicle) {
	w := float64(s.Value) * p.tweaker
	for _, a := range agents {
		a.Steering().SetWeight(s.Behavior, w)
	}
}

// Draw renders the sliders and buttons. Slider changes are applied to agents
// immediately; button presses are returned.
func (p *TuningPanel) Draw(agents []*steering.Vehicle) TuningActions {
	var actions TuningActions
	if !p.visible {
		return actions
	}

	r := p.renderer
	padding := r.Theme.Padding
	rowH := int32(34)
	r.DrawPanel(p.x, p.y, p.width, p.Height())

	x := float32(p.x + padding)
	y := p.y + padding
	y = r.DrawSectionHeader(int32(x), y, "Weights")

	sliderW := float32(p.width - padding*2 - 50)
	for i := range p.sliders {
		s := &p.sliders[i]
		rl.DrawText(s.Behavior.String(), int32(x), y, r.Theme.FontSize, r.Theme.LabelColor)
		y += 14

		v := gui.SliderBar(
			rl.Rectangle{X: x, Y: float32(y), Width: sliderW, Height: 14},
			"", "",
			s.Value, s.Min, s.Max,
		)
		rl.DrawText(fmt.Sprintf("%.2f", s.Value), int32(x+sliderW+6), y+1, r.Theme.FontSize, r.Theme.ValueColor)
		if v != s.Value {
			s.Value = v
			p.apply(*s, agents)
		}
		y += rowH - 14
	}

	y += 6
	btnW := (float32(p.width) - float32(padding)*2 - 10) / 2
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: btnW, Height: 24}, "Summing") {
		actions.CycleSumming = true
	}
	if gui.Button(rl.Rectangle{X: x + btnW + 10, Y: float32(y), Width: btnW, Height: 24}, "Smoothing") {
		actions.ToggleSmoothing = true
	}
	y += 30
	if gui.Button(rl.Rectangle{X: x, Y: float32(y), Width: btnW*2 + 10, Height: 24}, "Snapshot") {
		actions.Snapshot = true
	}

	return actions
}

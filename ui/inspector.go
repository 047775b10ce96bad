package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/steer/steering"
)

func vehicle(d any) *steering.Vehicle { return d.(*steering.Vehicle) }

// budgetFraction is the share of the force budget the last update used.
func budgetFraction(v *steering.Vehicle) float32 {
	if v.MaxForce() <= 0 {
		return 0
	}
	return float32(v.Steering().Force().Length() / v.MaxForce())
}

// VehicleSections describes the inspector layout for a *steering.Vehicle.
func VehicleSections() []SectionDescriptor {
	return []SectionDescriptor{
		{
			ID:    "kinematics",
			Title: "Kinematics",
			Fields: []FieldDescriptor{
				{ID: "pos", Label: "Position", Widget: WidgetText, TextGetter: func(d any) string {
					p := vehicle(d).Pos()
					return fmt.Sprintf("%.1f, %.1f", p.X, p.Y)
				}},
				{ID: "heading", Label: "Heading", Widget: WidgetText, TextGetter: func(d any) string {
					h := vehicle(d).Heading()
					return fmt.Sprintf("%.2f, %.2f", h.X, h.Y)
				}},
				{ID: "speed", Label: "Speed", Widget: WidgetText, Format: "%.1f", Getter: func(d any) float32 {
					return float32(vehicle(d).Speed())
				}},
				{ID: "speed_frac", Label: "of max", Widget: WidgetBar, Getter: func(d any) float32 {
					v := vehicle(d)
					if v.MaxSpeed() <= 0 {
						return 0
					}
					return float32(v.Speed() / v.MaxSpeed())
				}},
				{ID: "smoothing", Label: "Smoothing", Widget: WidgetText, TextGetter: func(d any) string {
					return fmt.Sprint(vehicle(d).IsSmoothingOn())
				}},
			},
		},
		{
			ID:    "steering",
			Title: "Steering",
			Fields: []FieldDescriptor{
				{ID: "summing", Label: "Summing", Widget: WidgetText, TextGetter: func(d any) string {
					return vehicle(d).Steering().SummingMethod().String()
				}},
				{ID: "budget", Label: "Budget", Widget: WidgetBar, Getter: func(d any) float32 {
					return budgetFraction(vehicle(d))
				}},
				{ID: "forward", Label: "Forward", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
					v := vehicle(d)
					if v.MaxForce() <= 0 {
						return 0
					}
					return float32(v.Steering().ForwardComponent() / v.MaxForce())
				}},
				{ID: "side", Label: "Side", Widget: WidgetCenteredBar, Range: CenteredRange(), Getter: func(d any) float32 {
					v := vehicle(d)
					if v.MaxForce() <= 0 {
						return 0
					}
					return float32(v.Steering().SideComponent() / v.MaxForce())
				}},
				{ID: "neighbors", Label: "Neighbors", Widget: WidgetText, Format: "%.0f", Getter: func(d any) float32 {
					return float32(vehicle(d).Steering().NeighborCount())
				}},
			},
		},
		{
			ID:    "behaviors",
			Title: "Behaviors",
			Fields: []FieldDescriptor{
				{ID: "active", Label: "Active", Widget: WidgetText, TextGetter: func(d any) string {
					return vehicle(d).Steering().Flags().String()
				}},
			},
		},
	}
}

// Inspector renders the selected-vehicle panel.
type Inspector struct {
	renderer *Renderer
	sections []SectionDescriptor
	x, y     int32
	width    int32
}

// NewInspector creates a new inspector panel.
func NewInspector(x, y, width int32) *Inspector {
	return &Inspector{
		renderer: NewRenderer(),
		sections: VehicleSections(),
		x:        x,
		y:        y,
		width:    width,
	}
}

// SetPosition updates the inspector position.
func (ins *Inspector) SetPosition(x, y int32) {
	ins.x = x
	ins.y = y
}

// Draw renders the inspector panel for v and returns the bottom Y.
func (ins *Inspector) Draw(v *steering.Vehicle) int32 {
	r := ins.renderer
	padding := r.Theme.Padding

	height := padding*2 + r.Theme.LineHeight
	for _, sd := range ins.sections {
		height += r.SectionHeight(sd, v)
	}
	r.DrawPanel(ins.x, ins.y, ins.width, height)

	x := ins.x + padding
	y := ins.y + padding
	rl.DrawText(fmt.Sprintf("Vehicle %d", v.ID()), x, y, r.Theme.HeaderFontSize, rl.White)
	y += r.Theme.LineHeight

	contentWidth := ins.width - padding*2
	for _, sd := range ins.sections {
		y = r.DrawSection(x, y, sd, v, contentWidth)
	}
	return y
}

package steering

import (
	"math"
	"math/rand"

	"github.com/pthm-cable/steer/geom"
)

// Path is an ordered list of waypoints with a cursor.
type Path struct {
	waypoints []geom.Vector2D
	cur       int
	looped    bool
}

// NewPath copies waypoints into a new path.
func NewPath(waypoints []geom.Vector2D, looped bool) *Path {
	return &Path{waypoints: geom.CloneVectors(waypoints), looped: looped}
}

// NewRandomPath builds a closed-ish polygon of n waypoints around the centre of
// the given rectangle, at random radii so the path is irregular.
func NewRandomPath(rng *rand.Rand, n int, minX, minY, maxX, maxY float64, looped bool) *Path {
	mid := geom.Vec((minX+maxX)/2, (minY+maxY)/2)
	smaller := math.Min(mid.X-minX, mid.Y-minY)
	spacing := 2 * math.Pi / float64(n)

	waypoints := make([]geom.Vector2D, 0, n)
	for i := 0; i < n; i++ {
		radius := smaller*0.2 + rng.Float64()*smaller*0.8
		temp := geom.Vec(radius, 0)
		geom.Vec2DRotateAroundOrigin(&temp, float64(i)*spacing)
		waypoints = append(waypoints, mid.Add(temp))
	}
	return &Path{waypoints: waypoints, looped: looped}
}

// CurrentWaypoint returns the waypoint under the cursor.
func (p *Path) CurrentWaypoint() geom.Vector2D {
	return p.waypoints[p.cur]
}

// SetNextWaypoint advances the cursor, wrapping to the start when looped. On
// an open path the cursor stays on the last waypoint.
func (p *Path) SetNextWaypoint() {
	if p.cur < len(p.waypoints)-1 {
		p.cur++
		return
	}
	if p.looped {
		p.cur = 0
	}
}

// Finished reports whether an open path has reached its last waypoint.
func (p *Path) Finished() bool {
	return !p.looped && p.cur == len(p.waypoints)-1
}

func (p *Path) Waypoints() []geom.Vector2D { return p.waypoints }
func (p *Path) Looped() bool { return p.looped }
func (p *Path) SetLooped(l bool) { p.looped = l }

// Render draws the path as connected segments.
func (p *Path) Render(r Renderer) {
	for i := 1; i < len(p.waypoints); i++ {
		r.Line(p.waypoints[i-1], p.waypoints[i])
	}
	if p.looped && len(p.waypoints) > 2 {
		r.Line(p.waypoints[len(p.waypoints)-1], p.waypoints[0])
	}
}

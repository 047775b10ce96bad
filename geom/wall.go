package geom

// Wall2D is a line segment with a unit normal pointing to its "outside".
type Wall2D struct {
	From, To Vector2D
	Normal   Vector2D
}

// NewWall2D builds a wall from two points. The normal is the perpendicular of
// the from->to direction.
func NewWall2D(from, to Vector2D) Wall2D {
	w := Wall2D{From: from, To: to}
	w.calculateNormal()
	return w
}

func (w *Wall2D) calculateNormal() {
	dir := Vec2DNormalize(w.To.Sub(w.From))
	w.Normal = Vector2D{X: -dir.Y, Y: dir.X}
}

// Center returns the midpoint of the wall.
func (w Wall2D) Center() Vector2D {
	return w.From.Add(w.To).Div(2)
}

// LineIntersection2D tests segment AB against segment CD. On intersection it
// returns the distance along AB to the intersection point and the point itself.
// Parallel or touching-at-endpoint segments do not intersect.
func LineIntersection2D(a, b, c, d Vector2D) (dist float64, point Vector2D, ok bool) {
	rTop := (a.Y-c.Y)*(d.X-c.X) - (a.X-c.X)*(d.Y-c.Y)
	rBot := (b.X-a.X)*(d.Y-c.Y) - (b.Y-a.Y)*(d.X-c.X)

	sTop := (a.Y-c.Y)*(b.X-a.X) - (a.X-c.X)*(b.Y-a.Y)
	sBot := rBot

	if rBot == 0 || sBot == 0 {
		return 0, Vector2D{}, false
	}

	r := rTop / rBot
	s := sTop / sBot

	if r > 0 && r < 1 && s > 0 && s < 1 {
		dist = a.Distance(b) * r
		point = a.Add(b.Sub(a).Mul(r))
		return dist, point, true
	}
	return 0, Vector2D{}, false
}

// DistToLineSegment returns the distance from p to the segment AB.
func DistToLineSegment(a, b, p Vector2D) float64 {
	ab := b.Sub(a)
	lenSq := ab.LengthSq()
	if lenSq == 0 {
		return p.Distance(a)
	}
	t := p.Sub(a).Dot(ab) / lenSq
	switch {
	case t <= 0:
		return p.Distance(a)
	case t >= 1:
		return p.Distance(b)
	}
	return p.Distance(a.Add(ab.Mul(t)))
}

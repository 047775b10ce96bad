package geom

// InvertedAABBox2D is an axis-aligned box in screen orientation: Top is the
// smaller Y value.
type InvertedAABBox2D struct {
	TopLeft     Vector2D
	BottomRight Vector2D
	Center      Vector2D
}

// NewInvertedAABBox2D builds a box from its corners.
func NewInvertedAABBox2D(topLeft, bottomRight Vector2D) InvertedAABBox2D {
	return InvertedAABBox2D{
		TopLeft:     topLeft,
		BottomRight: bottomRight,
		Center:      topLeft.Add(bottomRight).Div(2),
	}
}

func (b InvertedAABBox2D) Top() float64    { return b.TopLeft.Y }
func (b InvertedAABBox2D) Left() float64   { return b.TopLeft.X }
func (b InvertedAABBox2D) Bottom() float64 { return b.BottomRight.Y }
func (b InvertedAABBox2D) Right() float64  { return b.BottomRight.X }

// IsOverlappedWith reports whether the two boxes intersect.
func (b InvertedAABBox2D) IsOverlappedWith(o InvertedAABBox2D) bool {
	return !(o.Top() > b.Bottom() || o.Bottom() < b.Top() || o.Left() > b.Right() || o.Right() < b.Left())
}

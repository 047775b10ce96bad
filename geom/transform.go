package geom

// WorldTransform copies points and transforms the copies from local space into
// world space: optional scale, rotation into the forward/side frame, then
// translation to pos. Scale is skipped when it is (1,1).
func WorldTransform(points []Vector2D, pos, forward, side, scale Vector2D) []Vector2D {
	out := CloneVectors(points)

	m := NewMatrix()
	if scale.X != 1 || scale.Y != 1 {
		m.Scale(scale.X, scale.Y)
	}
	m.RotateBasis(forward, side)
	m.Translate(pos.X, pos.Y)
	m.TransformVector2Ds(out)

	return out
}

// PointToWorldSpace transforms a point from an agent's local space into world space.
func PointToWorldSpace(point, heading, side, pos Vector2D) Vector2D {
	m := NewMatrix()
	m.RotateBasis(heading, side)
	m.Translate(pos.X, pos.Y)
	m.TransformVector2D(&point)
	return point
}

// VectorToWorldSpace rotates a vector from an agent's local space into world space.
func VectorToWorldSpace(vec, heading, side Vector2D) Vector2D {
	m := NewMatrix()
	m.RotateBasis(heading, side)
	m.TransformVector2D(&vec)
	return vec
}

// PointToLocalSpace transforms a world point into the local space of an agent.
func PointToLocalSpace(point, heading, side, pos Vector2D) Vector2D {
	tx := -pos.Dot(heading)
	ty := -pos.Dot(side)

	m := NewMatrixFromValues(
		heading.X, side.X, 0,
		heading.Y, side.Y, 0,
		tx, ty, 1,
	)
	m.TransformVector2D(&point)
	return point
}

// VectorToLocalSpace rotates a world vector into the local space of an agent.
func VectorToLocalSpace(vec, heading, side Vector2D) Vector2D {
	m := NewMatrixFromValues(
		heading.X, side.X, 0,
		heading.Y, side.Y, 0,
		0, 0, 1,
	)
	m.TransformVector2D(&vec)
	return vec
}

// Vec2DRotateAroundOrigin rotates v by ang radians in place.
func Vec2DRotateAroundOrigin(v *Vector2D, ang float64) {
	m := NewMatrix()
	m.Rotate(ang)
	m.TransformVector2D(v)
}

// CreateWhiskers returns the end points of n whiskers of the given length fanning
// out from origin, spaced evenly across fov and centred on facing.
func CreateWhiskers(n int, length, fov float64, facing, origin Vector2D) []Vector2D {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []Vector2D{origin.Add(facing.Mul(length))}
	}

	sector := fov / float64(n-1)
	angle := -fov * 0.5

	whiskers := make([]Vector2D, 0, n)
	for i := 0; i < n; i++ {
		dir := facing
		Vec2DRotateAroundOrigin(&dir, angle)
		whiskers = append(whiskers, origin.Add(dir.Mul(length)))
		angle += sector
	}
	return whiskers
}

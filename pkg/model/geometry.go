package model

// Rect is an axis-aligned bounding box.
type Rect struct {
	X, Y          float64
	Width, Height float64
}

// Bounds returns the shape's bounding box. Position and size must both be
// set; use this only after resolution or behind HasPosition/HasSize checks.
func (s *Shape) Bounds() Rect {
	return Rect{X: s.Position.X, Y: s.Position.Y, Width: s.Size.Width, Height: s.Size.Height}
}

// Right returns the X coordinate of the rectangle's right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the Y coordinate of the rectangle's bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Overlaps reports whether two rectangles intersect. Touching edges do not
// count as overlap.
func (r Rect) Overlaps(o Rect) bool {
	return r.X < o.Right() && o.X < r.Right() &&
		r.Y < o.Bottom() && o.Y < r.Bottom()
}

// Union returns the smallest rectangle containing both r and o.
func (r Rect) Union(o Rect) Rect {
	x := min(r.X, o.X)
	y := min(r.Y, o.Y)
	return Rect{
		X:      x,
		Y:      y,
		Width:  max(r.Right(), o.Right()) - x,
		Height: max(r.Bottom(), o.Bottom()) - y,
	}
}

// BoundsOf returns the bounding box spanning all shapes that have both a
// position and a size, and whether any such shape exists.
func BoundsOf(shapes []*Shape) (Rect, bool) {
	var bounds Rect
	found := false
	for _, s := range shapes {
		if !s.HasPosition() || !s.HasSize() {
			continue
		}
		if !found {
			bounds = s.Bounds()
			found = true
			continue
		}
		bounds = bounds.Union(s.Bounds())
	}
	return bounds, found
}

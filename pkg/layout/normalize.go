package layout

import "github.com/flowline-dev/flowline/pkg/model"

// Per-axis scale applied to positions produced in the external engine's unit
// system (points) to bring them to pixels.
const (
	scaleX = pixelsPerInch / pointsPerInch
	scaleY = pixelsPerInch / pointsPerInch
)

// normalizePositions rescales and translates raw positions into the target
// convention: origin at Margin, Y increasing downward.
//
// flipY inverts the vertical axis as (maxY − y) and is set only for
// positions from the external engine, whose Y grows upward. applyScale
// multiplies both axes by the per-axis unit scale and is set only when the
// positions are in the engine's unit system. The fallback layout emits
// final-convention pixels and passes false for both.
func normalizePositions(positions map[string]model.Point, flipY, applyScale bool) map[string]model.Point {
	if len(positions) == 0 {
		return positions
	}

	first := true
	var minX, minY, maxY float64
	for _, p := range positions {
		if first {
			minX, minY, maxY = p.X, p.Y, p.Y
			first = false
			continue
		}
		minX = min(minX, p.X)
		minY = min(minY, p.Y)
		maxY = max(maxY, p.Y)
	}

	out := make(map[string]model.Point, len(positions))
	for id, p := range positions {
		x := p.X - minX
		y := p.Y - minY
		if flipY {
			y = maxY - p.Y
		}
		if applyScale {
			x *= scaleX
			y *= scaleY
		}
		out[id] = model.Point{X: x + Margin, Y: y + Margin}
	}
	return out
}

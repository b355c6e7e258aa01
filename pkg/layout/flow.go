package layout

import (
	"slices"

	"github.com/flowline-dev/flowline/pkg/flowgraph"
	"github.com/flowline-dev/flowline/pkg/model"
)

// flowLayout is the in-process fallback used when the external engine is
// unavailable or fails. It groups shapes by rank and stacks the ranks along
// the primary axis of the direction, shapes within a rank along the secondary
// axis. It emits final-convention pixel coordinates: no flip, no scale.
//
// Shapes not present in the graph (the graph may be empty) fall back further
// to a wrapping grid.
func flowLayout(shapes []*model.Shape, g *flowgraph.Graph, ranks map[string]int, dir Direction) map[string]model.Point {
	positions := make(map[string]model.Point, len(shapes))

	byRank := make(map[int][]*model.Shape)
	var leftover []*model.Shape
	for _, s := range shapes {
		if g.Has(s.ID) {
			r := ranks[s.ID]
			byRank[r] = append(byRank[r], s)
		} else {
			leftover = append(leftover, s)
		}
	}

	order := make([]int, 0, len(byRank))
	for r := range byRank {
		order = append(order, r)
	}
	slices.Sort(order)
	if dir.Reversed() {
		slices.Reverse(order)
	}

	primary := Margin
	for _, r := range order {
		rank := byRank[r]

		// The rank's slot is as wide as its largest shape along the
		// primary axis.
		extent := 0.0
		for _, s := range rank {
			sz := s.SizeOrDefault()
			if e := primaryExtent(sz, dir); e > extent {
				extent = e
			}
		}

		secondary := Margin
		for _, s := range rank {
			sz := s.SizeOrDefault()
			if dir.Horizontal() {
				positions[s.ID] = model.Point{X: primary, Y: secondary}
				secondary += sz.Height + NodeSep
			} else {
				positions[s.ID] = model.Point{X: secondary, Y: primary}
				secondary += sz.Width + NodeSep
			}
		}
		primary += extent + RankSep
	}

	gridFrom := model.Point{X: Margin, Y: Margin}
	for i, s := range leftover {
		positions[s.ID] = gridPosition(gridFrom, i)
	}
	return positions
}

func primaryExtent(sz model.Size, dir Direction) float64 {
	if dir.Horizontal() {
		return sz.Width
	}
	return sz.Height
}

// gridPosition returns the i-th slot of a row-wrapping grid anchored at
// origin, wrapping every gridColumns shapes.
func gridPosition(origin model.Point, i int) model.Point {
	col := i % gridColumns
	row := i / gridColumns
	return model.Point{
		X: origin.X + float64(col)*gridCellWidth,
		Y: origin.Y + float64(row)*gridCellHeight,
	}
}

package layout

import "github.com/flowline-dev/flowline/pkg/model"

// sizePool sets a pool's dimensions from its lane stack, floored at the
// configured minimums.
func sizePool(pool *model.Pool, laneWidth, lanesHeight float64) {
	pool.Size = &model.Size{
		Width:  max(laneWidth+LaneHeaderWidth, MinPoolWidth),
		Height: max(lanesHeight, MinPoolHeight),
	}
}

// distributeLaneHeights spreads a pool's height evenly across its lanes,
// skipping lanes that already declare explicit dimensions. Used in preserve
// mode, where the pool rectangle comes from the source format.
func distributeLaneHeights(pool *model.Pool, lanes []*model.Lane) {
	if len(lanes) == 0 || pool.Size == nil {
		return
	}
	share := pool.Size.Height / float64(len(lanes))
	width := pool.Size.Width - LaneHeaderWidth
	for _, lane := range lanes {
		if lane.Size != nil {
			continue
		}
		lane.Size = &model.Size{Width: width, Height: share}
	}
}

// preserveConvert performs preserve mode's pure coordinate-space conversion:
// pool origins are kept (defaulted to the margin when absent), lane origins
// become pool-relative, member shape positions become lane-relative. No
// position is recomputed and connector waypoints are kept.
func (r *resolver) preserveConvert() {
	idx := r.m.ShapeIndex()

	for _, pool := range r.m.Pools {
		if pool.Position == nil {
			pool.Position = &model.Point{X: Margin, Y: Margin}
		}
		lanes := r.m.LanesOf(pool.ID)
		distributeLaneHeights(pool, lanes)

		for _, lane := range lanes {
			laneAbs := *lane.Position
			lane.Position = &model.Point{
				X: laneAbs.X - pool.Position.X,
				Y: laneAbs.Y - pool.Position.Y,
			}
			if lane.Size == nil {
				lane.Size = &model.Size{Width: MinPoolWidth - LaneHeaderWidth, Height: MinLaneHeight}
			}

			slot := 0
			for _, id := range lane.ShapeIDs {
				s := idx[id]
				if s == nil {
					continue
				}
				if !s.HasPosition() {
					// Defensive: preserve mode expects upstream shape
					// coordinates, but a hole must not leave a nil position.
					s.Position = &model.Point{
						X: laneAbs.X + LanePadding + float64(slot)*NodeSep,
						Y: laneAbs.Y + LanePadding,
					}
					slot++
				}
				s.Position = &model.Point{
					X: s.Position.X - laneAbs.X,
					Y: s.Position.Y - laneAbs.Y,
				}
			}
		}
	}
}

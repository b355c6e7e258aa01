package layout

import (
	"strings"

	"github.com/flowline-dev/flowline/pkg/model"
)

// resolveContainment converts the fully-positioned absolute coordinates into
// parent-relative form: sub-container children first (while their containers
// are still absolute), then lane and pool members.
func (r *resolver) resolveContainment() {
	r.convertSubContainers()

	// Lane X translation and lane width share one horizontal extent across
	// the whole diagram, so lanes in one pool line up.
	global, hasGlobal := model.BoundsOf(layoutShapes(r.m))
	if !hasGlobal {
		global = model.Rect{X: Margin, Y: Margin}
	}

	for _, pool := range r.m.Pools {
		lanes := r.m.LanesOf(pool.ID)
		if len(lanes) == 0 {
			r.convertLanelessPool(pool)
			continue
		}
		r.organizeLanes(pool, lanes, global)
	}
}

// organizeLanes sizes and stacks the pool's lanes, converts member
// coordinates to lane-relative form and sizes the pool from the result.
//
// Member Y is not copied: it is remapped from the members' original vertical
// range into the lane's usable band, preserving relative order. Members that
// share one Y are centered.
func (r *resolver) organizeLanes(pool *model.Pool, lanes []*model.Lane, global model.Rect) {
	idx := r.m.ShapeIndex()
	laneWidth := global.Width + 2*LanePadding

	laneY := 0.0
	for _, lane := range lanes {
		members := r.laneMembers(lane, idx)

		height := laneHeight(members)
		lane.Position = &model.Point{X: LaneHeaderWidth, Y: laneY}
		lane.Size = &model.Size{Width: laneWidth, Height: height}
		laneY += height

		r.convertLaneMembers(lane, members, global)
	}

	sizePool(pool, laneWidth, laneY)
}

// laneMembers returns the lane's member shapes that are positioned and
// actually lane-parented; nested sub-container children listed on the lane
// are already relative to their container and must not be converted twice.
func (r *resolver) laneMembers(lane *model.Lane, idx map[string]*model.Shape) []*model.Shape {
	var members []*model.Shape
	for _, id := range lane.ShapeIDs {
		s := idx[id]
		if s == nil || !s.HasPosition() {
			continue
		}
		if p := r.parents[s.ID]; p.Kind != LaneParent || p.ID != lane.ID {
			continue
		}
		members = append(members, s)
	}
	return members
}

// laneHeight computes a lane's height from its tallest member plus padding,
// floored at the configured minimum. Empty lanes get the minimum.
func laneHeight(members []*model.Shape) float64 {
	tallest := 0.0
	for _, s := range members {
		if h := s.Size.Height; h > tallest {
			tallest = h
		}
	}
	return max(tallest+LanePadding*3, MinLaneHeight)
}

func (r *resolver) convertLaneMembers(lane *model.Lane, members []*model.Shape, global model.Rect) {
	if len(members) == 0 {
		return
	}

	minY, maxY := members[0].Position.Y, members[0].Position.Y
	tallest := 0.0
	for _, s := range members {
		minY = min(minY, s.Position.Y)
		maxY = max(maxY, s.Position.Y)
		tallest = max(tallest, s.Size.Height)
	}
	band := lane.Size.Height - 2*LanePadding - tallest

	for _, s := range members {
		x := s.Position.X - global.X + LanePadding

		var y float64
		if maxY == minY {
			y = (lane.Size.Height - s.Size.Height) / 2
		} else {
			t := (s.Position.Y - minY) / (maxY - minY)
			y = LanePadding + t*band
		}
		s.Position = &model.Point{X: x, Y: y}
	}
}

// convertLanelessPool translates the pool's direct members into pool-relative
// coordinates and vertically centers their band inside the pool.
func (r *resolver) convertLanelessPool(pool *model.Pool) {
	var members []*model.Shape
	for _, s := range r.m.Shapes {
		p := r.parents[s.ID]
		if p.Kind == PoolParent && p.ID == pool.ID && s.HasPosition() {
			members = append(members, s)
		}
	}
	if len(members) == 0 {
		if pool.Size == nil {
			pool.Size = &model.Size{Width: MinPoolWidth, Height: MinPoolHeight}
		}
		return
	}

	bounds, _ := model.BoundsOf(members)
	width := max(bounds.Width+2*LanePadding+LaneHeaderWidth, MinPoolWidth)
	height := max(bounds.Height+2*LanePadding, MinPoolHeight)
	pool.Size = &model.Size{Width: width, Height: height}

	for _, s := range members {
		s.Position = &model.Point{
			X: s.Position.X - bounds.X + LaneHeaderWidth + LanePadding,
			Y: s.Position.Y - bounds.Y + (height-bounds.Height)/2,
		}
	}
}

// convertSubContainers rewrites nested shapes from absolute coordinates to
// container-relative ones and clamps them into the container's padded
// interior, so a child can never render outside its container.
func (r *resolver) convertSubContainers() {
	idx := r.m.ShapeIndex()
	for _, s := range r.m.Shapes {
		p := r.parents[s.ID]
		if p.Kind != SubContainerParent {
			continue
		}
		container := idx[p.ID]
		if container == nil || !container.HasPosition() || !s.HasPosition() {
			continue
		}

		innerW := container.Size.Width - 2*LanePadding
		innerH := container.Size.Height - SubContainerHeader - LanePadding

		x := s.Position.X - container.Position.X
		y := s.Position.Y - container.Position.Y - SubContainerHeader
		x = clamp(x, 0, max(0, innerW-s.Size.Width))
		y = clamp(y, 0, max(0, innerH-s.Size.Height))
		s.Position = &model.Point{X: x, Y: y}
	}
}

// positionBoundaries places each boundary-attached shape on its host's
// bottom edge. The host comes from the attachment reference property,
// falling back to identifier substring matching against activity shapes.
// Multiple attachments on one host get a running lateral offset so they do
// not collide. Boundary shapes whose host cannot be resolved fall back to a
// row beneath the diagram.
func (r *resolver) positionBoundaries() {
	idx := r.m.ShapeIndex()
	perHost := make(map[string]int)

	bounds, ok := model.BoundsOf(r.m.Shapes)
	if !ok {
		bounds = model.Rect{X: Margin, Y: Margin}
	}
	orphanOrigin := model.Point{X: Margin, Y: bounds.Bottom() + RankSep}
	orphans := 0

	for _, s := range r.m.Shapes {
		if !s.IsBoundary() {
			continue
		}
		host := r.resolveHost(s, idx)
		if host == nil || !host.HasPosition() {
			r.logger.Warn("boundary shape has no resolvable host", "shape", s.ID)
			p := gridPosition(orphanOrigin, orphans)
			s.Position = &model.Point{X: p.X, Y: p.Y}
			orphans++
			continue
		}

		n := perHost[host.ID]
		perHost[host.ID]++

		s.Position = &model.Point{
			X: host.Position.X + LanePadding + float64(n)*BoundarySpacing,
			Y: host.Position.Y + host.Size.Height - s.Size.Height/2,
		}
		// The boundary shape lives in its host's coordinate space.
		s.ParentID = host.ParentID
		s.ContainerID = host.ContainerID
		r.parents[s.ID] = r.parents[host.ID]
	}
}

// resolveHost finds the activity a boundary shape attaches to.
func (r *resolver) resolveHost(s *model.Shape, idx map[string]*model.Shape) *model.Shape {
	if ref := s.AttachedTo(); ref != "" {
		if host := idx[ref]; host != nil {
			return host
		}
	}
	for _, candidate := range r.m.Shapes {
		if !candidate.IsActivity() {
			continue
		}
		if containsID(s.ID, candidate.ID) || containsID(candidate.ID, s.ID) {
			return candidate
		}
	}
	return nil
}

func containsID(haystack, needle string) bool {
	return needle != "" && haystack != needle && strings.Contains(haystack, needle)
}

// separateSiblings nudges any shape that ends with a bounding box identical
// to an earlier sibling's, so no two shapes under one parent coincide.
func (r *resolver) separateSiblings() {
	seen := make(map[parentBox]bool)
	for _, s := range r.m.Shapes {
		if !s.HasPosition() {
			continue
		}
		key := parentBox{parent: r.parents[s.ID], box: s.Bounds()}
		for seen[key] {
			s.Position.X += LanePadding
			s.Position.Y += LanePadding
			key.box = s.Bounds()
		}
		seen[key] = true
	}
}

type parentBox struct {
	parent Parent
	box    model.Rect
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

package layout

import (
	"testing"

	"github.com/flowline-dev/flowline/pkg/model"
)

func TestResolve_LaneHeights(t *testing.T) {
	// Three shapes in lane 1, none in lane 2: lane 2 gets the minimum
	// height and the pool is the sum of both lanes.
	m := chain("s1", "s2", "s3")
	m.Pools = []*model.Pool{{ID: "p"}}
	m.Lanes = []*model.Lane{
		{ID: "l1", PoolID: "p", ShapeIDs: []string{"s1", "s2", "s3"}},
		{ID: "l2", PoolID: "p"},
	}

	got := Resolve(m, fallbackOpts())

	l1, l2 := got.Lanes[0], got.Lanes[1]
	if l2.Size == nil || l2.Size.Height != MinLaneHeight {
		t.Errorf("empty lane height = %v, want %v", l2.Size, MinLaneHeight)
	}
	wantL1 := max(model.DefaultSize(model.TypeTask).Height+LanePadding*3, MinLaneHeight)
	if l1.Size.Height != wantL1 {
		t.Errorf("lane 1 height = %v, want %v", l1.Size.Height, wantL1)
	}
	pool := got.Pools[0]
	if pool.Size == nil || pool.Size.Height != l1.Size.Height+l2.Size.Height {
		t.Errorf("pool height = %v, want sum of lane heights %v",
			pool.Size, l1.Size.Height+l2.Size.Height)
	}
}

func TestResolve_LanesShareWidth(t *testing.T) {
	m := chain("s1", "s2")
	m.Shapes = append(m.Shapes, &model.Shape{ID: "s3", Type: model.TypeTask})
	m.Connectors = append(m.Connectors, &model.Connector{
		ID: "f9", Kind: model.FlowSequence, SourceID: "s2", TargetID: "s3",
	})
	m.Pools = []*model.Pool{{ID: "p"}}
	m.Lanes = []*model.Lane{
		{ID: "l1", PoolID: "p", ShapeIDs: []string{"s1", "s2"}},
		{ID: "l2", PoolID: "p", ShapeIDs: []string{"s3"}},
	}

	got := Resolve(m, fallbackOpts())

	if got.Lanes[0].Size.Width != got.Lanes[1].Size.Width {
		t.Errorf("lanes in one pool should share width: %v vs %v",
			got.Lanes[0].Size.Width, got.Lanes[1].Size.Width)
	}
}

func TestResolve_LaneVerticalOrderPreserved(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 50}},
			{ID: "b", Type: model.TypeTask, Position: &model.Point{X: 300, Y: 250}},
		},
		Pools: []*model.Pool{{ID: "p"}},
		Lanes: []*model.Lane{{ID: "l", PoolID: "p", ShapeIDs: []string{"a", "b"}}},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())

	a, b := got.Shapes[0], got.Shapes[1]
	if a.Position.Y > b.Position.Y {
		t.Errorf("lane-relative Y order should follow original order: a=%v b=%v",
			*a.Position, *b.Position)
	}
	// Both inside the lane's padded interior.
	lane := got.Lanes[0]
	for _, s := range []*model.Shape{a, b} {
		if s.Position.Y < 0 || s.Bounds().Bottom() > lane.Size.Height {
			t.Errorf("shape %s outside lane band: %v (lane height %v)",
				s.ID, *s.Position, lane.Size.Height)
		}
	}
}

func TestResolve_LaneSingleRowCentered(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 80}},
			{ID: "b", Type: model.TypeTask, Position: &model.Point{X: 300, Y: 80}},
		},
		Pools: []*model.Pool{{ID: "p"}},
		Lanes: []*model.Lane{{ID: "l", PoolID: "p", ShapeIDs: []string{"a", "b"}}},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())

	lane := got.Lanes[0]
	a := got.Shapes[0]
	wantY := (lane.Size.Height - a.Size.Height) / 2
	if a.Position.Y != wantY {
		t.Errorf("single-row lane should center shapes: Y = %v, want %v", a.Position.Y, wantY)
	}
}

func TestResolve_LanelessPoolCentersBand(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 100}, ParentID: "p"},
		},
		Pools: []*model.Pool{{ID: "p"}},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())

	pool := got.Pools[0]
	a := got.Shapes[0]
	if a.Position.X != LaneHeaderWidth+LanePadding {
		t.Errorf("pool-relative X = %v, want %v", a.Position.X, LaneHeaderWidth+LanePadding)
	}
	wantY := (pool.Size.Height - a.Size.Height) / 2
	if a.Position.Y != wantY {
		t.Errorf("pool member should be vertically centered: Y = %v, want %v", a.Position.Y, wantY)
	}
}

func TestResolve_SubContainerRelativeAndClamped(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "sub", Type: model.TypeSubProcess, Position: &model.Point{X: 100, Y: 100}},
			{ID: "inside", Type: model.TypeTask, Position: &model.Point{X: 140, Y: 160}, ContainerID: "sub"},
			{ID: "escapee", Type: model.TypeTask, Position: &model.Point{X: 900, Y: 900}, ContainerID: "sub"},
		},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())

	sub := got.Shapes[0]
	for _, id := range []string{"inside", "escapee"} {
		s := got.Shape(id)
		innerW := sub.Size.Width - 2*LanePadding
		innerH := sub.Size.Height - SubContainerHeader - LanePadding
		if s.Position.X < 0 || s.Position.X > innerW-s.Size.Width {
			t.Errorf("%s X = %v outside [0, %v]", id, s.Position.X, innerW-s.Size.Width)
		}
		if s.Position.Y < 0 || s.Position.Y > innerH-s.Size.Height {
			t.Errorf("%s Y = %v outside [0, %v]", id, s.Position.Y, innerH-s.Size.Height)
		}
	}

	inside := got.Shape("inside")
	if inside.Position.X != 40 {
		t.Errorf("inside X = %v, want 40 (140 − container 100)", inside.Position.X)
	}
	if inside.Position.Y != 160-100-SubContainerHeader {
		t.Errorf("inside Y = %v, want %v", inside.Position.Y, 160-100-SubContainerHeader)
	}
}

func TestResolve_BoundaryAttachment(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "task1", Type: model.TypeTask, Position: &model.Point{X: 200, Y: 100}},
			{ID: "be1", Type: model.TypeBoundaryEvent,
				Properties: map[string]any{model.PropAttachedTo: "task1"}},
			{ID: "be2", Type: model.TypeBoundaryEvent,
				Properties: map[string]any{model.PropAttachedTo: "task1"}},
		},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	host := got.Shape("task1")
	be1, be2 := got.Shape("be1"), got.Shape("be2")

	wantY := host.Position.Y + host.Size.Height - be1.Size.Height/2
	if be1.Position.Y != wantY {
		t.Errorf("be1 should straddle the host bottom edge: Y = %v, want %v", be1.Position.Y, wantY)
	}
	if be1.Position.X == be2.Position.X {
		t.Error("boundary shapes on one host should get distinct lateral offsets")
	}
	if be2.Position.X-be1.Position.X != BoundarySpacing {
		t.Errorf("lateral offset = %v, want %v", be2.Position.X-be1.Position.X, BoundarySpacing)
	}
}

func TestResolve_BoundaryHostBySubstring(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "approve", Type: model.TypeUserTask, Position: &model.Point{X: 200, Y: 100}},
			{ID: "approve_timeout", Type: model.TypeBoundaryEvent},
		},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())

	host := got.Shape("approve")
	be := got.Shape("approve_timeout")
	if be.Position.Y != host.Position.Y+host.Size.Height-be.Size.Height/2 {
		t.Errorf("substring-matched boundary should attach to approve: %v", *be.Position)
	}
}

func TestResolve_PreserveMode(t *testing.T) {
	build := func() *model.Model {
		m := &model.Model{
			Shapes: []*model.Shape{
				{ID: "a", Type: model.TypeTask,
					Position: &model.Point{X: 150, Y: 120}, Size: &model.Size{Width: 120, Height: 80}},
			},
			Pools: []*model.Pool{
				{ID: "p", Position: &model.Point{X: 40, Y: 40}, Size: &model.Size{Width: 800, Height: 300}},
			},
			Lanes: []*model.Lane{
				{ID: "l", PoolID: "p", Position: &model.Point{X: 70, Y: 40}, ShapeIDs: []string{"a"}},
			},
		}
		m.RecomputeFlags()
		return m
	}

	got := Resolve(build(), Options{Mode: ModePreserve, DisableEngine: true})

	lane := got.Lanes[0]
	if lane.Position.X != 30 || lane.Position.Y != 0 {
		t.Errorf("lane should become pool-relative: %v", *lane.Position)
	}
	a := got.Shapes[0]
	if a.Position.X != 80 || a.Position.Y != 80 {
		t.Errorf("shape should become lane-relative: %v, want {80 80}", *a.Position)
	}
	// Pool height distributed across lanes without explicit dimensions.
	if lane.Size == nil || lane.Size.Height != 300 {
		t.Errorf("lane should receive the pool's height share: %v", lane.Size)
	}

	// Same input, same output.
	second := Resolve(build(), Options{Mode: ModePreserve, DisableEngine: true})
	if *second.Shapes[0].Position != *a.Position {
		t.Errorf("preserve mode not idempotent: %v vs %v", *second.Shapes[0].Position, *a.Position)
	}
}

func TestResolve_PreserveModeKeepsWaypoints(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 100}},
			{ID: "b", Type: model.TypeTask, Position: &model.Point{X: 300, Y: 100}},
		},
		Connectors: []*model.Connector{
			{ID: "f", Kind: model.FlowSequence, SourceID: "a", TargetID: "b",
				Waypoints: []model.Point{{X: 220, Y: 140}}},
		},
		Pools: []*model.Pool{{ID: "p", Position: &model.Point{X: 0, Y: 0}}},
		Lanes: []*model.Lane{{ID: "l", PoolID: "p", Position: &model.Point{X: 30, Y: 0},
			ShapeIDs: []string{"a", "b"}}},
	}
	m.RecomputeFlags()

	preserved := Resolve(m, Options{Mode: ModePreserve, DisableEngine: true})
	if len(preserved.Connectors[0].Waypoints) != 1 {
		t.Error("preserve mode should keep connector waypoints")
	}

	relaid := Resolve(m, fallbackOpts())
	if len(relaid.Connectors[0].Waypoints) != 0 {
		t.Error("recomputed layout should clear stale waypoints")
	}
}

func TestResolve_PreserveModeFillsLanelessShapes(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask,
				Position: &model.Point{X: 150, Y: 120}, Size: &model.Size{Width: 120, Height: 80}},
			{ID: "stray", Type: model.TypeTask},
			{ID: "guard", Type: model.TypeBoundaryEvent},
		},
		Pools: []*model.Pool{
			{ID: "p", Position: &model.Point{X: 40, Y: 40}, Size: &model.Size{Width: 800, Height: 300}},
		},
		Lanes: []*model.Lane{
			{ID: "l", PoolID: "p", Position: &model.Point{X: 70, Y: 40}, ShapeIDs: []string{"a"}},
		},
	}
	m.RecomputeFlags()

	got := Resolve(m, Options{Mode: ModePreserve, DisableEngine: true})

	for _, s := range got.Shapes {
		if s.Position == nil {
			t.Errorf("shape %s has no position after preserve resolve", s.ID)
		}
		if s.Size == nil {
			t.Errorf("shape %s has no size after preserve resolve", s.ID)
		}
	}

	// The lane member still goes through the coordinate-space conversion.
	if a := got.Shapes[0]; a.Position.X != 80 || a.Position.Y != 80 {
		t.Errorf("lane member = %v, want {80 80}", *a.Position)
	}
}

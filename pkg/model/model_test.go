package model

import "testing"

func TestClone_Independent(t *testing.T) {
	pos := &Point{X: 10, Y: 20}
	m := &Model{
		Shapes: []*Shape{
			{ID: "a", Type: TypeTask, Position: pos, Properties: map[string]any{"k": "v"}},
		},
		Connectors: []*Connector{
			{ID: "f", Kind: FlowSequence, SourceID: "a", TargetID: "a", Waypoints: []Point{{X: 1, Y: 2}}},
		},
		Pools: []*Pool{{ID: "p", Position: &Point{X: 5, Y: 5}}},
		Lanes: []*Lane{{ID: "l", PoolID: "p", ShapeIDs: []string{"a"}}},
	}

	c := m.Clone()
	c.Shapes[0].Position.X = 99
	c.Shapes[0].Properties["k"] = "changed"
	c.Connectors[0].Waypoints[0].X = 99
	c.Lanes[0].ShapeIDs[0] = "z"

	if m.Shapes[0].Position.X != 10 {
		t.Errorf("original shape position mutated: %v", m.Shapes[0].Position)
	}
	if m.Shapes[0].Properties["k"] != "v" {
		t.Errorf("original properties mutated: %v", m.Shapes[0].Properties)
	}
	if m.Connectors[0].Waypoints[0].X != 1 {
		t.Errorf("original waypoints mutated: %v", m.Connectors[0].Waypoints)
	}
	if m.Lanes[0].ShapeIDs[0] != "a" {
		t.Errorf("original lane members mutated: %v", m.Lanes[0].ShapeIDs)
	}
}

func TestRecomputeFlags(t *testing.T) {
	m := &Model{Shapes: []*Shape{{ID: "a"}, {ID: "b"}}}
	m.RecomputeFlags()
	if m.HasExplicitPositions {
		t.Error("HasExplicitPositions = true for unpositioned model")
	}

	m.Shapes[1].Position = &Point{X: 1, Y: 1}
	m.RecomputeFlags()
	if !m.HasExplicitPositions {
		t.Error("HasExplicitPositions = false after positioning a shape")
	}
}

func TestDefaultSize(t *testing.T) {
	tests := []struct {
		shapeType string
		want      Size
	}{
		{TypeStartEvent, Size{Width: 36, Height: 36}},
		{TypeTask, Size{Width: 120, Height: 80}},
		{TypeExclusiveGateway, Size{Width: 50, Height: 50}},
		{"somethingUnknown", Size{Width: 120, Height: 80}},
	}
	for _, tt := range tests {
		if got := DefaultSize(tt.shapeType); got != tt.want {
			t.Errorf("DefaultSize(%s) = %v, want %v", tt.shapeType, got, tt.want)
		}
	}
}

func TestRect_Overlaps(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}

	if !a.Overlaps(Rect{X: 5, Y: 5, Width: 10, Height: 10}) {
		t.Error("intersecting rects should overlap")
	}
	if a.Overlaps(Rect{X: 10, Y: 0, Width: 10, Height: 10}) {
		t.Error("touching edges should not overlap")
	}
	if a.Overlaps(Rect{X: 50, Y: 50, Width: 5, Height: 5}) {
		t.Error("distant rects should not overlap")
	}
}

func TestRect_Union(t *testing.T) {
	a := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	b := Rect{X: 20, Y: 5, Width: 10, Height: 20}

	got := a.Union(b)
	want := Rect{X: 0, Y: 0, Width: 30, Height: 25}
	if got != want {
		t.Errorf("Union() = %v, want %v", got, want)
	}
}

func TestBoundsOf(t *testing.T) {
	shapes := []*Shape{
		{ID: "a", Position: &Point{X: 10, Y: 10}, Size: &Size{Width: 20, Height: 20}},
		{ID: "b", Position: &Point{X: 50, Y: 40}, Size: &Size{Width: 10, Height: 10}},
		{ID: "unpositioned"},
	}

	bounds, ok := BoundsOf(shapes)
	if !ok {
		t.Fatal("BoundsOf() found nothing")
	}
	want := Rect{X: 10, Y: 10, Width: 50, Height: 40}
	if bounds != want {
		t.Errorf("BoundsOf() = %v, want %v", bounds, want)
	}

	if _, ok := BoundsOf([]*Shape{{ID: "x"}}); ok {
		t.Error("BoundsOf() = ok for unpositioned shapes, want not ok")
	}
}

func TestShape_Kinds(t *testing.T) {
	if !(&Shape{Type: TypeDataStore}).IsData() {
		t.Error("data store should be data-like")
	}
	if !(&Shape{Type: TypeBoundaryEvent}).IsBoundary() {
		t.Error("boundary event should be boundary")
	}
	if !(&Shape{Type: TypeUserTask}).IsActivity() {
		t.Error("user task should be an activity")
	}
	if (&Shape{Type: TypeStartEvent}).IsActivity() {
		t.Error("start event should not be an activity")
	}
}

func TestShape_AttachedTo(t *testing.T) {
	s := &Shape{Type: TypeBoundaryEvent, Properties: map[string]any{PropAttachedTo: "task1"}}
	if got := s.AttachedTo(); got != "task1" {
		t.Errorf("AttachedTo() = %q, want task1", got)
	}
	if got := (&Shape{}).AttachedTo(); got != "" {
		t.Errorf("AttachedTo() = %q, want empty", got)
	}
}

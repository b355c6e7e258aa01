package layout

import (
	"fmt"
	"testing"

	"github.com/flowline-dev/flowline/pkg/model"
)

// fallbackOpts forces the in-process layout so tests do not depend on the
// Graphviz engine.
func fallbackOpts() Options {
	return Options{DisableEngine: true}
}

func chain(ids ...string) *model.Model {
	m := &model.Model{}
	for _, id := range ids {
		m.Shapes = append(m.Shapes, &model.Shape{ID: id, Type: model.TypeTask})
	}
	for i := 0; i+1 < len(ids); i++ {
		m.Connectors = append(m.Connectors, &model.Connector{
			ID: fmt.Sprintf("f%d", i), Kind: model.FlowSequence,
			SourceID: ids[i], TargetID: ids[i+1],
		})
	}
	return m
}

func assertFullyPositioned(t *testing.T, m *model.Model) {
	t.Helper()
	for _, s := range m.Shapes {
		if s.Position == nil {
			t.Errorf("shape %s has no position after resolve", s.ID)
		}
		if s.Size == nil {
			t.Errorf("shape %s has no size after resolve", s.ID)
		}
	}
}

func TestResolve_EmptyModel(t *testing.T) {
	got := Resolve(&model.Model{}, fallbackOpts())
	if len(got.Shapes) != 0 {
		t.Errorf("Shapes = %v, want empty", got.Shapes)
	}
}

func TestResolve_EveryShapePositioned(t *testing.T) {
	tests := []struct {
		name  string
		model func() *model.Model
	}{
		{"unpositioned chain", func() *model.Model {
			return chain("a", "b", "c")
		}},
		{"fully positioned", func() *model.Model {
			m := chain("a", "b")
			m.Shapes[0].Position = &model.Point{X: 40, Y: 40}
			m.Shapes[1].Position = &model.Point{X: 300, Y: 40}
			m.RecomputeFlags()
			return m
		}},
		{"mixed", func() *model.Model {
			m := chain("a", "b", "c")
			m.Shapes[0].Position = &model.Point{X: 40, Y: 40}
			m.RecomputeFlags()
			return m
		}},
		{"disconnected shapes", func() *model.Model {
			m := chain("a", "b")
			m.Shapes = append(m.Shapes,
				&model.Shape{ID: "doc", Type: model.TypeDataObject},
				&model.Shape{ID: "note", Type: model.TypeTextAnnotation})
			return m
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Resolve(tt.model(), fallbackOpts())
			assertFullyPositioned(t, got)
		})
	}
}

func TestResolve_DoesNotMutateInput(t *testing.T) {
	m := chain("a", "b")
	Resolve(m, fallbackOpts())

	if m.Shapes[0].Position != nil {
		t.Error("input model was mutated by Resolve")
	}
}

func TestResolve_LinearChainOrdering(t *testing.T) {
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "start", Type: model.TypeStartEvent},
			{ID: "task1", Type: model.TypeTask},
			{ID: "task2", Type: model.TypeTask},
			{ID: "end", Type: model.TypeEndEvent},
		},
		Connectors: []*model.Connector{
			{ID: "f1", Kind: model.FlowSequence, SourceID: "start", TargetID: "task1"},
			{ID: "f2", Kind: model.FlowSequence, SourceID: "task1", TargetID: "task2"},
			{ID: "f3", Kind: model.FlowSequence, SourceID: "task2", TargetID: "end"},
		},
	}

	got := Resolve(m, Options{Direction: DirLeftToRight, DisableEngine: true})
	assertFullyPositioned(t, got)

	xs := make(map[string]float64)
	for _, s := range got.Shapes {
		xs[s.ID] = s.Position.X
		if s.Position.Y < 0 {
			t.Errorf("shape %s has negative Y: %v", s.ID, s.Position.Y)
		}
	}
	if !(xs["start"] < xs["task1"] && xs["task1"] < xs["task2"] && xs["task2"] < xs["end"]) {
		t.Errorf("left-to-right ordering violated: %v", xs)
	}
}

func TestResolve_FanOutDistinctPositions(t *testing.T) {
	m := &model.Model{Shapes: []*model.Shape{
		{ID: "split", Type: model.TypeParallelGateway},
		{ID: "join", Type: model.TypeParallelGateway},
	}}
	for i := 0; i < 10; i++ {
		id := fmt.Sprintf("branch%d", i)
		m.Shapes = append(m.Shapes, &model.Shape{ID: id, Type: model.TypeTask})
		m.Connectors = append(m.Connectors,
			&model.Connector{ID: "s" + id, Kind: model.FlowSequence, SourceID: "split", TargetID: id},
			&model.Connector{ID: "j" + id, Kind: model.FlowSequence, SourceID: id, TargetID: "join"})
	}

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	seen := make(map[model.Point]string)
	for _, s := range got.Shapes {
		if prev, dup := seen[*s.Position]; dup {
			t.Errorf("shapes %s and %s share position %v", prev, s.ID, *s.Position)
		}
		seen[*s.Position] = s.ID
	}
}

func TestResolve_NeighborPlacement(t *testing.T) {
	m := chain("a", "b", "c")
	m.Shapes[0].Position = &model.Point{X: 100, Y: 100}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	a, b, c := got.Shapes[0], got.Shapes[1], got.Shapes[2]
	if a.Position.X != 100 || a.Position.Y != 100 {
		t.Errorf("explicit position was overwritten: %v", *a.Position)
	}
	if b.Position.X <= a.Position.X {
		t.Errorf("b (%v) should be right of a (%v)", *b.Position, *a.Position)
	}
	if c.Position.X <= b.Position.X {
		t.Errorf("c (%v) should be right of b (%v)", *c.Position, *b.Position)
	}
}

func TestResolve_NeighborPlacementFromSuccessor(t *testing.T) {
	m := chain("a", "b")
	m.Shapes[1].Position = &model.Point{X: 600, Y: 200}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	a, b := got.Shapes[0], got.Shapes[1]
	if a.Position.X >= b.Position.X {
		t.Errorf("a (%v) should be left of its positioned successor (%v)", *a.Position, *b.Position)
	}
}

func TestResolve_OverlapAvoidance(t *testing.T) {
	// Two unpositioned shapes share one positioned predecessor; both start
	// from the same candidate slot and must not end up overlapping.
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "src", Type: model.TypeTask, Position: &model.Point{X: 40, Y: 40}},
			{ID: "x", Type: model.TypeTask},
			{ID: "y", Type: model.TypeTask},
		},
		Connectors: []*model.Connector{
			{ID: "f1", Kind: model.FlowSequence, SourceID: "src", TargetID: "x"},
			{ID: "f2", Kind: model.FlowSequence, SourceID: "src", TargetID: "y"},
		},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	x, y := got.Shapes[1], got.Shapes[2]
	if x.Bounds().Overlaps(y.Bounds()) {
		t.Errorf("siblings overlap: %v and %v", x.Bounds(), y.Bounds())
	}
}

func TestResolve_DisconnectedDataSidebar(t *testing.T) {
	m := chain("a", "b")
	m.Shapes = append(m.Shapes,
		&model.Shape{ID: "doc", Type: model.TypeDataObject},
		&model.Shape{ID: "store", Type: model.TypeDataStore},
		&model.Shape{ID: "note", Type: model.TypeTextAnnotation})

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	flowLeft := got.Shape("a").Position.X
	doc := got.Shape("doc")
	store := got.Shape("store")
	if doc.Position.X >= flowLeft {
		t.Errorf("data shape should sit left of the flow: doc.X = %v, flow left = %v", doc.Position.X, flowLeft)
	}
	if doc.Position.Y >= store.Position.Y {
		// Stacked vertically in model order.
		t.Errorf("data shapes should stack downward: doc.Y = %v, store.Y = %v", doc.Position.Y, store.Position.Y)
	}

	flowBottom := got.Shape("a").Bounds().Bottom()
	if note := got.Shape("note"); note.Position.Y <= flowBottom {
		t.Errorf("non-data disconnected shape should sit below the flow: %v", *note.Position)
	}
}

func TestResolve_NoIdenticalSiblingBoxes(t *testing.T) {
	// Two shapes with identical explicit bounds in the same lane.
	m := &model.Model{
		Shapes: []*model.Shape{
			{ID: "a", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 100}},
			{ID: "b", Type: model.TypeTask, Position: &model.Point{X: 100, Y: 100}},
		},
		Pools: []*model.Pool{{ID: "p"}},
		Lanes: []*model.Lane{{ID: "l", PoolID: "p", ShapeIDs: []string{"a", "b"}}},
	}
	m.RecomputeFlags()

	got := Resolve(m, fallbackOpts())
	assertFullyPositioned(t, got)

	a, b := got.Shapes[0], got.Shapes[1]
	if a.Bounds() == b.Bounds() {
		t.Errorf("sibling shapes share an identical bounding box: %v", a.Bounds())
	}
}

func TestResolve_PoolStacking(t *testing.T) {
	m := &model.Model{
		Pools: []*model.Pool{
			{ID: "p1", Position: &model.Point{X: 40, Y: 40}, Size: &model.Size{Width: 600, Height: 200}},
			{ID: "p2"},
			{ID: "p3"},
		},
	}

	got := Resolve(m, fallbackOpts())

	p1, p2, p3 := got.Pools[0], got.Pools[1], got.Pools[2]
	if p1.Position.Y != 40 {
		t.Errorf("positioned pool moved: %v", *p1.Position)
	}
	if p2.Position == nil || p2.Position.Y < p1.Position.Y+p1.Size.Height {
		t.Errorf("p2 should stack beneath p1: %v", p2.Position)
	}
	if p3.Position == nil || p3.Position.Y <= p2.Position.Y {
		t.Errorf("p3 should stack beneath p2: %v", p3.Position)
	}
}

func TestResolve_PoolStackingGap(t *testing.T) {
	// The second pool's bottom (520) falls inside the gap window of the
	// first (500); stacking must still start PoolGap below the lowest.
	m := &model.Model{
		Pools: []*model.Pool{
			{ID: "p1", Position: &model.Point{X: 40, Y: 300}, Size: &model.Size{Width: 600, Height: 200}},
			{ID: "p2", Position: &model.Point{X: 40, Y: 420}, Size: &model.Size{Width: 600, Height: 100}},
			{ID: "p3"},
		},
	}

	got := Resolve(m, fallbackOpts())

	p3 := got.Pools[2]
	if p3.Position == nil {
		t.Fatal("p3 not positioned")
	}
	if want := 520.0 + PoolGap; p3.Position.Y != want {
		t.Errorf("p3.Y = %v, want %v", p3.Position.Y, want)
	}
}

func TestResolve_Deterministic(t *testing.T) {
	build := func() *model.Model {
		m := chain("a", "b", "c", "d")
		m.Shapes = append(m.Shapes, &model.Shape{ID: "doc", Type: model.TypeDataObject})
		return m
	}

	first := Resolve(build(), fallbackOpts())
	second := Resolve(build(), fallbackOpts())

	for i := range first.Shapes {
		if *first.Shapes[i].Position != *second.Shapes[i].Position {
			t.Errorf("shape %s: %v vs %v", first.Shapes[i].ID,
				*first.Shapes[i].Position, *second.Shapes[i].Position)
		}
	}
}

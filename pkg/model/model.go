// Package model defines the typed diagram model consumed and produced by the
// layout engine: shapes, connectors, pools and lanes, each optionally carrying
// pre-existing coordinates from the source format.
//
// The model is the contract between the upstream parser, the layout engine and
// the downstream serializer. Positions and sizes are optional on input (nil
// means "unset") and guaranteed present on every shape after resolution.
//
// Models support deterministic JSON serialization for storage, caching and the
// HTTP API. Use Clone to obtain a deep copy; the layout engine never mutates
// its input.
package model

import "slices"

// Shape type tags. The engine only interprets a type's default dimensions and
// its broad category (event, activity, gateway, data, boundary); unknown types
// are laid out with generic task dimensions.
const (
	TypeStartEvent        = "startEvent"
	TypeEndEvent          = "endEvent"
	TypeIntermediateEvent = "intermediateEvent"
	TypeBoundaryEvent     = "boundaryEvent"
	TypeTask              = "task"
	TypeUserTask          = "userTask"
	TypeServiceTask       = "serviceTask"
	TypeScriptTask        = "scriptTask"
	TypeCallActivity      = "callActivity"
	TypeSubProcess        = "subProcess"
	TypeExclusiveGateway  = "exclusiveGateway"
	TypeParallelGateway   = "parallelGateway"
	TypeInclusiveGateway  = "inclusiveGateway"
	TypeEventGateway      = "eventBasedGateway"
	TypeDataObject        = "dataObject"
	TypeDataStore         = "dataStoreReference"
	TypeTextAnnotation    = "textAnnotation"
)

// Connector kinds.
const (
	FlowSequence    = "sequenceFlow"
	FlowMessage     = "messageFlow"
	FlowAssociation = "association"
)

// PropAttachedTo is the shape property naming the host of a boundary-attached
// shape.
const PropAttachedTo = "attachedToRef"

// Point is a position in pixels. The diagram coordinate convention has the
// origin at the top left with Y increasing downward.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is a width/height pair in pixels.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Shape is a single diagram element. Position and Size are nil until supplied
// by the source format or computed by the layout engine.
type Shape struct {
	ID       string         `json:"id" bson:"id"`
	Type     string         `json:"type" bson:"type"`
	Name     string         `json:"name,omitempty" bson:"name,omitempty"`
	Position *Point         `json:"position,omitempty" bson:"position,omitempty"`
	Size     *Size          `json:"size,omitempty" bson:"size,omitempty"`
	ParentID string         `json:"parent_id,omitempty" bson:"parent_id,omitempty"`
	// ContainerID names the sub-process this shape is nested inside, if any.
	ContainerID string         `json:"container_id,omitempty" bson:"container_id,omitempty"`
	Properties  map[string]any `json:"properties,omitempty" bson:"properties,omitempty"`
}

// HasPosition reports whether the shape carries explicit coordinates.
func (s *Shape) HasPosition() bool { return s.Position != nil }

// HasSize reports whether the shape carries explicit dimensions.
func (s *Shape) HasSize() bool { return s.Size != nil }

// IsData reports whether the shape is a data-like element (data object or
// data store). Disconnected data shapes are stacked in a sidebar during
// layout rather than placed in the flow.
func (s *Shape) IsData() bool {
	return s.Type == TypeDataObject || s.Type == TypeDataStore
}

// IsBoundary reports whether the shape attaches to the border of a host
// activity rather than occupying its own slot in the flow.
func (s *Shape) IsBoundary() bool { return s.Type == TypeBoundaryEvent }

// IsActivity reports whether the shape is an activity-like element that can
// host boundary-attached shapes.
func (s *Shape) IsActivity() bool {
	switch s.Type {
	case TypeTask, TypeUserTask, TypeServiceTask, TypeScriptTask,
		TypeCallActivity, TypeSubProcess:
		return true
	}
	return false
}

// AttachedTo returns the declared host reference of a boundary shape, or ""
// when none is set.
func (s *Shape) AttachedTo() string {
	if ref, ok := s.Properties[PropAttachedTo].(string); ok {
		return ref
	}
	return ""
}

// Connector is a directed connection between two shapes. Waypoints are
// optional routing hints from the source format; the engine clears them when
// it recomputes positions and keeps them in preserve mode.
type Connector struct {
	ID        string  `json:"id" bson:"id"`
	Kind      string  `json:"kind" bson:"kind"`
	SourceID  string  `json:"source_id" bson:"source_id"`
	TargetID  string  `json:"target_id" bson:"target_id"`
	Waypoints []Point `json:"waypoints,omitempty" bson:"waypoints,omitempty"`
}

// IsFlow reports whether the connector participates in the flow graph used
// for ranking and neighbor placement. Associations are annotations and do not
// order shapes.
func (c *Connector) IsFlow() bool { return c.Kind != FlowAssociation }

// Pool is a top-level container. A pool may own lanes; a pool with none lays
// its member shapes out directly.
type Pool struct {
	ID         string `json:"id" bson:"id"`
	Name       string `json:"name,omitempty" bson:"name,omitempty"`
	Position   *Point `json:"position,omitempty" bson:"position,omitempty"`
	Size       *Size  `json:"size,omitempty" bson:"size,omitempty"`
	ProcessRef string `json:"process_ref,omitempty" bson:"process_ref,omitempty"`
}

// Lane is a horizontal band inside a pool holding an ordered set of member
// shapes. Lane order in the model is the stacking order inside the pool.
type Lane struct {
	ID       string   `json:"id" bson:"id"`
	PoolID   string   `json:"pool_id" bson:"pool_id"`
	Name     string   `json:"name,omitempty" bson:"name,omitempty"`
	Position *Point   `json:"position,omitempty" bson:"position,omitempty"`
	Size     *Size    `json:"size,omitempty" bson:"size,omitempty"`
	ShapeIDs []string `json:"shape_ids,omitempty" bson:"shape_ids,omitempty"`
}

// Model is a complete diagram: shapes, connectors and the containment
// hierarchy. Slice order is preserved through serialization and drives
// deterministic layout of otherwise equal elements.
type Model struct {
	Name       string       `json:"name,omitempty" bson:"name,omitempty"`
	Shapes     []*Shape     `json:"shapes" bson:"shapes"`
	Connectors []*Connector `json:"connectors,omitempty" bson:"connectors,omitempty"`
	Pools      []*Pool      `json:"pools,omitempty" bson:"pools,omitempty"`
	Lanes      []*Lane      `json:"lanes,omitempty" bson:"lanes,omitempty"`

	// HasExplicitPositions records whether any shape carried coordinates in
	// the source format. It is set by the parser (or RecomputeFlags) and
	// selects between whole-model layout and neighbor placement.
	HasExplicitPositions bool `json:"has_explicit_positions,omitempty" bson:"has_explicit_positions,omitempty"`
}

// Shape returns the shape with the given ID, or nil.
func (m *Model) Shape(id string) *Shape {
	for _, s := range m.Shapes {
		if s.ID == id {
			return s
		}
	}
	return nil
}

// Pool returns the pool with the given ID, or nil.
func (m *Model) Pool(id string) *Pool {
	for _, p := range m.Pools {
		if p.ID == id {
			return p
		}
	}
	return nil
}

// Lane returns the lane with the given ID, or nil.
func (m *Model) Lane(id string) *Lane {
	for _, l := range m.Lanes {
		if l.ID == id {
			return l
		}
	}
	return nil
}

// LanesOf returns the lanes belonging to the given pool in declared order.
func (m *Model) LanesOf(poolID string) []*Lane {
	var lanes []*Lane
	for _, l := range m.Lanes {
		if l.PoolID == poolID {
			lanes = append(lanes, l)
		}
	}
	return lanes
}

// ShapeIndex builds an ID → shape lookup table. The table is built fresh on
// every call; callers own it for the duration of one resolve.
func (m *Model) ShapeIndex() map[string]*Shape {
	idx := make(map[string]*Shape, len(m.Shapes))
	for _, s := range m.Shapes {
		idx[s.ID] = s
	}
	return idx
}

// LaneOfShape builds a shape ID → lane lookup from the lanes' member lists.
func (m *Model) LaneOfShape() map[string]*Lane {
	idx := make(map[string]*Lane)
	for _, l := range m.Lanes {
		for _, id := range l.ShapeIDs {
			idx[id] = l
		}
	}
	return idx
}

// RecomputeFlags rescans the shapes and updates HasExplicitPositions.
// Parsers that build models incrementally call this once at the end.
func (m *Model) RecomputeFlags() {
	m.HasExplicitPositions = false
	for _, s := range m.Shapes {
		if s.HasPosition() {
			m.HasExplicitPositions = true
			return
		}
	}
}

// Clone returns a deep copy of the model. The copy shares no pointers with
// the original, so mutating it never affects the caller's data.
func (m *Model) Clone() *Model {
	out := &Model{
		Name:                 m.Name,
		HasExplicitPositions: m.HasExplicitPositions,
	}
	out.Shapes = make([]*Shape, len(m.Shapes))
	for i, s := range m.Shapes {
		out.Shapes[i] = s.clone()
	}
	out.Connectors = make([]*Connector, len(m.Connectors))
	for i, c := range m.Connectors {
		cc := *c
		cc.Waypoints = slices.Clone(c.Waypoints)
		out.Connectors[i] = &cc
	}
	out.Pools = make([]*Pool, len(m.Pools))
	for i, p := range m.Pools {
		pp := *p
		pp.Position = clonePoint(p.Position)
		pp.Size = cloneSize(p.Size)
		out.Pools[i] = &pp
	}
	out.Lanes = make([]*Lane, len(m.Lanes))
	for i, l := range m.Lanes {
		ll := *l
		ll.Position = clonePoint(l.Position)
		ll.Size = cloneSize(l.Size)
		ll.ShapeIDs = slices.Clone(l.ShapeIDs)
		out.Lanes[i] = &ll
	}
	return out
}

func (s *Shape) clone() *Shape {
	out := *s
	out.Position = clonePoint(s.Position)
	out.Size = cloneSize(s.Size)
	if s.Properties != nil {
		out.Properties = make(map[string]any, len(s.Properties))
		for k, v := range s.Properties {
			out.Properties[k] = v
		}
	}
	return &out
}

func clonePoint(p *Point) *Point {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

func cloneSize(s *Size) *Size {
	if s == nil {
		return nil
	}
	cs := *s
	return &cs
}

package layout

import "github.com/flowline-dev/flowline/pkg/model"

// ParentKind tags the container category a shape's coordinates are relative
// to once containment is resolved.
type ParentKind int

const (
	// NoParent means coordinates stay canvas-absolute.
	NoParent ParentKind = iota
	// LaneParent means coordinates are relative to a lane.
	LaneParent
	// PoolParent means coordinates are relative to a laneless pool.
	PoolParent
	// SubContainerParent means coordinates are relative to an enclosing
	// sub-process shape.
	SubContainerParent
)

// Parent identifies a shape's immediate container. It is resolved once per
// resolve call and matched exhaustively wherever a parent-relative offset is
// needed; nothing probes raw ID strings after this point.
type Parent struct {
	Kind ParentKind
	ID   string
}

// resolveParents classifies every shape's declared parent reference into the
// tagged union. Sub-container nesting wins over lane membership; a shape
// listed in a lane belongs to that lane; a ParentID naming a lane or pool
// resolves accordingly; anything else is parentless.
func resolveParents(m *model.Model) map[string]Parent {
	laneOf := m.LaneOfShape()

	parents := make(map[string]Parent, len(m.Shapes))
	for _, s := range m.Shapes {
		switch {
		case s.ContainerID != "":
			parents[s.ID] = Parent{Kind: SubContainerParent, ID: s.ContainerID}
		case laneOf[s.ID] != nil:
			parents[s.ID] = Parent{Kind: LaneParent, ID: laneOf[s.ID].ID}
		case s.ParentID != "" && m.Lane(s.ParentID) != nil:
			parents[s.ID] = Parent{Kind: LaneParent, ID: s.ParentID}
		case s.ParentID != "" && m.Pool(s.ParentID) != nil:
			parents[s.ID] = Parent{Kind: PoolParent, ID: s.ParentID}
		default:
			parents[s.ID] = Parent{Kind: NoParent}
		}
	}
	return parents
}

// Package layout computes a complete, non-overlapping, container-relative
// position for every shape of a diagram model.
//
// The entry point is Resolve: it clones the input model, fills in missing
// dimensions, computes positions for unpositioned shapes (via Graphviz when
// available, an in-process rank-based layout otherwise, and incremental
// neighbor placement when the model is partially positioned), places
// disconnected shapes, and finally converts absolute coordinates into
// pool/lane/sub-container-relative form.
//
// Resolve never fails for a well-formed model: missing numeric fields are
// treated as unset and filled with computed or default values, unknown
// connector endpoints are dropped with a warning, and external engine
// failures silently select the fallback layout.
package layout

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
)

// Mode selects how pre-existing coordinates are treated.
type Mode string

const (
	// ModeAuto computes layout with the external engine (or the fallback)
	// for shapes that need it, keeping explicit positions untouched.
	ModeAuto Mode = "auto"

	// ModePreserve keeps upstream coordinates and performs only
	// coordinate-space conversion. It requires every lane to carry a
	// position; models that don't qualify are resolved as in ModeAuto.
	ModePreserve Mode = "preserve"
)

// ParseMode converts a mode string to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(s)) {
	case ModeAuto, "":
		return ModeAuto, nil
	case ModePreserve:
		return ModePreserve, nil
	}
	return "", fmt.Errorf("unknown layout mode %q (want auto or preserve)", s)
}

// Direction is the main flow direction of the diagram.
type Direction string

const (
	DirLeftToRight Direction = "left-to-right"
	DirTopToBottom Direction = "top-to-bottom"
	DirRightToLeft Direction = "right-to-left"
	DirBottomToTop Direction = "bottom-to-top"
)

// ParseDirection converts a direction string to a Direction.
func ParseDirection(s string) (Direction, error) {
	switch Direction(strings.ToLower(s)) {
	case DirLeftToRight, "":
		return DirLeftToRight, nil
	case DirTopToBottom:
		return DirTopToBottom, nil
	case DirRightToLeft:
		return DirRightToLeft, nil
	case DirBottomToTop:
		return DirBottomToTop, nil
	}
	return "", fmt.Errorf("unknown direction %q", s)
}

// Horizontal reports whether the primary axis of the direction is X.
func (d Direction) Horizontal() bool {
	return d == DirLeftToRight || d == DirRightToLeft
}

// Reversed reports whether ranks advance against the axis (right-to-left or
// bottom-to-top).
func (d Direction) Reversed() bool {
	return d == DirRightToLeft || d == DirBottomToTop
}

// Spacing and bounds constants, in pixels.
const (
	// Margin is the offset of the diagram's top-left corner from the origin.
	Margin = 40.0

	// RankSep separates consecutive ranks along the primary axis.
	RankSep = 100.0

	// NodeSep separates shapes within one rank along the secondary axis.
	NodeSep = 60.0

	// MaxRowWidth is the right bound at which neighbor placement wraps to
	// the next row.
	MaxRowWidth = 1600.0

	// gridColumns is the wrap width of the last-resort grid placement.
	gridColumns = 4

	// gridCellWidth and gridCellHeight are the cell dimensions of the grid
	// placement, sized for the largest default shape plus separation.
	gridCellWidth  = 180.0
	gridCellHeight = 140.0

	// neighborGap separates a shape from the positioned neighbor it is
	// placed against.
	neighborGap = 50.0

	// overlapShiftY is the vertical step taken on each collision.
	overlapShiftY = 60.0

	// overlapShiftX is the horizontal step taken once vertical headroom is
	// exhausted.
	overlapShiftX = 180.0

	// overlapHeadroom is the vertical distance searched before shifting
	// right and resetting the vertical offset.
	overlapHeadroom = 480.0

	// maxOverlapAttempts caps the collision search. The last candidate is
	// accepted regardless of residual overlap: best effort, never blocking.
	maxOverlapAttempts = 24
)

// Containment constants, in pixels.
const (
	// LanePadding surrounds shapes inside lanes and pools.
	LanePadding = 20.0

	// MinLaneHeight floors computed lane heights.
	MinLaneHeight = 150.0

	// LaneHeaderWidth is the label band at the left edge of pools and lanes.
	LaneHeaderWidth = 30.0

	// MinPoolWidth and MinPoolHeight floor computed pool dimensions.
	MinPoolWidth  = 300.0
	MinPoolHeight = 150.0

	// PoolGap separates vertically stacked pools.
	PoolGap = 50.0

	// SubContainerHeader is the vertical offset reserved for a
	// sub-container's label when converting children to relative form.
	SubContainerHeader = 30.0

	// BoundarySpacing is the lateral distance between successive
	// boundary-attached shapes on the same host.
	BoundarySpacing = 50.0
)

// Options configures one resolution.
type Options struct {
	// Mode selects auto layout or preserve-mode conversion. Empty means auto.
	Mode Mode

	// Direction is the main flow direction. Empty means left-to-right.
	Direction Direction

	// DisableEngine skips the external Graphviz engine, forcing the
	// in-process fallback layout. Mainly for tests and reproducible output.
	DisableEngine bool

	// Logger receives warnings and per-stage debug output. Nil discards.
	Logger *log.Logger
}

func (o *Options) setDefaults() {
	if o.Mode == "" {
		o.Mode = ModeAuto
	}
	if o.Direction == "" {
		o.Direction = DirLeftToRight
	}
	if o.Logger == nil {
		o.Logger = log.New(io.Discard)
	}
}

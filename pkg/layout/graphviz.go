package layout

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/goccy/go-graphviz"

	"github.com/flowline-dev/flowline/pkg/flowgraph"
	"github.com/flowline-dev/flowline/pkg/model"
)

// Graphviz unit conversion. Node dimensions are declared in inches at CSS
// pixel density; the dot engine reports positions in points (72 per inch).
const (
	pixelsPerInch = 96.0
	pointsPerInch = 72.0
)

// graphvizLayout lays out the given shapes with the Graphviz dot engine and
// returns one raw position per shape, in points with Y increasing upward.
// Positions must be run through normalizePositions with flipY and applyScale
// set before use.
//
// Any failure (engine unavailable, DOT rejected, render error) is returned
// to the caller, which substitutes the fallback layout; it is never fatal.
// Shapes the engine leaves unpositioned get a deterministic placement
// continuing rightward from the engine's own bounding box.
func graphvizLayout(shapes []*model.Shape, g *flowgraph.Graph, dir Direction, logger *log.Logger) (map[string]model.Point, error) {
	if len(shapes) == 0 {
		return map[string]model.Point{}, nil
	}

	// Stable synthetic node names sidestep DOT quoting of arbitrary IDs.
	names := make(map[string]string, len(shapes))
	ids := make(map[string]string, len(shapes))
	for i, s := range shapes {
		name := fmt.Sprintf("n%d", i)
		names[s.ID] = name
		ids[name] = s.ID
	}

	dot := buildDOT(shapes, g, dir, names)

	out, err := renderDOT(dot)
	if err != nil {
		return nil, err
	}

	raw, err := parsePositions(out)
	if err != nil {
		return nil, err
	}

	positions := make(map[string]model.Point, len(shapes))
	var bounds model.Rect
	for name, p := range raw {
		id, ok := ids[name]
		if !ok {
			continue
		}
		positions[id] = p
		if len(positions) == 1 {
			bounds = model.Rect{X: p.X, Y: p.Y}
		} else {
			bounds = bounds.Union(model.Rect{X: p.X, Y: p.Y})
		}
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("graphviz output contained no positions")
	}

	// Engine may omit nodes (e.g. filtered by dot); continue rightward from
	// its bounding box so every requested shape ends up positioned.
	cursor := bounds.Right() + RankSep
	for _, s := range shapes {
		if _, ok := positions[s.ID]; ok {
			continue
		}
		logger.Debug("graphviz left shape unpositioned, extending bounding box", "shape", s.ID)
		positions[s.ID] = model.Point{X: cursor, Y: bounds.Y}
		cursor += gridCellWidth
	}
	return positions, nil
}

// buildDOT translates the shapes and flow edges into the dot engine's input:
// fixed-size box nodes with dimensions converted to inches and the flow
// direction mapped to rankdir.
func buildDOT(shapes []*model.Shape, g *flowgraph.Graph, dir Direction, names map[string]string) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir(dir))
	fmt.Fprintf(&buf, "  ranksep=%s;\n", formatInches(RankSep))
	fmt.Fprintf(&buf, "  nodesep=%s;\n", formatInches(NodeSep))
	buf.WriteString("  node [shape=box, fixedsize=true];\n")
	buf.WriteString("\n")

	for _, s := range shapes {
		sz := s.SizeOrDefault()
		fmt.Fprintf(&buf, "  %s [width=%s, height=%s];\n",
			names[s.ID], formatInches(sz.Width), formatInches(sz.Height))
	}

	buf.WriteString("\n")
	for _, s := range shapes {
		for _, succ := range g.Successors(s.ID) {
			to, ok := names[succ]
			if !ok {
				continue
			}
			fmt.Fprintf(&buf, "  %s -> %s;\n", names[s.ID], to)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// rankdir maps a flow direction to the dot engine's axis convention.
func rankdir(dir Direction) string {
	switch dir {
	case DirTopToBottom:
		return "TB"
	case DirRightToLeft:
		return "RL"
	case DirBottomToTop:
		return "BT"
	default:
		return "LR"
	}
}

func formatInches(px float64) string {
	return strconv.FormatFloat(px/pixelsPerInch, 'f', 4, 64)
}

// renderDOT runs the dot engine over the DOT source and returns the laid-out
// DOT output with pos attributes populated.
func renderDOT(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	parsed, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer parsed.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, parsed, graphviz.XDOT, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}

var (
	nodeStmtRe = regexp.MustCompile(`(?m)^\s*(n\d+)\s*\[([^\]]*)\]`)
	posAttrRe  = regexp.MustCompile(`pos="(-?[0-9.]+),(-?[0-9.]+)"`)
	dimAttrRe  = regexp.MustCompile(`(width|height)=("?)([0-9.]+)`)
)

// parsePositions extracts node positions from laid-out DOT output. The dot
// engine reports the node center in points; this converts each to the
// top-left corner in the engine's Y-up convention.
func parsePositions(out []byte) (map[string]model.Point, error) {
	// Joined continuation lines keep multi-line attribute lists matchable.
	text := strings.ReplaceAll(string(out), "\\\n", "")

	positions := make(map[string]model.Point)
	for _, stmt := range nodeStmtRe.FindAllStringSubmatch(text, -1) {
		name, attrs := stmt[1], stmt[2]

		pos := posAttrRe.FindStringSubmatch(attrs)
		if pos == nil {
			continue
		}
		cx, err := strconv.ParseFloat(pos[1], 64)
		if err != nil {
			return nil, fmt.Errorf("node %s: bad position: %w", name, err)
		}
		cy, err := strconv.ParseFloat(pos[2], 64)
		if err != nil {
			return nil, fmt.Errorf("node %s: bad position: %w", name, err)
		}

		var wPts, hPts float64
		for _, dim := range dimAttrRe.FindAllStringSubmatch(attrs, -1) {
			v, err := strconv.ParseFloat(dim[3], 64)
			if err != nil {
				continue
			}
			if dim[1] == "width" {
				wPts = v * pointsPerInch
			} else {
				hPts = v * pointsPerInch
			}
		}

		// Top-left in Y-up coordinates: the top edge is half a height above
		// the center.
		positions[name] = model.Point{X: cx - wPts/2, Y: cy + hPts/2}
	}
	if len(positions) == 0 {
		return nil, fmt.Errorf("no node positions in graphviz output")
	}
	return positions, nil
}

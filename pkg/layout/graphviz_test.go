package layout

import (
	"io"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/flowline-dev/flowline/pkg/flowgraph"
	"github.com/flowline-dev/flowline/pkg/model"
)

func discardLogger() *log.Logger { return log.New(io.Discard) }

func TestBuildDOT(t *testing.T) {
	m := chain("a", "b")
	g := flowgraph.Build(m, nil)
	names := map[string]string{"a": "n0", "b": "n1"}

	dot := buildDOT(m.Shapes, g, DirLeftToRight, names)

	if !strings.Contains(dot, "rankdir=LR") {
		t.Errorf("DOT should set rankdir=LR:\n%s", dot)
	}
	// Task default 120x80 px converts to 1.25x0.8333 inches.
	if !strings.Contains(dot, "n0 [width=1.2500, height=0.8333]") {
		t.Errorf("DOT should size nodes in inches:\n%s", dot)
	}
	if !strings.Contains(dot, "n0 -> n1") {
		t.Errorf("DOT should contain the flow edge:\n%s", dot)
	}
	if !strings.Contains(dot, "fixedsize=true") {
		t.Errorf("DOT should fix node sizes:\n%s", dot)
	}
}

func TestRankdir(t *testing.T) {
	tests := []struct {
		dir  Direction
		want string
	}{
		{DirLeftToRight, "LR"},
		{DirTopToBottom, "TB"},
		{DirRightToLeft, "RL"},
		{DirBottomToTop, "BT"},
	}
	for _, tt := range tests {
		if got := rankdir(tt.dir); got != tt.want {
			t.Errorf("rankdir(%s) = %s, want %s", tt.dir, got, tt.want)
		}
	}
}

func TestParsePositions(t *testing.T) {
	out := []byte(`digraph G {
	graph [bb="0,0,300,100"];
	n0	[height=0.5,
		pos="27,50",
		width=0.75];
	n1	[height=0.5, pos="150,50", width=0.75];
	n0 -> n1	[pos="e,122,50 54,50 74,50 96,50 112,50"];
}
`)

	got, err := parsePositions(out)
	if err != nil {
		t.Fatalf("parsePositions() error: %v", err)
	}

	if len(got) != 2 {
		t.Fatalf("parsed %d positions, want 2", len(got))
	}
	// Center (27,50) with a 0.75x0.5in node: top-left is 27-27=0, 50+18=68.
	if got["n0"].X != 0 || got["n0"].Y != 68 {
		t.Errorf("n0 = %v, want {0 68}", got["n0"])
	}
	if got["n1"].X != 150-27 {
		t.Errorf("n1.X = %v, want %v", got["n1"].X, 150-27)
	}
}

func TestParsePositions_NoPositions(t *testing.T) {
	if _, err := parsePositions([]byte("digraph G {}\n")); err == nil {
		t.Error("parsePositions() = nil error for output without positions")
	}
}

func TestGraphvizLayout_EmptyShapes(t *testing.T) {
	g := flowgraph.Build(&model.Model{}, nil)

	got, err := graphvizLayout(nil, g, DirLeftToRight, discardLogger())
	if err != nil {
		t.Fatalf("graphvizLayout() error: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("graphvizLayout() = %v, want empty", got)
	}
}

package dashboard

import (
	"math"
	"strconv"
)

// Cell is one tile in a panel.
type Cell struct {
	Label    string
	Fragment float64
	Density  float64
}

// Panel is a row of cells, optionally with nested panels below it.
type Panel struct {
	Caption string
	Prefix  string
	Depth   int
	Cells   []Cell
	Nested  []Panel
}

// CoreMetrics is the side readout shown at the final stage.
type CoreMetrics struct {
	Resonance    float64
	Observations int
	Stage        int
}

// Layout describes how the current stage is drawn.
type Layout struct {
	Stage   int
	Heading string
	Panels  []Panel

	// Progress is set from stage 2 only.
	ShowProgress bool
	Progress     float64

	// Core is non-nil at the final stage.
	Core *CoreMetrics
}

// Structure builds the layout for the session's current stage.
func (s *Session) Structure() Layout {
	l := Layout{Stage: s.Stage}

	switch s.Stage {
	case 0:
		l.Heading = "stage 0: primordial cell, a single frame observing itself"
		l.Panels = []Panel{s.panel("", "cell", 1, 0)}
	case 1:
		l.Heading = "stage 1: bidirectional branching, symmetry begins to break"
		l.Panels = []Panel{s.panel("", "branch", 2, 1)}
	case 2:
		l.Heading = "stage 2: triple segmentation into local clusters"
		l.Panels = []Panel{s.panel("", "node", 3, 2)}
		l.ShowProgress = true
		l.Progress = min(1, s.Resonance)
	case 3:
		l.Heading = "stage 3: multilayer transition, one phase layer per observation"
		p := s.panel("", "layer", 4, 3)
		p.Nested = []Panel{s.panel("secondary structure", "sublayer", 2, 4)}
		l.Panels = []Panel{p}
	default:
		l.Heading = "stage 4: non-stationary fractalisation"
		p := s.panel("", "limb", 5, 4)
		p.Nested = []Panel{
			s.panel("nested self-similarity", "inner-a-", 2, 5),
			s.panel("nested self-similarity", "inner-b-", 2, 6),
		}
		l.Panels = []Panel{p}
		l.Core = &CoreMetrics{
			Resonance:    s.Resonance,
			Observations: s.Observations,
			Stage:        s.Stage,
		}
	}
	return l
}

func (s *Session) panel(caption, prefix string, cols, depth int) Panel {
	cells := make([]Cell, cols)
	for i := range cells {
		idx := i + 1
		cells[i] = Cell{
			Label:    prefix + strconv.Itoa(idx),
			Fragment: fragment(s.Resonance, idx, cols, depth),
			Density:  math.Abs(math.Sin(float64(s.Observations+idx+depth) / densityDivisor)),
		}
	}
	return Panel{Caption: caption, Prefix: prefix, Depth: depth, Cells: cells}
}

// fragment is (resonance + idx/(cols+depth+1)) mod 1, kept in [0, 1).
func fragment(resonance float64, idx, cols, depth int) float64 {
	f := math.Mod(resonance+float64(idx)/float64(cols+depth+1), 1)
	if f < 0 {
		f++
	}
	return f
}

package game

import (
	"fmt"

	"github.com/samdwyer/tilenav/internal/navigation"
)

// signalLogSize is how many recent signals the status area shows.
const signalLogSize = 3

// signalLog is the viewer's signal bus: it keeps the latest signals as
// display lines and counts grid updates so the viewer knows when a flow
// field has gone stale.
type signalLog struct {
	lines       []string
	gridUpdates int
}

func (l *signalLog) emit(name string, payload any) {
	var line string
	switch p := payload.(type) {
	case navigation.GridUpdated:
		l.gridUpdates++
		line = "grid updated"
	case navigation.PathResolved:
		if p.Found {
			line = fmt.Sprintf("path (%d,%d)->(%d,%d) cost %d", p.Start.X, p.Start.Y, p.Goal.X, p.Goal.Y, p.Cost)
		} else {
			line = fmt.Sprintf("path (%d,%d)->(%d,%d) unreachable", p.Start.X, p.Start.Y, p.Goal.X, p.Goal.Y)
		}
	case navigation.FlowFieldResolved:
		line = fmt.Sprintf("flow field to (%d,%d) reaches %d tiles", p.Target.X, p.Target.Y, p.ReachableCount)
	default:
		line = name
	}
	l.lines = append(l.lines, line)
	if len(l.lines) > signalLogSize {
		l.lines = l.lines[len(l.lines)-signalLogSize:]
	}
}

// Lines returns the retained lines, oldest first.
func (l *signalLog) Lines() []string {
	return l.lines
}

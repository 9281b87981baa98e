// Package game provides the interactive navigation viewer: it loads a level
// into a navigation service, steers agents with its answers, and renders
// the result.
package game

// Mode selects how agents are steered.
type Mode int

const (
	// ModePath gives every agent its own A* route to the goal.
	ModePath Mode = iota
	// ModeFlow has all agents descend one shared flow field.
	ModeFlow
)

// String returns a human-readable mode name.
func (m Mode) String() string {
	switch m {
	case ModePath:
		return "path"
	case ModeFlow:
		return "flow"
	default:
		return "unknown"
	}
}

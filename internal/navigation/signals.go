package navigation

import "github.com/samdwyer/tilenav/internal/world"

// Signal names published through the Emitter.
const (
	GridUpdatedSignal       = "NAVIGATION_GRID_UPDATED_SIGNAL"
	PathResolvedSignal      = "NAVIGATION_PATH_RESOLVED_SIGNAL"
	FlowFieldResolvedSignal = "NAVIGATION_FLOW_FIELD_RESOLVED_SIGNAL"
)

// Emitter publishes a named signal. The service only publishes; delivery,
// fan-out and subscription belong to whatever bus the caller injects.
type Emitter func(name string, payload any)

// GridUpdated is the payload of GridUpdatedSignal.
type GridUpdated struct{}

// PathResolved is the payload of PathResolvedSignal. Nodes is the caller's
// copy; the service does not retain it.
type PathResolved struct {
	Start world.Point
	Goal  world.Point
	Found bool
	Nodes []world.Point
	Cost  int
}

// FlowFieldResolved is the payload of FlowFieldResolvedSignal.
type FlowFieldResolved struct {
	Target         world.Point
	ReachableCount int
}

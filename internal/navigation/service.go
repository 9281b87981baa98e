// Package navigation is the façade over the grid model, coordinate mapper,
// A* pathfinder and flow-field builder. A Service owns one level's grid and
// blockers exclusively; run one Service per loaded level.
//
// Every mutation publishes GridUpdatedSignal once and every query publishes
// its resolved signal, failures included. A Service is synchronous and not
// safe for concurrent use.
package navigation

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/tilenav/internal/pathfind"
	"github.com/samdwyer/tilenav/internal/telemetry"
	"github.com/samdwyer/tilenav/internal/world"
)

// Snapshot reports grid state for diagnostics and tests.
type Snapshot struct {
	Width          int
	Height         int
	DynamicBlocked int
}

// Option configures a Service.
type Option func(*Service)

// WithTracer overrides the tracer used for query spans.
func WithTracer(tracer trace.Tracer) Option {
	return func(s *Service) { s.tracer = tracer }
}

// Service answers path and flow-field queries over a single grid.
type Service struct {
	grid   *world.Model
	mapper *world.Mapper
	emit   Emitter
	tracer trace.Tracer
}

// NewService creates a service with an empty grid. A nil emit discards
// signals.
func NewService(emit Emitter, opts ...Option) *Service {
	if emit == nil {
		emit = func(string, any) {}
	}
	s := &Service{
		grid:   world.NewModel(),
		mapper: world.NewMapper(),
		emit:   emit,
		tracer: telemetry.Tracer("navigation"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetGrid replaces the grid and drops all dynamic blockers. A malformed grid
// is rejected with an error wrapping world.ErrInvalidGrid and no signal.
func (s *Service) SetGrid(g world.Grid) error {
	if err := s.grid.SetGrid(g); err != nil {
		return err
	}
	s.gridUpdated()
	return nil
}

// SetWalkableTileValues replaces the set of passable terrain codes.
func (s *Service) SetWalkableTileValues(values ...int) {
	s.grid.SetWalkableTileValues(values...)
	s.gridUpdated()
}

// SetWorldConfig replaces tile size, origin and default anchor.
func (s *Service) SetWorldConfig(cfg world.WorldConfig) error {
	if err := s.mapper.SetWorldConfig(cfg); err != nil {
		return err
	}
	s.gridUpdated()
	return nil
}

// SetDynamicBlocker sets or clears a runtime blocker. Out-of-bounds tiles
// return false and publish nothing.
func (s *Service) SetDynamicBlocker(x, y int, blocked bool) bool {
	if !s.grid.SetDynamicBlocker(x, y, blocked) {
		return false
	}
	s.gridUpdated()
	return true
}

// ClearDynamicBlockers removes every blocker with a single signal.
func (s *Service) ClearDynamicBlockers() {
	s.grid.ClearDynamicBlockers()
	s.gridUpdated()
}

// IsWalkable reports effective walkability of a tile.
func (s *Service) IsWalkable(x, y int) bool {
	return s.grid.IsWalkable(x, y)
}

// IsBlocked reports whether a tile carries a dynamic blocker.
func (s *Service) IsBlocked(x, y int) bool {
	return s.grid.IsBlocked(x, y)
}

// TileAt returns the terrain code of a tile.
func (s *Service) TileAt(x, y int) (int, bool) {
	return s.grid.TileAt(x, y)
}

// ClosestWalkable returns the nearest walkable tile to p by grid distance.
func (s *Service) ClosestWalkable(p world.Point) (world.Point, bool) {
	return s.grid.ClosestWalkable(p)
}

// FindPath returns the shortest 4-directional path between two walkable
// tiles. ctx is used for tracing only; the search always runs to completion.
func (s *Service) FindPath(ctx context.Context, start, goal world.Point) pathfind.PathResult {
	_, span := s.tracer.Start(ctx, "navigation.find_path")
	defer span.End()

	res := pathfind.FindPath(s.grid, start, goal)

	span.SetAttributes(
		attribute.Int("path.start_x", start.X),
		attribute.Int("path.start_y", start.Y),
		attribute.Int("path.goal_x", goal.X),
		attribute.Int("path.goal_y", goal.Y),
		attribute.Bool("path.found", res.Found),
		attribute.Int("path.cost", res.Cost),
	)

	nodes := make([]world.Point, len(res.Nodes))
	copy(nodes, res.Nodes)
	s.emit(PathResolvedSignal, PathResolved{
		Start: start,
		Goal:  goal,
		Found: res.Found,
		Nodes: nodes,
		Cost:  res.Cost,
	})
	return res
}

// FindWorldPath maps both world points to tiles and runs FindPath. The
// returned waypoints are the world positions of every node under the
// configured anchor.
func (s *Service) FindWorldPath(ctx context.Context, from, to world.Vec2) (pathfind.PathResult, []world.Vec2) {
	start := s.mapper.WorldToTile(from.X, from.Y)
	goal := s.mapper.WorldToTile(to.X, to.Y)
	res := s.FindPath(ctx, start, goal)
	waypoints := make([]world.Vec2, 0, len(res.Nodes))
	for _, n := range res.Nodes {
		waypoints = append(waypoints, s.mapper.TileToWorld(n.X, n.Y))
	}
	return res, waypoints
}

// BuildFlowField computes step distances to target for every reachable tile.
func (s *Service) BuildFlowField(ctx context.Context, target world.Point) *pathfind.FlowField {
	_, span := s.tracer.Start(ctx, "navigation.build_flow_field")
	defer span.End()

	field := pathfind.BuildFlowField(s.grid, target)

	span.SetAttributes(
		attribute.Int("flow.target_x", target.X),
		attribute.Int("flow.target_y", target.Y),
		attribute.Int("flow.reachable", field.ReachableCount()),
	)

	s.emit(FlowFieldResolvedSignal, FlowFieldResolved{
		Target:         target,
		ReachableCount: field.ReachableCount(),
	})
	return field
}

// NextFlowStep returns the next hop toward the field's target, false when
// pos has no entry or is the target.
func (s *Service) NextFlowStep(field *pathfind.FlowField, pos world.Point) (world.Point, bool) {
	return pathfind.NextFlowStep(field, pos)
}

// WorldToTile converts a world position to the tile containing it.
func (s *Service) WorldToTile(wx, wy float64) world.Point {
	return s.mapper.WorldToTile(wx, wy)
}

// TileToWorld converts a tile to world space using the configured anchor.
func (s *Service) TileToWorld(tx, ty int) world.Vec2 {
	return s.mapper.TileToWorld(tx, ty)
}

// TileToWorldAnchored converts a tile using anchor for this call only.
func (s *Service) TileToWorldAnchored(tx, ty int, anchor world.Anchor) world.Vec2 {
	return s.mapper.TileToWorldAnchored(tx, ty, anchor)
}

// WorldConfig returns the current world configuration.
func (s *Service) WorldConfig() world.WorldConfig {
	return s.mapper.Config()
}

// Snapshot reports width, height and the dynamic blocker count.
func (s *Service) Snapshot() Snapshot {
	return Snapshot{
		Width:          s.grid.Width(),
		Height:         s.grid.Height(),
		DynamicBlocked: s.grid.BlockedCount(),
	}
}

func (s *Service) gridUpdated() {
	s.emit(GridUpdatedSignal, GridUpdated{})
}

package game

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/gdamore/tcell/v2"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tilenav/internal/entity"
	"github.com/samdwyer/tilenav/internal/level"
	"github.com/samdwyer/tilenav/internal/navigation"
	"github.com/samdwyer/tilenav/internal/pathfind"
	"github.com/samdwyer/tilenav/internal/telemetry"
	"github.com/samdwyer/tilenav/internal/ui"
	"github.com/samdwyer/tilenav/internal/world"
)

const helpLine = "arrows/click: cursor  g: goal  m: mode  b: blocker  c: clear  space: step  v: arrows  n: next  q: quit"

// Game holds the viewer state. All navigation calls happen on the event
// loop goroutine.
type Game struct {
	screen   *ui.Screen
	renderer *ui.Renderer
	cfg      Config
	registry *level.Registry
	nav      *navigation.Service
	signals  *signalLog
	watcher  *level.Watcher

	level     *level.Level
	levelPath string // set when the level came from disk
	colors    map[int]tcell.Color
	agents    []*entity.Agent

	mode       Mode
	goal       world.Point
	hasGoal    bool
	field      *pathfind.FlowField
	fieldStamp int // signals.gridUpdates when field was built
	showField  bool
	cursor     world.Point
	message    string
	running    bool
}

// New creates a viewer bound to the terminal.
func New(cfg Config) (*Game, error) {
	g, err := newGame(cfg)
	if err != nil {
		return nil, err
	}
	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}
	g.screen = screen
	g.renderer = ui.NewRenderer(screen)
	return g, nil
}

func newGame(cfg Config) (*Game, error) {
	registry, err := level.LoadBuiltinRegistry()
	if err != nil {
		return nil, err
	}
	signals := &signalLog{}
	return &Game{
		cfg:       cfg,
		registry:  registry,
		nav:       navigation.NewService(signals.emit),
		signals:   signals,
		mode:      ModePath,
		showField: true,
		running:   true,
	}, nil
}

// Run loads the configured level and executes the event loop until quit.
func (g *Game) Run(ctx context.Context) error {
	defer g.Close()

	tracer := telemetry.Tracer("game")
	ctx, initSpan := tracer.Start(ctx, "game.init")

	lvl, path, err := g.resolveLevel(ctx)
	if err == nil {
		err = g.loadLevel(ctx, lvl)
	}
	if err != nil {
		initSpan.End()
		return err
	}
	g.levelPath = path
	if g.cfg.Watch && path != "" {
		g.startWatcher(path)
	}

	snap := g.nav.Snapshot()
	initSpan.SetAttributes(
		attribute.String("level.id", lvl.ID),
		attribute.Int("level.width", snap.Width),
		attribute.Int("level.height", snap.Height),
		attribute.Int("level.agents", len(g.agents)),
	)
	initSpan.End()

	for g.running {
		g.render()
		g.handleEvent(ctx, g.screen.PollEvent())
	}
	return nil
}

// Close releases the watcher and the terminal.
func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
		g.watcher = nil
	}
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}

// resolveLevel returns the configured level and, for file-backed levels,
// its path.
func (g *Game) resolveLevel(ctx context.Context) (*level.Level, string, error) {
	switch id := g.cfg.Level; id {
	case "":
		return g.registry.GetByID(g.registry.IDs()[0]), "", nil
	case GenerateLevel:
		d := world.GenerateDungeon(ctx, world.DefaultWidth, world.DefaultHeight, g.cfg.Seed)
		return level.FromDungeon("generated", d), "", nil
	default:
		if lvl := g.registry.GetByID(id); lvl != nil {
			return lvl, "", nil
		}
		lvl, err := level.LoadFile(ctx, id)
		if err != nil {
			return nil, "", err
		}
		return lvl, id, nil
	}
}

// loadLevel pushes a level into the navigation service and respawns agents.
func (g *Game) loadLevel(ctx context.Context, lvl *level.Level) error {
	_, span := telemetry.Tracer("game").Start(ctx, "game.load_level")
	defer span.End()

	grid, err := lvl.Grid()
	if err != nil {
		return err
	}
	cfg, err := lvl.WorldConfig()
	if err != nil {
		return err
	}
	colors, err := lvl.Colors()
	if err != nil {
		return err
	}

	if err := g.nav.SetGrid(grid); err != nil {
		return err
	}
	g.nav.SetWalkableTileValues(lvl.WalkableValues()...)
	if err := g.nav.SetWorldConfig(cfg); err != nil {
		return err
	}

	g.level = lvl
	g.colors = colors
	g.agents = g.agents[:0]
	for i, s := range lvl.Agents {
		g.agents = append(g.agents, entity.NewAgent(i, s.Point()))
	}
	g.hasGoal = false
	g.field = nil
	g.cursor = world.Point{}
	if len(g.agents) > 0 {
		g.cursor = g.agents[0].Position()
	}
	g.message = "loaded " + lvl.Name

	span.SetAttributes(attribute.String("level.id", lvl.ID), attribute.Int("level.agents", len(g.agents)))
	return nil
}

func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKeyEvent(ctx, ev)
	case *tcell.EventMouse:
		if ev.Buttons()&tcell.Button1 != 0 {
			g.cursor = g.cellToTile(ev.Position())
		}
	case *tcell.EventResize:
		if g.screen != nil {
			g.screen.Sync()
		}
	case *tcell.EventInterrupt:
		switch data := ev.Data().(type) {
		case string:
			g.reload(ctx, data)
		case error:
			g.message = "watch: " + data.Error()
		}
	}
}

func (g *Game) handleKeyEvent(ctx context.Context, ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		g.running = false
	case tcell.KeyUp:
		g.moveCursor(0, -1)
	case tcell.KeyDown:
		g.moveCursor(0, 1)
	case tcell.KeyLeft:
		g.moveCursor(-1, 0)
	case tcell.KeyRight:
		g.moveCursor(1, 0)
	case tcell.KeyEnter:
		g.setGoal(ctx, g.cursor)
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q', 'Q':
			g.running = false
		case 'g':
			g.setGoal(ctx, g.cursor)
		case 'm':
			g.toggleMode(ctx)
		case 'b':
			g.toggleBlocker()
		case 'c':
			g.nav.ClearDynamicBlockers()
		case ' ':
			g.tick(ctx)
		case 'v':
			g.showField = !g.showField
		case 'n':
			g.nextLevel(ctx)
		}
	}
}

func (g *Game) moveCursor(dx, dy int) {
	snap := g.nav.Snapshot()
	x := min(max(g.cursor.X+dx, 0), snap.Width-1)
	y := min(max(g.cursor.Y+dy, 0), snap.Height-1)
	g.cursor = world.Point{X: x, Y: y}
}

// cellToTile maps a terminal cell to a tile through world space: the cell
// centre is taken as a world position one tile wide.
func (g *Game) cellToTile(cx, cy int) world.Point {
	cfg := g.nav.WorldConfig()
	wx := cfg.OriginX + (float64(cx)+0.5)*cfg.TileWidth
	wy := cfg.OriginY + (float64(cy)+0.5)*cfg.TileHeight
	return g.nav.WorldToTile(wx, wy)
}

// setGoal snaps p to the nearest walkable tile and replans every agent.
func (g *Game) setGoal(ctx context.Context, p world.Point) {
	goal, ok := g.nav.ClosestWalkable(p)
	if !ok {
		g.message = fmt.Sprintf("no walkable tile near (%d,%d)", p.X, p.Y)
		return
	}
	g.goal = goal
	g.hasGoal = true
	g.plan(ctx)
}

func (g *Game) plan(ctx context.Context) {
	if !g.hasGoal {
		return
	}
	switch g.mode {
	case ModePath:
		g.field = nil
		for _, a := range g.agents {
			a.SetRoute(g.nav.FindPath(ctx, a.Position(), g.goal))
		}
	case ModeFlow:
		for _, a := range g.agents {
			a.SetRoute(pathfind.PathResult{})
		}
		g.field = g.nav.BuildFlowField(ctx, g.goal)
		g.fieldStamp = g.signals.gridUpdates
	}
}

func (g *Game) toggleMode(ctx context.Context) {
	if g.mode == ModePath {
		g.mode = ModeFlow
	} else {
		g.mode = ModePath
	}
	g.plan(ctx)
}

func (g *Game) toggleBlocker() {
	p := g.cursor
	g.nav.SetDynamicBlocker(p.X, p.Y, !g.nav.IsBlocked(p.X, p.Y))
}

// tick advances every agent by one tile. Flow fields are rebuilt only when
// the grid changed since they were built; stalled path agents repath.
func (g *Game) tick(ctx context.Context) {
	if !g.hasGoal {
		return
	}
	if g.mode == ModeFlow && (g.field == nil || g.fieldStamp != g.signals.gridUpdates) {
		g.plan(ctx)
	}
	for _, a := range g.agents {
		switch g.mode {
		case ModePath:
			if _, stalled := a.StepRoute(g.nav.IsWalkable); stalled {
				a.SetRoute(g.nav.FindPath(ctx, a.Position(), g.goal))
			}
		case ModeFlow:
			a.StepFlow(g.field, g.nav.IsWalkable)
		}
	}
}

func (g *Game) nextLevel(ctx context.Context) {
	id := ""
	if g.level != nil {
		id = g.level.ID
	}
	next := g.registry.Next(id)
	if next == nil {
		return
	}
	if err := g.loadLevel(ctx, next); err != nil {
		g.message = err.Error()
		return
	}
	g.levelPath = ""
}

// reload re-reads the file-backed level when the watcher reports it.
func (g *Game) reload(ctx context.Context, name string) {
	if g.levelPath == "" || filepath.Base(name) != filepath.Base(g.levelPath) {
		return
	}
	lvl, err := level.LoadFile(ctx, g.levelPath)
	if err != nil {
		g.message = err.Error()
		return
	}
	if err := g.loadLevel(ctx, lvl); err != nil {
		g.message = err.Error()
	}
}

func (g *Game) startWatcher(path string) {
	w, err := level.NewWatcher(filepath.Dir(path))
	if err != nil {
		g.message = "watch: " + err.Error()
		return
	}
	g.watcher = w
	screen := g.screen
	go func() {
		for name := range w.Events {
			_ = screen.PostEvent(tcell.NewEventInterrupt(name))
		}
	}()
	go func() {
		for err := range w.Errors {
			_ = screen.PostEvent(tcell.NewEventInterrupt(err))
		}
	}()
}

func (g *Game) statusLines() []string {
	snap := g.nav.Snapshot()
	pos := g.nav.TileToWorld(g.cursor.X, g.cursor.Y)
	lines := []string{
		fmt.Sprintf("%s  mode %s  cursor (%d,%d) world (%.1f,%.1f)  blockers %d",
			g.level.Name, g.mode, g.cursor.X, g.cursor.Y, pos.X, pos.Y, snap.DynamicBlocked),
		helpLine,
	}
	lines = append(lines, g.signals.Lines()...)
	if g.message != "" {
		lines = append(lines, g.message)
	}
	return lines
}

func (g *Game) frame() ui.Frame {
	snap := g.nav.Snapshot()
	routes := make([][]world.Point, 0, len(g.agents))
	for _, a := range g.agents {
		route := a.Route()
		if g.mode == ModeFlow && g.field != nil {
			route = g.field.Trace(a.Position(), 0)
		}
		if len(route) > 0 {
			routes = append(routes, route)
		}
	}
	return ui.Frame{
		Width:     snap.Width,
		Height:    snap.Height,
		Grid:      g.nav,
		Colors:    g.colors,
		Agents:    g.agents,
		Routes:    routes,
		Field:     g.field,
		ShowField: g.showField && g.mode == ModeFlow,
		Cursor:    g.cursor,
		Status:    g.statusLines(),
	}
}

func (g *Game) render() {
	if g.renderer == nil {
		return
	}
	g.renderer.Render(g.frame())
}

package level

import (
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/samdwyer/tilenav/internal/world"
)

// ErrInvalidLevel is wrapped by every validation failure.
var ErrInvalidLevel = errors.New("invalid level")

// DefaultLegend maps the characters used by built-in levels.
var DefaultLegend = map[string]int{
	".": world.TileFloor,
	"#": world.TileWall,
	"~": world.TileWater,
}

// Level is one YAML level document.
type Level struct {
	ID       string         `yaml:"id"`       // Unique identifier (e.g., "corridor")
	Name     string         `yaml:"name"`     // Display name
	Legend   map[string]int `yaml:"legend"`   // Row character -> terrain code; DefaultLegend if empty
	Walkable []int          `yaml:"walkable"` // Passable codes; {0} if empty
	World    WorldSpec      `yaml:"world"`
	Palette  map[int]string `yaml:"palette"` // Terrain code -> hex colour
	Agents   []Spawn        `yaml:"agents"`
	Rows     []string       `yaml:"rows"`
}

// WorldSpec is the YAML form of world.WorldConfig. Zero tile sizes default
// to 1.
type WorldSpec struct {
	TileWidth  float64 `yaml:"tile_width"`
	TileHeight float64 `yaml:"tile_height"`
	OriginX    float64 `yaml:"origin_x"`
	OriginY    float64 `yaml:"origin_y"`
	Anchor     string  `yaml:"anchor"`
}

// Spawn is an agent start tile.
type Spawn struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Point returns the spawn as a tile coordinate.
func (s Spawn) Point() world.Point {
	return world.Point{X: s.X, Y: s.Y}
}

// Width returns the row length in tiles.
func (l *Level) Width() int {
	if len(l.Rows) == 0 {
		return 0
	}
	return utf8.RuneCountInString(l.Rows[0])
}

// Height returns the number of rows.
func (l *Level) Height() int {
	return len(l.Rows)
}

// Validate checks that the rows decode into a well-formed grid, the world
// config is usable, and every spawn is walkable.
func (l *Level) Validate() error {
	if l.ID == "" {
		return fmt.Errorf("%w: missing id", ErrInvalidLevel)
	}
	g, err := l.Grid()
	if err != nil {
		return err
	}
	if _, err := l.WorldConfig(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	if _, err := l.Colors(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}

	m := world.NewModel()
	if err := m.SetGrid(g); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	m.SetWalkableTileValues(l.WalkableValues()...)
	for i, s := range l.Agents {
		if !m.IsWalkable(s.X, s.Y) {
			return fmt.Errorf("%w: agent %d spawns on unwalkable tile (%d,%d)", ErrInvalidLevel, i, s.X, s.Y)
		}
	}
	return nil
}

// Grid decodes the rows through the legend.
func (l *Level) Grid() (world.Grid, error) {
	legend := l.Legend
	if len(legend) == 0 {
		legend = DefaultLegend
	}

	g := world.Grid{Width: l.Width(), Height: l.Height(), Tiles: make([][]int, len(l.Rows))}
	for y, row := range l.Rows {
		tiles := make([]int, 0, g.Width)
		for x, ch := range []rune(row) {
			code, ok := legend[string(ch)]
			if !ok {
				return world.Grid{}, fmt.Errorf("%w: unknown tile %q at (%d,%d)", ErrInvalidLevel, ch, x, y)
			}
			tiles = append(tiles, code)
		}
		g.Tiles[y] = tiles
	}
	if err := g.Validate(); err != nil {
		return world.Grid{}, fmt.Errorf("%w: %w", ErrInvalidLevel, err)
	}
	return g, nil
}

// WalkableValues returns the passable codes, defaulting to {TileFloor}.
func (l *Level) WalkableValues() []int {
	if len(l.Walkable) == 0 {
		return []int{world.TileFloor}
	}
	return l.Walkable
}

// WorldConfig converts the world section.
func (l *Level) WorldConfig() (world.WorldConfig, error) {
	anchor, err := world.ParseAnchor(l.World.Anchor)
	if err != nil {
		return world.WorldConfig{}, err
	}
	cfg := world.WorldConfig{
		TileWidth:  l.World.TileWidth,
		TileHeight: l.World.TileHeight,
		OriginX:    l.World.OriginX,
		OriginY:    l.World.OriginY,
		Anchor:     anchor,
	}
	if cfg.TileWidth == 0 {
		cfg.TileWidth = 1
	}
	if cfg.TileHeight == 0 {
		cfg.TileHeight = 1
	}
	return cfg, cfg.Validate()
}

// FromDungeon wraps a generated dungeon as a level with one agent per room.
func FromDungeon(id string, d *world.Dungeon) *Level {
	rows := make([]string, d.Height)
	for y, line := range d.Tiles {
		buf := make([]rune, len(line))
		for x, code := range line {
			buf[x] = legendRune(code)
		}
		rows[y] = string(buf)
	}
	lvl := &Level{
		ID:       id,
		Name:     "Generated dungeon",
		Legend:   DefaultLegend,
		Walkable: []int{world.TileFloor},
		Rows:     rows,
	}
	for i := range d.Rooms {
		if p, ok := d.RandomFloorInRoom(i); ok {
			lvl.Agents = append(lvl.Agents, Spawn{X: p.X, Y: p.Y})
		}
	}
	return lvl
}

func legendRune(code int) rune {
	for k, v := range DefaultLegend {
		if v == code {
			r, _ := utf8.DecodeRuneInString(k)
			return r
		}
	}
	return '#'
}

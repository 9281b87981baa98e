package world

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidWorldConfig is returned when a tile dimension is not positive.
var ErrInvalidWorldConfig = errors.New("invalid world config")

// Anchor selects the reference point inside a tile for tile-to-world
// conversion.
type Anchor int

const (
	// AnchorCenter maps a tile to its centre. It is the default.
	AnchorCenter Anchor = iota
	// AnchorTopLeft maps a tile to its top-left corner.
	AnchorTopLeft
)

// String returns the anchor name used in level files.
func (a Anchor) String() string {
	switch a {
	case AnchorCenter:
		return "center"
	case AnchorTopLeft:
		return "top-left"
	default:
		return "unknown"
	}
}

// ParseAnchor converts a level-file anchor name. An empty name is center.
func ParseAnchor(s string) (Anchor, error) {
	switch s {
	case "", "center":
		return AnchorCenter, nil
	case "top-left":
		return AnchorTopLeft, nil
	default:
		return AnchorCenter, fmt.Errorf("%w: unknown anchor %q", ErrInvalidWorldConfig, s)
	}
}

// WorldConfig describes tile size and origin in world units.
type WorldConfig struct {
	TileWidth  float64
	TileHeight float64
	OriginX    float64
	OriginY    float64
	Anchor     Anchor
}

// DefaultWorldConfig is one world unit per tile at the origin, centre anchored.
func DefaultWorldConfig() WorldConfig {
	return WorldConfig{TileWidth: 1, TileHeight: 1, Anchor: AnchorCenter}
}

// Validate rejects non-positive tile dimensions.
func (c WorldConfig) Validate() error {
	if !(c.TileWidth > 0) || !(c.TileHeight > 0) {
		return fmt.Errorf("%w: tile size %gx%g must be positive", ErrInvalidWorldConfig, c.TileWidth, c.TileHeight)
	}
	return nil
}

// Mapper converts between tile indices and world coordinates.
type Mapper struct {
	cfg WorldConfig
}

// NewMapper creates a mapper with DefaultWorldConfig.
func NewMapper() *Mapper {
	return &Mapper{cfg: DefaultWorldConfig()}
}

// SetWorldConfig replaces the configuration.
func (m *Mapper) SetWorldConfig(cfg WorldConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	m.cfg = cfg
	return nil
}

// Config returns the current configuration.
func (m *Mapper) Config() WorldConfig {
	return m.cfg
}

// WorldToTile returns the tile containing the world point (wx, wy).
func (m *Mapper) WorldToTile(wx, wy float64) Point {
	return Point{
		X: int(math.Floor((wx - m.cfg.OriginX) / m.cfg.TileWidth)),
		Y: int(math.Floor((wy - m.cfg.OriginY) / m.cfg.TileHeight)),
	}
}

// TileToWorld converts a tile to world space using the configured anchor.
func (m *Mapper) TileToWorld(tx, ty int) Vec2 {
	return m.TileToWorldAnchored(tx, ty, m.cfg.Anchor)
}

// TileToWorldAnchored converts a tile to world space using anchor instead
// of the configured one.
func (m *Mapper) TileToWorldAnchored(tx, ty int, anchor Anchor) Vec2 {
	v := Vec2{
		X: m.cfg.OriginX + float64(tx)*m.cfg.TileWidth,
		Y: m.cfg.OriginY + float64(ty)*m.cfg.TileHeight,
	}
	if anchor == AnchorCenter {
		v.X += m.cfg.TileWidth / 2
		v.Y += m.cfg.TileHeight / 2
	}
	return v
}

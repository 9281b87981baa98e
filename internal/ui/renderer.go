package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/tilenav/internal/entity"
	"github.com/samdwyer/tilenav/internal/pathfind"
	"github.com/samdwyer/tilenav/internal/world"
)

// Grid is the read side of the navigation service the renderer needs.
type Grid interface {
	TileAt(x, y int) (int, bool)
	IsBlocked(x, y int) bool
}

// Frame is everything drawn in one pass. The grid occupies the top-left of
// the screen at one cell per tile; status lines follow below it.
type Frame struct {
	Width, Height int
	Grid          Grid
	Colors        map[int]tcell.Color
	Agents        []*entity.Agent
	Routes        [][]world.Point
	Field         *pathfind.FlowField
	ShowField     bool
	Cursor        world.Point
	Status        []string
}

// Arrows indexed like world.Cardinal.
var flowArrows = [4]rune{'↑', '→', '↓', '←'}

// Renderer handles drawing frames to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

// Render draws a frame and flushes it.
func (r *Renderer) Render(f Frame) {
	r.screen.Clear()

	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			code, _ := f.Grid.TileAt(x, y)
			ch, style := tileCell(code, f.Colors)
			if f.ShowField {
				if arrow, ok := flowArrow(f.Field, world.Point{X: x, Y: y}); ok {
					ch = arrow
					style = style.Foreground(tcell.ColorTeal)
				}
			}
			if f.Grid.IsBlocked(x, y) {
				ch = 'X'
				style = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
			}
			r.screen.SetContent(x, y, ch, style)
		}
	}

	routeStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow)
	for _, route := range f.Routes {
		for _, p := range route {
			r.screen.SetContent(p.X, p.Y, '*', routeStyle)
		}
	}

	if f.Field != nil && f.Field.ReachableCount() > 0 {
		t := f.Field.Target
		r.screen.SetContent(t.X, t.Y, '@', tcell.StyleDefault.Foreground(tcell.ColorFuchsia).Bold(true))
	}

	agentStyle := tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	for _, a := range f.Agents {
		r.screen.SetContent(a.X, a.Y, a.Symbol, agentStyle)
	}

	r.drawCursor(f)

	for i, line := range f.Status {
		r.RenderMessage(line, f.Height+1+i)
	}

	r.screen.Show()
}

// RenderMessage displays a message on row y.
func (r *Renderer) RenderMessage(msg string, y int) {
	style := tcell.StyleDefault.Foreground(tcell.ColorWhite)
	for i, ch := range []rune(msg) {
		r.screen.SetContent(i, y, ch, style)
	}
}

func (r *Renderer) drawCursor(f Frame) {
	c := f.Cursor
	if c.X < 0 || c.Y < 0 || c.X >= f.Width || c.Y >= f.Height {
		return
	}
	ch, style, _ := r.cellAt(c.X, c.Y)
	r.screen.SetContent(c.X, c.Y, ch, style.Reverse(true))
}

func (r *Renderer) cellAt(x, y int) (rune, tcell.Style, int) {
	ch, _, style, width := r.screen.screen.GetContent(x, y)
	return ch, style, width
}

// tileCell picks glyph and style for a terrain code. Palette colours
// override the defaults.
func tileCell(code int, colors map[int]tcell.Color) (rune, tcell.Style) {
	var ch rune
	style := tcell.StyleDefault
	switch code {
	case world.TileFloor:
		ch, style = '.', style.Foreground(tcell.ColorGray)
	case world.TileWall:
		ch, style = '#', style.Foreground(tcell.ColorDarkGray)
	case world.TileWater:
		ch, style = '~', style.Foreground(tcell.ColorBlue)
	default:
		ch = rune('0' + code%10)
	}
	if c, ok := colors[code]; ok {
		style = style.Foreground(c)
	}
	return ch, style
}

func flowArrow(field *pathfind.FlowField, p world.Point) (rune, bool) {
	next, ok := pathfind.NextFlowStep(field, p)
	if !ok {
		return 0, false
	}
	for i, d := range world.Cardinal {
		if p.Add(d) == next {
			return flowArrows[i], true
		}
	}
	return 0, false
}

package world

import (
	"context"
	"math/rand"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/tilenav/internal/telemetry"
)

const (
	// Default generated dungeon dimensions
	DefaultWidth  = 80
	DefaultHeight = 22

	// BSP parameters
	minRoomSize = 5
	maxRoomSize = 14
	minLeafSize = 8

	// Rooms at least this large in both axes get a water pool in the middle
	poolRoomSize = 9
)

// Dungeon is a BSP-generated tile matrix. It stands in for an external level
// generator: the navigation core only ever sees the Grid it produces.
type Dungeon struct {
	Width  int
	Height int
	Tiles  [][]int
	Rooms  []Room
	rng    *rand.Rand
}

// NewDungeon creates a dungeon filled with walls. A nil rng seeds from the
// clock.
func NewDungeon(width, height int, rng *rand.Rand) *Dungeon {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Dungeon{
		Width:  width,
		Height: height,
		Tiles:  NewGrid(width, height, TileWall).Tiles,
		Rooms:  make([]Room, 0),
		rng:    rng,
	}
}

// GenerateDungeon builds a dungeon from seed and returns it. A seed of 0
// uses a clock seed.
func GenerateDungeon(ctx context.Context, width, height int, seed int64) *Dungeon {
	var rng *rand.Rand
	if seed != 0 {
		rng = rand.New(rand.NewSource(seed))
	}
	d := NewDungeon(width, height, rng)
	d.Generate(ctx)
	return d
}

// Generate carves rooms and corridors using binary space partitioning.
func (d *Dungeon) Generate(ctx context.Context) {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "dungeon.generate")
	defer span.End()

	startTime := time.Now()

	root := &bspNode{
		x:      1,
		y:      1,
		width:  d.Width - 2,
		height: d.Height - 2,
	}

	d.splitNode(root)
	d.createRooms(root)
	d.connectRooms(root)

	span.SetAttributes(
		attribute.Int("dungeon.width", d.Width),
		attribute.Int("dungeon.height", d.Height),
		attribute.Int("dungeon.room_count", len(d.Rooms)),
		attribute.Int64("dungeon.generation_ms", time.Since(startTime).Milliseconds()),
	)
}

// Grid returns the generated tiles as a navigation grid.
func (d *Dungeon) Grid() Grid {
	return Grid{Width: d.Width, Height: d.Height, Tiles: d.Tiles}
}

// RandomFloorInRoom returns a random floor tile inside the room, falling back
// to the room centre.
func (d *Dungeon) RandomFloorInRoom(roomIndex int) (Point, bool) {
	if roomIndex < 0 || roomIndex >= len(d.Rooms) {
		return Point{}, false
	}
	room := d.Rooms[roomIndex]
	for i := 0; i < 100; i++ {
		x := room.X + d.rng.Intn(room.Width)
		y := room.Y + d.rng.Intn(room.Height)
		if d.Tiles[y][x] == TileFloor {
			return Point{X: x, Y: y}, true
		}
	}
	x, y := room.Center()
	return Point{X: x, Y: y}, d.Tiles[y][x] == TileFloor
}

type bspNode struct {
	x, y          int
	width, height int
	left, right   *bspNode
	room          *Room
}

func (n *bspNode) isLeaf() bool {
	return n.left == nil && n.right == nil
}

func (d *Dungeon) splitNode(node *bspNode) {
	if node.width < minLeafSize*2 && node.height < minLeafSize*2 {
		return
	}

	var splitHorizontally bool
	if node.width > node.height && node.width >= minLeafSize*2 {
		splitHorizontally = false
	} else if node.height >= minLeafSize*2 {
		splitHorizontally = true
	} else if node.width >= minLeafSize*2 {
		splitHorizontally = false
	} else {
		return
	}

	extent := node.width
	if splitHorizontally {
		extent = node.height
	}
	lo, hi := minLeafSize, extent-minLeafSize
	if hi <= lo {
		return
	}
	splitPos := lo + d.rng.Intn(hi-lo+1)

	if splitHorizontally {
		node.left = &bspNode{x: node.x, y: node.y, width: node.width, height: splitPos}
		node.right = &bspNode{x: node.x, y: node.y + splitPos, width: node.width, height: node.height - splitPos}
	} else {
		node.left = &bspNode{x: node.x, y: node.y, width: splitPos, height: node.height}
		node.right = &bspNode{x: node.x + splitPos, y: node.y, width: node.width - splitPos, height: node.height}
	}

	d.splitNode(node.left)
	d.splitNode(node.right)
}

func (d *Dungeon) createRooms(node *bspNode) {
	if node == nil {
		return
	}
	if !node.isLeaf() {
		d.createRooms(node.left)
		d.createRooms(node.right)
		return
	}

	roomWidth := minRoomSize + d.rng.Intn(min(maxRoomSize-minRoomSize+1, node.width-minRoomSize+1))
	roomHeight := minRoomSize + d.rng.Intn(min(maxRoomSize-minRoomSize+1, node.height-minRoomSize+1))
	roomWidth = min(roomWidth, node.width-2)
	roomHeight = min(roomHeight, node.height-2)
	if roomWidth < minRoomSize || roomHeight < minRoomSize {
		return
	}

	room := Room{
		X:      node.x + 1 + d.rng.Intn(node.width-roomWidth-1),
		Y:      node.y + 1 + d.rng.Intn(node.height-roomHeight-1),
		Width:  roomWidth,
		Height: roomHeight,
	}
	node.room = &room
	d.Rooms = append(d.Rooms, room)
	d.carveRoom(room)
}

func (d *Dungeon) carveRoom(room Room) {
	for y := room.Y; y < room.Y+room.Height; y++ {
		for x := room.X; x < room.X+room.Width; x++ {
			d.set(x, y, TileFloor)
		}
	}
	if room.Width < poolRoomSize || room.Height < poolRoomSize {
		return
	}
	// Pool sits away from the centre column and row so corridors that
	// enter through the centre stay dry.
	cx, cy := room.Center()
	for y := cy + 1; y <= cy+2; y++ {
		for x := cx + 1; x <= cx+2; x++ {
			d.set(x, y, TileWater)
		}
	}
}

func (d *Dungeon) connectRooms(node *bspNode) {
	if node == nil || node.isLeaf() {
		return
	}
	d.connectRooms(node.left)
	d.connectRooms(node.right)

	leftRoom := d.getRoom(node.left)
	rightRoom := d.getRoom(node.right)
	if leftRoom != nil && rightRoom != nil {
		d.carveCorridor(*leftRoom, *rightRoom)
	}
}

func (d *Dungeon) getRoom(node *bspNode) *Room {
	if node == nil {
		return nil
	}
	if node.room != nil {
		return node.room
	}
	if room := d.getRoom(node.left); room != nil {
		return room
	}
	return d.getRoom(node.right)
}

func (d *Dungeon) carveCorridor(room1, room2 Room) {
	x1, y1 := room1.Center()
	x2, y2 := room2.Center()

	if d.rng.Intn(2) == 0 {
		d.carveHorizontal(x1, x2, y1)
		d.carveVertical(y1, y2, x2)
	} else {
		d.carveVertical(y1, y2, x1)
		d.carveHorizontal(x1, x2, y2)
	}
}

func (d *Dungeon) carveHorizontal(x1, x2, y int) {
	if x1 > x2 {
		x1, x2 = x2, x1
	}
	for x := x1; x <= x2; x++ {
		d.set(x, y, TileFloor)
	}
}

func (d *Dungeon) carveVertical(y1, y2, x int) {
	if y1 > y2 {
		y1, y2 = y2, y1
	}
	for y := y1; y <= y2; y++ {
		d.set(x, y, TileFloor)
	}
}

// set writes a tile, never touching the outer border.
func (d *Dungeon) set(x, y, code int) {
	if x > 0 && x < d.Width-1 && y > 0 && y < d.Height-1 {
		d.Tiles[y][x] = code
	}
}

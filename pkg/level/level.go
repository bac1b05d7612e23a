// Package level holds tile maps and the height, texture and door functions
// the raycaster queries while rendering and moving the player.
//
// A level is a rectangle of tiles. Each tile stores its floor and ceiling
// heights in steps of WallHeightStep, two texture indices and an optional
// property that animates the tile: doors, sliding doors, elevators and
// squeezers. Coordinates outside the rectangle read as the Outside tile.
package level

import (
	"fmt"
	"image"
	"image/color"
	"time"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/raycast"
)

const (
	// WallHeightStep is the height of one tile height step.
	WallHeightStep = fixed.UnitsPerSquare / 4

	// NoCeiling as a tile ceiling height opens the tile to the sky.
	NoCeiling uint8 = 31

	// CeilingMaxHeight is the ceiling height reported for sky tiles.
	CeilingMaxHeight = 16*fixed.UnitsPerSquare - fixed.UnitsPerSquare/2

	// MovingWallSpeed is the speed of elevators and squeezers in units per
	// second, measured over one square of travel.
	MovingWallSpeed = fixed.UnitsPerSquare

	// DoorSpeed is how far a door opens per second. A door is fully open
	// at fixed.UnitsPerSquare.
	DoorSpeed = 2 * fixed.UnitsPerSquare

	// MaxSize is the largest level side in squares.
	MaxSize = 256

	// TextureCount is the number of wall textures a tile can refer to.
	TextureCount = 8
)

// Property animates a tile.
type Property uint8

const (
	None Property = iota
	Elevator
	Squeezer
	Door
	SlidingDoor
)

func (p Property) String() string {
	switch p {
	case None:
		return "none"
	case Elevator:
		return "elevator"
	case Squeezer:
		return "squeezer"
	case Door:
		return "door"
	case SlidingDoor:
		return "sliding door"
	}
	return fmt.Sprintf("Property(%d)", uint8(p))
}

// Tile is one square of a level.
type Tile struct {
	FloorHeight    uint8 // in WallHeightStep
	CeilingHeight  uint8 // above the floor, in WallHeightStep, or NoCeiling
	FloorTexture   uint8 // texture of walls rising from the floor
	CeilingTexture uint8 // texture of walls hanging from the ceiling
	Property       Property
}

// Outside is the tile returned for coordinates outside the level.
var Outside = Tile{FloorHeight: 10, CeilingHeight: 10}

// Sprite is a billboard standing in the middle of a square.
type Sprite struct {
	Square   image.Point
	Image    int
	Blocking bool
}

// Position returns the centre of the sprite's square.
func (s Sprite) Position() fixed.Vec2 {
	return fixed.V2(
		fixed.Unit(s.Square.X)*fixed.UnitsPerSquare+fixed.UnitsPerSquare/2,
		fixed.Unit(s.Square.Y)*fixed.UnitsPerSquare+fixed.UnitsPerSquare/2,
	)
}

// Start is where the player spawns.
type Start struct {
	Square    image.Point
	Direction fixed.Unit
}

// DoorState is the animation state of one door or sliding door.
type DoorState struct {
	Square  image.Point
	Open    fixed.Unit // 0 closed, fixed.UnitsPerSquare fully open
	Opening bool
}

// Level is a loaded tile map with its animation state.
type Level struct {
	Name         string
	Width        int
	Height       int
	Start        Start
	FloorColor   color.RGBA
	CeilingColor color.RGBA
	Background   int
	Sprites      []Sprite

	tiles    []Tile
	doors    []DoorState
	doorAt   []int32 // door index per square, -1 for none
	blocking []bool
	elapsed  time.Duration
	grids    Grids
}

// Grids bundles the level's grid functions for the raycaster. The values
// are built once per level so passing them around does not allocate.
type Grids struct {
	Floor          raycast.Grid
	Ceiling        raycast.Grid
	CollisionFloor raycast.Grid
	Types          raycast.Grid
	Roll           raycast.Grid
}

// New returns an empty level of the given size with every tile set to t.
func New(name string, width, height int, t Tile) *Level {
	l := &Level{
		Name:         name,
		Width:        width,
		Height:       height,
		FloorColor:   color.RGBA{R: 0x3c, G: 0x3c, B: 0x3c, A: 0xff},
		CeilingColor: color.RGBA{R: 0x20, G: 0x20, B: 0x28, A: 0xff},
		tiles:        make([]Tile, width*height),
		doorAt:       make([]int32, width*height),
		blocking:     make([]bool, width*height),
	}
	for i := range l.tiles {
		l.tiles[i] = t
		l.doorAt[i] = -1
	}
	l.grids = Grids{
		Floor:          raycast.GridFunc(l.FloorHeightAt),
		Ceiling:        raycast.GridFunc(l.CeilingHeightAt),
		CollisionFloor: raycast.GridFunc(l.CollisionFloorAt),
		Types:          raycast.GridFunc(l.TextureAt),
		Roll:           raycast.GridFunc(l.RollAt),
	}
	return l
}

// Grids returns the level's grid functions.
func (l *Level) Grids() Grids {
	return l.grids
}

func (l *Level) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < l.Width && y < l.Height
}

// TileAt returns the tile at (x, y), or Outside.
func (l *Level) TileAt(x, y int) Tile {
	if !l.inside(x, y) {
		return Outside
	}
	return l.tiles[y*l.Width+x]
}

// SetTile replaces the tile at (x, y). Door records follow the tile's
// property. Out of range coordinates are ignored.
func (l *Level) SetTile(x, y int, t Tile) {
	if !l.inside(x, y) {
		return
	}
	i := y*l.Width + x
	l.tiles[i] = t

	isDoor := t.Property == Door || t.Property == SlidingDoor
	switch {
	case isDoor && l.doorAt[i] < 0:
		l.doorAt[i] = int32(len(l.doors))
		l.doors = append(l.doors, DoorState{Square: image.Pt(x, y)})
	case !isDoor && l.doorAt[i] >= 0:
		l.removeDoor(l.doorAt[i])
		l.doorAt[i] = -1
	}
}

func (l *Level) removeDoor(idx int32) {
	last := int32(len(l.doors) - 1)
	if idx != last {
		moved := l.doors[last]
		l.doors[idx] = moved
		l.doorAt[moved.Square.Y*l.Width+moved.Square.X] = idx
	}
	l.doors = l.doors[:last]
}

// AddSprite places a sprite. Blocking sprites raise the collision floor of
// their square by a full square.
func (l *Level) AddSprite(s Sprite) {
	l.Sprites = append(l.Sprites, s)
	if s.Blocking && l.inside(s.Square.X, s.Square.Y) {
		l.blocking[s.Square.Y*l.Width+s.Square.X] = true
	}
}

// Doors returns the door states. The slice is owned by the level.
func (l *Level) Doors() []DoorState {
	return l.doors
}

// Door returns the state of the door at (x, y).
func (l *Level) Door(x, y int) (DoorState, bool) {
	if !l.inside(x, y) {
		return DoorState{}, false
	}
	i := l.doorAt[y*l.Width+x]
	if i < 0 {
		return DoorState{}, false
	}
	return l.doors[i], true
}

// Elapsed returns the level time driving moving walls.
func (l *Level) Elapsed() time.Duration {
	return l.elapsed
}

// StartPosition returns the centre of the start square.
func (l *Level) StartPosition() fixed.Vec2 {
	return Sprite{Square: l.Start.Square}.Position()
}

// Walkable reports whether the square is open at standing height: its
// collision floor is at most one step and it is not sealed by its ceiling.
func (l *Level) Walkable(x, y int) bool {
	if l.CollisionFloorAt(x, y) > 2*WallHeightStep {
		return false
	}
	return l.CeilingHeightAt(x, y)-l.FloorHeightAt(x, y) >= fixed.UnitsPerSquare
}

func (l *Level) String() string {
	return fmt.Sprintf("%s (%dx%d, %d doors, %d sprites)", l.Name, l.Width, l.Height, len(l.doors), len(l.Sprites))
}

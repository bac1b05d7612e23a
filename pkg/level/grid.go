package level

import (
	"time"

	"github.com/taigrr/gridcast/pkg/fixed"
)

// Texture word layout returned by TextureAt.
const (
	floorTextureMask   = 0x07
	ceilingTextureMask = 0x38
	propertyShift      = 6
)

// FloorTexture extracts the floor texture index from a TextureAt value.
func FloorTexture(t fixed.Unit) int { return int(t & floorTextureMask) }

// CeilingTexture extracts the ceiling texture index from a TextureAt value.
func CeilingTexture(t fixed.Unit) int { return int(t&ceilingTextureMask) >> 3 }

// TileProperty extracts the property from a TextureAt value.
func TileProperty(t fixed.Unit) Property { return Property(t >> propertyShift) }

// movingWallHeight oscillates between low and high over time.
func movingWallHeight(low, high fixed.Unit, t time.Duration) fixed.Unit {
	height := high - low
	if height == 0 {
		return low
	}
	half := height / 2
	arg := fixed.Unit(t.Milliseconds() * int64(MovingWallSpeed*fixed.UnitsPerSquare/1000) / int64(height))
	return low + half + fixed.Sin(arg)*half/fixed.UnitsPerSquare
}

func (l *Level) doorOpen(x, y int) fixed.Unit {
	if d, ok := l.Door(x, y); ok {
		return d.Open
	}
	return 0
}

// FloorHeightAt is the floor grid used for rendering. Doors sink into the
// floor as they open and elevators move between their floor and ceiling.
func (l *Level) FloorHeightAt(x, y int) fixed.Unit {
	t := l.TileAt(x, y)
	h := fixed.Unit(t.FloorHeight) * WallHeightStep

	switch t.Property {
	case Door:
		return h - fixed.MulDiv(h, l.doorOpen(x, y), fixed.UnitsPerSquare)
	case SlidingDoor:
		if l.doorOpen(x, y) >= fixed.UnitsPerSquare {
			return 0
		}
	case Elevator:
		return movingWallHeight(h, h+fixed.Unit(t.CeilingHeight)*WallHeightStep, l.elapsed)
	}
	return h
}

// CollisionFloorAt is FloorHeightAt raised by a square where a blocking
// sprite stands. Sliding doors stop blocking once mostly open.
func (l *Level) CollisionFloorAt(x, y int) fixed.Unit {
	h := l.FloorHeightAt(x, y)
	if !l.inside(x, y) {
		return h
	}
	if l.tiles[y*l.Width+x].Property == SlidingDoor && l.doorOpen(x, y) >= 3*fixed.UnitsPerSquare/4 {
		h = 0
	}
	if l.blocking[y*l.Width+x] {
		h += fixed.UnitsPerSquare
	}
	return h
}

// CeilingHeightAt is the ceiling grid. Sky tiles and elevators report
// CeilingMaxHeight; squeezers move between their floor and ceiling.
func (l *Level) CeilingHeightAt(x, y int) fixed.Unit {
	t := l.TileAt(x, y)

	if t.Property == Elevator {
		return CeilingMaxHeight
	}

	floor := fixed.Unit(t.FloorHeight) * WallHeightStep
	if t.Property == Squeezer {
		return movingWallHeight(floor, floor+fixed.Unit(t.CeilingHeight)*WallHeightStep, l.elapsed)
	}
	if t.CeilingHeight == NoCeiling {
		return CeilingMaxHeight
	}
	return floor + fixed.Unit(t.CeilingHeight)*WallHeightStep
}

// TextureAt packs the floor texture, ceiling texture and property of a
// tile into one value for the type grid.
func (l *Level) TextureAt(x, y int) fixed.Unit {
	t := l.TileAt(x, y)
	return fixed.Unit(t.FloorTexture&floorTextureMask) |
		fixed.Unit(t.CeilingTexture&floorTextureMask)<<3 |
		fixed.Unit(t.Property)<<propertyShift
}

// RollAt is the roll grid: how far a sliding door has rolled aside.
func (l *Level) RollAt(x, y int) fixed.Unit {
	if !l.inside(x, y) || l.tiles[y*l.Width+x].Property != SlidingDoor {
		return 0
	}
	return l.doorOpen(x, y)
}

package level

import (
	"image"
	"time"

	"github.com/taigrr/gridcast/pkg/fixed"
)

// Update advances moving walls and doors by dt. Doors open while the
// player's square is within one square of them, counting diagonals, and
// close otherwise. It returns how many doors started opening or closing.
func (l *Level) Update(dt time.Duration, player image.Point) int {
	if dt < 0 {
		dt = 0
	}
	l.elapsed += dt

	step := fixed.Unit(int64(DoorSpeed) * dt.Microseconds() / int64(time.Second/time.Microsecond))
	changed := 0

	for i := range l.doors {
		d := &l.doors[i]
		near := abs(d.Square.X-player.X) <= 1 && abs(d.Square.Y-player.Y) <= 1

		if near != d.Opening {
			d.Opening = near
			changed++
		}

		if d.Opening {
			d.Open = fixed.Min(fixed.UnitsPerSquare, d.Open+step)
		} else {
			d.Open = fixed.Max(0, d.Open-step)
		}
	}

	return changed
}

// Reset closes every door and rewinds the level clock.
func (l *Level) Reset() {
	l.elapsed = 0
	for i := range l.doors {
		l.doors[i].Open = 0
		l.doors[i].Opening = false
	}
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

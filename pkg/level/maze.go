package level

import (
	"fmt"
	"image"
	"math/rand"
	"time"

	"github.com/taigrr/gridcast/pkg/fixed"
)

// GoalImage is the sprite image placed on a maze exit.
const GoalImage = 2

// MazeConfig controls maze generation.
type MazeConfig struct {
	Width, Height int // rounded down to odd, at least 5

	// Braiding is the chance, 0 to 1, that a dead end is joined to a
	// neighbouring corridor. 0 gives a perfect maze.
	Braiding float64

	Seed int64 // 0 picks a random seed
}

var mazeSteps = [4]image.Point{{0, -2}, {0, 2}, {-2, 0}, {2, 0}}

// GenerateMaze builds a walled maze level. The player starts in the top
// left room and a goal sprite marks the bottom right room.
func GenerateMaze(cfg MazeConfig) *Level {
	w, h := mazeSide(cfg.Width), mazeSide(cfg.Height)

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	open := make([]bool, w*h)
	carve(open, w, h, image.Pt(1, 1), rng)
	if cfg.Braiding > 0 {
		braid(open, w, h, cfg.Braiding, rng)
	}

	l := New(fmt.Sprintf("maze-%d", seed), w, h, Outside)
	floor := Tile{CeilingHeight: 12}
	for y := range h {
		for x := range w {
			if open[y*w+x] {
				l.SetTile(x, y, floor)
				continue
			}
			l.SetTile(x, y, Tile{FloorHeight: 16, FloorTexture: uint8(rng.Intn(TextureCount))})
		}
	}

	l.Start.Square = image.Pt(1, 1)
	if !open[1*w+2] {
		// the first corridor leads down
		l.Start.Direction = 3 * fixed.UnitsPerSquare / 4
	}
	l.AddSprite(Sprite{Square: image.Pt(w-2, h-2), Image: GoalImage})

	return l
}

func mazeSide(n int) int {
	if n < 5 {
		return 5
	}
	if n > MaxSize {
		n = MaxSize
	}
	if n%2 == 0 {
		n--
	}
	return n
}

// carve runs a randomized depth-first search over the odd squares.
func carve(open []bool, w, h int, start image.Point, rng *rand.Rand) {
	stack := []image.Point{start}
	open[start.Y*w+start.X] = true

	var candidates [4]image.Point
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		n := 0
		for _, d := range mazeSteps {
			next := cur.Add(d)
			if next.X > 0 && next.X < w-1 && next.Y > 0 && next.Y < h-1 && !open[next.Y*w+next.X] {
				candidates[n] = next
				n++
			}
		}

		if n == 0 {
			stack = stack[:len(stack)-1]
			continue
		}

		next := candidates[rng.Intn(n)]
		mid := image.Pt((cur.X+next.X)/2, (cur.Y+next.Y)/2)
		open[mid.Y*w+mid.X] = true
		open[next.Y*w+next.X] = true
		stack = append(stack, next)
	}
}

// braid opens a wall next to some dead ends, never creating a 2x2 open
// area or a free standing pillar.
func braid(open []bool, w, h int, chance float64, rng *rand.Rand) {
	at := func(x, y int) bool {
		return x >= 0 && y >= 0 && x < w && y < h && open[y*w+x]
	}

	var candidates [4]image.Point
	for y := 1; y < h-1; y += 2 {
		for x := 1; x < w-1; x += 2 {
			exits := 0
			for _, d := range mazeSteps {
				if at(x+d.X/2, y+d.Y/2) {
					exits++
				}
			}
			if exits != 1 || rng.Float64() >= chance {
				continue
			}

			n := 0
			for _, d := range mazeSteps {
				wx, wy := x+d.X/2, y+d.Y/2
				if wx <= 0 || wy <= 0 || wx >= w-1 || wy >= h-1 || at(wx, wy) || !at(x+d.X, y+d.Y) {
					continue
				}
				if safeToOpen(at, wx, wy) {
					candidates[n] = image.Pt(wx, wy)
					n++
				}
			}
			if n > 0 {
				c := candidates[rng.Intn(n)]
				open[c.Y*w+c.X] = true
			}
		}
	}
}

func safeToOpen(at func(x, y int) bool, x, y int) bool {
	for _, q := range [4]image.Point{{-1, -1}, {1, -1}, {-1, 1}, {1, 1}} {
		if at(x+q.X, y) && at(x, y+q.Y) && at(x+q.X, y+q.Y) {
			return false
		}
	}

	for _, d := range [4]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
		nx, ny := x+d.X, y+d.Y
		if at(nx, ny) {
			continue
		}
		walls := 0
		for _, d2 := range [4]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			ax, ay := nx+d2.X, ny+d2.Y
			if (ax != x || ay != y) && !at(ax, ay) {
				walls++
			}
		}
		if walls == 0 {
			return false
		}
	}
	return true
}

// Path returns the shortest walkable path between two squares, both ends
// included, or nil when there is none. Diagonal steps are not taken.
func (l *Level) Path(from, to image.Point) []image.Point {
	if !l.inside(from.X, from.Y) || !l.inside(to.X, to.Y) ||
		!l.Walkable(from.X, from.Y) || !l.Walkable(to.X, to.Y) {
		return nil
	}

	prev := make([]int32, l.Width*l.Height)
	for i := range prev {
		prev[i] = -1
	}
	start := from.Y*l.Width + from.X
	prev[start] = int32(start)

	queue := []image.Point{from}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		if cur == to {
			var path []image.Point
			for i := cur.Y*l.Width + cur.X; ; i = int(prev[i]) {
				path = append(path, image.Pt(i%l.Width, i/l.Width))
				if i == start {
					break
				}
			}
			for a, b := 0, len(path)-1; a < b; a, b = a+1, b-1 {
				path[a], path[b] = path[b], path[a]
			}
			return path
		}

		for _, d := range [4]image.Point{{0, -1}, {0, 1}, {-1, 0}, {1, 0}} {
			next := cur.Add(d)
			if !l.inside(next.X, next.Y) || !l.Walkable(next.X, next.Y) {
				continue
			}
			if i := next.Y*l.Width + next.X; prev[i] < 0 {
				prev[i] = int32(cur.Y*l.Width + cur.X)
				queue = append(queue, next)
			}
		}
	}
	return nil
}

package raycast

import (
	"image"
	"slices"
	"testing"

	"github.com/taigrr/gridcast/pkg/fixed"
)

const U = fixed.UnitsPerSquare

// singleWall returns a grid that is 1 at (wx, wy) and 0 everywhere else.
func singleWall(wx, wy int) Grid {
	return GridFunc(func(x, y int) fixed.Unit {
		if x == wx && y == wy {
			return 1
		}
		return 0
	})
}

// countingGrid wraps a grid and counts queries.
type countingGrid struct {
	grid    Grid
	queries int
}

func (g *countingGrid) At(x, y int) fixed.Unit {
	g.queries++
	return g.grid.At(x, y)
}

func TestCastRayEastWall(t *testing.T) {
	ray := Ray{Start: fixed.V2(5632, 5632), Direction: fixed.V2(1024, 0)}

	hit := CastRay(ray, singleWall(6, 5))

	if hit.Square != image.Pt(6, 5) {
		t.Errorf("square = %v, want (6,5)", hit.Square)
	}
	if hit.Direction != West {
		t.Errorf("direction = %v, want west", hit.Direction)
	}
	if hit.Position != fixed.V2(6144, 5632) {
		t.Errorf("position = %v, want [6144,5632]", hit.Position)
	}
	if hit.Distance != 512 {
		t.Errorf("distance = %d, want 512", hit.Distance)
	}
	if hit.TextureCoord != 511 {
		t.Errorf("texture coord = %d, want 511", hit.TextureCoord)
	}
	if hit.ArrayValue != 1 {
		t.Errorf("array value = %d, want 1", hit.ArrayValue)
	}
}

func TestCastRaySides(t *testing.T) {
	start := fixed.V2(5632, 5632)

	tests := []struct {
		name    string
		dir     fixed.Vec2
		wall    image.Point
		side    Side
		pos     fixed.Vec2
		texture fixed.Unit
	}{
		{"toward +x", fixed.V2(1024, 0), image.Pt(6, 5), West, fixed.V2(6144, 5632), 511},
		{"toward -x", fixed.V2(-1024, 0), image.Pt(4, 5), East, fixed.V2(5120, 5632), 512},
		{"toward +y", fixed.V2(0, 1024), image.Pt(5, 6), South, fixed.V2(5632, 6144), 512},
		{"toward -y", fixed.V2(0, -1024), image.Pt(5, 4), North, fixed.V2(5632, 5120), 511},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hit := CastRay(Ray{Start: start, Direction: tt.dir}, singleWall(tt.wall.X, tt.wall.Y))

			if hit.Square != tt.wall {
				t.Errorf("square = %v, want %v", hit.Square, tt.wall)
			}
			if hit.Direction != tt.side {
				t.Errorf("direction = %v, want %v", hit.Direction, tt.side)
			}
			if hit.Position != tt.pos {
				t.Errorf("position = %v, want %v", hit.Position, tt.pos)
			}
			if hit.Distance != 512 {
				t.Errorf("distance = %d, want 512", hit.Distance)
			}
			if hit.TextureCoord != tt.texture {
				t.Errorf("texture coord = %d, want %d", hit.TextureCoord, tt.texture)
			}
		})
	}
}

func TestCastRayNoHit(t *testing.T) {
	empty := GridFunc(func(x, y int) fixed.Unit { return 0 })

	hit := CastRay(Ray{Start: fixed.V2(100, 100), Direction: fixed.V2(700, 300)}, empty)
	if hit.Distance != -1 {
		t.Errorf("distance = %d, want -1", hit.Distance)
	}
	if hit.Square != (image.Point{}) || hit.ArrayValue != 0 {
		t.Errorf("no-hit result should be zero apart from distance, got %v", hit)
	}
}

func TestCastRayFromGridLine(t *testing.T) {
	// A start on a square boundary belongs to the square on its +x/+y side.
	tests := []struct {
		name  string
		start fixed.Vec2
		dir   fixed.Vec2
		wall  image.Point
		side  Side
		dist  fixed.Unit
	}{
		{"vertical line toward +x", fixed.V2(6144, 5632), fixed.V2(1024, 0), image.Pt(7, 5), West, 1024},
		{"vertical line toward -x", fixed.V2(6144, 5632), fixed.V2(-1024, 0), image.Pt(5, 5), East, 0},
		{"corner toward -x-y", fixed.V2(6144, 6144), fixed.V2(-1024, -1024), image.Pt(5, 5), East, 0},
		{"corner tie steps y first", fixed.V2(6144, 6144), fixed.V2(-1024, -1024), image.Pt(6, 5), North, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ray := Ray{Start: tt.start, Direction: tt.dir}
			hit := CastRay(ray, singleWall(tt.wall.X, tt.wall.Y))

			if hit.Square != tt.wall {
				t.Errorf("square = %v, want %v", hit.Square, tt.wall)
			}
			if hit.Direction != tt.side {
				t.Errorf("direction = %v, want %v", hit.Direction, tt.side)
			}
			if hit.Distance != tt.dist {
				t.Errorf("distance = %d, want %d", hit.Distance, tt.dist)
			}
			if again := CastRay(ray, singleWall(tt.wall.X, tt.wall.Y)); again != hit {
				t.Errorf("second cast = %v, want %v", again, hit)
			}
		})
	}
}

func TestCastRayFromCornerVisitOrder(t *testing.T) {
	var visited []image.Point
	grid := GridFunc(func(x, y int) fixed.Unit {
		visited = append(visited, image.Pt(x, y))
		if x == 5 && y == 5 {
			return 1
		}
		return 0
	})

	hit := CastRay(Ray{Start: fixed.V2(6144, 6144), Direction: fixed.V2(-1024, -1024)}, grid)

	want := []image.Point{{6, 6}, {6, 5}, {5, 5}}
	if !slices.Equal(visited, want) {
		t.Errorf("visited %v, want %v", visited, want)
	}
	if hit.Square != image.Pt(5, 5) || hit.Direction != East {
		t.Errorf("hit = %v, want square (5,5) on its east face", hit)
	}
}

func TestCastMultiHit(t *testing.T) {
	grid := GridFunc(func(x, y int) fixed.Unit {
		switch x {
		case 3:
			return 1
		case 5:
			return 2
		}
		return 0
	})

	cs := Caster{Array: grid}
	hits := make([]HitResult, 8)
	ray := Ray{Start: fixed.V2(512, 512), Direction: fixed.V2(1024, 0)}

	n := cs.CastMultiHit(ray, hits, RayConstraints{MaxHits: 3, MaxSteps: 32})
	if n != 3 {
		t.Fatalf("hit count = %d, want 3", n)
	}

	want := []struct {
		square int
		value  fixed.Unit
		dist   fixed.Unit
	}{
		{3, 1, 2560},
		{4, 0, 3584},
		{5, 2, 4608},
	}

	for i, w := range want {
		if hits[i].Square.X != w.square || hits[i].ArrayValue != w.value || hits[i].Distance != w.dist {
			t.Errorf("hit %d = %v, want square %d value %d dist %d", i, hits[i], w.square, w.value, w.dist)
		}
	}
}

func TestCastMultiHitRespectsHitBuffer(t *testing.T) {
	stripes := GridFunc(func(x, y int) fixed.Unit { return fixed.Unit(x & 1) })

	cs := Caster{Array: stripes}
	hits := make([]HitResult, 2)
	ray := Ray{Start: fixed.V2(512, 512), Direction: fixed.V2(1024, 0)}

	if n := cs.CastMultiHit(ray, hits, RayConstraints{MaxHits: 10, MaxSteps: 100}); n != 2 {
		t.Errorf("hit count = %d, want 2 (buffer length)", n)
	}
	if n := cs.CastMultiHit(ray, hits, RayConstraints{MaxHits: 0, MaxSteps: 100}); n != 0 {
		t.Errorf("hit count with MaxHits 0 = %d, want 0", n)
	}
}

func TestCastMultiHitQueryBound(t *testing.T) {
	rays := []Ray{
		{Start: fixed.V2(512, 512), Direction: fixed.V2(1024, 0)},
		{Start: fixed.V2(-3000, 700), Direction: fixed.V2(-300, 977)},
		{Start: fixed.V2(100, -100), Direction: fixed.V2(0, 0)},
		{Start: fixed.V2(12345, 999), Direction: fixed.V2(1, -1024)},
	}

	grids := map[string]Grid{
		"empty":   GridFunc(func(x, y int) fixed.Unit { return 0 }),
		"stripes": GridFunc(func(x, y int) fixed.Unit { return fixed.Unit((x + y) & 1) }),
	}

	for name, g := range grids {
		t.Run(name, func(t *testing.T) {
			for _, ray := range rays {
				for _, steps := range []int{0, 1, 2, 7, 50} {
					counter := &countingGrid{grid: g}
					cs := Caster{Array: counter}
					hits := make([]HitResult, 64)

					n := cs.CastMultiHit(ray, hits, RayConstraints{MaxHits: 64, MaxSteps: steps})

					if counter.queries > steps {
						t.Errorf("%v with %d steps queried %d times", ray, steps, counter.queries)
					}
					if n > steps {
						t.Errorf("%v with %d steps returned %d hits", ray, steps, n)
					}
				}
			}
		})
	}
}

func TestCastMultiHitDeterministic(t *testing.T) {
	grid := GridFunc(func(x, y int) fixed.Unit { return fixed.Unit((x*7 + y*3) % 5) })
	cs := Caster{Array: grid, Type: grid}
	ray := Ray{Start: fixed.V2(1500, -2700), Direction: fixed.V2(613, -411)}

	a := make([]HitResult, 16)
	b := make([]HitResult, 16)

	na := cs.CastMultiHit(ray, a, RayConstraints{MaxHits: 16, MaxSteps: 40})
	nb := cs.CastMultiHit(ray, b, RayConstraints{MaxHits: 16, MaxSteps: 40})

	if na != nb {
		t.Fatalf("hit counts differ: %d vs %d", na, nb)
	}
	for i := range na {
		if a[i] != b[i] {
			t.Errorf("hit %d differs: %v vs %v", i, a[i], b[i])
		}
	}
}

func TestCastTypeAndRoll(t *testing.T) {
	types := GridFunc(func(x, y int) fixed.Unit { return 7 })
	roll := GridFunc(func(x, y int) fixed.Unit { return 300 })

	tests := []struct {
		name string
		dir  fixed.Vec2
		wall image.Point
		roll fixed.Unit
	}{
		{"west face", fixed.V2(1024, 0), image.Pt(6, 5), 300},
		{"east face", fixed.V2(-1024, 0), image.Pt(4, 5), -300},
		{"south face", fixed.V2(0, 1024), image.Pt(5, 6), 300},
		{"north face", fixed.V2(0, -1024), image.Pt(5, 4), -300},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cs := Caster{Array: singleWall(tt.wall.X, tt.wall.Y), Type: types, Roll: roll}
			hit := cs.Cast(Ray{Start: fixed.V2(5632, 5632), Direction: tt.dir})

			if hit.Type != 7 {
				t.Errorf("type = %d, want 7", hit.Type)
			}
			if hit.DoorRoll != tt.roll {
				t.Errorf("door roll = %d, want %d", hit.DoorRoll, tt.roll)
			}
		})
	}
}

func TestCurvilinearDistance(t *testing.T) {
	grid := singleWall(8, 8)
	ray := Ray{Start: fixed.V2(512, 512), Direction: fixed.V2(1024, 1024)}

	rect := Caster{Array: grid}
	curv := Caster{Array: grid, Projection: Curvilinear}

	hr := rect.Cast(ray)
	hc := curv.Cast(ray)

	if hr.Square != hc.Square || hr.Position != hc.Position {
		t.Fatalf("projections disagree on geometry: %v vs %v", hr, hc)
	}

	want := fixed.Dist(ray.Start, hc.Position)
	if hc.Distance != want {
		t.Errorf("curvilinear distance = %d, want %d", hc.Distance, want)
	}
	// Rectilinear distance only measures the x leg here.
	if hr.Distance >= hc.Distance {
		t.Errorf("rectilinear %d should be shorter than curvilinear %d for a long direction", hr.Distance, hc.Distance)
	}
}

func TestCastRaysColumns(t *testing.T) {
	cam := NewCamera()
	cam.Position = fixed.V2(2*U+U/2, 2*U+U/2)
	cam.Resolution = image.Pt(17, 9)

	cs := Caster{Array: GridFunc(func(x, y int) fixed.Unit {
		if x < 0 || y < 0 || x > 4 || y > 4 {
			return 1
		}
		return 0
	})}

	hits := make([]HitResult, 1)
	var columns []int
	var first, last Ray

	cs.CastRays(cam, hits, DefaultRayConstraints(), func(h []HitResult, x int, ray Ray) {
		if len(columns) == 0 {
			first = ray
		}
		last = ray
		columns = append(columns, x)
		if len(h) != 1 {
			t.Errorf("column %d got %d hits, want 1", x, len(h))
		}
	})

	if len(columns) != 17 {
		t.Fatalf("got %d columns, want 17", len(columns))
	}
	for i, x := range columns {
		if x != i {
			t.Fatalf("column order %v", columns)
		}
	}

	if want := fixed.AngleToDirection(-fixed.HorizontalFOVHalf); first.Direction != want {
		t.Errorf("first ray direction = %v, want %v", first.Direction, want)
	}
	// Facing +x, the left edge of the view is toward +y.
	if first.Direction.Y <= 0 || last.Direction.Y >= 0 {
		t.Errorf("rays should sweep from %v to %v", first.Direction, last.Direction)
	}
}

package level

import (
	"errors"
	"image"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/taigrr/gridcast/pkg/fixed"
)

const U = fixed.UnitsPerSquare

func mustBuild(t *testing.T, rows ...string) *Level {
	t.Helper()
	l, err := Build("test", rows, DefaultLegend())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return l
}

func TestBuiltinLevels(t *testing.T) {
	names := BuiltinNames()
	for _, want := range []string{"courtyard", "halls"} {
		found := false
		for _, n := range names {
			found = found || n == want
		}
		if !found {
			t.Errorf("built-in levels %v lack %q", names, want)
		}
	}

	for _, name := range names {
		t.Run(name, func(t *testing.T) {
			l, err := Builtin(name)
			if err != nil {
				t.Fatalf("Builtin(%q): %v", name, err)
			}
			if l.Name != name {
				t.Errorf("name = %q", l.Name)
			}
			s := l.Start.Square
			if !l.Walkable(s.X, s.Y) {
				t.Errorf("start %v is not walkable", s)
			}
		})
	}

	if _, err := Builtin("nope"); !errors.Is(err, ErrUnknownLevel) {
		t.Errorf("Builtin(nope) error = %v, want ErrUnknownLevel", err)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name string
		rows []string
		want error
	}{
		{"no rows", nil, ErrEmpty},
		{"empty row", []string{""}, ErrEmpty},
		{"ragged", []string{"###", "#@", "###"}, ErrRaggedRow},
		{"unknown tile", []string{"###", "#@X", "###"}, ErrUnknownTile},
		{"no start", []string{"###", "#.#", "###"}, ErrNoStart},
		{"two starts", []string{"####", "#@@#", "####"}, ErrMultipleStarts},
		{"too large", []string{"@" + strings.Repeat(".", MaxSize)}, ErrTooLarge},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Build("bad", tt.rows, DefaultLegend())
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestBuildErrorNamesPosition(t *testing.T) {
	_, err := Build("bad", []string{"####", "#@.#", "#.?#"}, DefaultLegend())
	if err == nil || !strings.Contains(err.Error(), "row 2, column 2") {
		t.Errorf("error = %v, want it to name row 2, column 2", err)
	}
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"name": "yard",
		"floor_color": "#102030",
		"background": 2,
		"legend": {"X": {"floor": 8, "floor_texture": 7}},
		"rows": ["XXXX", "X@.X", "XXXX"]
	}`)

	l, err := Parse("ignored", data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if l.Name != "yard" {
		t.Errorf("name = %q, want yard", l.Name)
	}
	if c := l.FloorColor; c.R != 0x10 || c.G != 0x20 || c.B != 0x30 || c.A != 0xff {
		t.Errorf("floor color = %v", c)
	}
	if l.Background != 2 {
		t.Errorf("background = %d, want 2", l.Background)
	}
	if got := l.FloorHeightAt(0, 0); got != 8*WallHeightStep {
		t.Errorf("floor height = %d, want %d", got, 8*WallHeightStep)
	}
	if got := FloorTexture(l.TextureAt(0, 0)); got != 7 {
		t.Errorf("floor texture = %d, want 7", got)
	}
}

func TestParseJSONErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		want error
	}{
		{"bad property", `{"legend": {"X": {"property": "portal"}}, "rows": ["@X"]}`, ErrUnknownProperty},
		{"bad color", `{"floor_color": "red", "rows": ["@"]}`, ErrBadColor},
		{"long legend key", `{"legend": {"XY": {}}, "rows": ["@"]}`, ErrBadLegend},
		{"bad texture", `{"legend": {"X": {"floor_texture": 9}}, "rows": ["@X"]}`, ErrBadLegend},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseJSON([]byte(tt.data))
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := ParseJSON([]byte(`{"rows": [`)); err == nil {
		t.Error("truncated JSON parsed without error")
	}
}

func TestLoadFileAndOpen(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "tiny.txt")
	if err := os.WriteFile(path, []byte("###\r\n#@#\r\n###\r\n\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	l, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if l.Name != "tiny" || l.Width != 3 || l.Height != 3 {
		t.Errorf("loaded %v", l)
	}

	if _, err := LoadFile(filepath.Join(dir, "missing.txt")); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file error = %v", err)
	}

	if l, err := Open("halls"); err != nil || l.Name != "halls" {
		t.Errorf("Open(halls) = %v, %v", l, err)
	}
	if l, err := Open(path); err != nil || l.Name != "tiny" {
		t.Errorf("Open(path) = %v, %v", l, err)
	}
}

func TestStartDirection(t *testing.T) {
	tests := []struct {
		start rune
		want  fixed.Unit
	}{
		{'@', 0},
		{'>', 0},
		{'^', U / 4},
		{'<', U / 2},
		{'v', 3 * U / 4},
	}

	for _, tt := range tests {
		t.Run(string(tt.start), func(t *testing.T) {
			l := mustBuild(t, "###", "#"+string(tt.start)+"#", "###")
			if l.Start.Square != image.Pt(1, 1) {
				t.Errorf("start = %v", l.Start.Square)
			}
			if l.Start.Direction != tt.want {
				t.Errorf("direction = %d, want %d", l.Start.Direction, tt.want)
			}
			// facing up the text means facing -y
			if tt.start == '^' && fixed.AngleToDirection(l.Start.Direction).Y >= 0 {
				t.Error("^ should face -y")
			}
		})
	}
}

func TestOutside(t *testing.T) {
	l := mustBuild(t, "@")

	for _, p := range []image.Point{{-1, 0}, {0, -1}, {1, 0}, {0, 1}, {-500, 900}} {
		if got := l.TileAt(p.X, p.Y); got != Outside {
			t.Errorf("TileAt(%v) = %+v, want Outside", p, got)
		}
		if got := l.FloorHeightAt(p.X, p.Y); got != 10*WallHeightStep {
			t.Errorf("FloorHeightAt(%v) = %d", p, got)
		}
		if got := l.CeilingHeightAt(p.X, p.Y); got != 20*WallHeightStep {
			t.Errorf("CeilingHeightAt(%v) = %d", p, got)
		}
		if l.Walkable(p.X, p.Y) {
			t.Errorf("outside square %v is walkable", p)
		}
	}
}

func TestHeights(t *testing.T) {
	l := mustBuild(t, "#_=,@")

	tests := []struct {
		x       int
		floor   fixed.Unit
		ceiling fixed.Unit
	}{
		{0, 4 * U, 4 * U},
		{1, U / 2, 3 * U},
		{2, U, 3 * U},
		{3, 0, CeilingMaxHeight},
		{4, 0, 3 * U},
	}

	for _, tt := range tests {
		if got := l.FloorHeightAt(tt.x, 0); got != tt.floor {
			t.Errorf("x=%d: floor = %d, want %d", tt.x, got, tt.floor)
		}
		if got := l.CeilingHeightAt(tt.x, 0); got != tt.ceiling {
			t.Errorf("x=%d: ceiling = %d, want %d", tt.x, got, tt.ceiling)
		}
	}
}

func TestTextureAt(t *testing.T) {
	l := New("t", 1, 1, Tile{FloorTexture: 5, CeilingTexture: 3, Property: Squeezer})
	v := l.TextureAt(0, 0)

	if got := FloorTexture(v); got != 5 {
		t.Errorf("floor texture = %d, want 5", got)
	}
	if got := CeilingTexture(v); got != 3 {
		t.Errorf("ceiling texture = %d, want 3", got)
	}
	if got := TileProperty(v); got != Squeezer {
		t.Errorf("property = %v, want squeezer", got)
	}
	if got := l.Grids().Types.At(0, 0); got != v {
		t.Errorf("type grid = %d, want %d", got, v)
	}
}

func TestDoorOpensNearPlayer(t *testing.T) {
	l := mustBuild(t,
		"#######",
		"#@D...#",
		"#######",
	)
	const closed = 12 * WallHeightStep

	if got := l.FloorHeightAt(2, 1); got != closed {
		t.Fatalf("closed door floor = %d, want %d", got, closed)
	}

	if n := l.Update(100*time.Millisecond, image.Pt(1, 1)); n != 1 {
		t.Errorf("doors changed = %d, want 1", n)
	}
	d, _ := l.Door(2, 1)
	if d.Open != 204 || !d.Opening {
		t.Errorf("door after 100ms = %+v, want open 204", d)
	}
	if got := l.FloorHeightAt(2, 1); got != closed-fixed.MulDiv(closed, 204, U) {
		t.Errorf("door floor = %d", got)
	}

	if n := l.Update(time.Second, image.Pt(1, 1)); n != 0 {
		t.Errorf("doors changed = %d, want 0 while still near", n)
	}
	if got := l.FloorHeightAt(2, 1); got != 0 {
		t.Errorf("open door floor = %d, want 0", got)
	}
	if !l.Walkable(2, 1) {
		t.Error("open door is not walkable")
	}

	// Two squares away is out of reach.
	if n := l.Update(time.Second, image.Pt(4, 1)); n != 1 {
		t.Errorf("doors changed = %d, want 1", n)
	}
	if got := l.FloorHeightAt(2, 1); got != closed {
		t.Errorf("door floor = %d after closing, want %d", got, closed)
	}

	l.Update(time.Second, image.Pt(3, 2))
	l.Reset()
	if d, _ := l.Door(2, 1); d.Open != 0 || d.Opening || l.Elapsed() != 0 {
		t.Errorf("after reset: %+v, elapsed %v", d, l.Elapsed())
	}
}

func TestSlidingDoor(t *testing.T) {
	l := mustBuild(t, "#@S.#")
	const closed = 12 * WallHeightStep

	l.Update(250*time.Millisecond, image.Pt(1, 0))
	if got := l.RollAt(2, 0); got != U/2 {
		t.Errorf("roll = %d, want %d", got, U/2)
	}
	if got := l.CollisionFloorAt(2, 0); got != closed {
		t.Errorf("half open collision floor = %d, want %d", got, closed)
	}

	l.Update(150*time.Millisecond, image.Pt(1, 0))
	if got := l.CollisionFloorAt(2, 0); got != 0 {
		t.Errorf("mostly open collision floor = %d, want 0", got)
	}
	if got := l.FloorHeightAt(2, 0); got != closed {
		t.Errorf("mostly open render floor = %d, want %d", got, closed)
	}

	l.Update(time.Second, image.Pt(1, 0))
	if got := l.FloorHeightAt(2, 0); got != 0 {
		t.Errorf("open render floor = %d, want 0", got)
	}
	if got := l.RollAt(1, 0); got != 0 {
		t.Errorf("roll on a plain floor = %d", got)
	}
}

func TestMovingWalls(t *testing.T) {
	l := mustBuild(t, "#@EQ#")

	if got := l.CeilingHeightAt(2, 0); got != CeilingMaxHeight {
		t.Errorf("elevator ceiling = %d, want %d", got, CeilingMaxHeight)
	}

	l.Update(500*time.Millisecond, image.Point{})
	if got := l.FloorHeightAt(2, 0); got < 1900 || got > 2*U {
		t.Errorf("elevator at 500ms = %d, want near the top", got)
	}

	l.Update(time.Second, image.Point{})
	if got := l.FloorHeightAt(2, 0); got < 0 || got > 150 {
		t.Errorf("elevator at 1500ms = %d, want near the bottom", got)
	}

	for i := range 200 {
		l.Update(37*time.Millisecond, image.Point{})
		if e := l.FloorHeightAt(2, 0); e < -8 || e > 2*U+8 {
			t.Fatalf("step %d: elevator at %d outside its travel", i, e)
		}
		if q := l.CeilingHeightAt(3, 0); q < -8 || q > 3*U+8 {
			t.Fatalf("step %d: squeezer at %d outside its travel", i, q)
		}
	}
}

func TestMovingWallHeightFlat(t *testing.T) {
	if got := movingWallHeight(700, 700, time.Hour); got != 700 {
		t.Errorf("zero travel = %d, want 700", got)
	}
}

func TestBlockingSprite(t *testing.T) {
	l := mustBuild(t, "#@o*#")

	if got := l.FloorHeightAt(2, 0); got != 0 {
		t.Errorf("render floor under pillar = %d, want 0", got)
	}
	if got := l.CollisionFloorAt(2, 0); got != U {
		t.Errorf("collision floor under pillar = %d, want %d", got, U)
	}
	if l.Walkable(2, 0) {
		t.Error("pillar square is walkable")
	}
	if !l.Walkable(3, 0) {
		t.Error("decoration square is not walkable")
	}
	if len(l.Sprites) != 2 {
		t.Fatalf("sprites = %d, want 2", len(l.Sprites))
	}
	if p := l.Sprites[0].Position(); p != fixed.V2(2*U+U/2, U/2) {
		t.Errorf("sprite position = %v", p)
	}
}

func TestSetTileDoorRecords(t *testing.T) {
	l := New("t", 4, 1, Tile{})
	l.SetTile(0, 0, Tile{Property: Door})
	l.SetTile(1, 0, Tile{Property: SlidingDoor})
	l.SetTile(2, 0, Tile{Property: Door})

	if n := len(l.Doors()); n != 3 {
		t.Fatalf("doors = %d, want 3", n)
	}

	l.SetTile(0, 0, Tile{})
	if n := len(l.Doors()); n != 2 {
		t.Fatalf("doors = %d, want 2", n)
	}
	if _, ok := l.Door(0, 0); ok {
		t.Error("removed door still reported")
	}
	for _, x := range []int{1, 2} {
		if d, ok := l.Door(x, 0); !ok || d.Square != image.Pt(x, 0) {
			t.Errorf("Door(%d) = %+v, %t", x, d, ok)
		}
	}

	l.SetTile(9, 9, Tile{Property: Door})
	if n := len(l.Doors()); n != 2 {
		t.Errorf("out of range SetTile added a door")
	}
}

func TestGridsDoNotAllocate(t *testing.T) {
	l, err := Builtin("halls")
	if err != nil {
		t.Fatal(err)
	}
	g := l.Grids()

	allocs := testing.AllocsPerRun(100, func() {
		for y := -1; y <= l.Height; y++ {
			for x := -1; x <= l.Width; x++ {
				_ = g.Floor.At(x, y) + g.Ceiling.At(x, y) + g.CollisionFloor.At(x, y) + g.Types.At(x, y) + g.Roll.At(x, y)
			}
		}
		l.Update(time.Millisecond, l.Start.Square)
	})
	if allocs != 0 {
		t.Errorf("grid queries allocated %.1f times per run", allocs)
	}
}

func TestPropertyString(t *testing.T) {
	if s := SlidingDoor.String(); s != "sliding door" {
		t.Errorf("String = %q", s)
	}
	if s := Property(42).String(); s != "Property(42)" {
		t.Errorf("String = %q", s)
	}
}

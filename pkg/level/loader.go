package level

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/taigrr/gridcast/pkg/fixed"
)

var (
	ErrEmpty           = errors.New("level has no rows")
	ErrTooLarge        = errors.New("level too large")
	ErrRaggedRow       = errors.New("row width mismatch")
	ErrUnknownTile     = errors.New("unknown tile")
	ErrNoStart         = errors.New("level has no start square")
	ErrMultipleStarts  = errors.New("level has more than one start square")
	ErrBadLegend       = errors.New("bad legend entry")
	ErrUnknownProperty = errors.New("unknown tile property")
	ErrBadColor        = errors.New("bad color")
	ErrUnknownLevel    = errors.New("unknown level")
)

// TileDef describes what a map character stands for.
type TileDef struct {
	Floor          uint8      `json:"floor"`
	Ceiling        uint8      `json:"ceiling"`
	Sky            bool       `json:"sky,omitempty"`
	FloorTexture   uint8      `json:"floor_texture"`
	CeilingTexture uint8      `json:"ceiling_texture"`
	Property       string     `json:"property,omitempty"`
	Start          bool       `json:"start,omitempty"`
	Direction      int        `json:"direction,omitempty"` // degrees, 90 faces up the map text
	Sprite         *SpriteDef `json:"sprite,omitempty"`
}

// SpriteDef places a sprite on every square using the legend entry.
type SpriteDef struct {
	Image    int  `json:"image"`
	Blocking bool `json:"blocking"`
}

// Legend maps map characters to tile definitions.
type Legend map[rune]TileDef

// File is the JSON level format.
type File struct {
	Name         string             `json:"name"`
	FloorColor   string             `json:"floor_color,omitempty"`
	CeilingColor string             `json:"ceiling_color,omitempty"`
	Background   int                `json:"background"`
	Legend       map[string]TileDef `json:"legend,omitempty"`
	Rows         []string           `json:"rows"`
}

var (
	room = TileDef{Ceiling: 12}
	wall = TileDef{Floor: 16, Ceiling: 0}
)

// DefaultLegend returns the characters understood by plain text levels.
// JSON levels start from it and may override any entry.
//
//	#       wall, 1-7 walls with that texture
//	. space floor under a ceiling
//	,       floor under the open sky
//	_ =     raised floor, half and full square
//	D S     door, sliding door
//	E Q     elevator, squeezer
//	@       start facing +x; > v < ^ start facing that way
//	o *     blocking pillar, decoration
func DefaultLegend() Legend {
	l := Legend{
		'#': wall,
		'.': room,
		' ': room,
		',': {Sky: true},
		'_': {Floor: 2, Ceiling: 10, FloorTexture: 2},
		'=': {Floor: 4, Ceiling: 8, FloorTexture: 2},
		'D': {Floor: 12, FloorTexture: 5, Property: "door"},
		'S': {Floor: 12, FloorTexture: 6, Property: "sliding_door"},
		'E': {Ceiling: 8, FloorTexture: 3, Property: "elevator"},
		'Q': {Ceiling: 12, CeilingTexture: 4, Property: "squeezer"},
		'@': {Ceiling: 12, Start: true},
		'>': {Ceiling: 12, Start: true},
		'v': {Ceiling: 12, Start: true, Direction: 270},
		'<': {Ceiling: 12, Start: true, Direction: 180},
		'^': {Ceiling: 12, Start: true, Direction: 90},
		'o': {Ceiling: 12, Sprite: &SpriteDef{Image: 0, Blocking: true}},
		'*': {Ceiling: 12, Sprite: &SpriteDef{Image: 1}},
	}
	for i := 1; i < TextureCount; i++ {
		d := wall
		d.FloorTexture = uint8(i)
		l[rune('0'+i)] = d
	}
	return l
}

func parseProperty(s string) (Property, error) {
	switch s {
	case "", "none":
		return None, nil
	case "door":
		return Door, nil
	case "sliding_door":
		return SlidingDoor, nil
	case "elevator":
		return Elevator, nil
	case "squeezer":
		return Squeezer, nil
	}
	return None, fmt.Errorf("%w %q", ErrUnknownProperty, s)
}

func (d TileDef) tile() (Tile, error) {
	p, err := parseProperty(d.Property)
	if err != nil {
		return Tile{}, err
	}
	if d.FloorTexture >= TextureCount || d.CeilingTexture >= TextureCount {
		return Tile{}, fmt.Errorf("%w: texture index %d/%d, want below %d",
			ErrBadLegend, d.FloorTexture, d.CeilingTexture, TextureCount)
	}
	if d.Floor >= NoCeiling || (!d.Sky && d.Ceiling >= NoCeiling) {
		return Tile{}, fmt.Errorf("%w: height %d/%d, want below %d", ErrBadLegend, d.Floor, d.Ceiling, NoCeiling)
	}

	t := Tile{
		FloorHeight:    d.Floor,
		CeilingHeight:  d.Ceiling,
		FloorTexture:   d.FloorTexture,
		CeilingTexture: d.CeilingTexture,
		Property:       p,
	}
	if d.Sky {
		t.CeilingHeight = NoCeiling
	}
	return t, nil
}

// Build creates a level from text rows. Every row must be the same width.
func Build(name string, rows []string, legend Legend) (*Level, error) {
	if len(rows) == 0 {
		return nil, ErrEmpty
	}

	width := utf8.RuneCountInString(rows[0])
	if width == 0 {
		return nil, ErrEmpty
	}
	if width > MaxSize || len(rows) > MaxSize {
		return nil, fmt.Errorf("%w: %dx%d, max %d", ErrTooLarge, width, len(rows), MaxSize)
	}

	tiles := make(map[rune]Tile, len(legend))
	for r, d := range legend {
		t, err := d.tile()
		if err != nil {
			return nil, fmt.Errorf("legend %q: %w", r, err)
		}
		tiles[r] = t
	}

	l := New(name, width, len(rows), Outside)
	starts := 0

	for y, row := range rows {
		if n := utf8.RuneCountInString(row); n != width {
			return nil, fmt.Errorf("row %d: %w: expected %d, got %d", y, ErrRaggedRow, width, n)
		}

		x := 0
		for _, r := range row {
			d, ok := legend[r]
			if !ok {
				return nil, fmt.Errorf("row %d, column %d: %w %q", y, x, ErrUnknownTile, r)
			}

			l.SetTile(x, y, tiles[r])

			if d.Start {
				starts++
				if starts > 1 {
					return nil, fmt.Errorf("row %d, column %d: %w", y, x, ErrMultipleStarts)
				}
				l.Start = Start{
					Square:    image.Pt(x, y),
					Direction: fixed.Wrap(fixed.DegreesToAngle(d.Direction), fixed.UnitsPerSquare),
				}
			}
			if d.Sprite != nil {
				l.AddSprite(Sprite{Square: image.Pt(x, y), Image: d.Sprite.Image, Blocking: d.Sprite.Blocking})
			}
			x++
		}
	}

	if starts == 0 {
		return nil, ErrNoStart
	}
	return l, nil
}

// ParseText reads a plain text level using DefaultLegend. Trailing blank
// lines are ignored.
func ParseText(name string, data []byte) (*Level, error) {
	text := strings.ReplaceAll(string(data), "\r\n", "\n")
	rows := strings.Split(strings.TrimRight(text, "\n"), "\n")
	if len(rows) == 1 && rows[0] == "" {
		return nil, ErrEmpty
	}
	return Build(name, rows, DefaultLegend())
}

// ParseJSON reads a JSON level. Legend entries override DefaultLegend.
func ParseJSON(data []byte) (*Level, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse level: %w", err)
	}

	legend := DefaultLegend()
	for k, d := range f.Legend {
		r, size := utf8.DecodeRuneInString(k)
		if r == utf8.RuneError || size != len(k) {
			return nil, fmt.Errorf("%w: key %q is not a single character", ErrBadLegend, k)
		}
		legend[r] = d
	}

	l, err := Build(f.Name, f.Rows, legend)
	if err != nil {
		return nil, err
	}

	if f.FloorColor != "" {
		if l.FloorColor, err = parseColor(f.FloorColor); err != nil {
			return nil, fmt.Errorf("floor_color: %w", err)
		}
	}
	if f.CeilingColor != "" {
		if l.CeilingColor, err = parseColor(f.CeilingColor); err != nil {
			return nil, fmt.Errorf("ceiling_color: %w", err)
		}
	}
	l.Background = f.Background

	return l, nil
}

func parseColor(s string) (color.RGBA, error) {
	var r, g, b uint8
	if len(s) != 7 || s[0] != '#' {
		return color.RGBA{}, fmt.Errorf("%w %q: want #rrggbb", ErrBadColor, s)
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &r, &g, &b); err != nil {
		return color.RGBA{}, fmt.Errorf("%w %q: %v", ErrBadColor, s, err)
	}
	return color.RGBA{R: r, G: g, B: b, A: 0xff}, nil
}

// Parse reads a level in either format. Data starting with '{' is JSON.
func Parse(name string, data []byte) (*Level, error) {
	if bytes.HasPrefix(bytes.TrimSpace(data), []byte("{")) {
		l, err := ParseJSON(data)
		if err != nil {
			return nil, err
		}
		if l.Name == "" {
			l.Name = name
		}
		return l, nil
	}
	return ParseText(name, data)
}

// LoadFile reads a level file. The level is named after the file unless
// the file names itself.
func LoadFile(path string) (*Level, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read level file %s: %w", path, err)
	}

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	l, err := Parse(name, data)
	if err != nil {
		return nil, fmt.Errorf("invalid level %s: %w", path, err)
	}
	return l, nil
}

// Open loads a level file, falling back to the built-in level of that
// name when no such file exists.
func Open(name string) (*Level, error) {
	if _, err := os.Stat(name); err == nil {
		return LoadFile(name)
	}
	return Builtin(name)
}

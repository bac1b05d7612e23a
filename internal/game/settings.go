package game

import (
	"fmt"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/player"
	"github.com/taigrr/gridcast/pkg/raycast"
	"github.com/taigrr/gridcast/pkg/render"
)

// RendererKind selects the raycast renderer.
type RendererKind int

const (
	Simple  RendererKind = iota // one wall height per column, flat ceiling
	Complex                     // floors and ceilings at any height
)

func (k RendererKind) String() string {
	switch k {
	case Simple:
		return "simple"
	case Complex:
		return "complex"
	default:
		return fmt.Sprintf("RendererKind(%d)", int(k))
	}
}

// ParseRenderer converts a renderer name given on the command line.
func ParseRenderer(s string) (RendererKind, error) {
	switch s {
	case "simple":
		return Simple, nil
	case "complex":
		return Complex, nil
	}
	return 0, fmt.Errorf("unknown renderer %q (use simple or complex)", s)
}

// Settings holds the runtime tunables of a game.
type Settings struct {
	Renderer  RendererKind
	Subsample int // framebuffer columns per rendered column

	Projection      raycast.Projection
	Rays            raycast.RayConstraints
	FloorTextures   bool
	FogStep         fixed.Unit
	Dither          bool
	TextureDistance fixed.Unit // walls farther than this draw their average color
	ShowMinimap     bool
	ShowHUD         bool
	Player          player.Config
	Minimap         render.Minimap
	SpriteSize      fixed.Unit

	// Spring tuning for view smoothing, as frequency and damping.
	SpringFrequency float64
	SpringDamping   float64
}

// DefaultSettings returns the complex renderer at full resolution with fog
// and smoothed mouse look.
func DefaultSettings() Settings {
	return Settings{
		Renderer:        Complex,
		Subsample:       1,
		Rays:            raycast.RayConstraints{MaxHits: 32, MaxSteps: 32},
		FloorTextures:   true,
		FogStep:         render.DefaultFogStep,
		Dither:          true,
		TextureDistance: 12 * fixed.UnitsPerSquare,
		ShowMinimap:     true,
		ShowHUD:         true,
		Player:          player.DefaultConfig(),
		Minimap:         render.DefaultMinimap(),
		SpriteSize:      fixed.UnitsPerSquare * 3 / 4,
		SpringFrequency: 8,
		SpringDamping:   1,
	}
}

// rayConstraints returns the constraints for the selected renderer. The
// simple renderer picks its own hit count.
func (s Settings) rayConstraints() raycast.RayConstraints {
	c := s.Rays
	if c.MaxSteps <= 0 {
		c.MaxSteps = raycast.DefaultRayConstraints().MaxSteps
	}
	if c.MaxHits <= 0 {
		c.MaxHits = 1
	}
	return c
}

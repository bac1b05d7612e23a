// Package game ties a level, a player and the raycast renderer into a frame
// loop that the frontends drive: one Update per tick, then Draw.
package game

import (
	"fmt"
	"image"
	"log"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	"github.com/taigrr/gridcast/internal/sound"
	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/level"
	"github.com/taigrr/gridcast/pkg/player"
	"github.com/taigrr/gridcast/pkg/raycast"
	"github.com/taigrr/gridcast/pkg/render"
)

const sq = fixed.UnitsPerSquare

// Cues plays sound cues. *playback.Player implements it.
type Cues interface {
	Play(c sound.Cue)
}

// Command is a key action that is not movement.
type Command int

const (
	ToggleMap Command = iota
	ToggleHUD
	ToggleRenderer
	ToggleFisheye
	Restart
)

// spring eases a value toward a moving target.
type spring struct {
	spring   harmonica.Spring
	pos, vel float64
}

func newSpring(fps int, frequency, damping float64) spring {
	return spring{spring: harmonica.NewSpring(harmonica.FPS(fps), frequency, damping)}
}

func (s *spring) follow(target float64) float64 {
	s.pos, s.vel = s.spring.Update(s.pos, s.vel, target)
	return s.pos
}

// Game is one level being played.
type Game struct {
	Level  *level.Level
	Player *player.Player

	settings Settings
	cues     Cues

	fb         *render.Framebuffer
	shader     *render.Shader
	renderer   *raycast.Renderer
	sprites    render.SpriteRenderer
	billboards []render.Billboard
	resolution image.Point

	// Mouse turning runs through turn in angle units; look smooths the
	// drawn shear.
	turn       spring
	turnTarget float64
	turned     int
	look       spring
	shear      int

	won      bool
	deaths   int
	fps      float64
	fpsTime  time.Duration
	fpsCount int
}

// New starts l with the player on its start square. cues may be nil.
func New(l *level.Level, textures *render.TextureSet, cues Cues, settings Settings) *Game {
	g := &Game{
		Level:    l,
		Player:   player.New(settings.Player),
		settings: settings,
		cues:     cues,
		fb:       render.NewFramebuffer(1, 1),
	}

	g.shader = render.NewShader(g.fb, textures)
	g.renderer = raycast.NewRenderer(g.shader, raycast.Config{})
	g.applySettings()

	fps := g.Player.Config().FPS
	g.turn = newSpring(fps, settings.SpringFrequency, settings.SpringDamping)
	g.look = newSpring(fps, settings.SpringFrequency, settings.SpringDamping)

	for _, s := range l.Sprites {
		g.billboards = append(g.billboards, render.Billboard{
			Position: s.Position(),
			Bottom:   l.FloorHeightAt(s.Square.X, s.Square.Y),
			Size:     settings.SpriteSize,
			Image:    s.Image,
		})
	}

	g.spawn()
	g.Resize(1, 1)
	log.Printf("game: started %s (%dx%d, %d sprites, %s renderer)", l.Name, l.Width, l.Height, len(l.Sprites), settings.Renderer)
	return g
}

// applySettings pushes the settings into the shader and renderer.
func (g *Game) applySettings() {
	st := g.settings

	g.shader.UseLevel(g.Level)
	g.shader.Subsample = max(st.Subsample, 1)
	g.shader.FogStep = st.FogStep
	g.shader.Dither = st.Dither
	g.shader.TextureDistance = st.TextureDistance
	g.shader.FloorTextures = st.FloorTextures
	g.shader.FloorTextureHeight = 0
	g.shader.CeilingMax = level.CeilingMaxHeight
	if st.Renderer == Simple {
		// the simple renderer has no ceiling, so everything above the walls
		// is sky
		g.shader.CeilingMax = 0
	}

	g.renderer.SetConfig(raycast.Config{
		Projection:           st.Projection,
		FloorTexCoords:       st.FloorTextures,
		FloorTexCoordsHeight: 0,
	})
}

func (g *Game) spawn() {
	start := g.Level.Start
	g.Player.Spawn(start.Square.X, start.Square.Y, start.Direction, g.Level.Grids().Floor)
	g.shear = 0
	g.look.pos, g.look.vel = 0, 0
}

// Settings returns the current settings.
func (g *Game) Settings() Settings {
	return g.settings
}

// Resize sets the framebuffer size in pixels. Each rendered column covers
// Subsample framebuffer columns.
func (g *Game) Resize(width, height int) {
	width, height = max(width, 1), max(height, 1)
	g.fb.Resize(width, height)
	g.fb.Clear(render.ColorBlack)
	g.resolution = image.Pt(max(width/g.shader.Subsample, 1), height)
}

// Resolution returns the rendered resolution.
func (g *Game) Resolution() image.Point {
	return g.resolution
}

// Won reports whether the player has reached a goal.
func (g *Game) Won() bool {
	return g.won
}

// Deaths returns how often the player was squashed.
func (g *Game) Deaths() int {
	return g.deaths
}

// FPS returns the frame rate measured over the last second of updates.
func (g *Game) FPS() float64 {
	return g.fps
}

// Command performs a non-movement action.
func (g *Game) Command(c Command) {
	switch c {
	case ToggleMap:
		g.settings.ShowMinimap = !g.settings.ShowMinimap
	case ToggleHUD:
		g.settings.ShowHUD = !g.settings.ShowHUD
	case ToggleRenderer:
		if g.settings.Renderer == Simple {
			g.settings.Renderer = Complex
		} else {
			g.settings.Renderer = Simple
		}
		g.applySettings()
		log.Printf("game: %s renderer", g.settings.Renderer)
	case ToggleFisheye:
		if g.settings.Projection == raycast.Rectilinear {
			g.settings.Projection = raycast.Curvilinear
		} else {
			g.settings.Projection = raycast.Rectilinear
		}
		g.applySettings()
	case Restart:
		g.Level.Reset()
		g.won = false
		g.spawn()
	}
}

// Update advances the game by one frame of length dt.
func (g *Game) Update(in player.Input, dt time.Duration) {
	g.countFrame(dt)

	// smoothed mouse turning, applied in angle units so small motions
	// add up
	cfg := g.Player.Config()
	g.turnTarget += float64(in.MouseX*cfg.MouseSensitivity) / 128
	step := int(math.Round(g.turn.follow(g.turnTarget))) - g.turned
	g.turned += step
	in.MouseX = 0

	grids := g.Level.Grids()
	ev := g.Player.Update(in, grids.CollisionFloor, grids.Ceiling)

	cam := &g.Player.Camera
	cam.Direction = ((cam.Direction+fixed.Unit(step))%sq + sq) % sq
	g.shear = int(math.Round(g.look.follow(float64(cam.Shear))))

	x, y := g.Player.Square()
	if g.Level.Update(dt, image.Pt(x, y)) > 0 {
		g.play(sound.Door)
	}

	if ev.Jumped {
		g.play(sound.Jump)
	}
	if ev.Landed {
		g.play(sound.Land)
	}
	if ev.Step {
		g.play(sound.Step)
	}

	if ev.Squashed {
		g.deaths++
		g.play(sound.Squash)
		log.Printf("game: squashed at (%d,%d)", x, y)
		g.spawn()
		return
	}

	if !g.won && g.atGoal(x, y) {
		g.won = true
		g.play(sound.Goal)
		log.Printf("game: goal reached after %v", g.Level.Elapsed())
	}
}

func (g *Game) atGoal(x, y int) bool {
	for _, s := range g.Level.Sprites {
		if s.Image == level.GoalImage && s.Square == image.Pt(x, y) {
			return true
		}
	}
	return false
}

func (g *Game) play(c sound.Cue) {
	if g.cues != nil {
		g.cues.Play(c)
	}
}

func (g *Game) countFrame(dt time.Duration) {
	g.fpsCount++
	g.fpsTime += dt
	if g.fpsTime >= time.Second {
		g.fps = float64(g.fpsCount) / g.fpsTime.Seconds()
		g.fpsCount = 0
		g.fpsTime = 0
	}
}

// Camera returns the camera the next frame is drawn with. The simple
// renderer has no shear, so its camera never carries any.
func (g *Game) Camera() raycast.Camera {
	cam := g.Player.Camera
	cam.Resolution = g.resolution
	cam.Shear = g.shear
	if g.settings.Renderer == Simple {
		// walls are drawn without shear, so sprites must be too
		cam.Shear = 0
	}
	return cam
}

// Draw renders the current frame and returns the framebuffer. The
// framebuffer is reused by the next Draw.
func (g *Game) Draw() *render.Framebuffer {
	cam := g.Camera()
	grids := g.Level.Grids()
	c := g.settings.rayConstraints()

	g.shader.Begin(cam)
	if g.settings.Renderer == Simple {
		g.renderer.RenderSimple(cam, grids.Floor, grids.Types, grids.Roll, c)
	} else {
		g.renderer.RenderComplex(cam, grids.Floor, grids.Ceiling, grids.Types, c)
	}

	// columns left over when the width is not a multiple of Subsample
	if used := cam.Resolution.X * g.shader.Subsample; used < g.fb.Width {
		g.fb.DrawRect(used, 0, g.fb.Width-used, g.fb.Height, render.ColorBlack)
	}

	g.sprites.Draw(g.shader, cam, g.billboards)

	if g.settings.ShowMinimap {
		m := g.settings.Minimap
		m.Draw(g.fb, g.fb.Width-m.Size()-2, 2, g.Level, cam)
	}
	return g.fb
}

// Status returns the HUD lines to show over the frame.
func (g *Game) Status() []string {
	var lines []string
	if g.settings.ShowHUD {
		x, y := g.Player.Square()
		cam := g.Player.Camera
		lines = append(lines,
			fmt.Sprintf("%s  %.0f fps", g.Level.Name, g.fps),
			fmt.Sprintf("%s %s  %dx%d", g.settings.Renderer, g.settings.Projection, g.resolution.X, g.resolution.Y),
			fmt.Sprintf("square %d,%d  facing %d  height %d", x, y, int(cam.Direction)*360/int(sq), cam.Height),
		)
		if g.deaths > 0 {
			lines = append(lines, fmt.Sprintf("squashed %d times", g.deaths))
		}
	}
	if g.won {
		lines = append(lines, "You found the exit. Press n to play again.")
	}
	return lines
}

// Stats returns the renderer's work counters.
func (g *Game) Stats() raycast.Stats {
	return *g.renderer.Stats()
}

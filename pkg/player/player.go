// Package player moves a first-person body through a level: turning,
// walking, strafing, jumping and falling, all in fixed-point steps of one
// frame, on top of the raycast collision mover.
package player

import (
	"fmt"

	"github.com/taigrr/gridcast/pkg/fixed"
	"github.com/taigrr/gridcast/pkg/raycast"
)

const sq = fixed.UnitsPerSquare

// Config holds the movement tunables. Speeds are per second and turned into
// per-frame steps for the configured frame rate.
type Config struct {
	FPS int

	TurnSpeed int        // degrees per second
	MoveSpeed fixed.Unit // units per second
	JumpSpeed fixed.Unit // units per second
	Gravity   fixed.Unit // units per second squared

	MaxShear  int // pixels
	ShearStep int // pixels per frame

	// FreeLook keeps the shear when the look keys are released instead of
	// returning the view to level.
	FreeLook bool

	MouseSensitivity int // angle units per 128 mouse pixels

	// StepLength is the walked distance between two footsteps.
	StepLength fixed.Unit

	Collision raycast.CollisionConfig
}

// DefaultConfig returns 30 frames per second, 180 degrees of turn and five
// squares of walking per second, and a jump about half a square high.
func DefaultConfig() Config {
	return Config{
		FPS:              30,
		TurnSpeed:        180,
		MoveSpeed:        5 * sq,
		JumpSpeed:        4 * sq,
		Gravity:          16 * sq,
		MaxShear:         60,
		ShearStep:        4,
		MouseSensitivity: 32,
		StepLength:       3 * sq / 4,
		Collision:        raycast.DefaultCollision(),
	}
}

// Input is the player's intent for one frame.
type Input struct {
	Forward, Back           bool
	TurnLeft, TurnRight     bool
	StrafeLeft, StrafeRight bool
	Jump                    bool
	LookUp, LookDown        bool

	// MouseX turns, MouseY shears. Both in pixels moved since last frame.
	MouseX, MouseY int
}

// Events reports what happened during a frame, for sound and effects.
type Events struct {
	Jumped   bool
	Landed   bool
	Step     bool
	Squashed bool
}

// Player is a camera with a body.
type Player struct {
	Camera raycast.Camera

	VerticalSpeed         fixed.Unit
	previousVerticalSpeed fixed.Unit

	// Squashed is set once the space between floor and ceiling at the
	// player's square got smaller than the collision box.
	Squashed bool

	cfg    Config
	turn   fixed.Unit
	move   fixed.Unit
	jump   fixed.Unit
	fall   fixed.Unit
	walked fixed.Unit
}

// New returns a player using cfg, standing at the origin.
func New(cfg Config) *Player {
	p := &Player{Camera: raycast.NewCamera()}
	p.SetConfig(cfg)
	return p
}

// SetConfig replaces the tunables and recomputes the per-frame steps.
func (p *Player) SetConfig(cfg Config) {
	if cfg.FPS <= 0 {
		cfg.FPS = DefaultConfig().FPS
	}
	fps := fixed.Unit(cfg.FPS)

	p.cfg = cfg
	p.turn = fixed.NonZero(fixed.Unit(cfg.TurnSpeed) * sq / (360 * fps))
	p.move = fixed.NonZero(cfg.MoveSpeed / fps)
	p.jump = fixed.NonZero(cfg.JumpSpeed / fps)
	p.fall = fixed.NonZero(cfg.Gravity / (fps * fps))
}

// Config returns the current tunables.
func (p *Player) Config() Config {
	return p.cfg
}

// Spawn places the player in the middle of square (x, y), standing on the
// floor and facing direction.
func (p *Player) Spawn(x, y int, direction fixed.Unit, floor raycast.Grid) {
	p.Camera.Position = fixed.V2(fixed.Unit(x)*sq+sq/2, fixed.Unit(y)*sq+sq/2)
	p.Camera.Direction = direction
	p.Camera.Shear = 0
	p.Camera.Height = floor.At(x, y) + p.cfg.Collision.HeightBelow
	p.VerticalSpeed = 0
	p.previousVerticalSpeed = 0
	p.Squashed = false
	p.walked = 0
}

// Square returns the square the player stands in.
func (p *Player) Square() (x, y int) {
	return p.Camera.Position.Square()
}

// Direction returns the unit vector the player faces.
func (p *Player) Direction() fixed.Vec2 {
	return fixed.AngleToDirection(p.Camera.Direction)
}

// Update advances the player by one frame. floor should include blocking
// sprites; ceiling may be nil.
func (p *Player) Update(in Input, floor, ceiling raycast.Grid) Events {
	var ev Events
	cam := &p.Camera

	if in.TurnLeft {
		cam.Direction -= p.turn
	} else if in.TurnRight {
		cam.Direction += p.turn
	}
	cam.Direction += fixed.Unit(in.MouseX * p.cfg.MouseSensitivity / 128)
	cam.Direction = (cam.Direction%sq + sq) % sq

	shearing := false
	switch {
	case in.LookUp:
		cam.Shear = min(p.cfg.MaxShear, cam.Shear+p.cfg.ShearStep)
		shearing = true
	case in.LookDown:
		cam.Shear = max(-p.cfg.MaxShear, cam.Shear-p.cfg.ShearStep)
		shearing = true
	}
	if in.MouseY != 0 {
		cam.Shear = max(-p.cfg.MaxShear, min(p.cfg.MaxShear, cam.Shear-in.MouseY))
		shearing = true
	}
	if !shearing && !p.cfg.FreeLook {
		if cam.Shear > 0 {
			cam.Shear = max(0, cam.Shear-p.cfg.ShearStep)
		} else {
			cam.Shear = min(0, cam.Shear+p.cfg.ShearStep)
		}
	}

	dir := p.Direction().Scale(p.move, sq)
	var offset fixed.Vec2
	if in.Forward {
		offset = offset.Add(dir)
	} else if in.Back {
		offset = offset.Sub(dir)
	}
	strafe := fixed.Unit(0)
	if in.StrafeLeft {
		strafe = -1
	} else if in.StrafeRight {
		strafe = 1
	}
	offset.X += strafe * dir.Y
	offset.Y -= strafe * dir.X

	var vertical fixed.Unit
	if in.Jump && p.VerticalSpeed == 0 && p.previousVerticalSpeed == 0 {
		vertical = p.jump
		ev.Jumped = true
	} else {
		vertical = p.VerticalSpeed - p.fall
	}

	wasFalling := p.VerticalSpeed < 0
	previousHeight := cam.Height
	previousPosition := cam.Position

	p.cfg.Collision.Move(cam, raycast.Movement{
		Plane:         offset,
		Height:        vertical,
		ComputeHeight: true,
		Force:         true,
	}, floor, ceiling)

	p.previousVerticalSpeed = p.VerticalSpeed
	// Climbing a step must not turn into upward speed.
	limit := max(max(0, vertical), p.VerticalSpeed)
	p.VerticalSpeed = min(limit, cam.Height-previousHeight)

	ev.Landed = wasFalling && p.VerticalSpeed == 0

	if p.VerticalSpeed == 0 && p.previousVerticalSpeed == 0 {
		p.walked += fixed.Octagonal.Dist(previousPosition, cam.Position)
		if p.cfg.StepLength > 0 && p.walked >= p.cfg.StepLength {
			p.walked -= p.cfg.StepLength
			ev.Step = true
		}
	}

	if ceiling != nil {
		x, y := p.Square()
		if ceiling.At(x, y)-floor.At(x, y) < p.cfg.Collision.HeightAbove+p.cfg.Collision.HeightBelow {
			p.Squashed = true
		}
	}
	ev.Squashed = p.Squashed

	return ev
}

func (p *Player) String() string {
	return fmt.Sprintf("player{%v vs=%d squashed=%t}", p.Camera, p.VerticalSpeed, p.Squashed)
}

package frontend

import (
	"time"

	"github.com/taigrr/gridcast/internal/game"
	"github.com/taigrr/gridcast/pkg/player"
)

type action int

const (
	forward action = iota
	back
	turnLeft
	turnRight
	strafeLeft
	strafeRight
	jump
	lookUp
	lookDown
	actionCount
)

// Key names follow ultraviolet's Key.String; the tcell driver translates its
// events to the same names.
var actionKeys = map[string]action{
	"w":      forward,
	"up":     forward,
	"s":      back,
	"down":   back,
	"a":      turnLeft,
	"left":   turnLeft,
	"d":      turnRight,
	"right":  turnRight,
	"q":      strafeLeft,
	"e":      strafeRight,
	"space":  jump,
	"r":      lookUp,
	"pgup":   lookUp,
	"f":      lookDown,
	"pgdown": lookDown,
}

var commandKeys = map[string]game.Command{
	"m":   game.ToggleMap,
	"?":   game.ToggleHUD,
	"h":   game.ToggleHUD,
	"tab": game.ToggleRenderer,
	"x":   game.ToggleFisheye,
	"n":   game.Restart,
}

func isQuitKey(name string) bool {
	return name == "esc" || name == "escape" || name == "ctrl+c"
}

// defaultHold is how long a key press counts as held when the terminal does
// not report releases. It bridges the gap before key repeat starts.
const defaultHold = 200 * time.Millisecond

// keyState turns key press and release events into per-frame player input.
// Until the first release event arrives a press only lasts for hold.
type keyState struct {
	hold     time.Duration
	releases bool
	until    [actionCount]time.Time
}

func newKeyState() *keyState {
	return &keyState{hold: defaultHold}
}

// press marks the action of key name as held and reports whether the key
// is bound.
func (k *keyState) press(name string, now time.Time) bool {
	a, ok := actionKeys[name]
	if !ok {
		return false
	}
	if k.releases {
		// held until released
		k.until[a] = now.Add(time.Hour)
	} else {
		k.until[a] = now.Add(k.hold)
	}
	return true
}

func (k *keyState) release(name string) {
	k.releases = true
	if a, ok := actionKeys[name]; ok {
		k.until[a] = time.Time{}
	}
}

func (k *keyState) held(a action, now time.Time) bool {
	return now.Before(k.until[a])
}

// input returns the held keys at now as player input.
func (k *keyState) input(now time.Time) player.Input {
	return player.Input{
		Forward:     k.held(forward, now),
		Back:        k.held(back, now),
		TurnLeft:    k.held(turnLeft, now),
		TurnRight:   k.held(turnRight, now),
		StrafeLeft:  k.held(strafeLeft, now),
		StrafeRight: k.held(strafeRight, now),
		Jump:        k.held(jump, now),
		LookUp:      k.held(lookUp, now),
		LookDown:    k.held(lookDown, now),
	}
}

// Terminal cells are much coarser than window pixels.
const (
	cellMouseScaleX = 16
	cellMouseScaleY = 4
)

// mouseDrag turns mouse motion while a button is down into look deltas.
type mouseDrag struct {
	down           bool
	lastX, lastY   int
	dx, dy         int
	scaleX, scaleY int
}

func newCellDrag() *mouseDrag {
	return &mouseDrag{scaleX: cellMouseScaleX, scaleY: cellMouseScaleY}
}

func (m *mouseDrag) press(x, y int) {
	m.down = true
	m.lastX, m.lastY = x, y
}

func (m *mouseDrag) release() {
	m.down = false
}

func (m *mouseDrag) move(x, y int) {
	if !m.down {
		return
	}
	m.dx += (x - m.lastX) * m.scaleX
	m.dy += (y - m.lastY) * m.scaleY
	m.lastX, m.lastY = x, y
}

// take adds the motion since the last call to in.
func (m *mouseDrag) take(in *player.Input) {
	in.MouseX += m.dx
	in.MouseY += m.dy
	m.dx, m.dy = 0, 0
}

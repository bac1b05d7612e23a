package raycast

import (
	"image"
	"testing"

	"github.com/taigrr/gridcast/pkg/fixed"
)

func TestMapToScreenRoundTrip(t *testing.T) {
	cam := NewCamera()
	cam.Position = fixed.V2(5*U, 5*U)
	cam.Direction = U / 4 // exactly -y
	cam.Resolution = image.Pt(640, 480)

	for _, d := range []fixed.Unit{U + U/2, 2 * U, 3 * U, 5 * U, 8 * U} {
		p := MapToScreen(fixed.V2(5*U, 5*U-d), cam.Height+U, cam)

		if p.Depth != d {
			t.Errorf("depth = %d, want %d", p.Depth, d)
		}
		if p.Position.X != 320 {
			t.Errorf("x = %d, want the middle column", p.Position.X)
		}

		// Recover the distance from how far above the horizon the point
		// landed.
		back := fixed.PerspectiveScaleInverse(480, fixed.Unit(240-p.Position.Y))
		if fixed.Abs(back-d) > d/64+4 {
			t.Errorf("distance %d projected to row %d and back to %d", d, p.Position.Y, back)
		}
	}
}

func TestMapToScreenAnyDirection(t *testing.T) {
	cam := NewCamera()
	cam.Resolution = image.Pt(320, 200)

	const d = 4 * U

	for dir := fixed.Unit(0); dir < U; dir += 73 {
		cam.Direction = dir
		ahead := fixed.AngleToDirection(dir).Scale(d, U)

		p := MapToScreen(ahead, cam.Height, cam)

		if fixed.Abs(p.Depth-d) > d/64+4 {
			t.Errorf("dir %d: depth = %d, want about %d", dir, p.Depth, d)
		}
		if p.Position.X < 159 || p.Position.X > 161 {
			t.Errorf("dir %d: x = %d, want about 160", dir, p.Position.X)
		}
		if p.Position.Y != 100 {
			t.Errorf("dir %d: y = %d, want the horizon", dir, p.Position.Y)
		}
	}
}

func TestMapToScreenShearAndSides(t *testing.T) {
	cam := NewCamera()
	cam.Direction = U / 4
	cam.Resolution = image.Pt(100, 80)

	center := MapToScreen(fixed.V2(0, -3*U), cam.Height, cam)

	cam.Shear = 13
	sheared := MapToScreen(fixed.V2(0, -3*U), cam.Height, cam)
	if sheared.Position.Y != center.Position.Y+13 {
		t.Errorf("shear moved row from %d to %d, want +13", center.Position.Y, sheared.Position.Y)
	}

	// Turned a quarter clockwise from +x, the right hand points to -x.
	right := MapToScreen(fixed.V2(-U, -3*U), cam.Height, cam)
	if right.Position.X <= center.Position.X {
		t.Errorf("point at -x mapped to column %d, not right of %d", right.Position.X, center.Position.X)
	}

	behind := MapToScreen(fixed.V2(0, 3*U), cam.Height, cam)
	if behind.Depth >= 0 {
		t.Errorf("point behind the camera has depth %d", behind.Depth)
	}
}

func TestAdjustDistance(t *testing.T) {
	cam := NewCamera()

	straight := Ray{Direction: fixed.V2(U, 0)}
	if got := AdjustDistance(2000, cam, straight); fixed.Abs(got-2000) > 8 {
		t.Errorf("straight ahead: %d, want about 2000", got)
	}

	// 60 degrees off the view direction halves the distance.
	sideways := Ray{Direction: fixed.AngleToDirection(fixed.DegreesToAngle(60))}
	if got := AdjustDistance(2000, cam, sideways); fixed.Abs(got-1000) > 20 {
		t.Errorf("60 degrees: %d, want about 1000", got)
	}

	if got := AdjustDistance(0, cam, straight); got != 1 {
		t.Errorf("zero distance adjusted to %d, want 1", got)
	}
}

package raycast

import (
	"fmt"

	"github.com/taigrr/gridcast/pkg/fixed"
)

const (
	// HorizonDepth is the depth reported for pixels at the horizon.
	HorizonDepth = 11 * fixed.UnitsPerSquare

	verticalDepthMultiply     = 2
	textureInterpolationScale = 1024
)

// Config controls optional renderer features.
type Config struct {
	Projection Projection
	Metric     fixed.Metric

	// FloorTexCoords enables world coordinates for floor pixels.
	FloorTexCoords bool

	// FloorTexCoordsHeight restricts floor coordinates to floors of exactly
	// this height in the complex renderer.
	FloorTexCoordsHeight fixed.Unit

	// FixedTextureScale keeps texels square in world space instead of
	// stretching one texture over every wall.
	FixedTextureScale bool

	// StaticDoorTextures stops door textures from sliding with the door.
	StaticDoorTextures bool
}

// Stats counts renderer work since the last Reset.
type Stats struct {
	Frames uint64
	Rays   uint64
	Hits   uint64
	Pixels uint64
}

// Reset zeroes all counters.
func (s *Stats) Reset() {
	*s = Stats{}
}

func (s Stats) String() string {
	return fmt.Sprintf("frames=%d rays=%d hits=%d pixels=%d", s.Frames, s.Rays, s.Hits, s.Pixels)
}

type renderMode uint8

const (
	modeSimple renderMode = iota
	modeComplex
)

// floorCeilGrid packs floor and ceiling heights into one traversal value so
// that a change of either produces a hit.
type floorCeilGrid struct {
	floor, ceiling Grid
}

func (g *floorCeilGrid) At(x, y int) fixed.Unit {
	f := g.floor.At(x, y)
	if g.ceiling == nil {
		return f
	}
	c := g.ceiling.At(x, y)
	return (f&0xffff)<<16 | c&0xffff
}

// squareIDGrid returns a distinct non-zero value for every non-empty square,
// so that each wall face produces its own hit.
type squareIDGrid struct {
	floor Grid
}

func (g *squareIDGrid) At(x, y int) fixed.Unit {
	if g.floor.At(x, y) == 0 {
		return 0
	}
	return fixed.NonZero(fixed.Unit(x&0xff | (y&0xff)<<8))
}

// Renderer turns rays into pixels. It owns all scratch memory, so after the
// first frame at a given resolution rendering does not allocate. A Renderer
// must not be used from more than one goroutine at a time.
type Renderer struct {
	cfg  Config
	sink PixelSink

	caster    Caster
	floorCeil floorCeilGrid
	squareID  squareIDGrid

	hits           []HitResult
	floorDistances []fixed.Unit
	pixel          PixelInfo
	stats          Stats

	// per-frame state
	mode                renderMode
	cam                 Camera
	floor, ceiling      Grid
	roll                Grid
	resY                fixed.Unit
	middleRow           fixed.Unit
	horizontalDepthStep fixed.Unit
	fHorizonStart       fixed.Unit
	cHorizonStart       fixed.Unit
	startFloorHeight    fixed.Unit
	startCeilHeight     fixed.Unit
	cameraHeightScreen  fixed.Unit
}

// NewRenderer creates a renderer that sends pixels to sink.
func NewRenderer(sink PixelSink, cfg Config) *Renderer {
	return &Renderer{
		cfg:  cfg,
		sink: sink,
	}
}

// Config returns the renderer configuration.
func (r *Renderer) Config() Config {
	return r.cfg
}

// SetConfig replaces the renderer configuration for subsequent frames.
func (r *Renderer) SetConfig(cfg Config) {
	r.cfg = cfg
}

// Stats returns the work counters.
func (r *Renderer) Stats() *Stats {
	return &r.stats
}

// begin prepares buffers and shared per-frame state. It reports false when
// the camera resolution is empty.
func (r *Renderer) begin(cam Camera, maxHits int) bool {
	if cam.Resolution.X <= 0 || cam.Resolution.Y <= 0 {
		return false
	}

	if len(r.hits) < maxHits {
		r.hits = make([]HitResult, maxHits)
	}
	if len(r.floorDistances) < cam.Resolution.Y {
		r.floorDistances = make([]fixed.Unit, cam.Resolution.Y)
	}

	r.cam = cam
	r.resY = fixed.Unit(cam.Resolution.Y)
	r.horizontalDepthStep = HorizonDepth / r.resY
	r.caster.Projection = r.cfg.Projection
	r.caster.Metric = r.cfg.Metric
	r.stats.Frames++

	return true
}

func (r *Renderer) precomputeFloorDistances() {
	camHeightScreen := fixed.MulDiv(r.cam.Height, r.resY, fixed.UnitsPerSquare)
	for i := range r.cam.Resolution.Y {
		r.floorDistances[i] = fixed.PerspectiveScaleInverse(camHeightScreen, fixed.Abs(fixed.Unit(i)-r.middleRow))
	}
}

func (r *Renderer) drawColumn(hits []HitResult, x int, ray Ray) {
	r.stats.Rays++
	r.stats.Hits += uint64(len(hits))

	if r.mode == modeComplex {
		r.columnComplex(hits, x, ray)
	} else {
		r.columnSimple(hits, x, ray)
	}
}

func (r *Renderer) emit() {
	r.stats.Pixels++
	r.sink.Pixel(&r.pixel)
}

// makeInfiniteHit fills h with a hit at a very large distance along ray.
func makeInfiniteHit(h *HitResult, ray Ray) {
	const dist = fixed.UnitsPerSquare * fixed.UnitsPerSquare
	*h = HitResult{
		Distance: dist,
		Position: fixed.Vec2{
			X: fixed.MulDiv(ray.Direction.X, dist, fixed.UnitsPerSquare),
			Y: fixed.MulDiv(ray.Direction.Y, dist, fixed.UnitsPerSquare),
		},
	}
}

// drawVertical draws a floor or ceiling span starting one past yCurrent in
// the direction of increment and ending at yTo clamped to [limit1, limit2].
// It returns the clamped end row.
func (r *Renderer) drawVertical(
	yCurrent, yTo, limit1, limit2, verticalOffset fixed.Unit,
	increment fixed.Unit,
	computeCoords bool,
	depthIncrementMultiplier fixed.Unit,
) fixed.Unit {
	p := &r.pixel
	p.IsWall = false

	limit := fixed.Clamp(yTo, limit1, limit2)

	p.Depth += fixed.Abs(verticalOffset) * verticalDepthMultiply
	depthIncrement := depthIncrementMultiplier * r.horizontalDepthStep

	var dx, dy, hitDist fixed.Unit
	if computeCoords {
		dx = p.Hit.Position.X - r.cam.Position.X
		dy = p.Hit.Position.Y - r.cam.Position.Y
		hitDist = fixed.NonZero(p.Hit.Distance)
	}

	for i := yCurrent + increment; (increment == -1 && i >= limit) || (increment == 1 && i <= limit); i += increment {
		p.Position.Y = int(i)
		p.Depth += depthIncrement

		if computeCoords {
			d := r.floorDistances[i]
			p.TexCoords.X = r.cam.Position.X + fixed.MulDiv(d, dx, hitDist)
			p.TexCoords.Y = r.cam.Position.Y + fixed.MulDiv(d, dy, hitDist)
		}

		r.emit()
	}

	return limit
}

// drawWall draws a wall span from yCurrent toward yTo clamped to
// [limit1, limit2], interpolating the vertical texture coordinate between the
// unclamped ends yFrom and yTo. height is the world height of the segment and
// only matters with FixedTextureScale.
func (r *Renderer) drawWall(
	yCurrent, yFrom, yTo, limit1, limit2, height fixed.Unit,
	increment fixed.Unit,
) fixed.Unit {
	const scale = int64(textureInterpolationScale)

	p := &r.pixel
	p.IsWall = true

	height = fixed.Abs(height)
	limit := fixed.Clamp(yTo, limit1, limit2)

	wallLength := int64(fixed.NonZero(fixed.Abs(yTo - yFrom - 1)))
	wallPosition := int64(fixed.Abs(yFrom-yCurrent) - increment)

	full := int64(fixed.UnitsPerSquare) * scale
	if r.cfg.FixedTextureScale {
		full = int64(height) * scale
	}

	coordStep := full / wallLength
	tex := wallPosition * coordStep

	if increment < 0 {
		coordStep = -coordStep
		tex = full - tex
	}

	for i := yCurrent + increment; (increment == -1 && i >= limit) || (increment == 1 && i <= limit); i += increment {
		p.Position.Y = int(i)
		p.TexCoords.Y = fixed.Unit(tex / scale)
		tex += coordStep

		r.emit()
	}

	return limit
}

package sink

import (
	"bytes"
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"time"

	"github.com/matzehuels/molview/pkg/molecule"
	"github.com/matzehuels/molview/pkg/render/scene"
)

// GIF defaults.
const (
	DefaultFrames = 36
	DefaultDelay  = 80 * time.Millisecond
	MaxFrames     = 360
)

// GIFOption configures animated GIF rendering.
type GIFOption func(*gifRenderer)

type gifRenderer struct {
	svgOpts []SVGOption
	frames  int
	delay   time.Duration
	scale   float64
}

// WithGIFSVGOptions passes view options through. The view angle becomes the
// starting angle of the turn.
func WithGIFSVGOptions(opts ...SVGOption) GIFOption {
	return func(r *gifRenderer) { r.svgOpts = opts }
}

// WithFrames sets the number of frames per full turn (default 36).
func WithFrames(n int) GIFOption { return func(r *gifRenderer) { r.frames = n } }

// WithDelay sets the time each frame is shown (default 80ms).
func WithDelay(d time.Duration) GIFOption { return func(r *gifRenderer) { r.delay = d } }

// WithGIFScale sets the raster scale factor (default 1.0).
func WithGIFScale(s float64) GIFOption { return func(r *gifRenderer) { r.scale = s } }

// RenderGIF renders one full turn of st about its vertical axis as a
// looping animated GIF.
func RenderGIF(st molecule.Structure, opts ...GIFOption) ([]byte, error) {
	r := gifRenderer{frames: DefaultFrames, delay: DefaultDelay, scale: 1}
	for _, opt := range opts {
		opt(&r)
	}
	if r.frames <= 0 || r.frames > MaxFrames {
		return nil, fmt.Errorf("frames must be between 1 and %d, got %d", MaxFrames, r.frames)
	}

	v := newView(r.svgOpts...)
	start := v.angle
	delay := max(1, int(r.delay/(10*time.Millisecond)))

	anim := &gif.GIF{LoopCount: 0}
	for _, angle := range scene.Frames(r.frames) {
		v.angle = start + angle
		img := rasterize(st, v, r.scale)
		anim.Image = append(anim.Image, toPaletted(img))
		anim.Delay = append(anim.Delay, delay)
	}

	var buf bytes.Buffer
	if err := gif.EncodeAll(&buf, anim); err != nil {
		return nil, fmt.Errorf("encode gif: %w", err)
	}
	return buf.Bytes(), nil
}

func toPaletted(img image.Image) *image.Paletted {
	b := img.Bounds()
	pal := image.NewPaletted(b, palette.Plan9)
	draw.FloydSteinberg.Draw(pal, b, img, b.Min)
	return pal
}

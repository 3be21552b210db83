package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"sync"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/carousel/internal/state"
)

// ImageRenderer draws into memory instead of a device. The simulator serves
// its frames as PNG and tests inspect its pixels.
type ImageRenderer struct {
	Logger Logger
	Clock  clockwork.Clock
	// Interval between frames in RunLoop; zero means 10 FPS.
	Interval time.Duration

	mu      sync.Mutex
	canvas  *Canvas
	current Screen
	frames  int
}

func NewImageRenderer(opts Options) *ImageRenderer {
	opts = opts.withDefaults()
	fonts := NewFontBook(opts.FontsDir)
	canvas := NewCanvas(opts.CanvasWidth, opts.CanvasHeight, fonts)
	canvas.LogoHeight = opts.LogoHeight
	return &ImageRenderer{canvas: canvas, Clock: clockwork.NewRealClock()}
}

func (r *ImageRenderer) Start(ctx context.Context) error {
	r.canvas.Logger = r.Logger
	r.canvas.fonts.Logger = r.Logger
	r.canvas.fonts.Load()
	return nil
}

func (r *ImageRenderer) Stop() error { return nil }

func (r *ImageRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

func (r *ImageRenderer) RedrawWithState(view state.View) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.current == nil {
		return
	}
	r.canvas.Fill(r.canvas.Image().Bounds(), color.Black)
	r.current.Draw(r.canvas, view)
	r.frames++
}

func (r *ImageRenderer) RunLoop(ctx context.Context, source ViewSource) {
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second / 10
	}
	ticker := r.Clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			r.RedrawWithState(source.View())
		}
	}
}

// Frames reports how many frames have been drawn.
func (r *ImageRenderer) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Frame returns a copy of the last drawn frame.
func (r *ImageRenderer) Frame() *image.RGBA {
	r.mu.Lock()
	defer r.mu.Unlock()
	src := r.canvas.Image()
	out := image.NewRGBA(src.Bounds())
	copy(out.Pix, src.Pix)
	return out
}

// PNG encodes the last drawn frame.
func (r *ImageRenderer) PNG() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, r.Frame()); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

package render

import (
	"context"
	"image"
	"image/color"
	"sync"
	"sync/atomic"
	"time"

	fb "github.com/gonutz/framebuffer"
	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/carousel/internal/state"
)

// FBRenderer renders to the Linux framebuffer using an offscreen logical canvas.
type FBRenderer struct {
	Options Options
	Logger  Logger
	Clock   clockwork.Clock
	Debug   bool

	fbDev   *fb.Device
	canvas  *Canvas
	fonts   *FontBook
	running atomic.Bool

	mu      sync.Mutex
	current Screen
}

func NewFBRenderer(opts Options) *FBRenderer {
	return &FBRenderer{Options: opts.withDefaults(), Clock: clockwork.NewRealClock()}
}

func (r *FBRenderer) Start(ctx context.Context) error {
	r.Options = r.Options.withDefaults()
	dev, err := fb.Open(r.Options.Device)
	if err != nil {
		return err
	}
	r.fbDev = dev
	bounds := dev.Bounds()
	r.infof("framebuffer %s open, bounds=%dx%d", r.Options.Device, bounds.Dx(), bounds.Dy())

	r.fonts = NewFontBook(r.Options.FontsDir)
	r.fonts.Logger = r.Logger
	r.fonts.Load()

	r.canvas = NewCanvas(r.Options.CanvasWidth, r.Options.CanvasHeight, r.fonts)
	r.canvas.Logger = r.Logger
	r.canvas.LogoHeight = r.Options.LogoHeight

	r.running.Store(true)
	return nil
}

func (r *FBRenderer) Stop() error {
	r.running.Store(false)
	if r.fbDev != nil {
		r.fbDev.Close()
	}
	return nil
}

// SetScreen sets the current logical screen to be drawn.
func (r *FBRenderer) SetScreen(screen Screen) {
	r.mu.Lock()
	r.current = screen
	r.mu.Unlock()
}

func (r *FBRenderer) screen() Screen {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// RedrawWithState clears the canvas, lets the current screen draw and blits the result.
func (r *FBRenderer) RedrawWithState(view state.View) {
	current := r.screen()
	if !r.running.Load() || current == nil || r.fbDev == nil {
		return
	}
	r.canvas.Fill(r.canvas.Image().Bounds(), color.Black)
	current.Draw(r.canvas, view)
	blitToFB(r.fbDev, r.canvas.Image())
	if r.Debug {
		r.infof("redraw done, mode=%s", view.Mode)
	}
}

// RunLoop continuously redraws at ~30 FPS until the context is done.
func (r *FBRenderer) RunLoop(ctx context.Context, source ViewSource) {
	clock := r.Clock
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	ticker := clock.NewTicker(time.Second / 30)
	defer ticker.Stop()
	lastLog := clock.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.Chan():
			view := source.View()
			r.RedrawWithState(view)
			if r.Debug && clock.Since(lastLog) > time.Second {
				r.infof("heartbeat frame, mode=%s", view.Mode)
				lastLog = clock.Now()
			}
		}
	}
}

func (r *FBRenderer) infof(format string, args ...interface{}) {
	if r.Logger != nil {
		r.Logger.Infof("fb", format, args...)
	}
}

// blitToFB copies the canvas to the framebuffer with nearest-neighbor scaling.
func blitToFB(dev *fb.Device, canvas *image.RGBA) {
	if dev == nil {
		return
	}
	bounds := dev.Bounds()
	fbWidth, fbHeight := bounds.Dx(), bounds.Dy()
	canvasWidth, canvasHeight := canvas.Bounds().Dx(), canvas.Bounds().Dy()
	for y := 0; y < fbHeight; y++ {
		sy := (y * canvasHeight) / fbHeight
		for x := 0; x < fbWidth; x++ {
			sx := (x * canvasWidth) / fbWidth
			pixel := canvas.RGBAAt(sx, sy)
			dev.Set(bounds.Min.X+x, bounds.Min.Y+y, color.RGBA{R: pixel.R, G: pixel.G, B: pixel.B, A: 0xFF})
		}
	}
}

package render

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"golang.org/x/image/font/gofont/goregular"

	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/state"
)

type recordingLogger struct {
	mu     sync.Mutex
	errors []string
}

func (l *recordingLogger) Infof(string, string, ...interface{}) {}

func (l *recordingLogger) Errorf(component string, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.errors = append(l.errors, component+": "+format)
}

func redLogo(t *testing.T, w, h int) *logo.Asset {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i], img.Pix[i+3] = 0xFF, 0xFF
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &logo.Asset{DataURI: logo.EncodeDataURI("image/png", buf.Bytes()), MediaType: "image/png", Width: w, Height: h}
}

func TestPaintSlideFillsBackground(t *testing.T) {
	c := NewCanvas(400, 400, nil)
	style := state.DefaultStyle()
	style.BackgroundColor = "#3b82f6"
	c.PaintSlide(c.Image().Bounds(), style, "", "")
	want := color.RGBA{R: 0x3b, G: 0x82, B: 0xf6, A: 0xff}
	for _, p := range []image.Point{{2, 2}, {200, 200}, {398, 398}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got != want {
			t.Fatalf("pixel %v = %v, want %v", p, got, want)
		}
	}
}

func TestPaintSlideAnchorsLogoBottomRight(t *testing.T) {
	c := NewCanvas(400, 400, nil)
	style := state.DefaultStyle()
	style.Logo = redLogo(t, 150, 50)
	c.PaintSlide(c.Image().Bounds(), style, "", "")

	// Padding 32, height 75, width 225: logo spans (143,293)-(368,368).
	inside := c.Image().RGBAAt(300, 330)
	if inside.R < 0xF0 || inside.G > 0x10 || inside.B > 0x10 {
		t.Fatalf("inside logo = %v, want red", inside)
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for _, p := range []image.Point{{100, 330}, {300, 280}, {380, 330}, {300, 380}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got != white {
			t.Fatalf("outside logo pixel %v = %v, want background", p, got)
		}
	}
}

func TestPaintSlideLogoScalesWithFrame(t *testing.T) {
	c := NewCanvas(800, 800, nil)
	style := state.DefaultStyle()
	style.Logo = redLogo(t, 100, 100)
	c.PaintSlide(c.Image().Bounds(), style, "", "")
	// At twice the reference height: padding 64, logo 150x150 ending at 736.
	if got := c.Image().RGBAAt(600, 600); got.R < 0xF0 || got.G > 0x10 {
		t.Fatalf("scaled logo pixel = %v", got)
	}
	if got := c.Image().RGBAAt(570, 600); got.G != 0xff {
		t.Fatalf("pixel left of scaled logo = %v", got)
	}
}

func TestPaintSlideWideLogoKeepsAspect(t *testing.T) {
	c := NewCanvas(400, 400, nil)
	style := state.DefaultStyle()
	style.Logo = redLogo(t, 1000, 50)
	c.PaintSlide(c.Image().Bounds(), style, "", "")

	// Capped to the inner width 336, so the height drops to 17: (32,351)-(368,368).
	for _, p := range []image.Point{{40, 360}, {200, 360}, {360, 360}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got.R < 0xF0 || got.G > 0x10 {
			t.Fatalf("logo pixel %v = %v, want red", p, got)
		}
	}
	white := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
	for _, p := range []image.Point{{200, 300}, {200, 345}, {20, 360}} {
		if got := c.Image().RGBAAt(p.X, p.Y); got != white {
			t.Fatalf("pixel %v = %v, want background", p, got)
		}
	}
}

func TestPaintSlideDrawsTextInFontColor(t *testing.T) {
	c := NewCanvas(400, 400, nil)
	style := state.DefaultStyle()
	style.FontColor = "#ff0000"
	c.PaintSlide(c.Image().Bounds(), style, "Hello world", "")
	img := c.Image()
	reds := 0
	for y := 0; y < 400; y++ {
		for x := 0; x < 400; x++ {
			if p := img.RGBAAt(x, y); p.R == 0xff && p.G < 0x40 && p.B < 0x40 {
				reds++
			}
		}
	}
	if reds == 0 {
		t.Fatalf("no text pixels in font color")
	}
}

func TestPaintSlideFallsBackOnBadColor(t *testing.T) {
	c := NewCanvas(100, 100, nil)
	logger := &recordingLogger{}
	c.Logger = logger
	style := state.DefaultStyle()
	style.BackgroundColor = "not-a-color"
	c.PaintSlide(c.Image().Bounds(), style, "", "")
	c.PaintSlide(c.Image().Bounds(), style, "", "")
	if got := c.Image().RGBAAt(1, 1); got != fallbackBackground {
		t.Fatalf("fallback background = %v", got)
	}
	if len(logger.errors) != 1 {
		t.Fatalf("bad color logged %d times, want once", len(logger.errors))
	}
}

func TestPaintSlideBadge(t *testing.T) {
	c := NewCanvas(400, 400, nil)
	c.PaintSlide(c.Image().Bounds(), state.DefaultStyle(), "Text", "Slide 1")
	if got := c.Image().RGBAAt(17, 17); got != badgeBackground {
		t.Fatalf("badge pixel = %v", got)
	}
}

func TestPaintSlideIgnoresUndecodableLogo(t *testing.T) {
	c := NewCanvas(100, 100, nil)
	logger := &recordingLogger{}
	c.Logger = logger
	style := state.DefaultStyle()
	style.Logo = &logo.Asset{DataURI: "data:image/png;base64,AAAA"}
	c.PaintSlide(c.Image().Bounds(), style, "", "")
	if len(logger.errors) != 1 {
		t.Fatalf("errors = %v", logger.errors)
	}
}

func TestFontBookBuiltinFallback(t *testing.T) {
	fb := NewFontBook("")
	for _, choice := range catalog.List() {
		if src := fb.Source(choice); src != "builtin" {
			t.Fatalf("Source(%s) = %q", choice.DisplayName, src)
		}
		if fb.Face(choice, 20) == nil {
			t.Fatalf("Face(%s) nil", choice.DisplayName)
		}
	}
	if fb.Face(catalog.FontChoice{}, 0) == nil {
		t.Fatalf("ui face nil")
	}
}

func TestFontBookLoadsFilesFromDir(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "font-roboto.ttf")
	if err := os.WriteFile(good, goregular.TTF, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "font-anton.ttf"), []byte("garbage"), 0o644); err != nil {
		t.Fatal(err)
	}
	fb := NewFontBook(dir)
	roboto, _ := catalog.FindByName("Roboto")
	anton, _ := catalog.FindByName("Anton")
	if src := fb.Source(roboto); src != good {
		t.Fatalf("Source(Roboto) = %q", src)
	}
	if src := fb.Source(anton); src != "builtin" {
		t.Fatalf("Source(Anton) = %q", src)
	}
}

func TestQRCacheReusesImage(t *testing.T) {
	var q QRCache
	if img, err := q.Image("", 100); img != nil || err != nil {
		t.Fatalf("empty payload = %v, %v", img, err)
	}
	first, err := q.Image("http://carousel.local", 128)
	if err != nil || first == nil {
		t.Fatalf("Image: %v", err)
	}
	second, _ := q.Image("http://carousel.local", 128)
	if first != second {
		t.Fatalf("cache miss for identical payload")
	}
	third, _ := q.Image("http://other.local", 128)
	if third == first {
		t.Fatalf("cache hit for different payload")
	}
}

type paintScreen struct{ text string }

func (paintScreen) Start(_ context.Context) error { return nil }
func (paintScreen) Stop() error                   { return nil }
func (s paintScreen) Draw(r Drawer, v state.View) {
	w, h := r.Size()
	r.PaintSlide(image.Rect(0, 0, w, h), v.Style, s.text, "")
}

func TestImageRendererDrawsCurrentScreen(t *testing.T) {
	r := NewImageRenderer(Options{CanvasWidth: 200, CanvasHeight: 100})
	if err := r.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	r.RedrawWithState(state.View{Style: state.DefaultStyle()})
	if r.Frames() != 0 {
		t.Fatalf("drew without a screen")
	}
	r.SetScreen(paintScreen{})
	style := state.DefaultStyle()
	style.BackgroundColor = "#000000"
	r.RedrawWithState(state.View{Style: style})
	if r.Frames() != 1 {
		t.Fatalf("frames = %d", r.Frames())
	}
	if got := r.Frame().RGBAAt(50, 50); got != (color.RGBA{A: 0xff}) {
		t.Fatalf("pixel = %v", got)
	}
	data, err := r.PNG()
	if err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil || decoded.Bounds().Dx() != 200 {
		t.Fatalf("png round trip: %v", err)
	}
}

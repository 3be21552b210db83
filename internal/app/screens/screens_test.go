package screens

import (
	"context"
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/slides"
	"github.com/rook-computer/carousel/internal/state"
)

type paintCall struct {
	frame image.Rectangle
	text  string
	badge string
}

// recordingDrawer records slide paints and ignores everything else.
type recordingDrawer struct {
	paints []paintCall
	images int
	texts  []string
}

func (d *recordingDrawer) Size() (int, int)                  { return 1920, 1080 }
func (d *recordingDrawer) Fill(image.Rectangle, color.Color) {}
func (d *recordingDrawer) MeasureText(string, render.TextStyle) render.TextMetrics {
	return render.TextMetrics{Width: 10, Height: 10, LineHeight: 12}
}
func (d *recordingDrawer) DrawText(text string, x, y int, style render.TextStyle) render.TextMetrics {
	d.texts = append(d.texts, text)
	return d.MeasureText(text, style)
}
func (d *recordingDrawer) DrawTextBlock(string, image.Rectangle, render.TextStyle) {}
func (d *recordingDrawer) ImageSize(img image.Image) (int, int) {
	return img.Bounds().Dx(), img.Bounds().Dy()
}
func (d *recordingDrawer) DrawImageInRect(image.Image, image.Rectangle, render.ScaleMode) {
	d.images++
}
func (d *recordingDrawer) PaintSlide(frame image.Rectangle, _ state.Style, text, badge string) {
	d.paints = append(d.paints, paintCall{frame: frame, text: text, badge: badge})
}

func TestEditorScreenPaintsPreviewText(t *testing.T) {
	screen := NewEditorScreen("http://carousel.local:8080", nil)
	style := state.DefaultStyle()
	style.PreviewText = "Brand check"
	d := &recordingDrawer{}
	screen.Draw(d, state.View{Mode: state.Editing, Style: style})

	if len(d.paints) != 1 || d.paints[0].text != "Brand check" || d.paints[0].badge != "" {
		t.Fatalf("paints = %+v", d.paints)
	}
	if d.paints[0].frame.Empty() {
		t.Fatalf("preview frame is empty")
	}
	if d.images != 1 {
		t.Fatalf("qr images drawn = %d", d.images)
	}
}

func TestEditorScreenWithoutURLSkipsQR(t *testing.T) {
	d := &recordingDrawer{}
	NewEditorScreen("", nil).Draw(d, state.View{Style: state.DefaultStyle()})
	if d.images != 0 {
		t.Fatalf("qr drawn without url")
	}
}

func waitTicks(t *testing.T, s *PreviewScreen, want int64) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for s.ticks.Load() < want {
		if time.Now().After(deadline) {
			t.Fatalf("ticks = %d, want %d", s.ticks.Load(), want)
		}
		time.Sleep(time.Millisecond)
	}
}

func TestPreviewScreenCyclesDeck(t *testing.T) {
	clock := clockwork.NewFakeClock()
	screen := NewPreviewScreen(clock, time.Second)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if err := screen.Start(ctx); err != nil {
		t.Fatal(err)
	}
	defer screen.Stop()

	deck := slides.Generate([]string{"A", "B", "C"})
	view := state.View{Mode: state.Previewing, Style: state.DefaultStyle(), Deck: &deck}
	d := &recordingDrawer{}
	screen.Draw(d, view)

	for i := int64(1); i <= 3; i++ {
		clock.Advance(time.Second)
		waitTicks(t, screen, i)
		screen.Draw(d, view)
	}

	want := []paintCall{
		{text: "A", badge: "Slide 1"},
		{text: "B", badge: "Slide 2"},
		{text: "C", badge: "Slide 3"},
		{text: "A", badge: "Slide 1"},
	}
	if len(d.paints) != len(want) {
		t.Fatalf("paints = %+v", d.paints)
	}
	for i, w := range want {
		if d.paints[i].text != w.text || d.paints[i].badge != w.badge {
			t.Fatalf("paint %d = %+v, want %+v", i, d.paints[i], w)
		}
	}
}

func TestPreviewScreenRestartsOnNewDeck(t *testing.T) {
	screen := NewPreviewScreen(clockwork.NewFakeClock(), time.Second)
	first := slides.Generate([]string{"A", "B"})
	screen.Current(&first)
	screen.ticks.Store(1)
	if s, _ := screen.Current(&first); s.Text != "B" {
		t.Fatalf("current = %+v", s)
	}
	second := slides.Generate([]string{"X", "Y"})
	if s, _ := screen.Current(&second); s.Text != "X" {
		t.Fatalf("new deck starts at %+v", s)
	}
}

func TestPreviewScreenEmptyDeck(t *testing.T) {
	screen := NewPreviewScreen(nil, 0)
	empty := slides.Generate(nil)
	d := &recordingDrawer{}
	screen.Draw(d, state.View{Mode: state.Previewing, Deck: &empty})
	if len(d.paints) != 1 || d.paints[0].text != "No slides" {
		t.Fatalf("paints = %+v", d.paints)
	}
	if screen.Interval != DefaultSlideInterval {
		t.Fatalf("interval = %v", screen.Interval)
	}
}

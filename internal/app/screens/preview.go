package screens

import (
	"context"
	"fmt"
	"image"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/slides"
	"github.com/rook-computer/carousel/internal/state"
)

const DefaultSlideInterval = 4 * time.Second

// PreviewScreen shows the generated deck one slide at a time, advancing
// every Interval. A new deck starts from its first slide.
type PreviewScreen struct {
	Clock    clockwork.Clock
	Interval time.Duration

	ticks  atomic.Int64
	cancel context.CancelFunc

	// Owned by the render goroutine.
	deckID string
	base   int64
}

func NewPreviewScreen(clock clockwork.Clock, interval time.Duration) *PreviewScreen {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if interval <= 0 {
		interval = DefaultSlideInterval
	}
	return &PreviewScreen{Clock: clock, Interval: interval}
}

func (s *PreviewScreen) Start(ctx context.Context) error {
	screenCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	ticker := s.Clock.NewTicker(s.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-screenCtx.Done():
				return
			case <-ticker.Chan():
				s.ticks.Add(1)
			}
		}
	}()
	return nil
}

func (s *PreviewScreen) Stop() error {
	if s.cancel != nil {
		s.cancel()
	}
	return nil
}

// Current picks the slide to show for deck.
func (s *PreviewScreen) Current(deck *slides.Deck) (slides.Slide, bool) {
	if deck == nil || deck.Len() == 0 {
		return slides.Slide{}, false
	}
	ticks := s.ticks.Load()
	if deck.ID != s.deckID {
		s.deckID = deck.ID
		s.base = ticks
	}
	return deck.At(int((ticks - s.base) % int64(deck.Len())))
}

func (s *PreviewScreen) Draw(r render.Drawer, v state.View) {
	w, h := r.Size()
	full := image.Rect(0, 0, w, h)
	slide, ok := s.Current(v.Deck)
	if !ok {
		r.PaintSlide(full, v.Style, "No slides", "")
		return
	}
	r.PaintSlide(full, v.Style, slide.Text, fmt.Sprintf("Slide %d", slide.Index+1))
	r.DrawText(fmt.Sprintf("%d / %d   B back", slide.Index+1, v.Deck.Len()), h/40, h-h/20, render.TextStyle{Color: hintColor, Size: h / 48})
}

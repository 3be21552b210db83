package render

import (
	"context"
	"image"
	"image/color"

	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/state"
)

type Renderer interface {
	Start(ctx context.Context) error
	Stop() error
	SetScreen(screen Screen)
	RunLoop(ctx context.Context, source ViewSource)
	RedrawWithState(view state.View)
}

// ViewSource is polled by the render loop for the latest view.
type ViewSource interface {
	View() state.View
}

type Screen interface {
	Start(ctx context.Context) error
	Stop() error
	Draw(r Drawer, v state.View)
}

type NoopRenderer struct{}

func (n *NoopRenderer) Start(ctx context.Context) error                { return nil }
func (n *NoopRenderer) Stop() error                                    { return nil }
func (n *NoopRenderer) SetScreen(screen Screen)                        {}
func (n *NoopRenderer) RunLoop(ctx context.Context, source ViewSource) {}
func (n *NoopRenderer) RedrawWithState(view state.View)                {}

// Drawer is an abstraction the renderer provides to screens to draw primitives
// without exposing the canvas or the output device.
type Drawer interface {
	// Size returns the logical canvas size (in pixels) that screens draw into.
	Size() (width int, height int)

	Fill(rect image.Rectangle, c color.Color)

	// Generic text primitives.
	MeasureText(text string, style TextStyle) TextMetrics
	DrawText(text string, x, y int, style TextStyle) TextMetrics
	// DrawTextBlock wraps text to rect's width and centers the block in rect.
	DrawTextBlock(text string, rect image.Rectangle, style TextStyle)

	// Generic image primitives.
	ImageSize(img image.Image) (width int, height int)
	DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode)

	// PaintSlide paints one slide frame with the given style. badge may be empty.
	PaintSlide(frame image.Rectangle, style state.Style, text string, badge string)
}

type TextAlign int

const (
	TextAlignLeft TextAlign = iota
	TextAlignCenter
	TextAlignRight
)

// TextStyle describes how to render text.
// Coordinates for DrawText use a top-left anchor for Y.
// For X, Align controls how x is interpreted.
type TextStyle struct {
	Color color.Color
	Size  int // font size in pixels; 0 means renderer default
	Align TextAlign
	// Font selects a catalog face; the zero value uses the UI face.
	Font catalog.FontChoice
}

type TextMetrics struct {
	Width      int
	Height     int
	Ascent     int
	Descent    int
	LineHeight int
}

type ScaleMode int

const (
	ScaleModeFit ScaleMode = iota
	ScaleModeFill
	ScaleModeStretch
)

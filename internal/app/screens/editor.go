package screens

import (
	"context"
	"fmt"
	"image"
	"image/color"

	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/render/layout"
	"github.com/rook-computer/carousel/internal/state"
)

var (
	panelColor = color.RGBA{R: 0x11, G: 0x18, B: 0x27, A: 0xFF}
	hintColor  = color.RGBA{R: 0x9c, G: 0xa3, B: 0xaf, A: 0xFF}
	titleColor = color.RGBA{R: 0xF9, G: 0xFA, B: 0xFB, A: 0xFF}
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// EditorScreen shows the preview frame for the current style and a QR code
// pointing at the host UI, where the style is edited.
type EditorScreen struct {
	PublicURL string
	Logger    Logger

	qr       render.QRCache
	qrFailed bool
}

func NewEditorScreen(publicURL string, logger Logger) *EditorScreen {
	return &EditorScreen{PublicURL: publicURL, Logger: logger}
}

func (s *EditorScreen) Start(ctx context.Context) error { return nil }
func (s *EditorScreen) Stop() error                     { return nil }

func (s *EditorScreen) Draw(r render.Drawer, v state.View) {
	w, h := r.Size()
	full := image.Rect(0, 0, w, h)
	r.Fill(full, panelColor)

	content := layout.Inset(full, h/20)
	main, side := layout.SplitVertical(content, content.Dx()*2/3)
	title, rest := layout.SplitHorizontal(main, h/12)
	frameArea, footer := layout.SplitHorizontal(rest, rest.Dy()-h/10)

	r.DrawText("Style preview", title.Min.X, title.Min.Y, render.TextStyle{Color: titleColor, Size: h / 24})
	r.PaintSlide(layout.Inset(frameArea, h/60), v.Style, v.Style.PreviewText, "")

	info := fmt.Sprintf("%s  |  text %s  |  background %s", v.Style.Font.DisplayName, v.Style.FontColor, v.Style.BackgroundColor)
	r.DrawText(info, footer.Min.X, footer.Min.Y+h/60, render.TextStyle{Color: hintColor, Size: h / 40})
	r.DrawText("G generate slides   F4 exit", footer.Min.X, footer.Min.Y+h/60+h/30, render.TextStyle{Color: hintColor, Size: h / 40})

	s.drawQR(r, layout.Inset(side, h/30), h)
}

func (s *EditorScreen) drawQR(r render.Drawer, area image.Rectangle, h int) {
	if s.PublicURL == "" {
		return
	}
	qrArea, caption := layout.SplitHorizontal(area, area.Dy()*3/4)
	square := layout.CenterSquare(qrArea)
	img, err := s.qr.Image(s.PublicURL, square.Dx())
	if err != nil {
		if !s.qrFailed && s.Logger != nil {
			s.Logger.Errorf("screen", "qr code for %q failed: %v", s.PublicURL, err)
		}
		s.qrFailed = true
		return
	}
	r.DrawImageInRect(img, square, render.ScaleModeFit)
	mid := caption.Min.X + caption.Dx()/2
	style := render.TextStyle{Color: hintColor, Size: h / 40, Align: render.TextAlignCenter}
	line := r.DrawText("Edit style at", mid, caption.Min.Y+h/60, style)
	r.DrawText(s.PublicURL, mid, caption.Min.Y+h/60+line.LineHeight, style)
}

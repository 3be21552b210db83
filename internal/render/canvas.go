package render

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"strings"
	"sync"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/render/layout"
	"github.com/rook-computer/carousel/internal/state"
)

// ReferenceFrameHeight is the frame height at which Canvas.LogoHeight and the
// slide paddings are specified; larger frames scale them up proportionally.
const ReferenceFrameHeight = 400

var (
	fallbackBackground = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	fallbackForeground = color.RGBA{A: 0xFF}
	badgeBackground    = color.RGBA{R: 0x1f, G: 0x29, B: 0x37, A: 0xFF}
	badgeForeground    = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
)

type Logger interface {
	Infof(component string, format string, args ...interface{})
	Errorf(component string, format string, args ...interface{})
}

// Canvas is an in-memory Drawer. Screens paint into it; renderers copy it out.
type Canvas struct {
	img        *image.RGBA
	fonts      *FontBook
	LogoHeight int
	Logger     Logger

	logoMu   sync.Mutex
	logoURI  string
	logoImg  image.Image
	badColor map[string]bool
}

func NewCanvas(width, height int, fonts *FontBook) *Canvas {
	if fonts == nil {
		fonts = NewFontBook("")
	}
	return &Canvas{
		img:        image.NewRGBA(image.Rect(0, 0, width, height)),
		fonts:      fonts,
		LogoHeight: 75,
		badColor:   make(map[string]bool),
	}
}

func (c *Canvas) Image() *image.RGBA { return c.img }

func (c *Canvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) Fill(rect image.Rectangle, fill color.Color) {
	draw.Draw(c.img, rect.Intersect(c.img.Bounds()), &image.Uniform{C: fill}, image.Point{}, draw.Over)
}

func (c *Canvas) face(style TextStyle) font.Face {
	return c.fonts.Face(style.Font, style.Size)
}

func (c *Canvas) MeasureText(text string, style TextStyle) TextMetrics {
	face := c.face(style)
	m := face.Metrics()
	drawer := font.Drawer{Face: face}
	return TextMetrics{
		Width:      drawer.MeasureString(text).Ceil(),
		Height:     m.Ascent.Ceil() + m.Descent.Ceil(),
		Ascent:     m.Ascent.Ceil(),
		Descent:    m.Descent.Ceil(),
		LineHeight: m.Height.Ceil(),
	}
}

func (c *Canvas) DrawText(text string, x, y int, style TextStyle) TextMetrics {
	metrics := c.MeasureText(text, style)
	switch style.Align {
	case TextAlignCenter:
		x -= metrics.Width / 2
	case TextAlignRight:
		x -= metrics.Width
	}
	fg := style.Color
	if fg == nil {
		fg = fallbackForeground
	}
	drawer := &font.Drawer{Dst: c.img, Src: image.NewUniform(fg), Face: c.face(style)}
	drawer.Dot = fixed.P(x, y+metrics.Ascent)
	drawer.DrawString(text)
	return metrics
}

func (c *Canvas) DrawTextBlock(text string, rect image.Rectangle, style TextStyle) {
	lines := c.wrap(text, rect.Dx(), style)
	if len(lines) == 0 {
		return
	}
	metrics := c.MeasureText("", style)
	lineHeight := metrics.LineHeight
	if lineHeight <= 0 {
		lineHeight = metrics.Height
	}
	blockHeight := lineHeight * len(lines)
	y := rect.Min.Y + (rect.Dy()-blockHeight)/2
	centered := style
	centered.Align = TextAlignCenter
	midX := rect.Min.X + rect.Dx()/2
	for _, line := range lines {
		c.DrawText(line, midX, y, centered)
		y += lineHeight
	}
}

// wrap breaks text into lines no wider than maxWidth. Words longer than
// maxWidth get a line of their own.
func (c *Canvas) wrap(text string, maxWidth int, style TextStyle) []string {
	var lines []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			continue
		}
		current := words[0]
		for _, word := range words[1:] {
			candidate := current + " " + word
			if c.MeasureText(candidate, style).Width <= maxWidth {
				current = candidate
				continue
			}
			lines = append(lines, current)
			current = word
		}
		lines = append(lines, current)
	}
	return lines
}

func (c *Canvas) ImageSize(img image.Image) (int, int) {
	if img == nil {
		return 0, 0
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func (c *Canvas) DrawImageInRect(img image.Image, rect image.Rectangle, mode ScaleMode) {
	if img == nil || rect.Empty() {
		return
	}
	srcW, srcH := c.ImageSize(img)
	if srcW == 0 || srcH == 0 {
		return
	}
	dst := rect
	switch mode {
	case ScaleModeFit, ScaleModeFill:
		scaleW := float64(rect.Dx()) / float64(srcW)
		scaleH := float64(rect.Dy()) / float64(srcH)
		scale := scaleW
		if (mode == ScaleModeFit && scaleH < scale) || (mode == ScaleModeFill && scaleH > scale) {
			scale = scaleH
		}
		w, h := int(float64(srcW)*scale+0.5), int(float64(srcH)*scale+0.5)
		// Fill may overflow rect, so center by hand instead of clamping.
		dst = image.Rect(0, 0, w, h).Add(image.Pt(rect.Min.X+(rect.Dx()-w)/2, rect.Min.Y+(rect.Dy()-h)/2))
	}
	// Scale into a temporary RGBA and composite with alpha, clipped to rect.
	temp := image.NewRGBA(dst)
	xdraw.CatmullRom.Scale(temp, temp.Bounds(), img, img.Bounds(), xdraw.Over, nil)
	draw.Draw(c.img, dst.Intersect(rect), temp, dst.Intersect(rect).Min, draw.Over)
}

// PaintSlide draws a slide frame: background, centered text in the selected font and
// color, the logo at a fixed height in the bottom-right corner, and an optional badge.
func (c *Canvas) PaintSlide(frame image.Rectangle, style state.Style, text string, badge string) {
	frame = frame.Intersect(c.img.Bounds())
	if frame.Empty() {
		return
	}
	c.Fill(frame, c.resolveColor(style.BackgroundColor, fallbackBackground))

	unit := func(px int) int { return px * frame.Dy() / ReferenceFrameHeight }
	padding := unit(32)
	inner := layout.Inset(frame, padding)

	logoRect := image.Rectangle{}
	if logoImg := c.decodeLogo(style.Logo); logoImg != nil {
		h := unit(c.LogoHeight)
		srcW, srcH := c.ImageSize(logoImg)
		w := layout.ScaleToHeight(srcW, srcH, h)
		if w > inner.Dx() && srcW > 0 {
			// Too wide for the frame: shrink both sides to keep the aspect.
			w = inner.Dx()
			h = (srcH*w + srcW/2) / srcW
		}
		logoRect = layout.AnchorBottomRight(inner, w, h)
		c.DrawImageInRect(logoImg, logoRect, ScaleModeStretch)
	}

	textArea := inner
	if !logoRect.Empty() {
		textArea.Max.Y = logoRect.Min.Y
	}
	textStyle := TextStyle{
		Color: c.resolveColor(style.FontColor, fallbackForeground),
		Size:  unit(24),
		Font:  style.Font,
	}
	c.DrawTextBlock(text, textArea, textStyle)

	if badge != "" {
		c.drawBadge(frame, badge, unit)
	}
}

func (c *Canvas) drawBadge(frame image.Rectangle, badge string, unit func(int) int) {
	style := TextStyle{Color: badgeForeground, Size: unit(14), Font: catalog.FontChoice{}}
	metrics := c.MeasureText(badge, style)
	padX, padY := unit(12), unit(4)
	origin := frame.Min.Add(image.Pt(unit(16), unit(16)))
	box := image.Rect(0, 0, metrics.Width+2*padX, metrics.Height+2*padY).Add(origin)
	c.Fill(box, badgeBackground)
	c.DrawText(badge, box.Min.X+padX, box.Min.Y+padY, style)
}

// resolveColor parses a configured color, reporting each unparseable value once.
func (c *Canvas) resolveColor(value string, fallback color.RGBA) color.RGBA {
	parsed, err := ParseColor(value)
	if err == nil {
		return parsed
	}
	c.logoMu.Lock()
	first := !c.badColor[value]
	c.badColor[value] = true
	c.logoMu.Unlock()
	if first && c.Logger != nil {
		c.Logger.Errorf("render", "color %q not paintable, using fallback: %v", value, err)
	}
	return fallback
}

// decodeLogo decodes the asset's data URI, caching the last decoded logo.
func (c *Canvas) decodeLogo(asset *logo.Asset) image.Image {
	if asset == nil || asset.DataURI == "" {
		return nil
	}
	c.logoMu.Lock()
	defer c.logoMu.Unlock()
	if asset.DataURI == c.logoURI {
		return c.logoImg
	}
	c.logoURI = asset.DataURI
	c.logoImg = nil
	_, data, err := logo.DecodeDataURI(asset.DataURI)
	if err != nil {
		if c.Logger != nil {
			c.Logger.Errorf("render", "logo data uri invalid: %v", err)
		}
		return nil
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		if c.Logger != nil {
			c.Logger.Errorf("render", "logo decode failed: %v", err)
		}
		return nil
	}
	c.logoImg = img
	return img
}

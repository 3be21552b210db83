package web

import (
	"github.com/rs/zerolog"

	"github.com/rook-computer/carousel/internal/app"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/slides"
	"github.com/rook-computer/carousel/internal/state"
)

// SessionAPI is what the HTTP API needs from the session. *app.Session implements it.
type SessionAPI interface {
	View() state.View
	Style() state.Style
	OnChange(fn func(state.View))

	Generate() (slides.Deck, error)
	Back() error

	SetBackgroundColor(value string) error
	SetFontColor(value string) error
	SelectFont(name string) (bool, error)
	SetPreviewText(value string) error
	UpdateStyle(patch app.StylePatch) error
	ClearLogo() error
	IngestLogo(file logo.File, done func(logo.Asset, error)) error
}

type APIV1Deps struct {
	Session SessionAPI
	Logger  zerolog.Logger
	// MaxUploadBytes bounds a logo upload request body; <= 0 means logo.DefaultMaxBytes.
	// The ingestor applies its own limit to the file itself.
	MaxUploadBytes int64
	// Events, when set, serves GET /events.
	Events *EventHub
}

func (d APIV1Deps) uploadLimit() int64 {
	if d.MaxUploadBytes <= 0 {
		return logo.DefaultMaxBytes
	}
	return d.MaxUploadBytes
}

package app

import (
	"errors"
	"sync"
	"sync/atomic"

	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/slides"
	"github.com/rook-computer/carousel/internal/state"
)

var (
	ErrNotEditing    = errors.New("session is not editing")
	ErrNotPreviewing = errors.New("session is not previewing")
)

type modeState struct {
	mode state.Mode
	deck *slides.Deck
}

// StylePatch holds the style fields to change; nil fields are left alone.
type StylePatch struct {
	BackgroundColor *string `json:"backgroundColor"`
	FontColor       *string `json:"fontColor"`
	Font            *string `json:"font"`
	PreviewText     *string `json:"previewText"`
}

// Session is the view-mode controller. It owns the style store and the deck,
// and gates style edits on the Editing mode.
//
// Change listeners run synchronously on the mutating goroutine, in change
// order, while the session lock is held. They must not call back into Session
// mutators.
type Session struct {
	Logger Logger

	store    *state.Store
	ingestor *logo.Ingestor
	template []string

	// mu serialises transitions, edits and change notifications; mode is read
	// lock-free.
	mu   sync.Mutex
	mode atomic.Pointer[modeState]

	listenersMu sync.Mutex
	listeners   []func(state.View)
}

// NewSession starts in Editing with no deck. template is the text list Generate
// uses; nil means the built-in template.
func NewSession(store *state.Store, ingestor *logo.Ingestor, template []string) *Session {
	if store == nil {
		store = state.NewStore()
	}
	if ingestor == nil {
		ingestor = logo.NewIngestor()
	}
	if template == nil {
		template = slides.Template()
	}
	s := &Session{
		Logger:   NoopLogger{},
		store:    store,
		ingestor: ingestor,
		template: append([]string(nil), template...),
	}
	s.mode.Store(&modeState{mode: state.Editing})
	store.OnChange(func(style state.Style) {
		ms := s.mode.Load()
		s.emit(state.View{Mode: ms.mode, Style: style, Deck: ms.deck})
	})
	return s
}

func (s *Session) Mode() state.Mode { return s.mode.Load().mode }

func (s *Session) Style() state.Style { return s.store.Snapshot() }

// Deck returns the current deck; nil while editing.
func (s *Session) Deck() *slides.Deck {
	return copyDeck(s.mode.Load().deck)
}

func (s *Session) View() state.View {
	ms := s.mode.Load()
	return state.View{Mode: ms.mode, Style: s.store.Snapshot(), Deck: copyDeck(ms.deck)}
}

// OnChange registers fn to receive the view after every style change and
// mode transition.
func (s *Session) OnChange(fn func(state.View)) {
	if fn == nil {
		return
	}
	s.listenersMu.Lock()
	s.listeners = append(s.listeners, fn)
	s.listenersMu.Unlock()
}

func (s *Session) emit(view state.View) {
	s.listenersMu.Lock()
	listeners := append([]func(state.View){}, s.listeners...)
	s.listenersMu.Unlock()
	for _, fn := range listeners {
		fn(view)
	}
}

// Generate builds a fresh deck from the template and enters Previewing.
func (s *Session) Generate() (slides.Deck, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode.Load().mode != state.Editing {
		return slides.Deck{}, ErrNotEditing
	}
	deck := slides.Generate(s.template)
	s.mode.Store(&modeState{mode: state.Previewing, deck: &deck})

	s.Logger.Infof("session", "generated deck %s with %d slides", deck.ID, deck.Len())
	s.emit(s.View())
	return *copyDeck(&deck), nil
}

// Back discards the deck and returns to Editing. Style is untouched.
func (s *Session) Back() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode.Load().mode != state.Previewing {
		return ErrNotPreviewing
	}
	s.mode.Store(&modeState{mode: state.Editing})

	s.Logger.Infof("session", "back to editing")
	s.emit(s.View())
	return nil
}

func (s *Session) editing(mutate func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.mode.Load().mode != state.Editing {
		return ErrNotEditing
	}
	mutate()
	return nil
}

func (s *Session) SetBackgroundColor(value string) error {
	return s.editing(func() { s.store.SetBackgroundColor(value) })
}

func (s *Session) SetFontColor(value string) error {
	return s.editing(func() { s.store.SetFontColor(value) })
}

func (s *Session) SetPreviewText(value string) error {
	return s.editing(func() { s.store.SetPreviewText(value) })
}

// SelectFont reports whether name matched a catalog font. A miss is not an error.
func (s *Session) SelectFont(name string) (bool, error) {
	applied := false
	err := s.editing(func() { applied = s.store.SelectFont(name) })
	if err == nil && !applied {
		s.Logger.Infof("session", "font %q not in catalog, keeping current font", name)
	}
	return applied, err
}

func (s *Session) ClearLogo() error {
	return s.editing(s.store.ClearLogo)
}

// UpdateStyle applies every set field of patch, or none when not editing.
func (s *Session) UpdateStyle(patch StylePatch) error {
	return s.editing(func() {
		if patch.BackgroundColor != nil {
			s.store.SetBackgroundColor(*patch.BackgroundColor)
		}
		if patch.FontColor != nil {
			s.store.SetFontColor(*patch.FontColor)
		}
		if patch.Font != nil && !s.store.SelectFont(*patch.Font) {
			s.Logger.Infof("session", "font %q not in catalog, keeping current font", *patch.Font)
		}
		if patch.PreviewText != nil {
			s.store.SetPreviewText(*patch.PreviewText)
		}
	})
}

// IngestLogo starts reading file in the background and returns without
// waiting. Starting is only allowed while editing. On success the asset
// replaces any current logo, whatever the mode is by then. done, if set, is
// called once. Overlapping ingestions are not cancelled; the last to finish wins.
func (s *Session) IngestLogo(file logo.File, done func(logo.Asset, error)) error {
	return s.editing(func() {
		s.ingestor.Ingest(file, func(asset logo.Asset, err error) {
			if err != nil {
				s.Logger.Errorf("session", "logo ingest failed: %v", err)
			} else {
				s.mu.Lock()
				s.store.SetLogo(asset)
				s.mu.Unlock()
				s.Logger.Infof("session", "logo installed (%s, %dx%d)", asset.MediaType, asset.Width, asset.Height)
			}
			if done != nil {
				done(asset, err)
			}
		})
	})
}

func copyDeck(deck *slides.Deck) *slides.Deck {
	if deck == nil {
		return nil
	}
	out := slides.Deck{ID: deck.ID, Slides: append([]slides.Slide{}, deck.Slides...)}
	return &out
}

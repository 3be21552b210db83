package state

import (
	"sync"

	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/logo"
)

const (
	DefaultBackgroundColor = "#ffffff"
	DefaultFontColor       = "#000000"
	DefaultPreviewText     = "Preview text with selected colors"
)

// Style is the style configuration. Colors are passed through verbatim.
type Style struct {
	BackgroundColor string             `json:"backgroundColor"`
	Font            catalog.FontChoice `json:"font"`
	FontColor       string             `json:"fontColor"`
	Logo            *logo.Asset        `json:"logo"`
	PreviewText     string             `json:"previewText"`
}

func DefaultStyle() Style {
	return Style{
		BackgroundColor: DefaultBackgroundColor,
		Font:            catalog.Default(),
		FontColor:       DefaultFontColor,
		PreviewText:     DefaultPreviewText,
	}
}

// Store owns the session's style. Every mutator is total.
type Store struct {
	mu        sync.RWMutex
	style     Style
	listeners []func(Style)
}

func NewStore() *Store {
	return &Store{style: DefaultStyle()}
}

func (store *Store) Snapshot() Style {
	store.mu.RLock()
	defer store.mu.RUnlock()
	return store.snapshotLocked()
}

func (store *Store) snapshotLocked() Style {
	out := store.style
	if out.Logo != nil {
		asset := *out.Logo
		out.Logo = &asset
	}
	return out
}

// OnChange registers fn to be called with a snapshot after every mutation.
// Listeners run on the mutating goroutine, outside the lock.
func (store *Store) OnChange(fn func(Style)) {
	if fn == nil {
		return
	}
	store.mu.Lock()
	store.listeners = append(store.listeners, fn)
	store.mu.Unlock()
}

func (store *Store) update(mutate func(s *Style)) {
	store.mu.Lock()
	mutate(&store.style)
	snap := store.snapshotLocked()
	listeners := store.listeners
	store.mu.Unlock()
	for _, fn := range listeners {
		fn(snap)
	}
}

func (store *Store) SetBackgroundColor(value string) {
	store.update(func(s *Style) { s.BackgroundColor = value })
}

func (store *Store) SetFontColor(value string) {
	store.update(func(s *Style) { s.FontColor = value })
}

// SelectFont switches to the catalog font named name. Unknown names leave the
// current font in place; the return value reports whether the font changed hands.
func (store *Store) SelectFont(name string) bool {
	font, ok := catalog.FindByName(name)
	if !ok {
		return false
	}
	store.update(func(s *Style) { s.Font = font })
	return true
}

func (store *Store) SetPreviewText(value string) {
	store.update(func(s *Style) { s.PreviewText = value })
}

func (store *Store) SetLogo(asset logo.Asset) {
	store.update(func(s *Style) { s.Logo = &asset })
}

func (store *Store) ClearLogo() {
	store.update(func(s *Style) { s.Logo = nil })
}

// Reset restores the defaults. Used by the simulator scenarios.
func (store *Store) Reset() {
	store.update(func(s *Style) { *s = DefaultStyle() })
}

package state

import (
	"encoding/json"
	"fmt"

	"github.com/rook-computer/carousel/internal/slides"
)

type Mode int

const (
	Editing Mode = iota
	Previewing
)

func (m Mode) String() string {
	switch m {
	case Editing:
		return "editing"
	case Previewing:
		return "previewing"
	default:
		return fmt.Sprintf("mode(%d)", int(m))
	}
}

func (m Mode) MarshalJSON() ([]byte, error) { return json.Marshal(m.String()) }

// View is everything a painter or host UI needs at one instant.
// Deck is nil while editing.
type View struct {
	Mode  Mode         `json:"mode"`
	Style Style        `json:"style"`
	Deck  *slides.Deck `json:"deck"`
}

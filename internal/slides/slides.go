package slides

import "github.com/google/uuid"

// TemplateTexts is the built-in text source used when no other is configured.
var TemplateTexts = []string{
	"Welcome to your Instagram carousel!",
	"This slide showcases your selected font and colors.",
	"You can customize each slide with your own content.",
	"Perfect for creating engaging social media content.",
	"Share your message with style!",
}

// Slide carries text only; style comes from the configuration at render time.
type Slide struct {
	Index int    `json:"index"`
	Text  string `json:"text"`
}

// Deck is produced whole by Generate and never mutated afterwards.
type Deck struct {
	ID     string  `json:"id"`
	Slides []Slide `json:"slides"`
}

func (d Deck) Len() int { return len(d.Slides) }

// At returns slide i, or false when i is out of range.
func (d Deck) At(i int) (Slide, bool) {
	if i < 0 || i >= len(d.Slides) {
		return Slide{}, false
	}
	return d.Slides[i], true
}

// Generate builds one slide per text, in order. An empty source yields an empty deck.
func Generate(texts []string) Deck {
	out := make([]Slide, len(texts))
	for i, text := range texts {
		out[i] = Slide{Index: i, Text: text}
	}
	return Deck{ID: uuid.NewString(), Slides: out}
}

// Template returns a copy of TemplateTexts.
func Template() []string {
	out := make([]string, len(TemplateTexts))
	copy(out, TemplateTexts)
	return out
}

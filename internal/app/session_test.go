package app

import (
	"bytes"
	"errors"
	"image"
	"image/png"
	"io"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/slides"
	"github.com/rook-computer/carousel/internal/state"
)

func pngBytes(t *testing.T) []byte {
	return pngSized(t, 4, 2)
}

func pngSized(t *testing.T, w, h int) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, image.NewRGBA(image.Rect(0, 0, w, h))); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

// heldFile is a logo file whose Open blocks until release is closed.
type heldFile struct {
	logo.BytesFile
	opened  chan struct{}
	release chan struct{}
}

func newHeldFile(t *testing.T, width int) *heldFile {
	return &heldFile{
		BytesFile: logo.BytesFile{Filename: "held.png", Type: "image/png", Data: pngSized(t, width, 2)},
		opened:    make(chan struct{}),
		release:   make(chan struct{}),
	}
}

func (f *heldFile) Open() (io.ReadCloser, error) {
	close(f.opened)
	<-f.release
	return f.BytesFile.Open()
}

func waitFor(t *testing.T, ch <-chan struct{}, what string) {
	t.Helper()
	select {
	case <-ch:
	case <-time.After(5 * time.Second):
		t.Fatalf("timed out waiting for %s", what)
	}
}

func ingest(t *testing.T, s *Session, file logo.File) error {
	t.Helper()
	done := make(chan error, 1)
	if err := s.IngestLogo(file, func(_ logo.Asset, err error) { done <- err }); err != nil {
		t.Fatalf("IngestLogo: %v", err)
	}
	select {
	case err := <-done:
		return err
	case <-time.After(5 * time.Second):
		t.Fatalf("ingestion did not complete")
		return nil
	}
}

func TestSessionScenario(t *testing.T) {
	s := NewSession(nil, nil, []string{"A", "B"})
	if err := s.SetBackgroundColor("#000000"); err != nil {
		t.Fatal(err)
	}
	if ok, err := s.SelectFont("Anton"); !ok || err != nil {
		t.Fatalf("SelectFont(Anton) = %v, %v", ok, err)
	}
	if err := s.SetFontColor("#ffffff"); err != nil {
		t.Fatal(err)
	}
	before := s.Style()

	deck, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}
	want := []slides.Slide{{Index: 0, Text: "A"}, {Index: 1, Text: "B"}}
	if !reflect.DeepEqual(deck.Slides, want) {
		t.Fatalf("deck = %+v", deck.Slides)
	}
	if s.Mode() != state.Previewing {
		t.Fatalf("mode = %s", s.Mode())
	}

	if err := s.Back(); err != nil {
		t.Fatal(err)
	}
	if s.Mode() != state.Editing || s.Deck() != nil {
		t.Fatalf("after back: mode %s deck %v", s.Mode(), s.Deck())
	}
	if after := s.Style(); !reflect.DeepEqual(after, before) {
		t.Fatalf("style changed: %+v -> %+v", before, after)
	}
}

func TestBackKeepsBackgroundColor(t *testing.T) {
	s := NewSession(nil, nil, nil)
	_ = s.SetBackgroundColor("#3b82f6")
	if _, err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	if err := s.Back(); err != nil {
		t.Fatal(err)
	}
	if got := s.Style().BackgroundColor; got != "#3b82f6" {
		t.Fatalf("background = %q", got)
	}
}

func TestGenerateUsesTemplateByDefault(t *testing.T) {
	s := NewSession(nil, nil, nil)
	deck, err := s.Generate()
	if err != nil {
		t.Fatal(err)
	}
	if deck.Len() != len(slides.TemplateTexts) {
		t.Fatalf("deck len = %d", deck.Len())
	}
	for i, sl := range deck.Slides {
		if sl.Index != i || sl.Text != slides.TemplateTexts[i] {
			t.Fatalf("slide %d = %+v", i, sl)
		}
	}
}

func TestGenerateTwiceReplacesDeck(t *testing.T) {
	s := NewSession(nil, nil, []string{"one", "two"})
	first, _ := s.Generate()
	_ = s.Back()
	second, _ := s.Generate()
	if !reflect.DeepEqual(first.Slides, second.Slides) {
		t.Fatalf("decks differ: %+v vs %+v", first.Slides, second.Slides)
	}
	if first.ID == second.ID {
		t.Fatalf("second generation kept the deck id")
	}
	if current := s.Deck(); current.ID != second.ID || current.Len() != 2 {
		t.Fatalf("current deck = %+v", current)
	}
}

func TestGenerateEmptyTemplate(t *testing.T) {
	s := NewSession(nil, nil, []string{})
	deck, err := s.Generate()
	if err != nil || deck.Len() != 0 {
		t.Fatalf("Generate() = %+v, %v", deck, err)
	}
	if s.Mode() != state.Previewing {
		t.Fatalf("mode = %s", s.Mode())
	}
}

func TestWrongModeTransitions(t *testing.T) {
	s := NewSession(nil, nil, nil)
	if err := s.Back(); !errors.Is(err, ErrNotPreviewing) {
		t.Fatalf("Back while editing = %v", err)
	}
	if _, err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Generate(); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("Generate while previewing = %v", err)
	}
}

func TestStyleEditsRejectedWhilePreviewing(t *testing.T) {
	s := NewSession(nil, nil, nil)
	_, _ = s.Generate()
	bg := "#123456"
	checks := map[string]error{
		"background": s.SetBackgroundColor("#000000"),
		"font color": s.SetFontColor("#000000"),
		"text":       s.SetPreviewText("x"),
		"clear logo": s.ClearLogo(),
		"patch":      s.UpdateStyle(StylePatch{BackgroundColor: &bg}),
	}
	if _, err := s.SelectFont("Anton"); !errors.Is(err, ErrNotEditing) {
		t.Fatalf("SelectFont = %v", err)
	}
	for name, err := range checks {
		if !errors.Is(err, ErrNotEditing) {
			t.Fatalf("%s: err = %v", name, err)
		}
	}
	if got := s.Style(); !reflect.DeepEqual(got, state.DefaultStyle()) {
		t.Fatalf("style changed while previewing: %+v", got)
	}
}

func TestSelectFontMissIsNoop(t *testing.T) {
	s := NewSession(nil, nil, nil)
	_, _ = s.SelectFont("Lobster")
	applied, err := s.SelectFont("NoSuchFont")
	if applied || err != nil {
		t.Fatalf("SelectFont(NoSuchFont) = %v, %v", applied, err)
	}
	if got := s.Style().Font.DisplayName; got != "Lobster" {
		t.Fatalf("font = %q", got)
	}
}

func TestUpdateStyleAppliesSetFields(t *testing.T) {
	s := NewSession(nil, nil, nil)
	fg, font, missing := "#ff0000", "Oswald", "Nope"
	if err := s.UpdateStyle(StylePatch{FontColor: &fg, Font: &font}); err != nil {
		t.Fatal(err)
	}
	if err := s.UpdateStyle(StylePatch{Font: &missing}); err != nil {
		t.Fatal(err)
	}
	got := s.Style()
	if got.FontColor != fg || got.Font.DisplayName != "Oswald" || got.BackgroundColor != state.DefaultBackgroundColor {
		t.Fatalf("style = %+v", got)
	}
}

func TestFailedIngestKeepsLogo(t *testing.T) {
	s := NewSession(nil, nil, nil)
	broken := logo.BytesFile{Filename: "broken.png", Err: errors.New("disk gone")}

	if err := ingest(t, s, broken); !errors.Is(err, logo.ErrUnreadable) {
		t.Fatalf("err = %v", err)
	}
	if s.Style().Logo != nil {
		t.Fatalf("absent logo became present")
	}

	good := logo.BytesFile{Filename: "logo.png", Type: "image/png", Data: pngBytes(t)}
	if err := ingest(t, s, good); err != nil {
		t.Fatal(err)
	}
	installed := s.Style().Logo
	if installed == nil || installed.Width != 4 {
		t.Fatalf("logo = %+v", installed)
	}

	if err := ingest(t, s, broken); err == nil {
		t.Fatalf("broken file ingested")
	}
	if got := s.Style().Logo; got == nil || *got != *installed {
		t.Fatalf("logo changed after failed ingest: %+v", got)
	}
}

func TestIngestLandsWhilePreviewing(t *testing.T) {
	s := NewSession(nil, nil, nil)
	file := newHeldFile(t, 6)
	done := make(chan error, 1)
	if err := s.IngestLogo(file, func(_ logo.Asset, err error) { done <- err }); err != nil {
		t.Fatal(err)
	}
	waitFor(t, file.opened, "ingestion to start")
	if _, err := s.Generate(); err != nil {
		t.Fatal(err)
	}
	close(file.release)
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("ingestion did not complete")
	}
	if s.Mode() != state.Previewing {
		t.Fatalf("mode = %v", s.Mode())
	}
	if got := s.Style().Logo; got == nil || got.Width != 6 {
		t.Fatalf("logo not installed while previewing: %+v", got)
	}
	if err := s.Back(); err != nil {
		t.Fatal(err)
	}
	if err := s.ClearLogo(); err != nil || s.Style().Logo != nil {
		t.Fatalf("ClearLogo = %v, logo %v", err, s.Style().Logo)
	}
}

func TestIngestRejectedWhilePreviewing(t *testing.T) {
	s := NewSession(nil, nil, nil)
	_, _ = s.Generate()
	called := make(chan struct{}, 1)
	err := s.IngestLogo(logo.BytesFile{Filename: "logo.png", Data: pngBytes(t)}, func(logo.Asset, error) { called <- struct{}{} })
	if !errors.Is(err, ErrNotEditing) {
		t.Fatalf("IngestLogo = %v", err)
	}
	select {
	case <-called:
		t.Fatalf("completion called for a rejected ingestion")
	case <-time.After(50 * time.Millisecond):
	}
	if s.Style().Logo != nil {
		t.Fatalf("logo installed while previewing")
	}
}

func TestOverlappingIngestsLastCompletionWins(t *testing.T) {
	s := NewSession(nil, nil, nil)
	first, second := newHeldFile(t, 10), newHeldFile(t, 20)
	done := make(chan int, 2)
	start := func(f *heldFile, width int) {
		returned := make(chan error, 1)
		go func() {
			returned <- s.IngestLogo(f, func(_ logo.Asset, err error) {
				if err != nil {
					t.Errorf("ingest %d: %v", width, err)
				}
				done <- width
			})
		}()
		select {
		case err := <-returned:
			if err != nil {
				t.Fatalf("IngestLogo: %v", err)
			}
		case <-time.After(5 * time.Second):
			t.Fatalf("IngestLogo blocked until completion")
		}
	}
	start(first, 10)
	start(second, 20)
	waitFor(t, first.opened, "first ingestion")
	waitFor(t, second.opened, "second ingestion")

	// The later start finishes first; the earlier one must still win.
	completed := func() int {
		select {
		case w := <-done:
			return w
		case <-time.After(5 * time.Second):
			t.Fatalf("ingestion did not complete")
			return 0
		}
	}
	close(second.release)
	if got := completed(); got != 20 {
		t.Fatalf("completed %d, want 20", got)
	}
	if got := s.Style().Logo; got == nil || got.Width != 20 {
		t.Fatalf("logo after first completion = %+v", got)
	}
	close(first.release)
	if got := completed(); got != 10 {
		t.Fatalf("completed %d, want 10", got)
	}
	if got := s.Style().Logo; got == nil || got.Width != 10 {
		t.Fatalf("logo after last completion = %+v", got)
	}
}

func TestOnChangeSeesTransitionsAndEdits(t *testing.T) {
	s := NewSession(nil, nil, []string{"A"})
	var mu sync.Mutex
	var modes []state.Mode
	var colors []string
	s.OnChange(func(v state.View) {
		mu.Lock()
		defer mu.Unlock()
		modes = append(modes, v.Mode)
		colors = append(colors, v.Style.BackgroundColor)
	})
	_ = s.SetBackgroundColor("#000000")
	_, _ = s.Generate()
	_ = s.Back()

	mu.Lock()
	defer mu.Unlock()
	wantModes := []state.Mode{state.Editing, state.Previewing, state.Editing}
	if !reflect.DeepEqual(modes, wantModes) {
		t.Fatalf("modes = %v", modes)
	}
	for _, c := range colors {
		if c != "#000000" {
			t.Fatalf("colors = %v", colors)
		}
	}
}

func TestConcurrentTransitionsNotifyInOrder(t *testing.T) {
	s := NewSession(nil, nil, []string{"A"})
	var mu sync.Mutex
	var modes []state.Mode
	s.OnChange(func(v state.View) {
		mu.Lock()
		modes = append(modes, v.Mode)
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_, _ = s.Generate()
			}
		}()
		go func() {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				_ = s.Back()
			}
		}()
	}
	wg.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(modes) == 0 {
		t.Fatalf("no transitions observed")
	}
	want := state.Previewing
	for i, m := range modes {
		if m != want {
			t.Fatalf("notification %d = %v, want %v", i, m, want)
		}
		if want == state.Previewing {
			want = state.Editing
		} else {
			want = state.Previewing
		}
	}
	if last := modes[len(modes)-1]; last != s.Mode() {
		t.Fatalf("last notification %v, mode %v", last, s.Mode())
	}
}

func TestViewDeckIsACopy(t *testing.T) {
	s := NewSession(nil, nil, []string{"A"})
	_, _ = s.Generate()
	v := s.View()
	v.Deck.Slides[0].Text = "mutated"
	if s.Deck().Slides[0].Text != "A" {
		t.Fatalf("view aliases session deck")
	}
}

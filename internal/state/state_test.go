package state

import (
	"sync"
	"testing"

	"github.com/rook-computer/carousel/internal/catalog"
	"github.com/rook-computer/carousel/internal/logo"
)

func TestDefaults(t *testing.T) {
	s := NewStore().Snapshot()
	if s.BackgroundColor != "#ffffff" || s.FontColor != "#000000" {
		t.Fatalf("colors = %q / %q", s.BackgroundColor, s.FontColor)
	}
	if s.Font.DisplayName != "Roboto" {
		t.Fatalf("font = %+v", s.Font)
	}
	if s.Logo != nil {
		t.Fatalf("logo should be absent")
	}
	if s.PreviewText != DefaultPreviewText {
		t.Fatalf("preview text = %q", s.PreviewText)
	}
}

func TestSettersPassValuesThrough(t *testing.T) {
	store := NewStore()
	store.SetBackgroundColor("not-a-color")
	store.SetFontColor("cornflowerblue")
	store.SetPreviewText("")
	s := store.Snapshot()
	if s.BackgroundColor != "not-a-color" || s.FontColor != "cornflowerblue" || s.PreviewText != "" {
		t.Fatalf("unexpected style %+v", s)
	}
}

func TestSelectFontMissKeepsPrevious(t *testing.T) {
	store := NewStore()
	if !store.SelectFont("Anton") {
		t.Fatalf("SelectFont(Anton) should apply")
	}
	for _, name := range []string{"NoSuchFont", "Comic Sans", "", "anton"} {
		if store.SelectFont(name) {
			t.Fatalf("SelectFont(%q) applied", name)
		}
		if got := store.Snapshot().Font.DisplayName; got != "Anton" {
			t.Fatalf("after SelectFont(%q) font = %q, want Anton", name, got)
		}
	}
	want, _ := catalog.FindByName("Anton")
	if store.Snapshot().Font != want {
		t.Fatalf("font is not the catalog value")
	}
}

func TestLogoSetReplaceClear(t *testing.T) {
	store := NewStore()
	store.SetLogo(logo.Asset{DataURI: "data:image/png;base64,AA==", MediaType: "image/png"})
	store.SetLogo(logo.Asset{DataURI: "data:image/gif;base64,AA==", MediaType: "image/gif"})
	s := store.Snapshot()
	if s.Logo == nil || s.Logo.MediaType != "image/gif" {
		t.Fatalf("logo = %+v", s.Logo)
	}
	store.ClearLogo()
	if store.Snapshot().Logo != nil {
		t.Fatalf("logo not cleared")
	}
}

func TestSnapshotIsolatedFromStore(t *testing.T) {
	store := NewStore()
	store.SetLogo(logo.Asset{MediaType: "image/png"})
	snap := store.Snapshot()
	snap.Logo.MediaType = "mutated"
	if store.Snapshot().Logo.MediaType != "image/png" {
		t.Fatalf("snapshot aliases store logo")
	}
}

func TestOnChangeReceivesSnapshots(t *testing.T) {
	store := NewStore()
	var mu sync.Mutex
	var seen []string
	store.OnChange(func(s Style) {
		mu.Lock()
		seen = append(seen, s.BackgroundColor)
		mu.Unlock()
	})
	store.SetBackgroundColor("#000000")
	store.SelectFont("NoSuchFont")
	store.SetBackgroundColor("#3b82f6")
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 2 || seen[0] != "#000000" || seen[1] != "#3b82f6" {
		t.Fatalf("seen = %v", seen)
	}
}

func TestReset(t *testing.T) {
	store := NewStore()
	store.SetBackgroundColor("#000000")
	store.SetLogo(logo.Asset{})
	store.Reset()
	if got := store.Snapshot(); got.BackgroundColor != DefaultBackgroundColor || got.Logo != nil {
		t.Fatalf("reset style = %+v", got)
	}
}

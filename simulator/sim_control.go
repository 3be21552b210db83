package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/mux"

	"github.com/rook-computer/carousel/internal/app"
	"github.com/rook-computer/carousel/internal/buttons"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/state"
	"github.com/rook-computer/carousel/internal/web"
)

type SimFaults struct {
	// LogoIngestFail makes every logo ingestion fail as unreadable.
	LogoIngestFail bool `json:"logoIngestFail"`
	// LogoIngestDelayMs holds each ingestion back before it starts.
	LogoIngestDelayMs int64 `json:"logoIngestDelayMs"`
}

type scenario struct {
	background string
	fontColor  string
	font       string
	text       string
	logo       bool
}

var scenarios = map[string]scenario{
	"default": {},
	"dark":    {background: "#000000", fontColor: "#ffffff", font: "Anton"},
	"brand":   {background: "#3b82f6", fontColor: "#ffffff", font: "Montserrat", text: "Brand preview", logo: true},
	"playful": {background: "#fde047", fontColor: "#7c3aed", font: "Pacifico"},
}

func scenarioNames() []string {
	names := make([]string, 0, len(scenarios))
	for name := range scenarios {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// SimControl drives the simulated kiosk: style scenarios, injected faults,
// key presses and frame capture.
type SimControl struct {
	store    *state.Store
	session  *app.Session
	buttons  *buttons.ChanButtons
	renderer *render.ImageRenderer

	startupScenario string
	currentScenario atomic.Value // string

	faults struct {
		mu sync.RWMutex
		v  SimFaults
	}
}

func NewSimControl(store *state.Store, session *app.Session, btns *buttons.ChanButtons, renderer *render.ImageRenderer, startupScenario string) *SimControl {
	c := &SimControl{store: store, session: session, buttons: btns, renderer: renderer, startupScenario: strings.TrimSpace(startupScenario)}
	if c.startupScenario == "" {
		c.startupScenario = "default"
	}
	c.currentScenario.Store(c.startupScenario)
	return c
}

// ApplyScenario returns the session to Editing and installs the named style.
func (c *SimControl) ApplyScenario(name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.startupScenario
	}
	sc, ok := scenarios[name]
	if !ok {
		return fmt.Errorf("unknown scenario %q (known: %s)", name, strings.Join(scenarioNames(), ", "))
	}
	if err := c.session.Back(); err != nil && !errors.Is(err, app.ErrNotPreviewing) {
		return err
	}
	c.store.Reset()
	if sc.background != "" {
		c.store.SetBackgroundColor(sc.background)
	}
	if sc.fontColor != "" {
		c.store.SetFontColor(sc.fontColor)
	}
	if sc.font != "" {
		c.store.SelectFont(sc.font)
	}
	if sc.text != "" {
		c.store.SetPreviewText(sc.text)
	}
	if sc.logo {
		asset, err := logo.NewIngestor().Read(logo.BytesFile{Filename: "sim-logo.png", Data: simLogoPNG()})
		if err != nil {
			return fmt.Errorf("seed scenario logo: %w", err)
		}
		c.store.SetLogo(asset)
	}
	c.currentScenario.Store(name)
	return nil
}

func (c *SimControl) Reset() error {
	c.SetFaults(SimFaults{})
	return c.ApplyScenario(c.startupScenario)
}

func (c *SimControl) Faults() SimFaults {
	c.faults.mu.RLock()
	defer c.faults.mu.RUnlock()
	return c.faults.v
}

func (c *SimControl) SetFaults(v SimFaults) {
	c.faults.mu.Lock()
	c.faults.v = v
	c.faults.mu.Unlock()
}

// API wraps the session so injected faults apply to API logo uploads.
func (c *SimControl) API() web.SessionAPI { return faultySession{Session: c.session, control: c} }

type faultySession struct {
	*app.Session
	control *SimControl
}

func (s faultySession) IngestLogo(file logo.File, done func(logo.Asset, error)) error {
	if s.Mode() != state.Editing {
		return app.ErrNotEditing
	}
	faults := s.control.Faults()
	if faults.LogoIngestDelayMs > 0 {
		time.Sleep(time.Duration(faults.LogoIngestDelayMs) * time.Millisecond)
	}
	if faults.LogoIngestFail {
		if done != nil {
			go done(logo.Asset{}, fmt.Errorf("%w: simulated read failure", logo.ErrUnreadable))
		}
		return nil
	}
	return s.Session.IngestLogo(file, done)
}

// simLogoPNG draws a small two-tone badge used by the brand scenario.
func simLogoPNG() []byte {
	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			c := color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff}
			if x < 40 {
				c = color.RGBA{R: 0xf9, G: 0x73, B: 0x16, A: 0xff}
			}
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	_ = png.Encode(&buf, img)
	return buf.Bytes()
}

func registerSimEndpoints(r *mux.Router, control *SimControl) {
	sim := r.PathPrefix("/sim").Subrouter()

	sim.HandleFunc("/reset", func(w http.ResponseWriter, r *http.Request) {
		if err := control.Reset(); err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.currentScenario.Load()})
	}).Methods(http.MethodPost)

	sim.HandleFunc("/scenario/{name}", func(w http.ResponseWriter, r *http.Request) {
		if err := control.ApplyScenario(mux.Vars(r)["name"]); err != nil {
			writeSimError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeSimJSON(w, http.StatusOK, map[string]any{"ok": true, "scenario": control.currentScenario.Load()})
	}).Methods(http.MethodPost)

	sim.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) {
		writeSimJSON(w, http.StatusOK, control.Faults())
	}).Methods(http.MethodGet)

	sim.HandleFunc("/faults", func(w http.ResponseWriter, r *http.Request) {
		var patch struct {
			LogoIngestFail    *bool  `json:"logoIngestFail"`
			LogoIngestDelayMs *int64 `json:"logoIngestDelayMs"`
		}
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
			writeSimError(w, http.StatusBadRequest, "invalid json")
			return
		}
		current := control.Faults()
		if patch.LogoIngestFail != nil {
			current.LogoIngestFail = *patch.LogoIngestFail
		}
		if patch.LogoIngestDelayMs != nil {
			current.LogoIngestDelayMs = *patch.LogoIngestDelayMs
		}
		control.SetFaults(current)
		writeSimJSON(w, http.StatusOK, current)
	}).Methods(http.MethodPost)

	sim.HandleFunc("/press/{event}", func(w http.ResponseWriter, r *http.Request) {
		ev := buttons.Event(mux.Vars(r)["event"])
		switch ev {
		case buttons.Generate, buttons.Back, buttons.Exit:
		default:
			writeSimError(w, http.StatusBadRequest, fmt.Sprintf("unknown event %q", ev))
			return
		}
		if !control.buttons.Press(ev) {
			writeSimError(w, http.StatusServiceUnavailable, "button queue full")
			return
		}
		writeSimJSON(w, http.StatusAccepted, map[string]any{"ok": true, "event": ev})
	}).Methods(http.MethodPost)

	sim.HandleFunc("/frame.png", func(w http.ResponseWriter, r *http.Request) {
		data, err := control.renderer.PNG()
		if err != nil {
			writeSimError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "image/png")
		w.Header().Set("Cache-Control", "no-store")
		_, _ = w.Write(data)
	}).Methods(http.MethodGet)
}

func writeSimJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeSimError(w http.ResponseWriter, status int, message string) {
	writeSimJSON(w, status, map[string]any{"error": message})
}

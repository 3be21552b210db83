package app

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rook-computer/carousel/internal/app/screens"
	"github.com/rook-computer/carousel/internal/buttons"
	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/state"
	"github.com/rook-computer/carousel/internal/system"
)

// App drives the kiosk display: it shows the screen matching the session's
// mode and turns button presses into session transitions.
type App struct {
	Session *Session
	Render  render.Renderer
	Buttons buttons.Buttons
	Logger  Logger

	PublicURL     string
	Clock         clockwork.Clock
	SlideInterval time.Duration
	// Console switches the VT to graphics mode while running.
	Console bool

	currentScreen render.Screen
	currentMode   state.Mode

	exitOnce atomic.Bool
	exitCh   chan error
	modeCh   chan state.Mode
}

func New(session *Session, renderer render.Renderer, buttonDriver buttons.Buttons) *App {
	a := &App{
		Session: session,
		Render:  renderer,
		Buttons: buttonDriver,
		Logger:  NoopLogger{},
		Clock:   clockwork.NewRealClock(),
		exitCh:  make(chan error, 1),
		modeCh:  make(chan state.Mode, 1),
	}
	session.OnChange(func(v state.View) { a.notifyMode(v.Mode) })
	return a
}

// notifyMode keeps only the latest mode for the run loop.
func (app *App) notifyMode(mode state.Mode) {
	for {
		select {
		case app.modeCh <- mode:
			return
		default:
		}
		select {
		case <-app.modeCh:
		default:
		}
	}
}

// Exit requests the app to stop running.
func (app *App) Exit(err error) {
	if !app.exitOnce.CompareAndSwap(false, true) {
		return
	}
	select {
	case app.exitCh <- err:
	default:
	}
}

func (app *App) Start(ctx context.Context) error {
	app.exitOnce.Store(false)
	if app.Render == nil {
		app.Render = &render.NoopRenderer{}
	}
	if app.Buttons == nil {
		app.Buttons = buttons.NewNoopButtons()
	}
	if err := app.Render.Start(ctx); err != nil {
		app.Logger.Errorf("app", "renderer start error: %v", err)
		return err
	}
	defer app.Render.Stop()

	if app.Console {
		restore := system.EnterGraphicsMode(app.Logger)
		defer restore()
	}

	if err := app.Buttons.Start(ctx); err != nil {
		app.Logger.Errorf("app", "buttons start error: %v", err)
	}
	defer app.Buttons.Stop()

	app.currentMode = app.Session.Mode()
	if err := app.setScreen(ctx, app.screenFor(app.currentMode)); err != nil {
		return err
	}
	defer func() { _ = app.currentScreen.Stop() }()

	// Force an immediate first redraw rather than waiting for the loop.
	app.Render.RedrawWithState(app.Session.View())

	loopCtx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		app.Render.RunLoop(loopCtx, app.Session)
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	events := app.Buttons.Events()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case err := <-app.exitCh:
			return err
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			app.HandleButton(ev)
		case mode := <-app.modeCh:
			if mode == app.currentMode {
				continue
			}
			app.currentMode = mode
			if err := app.setScreen(ctx, app.screenFor(mode)); err != nil {
				app.Logger.Errorf("app", "screen for %s failed: %v", mode, err)
				return err
			}
		}
	}
}

// HandleButton applies one button event. Presses that do not fit the current
// mode are ignored.
func (app *App) HandleButton(ev buttons.Event) {
	var err error
	switch ev {
	case buttons.Generate:
		_, err = app.Session.Generate()
	case buttons.Back:
		err = app.Session.Back()
	case buttons.Exit:
		app.Logger.Infof("app", "exit requested")
		app.Exit(nil)
	default:
		app.Logger.Errorf("app", "unknown button event %q", ev)
	}
	if errors.Is(err, ErrNotEditing) || errors.Is(err, ErrNotPreviewing) {
		app.Logger.Infof("app", "%s ignored: %v", ev, err)
	}
}

func (app *App) screenFor(mode state.Mode) render.Screen {
	if mode == state.Previewing {
		return screens.NewPreviewScreen(app.Clock, app.SlideInterval)
	}
	return screens.NewEditorScreen(app.PublicURL, app.Logger)
}

func (app *App) setScreen(ctx context.Context, screen render.Screen) error {
	if app.currentScreen != nil {
		_ = app.currentScreen.Stop()
	}
	app.currentScreen = screen
	app.Render.SetScreen(screen)
	return screen.Start(ctx)
}

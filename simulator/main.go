package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"github.com/rook-computer/carousel/internal/app"
	"github.com/rook-computer/carousel/internal/buttons"
	"github.com/rook-computer/carousel/internal/config"
	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/render"
	"github.com/rook-computer/carousel/internal/state"
	"github.com/rook-computer/carousel/internal/web"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	listenAddr := flag.String("listen", "", "http listen address; overrides config and "+config.EnvListenAddr)
	devMode := flag.Bool("dev", false, "enable dev mode (CORS, any websocket origin)")
	staticDir := flag.String("static-dir", "", "serve static UI from this directory (optional); when empty, embedded web UI assets are served")
	scenario := flag.String("scenario", "default", "startup style scenario: "+strings.Join(scenarioNames(), " | "))
	flag.Parse()

	cfg, err := config.Load(*configPath, ":8080")
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}
	if *listenAddr != "" {
		cfg.Server.ListenAddr = *listenAddr
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *staticDir != "" {
		cfg.Server.StaticDir = *staticDir
	}

	// Pretty console output only when a person is watching.
	pretty := cfg.IsDevelopment() && term.IsTerminal(int(os.Stdout.Fd()))
	logger := app.NewZeroLogger(os.Stdout, pretty)

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	server, control, kiosk, err := buildSimulator(cfg, logger, *scenario)
	if err != nil {
		fmt.Println("simulator init error:", err)
		os.Exit(2)
	}

	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		defer cancel()
		err := kiosk.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	// Give the listener a moment so the printed address is the bound one.
	time.Sleep(50 * time.Millisecond)
	addr := server.ListenAddr()
	if addr == "" {
		addr = cfg.Server.ListenAddr
	}
	fmt.Println("Carousel simulator listening on", addr)
	fmt.Println("Scenario:", control.currentScenario.Load())
	fmt.Println("API: http://" + trimLeadingColon(addr) + "/api/v1/")
	fmt.Println("Frame: http://" + trimLeadingColon(addr) + "/sim/frame.png")

	if err := g.Wait(); err != nil {
		fmt.Println("simulator error:", err)
		os.Exit(1)
	}
}

// buildSimulator wires a headless kiosk: the session, an in-memory renderer,
// channel-driven buttons, and the HTTP handler with /sim endpoints.
func buildSimulator(cfg *config.Config, logger app.ZeroLogger, scenario string) (*web.HTTPServer, *SimControl, *app.App, error) {
	store := state.NewStore()
	ingestor := &logo.Ingestor{RequireImage: cfg.Logo.RequireImage, MaxBytes: cfg.Logo.MaxBytes, Logger: logger}
	session := app.NewSession(store, ingestor, cfg.TemplateTexts())
	session.Logger = logger

	renderer := render.NewImageRenderer(render.Options{
		CanvasWidth:  cfg.Render.CanvasWidth,
		CanvasHeight: cfg.Render.CanvasHeight,
		LogoHeight:   cfg.Render.LogoHeight,
		FontsDir:     cfg.Render.FontsDir,
	})
	renderer.Logger = logger
	btns := buttons.NewChanButtons()

	kiosk := app.New(session, renderer, btns)
	kiosk.Logger = logger
	kiosk.PublicURL = cfg.Server.PublicURL
	kiosk.SlideInterval = cfg.Render.SlideInterval

	control := NewSimControl(store, session, btns, renderer, scenario)
	if err := control.ApplyScenario(scenario); err != nil {
		return nil, nil, nil, err
	}

	handler := newSimHandler(cfg, logger, control)
	server := web.NewHTTPServer(cfg.Server.ListenAddr, handler)
	server.Logger = logger.Zerolog()
	return server, control, kiosk, nil
}

func newSimHandler(cfg *config.Config, logger app.ZeroLogger, control *SimControl) http.Handler {
	api := control.API()
	r := mux.NewRouter()
	registerSimEndpoints(r, control)
	r.PathPrefix("/").Handler(web.NewHandler(web.RouterConfig{
		StaticDir: cfg.Server.StaticDir,
		DevMode:   cfg.Server.DevMode,
		Logger:    logger.Zerolog(),
		API: web.APIV1Deps{
			Session:        api,
			Logger:         logger.Zerolog(),
			MaxUploadBytes: cfg.Logo.MaxBytes + (64 << 10),
			Events:         web.NewEventHub(api, logger.Zerolog(), cfg.Server.DevMode),
		},
	}))
	return r
}

func trimLeadingColon(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "127.0.0.1" + addr
	}
	if addr == "" {
		return "127.0.0.1:8080"
	}
	return addr
}

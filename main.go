package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

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
	debug := flag.Bool("debug", false, "enable debug logging to ./carousel-debug.log")
	stdioLog := flag.String("stdio-log", "", "redirect stdout+stderr (including panics) to this file; also configurable via CAROUSEL_STDIO_LOG")
	flag.Parse()

	// Best-effort: panics must stay readable while the console is in graphics mode.
	logPath := *stdioLog
	if logPath == "" {
		logPath = os.Getenv("CAROUSEL_STDIO_LOG")
	}
	if logPath != "" {
		if err := redirectStdIO(logPath); err != nil {
			fmt.Println("stdio log redirect error:", err)
		}
	}

	cfg, err := config.Load(*configPath, ":80")
	if err != nil {
		fmt.Println("config error:", err)
		os.Exit(2)
	}

	var logOut io.Writer = io.Discard
	if *debug {
		f, err := os.OpenFile("./carousel-debug.log", os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			fmt.Println("debug log open error:", err)
		} else {
			defer f.Close()
			logOut = f
		}
	}
	logger := app.NewZeroLogger(logOut, cfg.IsDevelopment())
	logger.Infof("main", "carousel starting (listen %s)", cfg.Server.ListenAddr)

	store := state.NewStore()
	ingestor := &logo.Ingestor{RequireImage: cfg.Logo.RequireImage, MaxBytes: cfg.Logo.MaxBytes, Logger: logger}
	session := app.NewSession(store, ingestor, cfg.TemplateTexts())
	session.Logger = logger

	opts := render.Options{
		Device:       cfg.Render.Framebuffer,
		CanvasWidth:  cfg.Render.CanvasWidth,
		CanvasHeight: cfg.Render.CanvasHeight,
		LogoHeight:   cfg.Render.LogoHeight,
		FontsDir:     cfg.Render.FontsDir,
	}
	var renderer render.Renderer
	if cfg.Render.NoFramebuffer {
		r := render.NewImageRenderer(opts)
		r.Logger = logger
		renderer = r
	} else {
		r := render.NewFBRenderer(opts)
		r.Logger = logger
		r.Debug = *debug
		renderer = r
	}

	kiosk := app.New(session, renderer, buttons.NewKeyboardButtons(logger))
	kiosk.Logger = logger
	kiosk.PublicURL = cfg.Server.PublicURL
	kiosk.SlideInterval = cfg.Render.SlideInterval
	kiosk.Console = !cfg.Render.NoFramebuffer

	zl := logger.Zerolog()
	handler := web.NewHandler(web.RouterConfig{
		StaticDir: cfg.Server.StaticDir,
		DevMode:   cfg.Server.DevMode,
		Logger:    zl,
		API: web.APIV1Deps{
			Session:        session,
			Logger:         zl,
			MaxUploadBytes: cfg.Logo.MaxBytes + (64 << 10),
			Events:         web.NewEventHub(session, zl, cfg.Server.DevMode),
		},
	})
	server := web.NewHTTPServer(cfg.Server.ListenAddr, handler)
	server.Logger = zl

	processCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithCancel(processCtx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return server.Run(gctx) })
	g.Go(func() error {
		// Leaving the kiosk (F4) shuts the server down too.
		defer cancel()
		err := kiosk.Start(gctx)
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	})

	if err := g.Wait(); err != nil {
		logger.Errorf("main", "exit with error: %v", err)
		fmt.Println("carousel error:", err)
		os.Exit(1)
	}
	logger.Infof("main", "carousel stopped")
}

// Package config loads the runtime settings shared by the device binary and the simulator.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
	"maze.io/x/duration"

	"github.com/rook-computer/carousel/internal/logo"
	"github.com/rook-computer/carousel/internal/slides"
)

const (
	EnvListenAddr = "CAROUSEL_LISTEN"
	EnvDevMode    = "CAROUSEL_DEV"
	EnvFontsDir   = "CAROUSEL_FONTS_DIR"
	EnvPublicURL  = "CAROUSEL_PUBLIC_URL"
	EnvName       = "CAROUSEL_ENV"

	// EnvSlideInterval accepts Go durations plus day and week units ("4s", "1d").
	EnvSlideInterval = "CAROUSEL_SLIDE_INTERVAL"
)

type ServerConfig struct {
	ListenAddr string `yaml:"listen"`
	DevMode    bool   `yaml:"dev"`
	StaticDir  string `yaml:"static_dir"`
	// PublicURL is encoded into the QR code on the editor screen.
	PublicURL string `yaml:"public_url"`
}

type RenderConfig struct {
	Framebuffer   string        `yaml:"framebuffer"`
	NoFramebuffer bool          `yaml:"no_framebuffer"`
	CanvasWidth   int           `yaml:"canvas_width"`
	CanvasHeight  int           `yaml:"canvas_height"`
	FontsDir      string        `yaml:"fonts_dir"`
	LogoHeight    int           `yaml:"logo_height"`
	SlideInterval time.Duration `yaml:"slide_interval"`
}

type LogoConfig struct {
	RequireImage bool  `yaml:"require_image"`
	MaxBytes     int64 `yaml:"max_bytes"`
}

type SlidesConfig struct {
	// Template replaces the built-in sentences when non-nil.
	Template []string `yaml:"template"`
}

type Config struct {
	Environment string       `yaml:"environment"`
	Server      ServerConfig `yaml:"server"`
	Render      RenderConfig `yaml:"render"`
	Logo        LogoConfig   `yaml:"logo"`
	Slides      SlidesConfig `yaml:"slides"`
}

// Default returns the settings used when no file or environment overrides exist.
// defaultListenAddr differs per binary: :80 on the device, :8080 in the simulator.
func Default(defaultListenAddr string) Config {
	return Config{
		Environment: "development",
		Server:      ServerConfig{ListenAddr: defaultListenAddr},
		Render: RenderConfig{
			Framebuffer:   "/dev/fb0",
			CanvasWidth:   1920,
			CanvasHeight:  1080,
			LogoHeight:    75,
			SlideInterval: 4 * time.Second,
		},
		Logo: LogoConfig{RequireImage: true, MaxBytes: logo.DefaultMaxBytes},
	}
}

// Load reads the optional YAML file at path (and a .env beside it), then applies
// environment overrides. An empty path skips the file.
func Load(path, defaultListenAddr string) (*Config, error) {
	cfg := Default(defaultListenAddr)

	envPath := ".env"
	if path != "" {
		envPath = filepath.Join(filepath.Dir(path), ".env")
	}
	if err := godotenv.Load(envPath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("error parsing config file: %w", err)
		}
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvListenAddr); v != "" {
		c.Server.ListenAddr = v
	}
	if raw := os.Getenv(EnvDevMode); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return fmt.Errorf("%s must be a boolean (got %q): %w", EnvDevMode, raw, err)
		}
		c.Server.DevMode = parsed
	}
	if v := os.Getenv(EnvFontsDir); v != "" {
		c.Render.FontsDir = v
	}
	if v := os.Getenv(EnvPublicURL); v != "" {
		c.Server.PublicURL = v
	}
	if v := os.Getenv(EnvName); v != "" {
		c.Environment = v
	}
	if raw := os.Getenv(EnvSlideInterval); raw != "" {
		d, err := duration.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("%s must be a duration (got %q): %w", EnvSlideInterval, raw, err)
		}
		c.Render.SlideInterval = time.Duration(d)
	}
	return nil
}

func (c *Config) Validate() error {
	if c.Server.ListenAddr == "" {
		return fmt.Errorf("server listen address is required")
	}
	if c.Render.CanvasWidth <= 0 || c.Render.CanvasHeight <= 0 {
		return fmt.Errorf("render canvas must be positive (got %dx%d)", c.Render.CanvasWidth, c.Render.CanvasHeight)
	}
	if c.Render.LogoHeight <= 0 {
		return fmt.Errorf("render logo_height must be positive")
	}
	if c.Render.SlideInterval <= 0 {
		return fmt.Errorf("render slide_interval must be positive")
	}
	if c.Logo.MaxBytes <= 0 {
		return fmt.Errorf("logo max_bytes must be positive")
	}
	return nil
}

// TemplateTexts is the text source handed to the slide generator.
func (c *Config) TemplateTexts() []string {
	if c.Slides.Template == nil {
		return slides.Template()
	}
	out := make([]string, len(c.Slides.Template))
	copy(out, c.Slides.Template)
	return out
}

func (c *Config) IsDevelopment() bool { return c.Environment == "development" }

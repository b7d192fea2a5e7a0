package app

import (
	"errors"
	"fmt"
	"image/color"
	"strings"
	"time"

	"lcdshow/gfx/canvas"
	"lcdshow/gfx/motion"
	"lcdshow/gfx/sprite"
	"lcdshow/hal"
)

// Scene selects what the app shows.
type Scene string

const (
	SceneBounce  Scene = "bounce"
	SceneSquare  Scene = "square"
	SceneFill    Scene = "fill"
	SceneSpinner Scene = "spinner"
	SceneInfo    Scene = "info"
)

var scenes = []Scene{SceneBounce, SceneSquare, SceneFill, SceneSpinner, SceneInfo}

// ParseScene accepts any scene name (case-insensitive).
func ParseScene(s string) (Scene, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, sc := range scenes {
		if string(sc) == s {
			return sc, nil
		}
	}
	return "", fmt.Errorf("app: unknown scene %q", s)
}

type Config struct {
	Scene Scene

	// Image is the sprite file for the bounce scene. Empty uses a
	// generated placeholder.
	Image    string
	Policy   motion.Policy
	Speed    int     // pixels per frame
	Fraction float64 // max share of the screen the sprite may take

	// FPS must match the rate the step function is called at.
	FPS      int
	Hold     time.Duration // square scene lifetime
	FillHold time.Duration // time per color in the fill scene

	Background color.RGBA
}

// DefaultConfig is a 40% sprite bouncing at 3 px per frame, 60 fps.
func DefaultConfig() Config {
	return Config{
		Scene:      SceneBounce,
		Policy:     motion.Bounce,
		Speed:      3,
		Fraction:   sprite.DefaultFraction,
		FPS:        60,
		Hold:       10 * time.Second,
		FillHold:   time.Second,
		Background: color.RGBA{A: 0xFF},
	}
}

func (c Config) validate() error {
	if c.Speed <= 0 {
		return fmt.Errorf("app: speed must be positive, got %d", c.Speed)
	}
	if c.FPS <= 0 {
		return fmt.Errorf("app: fps must be positive, got %d", c.FPS)
	}
	if c.Fraction <= 0 || c.Fraction > 1 {
		return fmt.Errorf("app: fraction must be in (0, 1], got %v", c.Fraction)
	}
	if c.Policy != motion.Bounce && c.Policy != motion.Wrap {
		return fmt.Errorf("app: bad policy %v", c.Policy)
	}
	return nil
}

// frames converts d to a frame count at the configured rate (minimum 1).
func (c Config) frames(d time.Duration) int {
	n := int(d.Seconds()*float64(c.FPS) + 0.5)
	if n < 1 {
		n = 1
	}
	return n
}

type scene interface {
	start() error
	frame() error
}

// env is what every scene draws with.
type env struct {
	h   hal.HAL
	fb  hal.Framebuffer
	cv  *canvas.Canvas
	log hal.Logger
	cfg Config
}

func (e *env) logf(format string, args ...any) {
	if e.log == nil {
		return
	}
	e.log.WriteLineString(fmt.Sprintf(format, args...))
}

// New starts cfg.Scene on h and returns the per-frame step function.
// The step returns hal.ErrStop when the user quits or the scene ends.
func New(h hal.HAL, cfg Config) (func() error, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	disp := h.Display()
	if disp == nil {
		return nil, errors.New("app: no display")
	}
	fb := disp.Framebuffer()
	if fb == nil || fb.Format() != hal.PixelFormatRGB565 {
		return nil, errors.New("app: unsupported framebuffer")
	}
	if fb.Width() <= 0 || fb.Height() <= 0 {
		return nil, fmt.Errorf("app: invalid framebuffer geometry %dx%d", fb.Width(), fb.Height())
	}

	e := &env{h: h, fb: fb, cv: canvas.New(fb), log: h.Logger(), cfg: cfg}

	var s scene
	switch cfg.Scene {
	case SceneBounce, "":
		s = &bounceScene{env: e}
	case SceneSquare:
		s = &squareScene{env: e}
	case SceneFill:
		s = &fillScene{env: e}
	case SceneSpinner:
		s = &spinnerScene{env: e}
	case SceneInfo:
		s = &infoScene{env: e}
	default:
		return nil, fmt.Errorf("app: unknown scene %q", cfg.Scene)
	}
	if err := s.start(); err != nil {
		return nil, err
	}

	var keys <-chan hal.KeyEvent
	if in := h.Input(); in != nil {
		if kbd := in.Keyboard(); kbd != nil {
			keys = kbd.Events()
		}
	}

	return func() error {
		if quitRequested(keys) {
			e.logf("Animation stopped.")
			return hal.ErrStop
		}
		return guard(e, s.frame)
	}, nil
}

// quitRequested drains pending key events; ESC or q quits.
func quitRequested(keys <-chan hal.KeyEvent) bool {
	quit := false
	for {
		select {
		case ev := <-keys:
			if !ev.Press {
				continue
			}
			if ev.Code == hal.KeyEscape || ev.Rune == 'q' || ev.Rune == 'Q' {
				quit = true
			}
		default:
			return quit
		}
	}
}

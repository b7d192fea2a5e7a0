package app

import (
	"image"
	"image/color"

	"github.com/chewxy/math32"

	"lcdshow/gfx/rgb565"
)

const (
	spinnerDots = 12
	spinnerTail = 8
)

// spinnerScene draws a ring of dots with a fading tail that goes round
// once per second.
type spinnerScene struct {
	*env
	center image.Point
	radius float32
	dot    int
	fg     color.RGBA
	tick   int
}

func (s *spinnerScene) start() error {
	w, h := s.fb.Width(), s.fb.Height()
	short := w
	if h < short {
		short = h
	}
	s.center = image.Pt(w/2, h/2)
	s.radius = float32(short) / 6
	s.dot = short / 40
	if s.dot < 2 {
		s.dot = 2
	}
	s.fg = color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
	s.logf("Spinner at %d,%d radius %d", s.center.X, s.center.Y, int(s.radius))
	return nil
}

// head is the index of the brightest dot at the current tick.
func (s *spinnerScene) head() int {
	turn := float32(s.tick) / float32(s.cfg.FPS)
	frac := turn - math32.Floor(turn)
	return int(frac*spinnerDots) % spinnerDots
}

func (s *spinnerScene) frame() error {
	s.cv.Clear(s.cfg.Background)

	head := s.head()
	for i := 0; i < spinnerDots; i++ {
		behind := (head - i + spinnerDots) % spinnerDots
		level := float32(1)
		if behind >= spinnerTail {
			level = 0.15
		} else {
			level -= float32(behind) * 0.85 / spinnerTail
		}
		angle := 2*math32.Pi*float32(i)/spinnerDots - math32.Pi/2
		sin, cos := math32.Sincos(angle)
		x := s.center.X + int(math32.Floor(cos*s.radius+0.5))
		y := s.center.Y + int(math32.Floor(sin*s.radius+0.5))
		s.cv.FillCircle(x, y, s.dot, shade(s.fg, s.cfg.Background, level))
	}

	s.drawCentered(s.center.Y+int(s.radius)+s.dot+16, "Loading...", s.fg)
	s.tick++
	return s.cv.Display()
}

// shade blends fg over bg by level in [0, 1].
func shade(fg, bg color.RGBA, level float32) rgb565.Pixel {
	mix := func(a, b uint8) uint8 {
		return uint8(float32(b) + (float32(a)-float32(b))*level + 0.5)
	}
	return rgb565.FromRGB(mix(fg.R, bg.R), mix(fg.G, bg.G), mix(fg.B, bg.B))
}

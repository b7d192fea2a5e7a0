package app

import (
	"image/color"

	"lcdshow/gfx/rgb565"
)

var fillColors = []struct {
	name string
	c    color.RGBA
}{
	{"white", color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}},
	{"red", color.RGBA{R: 0xFF, A: 0xFF}},
	{"green", color.RGBA{G: 0xFF, A: 0xFF}},
	{"blue", color.RGBA{B: 0xFF, A: 0xFF}},
	{"black", color.RGBA{A: 0xFF}},
}

// fillScene cycles full-screen solid colors. The packed frames are built
// once at start and copied as-is each time a color comes up.
type fillScene struct {
	*env
	packed [][]byte
	hold   int
	tick   int
	cur    int
}

func (s *fillScene) start() error {
	w, h := s.fb.Width(), s.fb.Height()
	s.packed = make([][]byte, len(fillColors))
	for i, fc := range fillColors {
		s.packed[i] = rgb565.Fill(w, h, rgb565.FromRGB(fc.c.R, fc.c.G, fc.c.B))
	}
	s.hold = s.cfg.frames(s.cfg.FillHold)
	s.cur = -1
	s.logf("Cycling %d fill colors at %dx%d", len(fillColors), w, h)
	return nil
}

func (s *fillScene) frame() error {
	if s.cur >= 0 && s.tick < s.hold {
		s.tick++
		return nil
	}
	s.cur = (s.cur + 1) % len(s.packed)
	s.tick = 1
	s.logf("Fill: %s", fillColors[s.cur].name)
	s.cv.WriteFrame(s.packed[s.cur])
	return s.cv.Display()
}

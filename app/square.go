package app

import (
	"fmt"
	"image"
	"image/color"

	"lcdshow/gfx/rgb565"
	"lcdshow/hal"
)

const squareSize = 20

// squareScene is the driver check: a red square in the top-left corner on
// black, held for cfg.Hold.
type squareScene struct {
	*env
	left int
}

func (s *squareScene) start() error {
	w, h := s.fb.Width(), s.fb.Height()
	s.logf("Display initialized: %dx%d", w, h)

	s.cv.Clear(color.RGBA{A: 0xFF})
	s.cv.Fill(image.Rect(0, 0, squareSize, squareSize), rgb565.FromRGB(255, 0, 0))
	s.drawText(squareSize+6, 14, fmt.Sprintf("Display initialized: %dx%d", w, h), color.RGBA{R: 0xE0, G: 0xE0, B: 0xE0, A: 0xFF})
	if err := s.cv.Display(); err != nil {
		return err
	}

	s.left = s.cfg.frames(s.cfg.Hold)
	s.logf("Red square drawn at 0,0. Waiting %s...", s.cfg.Hold)
	return nil
}

func (s *squareScene) frame() error {
	s.left--
	if s.left <= 0 {
		s.logf("Test complete.")
		return hal.ErrStop
	}
	return nil
}

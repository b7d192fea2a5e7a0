package app

import (
	"image"

	"lcdshow/gfx/motion"
	"lcdshow/gfx/rgb565"
	"lcdshow/gfx/sprite"
)

const placeholderW, placeholderH = 160, 120

// bounceScene moves a fitted sprite across the screen, bouncing off or
// wrapping around the side edges.
type bounceScene struct {
	*env
	sprite *rgb565.Image
	state  motion.State
}

func (s *bounceScene) start() error {
	var img image.Image
	if s.cfg.Image == "" {
		img = sprite.Placeholder(placeholderW, placeholderH)
		s.logf("No image configured, using a %dx%d placeholder", placeholderW, placeholderH)
	} else {
		var err error
		img, err = sprite.Load(s.cfg.Image)
		if err != nil {
			return err
		}
		b := img.Bounds()
		s.logf("Original image size: %dx%d", b.Dx(), b.Dy())
	}

	screen := image.Pt(s.fb.Width(), s.fb.Height())
	s.sprite = rgb565.Convert(sprite.Fit(img, screen, s.cfg.Fraction))
	size := s.sprite.Bounds().Size()
	s.logf("Scaled image size: %dx%d", size.X, size.Y)

	s.state = motion.New(size, screen, s.cfg.Speed, s.cfg.Policy)
	s.logf("Starting %s animation. Press ESC or Q to quit.", s.cfg.Policy)
	return nil
}

func (s *bounceScene) frame() error {
	s.state = s.state.Advance()
	s.cv.Clear(s.cfg.Background)
	s.cv.Blit(s.sprite, s.state.Pos)
	return s.cv.Display()
}

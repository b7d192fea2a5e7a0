package app

import (
	"fmt"
	"image"
	"image/color"
	"runtime"

	"tinygo.org/x/tinyfont/proggy"
	"tinygo.org/x/tinyterm"

	"lcdshow/gfx/rgb565"
	"lcdshow/internal/buildinfo"
)

// infoScene prints what was opened on a tinyterm console and keeps an
// uptime strip ticking along the bottom edge.
type infoScene struct {
	*env
	term *tinyterm.Terminal
	tick int
}

func (s *infoScene) start() error {
	s.term = tinyterm.NewTerminal(s.cv)
	s.term.Configure(&tinyterm.Config{
		Font:              &proggy.TinySZ8pt7b,
		FontHeight:        10,
		FontOffset:        6,
		UseSoftwareScroll: true,
	})

	info := s.h.Display().Info()
	fmt.Fprintf(s.term, "lcdshow %s (%s/%s)\n", buildinfo.Short(), runtime.GOOS, runtime.GOARCH)
	fmt.Fprintf(s.term, "driver:   %s\n", info.Driver)
	if info.Device != "" {
		fmt.Fprintf(s.term, "device:   %s\n", info.Device)
	}
	fmt.Fprintf(s.term, "geometry: %dx%d stride %d\n", s.fb.Width(), s.fb.Height(), s.fb.StrideBytes())
	fmt.Fprintf(s.term, "format:   %s\n", s.fb.Format())
	fmt.Fprintf(s.term, "press ESC or Q to quit\n")
	s.term.Display()
	s.logf("Info screen shown for %s %dx%d", info.Driver, s.fb.Width(), s.fb.Height())
	return nil
}

const uptimeStrip = 12

func (s *infoScene) frame() error {
	defer func() { s.tick++ }()
	if s.tick%s.cfg.FPS != 0 {
		return nil
	}
	w, h := s.fb.Width(), s.fb.Height()
	s.cv.Fill(image.Rect(0, h-uptimeStrip, w, h), rgb565.FromRGB(0x20, 0x20, 0x40))
	s.drawText(2, h-3, fmt.Sprintf("uptime %ds", s.tick/s.cfg.FPS), color.RGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF})
	return s.cv.Display()
}

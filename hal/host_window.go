//go:build cgo

package hal

import (
	"context"
	"errors"
	"image"

	"github.com/hajimehoshi/ebiten/v2"

	"lcdshow/gfx/rgb565"
	"lcdshow/internal/buildinfo"
)

func windowAvailable() error { return nil }

// runWindow previews the framebuffer in a desktop window and forwards
// keyboard input. It blocks until the window closes or the app stops.
func runWindow(ctx context.Context, cfg Config, logger Logger, newApp NewAppFunc) error {
	m := firstExplicit(cfg.Modes)
	fb := NewMemFramebuffer(m.W, m.H)
	kbd := newHostKeyboard()
	info := DisplayInfo{Driver: DriverWindow, Device: "ebiten", Width: m.W, Height: m.H}
	logf(logger, "display: %s %s %dx%d %s", info.Driver, info.Device, info.Width, info.Height, fb.Format())

	step, err := newApp(New(fb, info, logger, kbd))
	if err != nil {
		return err
	}

	g := &hostGame{ctx: ctx, fb: fb, kbd: kbd, step: step, maxTicks: cfg.Ticks}
	ebiten.SetWindowTitle(cfg.Title + " (" + buildinfo.Short() + ")")
	ebiten.SetWindowSize(m.W*cfg.Scale, m.H*cfg.Scale)
	ebiten.SetFullscreen(cfg.Fullscreen)
	ebiten.SetTPS(cfg.Hz)

	err = ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return g.exitErr
	}
	return err
}

type hostGame struct {
	ctx      context.Context
	fb       *MemFramebuffer
	kbd      *hostKeyboard
	img      *image.RGBA
	fbImg    *ebiten.Image
	scratch  []byte
	step     func() error
	ticks    uint64
	maxTicks uint64
	exitErr  error
}

func (g *hostGame) Update() error {
	if err := g.ctx.Err(); err != nil {
		g.exitErr = err
		return ebiten.Termination
	}
	g.kbd.poll()
	if g.step != nil {
		if err := g.step(); err != nil {
			if errors.Is(err, ErrStop) {
				return ebiten.Termination
			}
			return err
		}
	}
	g.ticks++
	if g.maxTicks > 0 && g.ticks >= g.maxTicks {
		return ebiten.Termination
	}
	return nil
}

func (g *hostGame) Draw(screen *ebiten.Image) {
	fb := g.fb
	if g.img == nil || g.img.Bounds().Dx() != fb.width || g.img.Bounds().Dy() != fb.height {
		g.img = image.NewRGBA(image.Rect(0, 0, fb.width, fb.height))
		g.scratch = make([]byte, len(fb.buf))
		if g.fbImg != nil {
			g.fbImg.Deallocate()
		}
		g.fbImg = ebiten.NewImage(fb.width, fb.height)
	}

	fb.snapshotRGB565(g.scratch)

	src := g.scratch
	dst := g.img.Pix
	for i := 0; i+1 < len(src) && i/2*4+3 < len(dst); i += 2 {
		r, gg, b := rgb565.Get(src[i:]).RGB()
		j := (i / 2) * 4
		dst[j+0] = r
		dst[j+1] = gg
		dst[j+2] = b
		dst[j+3] = 0xFF
	}

	g.fbImg.WritePixels(g.img.Pix)
	screen.DrawImage(g.fbImg, nil)
}

func (g *hostGame) Layout(outsideWidth, outsideHeight int) (int, int) {
	return g.fb.width, g.fb.height
}

package hal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// NewAppFunc builds the per-frame step function for an opened HAL.
type NewAppFunc func(HAL) (func() error, error)

// Run opens the first configured display candidate that works and calls the
// app's step function once per frame until ctx is done, cfg.Ticks frames have
// run, or the step returns ErrStop.
//
// Candidates that fail to open are logged and skipped. Errors from the app
// itself are returned as-is; they never cause a fallback.
func Run(ctx context.Context, cfg Config, logger Logger, newApp NewAppFunc) error {
	cfg.normalize()
	if logger == nil {
		logger = NewLogger(os.Stdout)
	}

	var errs []error
	fail := func(what string, err error) {
		err = fmt.Errorf("%s: %w", what, err)
		logf(logger, "display: %v; trying next", err)
		errs = append(errs, err)
	}

	for _, d := range cfg.Drivers {
		switch d {
		case DriverFBDev:
			for _, dev := range cfg.FBDevices {
				fb, err := openFBDev(dev, cfg.Modes)
				if err != nil {
					fail("fbdev "+dev, err)
					continue
				}
				info := DisplayInfo{Driver: DriverFBDev, Device: dev, Width: fb.Width(), Height: fb.Height()}
				err = runOpened(ctx, cfg, logger, fb, info, newApp)
				if cerr := fb.Close(); err == nil {
					err = cerr
				}
				return err
			}

		case DriverSPI:
			fb, err := openSPI(cfg.SPI, cfg.Modes)
			if err != nil {
				fail("spi "+cfg.SPI.Port, err)
				continue
			}
			info := DisplayInfo{Driver: DriverSPI, Device: cfg.SPI.Port, Width: fb.Width(), Height: fb.Height()}
			err = runOpened(ctx, cfg, logger, fb, info, newApp)
			if cerr := fb.Close(); err == nil {
				err = cerr
			}
			return err

		case DriverWindow:
			if err := windowAvailable(); err != nil {
				fail("window", err)
				continue
			}
			return runWindow(ctx, cfg, logger, newApp)

		case DriverHeadless:
			m := firstExplicit(cfg.Modes)
			fb := NewMemFramebuffer(m.W, m.H)
			info := DisplayInfo{Driver: DriverHeadless, Device: "memory", Width: m.W, Height: m.H}
			return runOpened(ctx, cfg, logger, fb, info, newApp)

		default:
			fail(string(d), ErrNotImplemented)
		}
	}
	return fmt.Errorf("hal: no display could be opened: %w", errors.Join(errs...))
}

func runOpened(ctx context.Context, cfg Config, logger Logger, fb Framebuffer, info DisplayInfo, newApp NewAppFunc) error {
	logf(logger, "display: %s %s %dx%d %s", info.Driver, info.Device, info.Width, info.Height, fb.Format())

	kbd := NewKeyQueue(64)
	if cfg.StdinKeys {
		go stdinKeys(os.Stdin, kbd)
	}

	step, err := newApp(New(fb, info, logger, kbd))
	if err != nil {
		return err
	}
	return runLoop(ctx, cfg, step)
}

func runLoop(ctx context.Context, cfg Config, step func() error) error {
	d := time.Second / time.Duration(cfg.Hz)
	if d <= 0 {
		return fmt.Errorf("hal: invalid frame rate: %d", cfg.Hz)
	}
	t := time.NewTicker(d)
	defer t.Stop()

	var tick uint64
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			if step != nil {
				if err := step(); err != nil {
					if errors.Is(err, ErrStop) {
						return nil
					}
					return err
				}
			}
			tick++
			if cfg.Ticks > 0 && tick >= cfg.Ticks {
				return nil
			}
		}
	}
}

// deviceFramebuffer is a framebuffer backed by an open device.
type deviceFramebuffer interface {
	Framebuffer
	io.Closer
}

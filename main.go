package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"lcdshow/app"
	"lcdshow/gfx/motion"
	"lcdshow/hal"
	"lcdshow/internal/buildinfo"
)

func main() {
	hcfg := hal.DefaultConfig()
	acfg := app.DefaultConfig()

	var (
		scene    = flag.String("scene", env("LCDSHOW_SCENE", string(acfg.Scene)), "Scene: bounce, square, fill, spinner or info.")
		image    = flag.String("image", env("LCDSHOW_IMAGE", acfg.Image), "Sprite image for the bounce scene (bmp, png, jpeg, gif). Empty draws a placeholder.")
		policy   = flag.String("policy", env("LCDSHOW_POLICY", acfg.Policy.String()), "Edge policy: bounce or wrap.")
		speed    = flag.Int("speed", envInt("LCDSHOW_SPEED", acfg.Speed), "Horizontal speed in pixels per frame.")
		fraction = flag.Float64("fraction", envFloat("LCDSHOW_FRACTION", acfg.Fraction), "Largest share of the screen the sprite may take.")
		fps      = flag.Int("fps", envInt("LCDSHOW_FPS", hcfg.Hz), "Frames per second.")
		hold     = flag.Duration("hold", envDuration("LCDSHOW_HOLD", acfg.Hold), "How long the square scene stays up.")
		fillHold = flag.Duration("fill-hold", envDuration("LCDSHOW_FILL_HOLD", acfg.FillHold), "Time per color in the fill scene.")

		driverList = flag.String("drivers", env("LCDSHOW_DRIVERS", joinDrivers(hcfg.Drivers)), "Display drivers to try, in order.")
		fbdevs     = flag.String("fbdev", env("LCDSHOW_FBDEV", fbdevDefault(hcfg.FBDevices)), "Framebuffer devices to try, in order.")
		modes      = flag.String("modes", env("LCDSHOW_MODES", joinModes(hcfg.Modes)), "Display modes to try, in order (auto or WxH).")

		spiPort  = flag.String("spi-port", env("LCDSHOW_SPI_PORT", hcfg.SPI.Port), "SPI port for the spi driver.")
		spiDC    = flag.String("spi-dc", env("LCDSHOW_SPI_DC", hcfg.SPI.DC), "Data/command GPIO.")
		spiRST   = flag.String("spi-rst", env("LCDSHOW_SPI_RST", hcfg.SPI.RST), "Reset GPIO.")
		spiBL    = flag.String("spi-bl", env("LCDSHOW_SPI_BL", hcfg.SPI.BL), "Backlight GPIO (empty = none).")
		spiHz    = flag.Int64("spi-hz", int64(envInt("LCDSHOW_SPI_HZ", int(hcfg.SPI.Hz))), "SPI clock in Hz.")
		rotation = flag.String("rotation", env("LCDSHOW_ROTATION", "0"), "Panel rotation: 0, 90, 180 or 270.")

		fullscreen = flag.Bool("fullscreen", envBool("LCDSHOW_FULLSCREEN", false), "Fullscreen window.")
		scale      = flag.Int("scale", envInt("LCDSHOW_SCALE", hcfg.Scale), "Window scale factor.")
		ticks      = flag.Uint64("ticks", uint64(envInt("LCDSHOW_TICKS", 0)), "Stop after N frames (0 = run forever).")
		stdinKeys  = flag.Bool("stdin", envBool("LCDSHOW_STDIN", false), "Read quit keys from stdin.")
		version    = flag.Bool("version", false, "Print the version and exit.")
	)
	flag.Parse()

	if *version {
		fmt.Println(buildinfo.String())
		return
	}

	var err error
	if acfg.Scene, err = app.ParseScene(*scene); err != nil {
		fatalf("%v", err)
	}
	if acfg.Policy, err = motion.ParsePolicy(*policy); err != nil {
		fatalf("%v", err)
	}
	if hcfg.Drivers, err = hal.ParseDrivers(*driverList); err != nil {
		fatalf("%v", err)
	}
	if hcfg.Modes, err = hal.ParseModes(*modes); err != nil {
		fatalf("%v", err)
	}
	if hcfg.SPI.Rotation, err = hal.ParseRotation(*rotation); err != nil {
		fatalf("%v", err)
	}
	acfg.Image = *image
	acfg.Speed = *speed
	acfg.Fraction = *fraction
	acfg.FPS = *fps
	acfg.Hold = *hold
	acfg.FillHold = *fillHold

	hcfg.FBDevices = splitList(*fbdevs)
	hcfg.SPI.Port = *spiPort
	hcfg.SPI.DC = *spiDC
	hcfg.SPI.RST = *spiRST
	hcfg.SPI.BL = *spiBL
	hcfg.SPI.Hz = *spiHz
	hcfg.Hz = *fps
	hcfg.Fullscreen = *fullscreen
	hcfg.Scale = *scale
	hcfg.Ticks = *ticks
	hcfg.StdinKeys = *stdinKeys
	hcfg.Title = "lcdshow"

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := hal.NewLogger(os.Stdout)
	err = hal.Run(ctx, hcfg, logger, func(h hal.HAL) (func() error, error) {
		return app.New(h, acfg)
	})
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.WriteLineString("Animation stopped.")
			return
		}
		fatalf("%v", err)
	}
}

func fatalf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "lcdshow: "+format+"\n", args...)
	os.Exit(1)
}

func env(key, def string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		fatalf("%s: %v", key, err)
	}
	return n
}

func envFloat(key string, def float64) float64 {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
	if err != nil {
		fatalf("%s: %v", key, err)
	}
	return f
}

func envBool(key string, def bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		fatalf("%s: %v", key, err)
	}
	return b
}

func envDuration(key string, def time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		fatalf("%s: %v", key, err)
	}
	return d
}

// fbdevDefault puts SDL_FBDEV, when set, ahead of the built-in devices.
func fbdevDefault(devs []string) string {
	if dev := strings.TrimSpace(os.Getenv("SDL_FBDEV")); dev != "" {
		out := []string{dev}
		for _, d := range devs {
			if d != dev {
				out = append(out, d)
			}
		}
		devs = out
	}
	return strings.Join(devs, ",")
}

func joinDrivers(ds []hal.Driver) string {
	parts := make([]string, len(ds))
	for i, d := range ds {
		parts[i] = string(d)
	}
	return strings.Join(parts, ",")
}

func joinModes(ms []hal.Mode) string {
	parts := make([]string, len(ms))
	for i, m := range ms {
		parts[i] = m.String()
	}
	return strings.Join(parts, ",")
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

package hal

import (
	"fmt"
	"strconv"
	"strings"

	"tinygo.org/x/drivers"
)

// Driver names a display backend.
type Driver string

const (
	DriverFBDev    Driver = "fbdev"
	DriverSPI      Driver = "spi"
	DriverWindow   Driver = "window"
	DriverHeadless Driver = "headless"
)

// ParseDrivers parses a comma-separated, ordered driver list.
func ParseDrivers(s string) ([]Driver, error) {
	var out []Driver
	for _, part := range strings.Split(s, ",") {
		part = strings.ToLower(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		switch d := Driver(part); d {
		case DriverFBDev, DriverSPI, DriverWindow, DriverHeadless:
			out = append(out, d)
		default:
			return nil, fmt.Errorf("hal: unknown driver %q", part)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("hal: empty driver list")
	}
	return out, nil
}

// Mode is a candidate resolution. The zero Mode means the device's native size.
type Mode struct {
	W int
	H int
}

func (m Mode) Auto() bool { return m.W == 0 && m.H == 0 }

func (m Mode) String() string {
	if m.Auto() {
		return "auto"
	}
	return fmt.Sprintf("%dx%d", m.W, m.H)
}

// ParseMode accepts "auto" or "WxH".
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "auto" || s == "" {
		return Mode{}, nil
	}
	ws, hs, ok := strings.Cut(s, "x")
	if !ok {
		return Mode{}, fmt.Errorf("hal: bad mode %q (want WxH or auto)", s)
	}
	w, err := strconv.Atoi(ws)
	if err != nil {
		return Mode{}, fmt.Errorf("hal: bad mode width %q: %w", ws, err)
	}
	h, err := strconv.Atoi(hs)
	if err != nil {
		return Mode{}, fmt.Errorf("hal: bad mode height %q: %w", hs, err)
	}
	if w <= 0 || h <= 0 {
		return Mode{}, fmt.Errorf("hal: mode %q must be positive", s)
	}
	return Mode{W: w, H: h}, nil
}

// ParseModes parses a comma-separated, ordered mode list.
func ParseModes(s string) ([]Mode, error) {
	var out []Mode
	for _, part := range strings.Split(s, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		m, err := ParseMode(part)
		if err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, nil
}

// FallbackMode is used wherever no native size can be discovered.
// It matches the common 3.5" SPI panels.
var FallbackMode = Mode{W: 480, H: 320}

// ParseRotation accepts 0, 90, 180 or 270.
func ParseRotation(s string) (drivers.Rotation, error) {
	switch strings.TrimSpace(s) {
	case "", "0":
		return drivers.Rotation0, nil
	case "90":
		return drivers.Rotation90, nil
	case "180":
		return drivers.Rotation180, nil
	case "270":
		return drivers.Rotation270, nil
	}
	return 0, fmt.Errorf("hal: bad rotation %q (want 0, 90, 180 or 270)", s)
}

// SPIConfig configures a panel driven directly over spidev.
type SPIConfig struct {
	Port     string // periph.io port name, e.g. "SPI0.0"
	DC       string // data/command GPIO
	RST      string // reset GPIO
	BL       string // backlight GPIO, optional
	Hz       int64
	Rotation drivers.Rotation
}

// Config selects and configures the display backend.
type Config struct {
	// Drivers are tried in order; the first one that opens is used.
	Drivers []Driver
	// FBDevices are tried in order by the fbdev driver.
	FBDevices []string
	// Modes are tried in order by each driver.
	Modes []Mode
	SPI   SPIConfig

	Hz         int
	Ticks      uint64 // stop after N frames (0 = run forever)
	Fullscreen bool
	Scale      int
	Title      string
	StdinKeys  bool
}

// DefaultConfig mirrors a Raspberry Pi with a 3.5" SPI panel on fb1.
func DefaultConfig() Config {
	return Config{
		Drivers:   []Driver{DriverFBDev, DriverWindow, DriverHeadless},
		FBDevices: []string{"/dev/fb1", "/dev/fb0"},
		Modes:     []Mode{{}, FallbackMode},
		SPI: SPIConfig{
			Port: "SPI0.0",
			DC:   "GPIO24",
			RST:  "GPIO25",
			BL:   "GPIO18",
			Hz:   32_000_000,
		},
		Hz:    60,
		Scale: 2,
		Title: "lcdshow",
	}
}

func (c *Config) normalize() {
	def := DefaultConfig()
	if len(c.Drivers) == 0 {
		c.Drivers = def.Drivers
	}
	if len(c.FBDevices) == 0 {
		c.FBDevices = def.FBDevices
	}
	if len(c.Modes) == 0 {
		c.Modes = def.Modes
	}
	if c.Hz <= 0 {
		c.Hz = def.Hz
	}
	if c.Scale <= 0 {
		c.Scale = 1
	}
	if c.Title == "" {
		c.Title = def.Title
	}
}

// firstExplicit returns the first non-auto mode, or FallbackMode.
func firstExplicit(modes []Mode) Mode {
	for _, m := range modes {
		if !m.Auto() {
			return m
		}
	}
	return FallbackMode
}

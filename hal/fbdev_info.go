package hal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const sysGraphics = "/sys/class/graphics"

// fbInfo is the geometry the kernel reports for a framebuffer device.
type fbInfo struct {
	Width        int
	Height       int
	BitsPerPixel int
	Stride       int // bytes per line on the device
}

// readFBInfo reads virtual_size, bits_per_pixel, stride and modes for dev
// (e.g. "/dev/fb1") from sysRoot (normally /sys/class/graphics).
func readFBInfo(sysRoot, dev string) (fbInfo, error) {
	dir := filepath.Join(sysRoot, filepath.Base(dev))

	var info fbInfo
	size, err := readSysfs(dir, "virtual_size")
	if err != nil {
		return info, err
	}
	ws, hs, ok := strings.Cut(size, ",")
	if !ok {
		return info, fmt.Errorf("fbdev: bad virtual_size %q", size)
	}
	if info.Width, err = strconv.Atoi(ws); err != nil {
		return info, fmt.Errorf("fbdev: bad virtual_size %q: %w", size, err)
	}
	if info.Height, err = strconv.Atoi(hs); err != nil {
		return info, fmt.Errorf("fbdev: bad virtual_size %q: %w", size, err)
	}

	bpp, err := readSysfs(dir, "bits_per_pixel")
	if err != nil {
		return info, err
	}
	if info.BitsPerPixel, err = strconv.Atoi(bpp); err != nil {
		return info, fmt.Errorf("fbdev: bad bits_per_pixel %q: %w", bpp, err)
	}

	info.Stride = info.Width * info.BitsPerPixel / 8
	if s, err := readSysfs(dir, "stride"); err == nil {
		if v, err := strconv.Atoi(s); err == nil && v > 0 {
			info.Stride = v
		}
	}
	if info.Width <= 0 || info.Height <= 0 {
		return info, fmt.Errorf("fbdev: bad geometry %dx%d", info.Width, info.Height)
	}

	// virtual_size includes any panning area (twice the height on
	// double-buffered devices); the current video mode is what is visible.
	if m, err := readSysfs(dir, "modes"); err == nil {
		if w, h, ok := parseVideoMode(m); ok && w <= info.Width && h <= info.Height {
			info.Width, info.Height = w, h
		}
	}
	return info, nil
}

// parseVideoMode extracts the size from the first line of a sysfs modes
// file, e.g. "U:480x320p-60".
func parseVideoMode(s string) (w, h int, ok bool) {
	line, _, _ := strings.Cut(s, "\n")
	if _, rest, found := strings.Cut(line, ":"); found {
		line = rest
	}
	ws, rest, found := strings.Cut(line, "x")
	if !found {
		return 0, 0, false
	}
	end := strings.IndexFunc(rest, func(r rune) bool { return r < '0' || r > '9' })
	if end >= 0 {
		rest = rest[:end]
	}
	w, err := strconv.Atoi(ws)
	if err != nil || w <= 0 {
		return 0, 0, false
	}
	h, err = strconv.Atoi(rest)
	if err != nil || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

func readSysfs(dir, name string) (string, error) {
	b, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return "", fmt.Errorf("fbdev: %w", err)
	}
	return strings.TrimSpace(string(b)), nil
}

var errNoMode = errors.New("no usable mode")

// selectFBMode picks the first candidate the device can show. When the
// geometry is unknown only explicit modes are usable and are trusted as-is.
func selectFBMode(info fbInfo, known bool, modes []Mode) (Mode, error) {
	var errs []error
	for _, m := range modes {
		switch {
		case m.Auto() && known:
			return Mode{W: info.Width, H: info.Height}, nil
		case m.Auto():
			errs = append(errs, errors.New("auto: device geometry unknown"))
		case !known:
			return m, nil
		case m.W <= info.Width && m.H <= info.Height:
			return m, nil
		default:
			errs = append(errs, fmt.Errorf("%s: larger than device %dx%d", m, info.Width, info.Height))
		}
	}
	if len(errs) == 0 {
		return Mode{}, errNoMode
	}
	return Mode{}, fmt.Errorf("%w: %w", errNoMode, errors.Join(errs...))
}

// copyRows sends a width x height RGB565 back buffer to a device whose
// lines are devStride bytes apart. Matching strides go out in one write.
func copyRows(buf []byte, width, height, stride, devStride int, writeAt func(p []byte, off int) error) error {
	if devStride == stride {
		return writeAt(buf[:stride*height], 0)
	}
	row := width * 2
	for y := 0; y < height; y++ {
		src := buf[y*stride : y*stride+row]
		if err := writeAt(src, y*devStride); err != nil {
			return err
		}
	}
	return nil
}

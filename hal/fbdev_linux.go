//go:build linux

package hal

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/sys/unix"

	"lcdshow/gfx/rgb565"
)

// fbdevFramebuffer renders into a back buffer and copies it to a Linux
// framebuffer device on Present, through mmap when possible.
type fbdevFramebuffer struct {
	mu        sync.Mutex
	f         *os.File
	width     int
	height    int
	stride    int
	devStride int
	buf       []byte
	mem       []byte
}

func openFBDev(path string, modes []Mode) (deviceFramebuffer, error) {
	info, err := readFBInfo(sysGraphics, path)
	known := err == nil
	if known && info.BitsPerPixel != 16 {
		return nil, fmt.Errorf("unsupported %d bpp (want 16)", info.BitsPerPixel)
	}
	m, err := selectFBMode(info, known, modes)
	if err != nil {
		return nil, err
	}

	devStride := m.W * 2
	if known {
		devStride = info.Stride
	}

	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, err
	}

	fb := &fbdevFramebuffer{
		f:         f,
		width:     m.W,
		height:    m.H,
		stride:    m.W * 2,
		devStride: devStride,
		buf:       make([]byte, m.W*2*m.H),
	}
	// Some fbtft drivers refuse mmap; fall back to positioned writes.
	if mem, err := unix.Mmap(int(f.Fd()), 0, devStride*m.H, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED); err == nil {
		fb.mem = mem
	}
	return fb, nil
}

func (f *fbdevFramebuffer) Width() int          { return f.width }
func (f *fbdevFramebuffer) Height() int         { return f.height }
func (f *fbdevFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *fbdevFramebuffer) StrideBytes() int    { return f.stride }
func (f *fbdevFramebuffer) Buffer() []byte      { return f.buf }

func (f *fbdevFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rgb565.FillBytes(f.buf, rgb565.FromRGB(r, g, b))
}

func (f *fbdevFramebuffer) Present() error {
	f.mu.Lock()
	defer f.mu.Unlock()

	return copyRows(f.buf, f.width, f.height, f.stride, f.devStride, f.writeAt)
}

func (f *fbdevFramebuffer) writeAt(p []byte, off int) error {
	if f.mem != nil {
		copy(f.mem[off:], p)
		return nil
	}
	if _, err := unix.Pwrite(int(f.f.Fd()), p, int64(off)); err != nil {
		return fmt.Errorf("fbdev: write: %w", err)
	}
	return nil
}

func (f *fbdevFramebuffer) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.mem != nil {
		_ = unix.Munmap(f.mem)
		f.mem = nil
	}
	return f.f.Close()
}

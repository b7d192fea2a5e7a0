package hal

import (
	"sync"

	"lcdshow/gfx/rgb565"
)

// MemFramebuffer is an in-memory RGB565 framebuffer. Present is a no-op.
type MemFramebuffer struct {
	mu     sync.Mutex
	width  int
	height int
	stride int
	buf    []byte

	presents int
}

// NewMemFramebuffer allocates a zeroed (black) width x height framebuffer.
func NewMemFramebuffer(width, height int) *MemFramebuffer {
	stride := width * 2
	return &MemFramebuffer{
		width:  width,
		height: height,
		stride: stride,
		buf:    make([]byte, stride*height),
	}
}

func (f *MemFramebuffer) Width() int          { return f.width }
func (f *MemFramebuffer) Height() int         { return f.height }
func (f *MemFramebuffer) Format() PixelFormat { return PixelFormatRGB565 }
func (f *MemFramebuffer) StrideBytes() int    { return f.stride }
func (f *MemFramebuffer) Buffer() []byte      { return f.buf }

func (f *MemFramebuffer) Present() error {
	f.mu.Lock()
	f.presents++
	f.mu.Unlock()
	return nil
}

// Presents reports how many frames have been presented.
func (f *MemFramebuffer) Presents() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.presents
}

func (f *MemFramebuffer) ClearRGB(r, g, b uint8) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rgb565.FillBytes(f.buf, rgb565.FromRGB(r, g, b))
}

// PixelAt returns the packed pixel at (x, y), or 0 outside the buffer.
func (f *MemFramebuffer) PixelAt(x, y int) rgb565.Pixel {
	if x < 0 || y < 0 || x >= f.width || y >= f.height {
		return 0
	}
	return rgb565.Get(f.buf[y*f.stride+x*2:])
}

func (f *MemFramebuffer) snapshotRGB565(dst []byte) {
	f.mu.Lock()
	defer f.mu.Unlock()
	copy(dst, f.buf)
}

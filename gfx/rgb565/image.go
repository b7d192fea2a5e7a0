package rgb565

import (
	"image"
	"image/color"
)

// Image is an in-memory RGB565 image with little-endian pixels.
type Image struct {
	Pix    []byte
	Stride int // bytes per row
	Rect   image.Rectangle
}

// NewImage returns a zeroed (black) image.
func NewImage(r image.Rectangle) *Image {
	w, h := r.Dx(), r.Dy()
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	return &Image{
		Pix:    make([]byte, 2*w*h),
		Stride: 2 * w,
		Rect:   r,
	}
}

// Convert packs img once so it can be blitted repeatedly.
// The result is anchored at the origin.
func Convert(img image.Image) *Image {
	b := img.Bounds()
	dst := NewImage(image.Rect(0, 0, b.Dx(), b.Dy()))
	if len(dst.Pix) > 0 {
		packInto(dst.Pix, dst.Stride, img)
	}
	return dst
}

func (m *Image) ColorModel() color.Model { return Model }
func (m *Image) Bounds() image.Rectangle { return m.Rect }

func (m *Image) PixOffset(x, y int) int {
	return (y-m.Rect.Min.Y)*m.Stride + (x-m.Rect.Min.X)*2
}

func (m *Image) At(x, y int) color.Color {
	return m.PixelAt(x, y)
}

// PixelAt returns the packed pixel at (x, y), or 0 outside the bounds.
func (m *Image) PixelAt(x, y int) Pixel {
	if !(image.Point{x, y}.In(m.Rect)) {
		return 0
	}
	return Get(m.Pix[m.PixOffset(x, y):])
}

func (m *Image) Set(x, y int, c color.Color) {
	m.SetPixel(x, y, Model.Convert(c).(Pixel))
}

// SetPixel stores p at (x, y); writes outside the bounds are dropped.
func (m *Image) SetPixel(x, y int, p Pixel) {
	if !(image.Point{x, y}.In(m.Rect)) {
		return
	}
	Put(m.Pix[m.PixOffset(x, y):], p)
}

// Package canvas draws onto a hal.Framebuffer. A Canvas satisfies the
// tinygo drivers.Displayer interface, so tinyfont and tinyterm render
// straight into the framebuffer.
package canvas

import (
	"image"
	"image/color"
	"math"

	"tinygo.org/x/drivers"

	"lcdshow/gfx/rgb565"
	"lcdshow/hal"
)

type Canvas struct {
	fb  hal.Framebuffer
	rot drivers.Rotation
}

func New(fb hal.Framebuffer) *Canvas {
	return &Canvas{fb: fb}
}

func (c *Canvas) ok() bool {
	return c.fb != nil && c.fb.Format() == hal.PixelFormatRGB565 && c.fb.Buffer() != nil
}

func (c *Canvas) Size() (x, y int16) {
	if c.fb == nil {
		return 0, 0
	}
	return int16(c.fb.Width()), int16(c.fb.Height())
}

func (c *Canvas) Bounds() image.Rectangle {
	if c.fb == nil {
		return image.Rectangle{}
	}
	return image.Rect(0, 0, c.fb.Width(), c.fb.Height())
}

func (c *Canvas) SetPixel(x, y int16, col color.RGBA) {
	c.setPixel(int(x), int(y), rgb565.FromRGB(col.R, col.G, col.B))
}

func (c *Canvas) setPixel(x, y int, p rgb565.Pixel) {
	if !c.ok() {
		return
	}
	if x < 0 || y < 0 || x >= c.fb.Width() || y >= c.fb.Height() {
		return
	}
	buf := c.fb.Buffer()
	off := y*c.fb.StrideBytes() + x*2
	if off+1 >= len(buf) {
		return
	}
	rgb565.Put(buf[off:], p)
}

// Display presents the framebuffer.
func (c *Canvas) Display() error {
	if c.fb == nil {
		return nil
	}
	return c.fb.Present()
}

// Clear fills the whole framebuffer with col.
func (c *Canvas) Clear(col color.RGBA) {
	if c.fb == nil {
		return
	}
	c.fb.ClearRGB(col.R, col.G, col.B)
}

func (c *Canvas) FillRectangle(x, y, width, height int16, col color.RGBA) error {
	c.Fill(image.Rect(int(x), int(y), int(x)+int(width), int(y)+int(height)), rgb565.FromRGB(col.R, col.G, col.B))
	return nil
}

// Fill paints r (clipped to the screen) with p.
func (c *Canvas) Fill(r image.Rectangle, p rgb565.Pixel) {
	if !c.ok() {
		return
	}
	r = r.Intersect(c.Bounds())
	if r.Empty() {
		return
	}
	buf := c.fb.Buffer()
	stride := c.fb.StrideBytes()
	for y := r.Min.Y; y < r.Max.Y; y++ {
		row := y * stride
		rgb565.FillBytes(buf[row+r.Min.X*2:row+r.Max.X*2], p)
	}
}

// FillCircle paints a filled circle centered on (cx, cy).
func (c *Canvas) FillCircle(cx, cy, r int, p rgb565.Pixel) {
	for y := -r; y <= r; y++ {
		dx := int(math.Sqrt(float64(r*r - y*y)))
		c.Fill(image.Rect(cx-dx, cy+y, cx+dx+1, cy+y+1), p)
	}
}

// Blit copies src with its top-left corner at at. Parts outside the
// screen are clipped.
func (c *Canvas) Blit(src *rgb565.Image, at image.Point) {
	if !c.ok() || src == nil {
		return
	}
	sb := src.Bounds()
	dst := sb.Sub(sb.Min).Add(at).Intersect(c.Bounds())
	if dst.Empty() {
		return
	}
	buf := c.fb.Buffer()
	stride := c.fb.StrideBytes()
	n := dst.Dx() * 2
	for y := dst.Min.Y; y < dst.Max.Y; y++ {
		sx := sb.Min.X + dst.Min.X - at.X
		sy := sb.Min.Y + y - at.Y
		si := src.PixOffset(sx, sy)
		di := y*stride + dst.Min.X*2
		copy(buf[di:di+n], src.Pix[si:si+n])
	}
}

// WriteFrame copies a packed row-major frame of the screen's size.
func (c *Canvas) WriteFrame(frame []byte) {
	if !c.ok() {
		return
	}
	w, h := c.fb.Width(), c.fb.Height()
	buf := c.fb.Buffer()
	stride := c.fb.StrideBytes()
	row := w * 2
	for y := 0; y < h && (y+1)*row <= len(frame); y++ {
		copy(buf[y*stride:y*stride+row], frame[y*row:(y+1)*row])
	}
}

// SetScroll is a no-op; framebuffers have no hardware scroll.
func (c *Canvas) SetScroll(line int16) {
	_ = line
}

// SetRotation records the rotation; drawing always uses the framebuffer's
// own orientation.
func (c *Canvas) SetRotation(rotation drivers.Rotation) error {
	c.rot = rotation
	return nil
}

func (c *Canvas) Rotation() drivers.Rotation { return c.rot }

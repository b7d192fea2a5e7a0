// Package rgb565 packs 8-bit RGB images into the 16bpp little-endian
// layout used by raw framebuffer devices.
package rgb565

import (
	"encoding/binary"
	"image"
	"image/color"
)

// Pixel is a packed 16bpp value: rrrrrggggggbbbbb.
type Pixel uint16

// FromRGB truncates each channel to its top 5/6/5 bits.
func FromRGB(r, g, b uint8) Pixel {
	return Pixel(uint16(r>>3)<<11 | uint16(g>>2)<<5 | uint16(b>>3))
}

// FromColor packs any color.Color, ignoring alpha.
func FromColor(c color.Color) Pixel {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return FromRGB(n.R, n.G, n.B)
}

// Channels returns the raw 5-bit red, 6-bit green and 5-bit blue fields.
func (p Pixel) Channels() (r5, g6, b5 uint8) {
	return uint8(p>>11) & 0x1F, uint8(p>>5) & 0x3F, uint8(p) & 0x1F
}

// RGB expands the fields back to 8 bits per channel.
func (p Pixel) RGB() (r, g, b uint8) {
	r5, g6, b5 := p.Channels()
	r = uint8(uint16(r5) * 255 / 31)
	g = uint8(uint16(g6) * 255 / 63)
	b = uint8(uint16(b5) * 255 / 31)
	return r, g, b
}

// RGBA implements color.Color.
func (p Pixel) RGBA() (r, g, b, a uint32) {
	r8, g8, b8 := p.RGB()
	r = uint32(r8) | uint32(r8)<<8
	g = uint32(g8) | uint32(g8)<<8
	b = uint32(b8) | uint32(b8)<<8
	return r, g, b, 0xFFFF
}

// Model converts colors to Pixel.
var Model color.Model = color.ModelFunc(func(c color.Color) color.Color {
	if p, ok := c.(Pixel); ok {
		return p
	}
	return FromColor(c)
})

// Get reads a little-endian pixel from b.
func Get(b []byte) Pixel { return Pixel(binary.LittleEndian.Uint16(b)) }

// Put writes p to b in little-endian order.
func Put(b []byte, p Pixel) { binary.LittleEndian.PutUint16(b, uint16(p)) }

// PackRGB888 packs a row-major grid of w*h RGB triplets.
// The output is always 2*w*h bytes; a short input leaves the tail zeroed.
func PackRGB888(pix []byte, w, h int) []byte {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, 2*w*h)
	for i, j := 0, 0; i+2 < len(pix) && j+1 < len(out); i, j = i+3, j+2 {
		Put(out[j:], FromRGB(pix[i], pix[i+1], pix[i+2]))
	}
	return out
}

// Pack converts img to a row-major RGB565 buffer of 2*w*h bytes.
// Alpha is discarded; channels are taken non-premultiplied.
func Pack(img image.Image) []byte {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, 2*w*h)
	packInto(out, 2*w, img)
	return out
}

func packInto(dst []byte, stride int, img image.Image) {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	switch src := img.(type) {
	case *image.NRGBA:
		for y := 0; y < h; y++ {
			row := y * stride
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x, i = x+1, i+4 {
				Put(dst[row+x*2:], FromRGB(src.Pix[i], src.Pix[i+1], src.Pix[i+2]))
			}
		}
		return

	case *image.RGBA:
		for y := 0; y < h; y++ {
			row := y * stride
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x := 0; x < w; x, i = x+1, i+4 {
				p := src.Pix[i : i+4 : i+4]
				if p[3] == 0xFF {
					Put(dst[row+x*2:], FromRGB(p[0], p[1], p[2]))
					continue
				}
				// Premultiplied: undo it the way the generic path does.
				Put(dst[row+x*2:], FromColor(color.RGBA{R: p[0], G: p[1], B: p[2], A: p[3]}))
			}
		}
		return

	case *Image:
		for y := 0; y < h; y++ {
			i := src.PixOffset(b.Min.X, b.Min.Y+y)
			copy(dst[y*stride:y*stride+w*2], src.Pix[i:i+w*2])
		}
		return
	}

	for y := 0; y < h; y++ {
		row := y * stride
		for x := 0; x < w; x++ {
			Put(dst[row+x*2:], FromColor(img.At(b.Min.X+x, b.Min.Y+y)))
		}
	}
}

// Fill returns a full frame of w*h copies of p.
func Fill(w, h int, p Pixel) []byte {
	if w <= 0 || h <= 0 {
		return nil
	}
	out := make([]byte, 2*w*h)
	FillBytes(out, p)
	return out
}

// FillBytes overwrites every complete pixel in buf with p.
func FillBytes(buf []byte, p Pixel) {
	lo := byte(p)
	hi := byte(p >> 8)
	for i := 0; i+1 < len(buf); i += 2 {
		buf[i] = lo
		buf[i+1] = hi
	}
}

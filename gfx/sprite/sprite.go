// Package sprite loads the image that scenes move around and fits it to
// the screen.
package sprite

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io/fs"
	"os"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
)

// DefaultFraction is the largest share of the screen a fitted sprite may
// take in either axis.
const DefaultFraction = 0.4

// Load decodes a BMP, PNG, JPEG or GIF file.
func Load(path string) (image.Image, error) {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			wd, _ := os.Getwd()
			return nil, fmt.Errorf("sprite: %s not found (cwd %s): %w", path, wd, err)
		}
		return nil, fmt.Errorf("sprite: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("sprite: open %s: %w", path, err)
	}
	defer f.Close()

	img, _, err := image.Decode(bufio.NewReader(f))
	if err != nil {
		return nil, fmt.Errorf("sprite: decode %s: %w", path, err)
	}
	return img, nil
}

// FitSize returns the largest size with src's aspect ratio that fits in
// frac of screen in both axes. Each side is at least 1.
func FitSize(src, screen image.Point, frac float64) image.Point {
	if src.X <= 0 || src.Y <= 0 {
		return image.Point{}
	}
	maxW := int(float64(screen.X) * frac)
	maxH := int(float64(screen.Y) * frac)

	scale := float64(maxW) / float64(src.X)
	if hs := float64(maxH) / float64(src.Y); hs < scale {
		scale = hs
	}
	// The epsilon keeps exact fits like 100*1.92 from truncating to 191.
	w := int(float64(src.X)*scale + 1e-9)
	h := int(float64(src.Y)*scale + 1e-9)
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	return image.Pt(w, h)
}

// Fit smoothly rescales img to FitSize. A non-positive frac uses
// DefaultFraction.
func Fit(img image.Image, screen image.Point, frac float64) image.Image {
	if frac <= 0 {
		frac = DefaultFraction
	}
	sb := img.Bounds()
	size := FitSize(sb.Size(), screen, frac)
	if size == (image.Point{}) {
		return img
	}
	dst := image.NewNRGBA(image.Rectangle{Max: size})
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, sb, draw.Src, nil)
	return dst
}

// Placeholder draws a framed diagonal gradient, used when no image file is
// configured.
func Placeholder(w, h int) image.Image {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := color.NRGBA{
				R: uint8(255 * x / maxInt(w-1, 1)),
				G: uint8(255 * y / maxInt(h-1, 1)),
				B: 0xA0,
				A: 0xFF,
			}
			if x < 2 || y < 2 || x >= w-2 || y >= h-2 {
				c = color.NRGBA{R: 0xFF, G: 0xFF, B: 0xFF, A: 0xFF}
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

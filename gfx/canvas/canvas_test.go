package canvas

import (
	"image"
	"image/color"
	"testing"

	"tinygo.org/x/drivers"

	"lcdshow/gfx/rgb565"
	"lcdshow/hal"
)

var _ drivers.Displayer = (*Canvas)(nil)

const red = rgb565.Pixel(0xF800)

func solid(w, h int, p rgb565.Pixel) *rgb565.Image {
	m := rgb565.NewImage(image.Rect(0, 0, w, h))
	rgb565.FillBytes(m.Pix, p)
	return m
}

func count(fb *hal.MemFramebuffer, p rgb565.Pixel) int {
	n := 0
	for y := 0; y < fb.Height(); y++ {
		for x := 0; x < fb.Width(); x++ {
			if fb.PixelAt(x, y) == p {
				n++
			}
		}
	}
	return n
}

func TestBlitClipsEveryEdge(t *testing.T) {
	tests := []struct {
		name string
		at   image.Point
		want int
	}{
		{"inside", image.Pt(2, 2), 12},
		{"left", image.Pt(-3, 0), 3},
		{"right", image.Pt(8, 0), 6},
		{"top", image.Pt(0, -2), 4},
		{"bottom", image.Pt(0, 7), 4},
		{"gone", image.Pt(-4, 0), 0},
		{"far", image.Pt(10, 10), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb := hal.NewMemFramebuffer(10, 8)
			New(fb).Blit(solid(4, 3, red), tt.at)
			if got := count(fb, red); got != tt.want {
				t.Fatalf("painted %d pixels, want %d", got, tt.want)
			}
		})
	}
}

func TestBlitPlacesPixels(t *testing.T) {
	src := rgb565.NewImage(image.Rect(0, 0, 2, 2))
	src.SetPixel(0, 0, 1)
	src.SetPixel(1, 0, 2)
	src.SetPixel(0, 1, 3)
	src.SetPixel(1, 1, 4)

	fb := hal.NewMemFramebuffer(4, 4)
	New(fb).Blit(src, image.Pt(-1, 2))
	if fb.PixelAt(0, 2) != 2 || fb.PixelAt(0, 3) != 4 {
		t.Fatalf("got %d,%d", fb.PixelAt(0, 2), fb.PixelAt(0, 3))
	}
	if count(fb, 0) != 14 {
		t.Fatal("blit touched pixels outside the sprite")
	}
}

func TestFillRectangleAndSetPixel(t *testing.T) {
	fb := hal.NewMemFramebuffer(6, 6)
	c := New(fb)
	_ = c.FillRectangle(-2, -2, 4, 4, color.RGBA{R: 255, A: 255})
	if got := count(fb, red); got != 4 {
		t.Fatalf("filled %d pixels", got)
	}
	c.SetPixel(5, 5, color.RGBA{B: 255, A: 255})
	c.SetPixel(6, 5, color.RGBA{B: 255, A: 255})
	if fb.PixelAt(5, 5) != 0x001F || count(fb, 0x001F) != 1 {
		t.Fatal("SetPixel did not clip")
	}
}

func TestFillCircleIsSymmetric(t *testing.T) {
	fb := hal.NewMemFramebuffer(21, 21)
	New(fb).FillCircle(10, 10, 5, red)
	for y := 0; y < 21; y++ {
		for x := 0; x < 21; x++ {
			if fb.PixelAt(x, y) != fb.PixelAt(20-x, y) || fb.PixelAt(x, y) != fb.PixelAt(x, 20-y) {
				t.Fatalf("asymmetric at (%d,%d)", x, y)
			}
		}
	}
	if fb.PixelAt(10, 10) != red || fb.PixelAt(10, 4) != 0 {
		t.Fatal("unexpected circle extent")
	}
}

func TestWriteFrame(t *testing.T) {
	fb := hal.NewMemFramebuffer(3, 2)
	c := New(fb)
	c.WriteFrame(rgb565.Fill(3, 2, red))
	if count(fb, red) != 6 {
		t.Fatal("frame not copied")
	}
	c.Clear(color.RGBA{})
	c.WriteFrame(rgb565.Fill(3, 1, red))
	if count(fb, red) != 3 {
		t.Fatal("short frame should only fill complete rows")
	}
}

func TestDisplayPresents(t *testing.T) {
	fb := hal.NewMemFramebuffer(2, 2)
	c := New(fb)
	if err := c.Display(); err != nil {
		t.Fatal(err)
	}
	if fb.Presents() != 1 {
		t.Fatalf("Presents = %d", fb.Presents())
	}
	if err := c.SetRotation(drivers.Rotation180); err != nil || c.Rotation() != drivers.Rotation180 {
		t.Fatal("rotation not recorded")
	}
	if x, y := c.Size(); x != 2 || y != 2 {
		t.Fatalf("Size = %d,%d", x, y)
	}
}

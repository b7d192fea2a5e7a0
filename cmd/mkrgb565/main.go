package main

import (
	"bufio"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"strconv"
	"strings"

	"lcdshow/gfx/rgb565"
	"lcdshow/gfx/sprite"
	"lcdshow/hal"
)

func main() {
	var (
		inPath   = flag.String("in", "", "Input file (image for pack, .raw for unpack).")
		outPath  = flag.String("out", "", "Output file (.raw for pack and fill, .png for unpack).")
		mode     = flag.String("mode", "pack", "pack|fill|unpack.")
		size     = flag.String("size", "480x320", "Frame size WxH.")
		fraction = flag.Float64("fraction", 1, "Largest share of the frame the image may take (pack only).")
		fill     = flag.String("fill", "000000", "Solid color as RRGGBB (fill only).")
	)
	flag.Parse()

	if *outPath == "" {
		fatalf("usage: mkrgb565 -in image.bmp -out frame.raw [-size 480x320] [-fraction 1]\n       mkrgb565 -mode fill -fill ff0000 -out red.raw [-size 480x320]\n       mkrgb565 -mode unpack -in frame.raw -out frame.png [-size 480x320]")
	}
	m, err := hal.ParseMode(*size)
	if err != nil || m.Auto() {
		fatalf("bad -size %q", *size)
	}
	frame := image.Pt(m.W, m.H)

	switch strings.ToLower(*mode) {
	case "pack":
		if *inPath == "" {
			fatalf("pack: -in is required")
		}
		err = packFile(*inPath, *outPath, frame, *fraction)
	case "fill":
		var p rgb565.Pixel
		if p, err = parseHex(*fill); err == nil {
			err = writeFile(*outPath, rgb565.Fill(m.W, m.H, p))
		}
	case "unpack":
		if *inPath == "" {
			fatalf("unpack: -in is required")
		}
		err = unpackFile(*inPath, *outPath, frame)
	default:
		fatalf("unknown mode: %s", *mode)
	}
	if err != nil {
		fatalf("%s: %v", *mode, err)
	}
}

func fatalf(format string, args ...any) {
	_, _ = fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(2)
}

// packFile fits the image into frame, centers it on black and writes the
// packed frame.
func packFile(inPath, outPath string, frame image.Point, fraction float64) error {
	img, err := sprite.Load(inPath)
	if err != nil {
		return err
	}
	return writeFile(outPath, packFrame(img, frame, fraction))
}

func packFrame(img image.Image, frame image.Point, fraction float64) []byte {
	fitted := rgb565.Convert(sprite.Fit(img, frame, fraction))
	canvas := rgb565.NewImage(image.Rectangle{Max: frame})
	off := frame.Sub(fitted.Bounds().Size()).Div(2)
	for y := 0; y < fitted.Bounds().Dy(); y++ {
		for x := 0; x < fitted.Bounds().Dx(); x++ {
			canvas.SetPixel(off.X+x, off.Y+y, fitted.PixelAt(x, y))
		}
	}
	return canvas.Pix
}

func unpackFile(inPath, outPath string, frame image.Point) error {
	raw, err := os.ReadFile(inPath)
	if err != nil {
		return err
	}
	img, err := unpackFrame(raw, frame)
	if err != nil {
		return err
	}
	out, err := os.Create(outPath)
	if err != nil {
		return err
	}
	defer out.Close()
	bw := bufio.NewWriter(out)
	if err := png.Encode(bw, img); err != nil {
		return err
	}
	return bw.Flush()
}

func unpackFrame(raw []byte, frame image.Point) (*rgb565.Image, error) {
	if want := frame.X * frame.Y * 2; len(raw) != want {
		return nil, fmt.Errorf("raw frame is %d bytes, want %d for %dx%d", len(raw), want, frame.X, frame.Y)
	}
	return &rgb565.Image{Pix: raw, Stride: frame.X * 2, Rect: image.Rectangle{Max: frame}}, nil
}

func parseHex(s string) (rgb565.Pixel, error) {
	s = strings.TrimPrefix(strings.TrimPrefix(s, "#"), "0x")
	if len(s) != 6 {
		return 0, fmt.Errorf("color %q: want RRGGBB", s)
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return 0, fmt.Errorf("color %q: %w", s, err)
	}
	return rgb565.FromRGB(uint8(v>>16), uint8(v>>8), uint8(v)), nil
}

func writeFile(path string, b []byte) error {
	return os.WriteFile(path, b, 0o644)
}

package app

import (
	"fmt"
	"image/color"
	"runtime/debug"
	"strings"
	"unicode/utf8"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"

	"lcdshow/gfx/canvas"
)

// guard runs one frame. A panic is logged with its stack, painted on the
// screen and returned as an error so the run ends instead of crashing
// with the display left in an unknown state.
func guard(e *env, frame func() error) (err error) {
	defer func() {
		v := recover()
		if v == nil {
			return
		}
		stack := debug.Stack()
		e.logf("lcdshow panic: %v", v)
		for _, line := range strings.Split(string(stack), "\n") {
			if line != "" {
				e.logf("%s", line)
			}
		}
		paintPanic(e.cv, v, stack)
		err = fmt.Errorf("app: panic in frame: %v", v)
	}()
	return frame()
}

func paintPanic(cv *canvas.Canvas, v any, stack []byte) {
	cv.Clear(color.RGBA{R: 255, G: 255, B: 255, A: 255})

	font := &proggy.TinySZ8pt7b
	fontHeight, fontOffset := int16(10), int16(8)
	_, outboxWidth := tinyfont.LineWidth(font, "0")
	fontWidth := int16(outboxWidth)
	if fontWidth <= 0 {
		_ = cv.Display()
		return
	}

	lines := []string{"lcdshow panic:", fmt.Sprintf("panic: %v", v), "stack:"}
	for _, line := range strings.Split(string(stack), "\n") {
		if line != "" {
			lines = append(lines, line)
		}
	}

	fg := color.RGBA{A: 255}
	maxW, maxH := cv.Size()
	cols := maxW / fontWidth
	if cols <= 0 {
		cols = 1
	}

	y := int16(0)
	for _, line := range lines {
		for len(line) > 0 {
			if y+fontHeight > maxH {
				_ = cv.Display()
				return
			}
			chunk, rest := takeRunes(line, cols)
			drawTextLine(cv, font, fontWidth, fontOffset, 0, y, chunk, fg)
			y += fontHeight
			line = strings.TrimLeft(rest, " \t")
		}
	}
	_ = cv.Display()
}

func drawTextLine(
	cv *canvas.Canvas,
	font tinyfont.Fonter,
	fontWidth, fontOffset int16,
	x0, y0 int16,
	s string,
	fg color.RGBA,
) {
	drawX := x0
	for _, r := range s {
		tinyfont.DrawChar(cv, font, drawX, y0+fontOffset, r, fg)
		drawX += fontWidth
	}
}

func takeRunes(s string, n int16) (prefix, rest string) {
	if n <= 0 || s == "" {
		return "", s
	}
	if int64(len(s)) <= int64(n) {
		return s, ""
	}
	var i int
	var count int16
	for i < len(s) && count < n {
		_, size := utf8.DecodeRuneInString(s[i:])
		if size <= 0 {
			break
		}
		i += size
		count++
	}
	if i >= len(s) {
		return s, ""
	}
	return s[:i], s[i:]
}

package app

import (
	"image/color"

	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

var captionFont tinyfont.Fonter = &proggy.TinySZ8pt7b

// drawText writes s with its baseline at y.
func (e *env) drawText(x, y int, s string, c color.RGBA) {
	tinyfont.WriteLine(e.cv, captionFont, int16(x), int16(y), s, c)
}

// drawCentered writes s horizontally centered with its baseline at y.
func (e *env) drawCentered(y int, s string, c color.RGBA) {
	_, w := tinyfont.LineWidth(captionFont, s)
	e.drawText((e.fb.Width()-int(w))/2, y, s, c)
}

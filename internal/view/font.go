package view

import (
	"image"

	"github.com/hajimehoshi/bitmapfont/v3"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const (
	firstGlyph = 32
	lastGlyph  = 126
	atlasCols  = 16
)

// FontAtlas is a grid of the printable ASCII glyphs rasterized from the
// bitmap font, white on transparent, ready to upload as a texture.
type FontAtlas struct {
	Image        *image.NRGBA
	CellW, CellH int
}

// NewFontAtlas rasterizes the ASCII range of face into a grid. A nil face
// uses the bundled bitmap font.
func NewFontAtlas(face font.Face) *FontAtlas {
	if face == nil {
		face = bitmapfont.Face
	}
	var adv fixed.Int26_6
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		if a, ok := face.GlyphAdvance(r); ok && a > adv {
			adv = a
		}
	}
	m := face.Metrics()
	a := &FontAtlas{CellW: adv.Ceil(), CellH: m.Height.Ceil()}
	rows := (lastGlyph - firstGlyph + atlasCols) / atlasCols
	a.Image = image.NewNRGBA(image.Rect(0, 0, atlasCols*a.CellW, rows*a.CellH))

	d := font.Drawer{Dst: a.Image, Src: image.White, Face: face}
	for r := rune(firstGlyph); r <= lastGlyph; r++ {
		cell := a.cell(r)
		d.Dot = fixed.P(cell.Min.X, cell.Min.Y+m.Ascent.Ceil())
		d.DrawString(string(r))
	}
	return a
}

func (a *FontAtlas) cell(r rune) image.Rectangle {
	i := int(r - firstGlyph)
	x, y := (i%atlasCols)*a.CellW, (i/atlasCols)*a.CellH
	return image.Rect(x, y, x+a.CellW, y+a.CellH)
}

// Glyph returns the atlas cell of r; runes outside printable ASCII have none.
func (a *FontAtlas) Glyph(r rune) (image.Rectangle, bool) {
	if r < firstGlyph || r > lastGlyph {
		return image.Rectangle{}, false
	}
	return a.cell(r), true
}

// TextWidth is the width in pixels of the widest line of text at scale.
func (a *FontAtlas) TextWidth(text string, scale float64) int {
	lineLen, maxLen := 0, 0
	for _, ch := range text {
		if ch == '\n' {
			lineLen = 0
			continue
		}
		lineLen++
		maxLen = max(maxLen, lineLen)
	}
	return int(float64(maxLen*a.CellW) * scale)
}

package race

import (
	"image"
	"math/bits"
)

// DefaultAlphaThreshold matches the usual surface-to-mask rule: a pixel is
// solid when its alpha is strictly above 127.
const DefaultAlphaThreshold = 127

// Mask is a binary pixel-opacity map stored as packed rows of 64-bit words.
type Mask struct {
	w, h  int
	words int // words per row
	bits  []uint64
}

func NewMask(w, h int) *Mask {
	if w < 0 {
		w = 0
	}
	if h < 0 {
		h = 0
	}
	words := (w + 63) / 64
	return &Mask{w: w, h: h, words: words, bits: make([]uint64, words*h)}
}

// MaskFromImage builds a mask whose set bits are the pixels of img with
// alpha above threshold (8-bit scale).
func MaskFromImage(img image.Image, threshold uint8) *Mask {
	b := img.Bounds()
	m := NewMask(b.Dx(), b.Dy())
	for y := 0; y < m.h; y++ {
		for x := 0; x < m.w; x++ {
			_, _, _, a := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			if uint8(a>>8) > threshold {
				m.Set(x, y)
			}
		}
	}
	return m
}

func (m *Mask) Size() (int, int) { return m.w, m.h }

func (m *Mask) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < m.w && y < m.h
}

func (m *Mask) Set(x, y int) {
	if !m.inside(x, y) {
		return
	}
	m.bits[y*m.words+x>>6] |= 1 << uint(x&63)
}

func (m *Mask) Clear(x, y int) {
	if !m.inside(x, y) {
		return
	}
	m.bits[y*m.words+x>>6] &^= 1 << uint(x&63)
}

func (m *Mask) Get(x, y int) bool {
	if !m.inside(x, y) {
		return false
	}
	return m.bits[y*m.words+x>>6]&(1<<uint(x&63)) != 0
}

// Count returns the number of set pixels.
func (m *Mask) Count() int {
	n := 0
	for _, w := range m.bits {
		n += bits.OnesCount64(w)
	}
	return n
}

// Bounds returns the bounding rectangle of the set pixels, or the empty
// rectangle when nothing is set.
func (m *Mask) Bounds() image.Rectangle {
	var r image.Rectangle
	found := false
	for y := 0; y < m.h; y++ {
		row := m.bits[y*m.words : (y+1)*m.words]
		for wi, w := range row {
			if w == 0 {
				continue
			}
			x0 := wi*64 + bits.TrailingZeros64(w)
			x1 := wi*64 + 63 - bits.LeadingZeros64(w) + 1
			if !found {
				r = image.Rect(x0, y, x1, y+1)
				found = true
				continue
			}
			r = r.Union(image.Rect(x0, y, x1, y+1))
		}
	}
	return r
}

// wordAt returns 64 bits of row y starting at bit x (x may be negative or
// run past the row end; missing bits read as zero).
func (m *Mask) wordAt(x, y int) uint64 {
	if y < 0 || y >= m.h || x >= m.w || x <= -64 {
		return 0
	}
	row := m.bits[y*m.words : (y+1)*m.words]
	if x < 0 {
		return row[0] << uint(-x)
	}
	wi, sh := x>>6, uint(x&63)
	v := row[wi] >> sh
	if sh != 0 && wi+1 < len(row) {
		v |= row[wi+1] << (64 - sh)
	}
	return v
}

// Overlap reports the first pixel where m and other are both set, with other
// placed at offset relative to m. The point is in m's coordinates. Rows are
// scanned top to bottom and left to right; callers must not rely on which
// of several overlapping pixels is returned.
func (m *Mask) Overlap(other *Mask, offset image.Point) (image.Point, bool) {
	if m == nil || other == nil {
		return image.Point{}, false
	}
	area := image.Rect(0, 0, m.w, m.h).Intersect(
		image.Rect(offset.X, offset.Y, offset.X+other.w, offset.Y+other.h))
	if area.Empty() {
		return image.Point{}, false
	}
	for y := area.Min.Y; y < area.Max.Y; y++ {
		oy := y - offset.Y
		for x := area.Min.X; x < area.Max.X; x += 64 {
			v := m.wordAt(x, y) & other.wordAt(x-offset.X, oy)
			if n := area.Max.X - x; n < 64 {
				v &= (1 << uint(n)) - 1
			}
			if v != 0 {
				return image.Pt(x+bits.TrailingZeros64(v), y), true
			}
		}
	}
	return image.Point{}, false
}

package race

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solidMask(w, h int) *Mask {
	m := NewMask(w, h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			m.Set(x, y)
		}
	}
	return m
}

func TestMaskSetGetClear(t *testing.T) {
	m := NewMask(130, 3)
	m.Set(0, 0)
	m.Set(63, 1)
	m.Set(64, 1)
	m.Set(129, 2)
	m.Set(130, 2) // out of range, ignored
	m.Set(-1, 0)

	assert.True(t, m.Get(0, 0))
	assert.True(t, m.Get(63, 1))
	assert.True(t, m.Get(64, 1))
	assert.True(t, m.Get(129, 2))
	assert.False(t, m.Get(130, 2))
	assert.Equal(t, 4, m.Count())

	m.Clear(63, 1)
	assert.False(t, m.Get(63, 1))
	assert.Equal(t, 3, m.Count())
}

func TestMaskBounds(t *testing.T) {
	m := NewMask(200, 50)
	assert.True(t, m.Bounds().Empty())

	m.Set(70, 10)
	m.Set(150, 30)
	m.Set(5, 20)
	assert.Equal(t, image.Rect(5, 10, 151, 31), m.Bounds())
}

func TestMaskFromImage(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.Set(0, 0, color.NRGBA{A: 255})
	img.Set(1, 0, color.NRGBA{A: 127})
	img.Set(2, 0, color.NRGBA{A: 128})

	m := MaskFromImage(img, DefaultAlphaThreshold)
	assert.True(t, m.Get(0, 0))
	assert.False(t, m.Get(1, 0), "alpha equal to the threshold is transparent")
	assert.True(t, m.Get(2, 0))
}

func TestMaskOverlapDisjoint(t *testing.T) {
	a := solidMask(10, 10)
	b := solidMask(5, 5)

	tests := []struct {
		name   string
		offset image.Point
	}{
		{"right", image.Pt(10, 0)},
		{"below", image.Pt(0, 10)},
		{"left", image.Pt(-5, 3)},
		{"above", image.Pt(2, -5)},
		{"far away", image.Pt(1000, -1000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, hit := a.Overlap(b, tt.offset)
			assert.False(t, hit)
			_, hit = b.Overlap(a, image.Pt(-tt.offset.X, -tt.offset.Y))
			assert.False(t, hit)
		})
	}
}

func TestMaskOverlapSinglePixel(t *testing.T) {
	tests := []struct {
		name   string
		aPix   image.Point
		bPix   image.Point
		offset image.Point
	}{
		{"origin", image.Pt(0, 0), image.Pt(0, 0), image.Pt(0, 0)},
		{"positive offset", image.Pt(40, 7), image.Pt(2, 3), image.Pt(38, 4)},
		{"negative offset", image.Pt(1, 1), image.Pt(6, 9), image.Pt(-5, -8)},
		{"word boundary", image.Pt(64, 2), image.Pt(10, 0), image.Pt(54, 2)},
		{"second word", image.Pt(127, 5), image.Pt(100, 5), image.Pt(27, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := NewMask(150, 20)
			b := NewMask(120, 20)
			a.Set(tt.aPix.X, tt.aPix.Y)
			b.Set(tt.bPix.X, tt.bPix.Y)

			p, hit := a.Overlap(b, tt.offset)
			require.True(t, hit)
			assert.Equal(t, tt.aPix, p)
			assert.True(t, b.Get(p.X-tt.offset.X, p.Y-tt.offset.Y))
		})
	}
}

func TestMaskOverlapAdjacentPixelsMiss(t *testing.T) {
	a := NewMask(100, 10)
	b := NewMask(100, 10)
	a.Set(65, 4)
	b.Set(65, 4)

	_, hit := a.Overlap(b, image.Pt(1, 0))
	assert.False(t, hit)
	_, hit = a.Overlap(b, image.Pt(0, 1))
	assert.False(t, hit)
	_, hit = a.Overlap(b, image.Pt(0, 0))
	assert.True(t, hit)
}

func TestMaskOverlapRowMajor(t *testing.T) {
	a := solidMask(20, 20)
	b := solidMask(5, 5)
	p, hit := a.Overlap(b, image.Pt(7, 3))
	require.True(t, hit)
	assert.Equal(t, image.Pt(7, 3), p)
}

func TestCollide(t *testing.T) {
	obstacle := NewMask(50, 50)
	obstacle.Set(20, 20)
	car := &Car{X: 108.9, Y: 109.7, Footprint: solidMask(3, 3)}

	// Car covers 108..110 in world space, obstacle pixel sits at 120.
	p, hit := Collide(car, obstacle, image.Pt(100, 100))
	assert.False(t, hit)

	car.X, car.Y = 118.99, 118.2
	p, hit = Collide(car, obstacle, image.Pt(100, 100))
	require.True(t, hit)
	assert.Equal(t, image.Pt(20, 20), p)
}

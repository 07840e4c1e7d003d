package tui

import (
	"image"
	"image/color"
	"math"

	"github.com/gdamore/tcell/v2"

	"crazycars/internal/assets"
	"crazycars/internal/mathx"
	"crazycars/internal/race"
)

// arrows are indexed by heading in 45 degree steps; heading 0 points up and
// grows counter-clockwise.
var arrows = [8]rune{'↑', '↖', '←', '↙', '↓', '↘', '→', '↗'}

// Arrow returns the glyph pointing along heading.
func Arrow(heading float64) rune {
	d := mathx.AngleDiffDeg(heading, 0)
	if d < 0 {
		d += 360
	}
	return arrows[int(math.Round(d/45))%8]
}

// board is the track downsampled to a grid of terminal cells.
type board struct {
	cols, rows   int
	worldW       int
	worldH       int
	cells        []tcell.Color
	playerSize   image.Point
	computerSize image.Point
}

func newBoard(b *assets.Bundle, cols, rows int) *board {
	w, h := b.Size()
	bd := &board{
		cols:   max(cols, 1),
		rows:   max(rows, 1),
		worldW: w,
		worldH: h,
	}
	pw, ph := b.PlayerMask.Size()
	cw, ch := b.ComputerMask.Size()
	bd.playerSize = image.Pt(pw, ph)
	bd.computerSize = image.Pt(cw, ch)

	fw, fh := b.FinishMask.Size()
	fr := image.Rectangle{Min: b.Layout.FinishPos, Max: b.Layout.FinishPos.Add(image.Pt(fw, fh))}

	bd.cells = make([]tcell.Color, bd.cols*bd.rows)
	for row := 0; row < bd.rows; row++ {
		for col := 0; col < bd.cols; col++ {
			bd.cells[row*bd.cols+col] = bd.sample(b, fr, bd.worldRect(col, row))
		}
	}
	return bd
}

// worldRect is the area of the world covered by a cell.
func (bd *board) worldRect(col, row int) image.Rectangle {
	return image.Rect(
		col*bd.worldW/bd.cols, row*bd.worldH/bd.rows,
		(col+1)*bd.worldW/bd.cols, (row+1)*bd.worldH/bd.rows,
	)
}

// sample picks the colour of the top-most layer that covers r: border,
// finish, asphalt, then grass.
func (bd *board) sample(b *assets.Bundle, finish image.Rectangle, r image.Rectangle) tcell.Color {
	if r.Empty() {
		r.Max = r.Min.Add(image.Pt(1, 1))
	}
	if hasBits(b.BorderMask, r) {
		return termColor(assets.Average(b.Border, r))
	}
	if fr := r.Intersect(finish); !fr.Empty() {
		return termColor(assets.Average(b.Finish, fr.Sub(finish.Min)))
	}
	if c := assets.Average(b.Track, r); c.A != 0 {
		return termColor(c)
	}
	return termColor(assets.Average(b.Grass, r))
}

func hasBits(m *race.Mask, r image.Rectangle) bool {
	for y := r.Min.Y; y < r.Max.Y; y++ {
		for x := r.Min.X; x < r.Max.X; x++ {
			if m.Get(x, y) {
				return true
			}
		}
	}
	return false
}

func termColor(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

func (bd *board) at(col, row int) tcell.Color {
	return bd.cells[row*bd.cols+col]
}

// cellOf maps the centre of a car with footprint size to a cell.
func (bd *board) cellOf(p race.Pose, size image.Point) (int, int) {
	cx := p.X + float64(size.X)/2
	cy := p.Y + float64(size.Y)/2
	col := int(math.Floor(cx * float64(bd.cols) / float64(bd.worldW)))
	row := int(math.Floor(cy * float64(bd.rows) / float64(bd.worldH)))
	return mathx.Clamp(col, 0, bd.cols-1), mathx.Clamp(row, 0, bd.rows-1)
}

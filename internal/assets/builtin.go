package assets

import (
	"image"
	"image/color"
	"math"

	"crazycars/internal/mathx"
	"crazycars/internal/race"
)

// Built-in oval: an asphalt ring between two ellipses, a kerb band on both
// sides and a checkered finish strip across the bottom straight.
const (
	BuiltinWidth  = 1000
	BuiltinHeight = 800

	ovalCX, ovalCY = 500.0, 400.0
	outerRX        = 440.0
	outerRY        = 340.0
	innerRX        = 300.0
	innerRY        = 200.0
	laneRX         = (outerRX + innerRX) / 2
	laneRY         = (outerRY + innerRY) / 2
	kerb           = 6.0

	finishW    = 24
	finishH    = int(outerRY-innerRY) - 2 // clear of the outer kerb
	finishCell = 4

	carW = 18
	carH = 34

	grassSeed = 0x5eed
)

// BuiltinLayout places the cars just past the finish line, facing along the
// bottom straight. The computer laps counter-clockwise and crosses the finish
// strip on its way to the last waypoint. The waypoints are top-left car
// positions; on the right and left bends they sit far apart so the car
// reaches each one close to axis-aligned at every level speed.
func BuiltinLayout() Layout {
	return Layout{
		PlayerStart:   race.Vec{X: 510, Y: 630},
		ComputerStart: race.Vec{X: 510, Y: 690},
		FinishPos:     image.Pt(int(ovalCX)-30, int(ovalCY+innerRY)),
		FinishGuard:   -1,
		Path: []image.Point{
			{717, 664}, {796, 435}, {787, 262}, {578, 177}, {337, 182},
			{130, 210}, {102, 250}, {196, 456}, {341, 601}, {588, 587},
		},
	}
}

// Builtin generates the built-in track. It needs no files.
func Builtin() *Bundle {
	b := &Bundle{
		Grass:       grassImage(),
		Track:       asphaltImage(),
		Border:      kerbImage(),
		Finish:      finishImage(),
		PlayerCar:   carSprite(Palette.PlayerBody),
		ComputerCar: carSprite(Palette.ComputerBody),
		Layout:      BuiltinLayout(),
	}
	// generated images always carry opaque pixels
	_ = b.buildMasks(race.DefaultAlphaThreshold)
	return b
}

func ellipse(x, y, rx, ry float64) float64 {
	dx := (x - ovalCX) / rx
	dy := (y - ovalCY) / ry
	return dx*dx + dy*dy
}

func onAsphalt(x, y float64) bool {
	return ellipse(x, y, outerRX, outerRY) <= 1 && ellipse(x, y, innerRX, innerRY) > 1
}

func onKerb(x, y float64) bool {
	outer := ellipse(x, y, outerRX+kerb, outerRY+kerb) <= 1 && ellipse(x, y, outerRX, outerRY) > 1
	inner := ellipse(x, y, innerRX, innerRY) <= 1 && ellipse(x, y, innerRX-kerb, innerRY-kerb) > 1
	return outer || inner
}

func grassImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, BuiltinWidth, BuiltinHeight))
	for y := 0; y < BuiltinHeight; y++ {
		for x := 0; x < BuiltinWidth; x++ {
			c := Palette.Grass
			if mathx.Hash2D(grassSeed, x/12, y/12)&3 == 0 {
				c = Palette.GrassPatch
			}
			n := int(mathx.Hash2D(grassSeed+1, x, y)&15) - 8
			img.SetNRGBA(x, y, c.Add(n, n, n/2).NRGBA(255))
		}
	}
	return img
}

func asphaltImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, BuiltinWidth, BuiltinHeight))
	for y := 0; y < BuiltinHeight; y++ {
		for x := 0; x < BuiltinWidth; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			if !onAsphalt(px, py) {
				continue
			}
			c := Palette.Asphalt
			// dashed centre line
			if math.Abs(ellipse(px, py, laneRX, laneRY)-1) < 0.006 &&
				int(math.Atan2(py-ovalCY, px-ovalCX)*40)%2 == 0 {
				c = Palette.AsphaltLine
			} else {
				n := int(mathx.Hash2D(grassSeed+2, x, y)&7) - 4
				c = c.Add(n, n, n)
			}
			img.SetNRGBA(x, y, c.NRGBA(255))
		}
	}
	return img
}

func kerbImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, BuiltinWidth, BuiltinHeight))
	for y := 0; y < BuiltinHeight; y++ {
		for x := 0; x < BuiltinWidth; x++ {
			px, py := float64(x)+0.5, float64(y)+0.5
			if !onKerb(px, py) {
				continue
			}
			c := Palette.Border
			a := math.Atan2(py-ovalCY, px-ovalCX) + math.Pi
			if int(a*24/math.Pi)%2 == 0 {
				c = Palette.BorderStripe
			}
			img.SetNRGBA(x, y, c.NRGBA(255))
		}
	}
	return img
}

func finishImage() *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, finishW, finishH))
	for y := 0; y < finishH; y++ {
		for x := 0; x < finishW; x++ {
			c := Palette.FinishLight
			if (x/finishCell+y/finishCell)%2 == 1 {
				c = Palette.FinishDark
			}
			img.SetNRGBA(x, y, c.NRGBA(255))
		}
	}
	return img
}

// carSprite draws a car facing up: rounded body, wheels on both sides and
// front and rear windows.
func carSprite(body RGB) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, carW, carH))
	const r = 3.0
	wheel := color.NRGBA{R: 25, G: 25, B: 25, A: 255}
	for y := 0; y < carH; y++ {
		for x := 0; x < carW; x++ {
			if (x == 0 || x == carW-1) && ((y >= 5 && y < 11) || (y >= 23 && y < 29)) {
				img.SetNRGBA(x, y, wheel)
				continue
			}
			if x == 0 || x == carW-1 {
				continue
			}
			// distance to the body rectangle shrunk by the corner radius
			cx := mathx.ClampF(float64(x)+0.5, 1+r, carW-1-r)
			cy := mathx.ClampF(float64(y)+0.5, r, carH-r)
			if math.Hypot(float64(x)+0.5-cx, float64(y)+0.5-cy) > r {
				continue
			}
			c := body
			switch {
			case y >= 7 && y < 12 && x >= 4 && x < carW-4:
				c = Palette.Glass
			case y >= 25 && y < 28 && x >= 5 && x < carW-5:
				c = Palette.Glass.Mul(180)
			case y < 2:
				c = body.Add(40, 40, 40)
			}
			img.SetNRGBA(x, y, c.NRGBA(255))
		}
	}
	return img
}

package assets

import "image/color"

// RGB is an 8-bit per channel colour.
type RGB struct {
	R, G, B uint8
}

func (c RGB) Mul(k uint8) RGB {
	return RGB{
		R: uint8((uint16(c.R) * uint16(k)) / 255),
		G: uint8((uint16(c.G) * uint16(k)) / 255),
		B: uint8((uint16(c.B) * uint16(k)) / 255),
	}
}

func (c RGB) Add(dr, dg, db int) RGB {
	return RGB{R: clamp8(int(c.R) + dr), G: clamp8(int(c.G) + dg), B: clamp8(int(c.B) + db)}
}

// NRGBA returns the colour with the given alpha.
func (c RGB) NRGBA(a uint8) color.NRGBA {
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: a}
}

// Floats returns the channels scaled to 0..1 for shader uniforms.
func (c RGB) Floats() (float32, float32, float32) {
	return float32(c.R) / 255, float32(c.G) / 255, float32(c.B) / 255
}

func clamp8(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

var Palette = struct {
	Grass        RGB
	GrassPatch   RGB
	Asphalt      RGB
	AsphaltLine  RGB
	Border       RGB
	BorderStripe RGB
	FinishLight  RGB
	FinishDark   RGB
	PlayerBody   RGB
	ComputerBody RGB
	Glass        RGB
	Waypoint     RGB
	Target       RGB
	Text         RGB
	Shadow       RGB
}{
	Grass:        RGB{R: 74, G: 128, B: 58},
	GrassPatch:   RGB{R: 62, G: 112, B: 48},
	Asphalt:      RGB{R: 60, G: 66, B: 79},
	AsphaltLine:  RGB{R: 214, G: 190, B: 153},
	Border:       RGB{R: 200, G: 40, B: 40},
	BorderStripe: RGB{R: 240, G: 240, B: 240},
	FinishLight:  RGB{R: 245, G: 245, B: 245},
	FinishDark:   RGB{R: 20, G: 20, B: 20},
	PlayerBody:   RGB{R: 210, G: 35, B: 35},
	ComputerBody: RGB{R: 130, G: 50, B: 170},
	Glass:        RGB{R: 150, G: 200, B: 230},
	Waypoint:     RGB{R: 255, G: 0, B: 0},
	Target:       RGB{R: 255, G: 200, B: 90},
	Text:         RGB{R: 200, G: 200, B: 200},
	Shadow:       RGB{R: 0, G: 0, B: 0},
}

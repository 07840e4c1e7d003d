package view

import (
	"math"

	"crazycars/internal/mathx"
)

type Camera struct {
	X, Y float64 // world-pixel space, camera centre
	Zoom float64 // screen pixels per world pixel

	// Screen shake.
	ShakeX, ShakeY float64 // current offset in world pixels
	ShakeTimer     float64 // remaining shake time
	ShakeIntensity float64 // max offset magnitude
}

// Fit centres the camera on a worldW x worldH world and zooms so the whole
// world fills the framebuffer.
func (c *Camera) Fit(worldW, worldH, fbW, fbH int) {
	if worldW <= 0 || worldH <= 0 {
		return
	}
	c.Zoom = math.Min(float64(fbW)/float64(worldW), float64(fbH)/float64(worldH))
	c.X = float64(worldW) / 2
	c.Y = float64(worldH) / 2
}

// AddShake triggers screen shake with given intensity and duration.
func (c *Camera) AddShake(intensity, duration float64) {
	if intensity > c.ShakeIntensity {
		c.ShakeIntensity = intensity
	}
	if duration > c.ShakeTimer {
		c.ShakeTimer = duration
	}
}

// UpdateShake decays shake and computes random offsets.
func (c *Camera) UpdateShake(dt float64, seed uint64) {
	if c.ShakeTimer <= 0 {
		c.ShakeX = 0
		c.ShakeY = 0
		c.ShakeIntensity = 0
		return
	}
	c.ShakeTimer = math.Max(c.ShakeTimer-dt, 0)
	t := c.ShakeTimer
	rr := mathx.NewRand(seed ^ uint64(t*10000))
	mag := c.ShakeIntensity * (t / (t + 0.08))
	c.ShakeX = rr.RangeF(-mag, mag)
	c.ShakeY = rr.RangeF(-mag, mag)
}

// EffectivePos returns camera position with shake applied.
func (c *Camera) EffectivePos() (float64, float64) {
	return c.X + c.ShakeX, c.Y + c.ShakeY
}

// ScreenToWorld converts a framebuffer pixel to world coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64, fbW, fbH int) (float64, float64) {
	if c.Zoom == 0 {
		return c.X, c.Y
	}
	return c.X + (sx-float64(fbW)*0.5)/c.Zoom, c.Y + (sy-float64(fbH)*0.5)/c.Zoom
}

// WorldToScreen is the inverse of ScreenToWorld.
func (c *Camera) WorldToScreen(wx, wy float64, fbW, fbH int) (float64, float64) {
	return (wx-c.X)*c.Zoom + float64(fbW)*0.5, (wy-c.Y)*c.Zoom + float64(fbH)*0.5
}

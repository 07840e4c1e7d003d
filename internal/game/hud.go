package game

import (
	"fmt"

	"crazycars/internal/assets"
	"crazycars/internal/view"
)

// RenderHUD draws the race stats in the bottom-left corner and the phase
// banner in the middle of the screen.
func RenderHUD(r *Renderer, hud view.HUD, recorded int, fbW, fbH int) {
	text := assets.Palette.Text
	s := float32(max(1, fbH/400))

	lines := hud.Stats()
	y := fbH - 10 - len(lines)*(r.LineHeight(s)+4)
	for _, l := range lines {
		r.DrawShadowed(l, 10, y, s, text)
		y += r.LineHeight(s) + 4
	}

	if recorded >= 0 {
		rec := fmt.Sprintf("REC %d waypoints (click add, right click undo)", recorded)
		r.DrawShadowed(rec, 10, 10, s, assets.Palette.Waypoint)
	}

	if hud.Banner == "" {
		return
	}
	bs := s * 2
	by := fbH/2 - r.LineHeight(bs)
	r.DrawShadowed(hud.Banner, fbW/2-r.TextWidth(hud.Banner, bs)/2, by, bs, text)
	if hud.Hint != "" {
		hy := by + r.LineHeight(bs) + 8
		r.DrawShadowed(hud.Hint, fbW/2-r.TextWidth(hud.Hint, s)/2, hy, s, assets.Palette.Target)
	}
}

//go:build !android

package game

import (
	"github.com/go-gl/glfw/v3.3/glfw"

	"crazycars/internal/race"
	"crazycars/internal/view"
)

type Input struct {
	prevMouse map[glfw.MouseButton]bool
	prevKeys  map[glfw.Key]bool
	anyKey    bool
}

func NewInput() *Input {
	return &Input{
		prevMouse: make(map[glfw.MouseButton]bool),
		prevKeys:  make(map[glfw.Key]bool),
	}
}

// Attach installs the key callback that records presses between polls.
func (in *Input) Attach(window *glfw.Window) {
	window.SetKeyCallback(func(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action == glfw.Press && key != glfw.KeyEscape {
			in.anyKey = true
		}
	})
}

func (in *Input) JustPressed(window *glfw.Window, key glfw.Key) bool {
	down := window.GetKey(key) == glfw.Press
	jp := down && !in.prevKeys[key]
	in.prevKeys[key] = down
	return jp
}

func (in *Input) JustClicked(window *glfw.Window, btn glfw.MouseButton) bool {
	down := window.GetMouseButton(btn) == glfw.Press
	jp := down && !in.prevMouse[btn]
	in.prevMouse[btn] = down
	return jp
}

// Poll reads the held driving keys. WASD and the arrow keys are equivalent.
func (in *Input) Poll(window *glfw.Window) race.Input {
	held := func(keys ...glfw.Key) bool {
		for _, k := range keys {
			if window.GetKey(k) == glfw.Press {
				return true
			}
		}
		return false
	}
	out := race.Input{
		Controls: race.Controls{
			Left:     held(glfw.KeyA, glfw.KeyLeft),
			Right:    held(glfw.KeyD, glfw.KeyRight),
			Forward:  held(glfw.KeyW, glfw.KeyUp),
			Backward: held(glfw.KeyS, glfw.KeyDown),
		},
		AnyKey: in.anyKey,
	}
	in.anyKey = false
	return out
}

// CursorWorldPos converts the cursor position to world coordinates.
func CursorWorldPos(window *glfw.Window, cam view.Camera, fbW, fbH int) (float64, float64) {
	cx, cy := window.GetCursorPos()
	winW, winH := window.GetSize()
	if winW <= 0 || winH <= 0 {
		return cam.X, cam.Y
	}
	fx := cx * float64(fbW) / float64(winW)
	fy := cy * float64(fbH) / float64(winH)
	return cam.ScreenToWorld(fx, fy, fbW, fbH)
}

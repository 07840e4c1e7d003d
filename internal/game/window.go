package game

import (
	"fmt"

	"github.com/go-gl/glfw/v3.3/glfw"
)

const windowTitle = "Racing Game!"

func initWindow(width, height int) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.Resizable, glfw.True)
	glfw.WindowHint(glfw.Decorated, glfw.True)

	window, err := glfw.CreateWindow(width, height, windowTitle, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	glfw.SwapInterval(1)

	return window, nil
}

// windowSize scales the world down to fit the primary monitor.
func windowSize(worldW, worldH int) (int, int) {
	mon := glfw.GetPrimaryMonitor()
	if mon == nil {
		return worldW, worldH
	}
	mode := mon.GetVideoMode()
	if mode == nil {
		return worldW, worldH
	}
	maxW, maxH := mode.Width*9/10, mode.Height*9/10
	if worldW <= maxW && worldH <= maxH {
		return worldW, worldH
	}
	k := min(float64(maxW)/float64(worldW), float64(maxH)/float64(worldH))
	return int(float64(worldW) * k), int(float64(worldH) * k)
}

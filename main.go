package main

import (
	"runtime"

	"crazycars/cmd"
)

func init() {
	// glfw and OpenGL calls must come from the main thread.
	runtime.LockOSThread()
}

func main() {
	cmd.Execute()
}

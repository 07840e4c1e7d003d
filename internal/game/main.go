//go:build !android

package game

import (
	"fmt"
	"image"
	"math"
	"runtime"
	"time"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"crazycars/internal/assets"
	"crazycars/internal/audio"
	"crazycars/internal/race"
	"crazycars/internal/view"
)

// Options are the desktop frontend switches.
type Options struct {
	FPS        int
	DebugPath  bool   // draw the computer's waypoints
	RecordPath string // when set, clicks record waypoints saved to this file on exit
	Mute       bool
	Volume     float64 // effects volume in [0,1]
	Log        *zap.Logger
}

// scene holds the textures of one track bundle.
type scene struct {
	grass, track, finish, border *Layer
	player, computer             *Layer
	finishPos                    image.Point
}

func newScene(b *assets.Bundle) *scene {
	return &scene{
		grass:     NewLayer(b.Grass),
		track:     NewLayer(b.Track),
		finish:    NewLayer(b.Finish),
		border:    NewLayer(b.Border),
		player:    NewLayer(b.PlayerCar),
		computer:  NewLayer(b.ComputerCar),
		finishPos: b.Layout.FinishPos,
	}
}

func (s *scene) layers() []*Layer {
	return []*Layer{s.grass, s.track, s.finish, s.border, s.player, s.computer}
}

func (s *scene) draw(r *Renderer, snap race.Snapshot) {
	r.DrawLayer(s.grass, 0, 0, 0)
	r.DrawLayer(s.track, 0, 0, 0)
	r.DrawLayer(s.finish, float64(s.finishPos.X), float64(s.finishPos.Y), 0)
	r.DrawLayer(s.border, 0, 0, 0)
	r.DrawLayer(s.player, snap.Player.X, snap.Player.Y, snap.Player.Heading)
	r.DrawLayer(s.computer, snap.Computer.X, snap.Computer.Y, snap.Computer.Heading)
}

// RunDesktop opens a window and runs world until the window is closed or
// Escape is pressed. The world is stepped once per frame.
func RunDesktop(world *race.World, b *assets.Bundle, opts Options) error {
	runtime.LockOSThread()

	log := opts.Log
	if log == nil {
		log = zap.NewNop()
	}
	fps := opts.FPS
	if fps <= 0 {
		fps = 60
	}
	worldW, worldH := b.Size()

	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()
	winW, winH := windowSize(worldW, worldH)
	window, err := initWindow(winW, winH)
	if err != nil {
		return err
	}
	defer window.Destroy()

	if err := gl.Init(); err != nil {
		return fmt.Errorf("gl init: %w", err)
	}

	var sound *audio.System
	if !opts.Mute {
		sound, err = audio.New(log.Named("audio"))
		if err != nil {
			log.Warn("audio init failed, continuing without sound", zap.Error(err))
			sound = nil
		} else {
			defer sound.Close()
			sound.SetSFXVolume(opts.Volume)
			sound.Subscribe(world.Events())
			go func() {
				time.Sleep(100 * time.Millisecond) // let audio context initialize
				sound.StartEngine()
			}()
		}
	}

	gl.Disable(gl.DEPTH_TEST)
	gl.Disable(gl.CULL_FACE)
	gl.Enable(gl.PROGRAM_POINT_SIZE)
	gl.PixelStorei(gl.UNPACK_ALIGNMENT, 1)
	gl.ClearColor(0, 0, 0, 1)

	rend, err := NewRenderer()
	if err != nil {
		return fmt.Errorf("renderer: %w", err)
	}
	defer rend.Destroy()
	if err := rend.InitFont(); err != nil {
		return fmt.Errorf("font: %w", err)
	}

	sc := newScene(b)
	defer func() {
		for _, l := range sc.layers() {
			rend.DeleteLayer(l)
		}
	}()

	var rec *view.Recorder
	if opts.RecordPath != "" {
		rec = view.NewRecorder(opts.RecordPath, log.Named("recorder"))
		defer func() {
			if err := rec.Save(); err != nil {
				log.Error("saving recorded waypoints", zap.Error(err))
			}
		}()
	}

	input := NewInput()
	input.Attach(window)
	var cam view.Camera
	seed := uint64(time.Now().UnixNano())
	maxVel := world.Player().MaxVel

	frame := time.Second / time.Duration(fps)
	last := glfw.GetTime()
	for !window.ShouldClose() {
		frameStart := time.Now()
		now := glfw.GetTime()
		dt := math.Min(now-last, 0.1)
		last = now

		glfw.PollEvents()
		if window.GetKey(glfw.KeyEscape) == glfw.Press {
			window.SetShouldClose(true)
			continue
		}

		fbW, fbH := window.GetFramebufferSize()
		if fbW <= 0 || fbH <= 0 {
			continue
		}
		cam.Fit(worldW, worldH, fbW, fbH)

		if rec != nil {
			if input.JustClicked(window, glfw.MouseButtonLeft) {
				wx, wy := CursorWorldPos(window, cam, fbW, fbH)
				rec.Add(image.Pt(int(math.Round(wx)), int(math.Round(wy))))
			}
			if input.JustClicked(window, glfw.MouseButtonRight) {
				rec.Undo()
			}
		}

		out := world.Tick(input.Poll(window))
		switch {
		case out.Has(race.OutcomeFinishBounce):
			cam.AddShake(6, 0.3)
		case out.Has(race.OutcomeBorderBounce):
			cam.AddShake(3, 0.2)
		}
		cam.UpdateShake(dt, seed^uint64(now*1000))

		snap := world.Snapshot()
		sound.SetThrottle(snap.PlayerVel / maxVel)

		rend.BeginFrame(cam, fbW, fbH)
		if snap.Phase != race.PhaseRunning {
			rend.SetTint(assets.Palette.Text, 0.85)
		}
		sc.draw(rend, snap)
		rend.SetTint(assets.RGB{R: 255, G: 255, B: 255}, 1)

		if opts.DebugPath {
			rend.QueuePoints(snap.Path, 5, assets.Palette.Waypoint)
			if snap.CurrentPoint < len(snap.Path) {
				rend.QueuePoints(snap.Path[snap.CurrentPoint:snap.CurrentPoint+1], 9, assets.Palette.Target)
			}
		}
		recorded := -1
		if rec != nil {
			rend.QueuePoints(rec.Points(), 5, assets.Palette.Target)
			recorded = rec.Len()
		}
		rend.FlushPoints()

		RenderHUD(rend, view.NewHUD(snap), recorded, fbW, fbH)
		rend.FlushText(fbW, fbH)

		window.SwapBuffers()

		if d := frame - time.Since(frameStart); d > 0 {
			time.Sleep(d)
		}
	}
	return nil
}

package assets

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"testing/fstest"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crazycars/internal/race"
)

func TestBuiltinGeometry(t *testing.T) {
	b := Builtin()

	w, h := b.Size()
	assert.Equal(t, BuiltinWidth, w)
	assert.Equal(t, BuiltinHeight, h)
	for name, img := range map[string]image.Image{"grass": b.Grass, "border": b.Border} {
		assert.Equal(t, image.Pt(w, h), img.Bounds().Size(), name)
	}
	assert.Equal(t, image.Pt(carW, carH), b.PlayerCar.Bounds().Size())

	for name, m := range map[string]*race.Mask{
		"border": b.BorderMask, "finish": b.FinishMask,
		"player": b.PlayerMask, "computer": b.ComputerMask,
	} {
		assert.Positive(t, m.Count(), name)
	}

	track, err := b.RaceTrack()
	require.NoError(t, err)
	assert.Equal(t, finishW-1, track.GuardColumn)

	// the finish strip lies on the asphalt, clear of both kerbs
	fp := b.Layout.FinishPos
	_, hit := b.BorderMask.Overlap(b.FinishMask, fp)
	assert.False(t, hit, "finish overlaps the border")
}

func TestBuiltinStartsAreClear(t *testing.T) {
	b := Builtin()
	track, err := b.RaceTrack()
	require.NoError(t, err)

	for name, start := range map[string]race.Vec{
		"player":   b.Layout.PlayerStart,
		"computer": b.Layout.ComputerStart,
	} {
		car, err := race.NewCar(race.CarSpec{
			MaxVel: 6, RotationVel: 6, Acceleration: 0.2,
			Start: start, Footprint: b.PlayerMask,
		})
		require.NoError(t, err)
		_, hit := track.HitsBorder(car)
		assert.False(t, hit, "%s start touches the border", name)
		_, hit = track.HitsFinish(car)
		assert.False(t, hit, "%s start touches the finish", name)
	}
}

func TestBuiltinWaypointsOnAsphalt(t *testing.T) {
	for i, p := range BuiltinLayout().Path {
		cx := float64(p.X) + carW/2
		cy := float64(p.Y) + carH/2
		assert.True(t, onAsphalt(cx, cy), "waypoint %d %v", i, p)
	}
}

// The computer must finish its lap at the speed of every level.
func TestBuiltinPathCompletesAtEveryLevel(t *testing.T) {
	b := Builtin()
	track, err := b.RaceTrack()
	require.NoError(t, err)

	for level := 1; level <= race.DefaultLevels; level++ {
		cc, err := race.NewComputerCar(race.CarSpec{
			MaxVel: 6, RotationVel: 6, Acceleration: 0.2,
			Start: b.Layout.ComputerStart, Footprint: b.ComputerMask,
		}, b.Layout.Path, race.DefaultLevelSpeedStep)
		require.NoError(t, err)
		cc.NextLevel(level)

		crossed := false
		for tick := 0; tick < 1000 && !crossed; tick++ {
			cc.Move()
			_, crossed = track.HitsFinish(&cc.Car)
		}
		require.True(t, crossed, "level %d: computer never reached the finish", level)
		assert.GreaterOrEqual(t, cc.CurrentPoint(), len(b.Layout.Path)-1,
			"level %d: computer cut the lap short", level)
	}
}

func builtinWorld(t *testing.T) *race.World {
	t.Helper()
	b := Builtin()
	track, err := b.RaceTrack()
	require.NoError(t, err)
	car := race.CarSettings{MaxVel: 6, RotationVel: 6, Acceleration: 0.2}
	player, computer := car, car
	player.Start = b.Layout.PlayerStart
	computer.Start = b.Layout.ComputerStart
	w, err := race.NewWorld(race.Settings{
		Levels:         race.DefaultLevels,
		Player:         player,
		Computer:       computer,
		Path:           b.Layout.Path,
		LevelSpeedStep: race.DefaultLevelSpeedStep,
		LostPause:      time.Second,
		WonPause:       time.Second,
	}, track, b.Footprints(), race.WithClock(race.NewTickClock(time.Unix(0, 0), 10*time.Millisecond)))
	require.NoError(t, err)
	return w
}

func TestBuiltinIdlePlayerLoses(t *testing.T) {
	w := builtinWorld(t)
	require.Equal(t, race.OutcomeStarted, w.Tick(race.Input{AnyKey: true}))

	lost := false
	for tick := 0; tick < 2000 && !lost; tick++ {
		out := w.Tick(race.Input{})
		require.False(t, out.Has(race.OutcomeBorderBounce), "idle player bounced")
		lost = out.Has(race.OutcomeLost)
	}
	require.True(t, lost)
	assert.Equal(t, race.PhaseLost, w.Phase())
}

func TestBuiltinReversingHitsFinishGuard(t *testing.T) {
	w := builtinWorld(t)
	w.Tick(race.Input{AnyKey: true})

	back := race.Input{Controls: race.Controls{Backward: true}}
	bounced := false
	for tick := 0; tick < 100 && !bounced; tick++ {
		out := w.Tick(back)
		require.False(t, out.Has(race.OutcomeLevelUp), "reversing over the line counted as a lap")
		bounced = out.Has(race.OutcomeFinishBounce)
	}
	require.True(t, bounced)
	assert.Equal(t, 1, w.Info().Level)
	assert.Positive(t, w.Player().Vel)
}

func encode(t *testing.T, img image.Image, asJPEG bool) []byte {
	t.Helper()
	var buf bytes.Buffer
	if asJPEG {
		require.NoError(t, jpeg.Encode(&buf, img, nil))
	} else {
		require.NoError(t, png.Encode(&buf, img))
	}
	return buf.Bytes()
}

func filled(w, h int, c color.NRGBA) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func testFS(t *testing.T) fstest.MapFS {
	t.Helper()
	opaque := color.NRGBA{R: 200, G: 10, B: 10, A: 255}
	border := image.NewNRGBA(image.Rect(0, 0, 40, 30))
	for x := 0; x < 40; x++ {
		border.SetNRGBA(x, 0, opaque)
	}
	return fstest.MapFS{
		FileGrass:       {Data: encode(t, filled(40, 30, color.NRGBA{G: 150, A: 255}), true)},
		FileTrack:       {Data: encode(t, filled(40, 30, color.NRGBA{R: 90, G: 90, B: 90, A: 255}), false)},
		FileTrackBorder: {Data: encode(t, border, false)},
		FileFinish:      {Data: encode(t, filled(8, 20, opaque), false)},
		FilePlayerCar:   {Data: encode(t, filled(20, 40, opaque), false)},
		FileComputerCar: {Data: encode(t, filled(20, 40, opaque), false)},
	}
}

func TestLoadFS(t *testing.T) {
	b, err := LoadFS(testFS(t), 0.4, race.DefaultAlphaThreshold)
	require.NoError(t, err)

	w, h := b.Size()
	assert.Equal(t, 40, w)
	assert.Equal(t, 30, h)
	assert.Equal(t, image.Pt(8, 16), b.PlayerCar.Bounds().Size())
	assert.Equal(t, 8*16, b.PlayerMask.Count())
	assert.Equal(t, 40, b.BorderMask.Count())
	assert.Equal(t, 8*20, b.FinishMask.Count())
	if diff := cmp.Diff(FilesLayout(), b.Layout); diff != "" {
		t.Errorf("layout mismatch (-want +got):\n%s", diff)
	}

	track, err := b.RaceTrack()
	require.NoError(t, err)
	assert.Equal(t, 7, track.GuardColumn)
}

func TestLoadFSErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		scale  float64
	}{
		{"missing finish", func(m fstest.MapFS) { delete(m, FileFinish) }, 0.4},
		{"undecodable car", func(m fstest.MapFS) { m[FilePlayerCar] = &fstest.MapFile{Data: []byte("not a png")} }, 0.4},
		{"border size mismatch", func(m fstest.MapFS) {
			m[FileTrackBorder] = &fstest.MapFile{Data: encode(t, filled(41, 30, color.NRGBA{A: 255}), false)}
		}, 0.4},
		{"transparent border", func(m fstest.MapFS) {
			m[FileTrackBorder] = &fstest.MapFile{Data: encode(t, filled(40, 30, color.NRGBA{A: 100}), false)}
		}, 0.4},
		{"zero scale", func(fstest.MapFS) {}, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fsys := testFS(t)
			tt.mutate(fsys)
			b, err := LoadFS(fsys, tt.scale, race.DefaultAlphaThreshold)
			assert.ErrorIs(t, err, ErrAsset)
			assert.Nil(t, b)
		})
	}
}

func TestLoadFilesMissingDir(t *testing.T) {
	_, err := LoadFiles("/does/not/exist", 0.4, race.DefaultAlphaThreshold)
	assert.ErrorIs(t, err, ErrAsset)
}

func TestScaleRounds(t *testing.T) {
	got := Scale(filled(45, 83, color.NRGBA{R: 1, A: 255}), 0.4)
	assert.Equal(t, image.Pt(18, 33), got.Bounds().Size())
	assert.Equal(t, color.NRGBA{R: 1, A: 255}, got.NRGBAAt(17, 32))
}

func TestAverageSkipsTransparent(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 3, 1))
	img.SetNRGBA(0, 0, color.NRGBA{R: 100, G: 20, A: 255})
	img.SetNRGBA(1, 0, color.NRGBA{R: 200, G: 40, A: 255})
	img.SetNRGBA(2, 0, color.NRGBA{B: 255, A: 10})

	assert.Equal(t, color.NRGBA{R: 150, G: 30, A: 255}, Average(img, img.Bounds()))
	assert.Equal(t, color.NRGBA{}, Average(img, image.Rect(2, 0, 3, 1)))
	assert.Equal(t, color.NRGBA{}, Average(img, image.Rect(10, 10, 20, 20)))
}

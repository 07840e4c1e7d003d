package race

import (
	"image"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type worldFixture struct {
	w      *World
	clock  *TickClock
	events []EventType
	logs   *observer.ObservedLogs
}

func testTrack(t *testing.T, guard int) *Track {
	t.Helper()
	border := NewMask(400, 400)
	for y := 50; y < 60; y++ {
		for x := 300; x < 310; x++ {
			border.Set(x, y)
		}
	}
	track, err := NewTrack(border, solidMask(32, 10), image.Pt(200, 200), guard)
	require.NoError(t, err)
	return track
}

func testSettings(levels int) Settings {
	return Settings{
		Levels: levels,
		Player: CarSettings{
			MaxVel: 6, RotationVel: 6, Acceleration: 0.2,
			Start: Vec{X: 100, Y: 100},
		},
		Computer: CarSettings{
			MaxVel: 2, RotationVel: 6, Acceleration: 0.2,
			Start: Vec{X: 350, Y: 350},
		},
		Path:           []image.Point{{380, 380}},
		LevelSpeedStep: DefaultLevelSpeedStep,
		LostPause:      5 * time.Second,
		WonPause:       5 * time.Second,
	}
}

func newWorldFixture(t *testing.T, levels int) *worldFixture {
	t.Helper()
	f := &worldFixture{clock: NewTickClock(time.Unix(0, 0), time.Second/100)}
	core, logs := observer.New(zapcore.DebugLevel)
	f.logs = logs

	bus := NewEventBus()
	bus.SubscribeAll(func(e Event) { f.events = append(f.events, e.Type) })

	w, err := NewWorld(testSettings(levels), testTrack(t, 31),
		Footprints{Player: solidMask(4, 4), Computer: solidMask(4, 4)},
		WithClock(f.clock), WithLogger(zap.New(core)), WithEventBus(bus))
	require.NoError(t, err)
	f.w = w
	return f
}

func (f *worldFixture) start(t *testing.T) {
	t.Helper()
	require.Equal(t, OutcomeStarted, f.w.Tick(Input{AnyKey: true}))
	require.Equal(t, PhaseRunning, f.w.Phase())
}

func TestNewWorldRejectsBadConfig(t *testing.T) {
	fp := Footprints{Player: solidMask(4, 4), Computer: solidMask(4, 4)}
	track := testTrack(t, 31)

	tests := []struct {
		name   string
		mutate func(*Settings)
		track  *Track
		fp     Footprints
	}{
		{name: "no levels", mutate: func(s *Settings) { s.Levels = 0 }, track: track, fp: fp},
		{name: "empty path", mutate: func(s *Settings) { s.Path = nil }, track: track, fp: fp},
		{name: "negative pause", mutate: func(s *Settings) { s.LostPause = -time.Second }, track: track, fp: fp},
		{name: "bad player", mutate: func(s *Settings) { s.Player.MaxVel = 0 }, track: track, fp: fp},
		{name: "nil track", mutate: func(*Settings) {}, fp: fp},
		{name: "missing sprite", mutate: func(*Settings) {}, track: track, fp: Footprints{Player: solidMask(4, 4)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testSettings(3)
			tt.mutate(&s)
			_, err := NewWorld(s, tt.track, tt.fp)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestNewTrack(t *testing.T) {
	border := solidMask(10, 10)

	_, err := NewTrack(NewMask(10, 10), solidMask(4, 4), image.Point{}, -1)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewTrack(border, NewMask(4, 4), image.Point{}, -1)
	assert.ErrorIs(t, err, ErrConfig)
	_, err = NewTrack(border, solidMask(4, 4), image.Point{}, 4)
	assert.ErrorIs(t, err, ErrConfig)

	// trailing transparent columns do not count toward the derived guard
	finish := NewMask(40, 10)
	for y := 0; y < 10; y++ {
		for x := 0; x < 32; x++ {
			finish.Set(x, y)
		}
	}
	track, err := NewTrack(border, finish, image.Pt(5, 5), -1)
	require.NoError(t, err)
	assert.Equal(t, 31, track.GuardColumn)
	w, h := track.Size()
	assert.Equal(t, [2]int{10, 10}, [2]int{w, h})
}

func TestAwaitingStartFreezesSimulation(t *testing.T) {
	f := newWorldFixture(t, 3)
	player, computer := f.w.Player().Pose(), f.w.Computer().Pose()

	for i := 0; i < 10; i++ {
		out := f.w.Tick(Input{Controls: Controls{Forward: true, Left: true}})
		assert.Equal(t, OutcomeNone, out)
	}
	assert.Equal(t, player, f.w.Player().Pose())
	assert.Equal(t, computer, f.w.Computer().Pose())
	assert.Zero(t, f.w.Snapshot().LevelTime)

	f.start(t)
	assert.True(t, f.w.Info().Started)
	f.clock.Advance(2 * time.Second)
	assert.Equal(t, 2*time.Second, f.w.Snapshot().LevelTime)
	assert.Equal(t, []EventType{EventLevelStarted}, f.events)
}

func TestRunningMovesBothCars(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)

	for i := 0; i < 5; i++ {
		assert.Equal(t, OutcomeNone, f.w.Tick(Input{Controls: Controls{Forward: true}}))
	}
	assert.InDelta(t, 1.0, f.w.Player().Vel, 1e-9)
	assert.Greater(t, f.w.Player().X, 100.0, "heading 270 drives right")
	assert.NotEqual(t, Vec{X: 350, Y: 350}, Vec{X: f.w.Computer().X, Y: f.w.Computer().Y})
}

func TestBorderBounce(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)

	p := f.w.Player()
	p.X, p.Y, p.Vel = 296, 50, 2

	out := f.w.Tick(Input{})
	assert.True(t, out.Has(OutcomeBorderBounce))
	assert.InDelta(t, -1.9, p.Vel, 1e-9)
	assert.InDelta(t, 296.0, p.X, 1e-9)
	assert.Equal(t, PhaseRunning, f.w.Phase())
	assert.Equal(t, 1, f.w.Info().Level)
	assert.Contains(t, f.events, EventBorderBounce)
}

func TestFinishGuardColumnBounces(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)

	// the 4x4 footprint first overlaps at column 31
	p := f.w.Player()
	p.X, p.Y = 231, 203

	out := f.w.Tick(Input{})
	assert.True(t, out.Has(OutcomeFinishBounce))
	assert.False(t, out.Has(OutcomeLevelUp))
	assert.Equal(t, 1, f.w.Info().Level)
	assert.Equal(t, PhaseRunning, f.w.Phase())
}

func TestFinishStraddlingGuardColumnAdvances(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)

	// columns 28..31 are covered, the first overlap is at column 28
	p := f.w.Player()
	p.X, p.Y = 228, 203

	out := f.w.Tick(Input{})
	assert.True(t, out.Has(OutcomeLevelUp))
	assert.False(t, out.Has(OutcomeFinishBounce))
	assert.Equal(t, 2, f.w.Info().Level)
	assert.Equal(t, PhaseAwaitingStart, f.w.Phase())
}

func TestWrongWayUsesOverlapPoint(t *testing.T) {
	track, err := NewTrack(solidMask(10, 10), solidMask(32, 10), image.Point{}, -1)
	require.NoError(t, err)
	require.Equal(t, 31, track.GuardColumn)

	c, err := NewCar(CarSpec{MaxVel: 6, RotationVel: 6, Acceleration: 0.2, Footprint: solidMask(20, 20)})
	require.NoError(t, err)

	tests := []struct {
		name  string
		x, y  float64
		poi   image.Point
		wrong bool
	}{
		{"covers the guard, first overlap before it", 20, 5, image.Pt(20, 5), false},
		{"first overlap on the guard", 31, 0, image.Pt(31, 0), true},
		{"left part of the line", 0, 0, image.Pt(0, 0), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c.X, c.Y = tt.x, tt.y
			poi, hit := track.HitsFinish(c)
			require.True(t, hit)
			assert.Equal(t, tt.poi, poi)
			assert.Equal(t, tt.wrong, track.WrongWay(poi))
		})
	}
}

func TestFinishCrossingAdvancesLevel(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)
	for i := 0; i < 30; i++ {
		f.w.Tick(Input{})
	}
	require.Greater(t, f.w.Computer().X, 350.0)

	p := f.w.Player()
	p.X, p.Y, p.Heading = 210, 203, 123

	out := f.w.Tick(Input{})
	require.True(t, out.Has(OutcomeLevelUp))
	assert.False(t, out.Has(OutcomeFinishBounce))

	assert.Equal(t, 2, f.w.Info().Level)
	assert.False(t, f.w.Info().Started)
	assert.Equal(t, PhaseAwaitingStart, f.w.Phase())

	assert.Equal(t, Pose{X: 100, Y: 100, Heading: StartHeading}, p.Pose())
	assert.Zero(t, p.Vel)

	cc := f.w.Computer()
	assert.Equal(t, Pose{X: 350, Y: 350, Heading: StartHeading}, cc.Pose())
	assert.Zero(t, cc.CurrentPoint())
	assert.InDelta(t, 2.2, cc.Vel, 1e-9)
	assert.Equal(t, 1, f.logs.FilterMessage("level complete").Len())
}

func TestComputerFinishLosesRace(t *testing.T) {
	f := newWorldFixture(t, 3)
	f.start(t)

	// level 2 first, to see the reset take the session back to level 1
	p := f.w.Player()
	p.X, p.Y = 210, 203
	require.True(t, f.w.Tick(Input{}).Has(OutcomeLevelUp))
	f.start(t)

	cc := f.w.Computer()
	cc.X, cc.Y, cc.Vel = 205, 202, 0

	out := f.w.Tick(Input{Controls: Controls{Forward: true}})
	require.True(t, out.Has(OutcomeLost))
	assert.Equal(t, PhaseLost, f.w.Phase())
	assert.Equal(t, 5*time.Second, f.w.Snapshot().ResumeIn)

	frozen := f.w.Player().Pose()
	for i := 0; i < 499; i++ {
		f.clock.Tick()
		assert.Equal(t, OutcomeNone, f.w.Tick(Input{AnyKey: true, Controls: Controls{Forward: true}}))
	}
	assert.Equal(t, frozen, f.w.Player().Pose())
	assert.Equal(t, 10*time.Millisecond, f.w.Snapshot().ResumeIn)

	f.clock.Tick()
	assert.Equal(t, OutcomeReset, f.w.Tick(Input{}))
	assert.Equal(t, PhaseAwaitingStart, f.w.Phase())
	assert.Equal(t, 1, f.w.Info().Level)
	assert.Equal(t, Pose{X: 100, Y: 100, Heading: StartHeading}, f.w.Player().Pose())
	assert.Equal(t, Pose{X: 350, Y: 350, Heading: StartHeading}, cc.Pose())
	assert.Equal(t, 2.0, cc.Vel, "computer drives again after a loss")
	assert.Zero(t, f.w.Snapshot().ResumeIn)

	assert.Equal(t, []EventType{
		EventLevelStarted, EventLevelComplete, EventLevelStarted,
		EventRaceLost, EventSessionReset,
	}, f.events)
	assert.Equal(t, 1, f.logs.FilterMessage("race lost").Len())
}

func TestLastLevelWinsRace(t *testing.T) {
	f := newWorldFixture(t, 1)
	f.start(t)

	p := f.w.Player()
	p.X, p.Y = 205, 203
	out := f.w.Tick(Input{})
	assert.True(t, out.Has(OutcomeLevelUp))
	assert.True(t, out.Has(OutcomeWon))
	assert.Equal(t, PhaseWon, f.w.Phase())
	assert.True(t, f.w.Info().GameFinished())

	assert.Equal(t, OutcomeNone, f.w.Tick(Input{AnyKey: true}))
	f.clock.Advance(5 * time.Second)
	assert.Equal(t, OutcomeReset, f.w.Tick(Input{}))
	assert.Equal(t, PhaseAwaitingStart, f.w.Phase())
	assert.Equal(t, 1, f.w.Info().Level)
	assert.False(t, f.w.Info().GameFinished())

	assert.Equal(t, []EventType{
		EventLevelStarted, EventLevelComplete, EventRaceWon, EventSessionReset,
	}, f.events)
}

func TestSnapshot(t *testing.T) {
	f := newWorldFixture(t, 3)
	got := f.w.Snapshot()
	want := Snapshot{
		Phase:    PhaseAwaitingStart,
		Level:    1,
		Levels:   3,
		Player:   Pose{X: 100, Y: 100, Heading: StartHeading},
		Computer: Pose{X: 350, Y: 350, Heading: StartHeading},
		Path:     []image.Point{{380, 380}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Snapshot() mismatch (-want +got):\n%s", diff)
	}
}

func TestOutcomeHas(t *testing.T) {
	o := OutcomeBorderBounce | OutcomeLevelUp
	assert.True(t, o.Has(OutcomeBorderBounce))
	assert.True(t, o.Has(OutcomeLevelUp))
	assert.False(t, o.Has(OutcomeWon))
	assert.False(t, OutcomeNone.Has(OutcomeLost))
	assert.Equal(t, "awaiting-start", PhaseAwaitingStart.String())
}

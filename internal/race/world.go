package race

import (
	"fmt"
	"image"
	"time"

	"go.uber.org/zap"
)

// CarSettings are the tunables of one car.
type CarSettings struct {
	MaxVel       float64
	RotationVel  float64
	Acceleration float64
	Start        Vec
}

// Settings is the race configuration the world is built from.
type Settings struct {
	Levels         int
	Player         CarSettings
	Computer       CarSettings
	Path           []image.Point
	LevelSpeedStep float64
	LostPause      time.Duration
	WonPause       time.Duration
}

// Footprints are the unrotated sprite masks of the two cars.
type Footprints struct {
	Player   *Mask
	Computer *Mask
}

// Input is what the frontend polled for one tick.
type Input struct {
	Controls
	AnyKey bool // a key went down since the last tick
}

type Option func(*World)

func WithClock(c Clock) Option {
	return func(w *World) { w.clock = c }
}

func WithLogger(l *zap.Logger) Option {
	return func(w *World) { w.log = l }
}

func WithEventBus(b *EventBus) Option {
	return func(w *World) { w.bus = b }
}

// World owns every piece of mutable race state. It is driven by a single
// goroutine; renderers read it through Snapshot.
type World struct {
	settings Settings
	track    *Track
	player   *PlayerCar
	computer *ComputerCar
	info     *GameInfo

	phase    Phase
	resumeAt time.Time

	clock Clock
	log   *zap.Logger
	bus   *EventBus
}

func NewWorld(s Settings, track *Track, fp Footprints, opts ...Option) (*World, error) {
	if track == nil {
		return nil, fmt.Errorf("%w: track is nil", ErrConfig)
	}
	if s.Levels < 1 {
		return nil, fmt.Errorf("%w: levels %d must be at least 1", ErrConfig, s.Levels)
	}
	if s.LostPause < 0 || s.WonPause < 0 {
		return nil, fmt.Errorf("%w: pause durations must not be negative", ErrConfig)
	}
	player, err := NewPlayerCar(CarSpec{
		MaxVel:       s.Player.MaxVel,
		RotationVel:  s.Player.RotationVel,
		Acceleration: s.Player.Acceleration,
		Start:        s.Player.Start,
		Footprint:    fp.Player,
	})
	if err != nil {
		return nil, err
	}
	computer, err := NewComputerCar(CarSpec{
		MaxVel:       s.Computer.MaxVel,
		RotationVel:  s.Computer.RotationVel,
		Acceleration: s.Computer.Acceleration,
		Start:        s.Computer.Start,
		Footprint:    fp.Computer,
	}, s.Path, s.LevelSpeedStep)
	if err != nil {
		return nil, err
	}

	w := &World{
		settings: s,
		track:    track,
		player:   player,
		computer: computer,
		phase:    PhaseAwaitingStart,
		clock:    SystemClock{},
		log:      zap.NewNop(),
		bus:      NewEventBus(),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.info = NewGameInfo(s.Levels, w.clock)
	return w, nil
}

func (w *World) Player() *PlayerCar     { return w.player }
func (w *World) Computer() *ComputerCar { return w.computer }
func (w *World) Info() *GameInfo        { return w.info }
func (w *World) Track() *Track          { return w.track }
func (w *World) Phase() Phase           { return w.phase }
func (w *World) Events() *EventBus      { return w.bus }

func (w *World) emit(t EventType) {
	w.bus.Emit(Event{Type: t, X: w.player.X, Y: w.player.Y, Level: w.info.Level})
}

// Tick advances the session by one step.
func (w *World) Tick(in Input) Outcome {
	switch w.phase {
	case PhaseAwaitingStart:
		if !in.AnyKey {
			return OutcomeNone
		}
		w.info.StartLevel()
		w.phase = PhaseRunning
		w.log.Info("level started", zap.Int("level", w.info.Level))
		w.emit(EventLevelStarted)
		return OutcomeStarted
	case PhaseLost, PhaseWon:
		if w.clock.Now().Before(w.resumeAt) {
			return OutcomeNone
		}
		w.resetSession()
		return OutcomeReset
	}
	return w.step(in.Controls)
}

func (w *World) step(c Controls) Outcome {
	var out Outcome

	w.player.Drive(c)
	w.computer.Move()

	if _, hit := w.track.HitsBorder(&w.player.Car); hit {
		w.player.Bounce()
		out |= OutcomeBorderBounce
		w.emit(EventBorderBounce)
	}

	if _, hit := w.track.HitsFinish(&w.computer.Car); hit {
		w.log.Info("race lost",
			zap.Int("level", w.info.Level),
			zap.Duration("levelTime", w.info.LevelTime()))
		w.phase = PhaseLost
		w.resumeAt = w.clock.Now().Add(w.settings.LostPause)
		w.emit(EventRaceLost)
		return out | OutcomeLost
	}

	if poi, hit := w.track.HitsFinish(&w.player.Car); hit {
		if w.track.WrongWay(poi) {
			w.log.Debug("finish line crossed the wrong way",
				zap.Int("x", poi.X), zap.Int("y", poi.Y))
			w.player.Bounce()
			out |= OutcomeFinishBounce
			w.emit(EventFinishBounce)
		} else {
			elapsed := w.info.LevelTime()
			w.info.NextLevel()
			w.player.Reset()
			w.computer.NextLevel(w.info.Level)
			w.phase = PhaseAwaitingStart
			w.log.Info("level complete",
				zap.Int("level", w.info.Level-1),
				zap.Duration("levelTime", elapsed),
				zap.Float64("computerVel", w.computer.Vel))
			out |= OutcomeLevelUp
			w.emit(EventLevelComplete)
		}
	}

	if w.info.GameFinished() {
		w.log.Info("race won", zap.Int("levels", w.info.Levels))
		w.phase = PhaseWon
		w.resumeAt = w.clock.Now().Add(w.settings.WonPause)
		out |= OutcomeWon
		w.emit(EventRaceWon)
	}
	return out
}

// resetSession puts the session back to level 1 waiting for a start key.
func (w *World) resetSession() {
	w.info.Reset()
	w.player.Reset()
	w.computer.NextLevel(w.info.Level)
	w.phase = PhaseAwaitingStart
	w.resumeAt = time.Time{}
	w.log.Info("session reset")
	w.emit(EventSessionReset)
}

// Snapshot is a read-only view of the world for renderers.
type Snapshot struct {
	Phase        Phase
	Level        int
	Levels       int
	LevelTime    time.Duration
	ResumeIn     time.Duration
	PlayerVel    float64
	Player       Pose
	Computer     Pose
	Path         []image.Point
	CurrentPoint int
}

func (w *World) Snapshot() Snapshot {
	s := Snapshot{
		Phase:        w.phase,
		Level:        w.info.Level,
		Levels:       w.info.Levels,
		LevelTime:    w.info.LevelTime(),
		PlayerVel:    w.player.Vel,
		Player:       w.player.Pose(),
		Computer:     w.computer.Pose(),
		Path:         w.computer.Path(),
		CurrentPoint: w.computer.CurrentPoint(),
	}
	if w.phase == PhaseLost || w.phase == PhaseWon {
		if d := w.resumeAt.Sub(w.clock.Now()); d > 0 {
			s.ResumeIn = d
		}
	}
	return s
}

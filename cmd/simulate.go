package cmd

import (
	"fmt"
	"image"
	"io"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"crazycars/internal/assets"
	"crazycars/internal/config"
	applog "crazycars/internal/log"
	"crazycars/internal/race"
)

func newSimulateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Check the waypoint path headless",
		Long: `Drive the computer car alone around the track once per level and report
whether it reaches the finish line after the last waypoint, then run a
session with an idle player until the computer wins it. Exits non-zero when
a lap is cut short or never finishes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return simulate(cmd.OutOrStdout(), cfg, viper.GetInt("ticks"))
		},
	}
	cmd.Flags().Int("ticks", 5000, "tick limit per lap and for the idle session")
	return cmd
}

type lapResult struct {
	Level    int
	Speed    float64
	Ticks    int
	Reached  int
	Crossed  bool
	Complete bool
}

// lapComputer drives a fresh computer car for one level until it touches
// the finish line or maxTicks pass.
func lapComputer(track *race.Track, spec race.CarSpec, path []image.Point, step float64, level, maxTicks int) (lapResult, error) {
	cc, err := race.NewComputerCar(spec, path, step)
	if err != nil {
		return lapResult{}, err
	}
	cc.NextLevel(level)
	res := lapResult{Level: level, Speed: cc.Vel}
	for res.Ticks < maxTicks && !res.Crossed {
		cc.Move()
		res.Ticks++
		_, res.Crossed = track.HitsFinish(&cc.Car)
	}
	res.Reached = cc.CurrentPoint()
	res.Complete = res.Crossed && res.Reached >= len(path)-1
	return res, nil
}

func simulate(out io.Writer, c *config.Config, maxTicks int) error {
	log := applog.Named("simulate")
	world, b, clock, err := newSimulatedWorld(c)
	if err != nil {
		return err
	}
	track := world.Track()
	spec := race.CarSpec{
		MaxVel:       c.Computer.MaxVel,
		RotationVel:  c.Computer.RotationVel,
		Acceleration: c.Computer.Acceleration,
		Start:        b.Layout.ComputerStart,
		Footprint:    b.ComputerMask,
	}

	var failed []int
	for level := 1; level <= c.Levels; level++ {
		res, err := lapComputer(track, spec, b.Layout.Path, c.LevelSpeedStep, level, maxTicks)
		if err != nil {
			return err
		}
		status := "ok"
		switch {
		case !res.Crossed:
			status = "never finished"
		case !res.Complete:
			status = "cut short"
		}
		if status != "ok" {
			failed = append(failed, level)
		}
		log.Debug("lap simulated",
			zap.Int("level", level), zap.Float64("speed", res.Speed),
			zap.Int("ticks", res.Ticks), zap.Int("reached", res.Reached),
			zap.String("status", status))
		fmt.Fprintf(out, "level %2d  speed %4.1f  %5d ticks  waypoints %d/%d  %s\n",
			level, res.Speed, res.Ticks, res.Reached, len(b.Layout.Path), status)
	}

	ticks, phase := idleSession(world, clock, maxTicks)
	fmt.Fprintf(out, "idle session: %s after %d ticks\n", phase, ticks)

	if len(failed) > 0 {
		return fmt.Errorf("waypoint path fails at levels %v", failed)
	}
	return nil
}

// newSimulatedWorld builds the configured race on a tick clock that runs
// at the configured frame rate and logs every race event.
func newSimulatedWorld(c *config.Config) (*race.World, *assets.Bundle, *race.TickClock, error) {
	step := time.Second / time.Duration(c.FPS)
	clock := race.NewTickClock(time.Unix(0, 0), step)
	bus := race.NewEventBus()
	log := applog.Named("simulate")
	bus.SubscribeAll(func(e race.Event) {
		log.Info("event",
			zap.Stringer("type", e.Type),
			zap.Int("level", e.Level),
			zap.Float64("x", e.X), zap.Float64("y", e.Y),
			zap.Time("at", clock.Now()))
	})
	world, b, err := newWorld(c, race.WithClock(clock), race.WithEventBus(bus))
	return world, b, clock, err
}

// idleSession starts level 1 and ticks with no controls held until the
// race is decided or maxTicks pass.
func idleSession(world *race.World, clock *race.TickClock, maxTicks int) (int, race.Phase) {
	world.Tick(race.Input{AnyKey: true})
	ticks := 0
	for ticks < maxTicks && world.Phase() == race.PhaseRunning {
		clock.Tick()
		world.Tick(race.Input{})
		ticks++
	}
	return ticks, world.Phase()
}

package config

import (
	"errors"
	"fmt"
	"image"
	"time"

	"github.com/samber/lo"
	"github.com/spf13/viper"

	"crazycars/internal/assets"
	applog "crazycars/internal/log"
	"crazycars/internal/race"
)

// ErrInvalid marks a configuration value the game cannot run with.
var ErrInvalid = errors.New("config: invalid value")

const (
	SourceBuiltin = "builtin"
	SourceFiles   = "files"
)

const (
	KeyLevels         = "levels"
	KeyFPS            = "fps"
	KeySource         = "assets.source"
	KeyAssetsDir      = "assets.dir"
	KeyCarScale       = "assets.car-scale"
	KeyMaskThreshold  = "assets.mask-threshold"
	KeyPlayerMaxVel   = "player.max-vel"
	KeyPlayerRotVel   = "player.rotation-vel"
	KeyPlayerAccel    = "player.acceleration"
	KeyPlayerStart    = "player.start"
	KeyComputerMaxVel = "computer.max-vel"
	KeyComputerRotVel = "computer.rotation-vel"
	KeyComputerAccel  = "computer.acceleration"
	KeyComputerStart  = "computer.start"
	KeyLevelSpeedStep = "computer.level-speed-step"
	KeyFinishPos      = "track.finish-pos"
	KeyFinishGuard    = "track.finish-guard"
	KeyPath           = "track.path"
	KeyPathFile       = "track.path-file"
	KeyLostPause      = "pause.lost"
	KeyWonPause       = "pause.won"
	KeyLogLevel       = "log.level"
	KeyLogFormat      = "log.format"
	KeyLogFilter      = "log.filter"
)

const (
	DefaultFPS   = 60
	DefaultPause = 5 * time.Second
)

// SetDefaults registers the default of every scalar key. Layout keys
// (starts, finish, path) have no default; unset they keep the layout that
// ships with the selected track.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLevels, race.DefaultLevels)
	v.SetDefault(KeyFPS, DefaultFPS)
	v.SetDefault(KeySource, SourceBuiltin)
	v.SetDefault(KeyAssetsDir, "imgs")
	v.SetDefault(KeyCarScale, assets.DefaultCarScale)
	v.SetDefault(KeyMaskThreshold, race.DefaultAlphaThreshold)
	for _, k := range []string{KeyPlayerMaxVel, KeyComputerMaxVel} {
		v.SetDefault(k, 6.0)
	}
	for _, k := range []string{KeyPlayerRotVel, KeyComputerRotVel} {
		v.SetDefault(k, 6.0)
	}
	for _, k := range []string{KeyPlayerAccel, KeyComputerAccel} {
		v.SetDefault(k, 0.2)
	}
	v.SetDefault(KeyLevelSpeedStep, race.DefaultLevelSpeedStep)
	v.SetDefault(KeyLostPause, DefaultPause)
	v.SetDefault(KeyWonPause, DefaultPause)
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")
}

type CarConfig struct {
	MaxVel       float64
	RotationVel  float64
	Acceleration float64
}

// Config is the resolved configuration of one game process.
type Config struct {
	Levels        int
	FPS           int
	Source        string
	AssetsDir     string
	CarScale      float64
	MaskThreshold uint8

	Player         CarConfig
	Computer       CarConfig
	LevelSpeedStep float64
	LostPause      time.Duration
	WonPause       time.Duration

	Log applog.Options

	overrides layoutOverrides
}

type layoutOverrides struct {
	playerStart   *race.Vec
	computerStart *race.Vec
	finishPos     *image.Point
	finishGuard   *int
	path          []image.Point
}

// Load reads and validates the configuration held by v.
func Load(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		Levels:    v.GetInt(KeyLevels),
		FPS:       v.GetInt(KeyFPS),
		Source:    v.GetString(KeySource),
		AssetsDir: v.GetString(KeyAssetsDir),
		CarScale:  v.GetFloat64(KeyCarScale),
		Player: CarConfig{
			MaxVel:       v.GetFloat64(KeyPlayerMaxVel),
			RotationVel:  v.GetFloat64(KeyPlayerRotVel),
			Acceleration: v.GetFloat64(KeyPlayerAccel),
		},
		Computer: CarConfig{
			MaxVel:       v.GetFloat64(KeyComputerMaxVel),
			RotationVel:  v.GetFloat64(KeyComputerRotVel),
			Acceleration: v.GetFloat64(KeyComputerAccel),
		},
		LevelSpeedStep: v.GetFloat64(KeyLevelSpeedStep),
		LostPause:      v.GetDuration(KeyLostPause),
		WonPause:       v.GetDuration(KeyWonPause),
		Log: applog.Options{
			Level:  v.GetString(KeyLogLevel),
			Format: v.GetString(KeyLogFormat),
			Filter: v.GetString(KeyLogFilter),
		},
	}

	threshold := v.GetInt(KeyMaskThreshold)
	if threshold < 0 || threshold > 255 {
		return nil, fmt.Errorf("%w: %s %d outside 0..255", ErrInvalid, KeyMaskThreshold, threshold)
	}
	cfg.MaskThreshold = uint8(threshold)

	if err := cfg.loadOverrides(v); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch {
	case c.Levels < 1:
		return fmt.Errorf("%w: %s %d must be at least 1", ErrInvalid, KeyLevels, c.Levels)
	case c.FPS < 1 || c.FPS > 1000:
		return fmt.Errorf("%w: %s %d outside 1..1000", ErrInvalid, KeyFPS, c.FPS)
	case c.Source != SourceBuiltin && c.Source != SourceFiles:
		return fmt.Errorf("%w: %s %q, want %s or %s", ErrInvalid, KeySource, c.Source, SourceBuiltin, SourceFiles)
	case c.Source == SourceFiles && c.AssetsDir == "":
		return fmt.Errorf("%w: %s is required for %s", ErrInvalid, KeyAssetsDir, SourceFiles)
	case c.CarScale <= 0:
		return fmt.Errorf("%w: %s %v must be positive", ErrInvalid, KeyCarScale, c.CarScale)
	case c.LostPause < 0 || c.WonPause < 0:
		return fmt.Errorf("%w: pauses must not be negative", ErrInvalid)
	case c.LevelSpeedStep < 0:
		return fmt.Errorf("%w: %s %v must not be negative", ErrInvalid, KeyLevelSpeedStep, c.LevelSpeedStep)
	}
	for name, car := range map[string]CarConfig{"player": c.Player, "computer": c.Computer} {
		if car.MaxVel <= 0 || car.Acceleration <= 0 || car.RotationVel < 0 {
			return fmt.Errorf("%w: %s car tunables %+v", ErrInvalid, name, car)
		}
	}
	return nil
}

func (c *Config) loadOverrides(v *viper.Viper) error {
	var err error
	if c.overrides.playerStart, err = vecKey(v, KeyPlayerStart); err != nil {
		return err
	}
	if c.overrides.computerStart, err = vecKey(v, KeyComputerStart); err != nil {
		return err
	}
	if v.IsSet(KeyFinishPos) {
		p, err := pointKey(v, KeyFinishPos)
		if err != nil {
			return err
		}
		c.overrides.finishPos = &p
	}
	if v.IsSet(KeyFinishGuard) {
		g := v.GetInt(KeyFinishGuard)
		c.overrides.finishGuard = &g
	}

	switch {
	case v.IsSet(KeyPath) && v.IsSet(KeyPathFile):
		return fmt.Errorf("%w: set only one of %s and %s", ErrInvalid, KeyPath, KeyPathFile)
	case v.IsSet(KeyPath):
		var raw [][2]int
		if err := v.UnmarshalKey(KeyPath, &raw); err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalid, KeyPath, err)
		}
		c.overrides.path = toPoints(raw)
	case v.IsSet(KeyPathFile):
		path, err := LoadPath(v.GetString(KeyPathFile))
		if err != nil {
			return err
		}
		c.overrides.path = path
	}
	if c.overrides.path != nil && len(c.overrides.path) == 0 {
		return fmt.Errorf("%w: waypoint path is empty", ErrInvalid)
	}
	return nil
}

func vecKey(v *viper.Viper, key string) (*race.Vec, error) {
	if !v.IsSet(key) {
		return nil, nil
	}
	var raw [2]float64
	if err := v.UnmarshalKey(key, &raw); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return &race.Vec{X: raw[0], Y: raw[1]}, nil
}

func pointKey(v *viper.Viper, key string) (image.Point, error) {
	var raw [2]int
	if err := v.UnmarshalKey(key, &raw); err != nil {
		return image.Point{}, fmt.Errorf("%w: %s: %v", ErrInvalid, key, err)
	}
	return image.Pt(raw[0], raw[1]), nil
}

func toPoints(raw [][2]int) []image.Point {
	return lo.Map(raw, func(p [2]int, _ int) image.Point {
		return image.Pt(p[0], p[1])
	})
}

func fromPoints(path []image.Point) [][2]int {
	return lo.Map(path, func(p image.Point, _ int) [2]int {
		return [2]int{p.X, p.Y}
	})
}

// Layout applies the configured overrides on top of the layout that came
// with the track images.
func (c *Config) Layout(base assets.Layout) assets.Layout {
	l := base
	o := c.overrides
	if o.playerStart != nil {
		l.PlayerStart = *o.playerStart
	}
	if o.computerStart != nil {
		l.ComputerStart = *o.computerStart
	}
	if o.finishPos != nil {
		l.FinishPos = *o.finishPos
	}
	if o.finishGuard != nil {
		l.FinishGuard = *o.finishGuard
	}
	if o.path != nil {
		l.Path = o.path
	}
	return l
}

// Settings builds the race settings for a layout.
func (c *Config) Settings(l assets.Layout) race.Settings {
	return race.Settings{
		Levels: c.Levels,
		Player: race.CarSettings{
			MaxVel:       c.Player.MaxVel,
			RotationVel:  c.Player.RotationVel,
			Acceleration: c.Player.Acceleration,
			Start:        l.PlayerStart,
		},
		Computer: race.CarSettings{
			MaxVel:       c.Computer.MaxVel,
			RotationVel:  c.Computer.RotationVel,
			Acceleration: c.Computer.Acceleration,
			Start:        l.ComputerStart,
		},
		Path:           l.Path,
		LevelSpeedStep: c.LevelSpeedStep,
		LostPause:      c.LostPause,
		WonPause:       c.WonPause,
	}
}

// LoadBundle loads the images selected by Source and applies the layout
// overrides to the bundle.
func (c *Config) LoadBundle() (*assets.Bundle, error) {
	var b *assets.Bundle
	switch c.Source {
	case SourceFiles:
		var err error
		if b, err = assets.LoadFiles(c.AssetsDir, c.CarScale, c.MaskThreshold); err != nil {
			return nil, err
		}
	default:
		b = assets.Builtin()
	}
	b.Layout = c.Layout(b.Layout)
	return b, nil
}

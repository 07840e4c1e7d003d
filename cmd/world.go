package cmd

import (
	"go.uber.org/zap"

	"crazycars/internal/assets"
	"crazycars/internal/config"
	applog "crazycars/internal/log"
	"crazycars/internal/race"
)

// newWorld loads the configured track and builds a race on it.
func newWorld(c *config.Config, opts ...race.Option) (*race.World, *assets.Bundle, error) {
	b, err := c.LoadBundle()
	if err != nil {
		return nil, nil, err
	}
	w, h := b.Size()
	applog.Logger.Info("track loaded",
		zap.String("source", c.Source),
		zap.Int("width", w), zap.Int("height", h),
		zap.Int("waypoints", len(b.Layout.Path)))

	track, err := b.RaceTrack()
	if err != nil {
		return nil, nil, err
	}
	opts = append([]race.Option{race.WithLogger(applog.Named("race"))}, opts...)
	world, err := race.NewWorld(c.Settings(b.Layout), track, b.Footprints(), opts...)
	if err != nil {
		return nil, nil, err
	}
	return world, b, nil
}

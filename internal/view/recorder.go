package view

import (
	"image"
	"slices"

	"go.uber.org/zap"

	"crazycars/internal/config"
)

// Recorder collects waypoints clicked on the track and writes them as a
// path file the config can load back.
type Recorder struct {
	file   string
	points []image.Point
	log    *zap.Logger
}

func NewRecorder(file string, log *zap.Logger) *Recorder {
	if log == nil {
		log = zap.NewNop()
	}
	return &Recorder{file: file, log: log}
}

// Add appends p unless it repeats the last waypoint.
func (r *Recorder) Add(p image.Point) {
	if n := len(r.points); n > 0 && r.points[n-1] == p {
		return
	}
	r.points = append(r.points, p)
	r.log.Debug("waypoint recorded", zap.Int("x", p.X), zap.Int("y", p.Y), zap.Int("count", len(r.points)))
}

// Undo drops the last waypoint.
func (r *Recorder) Undo() {
	if len(r.points) > 0 {
		r.points = r.points[:len(r.points)-1]
	}
}

func (r *Recorder) Points() []image.Point { return slices.Clone(r.points) }

func (r *Recorder) Len() int { return len(r.points) }

// Save writes the recorded path. Nothing is written when no point was
// recorded.
func (r *Recorder) Save() error {
	if len(r.points) == 0 {
		r.log.Info("no waypoints recorded", zap.String("file", r.file))
		return nil
	}
	if err := config.SavePath(r.file, r.points); err != nil {
		return err
	}
	r.log.Info("waypoints saved", zap.String("file", r.file), zap.Int("count", len(r.points)))
	return nil
}

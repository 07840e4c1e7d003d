package race

import (
	"fmt"
	"image"
	"math"
	"slices"

	"crazycars/internal/mathx"
)

// DefaultLevelSpeedStep is how much faster the computer car gets per level.
const DefaultLevelSpeedStep = 0.2

// ComputerCar steers itself along a fixed waypoint list.
type ComputerCar struct {
	Car

	path      []image.Point
	current   int
	speedStep float64
}

// NewComputerCar builds the computer car at its start pose, already rolling
// at MaxVel. The path is copied.
func NewComputerCar(spec CarSpec, path []image.Point, speedStep float64) (*ComputerCar, error) {
	c, err := newCar(spec)
	if err != nil {
		return nil, fmt.Errorf("computer car: %w", err)
	}
	if len(path) == 0 {
		return nil, fmt.Errorf("computer car: %w: waypoint path is empty", ErrConfig)
	}
	cc := &ComputerCar{Car: c, path: slices.Clone(path), speedStep: speedStep}
	cc.Vel = cc.MaxVel
	return cc, nil
}

// Path returns the waypoint list. Callers must not modify it.
func (cc *ComputerCar) Path() []image.Point { return cc.path }

// CurrentPoint is the index of the waypoint being steered toward.
func (cc *ComputerCar) CurrentPoint() int { return cc.current }

// Finished reports whether every waypoint has been reached.
func (cc *ComputerCar) Finished() bool { return cc.current >= len(cc.path) }

// CalculateAngle turns the car toward the current waypoint by at most
// RotationVel degrees, never overshooting the desired heading.
func (cc *ComputerCar) CalculateAngle() {
	if cc.Finished() {
		return
	}
	target := cc.path[cc.current]
	dx := float64(target.X) - cc.X
	dy := float64(target.Y) - cc.Y

	desired := math.Pi / 2
	if dy != 0 {
		desired = math.Atan(dx / dy)
	}
	// atan only covers (-π/2, π/2); a target below the car is in the other half.
	if float64(target.Y) > cc.Y {
		desired += math.Pi
	}

	diff := mathx.AngleDiffDeg(cc.Heading, desired*180/math.Pi)
	step := math.Min(cc.RotationVel, math.Abs(diff))
	if diff > 0 {
		cc.Heading -= step
	} else {
		cc.Heading += step
	}
}

// Rect is the footprint's bounding box at the current position.
func (cc *ComputerCar) Rect() image.Rectangle {
	w, h := cc.Footprint.Size()
	x, y := int(cc.X), int(cc.Y)
	return image.Rect(x, y, x+w, y+h)
}

// UpdatePathPoint advances to the next waypoint once the car covers the
// current one.
func (cc *ComputerCar) UpdatePathPoint() {
	if cc.Finished() {
		return
	}
	if cc.path[cc.current].In(cc.Rect()) {
		cc.current++
	}
}

// Move steers, checks waypoint arrival and integrates. Once the path is
// exhausted the car stays where it is.
func (cc *ComputerCar) Move() {
	if cc.Finished() {
		return
	}
	cc.CalculateAngle()
	cc.UpdatePathPoint()
	cc.Car.Move()
}

// Reset returns to the start pose and the first waypoint, standing still.
func (cc *ComputerCar) Reset() {
	cc.Car.Reset()
	cc.current = 0
}

// NextLevel restarts the path with the speed for level.
func (cc *ComputerCar) NextLevel(level int) {
	cc.Reset()
	cc.Vel = ComputerSpeed(cc.MaxVel, cc.speedStep, level)
}

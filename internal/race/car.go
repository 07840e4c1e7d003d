package race

import (
	"errors"
	"fmt"
	"math"
)

// ErrConfig marks construction input the race cannot run with.
var ErrConfig = errors.New("race: invalid configuration")

// StartHeading is the heading every car gets on reset.
const StartHeading = 270.0

// Turn is a steering direction.
type Turn int

const (
	TurnLeft Turn = iota
	TurnRight
)

// Vec is a continuous world position.
type Vec struct {
	X, Y float64
}

// CarSpec holds the per-car constants fixed at construction.
type CarSpec struct {
	MaxVel       float64
	RotationVel  float64 // degrees per tick
	Acceleration float64 // velocity delta per tick
	Start        Vec
	Footprint    *Mask
}

// Car is the kinematic state shared by the player and the computer car.
// X, Y is the top-left corner of the sprite footprint. Heading is in
// degrees with 0 pointing up the screen; it is never wrapped, every reader
// goes through trig or an angle difference.
type Car struct {
	X, Y    float64
	Heading float64
	Vel     float64

	MaxVel       float64
	RotationVel  float64
	Acceleration float64
	Start        Vec
	Footprint    *Mask
}

func newCar(spec CarSpec) (Car, error) {
	if spec.Footprint == nil || spec.Footprint.Count() == 0 {
		return Car{}, fmt.Errorf("%w: car footprint is empty", ErrConfig)
	}
	if spec.MaxVel <= 0 {
		return Car{}, fmt.Errorf("%w: max velocity %v must be positive", ErrConfig, spec.MaxVel)
	}
	if spec.Acceleration <= 0 {
		return Car{}, fmt.Errorf("%w: acceleration %v must be positive", ErrConfig, spec.Acceleration)
	}
	if spec.RotationVel < 0 {
		return Car{}, fmt.Errorf("%w: rotation velocity %v must not be negative", ErrConfig, spec.RotationVel)
	}
	c := Car{
		MaxVel:       spec.MaxVel,
		RotationVel:  spec.RotationVel,
		Acceleration: spec.Acceleration,
		Start:        spec.Start,
		Footprint:    spec.Footprint,
	}
	c.Reset()
	return c, nil
}

// NewCar builds a car at its start pose.
func NewCar(spec CarSpec) (*Car, error) {
	c, err := newCar(spec)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Car) Rotate(t Turn) {
	switch t {
	case TurnLeft:
		c.Heading += c.RotationVel
	case TurnRight:
		c.Heading -= c.RotationVel
	}
}

func (c *Car) MoveForward() {
	c.Vel = math.Min(c.Vel+c.Acceleration, c.MaxVel)
	c.Move()
}

// MoveBackward reverses at up to half the forward top speed.
func (c *Car) MoveBackward() {
	c.Vel = math.Max(c.Vel-c.Acceleration, -c.MaxVel/2)
	c.Move()
}

// Move integrates one tick of travel along the heading. Screen y grows
// downward, so positive velocity at heading 0 decreases Y.
func (c *Car) Move() {
	rad := c.Heading * math.Pi / 180
	c.Y -= c.Vel * math.Cos(rad)
	c.X -= c.Vel * math.Sin(rad)
}

func (c *Car) Reset() {
	c.X, c.Y = c.Start.X, c.Start.Y
	c.Heading = StartHeading
	c.Vel = 0
}

// Pose is what a renderer needs to draw a car.
type Pose struct {
	X, Y    float64
	Heading float64
}

func (c *Car) Pose() Pose {
	return Pose{X: c.X, Y: c.Y, Heading: c.Heading}
}

// Controls is the set of held driving keys for one tick.
type Controls struct {
	Left, Right       bool
	Forward, Backward bool
}

// PlayerCar is driven by Controls and can coast and bounce.
type PlayerCar struct {
	Car
}

func NewPlayerCar(spec CarSpec) (*PlayerCar, error) {
	c, err := newCar(spec)
	if err != nil {
		return nil, fmt.Errorf("player car: %w", err)
	}
	return &PlayerCar{Car: c}, nil
}

// ReduceSpeed coasts toward standstill; it never reverses the car.
func (p *PlayerCar) ReduceSpeed() {
	p.Vel = math.Max(p.Vel-p.Acceleration/2, 0)
	p.Move()
}

// Bounce inverts the velocity and travels one tick with it.
func (p *PlayerCar) Bounce() {
	p.Vel = -p.Vel
	p.Move()
}

// Drive applies one tick of held controls. Forward and backward may both
// apply in the same tick; coasting only happens when neither is held.
func (p *PlayerCar) Drive(in Controls) {
	if in.Left {
		p.Rotate(TurnLeft)
	}
	if in.Right {
		p.Rotate(TurnRight)
	}
	moved := false
	if in.Forward {
		moved = true
		p.MoveForward()
	}
	if in.Backward {
		moved = true
		p.MoveBackward()
	}
	if !moved {
		p.ReduceSpeed()
	}
}

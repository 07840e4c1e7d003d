package race

import (
	"image"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crazycars/internal/mathx"
)

func computerSpec(start Vec) CarSpec {
	return CarSpec{
		MaxVel:       3,
		RotationVel:  6,
		Acceleration: 0.2,
		Start:        start,
		Footprint:    solidMask(10, 10),
	}
}

func TestNewComputerCar(t *testing.T) {
	path := []image.Point{{10, 10}, {20, 20}}
	cc, err := NewComputerCar(computerSpec(Vec{}), path, DefaultLevelSpeedStep)
	require.NoError(t, err)

	assert.Equal(t, 3.0, cc.Vel, "computer starts rolling")
	assert.Zero(t, cc.CurrentPoint())

	path[0] = image.Pt(99, 99)
	if diff := cmp.Diff([]image.Point{{10, 10}, {20, 20}}, cc.Path()); diff != "" {
		t.Errorf("path aliases the caller's slice (-want +got):\n%s", diff)
	}

	_, err = NewComputerCar(computerSpec(Vec{}), nil, DefaultLevelSpeedStep)
	assert.ErrorIs(t, err, ErrConfig)
}

func TestCalculateAngleStepIsBounded(t *testing.T) {
	rng := mathx.NewRand(3)
	for i := 0; i < 500; i++ {
		cc, err := NewComputerCar(computerSpec(Vec{X: rng.RangeF(0, 400), Y: rng.RangeF(0, 400)}),
			[]image.Point{{rng.Intn(400), rng.Intn(400)}}, DefaultLevelSpeedStep)
		require.NoError(t, err)
		cc.Heading = rng.RangeF(-720, 720)

		before := cc.Heading
		cc.CalculateAngle()
		assert.LessOrEqual(t, math.Abs(cc.Heading-before), cc.RotationVel+1e-9)
	}
}

func TestCalculateAngleSnapsWithinRotationVel(t *testing.T) {
	// target straight right of the car: desired heading is 270 (mod 360)
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 50}), []image.Point{{100, 49}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	dx, dy := 100.0, -1.0
	want := math.Atan(dx/dy) * 180 / math.Pi

	cc.Heading = want + 4
	cc.CalculateAngle()
	assert.InDelta(t, want, cc.Heading, 1e-9, "no overshoot past the desired heading")
}

func TestCalculateAngleHorizontalTarget(t *testing.T) {
	// dy == 0 uses π/2 as the desired angle
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 0}), []image.Point{{100, 0}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	cc.Heading = 93
	cc.CalculateAngle()
	assert.InDelta(t, 90.0, cc.Heading, 1e-9)
}

func TestCalculateAngleTurnsShortWay(t *testing.T) {
	// desired 225 from heading -170 (190): the short way is +35
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 0}), []image.Point{{100, 100}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	cc.Heading = -170
	cc.CalculateAngle()
	assert.InDelta(t, -164.0, cc.Heading, 1e-9)
}

func TestCalculateAngleHalfTurnGoesRight(t *testing.T) {
	// target straight behind: a difference of exactly 180 stays +180
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 0}), []image.Point{{0, 100}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	cc.Heading = 0
	cc.CalculateAngle()
	assert.InDelta(t, -6.0, cc.Heading, 1e-9)
}

func TestComputerConvergesOnSingleWaypoint(t *testing.T) {
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 0}), []image.Point{{100, 100}}, DefaultLevelSpeedStep)
	require.NoError(t, err)
	require.Equal(t, StartHeading, cc.Heading)

	desired := 225.0 // atan(1) + π from the start position
	prevErr := math.Abs(mathx.AngleDiffDeg(cc.Heading, desired))
	cc.CalculateAngle()
	gotErr := math.Abs(mathx.AngleDiffDeg(cc.Heading, desired))
	assert.InDelta(t, prevErr-cc.RotationVel, gotErr, 1e-9)

	ticks := 0
	for !cc.Finished() && ticks < 1000 {
		before := cc.CurrentPoint()
		cc.Move()
		require.GreaterOrEqual(t, cc.CurrentPoint(), before)
		ticks++
	}
	require.True(t, cc.Finished(), "waypoint never reached")
	assert.Equal(t, 1, cc.CurrentPoint())
}

func TestComputerMoveIsNoopOnceFinished(t *testing.T) {
	cc, err := NewComputerCar(computerSpec(Vec{X: 95, Y: 95}), []image.Point{{100, 100}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	cc.Move()
	require.True(t, cc.Finished())

	pose := cc.Pose()
	for i := 0; i < 10; i++ {
		cc.Move()
	}
	assert.Equal(t, pose, cc.Pose())
	assert.Equal(t, 1, cc.CurrentPoint())
}

func TestComputerFollowsLoop(t *testing.T) {
	var path []image.Point
	for i := 0; i < 12; i++ {
		a := float64(i) * 2 * math.Pi / 12
		path = append(path, image.Pt(200+int(120*math.Cos(a)), 200+int(120*math.Sin(a))))
	}
	cc, err := NewComputerCar(computerSpec(Vec{X: 320, Y: 200}), path, DefaultLevelSpeedStep)
	require.NoError(t, err)

	last := 0
	for i := 0; i < 20000 && !cc.Finished(); i++ {
		cc.Move()
		require.GreaterOrEqual(t, cc.CurrentPoint(), last)
		last = cc.CurrentPoint()
	}
	assert.True(t, cc.Finished())
}

func TestUpdatePathPointHalfOpen(t *testing.T) {
	cc, err := NewComputerCar(computerSpec(Vec{X: 0, Y: 0}), []image.Point{{10, 5}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	cc.UpdatePathPoint()
	assert.Zero(t, cc.CurrentPoint(), "right edge is outside the rectangle")

	cc.X = 0.9 // truncates to 0
	cc.UpdatePathPoint()
	assert.Zero(t, cc.CurrentPoint())

	cc.X = 1
	cc.UpdatePathPoint()
	assert.Equal(t, 1, cc.CurrentPoint())
}

func TestComputerNextLevel(t *testing.T) {
	cc, err := NewComputerCar(computerSpec(Vec{X: 5, Y: 6}), []image.Point{{100, 100}, {200, 0}}, DefaultLevelSpeedStep)
	require.NoError(t, err)

	for i := 0; i < 200; i++ {
		cc.Move()
	}
	require.Positive(t, cc.CurrentPoint())

	cc.NextLevel(4)
	assert.Equal(t, Pose{X: 5, Y: 6, Heading: StartHeading}, cc.Pose())
	assert.Zero(t, cc.CurrentPoint())
	assert.InDelta(t, 3+3*0.2, cc.Vel, 1e-9)

	cc.Reset()
	assert.Zero(t, cc.Vel)
	assert.Zero(t, cc.CurrentPoint())
}

func TestComputerSpeed(t *testing.T) {
	tests := []struct {
		level int
		want  float64
	}{
		{0, 6},
		{1, 6},
		{2, 6.2},
		{10, 7.8},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, ComputerSpeed(6, 0.2, tt.level), 1e-9, "level %d", tt.level)
	}
}

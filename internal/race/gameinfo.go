package race

import "time"

// DefaultLevels is the number of levels in a race session.
const DefaultLevels = 10

// GameInfo tracks the level number and the level timer of a session.
type GameInfo struct {
	Levels         int
	Level          int
	Started        bool
	LevelStartTime time.Time

	clock Clock
}

func NewGameInfo(levels int, clock Clock) *GameInfo {
	if clock == nil {
		clock = SystemClock{}
	}
	return &GameInfo{Levels: levels, Level: 1, clock: clock}
}

// Reset goes back to level 1 with the timer stopped.
func (g *GameInfo) Reset() {
	g.Level = 1
	g.Started = false
	g.LevelStartTime = time.Time{}
}

// NextLevel advances the level; the next level waits to be started.
func (g *GameInfo) NextLevel() {
	g.Level++
	g.Started = false
}

// GameFinished reports whether every level has been completed.
func (g *GameInfo) GameFinished() bool {
	return g.Level > g.Levels
}

func (g *GameInfo) StartLevel() {
	g.Started = true
	g.LevelStartTime = g.clock.Now()
}

// LevelTime is the elapsed time of the running level, zero before start.
func (g *GameInfo) LevelTime() time.Duration {
	if !g.Started {
		return 0
	}
	return g.clock.Now().Sub(g.LevelStartTime)
}

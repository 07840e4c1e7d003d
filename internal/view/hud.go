package view

import (
	"fmt"
	"math"

	"crazycars/internal/race"
)

// HUD is the text shown over the track for one snapshot. Stats go in the
// bottom-left corner, Banner is centred and empty while racing.
type HUD struct {
	Level    string
	Time     string
	Velocity string
	Banner   string
	Hint     string
}

// NewHUD formats the overlay text for s.
func NewHUD(s race.Snapshot) HUD {
	h := HUD{
		Level:    fmt.Sprintf("Level %d", s.Level),
		Time:     fmt.Sprintf("Time: %.1fs", s.LevelTime.Seconds()),
		Velocity: fmt.Sprintf("Vel: %.1fpx/s", math.Round(s.PlayerVel*10)/10),
	}
	switch s.Phase {
	case race.PhaseAwaitingStart:
		h.Banner = fmt.Sprintf("Press any key to start level %d!", s.Level)
		h.Hint = "W/S drive, A/D steer, Esc quits"
	case race.PhaseLost:
		h.Banner = "You lost!"
		h.Hint = restartHint(s)
	case race.PhaseWon:
		h.Banner = "You won the game!"
		h.Hint = restartHint(s)
	}
	return h
}

func restartHint(s race.Snapshot) string {
	return fmt.Sprintf("New race in %ds", int(math.Ceil(s.ResumeIn.Seconds())))
}

// Stats returns the corner lines top to bottom.
func (h HUD) Stats() []string {
	return []string{h.Level, h.Time, h.Velocity}
}

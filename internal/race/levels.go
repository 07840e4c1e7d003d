package race

// ComputerSpeed returns the computer car's cruising speed for a level: the
// base speed on level 1 and step faster for every level after it.
func ComputerSpeed(base, step float64, level int) float64 {
	if level < 1 {
		level = 1
	}
	return base + float64(level-1)*step
}

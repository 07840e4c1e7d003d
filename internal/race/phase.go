package race

// Phase is the top-level state of a race session.
type Phase int

const (
	PhaseAwaitingStart Phase = iota // level banner, simulation frozen until a key press
	PhaseRunning
	PhaseLost // computer crossed the finish line first
	PhaseWon  // every level completed
)

func (p Phase) String() string {
	switch p {
	case PhaseAwaitingStart:
		return "awaiting-start"
	case PhaseRunning:
		return "running"
	case PhaseLost:
		return "lost"
	case PhaseWon:
		return "won"
	}
	return "unknown"
}

// Outcome collects what happened during one tick. A border bounce and a
// finish line event can occur together.
type Outcome uint8

const (
	OutcomeBorderBounce Outcome = 1 << iota
	OutcomeFinishBounce
	OutcomeLevelUp
	OutcomeLost
	OutcomeWon
	OutcomeStarted
	OutcomeReset

	OutcomeNone Outcome = 0
)

func (o Outcome) Has(flag Outcome) bool { return o&flag != 0 }

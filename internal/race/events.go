package race

type EventType int

const (
	EventLevelStarted EventType = iota
	EventBorderBounce
	EventFinishBounce
	EventLevelComplete
	EventRaceLost
	EventRaceWon
	EventSessionReset
)

func (t EventType) String() string {
	switch t {
	case EventLevelStarted:
		return "level-started"
	case EventBorderBounce:
		return "border-bounce"
	case EventFinishBounce:
		return "finish-bounce"
	case EventLevelComplete:
		return "level-complete"
	case EventRaceLost:
		return "race-lost"
	case EventRaceWon:
		return "race-won"
	case EventSessionReset:
		return "session-reset"
	}
	return "unknown"
}

type Event struct {
	Type  EventType
	X, Y  float64 // player position when the event fired
	Level int     // level after the event was applied
}

type EventHandler func(Event)

// EventBus dispatches events synchronously on the simulation goroutine.
type EventBus struct {
	handlers map[EventType][]EventHandler
}

func NewEventBus() *EventBus {
	return &EventBus{
		handlers: make(map[EventType][]EventHandler),
	}
}

func (eb *EventBus) Subscribe(t EventType, fn EventHandler) {
	eb.handlers[t] = append(eb.handlers[t], fn)
}

// SubscribeAll registers fn for every event type.
func (eb *EventBus) SubscribeAll(fn EventHandler) {
	for t := EventLevelStarted; t <= EventSessionReset; t++ {
		eb.Subscribe(t, fn)
	}
}

func (eb *EventBus) Emit(e Event) {
	for _, fn := range eb.handlers[e.Type] {
		fn(e)
	}
}

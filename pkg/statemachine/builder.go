package statemachine

// Builder provides a fluent API for building transition tables.
type Builder struct {
	transitions  []Transition
	currentFrom  State
	currentEvent Event
	currentTo    State
	currentDo    ActionID
}

// NewBuilder creates a new transition table builder.
func NewBuilder() *Builder {
	return &Builder{}
}

// From sets the starting state for a transition.
func (b *Builder) From(state State) *Builder {
	b.reset()
	b.currentFrom = state
	return b
}

// When sets the event that triggers a transition.
func (b *Builder) When(event Event) *Builder {
	b.currentEvent = event
	return b
}

// To sets the target state for a transition.
func (b *Builder) To(state State) *Builder {
	b.currentTo = state
	return b
}

// Do binds the action id executed by the transition.
func (b *Builder) Do(action ActionID) *Builder {
	b.currentDo = action
	return b
}

// Add finalizes the current transition. Validation is deferred to Build.
func (b *Builder) Add() *Builder {
	b.transitions = append(b.transitions, Transition{
		From:   b.currentFrom,
		To:     b.currentTo,
		Event:  b.currentEvent,
		Action: b.currentDo,
	})
	b.reset()
	return b
}

// WithTransition is a shorthand method to add a transition in one call.
func (b *Builder) WithTransition(from, to State, event Event, action ActionID) *Builder {
	return b.From(from).When(event).To(to).Do(action).Add()
}

// Build validates all collected transitions and returns the table.
func (b *Builder) Build() (*Table, error) {
	return NewTable(b.transitions...)
}

// reset clears the current transition configuration.
func (b *Builder) reset() {
	b.currentFrom = nil
	b.currentEvent = nil
	b.currentTo = nil
	b.currentDo = ""
}

package statemachine

import (
	"errors"
	"fmt"
)

// Table is an immutable partial function (state, event) -> Transition.
// Uses a nested map structure for O(1) lookups: [fromState][event]Transition
type Table struct {
	transitions []Transition
	index       map[string]map[string]Transition
}

// NewTable validates the transitions and builds a lookup table.
// Every problem found is reported at once, joined into a single *ConfigurationError.
func NewTable(transitions ...Transition) (*Table, error) {
	t := &Table{
		transitions: make([]Transition, 0, len(transitions)),
		index:       make(map[string]map[string]Transition),
	}

	var errs []error
	for i, tr := range transitions {
		if err := t.add(tr); err != nil {
			errs = append(errs, fmt.Errorf("transition[%d] %s->%s on %s: %w",
				i, nameOf(tr.From), nameOf(tr.To), nameOf(tr.Event), err))
		}
	}
	if len(errs) > 0 {
		return nil, newConfigurationError(errors.Join(errs...), "invalid transition table")
	}
	if len(t.transitions) == 0 {
		return nil, newConfigurationError(nil, "transition table is empty")
	}

	return t, nil
}

// MustNewTable works like NewTable but panics on configuration errors.
func MustNewTable(transitions ...Transition) *Table {
	t, err := NewTable(transitions...)
	if err != nil {
		panic(fmt.Sprintf("failed to build transition table: %v", err))
	}
	return t
}

func (t *Table) add(tr Transition) error {
	switch {
	case tr.From == nil:
		return ErrNilState
	case tr.To == nil:
		return ErrNilState
	case tr.Event == nil:
		return ErrNilEvent
	case tr.Action == "":
		return errors.New("action id cannot be empty")
	}

	from, event := tr.From.Name(), tr.Event.Name()
	if _, ok := t.index[from]; !ok {
		t.index[from] = make(map[string]Transition)
	}
	if existing, ok := t.index[from][event]; ok {
		return fmt.Errorf("ambiguous: already bound to %s->%s (%s)",
			existing.From.Name(), existing.To.Name(), existing.Action)
	}

	t.index[from][event] = tr
	t.transitions = append(t.transitions, tr)
	return nil
}

// Lookup returns the unique transition for the pair, or false if the event
// is not valid in the given state.
func (t *Table) Lookup(from State, event Event) (Transition, bool) {
	if t == nil || from == nil || event == nil {
		return Transition{}, false
	}
	byEvent, ok := t.index[from.Name()]
	if !ok {
		return Transition{}, false
	}
	tr, ok := byEvent[event.Name()]
	return tr, ok
}

// Transitions returns a copy of the transitions in definition order.
func (t *Table) Transitions() []Transition {
	out := make([]Transition, len(t.transitions))
	copy(out, t.transitions)
	return out
}

// States returns every state referenced by the table, in first-seen order.
func (t *Table) States() []State {
	seen := make(map[string]struct{})
	var states []State
	for _, tr := range t.transitions {
		for _, s := range []State{tr.From, tr.To} {
			if _, ok := seen[s.Name()]; !ok {
				seen[s.Name()] = struct{}{}
				states = append(states, s)
			}
		}
	}
	return states
}

// Events returns every event referenced by the table, in first-seen order.
func (t *Table) Events() []Event {
	seen := make(map[string]struct{})
	var events []Event
	for _, tr := range t.transitions {
		if _, ok := seen[tr.Event.Name()]; !ok {
			seen[tr.Event.Name()] = struct{}{}
			events = append(events, tr.Event)
		}
	}
	return events
}

// Actions returns the distinct action ids bound by the table.
func (t *Table) Actions() []ActionID {
	seen := make(map[ActionID]struct{})
	var actions []ActionID
	for _, tr := range t.transitions {
		if _, ok := seen[tr.Action]; !ok {
			seen[tr.Action] = struct{}{}
			actions = append(actions, tr.Action)
		}
	}
	return actions
}

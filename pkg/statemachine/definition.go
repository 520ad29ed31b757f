package statemachine

import (
	"errors"
	"io"
	"slices"

	"gopkg.in/yaml.v3"
)

// Definition is the serialisable form of a transition table.
//
//	initial: ACCOUNT_CREATED
//	transitions:
//	  - from: ACCOUNT_CREATED
//	    event: ACCOUNT_CREATED
//	    to: ACCOUNT_PENDING
//	    action: createAccount
type Definition struct {
	Initial     string          `yaml:"initial"`
	Transitions []TransitionDef `yaml:"transitions"`
}

// TransitionDef defines a transition between states by name.
type TransitionDef struct {
	From   string `yaml:"from"`
	Event  string `yaml:"event"`
	To     string `yaml:"to"`
	Action string `yaml:"action"`
}

// NewDefinition captures an existing table.
func NewDefinition(initial State, t *Table) *Definition {
	d := &Definition{Initial: nameOf(initial)}
	for _, tr := range t.transitions {
		d.Transitions = append(d.Transitions, TransitionDef{
			From:   tr.From.Name(),
			Event:  tr.Event.Name(),
			To:     tr.To.Name(),
			Action: tr.Action.String(),
		})
	}
	return d
}

// ParseDefinition decodes a YAML definition. Unknown fields are rejected.
func ParseDefinition(r io.Reader) (*Definition, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var d Definition
	if err := dec.Decode(&d); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, newConfigurationError(nil, "definition is empty")
		}
		return nil, newConfigurationError(err, "decode definition")
	}
	return &d, nil
}

// Table builds and validates the transition table described by the definition.
// Names are mapped to StringState and StringEvent.
func (d *Definition) Table() (*Table, error) {
	transitions := make([]Transition, 0, len(d.Transitions))
	for _, td := range d.Transitions {
		transitions = append(transitions, Transition{
			From:   stateOrNil(td.From),
			To:     stateOrNil(td.To),
			Event:  eventOrNil(td.Event),
			Action: ActionID(td.Action),
		})
	}

	t, err := NewTable(transitions...)
	if err != nil {
		return nil, err
	}

	if d.Initial != "" && !slices.ContainsFunc(t.States(), func(s State) bool { return s.Name() == d.Initial }) {
		return nil, newConfigurationError(nil, "initial state %q is not part of the table", d.Initial)
	}
	return t, nil
}

// Encode writes the definition as YAML.
func (d *Definition) Encode(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(d); err != nil {
		return err
	}
	return enc.Close()
}

func stateOrNil(name string) State {
	if name == "" {
		return nil
	}
	return StringState(name)
}

func eventOrNil(name string) Event {
	if name == "" {
		return nil
	}
	return StringEvent(name)
}

package workflow

import "fmt"

// StateMachine tracks the current state of a single claim and validates
// transitions against the configured lifecycle.
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// StateMachineBuilder builds a configured state machine
type StateMachineBuilder interface {
	// Configure returns a state configuration for the given state
	Configure(state State) StateConfiguration

	// Build creates a new state machine instance with the given initial state
	Build(initialState State) (StateMachine, error)
}

// StateConfiguration configures transitions for a specific state
type StateConfiguration interface {
	// Permit allows a trigger to transition to the target state
	Permit(trigger Trigger, toState State) StateConfiguration
}

type stateConfig struct {
	transitions map[Trigger]State
}

func (c *stateConfig) Permit(trigger Trigger, toState State) StateConfiguration {
	if !toState.IsValid() {
		panic(fmt.Sprintf("invalid target state: %s", toState))
	}
	c.transitions[trigger] = toState
	return c
}

type stateMachineBuilder struct {
	configurations map[State]*stateConfig
}

// NewBuilder creates a new state machine builder
func NewBuilder() StateMachineBuilder {
	return &stateMachineBuilder{
		configurations: make(map[State]*stateConfig),
	}
}

// Configure returns a state configuration for the given state
func (b *stateMachineBuilder) Configure(state State) StateConfiguration {
	if !state.IsValid() {
		panic(fmt.Sprintf("invalid state: %s", state))
	}

	config, exists := b.configurations[state]
	if !exists {
		config = &stateConfig{transitions: make(map[Trigger]State)}
		b.configurations[state] = config
	}

	return config
}

// Build creates a new state machine instance with the given initial state.
// Configurations are copied so machines built from the same builder do not
// share mutable state.
func (b *stateMachineBuilder) Build(initialState State) (StateMachine, error) {
	if !initialState.IsValid() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidState, initialState)
	}

	configsCopy := make(map[State]map[Trigger]State, len(b.configurations))
	for state, config := range b.configurations {
		transitionsCopy := make(map[Trigger]State, len(config.transitions))
		for trigger, toState := range config.transitions {
			transitionsCopy[trigger] = toState
		}
		configsCopy[state] = transitionsCopy
	}

	return &stateMachine{
		currentState:   initialState,
		configurations: configsCopy,
	}, nil
}

type stateMachine struct {
	currentState   State
	configurations map[State]map[Trigger]State
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state
func (m *stateMachine) CanFire(trigger Trigger) bool {
	transitions, exists := m.configurations[m.currentState]
	if !exists {
		return false
	}
	_, ok := transitions[trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(trigger Trigger) error {
	transitions, exists := m.configurations[m.currentState]
	if !exists {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s (no configuration)", ErrInvalidTransition, trigger, m.currentState)
	}

	toState, ok := transitions[trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}

	m.currentState = toState
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current state
func (m *stateMachine) PermittedTriggers() []Trigger {
	transitions, exists := m.configurations[m.currentState]
	if !exists {
		return []Trigger{}
	}

	triggers := make([]Trigger, 0, len(transitions))
	for trigger := range transitions {
		triggers = append(triggers, trigger)
	}

	return triggers
}

package workflow

// State represents a workflow state in the claim lifecycle
type State string

const (
	StateDraft     State = "Draft"
	StateSubmitted State = "Submitted"
	StateApproved  State = "Approved"
	StateRejected  State = "Rejected"
	StatePaid      State = "Paid"
)

var validStates = map[State]bool{
	StateDraft:     true,
	StateSubmitted: true,
	StateApproved:  true,
	StateRejected:  true,
	StatePaid:      true,
}

var terminalStates = map[State]bool{
	StateRejected: true,
	StatePaid:     true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid workflow state
func (s State) IsValid() bool {
	return validStates[s]
}

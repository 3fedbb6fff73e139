package workflow

// NewLifecycleBuilder returns the builder configured with the claim
// lifecycle: Draft -> Submitted -> Approved -> Paid, with rejection out of
// Submitted. Rejected and Paid are terminal; no trigger leaves them.
func NewLifecycleBuilder() StateMachineBuilder {
	builder := NewBuilder()

	builder.Configure(StateDraft).
		Permit(TriggerSubmit, StateSubmitted)

	builder.Configure(StateSubmitted).
		Permit(TriggerApprove, StateApproved).
		Permit(TriggerReject, StateRejected)

	builder.Configure(StateApproved).
		Permit(TriggerMarkPaid, StatePaid)

	return builder
}

// TriggerFor maps a lifecycle trigger to the state it targets.
func TriggerFor(trigger Trigger) (State, bool) {
	switch trigger {
	case TriggerSubmit:
		return StateSubmitted, true
	case TriggerApprove:
		return StateApproved, true
	case TriggerReject:
		return StateRejected, true
	case TriggerMarkPaid:
		return StatePaid, true
	default:
		return "", false
	}
}

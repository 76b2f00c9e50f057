package taskstatus

// Status is an enumeration for terminal task states reported to settle.
type Status int

// Various terminal task states.
const (
	_ Status = iota

	// Completed stands for tasks finished successfully.
	Completed

	// Failed stands for tasks aborted by an execution error.
	Failed

	// Cancelled stands for tasks withdrawn before execution.
	Cancelled
)

// Action is what settle does with the escrowed amount for a given status.
type Action int

// Settlement actions.
const (
	// ActionUnknown means the status has no configured settlement
	// behavior and must be rejected.
	ActionUnknown Action = iota

	// ActionPayout pays the escrowed amount out to task recipients.
	ActionPayout

	// ActionRefund returns the escrowed amount to the submitter's free
	// balance.
	ActionRefund
)

// ActionOf maps a terminal status to its settlement action. New statuses
// (disputed, partial completion) get their behavior by extending this switch.
func ActionOf(s Status) Action {
	switch s {
	case Completed:
		return ActionPayout
	case Failed, Cancelled:
		return ActionRefund
	default:
		return ActionUnknown
	}
}

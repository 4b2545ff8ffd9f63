package approval

// Decision is the outcome of asking the approval authority about a transfer.
type Decision int

const (
	// DecisionRejected means the authority answered with anything but success.
	DecisionRejected Decision = iota
	// DecisionApproved means the authority explicitly approved the transfer.
	DecisionApproved
	// DecisionUnreachable means no usable answer was obtained.
	DecisionUnreachable
)

func (d Decision) String() string {
	switch d {
	case DecisionApproved:
		return "approved"
	case DecisionRejected:
		return "rejected"
	case DecisionUnreachable:
		return "unreachable"
	default:
		return "unknown"
	}
}

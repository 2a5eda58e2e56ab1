package leadform

// Step is the controller's position in the flow.
type Step int

const (
	StepEntryDetails Step = iota + 1
	StepEstimateAndCapture
	StepConfirmed
)

func (s Step) String() string {
	switch s {
	case StepEntryDetails:
		return "entry_details"
	case StepEstimateAndCapture:
		return "estimate_and_capture"
	case StepConfirmed:
		return "confirmed"
	default:
		return "unknown"
	}
}

// Number is the 1-based position of the step. StepConfirmed is past the
// numbered steps of the indicator.
func (s Step) Number() int {
	return int(s)
}

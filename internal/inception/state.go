package inception

// State is a step of a single pipeline run.
type State int

const (
	StateValidating State = iota
	StateLocatingIndicator
	StateCollectingFiles
	StatePreProcessing
	StateConcatenating
	StateTransforming
	StateSubstituting
	StateEmitting
	StateFailed
)

var stateNames = [...]string{
	StateValidating:        "validating",
	StateLocatingIndicator: "locating_indicator",
	StateCollectingFiles:   "collecting_files",
	StatePreProcessing:     "pre_processing",
	StateConcatenating:     "concatenating",
	StateTransforming:      "transforming",
	StateSubstituting:      "substituting",
	StateEmitting:          "emitting",
	StateFailed:            "failed",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

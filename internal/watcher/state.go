package watcher

// State is the edge-trigger memory of the watch loop. Alerted is true while
// an alert has already fired for the current excursion at or above target.
type State struct {
	Alerted bool
}

// Outcome classifies what a single tick did.
type Outcome int

const (
	// OutcomeFetchFailed means the price could not be read; state is unchanged.
	OutcomeFetchFailed Outcome = iota
	// OutcomeBelow means the price was under target; the alert is re-armed.
	OutcomeBelow
	// OutcomeAlerted means the price crossed the target and an alert was sent.
	OutcomeAlerted
	// OutcomeSuppressed means the price is still at or above target and the
	// excursion already alerted.
	OutcomeSuppressed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeFetchFailed:
		return "fetch_failed"
	case OutcomeBelow:
		return "below"
	case OutcomeAlerted:
		return "alerted"
	case OutcomeSuppressed:
		return "suppressed"
	default:
		return "unknown"
	}
}

// TickResult reports the observable effect of one tick.
type TickResult struct {
	Outcome   Outcome
	Price     float64
	FetchErr  error
	NotifyErr error
}

// next applies the threshold comparison to s and reports whether an alert
// should be sent. Prices equal to target count as above.
func (s *State) next(price, target float64) Outcome {
	if price < target {
		s.Alerted = false
		return OutcomeBelow
	}
	if s.Alerted {
		return OutcomeSuppressed
	}
	s.Alerted = true
	return OutcomeAlerted
}

package checkout

import "fmt"

// Step is a checkout state. Steps only advance one at a time.
type Step int

const (
	StepShipping Step = iota
	StepPayment
	StepReview
	StepConfirmation
)

var stepNames = [...]string{"shipping", "payment", "review", "confirmation"}

func (s Step) String() string {
	if s < 0 || int(s) >= len(stepNames) {
		return fmt.Sprintf("step(%d)", int(s))
	}
	return stepNames[s]
}

func (s Step) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

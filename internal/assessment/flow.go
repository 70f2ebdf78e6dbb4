package assessment

import "errors"

// Step is a position in the client-side assessment flow.
type Step string

const (
	StepPreferences Step = "preferences"
	StepFirstSet    Step = "first_set"  // PHQ-9 and GAD-7 questions
	StepSecondSet   Step = "second_set" // PSS questions
	StepResult      Step = "result"
)

var (
	// ErrFlowComplete is returned when advancing past StepResult.
	ErrFlowComplete = errors.New("assessment flow already complete")
	// ErrUnknownStep is returned for a step value outside the flow.
	ErrUnknownStep = errors.New("unknown assessment step")
)

// Session carries everything a client has collected so far.
type Session struct {
	Preferences map[string]string `json:"preferences,omitempty"`
	PHQ9        Answers           `json:"phq9,omitempty"`
	GAD7        Answers           `json:"gad7,omitempty"`
	PSS         Answers           `json:"pss,omitempty"`
}

// Advance returns the step that follows step, provided the questions of the
// current step are complete. There is no backward transition.
func Advance(step Step, s Session) (Step, error) {
	switch step {
	case StepPreferences:
		return StepFirstSet, nil
	case StepFirstSet:
		if err := Validate(s.PHQ9, phq9Definition); err != nil {
			return step, err
		}
		if err := Validate(s.GAD7, gad7Definition); err != nil {
			return step, err
		}
		return StepSecondSet, nil
	case StepSecondSet:
		if err := Validate(s.PSS, pssDefinition); err != nil {
			return step, err
		}
		return StepResult, nil
	case StepResult:
		return step, ErrFlowComplete
	default:
		return step, ErrUnknownStep
	}
}

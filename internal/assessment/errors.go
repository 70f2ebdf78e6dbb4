package assessment

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompleteAssessment is matched (via errors.Is) by every
	// *IncompleteAssessmentError.
	ErrIncompleteAssessment = errors.New("assessment incomplete")

	// ErrInvalidAnswer is matched (via errors.Is) by every *InvalidAnswerError.
	ErrInvalidAnswer = errors.New("answer out of range")

	// ErrUnknownScale is returned when a scale identifier has no definition.
	ErrUnknownScale = errors.New("unknown scale")

	// ErrUnknownOption is returned by ParseOption for an option id that the
	// instrument does not declare.
	ErrUnknownOption = errors.New("unknown option id")
)

// IncompleteAssessmentError reports the questions of one instrument that have
// no answer. MissingKeys follows the instrument's declaration order.
type IncompleteAssessmentError struct {
	Scale       Scale
	MissingKeys []QuestionKey
}

func (e *IncompleteAssessmentError) Error() string {
	keys := make([]string, len(e.MissingKeys))
	for i, k := range e.MissingKeys {
		keys[i] = string(k)
	}
	return fmt.Sprintf("%s incomplete: missing %s", e.Scale, strings.Join(keys, ", "))
}

// Is lets callers match with errors.Is(err, ErrIncompleteAssessment).
func (e *IncompleteAssessmentError) Is(target error) bool {
	return target == ErrIncompleteAssessment
}

// InvalidAnswerError reports an answer outside the instrument's value range.
type InvalidAnswerError struct {
	Scale Scale
	Key   QuestionKey
	Value Answer
}

func (e *InvalidAnswerError) Error() string {
	return fmt.Sprintf("%s: answer %d for %q is out of range", e.Scale, e.Value, e.Key)
}

// Is lets callers match with errors.Is(err, ErrInvalidAnswer).
func (e *InvalidAnswerError) Is(target error) bool {
	return target == ErrInvalidAnswer
}

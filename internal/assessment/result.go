package assessment

import (
	"time"

	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
)

// Result is the outcome of one completed assessment session.
type Result struct {
	PHQ9Total          int       `json:"phq9_total"`
	GAD7Total          int       `json:"gad7_total"`
	PSSTotal           int       `json:"pss_total"`
	PHQ9Interpretation string    `json:"phq9_interpretation"`
	GAD7Interpretation string    `json:"gad7_interpretation"`
	PSSInterpretation  string    `json:"pss_interpretation"`
	CreatedAt          time.Time `json:"created_at"`
}

// BuildResult validates and scores all three instruments and assembles a
// Result stamped with clock.Now().
//
// Instruments are validated in session order (PHQ-9, GAD-7, PSS) before any
// scoring, and the first failure is returned unchanged. A nil clock falls
// back to sysutil.SystemClock.
func BuildResult(clock sysutil.Clock, phq9, gad7, pss Answers) (*Result, error) {
	sets := []struct {
		def     Definition
		answers Answers
	}{
		{phq9Definition, phq9},
		{gad7Definition, gad7},
		{pssDefinition, pss},
	}
	for _, s := range sets {
		if err := Validate(s.answers, s.def); err != nil {
			return nil, err
		}
	}

	var totals [3]int
	for i, s := range sets {
		t, err := ScoreInstrument(s.answers, s.def)
		if err != nil {
			return nil, err
		}
		totals[i] = t
	}

	return &Result{
		PHQ9Total:          totals[0],
		GAD7Total:          totals[1],
		PSSTotal:           totals[2],
		PHQ9Interpretation: Interpret(PHQ9, totals[0]),
		GAD7Interpretation: Interpret(GAD7, totals[1]),
		PSSInterpretation:  Interpret(PSS, totals[2]),
		CreatedAt:          sysutil.NowFrom(clock),
	}, nil
}

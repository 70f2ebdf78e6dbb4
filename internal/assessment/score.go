package assessment

// Reverse maps a raw Likert value to its reverse-scored value on the 0..4
// scale: 0↔4, 1↔3, 2↔2.
func Reverse(v Answer) Answer {
	return MaxAnswer - v
}

// Missing returns the keys declared by def that have no entry in answers, in
// declaration order. It returns nil when the instrument is complete.
func Missing(answers Answers, def Definition) []QuestionKey {
	var out []QuestionKey
	for _, q := range def.Questions {
		if _, ok := answers[q.Key]; !ok {
			out = append(out, q.Key)
		}
	}
	return out
}

// Validate checks that every question in def is answered with a value in
// [0, def.MaxValue]. It returns *IncompleteAssessmentError before looking at
// values, so a partially answered form always reports what is missing first.
func Validate(answers Answers, def Definition) error {
	if missing := Missing(answers, def); len(missing) > 0 {
		return &IncompleteAssessmentError{Scale: def.Scale, MissingKeys: missing}
	}
	for _, q := range def.Questions {
		v := answers[q.Key]
		if v < 0 || v > def.MaxValue {
			return &InvalidAnswerError{Scale: def.Scale, Key: q.Key, Value: v}
		}
	}
	return nil
}

// ScoreInstrument sums the answers for def. Reversed questions contribute
// Reverse(v); all others contribute v unchanged. Keys that def does not
// declare are ignored.
//
// The sum walks def.Questions rather than the map, so the result does not
// depend on map iteration order.
func ScoreInstrument(answers Answers, def Definition) (int, error) {
	if err := Validate(answers, def); err != nil {
		return 0, err
	}
	total := 0
	for _, q := range def.Questions {
		v := answers[q.Key]
		if q.Reversed {
			v = Reverse(v)
		}
		total += int(v)
	}
	return total, nil
}

// Package assessment implements the self-assessment scoring engine for the
// three supported psychometric instruments: PHQ-9 (depression), GAD-7
// (anxiety) and PSS-10 (perceived stress).
//
// The package is pure: it performs no I/O and holds no mutable global state.
// Callers collect answers, score them with ScoreInstrument or BuildResult, and
// persist the returned Result through their own store.
//
// Answers are Likert values in [0, MaxAnswer]. A question without an entry in
// the Answers map is unanswered; scoring never treats absence as zero.
package assessment

// Scale identifies one psychometric instrument.
type Scale string

const (
	PHQ9 Scale = "phq9"
	GAD7 Scale = "gad7"
	PSS  Scale = "pss"
)

// QuestionKey identifies a question within an instrument.
type QuestionKey string

// Answer is a Likert selection, 0 through MaxAnswer.
type Answer int

// MaxAnswer is the highest Likert value any instrument accepts.
const MaxAnswer Answer = 4

// Answers maps question keys to the selected value. A missing key means the
// question was not answered.
type Answers map[QuestionKey]Answer

// Question is one item of an instrument. Reversed items are scored as
// Reverse(value) before summing.
type Question struct {
	Key      QuestionKey `json:"key"`
	Text     string      `json:"text"`
	Reversed bool        `json:"reversed,omitempty"`
}

// Option is one selectable answer. ID is the identifier the client submits
// (the radio-button id); Value is the Likert value it stands for.
type Option struct {
	ID    string `json:"id"`
	Value Answer `json:"value"`
	Label string `json:"label"`
}

// Definition is the ordered question set of one instrument together with its
// answer options.
type Definition struct {
	Scale     Scale      `json:"scale"`
	Title     string     `json:"title"`
	Questions []Question `json:"questions"`
	Options   []Option   `json:"options"`
	// MaxValue is the highest valid answer. Answers are Likert values in
	// 0..4 in general, but PHQ-9 and GAD-7 offer four options, so their
	// MaxValue is 3 (keeping totals within 27 and 21) and a 4 is rejected
	// with InvalidAnswerError. PSS uses the full 0..4 range.
	MaxValue Answer `json:"max_value"`
}

// Keys returns the question keys in declaration order.
func (d Definition) Keys() []QuestionKey {
	out := make([]QuestionKey, len(d.Questions))
	for i, q := range d.Questions {
		out[i] = q.Key
	}
	return out
}

// frequencyOptions are shared by PHQ-9 and GAD-7 ("over the last 2 weeks").
var frequencyOptions = []Option{
	{ID: "1", Value: 0, Label: "Not at all"},
	{ID: "2", Value: 1, Label: "Several days"},
	{ID: "3", Value: 2, Label: "More than half the days"},
	{ID: "4", Value: 3, Label: "Nearly every day"},
}

// stressOptions are the PSS-10 options ("in the last month").
var stressOptions = []Option{
	{ID: "1", Value: 0, Label: "Never"},
	{ID: "2", Value: 1, Label: "Almost never"},
	{ID: "3", Value: 2, Label: "Sometimes"},
	{ID: "4", Value: 3, Label: "Fairly often"},
	{ID: "5", Value: 4, Label: "Very often"},
}

var phq9Definition = Definition{
	Scale: PHQ9,
	Title: "Patient Health Questionnaire (PHQ-9)",
	Questions: []Question{
		{Key: "littleInterest", Text: "Little interest or pleasure in doing things"},
		{Key: "feelingDown", Text: "Feeling down, depressed, or hopeless"},
		{Key: "sleepTrouble", Text: "Trouble falling or staying asleep, or sleeping too much"},
		{Key: "feelingTired", Text: "Feeling tired or having little energy"},
		{Key: "poorAppetite", Text: "Poor appetite or overeating"},
		{Key: "feelingBadAboutSelf", Text: "Feeling bad about yourself, or that you are a failure or have let yourself or your family down"},
		{Key: "troubleConcentrating", Text: "Trouble concentrating on things, such as reading or watching television"},
		{Key: "movingSlowly", Text: "Moving or speaking so slowly that other people could have noticed, or the opposite, being fidgety or restless"},
		{Key: "selfHarmThoughts", Text: "Thoughts that you would be better off dead, or of hurting yourself"},
	},
	Options:  frequencyOptions,
	MaxValue: 3,
}

var gad7Definition = Definition{
	Scale: GAD7,
	Title: "Generalized Anxiety Disorder (GAD-7)",
	Questions: []Question{
		{Key: "feelingNervous", Text: "Feeling nervous, anxious, or on edge"},
		{Key: "cannotStopWorrying", Text: "Not being able to stop or control worrying"},
		{Key: "worryingTooMuch", Text: "Worrying too much about different things"},
		{Key: "troubleRelaxing", Text: "Trouble relaxing"},
		{Key: "beingRestless", Text: "Being so restless that it is hard to sit still"},
		{Key: "easilyAnnoyed", Text: "Becoming easily annoyed or irritable"},
		{Key: "feelingAfraid", Text: "Feeling afraid, as if something awful might happen"},
	},
	Options:  frequencyOptions,
	MaxValue: 3,
}

var pssDefinition = Definition{
	Scale: PSS,
	Title: "Perceived Stress Scale (PSS-10)",
	Questions: []Question{
		{Key: "upsetUnexpectedly", Text: "How often have you been upset because of something that happened unexpectedly?"},
		{Key: "unableToControl", Text: "How often have you felt that you were unable to control the important things in your life?"},
		{Key: "nervousAndStressed", Text: "How often have you felt nervous and stressed?"},
		{Key: "handlePersonalProblems", Text: "How often have you felt confident about your ability to handle your personal problems?", Reversed: true},
		{Key: "thingsGoingYourWay", Text: "How often have you felt that things were going your way?", Reversed: true},
		{Key: "couldNotCope", Text: "How often have you found that you could not cope with all the things that you had to do?"},
		{Key: "controlIrritations", Text: "How often have you been able to control irritations in your life?", Reversed: true},
		{Key: "onTopOfThings", Text: "How often have you felt that you were on top of things?", Reversed: true},
		{Key: "angeredOutsideControl", Text: "How often have you been angered because of things that happened that were outside of your control?"},
		{Key: "difficultiesPilingUp", Text: "How often have you felt difficulties were piling up so high that you could not overcome them?"},
	},
	Options:  stressOptions,
	MaxValue: 4,
}

// Scales lists the instruments in the order a session presents them.
var Scales = []Scale{PHQ9, GAD7, PSS}

// DefinitionFor returns a copy of the definition for scale.
func DefinitionFor(scale Scale) (Definition, error) {
	var d Definition
	switch scale {
	case PHQ9:
		d = phq9Definition
	case GAD7:
		d = gad7Definition
	case PSS:
		d = pssDefinition
	default:
		return Definition{}, ErrUnknownScale
	}
	d.Questions = append([]Question(nil), d.Questions...)
	d.Options = append([]Option(nil), d.Options...)
	return d, nil
}

// Definitions returns copies of all instrument definitions in session order.
func Definitions() []Definition {
	out := make([]Definition, 0, len(Scales))
	for _, s := range Scales {
		d, _ := DefinitionFor(s)
		out = append(out, d)
	}
	return out
}

// ParseOption maps a submitted option id to its Likert value using the
// instrument's explicit option table.
func ParseOption(scale Scale, id string) (Answer, error) {
	d, err := DefinitionFor(scale)
	if err != nil {
		return 0, err
	}
	for _, o := range d.Options {
		if o.ID == id {
			return o.Value, nil
		}
	}
	return 0, ErrUnknownOption
}

package assessment

// band is one row of an interpretation table: totals <= upTo get label.
type band struct {
	upTo  int
	label string
}

// bandTable holds the closed upper bounds for each scale. The last label of
// each table applies to every total above the final bound.
var bandTable = map[Scale]struct {
	bands []band
	above string
}{
	PHQ9: {
		bands: []band{
			{4, "Minimal or no depression"},
			{9, "Mild depression"},
			{14, "Moderate depression"},
			{19, "Moderately severe depression"},
		},
		above: "Severe depression",
	},
	GAD7: {
		bands: []band{
			{4, "Minimal or no anxiety"},
			{9, "Mild anxiety"},
			{14, "Moderate anxiety"},
		},
		above: "Severe anxiety",
	},
	PSS: {
		bands: []band{
			{13, "Low stress"},
			{26, "Moderate stress"},
		},
		above: "Severe stress",
	},
}

// Interpret returns the qualitative label for a total on scale. It returns ""
// for an unknown scale.
func Interpret(scale Scale, total int) string {
	t, ok := bandTable[scale]
	if !ok {
		return ""
	}
	for _, b := range t.bands {
		if total <= b.upTo {
			return b.label
		}
	}
	return t.above
}

package services

import "github.com/prometheus/client_golang/prometheus"

var (
	// assessmentsRecorded counts stored results per instrument and band.
	// Both labels come from fixed tables, so cardinality is bounded.
	assessmentsRecorded = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "assessments_recorded_total",
			Help: "Assessment results stored, by scale and interpretation band.",
		},
		[]string{"scale", "interpretation"},
	)

	// contentRejections counts submissions refused by the blacklist, by the
	// field that matched.
	contentRejections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "content_rejections_total",
			Help: "User content rejected by the blacklist, by field.",
		},
		[]string{"field"},
	)
)

func init() {
	prometheus.MustRegister(assessmentsRecorded, contentRejections)
}

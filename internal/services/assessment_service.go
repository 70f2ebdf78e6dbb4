// Package services – AssessmentService
//
// This file implements AssessmentService, which turns a completed
// questionnaire session into a stored result. Scoring and interpretation are
// delegated to the assessment package; this layer only persists a result
// after assembly has fully succeeded, so a failed session leaves no trace.
//
// Observability: public methods are OpenTelemetry-instrumented and every
// stored result increments assessments_recorded_total once per instrument.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
	"github.com/tbourn/go-wellbeing-backend/internal/utils"
)

// AssessmentService scores and stores self-assessment sessions.
type AssessmentService struct {
	DB *gorm.DB
	// Clock stamps new results. Nil means sysutil.SystemClock.
	Clock sysutil.Clock
}

// Instruments returns the fixed instrument definitions in session order.
func (s *AssessmentService) Instruments() []assessment.Definition {
	return assessment.Definitions()
}

// Advance moves a questionnaire session one step forward. The session is
// held by the caller; nothing is stored until Submit.
func (s *AssessmentService) Advance(step assessment.Step, sess assessment.Session) (assessment.Step, error) {
	return assessment.Advance(step, sess)
}

// Submit builds a result from the three answer sets and stores it for
// userID. Assessment errors are returned unchanged and nothing is written.
func (s *AssessmentService) Submit(ctx context.Context, userID string, phq9, gad7, pss assessment.Answers) (*domain.AssessmentResult, error) {
	ctx, span := otel.Tracer("services/AssessmentService").Start(ctx, "Submit",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}

	res, err := assessment.BuildResult(s.Clock, phq9, gad7, pss)
	if err != nil {
		span.SetStatus(codes.Error, "invalid session")
		return nil, err
	}

	rec := &domain.AssessmentResult{
		UserID:             userID,
		PHQ9Total:          res.PHQ9Total,
		GAD7Total:          res.GAD7Total,
		PSSTotal:           res.PSSTotal,
		PHQ9Interpretation: res.PHQ9Interpretation,
		GAD7Interpretation: res.GAD7Interpretation,
		PSSInterpretation:  res.PSSInterpretation,
		Answers:            answersJSON(phq9, gad7, pss),
		CreatedAt:          res.CreatedAt,
	}
	if err := repo.CreateAssessmentResult(ctx, s.DB, rec); err != nil {
		span.RecordError(err)
		return nil, err
	}

	assessmentsRecorded.WithLabelValues(string(assessment.PHQ9), rec.PHQ9Interpretation).Inc()
	assessmentsRecorded.WithLabelValues(string(assessment.GAD7), rec.GAD7Interpretation).Inc()
	assessmentsRecorded.WithLabelValues(string(assessment.PSS), rec.PSSInterpretation).Inc()

	span.SetAttributes(attribute.String("result.id", rec.ID))
	return rec, nil
}

// Get returns one of userID's results.
func (s *AssessmentService) Get(ctx context.Context, userID, id string) (*domain.AssessmentResult, error) {
	ctx, span := otel.Tracer("services/AssessmentService").Start(ctx, "Get",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("result.id", id),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	r, err := repo.GetAssessmentResult(ctx, s.DB, id, userID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrResultNotFound
		}
		return nil, err
	}
	return r, nil
}

// ListPage returns a page of userID's results, newest first, and the total.
func (s *AssessmentService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AssessmentResult, int64, error) {
	ctx, span := otel.Tracer("services/AssessmentService").Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, 0, ErrUnauthenticated
	}
	offset, limit := utils.Window(page, pageSize)
	total, err := repo.CountAssessmentResults(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.AssessmentResult{}, 0, nil
	}
	items, err := repo.ListAssessmentResultsPage(ctx, s.DB, userID, offset, limit)
	return items, total, err
}

// ClearAll deletes every result owned by userID and reports how many were
// removed.
func (s *AssessmentService) ClearAll(ctx context.Context, userID string) (int64, error) {
	ctx, span := otel.Tracer("services/AssessmentService").Start(ctx, "ClearAll",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return 0, ErrUnauthenticated
	}
	n, err := repo.DeleteAssessmentResults(ctx, s.DB, userID)
	span.SetAttributes(attribute.Int64("results.deleted", n))
	return n, err
}

// Stats returns the count and newest timestamp of userID's results, used
// for list ETags.
func (s *AssessmentService) Stats(ctx context.Context, userID string) (int64, *time.Time, error) {
	return repo.AssessmentStats(ctx, s.DB, userID)
}

// answersJSON flattens the three answer sets into "<scale>.<key>" entries.
// Only keys declared by each instrument are kept; anything else the client
// sent was ignored for scoring and is not stored either.
func answersJSON(phq9, gad7, pss assessment.Answers) datatypes.JSONMap {
	out := make(datatypes.JSONMap, len(phq9)+len(gad7)+len(pss))
	for _, def := range assessment.Definitions() {
		set := map[assessment.Scale]assessment.Answers{
			assessment.PHQ9: phq9,
			assessment.GAD7: gad7,
			assessment.PSS:  pss,
		}[def.Scale]
		for _, k := range def.Keys() {
			if v, ok := set[k]; ok {
				out[string(def.Scale)+"."+string(k)] = int(v)
			}
		}
	}
	return out
}

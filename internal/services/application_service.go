// Package services – ApplicationService
//
// ApplicationService runs the moderation queue for organization and
// professional registrations. Status changes go through
// domain.CanTransition and a conditional update, so a decided application
// can never be decided again, even by two reviewers racing each other.
package services

import (
	"context"
	"errors"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
)

// ApplicationService handles registration applications.
type ApplicationService struct {
	DB *gorm.DB
	// Clock stamps review decisions. Nil means sysutil.SystemClock.
	Clock sysutil.Clock
}

// Submit queues a new application from userID.
func (s *ApplicationService) Submit(ctx context.Context, userID string, kind domain.ApplicationKind, name, details string) (*domain.Application, error) {
	ctx, span := otel.Tracer("services/ApplicationService").Start(ctx, "Submit",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("application.kind", string(kind)),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	if !kind.Valid() {
		return nil, ErrInvalidKind
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	return repo.CreateApplication(ctx, s.DB, userID, kind, name, strings.TrimSpace(details))
}

// ListByStatus returns the applications in status, oldest first.
func (s *ApplicationService) ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error) {
	if status == "" {
		status = domain.StatusPending
	}
	if !status.Valid() {
		return nil, ErrInvalidStatus
	}
	return repo.ListApplicationsByStatus(ctx, s.DB, status)
}

// Approve accepts a pending application. Approving an organization
// application also creates its Organization in the same transaction; the
// returned organization is nil for professional applications.
func (s *ApplicationService) Approve(ctx context.Context, reviewerID, id string) (*domain.Application, *domain.Organization, error) {
	ctx, span := otel.Tracer("services/ApplicationService").Start(ctx, "Approve",
		trace.WithAttributes(
			attribute.String("reviewer.id", reviewerID),
			attribute.String("application.id", id),
		),
	)
	defer span.End()

	var (
		app *domain.Application
		org *domain.Organization
	)
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = s.decide(ctx, tx, reviewerID, id, domain.StatusApproved)
		if err != nil {
			return err
		}
		if app.Kind == domain.KindOrganization {
			org, err = repo.CreateOrganization(ctx, tx, app)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return app, org, nil
}

// Reject declines a pending application.
func (s *ApplicationService) Reject(ctx context.Context, reviewerID, id string) (*domain.Application, error) {
	ctx, span := otel.Tracer("services/ApplicationService").Start(ctx, "Reject",
		trace.WithAttributes(
			attribute.String("reviewer.id", reviewerID),
			attribute.String("application.id", id),
		),
	)
	defer span.End()

	var app *domain.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		app, err = s.decide(ctx, tx, reviewerID, id, domain.StatusRejected)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

// decide applies a status transition inside tx and returns the updated row.
func (s *ApplicationService) decide(ctx context.Context, tx *gorm.DB, reviewerID, id string, to domain.ApplicationStatus) (*domain.Application, error) {
	if strings.TrimSpace(reviewerID) == "" {
		return nil, ErrUnauthenticated
	}
	app, err := repo.GetApplication(ctx, tx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	if !domain.CanTransition(app.Status, to) {
		return nil, ErrInvalidTransition
	}

	at := sysutil.NowFrom(s.Clock)
	if err := repo.SetApplicationStatus(ctx, tx, id, to, reviewerID, at); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			// Someone else decided it between our read and write.
			return nil, ErrInvalidTransition
		}
		return nil, err
	}

	app.Status = to
	app.ReviewerID = &reviewerID
	app.ReviewedAt = &at
	app.UpdatedAt = at
	return app, nil
}

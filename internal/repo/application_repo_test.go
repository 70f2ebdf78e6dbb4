package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

func TestApplications_Lifecycle(t *testing.T) {
	db := newTestDB(t, &domain.Application{}, &domain.Organization{})
	ctx := context.Background()

	a, err := CreateApplication(ctx, db, "u1", domain.KindOrganization, "Helpline", "24/7 support")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if a.Status != domain.StatusPending {
		t.Fatalf("new application status = %q", a.Status)
	}
	if _, err := CreateApplication(ctx, db, "u2", domain.KindProfessional, "Dr. X", ""); err != nil {
		t.Fatalf("create 2: %v", err)
	}

	pending, err := ListApplicationsByStatus(ctx, db, domain.StatusPending)
	if err != nil || len(pending) != 2 || pending[0].ID != a.ID {
		t.Fatalf("pending = (%+v, %v)", pending, err)
	}

	at := time.Now().UTC()
	if err := SetApplicationStatus(ctx, db, a.ID, domain.StatusApproved, "admin", at); err != nil {
		t.Fatalf("approve: %v", err)
	}
	// Decided applications cannot be decided again.
	if err := SetApplicationStatus(ctx, db, a.ID, domain.StatusRejected, "admin", at); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second decision, got %v", err)
	}

	got, err := GetApplication(ctx, db, a.ID)
	if err != nil || got.Status != domain.StatusApproved || got.ReviewerID == nil || *got.ReviewerID != "admin" || got.ReviewedAt == nil {
		t.Fatalf("get = (%+v, %v)", got, err)
	}

	org, err := CreateOrganization(ctx, db, got)
	if err != nil || org.ApplicationID != a.ID || org.OwnerID != "u1" || org.Name != "Helpline" {
		t.Fatalf("org = (%+v, %v)", org, err)
	}
	if _, err := CreateOrganization(ctx, db, got); !errors.Is(err, ErrDuplicate) {
		t.Fatalf("expected ErrDuplicate for second organization, got %v", err)
	}

	if approved, _ := ListApplicationsByStatus(ctx, db, domain.StatusApproved); len(approved) != 1 {
		t.Fatalf("approved = %d", len(approved))
	}
}

func TestGetApplication_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.Application{})
	if _, err := GetApplication(context.Background(), db, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

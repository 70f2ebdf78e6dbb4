package repo

import (
	"context"
	"errors"
	"testing"
	"time"

	"gorm.io/datatypes"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

func sampleResult(userID string, at time.Time) *domain.AssessmentResult {
	return &domain.AssessmentResult{
		UserID:             userID,
		PHQ9Total:          4,
		GAD7Total:          6,
		PSSTotal:           13,
		PHQ9Interpretation: "Minimal depression",
		GAD7Interpretation: "Mild anxiety",
		PSSInterpretation:  "Low stress",
		Answers:            datatypes.JSONMap{"phq9.littleInterest": 1},
		CreatedAt:          at,
	}
}

func TestCreateAssessmentResult_AssignsIDAndKeepsTime(t *testing.T) {
	db := newTestDB(t, &domain.AssessmentResult{})
	ctx := context.Background()

	at := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	r := sampleResult("u1", at)
	if err := CreateAssessmentResult(ctx, db, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if r.ID == "" {
		t.Fatalf("expected ID to be assigned")
	}

	got, err := GetAssessmentResult(ctx, db, r.ID, "u1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.CreatedAt.Equal(at) || got.PSSTotal != 13 || got.GAD7Interpretation != "Mild anxiety" {
		t.Fatalf("unexpected row: %+v", got)
	}
}

func TestGetAssessmentResult_OtherUser_NotFound(t *testing.T) {
	db := newTestDB(t, &domain.AssessmentResult{})
	ctx := context.Background()

	r := sampleResult("u1", time.Now().UTC())
	if err := CreateAssessmentResult(ctx, db, r); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := GetAssessmentResult(ctx, db, r.ID, "u2"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListAssessmentResultsPage_NewestFirst(t *testing.T) {
	db := newTestDB(t, &domain.AssessmentResult{})
	ctx := context.Background()

	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var ids []string
	for i := 0; i < 5; i++ {
		r := sampleResult("u1", base.Add(time.Duration(i)*time.Hour))
		if err := CreateAssessmentResult(ctx, db, r); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
		ids = append(ids, r.ID)
	}

	total, err := CountAssessmentResults(ctx, db, "u1")
	if err != nil || total != 5 {
		t.Fatalf("count = (%d, %v)", total, err)
	}

	page, err := ListAssessmentResultsPage(ctx, db, "u1", 1, 2)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(page) != 2 || page[0].ID != ids[3] || page[1].ID != ids[2] {
		t.Fatalf("unexpected page order: %+v", page)
	}
}

func TestDeleteAssessmentResults_OnlyOwner(t *testing.T) {
	db := newTestDB(t, &domain.AssessmentResult{})
	ctx := context.Background()

	for _, u := range []string{"u1", "u1", "u2"} {
		if err := CreateAssessmentResult(ctx, db, sampleResult(u, time.Now().UTC())); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	n, err := DeleteAssessmentResults(ctx, db, "u1")
	if err != nil || n != 2 {
		t.Fatalf("delete = (%d, %v); want (2, nil)", n, err)
	}
	if left, _ := CountAssessmentResults(ctx, db, "u2"); left != 1 {
		t.Fatalf("other user's results touched: %d left", left)
	}

	n, err = DeleteAssessmentResults(ctx, db, "u1")
	if err != nil || n != 0 {
		t.Fatalf("second delete = (%d, %v); want (0, nil)", n, err)
	}
}

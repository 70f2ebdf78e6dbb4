// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for stored
// assessment results.
//
// Results are append-only: there is no update path. The only destructive
// operation removes every result for one user at once.
package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// ErrNotFound is returned when a requested record does not exist.
// It aliases gorm.ErrRecordNotFound for convenience and consistency
// across the service layer and handlers.
var ErrNotFound = gorm.ErrRecordNotFound

// CreateAssessmentResult inserts r, assigning a UUID when r.ID is empty.
// CreatedAt is kept as provided so the stored time is the assembly time.
func CreateAssessmentResult(ctx context.Context, db *gorm.DB, r *domain.AssessmentResult) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return db.WithContext(ctx).Create(r).Error
}

// GetAssessmentResult fetches a single result by ID and owner. It returns
// ErrNotFound if the row is missing or owned by someone else.
func GetAssessmentResult(ctx context.Context, db *gorm.DB, id, userID string) (*domain.AssessmentResult, error) {
	var r domain.AssessmentResult
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountAssessmentResults returns the number of results stored for userID.
func CountAssessmentResults(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.AssessmentResult{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListAssessmentResultsPage returns a page of results for userID, newest first.
func ListAssessmentResultsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.AssessmentResult, error) {
	var out []domain.AssessmentResult
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// DeleteAssessmentResults removes every result owned by userID and returns
// how many rows were deleted. Deleting an empty history is not an error.
func DeleteAssessmentResults(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	res := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&domain.AssessmentResult{})
	return res.RowsAffected, res.Error
}

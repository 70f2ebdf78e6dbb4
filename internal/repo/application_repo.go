package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// CreateApplication inserts a pending application.
func CreateApplication(ctx context.Context, db *gorm.DB, userID string, kind domain.ApplicationKind, name, details string) (*domain.Application, error) {
	now := time.Now().UTC()
	a := &domain.Application{
		ID:        uuid.NewString(),
		UserID:    userID,
		Kind:      kind,
		Name:      name,
		Details:   details,
		Status:    domain.StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(a).Error; err != nil {
		return nil, err
	}
	return a, nil
}

// GetApplication fetches an application by ID.
func GetApplication(ctx context.Context, db *gorm.DB, id string) (*domain.Application, error) {
	var a domain.Application
	if err := db.WithContext(ctx).Where("id = ?", id).First(&a).Error; err != nil {
		return nil, err
	}
	return &a, nil
}

// ListApplicationsByStatus returns applications in the given status, oldest
// first so the moderation queue is processed in arrival order.
func ListApplicationsByStatus(ctx context.Context, db *gorm.DB, status domain.ApplicationStatus) ([]domain.Application, error) {
	var out []domain.Application
	err := db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at asc").
		Find(&out).Error
	return out, err
}

// SetApplicationStatus moves a pending application to status. The update is
// conditional on the row still being pending, so two concurrent reviewers
// cannot both decide it; the loser gets ErrNotFound.
func SetApplicationStatus(ctx context.Context, db *gorm.DB, id string, status domain.ApplicationStatus, reviewerID string, at time.Time) error {
	res := db.WithContext(ctx).
		Model(&domain.Application{}).
		Where("id = ? AND status = ?", id, domain.StatusPending).
		Updates(map[string]any{
			"status":      status,
			"reviewer_id": reviewerID,
			"reviewed_at": at,
			"updated_at":  at,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CreateOrganization inserts the organization backing an approved application.
func CreateOrganization(ctx context.Context, db *gorm.DB, app *domain.Application) (*domain.Organization, error) {
	o := &domain.Organization{
		ID:            uuid.NewString(),
		ApplicationID: app.ID,
		OwnerID:       app.UserID,
		Name:          app.Name,
		Details:       app.Details,
		CreatedAt:     time.Now().UTC(),
	}
	if err := db.WithContext(ctx).Create(o).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return o, nil
}

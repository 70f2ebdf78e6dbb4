package repo

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// ListBlacklist returns every blacklist entry ordered by word.
func ListBlacklist(ctx context.Context, db *gorm.DB) ([]domain.BlacklistEntry, error) {
	var out []domain.BlacklistEntry
	err := db.WithContext(ctx).Order("word asc").Find(&out).Error
	return out, err
}

// ListBlacklistWords returns only the words, ordered by word. This is the
// query run before every content check.
func ListBlacklistWords(ctx context.Context, db *gorm.DB) ([]string, error) {
	var out []string
	err := db.WithContext(ctx).
		Model(&domain.BlacklistEntry{}).
		Order("word asc").
		Pluck("word", &out).Error
	return out, err
}

// CreateBlacklistEntry stores a new word. It returns ErrDuplicate when the
// word is already present.
func CreateBlacklistEntry(ctx context.Context, db *gorm.DB, word, description string) (*domain.BlacklistEntry, error) {
	e := &domain.BlacklistEntry{
		ID:          uuid.NewString(),
		Word:        word,
		Description: description,
	}
	if err := db.WithContext(ctx).Create(e).Error; err != nil {
		if isUniqueViolation(err) {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return e, nil
}

// UpdateBlacklistEntry replaces the word and description of an entry.
// It returns ErrNotFound if id does not exist and ErrDuplicate if the new
// word collides with another entry.
func UpdateBlacklistEntry(ctx context.Context, db *gorm.DB, id, word, description string) error {
	res := db.WithContext(ctx).
		Model(&domain.BlacklistEntry{}).
		Where("id = ?", id).
		Updates(map[string]any{"word": word, "description": description})
	if res.Error != nil {
		if isUniqueViolation(res.Error) {
			return ErrDuplicate
		}
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBlacklistEntry removes an entry by id, or returns ErrNotFound.
func DeleteBlacklistEntry(ctx context.Context, db *gorm.DB, id string) error {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.BlacklistEntry{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

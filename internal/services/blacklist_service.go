// Package services – BlacklistService
//
// BlacklistService is the admin surface over the stored blacklist. Words are
// normalized the same way the content guard normalizes them, so what an
// admin sees in the list is exactly what submissions are matched against.
package services

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
)

// BlacklistRepo defines the repository contract required by BlacklistService.
type BlacklistRepo interface {
	ListBlacklist(ctx context.Context, db *gorm.DB) ([]domain.BlacklistEntry, error)
	CreateBlacklistEntry(ctx context.Context, db *gorm.DB, word, description string) (*domain.BlacklistEntry, error)
	UpdateBlacklistEntry(ctx context.Context, db *gorm.DB, id, word, description string) error
	DeleteBlacklistEntry(ctx context.Context, db *gorm.DB, id string) error
}

// BlacklistService manages blacklist entries.
type BlacklistService struct {
	DB   *gorm.DB
	Repo BlacklistRepo
}

// NewBlacklistService constructs a BlacklistService backed by the repo
// package's free functions.
func NewBlacklistService(db *gorm.DB) *BlacklistService {
	return &BlacklistService{DB: db, Repo: StoreBlacklistRepo{}}
}

// List returns all entries ordered by word.
func (s *BlacklistService) List(ctx context.Context) ([]domain.BlacklistEntry, error) {
	return s.Repo.ListBlacklist(ctx, s.DB)
}

// Create adds a word. Blank words yield ErrEmptyWord; existing words yield
// ErrDuplicateWord.
func (s *BlacklistService) Create(ctx context.Context, word, description string) (*domain.BlacklistEntry, error) {
	word = contentguard.NormalizeWord(word)
	if word == "" {
		return nil, ErrEmptyWord
	}
	e, err := s.Repo.CreateBlacklistEntry(ctx, s.DB, word, strings.TrimSpace(description))
	if errors.Is(err, repo.ErrDuplicate) {
		return nil, ErrDuplicateWord
	}
	return e, err
}

// Update replaces an entry's word and description.
func (s *BlacklistService) Update(ctx context.Context, id, word, description string) error {
	word = contentguard.NormalizeWord(word)
	if word == "" {
		return ErrEmptyWord
	}
	err := s.Repo.UpdateBlacklistEntry(ctx, s.DB, id, word, strings.TrimSpace(description))
	switch {
	case errors.Is(err, repo.ErrDuplicate):
		return ErrDuplicateWord
	case errors.Is(err, repo.ErrNotFound):
		return ErrEntryNotFound
	}
	return err
}

// Delete removes an entry.
func (s *BlacklistService) Delete(ctx context.Context, id string) error {
	err := s.Repo.DeleteBlacklistEntry(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return ErrEntryNotFound
	}
	return err
}

// StoreBlacklistRepo adapts the repo package's free functions to BlacklistRepo.
type StoreBlacklistRepo struct{}

func (StoreBlacklistRepo) ListBlacklist(ctx context.Context, db *gorm.DB) ([]domain.BlacklistEntry, error) {
	return repo.ListBlacklist(ctx, db)
}

func (StoreBlacklistRepo) CreateBlacklistEntry(ctx context.Context, db *gorm.DB, word, description string) (*domain.BlacklistEntry, error) {
	return repo.CreateBlacklistEntry(ctx, db, word, description)
}

func (StoreBlacklistRepo) UpdateBlacklistEntry(ctx context.Context, db *gorm.DB, id, word, description string) error {
	return repo.UpdateBlacklistEntry(ctx, db, id, word, description)
}

func (StoreBlacklistRepo) DeleteBlacklistEntry(ctx context.Context, db *gorm.DB, id string) error {
	return repo.DeleteBlacklistEntry(ctx, db, id)
}

package services

import (
	"context"
	"errors"
	"testing"

	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
)

// ----- Fake repo -----

type fakeBlacklistRepo struct {
	createWord, createDesc string
	createErr              error

	updateID, updateWord string
	updateErr            error

	deleteErr error
}

func (r *fakeBlacklistRepo) ListBlacklist(ctx context.Context, db *gorm.DB) ([]domain.BlacklistEntry, error) {
	return []domain.BlacklistEntry{{ID: "b1", Word: "bad"}}, nil
}

func (r *fakeBlacklistRepo) CreateBlacklistEntry(ctx context.Context, db *gorm.DB, word, description string) (*domain.BlacklistEntry, error) {
	r.createWord, r.createDesc = word, description
	if r.createErr != nil {
		return nil, r.createErr
	}
	return &domain.BlacklistEntry{ID: "b2", Word: word, Description: description}, nil
}

func (r *fakeBlacklistRepo) UpdateBlacklistEntry(ctx context.Context, db *gorm.DB, id, word, description string) error {
	r.updateID, r.updateWord = id, word
	return r.updateErr
}

func (r *fakeBlacklistRepo) DeleteBlacklistEntry(ctx context.Context, db *gorm.DB, id string) error {
	return r.deleteErr
}

func TestBlacklistService_Create_Normalizes(t *testing.T) {
	fr := &fakeBlacklistRepo{}
	svc := &BlacklistService{Repo: fr}

	e, err := svc.Create(context.Background(), "  SpAm ", "  ads ")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if fr.createWord != "spam" || fr.createDesc != "ads" || e.Word != "spam" {
		t.Fatalf("word not normalized: repo got %q/%q", fr.createWord, fr.createDesc)
	}
}

func TestBlacklistService_Create_Blank(t *testing.T) {
	fr := &fakeBlacklistRepo{}
	svc := &BlacklistService{Repo: fr}
	if _, err := svc.Create(context.Background(), "   ", ""); !errors.Is(err, ErrEmptyWord) {
		t.Fatalf("expected ErrEmptyWord, got %v", err)
	}
	if fr.createWord != "" {
		t.Fatalf("repo must not be called for blank words")
	}
}

func TestBlacklistService_ErrorMapping(t *testing.T) {
	ctx := context.Background()
	boom := errors.New("boom")

	svc := &BlacklistService{Repo: &fakeBlacklistRepo{createErr: repo.ErrDuplicate}}
	if _, err := svc.Create(ctx, "bad", ""); !errors.Is(err, ErrDuplicateWord) {
		t.Fatalf("Create duplicate: got %v", err)
	}

	svc = &BlacklistService{Repo: &fakeBlacklistRepo{updateErr: repo.ErrNotFound}}
	if err := svc.Update(ctx, "x", "bad", ""); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Update missing: got %v", err)
	}
	svc = &BlacklistService{Repo: &fakeBlacklistRepo{updateErr: repo.ErrDuplicate}}
	if err := svc.Update(ctx, "x", "bad", ""); !errors.Is(err, ErrDuplicateWord) {
		t.Fatalf("Update duplicate: got %v", err)
	}
	svc = &BlacklistService{Repo: &fakeBlacklistRepo{updateErr: boom}}
	if err := svc.Update(ctx, "x", "bad", ""); !errors.Is(err, boom) {
		t.Fatalf("Update store error: got %v", err)
	}
	if err := svc.Update(ctx, "x", " ", ""); !errors.Is(err, ErrEmptyWord) {
		t.Fatalf("Update blank: got %v", err)
	}

	svc = &BlacklistService{Repo: &fakeBlacklistRepo{deleteErr: repo.ErrNotFound}}
	if err := svc.Delete(ctx, "x"); !errors.Is(err, ErrEntryNotFound) {
		t.Fatalf("Delete missing: got %v", err)
	}
}

func TestBlacklistService_WithStore(t *testing.T) {
	db := newSvcDB(t)
	svc := NewBlacklistService(db)
	ctx := context.Background()

	e, err := svc.Create(ctx, "Spam", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if _, err := svc.Create(ctx, " SPAM ", ""); !errors.Is(err, ErrDuplicateWord) {
		t.Fatalf("expected ErrDuplicateWord for case variant, got %v", err)
	}
	if err := svc.Update(ctx, e.ID, "scam", "fraud"); err != nil {
		t.Fatalf("Update: %v", err)
	}
	list, err := svc.List(ctx)
	if err != nil || len(list) != 1 || list[0].Word != "scam" {
		t.Fatalf("List = (%+v, %v)", list, err)
	}
	if err := svc.Delete(ctx, e.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
}

// Package handlers exposes the REST surface over the services package.
//
// Handlers are transport-thin: they bind and validate input, call a service
// through the narrow interfaces below, and map results and errors onto HTTP.
// Identity comes from middleware.UserID; routes that need it sit behind
// middleware.RequireUser or RequireRole.
package handlers

import (
	"context"
	"time"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// AssessmentService scores and stores self-assessments.
type AssessmentService interface {
	Instruments() []assessment.Definition
	Advance(step assessment.Step, sess assessment.Session) (assessment.Step, error)
	Submit(ctx context.Context, userID string, phq9, gad7, pss assessment.Answers) (*domain.AssessmentResult, error)
	Get(ctx context.Context, userID, id string) (*domain.AssessmentResult, error)
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.AssessmentResult, int64, error)
	ClearAll(ctx context.Context, userID string) (int64, error)
	Stats(ctx context.Context, userID string) (int64, *time.Time, error)
}

// ForumService manages community content and screens it.
type ForumService interface {
	Check(ctx context.Context, title, body string) error
	CreateForum(ctx context.Context, userID, title, body string) (*domain.Forum, error)
	GetForum(ctx context.Context, id string) (*domain.Forum, error)
	ListForums(ctx context.Context, page, pageSize int) ([]domain.Forum, int64, error)
	CreatePost(ctx context.Context, userID, forumID, title, content string) (*domain.Post, error)
	GetPost(ctx context.Context, id string) (*domain.Post, error)
	UpdatePost(ctx context.Context, userID, postID, title, content string) (*domain.Post, error)
	ListPosts(ctx context.Context, forumID string, page, pageSize int) ([]domain.Post, int64, error)
	PostStats(ctx context.Context, forumID string) (int64, *time.Time, error)
	CreateComment(ctx context.Context, userID, postID, content string) (*domain.Comment, error)
	ListComments(ctx context.Context, postID string, page, pageSize int) ([]domain.Comment, int64, error)
}

// BlacklistService is the admin surface over blacklisted words.
type BlacklistService interface {
	List(ctx context.Context) ([]domain.BlacklistEntry, error)
	Create(ctx context.Context, word, description string) (*domain.BlacklistEntry, error)
	Update(ctx context.Context, id, word, description string) error
	Delete(ctx context.Context, id string) error
}

// ApplicationService runs the organization/professional moderation queue.
type ApplicationService interface {
	Submit(ctx context.Context, userID string, kind domain.ApplicationKind, name, details string) (*domain.Application, error)
	ListByStatus(ctx context.Context, status domain.ApplicationStatus) ([]domain.Application, error)
	Approve(ctx context.Context, reviewerID, id string) (*domain.Application, *domain.Organization, error)
	Reject(ctx context.Context, reviewerID, id string) (*domain.Application, error)
}

// IdempotencyStore resolves and records Idempotency-Key outcomes.
type IdempotencyStore interface {
	Find(ctx context.Context, userID, scope, key string) (resourceID string, ok bool, err error)
	Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error
}

// Deps bundles the services the handlers depend on. Idempotency may be nil,
// which disables replay.
type Deps struct {
	Assessments  AssessmentService
	Forums       ForumService
	Blacklist    BlacklistService
	Applications ApplicationService
	Idempotency  IdempotencyStore
}

// Handlers groups every HTTP endpoint.
type Handlers struct {
	assessments  AssessmentService
	forums       ForumService
	blacklist    BlacklistService
	applications ApplicationService
	idem         IdempotencyStore
}

// New constructs Handlers bound to d.
func New(d Deps) *Handlers {
	return &Handlers{
		assessments:  d.Assessments,
		forums:       d.Forums,
		blacklist:    d.Blacklist,
		applications: d.Applications,
		idem:         d.Idempotency,
	}
}

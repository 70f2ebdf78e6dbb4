// Package services – ForumService
//
// ForumService owns forums, posts, and comments. Every create or update
// fetches the current blacklist from the store immediately before checking
// the text, so a word added by an admin applies to the very next
// submission. Only the compiled patterns are memoized, keyed by the fetched
// word list (see contentguard.Cache).
package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/utils"
)

// ForumService coordinates community content and its blacklist checks.
type ForumService struct {
	DB *gorm.DB
	// Guard memoizes compiled blacklist patterns. Nil compiles per call.
	Guard *contentguard.Cache

	// Optional guards; zero disables.
	MaxTitleRunes int
	MaxBodyRunes  int
}

// Check validates a title/body pair against the current blacklist without
// storing anything.
func (s *ForumService) Check(ctx context.Context, title, body string) error {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "Check")
	defer span.End()
	return s.screen(ctx, title, body)
}

// CreateForum creates a forum owned by userID.
func (s *ForumService) CreateForum(ctx context.Context, userID, title, body string) (*domain.Forum, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "CreateForum",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	title, body, err := s.prepare(title, body, true)
	if err != nil {
		return nil, err
	}
	if err := s.screen(ctx, title, body); err != nil {
		return nil, err
	}
	return repo.CreateForum(ctx, s.DB, userID, title, body)
}

// GetForum returns a forum by ID.
func (s *ForumService) GetForum(ctx context.Context, id string) (*domain.Forum, error) {
	f, err := repo.GetForum(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrForumNotFound
	}
	return f, err
}

// ListForums returns a page of forums and the total count.
func (s *ForumService) ListForums(ctx context.Context, page, pageSize int) ([]domain.Forum, int64, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "ListForums",
		trace.WithAttributes(attribute.Int("page", page), attribute.Int("page_size", pageSize)),
	)
	defer span.End()

	offset, limit := utils.Window(page, pageSize)
	total, err := repo.CountForums(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Forum{}, 0, nil
	}
	items, err := repo.ListForumsPage(ctx, s.DB, offset, limit)
	return items, total, err
}

// CreatePost adds a post to forumID.
func (s *ForumService) CreatePost(ctx context.Context, userID, forumID, title, content string) (*domain.Post, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "CreatePost",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("forum.id", forumID),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	title, content, err := s.prepare(title, content, true)
	if err != nil {
		return nil, err
	}
	if _, err := s.GetForum(ctx, forumID); err != nil {
		return nil, err
	}
	if err := s.screen(ctx, title, content); err != nil {
		return nil, err
	}
	return repo.CreatePost(ctx, s.DB, forumID, userID, title, content)
}

// GetPost returns a post by ID.
func (s *ForumService) GetPost(ctx context.Context, id string) (*domain.Post, error) {
	p, err := repo.GetPost(ctx, s.DB, id)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, ErrPostNotFound
	}
	return p, err
}

// UpdatePost edits a post. Only the author may edit; the new text is
// screened exactly like a new post.
func (s *ForumService) UpdatePost(ctx context.Context, userID, postID, title, content string) (*domain.Post, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "UpdatePost",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("post.id", postID),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	title, content, err := s.prepare(title, content, true)
	if err != nil {
		return nil, err
	}
	p, err := repo.GetPost(ctx, s.DB, postID)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if p.AuthorID != userID {
		return nil, ErrForbidden
	}
	if err := s.screen(ctx, title, content); err != nil {
		return nil, err
	}
	if err := repo.UpdatePost(ctx, s.DB, postID, userID, title, content); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	return repo.GetPost(ctx, s.DB, postID)
}

// ListPosts returns a page of posts in forumID and the total count.
func (s *ForumService) ListPosts(ctx context.Context, forumID string, page, pageSize int) ([]domain.Post, int64, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "ListPosts",
		trace.WithAttributes(
			attribute.String("forum.id", forumID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if _, err := s.GetForum(ctx, forumID); err != nil {
		return nil, 0, err
	}
	offset, limit := utils.Window(page, pageSize)
	total, err := repo.CountPosts(ctx, s.DB, forumID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Post{}, 0, nil
	}
	items, err := repo.ListPostsPage(ctx, s.DB, forumID, offset, limit)
	return items, total, err
}

// PostStats returns the post count and newest UpdatedAt in forumID, used
// for list ETags.
func (s *ForumService) PostStats(ctx context.Context, forumID string) (int64, *time.Time, error) {
	return repo.PostsStats(ctx, s.DB, forumID)
}

// CreateComment replies to postID. Comments have no title.
func (s *ForumService) CreateComment(ctx context.Context, userID, postID, content string) (*domain.Comment, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "CreateComment",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("post.id", postID),
		),
	)
	defer span.End()

	if strings.TrimSpace(userID) == "" {
		return nil, ErrUnauthenticated
	}
	_, content, err := s.prepare("", content, false)
	if err != nil {
		return nil, err
	}
	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrPostNotFound
		}
		return nil, err
	}
	if err := s.screen(ctx, "", content); err != nil {
		return nil, err
	}
	return repo.CreateComment(ctx, s.DB, postID, userID, content)
}

// ListComments returns a page of comments on postID, oldest first.
func (s *ForumService) ListComments(ctx context.Context, postID string, page, pageSize int) ([]domain.Comment, int64, error) {
	ctx, span := otel.Tracer("services/ForumService").Start(ctx, "ListComments",
		trace.WithAttributes(attribute.String("post.id", postID)),
	)
	defer span.End()

	if _, err := repo.GetPost(ctx, s.DB, postID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, 0, ErrPostNotFound
		}
		return nil, 0, err
	}
	offset, limit := utils.Window(page, pageSize)
	total, err := repo.CountComments(ctx, s.DB, postID)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.Comment{}, 0, nil
	}
	items, err := repo.ListCommentsPage(ctx, s.DB, postID, offset, limit)
	return items, total, err
}

// prepare trims and length-checks text. When withTitle is false the title
// is ignored.
func (s *ForumService) prepare(title, body string, withTitle bool) (string, string, error) {
	title, body = strings.TrimSpace(title), strings.TrimSpace(body)
	if withTitle {
		if title == "" {
			return "", "", ErrEmptyTitle
		}
		if s.MaxTitleRunes > 0 && utf8.RuneCountInString(title) > s.MaxTitleRunes {
			return "", "", ErrTooLong
		}
	}
	if body == "" {
		return "", "", ErrEmptyBody
	}
	if s.MaxBodyRunes > 0 && utf8.RuneCountInString(body) > s.MaxBodyRunes {
		return "", "", ErrTooLong
	}
	return title, body, nil
}

// screen fetches the blacklist and validates title then body against it.
// Store failures are returned as-is; content is never accepted unchecked.
func (s *ForumService) screen(ctx context.Context, title, body string) error {
	words, err := repo.ListBlacklistWords(ctx, s.DB)
	if err != nil {
		return err
	}

	var m *contentguard.Matcher
	if s.Guard != nil {
		m, err = s.Guard.Matcher(words)
	} else {
		m, err = contentguard.NewMatcher(words)
	}
	if err != nil {
		return err
	}

	if err := m.Validate(title, body); err != nil {
		var rej *contentguard.RejectedError
		if errors.As(err, &rej) {
			contentRejections.WithLabelValues(rej.Field).Inc()
			trace.SpanFromContext(ctx).SetAttributes(attribute.String("content.rejected_field", rej.Field))
		}
		return err
	}
	return nil
}

// Package services – IdempotencyService
//
// IdempotencyService remembers which resource a client's Idempotency-Key
// produced so a retried create returns the original resource instead of a
// second one. Keys are namespaced by (user, scope) and expire after TTL.
package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/sysutil"
)

// DefaultIdempotencyTTL applies when IdempotencyService.TTL is zero.
const DefaultIdempotencyTTL = 24 * time.Hour

// IdempotencyService stores and resolves idempotency keys.
type IdempotencyService struct {
	DB    *gorm.DB
	TTL   time.Duration
	Clock sysutil.Clock
}

func (s *IdempotencyService) now() time.Time { return sysutil.NowFrom(s.Clock) }

// Exists reports whether an unexpired record is stored. It matches
// middleware.IdempotencyLookup.
func (s *IdempotencyService) Exists(ctx context.Context, userID, scope, key string, now time.Time) (bool, error) {
	_, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, now)
	if errors.Is(err, repo.ErrNotFound) {
		return false, nil
	}
	return err == nil, err
}

// Find returns the resource ID stored for the key, or ok=false.
func (s *IdempotencyService) Find(ctx context.Context, userID, scope, key string) (resourceID string, ok bool, err error) {
	if strings.TrimSpace(userID) == "" {
		return "", false, nil
	}
	rec, err := repo.GetIdempotency(ctx, s.DB, userID, scope, key, s.now())
	if errors.Is(err, repo.ErrNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return rec.ResourceID, true, nil
}

// Remember records that key produced resourceID with status. A concurrent
// request that stored the same key first wins; that is not an error.
func (s *IdempotencyService) Remember(ctx context.Context, userID, scope, key, resourceID string, status int) error {
	ctx, span := otel.Tracer("services/IdempotencyService").Start(ctx, "Remember",
		trace.WithAttributes(attribute.String("idempotency.scope", scope)),
	)
	defer span.End()

	ttl := s.TTL
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	_, err := repo.CreateIdempotency(ctx, s.DB, userID, scope, key, resourceID, status, ttl)
	if errors.Is(err, repo.ErrDuplicate) {
		return nil
	}
	return err
}

// Purge deletes expired records and reports how many were removed.
func (s *IdempotencyService) Purge(ctx context.Context) (int64, error) {
	ctx, span := otel.Tracer("services/IdempotencyService").Start(ctx, "Purge")
	defer span.End()

	n, err := repo.PurgeExpiredIdempotency(ctx, s.DB, s.now())
	span.SetAttributes(attribute.Int64("idempotency.purged", n))
	return n, err
}

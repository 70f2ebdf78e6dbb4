// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides small aggregate/statistics queries used
// primarily for conditional responses (e.g., ETag generation) in the HTTP
// layer.
package repo

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// AssessmentStats returns the number of results stored for userID and the
// newest CreatedAt among them. Results are immutable, so the pair changes
// exactly when a result is added or the history is cleared.
//
// When the user has no results, count is 0 and latest is nil.
func AssessmentStats(ctx context.Context, db *gorm.DB, userID string) (count int64, latest *time.Time, err error) {
	return latestStats(db.WithContext(ctx).Model(&domain.AssessmentResult{}).Where("user_id = ?", userID), "created_at")
}

// PostsStats returns the number of live posts in a forum and the greatest
// UpdatedAt among them.
func PostsStats(ctx context.Context, db *gorm.DB, forumID string) (count int64, latest *time.Time, err error) {
	return latestStats(db.WithContext(ctx).Model(&domain.Post{}).Where("forum_id = ?", forumID), "updated_at")
}

// latestStats counts q and reads the greatest value of col.
func latestStats(q *gorm.DB, col string) (int64, *time.Time, error) {
	var count int64
	if err := q.Session(&gorm.Session{}).Count(&count).Error; err != nil {
		return 0, nil, err
	}
	if count == 0 {
		return 0, nil, nil
	}

	// Avoid MAX() -> TEXT in SQLite.
	var row struct {
		At time.Time
	}
	if err := q.Session(&gorm.Session{}).Select(col + " AS at").Order(col + " DESC").Limit(1).Scan(&row).Error; err != nil {
		return 0, nil, err
	}
	return count, &row.At, nil
}

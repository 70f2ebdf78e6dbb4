// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for forums, posts
// and comments.
//
// Content checks are not performed here; callers validate text before any
// create or update reaches the store.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// CreateForum inserts a forum owned by ownerID.
func CreateForum(ctx context.Context, db *gorm.DB, ownerID, title, body string) (*domain.Forum, error) {
	now := time.Now().UTC()
	f := &domain.Forum{
		ID:        uuid.NewString(),
		OwnerID:   ownerID,
		Title:     title,
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(f).Error; err != nil {
		return nil, err
	}
	return f, nil
}

// GetForum fetches a forum by ID.
func GetForum(ctx context.Context, db *gorm.DB, id string) (*domain.Forum, error) {
	var f domain.Forum
	if err := db.WithContext(ctx).Where("id = ?", id).First(&f).Error; err != nil {
		return nil, err
	}
	return &f, nil
}

// CountForums returns the number of live forums.
func CountForums(ctx context.Context, db *gorm.DB) (int64, error) {
	var total int64
	err := db.WithContext(ctx).Model(&domain.Forum{}).Count(&total).Error
	return total, err
}

// ListForumsPage returns a page of forums, newest first.
func ListForumsPage(ctx context.Context, db *gorm.DB, offset, limit int) ([]domain.Forum, error) {
	var out []domain.Forum
	err := db.WithContext(ctx).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreatePost inserts a post into forumID.
func CreatePost(ctx context.Context, db *gorm.DB, forumID, authorID, title, content string) (*domain.Post, error) {
	now := time.Now().UTC()
	p := &domain.Post{
		ID:        uuid.NewString(),
		ForumID:   forumID,
		AuthorID:  authorID,
		Title:     title,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(p).Error; err != nil {
		return nil, err
	}
	return p, nil
}

// GetPost fetches a post by ID.
func GetPost(ctx context.Context, db *gorm.DB, id string) (*domain.Post, error) {
	var p domain.Post
	if err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// UpdatePost replaces the title and content of a post written by authorID.
// It returns ErrNotFound when no such post exists for that author.
func UpdatePost(ctx context.Context, db *gorm.DB, id, authorID, title, content string) error {
	res := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("id = ? AND author_id = ?", id, authorID).
		Updates(map[string]any{
			"title":      title,
			"content":    content,
			"updated_at": time.Now().UTC(),
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// CountPosts returns the number of live posts in forumID.
func CountPosts(ctx context.Context, db *gorm.DB, forumID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Post{}).
		Where("forum_id = ?", forumID).
		Count(&total).Error
	return total, err
}

// ListPostsPage returns a page of posts in forumID, newest first.
func ListPostsPage(ctx context.Context, db *gorm.DB, forumID string, offset, limit int) ([]domain.Post, error) {
	var out []domain.Post
	err := db.WithContext(ctx).
		Where("forum_id = ?", forumID).
		Order("created_at desc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// CreateComment inserts a comment on postID.
func CreateComment(ctx context.Context, db *gorm.DB, postID, authorID, content string) (*domain.Comment, error) {
	now := time.Now().UTC()
	c := &domain.Comment{
		ID:        uuid.NewString(),
		PostID:    postID,
		AuthorID:  authorID,
		Content:   content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := db.WithContext(ctx).Create(c).Error; err != nil {
		return nil, err
	}
	return c, nil
}

// CountComments returns the number of live comments on postID.
func CountComments(ctx context.Context, db *gorm.DB, postID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Comment{}).
		Where("post_id = ?", postID).
		Count(&total).Error
	return total, err
}

// ListCommentsPage returns a page of comments on postID, oldest first so a
// thread reads top to bottom.
func ListCommentsPage(ctx context.Context, db *gorm.DB, postID string, offset, limit int) ([]domain.Comment, error) {
	var out []domain.Comment
	err := db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at asc").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

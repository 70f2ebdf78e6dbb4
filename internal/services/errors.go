// Package services defines the business logic for assessments, the content
// blacklist, community forums, and moderation applications. This file
// centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into user-facing messages or HTTP status codes is performed at
// the handler layer. Errors from the assessment and contentguard packages
// (incomplete assessments, invalid answers, rejected content) are passed
// through unchanged so callers can inspect their details with errors.As.
package services

import (
	"errors"

	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
)

// Identity errors.
var (
	// ErrUnauthenticated is returned when an operation that needs a user
	// identity is called without one.
	ErrUnauthenticated = errors.New("user identity required")

	// ErrForbidden is returned when the caller is authenticated but may not
	// act on the target resource.
	ErrForbidden = errors.New("forbidden")
)

// Assessment errors.
var (
	// ErrResultNotFound indicates that the requested assessment result does
	// not exist or belongs to another user.
	ErrResultNotFound = errors.New("assessment result not found")
)

// Blacklist errors.
var (
	// ErrEmptyWord is returned when a blacklist word is blank after trimming.
	ErrEmptyWord = contentguard.ErrEmptyWord

	// ErrDuplicateWord is returned when the word is already blacklisted.
	ErrDuplicateWord = errors.New("word already blacklisted")

	// ErrEntryNotFound indicates that the blacklist entry does not exist.
	ErrEntryNotFound = errors.New("blacklist entry not found")
)

// Forum errors.
var (
	ErrForumNotFound = errors.New("forum not found")
	ErrPostNotFound  = errors.New("post not found")

	// ErrEmptyTitle is returned when a forum or post title is blank.
	ErrEmptyTitle = errors.New("title is empty")

	// ErrEmptyBody is returned when forum, post, or comment text is blank.
	ErrEmptyBody = errors.New("body is empty")

	// ErrTooLong is returned when a title or body exceeds the configured
	// rune limit.
	ErrTooLong = errors.New("text too long")

	// ErrContentRejected matches any *contentguard.RejectedError.
	ErrContentRejected = contentguard.ErrContentRejected
)

// Application errors.
var (
	ErrApplicationNotFound = errors.New("application not found")

	// ErrInvalidKind is returned for an unknown application kind.
	ErrInvalidKind = errors.New("application kind must be organization or professional")

	// ErrInvalidTransition is returned when an application has already been
	// decided.
	ErrInvalidTransition = errors.New("application is not pending")

	// ErrInvalidStatus is returned when filtering by an unknown status.
	ErrInvalidStatus = errors.New("unknown application status")

	// ErrEmptyName is returned when an application has no name.
	ErrEmptyName = errors.New("name is empty")
)

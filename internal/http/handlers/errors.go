// Package handlers defines the error codes returned in ErrorResponse.Code and
// the mapping from service and core errors to HTTP statuses.
//
// Clients branch on these codes; they never change once published.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
	"github.com/tbourn/go-wellbeing-backend/internal/services"
)

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeUnauthorized     = "unauthorized"
	ErrCodeForbidden        = "forbidden"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeRateLimited      = "rate_limited"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"

	// Domain-specific:
	ErrCodeIncompleteAssessment = "incomplete_assessment"
	ErrCodeInvalidAnswer        = "invalid_answer"
	ErrCodeFlowComplete         = "flow_complete"
	ErrCodeContentRejected      = "content_rejected"
	ErrCodeContentTooLong       = "content_too_long"
	ErrCodeDuplicateWord        = "duplicate_word"
	ErrCodeAlreadyDecided       = "already_decided"
)

// msgContentRejected is shown to users whose text hit the blacklist.
const msgContentRejected = "remove blacklisted words and try again"

// IncompleteDetails accompanies incomplete_assessment.
type IncompleteDetails struct {
	Scale       assessment.Scale         `json:"scale" example:"phq9"`
	MissingKeys []assessment.QuestionKey `json:"missing_keys"`
}

// InvalidAnswerDetails accompanies invalid_answer.
type InvalidAnswerDetails struct {
	Scale assessment.Scale       `json:"scale" example:"gad7"`
	Key   assessment.QuestionKey `json:"key" example:"q3"`
	Value assessment.Answer      `json:"value" example:"7"`
}

// RejectedDetails accompanies content_rejected.
type RejectedDetails struct {
	Field       string `json:"field" example:"body"`
	MatchedWord string `json:"matched_word,omitempty" example:"spam"`
}

// failErr maps err to a status and code. Unknown errors are 500s.
func failErr(c *gin.Context, err error) {
	var (
		incomplete *assessment.IncompleteAssessmentError
		invalid    *assessment.InvalidAnswerError
		rejected   *contentguard.RejectedError
	)
	switch {
	case errors.As(err, &incomplete):
		failWith(c, http.StatusUnprocessableEntity, ErrCodeIncompleteAssessment, err.Error(),
			IncompleteDetails{Scale: incomplete.Scale, MissingKeys: incomplete.MissingKeys})
	case errors.As(err, &invalid):
		failWith(c, http.StatusBadRequest, ErrCodeInvalidAnswer, err.Error(),
			InvalidAnswerDetails{Scale: invalid.Scale, Key: invalid.Key, Value: invalid.Value})
	case errors.As(err, &rejected):
		failWith(c, http.StatusUnprocessableEntity, ErrCodeContentRejected, msgContentRejected,
			RejectedDetails{Field: rejected.Field, MatchedWord: rejected.MatchedWord})

	case errors.Is(err, assessment.ErrFlowComplete):
		fail(c, http.StatusConflict, ErrCodeFlowComplete, err.Error())
	case errors.Is(err, assessment.ErrUnknownStep),
		errors.Is(err, assessment.ErrUnknownOption),
		errors.Is(err, services.ErrEmptyTitle),
		errors.Is(err, services.ErrEmptyBody),
		errors.Is(err, services.ErrEmptyWord),
		errors.Is(err, services.ErrEmptyName),
		errors.Is(err, services.ErrInvalidKind),
		errors.Is(err, services.ErrInvalidStatus):
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
	case errors.Is(err, services.ErrTooLong):
		fail(c, http.StatusBadRequest, ErrCodeContentTooLong, err.Error())

	case errors.Is(err, services.ErrUnauthenticated):
		fail(c, http.StatusUnauthorized, ErrCodeUnauthorized, "authentication required")
	case errors.Is(err, services.ErrForbidden):
		fail(c, http.StatusForbidden, ErrCodeForbidden, err.Error())

	case errors.Is(err, services.ErrResultNotFound),
		errors.Is(err, services.ErrForumNotFound),
		errors.Is(err, services.ErrPostNotFound),
		errors.Is(err, services.ErrEntryNotFound),
		errors.Is(err, services.ErrApplicationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, err.Error())

	case errors.Is(err, services.ErrDuplicateWord):
		fail(c, http.StatusConflict, ErrCodeDuplicateWord, err.Error())
	case errors.Is(err, services.ErrInvalidTransition):
		fail(c, http.StatusConflict, ErrCodeAlreadyDecided, err.Error())

	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "internal error")
		middleware.LoggerFrom(c).Error().Err(err).Msg("unhandled service error")
	}
}

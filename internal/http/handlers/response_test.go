package handlers

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/services"
)

func Test_fail_500_LogsAndBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()

	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-500")
		c.Set("logger", &logger)
		c.Next()
	})
	r.GET("/boom", func(c *gin.Context) {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "kaboom")
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	require.Equal(t, http.StatusInternalServerError, w.Code)
	resp := decode[ErrorResponse](t, w)
	assert.Equal(t, "rid-500", resp.RequestID)
	assert.Equal(t, ErrCodeInternal, resp.Code)
	assert.Equal(t, "kaboom", resp.Message)
	assert.NotContains(t, w.Body.String(), "details")
	assert.Contains(t, buf.String(), `"level":"error"`)
}

func Test_Fail_404_And_SuccessHelpers(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Writer.Header().Set("X-Request-ID", "rid-404")
		c.Next()
	})
	r.GET("/missing", func(c *gin.Context) { Fail(c, http.StatusNotFound, ErrCodeNotFound, "nope") })
	r.GET("/ok", func(c *gin.Context) { ok(c, http.StatusCreated, gin.H{"ok": true}) })
	r.DELETE("/gone", func(c *gin.Context) { noContent(c) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, http.StatusNotFound, w.Code)
	er := decode[ErrorResponse](t, w)
	assert.Equal(t, "rid-404", er.RequestID)
	assert.Equal(t, ErrCodeNotFound, er.Code)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ok", nil))
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.Contains(t, w.Body.String(), `"ok":true`)

	w = httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodDelete, "/gone", nil))
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Zero(t, w.Body.Len())
}

func Test_newPagination(t *testing.T) {
	cases := []struct {
		page, size int
		total      int64
		want       Pagination
	}{
		{1, 20, 0, Pagination{Page: 1, PageSize: 20, Total: 0, TotalPages: 0, HasNext: false}},
		{1, 2, 3, Pagination{Page: 1, PageSize: 2, Total: 3, TotalPages: 2, HasNext: true}},
		{2, 2, 3, Pagination{Page: 2, PageSize: 2, Total: 3, TotalPages: 2, HasNext: false}},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, newPagination(tc.page, tc.size, tc.total),
			"newPagination(%d,%d,%d)", tc.page, tc.size, tc.total)
	}
}

func Test_notModified(t *testing.T) {
	gin.SetMode(gin.TestMode)
	latest := time.Unix(0, 42)

	run := func(inm string, page int) *httptest.ResponseRecorder {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) {
			if notModified(c, "posts", "f1", page, 10, 3, &latest) {
				return
			}
			c.String(http.StatusOK, "fresh")
		})
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		if inm != "" {
			req.Header.Set("If-None-Match", inm)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	w := run("", 1)
	etag := w.Header().Get("ETag")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `W/"posts:f1:1:10:3:42"`, etag)
	assert.Equal(t, http.StatusNotModified, run(etag, 1).Code)
	assert.Equal(t, http.StatusOK, run(etag, 2).Code, "other page must not match")
}

func Test_failErr_Mapping(t *testing.T) {
	gin.SetMode(gin.TestMode)
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{&assessment.IncompleteAssessmentError{Scale: assessment.PHQ9, MissingKeys: []assessment.QuestionKey{"feelingDown"}}, 422, ErrCodeIncompleteAssessment},
		{&assessment.InvalidAnswerError{Scale: assessment.GAD7, Key: "q", Value: 9}, 400, ErrCodeInvalidAnswer},
		{&contentguard.RejectedError{Field: contentguard.FieldBody, MatchedWord: "spam"}, 422, ErrCodeContentRejected},
		{assessment.ErrFlowComplete, 409, ErrCodeFlowComplete},
		{assessment.ErrUnknownStep, 400, ErrCodeBadRequest},
		{services.ErrTooLong, 400, ErrCodeContentTooLong},
		{services.ErrUnauthenticated, 401, ErrCodeUnauthorized},
		{services.ErrForbidden, 403, ErrCodeForbidden},
		{fmt.Errorf("wrap: %w", services.ErrPostNotFound), 404, ErrCodeNotFound},
		{services.ErrDuplicateWord, 409, ErrCodeDuplicateWord},
		{services.ErrInvalidTransition, 409, ErrCodeAlreadyDecided},
		{errors.New("disk on fire"), 500, ErrCodeInternal},
	}
	for _, tc := range cases {
		r := gin.New()
		r.GET("/x", func(c *gin.Context) { failErr(c, tc.err) })
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

		er := decode[ErrorResponse](t, w)
		assert.Equal(t, tc.status, w.Code, "%v", tc.err)
		assert.Equal(t, tc.code, er.Code, "%v", tc.err)
		if tc.code == ErrCodeInternal {
			assert.NotContains(t, er.Message, "disk", "internal error leaked")
		}
	}
}

func Test_failErr_Details(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/x", func(c *gin.Context) {
		failErr(c, &contentguard.RejectedError{Field: contentguard.FieldTitle, MatchedWord: "spam"})
	})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/x", nil))

	var body struct {
		Message string          `json:"message"`
		Details RejectedDetails `json:"details"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, msgContentRejected, body.Message)
	assert.Equal(t, "title", body.Details.Field)
	assert.Equal(t, "spam", body.Details.MatchedWord)
}

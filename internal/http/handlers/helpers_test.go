package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	sqlite "github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
	"github.com/tbourn/go-wellbeing-backend/internal/repo"
	"github.com/tbourn/go-wellbeing-backend/internal/services"
)

type testEnv struct {
	db *gorm.DB
	r  *gin.Engine
}

// newTestEnv wires real services over an in-memory database behind the same
// middleware chain the router uses, with header identity.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:h_%s?mode=memory&cache=shared&_pragma=foreign_keys(1)",
		strings.NewReplacer("/", "_", " ", "_").Replace(t.Name()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, repo.AutoMigrate(db))

	idem := &services.IdempotencyService{DB: db}
	h := New(Deps{
		Assessments:  &services.AssessmentService{DB: db},
		Forums:       &services.ForumService{DB: db, Guard: &contentguard.Cache{}, MaxTitleRunes: 50, MaxBodyRunes: 500},
		Blacklist:    services.NewBlacklistService(db),
		Applications: &services.ApplicationService{DB: db},
		Idempotency:  idem,
	})

	r := gin.New()
	r.Use(
		middleware.RequestID(),
		middleware.Identity(middleware.IdentityOptions{TrustHeaders: true}),
		middleware.IdempotencyValidator(middleware.IdempotencyOptions{}, idem.Exists),
	)
	r.POST("/content/check", h.CheckContent)
	r.GET("/assessments/instruments", h.ListInstruments)
	r.POST("/assessments/flow", h.AdvanceFlow)

	user := r.Group("", middleware.RequireUser())
	user.POST("/assessments", h.SubmitAssessment)
	user.GET("/assessments", h.ListAssessments)
	user.GET("/assessments/:id", h.GetAssessment)
	user.DELETE("/assessments", h.ClearAssessments)
	user.GET("/forums", h.ListForums)
	user.POST("/forums", h.CreateForum)
	user.GET("/forums/:id", h.GetForum)
	user.GET("/forums/:id/posts", h.ListPosts)
	user.POST("/forums/:id/posts", h.CreatePost)
	user.PUT("/posts/:id", h.UpdatePost)
	user.GET("/posts/:id/comments", h.ListComments)
	user.POST("/posts/:id/comments", h.CreateComment)
	user.POST("/applications", h.SubmitApplication)

	admin := r.Group("/admin", middleware.RequireRole(middleware.RoleAdmin))
	admin.GET("/blacklist", h.ListBlacklist)
	admin.POST("/blacklist", h.CreateBlacklistEntry)
	admin.PUT("/blacklist/:id", h.UpdateBlacklistEntry)
	admin.DELETE("/blacklist/:id", h.DeleteBlacklistEntry)
	admin.GET("/applications", h.ListApplications)
	admin.POST("/applications/:id/approve", h.ApproveApplication)
	admin.POST("/applications/:id/reject", h.RejectApplication)

	return &testEnv{db: db, r: r}
}

type reqOpt func(*http.Request)

func as(uid, role string) reqOpt {
	return func(r *http.Request) {
		r.Header.Set(middleware.HeaderUserID, uid)
		if role != "" {
			r.Header.Set(middleware.HeaderUserRole, role)
		}
	}
}

func withHeader(k, v string) reqOpt {
	return func(r *http.Request) { r.Header.Set(k, v) }
}

func (e *testEnv) do(t *testing.T, method, path string, body any, opts ...reqOpt) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = strings.NewReader(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	if rd != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, o := range opts {
		o(req)
	}
	w := httptest.NewRecorder()
	e.r.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), "decode %q", w.Body.String())
	return v
}

// answerSet answers every question of scale with v.
func answerSet(t *testing.T, scale assessment.Scale, v int) AnswerSet {
	t.Helper()
	def, err := assessment.DefinitionFor(scale)
	require.NoError(t, err)
	out := AnswerSet{}
	for _, k := range def.Keys() {
		val := v
		out[k] = &val
	}
	return out
}

func fullSubmission(t *testing.T) SubmitAssessmentRequest {
	return SubmitAssessmentRequest{
		PHQ9: answerSet(t, assessment.PHQ9, 1),
		GAD7: answerSet(t, assessment.GAD7, 2),
		PSS:  answerSet(t, assessment.PSS, 1),
	}
}

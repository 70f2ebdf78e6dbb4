// Assessment HTTP handlers.
//
//   - GET    /assessments/instruments  (question sets and answer options)
//   - POST   /assessments/flow         (advance the questionnaire one step)
//   - POST   /assessments              (score and store a session, idempotent)
//   - GET    /assessments              (history, paginated, ETag)
//   - GET    /assessments/{id}         (one result)
//   - DELETE /assessments              (clear history)
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wellbeing-backend/internal/assessment"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
)

// AnswerSet maps question keys to Likert values. A null or absent value
// means the question was not answered.
type AnswerSet map[assessment.QuestionKey]*int

func (s AnswerSet) answers() assessment.Answers {
	out := make(assessment.Answers, len(s))
	for k, v := range s {
		if v != nil {
			out[k] = assessment.Answer(*v)
		}
	}
	return out
}

// SubmitAssessmentRequest is the payload for POST /assessments.
type SubmitAssessmentRequest struct {
	PHQ9 AnswerSet `json:"phq9"`
	GAD7 AnswerSet `json:"gad7"`
	PSS  AnswerSet `json:"pss"`
}

// AdvanceFlowRequest is the payload for POST /assessments/flow.
type AdvanceFlowRequest struct {
	Step        assessment.Step   `json:"step" binding:"required" example:"first_set"`
	Preferences map[string]string `json:"preferences,omitempty"`
	PHQ9        AnswerSet         `json:"phq9,omitempty"`
	GAD7        AnswerSet         `json:"gad7,omitempty"`
	PSS         AnswerSet         `json:"pss,omitempty"`
}

// AdvanceFlowResponse names the step the client should show next.
type AdvanceFlowResponse struct {
	Next assessment.Step `json:"next" example:"second_set"`
}

// InstrumentsResponse lists the instruments in session order.
type InstrumentsResponse struct {
	Instruments []assessment.Definition `json:"instruments"`
}

// ListAssessmentsResponse wraps a page of results.
type ListAssessmentsResponse struct {
	Results    []domain.AssessmentResult `json:"results"`
	Pagination Pagination                `json:"pagination"`
}

// ClearAssessmentsResponse reports how many results were deleted.
type ClearAssessmentsResponse struct {
	Deleted int64 `json:"deleted" example:"3"`
}

// ListInstruments godoc
// @ID          listInstruments
// @Summary     List assessment instruments
// @Description Returns PHQ-9, GAD-7 and PSS with their questions and answer options.
// @Tags        Assessments
// @Produce     json
// @Success     200  {object}  handlers.InstrumentsResponse
// @Router      /assessments/instruments [get]
func (h *Handlers) ListInstruments(c *gin.Context) {
	ok(c, http.StatusOK, InstrumentsResponse{Instruments: h.assessments.Instruments()})
}

// AdvanceFlow godoc
// @ID          advanceAssessmentFlow
// @Summary     Advance the questionnaire
// @Description Validates the answers of the current step and returns the next step. Nothing is stored.
// @Tags        Assessments
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.AdvanceFlowRequest  true  "Current step and session"
// @Success     200   {object}  handlers.AdvanceFlowResponse
// @Failure     400   {object}  handlers.ErrorResponse  "Unknown step or invalid answer"
// @Failure     409   {object}  handlers.ErrorResponse  "Flow already complete"
// @Failure     422   {object}  handlers.ErrorResponse  "Questions missing for this step"
// @Router      /assessments/flow [post]
func (h *Handlers) AdvanceFlow(c *gin.Context) {
	var req AdvanceFlowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "step required")
		return
	}
	next, err := h.assessments.Advance(req.Step, assessment.Session{
		Preferences: req.Preferences,
		PHQ9:        req.PHQ9.answers(),
		GAD7:        req.GAD7.answers(),
		PSS:         req.PSS.answers(),
	})
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, AdvanceFlowResponse{Next: next})
}

// SubmitAssessment godoc
// @ID          submitAssessment
// @Summary     Submit a completed assessment
// @Description Scores all three instruments and stores the result. Nothing is stored unless every question is answered.
// @Description Supports Idempotency-Key: a retried request returns the stored result with Idempotency-Replayed: true.
// @Tags        Assessments
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Key for safe retries"
// @Param       body             body    handlers.SubmitAssessmentRequest  true  "Answers per instrument"
// @Success     201  {object}  domain.AssessmentResult
// @Success     200  {object}  domain.AssessmentResult  "Replayed result"
// @Failure     400  {object}  handlers.ErrorResponse  "Invalid answer value"
// @Failure     401  {object}  handlers.ErrorResponse  "Authentication required"
// @Failure     422  {object}  handlers.ErrorResponse  "Incomplete assessment"
// @Router      /assessments [post]
func (h *Handlers) SubmitAssessment(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserID(c)

	if id, found := h.replayID(c); found {
		if prev, err := h.assessments.Get(ctx, uid, id); err == nil {
			replayed(c)
			ok(c, http.StatusOK, prev)
			return
		}
	}

	var req SubmitAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.assessments.Submit(ctx, uid, req.PHQ9.answers(), req.GAD7.answers(), req.PSS.answers())
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, res.ID, http.StatusCreated)
	ok(c, http.StatusCreated, res)
}

// ListAssessments godoc
// @ID          listAssessments
// @Summary     List assessment history
// @Description Returns the caller's results, newest first. Supports weak ETag via If-None-Match.
// @Tags        Assessments
// @Produce     json
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListAssessmentsResponse
// @Header      200  {string}  ETag  "Weak ETag for the history"
// @Success     304  {string}  string  "Not Modified"
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /assessments [get]
func (h *Handlers) ListAssessments(c *gin.Context) {
	ctx := c.Request.Context()
	uid := middleware.UserID(c)
	page, pageSize := pageParams(c)

	if count, latest, err := h.assessments.Stats(ctx, uid); err == nil {
		if notModified(c, "assessments", uid, page, pageSize, count, latest) {
			return
		}
	}

	items, total, err := h.assessments.ListPage(ctx, uid, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListAssessmentsResponse{
		Results:    items,
		Pagination: newPagination(page, pageSize, total),
	})
}

// GetAssessment godoc
// @ID          getAssessment
// @Summary     Get one assessment result
// @Tags        Assessments
// @Produce     json
// @Param       id   path      string  true  "Result ID"  format(uuid)
// @Success     200  {object}  domain.AssessmentResult
// @Failure     400  {object}  handlers.ErrorResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /assessments/{id} [get]
func (h *Handlers) GetAssessment(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	res, err := h.assessments.Get(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, res)
}

// ClearAssessments godoc
// @ID          clearAssessments
// @Summary     Clear assessment history
// @Description Deletes every result owned by the caller.
// @Tags        Assessments
// @Produce     json
// @Success     200  {object}  handlers.ClearAssessmentsResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Router      /assessments [delete]
func (h *Handlers) ClearAssessments(c *gin.Context) {
	n, err := h.assessments.ClearAll(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ClearAssessmentsResponse{Deleted: n})
}

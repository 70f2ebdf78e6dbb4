package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
)

// ApplicationRequest is the payload for POST /applications.
type ApplicationRequest struct {
	Kind    domain.ApplicationKind `json:"kind" binding:"required" enums:"organization,professional" example:"organization"`
	Name    string                 `json:"name" binding:"required" example:"Calm Minds Collective"`
	Details string                 `json:"details" example:"Peer support groups in three cities."`
}

// ListApplicationsResponse wraps the applications in one status.
type ListApplicationsResponse struct {
	Applications []domain.Application `json:"applications"`
}

// DecisionResponse is returned by approve and reject. Organization is set
// only when an organization application is approved.
type DecisionResponse struct {
	Application  *domain.Application  `json:"application"`
	Organization *domain.Organization `json:"organization,omitempty"`
}

// SubmitApplication godoc
// @ID          submitApplication
// @Summary     Apply to register an organization or professional
// @Tags        Applications
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ApplicationRequest  true  "Application"
// @Success     201   {object}  domain.Application
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse
// @Router      /applications [post]
func (h *Handlers) SubmitApplication(c *gin.Context) {
	var req ApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "kind and name required")
		return
	}
	app, err := h.applications.Submit(c.Request.Context(), middleware.UserID(c), req.Kind, req.Name, req.Details)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, app)
}

// ListApplications godoc
// @ID          listApplications
// @Summary     List applications by status
// @Description Oldest first. Status defaults to pending.
// @Tags        Admin
// @Produce     json
// @Param       status  query     string  false  "Status"  Enums(pending, approved, rejected) default(pending)
// @Success     200     {object}  handlers.ListApplicationsResponse
// @Failure     400     {object}  handlers.ErrorResponse
// @Router      /admin/applications [get]
func (h *Handlers) ListApplications(c *gin.Context) {
	items, err := h.applications.ListByStatus(c.Request.Context(), domain.ApplicationStatus(c.Query("status")))
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.Application{}
	}
	ok(c, http.StatusOK, ListApplicationsResponse{Applications: items})
}

// ApproveApplication godoc
// @ID          approveApplication
// @Summary     Approve a pending application
// @Tags        Admin
// @Produce     json
// @Param       id   path      string  true  "Application ID"  format(uuid)
// @Success     200  {object}  handlers.DecisionResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Already decided"
// @Router      /admin/applications/{id}/approve [post]
func (h *Handlers) ApproveApplication(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	app, org, err := h.applications.Approve(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DecisionResponse{Application: app, Organization: org})
}

// RejectApplication godoc
// @ID          rejectApplication
// @Summary     Reject a pending application
// @Tags        Admin
// @Produce     json
// @Param       id   path      string  true  "Application ID"  format(uuid)
// @Success     200  {object}  handlers.DecisionResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Failure     409  {object}  handlers.ErrorResponse  "Already decided"
// @Router      /admin/applications/{id}/reject [post]
func (h *Handlers) RejectApplication(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	app, err := h.applications.Reject(c.Request.Context(), middleware.UserID(c), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, DecisionResponse{Application: app})
}

package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wellbeing-backend/internal/domain"
)

// BlacklistRequest is the payload for creating or replacing an entry.
type BlacklistRequest struct {
	Word        string `json:"word" binding:"required" example:"spam"`
	Description string `json:"description" example:"unsolicited advertising"`
}

// ListBlacklistResponse wraps every blacklist entry.
type ListBlacklistResponse struct {
	Entries []domain.BlacklistEntry `json:"entries"`
}

// ListBlacklist godoc
// @ID          listBlacklist
// @Summary     List blacklisted words
// @Tags        Admin
// @Produce     json
// @Success     200  {object}  handlers.ListBlacklistResponse
// @Failure     401  {object}  handlers.ErrorResponse
// @Failure     403  {object}  handlers.ErrorResponse
// @Router      /admin/blacklist [get]
func (h *Handlers) ListBlacklist(c *gin.Context) {
	items, err := h.blacklist.List(c.Request.Context())
	if err != nil {
		failErr(c, err)
		return
	}
	if items == nil {
		items = []domain.BlacklistEntry{}
	}
	ok(c, http.StatusOK, ListBlacklistResponse{Entries: items})
}

// CreateBlacklistEntry godoc
// @ID          createBlacklistEntry
// @Summary     Add a blacklisted word
// @Description The word is normalized (trimmed, lowercased) before storage and applies to the next submission.
// @Tags        Admin
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.BlacklistRequest  true  "Word and description"
// @Success     201   {object}  domain.BlacklistEntry
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     409   {object}  handlers.ErrorResponse  "Word already listed"
// @Router      /admin/blacklist [post]
func (h *Handlers) CreateBlacklistEntry(c *gin.Context) {
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "word required")
		return
	}
	e, err := h.blacklist.Create(c.Request.Context(), req.Word, req.Description)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, e)
}

// UpdateBlacklistEntry godoc
// @ID          updateBlacklistEntry
// @Summary     Replace a blacklisted word
// @Tags        Admin
// @Accept      json
// @Param       id    path  string  true  "Entry ID"  format(uuid)
// @Param       body  body  handlers.BlacklistRequest  true  "Word and description"
// @Success     204   "No Content"
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     409   {object}  handlers.ErrorResponse
// @Router      /admin/blacklist/{id} [put]
func (h *Handlers) UpdateBlacklistEntry(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	var req BlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "word required")
		return
	}
	if err := h.blacklist.Update(c.Request.Context(), id, req.Word, req.Description); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

// DeleteBlacklistEntry godoc
// @ID          deleteBlacklistEntry
// @Summary     Remove a blacklisted word
// @Tags        Admin
// @Param       id   path  string  true  "Entry ID"  format(uuid)
// @Success     204  "No Content"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /admin/blacklist/{id} [delete]
func (h *Handlers) DeleteBlacklistEntry(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	if err := h.blacklist.Delete(c.Request.Context(), id); err != nil {
		failErr(c, err)
		return
	}
	noContent(c)
}

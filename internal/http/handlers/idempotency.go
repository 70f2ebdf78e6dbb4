package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
)

// replayID returns the resource ID stored for this request's Idempotency-Key.
// Lookup failures are logged and treated as a miss so the request proceeds.
func (h *Handlers) replayID(c *gin.Context) (string, bool) {
	key, has := middleware.GetIdempotencyKey(c)
	uid := middleware.UserID(c)
	if h.idem == nil || !has || uid == "" {
		return "", false
	}
	id, found, err := h.idem.Find(c.Request.Context(), uid, middleware.IdempotencyScope(c), key)
	if err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency find failed")
		return "", false
	}
	return id, found
}

// remember records the created resource for this request's key, best effort.
func (h *Handlers) remember(c *gin.Context, resourceID string, status int) {
	key, has := middleware.GetIdempotencyKey(c)
	uid := middleware.UserID(c)
	if h.idem == nil || !has || uid == "" {
		return
	}
	if err := h.idem.Remember(c.Request.Context(), uid, middleware.IdempotencyScope(c), key, resourceID, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency store failed")
	}
}

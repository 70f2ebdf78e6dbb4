// Forum HTTP handlers.
//
//   - POST /content/check          (dry-run the blacklist)
//   - GET  /forums, POST /forums
//   - GET  /forums/{id}
//   - GET  /forums/{id}/posts      (paginated, ETag)
//   - POST /forums/{id}/posts      (idempotent)
//   - PUT  /posts/{id}             (author only)
//   - GET  /posts/{id}/comments, POST /posts/{id}/comments
//
// Every write is screened against the live blacklist; a hit is answered with
// 422 content_rejected and nothing is stored.
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tbourn/go-wellbeing-backend/internal/contentguard"
	"github.com/tbourn/go-wellbeing-backend/internal/domain"
	"github.com/tbourn/go-wellbeing-backend/internal/http/middleware"
)

// ContentCheckRequest is the payload for POST /content/check.
type ContentCheckRequest struct {
	Title string `json:"title" example:"Coping with exam stress"`
	Body  string `json:"body" example:"What helps you sleep before a big day?"`
}

// ContentCheckResponse reports whether the text would be rejected.
type ContentCheckResponse struct {
	Blocked     bool   `json:"blocked"`
	Field       string `json:"field,omitempty" example:"body"`
	MatchedWord string `json:"matched_word,omitempty" example:"spam"`
}

// TextRequest carries a title and body for forums and posts.
type TextRequest struct {
	Title string `json:"title" binding:"required" example:"Sleep and anxiety"`
	Body  string `json:"body" binding:"required" example:"Share what has worked for you."`
}

// CommentRequest is the payload for POST /posts/{id}/comments.
type CommentRequest struct {
	Content string `json:"content" binding:"required" example:"Breathing exercises help me."`
}

// ListForumsResponse wraps a page of forums.
type ListForumsResponse struct {
	Forums     []domain.Forum `json:"forums"`
	Pagination Pagination     `json:"pagination"`
}

// ListPostsResponse wraps a page of posts.
type ListPostsResponse struct {
	Posts      []domain.Post `json:"posts"`
	Pagination Pagination    `json:"pagination"`
}

// ListCommentsResponse wraps a page of comments.
type ListCommentsResponse struct {
	Comments   []domain.Comment `json:"comments"`
	Pagination Pagination       `json:"pagination"`
}

func uuidParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a UUID")
		return "", false
	}
	return id, true
}

// CheckContent godoc
// @ID          checkContent
// @Summary     Check text against the blacklist
// @Description Runs the same screening as a real submission without storing anything.
// @Tags        Content
// @Accept      json
// @Produce     json
// @Param       body  body      handlers.ContentCheckRequest  true  "Text to check"
// @Success     200   {object}  handlers.ContentCheckResponse
// @Failure     400   {object}  handlers.ErrorResponse
// @Router      /content/check [post]
func (h *Handlers) CheckContent(c *gin.Context) {
	var req ContentCheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	err := h.forums.Check(c.Request.Context(), req.Title, req.Body)
	var rej *contentguard.RejectedError
	switch {
	case err == nil:
		ok(c, http.StatusOK, ContentCheckResponse{})
	case errors.As(err, &rej):
		ok(c, http.StatusOK, ContentCheckResponse{Blocked: true, Field: rej.Field, MatchedWord: rej.MatchedWord})
	default:
		failErr(c, err)
	}
}

// CreateForum godoc
// @ID          createForum
// @Summary     Create a forum
// @Tags        Forums
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Key for safe retries"
// @Param       body  body      handlers.TextRequest  true  "Forum title and description"
// @Success     201   {object}  domain.Forum
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     401   {object}  handlers.ErrorResponse
// @Failure     422   {object}  handlers.ErrorResponse  "Content rejected"
// @Router      /forums [post]
func (h *Handlers) CreateForum(c *gin.Context) {
	ctx := c.Request.Context()
	if id, found := h.replayID(c); found {
		if prev, err := h.forums.GetForum(ctx, id); err == nil {
			replayed(c)
			ok(c, http.StatusOK, prev)
			return
		}
	}

	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body required")
		return
	}
	f, err := h.forums.CreateForum(ctx, middleware.UserID(c), req.Title, req.Body)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, f.ID, http.StatusCreated)
	ok(c, http.StatusCreated, f)
}

// ListForums godoc
// @ID          listForums
// @Summary     List forums
// @Tags        Forums
// @Produce     json
// @Param       page       query  int  false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int  false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListForumsResponse
// @Router      /forums [get]
func (h *Handlers) ListForums(c *gin.Context) {
	page, pageSize := pageParams(c)
	items, total, err := h.forums.ListForums(c.Request.Context(), page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListForumsResponse{Forums: items, Pagination: newPagination(page, pageSize, total)})
}

// GetForum godoc
// @ID          getForum
// @Summary     Get a forum
// @Tags        Forums
// @Produce     json
// @Param       id   path      string  true  "Forum ID"  format(uuid)
// @Success     200  {object}  domain.Forum
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /forums/{id} [get]
func (h *Handlers) GetForum(c *gin.Context) {
	id, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	f, err := h.forums.GetForum(c.Request.Context(), id)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, f)
}

// CreatePost godoc
// @ID          createPost
// @Summary     Create a post in a forum
// @Tags        Forums
// @Accept      json
// @Produce     json
// @Param       Idempotency-Key  header  string  false  "Key for safe retries"
// @Param       id    path      string  true  "Forum ID"  format(uuid)
// @Param       body  body      handlers.TextRequest  true  "Post title and content"
// @Success     201   {object}  domain.Post
// @Failure     400   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     422   {object}  handlers.ErrorResponse  "Content rejected"
// @Router      /forums/{id}/posts [post]
func (h *Handlers) CreatePost(c *gin.Context) {
	ctx := c.Request.Context()
	forumID, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	if id, found := h.replayID(c); found {
		if prev, err := h.forums.GetPost(ctx, id); err == nil {
			replayed(c)
			ok(c, http.StatusOK, prev)
			return
		}
	}

	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body required")
		return
	}
	p, err := h.forums.CreatePost(ctx, middleware.UserID(c), forumID, req.Title, req.Body)
	if err != nil {
		failErr(c, err)
		return
	}
	h.remember(c, p.ID, http.StatusCreated)
	ok(c, http.StatusCreated, p)
}

// ListPosts godoc
// @ID          listPosts
// @Summary     List posts in a forum
// @Description Newest first. Supports weak ETag via If-None-Match.
// @Tags        Forums
// @Produce     json
// @Param       id             path    string  true   "Forum ID"  format(uuid)
// @Param       If-None-Match  header  string  false  "Return 304 if ETag matches"
// @Param       page           query   int     false  "Page number"     minimum(1) default(1)
// @Param       page_size      query   int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListPostsResponse
// @Success     304  {string}  string  "Not Modified"
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /forums/{id}/posts [get]
func (h *Handlers) ListPosts(c *gin.Context) {
	ctx := c.Request.Context()
	forumID, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	page, pageSize := pageParams(c)

	if count, latest, err := h.forums.PostStats(ctx, forumID); err == nil && count > 0 {
		if notModified(c, "posts", forumID, page, pageSize, count, latest) {
			return
		}
	}

	items, total, err := h.forums.ListPosts(ctx, forumID, page, pageSize)
	if err != nil {
		c.Writer.Header().Del("ETag")
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListPostsResponse{Posts: items, Pagination: newPagination(page, pageSize, total)})
}

// UpdatePost godoc
// @ID          updatePost
// @Summary     Edit a post
// @Description Only the author may edit. The new text is screened like a new post.
// @Tags        Forums
// @Accept      json
// @Produce     json
// @Param       id    path      string  true  "Post ID"  format(uuid)
// @Param       body  body      handlers.TextRequest  true  "New title and content"
// @Success     200   {object}  domain.Post
// @Failure     403   {object}  handlers.ErrorResponse
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     422   {object}  handlers.ErrorResponse  "Content rejected"
// @Router      /posts/{id} [put]
func (h *Handlers) UpdatePost(c *gin.Context) {
	postID, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	var req TextRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title and body required")
		return
	}
	p, err := h.forums.UpdatePost(c.Request.Context(), middleware.UserID(c), postID, req.Title, req.Body)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, p)
}

// CreateComment godoc
// @ID          createComment
// @Summary     Comment on a post
// @Tags        Forums
// @Accept      json
// @Produce     json
// @Param       id    path      string  true  "Post ID"  format(uuid)
// @Param       body  body      handlers.CommentRequest  true  "Comment"
// @Success     201   {object}  domain.Comment
// @Failure     404   {object}  handlers.ErrorResponse
// @Failure     422   {object}  handlers.ErrorResponse  "Content rejected"
// @Router      /posts/{id}/comments [post]
func (h *Handlers) CreateComment(c *gin.Context) {
	postID, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "content required")
		return
	}
	cm, err := h.forums.CreateComment(c.Request.Context(), middleware.UserID(c), postID, req.Content)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusCreated, cm)
}

// ListComments godoc
// @ID          listComments
// @Summary     List comments on a post
// @Description Oldest first.
// @Tags        Forums
// @Produce     json
// @Param       id         path   string  true   "Post ID"  format(uuid)
// @Param       page       query  int     false  "Page number"     minimum(1) default(1)
// @Param       page_size  query  int     false  "Items per page"  minimum(1) maximum(100) default(20)
// @Success     200  {object}  handlers.ListCommentsResponse
// @Failure     404  {object}  handlers.ErrorResponse
// @Router      /posts/{id}/comments [get]
func (h *Handlers) ListComments(c *gin.Context) {
	postID, valid := uuidParam(c, "id")
	if !valid {
		return
	}
	page, pageSize := pageParams(c)
	items, total, err := h.forums.ListComments(c.Request.Context(), postID, page, pageSize)
	if err != nil {
		failErr(c, err)
		return
	}
	ok(c, http.StatusOK, ListCommentsResponse{Comments: items, Pagination: newPagination(page, pageSize, total)})
}

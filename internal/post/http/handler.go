// Package http provides the HTML handlers for browsing and editing blog posts.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/render"

	apperrors "github.com/allisson/blog/internal/errors"
	"github.com/allisson/blog/internal/httputil"
	postDomain "github.com/allisson/blog/internal/post/domain"
	postUseCase "github.com/allisson/blog/internal/post/usecase"
)

// titleRequiredMessage is flashed when a form is submitted without a title.
const titleRequiredMessage = "Title is required!"

// PostHandler serves the post pages.
type PostHandler struct {
	postUseCase postUseCase.PostUseCase
	flashes     *FlashStore
	views       views
	logger      *slog.Logger
}

// NewPostHandler creates a PostHandler. It fails when the embedded templates do not parse.
func NewPostHandler(
	postUseCase postUseCase.PostUseCase,
	flashes *FlashStore,
	logger *slog.Logger,
) (*PostHandler, error) {
	v, err := loadViews()
	if err != nil {
		return nil, err
	}

	return &PostHandler{
		postUseCase: postUseCase,
		flashes:     flashes,
		views:       v,
		logger:      logger,
	}, nil
}

// RegisterRoutes mounts the post pages on r. writeMiddleware wraps the routes that modify posts.
func (h *PostHandler) RegisterRoutes(r gin.IRouter, writeMiddleware ...gin.HandlerFunc) {
	r.GET("/", h.IndexHandler)
	r.GET("/create", h.CreateFormHandler)
	r.GET("/:id", h.ShowHandler)
	r.GET("/:id/edit", h.EditFormHandler)

	writes := r.Group("/", writeMiddleware...)
	writes.POST("/create", h.CreateHandler)
	writes.POST("/:id/edit", h.EditHandler)
	writes.POST("/:id/delete", h.DeleteHandler)
}

// IndexHandler lists all posts.
// GET /
func (h *PostHandler) IndexHandler(c *gin.Context) {
	posts, err := h.postUseCase.List(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, viewIndex, pageData{
		Flashes: h.flashes.Pop(c),
		Posts:   posts,
	})
}

// ShowHandler renders a single post.
// GET /:id
func (h *PostHandler) ShowHandler(c *gin.Context) {
	post, err := h.postUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, viewPost, pageData{Post: post})
}

// CreateFormHandler renders the empty create form.
// GET /create
func (h *PostHandler) CreateFormHandler(c *gin.Context) {
	h.render(c, http.StatusOK, viewCreate, pageData{Post: &postDomain.Post{}})
}

// CreateHandler stores a new post and redirects to the index.
// POST /create
func (h *PostHandler) CreateHandler(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}
	title := c.PostForm("title")
	content := c.PostForm("content")

	_, err := h.postUseCase.Create(c.Request.Context(), title, content)
	if apperrors.Is(err, apperrors.ErrInvalidInput) {
		h.render(c, http.StatusUnprocessableEntity, viewCreate, pageData{
			Flashes: []string{titleRequiredMessage},
			Post:    &postDomain.Post{Title: title, Content: content},
		})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// EditFormHandler renders the edit form for an existing post.
// GET /:id/edit
func (h *PostHandler) EditFormHandler(c *gin.Context) {
	post, err := h.postUseCase.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	h.render(c, http.StatusOK, viewEdit, pageData{Post: post})
}

// EditHandler updates a post and redirects to the index.
// POST /:id/edit
func (h *PostHandler) EditHandler(c *gin.Context) {
	if !h.parseForm(c) {
		return
	}
	id := c.Param("id")
	title := c.PostForm("title")
	content := c.PostForm("content")

	_, err := h.postUseCase.Update(c.Request.Context(), id, title, content)
	if apperrors.Is(err, apperrors.ErrInvalidInput) {
		h.render(c, http.StatusUnprocessableEntity, viewEdit, pageData{
			Flashes: []string{titleRequiredMessage},
			Post:    &postDomain.Post{ID: id, Title: title, Content: content},
		})
		return
	}
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.Redirect(http.StatusFound, "/")
}

// DeleteHandler removes a post and redirects to the index with a confirmation.
// POST /:id/delete
func (h *PostHandler) DeleteHandler(c *gin.Context) {
	post, err := h.postUseCase.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}

	if err := h.flashes.Add(c, fmt.Sprintf("\"%s\" was successfully deleted!", post.Title)); err != nil {
		h.logger.Warn("failed to queue flash message", slog.Any("error", err))
	}

	c.Redirect(http.StatusFound, "/")
}

func (h *PostHandler) render(c *gin.Context, status int, view string, data pageData) {
	c.Render(status, render.HTML{
		Template: h.views[view],
		Name:     "base",
		Data:     data,
	})
}

// parseForm answers malformed form bodies with 400 Bad Request and reports whether
// the handler may continue.
func (h *PostHandler) parseForm(c *gin.Context) bool {
	err := c.Request.ParseForm()
	if err == nil {
		return true
	}

	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return false
	}

	h.logger.Warn("bad request", slog.Any("error", err))
	h.render(c, http.StatusBadRequest, viewError, pageData{
		Status:     http.StatusBadRequest,
		StatusText: http.StatusText(http.StatusBadRequest),
		Message:    "The submitted form could not be read",
	})
	return false
}

// handleError renders an error page, or JSON for clients that prefer it.
func (h *PostHandler) handleError(c *gin.Context, err error) {
	if c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	status, response := httputil.ClassifyError(err)
	httputil.LogError(c.Request.Context(), h.logger, status, response, err)

	h.render(c, status, viewError, pageData{
		Status:     status,
		StatusText: http.StatusText(status),
		Message:    response.Message,
	})
}

package handler

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/internal/markup"
	"github.com/myblog/blog/internal/pagination"
	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/service"
	"github.com/myblog/blog/internal/recommend"
	"github.com/myblog/blog/internal/search"
	"github.com/myblog/blog/internal/share"
	"github.com/myblog/blog/pkg/logger"
)

// Handler serves the public blog routes and the authoring API.
type Handler struct {
	posts    *service.Service
	engine   *search.Engine
	similar  *recommend.Recommender
	sharer   *share.Service
	renderer *markup.Renderer
	perPage  int
}

func New(posts *service.Service, engine *search.Engine, similar *recommend.Recommender, sharer *share.Service, renderer *markup.Renderer, perPage int) *Handler {
	if perPage <= 0 {
		perPage = pagination.DefaultPerPage
	}
	return &Handler{posts: posts, engine: engine, similar: similar, sharer: sharer, renderer: renderer, perPage: perPage}
}

// Register mounts all routes on r.
func (h *Handler) Register(r gin.IRouter) {
	blog := r.Group("/blog")
	blog.GET("/", h.list)
	blog.GET("/tag/:tag/", h.list)
	blog.GET("/search/", h.search)
	blog.GET("/:year/:month/:day/:slug/", h.detail)
	blog.POST("/:year/:month/:day/:slug/comments", h.comment)
	blog.POST("/posts/:id/share/", h.share)
	blog.GET("/posts/:id/similar", h.similarPosts)

	api := r.Group("/api/posts")
	api.GET("/stats", h.stats)
	api.POST("", h.create)
	api.PATCH("/:id", h.update)
	api.DELETE("/:id", h.remove)
}

func notFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
}

func serverError(c *gin.Context, err error) {
	logger.Errorf("%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func (h *Handler) list(c *gin.Context) {
	posts, tag, err := h.posts.List(c.Request.Context(), c.Param("tag"))
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"tag": tag, "page": pagination.Paginate(posts, c.Query("page"), h.perPage)})
}

// postFromPath resolves the /:year/:month/:day/:slug/ route parameters.
func (h *Handler) postFromPath(c *gin.Context) (*post.Post, error) {
	var date [3]int
	for i, name := range []string{"year", "month", "day"} {
		n, err := strconv.Atoi(c.Param(name))
		if err != nil {
			return nil, service.ErrNotFound
		}
		date[i] = n
	}
	return h.posts.Detail(c.Request.Context(), date[0], date[1], date[2], c.Param("slug"))
}

func (h *Handler) detail(c *gin.Context) {
	ctx := c.Request.Context()
	p, err := h.postFromPath(c)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	comments, err := h.posts.ActiveComments(ctx, p.ID)
	if err != nil {
		serverError(c, err)
		return
	}
	similar, err := h.similar.Similar(ctx, p, recommend.DefaultLimit)
	if err != nil {
		serverError(c, err)
		return
	}
	html, err := h.renderer.Render(p.Body)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"post":         p,
		"bodyHtml":     html,
		"comments":     comments,
		"similarPosts": similar,
	})
}

type commentRequest struct {
	Name  string `json:"name" form:"name" binding:"required,max=80"`
	Email string `json:"email" form:"email" binding:"required,email"`
	Body  string `json:"body" form:"body" binding:"required"`
}

func (h *Handler) comment(c *gin.Context) {
	p, err := h.postFromPath(c)
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	var req commentRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cm, err := h.posts.AddComment(c.Request.Context(), p.ID, req.Name, req.Email, req.Body)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusCreated, cm)
}

func (h *Handler) share(c *gin.Context) {
	p, err := h.posts.Published(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	var req share.Request
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"sent": false, "error": err.Error()})
		return
	}
	sent, err := h.sharer.Share(c.Request.Context(), p, req)
	if errors.Is(err, share.ErrInvalid) {
		c.JSON(http.StatusBadRequest, gin.H{"sent": false, "error": err.Error()})
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"sent": sent, "post": p.ID})
}

func (h *Handler) search(c *gin.Context) {
	query, ok := c.GetQuery("query")
	if !ok {
		c.JSON(http.StatusOK, gin.H{"query": "", "searched": false, "results": []search.Result{}})
		return
	}
	results, err := h.engine.Search(c.Request.Context(), query)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "searched": true, "results": results})
}

func (h *Handler) similarPosts(c *gin.Context) {
	// a bad limit falls back to the default
	limit, _ := strconv.Atoi(c.Query("limit"))
	posts, err := h.similar.SimilarByID(c.Request.Context(), c.Param("id"), limit)
	if errors.Is(err, recommend.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

func (h *Handler) stats(c *gin.Context) {
	ctx := c.Request.Context()
	total, err := h.posts.Total(ctx)
	if err != nil {
		serverError(c, err)
		return
	}
	latest, err := h.posts.Latest(ctx, 0)
	if err != nil {
		serverError(c, err)
		return
	}
	most, err := h.posts.MostCommented(ctx, 0)
	if err != nil {
		serverError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"total": total, "latest": latest, "mostCommented": most})
}

type tagRequest struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

type postRequest struct {
	Title   *string       `json:"title"`
	Slug    *string       `json:"slug"`
	Author  *string       `json:"author"`
	Body    *string       `json:"body"`
	Status  *post.Status  `json:"status"`
	Publish *time.Time    `json:"publish"`
	Tags    *[]tagRequest `json:"tags"`
}

func (r postRequest) validate() error {
	if r.Status != nil && *r.Status != post.StatusDraft && *r.Status != post.StatusPublished {
		return errors.New("status must be draft or published")
	}
	if r.Title != nil && utf8.RuneCountInString(strings.TrimSpace(*r.Title)) > post.MaxTitleLength {
		return service.ErrTitleTooLong
	}
	if r.Tags != nil {
		for _, t := range *r.Tags {
			if strings.TrimSpace(t.Name) == "" {
				return errors.New("tag name is required")
			}
		}
	}
	return nil
}

// apply copies the fields present in the request onto p.
func (r postRequest) apply(p *post.Post) {
	if r.Title != nil {
		p.Title = strings.TrimSpace(*r.Title)
	}
	if r.Slug != nil {
		p.Slug = post.Slugify(*r.Slug)
	}
	if r.Author != nil {
		p.Author = *r.Author
	}
	if r.Body != nil {
		p.Body = *r.Body
	}
	if r.Status != nil {
		p.Status = *r.Status
	}
	if r.Publish != nil {
		p.Publish = *r.Publish
	}
	if r.Tags != nil {
		p.Tags = make([]post.Tag, 0, len(*r.Tags))
		seen := make(map[string]bool, len(*r.Tags))
		for _, t := range *r.Tags {
			slug := post.Slugify(t.Slug)
			if slug == "" {
				slug = post.Slugify(t.Name)
			}
			if seen[slug] {
				continue
			}
			seen[slug] = true
			p.Tags = append(p.Tags, post.Tag{ID: slug, Slug: slug, Name: strings.TrimSpace(t.Name)})
		}
	}
}

func (h *Handler) create(c *gin.Context) {
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title is required"})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p := &post.Post{}
	req.apply(p)
	id, err := h.posts.Create(c.Request.Context(), p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id, "slug": p.Slug, "url": p.URL()})
}

func (h *Handler) update(c *gin.Context) {
	ctx := c.Request.Context()
	var req postRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := h.posts.Get(ctx, c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	req.apply(p)
	if err := h.posts.Update(ctx, p); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": p.ID})
}

// writeError maps authoring failures to their status codes.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		notFound(c)
	case errors.Is(err, service.ErrSlugTaken):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrTitleTooLong):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		serverError(c, err)
	}
}

func (h *Handler) remove(c *gin.Context) {
	err := h.posts.Delete(c.Request.Context(), c.Param("id"))
	if errors.Is(err, service.ErrNotFound) {
		notFound(c)
		return
	}
	if err != nil {
		serverError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

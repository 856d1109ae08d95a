package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/internal/syndication"
	"github.com/stretchr/testify/require"
)

type failingLister struct{}

func (failingLister) ListPublished(context.Context, repository.Query) ([]*post.Post, error) {
	return nil, errors.New("store down")
}

func TestSyndicationRoutes(t *testing.T) {
	repo := repository.NewMemoryRepo()
	for i, title := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		_, err := repo.Create(context.Background(), &post.Post{
			Title:   title,
			Body:    "body of " + title,
			Status:  post.StatusPublished,
			Publish: time.Date(2024, 7, i+1, 0, 0, 0, 0, time.UTC),
		})
		require.NoError(t, err)
	}
	_, err := repo.Create(context.Background(), &post.Post{Title: "Hidden", Status: post.StatusDraft})
	require.NoError(t, err)

	g := gin.New()
	RegisterSyndication(g, repo, syndication.Site{BaseURL: "https://myblog.com"})

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/blog/feed/", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Header().Get("Content-Type"), "application/rss+xml")
	body := w.Body.String()
	require.Equal(t, 5, strings.Count(body, "<item>"))
	require.Contains(t, body, "<title>Six</title>")
	require.NotContains(t, body, "<title>One</title>")

	w = httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusOK, w.Code)
	body = w.Body.String()
	require.Equal(t, 6, strings.Count(body, "<url>"))
	require.Contains(t, body, "<changefreq>weekly</changefreq>")
	require.NotContains(t, body, "hidden")
}

func TestSyndicationRoutes_StoreError(t *testing.T) {
	g := gin.New()
	RegisterSyndication(g, failingLister{}, syndication.Site{})

	w := httptest.NewRecorder()
	g.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/sitemap.xml", nil))
	require.Equal(t, http.StatusInternalServerError, w.Code)
}

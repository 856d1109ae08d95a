package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/internal/config"
	"github.com/myblog/blog/internal/mail"
	"github.com/stretchr/testify/require"
)

func testConfig(redisAddr string) *config.Config {
	cfg := &config.Config{
		Store:     config.StoreConfig{Backend: config.BackendMemory},
		Site:      config.SiteConfig{URL: "https://myblog.com", Title: "My blog", Description: "New posts of my blog.", PerPage: 3},
		Mail:      config.MailConfig{From: "admin@myblog.com", OutboxKey: mail.DefaultOutboxKey},
		RateLimit: config.RateLimitConfig{Enabled: true, UseRedis: redisAddr != "", RPS: 100, Burst: 100, WindowSeconds: 1},
	}
	if redisAddr != "" {
		host, port, _ := strings.Cut(redisAddr, ":")
		cfg.Redis = config.RedisConfig{Host: host, Port: port}
	}
	return cfg
}

func call(a *App, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	a.Router.ServeHTTP(w, req)
	return w
}

func TestApp_EndToEnd(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	a, err := New(ctx, testConfig(m.Addr()))
	require.NoError(t, err)
	defer a.Close(ctx)
	require.NotNil(t, a.Redis)
	require.Nil(t, a.Exporter)
	require.NoError(t, a.StartBackground())

	require.Equal(t, http.StatusOK, call(a, http.MethodGet, "/health", "").Code)

	w := call(a, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	var ready struct {
		Status string          `json:"status"`
		Deps   map[string]bool `json:"deps"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ready))
	require.Equal(t, "ready", ready.Status)
	require.True(t, ready.Deps["store"])
	require.True(t, ready.Deps["redis"])

	w = call(a, http.MethodPost, "/api/posts", `{"title":"Full Text Search","body":"Ranking posts by relevance.","status":"published","publish":"2024-08-01T00:00:00Z","tags":[{"name":"search"}]}`)
	require.Equal(t, http.StatusCreated, w.Code)
	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))

	w = call(a, http.MethodGet, "/blog/search/?query=search", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "Full Text Search")

	w = call(a, http.MethodPost, "/blog/posts/"+created.ID+"/share/", `{"name":"Ann","email":"ann@example.com","to":"bob@example.com"}`)
	require.Equal(t, http.StatusOK, w.Code)
	queued, err := m.List(mail.DefaultOutboxKey)
	require.NoError(t, err)
	require.Len(t, queued, 1)
	require.Contains(t, queued[0], "https://myblog.com/blog/2024/8/1/full-text-search/")

	w = call(a, http.MethodGet, "/sitemap.xml", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "full-text-search")

	w = call(a, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), "blog_search_requests_total")
}

func TestApp_WithoutRedis(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()

	a, err := New(ctx, testConfig(""))
	require.NoError(t, err)
	defer a.Close(ctx)
	require.Nil(t, a.Redis)

	w := call(a, http.MethodGet, "/ready", "")
	require.Equal(t, http.StatusOK, w.Code)
	require.NotContains(t, w.Body.String(), `"redis"`)
}

func TestOpenStore_Badger(t *testing.T) {
	cfg := testConfig("")
	cfg.Store = config.StoreConfig{Backend: config.BackendBadger, BadgerPath: t.TempDir()}

	repo, closeStore, err := OpenStore(context.Background(), cfg)
	require.NoError(t, err)
	require.NotNil(t, repo)
	require.NoError(t, closeStore(context.Background()))
}

package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/handlers"
	"github.com/myblog/blog/internal/config"
	"github.com/myblog/blog/internal/mail"
	"github.com/myblog/blog/internal/markup"
	"github.com/myblog/blog/internal/post/handler"
	"github.com/myblog/blog/internal/post/service"
	"github.com/myblog/blog/internal/publish"
	"github.com/myblog/blog/internal/recommend"
	"github.com/myblog/blog/internal/search"
	"github.com/myblog/blog/internal/share"
	"github.com/myblog/blog/internal/storage"
	"github.com/myblog/blog/internal/syndication"
	"github.com/myblog/blog/pkg/logger"
	"github.com/myblog/blog/pkg/metrics"
	"github.com/myblog/blog/pkg/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
)

var registerMetrics sync.Once

// App holds the wired components of the blog server.
type App struct {
	Config   *config.Config
	Router   *gin.Engine
	Posts    *service.Service
	Redis    *redis.Client
	Exporter *publish.Exporter

	scheduler  *publish.Scheduler
	closeStore func(context.Context) error
	startTime  time.Time
}

// New connects the configured backends and builds the router.
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	repo, closeStore, err := OpenStore(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a := &App{
		Config:     cfg,
		Posts:      service.New(repo),
		closeStore: closeStore,
		startTime:  time.Now(),
	}

	if addr := cfg.Redis.Addr(); addr != "" {
		client := redis.NewClient(&redis.Options{Addr: addr, Password: cfg.Redis.Password, DB: cfg.Redis.DB})
		if err := client.Ping(ctx).Err(); err != nil {
			logger.Warnf("failed to connect to Redis (%s): %v", addr, err)
			_ = client.Close()
		} else {
			logger.Infof("connected to Redis: %s", addr)
			a.Redis = client
		}
	}

	site := syndication.Site{BaseURL: cfg.Site.URL, Title: cfg.Site.Title, Description: cfg.Site.Description}
	if cfg.Storage.Enabled() {
		store, err := storage.NewMinIOStorage(ctx, &cfg.Storage)
		if err != nil {
			logger.Warnf("export disabled: %v", err)
		} else {
			a.Exporter = publish.NewExporter(repo, store, site, cfg.Storage.Prefix)
			a.scheduler = publish.NewScheduler(a.Exporter)
		}
	}

	analyzer, err := search.NewAnalyzer()
	if err != nil {
		_ = a.Close(ctx)
		return nil, fmt.Errorf("search analyzer: %w", err)
	}

	var sender mail.Sender = mail.LogSender{}
	if a.Redis != nil {
		sender = mail.NewRedisOutbox(a.Redis, cfg.Mail.OutboxKey)
	}

	h := handler.New(
		a.Posts,
		search.NewEngine(repo, analyzer),
		recommend.New(repo),
		share.NewService(sender, cfg.Mail.From, cfg.Site.URL),
		markup.NewRenderer(),
		cfg.Site.PerPage,
	)

	r := gin.New()
	r.Use(middleware.CORS(), gin.Logger(), gin.Recovery())
	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.UseRedis && a.Redis != nil {
			win := time.Duration(cfg.RateLimit.WindowSeconds) * time.Second
			r.Use(middleware.RedisRateLimitMiddleware(a.Redis, cfg.RateLimit.RPS, cfg.RateLimit.Burst, win, middleware.RouteKey))
		} else {
			r.Use(middleware.RateLimitMiddleware(cfg.RateLimit.RPS, cfg.RateLimit.Burst, middleware.RouteKey))
		}
	}

	r.GET("/health", func(c *gin.Context) {
		c.String(http.StatusOK, "healthy")
	})
	r.GET("/ready", a.ready)

	handlers.RegisterSwagger(r)
	handlers.RegisterSyndication(r, repo, site)
	h.Register(r)

	registerMetrics.Do(func() { metrics.RegisterCollectors(prometheus.DefaultRegisterer) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	a.Router = r
	return a, nil
}

// ready returns 200 only when the store answers and Redis is reachable when
// a feature depends on it.
func (a *App) ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	ready := true
	deps := map[string]bool{}

	_, err := a.Posts.Total(ctx)
	deps["store"] = err == nil
	if err != nil {
		ready = false
	}

	if a.Config.Redis.Addr() != "" {
		deps["redis"] = a.Redis != nil && a.Redis.Ping(ctx).Err() == nil
		if !deps["redis"] && a.Config.RateLimit.UseRedis {
			ready = false
		}
	}
	deps["export"] = a.Exporter != nil

	status, code := "ready", http.StatusOK
	if !ready {
		status, code = "not_ready", http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"status": status, "deps": deps, "uptime": time.Since(a.startTime).String()})
}

// StartBackground starts the export schedule when object storage is configured.
func (a *App) StartBackground() error {
	if a.scheduler == nil {
		return nil
	}
	return a.scheduler.Start(a.Config.Export.Schedule)
}

// Close stops background work and releases connections.
func (a *App) Close(ctx context.Context) error {
	if a.scheduler != nil {
		a.scheduler.Stop()
	}
	var errs []error
	if a.Redis != nil {
		errs = append(errs, a.Redis.Close())
	}
	if a.closeStore != nil {
		errs = append(errs, a.closeStore(ctx))
	}
	return errors.Join(errs...)
}

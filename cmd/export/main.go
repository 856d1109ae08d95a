// Command export renders the sitemap and RSS feed once and uploads them to
// the configured MinIO bucket.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/myblog/blog/internal/app"
	"github.com/myblog/blog/internal/config"
	"github.com/myblog/blog/internal/publish"
	"github.com/myblog/blog/internal/storage"
	"github.com/myblog/blog/internal/syndication"
	"github.com/myblog/blog/pkg/logger"
)

func main() {
	presign := flag.Duration("presign", 0, "print presigned GET URLs valid for this long")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if !cfg.Storage.Enabled() {
		logger.Fatalf("MINIO_ENDPOINT is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	repo, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer closeStore(ctx)

	store, err := storage.NewMinIOStorage(ctx, &cfg.Storage)
	if err != nil {
		logger.Fatalf("object storage: %v", err)
	}

	site := syndication.Site{BaseURL: cfg.Site.URL, Title: cfg.Site.Title, Description: cfg.Site.Description}
	keys, err := publish.NewExporter(repo, store, site, cfg.Storage.Prefix).Export(ctx)
	if err != nil {
		logger.Fatalf("export failed: %v", err)
	}
	for _, key := range keys {
		if *presign <= 0 {
			fmt.Println(key)
			continue
		}
		u, err := store.GetPresignedURL(ctx, key, *presign)
		if err != nil {
			logger.Fatalf("presign %s: %v", key, err)
		}
		fmt.Println(u)
	}
}

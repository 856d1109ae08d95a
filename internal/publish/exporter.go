// Package publish pushes the sitemap and RSS feed to object storage so they
// can be served by a CDN in front of the bucket.
package publish

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/internal/syndication"
	"github.com/myblog/blog/pkg/logger"
	"github.com/myblog/blog/pkg/metrics"
)

const (
	SitemapKey = "sitemap.xml"
	FeedKey    = "feed.xml"

	contentTypeXML = "application/xml"
	contentTypeRSS = "application/rss+xml"
)

// Uploader stores an object under key. storage.MinIOStorage satisfies it.
type Uploader interface {
	UploadFile(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
}

// Source lists published posts, newest first.
type Source interface {
	ListPublished(ctx context.Context, q repository.Query) ([]*post.Post, error)
}

type Exporter struct {
	src      Source
	uploader Uploader
	site     syndication.Site
	prefix   string
}

// NewExporter returns an exporter writing objects under prefix (may be empty).
func NewExporter(src Source, uploader Uploader, site syndication.Site, prefix string) *Exporter {
	return &Exporter{src: src, uploader: uploader, site: site, prefix: prefix}
}

// Export renders both documents and uploads them. It returns the keys written.
func (e *Exporter) Export(ctx context.Context) ([]string, error) {
	posts, err := e.src.ListPublished(ctx, repository.Query{})
	if err != nil {
		metrics.Exports.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("list posts: %w", err)
	}

	docs := []struct {
		key, contentType string
		doc              any
	}{
		{SitemapKey, contentTypeXML, syndication.Sitemap(e.site, posts)},
		{FeedKey, contentTypeRSS, syndication.Feed(e.site, posts)},
	}

	keys := make([]string, 0, len(docs))
	for _, d := range docs {
		var buf bytes.Buffer
		if err := syndication.Encode(&buf, d.doc); err != nil {
			metrics.Exports.WithLabelValues("error").Inc()
			return keys, err
		}
		key := e.prefix + d.key
		if err := e.uploader.UploadFile(ctx, key, &buf, int64(buf.Len()), d.contentType); err != nil {
			metrics.Exports.WithLabelValues("error").Inc()
			return keys, fmt.Errorf("upload %s: %w", key, err)
		}
		keys = append(keys, key)
	}
	metrics.Exports.WithLabelValues("ok").Inc()
	logger.Infof("exported %d posts to %v", len(posts), keys)
	return keys, nil
}

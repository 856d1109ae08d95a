package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/internal/syndication"
	"github.com/myblog/blog/pkg/logger"
)

// PostLister is the read side of the post store the feed and sitemap need.
type PostLister interface {
	ListPublished(ctx context.Context, q repository.Query) ([]*post.Post, error)
}

// RegisterSyndication mounts the RSS feed and the sitemap.
func RegisterSyndication(rg gin.IRouter, posts PostLister, site syndication.Site) {
	rg.GET("/blog/feed/", func(c *gin.Context) {
		list, err := posts.ListPublished(c.Request.Context(), repository.Query{Limit: syndication.FeedItems})
		if err != nil {
			logger.Errorf("feed: %v", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		writeXML(c, "application/rss+xml; charset=utf-8", syndication.Feed(site, list))
	})

	rg.GET("/sitemap.xml", func(c *gin.Context) {
		list, err := posts.ListPublished(c.Request.Context(), repository.Query{})
		if err != nil {
			logger.Errorf("sitemap: %v", err)
			c.Status(http.StatusInternalServerError)
			return
		}
		writeXML(c, "application/xml; charset=utf-8", syndication.Sitemap(site, list))
	})
}

func writeXML(c *gin.Context, contentType string, doc any) {
	var buf bytes.Buffer
	if err := syndication.Encode(&buf, doc); err != nil {
		logger.Errorf("%s: %v", c.Request.URL.Path, err)
		c.Status(http.StatusInternalServerError)
		return
	}
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

package syndication

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/myblog/blog/internal/post"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func posts(n int) []*post.Post {
	out := make([]*post.Post, 0, n)
	base := time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		out = append(out, &post.Post{
			ID:      fmt.Sprintf("p%d", i),
			Title:   fmt.Sprintf("Post %d", i),
			Slug:    fmt.Sprintf("post-%d", i),
			Body:    "one two three",
			Status:  post.StatusPublished,
			Publish: base.AddDate(0, 0, -i),
			Updated: base.AddDate(0, 0, -i).Add(time.Hour),
		})
	}
	return out
}

func TestTruncateWords(t *testing.T) {
	assert.Equal(t, "a b c", TruncateWords("a  b\nc", 15))
	assert.Equal(t, "a b …", TruncateWords("a b c d", 2))
	assert.Equal(t, "", TruncateWords("", 3))
}

func TestFeed(t *testing.T) {
	ps := posts(7)
	ps[1].Status = post.StatusDraft
	ps[0].Body = strings.Repeat("word ", 20)

	rss := Feed(Site{BaseURL: "https://myblog.com/"}, ps)
	require.Equal(t, FeedTitle, rss.Channel.Title)
	require.Equal(t, FeedDescription, rss.Channel.Description)
	require.Equal(t, "https://myblog.com/blog/", rss.Channel.Link)
	require.Len(t, rss.Channel.Items, FeedItems)

	first := rss.Channel.Items[0]
	assert.Equal(t, "Post 0", first.Title)
	assert.Equal(t, "https://myblog.com/blog/2024/5/20/post-0/", first.Link)
	assert.Equal(t, strings.TrimSpace(strings.Repeat("word ", 15))+" …", first.Description)
	for _, it := range rss.Channel.Items {
		assert.NotEqual(t, "Post 1", it.Title)
	}
}

func TestSitemap(t *testing.T) {
	ps := posts(3)
	ps[2].Status = post.StatusDraft

	set := Sitemap(Site{BaseURL: "https://myblog.com"}, ps)
	require.Len(t, set.URLs, 2)
	assert.Equal(t, "https://myblog.com/blog/2024/5/19/post-1/", set.URLs[1].Loc)
	assert.Equal(t, "2024-05-19", set.URLs[1].LastMod)
	assert.Equal(t, "weekly", set.URLs[0].ChangeFreq)
	assert.Equal(t, "0.9", set.URLs[0].Priority)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, set))
	assert.True(t, strings.HasPrefix(buf.String(), "<?xml"))
	assert.Contains(t, buf.String(), `xmlns="http://www.sitemaps.org/schemas/sitemap/0.9"`)

	var decoded URLSet
	require.NoError(t, xml.Unmarshal(buf.Bytes(), &decoded))
	assert.Len(t, decoded.URLs, 2)
}

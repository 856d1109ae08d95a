// Package syndication renders the RSS feed and the sitemap of published posts.
package syndication

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/myblog/blog/internal/post"
)

const (
	FeedTitle       = "My blog"
	FeedDescription = "New posts of my blog."
	// FeedItems is how many of the latest posts the feed carries.
	FeedItems = 5
	// DescriptionWords bounds each item description.
	DescriptionWords = 15

	ChangeFreq = "weekly"
	Priority   = 0.9

	sitemapNS = "http://www.sitemaps.org/schemas/sitemap/0.9"
)

// Site carries what the feed needs to know about the blog itself.
type Site struct {
	BaseURL     string
	Title       string
	Description string
}

func (s Site) abs(path string) string {
	return strings.TrimRight(s.BaseURL, "/") + path
}

type RSS struct {
	XMLName xml.Name `xml:"rss"`
	Version string   `xml:"version,attr"`
	Channel Channel  `xml:"channel"`
}

type Channel struct {
	Title         string `xml:"title"`
	Link          string `xml:"link"`
	Description   string `xml:"description"`
	LastBuildDate string `xml:"lastBuildDate,omitempty"`
	Items         []Item `xml:"item"`
}

type Item struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
	GUID        string `xml:"guid"`
}

// Feed builds the RSS document for posts, which are expected newest first.
// Only the first FeedItems published posts are included.
func Feed(site Site, posts []*post.Post) *RSS {
	title := site.Title
	if title == "" {
		title = FeedTitle
	}
	desc := site.Description
	if desc == "" {
		desc = FeedDescription
	}
	rss := &RSS{
		Version: "2.0",
		Channel: Channel{Title: title, Link: site.abs("/blog/"), Description: desc},
	}
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		if len(rss.Channel.Items) == FeedItems {
			break
		}
		link := site.abs(p.URL())
		rss.Channel.Items = append(rss.Channel.Items, Item{
			Title:       p.Title,
			Link:        link,
			Description: TruncateWords(p.Body, DescriptionWords),
			PubDate:     p.Publish.UTC().Format(time.RFC1123Z),
			GUID:        link,
		})
	}
	if len(rss.Channel.Items) > 0 {
		rss.Channel.LastBuildDate = rss.Channel.Items[0].PubDate
	}
	return rss
}

type URLSet struct {
	XMLName xml.Name     `xml:"urlset"`
	XMLNS   string       `xml:"xmlns,attr"`
	URLs    []SitemapURL `xml:"url"`
}

type SitemapURL struct {
	Loc        string `xml:"loc"`
	LastMod    string `xml:"lastmod"`
	ChangeFreq string `xml:"changefreq"`
	Priority   string `xml:"priority"`
}

// Sitemap lists every published post with its last modification date.
func Sitemap(site Site, posts []*post.Post) *URLSet {
	set := &URLSet{XMLNS: sitemapNS}
	for _, p := range posts {
		if !p.IsPublished() {
			continue
		}
		set.URLs = append(set.URLs, SitemapURL{
			Loc:        site.abs(p.URL()),
			LastMod:    p.Updated.UTC().Format("2006-01-02"),
			ChangeFreq: ChangeFreq,
			Priority:   fmt.Sprintf("%.1f", Priority),
		})
	}
	return set
}

// Encode writes v as an indented XML document with the standard header.
func Encode(w io.Writer, v any) error {
	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode xml: %w", err)
	}
	return enc.Flush()
}

// TruncateWords keeps the first n whitespace separated words of s and marks
// the cut with an ellipsis.
func TruncateWords(s string, n int) string {
	words := strings.Fields(s)
	if len(words) <= n {
		return strings.Join(words, " ")
	}
	return strings.Join(words[:n], " ") + " …"
}

package repository

import (
	"context"
	"errors"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/myblog/blog/internal/post"
)

var (
	ErrNotFound  = errors.New("post not found")
	ErrSlugTaken = errors.New("slug already used on this publish date")
)

// Query narrows ListPublished. The zero value selects every published post.
type Query struct {
	// TagIDs keeps posts sharing at least one of these tags.
	TagIDs []string
	// ExcludeID drops a single post from the result.
	ExcludeID string
	// Text is a candidate hint for backends with a full-text index; others ignore it.
	Text string
	// Limit truncates the result when > 0.
	Limit int
}

// Repository is the persistence collaborator for posts and comments.
type Repository interface {
	Create(ctx context.Context, p *post.Post) (string, error)
	Get(ctx context.Context, id string) (*post.Post, error)
	Update(ctx context.Context, p *post.Post) error
	Delete(ctx context.Context, id string) error
	ListPublished(ctx context.Context, q Query) ([]*post.Post, error)
	TagBySlug(ctx context.Context, slug string) (*post.Tag, error)

	AddComment(ctx context.Context, c *post.Comment) error
	Comments(ctx context.Context, postID string, activeOnly bool) ([]*post.Comment, error)
	CommentCounts(ctx context.Context) (map[string]int, error)
}

func prepareCreate(p *post.Post, now time.Time) {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.Slug == "" {
		p.Slug = post.Slugify(p.Title)
	}
	if p.Status == "" {
		p.Status = post.StatusDraft
	}
	if p.Publish.IsZero() {
		p.Publish = now
	}
	p.Created = now
	p.Updated = now
}

// checkSlug rejects p when another post already owns its date and slug,
// since the detail URL could then reach only one of them.
func checkSlug(existing []*post.Post, p *post.Post) error {
	for _, o := range existing {
		if p.SharesURL(o) {
			return ErrSlugTaken
		}
	}
	return nil
}

func prepareComment(c *post.Comment, now time.Time) {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	c.Created = now
	c.Updated = now
}

// matches applies the in-process part of a Query (everything but Text and Limit).
func (q Query) matches(p *post.Post) bool {
	if !p.IsPublished() || (q.ExcludeID != "" && p.ID == q.ExcludeID) {
		return false
	}
	if len(q.TagIDs) == 0 {
		return true
	}
	for _, id := range q.TagIDs {
		if p.HasTag(id) {
			return true
		}
	}
	return false
}

// newestFirst orders by publish time descending with ID as the final key so
// map-backed stores return a stable order.
func newestFirst(posts []*post.Post, limit int) []*post.Post {
	sort.SliceStable(posts, func(i, j int) bool {
		if !posts[i].Publish.Equal(posts[j].Publish) {
			return posts[i].Publish.After(posts[j].Publish)
		}
		return posts[i].ID < posts[j].ID
	})
	if limit > 0 && limit < len(posts) {
		posts = posts[:limit]
	}
	return posts
}

func clonePost(p *post.Post) *post.Post {
	cp := *p
	cp.Tags = append([]post.Tag(nil), p.Tags...)
	return &cp
}

func sortComments(cs []*post.Comment) {
	sort.SliceStable(cs, func(i, j int) bool { return cs[i].Created.Before(cs[j].Created) })
}

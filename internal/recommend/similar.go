// Package recommend suggests related posts by shared tags.
package recommend

import (
	"context"
	"errors"
	"sort"

	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/pkg/metrics"
)

// DefaultLimit is used when Similar is called with a non-positive limit.
const DefaultLimit = 4

// ErrNotFound is returned when the reference post is missing or not published.
var ErrNotFound = errors.New("post not found")

// Store is the read side of the post repository the recommender needs.
type Store interface {
	Get(ctx context.Context, id string) (*post.Post, error)
	ListPublished(ctx context.Context, q repository.Query) ([]*post.Post, error)
}

// Recommender ranks published posts by tag overlap with a reference post.
// It is stateless and safe for concurrent use.
type Recommender struct {
	store Store
}

func New(store Store) *Recommender {
	return &Recommender{store: store}
}

// Similar returns up to limit other published posts sharing at least one tag
// with p, ordered by overlap count then publish time, both descending.
func (r *Recommender) Similar(ctx context.Context, p *post.Post, limit int) ([]*post.Post, error) {
	if !p.IsPublished() {
		return nil, ErrNotFound
	}
	if limit <= 0 {
		limit = DefaultLimit
	}
	tagIDs := p.TagIDs()
	if len(tagIDs) == 0 {
		metrics.SimilarRequests.WithLabelValues("no_tags").Inc()
		return []*post.Post{}, nil
	}

	candidates, err := r.store.ListPublished(ctx, repository.Query{TagIDs: tagIDs, ExcludeID: p.ID})
	if err != nil {
		metrics.SimilarRequests.WithLabelValues("error").Inc()
		return nil, err
	}

	type scored struct {
		p       *post.Post
		overlap int
	}
	ranked := make([]scored, 0, len(candidates))
	for _, c := range candidates {
		if c.ID == p.ID || !c.IsPublished() {
			continue
		}
		if n := Overlap(tagIDs, c); n > 0 {
			ranked = append(ranked, scored{p: c, overlap: n})
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].overlap != ranked[j].overlap {
			return ranked[i].overlap > ranked[j].overlap
		}
		return ranked[i].p.Publish.After(ranked[j].p.Publish)
	})
	if len(ranked) > limit {
		ranked = ranked[:limit]
	}

	out := make([]*post.Post, len(ranked))
	for i, s := range ranked {
		out[i] = s.p
	}
	metrics.SimilarRequests.WithLabelValues("ok").Inc()
	return out, nil
}

// SimilarByID loads the reference post and delegates to Similar.
func (r *Recommender) SimilarByID(ctx context.Context, id string, limit int) ([]*post.Post, error) {
	p, err := r.store.Get(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return r.Similar(ctx, p, limit)
}

// Overlap counts the distinct tag IDs c shares with tagIDs.
func Overlap(tagIDs []string, c *post.Post) int {
	n := 0
	for _, id := range tagIDs {
		if c.HasTag(id) {
			n++
		}
	}
	return n
}

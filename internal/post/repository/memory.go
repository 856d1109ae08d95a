package repository

import (
	"context"
	"sync"
	"time"

	"github.com/myblog/blog/internal/post"
)

// MemoryRepo is an in-memory repository used for development and unit tests.
// Returned posts are copies; callers cannot mutate the store through them.
type MemoryRepo struct {
	mu       sync.RWMutex
	store    map[string]*post.Post
	comments map[string][]*post.Comment
	now      func() time.Time
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		store:    make(map[string]*post.Post),
		comments: make(map[string][]*post.Comment),
		now:      time.Now,
	}
}

func (m *MemoryRepo) Create(_ context.Context, p *post.Post) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	prepareCreate(p, m.now())
	if err := checkSlug(m.values(), p); err != nil {
		return "", err
	}
	m.store[p.ID] = clonePost(p)
	return p.ID, nil
}

func (m *MemoryRepo) Get(_ context.Context, id string) (*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if p, ok := m.store[id]; ok {
		return clonePost(p), nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) Update(_ context.Context, p *post.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cur, ok := m.store[p.ID]
	if !ok {
		return ErrNotFound
	}
	if err := checkSlug(m.values(), p); err != nil {
		return err
	}
	p.Created = cur.Created
	p.Updated = m.now()
	m.store[p.ID] = clonePost(p)
	return nil
}

// values lists stored posts without copying; callers hold m.mu.
func (m *MemoryRepo) values() []*post.Post {
	out := make([]*post.Post, 0, len(m.store))
	for _, p := range m.store {
		out = append(out, p)
	}
	return out
}

func (m *MemoryRepo) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	delete(m.comments, id)
	return nil
}

func (m *MemoryRepo) ListPublished(_ context.Context, q Query) ([]*post.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*post.Post, 0, len(m.store))
	for _, p := range m.store {
		if q.matches(p) {
			out = append(out, clonePost(p))
		}
	}
	return newestFirst(out, q.Limit), nil
}

func (m *MemoryRepo) TagBySlug(_ context.Context, slug string) (*post.Tag, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, p := range m.store {
		for _, t := range p.Tags {
			if t.Slug == slug {
				tag := t
				return &tag, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) AddComment(_ context.Context, c *post.Comment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[c.PostID]; !ok {
		return ErrNotFound
	}
	prepareComment(c, m.now())
	cp := *c
	m.comments[c.PostID] = append(m.comments[c.PostID], &cp)
	return nil
}

func (m *MemoryRepo) Comments(_ context.Context, postID string, activeOnly bool) ([]*post.Comment, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []*post.Comment{}
	for _, c := range m.comments[postID] {
		if activeOnly && !c.Active {
			continue
		}
		cp := *c
		out = append(out, &cp)
	}
	sortComments(out)
	return out, nil
}

func (m *MemoryRepo) CommentCounts(_ context.Context) (map[string]int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	counts := make(map[string]int, len(m.comments))
	for id, cs := range m.comments {
		for _, c := range cs {
			if c.Active {
				counts[id]++
			}
		}
	}
	return counts, nil
}

package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/myblog/blog/internal/post"
	"github.com/timshannon/badgerhold/v4"
)

// BadgerRepo is an embedded on-disk repository for single-node deployments.
// Posts and comments share one badgerhold store; selection happens in process,
// which suits the corpus size of a personal blog.
type BadgerRepo struct {
	store *badgerhold.Store
	now   func() time.Time
}

// OpenBadgerRepo opens (or creates) the store under dir.
func OpenBadgerRepo(dir string) (*BadgerRepo, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create badger dir: %w", err)
	}
	opts := badgerhold.DefaultOptions
	opts.Dir = dir
	opts.ValueDir = dir
	opts.Logger = nil
	store, err := badgerhold.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &BadgerRepo{store: store, now: time.Now}, nil
}

func (b *BadgerRepo) Close() error {
	return b.store.Close()
}

func (b *BadgerRepo) Create(_ context.Context, p *post.Post) (string, error) {
	prepareCreate(p, b.now().UTC())
	if err := b.checkSlug(p); err != nil {
		return "", err
	}
	if err := b.store.Insert(p.ID, p); err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	return p.ID, nil
}

func (b *BadgerRepo) Get(_ context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := b.store.Get(id, &p); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (b *BadgerRepo) Update(ctx context.Context, p *post.Post) error {
	cur, err := b.Get(ctx, p.ID)
	if err != nil {
		return err
	}
	if err := b.checkSlug(p); err != nil {
		return err
	}
	p.Created = cur.Created
	p.Updated = b.now().UTC()
	return b.store.Update(p.ID, p)
}

func (b *BadgerRepo) Delete(_ context.Context, id string) error {
	if err := b.store.Delete(id, &post.Post{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if err := b.store.DeleteMatching(&post.Comment{}, badgerhold.Where("PostID").Eq(id)); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}

func (b *BadgerRepo) all() ([]*post.Post, error) {
	var rows []post.Post
	if err := b.store.Find(&rows, nil); err != nil {
		return nil, err
	}
	out := make([]*post.Post, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	return out, nil
}

func (b *BadgerRepo) checkSlug(p *post.Post) error {
	var rows []post.Post
	if err := b.store.Find(&rows, badgerhold.Where("Slug").Eq(p.Slug)); err != nil {
		return err
	}
	same := make([]*post.Post, len(rows))
	for i := range rows {
		same[i] = &rows[i]
	}
	return checkSlug(same, p)
}

func (b *BadgerRepo) ListPublished(_ context.Context, q Query) ([]*post.Post, error) {
	rows, err := b.all()
	if err != nil {
		return nil, err
	}
	out := rows[:0]
	for _, p := range rows {
		if q.matches(p) {
			out = append(out, p)
		}
	}
	return newestFirst(out, q.Limit), nil
}

func (b *BadgerRepo) TagBySlug(_ context.Context, slug string) (*post.Tag, error) {
	rows, err := b.all()
	if err != nil {
		return nil, err
	}
	for _, p := range rows {
		for _, t := range p.Tags {
			if t.Slug == slug {
				tag := t
				return &tag, nil
			}
		}
	}
	return nil, ErrNotFound
}

func (b *BadgerRepo) AddComment(ctx context.Context, c *post.Comment) error {
	if _, err := b.Get(ctx, c.PostID); err != nil {
		return err
	}
	prepareComment(c, b.now().UTC())
	return b.store.Insert(c.ID, c)
}

func (b *BadgerRepo) Comments(_ context.Context, postID string, activeOnly bool) ([]*post.Comment, error) {
	q := badgerhold.Where("PostID").Eq(postID)
	if activeOnly {
		q = q.And("Active").Eq(true)
	}
	var rows []post.Comment
	if err := b.store.Find(&rows, q); err != nil {
		return nil, err
	}
	out := make([]*post.Comment, len(rows))
	for i := range rows {
		out[i] = &rows[i]
	}
	sortComments(out)
	return out, nil
}

func (b *BadgerRepo) CommentCounts(_ context.Context) (map[string]int, error) {
	var rows []post.Comment
	if err := b.store.Find(&rows, badgerhold.Where("Active").Eq(true)); err != nil {
		return nil, err
	}
	counts := make(map[string]int)
	for _, c := range rows {
		counts[c.PostID]++
	}
	return counts, nil
}

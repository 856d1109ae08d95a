package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/repository"
	"go.mongodb.org/mongo-driver/mongo"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrTitleTooLong = fmt.Errorf("title exceeds %d characters", post.MaxTitleLength)
	ErrSlugTaken    = repository.ErrSlugTaken
)

const (
	// DefaultLatestCount and DefaultMostCommentedCount size the sidebar lists.
	DefaultLatestCount        = 5
	DefaultMostCommentedCount = 5
)

// Service holds the post business operations used by the handler layer.
// Public reads only ever see published posts.
type Service struct {
	repo repository.Repository
}

func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// NewMemoryService returns a Service backed by the in-memory repository.
func NewMemoryService() *Service {
	return New(repository.NewMemoryRepo())
}

// NewMongoService returns a Service backed by a MongoDB database.
// Caller is responsible for creating the client and passing the database in.
func NewMongoService(ctx context.Context, db *mongo.Database) (*Service, error) {
	repo, err := repository.NewMongoRepo(ctx, db)
	if err != nil {
		return nil, err
	}
	return New(repo), nil
}

// Repository exposes the underlying store for the search components.
func (s *Service) Repository() repository.Repository {
	return s.repo
}

func mapErr(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

// List returns published posts, newest first. A non-empty tagSlug restricts
// the list to that tag and must name an existing tag.
func (s *Service) List(ctx context.Context, tagSlug string) ([]*post.Post, *post.Tag, error) {
	var q repository.Query
	var tag *post.Tag
	if tagSlug != "" {
		t, err := s.repo.TagBySlug(ctx, tagSlug)
		if err != nil {
			return nil, nil, mapErr(err)
		}
		tag = t
		q.TagIDs = []string{t.ID}
	}
	posts, err := s.repo.ListPublished(ctx, q)
	if err != nil {
		return nil, nil, err
	}
	return posts, tag, nil
}

// Detail finds the published post with slug published on the given day.
func (s *Service) Detail(ctx context.Context, year, month, day int, slug string) (*post.Post, error) {
	posts, err := s.repo.ListPublished(ctx, repository.Query{})
	if err != nil {
		return nil, err
	}
	for _, p := range posts {
		if p.Slug == slug && p.PublishedOn(year, month, day) {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

// Published returns the post with id when it exists and is published.
func (s *Service) Published(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, mapErr(err)
	}
	if !p.IsPublished() {
		return nil, ErrNotFound
	}
	return p, nil
}

// Get returns a post regardless of status, for the authoring surface.
func (s *Service) Get(ctx context.Context, id string) (*post.Post, error) {
	p, err := s.repo.Get(ctx, id)
	return p, mapErr(err)
}

func (s *Service) Create(ctx context.Context, p *post.Post) (string, error) {
	if utf8.RuneCountInString(p.Title) > post.MaxTitleLength {
		return "", ErrTitleTooLong
	}
	return s.repo.Create(ctx, p)
}

func (s *Service) Update(ctx context.Context, p *post.Post) error {
	if utf8.RuneCountInString(p.Title) > post.MaxTitleLength {
		return ErrTitleTooLong
	}
	return mapErr(s.repo.Update(ctx, p))
}

func (s *Service) Delete(ctx context.Context, id string) error {
	return mapErr(s.repo.Delete(ctx, id))
}

// AddComment attaches an active comment to a published post.
func (s *Service) AddComment(ctx context.Context, postID, name, email, body string) (*post.Comment, error) {
	if _, err := s.Published(ctx, postID); err != nil {
		return nil, err
	}
	c := &post.Comment{
		PostID: postID,
		Name:   strings.TrimSpace(name),
		Email:  strings.TrimSpace(email),
		Body:   body,
		Active: true,
	}
	if err := s.repo.AddComment(ctx, c); err != nil {
		return nil, mapErr(err)
	}
	return c, nil
}

func (s *Service) ActiveComments(ctx context.Context, postID string) ([]*post.Comment, error) {
	return s.repo.Comments(ctx, postID, true)
}

// Total counts published posts.
func (s *Service) Total(ctx context.Context) (int, error) {
	posts, err := s.repo.ListPublished(ctx, repository.Query{})
	if err != nil {
		return 0, err
	}
	return len(posts), nil
}

func (s *Service) Latest(ctx context.Context, count int) ([]*post.Post, error) {
	if count <= 0 {
		count = DefaultLatestCount
	}
	return s.repo.ListPublished(ctx, repository.Query{Limit: count})
}

// CommentedPost pairs a post with its active comment count.
type CommentedPost struct {
	Post     *post.Post `json:"post"`
	Comments int        `json:"totalComments"`
}

// MostCommented ranks published posts by active comment count, newest first on ties.
func (s *Service) MostCommented(ctx context.Context, count int) ([]CommentedPost, error) {
	if count <= 0 {
		count = DefaultMostCommentedCount
	}
	posts, err := s.repo.ListPublished(ctx, repository.Query{})
	if err != nil {
		return nil, err
	}
	counts, err := s.repo.CommentCounts(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]CommentedPost, len(posts))
	for i, p := range posts {
		out[i] = CommentedPost{Post: p, Comments: counts[p.ID]}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Comments > out[j].Comments })
	if len(out) > count {
		out = out[:count]
	}
	return out, nil
}

package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/myblog/blog/internal/post"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*Service, []*post.Post) {
	t.Helper()
	svc := NewMemoryService()
	goTag := post.Tag{ID: "t1", Slug: "go", Name: "Go"}
	posts := []*post.Post{
		{Title: "First", Status: post.StatusPublished, Publish: time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC), Tags: []post.Tag{goTag}},
		{Title: "Second", Status: post.StatusPublished, Publish: time.Date(2024, 1, 2, 8, 0, 0, 0, time.UTC)},
		{Title: "Hidden", Status: post.StatusDraft, Publish: time.Date(2024, 1, 3, 8, 0, 0, 0, time.UTC), Tags: []post.Tag{goTag}},
	}
	for _, p := range posts {
		_, err := svc.Create(context.Background(), p)
		require.NoError(t, err)
	}
	return svc, posts
}

func TestList(t *testing.T) {
	svc, posts := fixture(t)
	ctx := context.Background()

	all, tag, err := svc.List(ctx, "")
	require.NoError(t, err)
	require.Nil(t, tag)
	require.Len(t, all, 2)
	require.Equal(t, "Second", all[0].Title)

	tagged, tag, err := svc.List(ctx, "go")
	require.NoError(t, err)
	require.Equal(t, "Go", tag.Name)
	require.Len(t, tagged, 1)
	require.Equal(t, posts[0].ID, tagged[0].ID)

	_, _, err = svc.List(ctx, "nope")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestDetailAndPublished(t *testing.T) {
	svc, posts := fixture(t)
	ctx := context.Background()

	p, err := svc.Detail(ctx, 2024, 1, 1, "first")
	require.NoError(t, err)
	require.Equal(t, posts[0].ID, p.ID)

	_, err = svc.Detail(ctx, 2024, 1, 2, "first")
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Detail(ctx, 2024, 1, 3, "hidden")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = svc.Published(ctx, posts[2].ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = svc.Published(ctx, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	draft, err := svc.Get(ctx, posts[2].ID)
	require.NoError(t, err)
	require.Equal(t, post.StatusDraft, draft.Status)
}

func TestCommentsAndStats(t *testing.T) {
	svc, posts := fixture(t)
	ctx := context.Background()

	c, err := svc.AddComment(ctx, posts[1].ID, " Ann ", "ann@example.com", "nice")
	require.NoError(t, err)
	require.True(t, c.Active)
	require.Equal(t, "Ann", c.Name)

	_, err = svc.AddComment(ctx, posts[2].ID, "Ann", "ann@example.com", "draft")
	require.ErrorIs(t, err, ErrNotFound)

	comments, err := svc.ActiveComments(ctx, posts[1].ID)
	require.NoError(t, err)
	require.Len(t, comments, 1)

	total, err := svc.Total(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, total)

	latest, err := svc.Latest(ctx, 1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	require.Equal(t, "Second", latest[0].Title)

	most, err := svc.MostCommented(ctx, 0)
	require.NoError(t, err)
	require.Len(t, most, 2)
	require.Equal(t, posts[1].ID, most[0].Post.ID)
	require.Equal(t, 1, most[0].Comments)
	require.Equal(t, 0, most[1].Comments)
}

func TestUpdateDelete(t *testing.T) {
	svc, posts := fixture(t)
	ctx := context.Background()

	posts[2].Status = post.StatusPublished
	require.NoError(t, svc.Update(ctx, posts[2]))
	total, err := svc.Total(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, total)

	require.NoError(t, svc.Delete(ctx, posts[0].ID))
	require.ErrorIs(t, svc.Delete(ctx, posts[0].ID), ErrNotFound)
	require.ErrorIs(t, svc.Update(ctx, &post.Post{ID: "missing"}), ErrNotFound)
}

func TestCreateRules(t *testing.T) {
	svc, posts := fixture(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, &post.Post{Title: strings.Repeat("a", post.MaxTitleLength+1)})
	require.ErrorIs(t, err, ErrTitleTooLong)
	_, err = svc.Create(ctx, &post.Post{Title: strings.Repeat("é", post.MaxTitleLength)})
	require.NoError(t, err)

	posts[1].Title = strings.Repeat("b", post.MaxTitleLength+1)
	require.ErrorIs(t, svc.Update(ctx, posts[1]), ErrTitleTooLong)

	_, err = svc.Create(ctx, &post.Post{Title: "First", Publish: time.Date(2024, 1, 1, 20, 0, 0, 0, time.UTC)})
	require.ErrorIs(t, err, ErrSlugTaken)
}

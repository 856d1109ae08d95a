package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/myblog/blog/internal/post"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoRepo implements Repository on two collections, "posts" and "comments".
// A weighted text index over title and body lets ListPublished narrow search
// candidates server-side when Query.Text is set.
type MongoRepo struct {
	posts    *mongo.Collection
	comments *mongo.Collection
	now      func() time.Time
}

// NewMongoRepo binds the collections and ensures their indexes. The text
// index is required by ListPublished whenever Query.Text is set, so an index
// error fails construction.
func NewMongoRepo(ctx context.Context, db *mongo.Database) (*MongoRepo, error) {
	m := &MongoRepo{posts: db.Collection("posts"), comments: db.Collection("comments"), now: time.Now}
	_, err := m.posts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "publish", Value: -1}}},
		{Keys: bson.D{{Key: "tags.id", Value: 1}}},
		{Keys: bson.D{{Key: "tags.slug", Value: 1}}},
		{Keys: bson.D{{Key: "slug", Value: 1}}},
		{
			Keys: bson.D{{Key: "title", Value: "text"}, {Key: "body", Value: "text"}},
			Options: options.Index().
				SetName("title_body_text").
				SetDefaultLanguage("english").
				SetWeights(bson.D{{Key: "title", Value: 10}, {Key: "body", Value: 4}}),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("create post indexes: %w", err)
	}
	_, err = m.comments.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "postId", Value: 1}, {Key: "created", Value: 1}}})
	if err != nil {
		return nil, fmt.Errorf("create comment indexes: %w", err)
	}
	return m, nil
}

// publishedFilter translates a Query into a Mongo filter document.
func publishedFilter(q Query) bson.M {
	f := bson.M{"status": post.StatusPublished}
	if len(q.TagIDs) > 0 {
		f["tags.id"] = bson.M{"$in": q.TagIDs}
	}
	if q.ExcludeID != "" {
		f["_id"] = bson.M{"$ne": q.ExcludeID}
	}
	if text := textSearch(q.Text); text != "" {
		f["$text"] = bson.M{"$search": text, "$language": "english"}
	}
	return f
}

// textSearch turns free text into a plain OR of words. Mongo would otherwise
// read quotes as phrases and a leading '-' as negation, narrowing the
// candidates below what the in-process backends return.
func textSearch(raw string) string {
	words := strings.Fields(strings.ReplaceAll(raw, `"`, " "))
	out := words[:0]
	for _, w := range words {
		if w = strings.TrimLeft(w, "-"); w != "" {
			out = append(out, w)
		}
	}
	return strings.Join(out, " ")
}

func (m *MongoRepo) checkSlug(ctx context.Context, p *post.Post) error {
	cur, err := m.posts.Find(ctx, bson.M{"slug": p.Slug, "_id": bson.M{"$ne": p.ID}})
	if err != nil {
		return err
	}
	var same []*post.Post
	if err := cur.All(ctx, &same); err != nil {
		return err
	}
	return checkSlug(same, p)
}

func (m *MongoRepo) Create(ctx context.Context, p *post.Post) (string, error) {
	prepareCreate(p, m.now().UTC())
	if err := m.checkSlug(ctx, p); err != nil {
		return "", err
	}
	if _, err := m.posts.InsertOne(ctx, p); err != nil {
		return "", fmt.Errorf("insert post: %w", err)
	}
	return p.ID, nil
}

func (m *MongoRepo) Get(ctx context.Context, id string) (*post.Post, error) {
	var p post.Post
	if err := m.posts.FindOne(ctx, bson.M{"_id": id}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

func (m *MongoRepo) Update(ctx context.Context, p *post.Post) error {
	if err := m.checkSlug(ctx, p); err != nil {
		return err
	}
	p.Updated = m.now().UTC()
	set := bson.M{
		"title":   p.Title,
		"slug":    p.Slug,
		"author":  p.Author,
		"body":    p.Body,
		"status":  p.Status,
		"publish": p.Publish,
		"updated": p.Updated,
		"tags":    p.Tags,
	}
	res, err := m.posts.UpdateOne(ctx, bson.M{"_id": p.ID}, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *MongoRepo) Delete(ctx context.Context, id string) error {
	res, err := m.posts.DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	if _, err := m.comments.DeleteMany(ctx, bson.M{"postId": id}); err != nil {
		return fmt.Errorf("delete comments: %w", err)
	}
	return nil
}

func (m *MongoRepo) ListPublished(ctx context.Context, q Query) ([]*post.Post, error) {
	opts := options.Find().SetSort(bson.D{{Key: "publish", Value: -1}, {Key: "_id", Value: 1}})
	if q.Limit > 0 {
		opts.SetLimit(int64(q.Limit))
	}
	cur, err := m.posts.Find(ctx, publishedFilter(q), opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)
	out := []*post.Post{}
	for cur.Next(ctx) {
		var p post.Post
		if err := cur.Decode(&p); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, cur.Err()
}

func (m *MongoRepo) TagBySlug(ctx context.Context, slug string) (*post.Tag, error) {
	var p post.Post
	if err := m.posts.FindOne(ctx, bson.M{"tags.slug": slug}).Decode(&p); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	for _, t := range p.Tags {
		if t.Slug == slug {
			tag := t
			return &tag, nil
		}
	}
	return nil, ErrNotFound
}

func (m *MongoRepo) AddComment(ctx context.Context, c *post.Comment) error {
	n, err := m.posts.CountDocuments(ctx, bson.M{"_id": c.PostID})
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	prepareComment(c, m.now().UTC())
	_, err = m.comments.InsertOne(ctx, c)
	return err
}

func (m *MongoRepo) Comments(ctx context.Context, postID string, activeOnly bool) ([]*post.Comment, error) {
	filter := bson.M{"postId": postID}
	if activeOnly {
		filter["active"] = true
	}
	cur, err := m.comments.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "created", Value: 1}}))
	if err != nil {
		return nil, err
	}
	out := []*post.Comment{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (m *MongoRepo) CommentCounts(ctx context.Context) (map[string]int, error) {
	cur, err := m.comments.Aggregate(ctx, mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "active", Value: true}}}},
		{{Key: "$group", Value: bson.D{{Key: "_id", Value: "$postId"}, {Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}}}}},
	})
	if err != nil {
		return nil, err
	}
	var rows []struct {
		PostID string `bson:"_id"`
		Count  int    `bson:"count"`
	}
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.PostID] = r.Count
	}
	return counts, nil
}

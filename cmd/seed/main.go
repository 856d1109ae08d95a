// Command seed loads posts from a JSON file into the configured store.
//
//	seed -file posts.json
//
// The file holds an array of posts; comments listed under a post are added
// as active comments.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"os"
	"time"

	"github.com/myblog/blog/internal/app"
	"github.com/myblog/blog/internal/config"
	"github.com/myblog/blog/internal/post"
	"github.com/myblog/blog/internal/post/service"
	"github.com/myblog/blog/pkg/logger"
)

type seedPost struct {
	post.Post
	Comments []post.Comment `json:"comments"`
}

func main() {
	file := flag.String("file", "posts.json", "JSON array of posts to load")
	flag.Parse()

	logger.Init(os.Getenv("LOG_LEVEL"))
	cfg, err := config.LoadConfig()
	if err != nil {
		logger.Fatalf("failed to load config: %v", err)
	}
	if cfg.Store.Backend == config.BackendMemory {
		logger.Warnf("STORE_BACKEND=memory: seeded posts are discarded on exit")
	}

	raw, err := os.ReadFile(*file)
	if err != nil {
		logger.Fatalf("read %s: %v", *file, err)
	}
	var posts []seedPost
	if err := json.Unmarshal(raw, &posts); err != nil {
		logger.Fatalf("parse %s: %v", *file, err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	repo, closeStore, err := app.OpenStore(ctx, cfg)
	if err != nil {
		logger.Fatalf("open store: %v", err)
	}
	defer closeStore(ctx)

	svc := service.New(repo)
	comments := 0
	for i := range posts {
		p := posts[i].Post
		id, err := svc.Create(ctx, &p)
		if err != nil {
			logger.Fatalf("create %q: %v", p.Title, err)
		}
		for _, c := range posts[i].Comments {
			c.PostID = id
			c.Active = true
			if err := repo.AddComment(ctx, &c); err != nil {
				logger.Fatalf("comment on %q: %v", p.Title, err)
			}
			comments++
		}
	}
	logger.Infof("seeded %d posts and %d comments from %s", len(posts), comments, *file)
}

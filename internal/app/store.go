package app

import (
	"context"
	"fmt"
	"time"

	"github.com/myblog/blog/internal/config"
	"github.com/myblog/blog/internal/database"
	"github.com/myblog/blog/internal/post/repository"
	"github.com/myblog/blog/pkg/logger"
	"go.mongodb.org/mongo-driver/mongo"
)

const mongoConnectAttempts = 5

// OpenStore opens the repository selected by cfg.Store.Backend. The returned
// close func releases the backend and is never nil.
func OpenStore(ctx context.Context, cfg *config.Config) (repository.Repository, func(context.Context) error, error) {
	noop := func(context.Context) error { return nil }
	switch cfg.Store.Backend {
	case config.BackendMongo:
		client, err := connectMongo(ctx, cfg.MongoDB)
		if err != nil {
			return nil, noop, err
		}
		repo, err := repository.NewMongoRepo(ctx, client.Database(cfg.MongoDB.Database))
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, noop, err
		}
		logger.Infof("using MongoDB store (database=%s)", cfg.MongoDB.Database)
		return repo, client.Disconnect, nil
	case config.BackendBadger:
		repo, err := repository.OpenBadgerRepo(cfg.Store.BadgerPath)
		if err != nil {
			return nil, noop, fmt.Errorf("open badger store: %w", err)
		}
		logger.Infof("using Badger store at %s", cfg.Store.BadgerPath)
		return repo, func(context.Context) error { return repo.Close() }, nil
	default:
		logger.Infof("using in-memory store")
		return repository.NewMemoryRepo(), noop, nil
	}
}

// connectMongo retries with backoff to tolerate startup races with the database container.
func connectMongo(ctx context.Context, cfg config.MongoDBConfig) (*mongo.Client, error) {
	backoff := time.Second
	var lastErr error
	for attempt := 1; attempt <= mongoConnectAttempts; attempt++ {
		client, err := database.ConnectMongo(ctx, cfg.URI, cfg.Timeout)
		if err == nil {
			return client, nil
		}
		lastErr = err
		logger.Warnf("attempt %d/%d: failed to connect to MongoDB: %v", attempt, mongoConnectAttempts, err)
		if attempt == mongoConnectAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return nil, fmt.Errorf("could not connect to MongoDB after %d attempts: %w", mongoConnectAttempts, lastErr)
}

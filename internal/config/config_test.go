package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("STORE_BACKEND", "")
	t.Setenv("REDIS_HOST", "")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMemory, cfg.Store.Backend)
	require.Equal(t, "8000", cfg.Server.Port)
	require.Equal(t, 30*time.Second, cfg.Server.ReadTimeout)
	require.Equal(t, "My blog", cfg.Site.Title)
	require.Equal(t, 3, cfg.Site.PerPage)
	require.Equal(t, "admin@myblog.com", cfg.Mail.From)
	require.Equal(t, "", cfg.Redis.Addr())
	require.False(t, cfg.Storage.Enabled())
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("STORE_BACKEND", "Mongo")
	t.Setenv("MONGODB_URI", "mongodb://localhost:27017")
	t.Setenv("MONGODB_DATABASE", "blog_test")
	t.Setenv("REDIS_HOST", "localhost")
	t.Setenv("SITE_URL", "https://myblog.com/")
	t.Setenv("RATE_LIMIT_ENABLED", "true")
	t.Setenv("MINIO_ENDPOINT", "localhost:9000")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	require.Equal(t, BackendMongo, cfg.Store.Backend)
	require.Equal(t, "blog_test", cfg.MongoDB.Database)
	require.Equal(t, "localhost:6379", cfg.Redis.Addr())
	require.Equal(t, "https://myblog.com", cfg.Site.URL)
	require.True(t, cfg.RateLimit.Enabled)
	require.True(t, cfg.Storage.Enabled())
}

func TestLoadConfig_MongoRequiresURI(t *testing.T) {
	t.Setenv("STORE_BACKEND", "mongo")
	t.Setenv("MONGODB_URI", "")

	_, err := LoadConfig()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	base := Config{Store: StoreConfig{Backend: BackendMemory}, Site: SiteConfig{PerPage: 3}}
	require.NoError(t, base.Validate())

	bad := base
	bad.Store.Backend = "sqlite"
	require.Error(t, bad.Validate())

	bad = base
	bad.Store = StoreConfig{Backend: BackendBadger}
	require.Error(t, bad.Validate())

	bad = base
	bad.RateLimit = RateLimitConfig{Enabled: true, RPS: 0}
	require.Error(t, bad.Validate())
}

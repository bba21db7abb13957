package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

// exerciseCache runs the shared contract against a live backend.
func exerciseCache(t *testing.T, c Cache) {
	t.Helper()
	ctx := context.Background()
	key := "gitxmas-test:" + uuid.NewString()
	defer c.Delete(ctx, key)

	if _, hit, err := c.Get(ctx, key); err != nil || hit {
		t.Fatalf("Get(fresh) hit=%v err=%v", hit, err)
	}
	if err := c.Set(ctx, key, []byte("ornament"), time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}
	data, hit, err := c.Get(ctx, key)
	if err != nil || !hit || string(data) != "ornament" {
		t.Fatalf("Get = %q hit=%v err=%v", data, hit, err)
	}
	if err := c.Set(ctx, key, []byte("star"), 0); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	if data, _, _ := c.Get(ctx, key); string(data) != "star" {
		t.Errorf("overwrite not visible: %q", data)
	}
	if err := c.Delete(ctx, key); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, hit, _ := c.Get(ctx, key); hit {
		t.Error("deleted key should miss")
	}
}

func TestRedisCache(t *testing.T) {
	addr := os.Getenv("GITXMAS_TEST_REDIS")
	if addr == "" {
		t.Skip("GITXMAS_TEST_REDIS not set")
	}
	c, err := NewRedisCache(context.Background(), addr)
	if err != nil {
		t.Fatalf("NewRedisCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCache(t *testing.T) {
	uri := os.Getenv("GITXMAS_TEST_MONGO")
	if uri == "" {
		t.Skip("GITXMAS_TEST_MONGO not set")
	}
	c, err := NewMongoCache(context.Background(), uri, "gitxmas_test", "")
	if err != nil {
		t.Fatalf("NewMongoCache: %v", err)
	}
	defer c.Close()
	exerciseCache(t, c)
}

func TestMongoCacheRequiresURI(t *testing.T) {
	if _, err := NewMongoCache(context.Background(), "", "", ""); err == nil {
		t.Error("empty URI should fail")
	}
}

func TestRedisOptions(t *testing.T) {
	tests := []struct {
		addr string
		want string
	}{
		{"", "localhost:6379"},
		{"cache:6380", "cache:6380"},
		{"redis://cache:6390/2", "cache:6390"},
	}
	for _, tt := range tests {
		opts, err := redisOptions(tt.addr)
		if err != nil {
			t.Fatalf("redisOptions(%q): %v", tt.addr, err)
		}
		if opts.Addr != tt.want {
			t.Errorf("redisOptions(%q).Addr = %q, want %q", tt.addr, opts.Addr, tt.want)
		}
	}
}

package cache

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

func TestNullCache(t *testing.T) {
	ctx := context.Background()
	c := NewNullCache()
	defer c.Close()

	if err := c.Set(ctx, "key", []byte("value"), time.Hour); err != nil {
		t.Fatalf("Set error: %v", err)
	}
	data, hit, err := c.Get(ctx, "key")
	if err != nil || hit || data != nil {
		t.Errorf("Get = %q, %v, %v; want miss", data, hit, err)
	}
	if err := c.Delete(ctx, "key"); err != nil {
		t.Errorf("Delete error: %v", err)
	}
}

func TestFileCache(t *testing.T) {
	ctx := context.Background()
	c, err := NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	if _, hit, _ := c.Get(ctx, "level:1"); hit {
		t.Fatal("empty cache should miss")
	}
	if err := c.Set(ctx, "level:1", []byte(`{"total":1}`), time.Hour); err != nil {
		t.Fatal(err)
	}
	data, hit, err := c.Get(ctx, "level:1")
	if err != nil || !hit || string(data) != `{"total":1}` {
		t.Fatalf("Get = %q, %v, %v", data, hit, err)
	}

	n, size, err := c.Usage()
	if err != nil || n != 1 || size == 0 {
		t.Errorf("Usage = %d, %d, %v", n, size, err)
	}

	if err := c.Delete(ctx, "level:1"); err != nil {
		t.Fatal(err)
	}
	if _, hit, _ := c.Get(ctx, "level:1"); hit {
		t.Error("deleted key should miss")
	}
	if err := c.Delete(ctx, "level:1"); err != nil {
		t.Errorf("deleting a missing key: %v", err)
	}
}

func TestFileCacheExpiry(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	now := time.Date(2024, 9, 30, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }

	_ = c.Set(ctx, "short", []byte("a"), time.Minute)
	_ = c.Set(ctx, "forever", []byte("b"), 0)

	now = now.Add(2 * time.Minute)
	if _, hit, _ := c.Get(ctx, "short"); hit {
		t.Error("expired entry should miss")
	}
	if _, hit, _ := c.Get(ctx, "forever"); !hit {
		t.Error("zero TTL entry should never expire")
	}
}

func TestFileCacheClear(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	for _, k := range []string{"a", "b", "c"} {
		_ = c.Set(ctx, k, []byte(k), 0)
	}
	if err := c.Clear(); err != nil {
		t.Fatal(err)
	}
	if n, _, _ := c.Usage(); n != 0 {
		t.Errorf("Usage after Clear = %d entries", n)
	}
}

func TestFileCacheCanceledContext(t *testing.T) {
	c, _ := NewFileCache(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := c.Set(ctx, "k", nil, 0); !errors.Is(err, context.Canceled) {
		t.Errorf("Set err = %v, want context.Canceled", err)
	}
}

func TestGetOrSet(t *testing.T) {
	ctx := context.Background()
	c, _ := NewFileCache(t.TempDir())
	calls := 0
	compute := func() ([]byte, error) {
		calls++
		return []byte("v"), nil
	}

	_, hit, err := GetOrSet(ctx, c, "k", time.Hour, compute)
	if err != nil || hit {
		t.Fatalf("first call hit=%v err=%v", hit, err)
	}
	data, hit, err := GetOrSet(ctx, c, "k", time.Hour, compute)
	if err != nil || !hit || string(data) != "v" {
		t.Fatalf("second call = %q hit=%v err=%v", data, hit, err)
	}
	if calls != 1 {
		t.Errorf("compute called %d times", calls)
	}

	boom := errors.New("boom")
	if _, _, err := GetOrSet(ctx, NewNullCache(), "k", 0, func() ([]byte, error) { return nil, boom }); !errors.Is(err, boom) {
		t.Errorf("compute error not propagated: %v", err)
	}
}

func TestHash(t *testing.T) {
	h1 := Hash([]byte("hello"))
	if h1 != Hash([]byte("hello")) {
		t.Error("Hash should be deterministic")
	}
	if h1 == Hash([]byte("world")) {
		t.Error("different inputs should produce different hashes")
	}
	if len(h1) != 64 {
		t.Errorf("Hash length = %d, want 64", len(h1))
	}
}

func TestDefaultKeyer(t *testing.T) {
	k := NewDefaultKeyer()

	if got := k.HTTPKey("usaspending", "agency/1125"); got != "http:usaspending:agency/1125" {
		t.Errorf("HTTPKey = %s", got)
	}

	if k.LevelKey(2024, "total") == k.LevelKey(2023, "total") {
		t.Error("fiscal year must change the level key")
	}
	if !strings.HasPrefix(k.LevelKey(2024, "total"), "level:") {
		t.Error("level keys should carry the level: prefix")
	}

	base := ArtifactKeyOpts{Format: "svg", View: "tree", Width: 1024, Height: 1024}
	variants := []ArtifactKeyOpts{
		{Format: "png", View: "tree", Width: 1024, Height: 1024},
		{Format: "svg", View: "table", Width: 1024, Height: 1024},
		{Format: "svg", View: "tree", Width: 800, Height: 1024},
		{Format: "svg", View: "tree", Width: 1024, Height: 1024, Amount: 10, Personalize: true},
	}
	for _, v := range variants {
		if k.ArtifactKey("h", base) == k.ArtifactKey("h", v) {
			t.Errorf("ArtifactKey ignores %+v", v)
		}
	}
}

func TestScopedKeyer(t *testing.T) {
	plain := NewDefaultKeyer()
	offline := NewScopedKeyer(nil, "offline:")
	if got := offline.HTTPKey("usaspending", "total"); got != "offline:http:usaspending:total" {
		t.Errorf("HTTPKey = %s", got)
	}
	level := offline.LevelKey(2024, "agency/1125")
	if level != "offline:"+plain.LevelKey(2024, "agency/1125") {
		t.Errorf("LevelKey = %s", level)
	}
	if !strings.HasPrefix(offline.ArtifactKey("h", ArtifactKeyOpts{}), "offline:artifact:") {
		t.Error("ArtifactKey should be prefixed")
	}

	nested := NewScopedKeyer(offline, "fy2024:")
	if got := nested.LevelKey(2024, "total"); !strings.HasPrefix(got, "fy2024:offline:level:") {
		t.Errorf("nested LevelKey = %s", got)
	}
}

func TestMongoEntry(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if e := newMongoEntry("k", nil, 0, now); e.ExpiresAt != nil {
		t.Error("zero TTL should omit expires_at")
	}
	e := newMongoEntry("k", nil, time.Hour, now)
	if e.ExpiresAt == nil || !e.ExpiresAt.Equal(now.Add(time.Hour)) {
		t.Fatalf("ExpiresAt = %v", e.ExpiresAt)
	}
	if expired(e.ExpiresAt, now.Add(30*time.Minute)) {
		t.Error("entry expired early")
	}
	if !expired(e.ExpiresAt, now.Add(2*time.Hour)) {
		t.Error("entry should have expired")
	}
}

func TestRedisCacheUnreachable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 50 * time.Millisecond,
		MaxRetries:  -1,
	})
	c := NewRedisCacheFromClient(client, "spending:")
	defer c.Close()

	if _, hit, err := c.Get(context.Background(), "k"); err == nil || hit {
		t.Errorf("Get against closed port = hit %v err %v, want error", hit, err)
	}
}

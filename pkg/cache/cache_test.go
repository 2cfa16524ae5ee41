package cache_test

import (
	"context"
	"path/filepath"
	"testing"

	"homereel/pkg/cache"
	"homereel/pkg/db"
)

func TestSQLiteCache_RoundTrip(t *testing.T) {
	d, err := db.Init(filepath.Join(t.TempDir(), "cache_test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer d.Close()

	c := cache.NewSQLiteCache(d)
	ctx := context.Background()

	if _, hit := c.GetCache(ctx, "missing"); hit {
		t.Error("expected miss for unknown key")
	}

	if err := c.SetCache(ctx, "k", []byte("v1")); err != nil {
		t.Fatalf("SetCache failed: %v", err)
	}
	val, hit := c.GetCache(ctx, "k")
	if !hit || string(val) != "v1" {
		t.Errorf("GetCache = %q, %v; want v1, true", val, hit)
	}

	// Overwrite
	if err := c.SetCache(ctx, "k", []byte("v2")); err != nil {
		t.Fatalf("SetCache overwrite failed: %v", err)
	}
	val, _ = c.GetCache(ctx, "k")
	if string(val) != "v2" {
		t.Errorf("GetCache after overwrite = %q; want v2", val)
	}
}

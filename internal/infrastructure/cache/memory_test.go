package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryStore_SetGetDelete(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	if err := store.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	v, ok, err := store.Get(ctx, "k")
	if err != nil || !ok || v != "v" {
		t.Fatalf("expected v got %q ok=%v err=%v", v, ok, err)
	}
	_ = store.Delete(ctx, "k")
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected key deleted")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	store := NewMemoryStore()
	defer store.Close()
	ctx := context.Background()

	_ = store.Set(ctx, "k", "v", -time.Second)
	if _, ok, _ := store.Get(ctx, "k"); ok {
		t.Fatalf("expected expired key to be missing")
	}
}

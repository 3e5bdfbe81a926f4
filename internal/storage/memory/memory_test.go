package memory

import (
	"context"
	"testing"
)

func TestGetMissingKey(t *testing.T) {
	s := New()

	value, ok, err := s.Get(context.Background(), "absent")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if ok || value != "" {
		t.Fatalf("expected miss for absent key, got ok=%t value=%q", ok, value)
	}
}

func TestSetGetDelete(t *testing.T) {
	s := New()
	ctx := context.Background()

	if err := s.Set(ctx, "k1", "v1"); err != nil {
		t.Fatalf("set failed: %v", err)
	}
	value, ok, err := s.Get(ctx, "k1")
	if err != nil || !ok || value != "v1" {
		t.Fatalf("expected v1, got ok=%t value=%q err=%v", ok, value, err)
	}

	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("delete failed: %v", err)
	}
	_, ok, _ = s.Get(ctx, "k1")
	if ok {
		t.Fatalf("expected key to be gone after delete")
	}

	// Deleting again is a no-op.
	if err := s.Delete(ctx, "k1"); err != nil {
		t.Fatalf("second delete failed: %v", err)
	}
}

func TestKeysFiltersByPrefix(t *testing.T) {
	s := New()
	ctx := context.Background()

	for _, key := range []string{"app:b", "app:a", "other:c"} {
		if err := s.Set(ctx, key, "x"); err != nil {
			t.Fatalf("set %s failed: %v", key, err)
		}
	}

	keys, err := s.Keys(ctx, "app:")
	if err != nil {
		t.Fatalf("keys failed: %v", err)
	}
	if len(keys) != 2 || keys[0] != "app:a" || keys[1] != "app:b" {
		t.Fatalf("expected sorted [app:a app:b], got %v", keys)
	}
}

package services

import (
	"context"
	"errors"
	"testing"
)

type staticKeys struct {
	keys []string
	err  error
}

func (s staticKeys) ListKeys(ctx context.Context) ([]string, error) {
	return s.keys, s.err
}

func TestKeyPool_LinearRotation(t *testing.T) {
	pool := NewKeyPool(staticKeys{keys: []string{"key-a", "key-b", "key-c"}})
	if err := pool.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	for _, want := range []string{"key-a", "key-b", "key-c"} {
		cred, err := pool.Next()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if cred.Key != want {
			t.Fatalf("expected %s, got %s", want, cred.Key)
		}
	}

	if _, err := pool.Next(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected ErrPoolExhausted, got %v", err)
	}
}

func TestKeyPool_EmptySource(t *testing.T) {
	pool := NewKeyPool(staticKeys{})
	if err := pool.Load(context.Background()); !errors.Is(err, ErrPoolEmpty) {
		t.Fatalf("expected ErrPoolEmpty on load, got %v", err)
	}
	if _, err := pool.Next(); !errors.Is(err, ErrPoolEmpty) {
		t.Fatalf("expected ErrPoolEmpty on next, got %v", err)
	}
}

func TestKeyPool_ReloadResetsCursor(t *testing.T) {
	pool := NewKeyPool(staticKeys{keys: []string{"key-a"}})
	if err := pool.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if _, err := pool.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := pool.Next(); !errors.Is(err, ErrPoolExhausted) {
		t.Fatalf("expected exhaustion, got %v", err)
	}

	if err := pool.Load(context.Background()); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	cred, err := pool.Next()
	if err != nil || cred.Key != "key-a" {
		t.Fatalf("expected key-a after reload, got %q err %v", cred.Key, err)
	}
}

func TestKeyPool_Remaining(t *testing.T) {
	pool := NewKeyPool(staticKeys{keys: []string{"a", "b"}})
	if err := pool.Load(context.Background()); err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if pool.Size() != 2 || pool.Remaining() != 2 {
		t.Fatalf("expected size 2 remaining 2, got %d/%d", pool.Size(), pool.Remaining())
	}
	pool.Next()
	if pool.Remaining() != 1 {
		t.Fatalf("expected remaining 1, got %d", pool.Remaining())
	}
}

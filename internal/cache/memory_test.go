package cache

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestMemory_SetGet(t *testing.T) {
	c := NewMemory("t", time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k1", "v1", time.Minute); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	v, err := c.Get(ctx, "k1")
	if err != nil {
		t.Fatalf("Get err: %v", err)
	}
	if v != "v1" {
		t.Fatalf("got %q", v)
	}
}

func TestMemory_GetMissing(t *testing.T) {
	c := NewMemory("", time.Minute)
	if _, err := c.Get(context.Background(), "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_Expiration(t *testing.T) {
	c := NewMemory("", time.Minute)
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("Set err: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	if _, err := c.Get(ctx, "k"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected expiration, got %v", err)
	}
}

func TestMemory_DeleteExists(t *testing.T) {
	c := NewMemory("p", time.Minute)
	ctx := context.Background()

	_ = c.Set(ctx, "k", "v", time.Minute)

	ok, err := c.Exists(ctx, "k")
	if err != nil || !ok {
		t.Fatalf("Exists: %v %v", ok, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("Delete err: %v", err)
	}
	ok, _ = c.Exists(ctx, "k")
	if ok {
		t.Fatalf("key should be gone")
	}
}

func TestMemory_PrefixIsolation(t *testing.T) {
	ctx := context.Background()
	a := NewMemory("a", time.Minute)
	b := NewMemory("b", time.Minute)

	// Dos clientes con prefijos distintos sobre stores distintos: el
	// prefijo solo cambia la key final, no debe romper el lookup propio.
	_ = a.Set(ctx, "k", "va", time.Minute)
	_ = b.Set(ctx, "k", "vb", time.Minute)

	va, err := a.Get(ctx, "k")
	if err != nil || va != "va" {
		t.Fatalf("a: %q %v", va, err)
	}
	vb, err := b.Get(ctx, "k")
	if err != nil || vb != "vb" {
		t.Fatalf("b: %q %v", vb, err)
	}
}

func TestNew_DefaultsToMemory(t *testing.T) {
	c, err := New(Config{Kind: ""})
	if err != nil {
		t.Fatalf("New err: %v", err)
	}
	if c == nil {
		t.Fatalf("expected a client")
	}
	if err := c.Ping(context.Background()); err != nil {
		t.Fatalf("memory ping should never fail: %v", err)
	}
}

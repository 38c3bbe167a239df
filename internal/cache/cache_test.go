package cache

import (
	"testing"
	"time"
)

func TestTTLCacheGetSet(t *testing.T) {
	c := NewTTLCache[string](10, time.Minute)

	if _, ok := c.Get("missing"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set("wallets", "payload")
	got, ok := c.Get("wallets")
	if !ok || got != "payload" {
		t.Fatalf("Get = (%q, %v), want (payload, true)", got, ok)
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[int](10, 10*time.Millisecond)
	c.Set("k", 1)

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get("k"); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func TestTTLCacheEviction(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3) // evicts oldest

	if _, ok := c.Get("a"); ok {
		t.Error("expected oldest entry to be evicted")
	}
	if _, ok := c.Get("c"); !ok {
		t.Error("expected newest entry to remain")
	}
	if size := c.Size(); size != 2 {
		t.Errorf("size = %d, want 2", size)
	}
}

func TestTTLCacheDelete(t *testing.T) {
	c := NewTTLCache[int](10, time.Minute)
	c.Set("k", 1)
	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatal("expected deleted entry to miss")
	}
}

func TestCleanExpired(t *testing.T) {
	c := NewTTLCache[int](10, 10*time.Millisecond)
	c.Set("a", 1)
	c.Set("b", 2)

	time.Sleep(20 * time.Millisecond)

	if removed := c.CleanExpired(); removed != 2 {
		t.Errorf("CleanExpired = %d, want 2", removed)
	}
	if size := c.Size(); size != 0 {
		t.Errorf("size after sweep = %d, want 0", size)
	}
}

func TestManagerSweeps(t *testing.T) {
	c := NewTTLCache[int](10, 5*time.Millisecond)
	c.Set("k", 1)

	m := NewManager()
	m.Register(c)
	m.StartCleanup(10 * time.Millisecond)
	defer m.Stop()

	deadline := time.After(time.Second)
	for c.Size() > 0 {
		select {
		case <-deadline:
			t.Fatal("manager never swept the expired entry")
		case <-time.After(5 * time.Millisecond):
		}
	}
}

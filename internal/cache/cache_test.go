package cache

import (
	"testing"
	"time"
)

func TestCacheEmptyByDefault(t *testing.T) {
	c := New[[]int64](time.Minute)
	if _, ok := c.Get(); ok {
		t.Error("Get() on a fresh cache reported a value")
	}
}

func TestCacheStoresValue(t *testing.T) {
	c := New[[]int64](time.Minute)
	c.Set([]int64{1, 2, 3})

	got, ok := c.Get()
	if !ok {
		t.Fatal("Get() = false after Set")
	}
	if len(got) != 3 || got[0] != 1 {
		t.Errorf("Get() = %v, want [1 2 3]", got)
	}
}

func TestCacheExpires(t *testing.T) {
	c := New[string](5 * time.Millisecond)
	c.Set("fresh")

	time.Sleep(20 * time.Millisecond)

	if _, ok := c.Get(); ok {
		t.Error("Get() returned a value past its TTL")
	}
}

func TestCacheClear(t *testing.T) {
	c := New[string](time.Minute)
	c.Set("value")
	c.Clear()

	if _, ok := c.Get(); ok {
		t.Error("Get() returned a value after Clear")
	}
}

func TestCacheSetRefreshes(t *testing.T) {
	c := New[int](30 * time.Millisecond)
	c.Set(1)
	time.Sleep(20 * time.Millisecond)
	c.Set(2)
	time.Sleep(20 * time.Millisecond)

	got, ok := c.Get()
	if !ok {
		t.Fatal("Get() = false, want the refreshed value to still be fresh")
	}
	if got != 2 {
		t.Errorf("Get() = %d, want 2", got)
	}
}

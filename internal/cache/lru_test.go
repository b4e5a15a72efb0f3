// Reelmatch - Movie Recommendations from Rating History
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

package cache

import (
	"strconv"
	"sync"
	"testing"
	"time"
)

func TestLRU_BasicOperations(t *testing.T) {
	cache := NewLRU[string, int](3, 0)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	for key, want := range map[string]int{"a": 1, "b": 2, "c": 3} {
		if got, found := cache.Get(key); !found || got != want {
			t.Errorf("Get(%q) = %d, %v, want %d, true", key, got, found, want)
		}
	}
	if cache.Len() != 3 {
		t.Errorf("Len() = %d, want 3", cache.Len())
	}
	if got, found := cache.Get("missing"); found || got != 0 {
		t.Errorf("Get(missing) = %d, %v, want zero value, false", got, found)
	}
}

func TestLRU_Eviction(t *testing.T) {
	cache := NewLRU[string, int](3, 0)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	// 'a' becomes most recently used, leaving 'b' as the eviction candidate.
	cache.Get("a")

	if evicted := cache.Add("d", 4); evicted != 1 {
		t.Errorf("Add(d) evicted %d, want 1", evicted)
	}
	if cache.Contains("b") {
		t.Error("expected 'b' to be evicted")
	}
	for _, key := range []string{"a", "c", "d"} {
		if !cache.Contains(key) {
			t.Errorf("expected %q to be present", key)
		}
	}
	if got := cache.Stats().Evictions; got != 1 {
		t.Errorf("Stats().Evictions = %d, want 1", got)
	}
}

func TestLRU_UpdateExisting(t *testing.T) {
	cache := NewLRU[string, int](2, 0)

	cache.Add("a", 1)
	cache.Add("b", 2)
	if evicted := cache.Add("a", 10); evicted != 0 {
		t.Errorf("Add(existing) evicted %d, want 0", evicted)
	}

	if cache.Len() != 2 {
		t.Errorf("Len() = %d, want 2", cache.Len())
	}
	if got, _ := cache.Get("a"); got != 10 {
		t.Errorf("Get(a) = %d, want 10", got)
	}

	// The update refreshed 'a', so 'b' goes first.
	cache.Add("c", 3)
	if cache.Contains("b") || !cache.Contains("a") {
		t.Error("expected 'b' evicted and 'a' kept")
	}
}

func TestLRU_TTLExpiration(t *testing.T) {
	cache := NewLRU[string, int](10, 50*time.Millisecond)

	cache.Add("a", 1)
	if _, found := cache.Get("a"); !found {
		t.Fatal("expected to find 'a' immediately")
	}

	time.Sleep(60 * time.Millisecond)

	if cache.Contains("a") {
		t.Error("Contains(a) = true after expiry")
	}
	if _, found := cache.Get("a"); found {
		t.Error("expected 'a' to be expired")
	}
	if cache.Len() != 0 {
		t.Errorf("Len() = %d, want 0 after lazy expiry", cache.Len())
	}
}

func TestLRU_NoTTLNeverExpires(t *testing.T) {
	cache := NewLRU[int, string](10, 0)
	cache.Add(1, "one")

	time.Sleep(10 * time.Millisecond)

	if removed := cache.CleanupExpired(); removed != 0 {
		t.Errorf("CleanupExpired() = %d, want 0", removed)
	}
	if got, found := cache.Get(1); !found || got != "one" {
		t.Errorf("Get(1) = %q, %v, want one, true", got, found)
	}
}

func TestLRU_CleanupExpired(t *testing.T) {
	cache := NewLRU[string, int](10, 50*time.Millisecond)

	cache.Add("a", 1)
	cache.Add("b", 2)
	cache.Add("c", 3)

	time.Sleep(60 * time.Millisecond)
	cache.Add("d", 4)

	if removed := cache.CleanupExpired(); removed != 3 {
		t.Errorf("CleanupExpired() = %d, want 3", removed)
	}
	if cache.Len() != 1 || !cache.Contains("d") {
		t.Errorf("Len() = %d, want only 'd' left", cache.Len())
	}
}

func TestLRU_RemoveAndClear(t *testing.T) {
	cache := NewLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Add("b", 2)

	if !cache.Remove("a") {
		t.Error("Remove(a) = false, want true")
	}
	if cache.Remove("a") {
		t.Error("Remove(a) twice = true, want false")
	}

	cache.Add("c", 3)
	cache.Clear()
	if cache.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", cache.Len())
	}

	// The list must still be usable after Clear.
	cache.Add("d", 4)
	if got, found := cache.Get("d"); !found || got != 4 {
		t.Errorf("Get(d) after Clear = %d, %v", got, found)
	}
}

func TestLRU_Stats(t *testing.T) {
	cache := NewLRU[string, int](10, time.Minute)

	cache.Add("a", 1)
	cache.Get("a")
	cache.Get("a")
	cache.Get("nonexist")
	cache.Contains("nonexist")

	stats := cache.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Size != 1 || stats.Capacity != 10 {
		t.Errorf("Stats() = %+v, want 2 hits, 1 miss, size 1, capacity 10", stats)
	}
}

func TestNewLRU_Defaults(t *testing.T) {
	cache := NewLRU[string, int](0, -time.Second)
	if got := cache.Stats().Capacity; got != DefaultCapacity {
		t.Errorf("Capacity = %d, want %d", got, DefaultCapacity)
	}

	cache.Add("a", 1)
	if !cache.Contains("a") {
		t.Error("negative TTL should mean no expiry")
	}
}

func TestLRU_Concurrent(t *testing.T) {
	cache := NewLRU[string, int](50, time.Minute)

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				key := strconv.Itoa((id + j) % 80)
				cache.Add(key, j)
				cache.Get(key)
				cache.Contains(key)
			}
		}(i)
	}
	wg.Wait()

	if cache.Len() > 50 {
		t.Errorf("Len() = %d, exceeds capacity 50", cache.Len())
	}
	cache.Add("test", 1)
	if _, found := cache.Get("test"); !found {
		t.Error("cache should still work after concurrent access")
	}
}

func BenchmarkLRU_Add(b *testing.B) {
	cache := NewLRU[int, int](10000, 0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Add(i%20000, i)
	}
}

func BenchmarkLRU_Get(b *testing.B) {
	cache := NewLRU[int, int](10000, 0)
	for i := 0; i < 1000; i++ {
		cache.Add(i, i)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		cache.Get(i % 1000)
	}
}

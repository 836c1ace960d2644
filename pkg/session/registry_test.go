package session

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestRegistry(t *testing.T) {
	r := NewRegistry()

	if got := r.Get("conn-1"); got != nil {
		t.Fatalf("Get on empty registry = %v, want nil", got)
	}

	s := &Session{ID: "sess-1", UserEmail: "a@example.com", CreatedAt: time.Now()}
	r.Put("conn-1", s)

	if got := r.Get("conn-1"); got != s {
		t.Errorf("Get = %v, want %v", got, s)
	}
	if r.Count() != 1 {
		t.Errorf("Count = %d, want 1", r.Count())
	}

	r.Delete("conn-1")
	if got := r.Get("conn-1"); got != nil {
		t.Errorf("Get after Delete = %v, want nil", got)
	}
	if r.Count() != 0 {
		t.Errorf("Count after Delete = %d, want 0", r.Count())
	}
}

func TestRegistryKeys(t *testing.T) {
	r := NewRegistry()
	if got := r.Keys(); len(got) != 0 {
		t.Fatalf("Keys on empty registry = %v, want empty", got)
	}

	r.Put("conn-1", &Session{ID: "sess-1"})
	r.Put("conn-2", &Session{ID: "sess-2"})

	keys := r.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys = %v, want 2 entries", keys)
	}
	seen := map[string]bool{}
	for _, k := range keys {
		seen[k] = true
	}
	if !seen["conn-1"] || !seen["conn-2"] {
		t.Errorf("Keys = %v, want conn-1 and conn-2", keys)
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	r := NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("conn-%d", i)
			r.Put(id, &Session{ID: id})
			_ = r.Get(id)
			_ = r.Count()
		}(i)
	}
	wg.Wait()

	if r.Count() != 50 {
		t.Errorf("Count = %d, want 50", r.Count())
	}
}

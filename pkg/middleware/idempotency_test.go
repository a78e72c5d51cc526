package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestIdempotency_Replays2xxResponses(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusCreated)
		fmt.Fprintf(w, `{"call":%d}`, calls)
	})
	wrapped := Idempotency(store, "Idempotency-Key")(next)

	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		req.Header.Set("Idempotency-Key", "key-1")
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("request %d: expected 201, got %d", i, w.Code)
		}
		if w.Body.String() != `{"call":1}` {
			t.Errorf("request %d: expected first response replayed, got %s", i, w.Body.String())
		}
	}

	if calls != 1 {
		t.Errorf("expected handler invoked once, got %d", calls)
	}
}

func TestIdempotency_DoesNotCacheFailures(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusConflict)
			return
		}
		w.WriteHeader(http.StatusCreated)
	})
	wrapped := Idempotency(store, "Idempotency-Key")(next)

	first := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	first.Header.Set("Idempotency-Key", "key-1")
	w1 := httptest.NewRecorder()
	wrapped.ServeHTTP(w1, first)
	if w1.Code != http.StatusConflict {
		t.Fatalf("expected 409 on first attempt, got %d", w1.Code)
	}

	// The failed attempt is not cached, the retry reaches the handler.
	second := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
	second.Header.Set("Idempotency-Key", "key-1")
	w2 := httptest.NewRecorder()
	wrapped.ServeHTTP(w2, second)
	if w2.Code != http.StatusCreated {
		t.Fatalf("expected 201 on retry, got %d", w2.Code)
	}
	if calls != 2 {
		t.Errorf("expected handler invoked twice, got %d", calls)
	}
}

func TestIdempotency_NoKeyBypassesCache(t *testing.T) {
	store := NewInMemoryIdempotencyStore(time.Minute)
	defer store.Stop()

	calls := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusOK)
	})
	wrapped := Idempotency(store, "Idempotency-Key")(next)

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings", nil)
		w := httptest.NewRecorder()
		wrapped.ServeHTTP(w, req)
	}

	if calls != 2 {
		t.Errorf("expected every keyless request to reach the handler, got %d calls", calls)
	}
}

func TestInMemoryIdempotencyStore_TTLExpiry(t *testing.T) {
	store := NewInMemoryIdempotencyStore(10 * time.Millisecond)
	defer store.Stop()

	store.Set("key-1", &CachedResponse{StatusCode: http.StatusOK})

	if _, found := store.Get("key-1"); !found {
		t.Fatal("expected fresh entry to be found")
	}

	time.Sleep(20 * time.Millisecond)

	if _, found := store.Get("key-1"); found {
		t.Error("expected expired entry to be gone")
	}
}

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
)

type fakeIdempotencyStore struct {
	data map[string]string
}

func newFakeIdempotencyStore() *fakeIdempotencyStore {
	return &fakeIdempotencyStore{data: map[string]string{}}
}

func (f *fakeIdempotencyStore) Get(ctx context.Context, key string) (string, error) {
	value, ok := f.data[key]
	if !ok {
		return "", redis.Nil
	}
	return value, nil
}

func (f *fakeIdempotencyStore) SetNX(ctx context.Context, key string, value any, ttl time.Duration) (bool, error) {
	if _, exists := f.data[key]; exists {
		return false, nil
	}
	f.data[key] = fmt.Sprint(value)
	return true, nil
}

func (f *fakeIdempotencyStore) IdempotencyKey(scope, id string) string {
	return fmt.Sprintf("fake:%s:%s", scope, id)
}

func TestRouteTTLSelection(t *testing.T) {
	cases := []struct {
		name    string
		method  string
		path    string
		wantTTL time.Duration
		wantOK  bool
	}{
		{name: "order submission", method: http.MethodPost, path: "/api/v1/orders", wantTTL: criticalIdempotencyTTL, wantOK: true},
		{name: "order submission trailing slash", method: http.MethodPost, path: "/api/v1/orders/", wantTTL: criticalIdempotencyTTL, wantOK: true},
		{name: "order revision", method: http.MethodPut, path: "/api/v1/orders/0b5bafcd-5fb2-4b51-8457-2b0123456789", wantTTL: criticalIdempotencyTTL, wantOK: true},
		{name: "admin status change", method: http.MethodPost, path: "/api/admin/v1/orders/0b5bafcd-5fb2-4b51-8457-2b0123456789/status", wantTTL: defaultIdempotencyTTL, wantOK: true},
		{name: "order list not guarded", method: http.MethodGet, path: "/api/v1/orders", wantOK: false},
		{name: "cart not guarded", method: http.MethodPut, path: "/api/v1/customers/abc/cart", wantOK: false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ttl, ok := routeTTL(tc.method, tc.path)
			if ok != tc.wantOK {
				t.Fatalf("routeTTL(%s %s) ok = %v, want %v", tc.method, tc.path, ok, tc.wantOK)
			}
			if ok && ttl != tc.wantTTL {
				t.Fatalf("routeTTL(%s %s) ttl = %v, want %v", tc.method, tc.path, ttl, tc.wantTTL)
			}
		})
	}
}

func TestIdempotencyRequiresHeader(t *testing.T) {
	store := newFakeIdempotencyStore()
	called := false
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
	if called {
		t.Fatal("handler ran without an Idempotency-Key header")
	}
}

func TestIdempotencySkipsUnguardedRoutes(t *testing.T) {
	store := newFakeIdempotencyStore()
	called := false
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if !called {
		t.Fatal("handler should run for unguarded routes")
	}
	if len(store.data) != 0 {
		t.Fatalf("store has %d records, want 0", len(store.data))
	}
}

func TestIdempotencyStoresAndReplays(t *testing.T) {
	store := newFakeIdempotencyStore()
	calls := 0
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"abc"}`))
	}))

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{"customer_id":"c1"}`))
		req.Header.Set("Idempotency-Key", "submit-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	first := send()
	if first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusCreated)
	}
	if len(store.data) != 1 {
		t.Fatalf("store has %d records, want 1", len(store.data))
	}

	second := send()
	if calls != 1 {
		t.Fatalf("handler ran %d times, want 1", calls)
	}
	if second.Code != http.StatusCreated {
		t.Fatalf("replay status = %d, want %d", second.Code, http.StatusCreated)
	}
	if second.Body.String() != `{"id":"abc"}` {
		t.Fatalf("replay body = %q", second.Body.String())
	}
	if ct := second.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("replay content type = %q", ct)
	}
}

func TestIdempotencyRejectsReusedKeyWithDifferentBody(t *testing.T) {
	store := newFakeIdempotencyStore()
	handler := Idempotency(store, nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(body))
		req.Header.Set("Idempotency-Key", "submit-1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	if first := send(`{"customer_id":"c1"}`); first.Code != http.StatusCreated {
		t.Fatalf("first status = %d, want %d", first.Code, http.StatusCreated)
	}
	second := send(`{"customer_id":"c2"}`)
	if second.Code != http.StatusConflict {
		t.Fatalf("reused key status = %d, want %d", second.Code, http.StatusConflict)
	}
}

// Mounted as group middleware the way the router wires it, so matching must
// work before chi resolves the route.
func TestIdempotencyInsideRouterGroup(t *testing.T) {
	store := newFakeIdempotencyStore()
	called := false

	router := chi.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		r.Use(Idempotency(store, nil))
		r.Post("/orders", func(w http.ResponseWriter, r *http.Request) {
			called = true
			w.WriteHeader(http.StatusCreated)
			_, _ = w.Write([]byte(`{"id":"ord-1"}`))
		})
	})

	missing := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	missingRec := httptest.NewRecorder()
	router.ServeHTTP(missingRec, missing)
	if missingRec.Code != http.StatusBadRequest {
		t.Fatalf("status without key = %d, want %d", missingRec.Code, http.StatusBadRequest)
	}
	if called {
		t.Fatal("handler ran without an Idempotency-Key header")
	}

	keyed := httptest.NewRequest(http.MethodPost, "/api/v1/orders", strings.NewReader(`{}`))
	keyed.Header.Set("Idempotency-Key", "submit-1")
	keyedRec := httptest.NewRecorder()
	router.ServeHTTP(keyedRec, keyed)
	if keyedRec.Code != http.StatusCreated {
		t.Fatalf("status with key = %d, want %d", keyedRec.Code, http.StatusCreated)
	}
	if !called {
		t.Fatal("handler should run once the key is present")
	}
	if len(store.data) != 1 {
		t.Fatalf("store has %d records, want 1", len(store.data))
	}
}

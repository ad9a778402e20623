package backend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/vango-dev/todoview/pkg/todo"
)

func newTestServer(t *testing.T) (*httptest.Server, *Store) {
	t.Helper()
	store := openTestStore(t)
	if _, err := store.Seed(context.Background(), SeedRecords); err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	srv := httptest.NewServer(Router(store, nil))
	t.Cleanup(srv.Close)
	return srv, store
}

func TestRouterServesClient(t *testing.T) {
	srv, _ := newTestServer(t)

	for _, method := range []string{http.MethodGet, http.MethodPost} {
		t.Run(method, func(t *testing.T) {
			client, err := todo.NewHTTPClient(todo.ClientConfig{BaseURL: srv.URL, ToggleMethod: method})
			if err != nil {
				t.Fatalf("NewHTTPClient failed: %v", err)
			}
			ctx := context.Background()

			before, err := client.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if err := client.Toggle(ctx, 2); err != nil {
				t.Fatalf("Toggle failed: %v", err)
			}
			after, err := client.List(ctx)
			if err != nil {
				t.Fatalf("List failed: %v", err)
			}
			if after[2].Completed == before[2].Completed {
				t.Error("expected item 2 to flip")
			}
		})
	}
}

func TestRouterErrors(t *testing.T) {
	srv, _ := newTestServer(t)

	tests := []struct {
		method string
		path   string
		want   int
	}{
		{http.MethodGet, "/toggle/abc", http.StatusBadRequest},
		{http.MethodGet, "/toggle/1000", http.StatusNotFound},
		{http.MethodDelete, "/toggle/1", http.StatusMethodNotAllowed},
		{http.MethodGet, "/healthz", http.StatusOK},
	}

	for _, tt := range tests {
		req, err := http.NewRequest(tt.method, srv.URL+tt.path, nil)
		if err != nil {
			t.Fatalf("NewRequest failed: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("%s %s failed: %v", tt.method, tt.path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != tt.want {
			t.Errorf("%s %s = %d, want %d", tt.method, tt.path, resp.StatusCode, tt.want)
		}
	}
}

func TestRouterCORS(t *testing.T) {
	srv, _ := newTestServer(t)

	preflight, err := http.NewRequest(http.MethodOptions, srv.URL+"/toggle/1", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	preflight.Header.Set("Origin", "http://localhost:3000")
	preflight.Header.Set("Access-Control-Request-Method", http.MethodPost)

	resp, err := http.DefaultClient.Do(preflight)
	if err != nil {
		t.Fatalf("preflight failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("preflight status = %d, want %d", resp.StatusCode, http.StatusOK)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := resp.Header.Get("Access-Control-Allow-Methods"); got != http.MethodPost {
		t.Errorf("Access-Control-Allow-Methods = %q, want POST", got)
	}

	get, err := http.NewRequest(http.MethodGet, srv.URL+"/todos", nil)
	if err != nil {
		t.Fatalf("NewRequest failed: %v", err)
	}
	get.Header.Set("Origin", "http://localhost:3000")
	resp, err = http.DefaultClient.Do(get)
	if err != nil {
		t.Fatalf("GET /todos failed: %v", err)
	}
	resp.Body.Close()
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin on GET = %q, want *", got)
	}
}

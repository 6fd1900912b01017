package news

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func TestTopHeadlines(t *testing.T) {
	var gotCategory, gotKey string
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		gotCategory = r.URL.Query().Get("category")
		gotKey = r.Header.Get("X-Api-Key")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status": "ok",
			"articles": []map[string]string{
				{"title": "first"},
				{"title": ""},
				{"title": "second"},
				{"title": "third"},
				{"title": "fourth"},
			},
		})
	})

	c := New(Options{APIKey: "secret", BaseURL: srv.URL})
	headlines, err := c.TopHeadlines(context.Background(), "technology")
	if err != nil {
		t.Fatalf("TopHeadlines returned %v", err)
	}

	if gotCategory != "technology" {
		t.Errorf("category sent = %q, want technology", gotCategory)
	}
	if gotKey != "secret" {
		t.Errorf("api key header = %q, want secret", gotKey)
	}
	// Empty titles are skipped and the count is capped at three.
	want := []string{"first", "second", "third"}
	if len(headlines) != len(want) {
		t.Fatalf("headlines = %v, want %v", headlines, want)
	}
	for i := range want {
		if headlines[i] != want[i] {
			t.Errorf("headlines[%d] = %q, want %q", i, headlines[i], want[i])
		}
	}
}

func TestTopHeadlines_Disabled(t *testing.T) {
	c := New(Options{APIKey: ""})
	_, err := c.TopHeadlines(context.Background(), "general")
	if !errors.Is(err, ErrDisabled) {
		t.Errorf("err = %v, want ErrDisabled", err)
	}
}

func TestTopHeadlines_ServerError(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream broke", http.StatusBadGateway)
	})

	c := New(Options{APIKey: "secret", BaseURL: srv.URL})
	_, err := c.TopHeadlines(context.Background(), "general")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestTopHeadlines_NoArticles(t *testing.T) {
	srv := newTestServer(t, func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]any{"status": "ok", "articles": []any{}})
	})

	c := New(Options{APIKey: "secret", BaseURL: srv.URL})
	_, err := c.TopHeadlines(context.Background(), "general")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

func TestTopHeadlines_Unreachable(t *testing.T) {
	c := New(Options{APIKey: "secret", BaseURL: "http://127.0.0.1:1"})
	_, err := c.TopHeadlines(context.Background(), "general")
	if !errors.Is(err, ErrUnavailable) {
		t.Errorf("err = %v, want ErrUnavailable", err)
	}
}

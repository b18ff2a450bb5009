// ABOUTME: Tests for the content service HTTP client
// ABOUTME: Uses httptest to check routing, cursor encoding, patch bodies and error mapping

package source

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/harper/newsense/internal/models"
)

func TestHTTPClient_ListItemsAllScope(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/items" {
			t.Errorf("expected /items, got %s", r.URL.Path)
		}
		if got := r.URL.Query().Get("limit"); got != "20" {
			t.Errorf("expected limit 20, got %q", got)
		}
		if r.URL.Query().Has("before") {
			t.Error("expected first page to carry no cursor")
		}
		if r.Header.Get("X-Correlation-Id") == "" {
			t.Error("expected correlation id header")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":"a","feed_ids":["f1"],"title":"A","link":"https://a","published_at":"2024-05-01T10:00:00Z","is_read":false,"liked":1}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "", server.Client())
	items, err := client.ListItems(context.Background(), models.AllScope, ListParams{})
	if err != nil {
		t.Fatalf("list items failed: %v", err)
	}
	if len(items) != 1 || items[0].ID != "a" || items[0].Liked != models.Liked {
		t.Fatalf("unexpected items: %+v", items)
	}
}

func TestHTTPClient_ListClustersFeedScopeWithCursor(t *testing.T) {
	before := time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feeds/feed-1/clusters" {
			t.Errorf("expected feed cluster path, got %s", r.URL.Path)
		}
		got, err := time.Parse(time.RFC3339Nano, r.URL.Query().Get("before"))
		if err != nil || !got.Equal(before) {
			t.Errorf("expected before=%s, got %q", before, r.URL.Query().Get("before"))
		}
		if r.URL.Query().Get("unread_only") != "true" {
			t.Error("expected unread_only=true")
		}
		_, _ = w.Write([]byte(`[{"id":"c1","sort_date":"2024-05-01T09:00:00Z","items":[{"id":"a"},{"id":"b"}]}]`))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "", server.Client())
	clusters, err := client.ListClusters(context.Background(), "feed-1", ListParams{Before: before, UnreadOnly: true})
	if err != nil {
		t.Fatalf("list clusters failed: %v", err)
	}
	if len(clusters) != 1 || len(clusters[0].Items) != 2 {
		t.Fatalf("unexpected clusters: %+v", clusters)
	}
}

func TestHTTPClient_UpdateItemStatusSendsPartialPatch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut || r.URL.Path != "/items/item-1/status" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer secret" {
			t.Errorf("expected bearer token, got %q", r.Header.Get("Authorization"))
		}
		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("invalid body: %v", err)
		}
		if _, ok := payload["is_read"]; ok {
			t.Error("expected is_read to be omitted from a like-only patch")
		}
		if payload["liked"] != float64(-1) {
			t.Errorf("expected liked=-1, got %v", payload["liked"])
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "secret", server.Client())
	if err := client.UpdateItemStatus(context.Background(), "item-1", models.LikePatch(models.Disliked)); err != nil {
		t.Fatalf("update failed: %v", err)
	}
}

func TestHTTPClient_MarkReadRoutes(t *testing.T) {
	var paths []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.Path)
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["since"] != "1970-01-01T00:00:00Z" {
			t.Errorf("unexpected since %q", body["since"])
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "", server.Client())
	ctx := context.Background()
	epoch := time.Unix(0, 0)
	for _, call := range []struct {
		scope     string
		clustered bool
	}{{models.AllScope, true}, {"f1", false}, {"f1", true}} {
		if err := client.MarkRead(ctx, call.scope, call.clustered, epoch); err != nil {
			t.Fatalf("mark read failed: %v", err)
		}
	}

	want := []string{"/items/read", "/feeds/f1/items/read", "/feeds/f1/clusters/read"}
	for i, p := range want {
		if paths[i] != p {
			t.Errorf("call %d: expected %s, got %s", i, p, paths[i])
		}
	}
}

func TestHTTPClient_ErrorIsNotRetried(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusServiceUnavailable)
		_, _ = w.Write([]byte("upstream down"))
	}))
	defer server.Close()

	client := NewHTTPClient(server.URL, "", "", server.Client())
	_, err := client.ListItems(context.Background(), "f1", ListParams{})
	if err == nil {
		t.Fatal("expected error for 503")
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		t.Fatalf("expected HTTPError, got %T: %v", err, err)
	}
	if httpErr.StatusCode != http.StatusServiceUnavailable || httpErr.Message != "upstream down" {
		t.Errorf("unexpected error fields: %+v", httpErr)
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("expected exactly one call, got %d", calls)
	}
}

func TestHTTPClient_ListSubscribedFeeds(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/feeds/subscribed" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		_, _ = w.Write([]byte(`[{"id":"f1","url":"https://one","title":"One"}]`))
	}))
	defer server.Close()

	client := NewHTTPClient("http://unused", server.URL, "", server.Client())
	feeds, err := client.ListSubscribedFeeds(context.Background())
	if err != nil {
		t.Fatalf("list feeds failed: %v", err)
	}
	if len(feeds) != 1 || feeds[0].DisplayTitle() != "One" {
		t.Fatalf("unexpected feeds: %+v", feeds)
	}

	noFeeds := NewHTTPClient(server.URL, "", "", server.Client())
	if _, err := noFeeds.ListSubscribedFeeds(context.Background()); err == nil {
		t.Error("expected error when feeds URL is not configured")
	}
}

// ABOUTME: JSON-over-HTTP client for the items and feeds services
// ABOUTME: Maps every non-2xx response to HTTPError; performs no automatic retries

package source

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harper/newsense/internal/models"
)

const maxErrorBody = 4096

// HTTPError is returned for any non-2xx response.
type HTTPError struct {
	StatusCode int
	Method     string
	Path       string
	Message    string
}

func (e *HTTPError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s %s: http %d", e.Method, e.Path, e.StatusCode)
}

// HTTPClient talks to the items service and, optionally, the feeds service.
type HTTPClient struct {
	itemsURL   string
	feedsURL   string
	token      string
	httpClient *http.Client
}

// NewHTTPClient creates a client. feedsURL may be empty when feed names are not needed.
func NewHTTPClient(itemsURL, feedsURL, token string, httpClient *http.Client) *HTTPClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 15 * time.Second}
	}
	return &HTTPClient{
		itemsURL:   strings.TrimRight(strings.TrimSpace(itemsURL), "/"),
		feedsURL:   strings.TrimRight(strings.TrimSpace(feedsURL), "/"),
		token:      strings.TrimSpace(token),
		httpClient: httpClient,
	}
}

var (
	_ Source        = (*HTTPClient)(nil)
	_ FeedDirectory = (*HTTPClient)(nil)
)

// ListItems implements Source.
func (c *HTTPClient) ListItems(ctx context.Context, scope string, params ListParams) ([]*models.Item, error) {
	var out []*models.Item
	path := scopedPath(scope, "items") + "?" + params.query().Encode()
	if err := c.doJSON(ctx, c.itemsURL, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}
	return out, nil
}

// ListClusters implements Source.
func (c *HTTPClient) ListClusters(ctx context.Context, scope string, params ListParams) ([]*models.Cluster, error) {
	var out []*models.Cluster
	path := scopedPath(scope, "clusters") + "?" + params.query().Encode()
	if err := c.doJSON(ctx, c.itemsURL, http.MethodGet, path, nil, &out); err != nil {
		return nil, fmt.Errorf("list clusters: %w", err)
	}
	return out, nil
}

// UpdateItemStatus implements Source.
func (c *HTTPClient) UpdateItemStatus(ctx context.Context, itemID string, patch models.StatusPatch) error {
	path := "/items/" + url.PathEscape(itemID) + "/status"
	if err := c.doJSON(ctx, c.itemsURL, http.MethodPut, path, patch, nil); err != nil {
		return fmt.Errorf("update item status: %w", err)
	}
	return nil
}

// UpdateClusterStatus implements Source.
func (c *HTTPClient) UpdateClusterStatus(ctx context.Context, clusterID string, patch models.StatusPatch) error {
	path := "/clusters/" + url.PathEscape(clusterID) + "/status"
	if err := c.doJSON(ctx, c.itemsURL, http.MethodPut, path, patch, nil); err != nil {
		return fmt.Errorf("update cluster status: %w", err)
	}
	return nil
}

// MarkRead implements Source. The aggregate scope has no cluster-specific
// endpoint; marking all items read covers every cluster as well.
func (c *HTTPClient) MarkRead(ctx context.Context, scope string, clustered bool, since time.Time) error {
	kind := "items"
	if clustered && scope != models.AllScope {
		kind = "clusters"
	}
	path := scopedPath(scope, kind) + "/read"
	body := map[string]string{"since": since.UTC().Format(time.RFC3339)}
	if err := c.doJSON(ctx, c.itemsURL, http.MethodPost, path, body, nil); err != nil {
		return fmt.Errorf("mark read: %w", err)
	}
	return nil
}

// ListSubscribedFeeds implements FeedDirectory.
func (c *HTTPClient) ListSubscribedFeeds(ctx context.Context) ([]*models.Feed, error) {
	if c.feedsURL == "" {
		return nil, fmt.Errorf("list subscribed feeds: feeds URL not configured")
	}
	var out []*models.Feed
	if err := c.doJSON(ctx, c.feedsURL, http.MethodGet, "/feeds/subscribed", nil, &out); err != nil {
		return nil, fmt.Errorf("list subscribed feeds: %w", err)
	}
	return out, nil
}

func (p ListParams) query() url.Values {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(p.PageSize()))
	if !p.Before.IsZero() {
		q.Set("before", p.Before.UTC().Format(time.RFC3339Nano))
	}
	if p.UnreadOnly {
		q.Set("unread_only", "true")
	}
	return q
}

func scopedPath(scope, kind string) string {
	if scope == "" || scope == models.AllScope {
		return "/" + kind
	}
	return "/feeds/" + url.PathEscape(scope) + "/" + kind
}

func (c *HTTPClient) doJSON(ctx context.Context, baseURL, method, requestPath string, body, out any) error {
	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequestWithContext(ctx, method, baseURL+requestPath, bodyReader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Correlation-Id", uuid.New().String())
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{
			StatusCode: resp.StatusCode,
			Method:     method,
			Path:       strings.SplitN(requestPath, "?", 2)[0],
			Message:    strings.TrimSpace(string(msg)),
		}
	}

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if len(bytes.TrimSpace(payload)) == 0 {
		return nil
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
